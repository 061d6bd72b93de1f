package rewards

import (
	"errors"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/danielSanchezQ/catalyst-toolbox/internal/model"
)

func TestProposalState(t *testing.T) {
	t.Parallel()
	base := decimal.NewFromInt(1000)

	tests := []struct {
		name          string
		reviews       []model.AdvisorReviewRow
		wantKind      FundsStateKind
		wantReclaimed string
	}{
		{
			name:     "exact",
			reviews:  exactReviews("p", "a", "b"),
			wantKind: StateExact,
		},
		{
			name:          "unfilled keeps the filled fraction",
			reviews:       []model.AdvisorReviewRow{good("p", "a"), good("p", "b")},
			wantKind:      StateUnfilled,
			wantReclaimed: "600",
		},
		{
			name:          "no reviews reclaims everything",
			reviews:       nil,
			wantKind:      StateUnfilled,
			wantReclaimed: "1000",
		},
		{
			name: "overloaded",
			reviews: []model.AdvisorReviewRow{
				excellent("p", "a"), excellent("p", "b"), excellent("p", "c"), excellent("p", "d"),
			},
			wantKind: StateOverLoaded,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			st, err := ProposalState(tt.reviews, base, testSlots())
			require.NoError(t, err)
			assert.Equal(t, tt.wantKind, st.Kind)
			if tt.wantKind == StateUnfilled {
				assertFunds(t, tt.wantReclaimed, st.Reclaimed)
			}
		})
	}
}

func TestProposalState_ZeroTarget(t *testing.T) {
	t.Parallel()
	slots := testSlots()
	slots.FilledSlots = 0

	_, err := ProposalState(exactReviews("p", "a", "b"), decimal.NewFromInt(1000), slots)
	assert.True(t, errors.Is(err, ErrZeroTargetSlots))
}

func TestFinalFunds_ReclaimCorrectness(t *testing.T) {
	t.Parallel()
	base := decimal.NewFromInt(1000)
	st, err := ProposalState([]model.AdvisorReviewRow{good("p", "a"), good("p", "b")}, base, testSlots())
	require.NoError(t, err)

	// The supplement never reaches an unfilled proposal.
	got := FinalFunds(st, base, decimal.NewFromInt(77), decimal.Zero, false)
	assertFunds(t, "400", got)
}

func TestFinalFunds_BonusAdditivity(t *testing.T) {
	t.Parallel()
	base := decimal.NewFromInt(1000)
	supplement := decimal.NewFromInt(25)
	bonus := decimal.NewFromInt(300)

	for _, st := range []ProposalFundsState{Exact(), OverLoaded(), Unfilled(decimal.NewFromInt(600))} {
		plain := FinalFunds(st, base, supplement, bonus, false)
		approved := FinalFunds(st, base, supplement, bonus, true)
		assertFunds(t, "300", approved.Sub(plain))
	}
}

func TestUnderbudgetSupplement(t *testing.T) {
	t.Parallel()
	states := map[model.ProposalID]ProposalFundsState{
		"p1": Unfilled(decimal.NewFromInt(300)),
		"p2": Unfilled(decimal.NewFromInt(100)),
		"p3": Exact(),
		"p4": OverLoaded(),
	}

	pool, supplement, err := UnderbudgetSupplement(states)
	require.NoError(t, err)
	assertFunds(t, "400", pool)
	// Split over all four proposals, not just the two that receive it.
	assertFunds(t, "100", supplement)

	_, _, err = UnderbudgetSupplement(nil)
	assert.True(t, errors.Is(err, ErrEmptyProposalSet))
}

func TestCalculateFundsPerProposal(t *testing.T) {
	t.Parallel()
	reviews := model.ProposalsReviews{
		"p1": exactReviews("p1", "a", "b"),
		"p2": {good("p2", "a"), good("p2", "c")},
	}

	t.Run("redistribution without bonus", func(t *testing.T) {
		funding := FundSetting{Total: decimal.NewFromInt(1000), ProposalRatio: 100}
		got, err := CalculateFundsPerProposal(reviews, nil, funding, testSlots())
		require.NoError(t, err)
		require.Len(t, got, 2)

		// base 500; p2 reclaims 300, split over two proposals = 150 each.
		assert.Equal(t, StateExact, got["p1"].State.Kind)
		assertFunds(t, "650", got["p1"].Funds)
		assert.Equal(t, uint64(10), got["p1"].Tickets)

		assert.Equal(t, StateUnfilled, got["p2"].State.Kind)
		assertFunds(t, "300", got["p2"].State.Reclaimed)
		assertFunds(t, "200", got["p2"].Funds)
		assert.Equal(t, uint64(4), got["p2"].Tickets)
	})

	t.Run("bonus for approved proposal", func(t *testing.T) {
		funding := FundSetting{Total: decimal.NewFromInt(1000), ProposalRatio: 80, BonusRatio: 20}
		got, err := CalculateFundsPerProposal(reviews, model.NewApprovedProposals("p1"), funding, testSlots())
		require.NoError(t, err)

		// base 400; p2 reclaims 240, supplement 120; p1 gets the whole 200 bonus.
		assertFunds(t, "720", got["p1"].Funds)
		assertFunds(t, "160", got["p2"].Funds)
	})

	t.Run("empty proposal set", func(t *testing.T) {
		funding := FundSetting{Total: decimal.NewFromInt(1000), ProposalRatio: 100}
		_, err := CalculateFundsPerProposal(model.ProposalsReviews{}, nil, funding, testSlots())
		assert.True(t, errors.Is(err, ErrEmptyProposalSet))
	})

	t.Run("zero target", func(t *testing.T) {
		funding := FundSetting{Total: decimal.NewFromInt(1000), ProposalRatio: 100}
		slots := testSlots()
		slots.FilledSlots = 0
		_, err := CalculateFundsPerProposal(reviews, nil, funding, slots)
		assert.True(t, errors.Is(err, ErrZeroTargetSlots))
	})
}

func TestProposalFundsState_String(t *testing.T) {
	assert.Equal(t, "exact", Exact().String())
	assert.Equal(t, "overloaded", OverLoaded().String())
	assert.Equal(t, "unfilled(12.5)", Unfilled(decimal.RequireFromString("12.5")).String())
	assert.Equal(t, "FundsStateKind(9)", FundsStateKind(9).String())
}
