package rewards

import (
	"errors"
	"fmt"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/danielSanchezQ/catalyst-toolbox/internal/model"
)

func allFundsToProposals(total int64) FundSetting {
	return FundSetting{Total: decimal.NewFromInt(total), ProposalRatio: 100}
}

func TestCalculateCARewards_WorkedExample(t *testing.T) {
	t.Parallel()
	reviews := model.ProposalsReviews{"p": exactReviews("p", "A", "B")}

	got, err := CalculateCARewards(reviews, nil, allFundsToProposals(1000), testSlots(), 1)
	require.NoError(t, err)
	require.Len(t, got, 2)
	assertFunds(t, "600", got["A"])
	assertFunds(t, "400", got["B"])
	assertFunds(t, "1000", got.Total())
}

func TestCalculateCARewards_ConservationWhenAllExact(t *testing.T) {
	t.Parallel()
	reviews := model.ProposalsReviews{
		"p1": exactReviews("p1", "alice", "bob"),
		"p2": exactReviews("p2", "bob", "carol"),
		"p3": exactReviews("p3", "carol", "alice"),
	}

	got, err := CalculateCARewards(reviews, nil, allFundsToProposals(3000), testSlots(), 5)
	require.NoError(t, err)

	assertFunds(t, "3000", got.Total())
	assertFunds(t, "1000", got["alice"]) // 600 + 400
	assertFunds(t, "1000", got["bob"])   // 400 + 600
	assertFunds(t, "1000", got["carol"]) // 400 + 600
}

func TestCalculateCARewards_ConservationWithDefaultSlots(t *testing.T) {
	t.Parallel()
	reviews := model.ProposalsReviews{
		"p1": {excellent("p1", "a"), excellent("p1", "b"), excellent("p1", "c")},
		"p2": {excellent("p2", "a"), excellent("p2", "b"), excellent("p2", "c"), excellent("p2", "d")},
	}

	got, err := CalculateCARewards(reviews, nil, allFundsToProposals(1000), DefaultProposalRewardSlots(), 11)
	require.NoError(t, err)
	assertFunds(t, "1000", got.Total())
}

func TestCalculateCARewards_AggregatesAcrossProposals(t *testing.T) {
	t.Parallel()
	reviews := model.ProposalsReviews{
		"p1": exactReviews("p1", "alice", "bob"),
		"p2": {good("p2", "alice"), good("p2", "carol")},
	}

	got, err := CalculateCARewards(reviews, nil, allFundsToProposals(1000), testSlots(), 5)
	require.NoError(t, err)

	// p1 funds 650 (500 + 150 supplement); p2 keeps 200 and pays 40 per good review.
	assertFunds(t, "430", got["alice"]) // 390 + 40
	assertFunds(t, "260", got["bob"])
	assertFunds(t, "40", got["carol"])
}

func TestCalculateCARewards_OverloadedPaysTargetTickets(t *testing.T) {
	t.Parallel()
	var rows []model.AdvisorReviewRow
	for i := range 7 {
		rows = append(rows, excellent("p", fmt.Sprintf("ca-%d", i)))
	}
	reviews := model.ProposalsReviews{"p": rows}

	for seed := range uint64(10) {
		got, err := CalculateCARewards(reviews, nil, allFundsToProposals(1000), testSlots(), seed)
		require.NoError(t, err)
		// 21 tickets in the pool, 10 win at 100 each.
		assertFunds(t, "1000", got.Total())
		for ca, amount := range got {
			assert.True(t, amount.LessThanOrEqual(decimal.NewFromInt(300)), "%s paid beyond its tickets", ca)
		}
	}
}

func TestEngine_ResultIndependentOfWorkers(t *testing.T) {
	t.Parallel()
	reviews := model.ProposalsReviews{}
	for p := range 20 {
		id := fmt.Sprintf("p%02d", p)
		for r := range 3 + p%4 {
			reviews.Add(excellent(id, fmt.Sprintf("ca-%d", (p+r)%9)))
		}
	}
	funding := FundSetting{Total: decimal.NewFromInt(20000), ProposalRatio: 80, BonusRatio: 20}
	approved := model.NewApprovedProposals("p01", "p05", "p13")

	run := func(workers int) *Result {
		e, err := NewEngine(funding, testSlots(), WithSeed(31337), WithWorkers(workers), WithLogger(zap.NewNop()))
		require.NoError(t, err)
		res, err := e.Calculate(reviews, approved)
		require.NoError(t, err)
		return res
	}

	serial := run(1)
	parallel := run(8)
	assert.Equal(t, uint64(31337), serial.Seed)
	assert.NotEqual(t, serial.RunID, parallel.RunID)
	require.Len(t, parallel.Rewards, len(serial.Rewards))
	for ca, amount := range serial.Rewards {
		assert.True(t, amount.Equal(parallel.Rewards[ca]), "%s: %s vs %s", ca, amount, parallel.Rewards[ca])
	}
	assert.Len(t, serial.Proposals, 20)
}

func TestNewEngine_Validation(t *testing.T) {
	t.Parallel()

	slots := testSlots()
	slots.FilledSlots = 0
	_, err := NewEngine(allFundsToProposals(10), slots)
	assert.True(t, errors.Is(err, ErrZeroTargetSlots))

	_, err = NewEngine(FundSetting{Total: decimal.NewFromInt(10), ProposalRatio: 90, BonusRatio: 20}, testSlots())
	assert.True(t, errors.Is(err, ErrInvalidFundSetting))
}

func TestNewEngine_DrawsSeedWhenUnset(t *testing.T) {
	t.Parallel()
	e, err := NewEngine(allFundsToProposals(10), testSlots(), WithLogger(zap.NewNop()), WithWorkers(0))
	require.NoError(t, err)
	assert.Equal(t, 4, e.workers)

	res, err := e.Calculate(model.ProposalsReviews{"p": exactReviews("p", "a", "b")}, nil)
	require.NoError(t, err)
	assert.Equal(t, e.Seed(), res.Seed)
}

func TestEngine_EmptyReviews(t *testing.T) {
	t.Parallel()
	_, err := CalculateCARewards(model.ProposalsReviews{}, nil, allFundsToProposals(10), testSlots(), 1)
	assert.True(t, errors.Is(err, ErrEmptyProposalSet))
}
