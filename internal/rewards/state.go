package rewards

import (
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/danielSanchezQ/catalyst-toolbox/internal/model"
)

// FundsStateKind tags a ProposalFundsState.
type FundsStateKind int

const (
	// StateExact: the proposal collected exactly the target ticket count.
	StateExact FundsStateKind = iota
	// StateUnfilled: fewer tickets than the target; part of the base reward
	// goes back into the pool.
	StateUnfilled
	// StateOverLoaded: more tickets than the target; payouts go through the lottery.
	StateOverLoaded
)

func (k FundsStateKind) String() string {
	switch k {
	case StateExact:
		return "exact"
	case StateUnfilled:
		return "unfilled"
	case StateOverLoaded:
		return "overloaded"
	default:
		return fmt.Sprintf("FundsStateKind(%d)", int(k))
	}
}

// ProposalFundsState classifies a proposal's review coverage. Reclaimed is
// only meaningful for StateUnfilled.
type ProposalFundsState struct {
	Kind      FundsStateKind
	Reclaimed Funds
}

// Exact returns the state of a proposal that hit its target.
func Exact() ProposalFundsState { return ProposalFundsState{Kind: StateExact} }

// Unfilled returns the state of an under-reviewed proposal that gives back reclaimed.
func Unfilled(reclaimed Funds) ProposalFundsState {
	return ProposalFundsState{Kind: StateUnfilled, Reclaimed: reclaimed}
}

// OverLoaded returns the state of an over-reviewed proposal.
func OverLoaded() ProposalFundsState { return ProposalFundsState{Kind: StateOverLoaded} }

func (s ProposalFundsState) String() string {
	if s.Kind == StateUnfilled {
		return fmt.Sprintf("unfilled(%s)", s.Reclaimed)
	}
	return s.Kind.String()
}

// ProposalReward is a proposal's state together with the funds it will pay
// out after redistribution and bonus.
type ProposalReward struct {
	State   ProposalFundsState
	Funds   Funds
	Tickets uint64
}

// FilledSlots sums the ticket weight of a proposal's reviews.
func FilledSlots(reviews []model.AdvisorReviewRow, slots ProposalRewardSlots) uint64 {
	var filled uint64
	for _, r := range reviews {
		filled += slots.Weight(r.Score)
	}
	return filled
}

// ProposalState classifies a proposal against the filled slot target. An
// unfilled proposal keeps the filled fraction of base and gives back the rest:
// with base 1000, target 10 and 4 tickets it keeps 400 and reclaims 600.
func ProposalState(reviews []model.AdvisorReviewRow, base Funds, slots ProposalRewardSlots) (ProposalFundsState, error) {
	if err := slots.Validate(); err != nil {
		return ProposalFundsState{}, err
	}

	filled := FilledSlots(reviews, slots)
	switch {
	case filled < slots.FilledSlots:
		return Unfilled(scaleByRatio(base, slots.FilledSlots-filled, slots.FilledSlots)), nil
	case filled == slots.FilledSlots:
		return Exact(), nil
	default:
		return OverLoaded(), nil
	}
}

// UnderbudgetSupplement pools every reclaimed amount and splits it evenly over
// all proposals, including the unfilled ones that will not receive it.
func UnderbudgetSupplement(states map[model.ProposalID]ProposalFundsState) (pool, supplement Funds, err error) {
	if len(states) == 0 {
		return decimal.Zero, decimal.Zero, ErrEmptyProposalSet
	}

	pool = decimal.Zero
	for _, s := range states {
		if s.Kind == StateUnfilled {
			pool = pool.Add(s.Reclaimed)
		}
	}
	return pool, divideByCount(pool, uint64(len(states))), nil
}

// FinalFunds applies redistribution and bonus to a proposal's base reward.
// Unfilled proposals keep base minus what they gave back and get no
// supplement; everyone else gets base plus supplement. Approved proposals
// add the bonus on top regardless of state.
func FinalFunds(state ProposalFundsState, base, supplement, bonus Funds, approved bool) Funds {
	var funds Funds
	switch state.Kind {
	case StateUnfilled:
		funds = base.Sub(state.Reclaimed)
	case StateExact, StateOverLoaded:
		funds = base.Add(supplement)
	default:
		panic(fmt.Sprintf("rewards: unhandled funds state %v", state.Kind))
	}
	if approved {
		funds = funds.Add(bonus)
	}
	return funds
}

// CalculateFundsPerProposal runs classification, redistribution and bonus for
// every proposal. All states are computed before any final amount is fixed
// because the supplement depends on all of them.
func CalculateFundsPerProposal(
	reviews model.ProposalsReviews,
	approved model.ApprovedProposals,
	funding FundSetting,
	slots ProposalRewardSlots,
) (map[model.ProposalID]ProposalReward, error) {
	if err := slots.Validate(); err != nil {
		return nil, err
	}
	base, err := funding.FundsPerProposal(uint64(len(reviews)))
	if err != nil {
		return nil, err
	}
	bonus := funding.BonusFundsPerProposal(uint64(len(approved)))

	states := make(map[model.ProposalID]ProposalFundsState, len(reviews))
	for id, rows := range reviews {
		st, err := ProposalState(rows, base, slots)
		if err != nil {
			return nil, err
		}
		states[id] = st
	}

	_, supplement, err := UnderbudgetSupplement(states)
	if err != nil {
		return nil, err
	}

	out := make(map[model.ProposalID]ProposalReward, len(states))
	for id, st := range states {
		out[id] = ProposalReward{
			State:   st,
			Funds:   FinalFunds(st, base, supplement, bonus, approved.Contains(id)),
			Tickets: FilledSlots(reviews[id], slots),
		}
	}
	return out, nil
}
