package rewards

import (
	"fmt"
	"math/rand/v2"

	"github.com/danielSanchezQ/catalyst-toolbox/internal/model"
)

// CaRewards maps advisors to the amount they are owed.
type CaRewards map[model.CommunityAdvisor]Rewards

// Add credits amount to ca.
func (r CaRewards) Add(ca model.CommunityAdvisor, amount Rewards) {
	if cur, ok := r[ca]; ok {
		r[ca] = cur.Add(amount)
		return
	}
	r[ca] = amount
}

// Merge adds every entry of other into r.
func (r CaRewards) Merge(other CaRewards) {
	for ca, amount := range other {
		r.Add(ca, amount)
	}
}

// Total sums all rewards.
func (r CaRewards) Total() Rewards {
	total := SumFunds()
	for _, amount := range r {
		total = total.Add(amount)
	}
	return total
}

// RewardPerTicket is what a single ticket of a proposal pays.
func RewardPerTicket(funds Funds, slots ProposalRewardSlots) Funds {
	return divideByCount(funds, slots.FilledSlots)
}

// DistributeRewards pays each advisor funds/target per ticket held. When the
// proposal is unfilled the tickets do not reach the target and part of funds
// stays undistributed.
func DistributeRewards(funds Funds, tickets TicketsDistribution, slots ProposalRewardSlots) CaRewards {
	return splitByTickets(funds, tickets, slots.FilledSlots)
}

// LotteryRewards pays exactly target tickets, picked by lottery. Only
// advisors holding a winning ticket appear in the result.
func LotteryRewards(funds Funds, tickets TicketsDistribution, slots ProposalRewardSlots, rng *rand.Rand) CaRewards {
	won := LotteryDistribution(tickets, slots.FilledSlots, rng)
	return splitByTickets(funds, won, slots.FilledSlots)
}

// splitByTickets pays funds*n/target for n tickets held. The payouts add up
// to exactly funds*paid/target, which is funds itself when paid equals target.
// The last advisor in Advisors order holding a ticket absorbs the rounding
// residue of the others.
func splitByTickets(funds Funds, tickets TicketsDistribution, target uint64) CaRewards {
	advisors := tickets.Advisors()
	out := make(CaRewards, len(advisors))

	last := -1
	for i, ca := range advisors {
		if tickets[ca] > 0 {
			last = i
		}
	}

	paid := tickets.Total()
	rest := funds
	if paid != target {
		rest = scaleByRatio(funds, paid, target)
	}
	for i, ca := range advisors {
		if i == last {
			continue
		}
		share := scaleByRatio(funds, tickets[ca], target)
		out[ca] = share
		rest = rest.Sub(share)
	}
	if last >= 0 {
		out[advisors[last]] = rest
	}
	return out
}

// CalculateCARewardsForProposal pays out one proposal's funds to its reviewers.
func CalculateCARewardsForProposal(
	reward ProposalReward,
	reviews []model.AdvisorReviewRow,
	slots ProposalRewardSlots,
	rng *rand.Rand,
) CaRewards {
	tickets := LoadTicketsFromReviews(reviews, slots)
	switch reward.State.Kind {
	case StateExact, StateUnfilled:
		return DistributeRewards(reward.Funds, tickets, slots)
	case StateOverLoaded:
		return LotteryRewards(reward.Funds, tickets, slots, rng)
	default:
		panic(fmt.Sprintf("rewards: unhandled funds state %v", reward.State.Kind))
	}
}
