package rewards

import (
	"sort"

	"github.com/danielSanchezQ/catalyst-toolbox/internal/model"
)

// TicketsDistribution maps each advisor to the tickets they hold in one proposal.
type TicketsDistribution map[model.CommunityAdvisor]uint64

// Total returns the number of tickets across all advisors.
func (t TicketsDistribution) Total() uint64 {
	var n uint64
	for _, c := range t {
		n += c
	}
	return n
}

// Advisors returns the advisors in ascending order.
func (t TicketsDistribution) Advisors() []model.CommunityAdvisor {
	out := make([]model.CommunityAdvisor, 0, len(t))
	for ca := range t {
		out = append(out, ca)
	}
	sort.Strings(out)
	return out
}

// LoadTicketsFromReviews credits each review's weight to its author. Several
// reviews by the same advisor accumulate.
func LoadTicketsFromReviews(reviews []model.AdvisorReviewRow, slots ProposalRewardSlots) TicketsDistribution {
	tickets := make(TicketsDistribution, len(reviews))
	for _, r := range reviews {
		tickets[r.Assessor] += slots.Weight(r.Score)
	}
	return tickets
}
