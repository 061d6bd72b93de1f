package rewards

import (
	"math/rand/v2"

	"github.com/cespare/xxhash/v2"

	"github.com/danielSanchezQ/catalyst-toolbox/internal/model"
)

// LotteryDistribution draws winners tickets without replacement from the
// pool. Every remaining ticket is equally likely on each draw, so an advisor's
// chance is proportional to the tickets they still hold. If the pool holds no
// more tickets than winners, every ticket wins.
func LotteryDistribution(tickets TicketsDistribution, winners uint64, rng *rand.Rand) TicketsDistribution {
	advisors := tickets.Advisors()
	remaining := make(map[model.CommunityAdvisor]uint64, len(advisors))
	var total uint64
	for _, ca := range advisors {
		remaining[ca] = tickets[ca]
		total += tickets[ca]
	}

	won := make(TicketsDistribution)
	if total <= winners {
		for _, ca := range advisors {
			if tickets[ca] > 0 {
				won[ca] = tickets[ca]
			}
		}
		return won
	}

	for range winners {
		pick := rng.Uint64N(total)
		for _, ca := range advisors {
			held := remaining[ca]
			if pick < held {
				won[ca]++
				remaining[ca] = held - 1
				total--
				break
			}
			pick -= held
		}
	}
	return won
}

// proposalRand returns the lottery stream for one proposal. It only depends on
// the run seed and the proposal id, so results do not depend on the order or
// the goroutine in which proposals are processed.
func proposalRand(seed uint64, id model.ProposalID) *rand.Rand {
	return rand.New(rand.NewPCG(seed, xxhash.Sum64String(id)))
}
