package rewards

import (
	"fmt"
	"math/rand/v2"
	"sort"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/danielSanchezQ/catalyst-toolbox/internal/model"
)

// Option configures an Engine.
type Option func(*Engine)

// WithSeed fixes the lottery seed so a run can be reproduced.
func WithSeed(seed uint64) Option {
	return func(e *Engine) {
		e.seed = seed
		e.seeded = true
	}
}

// WithWorkers bounds how many proposals are paid out concurrently.
func WithWorkers(n int) Option {
	return func(e *Engine) {
		if n > 0 {
			e.workers = n
		}
	}
}

// WithLogger sets the logger. Defaults to zap.L().
func WithLogger(l *zap.Logger) Option {
	return func(e *Engine) {
		if l != nil {
			e.log = l
		}
	}
}

// Engine computes community advisor rewards for a funding round.
type Engine struct {
	funding FundSetting
	slots   ProposalRewardSlots
	seed    uint64
	seeded  bool
	workers int
	log     *zap.Logger
}

// NewEngine validates the configuration and returns an Engine. Without
// WithSeed a random seed is drawn; either way it is logged and returned in
// every Result.
func NewEngine(funding FundSetting, slots ProposalRewardSlots, opts ...Option) (*Engine, error) {
	if err := funding.Validate(); err != nil {
		return nil, err
	}
	if err := slots.Validate(); err != nil {
		return nil, err
	}

	e := &Engine{
		funding: funding,
		slots:   slots,
		workers: 4,
		log:     zap.L(),
	}
	for _, opt := range opts {
		opt(e)
	}
	if !e.seeded {
		e.seed = rand.Uint64()
	}
	return e, nil
}

// Seed returns the lottery seed the engine uses.
func (e *Engine) Seed() uint64 { return e.seed }

// Result is the outcome of one run.
type Result struct {
	RunID     string
	Seed      uint64
	Rewards   CaRewards
	Proposals map[model.ProposalID]ProposalReward
}

// Calculate distributes the pool over the reviewers in reviews.
func (e *Engine) Calculate(reviews model.ProposalsReviews, approved model.ApprovedProposals) (*Result, error) {
	runID := uuid.NewString()
	log := e.log.With(zap.String("run_id", runID))

	log.Info("calculating community advisor rewards",
		zap.Uint64("seed", e.seed),
		zap.Int("proposals", len(reviews)),
		zap.Int("reviews", reviews.Count()),
		zap.Int("approved", len(approved)),
		zap.String("total_funds", e.funding.Total.String()),
	)

	proposals, err := CalculateFundsPerProposal(reviews, approved, e.funding, e.slots)
	if err != nil {
		return nil, err
	}
	logStates(log, proposals)

	ids := make([]model.ProposalID, 0, len(reviews))
	for id := range reviews {
		ids = append(ids, id)
	}
	sort.Strings(ids)

	parts := make([]CaRewards, len(ids))
	var g errgroup.Group
	g.SetLimit(e.workers)
	for i, id := range ids {
		g.Go(func() error {
			reward, ok := proposals[id]
			if !ok {
				panic(fmt.Sprintf("rewards: no computed reward for proposal %q", id))
			}
			parts[i] = CalculateCARewardsForProposal(reward, reviews[id], e.slots, proposalRand(e.seed, id))
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	total := make(CaRewards)
	for _, p := range parts {
		total.Merge(p)
	}

	log.Info("community advisor rewards calculated",
		zap.Int("advisors", len(total)),
		zap.String("distributed", total.Total().String()),
	)

	return &Result{
		RunID:     runID,
		Seed:      e.seed,
		Rewards:   total,
		Proposals: proposals,
	}, nil
}

func logStates(log *zap.Logger, proposals map[model.ProposalID]ProposalReward) {
	counts := make(map[FundsStateKind]int, 3)
	pool := SumFunds()
	for _, p := range proposals {
		counts[p.State.Kind]++
		if p.State.Kind == StateUnfilled {
			pool = pool.Add(p.State.Reclaimed)
		}
	}
	log.Debug("proposal fund states",
		zap.Int("exact", counts[StateExact]),
		zap.Int("unfilled", counts[StateUnfilled]),
		zap.Int("overloaded", counts[StateOverLoaded]),
		zap.String("underbudget_pool", pool.String()),
	)
}

// CalculateCARewards is the functional form of Engine.Calculate with a fixed seed.
func CalculateCARewards(
	reviews model.ProposalsReviews,
	approved model.ApprovedProposals,
	funding FundSetting,
	slots ProposalRewardSlots,
	seed uint64,
) (CaRewards, error) {
	e, err := NewEngine(funding, slots, WithSeed(seed), WithLogger(zap.NewNop()))
	if err != nil {
		return nil, err
	}
	res, err := e.Calculate(reviews, approved)
	if err != nil {
		return nil, err
	}
	return res.Rewards, nil
}
