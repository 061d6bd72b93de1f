package rewards

import (
	"github.com/rotisserie/eris"
	"github.com/shopspring/decimal"

	"github.com/danielSanchezQ/catalyst-toolbox/internal/model"
)

// FundSetting splits the advisor pool into a base share, paid evenly per
// proposal, and a bonus share, paid evenly per approved proposal. Ratios are
// percentages of Total.
type FundSetting struct {
	Total         Funds
	ProposalRatio uint8
	BonusRatio    uint8
}

// Validate checks the ratios and pool size.
func (s FundSetting) Validate() error {
	if s.Total.IsNegative() {
		return eris.Wrapf(ErrInvalidFundSetting, "total %s is negative", s.Total)
	}
	if s.ProposalRatio > 100 || s.BonusRatio > 100 {
		return eris.Wrapf(ErrInvalidFundSetting, "ratios must be percentages (proposal=%d bonus=%d)", s.ProposalRatio, s.BonusRatio)
	}
	if int(s.ProposalRatio)+int(s.BonusRatio) > 100 {
		return eris.Wrapf(ErrInvalidFundSetting, "proposal and bonus ratios add up to %d%%", int(s.ProposalRatio)+int(s.BonusRatio))
	}
	return nil
}

// ProposalFunds is the part of the pool shared by all proposals.
func (s FundSetting) ProposalFunds() Funds {
	return scaleByRatio(s.Total, uint64(s.ProposalRatio), 100)
}

// BonusFunds is the part of the pool shared by approved proposals.
func (s FundSetting) BonusFunds() Funds {
	return scaleByRatio(s.Total, uint64(s.BonusRatio), 100)
}

// FundsPerProposal is the base reward of each of n proposals.
func (s FundSetting) FundsPerProposal(n uint64) (Funds, error) {
	if n == 0 {
		return decimal.Zero, ErrEmptyProposalSet
	}
	return divideByCount(s.ProposalFunds(), n), nil
}

// BonusFundsPerProposal is the bonus of each of n approved proposals. With no
// approved proposals nobody collects a bonus, so it is zero.
func (s FundSetting) BonusFundsPerProposal(n uint64) Funds {
	if n == 0 {
		return decimal.Zero
	}
	return divideByCount(s.BonusFunds(), n)
}

// ProposalRewardSlots sets how many tickets each review tier is worth and how
// many tickets a fully reviewed proposal is expected to collect.
type ProposalRewardSlots struct {
	ExcellentSlots uint64
	GoodSlots      uint64
	FilledSlots    uint64
}

// DefaultProposalRewardSlots returns the round defaults: one excellent review
// is worth three good ones, and three excellent reviews fill a proposal.
func DefaultProposalRewardSlots() ProposalRewardSlots {
	return ProposalRewardSlots{
		ExcellentSlots: 12,
		GoodSlots:      4,
		FilledSlots:    36,
	}
}

// Validate rejects a zero target, which would make every per-ticket amount a
// division by zero.
func (s ProposalRewardSlots) Validate() error {
	if s.FilledSlots == 0 {
		return ErrZeroTargetSlots
	}
	return nil
}

// Weight returns the tickets a review of the given score is worth.
func (s ProposalRewardSlots) Weight(score model.ReviewScore) uint64 {
	switch score {
	case model.ScoreExcellent:
		return s.ExcellentSlots
	case model.ScoreGood:
		return s.GoodSlots
	default:
		return 0
	}
}
