package rewards

import "github.com/rotisserie/eris"

var (
	// ErrZeroTargetSlots is returned when the filled slot target is zero.
	ErrZeroTargetSlots = eris.New("rewards: filled slots must be greater than zero")

	// ErrEmptyProposalSet is returned when funds would be split over no proposals.
	ErrEmptyProposalSet = eris.New("rewards: no proposals to distribute funds over")

	// ErrInvalidFundSetting is returned for out-of-range pool ratios or a negative pool.
	ErrInvalidFundSetting = eris.New("rewards: invalid fund setting")
)
