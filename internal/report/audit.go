package report

import (
	"io"
	"sort"
	"time"

	"github.com/rotisserie/eris"
	"gopkg.in/yaml.v3"

	"github.com/danielSanchezQ/catalyst-toolbox/internal/rewards"
)

// Audit records everything needed to reproduce and check a payout run.
type Audit struct {
	RunID       string          `yaml:"run_id"`
	GeneratedAt time.Time       `yaml:"generated_at"`
	Seed        uint64          `yaml:"seed"`
	Funding     AuditFunding    `yaml:"funding"`
	Slots       AuditSlots      `yaml:"slots"`
	Totals      AuditTotals     `yaml:"totals"`
	Proposals   []AuditProposal `yaml:"proposals"`
}

// AuditFunding is the fund setting of the run.
type AuditFunding struct {
	Total         string `yaml:"total"`
	ProposalRatio uint8  `yaml:"proposal_ratio"`
	BonusRatio    uint8  `yaml:"bonus_ratio"`
}

// AuditSlots is the ticket configuration of the run.
type AuditSlots struct {
	Excellent uint64 `yaml:"excellent"`
	Good      uint64 `yaml:"good"`
	Filled    uint64 `yaml:"filled"`
}

// AuditTotals summarises the run.
type AuditTotals struct {
	Advisors    int    `yaml:"advisors"`
	Proposals   int    `yaml:"proposals"`
	Distributed string `yaml:"distributed"`
}

// AuditProposal is the state and final funds of one proposal.
type AuditProposal struct {
	ID        string `yaml:"id"`
	State     string `yaml:"state"`
	Tickets   uint64 `yaml:"tickets"`
	Reclaimed string `yaml:"reclaimed,omitempty"`
	Funds     string `yaml:"funds"`
}

// NewAudit builds the audit record of a run.
func NewAudit(res *rewards.Result, funding rewards.FundSetting, slots rewards.ProposalRewardSlots, now time.Time) Audit {
	a := Audit{
		RunID:       res.RunID,
		GeneratedAt: now.UTC(),
		Seed:        res.Seed,
		Funding: AuditFunding{
			Total:         funding.Total.String(),
			ProposalRatio: funding.ProposalRatio,
			BonusRatio:    funding.BonusRatio,
		},
		Slots: AuditSlots{
			Excellent: slots.ExcellentSlots,
			Good:      slots.GoodSlots,
			Filled:    slots.FilledSlots,
		},
		Totals: AuditTotals{
			Advisors:    len(res.Rewards),
			Proposals:   len(res.Proposals),
			Distributed: res.Rewards.Total().StringFixed(Decimals),
		},
	}

	for id, p := range res.Proposals {
		ap := AuditProposal{
			ID:      id,
			State:   p.State.Kind.String(),
			Tickets: p.Tickets,
			Funds:   p.Funds.StringFixed(Decimals),
		}
		if p.State.Kind == rewards.StateUnfilled {
			ap.Reclaimed = p.State.Reclaimed.StringFixed(Decimals)
		}
		a.Proposals = append(a.Proposals, ap)
	}
	sort.Slice(a.Proposals, func(i, j int) bool { return a.Proposals[i].ID < a.Proposals[j].ID })
	return a
}

// WriteAudit writes a as YAML.
func WriteAudit(w io.Writer, a Audit) error {
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(a); err != nil {
		return eris.Wrap(err, "report: encode audit")
	}
	return eris.Wrap(enc.Close(), "report: close audit encoder")
}
