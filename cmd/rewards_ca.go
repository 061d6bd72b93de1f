package main

import (
	"io"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/danielSanchezQ/catalyst-toolbox/internal/config"
	"github.com/danielSanchezQ/catalyst-toolbox/internal/model"
	"github.com/danielSanchezQ/catalyst-toolbox/internal/report"
	"github.com/danielSanchezQ/catalyst-toolbox/internal/review"
	"github.com/danielSanchezQ/catalyst-toolbox/internal/rewards"
)

var communityAdvisorsCmd = &cobra.Command{
	Use:   "community-advisors",
	Short: "Calculate community advisor rewards",
	Long: `Distribute the community advisor pool over the advisors who reviewed the
round's proposals.

Each review earns its author tickets according to its score. A proposal whose
tickets fall short of --filled-slots gives back the unfilled share of its base
reward, which is spread over the fully reviewed proposals. A proposal with more
tickets than --filled-slots pays exactly that many tickets, picked by a
weighted lottery. Approved proposals add an equal share of the bonus pool.

The lottery seed is logged and written to the audit file. Pass it back with
--seed to reproduce a run.

Examples:
  # Rewards for a 500k ada pool, printed as CSV
  catalyst-toolbox rewards community-advisors --reviews assessments.xlsx \
    --approved approved.csv --funds 500000

  # Reproducible run with an audit trail
  catalyst-toolbox rewards community-advisors --reviews assessments.xlsx \
    --funds 500000 --seed 8912 --output rewards.csv --audit rewards-audit.yaml`,
	RunE: runCommunityAdvisors,
}

func init() {
	f := communityAdvisorsCmd.Flags()
	f.String("reviews", "", "review export, .xlsx or .csv (required)")
	f.String("approved", "", "CSV of approved proposal ids")
	f.StringSlice("sheets", nil, "workbook sheets holding reviews (overrides config)")
	f.String("funds", "", "total community advisor pool (overrides config)")
	f.Uint8("proposal-ratio", 0, "percent of the pool paid per proposal (overrides config)")
	f.Uint8("bonus-ratio", 0, "percent of the pool paid as approval bonus (overrides config)")
	f.Uint64("excellent-slots", 0, "tickets per excellent review (overrides config)")
	f.Uint64("good-slots", 0, "tickets per good review (overrides config)")
	f.Uint64("filled-slots", 0, "tickets a fully reviewed proposal collects (overrides config)")
	f.Uint64("seed", 0, "lottery seed (default: config, or drawn per run)")
	f.Int("workers", 0, "proposals paid out concurrently (overrides config)")
	f.String("output", "", "output file path (default: stdout)")
	f.String("format", "", "output format: csv or table (overrides config)")
	f.String("audit", "", "write a YAML audit record of the run to this path")
	_ = communityAdvisorsCmd.MarkFlagRequired("reviews")

	rewardsCmd.AddCommand(communityAdvisorsCmd)
}

func runCommunityAdvisors(cmd *cobra.Command, _ []string) error {
	ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	log := zap.L().With(zap.String("command", "rewards community-advisors"))

	c := applyRewardsOverrides(cmd, *cfg)
	if err := c.Validate("rewards"); err != nil {
		return err
	}
	funding, err := c.FundSetting()
	if err != nil {
		return err
	}

	reviewsPath, _ := cmd.Flags().GetString("reviews")
	approvedPath, _ := cmd.Flags().GetString("approved")
	outputPath, _ := cmd.Flags().GetString("output")
	auditPath, _ := cmd.Flags().GetString("audit")

	reviews, err := review.LoadReviews(ctx, reviewsPath, c.Input.Sheets, c.CSVOptions())
	if err != nil {
		return eris.Wrap(err, "community-advisors: load reviews")
	}

	approved := model.ApprovedProposals{}
	if approvedPath != "" {
		approved, err = review.LoadApproved(ctx, approvedPath, c.Input.ApprovedColumn, c.CSVOptions())
		if err != nil {
			return eris.Wrap(err, "community-advisors: load approved proposals")
		}
	} else {
		log.Warn("no approved proposals given, bonus pool will not be paid")
	}

	opts := []rewards.Option{
		rewards.WithWorkers(c.Rewards.Workers),
		rewards.WithLogger(log),
	}
	if seed, ok := resolveSeed(cmd, c); ok {
		opts = append(opts, rewards.WithSeed(seed))
	}

	engine, err := rewards.NewEngine(funding, c.RewardSlots(), opts...)
	if err != nil {
		return eris.Wrap(err, "community-advisors: configure engine")
	}
	res, err := engine.Calculate(reviews, approved)
	if err != nil {
		return eris.Wrap(err, "community-advisors: calculate")
	}

	if err := writeToPath(outputPath, func(w io.Writer) error {
		return report.Write(w, c.Output.Format, res.Rewards)
	}); err != nil {
		return err
	}

	if auditPath != "" {
		audit := report.NewAudit(res, funding, c.RewardSlots(), time.Now())
		if err := writeToPath(auditPath, func(w io.Writer) error {
			return report.WriteAudit(w, audit)
		}); err != nil {
			return err
		}
		log.Info("audit written", zap.String("path", auditPath), zap.String("run_id", res.RunID))
	}

	return nil
}

// applyRewardsOverrides returns a copy of the base config with CLI flag overrides applied.
func applyRewardsOverrides(cmd *cobra.Command, base config.Config) config.Config {
	c := base
	f := cmd.Flags()

	if v, _ := f.GetString("funds"); v != "" {
		c.Rewards.TotalFunds = v
	}
	if f.Changed("proposal-ratio") {
		c.Rewards.ProposalRatio, _ = f.GetUint8("proposal-ratio")
	}
	if f.Changed("bonus-ratio") {
		c.Rewards.BonusRatio, _ = f.GetUint8("bonus-ratio")
	}
	if f.Changed("excellent-slots") {
		c.Rewards.ExcellentSlots, _ = f.GetUint64("excellent-slots")
	}
	if f.Changed("good-slots") {
		c.Rewards.GoodSlots, _ = f.GetUint64("good-slots")
	}
	if f.Changed("filled-slots") {
		c.Rewards.FilledSlots, _ = f.GetUint64("filled-slots")
	}
	if v, _ := f.GetInt("workers"); v > 0 {
		c.Rewards.Workers = v
	}
	if v, _ := f.GetString("format"); v != "" {
		c.Output.Format = v
	}
	if v, _ := f.GetStringSlice("sheets"); len(v) > 0 {
		c.Input.Sheets = v
	}

	return c
}

// resolveSeed prefers an explicit --seed (zero included) over the config
// value. A zero config seed means none was chosen.
func resolveSeed(cmd *cobra.Command, c config.Config) (uint64, bool) {
	if cmd.Flags().Changed("seed") {
		seed, _ := cmd.Flags().GetUint64("seed")
		return seed, true
	}
	if c.Rewards.Seed != 0 {
		return c.Rewards.Seed, true
	}
	return 0, false
}

func writeToPath(path string, write func(io.Writer) error) error {
	if path == "" {
		return write(os.Stdout)
	}

	f, err := os.Create(path)
	if err != nil {
		return eris.Wrapf(err, "community-advisors: create output file %s", path)
	}
	if err := write(f); err != nil {
		_ = f.Close()
		return err
	}
	return eris.Wrapf(f.Close(), "community-advisors: close %s", path)
}
