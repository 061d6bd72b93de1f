package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/danielSanchezQ/catalyst-toolbox/internal/config"
)

var cfg *config.Config

var rootCmd = &cobra.Command{
	Use:   "catalyst-toolbox",
	Short: "Funding round tooling for Project Catalyst",
	Long:  "Computes payouts for a Catalyst funding round from review and approval exports.",
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		c, err := config.Load()
		if err != nil {
			return fmt.Errorf("load config: %w", err)
		}
		cfg = c

		if err := config.InitLogger(cfg.Log); err != nil {
			return fmt.Errorf("init logger: %w", err)
		}

		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		_ = zap.L().Sync()
	},
}

var rewardsCmd = &cobra.Command{
	Use:   "rewards",
	Short: "Calculate funding round rewards",
}

func init() {
	rootCmd.AddCommand(rewardsCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
