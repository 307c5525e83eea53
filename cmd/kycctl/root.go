package main

import (
	"time"

	"github.com/spf13/cobra"

	"investogun/internal/platform/config"
)

func newRootCmd() *cobra.Command {
	cfg := config.FromEnv()

	cmd := &cobra.Command{
		Use:          "kycctl",
		Short:        "Submit KYC payloads and inspect reference data",
		SilenceUsage: true,
	}

	cmd.AddCommand(submitCmd(cfg.Webhook.URL, cfg.Webhook.Timeout))
	cmd.AddCommand(referenceCmd(cfg.ReferenceFile))
	return cmd
}

func durationFlagDefault(d time.Duration) time.Duration {
	if d <= 0 {
		return 30 * time.Second
	}
	return d
}
