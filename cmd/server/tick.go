package main

import (
	"time"

	"github.com/spf13/cobra"

	"unionhub/pkg/requestcontext"
)

func init() {
	rootCmd.AddCommand(tickCmd)
}

var tickCmd = &cobra.Command{
	Use:   "tick",
	Short: "Apply due election window transitions once",
	Long:  "Advances elections whose nomination windows have opened or closed. Safe to run repeatedly, e.g. from cron.",
	RunE: func(cmd *cobra.Command, _ []string) error {
		ctx := cmd.Context()
		cfg, log, err := loadConfig()
		if err != nil {
			return err
		}
		a, err := buildApp(ctx, cfg, log)
		if err != nil {
			return err
		}
		defer a.close()

		n, err := a.elections.Tick(requestcontext.WithTime(ctx, time.Now().UTC()))
		if err != nil {
			return err
		}
		log.InfoContext(ctx, "tick complete", "advanced", n)
		return nil
	},
}
