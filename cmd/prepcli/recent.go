package main

import (
	"context"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var recentCmd = &cobra.Command{
	Use:   "recent",
	Short: "List the most recently stored sessions",
	RunE: func(cmd *cobra.Command, _ []string) error {
		return runRecent(cmd)
	},
}

func init() {
	rootCmd.AddCommand(recentCmd)

	recentCmd.Flags().IntP("limit", "n", 5, "maximum number of sessions")
}

func runRecent(cmd *cobra.Command) error {
	ctx := context.Background()

	e, err := setup(ctx)
	if err != nil {
		return err
	}
	defer e.logger.Sync()

	limit, _ := cmd.Flags().GetInt("limit")

	results, err := e.store.Recent(ctx, limit)
	if err != nil {
		return err
	}

	e.logger.Info("loaded recent sessions", zap.Int("results", len(results)))
	printSessions(results)
	return nil
}
