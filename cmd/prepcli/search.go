package main

import (
	"context"
	"fmt"
	"strings"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/linzhe/interview-forge/internal/model/interview"
)

var searchCmd = &cobra.Command{
	Use:   "search <query>",
	Short: "Search stored interview sessions",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return runSearch(cmd, strings.Join(args, " "))
	},
}

func init() {
	rootCmd.AddCommand(searchCmd)

	searchCmd.Flags().IntP("limit", "n", 10, "maximum number of results")
}

func runSearch(cmd *cobra.Command, query string) error {
	ctx := context.Background()

	e, err := setup(ctx)
	if err != nil {
		return err
	}
	defer e.logger.Sync()

	limit, _ := cmd.Flags().GetInt("limit")

	results, err := e.store.Search(ctx, query, limit)
	if err != nil {
		return err
	}

	e.logger.Info("search finished", zap.String("query", query), zap.Int("results", len(results)))
	printSessions(results)
	return nil
}

func printSessions(sessions []interview.Session) {
	if len(sessions) == 0 {
		fmt.Println("no sessions found")
		return
	}

	for _, session := range sessions {
		fmt.Printf("%s  %s / %s  (%s)\n",
			session.SessionID,
			session.JobRole,
			session.ExperienceLevel,
			session.Timestamp.Format("2006-01-02 15:04"),
		)
		for i, q := range session.Questions {
			fmt.Printf("  %2d. %s\n", i+1, q)
		}
		fmt.Println()
	}
}
