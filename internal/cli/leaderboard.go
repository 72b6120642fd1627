package cli

import (
	"fmt"
	"net/url"

	"github.com/spf13/cobra"
)

func newLeaderboardCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "leaderboard",
		Aliases: []string{"lb"},
		Short:   "Leaderboard operations",
	}

	cmd.AddCommand(newLeaderboardListCmd())
	cmd.AddCommand(newLeaderboardSubmitCmd())

	return cmd
}

func newLeaderboardListCmd() *cobra.Command {
	var sort string
	var limit int

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List leaderboard entries",
		RunE: func(cmd *cobra.Command, args []string) error {
			query := url.Values{}
			if sort != "" {
				query.Set("sort", sort)
			}
			if limit > 0 {
				query.Set("limit", fmt.Sprintf("%d", limit))
			}

			path := "/api/v1/leaderboard"
			if encoded := query.Encode(); encoded != "" {
				path += "?" + encoded
			}

			var result Leaderboard
			if err := client.Get(path, &result); err != nil {
				return err
			}

			out := NewOutput(cfg.Output)
			out.Print(result)
			return nil
		},
	}

	cmd.Flags().StringVar(&sort, "sort", "", "Sort order: score, time, date")
	cmd.Flags().IntVar(&limit, "limit", 0, "Maximum entries to list")

	return cmd
}

func newLeaderboardSubmitCmd() *cobra.Command {
	var name string
	var score int
	var elapsed float64

	cmd := &cobra.Command{
		Use:   "submit",
		Short: "Submit a finished-match result",
		RunE: func(cmd *cobra.Command, args []string) error {
			body := map[string]any{
				"display_name":    name,
				"score":           score,
				"elapsed_seconds": elapsed,
			}

			var result LeaderboardEntry
			if err := client.Post("/api/v1/leaderboard", body, &result); err != nil {
				return err
			}

			out := NewOutput(cfg.Output)
			out.Print(result)
			return nil
		},
	}

	cmd.Flags().StringVar(&name, "name", "", "Display name (required)")
	cmd.Flags().IntVar(&score, "score", 0, "Final score")
	cmd.Flags().Float64Var(&elapsed, "time", 0, "Elapsed time in seconds")
	_ = cmd.MarkFlagRequired("name")

	return cmd
}
