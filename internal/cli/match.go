package cli

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/mcoot/wordrush/internal/api/request"
	"github.com/mcoot/wordrush/internal/api/response"
)

func newMatchCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "match",
		Short: "Match management commands",
	}

	cmd.AddCommand(newMatchCreateCmd())
	cmd.AddCommand(newMatchGetCmd())
	cmd.AddCommand(newMatchPeekCmd())
	cmd.AddCommand(newMatchHistoryCmd())
	cmd.AddCommand(newMatchRestartCmd())
	cmd.AddCommand(newMatchDeleteCmd())

	return cmd
}

func newMatchCreateCmd() *cobra.Command {
	var (
		teams    []string
		goal     string
		target   int
		maxSkips int
		penalty  int
		seconds  int
		seed     uint64
	)

	cmd := &cobra.Command{
		Use:   "create",
		Short: "Create a new match",
		RunE: func(cmd *cobra.Command, args []string) error {
			req := request.CreateMatchRequest{
				Teams:        teams,
				Goal:         goal,
				Target:       target,
				RoundSeconds: seconds,
			}
			if cmd.Flags().Changed("max-skips") {
				req.MaxSkips = &maxSkips
			}
			if cmd.Flags().Changed("penalty") {
				req.PenaltyPerSkip = &penalty
			}
			if cmd.Flags().Changed("seed") {
				req.Seed = &seed
			}

			var result response.CreateMatchResponse

			if err := client.Post("/api/v1/matches", req, &result); err != nil {
				return err
			}

			if err := cfg.SaveKey(result.Match.ID, result.HostKey); err != nil {
				return fmt.Errorf("match created but host key could not be saved: %w", err)
			}

			out := NewOutput(cfg.Output)
			out.Print(result)
			return nil
		},
	}

	cmd.Flags().StringSliceVar(&teams, "teams", nil, "Team names, in turn order (comma separated)")
	cmd.Flags().StringVar(&goal, "goal", "", "Goal type: target_words, target_score (default: server default)")
	cmd.Flags().IntVar(&target, "target", 0, "Goal target (default: server default)")
	cmd.Flags().IntVar(&maxSkips, "max-skips", 0, "Skips allowed per turn (default: server default)")
	cmd.Flags().IntVar(&penalty, "penalty", 0, "Points lost per skip (default: server default)")
	cmd.Flags().IntVar(&seconds, "seconds", 0, "Turn length in seconds (default: server default)")
	cmd.Flags().Uint64Var(&seed, "seed", 0, "Shuffle seed (default: random)")
	_ = cmd.MarkFlagRequired("teams")

	return cmd
}

func newMatchGetCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "get <id>",
		Short: "Get a match and its current state",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var result response.MatchResponse

			if err := client.Get(fmt.Sprintf("/api/v1/matches/%s", args[0]), &result); err != nil {
				return err
			}

			out := NewOutput(cfg.Output)
			out.Print(result)
			return nil
		},
	}
}

func newMatchPeekCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "peek <id>",
		Short: "Show the next word without using it (host only)",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := hostClient(args[0])
			if err != nil {
				return err
			}

			var result response.PeekResponse

			if err := c.Get(fmt.Sprintf("/api/v1/matches/%s/peek", args[0]), &result); err != nil {
				return err
			}

			out := NewOutput(cfg.Output)
			out.Print(result)
			return nil
		},
	}
}

func newMatchHistoryCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "history <id>",
		Short: "List the recorded turns of a match",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var result response.HistoryResponse

			if err := client.Get(fmt.Sprintf("/api/v1/matches/%s/history", args[0]), &result); err != nil {
				return err
			}

			out := NewOutput(cfg.Output)
			out.Print(result)
			return nil
		},
	}
}

func newMatchRestartCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "restart <id>",
		Short: "Start the match over with a new word order (host only)",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runHostCommand(args[0], "restart")
		},
	}
}

func newMatchDeleteCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "delete <id>",
		Short: "Close a match (host only)",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := hostClient(args[0])
			if err != nil {
				return err
			}

			// A match that is already closed still leaves a stale key behind
			err = c.Delete(fmt.Sprintf("/api/v1/matches/%s", args[0]))
			if err != nil && !IsCode(err, "MATCH_CLOSED") {
				return err
			}
			if err := cfg.ForgetKey(args[0]); err != nil && cfg.Verbose {
				NewOutput(cfg.Output).PrintError(err)
			}

			out := NewOutput(cfg.Output)
			out.PrintMessage("Match closed")
			return nil
		},
	}
}

// runHostCommand posts a host command and prints the resulting state
func runHostCommand(matchID, action string, body ...any) error {
	c, err := hostClient(matchID)
	if err != nil {
		return err
	}

	var reqBody any
	if len(body) > 0 {
		reqBody = body[0]
	}

	var result response.StateResponse

	path := fmt.Sprintf("/api/v1/matches/%s/%s", matchID, strings.TrimPrefix(action, "/"))
	if err := c.Post(path, reqBody, &result); err != nil {
		return err
	}

	out := NewOutput(cfg.Output)
	out.Print(result.State)
	return nil
}
