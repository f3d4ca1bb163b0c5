package cli

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"
)

func newTurnCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "turn",
		Short: "Turn commands (host only)",
	}

	cmd.AddCommand(newTurnActionCmd("start", "Start the pending team's turn", "turn/start"))
	cmd.AddCommand(newTurnActionCmd("correct", "Mark the current word as guessed", "turn/correct"))
	cmd.AddCommand(newTurnActionCmd("skip", "Skip the current word", "turn/skip"))
	cmd.AddCommand(newTurnActionCmd("next", "Move on from a finished turn", "turn/next"))
	cmd.AddCommand(newTurnOverrideCmd())

	return cmd
}

func newTurnActionCmd(name, short, action string) *cobra.Command {
	return &cobra.Command{
		Use:   name + " <id>",
		Short: short,
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runHostCommand(args[0], action)
		},
	}
}

func newTurnOverrideCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "override <id> <index> <correct|skip>",
		Short: "Correct one outcome of the finished turn",
		Args:  cobra.ExactArgs(3),
		RunE: func(cmd *cobra.Command, args []string) error {
			index, err := strconv.Atoi(args[1])
			if err != nil || index < 0 {
				return fmt.Errorf("invalid index %q", args[1])
			}

			correct, err := parseResult(args[2])
			if err != nil {
				return err
			}

			return runHostCommand(args[0], fmt.Sprintf("turn/outcomes/%d", index), map[string]bool{"correct": correct})
		},
	}
}

func parseResult(s string) (bool, error) {
	switch s {
	case "correct":
		return true, nil
	case "skip", "skipped":
		return false, nil
	default:
		return false, fmt.Errorf("result must be correct or skip, got %q", s)
	}
}
