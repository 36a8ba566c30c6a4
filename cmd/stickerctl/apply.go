package main

import (
	"fmt"
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/inamate/stickers/internal/boardfile"
	"github.com/inamate/stickers/internal/engine"
)

var (
	applyWrite    bool
	applyContinue bool
)

type applyResult struct {
	Index  int              `json:"index"`
	Type   string           `json:"type"`
	Result *engine.OpResult `json:"result,omitempty"`
	Error  string           `json:"error,omitempty"`
}

var applyCmd = &cobra.Command{
	Use:   "apply [board] [operations]",
	Short: "Replay a list of operations against a board",
	Long: `Apply runs each operation in the operations file, in order, and prints
what happened to each. With --write the edited board replaces the input.`,
	Args: cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		boardPath, opsPath := args[0], args[1]

		eng, err := loadEngine(boardPath)
		if err != nil {
			return err
		}
		ops, err := boardfile.LoadOperations(opsPath)
		if err != nil {
			return err
		}

		results := make([]applyResult, 0, len(ops))
		var failed int
		for i, op := range ops {
			r := applyResult{Index: i, Type: op.Type}
			res, err := eng.Apply(op)
			if err != nil {
				failed++
				r.Error = err.Error()
				slog.Debug("operation failed", "index", i, "type", op.Type, "error", err)
				results = append(results, r)
				if !applyContinue {
					break
				}
				continue
			}
			r.Result = &res
			results = append(results, r)
		}

		if err := writeOutput(cmd, results); err != nil {
			return err
		}
		if failed > 0 && !applyContinue {
			return fmt.Errorf("operation %d failed; board not written", len(results)-1)
		}
		if applyWrite {
			return boardfile.Save(boardPath, eng.Document())
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(applyCmd)
	applyCmd.Flags().BoolVarP(&applyWrite, "write", "w", false, "Save the edited board back to its file")
	applyCmd.Flags().BoolVar(&applyContinue, "keep-going", false, "Skip failed operations instead of stopping")
}
