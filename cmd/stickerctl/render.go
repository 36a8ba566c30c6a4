package main

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/inamate/stickers/internal/boardfile"
	"github.com/inamate/stickers/internal/engine"
)

var renderCmd = &cobra.Command{
	Use:   "render [pattern...]",
	Short: "Print draw commands for one or more board files",
	Long: `Render compiles each matching board into draw commands. Patterns may
use ** to match across directories. With several files the output maps
each path to its commands.`,
	Args: cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		files, err := boardfile.Expand(args...)
		if err != nil {
			return err
		}

		out := make(map[string][]engine.DrawCommand, len(files))
		for _, path := range files {
			commands, err := renderFile(path)
			if err != nil {
				return err
			}
			out[path] = commands
		}

		if len(files) == 1 {
			return writeOutput(cmd, out[files[0]])
		}
		return writeOutput(cmd, out)
	},
}

func renderFile(path string) ([]engine.DrawCommand, error) {
	eng, err := loadEngine(path)
	if err != nil {
		return nil, err
	}
	var commands []engine.DrawCommand
	if err := json.Unmarshal([]byte(eng.Render()), &commands); err != nil {
		return nil, fmt.Errorf("render %s: %w", path, err)
	}
	return commands, nil
}

func init() {
	rootCmd.AddCommand(renderCmd)
}
