package main

import (
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/inamate/stickers/internal/boardfile"
)

var watchCmd = &cobra.Command{
	Use:   "watch [file]",
	Short: "Re-render a board each time its file changes",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		path := args[0]
		render := func() error {
			commands, err := renderFile(path)
			if err != nil {
				return err
			}
			return writeOutput(cmd, commands)
		}
		if err := render(); err != nil {
			return err
		}

		slog.Info("watching board", "path", path)
		return boardfile.Watch(cmd.Context(), path, render)
	},
}

func init() {
	rootCmd.AddCommand(watchCmd)
}
