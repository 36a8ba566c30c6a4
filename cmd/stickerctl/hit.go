package main

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"
)

var hitCmd = &cobra.Command{
	Use:   "hit [file] [x] [y]",
	Short: "Report the sticker or menu at a point",
	Args:  cobra.ExactArgs(3),
	RunE: func(cmd *cobra.Command, args []string) error {
		x, err := strconv.ParseFloat(args[1], 64)
		if err != nil {
			return fmt.Errorf("bad x: %w", err)
		}
		y, err := strconv.ParseFloat(args[2], 64)
		if err != nil {
			return fmt.Errorf("bad y: %w", err)
		}

		eng, err := loadEngine(args[0])
		if err != nil {
			return err
		}
		return writeOutput(cmd, eng.HitTest(x, y))
	},
}

func init() {
	rootCmd.AddCommand(hitCmd)
}
