package main

import (
	"github.com/spf13/cobra"

	"github.com/inamate/stickers/internal/boardfile"
	"github.com/inamate/stickers/internal/document"
	"github.com/inamate/stickers/internal/typeid"
)

var sampleFile string

var sampleCmd = &cobra.Command{
	Use:   "sample",
	Short: "Print or save a sample board with two stickers",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		doc := document.NewSampleBoard(typeid.NewBoardID())
		if sampleFile != "" {
			return boardfile.Save(sampleFile, doc)
		}
		return writeOutput(cmd, doc)
	},
}

func init() {
	rootCmd.AddCommand(sampleCmd)
	sampleCmd.Flags().StringVarP(&sampleFile, "file", "f", "", "Write the board to this file instead of stdout")
}
