package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"

	"github.com/spf13/cobra"

	"github.com/inamate/stickers/internal/boardfile"
	"github.com/inamate/stickers/internal/engine"
)

var (
	verbose      bool
	outputFormat string
	layerClock   string
)

var rootCmd = &cobra.Command{
	Use:   "stickerctl",
	Short: "Inspect and edit sticker board files offline",
	Long: `stickerctl loads board documents saved as JSON or YAML and runs the
same engine the server uses: render draw commands, hit test points and
replay operation lists.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		level := slog.LevelInfo
		if verbose {
			level = slog.LevelDebug
		}
		slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level})))

		_, err := boardfile.ParseFormat(outputFormat)
		return err
	},
}

// Execute adds all child commands to the root command and sets flags appropriately.
func Execute() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	if err := rootCmd.ExecuteContext(ctx); err != nil {
		stop()
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable verbose logging")
	rootCmd.PersistentFlags().StringVarP(&outputFormat, "output", "o", "json", "Output format: json or yaml")
	rootCmd.PersistentFlags().StringVar(&layerClock, "clock", "counter", "Layer clock for new keys: counter or wall")
}

func format() boardfile.Format {
	f, _ := boardfile.ParseFormat(outputFormat)
	return f
}

func writeOutput(cmd *cobra.Command, v any) error {
	return boardfile.Encode(cmd.OutOrStdout(), v, format())
}

// loadEngine opens a board file in a fresh engine.
func loadEngine(path string) (*engine.Engine, error) {
	doc, err := boardfile.Load(path)
	if err != nil {
		return nil, err
	}
	opts := []engine.BoardOption{engine.WithLogger(slog.Default())}
	if layerClock == "wall" {
		opts = append(opts, engine.WithClock(engine.NewWallClock()))
	}
	eng := engine.NewEngine(engine.DefaultStickerDefaults(), opts...)
	if err := eng.SetDocument(doc); err != nil {
		return nil, err
	}
	return eng, nil
}
