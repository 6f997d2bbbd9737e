package main

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/Desmondshah/Comic-restor-sub000/internal/observability"
	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "comicpress",
	Short: "Color-correct restored comic pages and separate them for print",
}

func init() {
	rootCmd.PersistentFlags().BoolP("verbose", "v", false, "Log every pipeline step")
}

// newLogger returns a stderr logger for cmd, at debug level with -v.
func newLogger(cmd *cobra.Command) observability.Logger {
	verbose, _ := rootCmd.PersistentFlags().GetBool("verbose")
	level := slog.LevelInfo
	if verbose {
		level = slog.LevelDebug
	}
	h := slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level})
	return observability.NewSlog(slog.New(h)).With(observability.String("cmd", cmd.Name()))
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
