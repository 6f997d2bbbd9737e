package main

import (
	"fmt"

	"github.com/Desmondshah/Comic-restor-sub000/internal/imageio"
	"github.com/Desmondshah/Comic-restor-sub000/internal/stats"
	"github.com/spf13/cobra"
)

var referenceCmd = &cobra.Command{
	Use:   "reference",
	Short: "Build reference statistics from a hero page",
	RunE:  runReference,
}

func init() {
	referenceCmd.Flags().StringP("input", "i", "", "Hero RGB page")
	referenceCmd.Flags().StringP("output", "o", "", "Output reference JSON")
	referenceCmd.MarkFlagRequired("input")
	referenceCmd.MarkFlagRequired("output")
	rootCmd.AddCommand(referenceCmd)
}

func runReference(cmd *cobra.Command, args []string) error {
	inputPath, _ := cmd.Flags().GetString("input")
	outputPath, _ := cmd.Flags().GetString("output")

	hero, err := imageio.ReadFile(inputPath)
	if err != nil {
		return err
	}
	ref, err := stats.BuildReference(hero)
	if err != nil {
		return fmt.Errorf("building reference: %w", err)
	}
	if err := writeJSON(outputPath, ref); err != nil {
		return err
	}

	for c, name := range []string{"R", "G", "B"} {
		s := ref.Channel(c)
		fmt.Printf("%s: mean %6.2f  stddev %6.2f\n", name, s.Mean, s.StdDev)
	}
	fmt.Printf("Reference: %s\n", outputPath)
	return nil
}
