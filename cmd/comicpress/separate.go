package main

import (
	"fmt"

	"github.com/Desmondshah/Comic-restor-sub000/internal/imageio"
	"github.com/Desmondshah/Comic-restor-sub000/internal/prepress"
	"github.com/spf13/cobra"
)

var separateCmd = &cobra.Command{
	Use:   "separate",
	Short: "Separate an RGB page to CMYK (raw output + JSON sidecar)",
	RunE:  runSeparate,
}

func init() {
	def := prepress.DefaultConfig()
	separateCmd.Flags().StringP("input", "i", "", "Input RGB page")
	separateCmd.Flags().StringP("output", "o", "", "Output raw CMYK file")
	separateCmd.Flags().Bool("zstd", false, "Compress raw CMYK with zstd")
	separateCmd.Flags().Float64("gcr", def.GCRStrength, "Gray component replacement strength (0-1)")
	separateCmd.Flags().Float64("tac", def.TACLimit, "Total area coverage limit in percent (200-360)")
	separateCmd.Flags().Bool("rich-black", def.RichBlack, "Rewrite large dark fills to rich black")
	separateCmd.Flags().Bool("line-art", def.LineArtToK, "Force line art to pure K")
	separateCmd.Flags().Float64("dot-gain", def.DotGain, "Dot gain pre-compensation in percent (0-30)")
	separateCmd.MarkFlagRequired("input")
	separateCmd.MarkFlagRequired("output")
	rootCmd.AddCommand(separateCmd)
}

func runSeparate(cmd *cobra.Command, args []string) error {
	inputPath, _ := cmd.Flags().GetString("input")
	outputPath, _ := cmd.Flags().GetString("output")
	compress, _ := cmd.Flags().GetBool("zstd")

	cfg := prepress.DefaultConfig()
	cfg.GCRStrength, _ = cmd.Flags().GetFloat64("gcr")
	cfg.TACLimit, _ = cmd.Flags().GetFloat64("tac")
	cfg.RichBlack, _ = cmd.Flags().GetBool("rich-black")
	cfg.LineArtToK, _ = cmd.Flags().GetBool("line-art")
	cfg.DotGain, _ = cmd.Flags().GetFloat64("dot-gain")

	src, err := imageio.ReadFile(inputPath)
	if err != nil {
		return err
	}
	sep, err := prepress.Convert(src, cfg)
	if err != nil {
		return fmt.Errorf("separating: %w", err)
	}

	metaPath, err := imageio.WriteRaw(outputPath, sep.CMYK, compress)
	if err != nil {
		return err
	}

	fmt.Printf("Separated %dx%d → raw CMYK (%d bytes)\n", src.Width, src.Height, len(sep.CMYK.Data))
	fmt.Printf("Max TAC: %.1f%% (limit %.0f%%)\n", sep.MaxTAC, cfg.TACLimit)
	fmt.Printf("Line art: %d px, rich black: %d px, TAC-limited: %d px\n",
		sep.LineArtPixels, sep.RichBlackPixels, sep.LimitedPixels)
	fmt.Printf("Sidecar: %s\n", metaPath)
	return nil
}
