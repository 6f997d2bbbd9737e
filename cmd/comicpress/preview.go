package main

import (
	"fmt"

	"github.com/Desmondshah/Comic-restor-sub000/internal/imageio"
	"github.com/Desmondshah/Comic-restor-sub000/internal/prepress"
	"github.com/spf13/cobra"
)

var previewCmd = &cobra.Command{
	Use:   "preview",
	Short: "Render a raw CMYK file (with sidecar) as an approximate RGB PNG",
	RunE:  runPreview,
}

func init() {
	previewCmd.Flags().StringP("input", "i", "", "Input raw CMYK file")
	previewCmd.Flags().StringP("output", "o", "", "Output RGB PNG")
	previewCmd.MarkFlagRequired("input")
	previewCmd.MarkFlagRequired("output")
	rootCmd.AddCommand(previewCmd)
}

func runPreview(cmd *cobra.Command, args []string) error {
	inputPath, _ := cmd.Flags().GetString("input")
	outputPath, _ := cmd.Flags().GetString("output")

	cmyk, err := imageio.ReadRaw(inputPath)
	if err != nil {
		return err
	}
	rgb, err := prepress.Preview(cmyk)
	if err != nil {
		return fmt.Errorf("preview: %w", err)
	}
	if err := imageio.WritePNG(outputPath, rgb); err != nil {
		return err
	}
	fmt.Printf("Preview %dx%d: %s\n", rgb.Width, rgb.Height, outputPath)
	return nil
}
