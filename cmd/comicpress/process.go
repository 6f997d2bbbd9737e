package main

import (
	"fmt"
	"image"
	"os"
	"path/filepath"
	"strings"

	"github.com/Desmondshah/Comic-restor-sub000/internal/imageio"
	"github.com/Desmondshah/Comic-restor-sub000/internal/ir"
	"github.com/Desmondshah/Comic-restor-sub000/internal/pipeline"
	"github.com/Desmondshah/Comic-restor-sub000/internal/prepress"
	"github.com/spf13/cobra"
)

var processCmd = &cobra.Command{
	Use:   "process",
	Short: "Run tone correction, matte compensation, optional CMYK separation and QA",
	RunE:  runProcess,
}

func init() {
	processCmd.Flags().StringP("input", "i", "", "Input RGB page (PNG, JPEG, TIFF, BMP, WebP)")
	processCmd.Flags().StringP("output", "o", "", "Output corrected RGB PNG")
	processCmd.Flags().String("preset", "", "JSON preset overlaid on the defaults")
	processCmd.Flags().String("reference", "", "Reference statistics JSON to match against")
	processCmd.Flags().String("grain", "", "Paper texture image to overlay")
	processCmd.Flags().Bool("paper-grain", false, "Overlay generated paper grain")
	processCmd.Flags().Uint64("grain-seed", 1, "Seed for generated paper grain")
	processCmd.Flags().Bool("cmyk", false, "Separate to CMYK with default prepress settings")
	processCmd.Flags().String("preview", "", "Write the CMYK preview PNG here")
	processCmd.Flags().String("planes", "", "Directory for C, M, Y, K plane PNGs")
	processCmd.Flags().String("raw", "", "Write raw CMYK (+ JSON sidecar) here")
	processCmd.Flags().Bool("zstd", false, "Compress raw CMYK with zstd")
	processCmd.Flags().String("report", "", "Write the QA report JSON here")
	processCmd.MarkFlagRequired("input")
	processCmd.MarkFlagRequired("output")
	rootCmd.AddCommand(processCmd)
}

func runProcess(cmd *cobra.Command, args []string) error {
	inputPath, _ := cmd.Flags().GetString("input")
	outputPath, _ := cmd.Flags().GetString("output")
	presetPath, _ := cmd.Flags().GetString("preset")
	refPath, _ := cmd.Flags().GetString("reference")
	grainPath, _ := cmd.Flags().GetString("grain")
	paperGrain, _ := cmd.Flags().GetBool("paper-grain")
	grainSeed, _ := cmd.Flags().GetUint64("grain-seed")
	cmyk, _ := cmd.Flags().GetBool("cmyk")
	previewPath, _ := cmd.Flags().GetString("preview")
	planesDir, _ := cmd.Flags().GetString("planes")
	rawPath, _ := cmd.Flags().GetString("raw")
	compress, _ := cmd.Flags().GetBool("zstd")
	reportPath, _ := cmd.Flags().GetString("report")

	cfg, err := loadPreset(presetPath)
	if err != nil {
		return err
	}
	needCMYK := cmyk || previewPath != "" || planesDir != "" || rawPath != ""
	if needCMYK && cfg.Prepress == nil {
		pc := prepress.DefaultConfig()
		cfg.Prepress = &pc
	}

	opts := pipeline.Options{
		GrainSeed: grainSeed,
		Planes:    planesDir != "",
		Logger:    newLogger(cmd),
	}
	if refPath != "" {
		if opts.Reference, err = loadReference(refPath); err != nil {
			return err
		}
		cfg.Tone.MatchReference = true
	}
	if grainPath != "" {
		if opts.Grain, err = loadGrain(grainPath); err != nil {
			return err
		}
		cfg.Tone.PaperGrain = true
	}
	if paperGrain {
		cfg.Tone.PaperGrain = true
	}

	src, err := imageio.ReadFile(inputPath)
	if err != nil {
		return err
	}

	result, err := pipeline.Run(src, cfg, opts)
	if err != nil {
		return fmt.Errorf("processing: %w", err)
	}

	if err := imageio.WritePNG(outputPath, result.Output); err != nil {
		return err
	}
	fmt.Printf("Processed %dx%d page: %s\n", src.Width, src.Height, strings.Join(result.Steps, " → "))
	fmt.Printf("Output: %s\n", outputPath)

	if sep := result.Separation; sep != nil {
		fmt.Printf("Separation: max TAC %.1f%%, %d line-art, %d rich-black, %d TAC-limited pixels\n",
			sep.MaxTAC, sep.LineArtPixels, sep.RichBlackPixels, sep.LimitedPixels)
		if previewPath != "" {
			if err := imageio.WritePNG(previewPath, result.Preview); err != nil {
				return err
			}
			fmt.Printf("Preview: %s\n", previewPath)
		}
		if rawPath != "" {
			metaPath, err := imageio.WriteRaw(rawPath, result.CMYK, compress)
			if err != nil {
				return err
			}
			fmt.Printf("Raw CMYK: %s (sidecar %s)\n", rawPath, metaPath)
		}
		if planesDir != "" {
			if err := writePlanes(planesDir, outputPath, result.Planes); err != nil {
				return err
			}
		}
	}

	if reportPath != "" {
		if err := writeJSON(reportPath, result.Report); err != nil {
			return err
		}
	}
	printReport(result.Report.Passed, result.Report.Warnings)
	fmt.Printf("Perceptual hash: %s\n", result.Hash)
	return nil
}

func loadGrain(path string) (image.Image, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("reading grain: %w", err)
	}
	defer f.Close()
	img, _, err := image.Decode(f)
	if err != nil {
		return nil, fmt.Errorf("decoding grain %s: %w", path, err)
	}
	return img, nil
}

// writePlanes exports the separation as <dir>/<name>_<plane>.png.
func writePlanes(dir, outputPath string, planes [4]*ir.PixelBuffer) error {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("creating planes directory: %w", err)
	}
	base := strings.TrimSuffix(filepath.Base(outputPath), filepath.Ext(outputPath))
	for i, plane := range planes {
		path := filepath.Join(dir, fmt.Sprintf("%s_%s.png", base, prepress.PlaneNames[i]))
		if err := imageio.WritePNG(path, plane); err != nil {
			return err
		}
		fmt.Printf("Plane: %s\n", path)
	}
	return nil
}
