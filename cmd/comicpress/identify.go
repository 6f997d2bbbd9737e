package main

import (
	"bytes"
	"fmt"
	"os"

	"github.com/Desmondshah/Comic-restor-sub000/internal/imageio"
	"github.com/Desmondshah/Comic-restor-sub000/internal/qa"
	"github.com/Desmondshah/Comic-restor-sub000/internal/stats"
	"github.com/spf13/cobra"
)

var identifyCmd = &cobra.Command{
	Use:   "identify [file]",
	Short: "Inspect page dimensions, channel statistics and perceptual hash",
	Args:  cobra.ExactArgs(1),
	RunE:  runIdentify,
}

func init() {
	rootCmd.AddCommand(identifyCmd)
}

func runIdentify(cmd *cobra.Command, args []string) error {
	path := args[0]
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("reading %s: %w", path, err)
	}
	buf, format, err := imageio.Decode(bytes.NewReader(data))
	if err != nil {
		return fmt.Errorf("%s: %w", path, err)
	}

	whole, err := stats.Sample(buf, stats.Whole())
	if err != nil {
		return err
	}
	paper, err := stats.Sample(buf, stats.Border(stats.DefaultBorderFraction))
	if err != nil {
		return err
	}
	hash, err := qa.PerceptualHash(buf)
	if err != nil {
		return err
	}

	fmt.Printf("File:       %s\n", path)
	fmt.Printf("Format:     %s\n", format)
	fmt.Printf("Dimensions: %d x %d\n", buf.Width, buf.Height)
	fmt.Printf("File size:  %d bytes (%.1f MB)\n", len(data), float64(len(data))/(1024*1024))
	printProfile(data)
	fmt.Println("Channel     mean    stddev   paper mean")
	for c, name := range []string{"R", "G", "B"} {
		fmt.Printf("  %s       %6.2f   %6.2f     %6.2f\n", name, whole[c].Mean, whole[c].StdDev, paper[c].Mean)
	}
	if tint, ok := qa.DetectTint(buf, qa.DefaultConfig().TintThreshold); ok {
		fmt.Printf("Tint:       %s (%.1f levels)\n", tint.Name, tint.Difference)
	} else {
		fmt.Println("Tint:       none")
	}
	fmt.Printf("Hash:       %s\n", hash)
	return nil
}

// printProfile reports an embedded ICC profile. Pages are processed as sRGB
// regardless, so a non-RGB profile is worth a warning.
func printProfile(data []byte) {
	icc, err := imageio.EmbeddedProfile(data)
	switch {
	case err != nil:
		fmt.Printf("ICC profile: unreadable: %v\n", err)
		return
	case icc == nil:
		fmt.Println("ICC profile: none (assumed sRGB)")
		return
	}
	p, err := imageio.ParseProfile(icc)
	if err != nil {
		fmt.Printf("ICC profile: present (%d bytes) but invalid: %v\n", len(icc), err)
		return
	}
	fmt.Printf("ICC profile: %s\n", p)
	if !p.IsRGB() {
		fmt.Println("  warning: not an RGB profile, samples are still read as sRGB")
	}
}
