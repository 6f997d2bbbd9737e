package main

import (
	"fmt"

	"github.com/Desmondshah/Comic-restor-sub000/internal/imageio"
	"github.com/Desmondshah/Comic-restor-sub000/internal/qa"
	"github.com/spf13/cobra"
)

var compareCmd = &cobra.Command{
	Use:   "compare [original] [processed]",
	Short: "Audit a processed page against its original",
	Args:  cobra.ExactArgs(2),
	RunE:  runCompare,
}

func init() {
	compareCmd.Flags().String("preset", "", "JSON preset whose qa section sets the thresholds")
	compareCmd.Flags().String("report", "", "Write the QA report JSON here")
	rootCmd.AddCommand(compareCmd)
}

func runCompare(cmd *cobra.Command, args []string) error {
	presetPath, _ := cmd.Flags().GetString("preset")
	reportPath, _ := cmd.Flags().GetString("report")

	cfg, err := loadPreset(presetPath)
	if err != nil {
		return err
	}
	original, err := imageio.ReadFile(args[0])
	if err != nil {
		return err
	}
	processed, err := imageio.ReadFile(args[1])
	if err != nil {
		return err
	}

	report, err := qa.Audit(original, processed, cfg.QA)
	if err != nil {
		return fmt.Errorf("audit: %w", err)
	}
	h1, err := qa.PerceptualHash(original)
	if err != nil {
		return err
	}
	h2, err := qa.PerceptualHash(processed)
	if err != nil {
		return err
	}

	if reportPath != "" {
		if err := writeJSON(reportPath, report); err != nil {
			return err
		}
	}
	printReport(report.Passed, report.Warnings)
	fmt.Printf("Hash distance: %d/64 (%s vs %s)\n", h1.Distance(h2), h1, h2)
	return nil
}

func printReport(passed bool, warnings []qa.Warning) {
	if passed {
		fmt.Println("QA: passed")
		return
	}
	fmt.Printf("QA: %d warning(s)\n", len(warnings))
	for _, w := range warnings {
		fmt.Printf("  [%s] %s\n", w.Code, w.Message)
	}
}
