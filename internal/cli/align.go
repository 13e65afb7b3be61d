package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/flockview/flockview/pkg/layout"
)

// alignCommand creates the align command for fitting frames together.
func (c *CLI) alignCommand() *cobra.Command {
	var output string

	cmd := &cobra.Command{
		Use:   "align [previous.json] [current.json]",
		Short: "Fit a position frame onto a previous frame",
		Long: `Fit a position frame onto a previous frame.

The align command re-expresses freshly computed positions in the coordinate
system of an earlier frame, so that repeated layouts of roughly the same
graph stay visually continuous instead of jumping. It fits the rotation,
uniform scale, and translation that best map the current frame onto the
previous one over the nodes both frames share, and applies that transform to
every current position.

Alignment never fails: too little overlap simply returns the current frame
unchanged.`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runAlign(args[0], args[1], output)
		},
	}

	cmd.Flags().StringVarP(&output, "output", "o", "", "output file (default: <current>.aligned.json)")

	return cmd
}

// runAlign loads both frames, fits the transform, and writes output.
func (c *CLI) runAlign(previousPath, currentPath, output string) error {
	previous, err := layout.ReadPositionsFile(previousPath)
	if err != nil {
		return fmt.Errorf("load previous frame %s: %w", previousPath, err)
	}
	current, err := layout.ReadPositionsFile(currentPath)
	if err != nil {
		return fmt.Errorf("load current frame %s: %w", currentPath, err)
	}

	aligned, stats := layout.Align(previous, current)

	outputPath := output
	if outputPath == "" {
		outputPath = derivedPath(currentPath, ".aligned.json")
	}
	if err := layout.WritePositionsFile(aligned, outputPath); err != nil {
		return fmt.Errorf("write output %s: %w", outputPath, err)
	}

	printSuccess("Alignment complete")
	printFile(outputPath)
	printAlignStats(stats)

	return nil
}

// printAlignStats prints the alignment fit on a single line.
func printAlignStats(stats layout.AlignStats) {
	if !stats.Aligned {
		printDetail("alignment skipped: %d overlapping nodes", stats.Overlap)
		return
	}
	printDetail("fitted %d overlapping nodes · drift %.2f %s %.2f · scale %.3f",
		stats.Overlap, stats.RMSBefore, iconArrow, stats.RMSAfter, stats.Scale)
}
