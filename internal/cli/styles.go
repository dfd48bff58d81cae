package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/pdewald/asciimate/pkg/compose"
	"github.com/pdewald/asciimate/pkg/sequence"
)

// styleDescriptions explains each animation style in one line.
var styleDescriptions = map[sequence.Style]string{
	sequence.StyleSequential: "reveal row by row, left to right",
	sequence.StyleMatrix:     "reveal column by column, top to bottom",
	sequence.StyleAnts:       "reveal along the trails of wandering agents",
	sequence.StyleRandom:     "reveal cells in random order",
}

// strategyDescriptions explains each render strategy in one line.
var strategyDescriptions = map[compose.Strategy]string{
	compose.StrategyNaive:   "one draw call per glyph",
	compose.StrategyBatched: "one draw call per row run",
	compose.StrategyAtlas:   "blit from a prerendered glyph sheet",
}

// stylesCommand creates the styles listing command.
func (c *CLI) stylesCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "styles",
		Short: "List animation styles and render strategies",
		RunE: func(cmd *cobra.Command, args []string) error {
			fmt.Println(StyleTitle.Render("Animation styles"))
			for _, s := range sequence.Styles {
				marker := " "
				if s == sequence.DefaultStyle {
					marker = "*"
				}
				fmt.Printf("  %s %-12s %s\n", marker, StyleHighlight.Render(string(s)), StyleDim.Render(styleDescriptions[s]))
			}

			fmt.Println()
			fmt.Println(StyleTitle.Render("Render strategies"))
			for _, s := range compose.Strategies {
				marker := " "
				if s == compose.DefaultStrategy {
					marker = "*"
				}
				fmt.Printf("  %s %-12s %s\n", marker, StyleHighlight.Render(string(s)), StyleDim.Render(strategyDescriptions[s]))
			}

			fmt.Println()
			fmt.Println(StyleDim.Render("* default"))
			return nil
		},
	}
}
