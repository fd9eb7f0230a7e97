package cli

import (
	"encoding/json"
	"fmt"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/spf13/cobra"

	"github.com/matzehuels/qmkwire/pkg/wiring"
)

// pinsCommand creates the pins command.
func (c *CLI) pinsCommand() *cobra.Command {
	var asJSON bool
	cmd := &cobra.Command{
		Use:   "pins",
		Short: "Print the Pro Micro pin translation table",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			pins := wiring.ProMicroPins()
			out := cmd.OutOrStdout()
			if asJSON {
				enc := json.NewEncoder(out)
				enc.SetIndent("", "  ")
				return enc.Encode(pins)
			}
			fmt.Fprintln(out, pinsTable(pins))
			return nil
		},
	}
	cmd.Flags().BoolVar(&asJSON, "json", false, "print the table as JSON")
	return cmd
}

// pinsTable renders the translation table with a rounded border.
func pinsTable(pins []wiring.PinLabel) string {
	rows := make([][]string, len(pins))
	for i, p := range pins {
		rows[i] = []string{p.Pin, p.Label}
	}

	headerStyle := lipgloss.NewStyle().Foreground(colorGray).Bold(true).Padding(0, 1)
	pinStyle := lipgloss.NewStyle().Foreground(colorCyan).Padding(0, 1)
	labelStyle := lipgloss.NewStyle().Foreground(colorWhite).Padding(0, 1)

	return table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(lipgloss.NewStyle().Foreground(colorDim)).
		Headers("Pin", "Label").
		Rows(rows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			switch {
			case row == table.HeaderRow:
				return headerStyle
			case col == 0:
				return pinStyle
			default:
				return labelStyle
			}
		}).
		Render()
}
