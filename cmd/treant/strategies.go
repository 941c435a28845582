package main

import (
	"fmt"
	"io"
	"strings"

	"github.com/mattn/go-runewidth"
	"github.com/spf13/cobra"

	"treant/internal/strategy"
	"treant/internal/stubs"
)

var strategiesCmd = &cobra.Command{
	Use:   "strategies",
	Short: "Show the supported logging frameworks",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		showDeps, err := cmd.Flags().GetBool("deps")
		if err != nil {
			return fmt.Errorf("failed to get deps flag: %w", err)
		}
		renderStrategies(cmd.OutOrStdout(), strategy.Default(), showDeps)
		return nil
	},
}

func init() {
	strategiesCmd.Flags().Bool("deps", false, "also print the dependency each framework needs")
}

func renderStrategies(out io.Writer, reg *strategy.Registry, showDeps bool) {
	header := []string{"MARKER", "LOGGER", "FACTORY", "ARGUMENT", "PRESET"}
	rows := [][]string{header}
	for _, d := range reg.All() {
		preset := "-"
		if _, ok := stubs.Artifacts[d.Tag.String()]; ok {
			preset = d.Tag.String()
		}
		rows = append(rows, []string{
			d.MarkerName(),
			d.LoggerType.FqName().String(),
			d.Recipe.FactoryType.FqName().String() + "." + d.Recipe.Method,
			d.Recipe.Convention.String(),
			preset,
		})
	}

	widths := make([]int, len(header))
	for _, row := range rows {
		for i, cell := range row {
			widths[i] = max(widths[i], runewidth.StringWidth(cell))
		}
	}
	for _, row := range rows {
		cells := make([]string, len(row))
		for i, cell := range row {
			if i == len(row)-1 {
				cells[i] = cell
				continue
			}
			cells[i] = runewidth.FillRight(cell, widths[i])
		}
		fmt.Fprintln(out, strings.Join(cells, "  "))
	}

	if !showDeps {
		return
	}
	fmt.Fprintln(out)
	for _, d := range reg.All() {
		fmt.Fprintf(out, "%s: %s\n", d.MarkerName(), d.MissingDependency)
	}
}
