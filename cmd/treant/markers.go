package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"treant/internal/driver"
)

var markersCmd = &cobra.Command{
	Use:   "markers",
	Short: "List the classes that get a generated logger",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		manifest, err := cmd.Flags().GetString("manifest")
		if err != nil {
			return fmt.Errorf("failed to get manifest flag: %w", err)
		}
		req := runRequest{manifest: manifest, ui: uiModeOff, diagFormat: "pretty"}

		s, cleanup, err := runProject(cmd, req)
		if cleanup != nil {
			defer cleanup()
		}
		if err != nil {
			return err
		}

		out := cmd.OutOrStdout()
		for _, mk := range driver.Markers(s.units) {
			line := mk.String()
			if !mk.Initialized {
				line += " (not initialized)"
			}
			fmt.Fprintln(out, line)
		}
		if err := s.printDiagnostics(cmd, req); err != nil {
			return err
		}
		if s.failed() {
			return errGenerationFailed
		}
		return nil
	},
}

func init() {
	markersCmd.Flags().String("manifest", "", "path to treant.toml or treant.yaml (default: search upwards)")
}
