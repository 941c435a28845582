package main

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"treant/internal/driver"
	"treant/internal/ir"
)

var genCmd = &cobra.Command{
	Use:   "gen",
	Short: "Generate logger fields for the project and print the result",
	Long: `gen loads treant.toml (or treant.yaml), declares a logger field in the
companion of every annotated class, initializes it and prints the modules.`,
	Args: cobra.NoArgs,
	RunE: runGen,
}

func init() {
	genCmd.Flags().String("manifest", "", "path to treant.toml or treant.yaml (default: search upwards)")
	genCmd.Flags().String("emit", "text", "output format for modules (text|msgpack|none)")
	genCmd.Flags().StringP("output", "o", "-", "write modules to this file (- for stdout)")
	genCmd.Flags().String("format", "pretty", "diagnostics format (pretty|json)")
	genCmd.Flags().Bool("with-notes", false, "include diagnostic notes")
	genCmd.Flags().String("ui", "auto", "progress view (auto|on|off)")
	genCmd.Flags().Int("jobs", 0, "max parallel modules (0=auto)")
}

func runGen(cmd *cobra.Command, _ []string) error {
	req, emit, output, err := readGenFlags(cmd)
	if err != nil {
		return err
	}

	s, cleanup, err := runProject(cmd, req)
	if cleanup != nil {
		defer cleanup()
	}
	if err != nil {
		return err
	}

	if emit != "none" {
		if err := writeModules(cmd, s.units, emit, output); err != nil {
			return err
		}
	}
	if err := s.printDiagnostics(cmd, req); err != nil {
		return err
	}
	if s.failed() {
		return errGenerationFailed
	}
	return nil
}

func readGenFlags(cmd *cobra.Command) (runRequest, string, string, error) {
	var req runRequest
	var err error
	if req.manifest, err = cmd.Flags().GetString("manifest"); err != nil {
		return req, "", "", fmt.Errorf("failed to get manifest flag: %w", err)
	}
	if req.jobs, err = cmd.Flags().GetInt("jobs"); err != nil {
		return req, "", "", fmt.Errorf("failed to get jobs flag: %w", err)
	}
	uiValue, err := cmd.Flags().GetString("ui")
	if err != nil {
		return req, "", "", fmt.Errorf("failed to get ui flag: %w", err)
	}
	if req.ui, err = readUIMode(uiValue); err != nil {
		return req, "", "", err
	}
	if req.diagFormat, err = cmd.Flags().GetString("format"); err != nil {
		return req, "", "", fmt.Errorf("failed to get format flag: %w", err)
	}
	switch req.diagFormat = strings.ToLower(req.diagFormat); req.diagFormat {
	case "pretty", "json":
	default:
		return req, "", "", fmt.Errorf("unsupported format %q (must be pretty or json)", req.diagFormat)
	}
	if req.showNotes, err = cmd.Flags().GetBool("with-notes"); err != nil {
		return req, "", "", fmt.Errorf("failed to get with-notes flag: %w", err)
	}

	emit, err := cmd.Flags().GetString("emit")
	if err != nil {
		return req, "", "", fmt.Errorf("failed to get emit flag: %w", err)
	}
	switch emit = strings.ToLower(emit); emit {
	case "text", "msgpack", "none":
	default:
		return req, "", "", fmt.Errorf("unsupported --emit %q (must be text, msgpack or none)", emit)
	}
	output, err := cmd.Flags().GetString("output")
	if err != nil {
		return req, "", "", fmt.Errorf("failed to get output flag: %w", err)
	}
	// json diagnostics own stdout
	if req.diagFormat == "json" && output == "-" && emit != "none" {
		return req, "", "", fmt.Errorf("--format=json writes to stdout; use --output or --emit=none")
	}
	if emit == "msgpack" && output == "-" && isTerminal(os.Stdout) {
		return req, "", "", fmt.Errorf("refusing to write msgpack to a terminal; use --output")
	}
	return req, emit, output, nil
}

// writeModules prints every unit's module. Aborted units are skipped: their
// declarations are incomplete.
func writeModules(cmd *cobra.Command, units []*driver.Unit, emit, output string) (err error) {
	var w io.Writer = cmd.OutOrStdout()
	if output != "-" {
		f, cerr := os.Create(output)
		if cerr != nil {
			return fmt.Errorf("failed to create output: %w", cerr)
		}
		defer func() {
			if cerr := f.Close(); cerr != nil && err == nil {
				err = cerr
			}
		}()
		w = f
	}

	printed := 0
	for _, u := range units {
		if u.Err != nil {
			continue
		}
		switch emit {
		case "msgpack":
			if err := ir.Encode(w, u.Module); err != nil {
				return fmt.Errorf("%s: %w", u.Module.Name, err)
			}
		default:
			if printed > 0 {
				fmt.Fprintln(w)
			}
			fmt.Fprintf(w, "// module %s\n", u.Module.Name)
			if err := ir.Print(w, u.Module); err != nil {
				return fmt.Errorf("%s: %w", u.Module.Name, err)
			}
			printed++
		}
	}
	return nil
}
