package main

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/rfestag/holoconf/holoconf"
	"github.com/rfestag/holoconf/log"
)

func newDumpCmd(logCfg *log.Config) *cobra.Command {
	opts := holoconf.NewOptions()

	var (
		resolve  bool
		format   string
		output   string
		noRedact bool
	)

	cmd := &cobra.Command{
		Use:   "dump <files...>",
		Short: "Print the merged configuration tree",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(c *cobra.Command, args []string) error {
			return runDump(c.Context(), logCfg, opts, args, resolve, format, output, noRedact)
		},
	}

	opts.RegisterFlags(cmd.Flags())
	cmd.Flags().BoolVarP(&resolve, "resolve", "r", false, "resolve interpolations before dumping")
	cmd.Flags().StringVarP(&format, "format", "f", "yaml", "output format: yaml or json")
	cmd.Flags().StringVarP(&output, "output", "o", "-", "output file path (- for stdout)")
	cmd.Flags().BoolVar(&noRedact, "no-redact", false, "emit sensitive values in plaintext")

	return cmd
}

func runDump(
	ctx context.Context,
	logCfg *log.Config,
	opts *holoconf.Options,
	files []string,
	resolve bool,
	format, output string,
	noRedact bool,
) error {
	setupLogger(logCfg)

	cfg, err := holoconf.LoadMerged(files, opts)
	if err != nil {
		return &exitError{code: 2, err: err}
	}

	// Redaction defaults on only when resolving: an unresolved tree still
	// shows "${...}" placeholders rather than secret material, so there is
	// nothing to redact by default (spec §6 "redaction defaults ON when
	// resolving").
	exportOpts := holoconf.ExportOptions{Resolve: resolve, Redact: resolve && !noRedact}

	var out []byte

	switch format {
	case "json":
		out, err = cfg.ToJSON(ctx, exportOpts)
		out = append(out, '\n')
	default:
		out, err = cfg.ToYAML(ctx, exportOpts)
	}

	if err != nil {
		return &exitError{code: 2, err: err}
	}

	if output == "" || output == "-" {
		_, err = os.Stdout.Write(out)
	} else {
		err = os.WriteFile(output, out, 0o644) //nolint:gosec // output path is an explicit CLI flag
	}

	if err != nil {
		return &exitError{code: 2, err: fmt.Errorf("write output: %w", err)}
	}

	return nil
}
