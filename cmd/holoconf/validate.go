package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"

	"github.com/google/jsonschema-go/jsonschema"
	"github.com/spf13/cobra"

	"github.com/rfestag/holoconf/holoconf"
	"github.com/rfestag/holoconf/herr"
	"github.com/rfestag/holoconf/log"
	"github.com/rfestag/holoconf/schema"
)

func newValidateCmd(logCfg *log.Config) *cobra.Command {
	opts := holoconf.NewOptions()

	var (
		schemaPath string
		resolve    bool
		format     string
		quiet      bool
	)

	cmd := &cobra.Command{
		Use:   "validate <files...>",
		Short: "Validate the merged configuration tree against a JSON Schema",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(c *cobra.Command, args []string) error {
			return runValidate(c.Context(), logCfg, opts, args, schemaPath, resolve, format, quiet)
		},
	}

	opts.RegisterFlags(cmd.Flags())
	cmd.Flags().StringVarP(&schemaPath, "schema", "s", "", "path to the JSON Schema document")
	cmd.Flags().BoolVarP(&resolve, "resolve", "r", false, "resolve interpolations before validating (typed validation)")
	cmd.Flags().StringVarP(&format, "format", "f", "text", "diagnostic format: text or json")
	cmd.Flags().BoolVarP(&quiet, "quiet", "q", false, "suppress diagnostics unless validation fails")

	_ = cmd.MarkFlagRequired("schema")

	return cmd
}

func runValidate(
	ctx context.Context,
	logCfg *log.Config,
	opts *holoconf.Options,
	files []string,
	schemaPath string,
	resolve bool,
	format string,
	quiet bool,
) error {
	var sub *log.Subscription

	if quiet {
		pub := log.NewPublisher()
		defer pub.Close()

		sub = pub.Subscribe()
		setupLoggerTo(logCfg, pub)
	} else {
		setupLogger(logCfg)
	}

	cfg, err := holoconf.LoadMerged(files, opts)
	if err != nil {
		flushSubscription(sub)

		return &exitError{code: 2, err: err}
	}

	schemaBytes, err := os.ReadFile(schemaPath)
	if err != nil {
		flushSubscription(sub)

		return &exitError{code: 2, err: fmt.Errorf("%w: %w", herr.ErrPathNotFound, err)}
	}

	var raw jsonschema.Schema
	if err := json.Unmarshal(schemaBytes, &raw); err != nil {
		flushSubscription(sub)

		return &exitError{code: 2, err: fmt.Errorf("%w: %w", herr.ErrParse, err)}
	}

	resolved, err := schema.Compile(&raw)
	if err != nil {
		flushSubscription(sub)

		return &exitError{code: 2, err: err}
	}

	var valErr error
	if resolve {
		valErr = cfg.ValidateCollect(ctx, resolved)
	} else {
		valErr = cfg.ValidateRaw(resolved)
	}

	if valErr == nil {
		if !quiet {
			fmt.Fprintln(os.Stdout, colorize("valid", ansiGreen))
		}

		return nil
	}

	flushSubscription(sub)
	printValidationFailure(valErr, format)

	return &exitError{code: 1, err: valErr}
}

// flushSubscription drains any diagnostics buffered by the -q path's
// log.Publisher and writes them to stderr. Called only on failure paths;
// on success the subscription is left undrained and its entries are
// discarded when the publisher closes, per "suppress diagnostics unless
// validation fails". A nil sub (non-quiet run) is a no-op.
func flushSubscription(sub *log.Subscription) {
	if sub == nil {
		return
	}

	for {
		select {
		case entry, ok := <-sub.C():
			if !ok {
				return
			}

			os.Stderr.Write(entry)
		default:
			return
		}
	}
}

func printValidationFailure(err error, format string) {
	if format == "json" {
		out, jerr := json.MarshalIndent(map[string]string{"error": err.Error()}, "", "  ")
		if jerr == nil {
			fmt.Fprintln(os.Stderr, string(out))

			return
		}
	}

	fmt.Fprintln(os.Stderr, colorize("invalid: ", ansiRed)+err.Error())
}
