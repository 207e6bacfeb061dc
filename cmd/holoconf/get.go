package main

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/rfestag/holoconf/holoconf"
	"github.com/rfestag/holoconf/herr"
	"github.com/rfestag/holoconf/log"
	"github.com/rfestag/holoconf/value"
)

func newGetCmd(logCfg *log.Config) *cobra.Command {
	opts := holoconf.NewOptions()

	var (
		resolve     bool
		format      string
		defaultStr  string
		hasDefault  bool
	)

	cmd := &cobra.Command{
		Use:   "get <files...> <path>",
		Short: "Print the value at a dotted path",
		Args:  cobra.MinimumNArgs(2),
		RunE: func(c *cobra.Command, args []string) error {
			hasDefault = c.Flags().Changed("default")
			files, path := args[:len(args)-1], args[len(args)-1]

			return runGet(c.Context(), logCfg, opts, files, path, resolve, format, defaultStr, hasDefault)
		},
	}

	opts.RegisterFlags(cmd.Flags())
	cmd.Flags().BoolVarP(&resolve, "resolve", "r", false, "resolve interpolations before printing")
	cmd.Flags().StringVarP(&format, "format", "f", "text", "output format: text, json, or yaml")
	cmd.Flags().StringVarP(&defaultStr, "default", "d", "", "value to print if the path is not found")

	return cmd
}

func runGet(
	ctx context.Context,
	logCfg *log.Config,
	opts *holoconf.Options,
	files []string,
	path string,
	resolve bool,
	format string,
	defaultStr string,
	hasDefault bool,
) error {
	setupLogger(logCfg)

	cfg, err := holoconf.LoadMerged(files, opts)
	if err != nil {
		return &exitError{code: 2, err: err}
	}

	var v *value.Value

	if resolve {
		v, err = cfg.Get(ctx, path)
	} else {
		v, err = cfg.GetRaw(path)
	}

	if err != nil {
		var nf *herr.NotFoundError
		if errors.As(err, &nf) && hasDefault {
			v = value.NewString(defaultStr, "<default>")
		} else if errors.As(err, &nf) {
			return &exitError{code: 1, err: err}
		} else {
			return &exitError{code: 2, err: err}
		}
	}

	return printValue(os.Stdout, v, format)
}

func printValue(w *os.File, v *value.Value, format string) error {
	switch format {
	case "json":
		out, err := formatJSON(v)
		if err != nil {
			return &exitError{code: 2, err: err}
		}

		fmt.Fprintln(w, string(out))
	case "yaml":
		out, err := formatYAML(v)
		if err != nil {
			return &exitError{code: 2, err: err}
		}

		fmt.Fprint(w, string(out))
	default:
		fmt.Fprintln(w, v.String())
	}

	return nil
}
