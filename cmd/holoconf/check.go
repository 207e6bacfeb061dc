package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/rfestag/holoconf/holoconf"
)

func newCheckCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "check <files...>",
		Short: "Parse and merge configuration files without resolving them",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(_ *cobra.Command, args []string) error {
			return runCheck(args)
		},
	}
}

func runCheck(files []string) error {
	_, err := holoconf.LoadMerged(files, nil)
	if err != nil {
		return &exitError{code: 2, err: fmt.Errorf("parse: %w", err)}
	}

	return nil
}
