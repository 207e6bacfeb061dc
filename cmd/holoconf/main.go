// Command holoconf loads, merges, queries, exports, and validates
// hierarchical configuration trees whose scalar strings may embed
// interpolation expressions (spec §6 "CLI surface").
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/rfestag/holoconf/log"
	"github.com/rfestag/holoconf/profile"
	"github.com/rfestag/holoconf/version"
)

func main() {
	os.Exit(run())
}

func run() int {
	logCfg := log.NewConfig()
	profCfg := profile.NewConfig()

	rootCmd := &cobra.Command{
		Use:           "holoconf",
		Short:         "Load, merge, and resolve hierarchical configuration trees",
		Version:       version.Version,
		SilenceErrors: true,
		SilenceUsage:  true,
	}

	logCfg.RegisterFlags(rootCmd.PersistentFlags())
	profCfg.RegisterFlags(rootCmd.PersistentFlags())

	rootCmd.AddCommand(
		newCheckCmd(),
		newGetCmd(logCfg),
		newDumpCmd(logCfg),
		newValidateCmd(logCfg),
	)

	var profiler *profile.Profiler

	rootCmd.PersistentPreRunE = func(_ *cobra.Command, _ []string) error {
		profiler = profCfg.NewProfiler()

		return profiler.Start()
	}

	rootCmd.PersistentPostRunE = func(_ *cobra.Command, _ []string) error {
		if profiler == nil {
			return nil
		}

		return profiler.Stop()
	}

	err := rootCmd.Execute()
	if err != nil {
		fmt.Fprintf(os.Stderr, "holoconf: %v\n", err)

		return exitCode(err)
	}

	return 0
}
