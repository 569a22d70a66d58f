// Command condor is the reference CLI for the scanner/parser/analyzer/
// orchestrator pipeline: compile a .cb source file and report diagnostics.
//
// One root command with verb subcommands, built on
// github.com/spf13/cobra + github.com/spf13/pflag.
package main

import (
	"fmt"
	"os"

	"github.com/hashicorp/go-hclog"
	"github.com/spf13/cobra"
)

var (
	libDirFlag  string
	verboseFlag bool
)

var rootCmd = &cobra.Command{
	Use:   "condor",
	Short: "Compile and run Condor (.cb) source files",
}

func newLogger() hclog.Logger {
	level := hclog.Warn
	if verboseFlag {
		level = hclog.Debug
	}
	return hclog.New(&hclog.LoggerOptions{
		Name:  "condor",
		Level: level,
	})
}

func main() {
	rootCmd.PersistentFlags().StringVar(&libDirFlag, "libdir", "lib", "standard library directory (holds <pkg>.cb files)")
	rootCmd.PersistentFlags().BoolVarP(&verboseFlag, "verbose", "v", false, "enable debug logging")
	rootCmd.AddCommand(runCmd, checkCmd)

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
