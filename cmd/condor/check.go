package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var checkCmd = &cobra.Command{
	Use:   "check <file.cb>",
	Short: "Parse and analyze a Condor source file without running it",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		script, abs, source, err := loadAndCompile(args[0], nil)
		if err != nil {
			return err
		}
		code := reportDiagnostics(script, source, abs)
		if code != 0 {
			os.Exit(code)
		}
		fmt.Println("ok")
		return nil
	},
}
