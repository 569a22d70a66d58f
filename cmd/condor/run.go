package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var runCmd = &cobra.Command{
	Use:   "run <file.cb>",
	Short: "Compile and run a Condor source file",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		// newExec stays nil, so Run() reports the script as executed
		// without evaluating it and `condor run` behaves like a
		// thorough `check` until a host wires in a real tree-walking
		// evaluator.
		script, abs, source, err := loadAndCompile(args[0], nil)
		if err != nil {
			return err
		}
		if !script.HasErrors() {
			script.Run()
		}
		code := reportDiagnostics(script, source, abs)
		if code != 0 {
			os.Exit(code)
		}
		fmt.Println("ok")
		return nil
	},
}
