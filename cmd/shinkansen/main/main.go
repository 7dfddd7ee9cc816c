package main

import (
	"os"

	"github.com/arthur-debert/shinkansen/cmd/shinkansen"
)

func main() {
	rootCmd := shinkansen.NewRootCmd()
	if err := rootCmd.Execute(); err != nil {
		shinkansen.ReportError(rootCmd, err)
		os.Exit(1)
	}
}
