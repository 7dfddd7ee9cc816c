package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra/doc"

	"github.com/arthur-debert/shinkansen/cmd/shinkansen"
	"github.com/arthur-debert/shinkansen/internal/version"
)

func main() {
	rootCmd := shinkansen.NewRootCmd()

	header := &doc.GenManHeader{
		Title:   "SHINKANSEN",
		Section: "1",
		Source:  "shinkansen " + version.Version,
		Manual:  "shinkansen manual",
	}

	if err := doc.GenMan(rootCmd, header, os.Stdout); err != nil {
		fmt.Fprintf(os.Stderr, "Error generating man page: %v\n", err)
		os.Exit(1)
	}
}
