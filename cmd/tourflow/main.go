// Command tourflow runs the multi-day tour/POI itinerary optimizer
// HTTP service: a colorized, TTY-aware root command delegating to a
// serve subcommand.
package main

import (
	"fmt"
	"os"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
	"golang.org/x/term"
)

func isTTY() bool {
	return term.IsTerminal(int(os.Stdout.Fd()))
}

var (
	cyan = color.New(color.FgCyan).SprintFunc()
	gray = color.New(color.FgHiBlack).SprintFunc()
	bold = color.New(color.Bold).SprintFunc()
)

func banner() string {
	if !isTTY() {
		return "tourflow optimizer"
	}
	return bold(cyan("tourflow")) + gray(" — multi-day tour optimizer")
}

func main() {
	root := &cobra.Command{
		Use:   "tourflow",
		Short: "Multi-day tour/POI itinerary optimizer service",
		Long:  banner(),
	}
	root.AddCommand(newServeCommand())

	if err := root.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
