package cmd

import (
	"fmt"
	"os"

	"github.com/common-nighthawk/go-figure"
	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "inventory",
	Short: "Stock accounting service CLI",
	Run: func(cmd *cobra.Command, args []string) {
		fig := figure.NewFigure("GoStock", "slant", true)
		fig.Print()
		fmt.Println("Stock accounting service — run with --help for commands")
	},
}

// Execute runs the root command with all registered subcommands applied.
func Execute() {
	Apply()
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
