// Package main provides the perfscope entry point: an HTTP server and a
// one-shot analyzer for workbook pairs.
package main

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
)

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:   "perfscope",
		Short: "Performance evaluation analytics",
		Long: "perfscope normalizes performance evaluation workbooks, resolves employee identities " +
			"against a segmentation directory and computes completion, ranking and feedback analytics.",
		SilenceUsage: true,
	}
	root.AddCommand(newServeCmd(), newAnalyzeCmd())
	return root
}

func main() {
	// Load .env file if it exists
	_ = godotenv.Load()

	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
