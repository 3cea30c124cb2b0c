package main

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/yaman1337/neo-data/internal/kernels"
	"github.com/yaman1337/neo-data/internal/observability"
)

var kernelsCommand = &cobra.Command{
	Use:   "kernels",
	Short: "Manage the external SPICE and shape-model datasets",
	Long: `The compiler itself never reads SPICE kernels, but downstream tooling does.
These subcommands document which datasets are expected and download any that
are missing locally. Kernel contents are stored as-is and never parsed.`,
}

var kernelsListCommand = &cobra.Command{
	Use:   "list",
	Short: "List the documented external datasets",
	RunE:  runKernelsListCmd,
}

var kernelsFetchCommand = &cobra.Command{
	Use:   "fetch",
	Short: "Download any documented dataset not already present",
	RunE:  runKernelsFetchCmd,
}

var kernelsDir string

func init() {
	kernelsCommand.PersistentFlags().StringVarP(&kernelsDir, "dir", "d", "kernels", "Local directory for downloaded datasets")

	kernelsCommand.AddCommand(kernelsListCommand)
	kernelsCommand.AddCommand(kernelsFetchCommand)
	rootCmd.AddCommand(kernelsCommand)
}

func runKernelsListCmd(_ *cobra.Command, _ []string) error {
	for _, k := range kernels.Manifest() {
		fmt.Fprintf(os.Stdout, "%-12s %s\n", k.Name, k.URL)
		fmt.Fprintf(os.Stdout, "%-12s %s\n", "", k.Description)
	}
	return nil
}

func runKernelsFetchCmd(_ *cobra.Command, _ []string) error {
	fetcher := kernels.NewFetcher(kernelsDir)
	report, err := fetcher.Fetch(context.Background(), kernels.Manifest())
	if err != nil {
		return err
	}

	printer := observability.NewPrinter(os.Stdout)
	printer.PrintFetchReport(kernelsDir, report)
	return nil
}
