package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/yaman1337/neo-data/internal/schemas"
)

var validateCommand = &cobra.Command{
	Use:   "validate <dataset.json>",
	Short: "Validate a compiled dataset file against the dataset schema",
	Args:  cobra.ExactArgs(1),
	RunE:  runValidateCmd,
}

var validateSchemaPath string

func init() {
	validateCommand.Flags().StringVar(&validateSchemaPath, "schema", "", "Path to the dataset schema (default: resolved from the repo)")

	rootCmd.AddCommand(validateCommand)
}

func runValidateCmd(_ *cobra.Command, args []string) error {
	schemaPath := validateSchemaPath
	if schemaPath == "" {
		schemaPath = schemas.ResolveSchemaPath(schemas.CompiledDatasetSchema)
		if schemaPath == "" {
			return fmt.Errorf("could not locate %s; pass --schema", schemas.CompiledDatasetSchema)
		}
	}

	if err := schemas.ValidateDatasetFile(schemaPath, args[0]); err != nil {
		return err
	}

	fmt.Fprintf(os.Stdout, "%s is a valid compiled dataset\n", args[0])
	return nil
}
