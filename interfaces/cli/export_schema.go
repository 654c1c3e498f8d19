package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	infraconfig "github.com/felixgeelhaar/popsolver/infrastructure/config"
)

func (a *App) newExportSchemaCmd() *cobra.Command {
	var outputPath string

	cmd := &cobra.Command{
		Use:   "export-schema",
		Short: "Export the configuration JSON schema",
		Long: `Export the JSON Schema (draft 2020-12) for popsolver configuration files,
for editor validation and CI checks.

Examples:
  popsolver export-schema
  popsolver export-schema -o popsolver.schema.json`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if outputPath == "" {
				return a.printSchema()
			}

			schemaJSON, err := infraconfig.SchemaJSON()
			if err != nil {
				return fmt.Errorf("failed to generate schema: %w", err)
			}
			if err := os.WriteFile(outputPath, []byte(schemaJSON), 0o600); err != nil {
				return fmt.Errorf("failed to write schema file: %w", err)
			}
			fmt.Fprintf(a.stdout, "Schema exported to %s\n", outputPath)
			return nil
		},
	}

	cmd.Flags().StringVarP(&outputPath, "output", "o", "", "Output file path (default: stdout)")
	return cmd
}
