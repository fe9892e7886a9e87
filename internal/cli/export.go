package cli

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"
)

func newExportCmd(a *app) *cobra.Command {
	var (
		format string
		output string
	)

	cmd := &cobra.Command{
		Use:   "export",
		Short: "Write the Swagger 2.0 document as JSON or YAML",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			format = strings.ToLower(format)
			if format != "json" && format != "yaml" {
				return newUsageError(fmt.Sprintf("unsupported format %q, must be json or yaml", format))
			}

			reg, err := a.registry()
			if err != nil {
				return err
			}

			var data []byte
			if format == "yaml" {
				data, err = reg.Document().YAML()
			} else {
				data, err = reg.Document().JSON()
			}
			if err != nil {
				return fmt.Errorf("failed to serialize document: %w", err)
			}

			if output == "" || output == "-" {
				_, err = cmd.OutOrStdout().Write(data)
				return err
			}
			if err := os.WriteFile(output, data, 0o644); err != nil {
				return fmt.Errorf("failed to write %s: %w", output, err)
			}
			a.logger.Info("document written", "path", output, "format", format)
			return nil
		},
	}

	cmd.Flags().StringVarP(&format, "format", "f", "json", "output format: json, yaml")
	cmd.Flags().StringVarP(&output, "output", "o", "", "output file (default: stdout)")
	return cmd
}
