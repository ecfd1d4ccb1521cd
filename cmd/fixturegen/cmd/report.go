package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
)

var reportCmd = &cobra.Command{
	Use:   "report RULES_FILE",
	Short: "Print every selector of a rule file with the nodes it matches",
	Args:  cobra.ExactArgs(1),
	RunE:  runReport,
}

func init() {
	rootCmd.AddCommand(reportCmd)
	reportCmd.Flags().String("format", "yaml", "output format (yaml, dump)")
}

func runReport(cmd *cobra.Command, args []string) error {
	ctx, _, err := load(cmd, args[0])
	if err != nil {
		return err
	}

	matches := ctx.Report()
	format, _ := cmd.Flags().GetString("format")

	switch format {
	case "yaml":
		data, err := matches.YAML()
		if err != nil {
			return fmt.Errorf("failed to marshal report: %w", err)
		}

		_, err = cmd.OutOrStdout().Write(data)

		return err
	case "dump":
		_, err := fmt.Fprint(cmd.OutOrStdout(), matches.Dump())
		return err
	default:
		return fmt.Errorf("unknown --format %q (yaml, dump)", format)
	}
}
