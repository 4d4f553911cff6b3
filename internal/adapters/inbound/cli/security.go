package cli

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/agentvet/agentvet/internal/adapters/outbound/loader"
	"github.com/agentvet/agentvet/internal/adapters/outbound/tui"
)

func newSecurityCmd() *cobra.Command {
	var (
		jsonOutput bool
		noColor    bool
		path       string
	)

	cmd := &cobra.Command{
		Use:   "security <file>",
		Short: "Generate a security risk report for a component",
		Long:  "Run the adversarial-pattern rules over one document and classify the overall risk as CRITICAL, HIGH, MEDIUM, or LOW.",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			svc, store, _, cfg, err := newServices(path, "", "", false, false)
			if err != nil {
				return err
			}
			defer func() { _ = store.Close() }()

			c, err := loader.New(cfg.ExcludePaths).LoadFile(args[0])
			if err != nil {
				return err
			}

			report := svc.SecurityReport(c)

			if jsonOutput {
				enc := json.NewEncoder(cmd.OutOrStdout())
				enc.SetIndent("", "  ")
				if err := enc.Encode(report); err != nil {
					return err
				}
			} else {
				fmt.Fprint(cmd.OutOrStdout(), tui.RenderSecurityReport(c.Path, report, !noColor))
			}

			if !report.Safe {
				return fmt.Errorf("component is not safe (risk %s)", report.RiskLevel)
			}
			return nil
		},
	}

	cmd.Flags().BoolVar(&jsonOutput, "json", false, "Output as JSON")
	cmd.Flags().BoolVar(&noColor, "no-color", false, "Disable colored output")
	cmd.Flags().StringVar(&path, "path", ".", "Project root for config")

	return cmd
}
