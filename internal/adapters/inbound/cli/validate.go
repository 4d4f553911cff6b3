package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/agentvet/agentvet/internal/adapters/outbound/loader"
	"github.com/agentvet/agentvet/internal/adapters/outbound/tui"
	"github.com/agentvet/agentvet/internal/application"
)

func newValidateCmd() *cobra.Command {
	var (
		strict          bool
		strictHTTPS     bool
		validatorsFlag  string
		jsonOutput      bool
		verbose         bool
		noColor         bool
		updateRegistry  bool
		expectedHash    string
		registryBackend string
		path            string
	)

	cmd := &cobra.Command{
		Use:   "validate <file1> [file2] ...",
		Short: "Validate component documents",
		Long:  "Run the selected validators over one or more component documents. Exits non-zero if any document is invalid.",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			svc, store, opts, cfg, err := newServices(path, registryBackend, validatorsFlag, strict, strictHTTPS)
			if err != nil {
				return err
			}
			defer func() { _ = store.Close() }()

			opts.UpdateRegistry = updateRegistry
			opts.ExpectedHash = expectedHash

			ld := loader.New(cfg.ExcludePaths)
			failed := 0
			for _, file := range args {
				c, err := ld.LoadFile(file)
				if err != nil {
					// Unreadable input is isolated: validated as empty so the
					// integrity validator reports it, and the loop continues.
					c.Path = file
				}

				agg := svc.ValidateComponent(c, opts)
				if !agg.Overall.Valid {
					failed++
				}

				if jsonOutput {
					out, err := application.JSONReport(agg)
					if err != nil {
						return err
					}
					fmt.Fprintln(cmd.OutOrStdout(), out)
				} else {
					fmt.Fprint(cmd.OutOrStdout(), tui.RenderReport(agg, verbose, !noColor))
				}
			}

			if failed > 0 {
				return fmt.Errorf("validation failed for %d of %d component(s)", failed, len(args))
			}
			return nil
		},
	}

	cmd.Flags().BoolVar(&strict, "strict", false, "Count semantic warnings toward invalidity")
	cmd.Flags().BoolVar(&strictHTTPS, "strict-https", false, "Treat plain http links as errors")
	cmd.Flags().StringVar(&validatorsFlag, "validators", "", "Comma-separated validator subset (structural,integrity,semantic,reference)")
	cmd.Flags().BoolVar(&jsonOutput, "json", false, "Output as JSON")
	cmd.Flags().BoolVarP(&verbose, "verbose", "v", false, "List every finding")
	cmd.Flags().BoolVar(&noColor, "no-color", false, "Disable colored output")
	cmd.Flags().BoolVar(&updateRegistry, "update-registry", false, "Persist new content hashes after validation")
	cmd.Flags().StringVar(&expectedHash, "expected-hash", "", "Compare content against this hash instead of the registry")
	cmd.Flags().StringVar(&registryBackend, "registry-backend", "", "Registry store: json or sqlite")
	cmd.Flags().StringVar(&path, "path", ".", "Project root for config and registry")

	return cmd
}
