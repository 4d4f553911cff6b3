package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/agentvet/agentvet/internal/adapters/outbound/catalog"
	"github.com/agentvet/agentvet/internal/adapters/outbound/loader"
	"github.com/agentvet/agentvet/internal/adapters/outbound/tui"
	"github.com/agentvet/agentvet/internal/application"
	"github.com/agentvet/agentvet/internal/domain"
)

func newBatchCmd() *cobra.Command {
	var (
		strict          bool
		strictHTTPS     bool
		validatorsFlag  string
		jsonOutput      bool
		verbose         bool
		noColor         bool
		updateRegistry  bool
		registryBackend string
		manifest        string
	)

	cmd := &cobra.Command{
		Use:   "batch [dir]",
		Short: "Validate a collection of component documents",
		Long:  "Discover component documents under a directory (or listed in a components.json manifest) and validate them all. Summary counts are always produced; exits non-zero if any document is invalid.",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			root := "."
			if len(args) > 0 {
				root = args[0]
			}

			svc, store, opts, cfg, err := newServices(root, registryBackend, validatorsFlag, strict, strictHTTPS)
			if err != nil {
				return err
			}
			defer func() { _ = store.Close() }()
			opts.UpdateRegistry = updateRegistry

			var components []domain.Component
			if manifest != "" {
				entries, err := catalog.ReadManifest(manifest)
				if err != nil {
					return err
				}
				components = catalog.LoadComponents(entries)
			} else {
				components, err = loader.New(cfg.ExcludePaths).Discover(root)
				if err != nil {
					return err
				}
			}
			if len(components) == 0 {
				return fmt.Errorf("no component documents found under %s", root)
			}

			batch := svc.ValidateComponents(components, opts)

			if jsonOutput {
				out, err := application.BatchJSONReport(batch)
				if err != nil {
					return err
				}
				fmt.Fprintln(cmd.OutOrStdout(), out)
			} else {
				fmt.Fprint(cmd.OutOrStdout(), tui.RenderBatch(batch, verbose, !noColor))
			}

			if batch.Summary.Failed > 0 {
				return fmt.Errorf("%d of %d component(s) failed validation", batch.Summary.Failed, batch.Summary.Total)
			}
			return nil
		},
	}

	cmd.Flags().BoolVar(&strict, "strict", false, "Count semantic warnings toward invalidity")
	cmd.Flags().BoolVar(&strictHTTPS, "strict-https", false, "Treat plain http links as errors")
	cmd.Flags().StringVar(&validatorsFlag, "validators", "", "Comma-separated validator subset")
	cmd.Flags().BoolVar(&jsonOutput, "json", false, "Output as JSON")
	cmd.Flags().BoolVarP(&verbose, "verbose", "v", false, "List every finding")
	cmd.Flags().BoolVar(&noColor, "no-color", false, "Disable colored output")
	cmd.Flags().BoolVar(&updateRegistry, "update-registry", false, "Persist new content hashes after validation")
	cmd.Flags().StringVar(&registryBackend, "registry-backend", "", "Registry store: json or sqlite")
	cmd.Flags().StringVar(&manifest, "manifest", "", "Validate the components a components.json manifest lists")

	return cmd
}
