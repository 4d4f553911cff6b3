package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/agentvet/agentvet/internal/adapters/outbound/loader"
	"github.com/agentvet/agentvet/internal/adapters/outbound/tui"
	watchAdapter "github.com/agentvet/agentvet/internal/adapters/outbound/watcher"
)

func newWatchCmd() *cobra.Command {
	var (
		strict      bool
		strictHTTPS bool
		verbose     bool
		noColor     bool
	)

	cmd := &cobra.Command{
		Use:   "watch [dir]",
		Short: "Re-validate components as they change",
		Long:  "Watch a directory and re-run validation on every changed component document until interrupted.",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			root := "."
			if len(args) > 0 {
				root = args[0]
			}

			svc, store, opts, cfg, err := newServices(root, "", "", strict, strictHTTPS)
			if err != nil {
				return err
			}
			defer func() { _ = store.Close() }()

			w, err := watchAdapter.New(root)
			if err != nil {
				return err
			}
			defer func() { _ = w.Close() }()

			ld := loader.New(cfg.ExcludePaths)
			fmt.Fprintf(cmd.OutOrStdout(), "watching %s\n", root)

			return w.Watch(cmd.Context(), func(path string) error {
				c, err := ld.LoadFile(path)
				if err != nil {
					fmt.Fprintf(cmd.OutOrStdout(), "skipping %s: %v\n", path, err)
					return nil
				}
				agg := svc.ValidateComponent(c, opts)
				fmt.Fprint(cmd.OutOrStdout(), tui.RenderReport(agg, verbose, !noColor))
				return nil
			})
		},
	}

	cmd.Flags().BoolVar(&strict, "strict", false, "Count semantic warnings toward invalidity")
	cmd.Flags().BoolVar(&strictHTTPS, "strict-https", false, "Treat plain http links as errors")
	cmd.Flags().BoolVarP(&verbose, "verbose", "v", false, "List every finding")
	cmd.Flags().BoolVar(&noColor, "no-color", false, "Disable colored output")

	return cmd
}
