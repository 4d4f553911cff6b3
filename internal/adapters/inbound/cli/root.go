package cli

import "github.com/spf13/cobra"

var (
	version = "dev"
	commit  = "none"
)

func newRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:           "agentvet",
		Short:         "Screen AI agent components before you trust them",
		Long:          "agentvet runs structural, integrity, semantic, and reference validation over third-party agent/command definitions and reports tampering, prompt injection, and unsafe content.",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	cmd.AddCommand(newVersionCmd())
	cmd.AddCommand(newValidateCmd())
	cmd.AddCommand(newBatchCmd())
	cmd.AddCommand(newSecurityCmd())
	cmd.AddCommand(newWatchCmd())
	cmd.AddCommand(newMCPCmd())
	return cmd
}

// NewRootCmdForTest returns the root command for testing.
func NewRootCmdForTest() *cobra.Command {
	return newRootCmd()
}

func Execute() error {
	return newRootCmd().Execute()
}
