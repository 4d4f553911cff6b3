package main

import (
	"fmt"
	"os"

	"github.com/agentvet/agentvet/internal/adapters/inbound/cli"
)

func main() {
	if err := cli.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "agentvet:", err)
		os.Exit(1)
	}
}
