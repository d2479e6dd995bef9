// Command v5ctl is a demonstration CLI over pkg/connection and
// pkg/transfer: query a V5 brain's status, move files to and from it, pull
// a screenshot, and drive its competition state.
package main

import (
	"fmt"
	"os"

	"github.com/v5kit/v5serial/cmd/v5ctl/commands"
)

func main() {
	if err := commands.RootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "v5ctl: %v\n", err)
		os.Exit(1)
	}
}
