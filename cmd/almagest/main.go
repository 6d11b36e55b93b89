// Command almagest computes chart positions, aspects, lunations, eclipses
// and conjunctions.
package main

import (
	"fmt"
	"os"

	"github.com/roach88/almagest/internal/cli"
)

func main() {
	if err := cli.NewRootCommand().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "almagest:", err)
		os.Exit(cli.GetExitCode(err))
	}
}
