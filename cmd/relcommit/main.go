// Command relcommit is the entry point of the relcommit CLI.
package main

import (
	"os"

	"github.com/djh00t/relcommit/internal/cli"
)

func main() {
	if err := cli.Execute(); err != nil {
		os.Exit(1)
	}
}
