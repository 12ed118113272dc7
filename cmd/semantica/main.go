// Command semantica is the semantic indexing and search pipeline CLI.
package main

import (
	"os"

	"github.com/custodia-labs/semantica/internal/adapters/driving/cli"
)

// version is overridden at build time via -ldflags.
var version = "dev"

func main() {
	if err := cli.Execute(version); err != nil {
		os.Exit(1)
	}
}
