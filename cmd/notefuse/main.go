// Command notefuse indexes notes and searches them by meaning and by text.
package main

import (
	"os"

	"github.com/custodia-labs/notefuse/internal/adapters/driving/cli"
)

func main() {
	if err := cli.Execute(); err != nil {
		os.Exit(1)
	}
}
