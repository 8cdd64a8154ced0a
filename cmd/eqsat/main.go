// Command eqsat runs the SDQL equality-saturation optimizer over a single
// S-expression program file.
package main

import (
	"os"

	"github.com/sdql-eqsat/eqsat/cmd/eqsat/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
