// combmap loads a combination map from JSON and runs queries against it.
package main

import (
	"fmt"
	"os"

	"github.com/ttokutake/combination-map/cmd/combmap/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}
