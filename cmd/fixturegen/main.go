// Package main provides the CLI entrypoint for fixturegen.
//
// fixturegen loads a YAML rule file against the sample store types and
// reports how its selectors resolve:
//   - report prints every selector with the nodes it matches
//   - check fails when a selector matches nothing
package main

import (
	"os"

	"fixturegen/cmd/fixturegen/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
