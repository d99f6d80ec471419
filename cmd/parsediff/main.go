// Command parsediff compares pgparse trees with a reference parse helper.
package main

import (
	"fmt"
	"os"

	"github.com/leapstack-labs/pgparse/internal/diff"
)

func main() {
	cmd := diff.NewCommand(os.Stdin, os.Stdout, os.Stderr)
	if err := cmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err.Error())
		os.Exit(1)
	}
}
