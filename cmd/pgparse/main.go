// Command pgparse prints the raw parse tree of a SQL input.
package main

import (
	"os"

	"github.com/leapstack-labs/pgparse/internal/cli"
)

func main() {
	os.Exit(cli.Run(os.Args, os.Stdin, os.Stdout, os.Stderr))
}
