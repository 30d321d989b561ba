// Command ntm traces nondeterministic Turing machines breadth-first.
package main

import (
	"context"
	"os"

	"github.com/tram-tr/turing-machine/internal/cli"
)

func main() {
	os.Exit(cli.Execute(context.Background(), os.Args[1:], os.Stdin, os.Stdout, os.Stderr))
}
