// Command ushlint is the UdonSharp static analyser's command-line entry
// point: it starts the LSP server on stdio, runs batch lint checks, or
// inspects the loaded rule catalogue, depending on the subcommand given.
package main

import (
	"context"
	"fmt"
	"os"

	"github.com/project-sakanah/udonsharp-linter/cmd/ushlint/cmd"
)

func main() {
	if err := cmd.Execute(context.Background(), os.Args); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
