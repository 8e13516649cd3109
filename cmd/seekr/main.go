// Command seekr is the CLI entry point for the local code-search engine.
package main

import (
	"fmt"
	"os"

	"github.com/seekr/seekr/cmd/seekr/cmd"
)

func main() {
	root := cmd.NewRootCmd()
	err := root.Execute()
	if err != nil {
		fmt.Fprintln(os.Stderr, "seekr:", err)
	}
	os.Exit(cmd.ExitCode(err))
}
