// The molforge command is the CLI front end for the pipeline API.
package main

import (
	"fmt"
	"os"

	"github.com/turtacn/MolForge-AI/internal/interfaces/cli"
)

func main() {
	if err := cli.NewRootCommand().Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
