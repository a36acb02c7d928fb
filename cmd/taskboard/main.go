// Command taskboard is the personal task board CLI.
package main

import (
	"os"

	"github.com/mesh-intelligence/taskboard/internal/cli"
)

func main() {
	os.Exit(cli.Execute())
}
