package main

import (
	"os"

	"cogbench/internal/cli"
)

func main() {
	os.Exit(cli.Execute())
}
