package main

import (
	"os"

	"github.com/avdw/git-changelog/internal/cli"
)

func main() {
	os.Exit(cli.Execute())
}
