package main

import (
	"os"

	"github.com/whisprhq/whispr-cli/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
