package main

import (
	"os"

	"github.com/msto63/owsh/cmd/owsnode/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
