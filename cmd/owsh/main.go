package main

import (
	"os"

	"github.com/msto63/owsh/cmd/owsh/cmd"
)

func main() {
	os.Exit(cmd.ExitCode(cmd.Execute()))
}
