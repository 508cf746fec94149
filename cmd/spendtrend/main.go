package main

import (
	"os"

	"github.com/mol3earth/ofx/internal/commands"
)

func main() {
	if err := commands.NewRootCommand().Execute(); err != nil {
		os.Exit(1)
	}
}
