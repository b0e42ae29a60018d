package main

import (
	"os"

	"github.com/wrencode/crypto-gains-calculator/internal/commands"
)

func main() {
	if err := commands.NewRootCommand().Execute(); err != nil {
		os.Exit(1)
	}
}
