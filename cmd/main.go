package main

import (
	"os"

	"github.com/ismailukman/millionaire-live/internal/cli"
)

func main() {
	if err := cli.Execute(); err != nil {
		os.Exit(1)
	}
}
