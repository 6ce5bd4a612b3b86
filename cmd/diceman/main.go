package main

import (
	"os"

	"github.com/cory-johannsen/diceman/cmd/diceman/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
