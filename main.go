package main

import (
	"os"

	"github.com/draftly-ai/ragcore/internal/adapters/driving/cli"
)

func main() {
	if err := cli.Execute(); err != nil {
		os.Exit(1)
	}
}
