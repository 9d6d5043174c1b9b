package main

import (
	"os"

	"github.com/akinus/organize/internal/cli"
)

func main() {
	if err := cli.Execute(); err != nil {
		os.Exit(1)
	}
}
