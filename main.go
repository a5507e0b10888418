package main

import (
	"os"

	"github.com/enfoco/enfoco/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
