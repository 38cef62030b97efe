package main

import (
	"os"

	"github.com/seekwell/comms-prospector/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
