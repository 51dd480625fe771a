package main

import (
	"os"

	"github.com/dxgrid/airlink/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
