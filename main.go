package main

import (
	"os"

	"github.com/kyleking/supplier-api/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
