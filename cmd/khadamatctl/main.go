// Package main provides the entry point for the khadamatctl CLI.
package main

import (
	"os"

	"github.com/kailas-cloud/khadamat/cmd/khadamatctl/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
