// Package main provides the entry point for the mesai assistant.
package main

import (
	"fmt"
	"os"

	"github.com/argenova/mesai-ai/internal/cli"
)

func main() {
	if err := cli.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
