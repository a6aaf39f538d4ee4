// Package main provides the entry point for the lunac CLI tool
package main

import (
	"fmt"
	"os"

	"github.com/zyanho/lunac/cmd/lunac/cmd"
	"github.com/zyanho/lunac/internal/executor"
)

func main() {
	if err := cmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		if executor.IsSpawnError(err) {
			fmt.Fprintln(os.Stderr, "Make sure the build tool is installed and on your PATH.")
		}
		os.Exit(executor.ExitCode(err))
	}
}
