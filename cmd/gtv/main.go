package main

import (
	"fmt"
	"os"

	"github.com/bnema/gtv-cli/cmd"
	"github.com/bnema/gtv-cli/internal/domain"
)

func main() {
	if err := cmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, cmd.Diagnostic(err))
		os.Exit(domain.ExitCode(err))
	}
}
