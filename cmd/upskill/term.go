package main

import (
	"os"

	"github.com/aretw0/upskill/pkg/runner"
)

func isTerminal() bool {
	return runner.IsTerminal(os.Stdout)
}
