package main

import (
	"os"

	"github.com/kube-rca/triage-bot/internal/cli"
)

func main() {
	if err := cli.Execute(); err != nil {
		os.Exit(1)
	}
}
