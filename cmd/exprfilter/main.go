// Package main is the entry point for the exprfilter CLI.
package main

import (
	"log/slog"
	"os"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		slog.Error("exprfilter failed", "error", err)
		os.Exit(1)
	}
}
