package main

import (
	"context"
	"errors"
	"fmt"
	"os"

	"voxlock/internal/services"
)

func main() {
	cmd := newRootCommand()
	err := cmd.Execute()
	if err == nil {
		return
	}
	if errors.Is(err, context.Canceled) {
		os.Exit(130)
	}
	fmt.Fprintln(os.Stderr, err)
	os.Exit(exitCode(err))
}

// exitCode separates authentication verdicts from plumbing failures so
// scripts can branch on denial without parsing stderr.
func exitCode(err error) int {
	switch {
	case errors.Is(err, services.ErrLockout):
		return 2
	case errors.Is(err, services.ErrNotFound):
		return 3
	case errors.Is(err, services.ErrBusy):
		return 4
	default:
		return 1
	}
}
