package main

import (
	"context"
	"errors"
	"fmt"
	"os"
)

func main() {
	if err := newRootCommand().Execute(); err != nil {
		// An interrupted run already reported what it was doing.
		if !errors.Is(err, context.Canceled) {
			fmt.Fprintf(os.Stderr, "mediadup: %v\n", err)
		}
		os.Exit(1)
	}
}
