// Copyright 2025, Jason S. McMullan <jason.mcmullan@gmail.com>

// Command cosim runs a scripted processor model against a program image,
// either concretely or under path exploration.
package main

import (
	"os"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}
