// Package main provides the dip command line tool. It synthesises test
// images and runs the statistics of the library on them.
package main

import (
	"os"
)

const version = "v0.1.0-dev"

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}
