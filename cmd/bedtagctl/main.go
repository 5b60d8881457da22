// Command bedtagctl administers the bed tags database: it applies schema
// migrations and runs the bed tag name rule from the command line.
package main

import (
	"fmt"
	"os"
)

func main() {
	if err := newRootCmd(defaultEnv()).Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
