// Command dashboard serves the road accident dashboard and driver alert API,
// and offers offline summarize and validate commands over the same dataset.
package main

import (
	"fmt"
	"os"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}
