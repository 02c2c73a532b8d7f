// Command hardisty computes time series, trending KPIs, lists and distribution
// summaries from an analytics snapshot file.
package main

import (
	"fmt"
	"os"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}
