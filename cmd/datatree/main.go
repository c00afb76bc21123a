// Command datatree builds schema-validated data trees from JSON documents and
// prints them, their application grouping, or the first validation failure.
package main

import (
	"fmt"
	"os"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
