// Command extractjob runs the heuristic field extractor over a scope-of-works
// text file and prints the result as JSON. Useful for tuning the patterns
// against real documents.
package main

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/sitewise-labs/ramsgen/internal/fields"
)

func main() {
	if len(os.Args) != 2 {
		fmt.Fprintf(os.Stderr, "usage: %s <scope-text-file>\n", os.Args[0])
		os.Exit(2)
	}

	data, err := os.ReadFile(os.Args[1])
	if err != nil {
		fmt.Fprintf(os.Stderr, "read %s: %v\n", os.Args[1], err)
		os.Exit(1)
	}

	out, err := json.MarshalIndent(fields.Extract(string(data)), "", "  ")
	if err != nil {
		fmt.Fprintf(os.Stderr, "encode: %v\n", err)
		os.Exit(1)
	}
	fmt.Println(string(out))
}
