// Command loxconform runs the same fixture expressions through the
// treewalk interpreter and the bytecode VM and reports where they
// disagree — an in-process adaptation of the teacher's external
// reference-vs-target TestFramework (spec §8's cross-backend equivalence
// property; see DESIGN.md).
package main

import (
	"flag"
	"fmt"
	"os"
)

func main() {
	dir := flag.String("dir", "testdata/conform", "directory of .lox expression fixtures")
	flag.Parse()

	cases, err := collectCases(*dir)
	if err != nil {
		fmt.Fprintf(os.Stderr, "loxconform: %s\n", err)
		os.Exit(1)
	}

	failed := 0
	for _, tc := range cases {
		runCase(tc)
		if tc.PrintResult() {
			failed++
		}
	}

	fmt.Println()
	fmt.Printf("Tests run: %d  Succeeded: %d  Failed: %d\n", len(cases), len(cases)-failed, failed)

	if failed > 0 {
		os.Exit(1)
	}
}
