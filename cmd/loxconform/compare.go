package main

import (
	"fmt"
	"strings"

	"github.com/fatih/color"
)

const width = 80

var divider = strings.Repeat("-", width)

// PrintResult prints one case's pass/fail line and, on failure, a
// side-by-side of what each backend produced — adapted from the teacher's
// TestCase.PrintResult expected/actual diffing.
func (tc *TestCase) PrintResult() bool {
	failed := !tc.Passed()

	result := color.GreenString("passed")
	if failed {
		result = color.RedString("failed")
	}
	spacing := strings.Repeat(" ", max(1, width-len("[passed] ")-len(tc.Name)))
	fmt.Printf("[%s] %s%s\n", result, tc.Name, spacing)

	if failed {
		fmt.Println(divider)
		fmt.Printf("treewalk: ok=%v result=%q err=%q\n", tc.TreewalkOK, tc.TreewalkResult, tc.TreewalkErr)
		fmt.Printf("vm:       ok=%v result=%q err=%q\n", tc.VMOK, tc.VMResult, tc.VMErr)
		fmt.Println(divider)
	}
	return failed
}
