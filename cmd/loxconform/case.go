package main

// TestCase is one fixture: a bare Lox expression evaluated through both
// backends. Scope is intentionally narrower than cmd/golox's full program
// support — the bytecode VM (spec §4.6/§4.7) only ever compiles a single
// expression terminated by Eof, so conformance fixtures are expressions,
// not full programs (see DESIGN.md).
type TestCase struct {
	Name   string
	Source string

	TreewalkOK     bool
	TreewalkResult string
	TreewalkErr    string

	VMOK     bool
	VMResult string
	VMErr    string
}

func (tc *TestCase) Passed() bool {
	return tc.TreewalkOK == tc.VMOK && tc.TreewalkResult == tc.VMResult
}
