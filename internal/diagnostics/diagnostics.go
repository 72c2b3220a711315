// Package diagnostics buffers and renders the errors and warnings produced
// across the lexing, parsing, resolving and evaluation passes (spec §4.8).
package diagnostics

import (
	"fmt"
	"io"

	"github.com/fatih/color"
)

// Kind categorises a diagnostic per spec §7.
type Kind string

const (
	// Lexing
	UnexpectedCharacter Kind = "UnexpectedCharacter"
	UnterminatedString  Kind = "UnterminatedString"

	// Parsing
	ExpectedToken          Kind = "ExpectedToken"
	ExpectedExpression     Kind = "ExpectedExpression"
	ExpectedSemiColon      Kind = "ExpectedSemiColon"
	ExpectedClosingParen   Kind = "ExpectedClosingParen"
	ExpectedClosingBrace   Kind = "ExpectedClosingBrace"
	ExpectedOpeningParen   Kind = "ExpectedOpeningParen"
	ExpectedIdentifier     Kind = "ExpectedIdentifier"
	ExpectedBlockStatement Kind = "ExpectedBlockStatement"
	ExpectedLVal           Kind = "ExpectedLVal"
	TooManyArguments       Kind = "TooManyArguments"
	UnexpectedToken        Kind = "UnexpectedToken"
	UnmatchedClosingParen  Kind = "UnmatchedClosingParen"
	UnclosedGrouping       Kind = "UnclosedGrouping"

	// Static analysis
	VariableRedeclaration    Kind = "VariableRedeclaration"
	SelfreferenceInitializer Kind = "SelfreferenceInitializer"
	ReturnFromTopLevel       Kind = "ReturnFromTopLevel"
	InitializerReturnedValue Kind = "InitializerReturnedValue"
	InheritanceCycle         Kind = "InheritanceCycle"
	ThisOutsideClass         Kind = "ThisOutsideClass"
	SuperOutsideSubclass     Kind = "SuperOutsideSubclass"

	// Runtime
	UndefinedVariable     Kind = "UndefinedVariable"
	UndefinedProperty     Kind = "UndefinedProperty"
	TypeMismatch          Kind = "TypeMismatch"
	InvalidOperands       Kind = "InvalidOperands"
	InvalidBinaryOperand  Kind = "InvalidBinaryOperand"
	DivisionByZero        Kind = "DivisionByZero"
	NotCallable           Kind = "NotCallable"
	WrongNumberOfArgs     Kind = "WrongNumberOfArguments"
	MethodNotDefined      Kind = "MethodNotDefined"

	// System
	OutOfMemory Kind = "OutOfMemory"
	WriteFailed Kind = "WriteFailed"
)

// Context carries everything Bag.Print needs to render one entry:
// "Error(<kind>): <message> at <srcloc> near <lexeme>".
type Context struct {
	Kind    Kind
	Message string
	Line    int
	Col     int
	Lexeme  string
}

func (c Context) String() string {
	return fmt.Sprintf("(%s): %s at %d:%d near %q", c.Kind, c.Message, c.Line, c.Col, c.Lexeme)
}

// Bag is a buffered collector of errors and warnings. It never exits the
// process; only the driver's pipeline boundary decides what to do once
// HasErrors is true.
type Bag struct {
	Errors   []Context
	Warnings []Context
}

func (b *Bag) ReportError(ctx Context) {
	b.Errors = append(b.Errors, ctx)
}

func (b *Bag) ReportWarning(ctx Context) {
	b.Warnings = append(b.Warnings, ctx)
}

func (b *Bag) HasErrors() bool {
	return len(b.Errors) > 0
}

var errorLabel = color.New(color.FgRed, color.Bold)
var warnLabel = color.New(color.FgYellow, color.Bold)

// Print renders every buffered warning then every buffered error to w, as
// "Error(<kind>): <message> at <srcloc> near <lexeme>".
func (b *Bag) Print(w io.Writer) {
	for _, ctx := range b.Warnings {
		fmt.Fprintf(w, "%s%s\n", warnLabel.Sprint("Warning"), ctx)
	}
	for _, ctx := range b.Errors {
		fmt.Fprintf(w, "%s%s\n", errorLabel.Sprint("Error"), ctx)
	}
}
