// Package compiler implements the single-pass, operator-stack bytecode
// compiler of spec §4.6. Unlike internal/parser (which builds a full AST
// for statements, declarations and classes) this compiler only ever
// targets one expression terminated by Eof — the bytecode backend's scope
// is the parallel "expression VM" spec §2's pipeline diagram shows
// alongside, not a full reimplementation of every treewalk feature; see
// DESIGN.md.
package compiler

import (
	"golox/internal/bytecode"
	"golox/internal/diagnostics"
	"golox/internal/token"
)

// precedence levels, low to high, exactly as spec §4.6 lists them.
type precedence int

const (
	precNone precedence = iota
	precAssignment
	precOr
	precAnd
	precEquality
	precComparison
	precTerm
	precFactor
	precUnary
	precGroupStart
)

type opEntry struct {
	prec    precedence
	op      bytecode.OpCode
	isGroup bool
	line    int
}

type state int

const (
	expectingValue state = iota
	gotValue
)

// Compiler drives tokens (already fully scanned, consumed here on demand by
// index) through the operator-stack algorithm into chunk.
type Compiler struct {
	tokens []token.Token
	idx    int
	diag   *diagnostics.Bag
	chunk  *bytecode.Chunk
	ops    []opEntry
}

func New(tokens []token.Token, diag *diagnostics.Bag) *Compiler {
	return &Compiler{tokens: tokens, diag: diag, chunk: bytecode.NewChunk()}
}

func (c *Compiler) current() token.Token  { return c.tokens[c.idx] }
func (c *Compiler) advance() token.Token  { t := c.tokens[c.idx]; c.idx++; return t }

// Compile runs the algorithm to completion and returns the finished chunk,
// or nil if a compile error was reported to diag.
func (c *Compiler) Compile() *bytecode.Chunk {
	st := expectingValue
	for {
		tok := c.advance()
		switch st {
		case expectingValue:
			if !c.compileValuePosition(tok) {
				return nil
			}
			// '(' and unary operators still need an operand after them.
			if tok.Type != token.LEFT_PAREN && tok.Type != token.MINUS && tok.Type != token.BANG {
				st = gotValue
			}

		case gotValue:
			next, ok := c.compileOperatorPosition(tok)
			if !ok {
				return nil
			}
			if next == nil {
				return c.chunk
			}
			st = *next
		}
	}
}

// compileValuePosition handles algorithm steps 1, 2 and 4 (value tokens,
// '(' and unary operators). Returns false on a compile error.
func (c *Compiler) compileValuePosition(tok token.Token) bool {
	switch tok.Type {
	case token.NUMBER:
		c.emitConstant(parseNumberLiteral(tok), tok.Pos.Line)
		c.drainUnary()
	case token.STRING:
		c.emitConstant(bytecode.NewString(stringLiteralValue(tok)), tok.Pos.Line)
		c.drainUnary()
	case token.TRUE:
		c.chunk.WriteOp(bytecode.OpTrue, tok.Pos.Line)
		c.drainUnary()
	case token.FALSE:
		c.chunk.WriteOp(bytecode.OpFalse, tok.Pos.Line)
		c.drainUnary()
	case token.NIL:
		c.chunk.WriteOp(bytecode.OpNil, tok.Pos.Line)
		c.drainUnary()
	case token.LEFT_PAREN:
		c.ops = append(c.ops, opEntry{isGroup: true, prec: precGroupStart, line: tok.Pos.Line})
	case token.MINUS:
		c.ops = append(c.ops, opEntry{prec: precUnary, op: bytecode.OpNegate, line: tok.Pos.Line})
	case token.BANG:
		c.ops = append(c.ops, opEntry{prec: precUnary, op: bytecode.OpNot, line: tok.Pos.Line})
	default:
		c.fail(diagnostics.ExpectedExpression, "Expect expression.", tok)
		return false
	}
	return true
}

// compileOperatorPosition handles algorithm steps 3, 5 and 6 (')', binary
// operators, Eof). A nil *state with ok=true signals "done, chunk
// finished"; otherwise the returned state is the compiler's next state.
func (c *Compiler) compileOperatorPosition(tok token.Token) (*state, bool) {
	switch tok.Type {
	case token.RIGHT_PAREN:
		if !c.closeGroup(tok) {
			return nil, false
		}
		s := gotValue
		return &s, true

	case token.EOF:
		if !c.drainAll(tok) {
			return nil, false
		}
		c.chunk.WriteOp(bytecode.OpReturn, tok.Pos.Line)
		return nil, true

	default:
		prec, op, ok := binaryOp(tok.Type)
		if !ok {
			c.fail(diagnostics.ExpectedToken, "Expect operator or ')'.", tok)
			return nil, false
		}
		c.popWhile(prec, tok.Pos.Line)
		c.ops = append(c.ops, opEntry{prec: prec, op: op, line: tok.Pos.Line})
		s := expectingValue
		return &s, true
	}
}

func binaryOp(t token.Type) (precedence, bytecode.OpCode, bool) {
	switch t {
	case token.PLUS:
		return precTerm, bytecode.OpAdd, true
	case token.MINUS:
		return precTerm, bytecode.OpSubtract, true
	case token.STAR:
		return precFactor, bytecode.OpMultiply, true
	case token.SLASH:
		return precFactor, bytecode.OpDivide, true
	case token.EQUAL_EQUAL:
		return precEquality, bytecode.OpEqual, true
	case token.BANG_EQUAL:
		return precEquality, bytecode.OpNotEqual, true
	case token.LESS:
		return precComparison, bytecode.OpLess, true
	case token.LESS_EQUAL:
		return precComparison, bytecode.OpLessEqual, true
	case token.GREATER:
		return precComparison, bytecode.OpGreater, true
	case token.GREATER_EQUAL:
		return precComparison, bytecode.OpGreaterEqual, true
	case token.AND:
		return precAnd, bytecode.OpAnd, true
	case token.OR:
		return precOr, bytecode.OpOr, true
	}
	return precNone, 0, false
}

// popWhile emits every operator whose precedence is >= incoming, stopping
// at (never consuming) a group_start marker.
func (c *Compiler) popWhile(incoming precedence, line int) {
	for len(c.ops) > 0 {
		top := c.ops[len(c.ops)-1]
		if top.isGroup || top.prec < incoming {
			return
		}
		c.ops = c.ops[:len(c.ops)-1]
		c.chunk.WriteOp(top.op, line)
	}
}

// drainUnary emits any unary operators sitting on top of the stack — their
// operand just became available, so they resolve immediately rather than
// waiting for a lower-precedence incoming operator.
func (c *Compiler) drainUnary() {
	for len(c.ops) > 0 {
		top := c.ops[len(c.ops)-1]
		if top.isGroup || top.prec != precUnary {
			return
		}
		c.ops = c.ops[:len(c.ops)-1]
		c.chunk.WriteOp(top.op, top.line)
	}
}

// closeGroup implements step 3: pop and emit until the matching group_start
// marker is popped (and discarded), then drain any pending unary above.
func (c *Compiler) closeGroup(paren token.Token) bool {
	for len(c.ops) > 0 {
		top := c.ops[len(c.ops)-1]
		c.ops = c.ops[:len(c.ops)-1]
		if top.isGroup {
			c.drainUnary()
			return true
		}
		c.chunk.WriteOp(top.op, paren.Pos.Line)
	}
	c.fail(diagnostics.UnmatchedClosingParen, "Unmatched ')'.", paren)
	return false
}

// drainAll implements step 6: pop and emit every remaining operator; a
// surviving group_start marker is an UnclosedGrouping error.
func (c *Compiler) drainAll(eof token.Token) bool {
	ok := true
	for len(c.ops) > 0 {
		top := c.ops[len(c.ops)-1]
		c.ops = c.ops[:len(c.ops)-1]
		if top.isGroup {
			c.fail(diagnostics.UnclosedGrouping, "Expect ')' after expression.", eof)
			ok = false
			continue
		}
		c.chunk.WriteOp(top.op, eof.Pos.Line)
	}
	return ok
}

func (c *Compiler) emitConstant(v bytecode.Value, line int) {
	idx := c.chunk.AddConstant(v)
	c.chunk.WriteOp(bytecode.OpConstant, line)
	c.chunk.Write(idx, line)
}

func (c *Compiler) fail(kind diagnostics.Kind, msg string, tok token.Token) {
	c.diag.ReportError(diagnostics.Context{
		Kind: kind, Message: msg, Line: tok.Pos.Line, Col: tok.Pos.Col, Lexeme: tok.Lexeme(),
	})
}
