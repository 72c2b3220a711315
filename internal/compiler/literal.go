package compiler

import (
	"strconv"

	"golox/internal/bytecode"
	"golox/internal/token"
)

func parseNumberLiteral(tok token.Token) bytecode.Value {
	n, _ := strconv.ParseFloat(tok.Lexeme(), 64)
	return bytecode.NewNumber(n)
}

// stringLiteralValue strips the surrounding quotes a STRING token's Lexeme
// still carries (the scanner spans the whole "..." run, quotes included).
func stringLiteralValue(tok token.Token) string {
	lex := tok.Lexeme()
	return lex[1 : len(lex)-1]
}
