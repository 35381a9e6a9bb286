package asm

import (
	"strconv"
	"strings"
	"unicode"

	"go.starlark.net/starlark"
	"go.starlark.net/syntax"

	"github.com/ezrec/toast/isa"
)

type tokenKind int

const (
	TOKEN_EOF       = tokenKind(iota) // end of input
	TOKEN_WORD                        // word
	TOKEN_BEGIN                       // {
	TOKEN_END                         // }
	TOKEN_SEPARATOR                   // ;
	TOKEN_COLON                       // :
)

type token struct {
	Kind tokenKind
	Text string
}

// tokenize splits a preprocessed block into tokens. A `$(...)` expression
// is kept whole, including any whitespace inside it.
func tokenize(block string) (tokens []token, err error) {
	runes := []rune(block)
	for n := 0; n < len(runes); {
		r := runes[n]
		switch {
		case unicode.IsSpace(r):
			n++
			continue
		case r == '{':
			tokens = append(tokens, token{Kind: TOKEN_BEGIN, Text: "{"})
			n++
			continue
		case r == '}':
			tokens = append(tokens, token{Kind: TOKEN_END, Text: "}"})
			n++
			continue
		case r == ';':
			tokens = append(tokens, token{Kind: TOKEN_SEPARATOR, Text: ";"})
			n++
			continue
		case r == ':':
			tokens = append(tokens, token{Kind: TOKEN_COLON, Text: ":"})
			n++
			continue
		}

		start := n
		for n < len(runes) {
			r = runes[n]
			if unicode.IsSpace(r) || strings.ContainsRune("{};:", r) {
				break
			}
			if r == '$' && n+1 < len(runes) && runes[n+1] == '(' {
				depth := 0
				end := -1
				for m := n + 1; m < len(runes); m++ {
					switch runes[m] {
					case '(':
						depth++
					case ')':
						depth--
					}
					if depth == 0 {
						end = m
						break
					}
				}
				if end < 0 {
					err = ErrParseExpression(string(runes[n+2:]))
					return
				}
				n = end + 1
				continue
			}
			n++
		}
		tokens = append(tokens, token{Kind: TOKEN_WORD, Text: string(runes[start:n])})
	}

	tokens = append(tokens, token{Kind: TOKEN_EOF})

	return
}

type parser struct {
	tokens  []token
	pos     int
	lineNos []int
	stmt    int
	equate  map[string]string
}

func (p *parser) peek() token {
	return p.peekAt(0)
}

func (p *parser) peekAt(offset int) token {
	if p.pos+offset >= len(p.tokens) {
		return token{Kind: TOKEN_EOF}
	}
	return p.tokens[p.pos+offset]
}

func (p *parser) next() (tok token) {
	tok = p.peek()
	if p.pos < len(p.tokens) {
		p.pos++
	}
	return
}

func (p *parser) lineNo() int {
	switch {
	case len(p.lineNos) == 0:
		return 0
	case p.stmt < len(p.lineNos):
		return p.lineNos[p.stmt]
	default:
		return p.lineNos[len(p.lineNos)-1]
	}
}

// Parse parses a preprocessed block into a LineList.
// Labels on an otherwise empty statement bind to the next statement.
// Equates defined by .equ are added to the equate map.
func Parse(block string, lineNos []int, equate map[string]string) (lines LineList, err error) {
	if equate == nil {
		equate = map[string]string{}
	}
	p := &parser{
		lineNos: lineNos,
		equate:  equate,
	}

	defer func() {
		if err != nil {
			if _, ok := err.(*ErrSyntax); ok {
				return
			}
			text := ""
			if p.pos > 0 && p.pos <= len(p.tokens) {
				text = p.tokens[p.pos-1].Text
			}
			err = &ErrSyntax{LineNo: p.lineNo(), Line: text, Err: err}
		}
	}()

	p.tokens, err = tokenize(block)
	if err != nil {
		return
	}

	if p.next().Kind != TOKEN_BEGIN {
		err = ErrBlockUnbalanced
		return
	}

	lines = LineList{}
	var pending []string
	for {
		switch p.peek().Kind {
		case TOKEN_END:
			p.next()
			if p.peek().Kind != TOKEN_EOF {
				p.next()
				err = ErrBlockUnbalanced
				return
			}
			if len(pending) > 0 {
				err = ErrLabelLonely
				return
			}
			return
		case TOKEN_EOF, TOKEN_BEGIN:
			p.next()
			err = ErrBlockUnbalanced
			return
		}

		var line Line
		pending, line, err = p.statement(pending)
		if err != nil {
			return
		}
		if line != nil {
			lines = append(lines, line)
		}

		switch p.peek().Kind {
		case TOKEN_SEPARATOR:
			p.next()
			p.stmt++
		case TOKEN_END:
		default:
			p.next()
			err = ErrBlockUnbalanced
			return
		}
	}
}

// statement parses `(label ':')* body`. Labels without a body are returned
// as pending for the following statement.
func (p *parser) statement(pending []string) (labels []string, line Line, err error) {
	labels = pending
	named := 0

	for p.peek().Kind == TOKEN_WORD && p.peekAt(1).Kind == TOKEN_COLON {
		name := p.next().Text
		p.next()
		if !isIdentifier(name) || isReserved(name) {
			err = ErrLabelSyntax
			return
		}
		labels = append(labels, name)
		named++
	}

	if p.peek().Kind == TOKEN_COLON {
		p.next()
		err = ErrLabelSyntax
		return
	}

	var words []string
	for p.peek().Kind == TOKEN_WORD {
		words = append(words, p.next().Text)
	}

	if len(words) == 0 {
		if named == 0 {
			err = ErrStatementEmpty
		}
		return
	}

	line, err = p.body(words)
	if err != nil || line == nil {
		return
	}

	line = Relabel(line, labels)
	labels = nil

	return
}

// body parses a directive or an instruction.
func (p *parser) body(words []string) (line Line, err error) {
	lineno := p.lineNo()
	p.equate["LINENO"] = strconv.Itoa(lineno)

	if strings.HasPrefix(words[0], ".") {
		switch words[0] {
		case ".word":
			if len(words) < 2 {
				err = ErrWordEmpty
				return
			}
			var tokens []string
			tokens, err = p.operands(words[1:])
			if err != nil {
				return
			}
			line = &Word{LineNo: lineno, Tokens: tokens}
		case ".equ":
			if len(words) != 3 {
				err = ErrEquateSyntax
				return
			}
			if _, ok := p.equate[words[1]]; ok {
				err = ErrEquateDuplicate
				return
			}
			var value []string
			value, err = p.operands(words[2:])
			if err != nil {
				return
			}
			p.equate[words[1]] = value[0]
		default:
			err = ErrDirectiveInvalid(words[0])
		}
		return
	}

	tokens, err := p.operands(words[1:])
	if err != nil {
		return
	}

	line = &Instruction{
		LineNo: lineno,
		Tokens: append([]string{strings.ToLower(words[0])}, tokens...),
	}

	return
}

// operands applies equate substitution and compile-time expressions
// to each operand word.
func (p *parser) operands(words []string) (tokens []string, err error) {
	tokens = make([]string, len(words))
	for n, word := range words {
		if value, ok := p.equate[word]; ok {
			word = value
		} else if head, tail, ok := strings.Cut(word, "("); ok {
			if value, ok := p.equate[head]; ok {
				word = value + "(" + tail
			}
		}

		word, err = p.expressions(word)
		if err != nil {
			return
		}

		tokens[n] = word
	}

	return
}

// expressions replaces each `$(...)` in word with its decimal value.
// Parentheses inside an expression must balance, so `$(4*2)(sp)`
// becomes `8(sp)`.
func (p *parser) expressions(word string) (text string, err error) {
	var buff strings.Builder

	for {
		start := strings.Index(word, "$(")
		if start < 0 {
			break
		}
		end := closeParen(word[start+1:])
		if end < 0 {
			err = ErrParseExpression(word[start+2:])
			return
		}
		end += start + 1

		var value int64
		value, err = p.eval(word[start+2 : end])
		if err != nil {
			return
		}

		buff.WriteString(word[:start])
		buff.WriteString(strconv.FormatInt(value, 10))
		word = word[end+1:]
	}
	buff.WriteString(word)

	text = buff.String()

	return
}

// closeParen returns the index of the parenthesis closing text[0],
// or -1 if it is unbalanced.
func closeParen(text string) int {
	depth := 0
	for n, r := range text {
		switch r {
		case '(':
			depth++
		case ')':
			depth--
		}
		if depth == 0 {
			return n
		}
	}
	return -1
}

// eval does compile-time $(...) evaluations
func (p *parser) eval(expr string) (value int64, err error) {
	thread := starlark.Thread{}
	opts := syntax.FileOptions{}
	pred := starlark.StringDict{}
	for key, str := range p.equate {
		number, _err := parseNumber(str)
		if _err != nil {
			// Ignore non-integer equates. They may be registers
			// or something else.
			continue
		}
		pred[key] = starlark.MakeInt64(number)
	}
	prog := "rc=" + expr + "\n"
	dict, err := starlark.ExecFileOptions(&opts, &thread, "expr", prog, pred)
	if err != nil {
		err = ErrParseExpression(expr)
		return
	}
	st_rc, ok := dict["rc"]
	if !ok {
		err = ErrParseExpression(expr)
		return
	}
	st_int, ok := st_rc.(starlark.Int)
	if !ok {
		err = ErrParseExpression(expr)
		return
	}
	value, ok = st_int.Int64()
	if !ok {
		err = ErrParseExpression(expr)
		return
	}
	return
}

// isIdentifier reports whether word can name a label.
func isIdentifier(word string) bool {
	if len(word) == 0 {
		return false
	}
	for n, r := range word {
		switch {
		case r == '_' || r == '.':
		case unicode.IsLetter(r):
		case n > 0 && unicode.IsDigit(r):
		default:
			return false
		}
	}
	return true
}

// isReserved reports whether name is a register or a mnemonic,
// neither of which can name a label.
func isReserved(name string) bool {
	tbl := isa.Default()
	if _, ok := tbl.Register(name); ok {
		return true
	}
	mnemonic := strings.ToLower(name)
	if _, ok := tbl.Lookup(mnemonic); ok {
		return true
	}
	return IsPseudo(mnemonic)
}

// parseNumber parses a signed literal with an optional base prefix.
func parseNumber(word string) (value int64, err error) {
	value, err = strconv.ParseInt(word, 0, 64)
	if err == nil {
		return
	}
	uvalue, uerr := strconv.ParseUint(word, 0, 64)
	if uerr == nil {
		value = int64(uvalue)
		err = nil
		return
	}
	err = ErrParseNumber(word)
	return
}
