package asm

import (
	"strings"
)

// Line is a single statement of a program.
type Line interface {
	String() string
	line()
}

// Label binds a name to the address of its inner line.
type Label struct {
	Name string
	Line Line
}

// Instruction is a mnemonic followed by its operand tokens.
type Instruction struct {
	LineNo int
	Tokens []string
}

// Word is a .word directive with its literal tokens.
type Word struct {
	LineNo int
	Tokens []string
}

// LineList is an ordered program; list order is address order.
type LineList []Line

func (*Label) line()       {}
func (*Instruction) line() {}
func (*Word) line()        {}

func (lb *Label) String() string {
	return lb.Name + ": " + lb.Line.String()
}

func (in *Instruction) String() string {
	return strings.Join(in.Tokens, " ")
}

// Mnemonic of the instruction.
func (in *Instruction) Mnemonic() string {
	if len(in.Tokens) == 0 {
		return ""
	}
	return in.Tokens[0]
}

func (wd *Word) String() string {
	return ".word " + strings.Join(wd.Tokens, " ")
}

func (ll LineList) String() string {
	text := make([]string, len(ll))
	for n, line := range ll {
		text[n] = line.String()
	}
	return strings.Join(text, "\n")
}

// Unlabel strips the labels from a line, returning the innermost line and
// the label names from outermost to innermost.
func Unlabel(line Line) (inner Line, labels []string) {
	inner = line
	for {
		lb, ok := inner.(*Label)
		if !ok {
			return
		}
		labels = append(labels, lb.Name)
		inner = lb.Line
	}
}

// Relabel wraps a line in labels, the first label outermost.
func Relabel(line Line, labels []string) Line {
	for n := len(labels) - 1; n >= 0; n-- {
		line = &Label{Name: labels[n], Line: line}
	}
	return line
}

// lineNo returns the source line of the innermost line.
func lineNo(line Line) int {
	inner, _ := Unlabel(line)
	switch in := inner.(type) {
	case *Instruction:
		return in.LineNo
	case *Word:
		return in.LineNo
	}
	return 0
}
