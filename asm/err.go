package asm

import (
	"errors"

	"github.com/ezrec/toast/translate"
)

var f = translate.From

var (
	// Parser errors
	ErrBlockUnbalanced = errors.New(f("unbalanced block delimiters"))
	ErrStatementEmpty  = errors.New(f("empty statement"))
	ErrLabelLonely     = errors.New(f("label without statement"))
	ErrLabelSyntax     = errors.New(f("label syntax"))
	ErrWordEmpty       = errors.New(f(".word without value"))
	ErrEquateSyntax    = errors.New(f(".equ syntax"))
	ErrEquateDuplicate = errors.New(f(".equ duplicated"))

	// Resolver errors
	ErrLabelDuplicate = errors.New(f("label duplicated"))

	// Encoder errors
	ErrInstructionInvalid = errors.New(f("instruction invalid"))
	ErrOpcodeExtraArgs    = errors.New(f("excessive arguments"))
	ErrOpcodeValueMissing = errors.New(f("value missing"))
	ErrMemorySyntax       = errors.New(f("memory operand syntax"))
)

type ErrDirectiveInvalid string

func (err ErrDirectiveInvalid) Error() string {
	return f("directive %v invalid", string(err))
}

type ErrLabelMissing string

func (el ErrLabelMissing) Error() string {
	return f("label %v missing", string(el))
}

type ErrRegisterInvalid string

func (err ErrRegisterInvalid) Error() string {
	return f("'%v' is not a register", string(err))
}

type ErrParseNumber string

func (err ErrParseNumber) Error() string {
	return f("'%v' is not a number", string(err))
}

type ErrParseExpression string

func (err ErrParseExpression) Error() string {
	return f("$(%v) is not a valid expression", string(err))
}

// ErrImmediateRange is an immediate that does not fit its encoding field.
type ErrImmediateRange int64

func (err ErrImmediateRange) Error() string {
	return f("immediate %d out of range", int64(err))
}

// ErrSyntax locates an assembly error in the source text.
type ErrSyntax struct {
	LineNo int
	Line   string
	Err    error
}

func (err ErrSyntax) Error() string {
	return f("line %d '%v' %v", err.LineNo, err.Line, err.Err)
}

func (err ErrSyntax) Unwrap() error {
	return err.Err
}
