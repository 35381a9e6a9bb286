package asm

import (
	"fmt"
	"regexp"
	"strings"
)

const (
	COMMENT     = "#" // Line comment marker.
	SEPARATOR   = ";" // Statement separator.
	BLOCK_BEGIN = "{"
	BLOCK_END   = "}"
)

var reCharLiteral = regexp.MustCompile(`'\\?[^']'`)

// Preprocess replaces character literals with their values, strips
// comments and blank lines, collapses commas and whitespace into single
// spaces, and joins the statements into one delimited block.
// lineNos[n] is the source line of statement n.
func Preprocess(text string) (block string, lineNos []int) {
	var statements []string

	for n, line := range strings.Split(text, "\n") {
		line = reCharLiteral.ReplaceAllStringFunc(line, charLiteral)
		line, _, _ = strings.Cut(line, COMMENT)
		line = strings.ReplaceAll(line, ",", " ")
		words := strings.Fields(line)
		if len(words) == 0 {
			continue
		}
		statements = append(statements, strings.Join(words, " "))
		lineNos = append(lineNos, n+1)
	}

	block = BLOCK_BEGIN + strings.Join(statements, SEPARATOR) + BLOCK_END

	return
}

// charLiteral converts 'c' into its decimal byte value.
func charLiteral(word string) string {
	str := word[1 : len(word)-1]
	if str[0] == '\\' {
		str = str[1:]
		switch str {
		case "\\":
			str = "\\"
		case "n":
			str = "\n"
		case "r":
			str = "\r"
		case "t":
			str = "\t"
		case "0":
			str = "\000"
		case "e":
			str = "\033"
		default:
			return word
		}
	} else if len(str) != 1 {
		return word
	}
	return fmt.Sprintf("%v", str[0])
}

