package asm

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestPreprocess(t *testing.T) {
	assert := assert.New(t)

	table := []struct {
		text    string
		block   string
		lineNos []int
	}{
		{"", "{}", nil},
		{"# only a comment\n\n", "{}", nil},
		{"add x1, x2, x3", "{add x1 x2 x3}", []int{1}},
		{
			"add x1, x2, x3 # sum\n\n  # note\nloop:\tj   loop\n",
			"{add x1 x2 x3;loop: j loop}",
			[]int{1, 4},
		},
		{"start:\r\n ecall\r\n", "{start:;ecall}", []int{1, 2}},
		{"li a0, 'A'", "{li a0 65}", []int{1}},
		{"li a0, '#' # hash", "{li a0 35}", []int{1}},
		{"li a0, ' '", "{li a0 32}", []int{1}},
		{"li a0, ';'\nli a1, ':'", "{li a0 59;li a1 58}", []int{1, 2}},
		{"li a0, ','", "{li a0 44}", []int{1}},
		{"li a0, '\\n'", "{li a0 10}", []int{1}},
		{"li a0, 'AB'", "{li a0 'AB'}", []int{1}},
	}

	for _, entry := range table {
		block, lineNos := Preprocess(entry.text)
		assert.Equal(entry.block, block, entry.text)
		assert.Equal(entry.lineNos, lineNos, entry.text)
	}
}
