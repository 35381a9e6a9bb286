package asm

import (
	"cmp"
	"maps"
	"slices"
	"strings"
)

// INSTRUCTION_SIZE is the size in bytes of each line in the program image.
const INSTRUCTION_SIZE = 4

// Labels maps label names to byte addresses.
type Labels map[string]int64

// Names returns the label names sorted by address, then name.
func (lb Labels) Names() []string {
	names := slices.Collect(maps.Keys(lb))
	slices.SortFunc(names, func(a, b string) int {
		return cmp.Or(cmp.Compare(lb[a], lb[b]), strings.Compare(a, b))
	})
	return names
}

// Resolve assigns line n the address n*INSTRUCTION_SIZE, records every label
// at the address of the line it binds, and returns the unlabeled lines.
func Resolve(lines LineList) (flat LineList, labels Labels, err error) {
	flat = make(LineList, 0, len(lines))
	labels = Labels{}

	for n, line := range lines {
		address := int64(n * INSTRUCTION_SIZE)
		inner, names := Unlabel(line)
		for _, name := range names {
			if _, ok := labels[name]; ok {
				err = &ErrSyntax{LineNo: lineNo(inner), Line: name + ":", Err: ErrLabelDuplicate}
				return
			}
			labels[name] = address
		}
		flat = append(flat, inner)
	}

	return
}
