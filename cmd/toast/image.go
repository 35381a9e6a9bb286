package main

import (
	"fmt"
	"io"
	"os"

	"golang.org/x/term"

	"github.com/ezrec/toast/emulator"
)

// writeImage writes the assembled program image to output.
// A terminal on stdout gets the program listing instead of raw bytes.
func writeImage(output string, emu *emulator.Emulator) (err error) {
	var w io.Writer
	if output == "-" {
		if term.IsTerminal(int(os.Stdout.Fd())) {
			_, err = fmt.Fprint(os.Stdout, emu.Program.String())
			return
		}
		w = os.Stdout
	} else {
		var ouf *os.File
		ouf, err = os.Create(output)
		if err != nil {
			return
		}
		defer func() {
			cerr := ouf.Close()
			if err == nil {
				err = cerr
			}
		}()
		w = ouf
	}

	_, err = w.Write(emu.Program.Binary())

	return
}
