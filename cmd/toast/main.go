// Copyright 2024, Jason S. McMullan <jason.mcmullan@gmail.com>

package main

import (
	"flag"
	"fmt"
	"log"
	"os"
)

func main() {
	var compile string
	var output string
	var run string
	var memory uint
	var maxSteps int
	var config string
	var strict bool
	var liExact bool
	var verbose bool
	var dump bool

	flag.StringVar(&compile, "c", "", "assembly file to compile")
	flag.StringVar(&output, "o", "", "write compiled image to file, '-' for stdout")
	flag.StringVar(&run, "r", "", "program image file to run")
	flag.UintVar(&memory, "m", 0, "memory size in bytes")
	flag.IntVar(&maxSteps, "n", 0, "maximum steps to run, 0 is unbounded")
	flag.StringVar(&config, "config", "", "TOML config file")
	flag.BoolVar(&strict, "strict", false, "reject out of range immediates")
	flag.BoolVar(&liExact, "li-exact", false, "exact li expansion")
	flag.BoolVar(&verbose, "v", false, "Verbose mode")
	flag.BoolVar(&dump, "dump", false, "dump CPU state after running")

	flag.Parse()

	if flag.NArg() != 0 {
		log.Fatalf("%v: Unknown arguments: %v", os.Args[0], flag.Args())
	}

	if len(compile) == 0 && len(run) == 0 {
		log.Fatalf("%v: one of -c or -r is required", os.Args[0])
	}

	cfg := DefaultConfig()
	if len(config) != 0 {
		var err error
		cfg, err = LoadConfig(config)
		if err != nil {
			log.Fatalf("%v: %v", config, err)
		}
	}

	// Flags given on the command line override the config file.
	flag.Visit(func(fl *flag.Flag) {
		switch fl.Name {
		case "m":
			cfg.Memory = memory
		case "n":
			cfg.MaxSteps = maxSteps
		case "strict":
			cfg.Strict = strict
		case "li-exact":
			cfg.LiExact = liExact
		case "v":
			cfg.Verbose = verbose
		}
	})

	emu := cfg.Emulator()

	if len(compile) != 0 {
		text, err := os.ReadFile(compile)
		if err != nil {
			log.Fatalf("%v: %v", compile, err)
		}

		err = emu.Assemble(string(text))
		if err != nil {
			log.Fatalf("%v: %v", compile, err)
		}

		if len(output) != 0 {
			err = writeImage(output, emu)
			if err != nil {
				log.Fatalf("%v: %v", output, err)
			}
			return
		}

		_, err = emu.Run()
		if err != nil {
			log.Fatalf("%v: %v", compile, err)
		}
	} else {
		_, err := emu.InterpretFile(run)
		if err != nil {
			log.Fatalf("%v: %v", run, err)
		}
	}

	if dump {
		fmt.Print(emu.Cpu.String())
	}
}
