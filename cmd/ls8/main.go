// Copyright 2025, Jason S. McMullan <jason.mcmullan@gmail.com>

package main

import (
	"flag"
	"io"
	"log"
	"os"

	"github.com/ezrec/ls8/cpu"
	"github.com/ezrec/ls8/emulator"
)

func main() {
	var compile string
	var save string
	var output string
	var trace bool
	var strict bool
	var verbose bool

	flag.StringVar(&compile, "c", "", ".asm file to assemble")
	flag.StringVar(&save, "S", "", "write the assembled image here, do not execute")
	flag.StringVar(&output, "o", "-", "program output")
	flag.BoolVar(&trace, "t", false, "trace each cycle to stderr")
	flag.BoolVar(&strict, "strict", false, "fail on malformed image lines")
	flag.BoolVar(&verbose, "v", false, "verbose mode")

	flag.Parse()

	emu := emulator.NewEmulator()
	emu.Verbose = verbose

	var prog *cpu.Program

	switch {
	case len(compile) != 0:
		if flag.NArg() != 0 {
			log.Fatalf("%v: unknown arguments: %v", os.Args[0], flag.Args())
		}

		inf, err := os.Open(compile)
		if err != nil {
			log.Fatalf("%v: %v", compile, err)
		}
		defer inf.Close()

		asm := &cpu.Assembler{Verbose: verbose}
		for key, value := range emu.Defines() {
			asm.Predefine(key, value)
		}
		prog, err = asm.Parse(inf)
		if err != nil {
			log.Fatalf("%v: %v", compile, err)
		}
	case flag.NArg() == 1:
		image := flag.Arg(0)

		var input io.Reader = os.Stdin
		if image != "-" {
			inf, err := os.Open(image)
			if err != nil {
				log.Fatalf("%v: %v", image, err)
			}
			defer inf.Close()
			input = inf
		}

		loader := &cpu.Loader{Strict: strict}
		var err error
		prog, err = loader.Parse(input)
		if err != nil {
			log.Fatalf("%v: %v", image, err)
		}
	default:
		log.Fatalf("usage: %v [-c file.asm | image.ls8]", os.Args[0])
	}

	if len(save) != 0 {
		err := os.WriteFile(save, []byte(prog.Image()), 0644)
		if err != nil {
			log.Fatalf("%v: %v", save, err)
		}
		return
	}

	if output == "-" {
		emu.Cpu.Output = os.Stdout
	} else {
		ouf, err := os.Create(output)
		if err != nil {
			log.Fatalf("%v: %v", output, err)
		}
		defer ouf.Close()
		emu.Cpu.Output = ouf
	}

	if trace {
		emu.TraceTo = os.Stderr
	}

	err := emu.Load(prog)
	if err != nil {
		log.Fatalf("%v: %v", os.Args[0], err)
	}

	status, err := emu.Run()
	if err != nil {
		log.Fatalf("%v: %v", status, err)
	}

	if verbose {
		log.Printf("ls8: %v", status)
	}
}
