// Command sixdis disassembles a sixc-linked iNES ROM image back into 6502
// mnemonics. It supplements spec.md's forward-only opcode description
// (§4.6's "reverse map for disassembly") with the external tool that
// actually exercises that reverse direction, following the
// assembler/disassembler sibling-binary split its-hmny-nand2tetris uses
// for its own CLI tools.
package main

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/chzyer/readline"
	"github.com/teris-io/cli"

	"github.com/mna/sixc/internal/dis"
)

const romHeaderSize = 16
const codeBase = 0xC000

var description = strings.ReplaceAll(`
sixdis disassembles the PRG-ROM section of a sixc-linked .nes image back
into 6502 assembly, printed one instruction per line. With --inspect it
instead opens an interactive address-at-a-time disassembly REPL.
`, "\n", " ")

var app = cli.New(description).
	WithArg(cli.NewArg("rom", "The linked .nes ROM image to disassemble")).
	WithOption(cli.NewOption("inspect", "Open an interactive disassembly REPL instead of a full dump").
		WithType(cli.TypeBool)).
	WithAction(handler)

func handler(args []string, options map[string]string) int {
	if len(args) < 1 {
		fmt.Println("ERROR: missing ROM path, use --help")
		return -1
	}
	rom, err := os.ReadFile(args[0])
	if err != nil {
		fmt.Printf("ERROR: unable to open ROM: %s\n", err)
		return -1
	}
	if len(rom) <= romHeaderSize {
		fmt.Println("ERROR: file is too small to contain an iNES header and PRG-ROM")
		return -1
	}
	code := rom[romHeaderSize:]

	if _, enabled := options["inspect"]; enabled {
		return runInspect(code)
	}
	return runDump(code)
}

func runDump(code []byte) int {
	ins, err := dis.Range(code, codeBase)
	for _, in := range ins {
		fmt.Println(in.String())
	}
	if err != nil {
		fmt.Printf("ERROR: %s\n", err)
		return -1
	}
	return 0
}

// runInspect is a one-instruction-at-a-time REPL: the user enters a hex
// address (an optional leading '$' is accepted), sixdis decodes and prints
// the instruction there. It is
// purely an inspection aid over a full dump, since jumping straight to a
// known reset-vector or call target is often more useful than scanning a
// whole ROM's listing.
func runInspect(code []byte) int {
	rl, err := readline.New("sixdis> ")
	if err != nil {
		fmt.Printf("ERROR: unable to start REPL: %s\n", err)
		return -1
	}
	defer rl.Close()

	fmt.Println("enter an address (e.g. C000 or $C000), or Ctrl-D to quit")
	for {
		line, err := rl.Readline()
		if err != nil {
			return 0
		}
		line = strings.TrimSpace(strings.TrimPrefix(strings.TrimSpace(line), "$"))
		if line == "" {
			continue
		}
		addr, err := strconv.ParseUint(line, 16, 16)
		if err != nil {
			fmt.Printf("ERROR: %q is not a valid hex address\n", line)
			continue
		}
		if uint16(addr) < codeBase {
			fmt.Printf("ERROR: address $%04X is below the PRG-ROM base $%04X\n", addr, codeBase)
			continue
		}
		off := int(uint16(addr)) - codeBase
		in, _, err := dis.Decode(code, off, uint16(addr))
		if err != nil {
			fmt.Printf("ERROR: %s\n", err)
			continue
		}
		fmt.Println(in.String())
	}
}

func main() { os.Exit(app.Run(os.Args, os.Stdout)) }
