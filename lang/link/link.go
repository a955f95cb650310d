// Package link implements the linker described in spec.md §4.7: it merges
// every translation unit's object code and relocation records into a
// single 64 KiB iNES ROM image.
//
// Grounded on github.com/mna/nenuphar's whole-program assembly step
// (lang/compiler/compiler.go's CompileFiles, which walks multiple parsed
// chunks and threads a single shared pcomp across them) generalized from
// one in-process compile pass to the two-pass base-assignment-then-patch
// shape spec.md §4.7 describes. The global symbol table uses
// github.com/dolthub/swiss for O(1) lookups while every relocation is
// patched, and github.com/tidwall/btree to walk every unit's symbols in a
// stable, sorted order when checking for duplicate unique names — so a
// diagnostic about a collision always names the same offending symbol
// first, run to run.
package link

import (
	"fmt"

	"github.com/dolthub/swiss"
	"github.com/mna/sixc/lang/analyser"
	"github.com/mna/sixc/lang/codegen"
	"github.com/mna/sixc/lang/emit"
	"github.com/mna/sixc/lang/opcode"
	"github.com/tidwall/btree"
)

// romSize is the fixed output image size, per spec.md §6: "the ROM image
// is exactly 65,536 bytes."
const romSize = 1 << 16

// codeBase is the first translation unit's base address, per spec.md §4.7
// step 1.
const codeBase = 0xC000

// resetVectorOffset is where the bootstrap's entry address is written,
// per spec.md §6: "the 16-bit value at 0xFFFC equals the address of the
// first byte of the bootstrap stub." This implementation's ROM file uses a
// direct offset-equals-CPU-address convention above the header (spec.md
// §4.7's own steps never require translating between a file offset and a
// CPU address other than at this single fixed location), so file offset
// 0xFFFC is exactly where the vector lives.
const resetVectorOffset = 0xFFFC

// defaultMapperFlags is the iNES flags-6 byte this linker writes unless a
// caller overrides it. spec.md §9's REDESIGN FLAGS section notes the
// distilled source wrote 0x01 (mapper 6) while implementing no bank
// switching at all; NROM (mapper 0, flag byte 0x00) is the correct choice
// for a single fixed 16 KiB PRG/8 KiB CHR image, so that is the default
// here, left overridable via Options.MapperFlags per the decided open
// question in DESIGN.md.
const defaultMapperFlags = 0x00

// Options configures one link pass.
type Options struct {
	// MapperFlags is the iNES header's flags-6 byte. Zero value selects
	// defaultMapperFlags (NROM).
	MapperFlags byte
}

// Link merges units (already-lowered translation units, in input order)
// into a single iNES ROM image, per spec.md §4.7's nine steps.
func Link(units []*codegen.Result, opts Options) ([]byte, error) {
	if opts.MapperFlags == 0 {
		opts.MapperFlags = defaultMapperFlags
	}

	bases, err := assignBases(units)
	if err != nil {
		return nil, err
	}

	global, err := buildGlobalTable(units)
	if err != nil {
		return nil, err
	}

	// Every unit's function symbols are shifted from their unit-local
	// position to their final ROM address before any relocation record is
	// patched, regardless of unit order: a SymbolReference in an earlier
	// unit may target a function defined in a later one.
	for i, u := range units {
		base := bases[i]
		for _, sym := range u.Symbols {
			if sym.Kind == analyser.KindFunction && sym.AddrKind == analyser.AddrRelative {
				sym.Address += base
				sym.AddrKind = analyser.AddrAbsolute
			}
		}
	}

	for i, u := range units {
		if err := applyRelativeAddresses(u, bases[i]); err != nil {
			return nil, err
		}
		if err := applySymbolReferences(u, global); err != nil {
			return nil, err
		}
	}

	mainSym, ok := global.Get("_main")
	if !ok || mainSym.Kind != analyser.KindFunction {
		return nil, fmt.Errorf("link: missing required function %q", "_main")
	}

	rom := make([]byte, romSize)
	writeHeader(rom, opts.MapperFlags)

	cursor := codeBase
	for i, u := range units {
		if bases[i]+len(u.Object) > romSize {
			return nil, fmt.Errorf("link: unit %d overflows the ROM image at base 0x%04X", i, bases[i])
		}
		copy(rom[bases[i]:], u.Object)
		cursor = bases[i] + len(u.Object)
	}

	bootstrap, err := buildBootstrap(mainSym.Address)
	if err != nil {
		return nil, err
	}
	if cursor+len(bootstrap) > resetVectorOffset {
		return nil, fmt.Errorf("link: ROM size overflow: bootstrap stub does not fit before the reset vector")
	}
	copy(rom[cursor:], bootstrap)

	rom[resetVectorOffset] = byte(cursor)
	rom[resetVectorOffset+1] = byte(cursor >> 8)

	return rom, nil
}

// assignBases walks units in order, giving each a base address starting at
// codeBase and incrementing by its object-code size, per spec.md §4.7 step
// 1.
func assignBases(units []*codegen.Result) ([]int, error) {
	bases := make([]int, len(units))
	cursor := codeBase
	for i, u := range units {
		bases[i] = cursor
		cursor += len(u.Object)
		if cursor > romSize {
			return nil, fmt.Errorf("link: unit %d's object code overflows the ROM image", i)
		}
	}
	return bases, nil
}

// buildGlobalTable merges every unit's symbol table into one swiss.Map
// lookup structure, rejecting duplicate unique names across units per
// spec.md §4.7 step 1. A btree.Map counts how many units declare each name;
// walking it with Scan visits names in sorted order, so when more than one
// name collides the resulting error always lists them in the same order
// regardless of unit iteration order.
func buildGlobalTable(units []*codegen.Result) (*swiss.Map[string, *analyser.Symbol], error) {
	counts := btree.NewMap[string, int](32)
	global := swiss.NewMap[string, *analyser.Symbol](256)

	for _, u := range units {
		for name, sym := range u.Symbols {
			// Only a Function or Variable with a concrete address denotes an
			// actual definition. A forward declaration (e.g. "void f();")
			// registers the same name in its unit's SymbolTable with
			// AddrKind == AddrUnset; counting it here would make a
			// declaration-in-one-unit, definition-in-another pattern look
			// like a duplicate symbol. Namespace/Struct/BuiltInType symbols
			// are per-unit type bookkeeping, not cross-unit linkage targets,
			// and are excluded the same way.
			if (sym.Kind != analyser.KindFunction && sym.Kind != analyser.KindVariable) || sym.AddrKind == analyser.AddrUnset {
				continue
			}
			n, _ := counts.Get(name)
			counts.Set(name, n+1)
			global.Put(name, sym)
		}
	}

	var dupes []string
	counts.Scan(func(name string, n int) bool {
		if n > 1 {
			dupes = append(dupes, name)
		}
		return true
	})
	if len(dupes) > 0 {
		return nil, fmt.Errorf("link: duplicate symbol(s) across translation units: %v", dupes)
	}

	return global, nil
}

// applyRelativeAddresses reads the 16-bit value already written at every
// recorded offset and adds the unit's base, per spec.md §4.7 step 2.
func applyRelativeAddresses(u *codegen.Result, base int) error {
	for _, off := range u.RelativeAddresses {
		if off < 0 || off+2 > len(u.Object) {
			return fmt.Errorf("link: relative address offset %d out of range", off)
		}
		v := uint16(u.Object[off]) | uint16(u.Object[off+1])<<8
		v += uint16(base)
		u.Object[off] = byte(v)
		u.Object[off+1] = byte(v >> 8)
	}
	return nil
}

// applySymbolReferences looks up each referenced unique name in the global
// table and patches the corresponding 16 bits in place, per spec.md §4.7
// step 3.
func applySymbolReferences(u *codegen.Result, global *swiss.Map[string, *analyser.Symbol]) error {
	for _, ref := range u.SymbolReferences {
		sym, ok := global.Get(ref.Name)
		if !ok {
			return fmt.Errorf("link: unresolved symbol reference %q", ref.Name)
		}
		if ref.Offset < 0 || ref.Offset+2 > len(u.Object) {
			return fmt.Errorf("link: symbol reference offset %d out of range", ref.Offset)
		}
		u.Object[ref.Offset] = byte(sym.Address)
		u.Object[ref.Offset+1] = byte(sym.Address >> 8)
	}
	return nil
}

// writeHeader lays out the iNES header at offset 0, per spec.md §4.7 step
// 5 and §6: bytes "N E S 0x1A", PRG-ROM count 1, CHR-ROM count 1,
// configurable flags-6, padding zeros.
func writeHeader(rom []byte, mapperFlags byte) {
	copy(rom[0:4], []byte{'N', 'E', 'S', 0x1A})
	rom[4] = 0x01 // PRG-ROM count
	rom[5] = 0x01 // CHR-ROM count
	rom[6] = mapperFlags
	// rom[7:16] stay zero (padding); rom is already zero-valued.
}

// buildBootstrap assembles "SEI; CLD; LDX #$FF; TXS; JMP _main", per
// spec.md §4.7 step 7, using the same Emitter every translation unit's
// codegen uses so the bootstrap is encoded by the same opcode table.
func buildBootstrap(mainAddr uint16) ([]byte, error) {
	e := emit.New()
	for _, ins := range []struct {
		mnemonic string
		mode     opcode.AddrMode
		value    uint16
	}{
		{"SEI", opcode.Implied, 0},
		{"CLD", opcode.Implied, 0},
		{"LDX", opcode.Immediate, 0xFF},
		{"TXS", opcode.Implied, 0},
		{"JMP", opcode.Absolute, mainAddr},
	} {
		if _, err := e.Emit(ins.mnemonic, ins.mode, ins.value); err != nil {
			return nil, fmt.Errorf("link: building bootstrap stub: %w", err)
		}
	}
	return e.Bytes()[:e.Pos()], nil
}
