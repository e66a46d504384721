package fpu

import "strings"

// Flags is the set of IEEE 754 exception flags raised by one operation.
// The bit layout matches the RISC-V fflags CSR.
type Flags uint8

const (
	Inexact      Flags = 1 << iota // NX
	Underflow                      // UF
	Overflow                       // OF
	DivideByZero                   // DZ
	Invalid                        // NV
)

// Has reports whether all flags in g are set in f.
func (f Flags) Has(g Flags) bool {
	return f&g == g
}

func (f Flags) String() string {
	if f == 0 {
		return "-"
	}
	var names []string
	for _, n := range []struct {
		flag Flags
		name string
	}{
		{Invalid, "NV"},
		{DivideByZero, "DZ"},
		{Overflow, "OF"},
		{Underflow, "UF"},
		{Inexact, "NX"},
	} {
		if f&n.flag != 0 {
			names = append(names, n.name)
		}
	}
	return strings.Join(names, "|")
}
