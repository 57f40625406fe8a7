package ledgertypes

import (
	"bytes"
	"crypto/sha256"
	"fmt"
)

// Program is an opaque compiled program body addressed by ProgramID, with
// an ordered list of function names. The storage core never evaluates a
// program; it only needs the function list to iterate the per-function
// verifying-key and certificate maps during insert, remove and read.
type Program struct {
	id        ProgramID
	functions []Identifier
	body      []byte
}

// NewProgram constructs a Program from its ordered function list and
// opaque serialized body. The ProgramID is derived deterministically from
// the body, the way the VM derives a program's content address from its
// compiled bytecode.
func NewProgram(functions []Identifier, body []byte) Program {
	p := Program{
		functions: append([]Identifier(nil), functions...),
		body:      append([]byte(nil), body...),
	}
	p.id = ProgramID(sha256.Sum256(p.body))
	return p
}

func (p Program) ID() ProgramID { return p.id }

// Functions returns the program's function names in declaration order.
func (p Program) Functions() []Identifier {
	return append([]Identifier(nil), p.functions...)
}

func (p Program) Equal(o Program) bool {
	if p.id != o.id || len(p.functions) != len(o.functions) {
		return false
	}
	for i := range p.functions {
		if p.functions[i] != o.functions[i] {
			return false
		}
	}
	return bytes.Equal(p.body, o.body)
}

func (p Program) MarshalBinary() ([]byte, error) {
	var buf []byte
	buf = putUint32(buf, len(p.functions))
	for _, fn := range p.functions {
		buf = append(buf, fn.Bytes()...)
	}
	buf = putBlob(buf, p.body)
	return buf, nil
}

func UnmarshalProgram(b []byte) (Program, error) {
	n, rest, err := takeUint32(b)
	if err != nil {
		return Program{}, err
	}
	functions := make([]Identifier, 0, n)
	for i := 0; i < n; i++ {
		if len(rest) < IDSize {
			return Program{}, fmt.Errorf("ledgertypes: short buffer decoding program function %d", i)
		}
		id, err := idFromBytes(rest)
		if err != nil {
			return Program{}, err
		}
		functions = append(functions, Identifier(id))
		rest = rest[IDSize:]
	}
	body, rest, err := takeBlob(rest)
	if err != nil {
		return Program{}, err
	}
	_ = rest
	return NewProgram(functions, body), nil
}
