package ledgertypes

import (
	"encoding/hex"
	"errors"
)

// IDSize is the width, in bytes, of every content-addressed identifier in
// this package. The real cryptographic digests this stands in for are
// wider and field-specific; a fixed 32-byte array keeps every ID type
// comparable and usable as a Go map key without reflection.
const IDSize = 32

// ProgramID identifies a deployed program.
type ProgramID [IDSize]byte

// TransactionID identifies a Deploy or Execute transaction.
type TransactionID [IDSize]byte

// TransitionID identifies a single opaque transition handled by the
// transition store.
type TransitionID [IDSize]byte

// StateRoot identifies the ledger state a fee's inclusion proof was
// produced against.
type StateRoot [IDSize]byte

// Identifier names a program function.
type Identifier [IDSize]byte

func (id ProgramID) String() string      { return hex.EncodeToString(id[:]) }
func (id TransactionID) String() string  { return hex.EncodeToString(id[:]) }
func (id TransitionID) String() string   { return hex.EncodeToString(id[:]) }
func (id StateRoot) String() string      { return hex.EncodeToString(id[:]) }
func (id Identifier) String() string     { return hex.EncodeToString(id[:]) }

func (id ProgramID) Bytes() []byte     { return id[:] }
func (id TransactionID) Bytes() []byte { return id[:] }
func (id TransitionID) Bytes() []byte  { return id[:] }
func (id StateRoot) Bytes() []byte     { return id[:] }
func (id Identifier) Bytes() []byte    { return id[:] }

func (id ProgramID) MarshalBinary() ([]byte, error)     { return id.Bytes(), nil }
func (id TransactionID) MarshalBinary() ([]byte, error) { return id.Bytes(), nil }
func (id TransitionID) MarshalBinary() ([]byte, error)  { return id.Bytes(), nil }

// UnmarshalProgramID, UnmarshalTransactionID and UnmarshalTransitionID
// decode a fixed-size ID, the shape a mapstore.Codec needs for using
// these types directly as map keys or values.
func UnmarshalProgramID(b []byte) (ProgramID, error) {
	id, err := idFromBytes(b)
	return ProgramID(id), err
}

func UnmarshalTransactionID(b []byte) (TransactionID, error) {
	id, err := idFromBytes(b)
	return TransactionID(id), err
}

func UnmarshalTransitionID(b []byte) (TransitionID, error) {
	id, err := idFromBytes(b)
	return TransitionID(id), err
}

// ErrShortBuffer is returned when a fixed-size ID is decoded from too few
// bytes.
var ErrShortBuffer = errors.New("ledgertypes: buffer too short for fixed-size id")

func idFromBytes(b []byte) (out [IDSize]byte, err error) {
	if len(b) < IDSize {
		return out, ErrShortBuffer
	}
	copy(out[:], b[:IDSize])
	return out, nil
}

// ProgramOwner records who signed a deployment. Address and Signature are
// opaque, fixed-width cryptographic values from the VM's account scheme.
type ProgramOwner struct {
	Address   [IDSize]byte
	Signature [64]byte
}

func (o ProgramOwner) Bytes() []byte {
	out := make([]byte, 0, IDSize+64)
	out = append(out, o.Address[:]...)
	out = append(out, o.Signature[:]...)
	return out
}

func (o ProgramOwner) MarshalBinary() ([]byte, error) { return o.Bytes(), nil }

// ProgramOwnerFromBytes decodes a ProgramOwner from its canonical encoding.
func ProgramOwnerFromBytes(b []byte) (ProgramOwner, error) {
	if len(b) < IDSize+64 {
		return ProgramOwner{}, ErrShortBuffer
	}
	var o ProgramOwner
	copy(o.Address[:], b[:IDSize])
	copy(o.Signature[:], b[IDSize:IDSize+64])
	return o, nil
}
