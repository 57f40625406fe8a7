package ledgertypes

// ProgramEditionKey is the composite key `(ProgramID, edition)` used by
// the reverse_id, owner and program maps: a program may be redeployed under a new
// edition, and both its program ID and edition together identify the
// deployment.
type ProgramEditionKey struct {
	Program ProgramID
	Edition uint16
}

func (k ProgramEditionKey) MarshalBinary() ([]byte, error) {
	buf := append([]byte(nil), k.Program.Bytes()...)
	buf = append(buf, byte(k.Edition>>8), byte(k.Edition))
	return buf, nil
}

func UnmarshalProgramEditionKey(b []byte) (ProgramEditionKey, error) {
	id, err := idFromBytes(b)
	if err != nil {
		return ProgramEditionKey{}, err
	}
	b = b[IDSize:]
	if len(b) < 2 {
		return ProgramEditionKey{}, ErrShortBuffer
	}
	edition := uint16(b[0])<<8 | uint16(b[1])
	return ProgramEditionKey{Program: ProgramID(id), Edition: edition}, nil
}

// FunctionEditionKey is the composite key `(ProgramID, Identifier,
// edition)` used by the verifying_key and certificate maps: one entry per
// function per edition of a deployed program.
type FunctionEditionKey struct {
	Program  ProgramID
	Function Identifier
	Edition  uint16
}

func (k FunctionEditionKey) MarshalBinary() ([]byte, error) {
	buf := append([]byte(nil), k.Program.Bytes()...)
	buf = append(buf, k.Function.Bytes()...)
	buf = append(buf, byte(k.Edition>>8), byte(k.Edition))
	return buf, nil
}

func UnmarshalFunctionEditionKey(b []byte) (FunctionEditionKey, error) {
	program, err := idFromBytes(b)
	if err != nil {
		return FunctionEditionKey{}, err
	}
	b = b[IDSize:]
	function, err := idFromBytes(b)
	if err != nil {
		return FunctionEditionKey{}, err
	}
	b = b[IDSize:]
	if len(b) < 2 {
		return FunctionEditionKey{}, ErrShortBuffer
	}
	edition := uint16(b[0])<<8 | uint16(b[1])
	return FunctionEditionKey{Program: ProgramID(program), Function: Identifier(function), Edition: edition}, nil
}
