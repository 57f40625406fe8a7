package ledgertypes

import "fmt"

// Execution is the payload of an Execute transaction: an edition tag and
// an ordered list of transitions, the last of which is the call's entry
// point in the original circuit ordering.
type Execution struct {
	edition     uint16
	transitions []Transition
}

// NewExecution requires at least one transition — an execution store
// cannot persist a call with nothing to replay.
func NewExecution(edition uint16, transitions []Transition) (Execution, error) {
	if len(transitions) == 0 {
		return Execution{}, fmt.Errorf("ledgertypes: execution must carry at least one transition")
	}
	return Execution{edition: edition, transitions: append([]Transition(nil), transitions...)}, nil
}

func (e Execution) Edition() uint16 { return e.edition }

func (e Execution) Transitions() []Transition {
	return append([]Transition(nil), e.transitions...)
}

func (e Execution) Len() int { return len(e.transitions) }

func (e Execution) MarshalBinary() ([]byte, error) {
	var buf []byte
	buf = append(buf, byte(e.edition>>8), byte(e.edition))
	buf = putUint32(buf, len(e.transitions))
	for _, t := range e.transitions {
		tb, err := t.MarshalBinary()
		if err != nil {
			return nil, err
		}
		buf = putBlob(buf, tb)
	}
	return buf, nil
}

// ExecutionIndex is the persisted shape of the execution schema's id
// map: the ordered transition IDs that make up the execution, plus the
// transition ID of its fee transition, if any.
type ExecutionIndex struct {
	TransitionIDs []TransitionID
	FeeTransition *TransitionID
}

func (idx ExecutionIndex) MarshalBinary() ([]byte, error) {
	var buf []byte
	buf = putUint32(buf, len(idx.TransitionIDs))
	for _, id := range idx.TransitionIDs {
		buf = append(buf, id.Bytes()...)
	}
	if idx.FeeTransition == nil {
		buf = append(buf, 0)
	} else {
		buf = append(buf, 1)
		buf = append(buf, idx.FeeTransition.Bytes()...)
	}
	return buf, nil
}

func UnmarshalExecutionIndex(b []byte) (ExecutionIndex, error) {
	n, rest, err := takeUint32(b)
	if err != nil {
		return ExecutionIndex{}, err
	}
	ids := make([]TransitionID, 0, n)
	for i := 0; i < n; i++ {
		id, err := idFromBytes(rest)
		if err != nil {
			return ExecutionIndex{}, err
		}
		ids = append(ids, TransitionID(id))
		rest = rest[IDSize:]
	}
	if len(rest) < 1 {
		return ExecutionIndex{}, ErrShortBuffer
	}
	has, rest := rest[0], rest[1:]
	idx := ExecutionIndex{TransitionIDs: ids}
	if has == 1 {
		id, err := idFromBytes(rest)
		if err != nil {
			return ExecutionIndex{}, err
		}
		tid := TransitionID(id)
		idx.FeeTransition = &tid
	}
	return idx, nil
}

func UnmarshalExecution(b []byte) (Execution, error) {
	if len(b) < 2 {
		return Execution{}, ErrShortBuffer
	}
	edition := uint16(b[0])<<8 | uint16(b[1])
	n, rest, err := takeUint32(b[2:])
	if err != nil {
		return Execution{}, err
	}
	transitions := make([]Transition, 0, n)
	for i := 0; i < n; i++ {
		tb, next, err := takeBlob(rest)
		if err != nil {
			return Execution{}, err
		}
		t, err := UnmarshalTransition(tb)
		if err != nil {
			return Execution{}, err
		}
		transitions = append(transitions, t)
		rest = next
	}
	return NewExecution(edition, transitions)
}
