package ledgertypes

// Fee pairs a transition with the global state root and optional
// inclusion proof it was produced against. Every Deploy transaction
// carries exactly one; an Execute transaction carries zero or one.
type Fee struct {
	transition      Transition
	globalStateRoot StateRoot
	inclusionProof  *Proof
}

func NewFee(transition Transition, root StateRoot, proof *Proof) Fee {
	return Fee{transition: transition, globalStateRoot: root, inclusionProof: proof}
}

func (f Fee) Transition() Transition       { return f.transition }
func (f Fee) TransitionID() TransitionID   { return f.transition.ID() }
func (f Fee) GlobalStateRoot() StateRoot   { return f.globalStateRoot }

// InclusionProof returns the fee's proof and whether one is present.
func (f Fee) InclusionProof() (Proof, bool) {
	if f.inclusionProof == nil {
		return Proof{}, false
	}
	return *f.inclusionProof, true
}

func (f Fee) Equal(o Fee) bool {
	if !f.transition.Equal(o.transition) || f.globalStateRoot != o.globalStateRoot {
		return false
	}
	switch {
	case f.inclusionProof == nil && o.inclusionProof == nil:
		return true
	case f.inclusionProof == nil || o.inclusionProof == nil:
		return false
	default:
		return f.inclusionProof.Equal(*o.inclusionProof)
	}
}

// FeeRecord is the shape stored in the deployment schema's fee map and
// the execution schema's FeeRecord map: the transition ID plus state
// root plus optional proof, without the transition body itself (which
// lives in the transition store).
type FeeRecord struct {
	TransitionID    TransitionID
	GlobalStateRoot StateRoot
	InclusionProof  *Proof
}

func (f Fee) Record() FeeRecord {
	var proof *Proof
	if f.inclusionProof != nil {
		p := *f.inclusionProof
		proof = &p
	}
	return FeeRecord{TransitionID: f.TransitionID(), GlobalStateRoot: f.globalStateRoot, InclusionProof: proof}
}

func (r FeeRecord) MarshalBinary() ([]byte, error) {
	buf := append([]byte(nil), r.TransitionID.Bytes()...)
	buf = append(buf, r.GlobalStateRoot.Bytes()...)
	if r.InclusionProof == nil {
		buf = append(buf, 0)
	} else {
		buf = append(buf, 1)
		pb, err := r.InclusionProof.MarshalBinary()
		if err != nil {
			return nil, err
		}
		buf = append(buf, pb...)
	}
	return buf, nil
}

func UnmarshalFeeRecord(b []byte) (FeeRecord, error) {
	tid, err := idFromBytes(b)
	if err != nil {
		return FeeRecord{}, err
	}
	b = b[IDSize:]
	root, err := idFromBytes(b)
	if err != nil {
		return FeeRecord{}, err
	}
	b = b[IDSize:]
	if len(b) < 1 {
		return FeeRecord{}, ErrShortBuffer
	}
	has, b := b[0], b[1:]
	rec := FeeRecord{TransitionID: TransitionID(tid), GlobalStateRoot: StateRoot(root)}
	if has == 1 {
		proof, err := UnmarshalProof(b)
		if err != nil {
			return FeeRecord{}, err
		}
		rec.InclusionProof = &proof
	}
	return rec, nil
}
