package ledgertypes_test

import (
	"github.com/google/uuid"

	"github.com/cuemby/ledgerstore/ledgertypes"
)

// idFromUUID derives a deterministic 32-byte fixture ID from a random
// uuid, so tests get distinct-but-reproducible-within-a-run identifiers
// without pulling in a cryptographic key scheme.
func idFromUUID() [32]byte {
	var out [32]byte
	u := uuid.New()
	copy(out[:16], u[:])
	copy(out[16:], u[:])
	return out
}

func newProgramID() ledgertypes.ProgramID         { return ledgertypes.ProgramID(idFromUUID()) }
func newIdentifier() ledgertypes.Identifier       { return ledgertypes.Identifier(idFromUUID()) }
func newTransitionID() ledgertypes.TransitionID   { return ledgertypes.TransitionID(idFromUUID()) }
func newStateRoot() ledgertypes.StateRoot         { return ledgertypes.StateRoot(idFromUUID()) }

func sampleProgram(functions ...ledgertypes.Identifier) ledgertypes.Program {
	if len(functions) == 0 {
		functions = []ledgertypes.Identifier{newIdentifier()}
	}
	return ledgertypes.NewProgram(functions, []byte("program-body-"+uuid.NewString()))
}

func sampleTransition() ledgertypes.Transition {
	return ledgertypes.NewTransition(newTransitionID(), []byte("transition-"+uuid.NewString()))
}

func sampleFee() ledgertypes.Fee {
	proof := ledgertypes.NewProof([]byte("proof-" + uuid.NewString()))
	return ledgertypes.NewFee(sampleTransition(), newStateRoot(), &proof)
}

func sampleDeployment(functions ...ledgertypes.Identifier) ledgertypes.Deployment {
	program := sampleProgram(functions...)
	keys := make([]ledgertypes.VKEntry, 0, len(program.Functions()))
	for _, fn := range program.Functions() {
		keys = append(keys, ledgertypes.VKEntry{
			Function:     fn,
			VerifyingKey: ledgertypes.NewVerifyingKey([]byte("vk-" + uuid.NewString())),
			Certificate:  ledgertypes.NewCertificate([]byte("cert-" + uuid.NewString())),
		})
	}
	return ledgertypes.NewDeployment(1, program, keys)
}

func sampleOwner() ledgertypes.ProgramOwner {
	var o ledgertypes.ProgramOwner
	copy(o.Address[:], idFromUUID()[:])
	u := uuid.New()
	copy(o.Signature[:16], u[:])
	copy(o.Signature[16:32], u[:])
	copy(o.Signature[32:48], u[:])
	copy(o.Signature[48:64], u[:])
	return o
}
