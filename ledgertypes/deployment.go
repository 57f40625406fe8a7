package ledgertypes

import "fmt"

// VKEntry pairs one program function with its verifying key and
// certificate, the unit deployment.rs iterates as
// `deployment.verifying_keys()`.
type VKEntry struct {
	Function     Identifier
	VerifyingKey VerifyingKey
	Certificate  Certificate
}

// Deployment is the payload of a Deploy transaction: an edition, the
// compiled program, and one (verifying key, certificate) pair per
// function.
type Deployment struct {
	Edition       uint16
	Program       Program
	VerifyingKeys []VKEntry
}

func NewDeployment(edition uint16, program Program, keys []VKEntry) Deployment {
	return Deployment{Edition: edition, Program: program, VerifyingKeys: append([]VKEntry(nil), keys...)}
}

func (d Deployment) ProgramID() ProgramID { return d.Program.ID() }

func (d Deployment) MarshalBinary() ([]byte, error) {
	var buf []byte
	buf = append(buf, byte(d.Edition>>8), byte(d.Edition))
	pb, err := d.Program.MarshalBinary()
	if err != nil {
		return nil, err
	}
	buf = putBlob(buf, pb)
	buf = putUint32(buf, len(d.VerifyingKeys))
	for _, vk := range d.VerifyingKeys {
		buf = append(buf, vk.Function.Bytes()...)
		vkb, err := vk.VerifyingKey.MarshalBinary()
		if err != nil {
			return nil, err
		}
		buf = putBlob(buf, vkb)
		cb, err := vk.Certificate.MarshalBinary()
		if err != nil {
			return nil, err
		}
		buf = putBlob(buf, cb)
	}
	return buf, nil
}

func UnmarshalDeployment(b []byte) (Deployment, error) {
	if len(b) < 2 {
		return Deployment{}, ErrShortBuffer
	}
	edition := uint16(b[0])<<8 | uint16(b[1])
	pb, rest, err := takeBlob(b[2:])
	if err != nil {
		return Deployment{}, err
	}
	program, err := UnmarshalProgram(pb)
	if err != nil {
		return Deployment{}, err
	}
	n, rest, err := takeUint32(rest)
	if err != nil {
		return Deployment{}, err
	}
	keys := make([]VKEntry, 0, n)
	for i := 0; i < n; i++ {
		fnID, err := idFromBytes(rest)
		if err != nil {
			return Deployment{}, err
		}
		rest = rest[IDSize:]
		vkb, next, err := takeBlob(rest)
		if err != nil {
			return Deployment{}, err
		}
		vk, err := UnmarshalVerifyingKey(vkb)
		if err != nil {
			return Deployment{}, err
		}
		rest = next
		cb, next, err := takeBlob(rest)
		if err != nil {
			return Deployment{}, err
		}
		cert, err := UnmarshalCertificate(cb)
		if err != nil {
			return Deployment{}, err
		}
		rest = next
		keys = append(keys, VKEntry{Function: Identifier(fnID), VerifyingKey: vk, Certificate: cert})
	}
	return NewDeployment(edition, program, keys), nil
}

// CheckIsOrdered ensures the deployment carries exactly one verifying-key
// entry per program function, in the same order as Program.Functions() —
// the precondition deployment.rs's insert() enforces before staging any
// write.
func (d Deployment) CheckIsOrdered() error {
	fns := d.Program.Functions()
	if len(fns) != len(d.VerifyingKeys) {
		return fmt.Errorf("ledgertypes: deployment has %d functions but %d verifying keys", len(fns), len(d.VerifyingKeys))
	}
	for i, fn := range fns {
		if d.VerifyingKeys[i].Function != fn {
			return fmt.Errorf("ledgertypes: deployment verifying keys out of order at index %d", i)
		}
	}
	return nil
}
