package ledgertypes

import "bytes"

// VerifyingKey, Certificate and Proof are opaque cryptographic values: the
// core never inspects their contents, only stores and returns them intact.

type VerifyingKey struct{ raw []byte }

func NewVerifyingKey(raw []byte) VerifyingKey { return VerifyingKey{raw: append([]byte(nil), raw...)} }
func (v VerifyingKey) Bytes() []byte          { return append([]byte(nil), v.raw...) }
func (v VerifyingKey) Equal(o VerifyingKey) bool { return bytes.Equal(v.raw, o.raw) }
func (v VerifyingKey) MarshalBinary() ([]byte, error) {
	return putBlob(nil, v.raw), nil
}
func UnmarshalVerifyingKey(b []byte) (VerifyingKey, error) {
	raw, _, err := takeBlob(b)
	if err != nil {
		return VerifyingKey{}, err
	}
	return NewVerifyingKey(raw), nil
}

type Certificate struct{ raw []byte }

func NewCertificate(raw []byte) Certificate   { return Certificate{raw: append([]byte(nil), raw...)} }
func (c Certificate) Bytes() []byte           { return append([]byte(nil), c.raw...) }
func (c Certificate) Equal(o Certificate) bool { return bytes.Equal(c.raw, o.raw) }
func (c Certificate) MarshalBinary() ([]byte, error) {
	return putBlob(nil, c.raw), nil
}
func UnmarshalCertificate(b []byte) (Certificate, error) {
	raw, _, err := takeBlob(b)
	if err != nil {
		return Certificate{}, err
	}
	return NewCertificate(raw), nil
}

type Proof struct{ raw []byte }

func NewProof(raw []byte) Proof          { return Proof{raw: append([]byte(nil), raw...)} }
func (p Proof) Bytes() []byte            { return append([]byte(nil), p.raw...) }
func (p Proof) Equal(o Proof) bool       { return bytes.Equal(p.raw, o.raw) }
func (p Proof) MarshalBinary() ([]byte, error) {
	return putBlob(nil, p.raw), nil
}
func UnmarshalProof(b []byte) (Proof, error) {
	raw, _, err := takeBlob(b)
	if err != nil {
		return Proof{}, err
	}
	return NewProof(raw), nil
}
