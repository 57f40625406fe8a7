package mapstore

// Codec converts a value to and from the bytes a persistent backend
// stores it as. Backends that keep everything in memory (memstore) don't
// need one; boltstore and lsmstore require one per map since bbolt and
// cometbft-db both deal exclusively in []byte.
type Codec[T any] struct {
	Marshal   func(T) ([]byte, error)
	Unmarshal func([]byte) (T, error)
}

// BinaryCodec builds a Codec from a type's own MarshalBinary method and a
// free decode function, which is how every value type in ledgertypes
// already encodes itself.
func BinaryCodec[T interface{ MarshalBinary() ([]byte, error) }](unmarshal func([]byte) (T, error)) Codec[T] {
	return Codec[T]{
		Marshal:   func(v T) ([]byte, error) { return v.MarshalBinary() },
		Unmarshal: unmarshal,
	}
}
