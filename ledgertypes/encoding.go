package ledgertypes

import (
	"encoding/binary"
	"fmt"
)

// The helpers below give every opaque or composite value in this package
// a stable byte encoding: the same value serializes to the same bytes on
// every run, so mapstore backends that persist to disk reproduce
// identical keys across process restarts. Composite keys concatenate
// their components in declaration order.

func putUint32(buf []byte, v int) []byte {
	var tmp [4]byte
	binary.BigEndian.PutUint32(tmp[:], uint32(v))
	return append(buf, tmp[:]...)
}

func putBlob(buf []byte, blob []byte) []byte {
	buf = putUint32(buf, len(blob))
	return append(buf, blob...)
}

func takeUint32(b []byte) (int, []byte, error) {
	if len(b) < 4 {
		return 0, nil, fmt.Errorf("ledgertypes: short buffer reading length prefix")
	}
	return int(binary.BigEndian.Uint32(b)), b[4:], nil
}

func takeBlob(b []byte) ([]byte, []byte, error) {
	n, rest, err := takeUint32(b)
	if err != nil {
		return nil, nil, err
	}
	if len(rest) < n {
		return nil, nil, fmt.Errorf("ledgertypes: short buffer reading %d-byte blob", n)
	}
	return rest[:n], rest[n:], nil
}
