package driver

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
)

// Digest identifies the content of an encoded unit.
type Digest [sha256.Size]byte

func (d Digest) String() string { return hex.EncodeToString(d[:]) }

// IsZero reports whether d was never computed.
func (d Digest) IsZero() bool { return d == Digest{} }

func digestOf(data []byte) Digest {
	return sha256.Sum256(data)
}

// cacheKey mixes the schema version into the content digest so a format
// change never reads stale entries.
func cacheKey(content Digest, schema uint16) Digest {
	h := sha256.New()
	_, _ = h.Write(content[:])
	_, _ = h.Write([]byte{byte(schema >> 8), byte(schema)})
	var out Digest
	copy(out[:], h.Sum(nil))
	return out
}

func (d Digest) MarshalText() ([]byte, error) {
	return []byte(d.String()), nil
}

func (d *Digest) UnmarshalText(text []byte) error {
	if len(text) == 0 {
		*d = Digest{}
		return nil
	}
	n, err := hex.Decode(d[:], text)
	if err != nil {
		return fmt.Errorf("invalid digest: %w", err)
	}
	if n != len(d) {
		return fmt.Errorf("invalid digest length %d", n)
	}
	return nil
}
