package dataset

import (
	"encoding/hex"

	"github.com/JonMunkholm/StandardsTable/internal/core"
	"github.com/zeebo/blake3"
)

// fingerprintSize is the digest length in bytes; 16 is plenty for an ETag.
const fingerprintSize = 16

// Fingerprint returns a short hex digest of every record value in dataset
// order. Two datasets with equal fingerprints render identical tables.
func Fingerprint(ds *core.Dataset) string {
	h := blake3.New()
	for _, rec := range ds.Records() {
		for _, v := range rec.Values() {
			// Unit separator keeps "ab","c" distinct from "a","bc".
			h.Write([]byte(v))
			h.Write([]byte{0x1f})
		}
		h.Write([]byte{0x1e})
	}

	return hex.EncodeToString(h.Sum(nil)[:fingerprintSize])
}
