package ir

import (
	"crypto/sha256"
	"encoding/hex"

	"github.com/zeebo/blake3"
)

// HashResult contains both SHA-256 and BLAKE3 hashes of a source text.
type HashResult struct {
	SHA256 string `json:"sha256"`
	BLAKE3 string `json:"blake3"`
}

// HashBytes computes the SHA-256 hash of bytes and returns it as a hex string.
func HashBytes(data []byte) string {
	h := sha256.Sum256(data)
	return hex.EncodeToString(h[:])
}

// Blake3Hash computes the BLAKE3 hash of bytes and returns it as a hex string.
func Blake3Hash(data []byte) string {
	h := blake3.Sum256(data)
	return hex.EncodeToString(h[:])
}

// Digest content-addresses a document by its original text.
func Digest(d *Document) HashResult {
	data := []byte(d.OrigText)
	return HashResult{
		SHA256: HashBytes(data),
		BLAKE3: Blake3Hash(data),
	}
}

// HashDocument computes the SHA-256 hash of the document's JSON encoding.
// Two parses of the same input produce the same hash.
func HashDocument(d *Document) (string, error) {
	data, err := jsonMarshal(d)
	if err != nil {
		return "", err
	}
	return HashBytes(data), nil
}
