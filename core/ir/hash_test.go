package ir

import (
	"errors"
	"testing"
)

func TestHashBytes(t *testing.T) {
	data := []byte("qala abu bakr")
	hash := HashBytes(data)

	// Should be 64 hex characters (SHA-256)
	if len(hash) != 64 {
		t.Errorf("hash length = %d, want 64", len(hash))
	}
	if hash != HashBytes(data) {
		t.Error("same data produced different hashes")
	}
	if hash == HashBytes([]byte("different")) {
		t.Error("different data produced same hash")
	}
}

func TestBlake3Hash(t *testing.T) {
	data := []byte("qala abu bakr")
	hash := Blake3Hash(data)
	if len(hash) != 64 {
		t.Errorf("hash length = %d, want 64", len(hash))
	}
	if hash == HashBytes(data) {
		t.Error("BLAKE3 and SHA-256 produced the same digest")
	}
	// BLAKE3 of the empty input is a published test vector.
	const empty = "af1349b9f5f9a1a6a0404dea36dcc9499bcb25c9adc112b7cc9a93cae41f3262"
	if got := Blake3Hash(nil); got != empty {
		t.Errorf("Blake3Hash(nil) = %s, want %s", got, empty)
	}
}

func TestDigest(t *testing.T) {
	doc := sampleDocument()
	d := Digest(doc)
	if d.SHA256 != HashBytes([]byte(doc.OrigText)) {
		t.Error("SHA256 does not cover OrigText")
	}
	if d.BLAKE3 != Blake3Hash([]byte(doc.OrigText)) {
		t.Error("BLAKE3 does not cover OrigText")
	}
}

func TestHashDocument(t *testing.T) {
	doc := sampleDocument()

	hash, err := HashDocument(doc)
	if err != nil {
		t.Fatalf("HashDocument failed: %v", err)
	}
	if len(hash) != 64 {
		t.Errorf("hash length = %d, want 64", len(hash))
	}

	hash2, err := HashDocument(sampleDocument())
	if err != nil {
		t.Fatalf("HashDocument failed: %v", err)
	}
	if hash != hash2 {
		t.Error("equal documents produced different hashes")
	}

	doc.Content = doc.Content[:1]
	hash3, err := HashDocument(doc)
	if err != nil {
		t.Fatalf("HashDocument failed: %v", err)
	}
	if hash == hash3 {
		t.Error("modified document produced same hash")
	}
}

func TestHashDocument_MarshalError(t *testing.T) {
	orig := jsonMarshal
	defer func() { jsonMarshal = orig }()

	jsonMarshal = func(v any) ([]byte, error) {
		return nil, errors.New("marshal failed")
	}
	if _, err := HashDocument(sampleDocument()); err == nil {
		t.Error("expected error from HashDocument")
	}
}
