package ir

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"

	"github.com/roach88/farkas/internal/rational"
)

// Domain prefixes for content-addressed identity.
// Version suffix enables future algorithm migration.
const (
	DomainTerm  = "farkas/term/v1"
	DomainCheck = "farkas/check/v1"
)

// hashWithDomain computes SHA-256 hash with domain separation.
// Format: SHA256(domain + 0x00 + data)
// The null byte separator prevents domain/data boundary ambiguity.
func hashWithDomain(domain string, data []byte) string {
	h := sha256.New()
	h.Write([]byte(domain))
	h.Write([]byte{0x00})
	h.Write(data)
	return hex.EncodeToString(h.Sum(nil))
}

// termID computes the interning key of a node from its own fields and the
// IDs of its children. Children are already interned, so their IDs stand
// in for their full structure.
func termID(op Op, sort Sort, name string, value rational.Rational, args []*Term) string {
	ids := make([]string, len(args))
	for i, a := range args {
		ids[i] = a.id
	}
	obj := map[string]any{
		"op":   op.String(),
		"sort": sort.String(),
		"args": ids,
	}
	switch op {
	case OpConst, OpApp, OpOther:
		obj["name"] = name
	case OpNumeral:
		obj["value"] = value
	}

	canonical, err := MarshalCanonical(obj)
	if err != nil {
		// Only strings, string slices and rationals reach the encoder.
		panic(fmt.Sprintf("termID: %v", err))
	}
	return hashWithDomain(DomainTerm, canonical)
}

// CheckID computes the content-addressed ID of one certificate check
// within a run. The ID is stable across replays given the same inputs.
func CheckID(runID, step string, seq int64) (string, error) {
	obj := map[string]any{
		"run_id": runID,
		"step":   step,
		"seq":    seq,
	}

	canonical, err := MarshalCanonical(obj)
	if err != nil {
		return "", fmt.Errorf("CheckID: failed to marshal: %w", err)
	}

	return hashWithDomain(DomainCheck, canonical), nil
}

// MustCheckID is like CheckID but panics on error.
// Use only in tests or when inputs are known to be valid.
func MustCheckID(runID, step string, seq int64) string {
	id, err := CheckID(runID, step, seq)
	if err != nil {
		panic(err)
	}
	return id
}
