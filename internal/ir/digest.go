package ir

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"strconv"
)

// Domain prefixes for digests.
// The version suffix allows a future change of the algorithm.
const (
	DomainStream = "quirks/stream/v1"
	DomainResult = "quirks/result/v1"
)

// hashWithDomain computes SHA256(domain + 0x00 + data).
// The null byte keeps the domain/data boundary unambiguous.
func hashWithDomain(domain string, data []byte) string {
	h := sha256.New()
	h.Write([]byte(domain))
	h.Write([]byte{0x00})
	h.Write(data)
	return hex.EncodeToString(h.Sum(nil))
}

// Normalize replaces run-dependent identity values with relationship
// tokens: the first distinct handle becomes "#1", the next "#2", and a
// handle seen again reuses its token. Other observations are unchanged.
func Normalize(observations []Observation) []Observation {
	tokens := make(map[string]string)
	out := make([]Observation, len(observations))
	for i, o := range observations {
		if o.Kind == KindIdentity {
			tok, ok := tokens[o.Value]
			if !ok {
				tok = "#" + strconv.Itoa(len(tokens)+1)
				tokens[o.Value] = tok
			}
			o.Value = tok
		}
		out[i] = o
	}
	return out
}

// StreamObject converts normalized observations into a canonical Array.
func StreamObject(observations []Observation) Array {
	arr := make(Array, len(observations))
	for i, o := range observations {
		obj := Object{
			"seq":   Int(o.Seq),
			"kind":  String(o.Kind),
			"value": String(o.Value),
		}
		if o.Label != "" {
			obj["label"] = String(o.Label)
		}
		arr[i] = obj
	}
	return arr
}

// StreamDigest hashes the normalized form of an observation stream.
// Two isolated runs of a deterministic scenario produce equal digests even
// when their identity handles differ.
func StreamDigest(observations []Observation) (string, error) {
	canonical, err := MarshalCanonical(StreamObject(Normalize(observations)))
	if err != nil {
		return "", fmt.Errorf("StreamDigest: failed to marshal: %w", err)
	}
	return hashWithDomain(DomainStream, canonical), nil
}

// ResultDigest hashes a result's verdict and mismatches. Used as the
// content-addressed key of a result row in run history.
func ResultDigest(r Result) (string, error) {
	mismatches := make(Array, len(r.Mismatches))
	for i, m := range r.Mismatches {
		mismatches[i] = Object{
			"index":    Int(m.Index),
			"expected": String(m.Expected),
			"actual":   String(m.Actual),
		}
	}
	obj := Object{
		"scenario":   String(r.Scenario),
		"passed":     Bool(r.Passed),
		"mismatches": mismatches,
		"stream":     StreamObject(Normalize(r.Observations)),
	}
	canonical, err := MarshalCanonical(obj)
	if err != nil {
		return "", fmt.Errorf("ResultDigest: failed to marshal: %w", err)
	}
	return hashWithDomain(DomainResult, canonical), nil
}

// MustStreamDigest is like StreamDigest but panics on error.
// Use only in tests or when inputs are known to be valid.
func MustStreamDigest(observations []Observation) string {
	d, err := StreamDigest(observations)
	if err != nil {
		panic(err)
	}
	return d
}
