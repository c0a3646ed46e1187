// Package vector holds the embedding vector plumbing: parsing the
// string-or-list representations that come back from the datastore, and
// cosine similarity scoring.
package vector

import (
	"encoding/json"
	"math"
	"strconv"
	"strings"
)

// Parse converts any supported embedding representation into a numeric
// vector. Accepted inputs: []float32, []float64, a JSON array string, or a
// bracket-delimited comma string ("[0.1, 0.2]"). Parsing failure for one
// string representation falls back to the other; anything unrecognizable
// yields an empty vector rather than an error, so a bad embedding degrades
// to a zero similarity score downstream.
func Parse(raw interface{}) []float32 {
	switch v := raw.(type) {
	case nil:
		return nil
	case []float32:
		return v
	case []float64:
		out := make([]float32, len(v))
		for i, f := range v {
			out[i] = float32(f)
		}
		return out
	case []interface{}:
		out := make([]float32, 0, len(v))
		for _, e := range v {
			f, ok := e.(float64)
			if !ok {
				return nil
			}
			out = append(out, float32(f))
		}
		return out
	case string:
		return parseString(v)
	default:
		return nil
	}
}

func parseString(s string) []float32 {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil
	}

	var floats []float64
	if err := json.Unmarshal([]byte(s), &floats); err == nil {
		out := make([]float32, len(floats))
		for i, f := range floats {
			out[i] = float32(f)
		}
		return out
	}

	// Not valid JSON: fall back to a bracket-delimited comma list.
	s = strings.Trim(s, "[]")
	var out []float32
	for _, part := range strings.Split(s, ",") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		f, err := strconv.ParseFloat(part, 32)
		if err != nil {
			return nil
		}
		out = append(out, float32(f))
	}
	return out
}

// Cosine computes cosine similarity between two vectors: dot product divided
// by the product of magnitudes. It returns exactly 0.0 when either vector is
// empty or has zero magnitude, and never divides by zero. Vectors of unequal
// length are compared over their common prefix.
func Cosine(a, b []float32) float64 {
	n := len(a)
	if len(b) < n {
		n = len(b)
	}
	if n == 0 {
		return 0.0
	}

	var dot, normA, normB float64
	for i := 0; i < n; i++ {
		dot += float64(a[i]) * float64(b[i])
		normA += float64(a[i]) * float64(a[i])
		normB += float64(b[i]) * float64(b[i])
	}
	if normA == 0 || normB == 0 {
		return 0.0
	}
	return dot / (math.Sqrt(normA) * math.Sqrt(normB))
}

// Serialize renders a vector as a JSON array string, the at-rest form the
// store writes. An empty vector serializes to "".
func Serialize(v []float32) string {
	if len(v) == 0 {
		return ""
	}
	var b strings.Builder
	b.WriteByte('[')
	for i, f := range v {
		if i > 0 {
			b.WriteByte(',')
		}
		b.WriteString(strconv.FormatFloat(float64(f), 'g', -1, 32))
	}
	b.WriteByte(']')
	return b.String()
}

// Embedding is a numeric vector that accepts both at-rest representations
// when decoding JSON: an array of floats, or the array's string-serialized
// form. Unparseable input decodes to the empty vector instead of failing,
// keeping the ambiguity at this one boundary.
type Embedding []float32

// UnmarshalJSON implements json.Unmarshaler.
func (e *Embedding) UnmarshalJSON(data []byte) error {
	var floats []float32
	if err := json.Unmarshal(data, &floats); err == nil {
		*e = floats
		return nil
	}
	var s string
	if err := json.Unmarshal(data, &s); err == nil {
		*e = Parse(s)
		return nil
	}
	*e = nil
	return nil
}
