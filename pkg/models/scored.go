package models

import (
	"bytes"
	"encoding/json"
)

// ScoredValue pairs an extracted value with the recognition confidence the OCR
// engine reported for it. Absence is first class: a missing field is represented
// by Present == false and always carries confidence 0, so callers can flag
// low-confidence or missing data for manual review without sentinel values.
type ScoredValue[T any] struct {
	Value      T
	Confidence float64
	Present    bool
}

// Some returns a present ScoredValue with the confidence clamped into [0,1].
func Some[T any](value T, confidence float64) ScoredValue[T] {
	if confidence < 0 {
		confidence = 0
	}
	if confidence > 1 {
		confidence = 1
	}
	return ScoredValue[T]{Value: value, Confidence: confidence, Present: true}
}

// None returns an absent ScoredValue. Absent values carry confidence 0.
func None[T any]() ScoredValue[T] {
	return ScoredValue[T]{}
}

// scoredValueJSON is the wire shape: {"value": ..., "confidence": ...} with a
// null value when the field is absent.
type scoredValueJSON[T any] struct {
	Value      *T      `json:"value"`
	Confidence float64 `json:"confidence"`
}

// MarshalJSON implements json.Marshaler.
func (s ScoredValue[T]) MarshalJSON() ([]byte, error) {
	out := scoredValueJSON[T]{Confidence: s.Confidence}
	if s.Present {
		out.Value = &s.Value
	} else {
		out.Confidence = 0
	}
	return json.Marshal(out)
}

// UnmarshalJSON implements json.Unmarshaler. A null value restores absence
// regardless of the confidence on the wire.
func (s *ScoredValue[T]) UnmarshalJSON(data []byte) error {
	var in scoredValueJSON[T]
	dec := json.NewDecoder(bytes.NewReader(data))
	if err := dec.Decode(&in); err != nil {
		return err
	}
	if in.Value == nil {
		*s = None[T]()
		return nil
	}
	*s = Some(*in.Value, in.Confidence)
	return nil
}
