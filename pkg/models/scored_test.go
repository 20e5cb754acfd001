package models

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSomeClampsConfidence(t *testing.T) {
	assert.Equal(t, 1.0, Some("x", 1.7).Confidence)
	assert.Equal(t, 0.0, Some("x", -0.3).Confidence)
	assert.Equal(t, 0.42, Some("x", 0.42).Confidence)
}

func TestNoneCarriesZeroConfidence(t *testing.T) {
	v := None[float64]()
	assert.False(t, v.Present)
	assert.Equal(t, 0.0, v.Confidence)
}

func TestScoredValueJSONRoundTrip(t *testing.T) {
	present := Some(12.5, 0.9)
	data, err := json.Marshal(present)
	require.NoError(t, err)
	assert.JSONEq(t, `{"value":12.5,"confidence":0.9}`, string(data))

	var decoded ScoredValue[float64]
	require.NoError(t, json.Unmarshal(data, &decoded))
	assert.Equal(t, present, decoded)
}

func TestScoredValueJSONAbsent(t *testing.T) {
	data, err := json.Marshal(None[string]())
	require.NoError(t, err)
	assert.JSONEq(t, `{"value":null,"confidence":0}`, string(data))

	var decoded ScoredValue[string]
	require.NoError(t, json.Unmarshal([]byte(`{"value":null,"confidence":0.7}`), &decoded))
	assert.False(t, decoded.Present)
	assert.Equal(t, 0.0, decoded.Confidence, "absence restores zero confidence")
}

func TestReadingHasData(t *testing.T) {
	tests := []struct {
		name    string
		reading Reading
		want    bool
	}{
		{"time only", Reading{Time: Some("9:21", 0.9)}, false},
		{"time and gauge", Reading{Time: Some("9:21", 0.9), Gauge1: Some(5.0, 0.8)}, true},
		{"time and pressure", Reading{Time: Some("9:21", 0.9), Pressure: Some(40.0, 0.8)}, true},
		{"gauge without time", Reading{Gauge1: Some(5.0, 0.8)}, false},
		{"empty", Reading{}, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.reading.HasData())
		})
	}
}

func TestGaugeMeanConfidenceCountsAbsentAsZero(t *testing.T) {
	r := Reading{
		Gauge1: Some(1.0, 0.8),
		Gauge2: Some(2.0, 0.4),
	}
	assert.InDelta(t, 0.3, r.GaugeMeanConfidence(), 1e-9)
}

func TestProjectInfoEmpty(t *testing.T) {
	var info ProjectInfo
	assert.True(t, info.Empty())

	info.TestLoad = Some("8.75 MT", 0.9)
	assert.False(t, info.Empty())
}
