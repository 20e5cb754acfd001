package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultTemplateColumnMapping(t *testing.T) {
	tmpl := DefaultTemplate()
	require.NoError(t, tmpl.Validate())

	tests := []struct {
		x    float64
		want string
	}{
		{0, "date"},
		{60, "date"},
		{130, "time"}, // boundaries belong to the right-hand column
		{160, "time"},
		{266, "pressure"},
		{405, "load"},
		{535, "gauge1"},
		{681, "gauge2"},
		{850, "gauge3"},
		{1000, "gauge4"},
		{1060, "remark"},
		{1900, "remark"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, tmpl.Column(tt.x), "x=%v", tt.x)
	}
}

func TestColumnRangeHalfOpen(t *testing.T) {
	r := ColumnRange{XMin: 130, XMax: 220}
	assert.True(t, r.Contains(130))
	assert.True(t, r.Contains(219.9))
	assert.False(t, r.Contains(220))
	assert.False(t, r.Contains(129.9))
}

func TestTemplateValidateRejectsOverlap(t *testing.T) {
	tmpl := DefaultTemplate()
	tmpl.Time.XMin = 100 // overlaps date [0,130)

	err := tmpl.Validate()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "overlap")
}

func TestTemplateValidateRejectsInvertedRange(t *testing.T) {
	tmpl := DefaultTemplate()
	tmpl.Pressure = ColumnRange{XMin: 350, XMax: 220}

	err := tmpl.Validate()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "pressure")
}

func TestLoadTemplate(t *testing.T) {
	path := filepath.Join(t.TempDir(), "narrow.yaml")
	content := []byte(`name: narrow-scan
date:
  x_min: 0
  x_max: 100
time:
  x_min: 100
  x_max: 180
remark_min_x: 1100
`)
	require.NoError(t, os.WriteFile(path, content, 0o644))

	tmpl, err := LoadTemplate(path)
	require.NoError(t, err)

	assert.Equal(t, "narrow-scan", tmpl.Name)
	assert.Equal(t, "date", tmpl.Column(50))
	assert.Equal(t, "time", tmpl.Column(120))
	// Fields absent from the file keep the default calibration.
	assert.Equal(t, "gauge1", tmpl.Column(535))
	assert.Equal(t, "remark", tmpl.Column(1150))
}

func TestLoadTemplateMissingFile(t *testing.T) {
	_, err := LoadTemplate(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)
}
