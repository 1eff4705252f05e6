package girder

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestConfigKey(t *testing.T) {
	var none *Config
	assert.Empty(t, none.Key())

	a := &Config{
		GirderFc:        8,
		EffectiveStress: map[StrandType]float64{Straight: 150, Harped: 140},
		Strands:         map[StrandType][]Strand{Straight: {{Diameter: 0.6, Area: 0.217}}},
	}
	b := &Config{
		Strands:         map[StrandType][]Strand{Straight: {{Diameter: 0.6, Area: 0.217}}},
		EffectiveStress: map[StrandType]float64{Harped: 140, Straight: 150},
		GirderFc:        8,
	}
	assert.Equal(t, a.Key(), b.Key())
	assert.Len(t, a.Key(), 16)

	b.EffectiveStress[Harped] = 141
	assert.NotEqual(t, a.Key(), b.Key())
	assert.NotEqual(t, a.Key(), (&Config{}).Key())
}

func TestStrandTypeExpand(t *testing.T) {
	assert.Equal(t, []StrandType{Straight, Harped}, Permanent.Expand())
	assert.Equal(t, []StrandType{Temporary}, Temporary.Expand())
	assert.Equal(t, "harped", Harped.String())
	assert.Equal(t, "StrandType(9)", StrandType(9).String())
}

func TestStrandIsDebonded(t *testing.T) {
	assert.False(t, Strand{}.IsDebonded())
	assert.True(t, Strand{DebondEnd: 36}.IsDebonded())
}

func TestStrandExtendedAt(t *testing.T) {
	s := Strand{ExtendedStart: true}
	assert.True(t, s.ExtendedAt(0, 100))
	assert.True(t, s.ExtendedAt(50, 100))
	assert.False(t, s.ExtendedAt(51, 100))
	assert.False(t, s.ExtendedAt(100, 100))

	e := Strand{ExtendedEnd: true}
	assert.False(t, e.ExtendedAt(10, 100))
	assert.True(t, e.ExtendedAt(90, 100))
	assert.False(t, Strand{}.ExtendedAt(0, 100))
}

func TestErrors(t *testing.T) {
	err := &InputDomainError{What: "interval", Value: 7}
	assert.Equal(t, "invalid interval: 7", err.Error())
	assert.Equal(t, "G1-2-S3", SegmentKey{Group: 1, Girder: 2, Segment: 3}.String())
}
