package xfer

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/alexiusacademia/gopcb/internal/cache"
	"github.com/alexiusacademia/gopcb/internal/girder"
	"github.com/alexiusacademia/gopcb/internal/lrfd"
	"github.com/alexiusacademia/gopcb/internal/project"
)

func newCalculator(t *testing.T, file string, modify func(f *project.File)) (*Calculator, *project.Project, *cache.Arena) {
	t.Helper()
	f, err := project.ReadFile(file)
	require.NoError(t, err)
	if modify != nil {
		modify(&f)
	}
	p, err := project.New(f)
	require.NoError(t, err)
	arena := cache.NewArena()
	return New(p.Providers(), arena, nil), p, arena
}

const (
	beamFile   = "../../examples/rectangular-beam.json"
	typeIVFile = "../../examples/type-iv.yaml"
)

func TestTransferLengthByConcrete(t *testing.T) {
	tests := []struct {
		name     string
		concrete string
		xt       lrfd.TransferType
		expected float64
		method   lrfd.TransferMethod
	}{
		{"conventional", "normal", lrfd.TransferMaximum, 60 * 0.5, lrfd.TransferStandard},
		{"lightweight", "sand-lightweight", lrfd.TransferMinimum, 60 * 0.5, lrfd.TransferStandard},
		{"first UHPC variant", "uhpc-pci", lrfd.TransferMaximum, 20 * 0.5, lrfd.TransferUHPCPCI},
		{"second UHPC variant minimum", "uhpc-fhwa", lrfd.TransferMinimum, 18 * 0.5, lrfd.TransferUHPCFHWA},
		{"second UHPC variant maximum", "uhpc-fhwa", lrfd.TransferMaximum, 24 * 0.5, lrfd.TransferUHPCFHWA},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c, p, _ := newCalculator(t, beamFile, func(f *project.File) {
				f.Girder.Concrete.Type = tt.concrete
			})
			r, err := c.TransferLength(p.Segment(), girder.Straight, tt.xt, nil)
			require.NoError(t, err)
			assert.Equal(t, tt.expected, r.Length)
			assert.Equal(t, tt.method, r.Method)
			assert.Equal(t, 0.5, r.Diameter)
		})
	}
}

func TestTransferLengthEpoxyAndZero(t *testing.T) {
	c, p, _ := newCalculator(t, beamFile, func(f *project.File) {
		f.Strands.Straight[0].Epoxy = true
	})
	r, err := c.TransferLength(p.Segment(), girder.Straight, lrfd.TransferMaximum, nil)
	require.NoError(t, err)
	assert.Equal(t, 25.0, r.Length)

	c, p, _ = newCalculator(t, beamFile, func(f *project.File) {
		f.Specification.ZeroTransfer = true
	})
	r, err = c.TransferLength(p.Segment(), girder.Straight, lrfd.TransferMaximum, nil)
	require.NoError(t, err)
	assert.Equal(t, lrfd.TransferNegligible, r.Method)
	assert.Equal(t, lrfd.NegligibleTransferLength, r.Length)
}

func TestTransferLengthFallsBackToOtherTypes(t *testing.T) {
	c, p, _ := newCalculator(t, beamFile, nil)

	// no temporary strands: the straight strand size governs
	r, err := c.TransferLength(p.Segment(), girder.Temporary, lrfd.TransferMaximum, nil)
	require.NoError(t, err)
	assert.Equal(t, 30.0, r.Length)

	perm, err := c.TransferLength(p.Segment(), girder.Permanent, lrfd.TransferMaximum, nil)
	require.NoError(t, err)
	assert.Equal(t, 30.0, perm.Length)

	_, err = c.TransferLength(p.Segment(), girder.StrandType(9), lrfd.TransferMaximum, nil)
	var de *girder.InputDomainError
	assert.ErrorAs(t, err, &de)
}

func TestTransferLengthCache(t *testing.T) {
	c, p, arena := newCalculator(t, beamFile, nil)
	seg := p.Segment()

	for range 3 {
		_, err := c.TransferLength(seg, girder.Straight, lrfd.TransferMaximum, nil)
		require.NoError(t, err)
	}
	assert.Equal(t, 1, arena.Stats()[PartitionName])
	assert.Equal(t, int64(1), c.cache.Misses())

	// an override configuration is computed fresh and never stored
	big := girder.Strand{Diameter: 0.6, Area: 0.217, Grade: lrfd.Grade270}
	cfg := &girder.Config{Strands: map[girder.StrandType][]girder.Strand{girder.Straight: {big, big}}}
	r, err := c.TransferLength(seg, girder.Straight, lrfd.TransferMaximum, cfg)
	require.NoError(t, err)
	assert.InDelta(t, 36.0, r.Length, 1e-12)
	assert.Equal(t, 1, arena.Stats()[PartitionName])

	cached, err := c.TransferLength(seg, girder.Straight, lrfd.TransferMaximum, nil)
	require.NoError(t, err)
	assert.Equal(t, 30.0, cached.Length)
}

func TestStrandAdjustment(t *testing.T) {
	c, p, _ := newCalculator(t, beamFile, nil)
	seg := p.Segment()
	at := func(x float64) float64 {
		f, err := c.StrandAdjustment(girder.POI{Segment: seg, X: x}, girder.Straight, 0, lrfd.TransferMaximum, nil)
		require.NoError(t, err)
		return f
	}

	assert.Zero(t, at(0))
	assert.InDelta(t, 0.5, at(15), 1e-12)
	assert.Equal(t, 1.0, at(30))
	assert.Equal(t, 1.0, at(240))
	assert.InDelta(t, 0.5, at(465), 1e-12)

	prev := 0.0
	for x := 0.0; x <= 240; x += 2.5 {
		f := at(x)
		assert.GreaterOrEqual(t, f, prev)
		assert.LessOrEqual(t, f, 1.0)
		prev = f
	}

	_, err := c.StrandAdjustment(girder.POI{Segment: seg}, girder.Straight, 4, lrfd.TransferMaximum, nil)
	assert.Error(t, err)
	_, err = c.StrandAdjustment(girder.POI{Segment: seg}, girder.Permanent, 0, lrfd.TransferMaximum, nil)
	assert.Error(t, err)
}

func TestAdjustmentWithDebonding(t *testing.T) {
	c, p, _ := newCalculator(t, typeIVFile, nil)
	seg := p.Segment()

	// 24 bonded strands fully effective, 4 debonded strands halfway
	// through their transfer length
	f, err := c.Adjustment(girder.POI{Segment: seg, X: 75}, girder.Straight, lrfd.TransferMaximum, nil)
	require.NoError(t, err)
	assert.InDelta(t, (24+4*0.5)/28.0, f, 1e-12)

	// inside the debonded zone the debonded strands contribute nothing
	f, err = c.Adjustment(girder.POI{Segment: seg, X: 40}, girder.Straight, lrfd.TransferMaximum, nil)
	require.NoError(t, err)
	assert.InDelta(t, 24.0/28.0, f, 1e-12)

	// debonded strand ramps linearly from its bond initiation point
	for _, x := range []float64{60, 67.5, 75, 82.5, 90} {
		r, err := c.StrandAdjustment(girder.POI{Segment: seg, X: x}, girder.Straight, 24, lrfd.TransferMaximum, nil)
		require.NoError(t, err)
		assert.InDelta(t, (x-60)/30, r, 1e-12)
	}

	f, err = c.Adjustment(girder.POI{Segment: seg, X: 600}, girder.Permanent, lrfd.TransferMaximum, nil)
	require.NoError(t, err)
	assert.Equal(t, 1.0, f)

	f, err = c.Adjustment(girder.POI{Segment: seg, X: 600}, girder.Temporary, lrfd.TransferMaximum, nil)
	require.NoError(t, err)
	assert.Equal(t, 1.0, f, "no strands means no reduction")
}

func TestRatio(t *testing.T) {
	s := girder.Strand{Diameter: 0.5}
	assert.InDelta(t, 0.25, Ratio(s, 5, 100, 20), 1e-12)
	assert.InDelta(t, 0.25, Ratio(s, 95, 100, 20), 1e-12)
	assert.Equal(t, 1.0, Ratio(s, 50, 100, 0))

	s.ExtendedStart = true
	assert.Equal(t, 1.0, Ratio(s, 0, 100, 20))
	assert.Equal(t, 1.0, Ratio(s, 5, 100, 20))
	// the far end is not extended
	assert.InDelta(t, 0.25, Ratio(s, 95, 100, 20), 1e-12)
	assert.Zero(t, Ratio(s, 100, 100, 20))

	d := girder.Strand{Diameter: 0.5, DebondStart: 10}
	assert.Zero(t, Ratio(d, 5, 100, 20))
	assert.InDelta(t, 0.5, Ratio(d, 20, 100, 20), 1e-12)
}
