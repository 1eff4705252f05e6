package shear

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/alexiusacademia/gopcb/internal/cache"
	"github.com/alexiusacademia/gopcb/internal/girder"
	"github.com/alexiusacademia/gopcb/internal/lrfd"
	"github.com/alexiusacademia/gopcb/internal/moment"
	"github.com/alexiusacademia/gopcb/internal/project"
	"github.com/alexiusacademia/gopcb/internal/xfer"
)

const (
	beamFile   = "../../examples/rectangular-beam.json"
	typeIVFile = "../../examples/type-iv.yaml"
)

type fixture struct {
	engine  *Engine
	project *project.Project
	arena   *cache.Arena
}

func newFixture(t *testing.T, file string, edit func(*project.File)) fixture {
	t.Helper()
	f, err := project.ReadFile(file)
	require.NoError(t, err)
	if edit != nil {
		edit(&f)
	}
	p, err := project.New(f)
	require.NoError(t, err)

	arena := cache.NewArena()
	xc := xfer.New(p.Providers(), arena, nil)
	me := moment.NewEngine(p.Providers(), xc, arena, nil)
	return fixture{engine: NewEngine(p.Providers(), me, xc, arena, nil), project: p, arena: arena}
}

func (f fixture) at(x float64) girder.POI { return f.project.At(f.project.Segment(), x) }

func (f fixture) final() int { return len(f.project.Intervals()) - 1 }

func TestCriticalSections(t *testing.T) {
	f := newFixture(t, beamFile, nil)
	css, err := f.engine.CriticalSections(lrfd.StrengthI, f.project.Segment(), nil)
	require.NoError(t, err)
	require.Len(t, css, 2)

	for i := 1; i < len(css); i++ {
		assert.Greater(t, css[i].X, css[i-1].X)
	}

	left, right := css[0], css[1]
	assert.Equal(t, 0, left.Support)
	assert.Equal(t, 1, left.Direction)
	assert.InDelta(t, 12.0, left.FaceX, 1e-9)
	assert.InDelta(t, left.FaceX+left.Dv, left.X, 2e-3)
	assert.Greater(t, left.Dv, 0.72*30)
	assert.InDelta(t, 0.0, left.ZoneStart, 1e-9)
	assert.Equal(t, left.X, left.ZoneEnd)

	assert.Equal(t, 1, right.Support)
	assert.Equal(t, -1, right.Direction)
	assert.InDelta(t, 468.0, right.FaceX, 1e-9)
	assert.InDelta(t, right.FaceX-right.Dv, right.X, 2e-3)
	assert.InDelta(t, 480.0, right.ZoneEnd, 1e-9)

	// symmetric beam
	assert.InDelta(t, left.X, 480-right.X, 0.01)

	assert.True(t, left.Contains(6))
	assert.False(t, left.Contains(240))
	assert.True(t, right.Contains(474))
	assert.False(t, right.Contains(right.X))

	again, err := f.engine.CriticalSections(lrfd.StrengthI, f.project.Segment(), nil)
	require.NoError(t, err)
	assert.Equal(t, css, again)
	assert.Equal(t, 1, f.arena.Stats()[PartitionCritical])
}

func TestCriticalSectionsInsetSupports(t *testing.T) {
	f := newFixture(t, beamFile, func(file *project.File) {
		file.Supports = []project.Support{{X: 24, FaceWidth: 6}, {X: 456, FaceWidth: 6}}
	})
	seg := f.project.Segment()
	before := f.project.POIs(seg)

	// the outer faces are closer to the segment ends than dv, so only the
	// inner faces produce sections
	cfg := &girder.Config{GirderFc: 8}
	css, err := f.engine.CriticalSections(lrfd.StrengthI, seg, cfg)
	require.NoError(t, err)
	require.Len(t, css, 2)
	assert.Equal(t, before, f.project.POIs(seg))
	for _, cs := range css {
		assert.Negative(t, int(cs.POI.ID))
	}

	css, err = f.engine.CriticalSections(lrfd.StrengthI, seg, nil)
	require.NoError(t, err)
	require.Len(t, css, 2)
	for i := 1; i < len(css); i++ {
		assert.Greater(t, css[i].X, css[i-1].X)
	}
	left, right := css[0], css[1]
	assert.Equal(t, 1, left.Direction)
	assert.InDelta(t, 30.0, left.FaceX, 1e-9)
	assert.Equal(t, -1, right.Direction)
	assert.InDelta(t, 450.0, right.FaceX, 1e-9)
	for _, cs := range css {
		assert.GreaterOrEqual(t, cs.X, 0.0)
		assert.LessOrEqual(t, cs.X, 480.0)
	}

	// only the converged sections are registered
	after := f.project.POIs(seg)
	assert.LessOrEqual(t, len(after), len(before)+len(css))
	for _, cs := range css {
		assert.Contains(t, after, cs.POI)
	}
}

func TestCapacityAtSegmentEnds(t *testing.T) {
	f := newFixture(t, beamFile, nil)
	for _, x := range []float64{0, 480} {
		d, err := f.engine.Capacity(f.final(), lrfd.StrengthI, f.at(x), nil)
		require.NoError(t, err, "x=%v", x)
		assert.True(t, d.Outboard)
		assert.Positive(t, d.PhiVn)
	}
}

func TestCriticalSectionsUnknownSegment(t *testing.T) {
	f := newFixture(t, beamFile, nil)
	_, err := f.engine.CriticalSections(lrfd.StrengthI, girder.SegmentKey{Girder: 3}, nil)
	var de *girder.InputDomainError
	assert.ErrorAs(t, err, &de)
}

func TestOutboardSubstitution(t *testing.T) {
	f := newFixture(t, beamFile, nil)
	css, err := f.engine.CriticalSections(lrfd.StrengthI, f.project.Segment(), nil)
	require.NoError(t, err)
	cs := css[0]

	at, err := f.engine.Section(f.final(), lrfd.StrengthI, cs.POI, nil)
	require.NoError(t, err)

	d, err := f.engine.Capacity(f.final(), lrfd.StrengthI, f.at(6), nil)
	require.NoError(t, err)
	assert.True(t, d.Outboard)
	assert.Equal(t, cs.X, d.CriticalX)
	assert.Equal(t, at.Vu, d.Vu)
	assert.Equal(t, at.Mu, d.Mu)
	assert.Equal(t, at.Vc, d.Vc)
	assert.Equal(t, at.Theta, d.Theta)
	assert.InDelta(t, 6.0, d.X, 1e-9)

	// the unsubstituted section keeps its own demand
	own, err := f.engine.Section(f.final(), lrfd.StrengthI, f.at(6), nil)
	require.NoError(t, err)
	assert.False(t, own.Outboard)
	assert.Greater(t, own.Vu, d.Vu)

	mid, err := f.engine.Capacity(f.final(), lrfd.StrengthI, f.at(240), nil)
	require.NoError(t, err)
	assert.False(t, mid.Outboard)
}

func TestGeneralEquations(t *testing.T) {
	f := newFixture(t, beamFile, nil)
	d, err := f.engine.Capacity(f.final(), lrfd.StrengthI, f.at(120), nil)
	require.NoError(t, err)

	assert.Equal(t, lrfd.ShearGeneralEquations, d.Method)
	assert.Equal(t, lrfd.ShearGeneralEquations, d.Applied)
	assert.False(t, d.Fallback)
	assert.Equal(t, 0.9, d.Phi)
	assert.InDelta(t, 12.0, d.Bv, 1e-6)
	assert.InDelta(t, 30.0, d.H, 1e-9)
	assert.GreaterOrEqual(t, d.Dv, 0.9*d.De)
	assert.GreaterOrEqual(t, d.Dv, 0.72*d.H)
	assert.InDelta(t, 0.022, d.AvS, 1e-12)
	assert.Greater(t, d.Vc, 0.0)
	assert.Greater(t, d.Vs, 0.0)
	assert.Zero(t, d.Vp)
	assert.LessOrEqual(t, d.Vn, d.VnMax)
	assert.InDelta(t, d.Phi*d.Vn, d.PhiVn, 1e-9)
	assert.Greater(t, d.Theta, 0.0)
	assert.Less(t, d.Theta, 90.0)
	assert.True(t, d.IsAdequate())
}

func TestMethodDispatch(t *testing.T) {
	for _, method := range []string{"vci-vcw", "wsdot-2007", "general-tables", "wsdot-2001"} {
		t.Run(method, func(t *testing.T) {
			f := newFixture(t, beamFile, func(pf *project.File) { pf.Specification.ShearMethod = method })
			d, err := f.engine.Capacity(f.final(), lrfd.StrengthI, f.at(120), nil)
			require.NoError(t, err)

			m, err := lrfd.ParseShearMethod(method)
			require.NoError(t, err)
			assert.Equal(t, m, d.Method)
			if !d.Fallback {
				assert.Equal(t, m, d.Applied)
			} else {
				assert.Equal(t, lrfd.ShearGeneralEquations, d.Applied)
			}
			assert.Greater(t, d.Vc, 0.0)
			if m == lrfd.ShearVciVcw {
				assert.Equal(t, min(d.Vci, d.Vcw), d.Vc)
			}
		})
	}
}

func TestUHPCFallsBackForConventionalConcrete(t *testing.T) {
	f := newFixture(t, beamFile, func(pf *project.File) { pf.Specification.ShearMethod = "uhpc" })
	d, err := f.engine.Section(f.final(), lrfd.StrengthI, f.at(120), nil)
	require.NoError(t, err)
	assert.Equal(t, lrfd.ShearUHPC, d.Method)
	assert.True(t, d.Fallback)
	assert.Equal(t, lrfd.ShearGeneralEquations, d.Applied)
	assert.Zero(t, d.Vuhpc)
	assert.Greater(t, d.Vc, 0.0)
}

func TestHarpedStrandsContributeVp(t *testing.T) {
	f := newFixture(t, typeIVFile, nil)
	end, err := f.engine.Section(f.final(), lrfd.StrengthI, f.at(120), nil)
	require.NoError(t, err)
	assert.Greater(t, end.Vp, 0.0)

	mid, err := f.engine.Section(f.final(), lrfd.StrengthI, f.at(600), nil)
	require.NoError(t, err)
	assert.Zero(t, mid.Vp)
}

func TestFpc(t *testing.T) {
	f := newFixture(t, beamFile, nil)
	d, err := f.engine.Fpc(f.at(240), nil)
	require.NoError(t, err)

	// no deck: the composite centroid is the girder centroid
	assert.InDelta(t, 360.0, d.Ag, 1e-9)
	assert.InDelta(t, d.Ybg, d.Ybc, 1e-12)
	assert.InDelta(t, 12.0, d.E, 1e-9)
	assert.InDelta(t, d.P/d.Ag, d.Fpc, 1e-12)

	cached, err := f.engine.Fpc(f.at(240), nil)
	require.NoError(t, err)
	assert.Same(t, d, cached)

	iv := newFixture(t, typeIVFile, nil)
	c, err := iv.engine.Fpc(iv.at(600), nil)
	require.NoError(t, err)
	assert.Greater(t, c.Ybc, c.Ybg)
	assert.Greater(t, c.Fpc, 0.0)
}

func TestDesignCacheHoldsOneConfig(t *testing.T) {
	f := newFixture(t, beamFile, nil)
	seg := f.project.Segment()

	a := &girder.Config{Stirrups: girder.Stirrups{Av: 0.4, Spacing: 12, Fy: 60}}
	b := &girder.Config{GirderFc: 8}

	first, err := f.engine.CriticalSections(lrfd.StrengthI, seg, a)
	require.NoError(t, err)
	again, err := f.engine.CriticalSections(lrfd.StrengthI, seg, a)
	require.NoError(t, err)
	assert.Equal(t, first, again)
	assert.Equal(t, 1, f.arena.Stats()[PartitionDesign])

	_, err = f.engine.CriticalSections(lrfd.StrengthI, seg, b)
	require.NoError(t, err)
	assert.Equal(t, 1, f.arena.Stats()[PartitionDesign])
	assert.Zero(t, f.arena.Stats()[PartitionCritical])

	f.arena.Invalidate()
	assert.Zero(t, f.arena.Stats()[PartitionDesign])
}

func TestConfigStirrups(t *testing.T) {
	f := newFixture(t, beamFile, nil)
	base, err := f.engine.Section(f.final(), lrfd.StrengthI, f.at(120), nil)
	require.NoError(t, err)

	cfg := &girder.Config{Stirrups: girder.Stirrups{Av: 0.4, Spacing: 6, Fy: 60}}
	d, err := f.engine.Section(f.final(), lrfd.StrengthI, f.at(120), cfg)
	require.NoError(t, err)
	assert.Greater(t, d.AvS, base.AvS)
	assert.GreaterOrEqual(t, d.Vn, base.Vn)
	assert.Equal(t, 1, f.arena.Stats()[PartitionSection])
}

func TestInvalidIntervalRejected(t *testing.T) {
	f := newFixture(t, beamFile, nil)
	_, err := f.engine.Capacity(5, lrfd.StrengthI, f.at(120), nil)
	var de *girder.InputDomainError
	assert.ErrorAs(t, err, &de)
}
