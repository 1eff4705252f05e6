package lrfd

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBeta1(t *testing.T) {
	assert.InDelta(t, 0.85, Beta1(3.0), 1e-12)
	assert.InDelta(t, 0.85, Beta1(4.0), 1e-12)
	assert.InDelta(t, 0.75, Beta1(6.0), 1e-12)
	assert.InDelta(t, 0.65, Beta1(10.0), 1e-12)
}

func TestModulusOfElasticity(t *testing.T) {
	ec := ModulusOfElasticity(5.0, 0.150, Normal)
	assert.InDelta(t, 120000*0.0225*1.7008, ec, 5)
	// default unit weight
	assert.Less(t, ModulusOfElasticity(5.0, 0, Normal), ec)
	assert.Greater(t, ModulusOfElasticity(22, 0, UHPCFHWA), 6000.0)
}

func TestModulusOfRupture(t *testing.T) {
	assert.InDelta(t, 0.24*3, ModulusOfRupture(9, Normal, 0), 1e-12)
	assert.InDelta(t, 0.75*0.24*3, ModulusOfRupture(9, AllLightweight, 0), 1e-12)
	assert.InDelta(t, 0.75, ModulusOfRupture(22, UHPCPCI, 0.75), 1e-12)
}

func TestPhiFlexure(t *testing.T) {
	tests := []struct {
		name     string
		epsT     float64
		ppr      float64
		expected float64
	}{
		{"prestressed tension controlled", 0.006, 1, 1.0},
		{"reinforced tension controlled", 0.006, 0, 0.9},
		{"compression controlled", 0.001, 1, 0.75},
		{"transition", 0.0035, 1, 0.875},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.InDelta(t, tt.expected, PhiFlexure(tt.epsT, tt.ppr, EpsilonCL, Normal), 1e-12)
		})
	}
	assert.InDelta(t, 0.9, PhiFlexure(0.01, 1, EpsilonCL, UHPCFHWA), 1e-12)
}

func TestStrandStress(t *testing.T) {
	assert.Zero(t, StrandStress(0, Grade270))
	assert.InDelta(t, 195.4, StrandStress(0.007, Grade270), 1.0)
	assert.InDelta(t, 270, StrandStress(0.05, Grade270), 1e-9)
	assert.InDelta(t, 250, StrandStress(0.05, Grade250), 1e-9)
	assert.InDelta(t, -StrandStress(0.01, Grade270), StrandStress(-0.01, Grade270), 1e-12)

	prev := 0.0
	for eps := 0.001; eps < 0.035; eps += 0.001 {
		f := StrandStress(eps, Grade270)
		assert.GreaterOrEqual(t, f, prev, "stress must not decrease at %g", eps)
		prev = f
	}
}

func TestRebarStress(t *testing.T) {
	assert.InDelta(t, 29.0, RebarStress(0.001, 60, Es), 1e-12)
	assert.InDelta(t, 60.0, RebarStress(0.01, 60, Es), 1e-12)
	assert.InDelta(t, -60.0, RebarStress(-0.01, 60, Es), 1e-12)
}

func TestTransferLength(t *testing.T) {
	assert.InDelta(t, 30.0, TransferLength(TransferStandard, 0.5, Uncoated, TransferMaximum), 1e-12)
	assert.InDelta(t, 25.0, TransferLength(TransferStandard, 0.5, EpoxyCoated, TransferMaximum), 1e-12)
	assert.InDelta(t, 10.0, TransferLength(TransferUHPCPCI, 0.5, Uncoated, TransferMaximum), 1e-12)
	assert.InDelta(t, 12.0, TransferLength(TransferUHPCFHWA, 0.5, Uncoated, TransferMaximum), 1e-12)
	assert.InDelta(t, 9.0, TransferLength(TransferUHPCFHWA, 0.5, Uncoated, TransferMinimum), 1e-12)
	assert.Equal(t, NegligibleTransferLength, TransferLength(TransferNegligible, 0.5, Uncoated, TransferMaximum))

	assert.Equal(t, TransferNegligible, SelectTransferMethod(UHPCFHWA, TransferZeroLength))
	assert.Equal(t, TransferUHPCPCI, SelectTransferMethod(UHPCPCI, TransferRegular))
	assert.Equal(t, TransferStandard, SelectTransferMethod(SandLightweight, TransferRegular))
}

func TestKappa(t *testing.T) {
	assert.Equal(t, 1.6, Kappa(54, false, Edition9th2020))
	assert.Equal(t, 1.0, Kappa(20, false, Edition9th2020))
	assert.Equal(t, 2.0, Kappa(54, true, Edition9th2020))
	assert.Equal(t, 2.0, Kappa(20, true, Edition9th2020))
	assert.Equal(t, 1.0, Kappa(20, true, Edition2nd2000))
}

func TestDevelopmentLength(t *testing.T) {
	ld := DevelopmentLength(DevelopmentStandard, 0.5, 260, 160, 1.6, 30)
	assert.InDelta(t, 1.6*(260-160*2.0/3.0)*0.5, ld, 1e-9)

	// never shorter than the transfer length
	assert.Equal(t, 30.0, DevelopmentLength(DevelopmentStandard, 0.5, 100, 150, 1.0, 30))
	assert.Equal(t, 12.0, DevelopmentLength(DevelopmentUHPCGuide, 0.5, 200, 200, 1.0, 12))
	assert.InDelta(t, 10+0.2*50*0.5, DevelopmentLength(DevelopmentUHPCSimplified, 0.5, 250, 200, 1.0, 5), 1e-9)
}

func TestParseEdition(t *testing.T) {
	ed, err := ParseEdition(2020)
	require.NoError(t, err)
	assert.Equal(t, Edition9th2020, ed)

	ed, err = ParseEdition(2016)
	require.NoError(t, err)
	assert.Equal(t, Edition7th2014, ed)
	assert.Equal(t, "2014", ed.String())

	ed, err = ParseEdition(2031)
	require.NoError(t, err)
	assert.Equal(t, Edition9th2020, ed)

	_, err = ParseEdition(1998)
	assert.Error(t, err)
}

func TestParseNames(t *testing.T) {
	m, err := ParseShearMethod("vci-vcw")
	require.NoError(t, err)
	assert.Equal(t, ShearVciVcw, m)
	assert.Equal(t, "wsdot-2007", ShearWSDOT2007.String())

	_, err = ParseShearMethod("strut-and-tie")
	assert.Error(t, err)

	ct, err := ParseConcreteType("uhpc-fhwa")
	require.NoError(t, err)
	assert.True(t, ct.IsUHPC())

	ct, err = ParseConcreteType("")
	require.NoError(t, err)
	assert.Equal(t, Normal, ct)
}

func TestCrackingFactors(t *testing.T) {
	c := DefaultCriteria()
	g1, g2, g3 := c.CrackingFactors(true)
	assert.Equal(t, []float64{1.6, 1.1, 1.0}, []float64{g1, g2, g3})

	c.Segmental = true
	c.RebarGrade = A706
	g1, _, g3 = c.CrackingFactors(false)
	assert.Equal(t, 1.2, g1)
	assert.Equal(t, 0.75, g3)

	c.Edition = Edition5th2010
	g1, g2, g3 = c.CrackingFactors(true)
	assert.Equal(t, []float64{1, 1, 1}, []float64{g1, g2, g3})
	assert.Equal(t, 1.2, c.MinMomentCrackingScale())
}

func TestLongitudinalStrain(t *testing.T) {
	in := StrainInputs{
		Mu: 20000, Vu: 50, Dv: 50,
		Aps: 2, Fpo: 189,
		Ep: Eps, Es: Es, Ec: 5000,
		Act: 300,
	}
	assert.InDelta(t, 72.0/57000, LongitudinalStrain(in), 1e-9)

	// a negative numerator brings in the tension side concrete
	in.Mu = 1000
	assert.InDelta(t, -278.0/(57000+5000*300), LongitudinalStrain(in), 1e-9)

	in.Mu = 1e9
	assert.Equal(t, EpsSMax, LongitudinalStrain(in))
}

func TestBetaThetaEquations(t *testing.T) {
	beta, theta := BetaThetaEquations(0, true, 0)
	assert.InDelta(t, 4.8, beta, 1e-12)
	assert.InDelta(t, 29.0, theta, 1e-12)

	beta, theta = BetaThetaEquations(0.001, false, 12)
	assert.InDelta(t, 4.8/1.75, beta, 1e-12)
	assert.InDelta(t, 32.5, theta, 1e-12)
}

func TestBetaThetaTables(t *testing.T) {
	beta, theta, ok := BetaThetaTables(0.100, 0.25e-3)
	require.True(t, ok)
	assert.InDelta(t, 2.75, beta, 1e-9)
	assert.InDelta(t, 27.1, theta, 1e-9)

	// below the table uses the first row and column
	beta, theta, ok = BetaThetaTables(0.05, -0.5e-3)
	require.True(t, ok)
	assert.InDelta(t, 6.32, beta, 1e-9)
	assert.InDelta(t, 22.3, theta, 1e-9)

	// midway between two rows
	_, theta, ok = BetaThetaTables(0.1125, 0)
	require.True(t, ok)
	assert.InDelta(t, (22.5+23.7)/2, theta, 1e-9)

	_, _, ok = BetaThetaTables(0.30, 0)
	assert.False(t, ok)
	_, _, ok = BetaThetaTables(0.1, 1.5e-3)
	assert.False(t, ok)
}

func TestShearComponents(t *testing.T) {
	assert.InDelta(t, 30.336, ConcreteShear(2, 1, 4, 6, 40), 1e-9)
	assert.InDelta(t, 80.0, SteelShear(0.4, 60, 40, 12, 45), 1e-9)
	assert.Zero(t, SteelShear(0.4, 60, 40, 0, 45))
	assert.InDelta(t, 0.25*5*6*40+10, MaxNominalShear(5, 6, 40, 10), 1e-9)
	assert.InDelta(t, 24.0, MaxStirrupSpacing(0.1, 5, 40), 1e-9)
	assert.InDelta(t, 12.0, MaxStirrupSpacing(1.0, 5, 40), 1e-9)

	vci, vcw, vc := VciVcw(VciVcwInputs{
		Fc: 4, Lambda: 1, Bv: 6, Dv: 40,
		Vd: 20, Vi: 100, Mmax: 5000, Mcre: 2500,
		Fpc: 1.0, Vp: 5,
	})
	assert.InDelta(t, 0.02*2*240+20+50, vci, 1e-9)
	assert.InDelta(t, (0.12+0.30)*240+5, vcw, 1e-9)
	assert.Equal(t, min(vci, vcw), vc)

	assert.InDelta(t, 45.0, VciVcwTheta(200, 100, 1, 4, 1), 1e-12)
	assert.Less(t, VciVcwTheta(50, 100, 1, 4, 1), 45.0)
}

func TestLimitStates(t *testing.T) {
	f := ProductForces{DC: 100, DW: 10, LL: 50}
	assert.InDelta(t, 227.5, StrengthI.Factored(f), 1e-9)
	assert.InDelta(t, 160.0, ServiceI.Factored(f), 1e-9)

	v, ls := Governing(f, LimitStates)
	assert.Equal(t, StrengthI.ID, ls.ID)
	assert.InDelta(t, 227.5, v, 1e-9)

	got, err := LookupLimitState("ServiceIII")
	require.NoError(t, err)
	assert.False(t, got.IsStrength())

	_, err = LookupLimitState("ExtremeII")
	assert.Error(t, err)
}
