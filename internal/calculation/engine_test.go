package calculation

import (
	"testing"
	"time"

	"github.com/rgehrsitz/hiquote/internal/domain"
	"github.com/rgehrsitz/hiquote/internal/rates"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// TestLogger records messages for assertions
type TestLogger struct {
	Debug []string
}

func (l *TestLogger) Debugf(format string, args ...any) { l.Debug = append(l.Debug, format) }
func (l *TestLogger) Infof(string, ...any)              {}
func (l *TestLogger) Warnf(string, ...any)              {}
func (l *TestLogger) Errorf(string, ...any)             {}

var asOf = time.Date(2025, 6, 15, 9, 0, 0, 0, time.UTC)

func testEngine() *CalculationEngine {
	e := NewCalculationEngine()
	e.Now = func() time.Time { return asOf }
	return e
}

func timePtr(t time.Time) *time.Time {
	return &t
}

func d(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func assertDecimal(t *testing.T, want string, got decimal.Decimal, msgAndArgs ...any) {
	t.Helper()
	assert.True(t, got.Equal(d(want)), "want %s, got %s %v", want, got.String(), msgAndArgs)
}

func individualInfo() domain.GeneralInfo {
	return domain.GeneralInfo{
		ContractType: domain.ContractIndividual,
		Geography:    domain.GeographyVietnam,
		Duration:     domain.DurationOver9Months,
		CoPay:        0,
		LossRatio:    decimal.Zero,
		Renewal:      domain.RenewalNonContinuous,
	}
}

func groupInfo() domain.GeneralInfo {
	info := individualInfo()
	info.ContractType = domain.ContractGroup
	return info
}

func person(gender domain.Gender) domain.InsuranceGroup {
	return domain.InsuranceGroup{
		ID:        "p1",
		Name:      "Insured",
		BirthDate: timePtr(time.Date(1995, 1, 1, 0, 0, 0, 0, time.UTC)),
		Gender:    gender,
	}
}

func TestNewCalculationEngine(t *testing.T) {
	engine := NewCalculationEngine()

	assert.NotNil(t, engine, "Should create engine")
	assert.NotNil(t, engine.Logger, "Should initialize logger")
	assert.NotNil(t, engine.Now, "Should initialize clock")
}

func TestCalculationEngine_SetLogger(t *testing.T) {
	engine := NewCalculationEngine()

	customLogger := &TestLogger{}
	engine.SetLogger(customLogger)
	assert.Equal(t, customLogger, engine.Logger, "Should set custom logger")

	engine.SetLogger(nil)
	assert.NotNil(t, engine.Logger, "Should not be nil")
	assert.IsType(t, NopLogger{}, engine.Logger, "Should be no-op logger")
}

func TestCalculationEngine_LogsGroupTotals(t *testing.T) {
	engine := testEngine()
	logger := &TestLogger{}
	engine.SetLogger(logger)

	g := person(domain.GenderMale)
	g.Benefits.B = domain.SimpleBenefit{Selected: true, SumInsured: domain.FixedSumInsured(50_000_000)}
	_, err := engine.Calculate(individualInfo(), []domain.InsuranceGroup{g}, nil)
	require.NoError(t, err)
	assert.Len(t, logger.Debug, 2)
}

func TestCalculate_InvalidGeneralInfo(t *testing.T) {
	info := individualInfo()
	info.Duration = "forever"

	result, err := testEngine().Calculate(info, nil, nil)
	assert.Error(t, err)
	assert.Nil(t, result)
	assert.Contains(t, err.Error(), "invalid duration")
}

func TestCalculate_InvalidRateConfig(t *testing.T) {
	cfg := &rates.Config{BaseRates: map[string]rates.RateValue{"B_VN": rates.Scalar(-2)}}
	_, err := testEngine().Calculate(individualInfo(), nil, cfg)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid rate configuration")
	assert.False(t, cfg.Initialized(), "caller configuration must not be mutated")
}

func TestCalculate_NoGroups(t *testing.T) {
	result, err := testEngine().Calculate(groupInfo(), nil, nil)
	require.NoError(t, err)
	assert.True(t, result.HasErrors)
	assert.False(t, result.Exportable)
	assert.Len(t, result.MessagesWithCode(CodeNoGroups), 1)
	assert.True(t, result.FinalPremium.IsZero())
}

// Individual male, age 30, A1+A2 on 100M: final premium is the raw A_MAIN fee
func TestCalculate_Example1_IndividualAccident(t *testing.T) {
	g := person(domain.GenderMale)
	g.Benefits.A = domain.AccidentBenefit{
		Selected:          true,
		SumInsured:        domain.FixedSumInsured(100_000_000),
		DeathDisability:   true,
		PartialDisability: true,
	}

	result, err := testEngine().Calculate(individualInfo(), []domain.InsuranceGroup{g}, nil)
	require.NoError(t, err)

	require.Len(t, result.Groups, 1)
	gr := result.Groups[0]
	assert.Equal(t, 30, gr.Age)
	require.Len(t, gr.Lines, 1)
	line := gr.Lines[0]
	assert.Equal(t, "A_MAIN_VN", line.RateKey)
	assert.Equal(t, "A1+A2", line.Item)
	assertDecimal(t, "0.0012", line.BaseRate)
	assertDecimal(t, "120000", line.BaseFee)

	assertDecimal(t, "1", result.Factors.Duration)
	assertDecimal(t, "1", result.Factors.CoPay)
	assertDecimal(t, "1", result.Factors.GroupSize)
	assertDecimal(t, "1", result.Factors.LossRatioIncrease)
	assertDecimal(t, "1", result.Factors.LossRatioDecrease)

	assertDecimal(t, "120000", result.FinalPremium)
	assertDecimal(t, "84000", result.MinPath.Final())
	assert.False(t, result.FloorApplied)
	assert.False(t, result.HasErrors)
	assert.True(t, result.Exportable)
}

// Group of 20, age 35, C at 60M, loss ratio 25% with continuous renewal
func TestCalculate_Example2_GroupInpatient(t *testing.T) {
	info := groupInfo()
	info.LossRatio = d("25")
	info.Renewal = domain.RenewalContinuous

	g := domain.InsuranceGroup{
		ID: "staff", HeadCount: 20, AverageAge: 35, MaleCount: 12, FemaleCount: 8,
		Benefits: domain.Benefits{
			C: domain.SimpleBenefit{Selected: true, SumInsured: domain.FixedSumInsured(60_000_000)},
		},
	}

	result, err := testEngine().Calculate(info, []domain.InsuranceGroup{g}, nil)
	require.NoError(t, err)

	assert.Equal(t, 20, result.TotalHeadCount)
	assertDecimal(t, "0.9", result.Factors.GroupSize)
	assertDecimal(t, "1", result.Factors.LossRatioIncrease)
	assertDecimal(t, "0.8", result.Factors.LossRatioDecrease)

	line := result.Groups[0].Lines[0]
	assert.Equal(t, "C_VN_P2", line.RateKey)
	assertDecimal(t, "22464000", result.BasePremium)
	assertDecimal(t, "16174080", result.FinalPremium)
	assertDecimal(t, "11321856", result.MinPath.Final())

	path := result.BasePath
	assertDecimal(t, "22464000", path.AfterDuration)
	assertDecimal(t, "22464000", path.AfterCoPay)
	assertDecimal(t, "20217600", path.AfterGroupSize)
	assertDecimal(t, "20217600", path.AfterLossLoading)
	assertDecimal(t, "16174080", path.AfterLossRatio)
}

// Individual female with C and D: D is priced for one person on its own table, banded by C's SI
func TestCalculate_Example3_Maternity(t *testing.T) {
	g := person(domain.GenderFemale)
	g.Benefits.C = domain.SimpleBenefit{Selected: true, SumInsured: domain.FixedSumInsured(60_000_000)}
	g.Benefits.D = domain.SimpleBenefit{Selected: true}

	result, err := testEngine().Calculate(individualInfo(), []domain.InsuranceGroup{g}, nil)
	require.NoError(t, err)

	gr := result.Groups[0]
	require.Len(t, gr.Lines, 2)
	dLine := gr.Lines[1]
	assert.Equal(t, domain.BenefitD, dLine.Code)
	assert.Equal(t, "D_VN_P2", dLine.RateKey)
	assert.Equal(t, 1, dLine.HeadCount)
	assertDecimal(t, "1560000", dLine.BaseFee)
	assertDecimal(t, "1560000", gr.Breakdown[domain.BenefitD].Base)
	assertDecimal(t, "2683200", result.FinalPremium)
}

// Five days old: ineligible, zero fees, errors flagged
func TestCalculate_Example4_TooYoung(t *testing.T) {
	g := person(domain.GenderMale)
	g.BirthDate = timePtr(asOf.AddDate(0, 0, -5))
	g.Benefits.C = domain.SimpleBenefit{Selected: true, SumInsured: domain.FixedSumInsured(60_000_000)}

	result, err := testEngine().Calculate(individualInfo(), []domain.InsuranceGroup{g}, nil)
	require.NoError(t, err)

	assert.True(t, result.HasErrors)
	assert.False(t, result.Exportable)
	msgs := result.MessagesWithCode("age.too_young")
	require.Len(t, msgs, 1)
	assert.Equal(t, "p1", msgs[0].GroupID)
	assert.False(t, result.Groups[0].Eligible)
	assert.Empty(t, result.Groups[0].Lines)
	assert.True(t, result.FinalPremium.IsZero())
}

// A off: stale I flags never contribute
func TestCalculate_Example5_PoisoningRequiresAccident(t *testing.T) {
	g := person(domain.GenderMale)
	g.Benefits.B = domain.SimpleBenefit{Selected: true, SumInsured: domain.FixedSumInsured(50_000_000)}
	g.Benefits.A = domain.AccidentBenefit{
		Selected:          false,
		SumInsured:        domain.FixedSumInsured(100_000_000),
		DeathDisability:   true,
		PartialDisability: true,
		SalaryAllowance:   domain.SubCover{Selected: true, SumInsured: domain.FixedSumInsured(10_000_000)},
		Medical:           domain.SubCover{Selected: true, SumInsured: domain.FixedSumInsured(20_000_000)},
	}
	g.Benefits.I = domain.PoisoningBenefit{Selected: true, DeathDisability: true, PartialDisability: true, SalaryAllowance: true, Medical: true}

	result, err := testEngine().Calculate(individualInfo(), []domain.InsuranceGroup{g}, nil)
	require.NoError(t, err)

	gr := result.Groups[0]
	_, hasA := gr.Breakdown[domain.BenefitA]
	_, hasI := gr.Breakdown[domain.BenefitI]
	assert.False(t, hasA)
	assert.False(t, hasI)
	for _, line := range gr.Lines {
		assert.Equal(t, domain.BenefitB, line.Code)
	}
}

func TestFeeCalculator_IneligibleGating(t *testing.T) {
	fc := NewBenefitFeeCalculator(rates.NewProvider(nil))
	info := individualInfo()

	// Not normalized on purpose
	g := person(domain.GenderFemale)
	g.HeadCount = 1
	g.FemaleCount = 1
	g.Benefits.A = domain.AccidentBenefit{Selected: true, SumInsured: domain.FixedSumInsured(100_000_000), DeathDisability: true}
	g.Benefits.I = domain.PoisoningBenefit{Selected: true, DeathDisability: true, SalaryAllowance: true, Medical: true}
	g.Benefits.D = domain.SimpleBenefit{Selected: true, SumInsured: domain.FixedSumInsured(30_000_000)}
	g.Benefits.E = domain.SimpleBenefit{Selected: true, SumInsured: domain.FixedSumInsured(5_000_000)}

	assert.Empty(t, fc.Calculate(info, &g, domain.BenefitD, 30), "D needs C")
	assert.Empty(t, fc.Calculate(info, &g, domain.BenefitE, 30), "E needs C")

	lines := fc.Calculate(info, &g, domain.BenefitI, 30)
	require.Len(t, lines, 1, "only the I sub-item whose A sub-item is on contributes")
	assert.Equal(t, "I1", lines[0].Item)
	assert.Equal(t, "I_MAIN_VN", lines[0].RateKey)
	assertDecimal(t, "100000000", lines[0].SumInsured)
}

func TestFeeCalculator_AccidentSubParts(t *testing.T) {
	fc := NewBenefitFeeCalculator(rates.NewProvider(nil))
	g := person(domain.GenderMale)
	g.HeadCount = 1
	g.BasicSalary = d("10000000")
	g.Benefits.A = domain.AccidentBenefit{
		Selected:        true,
		SumInsured:      domain.SalarySumInsured(40), // capped at 30 months
		SalaryAllowance: domain.SubCover{Selected: true, SumInsured: domain.SalarySumInsured(6)},
		Medical:         domain.SubCover{Selected: true, SumInsured: domain.FixedSumInsured(80_000_000)},
	}

	lines := fc.Calculate(individualInfo(), &g, domain.BenefitA, 30)
	require.Len(t, lines, 2, "no A1/A2 selected so no main line")
	assert.Equal(t, "A_SALARY_VN", lines[0].RateKey)
	assertDecimal(t, "60000000", lines[0].SumInsured)
	assert.Equal(t, "A_MED_100M_VN", lines[1].RateKey)
}

func TestFeeCalculator_EmergencyAndIncomeLoss(t *testing.T) {
	fc := NewBenefitFeeCalculator(rates.NewProvider(nil))
	g := person(domain.GenderMale)
	g.HeadCount = 1
	g.BasicSalary = d("8000000")
	g.Benefits.C = domain.SimpleBenefit{Selected: true, SumInsured: domain.FixedSumInsured(40_000_000)}
	g.Benefits.G = domain.EmergencyBenefit{
		Selected:  true,
		Geography: domain.GeographyGlobal,
		Transport: domain.SubCover{Selected: true, SumInsured: domain.FixedSumInsured(200_000_000)},
		Medical:   domain.SubCover{Selected: true, SumInsured: domain.FixedSumInsured(1)},
	}
	g.Benefits.H = domain.IncomeLossBenefit{Selected: true, Months: 6}

	gLines := fc.Calculate(individualInfo(), &g, domain.BenefitG, 30)
	require.Len(t, gLines, 2)
	assert.Equal(t, "G_TRANSPORT_GLOBAL", gLines[0].RateKey)
	assert.Equal(t, domain.GeographyGlobal, gLines[0].Geography)
	assertDecimal(t, domain.EmergencyMedicalSumInsured.String(), gLines[1].SumInsured, "medical SI is fixed")

	hLines := fc.Calculate(individualInfo(), &g, domain.BenefitH, 30)
	require.Len(t, hLines, 1)
	assertDecimal(t, "48000000", hLines[0].SumInsured)

	g.Benefits.H.Months = 5
	assert.Empty(t, fc.Calculate(individualInfo(), &g, domain.BenefitH, 30), "invalid months resolve to zero SI")
}

func TestFeeCalculator_NonPositiveSumInsuredSkipped(t *testing.T) {
	fc := NewBenefitFeeCalculator(rates.NewProvider(nil))
	g := person(domain.GenderMale)
	g.HeadCount = 1
	g.Benefits.B = domain.SimpleBenefit{Selected: true, SumInsured: domain.SumInsured{Method: domain.MethodFixed, Amount: d("-5")}}
	assert.Empty(t, fc.Calculate(individualInfo(), &g, domain.BenefitB, 30))

	g.Benefits.B.SumInsured = domain.SalarySumInsured(12) // no salary
	assert.Empty(t, fc.Calculate(individualInfo(), &g, domain.BenefitB, 30))
}

func TestProperty_Monotonicity(t *testing.T) {
	engine := testEngine()
	info := groupInfo()
	prev := decimal.Zero
	for _, si := range []int64{1_000_000, 39_000_000, 40_000_000, 41_000_000, 60_000_000, 100_000_001, 200_000_000, 250_000_000} {
		g := domain.InsuranceGroup{
			ID: "g", HeadCount: 3, AverageAge: 40, MaleCount: 3,
			Benefits: domain.Benefits{
				C: domain.SimpleBenefit{Selected: true, SumInsured: domain.FixedSumInsured(si)},
				A: domain.AccidentBenefit{Selected: true, Medical: domain.SubCover{Selected: true, SumInsured: domain.FixedSumInsured(si)}},
			},
		}
		result, err := engine.Calculate(info, []domain.InsuranceGroup{g}, nil)
		require.NoError(t, err)
		assert.True(t, result.FinalPremium.GreaterThanOrEqual(prev), "SI %d priced below a smaller SI", si)
		prev = result.FinalPremium
	}
}

func TestProperty_FloorGuarantee(t *testing.T) {
	cfg := &rates.Config{
		BaseRates: map[string]rates.RateValue{"B_VN": rates.Scalar(0.001)},
		MinRates:  map[string]rates.RateValue{"B_VN": rates.Scalar(0.002)},
	}
	info := groupInfo()
	info.CoPay = 30
	g := domain.InsuranceGroup{
		ID: "g", HeadCount: 10, AverageAge: 40, MaleCount: 10,
		Benefits: domain.Benefits{B: domain.SimpleBenefit{Selected: true, SumInsured: domain.FixedSumInsured(100_000_000)}},
	}

	result, err := testEngine().Calculate(info, []domain.InsuranceGroup{g}, cfg)
	require.NoError(t, err)

	baseFinal := result.BasePath.Final()
	minFinal := result.MinPath.Final()
	assert.True(t, result.FloorApplied)
	assert.True(t, result.FinalPremium.Equal(decimal.Max(baseFinal, minFinal)))
	assert.True(t, result.FinalPremium.Equal(minFinal))
	assert.True(t, result.Groups[0].FloorApplied)
	assert.True(t, result.Groups[0].Lines[0].FloorApplied)

	// Same quote on defaults: min is 0.7x base so the floor never binds
	result, err = testEngine().Calculate(info, []domain.InsuranceGroup{g}, nil)
	require.NoError(t, err)
	assert.False(t, result.FloorApplied)
	assert.True(t, result.FinalPremium.Equal(result.BasePath.Final()))
}

func TestProperty_DependencyGating(t *testing.T) {
	info := groupInfo()
	g := domain.InsuranceGroup{
		ID: "g", HeadCount: 10, AverageAge: 30, MaleCount: 5, FemaleCount: 5,
		Benefits: domain.Benefits{
			B: domain.SimpleBenefit{Selected: true, SumInsured: domain.FixedSumInsured(50_000_000)},
			C: domain.SimpleBenefit{Selected: true, SumInsured: domain.FixedSumInsured(60_000_000)},
			D: domain.SimpleBenefit{Selected: true},
			E: domain.SimpleBenefit{Selected: true, SumInsured: domain.FixedSumInsured(10_000_000)},
			F: domain.SimpleBenefit{Selected: true, SumInsured: domain.FixedSumInsured(5_000_000)},
			G: domain.EmergencyBenefit{Selected: true, Medical: domain.SubCover{Selected: true}},
			H: domain.IncomeLossBenefit{Selected: true, Months: 3},
		},
		BasicSalary: d("10000000"),
	}

	with, err := testEngine().Calculate(info, []domain.InsuranceGroup{g}, nil)
	require.NoError(t, err)
	for _, code := range []domain.BenefitCode{domain.BenefitC, domain.BenefitD, domain.BenefitE, domain.BenefitF, domain.BenefitG, domain.BenefitH} {
		assert.Contains(t, with.Groups[0].Breakdown, code)
	}

	g.Benefits.C.Selected = false
	without, err := testEngine().Calculate(info, []domain.InsuranceGroup{g}, nil)
	require.NoError(t, err)
	assert.Equal(t, []domain.BenefitCode{domain.BenefitB}, breakdownCodes(without.Groups[0]))
	assert.True(t, without.BasePremium.LessThan(with.BasePremium))
}

func breakdownCodes(gr domain.GroupResult) []domain.BenefitCode {
	var out []domain.BenefitCode
	for _, code := range domain.BenefitCodes() {
		if _, ok := gr.Breakdown[code]; ok {
			out = append(out, code)
		}
	}
	return out
}

func TestProperty_SentinelExclusion(t *testing.T) {
	info := groupInfo()
	g := domain.InsuranceGroup{
		ID: "kids", HeadCount: 4, AverageAge: 8, FemaleCount: 4,
		Benefits: domain.Benefits{
			C: domain.SimpleBenefit{Selected: true, SumInsured: domain.FixedSumInsured(60_000_000)},
			D: domain.SimpleBenefit{Selected: true},
		},
	}
	for _, geo := range domain.Geographies() {
		info.Geography = geo
		result, err := testEngine().Calculate(info, []domain.InsuranceGroup{g}, nil)
		require.NoError(t, err)

		totals := result.Groups[0].Breakdown[domain.BenefitD]
		assert.True(t, totals.Base.IsZero(), "geo %s", geo)
		assert.True(t, totals.Min.IsZero(), "geo %s", geo)
		require.NotEmpty(t, result.MessagesWithCode(CodeRateNotApplied))
		assert.False(t, result.HasErrors, "not-applicable is a warning")
	}
}

func TestProperty_MissingRateIsZero(t *testing.T) {
	cfg := &rates.Config{BaseRates: map[string]rates.RateValue{"B_VN": rates.Scalar(0.001)}}
	info := groupInfo()
	g := domain.InsuranceGroup{
		ID: "g", HeadCount: 2, AverageAge: 30, MaleCount: 2,
		Benefits: domain.Benefits{
			B: domain.SimpleBenefit{Selected: true, SumInsured: domain.FixedSumInsured(10_000_000)},
			C: domain.SimpleBenefit{Selected: true, SumInsured: domain.FixedSumInsured(10_000_000)},
		},
	}
	result, err := testEngine().Calculate(info, []domain.InsuranceGroup{g}, cfg)
	require.NoError(t, err)
	assertDecimal(t, "20000", result.BasePremium)
	msgs := result.MessagesWithCode(CodeRateMissing)
	require.Len(t, msgs, 1)
	assert.Equal(t, "C_VN_P1", msgs[0].Field)
	assert.Equal(t, domain.SeverityInfo, msgs[0].Severity)
}

func TestProperty_LossRatioAsymmetry(t *testing.T) {
	p := NewAdjustmentPipeline(rates.DefaultConfig())

	info := groupInfo()
	info.Renewal = domain.RenewalNonContinuous
	info.LossRatio = d("10")
	f := p.Factors(info, 1)
	assertDecimal(t, "1", f.LossRatioDecrease)
	assertDecimal(t, "1", f.LossRatioIncrease)

	info.Renewal = domain.RenewalContinuous
	f = p.Factors(info, 1)
	assertDecimal(t, "0.7", f.LossRatioDecrease)

	info.Renewal = domain.RenewalNonContinuous
	info.LossRatio = d("80")
	f = p.Factors(info, 1)
	assertDecimal(t, "1.1", f.LossRatioIncrease)
	assertDecimal(t, "1", f.LossRatioDecrease)
}

func TestPipeline_DurationAndCoPay(t *testing.T) {
	p := NewAdjustmentPipeline(rates.DefaultConfig())
	info := groupInfo()
	info.Duration = domain.DurationUpTo6Months
	info.CoPay = 20

	f := p.Factors(info, 1000)
	assertDecimal(t, "0.5", f.Duration)
	assertDecimal(t, "0.85", f.CoPay)
	assertDecimal(t, "0.6", f.GroupSize)

	path := p.Path(f, d("1000000"))
	assertDecimal(t, "500000", path.AfterDuration)
	assertDecimal(t, "425000", path.AfterCoPay)
	assertDecimal(t, "255000", path.AfterGroupSize)
	assertDecimal(t, "255000", path.Final())
}

func TestProperty_MaternityGenderGating(t *testing.T) {
	info := groupInfo()
	g := domain.InsuranceGroup{
		ID: "men", HeadCount: 10, AverageAge: 30, MaleCount: 10, FemaleCount: 0,
		Benefits: domain.Benefits{
			C: domain.SimpleBenefit{Selected: true, SumInsured: domain.FixedSumInsured(60_000_000)},
			D: domain.SimpleBenefit{Selected: true},
		},
	}
	result, err := testEngine().Calculate(info, []domain.InsuranceGroup{g}, nil)
	require.NoError(t, err)
	assert.NotContains(t, result.Groups[0].Breakdown, domain.BenefitD)

	// Mixed group: D covers only the women
	g.MaleCount, g.FemaleCount = 7, 3
	result, err = testEngine().Calculate(info, []domain.InsuranceGroup{g}, nil)
	require.NoError(t, err)
	for _, line := range result.Groups[0].Lines {
		if line.Code == domain.BenefitD {
			assert.Equal(t, 3, line.HeadCount)
			assertDecimal(t, line.BasePerPerson.Mul(d("3")).String(), line.BaseFee)
		}
	}
}

func TestProperty_Idempotence(t *testing.T) {
	info := groupInfo()
	info.LossRatio = d("90")
	groups := []domain.InsuranceGroup{
		{
			ID: "a", HeadCount: 30, AverageAge: 41, MaleCount: 20, FemaleCount: 10, BasicSalary: d("12000000"),
			Benefits: domain.Benefits{
				A: domain.AccidentBenefit{Selected: true, SumInsured: domain.SalarySumInsured(20), DeathDisability: true},
				C: domain.SimpleBenefit{Selected: true, SumInsured: domain.FixedSumInsured(100_000_000)},
				D: domain.SimpleBenefit{Selected: true},
				H: domain.IncomeLossBenefit{Selected: true, Months: 12},
			},
		},
		{
			ID: "b", HeadCount: 5, AverageAge: 55, MaleCount: 5,
			Benefits: domain.Benefits{B: domain.SimpleBenefit{Selected: true, SumInsured: domain.FixedSumInsured(30_000_000)}},
		},
	}
	snapshot := make([]domain.InsuranceGroup, len(groups))
	copy(snapshot, groups)

	engine := testEngine()
	first, err := engine.Calculate(info, groups, nil)
	require.NoError(t, err)
	second, err := engine.Calculate(info, groups, nil)
	require.NoError(t, err)

	assert.Equal(t, first, second)
	assert.Equal(t, first.QuoteID, second.QuoteID)
	assert.Equal(t, snapshot, groups, "inputs must not be mutated")
	assert.Equal(t, 35, first.TotalHeadCount)

	// The wall-clock engine is stable within a day
	wall := NewCalculationEngine()
	third, err := wall.Calculate(info, groups, nil)
	require.NoError(t, err)
	fourth, err := wall.Calculate(info, groups, nil)
	require.NoError(t, err)
	assert.Equal(t, third.QuoteID, fourth.QuoteID)
	assert.Equal(t, third.CalculatedAt, fourth.CalculatedAt)
	assert.Equal(t, third, fourth)
}

func TestCalculate_NoMainBenefit(t *testing.T) {
	g := person(domain.GenderFemale)
	result, err := testEngine().Calculate(individualInfo(), []domain.InsuranceGroup{g}, nil)
	require.NoError(t, err)
	assert.Len(t, result.MessagesWithCode(CodeNoMainBenefit), 1)
	assert.False(t, result.Exportable)
}

func TestCalculateQuote(t *testing.T) {
	q := &domain.Quote{
		Name:    "single",
		General: individualInfo(),
		Groups:  []domain.InsuranceGroup{person(domain.GenderMale)},
	}
	q.Groups[0].Benefits.B = domain.SimpleBenefit{Selected: true, SumInsured: domain.FixedSumInsured(100_000_000)}

	result, err := testEngine().CalculateQuote(q, nil)
	require.NoError(t, err)
	assertDecimal(t, "200000", result.FinalPremium)

	_, err = testEngine().CalculateQuote(nil, nil)
	assert.Error(t, err)
}

func TestEngine_GroupBirthDate(t *testing.T) {
	c60 := domain.Benefits{C: domain.SimpleBenefit{Selected: true, SumInsured: domain.FixedSumInsured(60_000_000)}}

	t.Run("too old", func(t *testing.T) {
		groups := []domain.InsuranceGroup{{
			ID: "retiree", HeadCount: 1, MaleCount: 1,
			BirthDate: timePtr(time.Date(1940, 1, 1, 0, 0, 0, 0, time.UTC)),
			Benefits:  c60,
		}}

		result, err := testEngine().Calculate(groupInfo(), groups, nil)
		require.NoError(t, err)

		assert.True(t, result.HasErrors)
		assert.False(t, result.Exportable)
		require.NotEmpty(t, result.Validation)
		assert.Equal(t, "age.too_old", result.Validation[0].Code)
		assert.Equal(t, "birth_date", result.Validation[0].Field)
		assert.False(t, result.Groups[0].Eligible)
		assertDecimal(t, "0", result.FinalPremium)
	})

	t.Run("birth date takes precedence over average age", func(t *testing.T) {
		byDate := []domain.InsuranceGroup{{
			ID: "p", HeadCount: 1, MaleCount: 1,
			BirthDate: timePtr(time.Date(1990, 1, 10, 0, 0, 0, 0, time.UTC)),
			Benefits:  c60,
		}}
		byAge := []domain.InsuranceGroup{{
			ID: "p", HeadCount: 1, MaleCount: 1, AverageAge: 35,
			Benefits: c60,
		}}

		engine := testEngine()
		fromDate, err := engine.Calculate(groupInfo(), byDate, nil)
		require.NoError(t, err)
		fromAge, err := engine.Calculate(groupInfo(), byAge, nil)
		require.NoError(t, err)

		assert.Equal(t, 35, fromDate.Groups[0].Age)
		assert.False(t, fromDate.HasErrors)
		assert.True(t, fromDate.FinalPremium.Equal(fromAge.FinalPremium))
	})
}
