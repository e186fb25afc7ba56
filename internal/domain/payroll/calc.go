package payroll

import "github.com/shopspring/decimal"

var (
	cnpsEmployeeRate = decimal.NewFromFloat(0.063)
	cnpsEmployerRate = decimal.NewFromFloat(0.077)
)

// itsBrackets is the progressive monthly ITS scale (2024 reform), in XOF.
// The zero upper bound marks the open-ended top bracket.
var itsBrackets = []struct {
	upTo int64
	rate decimal.Decimal
}{
	{75000, decimal.Zero},
	{240000, decimal.NewFromFloat(0.16)},
	{800000, decimal.NewFromFloat(0.21)},
	{2400000, decimal.NewFromFloat(0.24)},
	{8000000, decimal.NewFromFloat(0.28)},
	{0, decimal.NewFromFloat(0.32)},
}

// Compute derives the statutory breakdown for one monthly gross amount.
// Every component is rounded to the whole franc.
func Compute(gross int64) Breakdown {
	if gross <= 0 {
		return Breakdown{}
	}
	grossDec := decimal.NewFromInt(gross)

	cnpsBase := grossDec
	if gross > CNPSCeiling {
		cnpsBase = decimal.NewFromInt(CNPSCeiling)
	}
	cnpsEmployee := cnpsBase.Mul(cnpsEmployeeRate).Round(0)
	cnpsEmployer := cnpsBase.Mul(cnpsEmployerRate).Round(0)
	its := computeITS(grossDec)

	b := Breakdown{
		Gross:        gross,
		CNPSEmployee: cnpsEmployee.IntPart(),
		CNPSEmployer: cnpsEmployer.IntPart(),
		CMUEmployee:  CMUEmployeeShare,
		CMUEmployer:  CMUEmployerShare,
		ITS:          its.IntPart(),
	}
	b.Net = b.Gross - b.CNPSEmployee - b.CMUEmployee - b.ITS
	b.EmployerCost = b.Gross + b.CNPSEmployer + b.CMUEmployer
	return b
}

func computeITS(gross decimal.Decimal) decimal.Decimal {
	total := decimal.Zero
	lower := decimal.Zero
	for _, bracket := range itsBrackets {
		var upper decimal.Decimal
		openEnded := bracket.upTo == 0
		if openEnded {
			upper = gross
		} else {
			upper = decimal.NewFromInt(bracket.upTo)
		}
		if gross.LessThanOrEqual(lower) {
			break
		}
		slice := decimal.Min(gross, upper).Sub(lower)
		if slice.IsPositive() {
			total = total.Add(slice.Mul(bracket.rate))
		}
		if openEnded || gross.LessThanOrEqual(upper) {
			break
		}
		lower = upper
	}
	return total.Round(0)
}

// ProratedGross reduces a monthly base for unpaid absence, on the
// conventional 30-day month.
func ProratedGross(monthlyBase int64, unpaidDays int) int64 {
	if unpaidDays <= 0 {
		return monthlyBase
	}
	if unpaidDays >= DaysFullMonth {
		return 0
	}
	base := decimal.NewFromInt(monthlyBase)
	worked := decimal.NewFromInt(int64(DaysFullMonth - unpaidDays))
	return base.Mul(worked).Div(decimal.NewFromInt(DaysFullMonth)).Round(0).IntPart()
}

// Severance computes the legal termination indemnity: a percentage of the
// average monthly salary per year of service (30% for the first five
// years, 35% for years six to ten, 40% beyond), with the final partial
// year pro-rated. No indemnity accrues under one year of service.
func Severance(avgMonthlySalary int64, yearsOfService float64) int64 {
	if yearsOfService < 1 || avgMonthlySalary <= 0 {
		return 0
	}
	avg := decimal.NewFromInt(avgMonthlySalary)
	factor := decimal.Zero

	bands := []struct {
		upTo float64
		rate decimal.Decimal
	}{
		{5, decimal.NewFromFloat(0.30)},
		{10, decimal.NewFromFloat(0.35)},
		{0, decimal.NewFromFloat(0.40)},
	}

	lower := 0.0
	for _, band := range bands {
		upper := band.upTo
		if upper == 0 || yearsOfService < upper {
			upper = yearsOfService
		}
		if upper <= lower {
			break
		}
		factor = factor.Add(decimal.NewFromFloat(upper - lower).Mul(band.rate))
		if upper == yearsOfService {
			break
		}
		lower = band.upTo
	}

	return avg.Mul(factor).Round(0).IntPart()
}
