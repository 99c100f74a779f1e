package carteira

import (
	"math"
	"slices"

	"github.com/etnz/carteira/date"
)

// XIRR solver parameters.
const (
	xirrMaxIterations = 100
	xirrTolerance     = 1e-8
	xirrStep          = 1e-6  // forward difference step of the derivative
	xirrFlatSlope     = 1e-12 // derivative under which Newton gives up
	xirrDefaultGuess  = 0.1
)

// CashFlow is a dated amount seen from the investor: negative when invested,
// positive when received.
type CashFlow struct {
	Date   date.Date
	Amount float64
}

// XIRRResult is the outcome of the XIRR solver.
type XIRRResult struct {
	Rate       float64 // annualized rate
	Iterations int
	Converged  bool
}

// CashFlows returns the investor cash flows of a snapshot series: one flow per
// day with a non negligible -contributions + withdrawals + distributions, plus
// the last day value as a terminal inflow (a hypothetical full liquidation).
func CashFlows(snapshots []DailySnapshot) []CashFlow {
	if len(snapshots) == 0 {
		return nil
	}
	var cfs []CashFlow
	for _, s := range snapshots {
		if v := s.InvestorFlow().Float(); math.Abs(v) > 1e-12 {
			cfs = append(cfs, CashFlow{Date: s.Date, Amount: v})
		}
	}
	last := snapshots[len(snapshots)-1]
	return append(cfs, CashFlow{Date: last.Date, Amount: last.Value.Float()})
}

// xnpv is the net present value of flows at rate, discounted from t0 over 365 days years.
func xnpv(rate float64, flows []CashFlow, t0 date.Date) float64 {
	var sum float64
	for _, cf := range flows {
		sum += cf.Amount / math.Pow(1+rate, float64(cf.Date.DaysSince(t0))/365)
	}
	return sum
}

// XIRR solves Σ cf / (1+r)^(days/365) = 0 for the annualized rate r, days
// being counted from the earliest flow.
//
// It runs Newton-Raphson from guess (0.1 when zero) with a forward difference
// derivative. When the derivative is flat or the iterate diverges, it falls
// back to a bisection over a bracketed sign change if there is one; otherwise
// the current estimate is returned with Converged false.
// Flows that are all of the same sign have no solution and return a 0 rate.
func XIRR(flows []CashFlow, guess float64) XIRRResult {
	if !hasBothSigns(flows) {
		return XIRRResult{}
	}
	if guess == 0 || guess <= -1 {
		guess = xirrDefaultGuess
	}
	t0 := slices.MinFunc(flows, func(a, b CashFlow) int { return a.Date.Compare(b.Date) }).Date
	f := func(r float64) float64 { return xnpv(r, flows, t0) }

	rate := guess
	for i := 1; i <= xirrMaxIterations; i++ {
		fr := f(rate)
		slope := (f(rate+xirrStep) - fr) / xirrStep
		if math.Abs(slope) < xirrFlatSlope || math.IsNaN(slope) || math.IsInf(slope, 0) {
			return bisect(f, rate, i)
		}
		next := rate - fr/slope
		if next <= -1 {
			// (1+r)^x is undefined below -1, move halfway to it instead.
			next = (rate - 1) / 2
		}
		if math.IsNaN(next) || math.IsInf(next, 0) {
			return bisect(f, rate, i)
		}
		if math.Abs(next-rate) < xirrTolerance {
			return XIRRResult{Rate: next, Iterations: i, Converged: true}
		}
		rate = next
	}
	return XIRRResult{Rate: rate, Iterations: xirrMaxIterations}
}

// bisect looks for a sign change of f and bisects it. It returns estimate
// unconverged when f has no bracketed root.
func bisect(f func(float64) float64, estimate float64, iterations int) XIRRResult {
	lo, hi := -0.999999, 1.0
	flo, fhi := f(lo), f(hi)
	for flo*fhi > 0 && hi < 1e6 {
		hi *= 2
		fhi = f(hi)
	}
	if flo*fhi > 0 || math.IsNaN(flo*fhi) {
		return XIRRResult{Rate: estimate, Iterations: iterations}
	}
	for i := 0; i < 200; i++ {
		mid := (lo + hi) / 2
		fmid := f(mid)
		iterations++
		if fmid == 0 || (hi-lo)/2 < xirrTolerance {
			return XIRRResult{Rate: mid, Iterations: iterations, Converged: true}
		}
		if (fmid < 0) == (flo < 0) {
			lo, flo = mid, fmid
		} else {
			hi = mid
		}
	}
	return XIRRResult{Rate: (lo + hi) / 2, Iterations: iterations}
}

func hasBothSigns(flows []CashFlow) bool {
	var neg, pos bool
	for _, cf := range flows {
		neg = neg || cf.Amount < 0
		pos = pos || cf.Amount > 0
	}
	return neg && pos
}
