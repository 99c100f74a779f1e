package carteira

import (
	"math"

	"github.com/etnz/carteira/date"
	"gonum.org/v1/gonum/stat"
)

// DefaultTradingDays is the number of trading days used to annualize daily statistics.
const DefaultTradingDays = 252

// MetricsConfig configures ComputePerformanceMetrics. The zero value uses 252
// trading days, a 0 risk-free rate and no benchmark.
type MetricsConfig struct {
	TradingDays   int
	RiskFreeDaily float64
	IRRGuess      float64

	// Benchmark is an optional index series (the symbol is ignored).
	Benchmark []PriceObservation
}

func (c MetricsConfig) tradingDays() int {
	if c.TradingDays <= 0 {
		return DefaultTradingDays
	}
	return c.TradingDays
}

// Metrics are the performance and risk statistics of a snapshot series.
type Metrics struct {
	Range         date.Range
	FinalValue    Money
	Contributions Money
	Withdrawals   Money
	Distributions Money

	TWR           float64 // cumulative time-weighted return
	IRR           float64 // annualized money-weighted return
	IRRIterations int
	IRRConverged  bool
	Volatility    float64 // annualized
	MaxDrawdown   float64 // ≤ 0
	Sharpe        float64 // annualized

	Benchmark    float64 // cumulative benchmark return over Range
	HasBenchmark bool
}

// DailyReturns returns the flow-excluded daily returns
// (V_t - V_{t-1} - F_t) / V_{t-1}. Days following a non positive value are skipped,
// they do not count as 0 returns, so Volatility and Sharpe only see the days
// that TWR compounds.
func DailyReturns(snapshots []DailySnapshot) []float64 {
	var returns []float64
	for i := 1; i < len(snapshots); i++ {
		prev := snapshots[i-1].Value.Float()
		if prev <= 0 {
			continue
		}
		cur := snapshots[i]
		returns = append(returns, (cur.Value.Float()-prev-cur.NetFlow().Float())/prev)
	}
	return returns
}

// TWR returns the cumulative time-weighted return Π(1 + r_t) - 1.
func TWR(snapshots []DailySnapshot) float64 {
	return compound(DailyReturns(snapshots))
}

func compound(returns []float64) float64 {
	g := 1.0
	for _, r := range returns {
		g *= 1 + r
	}
	return g - 1
}

// Volatility returns the annualized sample standard deviation of daily returns.
// It is 0 for fewer than two returns.
func Volatility(returns []float64, tradingDays int) float64 {
	if len(returns) < 2 {
		return 0
	}
	return stat.StdDev(returns, nil) * math.Sqrt(float64(tradingDays))
}

// MaxDrawdown returns the worst relative decline from a running peak,
// min((V - peak) / peak). It is 0 for monotonically increasing series.
// Points where the running peak is not positive are skipped.
func MaxDrawdown(values []float64) float64 {
	var worst float64
	peak := math.Inf(-1)
	for _, v := range values {
		peak = math.Max(peak, v)
		if peak <= 0 {
			continue
		}
		worst = math.Min(worst, (v-peak)/peak)
	}
	return worst
}

// Sharpe returns the annualized Sharpe ratio of daily returns:
// mean(r - rf) × td / (stdev(r) × √td). It is 0 when the deviation is 0 or
// there are fewer than two returns.
func Sharpe(returns []float64, riskFreeDaily float64, tradingDays int) float64 {
	if len(returns) < 2 {
		return 0
	}
	sd := stat.StdDev(returns, nil)
	if sd == 0 || math.IsNaN(sd) {
		return 0
	}
	excess := make([]float64, len(returns))
	for i, r := range returns {
		excess[i] = r - riskFreeDaily
	}
	td := float64(tradingDays)
	return stat.Mean(excess, nil) * td / (sd * math.Sqrt(td))
}

// BenchmarkReturn returns the cumulative return of an index over window, using
// forward-filled observations. The start is the last observation on or before
// window.From, or the first one inside the window. It is 0 if the series does
// not cover the window.
func BenchmarkReturn(observations []PriceObservation, window date.Range) float64 {
	var h date.History[float64]
	for _, o := range sortPrices(observations) {
		h.Append(o.Date, o.Price.Float())
	}
	start, ok := h.ValueAsOf(window.From)
	if !ok {
		for _, v := range h.Between(window) {
			start, ok = v, true
			break
		}
	}
	end, found := h.ValueAsOf(window.To)
	if !ok || !found || start <= 0 {
		return 0
	}
	return end/start - 1
}

// ComputePerformanceMetrics computes the performance and risk statistics of a
// snapshot series. Empty or single-element series give zero statistics.
func ComputePerformanceMetrics(snapshots []DailySnapshot, cfg MetricsConfig) Metrics {
	var m Metrics
	if len(snapshots) == 0 {
		return m
	}
	first, last := snapshots[0], snapshots[len(snapshots)-1]
	m.Range = date.Between(first.Date, last.Date)
	m.FinalValue = last.Value
	m.Contributions, m.Withdrawals, m.Distributions = M(0, last.Value.Currency()), M(0, last.Value.Currency()), M(0, last.Value.Currency())
	values := make([]float64, len(snapshots))
	for i, s := range snapshots {
		m.Contributions = m.Contributions.Add(s.Contributions)
		m.Withdrawals = m.Withdrawals.Add(s.Withdrawals)
		m.Distributions = m.Distributions.Add(s.Distributions)
		values[i] = s.Value.Float()
	}

	if len(cfg.Benchmark) > 0 {
		m.Benchmark, m.HasBenchmark = BenchmarkReturn(cfg.Benchmark, m.Range), true
	}
	if len(snapshots) < 2 {
		return m
	}

	td := cfg.tradingDays()
	returns := DailyReturns(snapshots)
	m.TWR = compound(returns)
	irr := XIRR(CashFlows(snapshots), cfg.IRRGuess)
	m.IRR, m.IRRIterations, m.IRRConverged = irr.Rate, irr.Iterations, irr.Converged
	m.Volatility = Volatility(returns, td)
	m.MaxDrawdown = MaxDrawdown(values)
	m.Sharpe = Sharpe(returns, cfg.RiskFreeDaily, td)
	return m
}
