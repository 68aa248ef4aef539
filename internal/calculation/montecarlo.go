package calculation

import (
	"context"
	"fmt"
	"math/rand"
	"runtime"
	"sort"
	"sync"
	"time"

	"github.com/rgehrsitz/finquest/internal/domain"
	"github.com/shopspring/decimal"
)

// SimulationConfig holds the inputs of a savings Monte Carlo run. Returns are
// annual percentages; each year draws mean + volatility*N(0,1), floored at -100.
type SimulationConfig struct {
	MonthlyContribution decimal.Decimal
	MeanReturn          decimal.Decimal
	Volatility          decimal.Decimal
	Years               int
	Simulations         int
	Seed                int64            // zero picks a time based seed
	Target              *decimal.Decimal // optional balance to report the odds of reaching
	Workers             int              // zero uses GOMAXPROCS
}

// DefaultSimulations is the number of runs when the config leaves it at zero
const DefaultSimulations = 1000

// SimulateSavings runs the projection Simulations times with random returns.
// Run i always uses seed+i, so a fixed seed gives the same result regardless
// of the worker count.
func SimulateSavings(ctx context.Context, cfg SimulationConfig) (domain.SavingsSimulation, error) {
	if cfg.MonthlyContribution.IsNegative() {
		return domain.SavingsSimulation{}, fmt.Errorf("%w: monthly contribution cannot be negative", domain.ErrInvalidInput)
	}
	if cfg.Volatility.IsNegative() {
		return domain.SavingsSimulation{}, fmt.Errorf("%w: volatility cannot be negative", domain.ErrInvalidInput)
	}
	if cfg.Years <= 0 {
		return domain.SavingsSimulation{}, fmt.Errorf("%w: years must be positive", domain.ErrInvalidInput)
	}
	if cfg.Simulations < 0 {
		return domain.SavingsSimulation{}, fmt.Errorf("%w: simulations cannot be negative", domain.ErrInvalidInput)
	}
	if err := ctx.Err(); err != nil {
		return domain.SavingsSimulation{}, err
	}
	if cfg.Simulations == 0 {
		cfg.Simulations = DefaultSimulations
	}
	if cfg.Seed == 0 {
		cfg.Seed = time.Now().UnixNano()
	}
	workers := cfg.Workers
	if workers <= 0 {
		workers = runtime.GOMAXPROCS(0)
	}

	annual := cfg.MonthlyContribution.Mul(twelve)
	mean := cfg.MeanReturn.Div(hundred).InexactFloat64()
	vol := cfg.Volatility.Div(hundred).InexactFloat64()

	balances := make([]decimal.Decimal, cfg.Simulations)
	jobs := make(chan int)
	var wg sync.WaitGroup
	for w := 0; w < workers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := range jobs {
				balances[i] = simulateRun(rand.New(rand.NewSource(cfg.Seed+int64(i))), annual, mean, vol, cfg.Years)
			}
		}()
	}

	var err error
feed:
	for i := 0; i < cfg.Simulations; i++ {
		select {
		case <-ctx.Done():
			err = ctx.Err()
			break feed
		case jobs <- i:
		}
	}
	close(jobs)
	wg.Wait()
	if err != nil {
		return domain.SavingsSimulation{}, err
	}

	sort.Slice(balances, func(a, b int) bool { return balances[a].LessThan(balances[b]) })

	result := domain.SavingsSimulation{
		Years:               cfg.Years,
		Simulations:         cfg.Simulations,
		MonthlyContribution: cfg.MonthlyContribution,
		MeanReturn:          cfg.MeanReturn,
		Volatility:          cfg.Volatility,
		TotalContributed:    annual.Mul(decimal.NewFromInt(int64(cfg.Years))).Round(2),
		Median:              percentile(balances, 0.5).Round(2),
		Percentiles: map[string]decimal.Decimal{
			"10th": percentile(balances, 0.1).Round(2),
			"25th": percentile(balances, 0.25).Round(2),
			"50th": percentile(balances, 0.5).Round(2),
			"75th": percentile(balances, 0.75).Round(2),
			"90th": percentile(balances, 0.9).Round(2),
		},
	}
	if cfg.Target != nil {
		hits := 0
		for _, b := range balances {
			if b.GreaterThanOrEqual(*cfg.Target) {
				hits++
			}
		}
		target := *cfg.Target
		chance := decimal.NewFromInt(int64(hits)).Div(decimal.NewFromInt(int64(cfg.Simulations))).Mul(hundred).Round(1)
		result.Target = &target
		result.ChanceOfTarget = &chance
	}
	return result, nil
}

// simulateRun follows ProjectSavings year by year: contribute at the start of
// the year, then grow by that year's return
func simulateRun(rng *rand.Rand, annual decimal.Decimal, mean, vol float64, years int) decimal.Decimal {
	balance := decimal.Zero
	for y := 0; y < years; y++ {
		r := mean
		if vol > 0 {
			r += vol * rng.NormFloat64()
		}
		if r < -1 {
			r = -1
		}
		balance = balance.Add(annual).Mul(one.Add(decimal.NewFromFloat(r)))
	}
	return balance
}

// percentile interpolates linearly between the closest ranks of sorted values
func percentile(sorted []decimal.Decimal, p float64) decimal.Decimal {
	if len(sorted) == 0 {
		return decimal.Zero
	}
	index := p * float64(len(sorted)-1)
	lower := int(index)
	if lower+1 >= len(sorted) {
		return sorted[lower]
	}
	fraction := decimal.NewFromFloat(index - float64(lower))
	return sorted[lower].Add(sorted[lower+1].Sub(sorted[lower]).Mul(fraction))
}
