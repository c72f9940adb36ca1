// Package growth compares two populations under constant annual compound
// growth and reports the year the smaller one catches up.
package growth

import "math"

// Validate checks the preconditions of Simulate.
func (in Input) Validate() error {
	checks := []struct {
		field string
		value float64
		ok    bool
		want  string
	}{
		{"population_a", in.PopulationA, in.PopulationA > 0, "must be positive"},
		{"population_b", in.PopulationB, in.PopulationB > 0, "must be positive"},
		{"rate_a", in.RateA, in.RateA >= 0, "must not be negative"},
		{"rate_b", in.RateB, in.RateB >= 0, "must not be negative"},
	}
	for _, c := range checks {
		if math.IsNaN(c.value) || math.IsInf(c.value, 0) {
			return &InputError{Field: c.field, Value: c.value, Reason: "must be finite"}
		}
		if !c.ok {
			return &InputError{Field: c.field, Value: c.value, Reason: c.want}
		}
	}
	if in.MaxYears <= 0 {
		return &InputError{Field: "max_years", Value: float64(in.MaxYears), Reason: "must be positive"}
	}
	return nil
}

// Simulate compounds both populations year by year until A meets or exceeds
// B or the cap is reached. Growth always applies to the untruncated running
// totals; only the recorded values are truncated.
func Simulate(in Input) (*Result, error) {
	if err := in.Validate(); err != nil {
		return nil, err
	}

	maxYears := in.MaxYears
	a, b := in.PopulationA, in.PopulationB
	year := 0

	var records []YearRecord
	if a < b {
		records = make([]YearRecord, 0, min(maxYears, 64))
	}

	for a < b && year < maxYears {
		year++
		a += a * (in.RateA / 100)
		b += b * (in.RateB / 100)
		records = append(records, YearRecord{
			Year:        year,
			PopulationA: truncate(a),
			PopulationB: truncate(b),
			Difference:  truncate(b - a),
		})
	}

	res := &Result{
		Input:        in,
		Records:      records,
		Outcome:      Overtaken,
		YearsElapsed: year,
		FinalA:       truncate(a),
		FinalB:       truncate(b),
	}
	if year == maxYears && a < b {
		res.Outcome = NeverOvertakes
	}
	return res, nil
}

// Run is Simulate with positional arguments.
func Run(popA, rateA, popB, rateB float64, maxYears int) (*Result, error) {
	return Simulate(Input{
		PopulationA: popA,
		RateA:       rateA,
		PopulationB: popB,
		RateB:       rateB,
		MaxYears:    maxYears,
	})
}

// truncate drops the fractional part, saturating outside the int64 range.
func truncate(x float64) int64 {
	switch {
	case math.IsNaN(x):
		return 0
	case x >= math.MaxInt64:
		return math.MaxInt64
	case x <= math.MinInt64:
		return math.MinInt64
	}
	return int64(x)
}
