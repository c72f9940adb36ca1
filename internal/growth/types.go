package growth

import "fmt"

// DefaultMaxYears is the safety cap callers use when none is given.
const DefaultMaxYears = 500

type Input struct {
	PopulationA float64 `json:"population_a" yaml:"population_a"`
	RateA       float64 `json:"rate_a" yaml:"rate_a"`
	PopulationB float64 `json:"population_b" yaml:"population_b"`
	RateB       float64 `json:"rate_b" yaml:"rate_b"`
	MaxYears    int     `json:"max_years" yaml:"max_years"`
}

// YearRecord is one simulated year. Populations are truncated toward zero;
// Difference is the truncated B - A of the running totals.
type YearRecord struct {
	Year        int   `json:"year" yaml:"year"`
	PopulationA int64 `json:"population_a" yaml:"population_a"`
	PopulationB int64 `json:"population_b" yaml:"population_b"`
	Difference  int64 `json:"difference" yaml:"difference"`
}

type Outcome int

const (
	// Overtaken means A met or exceeded B within the cap (or already did at year 0).
	Overtaken Outcome = iota
	// NeverOvertakes means the cap was reached with A still below B.
	NeverOvertakes
)

func (o Outcome) String() string {
	switch o {
	case Overtaken:
		return "overtaken"
	case NeverOvertakes:
		return "never_overtakes"
	default:
		return fmt.Sprintf("outcome(%d)", int(o))
	}
}

func (o Outcome) MarshalText() ([]byte, error) {
	switch o {
	case Overtaken, NeverOvertakes:
		return []byte(o.String()), nil
	}
	return nil, fmt.Errorf("growth: unknown outcome %d", int(o))
}

func (o *Outcome) UnmarshalText(text []byte) error {
	switch string(text) {
	case "overtaken":
		*o = Overtaken
	case "never_overtakes":
		*o = NeverOvertakes
	default:
		return fmt.Errorf("growth: unknown outcome %q", text)
	}
	return nil
}

type Result struct {
	Input        Input
	Records      []YearRecord
	Outcome      Outcome
	YearsElapsed int
	// FinalA and FinalB are the truncated running totals when the loop stopped.
	FinalA int64
	FinalB int64
}

// Last returns the final record, or false when no year was simulated.
func (r *Result) Last() (YearRecord, bool) {
	if len(r.Records) == 0 {
		return YearRecord{}, false
	}
	return r.Records[len(r.Records)-1], true
}

func (r *Result) Overtaken() bool { return r.Outcome == Overtaken }
