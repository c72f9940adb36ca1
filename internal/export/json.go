package export

import (
	"encoding/json"
	"io"

	"github.com/google/uuid"

	"github.com/san-kum/popsim/internal/growth"
)

type Document struct {
	RunID        string              `json:"run_id"`
	Input        growth.Input        `json:"input"`
	Outcome      growth.Outcome      `json:"outcome"`
	YearsElapsed int                 `json:"years_elapsed"`
	FinalA       int64               `json:"final_population_a"`
	FinalB       int64               `json:"final_population_b"`
	Records      []growth.YearRecord `json:"records"`
}

// NewDocument tags a result with a fresh run id.
func NewDocument(res *growth.Result) Document {
	records := res.Records
	if records == nil {
		records = []growth.YearRecord{}
	}
	return Document{
		RunID:        uuid.NewString(),
		Input:        res.Input,
		Outcome:      res.Outcome,
		YearsElapsed: res.YearsElapsed,
		FinalA:       res.FinalA,
		FinalB:       res.FinalB,
		Records:      records,
	}
}

func WriteJSON(w io.Writer, doc Document) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(doc)
}
