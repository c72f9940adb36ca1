package export

import (
	"bytes"
	"encoding/json"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/san-kum/popsim/internal/growth"
)

func statementResult(t *testing.T) *growth.Result {
	t.Helper()
	res, err := growth.Run(80000, 3.0, 200000, 1.5, 500)
	if err != nil {
		t.Fatalf("simulate failed: %v", err)
	}
	return res
}

func TestWriteCSV(t *testing.T) {
	records := []growth.YearRecord{
		{Year: 1, PopulationA: 82400, PopulationB: 203000, Difference: 120600},
		{Year: 2, PopulationA: 84872, PopulationB: 206045, Difference: 121173},
	}

	var buf bytes.Buffer
	if err := WriteCSV(&buf, records); err != nil {
		t.Fatalf("write failed: %v", err)
	}

	expected := "Year,PopulationA,PopulationB,Difference\n" +
		"1,82400,203000,120600\n" +
		"2,84872,206045,121173\n"
	if buf.String() != expected {
		t.Errorf("csv = %q, want %q", buf.String(), expected)
	}
}

func TestWriteCSVEmpty(t *testing.T) {
	var buf bytes.Buffer
	if err := WriteCSV(&buf, nil); err != nil {
		t.Fatalf("write failed: %v", err)
	}
	if buf.String() != "Year,PopulationA,PopulationB,Difference\n" {
		t.Errorf("expected header only, got %q", buf.String())
	}
}

func TestReadCSVRoundTrip(t *testing.T) {
	res := statementResult(t)

	var buf bytes.Buffer
	if err := WriteCSV(&buf, res.Records); err != nil {
		t.Fatalf("write failed: %v", err)
	}
	records, err := ReadCSV(&buf)
	if err != nil {
		t.Fatalf("read failed: %v", err)
	}
	if len(records) != len(res.Records) {
		t.Fatalf("expected %d records, got %d", len(res.Records), len(records))
	}
	for i := range records {
		if records[i] != res.Records[i] {
			t.Errorf("record %d: got %+v, want %+v", i, records[i], res.Records[i])
		}
	}
}

func TestReadCSVErrors(t *testing.T) {
	tests := []struct {
		name string
		data string
	}{
		{"empty", ""},
		{"wrong header", "Ano,PopulationA,PopulationB,Difference\n"},
		{"bad year", "Year,PopulationA,PopulationB,Difference\nx,1,2,1\n"},
		{"bad population", "Year,PopulationA,PopulationB,Difference\n1,1.5,2,1\n"},
		{"short row", "Year,PopulationA,PopulationB,Difference\n1,2\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := ReadCSV(strings.NewReader(tt.data)); err == nil {
				t.Error("expected error, got nil")
			}
		})
	}
}

func TestWriteJSON(t *testing.T) {
	res := statementResult(t)

	var buf bytes.Buffer
	if err := WriteJSON(&buf, NewDocument(res)); err != nil {
		t.Fatalf("write failed: %v", err)
	}

	var doc map[string]any
	if err := json.Unmarshal(buf.Bytes(), &doc); err != nil {
		t.Fatalf("invalid json: %v", err)
	}
	if doc["outcome"] != "overtaken" {
		t.Errorf("expected outcome overtaken, got %v", doc["outcome"])
	}
	if doc["years_elapsed"] != float64(63) {
		t.Errorf("expected 63 years, got %v", doc["years_elapsed"])
	}
	if id, _ := doc["run_id"].(string); len(id) != 36 {
		t.Errorf("expected uuid run id, got %q", id)
	}
	records, _ := doc["records"].([]any)
	if len(records) != 63 {
		t.Errorf("expected 63 records, got %d", len(records))
	}
}

func TestNewDocumentNoRecords(t *testing.T) {
	res, err := growth.Simulate(growth.Input{PopulationA: 200, RateA: 5, PopulationB: 100, RateB: 5, MaxYears: growth.DefaultMaxYears})
	if err != nil {
		t.Fatalf("simulate failed: %v", err)
	}

	doc := NewDocument(res)
	if doc.Records == nil {
		t.Error("records should be an empty slice, not nil")
	}
	if doc.Input.MaxYears != growth.DefaultMaxYears {
		t.Errorf("expected cap in document, got %d", doc.Input.MaxYears)
	}

	var buf bytes.Buffer
	if err := WriteJSON(&buf, doc); err != nil {
		t.Fatalf("write failed: %v", err)
	}
	if !strings.Contains(buf.String(), `"records": []`) {
		t.Errorf("expected empty records array in %s", buf.String())
	}
}

func TestChartSVG(t *testing.T) {
	res := statementResult(t)

	svg := ChartSVG(res.Records, "A <north>", "B", 640, 320)
	if !strings.HasPrefix(svg, "<?xml") || !strings.HasSuffix(svg, "</svg>") {
		t.Fatal("not an svg document")
	}
	if strings.Count(svg, "<path") != 2 {
		t.Errorf("expected 2 series paths, got %d", strings.Count(svg, "<path"))
	}
	if !strings.Contains(svg, "A &lt;north&gt;") {
		t.Error("label not escaped")
	}

	if ChartSVG(res.Records[:1], "A", "B", 640, 320) != "" {
		t.Error("expected empty svg for a single record")
	}
}

func TestWriteFile(t *testing.T) {
	res := statementResult(t)
	path := filepath.Join(t.TempDir(), "growth.csv")

	err := WriteFile(path, func(w io.Writer) error { return WriteCSV(w, res.Records) })
	if err != nil {
		t.Fatalf("write file failed: %v", err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	if lines := strings.Count(string(data), "\n"); lines != 64 {
		t.Errorf("expected 64 lines, got %d", lines)
	}
}
