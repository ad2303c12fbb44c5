package export

import (
	"testing"

	"github.com/cedricOL/LimeSurvey/pkg/i18n"
	"github.com/cedricOL/LimeSurvey/pkg/survey"
)

// fakeSpreadsheet records sink calls for inspection.
type fakeSpreadsheet struct {
	sheet     string
	cells     map[[2]int]string
	finalized bool
}

func newFakeSpreadsheet() *fakeSpreadsheet {
	return &fakeSpreadsheet{cells: make(map[[2]int]string)}
}

func (f *fakeSpreadsheet) AddSheet(name string) error {
	f.sheet = name
	return nil
}

func (f *fakeSpreadsheet) WriteCell(row, col int, value string) error {
	f.cells[[2]int{row, col}] = value
	return nil
}

func (f *fakeSpreadsheet) Finalize() error {
	f.finalized = true
	return nil
}

// TestExcelWriter_HeadersAndRows tests cell placement: headers in row 1, data
// from row 2, and the sheet named after the survey title.
func TestExcelWriter_HeadersAndRows(t *testing.T) {
	s := exportTestSurvey()
	tr := i18n.NewTranslator("")

	opts := DefaultOptions()
	opts.Columns = []string{"id", "COLOR"}

	sink := newFakeSpreadsheet()
	renderTo(t, NewExcelWriter(sink, tr), s, opts, []survey.ResponseRow{
		{"id": "1", "COLOR": "R"},
		{"id": "2", "COLOR": "B"},
	})

	if sink.sheet != "Customer Satisfaction 2026" {
		t.Errorf("sheet = %q, want survey title", sink.sheet)
	}
	if !sink.finalized {
		t.Error("Close() did not finalize the sink")
	}

	want := map[[2]int]string{
		{1, 1}: "id",
		{1, 2}: "COLOR",
		{2, 1}: "1",
		{2, 2}: "R",
		{3, 1}: "2",
		{3, 2}: "B",
	}
	for pos, cell := range want {
		if got := sink.cells[pos]; got != cell {
			t.Errorf("cell %v = %q, want %q", pos, got, cell)
		}
	}
	if len(sink.cells) != len(want) {
		t.Errorf("wrote %d cells, want %d", len(sink.cells), len(want))
	}
}

// TestExcelWriter_FilteredRowsLeaveNoGaps tests that skipped rows do not
// leave empty spreadsheet rows behind.
func TestExcelWriter_FilteredRowsLeaveNoGaps(t *testing.T) {
	s := exportTestSurvey()
	tr := i18n.NewTranslator("")

	opts := DefaultOptions()
	opts.Columns = []string{"id"}
	opts.Completion = CompletionFilter

	sink := newFakeSpreadsheet()
	renderTo(t, NewExcelWriter(sink, tr), s, opts, []survey.ResponseRow{
		{"id": "1"},
		{"id": "2", "submitdate": "2026-01-11 10:30:00"},
	})

	if got := sink.cells[[2]int{2, 1}]; got != "2" {
		t.Errorf("row 2 cell = %q, want the surviving record in the next row", got)
	}
	if _, ok := sink.cells[[2]int{3, 1}]; ok {
		t.Error("unexpected third spreadsheet row")
	}
}

// TestExcelWriter_FormulaNeutralized tests that cell values starting with "="
// are wrapped so spreadsheet hosts treat them as text.
func TestExcelWriter_FormulaNeutralized(t *testing.T) {
	s := exportTestSurvey()
	tr := i18n.NewTranslator("")

	opts := DefaultOptions()
	opts.Columns = []string{"CMT"}

	sink := newFakeSpreadsheet()
	renderTo(t, NewExcelWriter(sink, tr), s, opts, []survey.ResponseRow{
		{"id": "1", "CMT": "=CMD('calc')"},
	})

	if got := sink.cells[[2]int{2, 1}]; got != "\"=CMD('calc')\"" {
		t.Errorf("cell = %q, want the formula quote-wrapped", got)
	}
}

// TestExcelWriter_SheetNameFallback tests the fallback sheet name for surveys
// without a localized title.
func TestExcelWriter_SheetNameFallback(t *testing.T) {
	s := exportTestSurvey()
	s.LanguageSettings = nil
	tr := i18n.NewTranslator("")

	opts := DefaultOptions()
	opts.Columns = []string{"id"}

	sink := newFakeSpreadsheet()
	renderTo(t, NewExcelWriter(sink, tr), s, opts, []survey.ResponseRow{{"id": "1"}})

	if sink.sheet != "survey_7031" {
		t.Errorf("sheet = %q, want \"survey_7031\"", sink.sheet)
	}
}

// TestSheetName tests title sanitization and the length cap.
func TestSheetName(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{"plain", "Customer Satisfaction 2026", "Customer Satisfaction 2026"},
		{"forbidden characters", "Q: What? [Pilot]", "Q What Pilot"},
		{"markup flattened", "<b>Survey</b> 2026", "Survey 2026"},
		{"slashes", `a/b\c`, "abc"},
		{"truncated", "This title is far too long for a worksheet tab name", "This title is far too long for"},
		{"empty", "", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := SheetName(tt.in)
			if got != tt.want {
				t.Errorf("SheetName(%q) = %q, want %q", tt.in, got, tt.want)
			}
			if n := len([]rune(got)); n > 31 {
				t.Errorf("SheetName(%q) is %d runes, cap is 31", tt.in, n)
			}
		})
	}
}

// TestNeutralizeFormula tests the equals-prefix rule.
func TestNeutralizeFormula(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"=SUM(A1:A9)", "\"=SUM(A1:A9)\""},
		{"plain", "plain"},
		{"", ""},
		{"a=b", "a=b"},
	}

	for _, tt := range tests {
		if got := NeutralizeFormula(tt.in); got != tt.want {
			t.Errorf("NeutralizeFormula(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}
