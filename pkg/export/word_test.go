package export

import (
	"bytes"
	"strings"
	"testing"

	"github.com/cedricOL/LimeSurvey/pkg/i18n"
	"github.com/cedricOL/LimeSurvey/pkg/survey"
)

// TestDocWriter_ShortMode tests the compact form: no headers, one
// delimiter-joined line per row.
func TestDocWriter_ShortMode(t *testing.T) {
	s := exportTestSurvey()
	tr := i18n.NewTranslator("")

	opts := DefaultOptions()
	opts.Columns = []string{"id", "COLOR"}

	var buf bytes.Buffer
	renderTo(t, NewDocWriter(&buf, tr), s, opts, []survey.ResponseRow{
		{"id": "1", "COLOR": "R"},
		{"id": "2", "COLOR": "B"},
	})

	want := "1,R\n2,B\n"
	if buf.String() != want {
		t.Errorf("output = %q, want %q", buf.String(), want)
	}
}

// TestDocWriter_LongMode tests the block form: a record banner, one
// header/value pair per line, and a page-break marker between records only.
func TestDocWriter_LongMode(t *testing.T) {
	s := exportTestSurvey()
	tr := i18n.NewTranslator("")

	opts := DefaultOptions()
	opts.Columns = []string{"id", "COLOR"}
	opts.Answers = AnswerLong

	var buf bytes.Buffer
	renderTo(t, NewDocWriter(&buf, tr), s, opts, []survey.ResponseRow{
		{"id": "1", "COLOR": "R"},
		{"id": "2", "COLOR": "B"},
	})

	want := "Record 1\n" +
		"id: 1\n" +
		"COLOR: Red\n" +
		PageBreak + "\n" +
		"Record 2\n" +
		"id: 2\n" +
		"COLOR: Blue\n"
	if buf.String() != want {
		t.Errorf("output = %q, want %q", buf.String(), want)
	}
}

// TestDocWriter_NoPageBreakForSingleRecord tests that a single record carries
// no page-break marker.
func TestDocWriter_NoPageBreakForSingleRecord(t *testing.T) {
	s := exportTestSurvey()
	tr := i18n.NewTranslator("")

	opts := DefaultOptions()
	opts.Columns = []string{"id"}
	opts.Answers = AnswerLong

	var buf bytes.Buffer
	renderTo(t, NewDocWriter(&buf, tr), s, opts, []survey.ResponseRow{
		{"id": "1"},
	})

	if strings.Contains(buf.String(), PageBreak) {
		t.Errorf("single-record output contains a page break: %q", buf.String())
	}
}

// TestDocWriter_PageBreaksAcrossBatches tests that the between-records rule
// holds when records span batches.
func TestDocWriter_PageBreaksAcrossBatches(t *testing.T) {
	s := exportTestSurvey()
	tr := i18n.NewTranslator("")

	opts := DefaultOptions()
	opts.Columns = []string{"id"}
	opts.Answers = AnswerLong

	var buf bytes.Buffer
	renderTo(t, NewDocWriter(&buf, tr), s, opts,
		[]survey.ResponseRow{{"id": "1"}, {"id": "2"}},
		[]survey.ResponseRow{{"id": "3"}},
	)

	if got := strings.Count(buf.String(), PageBreak); got != 2 {
		t.Errorf("got %d page breaks for 3 records, want 2", got)
	}
	if strings.HasPrefix(buf.String(), PageBreak) {
		t.Error("output must not start with a page break")
	}
}
