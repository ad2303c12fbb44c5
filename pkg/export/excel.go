package export

import (
	"fmt"
	"strings"

	"github.com/cedricOL/LimeSurvey/pkg/i18n"
	"github.com/cedricOL/LimeSurvey/pkg/survey"
)

// ExcelWriter emits a spreadsheet: headers into row 1 of a dedicated sheet,
// then one row per filter-passing response.
type ExcelWriter struct {
	baseWriter
	sink SpreadsheetSink
	row  int
}

// NewExcelWriter creates a spreadsheet writer on top of a sink.
func NewExcelWriter(sink SpreadsheetSink, translator *i18n.Translator) *ExcelWriter {
	return &ExcelWriter{
		baseWriter: baseWriter{translator: translator},
		sink:       sink,
	}
}

// Initialize names the export sheet after the survey's localized title and
// creates it in the sink.
func (w *ExcelWriter) Initialize(s *survey.Survey, language string, opts *Options) error {
	if err := w.init(s, language, opts); err != nil {
		return err
	}
	name := SheetName(s.LocalizedTitle(language))
	if name == "" {
		name = fmt.Sprintf("survey_%d", s.ID)
	}
	return w.sink.AddSheet(name)
}

// RenderBatch implements the Writer interface.
func (w *ExcelWriter) RenderBatch(first bool) error {
	return w.renderRows(first, w)
}

// Close finalizes the workbook.
func (w *ExcelWriter) Close() error {
	return w.sink.Finalize()
}

func (w *ExcelWriter) writeHeaders(headers []string) error {
	return w.writeCells(headers)
}

func (w *ExcelWriter) writeRow(_ int, values []string) error {
	return w.writeCells(values)
}

func (w *ExcelWriter) writeCells(cells []string) error {
	w.row++
	for i, cell := range cells {
		if err := w.sink.WriteCell(w.row, i+1, NeutralizeFormula(cell)); err != nil {
			return err
		}
	}
	return nil
}

// sheetNameSanitizer removes the characters spreadsheet applications refuse
// in sheet names (path separators, wildcards, brackets, quotes).
var sheetNameSanitizer = strings.NewReplacer(
	`\`, "", "/", "", "*", "", "?", "", ":", "", "[", "", "]", "",
	`"`, "", "<", "", ">", "", "|", "",
)

// sheetNameLimit is the sheet name length spreadsheet applications accept.
const sheetNameLimit = 31

// SheetName derives a legal sheet name from a survey title.
func SheetName(title string) string {
	name := strings.TrimSpace(sheetNameSanitizer.Replace(FlattenText(title)))
	runes := []rune(name)
	if len(runes) > sheetNameLimit {
		name = strings.TrimSpace(string(runes[:sheetNameLimit]))
	}
	return name
}

// NeutralizeFormula quote-wraps any cell value a spreadsheet application
// would execute as a formula, so exported responses can never inject one.
func NeutralizeFormula(value string) string {
	if strings.HasPrefix(value, "=") {
		return `"` + value + `"`
	}
	return value
}
