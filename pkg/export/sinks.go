package export

import (
	"io"

	"github.com/go-pdf/fpdf"
	"github.com/xuri/excelize/v2"
)

// SpreadsheetSink receives spreadsheet output cell by cell. Row and column
// indexes are 1-based.
type SpreadsheetSink interface {
	AddSheet(name string) error
	WriteCell(row, col int, value string) error
	Finalize() error
}

// DocumentSink receives paginated document content block by block.
type DocumentSink interface {
	AddPage()
	AppendBlock(content string)
	Finalize() error
}

const defaultSheetName = "Sheet1"

// ExcelizeSink adapts an excelize workbook to the SpreadsheetSink interface.
type ExcelizeSink struct {
	file  *excelize.File
	sheet string
	out   io.Writer
}

// NewExcelizeSink creates a spreadsheet sink that writes a workbook to out on
// Finalize.
func NewExcelizeSink(out io.Writer) *ExcelizeSink {
	return &ExcelizeSink{
		file: excelize.NewFile(),
		out:  out,
	}
}

// AddSheet creates the export sheet and drops the workbook's default sheet,
// so the file contains exactly the exported data.
func (s *ExcelizeSink) AddSheet(name string) error {
	index, err := s.file.NewSheet(name)
	if err != nil {
		return err
	}
	s.file.SetActiveSheet(index)
	if name != defaultSheetName {
		if err := s.file.DeleteSheet(defaultSheetName); err != nil {
			return err
		}
	}
	s.sheet = name
	return nil
}

// WriteCell implements the SpreadsheetSink interface.
func (s *ExcelizeSink) WriteCell(row, col int, value string) error {
	cell, err := excelize.CoordinatesToCellName(col, row)
	if err != nil {
		return err
	}
	return s.file.SetCellValue(s.sheet, cell, value)
}

// Finalize writes the workbook to the output and releases its resources.
func (s *ExcelizeSink) Finalize() error {
	if _, err := s.file.WriteTo(s.out); err != nil {
		s.file.Close()
		return err
	}
	return s.file.Close()
}

// FpdfSink adapts an fpdf document to the DocumentSink interface.
type FpdfSink struct {
	pdf       *fpdf.Fpdf
	translate func(string) string
	out       io.Writer
}

// NewFpdfSink creates a paginated sink rendering an A4 portrait document to
// out on Finalize. The first page is opened immediately; the writer adds
// further pages as needed.
func NewFpdfSink(out io.Writer) *FpdfSink {
	pdf := fpdf.New("P", "mm", "A4", "")
	pdf.SetFont("Helvetica", "", 10)
	pdf.AddPage()
	return &FpdfSink{
		pdf:       pdf,
		translate: pdf.UnicodeTranslatorFromDescriptor(""),
		out:       out,
	}
}

// AddPage implements the DocumentSink interface.
func (s *FpdfSink) AddPage() {
	s.pdf.AddPage()
}

// AppendBlock implements the DocumentSink interface. Content is transcoded
// to the core font's code page; untranslatable runes degrade rather than
// corrupt the document.
func (s *FpdfSink) AppendBlock(content string) {
	s.pdf.MultiCell(0, 5, s.translate(content), "", "L", false)
}

// Finalize implements the DocumentSink interface.
func (s *FpdfSink) Finalize() error {
	return s.pdf.Output(s.out)
}
