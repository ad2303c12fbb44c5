// Package export streams survey responses into delimited text, word
// processor, spreadsheet, and PDF documents.
//
// An export is driven by the Service, which loads responses from storage in
// fixed-size batches and hands each batch to a format Writer. Writers share
// one rendering pipeline: column headings are produced once from the survey
// structure and the selected heading mode, and every cell value passes
// through a per-question renderer that knows how to show that question type
// in short (code) or long (display text) form.
//
// # Formats
//
//	csv  - delimited text, quote-wrapped where needed (default)
//	doc  - word processor text, one line or one block per response
//	xls  - spreadsheet workbook via a SpreadsheetSink
//	pdf  - printable document via a DocumentSink
//
// An unrecognized format name falls back to csv.
//
// # Options
//
// Options selects the record range, the completion filter, which columns are
// exported, how headings are labelled, and whether answers are exported as
// stored codes or expanded display text. DefaultOptions returns a ready set;
// Validate rejects inconsistent combinations before any output is produced.
//
// # Running an export
//
//	svc, err := export.NewService(&export.ServiceConfig{Storage: st})
//	if err != nil {
//		return err
//	}
//
//	opts := export.DefaultOptions()
//	opts.Columns = []string{"id", "submitdate", "Q1", "Q2"}
//	opts.Headings = export.HeadingFull
//
//	result, err := svc.Export(ctx, 7031, "en", export.FormatCSV, opts)
package export
