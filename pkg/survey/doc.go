// Package survey defines the in-memory representation of a survey and the
// query surface the export pipeline renders from. A Survey carries the
// structure (groups, questions, answer options, token list, per-language
// settings) loaded once per export and treated as read-only afterwards, plus
// a mutable response window that data access refills one batch at a time.
//
// # Field Map
//
// The field map translates exportable column identifiers into descriptors of
// what each column represents: a plain meta column (response id, timestamps,
// token-derived fields) or a specific question, sub-question, other-specify,
// comment, or answer-scale cell. BuildFieldMap derives it from the structure;
// keys are unique because column identifiers are built from question codes,
// which are unique per survey.
//
//	s, err := store.LoadStructure(ctx, 1042, "en")
//	if err != nil {
//	    log.Fatal(err)
//	}
//	for _, col := range s.FieldOrder {
//	    fmt.Println(col, s.Fields[col].Type)
//	}
//
// # Query Surface
//
// The accessor methods mirror how the export renderers look structure up:
//
//   - QuestionsInGroup / SubQuestions for structural traversal
//   - AnswerOptions / AnswerOptionMap for answer-code expansion
//   - TokensMatching for participant lookup
//   - QuestionCode / QuestionText for field-map resolution; both return an
//     ok bool so a miss is a skip case, never mistakable for an empty value
//
// # Response Window
//
// Survey.Responses holds at most one batch of rows, ordered by response id.
// Each reload replaces the slice wholesale; prior rows are discarded, which
// keeps memory bounded regardless of how many responses the survey has.
package survey
