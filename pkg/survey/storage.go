package survey

import "context"

// Storage is the persistence boundary for surveys and their responses.
// Implementations must be safe for concurrent use by independent exports.
type Storage interface {
	// LoadStructure loads a survey's structure: groups, questions, answer
	// options, the token list (empty when the survey has none), and the
	// per-language settings. Question and answer texts are localized to the
	// given language, falling back to the survey's base language; an empty
	// language means the base language. The field map is built before the
	// survey is returned.
	//
	// Returns a *NotFoundError when the survey id does not exist.
	LoadStructure(ctx context.Context, surveyID int, language string) (*Survey, error)

	// LoadResponses returns one window of response rows, ordered by response
	// id ascending. When joinTokens is true, token-derived columns
	// (firstname, lastname, email, attribute_*) are merged into each row for
	// responses whose token value matches a token entry.
	LoadResponses(ctx context.Context, surveyID, limit, offset int, joinTokens bool) ([]ResponseRow, error)

	// CountResponses returns the number of stored responses for a survey.
	CountResponses(ctx context.Context, surveyID int) (int, error)

	// SaveSurvey persists a survey structure (groups, questions, answers,
	// tokens, language settings). Existing structure for the id is replaced.
	SaveSurvey(ctx context.Context, s *Survey) error

	// SaveResponses appends response rows to a survey. Rows without an id
	// column are assigned the next free response id.
	SaveResponses(ctx context.Context, surveyID int, rows []ResponseRow) error

	// Close releases the backend's resources. No loads may follow.
	Close() error
}

// LoadBatch replaces the survey's response window with the next batch of at
// most limit rows starting at offset and returns how many rows were loaded.
// Token columns are joined whenever the survey has a token list. A zero
// return means end of data.
func LoadBatch(ctx context.Context, st Storage, s *Survey, limit, offset int) (int, error) {
	rows, err := st.LoadResponses(ctx, s.ID, limit, offset, len(s.Tokens) > 0)
	if err != nil {
		return 0, err
	}
	s.Responses = rows
	return len(rows), nil
}
