package storage

import (
	"context"
	"sort"
	"strconv"
	"sync"

	"github.com/cedricOL/LimeSurvey/pkg/survey"
)

// MemoryStorage keeps surveys and responses in process-local maps. It is the
// "memory" storage backend; nothing survives a restart.
type MemoryStorage struct {
	surveys   map[int]*survey.Survey
	responses map[int][]survey.ResponseRow
	mu        sync.RWMutex
}

// NewMemoryStorage returns an empty in-memory store.
func NewMemoryStorage() *MemoryStorage {
	return &MemoryStorage{
		surveys:   make(map[int]*survey.Survey),
		responses: make(map[int][]survey.ResponseRow),
	}
}

// SaveSurvey stores a structural copy of the survey, replacing any previous
// definition with the same id. Stored responses are left untouched.
func (s *MemoryStorage) SaveSurvey(ctx context.Context, sv *survey.Survey) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.surveys[sv.ID] = copyStructure(sv)
	return nil
}

// LoadStructure returns the survey definition localized to the requested
// language, with the base language filling translation gaps. The field map is
// built before the survey is returned.
func (s *MemoryStorage) LoadStructure(ctx context.Context, surveyID int, language string) (*survey.Survey, error) {
	s.mu.RLock()
	stored, ok := s.surveys[surveyID]
	s.mu.RUnlock()
	if !ok {
		return nil, survey.NewNotFoundError(surveyID)
	}

	if language == "" {
		language = stored.Language
	}

	sv := copyStructure(stored)
	sv.Questions = localizeQuestions(stored.Questions, language, stored.Language)
	sv.Answers = localizeAnswers(stored.Answers, language, stored.Language)
	sv.BuildFieldMap()

	return sv, nil
}

// LoadResponses returns a window of stored response rows ordered by response
// id. When joinTokens is set the participant's token columns are merged into
// each row; rows without a matching token keep those columns empty.
func (s *MemoryStorage) LoadResponses(ctx context.Context, surveyID, limit, offset int, joinTokens bool) ([]survey.ResponseRow, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	all := s.responses[surveyID]
	if offset < 0 {
		offset = 0
	}
	if offset >= len(all) {
		return []survey.ResponseRow{}, nil
	}
	end := offset + limit
	if limit <= 0 || end > len(all) {
		end = len(all)
	}

	stored := s.surveys[surveyID]
	out := make([]survey.ResponseRow, 0, end-offset)
	for _, row := range all[offset:end] {
		rowCopy := make(survey.ResponseRow, len(row))
		for k, v := range row {
			rowCopy[k] = v
		}
		if joinTokens {
			mergeTokenColumns(rowCopy, stored)
		}
		out = append(out, rowCopy)
	}

	return out, nil
}

// CountResponses returns the number of stored responses for the survey.
func (s *MemoryStorage) CountResponses(ctx context.Context, surveyID int) (int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return len(s.responses[surveyID]), nil
}

// SaveResponses appends response rows to the survey. Rows without an id column
// are assigned the next free id, and the stored rows stay sorted by id.
func (s *MemoryStorage) SaveResponses(ctx context.Context, surveyID int, rows []survey.ResponseRow) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	nextID := 0
	for _, row := range s.responses[surveyID] {
		if id, err := strconv.Atoi(row[survey.ColID]); err == nil && id > nextID {
			nextID = id
		}
	}

	for _, row := range rows {
		rowCopy := make(survey.ResponseRow, len(row))
		for k, v := range row {
			rowCopy[k] = v
		}
		if rowCopy[survey.ColID] == "" {
			nextID++
			rowCopy[survey.ColID] = strconv.Itoa(nextID)
		} else if id, err := strconv.Atoi(rowCopy[survey.ColID]); err == nil && id > nextID {
			nextID = id
		}
		s.responses[surveyID] = append(s.responses[surveyID], rowCopy)
	}

	sort.SliceStable(s.responses[surveyID], func(i, j int) bool {
		a, _ := strconv.Atoi(s.responses[surveyID][i][survey.ColID])
		b, _ := strconv.Atoi(s.responses[surveyID][j][survey.ColID])
		return a < b
	})

	return nil
}

// Close drops everything the store holds.
func (s *MemoryStorage) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.surveys = make(map[int]*survey.Survey)
	s.responses = make(map[int][]survey.ResponseRow)
	return nil
}

// Clear removes all surveys and responses from storage (for testing).
func (s *MemoryStorage) Clear() {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.surveys = make(map[int]*survey.Survey)
	s.responses = make(map[int][]survey.ResponseRow)
}

// Size returns the number of stored surveys (for testing).
func (s *MemoryStorage) Size() int {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return len(s.surveys)
}

// copyStructure returns a structural copy of the survey that shares no mutable
// state with the original. The field map and response window are not copied;
// callers rebuild them.
func copyStructure(sv *survey.Survey) *survey.Survey {
	out := &survey.Survey{
		ID:               sv.ID,
		Language:         sv.Language,
		Groups:           append([]survey.Group(nil), sv.Groups...),
		Questions:        append([]survey.Question(nil), sv.Questions...),
		Answers:          append([]survey.Answer(nil), sv.Answers...),
		LanguageSettings: append([]survey.LanguageSetting(nil), sv.LanguageSettings...),
	}
	for _, t := range sv.Tokens {
		if t.Attributes != nil {
			attrs := make(map[string]string, len(t.Attributes))
			for k, v := range t.Attributes {
				attrs[k] = v
			}
			t.Attributes = attrs
		}
		out.Tokens = append(out.Tokens, t)
	}
	return out
}

// localizeQuestions keeps one question row per id, preferring the requested
// language and falling back to the base language. Rows with an empty language
// count as base-language rows.
func localizeQuestions(questions []survey.Question, language, baseLanguage string) []survey.Question {
	index := make(map[int]int)
	var out []survey.Question
	for _, q := range questions {
		if q.Language == "" {
			q.Language = baseLanguage
		}
		if q.Language != language && q.Language != baseLanguage {
			continue
		}
		if i, seen := index[q.ID]; seen {
			if q.Language == language {
				out[i] = q
			}
			continue
		}
		index[q.ID] = len(out)
		out = append(out, q)
	}
	return out
}

// localizeAnswers keeps one answer option per (question, scale, code), with
// the same language preference as localizeQuestions.
func localizeAnswers(answers []survey.Answer, language, baseLanguage string) []survey.Answer {
	type key struct {
		questionID int
		scaleID    int
		code       string
	}
	index := make(map[key]int)
	var out []survey.Answer
	for _, a := range answers {
		if a.Language == "" {
			a.Language = baseLanguage
		}
		if a.Language != language && a.Language != baseLanguage {
			continue
		}
		k := key{a.QuestionID, a.ScaleID, a.Code}
		if i, seen := index[k]; seen {
			if a.Language == language {
				out[i] = a
			}
			continue
		}
		index[k] = len(out)
		out = append(out, a)
	}
	return out
}

// mergeTokenColumns copies the matching token's columns into the response row,
// mirroring the left join the SQLite backend performs.
func mergeTokenColumns(row survey.ResponseRow, sv *survey.Survey) {
	row[survey.ColFirstName] = ""
	row[survey.ColLastName] = ""
	row[survey.ColEmail] = ""
	if sv == nil {
		return
	}
	for _, t := range sv.Tokens {
		if t.Token == "" || t.Token != row[survey.ColToken] {
			continue
		}
		row[survey.ColFirstName] = t.FirstName
		row[survey.ColLastName] = t.LastName
		row[survey.ColEmail] = t.Email
		for k, v := range t.Attributes {
			row[k] = v
		}
		break
	}
}
