package survey

// QuestionsInGroup returns the top-level questions (ParentID 0), in storage
// order. If groupID is positive the result is restricted to that group;
// groupID 0 or negative means any group.
func (s *Survey) QuestionsInGroup(groupID int) []Question {
	var out []Question
	for _, q := range s.Questions {
		if q.ParentID != 0 {
			continue
		}
		if groupID > 0 && q.GroupID != groupID {
			continue
		}
		out = append(out, q)
	}
	return out
}

// SubQuestions returns every question whose parent is parentID, keyed by
// question id. The map is empty when the question has no sub-questions.
func (s *Survey) SubQuestions(parentID int) map[int]Question {
	out := make(map[int]Question)
	for _, q := range s.Questions {
		if q.ParentID == parentID {
			out[q.ID] = q
		}
	}
	return out
}

// QuestionByID looks a question up by id.
func (s *Survey) QuestionByID(id int) (Question, bool) {
	for _, q := range s.Questions {
		if q.ID == id {
			return q, true
		}
	}
	return Question{}, false
}

// AnswerOptions returns the answer options for a question. A negative scaleID
// returns every scale's options; otherwise only the exact scale's.
func (s *Survey) AnswerOptions(questionID, scaleID int) []Answer {
	var out []Answer
	for _, a := range s.Answers {
		if a.QuestionID != questionID {
			continue
		}
		if scaleID >= 0 && a.ScaleID != scaleID {
			continue
		}
		out = append(out, a)
	}
	return out
}

// AnswerOptionMap returns the question's options re-keyed by answer code
// across all scales. When two scales share a code the later scale's text
// wins; scale-qualified lookups should use AnswerOptions instead.
func (s *Survey) AnswerOptionMap(questionID int) map[string]string {
	out := make(map[string]string)
	for _, a := range s.Answers {
		if a.QuestionID == questionID {
			out[a.Code] = a.Text
		}
	}
	return out
}

// TokensMatching returns every token row whose token value equals tokenValue.
// The scan is linear; the result is empty when nothing matches.
func (s *Survey) TokensMatching(tokenValue string) []Token {
	var out []Token
	for _, t := range s.Tokens {
		if t.Token == tokenValue {
			out = append(out, t)
		}
	}
	return out
}

// QuestionCode resolves a column identifier to its question code through the
// field map. The second result is false when the column is unknown or is a
// plain meta column; callers treat that as a skip, not an error.
func (s *Survey) QuestionCode(fieldID string) (string, bool) {
	f, ok := s.Fields[fieldID]
	if !ok || f.Meta {
		return "", false
	}
	return f.Code, true
}

// QuestionText resolves a column identifier to its question text through the
// field map, with the same miss semantics as QuestionCode.
func (s *Survey) QuestionText(fieldID string) (string, bool) {
	f, ok := s.Fields[fieldID]
	if !ok || f.Meta {
		return "", false
	}
	return f.Text, true
}

// LocalizedTitle returns the survey title for the given language, falling
// back to the base language and then to any configured title.
func (s *Survey) LocalizedTitle(language string) string {
	var base, any string
	for _, ls := range s.LanguageSettings {
		if ls.Language == language {
			return ls.Title
		}
		if ls.Language == s.Language {
			base = ls.Title
		}
		if any == "" {
			any = ls.Title
		}
	}
	if base != "" {
		return base
	}
	return any
}
