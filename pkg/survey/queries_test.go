package survey

import (
	"testing"
)

// createTestSurvey builds a small two-group survey with answer options on two
// scales, a multiple-choice question, and a token list.
func createTestSurvey() *Survey {
	s := &Survey{
		ID:       1042,
		Language: "en",
		Groups: []Group{
			{ID: 1, Title: "Profile", Order: 1},
			{ID: 2, Title: "Feedback", Order: 2},
		},
		Questions: []Question{
			{ID: 1, GroupID: 1, Language: "en", Code: "AGE", Text: "How old are you?", Type: TypeNumeric, Order: 1},
			{ID: 2, GroupID: 1, Language: "en", Code: "GENDER", Text: "<b>What is your gender?</b>", Type: TypeList, Order: 2},
			{ID: 3, GroupID: 2, Language: "en", Code: "SAT", Text: "How satisfied are you with our service?", Type: TypeList, Other: true, Order: 1},
			{ID: 4, GroupID: 2, Language: "en", Code: "FEAT", Text: "Which features do you use?", Type: TypeMultipleChoice, Order: 2},
			{ID: 5, ParentID: 4, GroupID: 2, Language: "en", Code: "SQ001", Text: "Search", Order: 1},
			{ID: 6, ParentID: 4, GroupID: 2, Language: "en", Code: "SQ002", Text: "Reports", Order: 2},
			{ID: 7, GroupID: 2, Language: "en", Code: "CMT", Text: "Any comments?", Type: TypeLongText, Order: 3},
		},
		Answers: []Answer{
			{QuestionID: 2, ScaleID: 0, Code: "M", Text: "Male", Order: 1},
			{QuestionID: 2, ScaleID: 0, Code: "F", Text: "Female", Order: 2},
			{QuestionID: 3, ScaleID: 0, Code: "1", Text: "Very satisfied", Order: 1},
			{QuestionID: 3, ScaleID: 0, Code: "2", Text: "Satisfied", Order: 2},
			{QuestionID: 3, ScaleID: 1, Code: "1", Text: "Would recommend", Order: 1},
		},
		Tokens: []Token{
			{Token: "tok-1", FirstName: "Ada", LastName: "Lovelace", Email: "ada@example.com",
				Attributes: map[string]string{"attribute_1": "unit-a"}},
			{Token: "tok-2", FirstName: "Alan", LastName: "Turing", Email: "alan@example.com"},
		},
		LanguageSettings: []LanguageSetting{
			{Language: "en", Title: "Customer Satisfaction 2025"},
			{Language: "de", Title: "Kundenzufriedenheit 2025"},
		},
	}
	s.BuildFieldMap()
	return s
}

// TestSurvey_QuestionsInGroup tests that only top-level questions are
// returned and that the group filter applies.
func TestSurvey_QuestionsInGroup(t *testing.T) {
	s := createTestSurvey()

	all := s.QuestionsInGroup(0)
	if len(all) != 5 {
		t.Fatalf("Expected 5 top-level questions, got %d", len(all))
	}
	for _, q := range all {
		if q.ParentID != 0 {
			t.Errorf("Sub-question %s leaked into top-level result", q.Code)
		}
	}

	group2 := s.QuestionsInGroup(2)
	if len(group2) != 3 {
		t.Errorf("Expected 3 questions in group 2, got %d", len(group2))
	}
	for _, q := range group2 {
		if q.GroupID != 2 {
			t.Errorf("Question %s belongs to group %d, not 2", q.Code, q.GroupID)
		}
	}
}

// TestSurvey_SubQuestions tests sub-question lookup keyed by question id.
func TestSurvey_SubQuestions(t *testing.T) {
	s := createTestSurvey()

	subs := s.SubQuestions(4)
	if len(subs) != 2 {
		t.Fatalf("Expected 2 sub-questions, got %d", len(subs))
	}
	if subs[5].Code != "SQ001" || subs[6].Code != "SQ002" {
		t.Errorf("Sub-questions not keyed by id: %+v", subs)
	}

	if len(s.SubQuestions(7)) != 0 {
		t.Errorf("Expected no sub-questions for a text question")
	}
}

// TestSurvey_AnswerOptions tests scale-qualified and unqualified option lookup.
func TestSurvey_AnswerOptions(t *testing.T) {
	s := createTestSurvey()

	if got := len(s.AnswerOptions(3, 0)); got != 2 {
		t.Errorf("Expected 2 options on scale 0, got %d", got)
	}
	if got := len(s.AnswerOptions(3, 1)); got != 1 {
		t.Errorf("Expected 1 option on scale 1, got %d", got)
	}
	if got := len(s.AnswerOptions(3, -1)); got != 3 {
		t.Errorf("Expected 3 options across scales, got %d", got)
	}
	if got := len(s.AnswerOptions(99, -1)); got != 0 {
		t.Errorf("Expected no options for unknown question, got %d", got)
	}
}

// TestSurvey_AnswerOptionMap_LastScaleWins tests that re-keying by code lets
// a later scale overwrite an earlier one sharing the code.
func TestSurvey_AnswerOptionMap_LastScaleWins(t *testing.T) {
	s := createTestSurvey()

	m := s.AnswerOptionMap(3)
	if len(m) != 2 {
		t.Fatalf("Expected 2 distinct codes, got %d", len(m))
	}
	if m["1"] != "Would recommend" {
		t.Errorf("Expected scale 1 to overwrite code 1, got %q", m["1"])
	}
	if m["2"] != "Satisfied" {
		t.Errorf("Expected code 2 untouched, got %q", m["2"])
	}
}

// TestSurvey_TokensMatching tests the linear token scan.
func TestSurvey_TokensMatching(t *testing.T) {
	s := createTestSurvey()

	hits := s.TokensMatching("tok-1")
	if len(hits) != 1 {
		t.Fatalf("Expected 1 token match, got %d", len(hits))
	}
	if hits[0].Email != "ada@example.com" {
		t.Errorf("Wrong token returned: %+v", hits[0])
	}

	if got := s.TokensMatching("missing"); len(got) != 0 {
		t.Errorf("Expected empty result for unknown token, got %d", len(got))
	}
}

// TestSurvey_QuestionCode tests field-map resolution and its miss semantics.
func TestSurvey_QuestionCode(t *testing.T) {
	s := createTestSurvey()

	code, ok := s.QuestionCode("GENDER")
	if !ok || code != "GENDER" {
		t.Errorf("Expected (GENDER, true), got (%q, %v)", code, ok)
	}

	if _, ok := s.QuestionCode("nonexistent"); ok {
		t.Errorf("Expected miss for unknown column")
	}
	if _, ok := s.QuestionCode(ColID); ok {
		t.Errorf("Expected miss for meta column")
	}
}

// TestSurvey_QuestionText tests question text resolution through the field map.
func TestSurvey_QuestionText(t *testing.T) {
	s := createTestSurvey()

	text, ok := s.QuestionText("FEAT_SQ001")
	if !ok {
		t.Fatalf("Expected sub-question column to resolve")
	}
	if text != "Which features do you use?" {
		t.Errorf("Expected parent question text, got %q", text)
	}

	if _, ok := s.QuestionText(ColSubmitDate); ok {
		t.Errorf("Expected miss for meta column")
	}
}

// TestSurvey_LocalizedTitle tests language fallback for the survey title.
func TestSurvey_LocalizedTitle(t *testing.T) {
	s := createTestSurvey()

	if got := s.LocalizedTitle("de"); got != "Kundenzufriedenheit 2025" {
		t.Errorf("Expected German title, got %q", got)
	}
	if got := s.LocalizedTitle("fr"); got != "Customer Satisfaction 2025" {
		t.Errorf("Expected base-language fallback, got %q", got)
	}
}

// TestResponseRow_Complete tests submission-timestamp presence detection.
func TestResponseRow_Complete(t *testing.T) {
	complete := ResponseRow{ColID: "1", ColSubmitDate: "2025-03-01 10:00:00"}
	incomplete := ResponseRow{ColID: "2"}

	if !complete.Complete() {
		t.Errorf("Row with submitdate should be complete")
	}
	if incomplete.Complete() {
		t.Errorf("Row without submitdate should be incomplete")
	}
}
