package survey

import (
	"fmt"
	"sort"
)

// BuildFieldMap derives the exportable column set from the loaded structure:
// the standard meta columns, token-derived columns when a token list exists,
// and one column per question cell (simple questions map to one column,
// multiple-choice and array questions map to one column per sub-question and
// scale, other/comment cells get their own columns). Column identifiers are
// built from question codes, which are unique per survey, so field-map keys
// are unique. The resulting order is the export order.
func (s *Survey) BuildFieldMap() {
	s.Fields = make(map[string]*Field)
	s.FieldOrder = nil

	add := func(f *Field) {
		if _, dup := s.Fields[f.Name]; dup {
			return
		}
		s.Fields[f.Name] = f
		s.FieldOrder = append(s.FieldOrder, f.Name)
	}
	meta := func(name string) {
		add(&Field{Name: name, Meta: true, ScaleID: -1})
	}

	meta(ColID)
	meta(ColSubmitDate)
	meta(ColLastPage)
	meta(ColStartLanguage)
	meta(ColStartDate)
	meta(ColDateStamp)
	meta(ColIPAddr)
	meta(ColRefURL)
	meta(ColToken)

	if len(s.Tokens) > 0 {
		meta(ColFirstName)
		meta(ColLastName)
		meta(ColEmail)
		for _, name := range s.tokenAttributeKeys() {
			meta(name)
		}
	}

	for _, g := range s.orderedGroups() {
		for _, q := range s.orderedQuestions(g.ID) {
			s.addQuestionFields(add, q)
		}
	}
}

func (s *Survey) addQuestionFields(add func(*Field), q Question) {
	base := Field{
		QuestionID: q.ID,
		GroupID:    q.GroupID,
		Type:       q.Type,
		Code:       q.Code,
		Text:       q.Text,
		ScaleID:    -1,
	}

	switch q.Type {
	case TypeMultipleChoice:
		for _, sub := range s.orderedSubQuestions(q.ID) {
			f := base
			f.Name = q.Code + "_" + sub.Code
			f.SubCode = sub.Code
			f.SubText = sub.Text
			add(&f)
		}

	case TypeArray:
		scales := s.answerScales(q.ID)
		for _, sub := range s.orderedSubQuestions(q.ID) {
			if len(scales) <= 1 {
				f := base
				f.Name = q.Code + "_" + sub.Code
				f.SubCode = sub.Code
				f.SubText = sub.Text
				if len(scales) == 1 {
					f.ScaleID = scales[0]
				}
				add(&f)
				continue
			}
			for _, scale := range scales {
				f := base
				f.Name = fmt.Sprintf("%s_%s_%d", q.Code, sub.Code, scale)
				f.SubCode = sub.Code
				f.SubText = sub.Text
				f.ScaleID = scale
				add(&f)
			}
		}

	case TypeRanking:
		for i := range s.AnswerOptions(q.ID, -1) {
			rank := fmt.Sprintf("%d", i+1)
			f := base
			f.Name = q.Code + "_" + rank
			f.SubCode = rank
			f.SubText = "Rank " + rank
			add(&f)
		}

	case TypeListWithComment:
		f := base
		f.Name = q.Code
		add(&f)
		c := base
		c.Name = q.Code + "_comment"
		c.Comment = true
		add(&c)

	default:
		f := base
		f.Name = q.Code
		add(&f)
	}

	if q.Other {
		f := base
		f.Name = q.Code + "_other"
		f.Other = true
		add(&f)
	}
}

// orderedGroups returns the groups sorted by their declared order.
func (s *Survey) orderedGroups() []Group {
	out := make([]Group, len(s.Groups))
	copy(out, s.Groups)
	sort.SliceStable(out, func(i, j int) bool { return out[i].Order < out[j].Order })
	return out
}

// orderedQuestions returns the top-level questions of one group sorted by
// their declared order.
func (s *Survey) orderedQuestions(groupID int) []Question {
	out := s.QuestionsInGroup(groupID)
	sort.SliceStable(out, func(i, j int) bool { return out[i].Order < out[j].Order })
	return out
}

// orderedSubQuestions returns the sub-questions of a parent sorted by their
// declared order.
func (s *Survey) orderedSubQuestions(parentID int) []Question {
	var out []Question
	for _, q := range s.Questions {
		if q.ParentID == parentID {
			out = append(out, q)
		}
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].Order < out[j].Order })
	return out
}

// answerScales returns the distinct answer scales configured for a question,
// ascending.
func (s *Survey) answerScales(questionID int) []int {
	seen := make(map[int]bool)
	var out []int
	for _, a := range s.Answers {
		if a.QuestionID == questionID && !seen[a.ScaleID] {
			seen[a.ScaleID] = true
			out = append(out, a.ScaleID)
		}
	}
	sort.Ints(out)
	return out
}

// tokenAttributeKeys returns the union of attribute column names across the
// token list, sorted for a stable export order.
func (s *Survey) tokenAttributeKeys() []string {
	seen := make(map[string]bool)
	for _, t := range s.Tokens {
		for k := range t.Attributes {
			seen[k] = true
		}
	}
	out := make([]string, 0, len(seen))
	for k := range seen {
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}
