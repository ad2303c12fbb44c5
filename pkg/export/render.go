package export

import (
	"github.com/cedricOL/LimeSurvey/pkg/i18n"
	"github.com/cedricOL/LimeSurvey/pkg/survey"
)

// ValueRenderer renders one stored answer cell. Implementations are keyed by
// question type; a writer resolves one renderer per selected column at
// initialization and reuses it for every row.
type ValueRenderer interface {
	// RenderShort returns the stored code, with Y/N substitution applied
	// when configured.
	RenderShort(raw string, opts *Options) string
	// RenderFull expands the stored code into its display text, falling
	// back to the raw value when nothing matches.
	RenderFull(raw string, opts *Options) string
}

// rendererContext is what a renderer factory binds against: the loaded
// survey, the export's translation cache, and the column's field descriptor.
type rendererContext struct {
	survey     *survey.Survey
	translator *i18n.Translator
	language   string
	field      *survey.Field
}

type rendererFactory func(rc rendererContext) ValueRenderer

// rendererFactories keys the renderer implementations by question type.
// Types without an entry use the choice renderer.
var rendererFactories = map[survey.QuestionType]rendererFactory{
	survey.TypeList:            newChoiceRenderer,
	survey.TypeListDropdown:    newChoiceRenderer,
	survey.TypeListWithComment: newChoiceRenderer,
	survey.TypeArray:           newChoiceRenderer,
	survey.TypeRanking:         newChoiceRenderer,
	survey.TypeMultipleChoice:  newFlagRenderer,
	survey.TypeYesNo:           newYesNoRenderer,
	survey.TypeShortText:       newLiteralRenderer,
	survey.TypeLongText:        newLiteralRenderer,
	survey.TypeNumeric:         newLiteralRenderer,
	survey.TypeDate:            newLiteralRenderer,
}

// RendererFor resolves the value renderer for one selected column. Plain meta
// columns and field-map misses get the tag-stripping passthrough; other and
// comment cells hold free text and pass through verbatim; question cells
// dispatch on their question type.
func RendererFor(s *survey.Survey, translator *i18n.Translator, language, column string) ValueRenderer {
	f, ok := s.Fields[column]
	if !ok || f.Meta {
		return metaRenderer{}
	}
	if f.Other || f.Comment {
		return literalRenderer{}
	}
	factory, ok := rendererFactories[f.Type]
	if !ok {
		factory = newChoiceRenderer
	}
	return factory(rendererContext{survey: s, translator: translator, language: language, field: f})
}

// substituteYN applies the configured Y/N display substitution to a stored
// code.
func substituteYN(raw string, opts *Options) string {
	switch {
	case opts.ConvertY && raw == "Y":
		return opts.YValue
	case opts.ConvertN && raw == "N":
		return opts.NValue
	}
	return raw
}

// metaRenderer handles columns that are not backed by a question: the raw
// value is tag-stripped and passed through in both modes.
type metaRenderer struct{}

func (metaRenderer) RenderShort(raw string, _ *Options) string { return FlattenText(raw) }
func (metaRenderer) RenderFull(raw string, _ *Options) string  { return FlattenText(raw) }

// literalRenderer passes free-text cells through unchanged in both modes.
// Line breaks survive; escaping them is the format hook's job.
type literalRenderer struct{}

func newLiteralRenderer(rendererContext) ValueRenderer { return literalRenderer{} }

func (literalRenderer) RenderShort(raw string, _ *Options) string { return raw }
func (literalRenderer) RenderFull(raw string, _ *Options) string  { return raw }

// choiceRenderer renders single-choice style cells: stored codes in short
// mode, expanded option texts in long mode.
type choiceRenderer struct {
	options map[string]string // answer code -> display text
}

func newChoiceRenderer(rc rendererContext) ValueRenderer {
	return &choiceRenderer{options: optionMap(rc.survey, rc.field)}
}

func (r *choiceRenderer) RenderShort(raw string, opts *Options) string {
	return substituteYN(raw, opts)
}

func (r *choiceRenderer) RenderFull(raw string, _ *Options) string {
	if text, ok := r.options[raw]; ok {
		return FlattenText(text)
	}
	return raw
}

// optionMap builds the code -> text lookup for one column. Scale-bound cells
// restrict the lookup to their scale; unbound cells use the cross-scale map
// with its last-write-wins re-keying.
func optionMap(s *survey.Survey, f *survey.Field) map[string]string {
	if f.ScaleID >= 0 {
		out := make(map[string]string)
		for _, a := range s.AnswerOptions(f.QuestionID, f.ScaleID) {
			out[a.Code] = a.Text
		}
		return out
	}
	return s.AnswerOptionMap(f.QuestionID)
}

// yesNoRenderer renders yes/no questions: raw codes with substitution in
// short mode, localized yes/no words in long mode.
type yesNoRenderer struct {
	translator *i18n.Translator
	language   string
}

func newYesNoRenderer(rc rendererContext) ValueRenderer {
	return &yesNoRenderer{translator: rc.translator, language: rc.language}
}

func (r *yesNoRenderer) RenderShort(raw string, opts *Options) string {
	return substituteYN(raw, opts)
}

func (r *yesNoRenderer) RenderFull(raw string, _ *Options) string {
	switch raw {
	case "Y":
		return r.translator.Resolve("answer.yes", r.language)
	case "N":
		return r.translator.Resolve("answer.no", r.language)
	}
	return raw
}

// flagRenderer renders multiple-choice flag cells, which store "Y" when the
// option was picked and stay empty otherwise.
type flagRenderer struct {
	translator *i18n.Translator
	language   string
}

func newFlagRenderer(rc rendererContext) ValueRenderer {
	return &flagRenderer{translator: rc.translator, language: rc.language}
}

func (r *flagRenderer) RenderShort(raw string, opts *Options) string {
	return substituteYN(raw, opts)
}

func (r *flagRenderer) RenderFull(raw string, _ *Options) string {
	if raw == "Y" {
		return r.translator.Resolve("answer.yes", r.language)
	}
	return raw
}
