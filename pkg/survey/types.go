package survey

// QuestionType classifies a question for rendering purposes. Export rendering
// is polymorphic over this tag: each type resolves to a value renderer that
// knows how to present stored answer codes in short or long form.
type QuestionType string

const (
	// TypeList is a single-choice question rendered from answer options.
	TypeList QuestionType = "list"
	// TypeListDropdown is a single-choice question presented as a dropdown.
	TypeListDropdown QuestionType = "list_dropdown"
	// TypeListWithComment is a single choice plus a free-text comment cell.
	TypeListWithComment QuestionType = "list_comment"
	// TypeMultipleChoice is a set of checkbox sub-questions storing Y flags.
	TypeMultipleChoice QuestionType = "multiple_choice"
	// TypeYesNo stores a literal Y or N code.
	TypeYesNo QuestionType = "yes_no"
	// TypeShortText is a single-line free-text answer.
	TypeShortText QuestionType = "text"
	// TypeLongText is a multi-line free-text answer.
	TypeLongText QuestionType = "long_text"
	// TypeNumeric is a numeric answer stored as text.
	TypeNumeric QuestionType = "numeric"
	// TypeDate is a date answer stored as text.
	TypeDate QuestionType = "date"
	// TypeArray is a sub-question matrix answered on one or more answer scales.
	TypeArray QuestionType = "array"
	// TypeRanking stores one answer code per rank position.
	TypeRanking QuestionType = "ranking"
)

// Standard response columns present on every response row. These are the
// "meta" columns: they describe the response itself rather than an answer,
// and their headers come from the translation dictionary instead of the
// survey structure.
const (
	ColID            = "id"
	ColToken         = "token"
	ColSubmitDate    = "submitdate"
	ColStartDate     = "startdate"
	ColDateStamp     = "datestamp"
	ColIPAddr        = "ipaddr"
	ColRefURL        = "refurl"
	ColLastPage      = "lastpage"
	ColStartLanguage = "startlanguage"

	// Token-derived columns, present when the survey has a token list and
	// the response loader was asked to join it.
	ColFirstName = "firstname"
	ColLastName  = "lastname"
	ColEmail     = "email"
)

// AttributePrefix marks token bookkeeping columns (attribute_1, attribute_2,
// ...). Headings for these columns are passed through untranslated.
const AttributePrefix = "attribute_"

// Group is an ordered section of a survey.
type Group struct {
	ID    int    `json:"id" yaml:"id"`
	Title string `json:"title" yaml:"title"`
	Order int    `json:"order" yaml:"order"`
}

// Question describes one question or sub-question. Sub-questions reference
// their parent through ParentID (0 means top-level); nesting is one level
// deep only.
type Question struct {
	ID       int          `json:"id" yaml:"id"`
	ParentID int          `json:"parent_id" yaml:"parent_id"`
	GroupID  int          `json:"group_id" yaml:"group_id"`
	Language string       `json:"language" yaml:"language"`
	Code     string       `json:"code" yaml:"code"`
	Text     string       `json:"text" yaml:"text"`
	Type     QuestionType `json:"type" yaml:"type"`
	Other    bool         `json:"other,omitempty" yaml:"other,omitempty"` // has an other-specify cell
	Order    int          `json:"order" yaml:"order"`
}

// Answer is one selectable answer option, keyed by (question, scale, code).
// Questions may carry several scales; scale 0 is the default. Language is the
// language the option text is written in; storage backends use it to pick the
// right row when loading a localized structure.
type Answer struct {
	QuestionID int    `json:"question_id" yaml:"question_id"`
	ScaleID    int    `json:"scale_id" yaml:"scale_id"`
	Language   string `json:"language,omitempty" yaml:"language,omitempty"`
	Code       string `json:"code" yaml:"code"`
	Text       string `json:"text" yaml:"text"`
	Order      int    `json:"order" yaml:"order"`
}

// Token is one participant entry from the survey's token list. Attributes
// holds the survey-specific extra fields (attribute_1, ...).
type Token struct {
	Token      string            `json:"token" yaml:"token"`
	FirstName  string            `json:"firstname" yaml:"firstname"`
	LastName   string            `json:"lastname" yaml:"lastname"`
	Email      string            `json:"email" yaml:"email"`
	Attributes map[string]string `json:"attributes,omitempty" yaml:"attributes,omitempty"`
}

// LanguageSetting carries the per-language survey texts.
type LanguageSetting struct {
	Language    string `json:"language" yaml:"language"`
	Title       string `json:"title" yaml:"title"`
	Description string `json:"description,omitempty" yaml:"description,omitempty"`
}

// Field describes what one exportable column represents: either a plain meta
// column or a specific question / sub-question / answer-scale cell. Field-map
// keys are the column identifiers; they are unique within a survey.
type Field struct {
	Name       string       `json:"name"`
	Meta       bool         `json:"meta,omitempty"` // plain column, not backed by a question
	QuestionID int          `json:"question_id,omitempty"`
	GroupID    int          `json:"group_id,omitempty"`
	Type       QuestionType `json:"type,omitempty"`
	Code       string       `json:"code,omitempty"` // question code
	Text       string       `json:"text,omitempty"` // question text
	SubCode    string       `json:"sub_code,omitempty"`
	SubText    string       `json:"sub_text,omitempty"`
	ScaleID    int          `json:"scale_id"` // -1 when the cell is not scale-bound
	Other      bool         `json:"other,omitempty"`
	Comment    bool         `json:"comment,omitempty"`
}

// ResponseRow is one stored response, mapping column identifier to the raw
// stored value. A row is complete when its submitdate column is non-empty.
type ResponseRow map[string]string

// Survey is the in-memory representation of one survey: structure loaded once
// per export and read-only thereafter, plus the mutable response window that
// data access refills batch by batch.
type Survey struct {
	// Structure (immutable after load)
	ID               int               `json:"id" yaml:"id"`
	Language         string            `json:"language" yaml:"language"` // base language code
	Groups           []Group           `json:"groups" yaml:"groups"`
	Questions        []Question        `json:"questions" yaml:"questions"`
	Answers          []Answer          `json:"answers" yaml:"answers"`
	Tokens           []Token           `json:"tokens,omitempty" yaml:"tokens,omitempty"`
	LanguageSettings []LanguageSetting `json:"language_settings" yaml:"language_settings"`

	// Field map: column identifier -> descriptor. Built by BuildFieldMap
	// after the structure is loaded. FieldOrder preserves the export order.
	Fields     map[string]*Field `json:"-" yaml:"-"`
	FieldOrder []string          `json:"-" yaml:"-"`

	// Response window: at most one in-flight batch, replaced on each load.
	Responses []ResponseRow `json:"-" yaml:"-"`
}

// Complete reports whether the row carries a submission timestamp.
func (r ResponseRow) Complete() bool {
	return r[ColSubmitDate] != ""
}
