package export

import (
	"html"
	"regexp"
	"strings"

	"github.com/cedricOL/LimeSurvey/pkg/i18n"
	"github.com/cedricOL/LimeSurvey/pkg/survey"
)

// metaHeadingKeys maps the standard response columns to their translation
// dictionary keys. Columns outside this map are not meta fields; their
// headers come from the survey structure instead.
var metaHeadingKeys = map[string]string{
	survey.ColID:            "heading.id",
	survey.ColToken:         "heading.token",
	survey.ColSubmitDate:    "heading.submitdate",
	survey.ColStartDate:     "heading.startdate",
	survey.ColDateStamp:     "heading.datestamp",
	survey.ColIPAddr:        "heading.ipaddr",
	survey.ColRefURL:        "heading.refurl",
	survey.ColLastPage:      "heading.lastpage",
	survey.ColStartLanguage: "heading.startlanguage",
	survey.ColFirstName:     "heading.firstname",
	survey.ColLastName:      "heading.lastname",
	survey.ColEmail:         "heading.email",
}

// MetaHeading resolves the localized header of a standard response column.
// The second result is false when the column is not a meta field; the caller
// then derives a structural heading from the survey instead.
func MetaHeading(translator *i18n.Translator, column, language string) (string, bool) {
	key, ok := metaHeadingKeys[column]
	if !ok {
		return "", false
	}
	return translator.Resolve(key, language), true
}

// Heading resolves the header text for one selected column. Attribute
// bookkeeping columns pass through untranslated; meta columns translate
// through the dictionary, except in code mode where the column identifier
// itself is the header (keeping code exports re-importable); question columns
// follow the heading mode. Space-to-underscore substitution applies last.
func Heading(s *survey.Survey, translator *i18n.Translator, language string, opts *Options, column string) string {
	h := headingText(s, translator, language, opts, column)
	if opts.SpaceToUnderscore {
		h = strings.ReplaceAll(h, " ", "_")
	}
	return h
}

func headingText(s *survey.Survey, translator *i18n.Translator, language string, opts *Options, column string) string {
	if strings.HasPrefix(column, survey.AttributePrefix) {
		return column
	}

	f, ok := s.Fields[column]
	if !ok || f.Meta {
		if opts.Headings == HeadingCode {
			return column
		}
		if h, isMeta := MetaHeading(translator, column, language); isMeta {
			if opts.Headings == HeadingAbbreviated {
				return abbreviate(h)
			}
			return h
		}
		// Unknown column: keep the identifier rather than dropping the
		// header.
		return column
	}

	switch opts.Headings {
	case HeadingAbbreviated:
		h := abbreviate(FlattenText(f.Text))
		if f.SubCode != "" {
			h += " [" + f.SubCode + "]"
		}
		return h
	case HeadingFull:
		return joinHeading(FlattenText(f.Text), subHeading(f, FlattenText(f.SubText)))
	default:
		return joinHeading(f.Code, subHeading(f, f.SubCode))
	}
}

// subHeading derives the qualifier appended to full and code headings. Other
// and comment cells carry fixed markers; sub-question cells carry their label
// (full mode) or code (code mode) in brackets.
func subHeading(f *survey.Field, subLabel string) string {
	switch {
	case f.Other:
		return "[Other]"
	case f.Comment:
		return "- comment"
	case subLabel != "":
		return "[" + subLabel + "]"
	}
	return ""
}

func joinHeading(base, sub string) string {
	if sub == "" {
		return base
	}
	return base + " " + sub
}

var (
	tagPattern   = regexp.MustCompile(`<[^>]*>`)
	spacePattern = regexp.MustCompile(`\s+`)
)

// FlattenText reduces survey markup to plain text: tags are stripped, HTML
// entities decoded, and whitespace runs collapsed to single spaces.
func FlattenText(s string) string {
	if s == "" {
		return ""
	}
	s = tagPattern.ReplaceAllString(s, " ")
	s = html.UnescapeString(s)
	return strings.TrimSpace(spacePattern.ReplaceAllString(s, " "))
}

// abbreviatedLength is the number of leading characters the abbreviated
// heading mode keeps.
const abbreviatedLength = 15

// abbreviate shortens a heading to its leading characters with a trailing
// ellipsis. Headings within the limit come back unchanged, so a short
// question text can still coincide with its code.
func abbreviate(s string) string {
	runes := []rune(s)
	if len(runes) <= abbreviatedLength {
		return s
	}
	return string(runes[:abbreviatedLength]) + "..."
}
