package logging

import (
	"log/slog"
	"regexp"
	"strings"

	"github.com/cedricOL/LimeSurvey/pkg/config"
)

// Redactor scrubs respondent PII from log output. Survey responses carry
// access tokens, email addresses, IP addresses and free-text answers, any
// of which can surface in a log field or message.
//
// Two mechanisms apply. Fields whose key names participant or credential
// data (token, email, firstname, ...) are masked outright, keeping a short
// correlation hint. All other string values run through the pattern list.
type Redactor struct {
	patterns []redactPattern
}

type redactPattern struct {
	name        string
	regex       *regexp.Regexp
	replacement string
}

// defaultPatterns apply in order, so overlapping matches redact the same
// way on every run. Custom patterns run after them.
var defaultPatterns = []redactPattern{
	// Participant access codes written into free text, as in
	// "token=Xa9Qk24PmW3r".
	{
		name:        "token",
		regex:       regexp.MustCompile(`(token|access[-_]?code)[-_:=]\s*[a-zA-Z0-9]+`),
		replacement: "$1: ***",
	},
	// Email addresses.
	{
		name:        "email",
		regex:       regexp.MustCompile(`[a-zA-Z0-9._%+-]+@[a-zA-Z0-9.-]+\.[a-zA-Z]{2,}`),
		replacement: "***@***",
	},
	// Numbers shaped like SSNs in free-text answers.
	{
		name:        "ssn",
		regex:       regexp.MustCompile(`\b\d{3}[-\s]?\d{2}[-\s]?\d{4}\b`),
		replacement: "***-**-****",
	},
	// Numbers shaped like credit cards in free-text answers.
	{
		name:        "credit_card",
		regex:       regexp.MustCompile(`\b(?:\d[ -]*?){13,16}\b`),
		replacement: "****-****-****-****",
	},
	// Respondent IPv4 addresses keep their first octet.
	{
		name:        "ipv4",
		regex:       regexp.MustCompile(`\b(\d{1,3})\.\d{1,3}\.\d{1,3}\.\d{1,3}\b`),
		replacement: "$1.*.*.*",
	},
	// Respondent IPv6 addresses.
	{
		name:        "ipv6",
		regex:       regexp.MustCompile(`\b(?:[0-9a-fA-F]{1,4}:){7}[0-9a-fA-F]{1,4}\b`),
		replacement: "****:****:****:****:****:****:****:****",
	},
	// Phone numbers.
	{
		name:        "phone",
		regex:       regexp.MustCompile(`\b(?:\+?1[-.\s]?)?\(?\d{3}\)?[-.\s]?\d{3}[-.\s]?\d{4}\b`),
		replacement: "***-***-****",
	},
	// Credentials in connection strings.
	{
		name:        "password",
		regex:       regexp.MustCompile(`(password|passwd|pwd)[:=]\s*[^\s]+`),
		replacement: "$1: ***",
	},
}

// sensitiveKeys mark fields masked by key name alone. Matching is a
// case-insensitive substring test, so response_token and UserEmail are
// caught too.
var sensitiveKeys = []string{
	"token", "access_code",
	"email", "firstname", "lastname", "ipaddr",
	"password", "passwd", "pwd", "secret", "dsn",
}

// NewRedactor builds a redactor from the default pattern list plus the
// configured custom patterns. A custom pattern named like a default
// replaces it; uncompilable patterns are rejected by config validation and
// skipped here should one arrive through a hand-built Config.
func NewRedactor(custom []config.RedactPattern) *Redactor {
	patterns := make([]redactPattern, len(defaultPatterns))
	copy(patterns, defaultPatterns)

	for _, p := range custom {
		regex, err := regexp.Compile(p.Pattern)
		if err != nil {
			continue
		}
		compiled := redactPattern{name: p.Name, regex: regex, replacement: p.Replacement}
		replaced := false
		for i := range patterns {
			if patterns[i].name == p.Name {
				patterns[i] = compiled
				replaced = true
				break
			}
		}
		if !replaced {
			patterns = append(patterns, compiled)
		}
	}

	return &Redactor{patterns: patterns}
}

// Redact returns the attribute with PII scrubbed. Group members are walked
// recursively and lazy LogValuer values are resolved first.
func (r *Redactor) Redact(a slog.Attr) slog.Attr {
	a.Value = a.Value.Resolve()

	switch a.Value.Kind() {
	case slog.KindGroup:
		members := a.Value.Group()
		clean := make([]any, len(members))
		for i, m := range members {
			clean[i] = r.Redact(m)
		}
		return slog.Group(a.Key, clean...)
	case slog.KindString:
		if isSensitiveKey(a.Key) {
			return slog.String(a.Key, mask(a.Value.String()))
		}
		return slog.String(a.Key, r.RedactString(a.Value.String()))
	default:
		if isSensitiveKey(a.Key) {
			return slog.String(a.Key, "***")
		}
		return a
	}
}

// RedactString runs a string through the pattern list.
func (r *Redactor) RedactString(s string) string {
	if s == "" {
		return s
	}
	for _, p := range r.patterns {
		s = p.regex.ReplaceAllString(s, p.replacement)
	}
	return s
}

// mask hides a sensitive value, keeping a short prefix as a correlation
// hint for operators grepping their own logs.
func mask(s string) string {
	if s == "" {
		return ""
	}
	if len(s) <= 4 {
		return "***"
	}
	return s[:4] + "***"
}

func isSensitiveKey(key string) bool {
	key = strings.ToLower(key)
	for _, s := range sensitiveKeys {
		if strings.Contains(key, s) {
			return true
		}
	}
	return false
}
