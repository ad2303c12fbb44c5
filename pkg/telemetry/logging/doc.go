// Package logging builds the export engine's slog loggers with respondent
// PII redaction attached.
//
// A logger is a slog handler chain: the JSON or text encoder at the bottom,
// a redacting handler above it, and a context handler on top that appends
// export metadata carried in the context. Redaction lives in the chain, not
// in wrapper methods, so every logger derived from it redacts, including a
// slog.Default() installed from Slog().
//
//	logger, err := logging.New(logging.Config{
//	    Level:     "info",
//	    Format:    "json",
//	    RedactPII: true,
//	})
//	...
//	ctx = logging.WithJobID(ctx, "0f7c2a1e")
//	ctx = logging.WithSurveyID(ctx, 123456)
//	logger.InfoContext(ctx, "batch rendered",
//	    "token", "Xa9Qk24PmW3r",  // redacted before encoding
//	    "rows", 100,
//	)
//
// # What gets redacted
//
// Survey responses identify real people, so with RedactPII enabled the
// respondent's data never reaches the output in full. Access tokens, email
// addresses, and IP addresses are rewritten by pattern, and free text that
// looks like an SSN, credit card, or phone number is blanked. Fields keyed
// token, email, firstname, lastname, or ipaddr (the participant columns)
// are masked by key name regardless of value, keeping a short prefix as a
// correlation hint. Messages run through the same pattern list as string
// fields.
//
// # Where logs go
//
// Logs default to stderr so display exports written to stdout stay
// machine-readable. Components that take a *slog.Logger share the process
// logger through Slog(); redaction stays attached.
package logging
