// Package storage persists survey definitions and response data.
//
// Two survey.Storage implementations live here. NewSQLiteStorage is the
// durable backend: one database file, opened in WAL mode so response reads
// can overlap with seeding. NewMemoryStorage keeps everything in
// process-local maps; it is the "memory" backend choice and carries most
// tests.
//
// # Data layout
//
// Survey structure is relational: surveys, per-language texts, question
// groups, questions (one row per language), answer options and participant
// tokens each live in their own table. Response rows store their meta columns
// (id, token, timestamps, ...) in dedicated columns and everything else as a
// single JSON object keyed by column identifier, so the response table does
// not change shape when surveys do. The schema is applied on open and its
// version recorded in schema_version, which is where future migrations hook
// in.
//
// # Localization
//
// LoadStructure takes the requested export language and resolves every
// question and answer text to that language, falling back to the survey's
// base language where no translation exists. The returned survey is fully
// localized; nothing downstream needs to know about other languages.
//
// # Reading responses
//
// Responses come out in fixed windows ordered by response id, which is what
// the export engine's batch loop consumes:
//
//	store, err := storage.NewSQLiteStorage(&storage.SQLiteConfig{
//	    Path:        "data/surveys.db",
//	    WALMode:     true,
//	    BusyTimeout: 5 * time.Second,
//	})
//	if err != nil {
//	    log.Fatal(err)
//	}
//	defer store.Close()
//
//	sv, err := store.LoadStructure(ctx, 1042, "en")
//	if err != nil {
//	    log.Fatal(err)
//	}
//	rows, err := store.LoadResponses(ctx, 1042, 100, 0, len(sv.Tokens) > 0)
//
// Both backends tolerate concurrent reads from independent exports; the
// memory backend serializes everything behind a read-write mutex.
package storage
