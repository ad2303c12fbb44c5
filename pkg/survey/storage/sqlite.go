package storage

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"log/slog"
	"strconv"
	"strings"
	"time"

	_ "github.com/mattn/go-sqlite3"

	"github.com/cedricOL/LimeSurvey/pkg/survey"
)

// SQLiteConfig carries the open parameters for the survey database.
type SQLiteConfig struct {
	// Path locates the database file.
	Path string

	// MaxOpenConns caps concurrently open connections.
	// Default: 10
	MaxOpenConns int

	// MaxIdleConns caps the idle pool.
	// Default: 5
	MaxIdleConns int

	// WALMode opens the database in write-ahead logging mode.
	// Default: true
	WALMode bool

	// BusyTimeout bounds the wait on a locked database.
	// Default: 5s
	BusyTimeout time.Duration
}

// DefaultSQLiteConfig mirrors the configuration defaults.
func DefaultSQLiteConfig() *SQLiteConfig {
	return &SQLiteConfig{
		Path:         "data/surveys.db",
		MaxOpenConns: 10,
		MaxIdleConns: 5,
		WALMode:      true,
		BusyTimeout:  5 * time.Second,
	}
}

// SQLiteStorage implements the survey.Storage interface using SQLite.
type SQLiteStorage struct {
	db     *sql.DB
	config *SQLiteConfig
	logger *slog.Logger
}

// NewSQLiteStorage opens the survey database at config.Path, applies the
// schema, and sets the configured pragmas. A nil config uses the defaults.
func NewSQLiteStorage(config *SQLiteConfig) (*SQLiteStorage, error) {
	if config == nil {
		config = DefaultSQLiteConfig()
	}

	logger := slog.Default().With("component", "survey.storage.sqlite")

	db, err := sql.Open("sqlite3", config.Path)
	if err != nil {
		return nil, survey.NewStorageError("sqlite", "open", err)
	}

	db.SetMaxOpenConns(config.MaxOpenConns)
	db.SetMaxIdleConns(config.MaxIdleConns)

	s := &SQLiteStorage{
		db:     db,
		config: config,
		logger: logger,
	}

	if err := s.initialize(); err != nil {
		db.Close()
		return nil, err
	}

	logger.Info("SQLite survey storage initialized",
		"path", config.Path,
		"wal_mode", config.WALMode,
		"max_open_conns", config.MaxOpenConns,
	)

	return s, nil
}

// initialize applies the pragmas, creates the schema, and pins its version.
func (s *SQLiteStorage) initialize() error {
	if s.config.WALMode {
		_, err := s.db.Exec("PRAGMA journal_mode=WAL;")
		if err != nil {
			return survey.NewStorageError("sqlite", "enable_wal", err)
		}
		s.logger.Debug("WAL mode enabled")
	}

	busyTimeoutMs := s.config.BusyTimeout.Milliseconds()
	_, err := s.db.Exec(fmt.Sprintf("PRAGMA busy_timeout=%d;", busyTimeoutMs))
	if err != nil {
		return survey.NewStorageError("sqlite", "set_busy_timeout", err)
	}

	_, err = s.db.Exec(Schema)
	if err != nil {
		return survey.NewStorageError("sqlite", "create_schema", err)
	}
	s.logger.Debug("database schema created")

	_, err = s.db.Exec(InsertSchemaVersion, SchemaVersion)
	if err != nil {
		return survey.NewStorageError("sqlite", "insert_schema_version", err)
	}

	var version int
	err = s.db.QueryRow(GetSchemaVersion).Scan(&version)
	if err != nil && err != sql.ErrNoRows {
		return survey.NewStorageError("sqlite", "get_schema_version", err)
	}

	if version != SchemaVersion {
		return survey.NewStorageError("sqlite", "schema_version_mismatch",
			fmt.Errorf("expected schema version %d, got %d", SchemaVersion, version))
	}

	s.logger.Debug("schema version verified", "version", version)

	return nil
}

// LoadStructure loads the full survey definition localized to the requested
// language. Texts missing in that language fall back to the survey's base
// language. The returned survey has its field map built and an empty response
// window.
func (s *SQLiteStorage) LoadStructure(ctx context.Context, surveyID int, language string) (*survey.Survey, error) {
	var baseLanguage string
	err := s.db.QueryRowContext(ctx,
		"SELECT base_language FROM surveys WHERE id = ?", surveyID).Scan(&baseLanguage)
	if err == sql.ErrNoRows {
		return nil, survey.NewNotFoundError(surveyID)
	}
	if err != nil {
		return nil, survey.NewStorageError("sqlite", "load_survey", err)
	}

	if language == "" {
		language = baseLanguage
	}

	sv := &survey.Survey{
		ID:       surveyID,
		Language: baseLanguage,
	}

	if err := s.loadLanguageSettings(ctx, sv); err != nil {
		return nil, err
	}
	if err := s.loadGroups(ctx, sv); err != nil {
		return nil, err
	}
	if err := s.loadQuestions(ctx, sv, language, baseLanguage); err != nil {
		return nil, err
	}
	if err := s.loadAnswers(ctx, sv, language, baseLanguage); err != nil {
		return nil, err
	}
	if err := s.loadTokens(ctx, sv); err != nil {
		return nil, err
	}

	sv.BuildFieldMap()

	s.logger.Debug("survey structure loaded",
		"survey_id", surveyID,
		"language", language,
		"questions", len(sv.Questions),
		"columns", len(sv.FieldOrder),
	)

	return sv, nil
}

func (s *SQLiteStorage) loadLanguageSettings(ctx context.Context, sv *survey.Survey) error {
	rows, err := s.db.QueryContext(ctx, `
		SELECT language, title, COALESCE(description, '')
		FROM survey_languages
		WHERE survey_id = ?
		ORDER BY language`,
		sv.ID)
	if err != nil {
		return survey.NewStorageError("sqlite", "load_language_settings", err)
	}
	defer rows.Close()

	for rows.Next() {
		var ls survey.LanguageSetting
		if err := rows.Scan(&ls.Language, &ls.Title, &ls.Description); err != nil {
			return survey.NewStorageError("sqlite", "scan_language_setting", err)
		}
		sv.LanguageSettings = append(sv.LanguageSettings, ls)
	}

	if err := rows.Err(); err != nil {
		return survey.NewStorageError("sqlite", "load_language_settings", err)
	}
	return nil
}

func (s *SQLiteStorage) loadGroups(ctx context.Context, sv *survey.Survey) error {
	rows, err := s.db.QueryContext(ctx, `
		SELECT gid, title, sort_order
		FROM question_groups
		WHERE survey_id = ?
		ORDER BY sort_order, gid`,
		sv.ID)
	if err != nil {
		return survey.NewStorageError("sqlite", "load_groups", err)
	}
	defer rows.Close()

	for rows.Next() {
		var g survey.Group
		if err := rows.Scan(&g.ID, &g.Title, &g.Order); err != nil {
			return survey.NewStorageError("sqlite", "scan_group", err)
		}
		sv.Groups = append(sv.Groups, g)
	}

	if err := rows.Err(); err != nil {
		return survey.NewStorageError("sqlite", "load_groups", err)
	}
	return nil
}

// loadQuestions loads one question row per question id, preferring the
// requested language and falling back to the base language row.
func (s *SQLiteStorage) loadQuestions(ctx context.Context, sv *survey.Survey, language, baseLanguage string) error {
	rows, err := s.db.QueryContext(ctx, `
		SELECT qid, parent_qid, gid, language, code, question, type, other_enabled, sort_order
		FROM questions
		WHERE survey_id = ? AND language IN (?, ?)
		ORDER BY sort_order, qid`,
		sv.ID, language, baseLanguage)
	if err != nil {
		return survey.NewStorageError("sqlite", "load_questions", err)
	}
	defer rows.Close()

	index := make(map[int]int)
	for rows.Next() {
		var q survey.Question
		var questionType string
		if err := rows.Scan(&q.ID, &q.ParentID, &q.GroupID, &q.Language,
			&q.Code, &q.Text, &questionType, &q.Other, &q.Order); err != nil {
			return survey.NewStorageError("sqlite", "scan_question", err)
		}
		q.Type = survey.QuestionType(questionType)

		if i, seen := index[q.ID]; seen {
			if q.Language == language {
				sv.Questions[i] = q
			}
			continue
		}
		index[q.ID] = len(sv.Questions)
		sv.Questions = append(sv.Questions, q)
	}

	if err := rows.Err(); err != nil {
		return survey.NewStorageError("sqlite", "load_questions", err)
	}
	return nil
}

// loadAnswers loads one answer option per (question, scale, code), with the
// same language preference as loadQuestions.
func (s *SQLiteStorage) loadAnswers(ctx context.Context, sv *survey.Survey, language, baseLanguage string) error {
	rows, err := s.db.QueryContext(ctx, `
		SELECT qid, scale_id, code, language, answer, sort_order
		FROM answer_options
		WHERE survey_id = ? AND language IN (?, ?)
		ORDER BY sort_order, qid, scale_id, code`,
		sv.ID, language, baseLanguage)
	if err != nil {
		return survey.NewStorageError("sqlite", "load_answers", err)
	}
	defer rows.Close()

	index := make(map[string]int)
	for rows.Next() {
		var a survey.Answer
		if err := rows.Scan(&a.QuestionID, &a.ScaleID, &a.Code, &a.Language, &a.Text, &a.Order); err != nil {
			return survey.NewStorageError("sqlite", "scan_answer", err)
		}

		key := fmt.Sprintf("%d:%d:%s", a.QuestionID, a.ScaleID, a.Code)
		if i, seen := index[key]; seen {
			if a.Language == language {
				sv.Answers[i] = a
			}
			continue
		}
		index[key] = len(sv.Answers)
		sv.Answers = append(sv.Answers, a)
	}

	if err := rows.Err(); err != nil {
		return survey.NewStorageError("sqlite", "load_answers", err)
	}
	return nil
}

func (s *SQLiteStorage) loadTokens(ctx context.Context, sv *survey.Survey) error {
	rows, err := s.db.QueryContext(ctx, `
		SELECT token, COALESCE(firstname, ''), COALESCE(lastname, ''), COALESCE(email, ''), COALESCE(attributes, '')
		FROM tokens
		WHERE survey_id = ?
		ORDER BY token`,
		sv.ID)
	if err != nil {
		return survey.NewStorageError("sqlite", "load_tokens", err)
	}
	defer rows.Close()

	for rows.Next() {
		var t survey.Token
		var attributes string
		if err := rows.Scan(&t.Token, &t.FirstName, &t.LastName, &t.Email, &attributes); err != nil {
			return survey.NewStorageError("sqlite", "scan_token", err)
		}
		if attributes != "" {
			json.Unmarshal([]byte(attributes), &t.Attributes)
		}
		sv.Tokens = append(sv.Tokens, t)
	}

	if err := rows.Err(); err != nil {
		return survey.NewStorageError("sqlite", "load_tokens", err)
	}
	return nil
}

// LoadResponses returns a window of response rows for the survey, ordered by
// response id ascending. When joinTokens is set, each row is merged with its
// participant's token columns through a left join; rows without a matching
// token keep those columns empty.
func (s *SQLiteStorage) LoadResponses(ctx context.Context, surveyID, limit, offset int, joinTokens bool) ([]survey.ResponseRow, error) {
	sqlQuery := `
		SELECT r.id, r.token, r.submitdate, r.startdate, r.datestamp,
		       r.ipaddr, r.refurl, r.lastpage, r.startlanguage, r.answers
		FROM responses r
		WHERE r.survey_id = ?
		ORDER BY r.id ASC
		LIMIT ? OFFSET ?`
	if joinTokens {
		sqlQuery = `
		SELECT r.id, r.token, r.submitdate, r.startdate, r.datestamp,
		       r.ipaddr, r.refurl, r.lastpage, r.startlanguage, r.answers,
		       t.firstname, t.lastname, t.email, t.attributes
		FROM responses r
		LEFT JOIN tokens t ON t.survey_id = r.survey_id AND t.token = r.token
		WHERE r.survey_id = ?
		ORDER BY r.id ASC
		LIMIT ? OFFSET ?`
	}

	// A negative LIMIT means unlimited in SQLite; normalize so limit <= 0
	// behaves the same as the memory backend
	if limit <= 0 {
		limit = -1
	}

	rows, err := s.db.QueryContext(ctx, sqlQuery, surveyID, limit, offset)
	if err != nil {
		return nil, survey.NewStorageError("sqlite", "load_responses", err)
	}
	defer rows.Close()

	out := []survey.ResponseRow{}
	for rows.Next() {
		row, err := s.scanResponse(rows, joinTokens)
		if err != nil {
			return nil, survey.NewStorageError("sqlite", "scan_response", err)
		}
		out = append(out, row)
	}

	if err := rows.Err(); err != nil {
		return nil, survey.NewStorageError("sqlite", "load_responses", err)
	}

	return out, nil
}

// scanResponse scans a database row into a ResponseRow. Meta columns live in
// dedicated response columns; everything else comes out of the answers JSON
// object.
func (s *SQLiteStorage) scanResponse(rows *sql.Rows, joined bool) (survey.ResponseRow, error) {
	var (
		id            int
		token         sql.NullString
		submitdate    sql.NullString
		startdate     sql.NullString
		datestamp     sql.NullString
		ipaddr        sql.NullString
		refurl        sql.NullString
		lastpage      sql.NullInt64
		startlanguage sql.NullString
		answers       string
		firstname     sql.NullString
		lastname      sql.NullString
		email         sql.NullString
		attributes    sql.NullString
	)

	dest := []interface{}{
		&id, &token, &submitdate, &startdate, &datestamp,
		&ipaddr, &refurl, &lastpage, &startlanguage, &answers,
	}
	if joined {
		dest = append(dest, &firstname, &lastname, &email, &attributes)
	}
	if err := rows.Scan(dest...); err != nil {
		return nil, err
	}

	row := survey.ResponseRow{}
	if answers != "" {
		if err := json.Unmarshal([]byte(answers), &row); err != nil {
			return nil, fmt.Errorf("decode answers for response %d: %w", id, err)
		}
	}

	row[survey.ColID] = strconv.Itoa(id)
	row[survey.ColToken] = token.String
	row[survey.ColSubmitDate] = submitdate.String
	row[survey.ColStartDate] = startdate.String
	row[survey.ColDateStamp] = datestamp.String
	row[survey.ColIPAddr] = ipaddr.String
	row[survey.ColRefURL] = refurl.String
	row[survey.ColStartLanguage] = startlanguage.String
	if lastpage.Valid {
		row[survey.ColLastPage] = strconv.FormatInt(lastpage.Int64, 10)
	} else {
		row[survey.ColLastPage] = ""
	}

	if joined {
		row[survey.ColFirstName] = firstname.String
		row[survey.ColLastName] = lastname.String
		row[survey.ColEmail] = email.String
		if attributes.Valid && attributes.String != "" {
			attrs := map[string]string{}
			json.Unmarshal([]byte(attributes.String), &attrs)
			for k, v := range attrs {
				row[k] = v
			}
		}
	}

	return row, nil
}

// CountResponses returns the number of stored responses for the survey.
func (s *SQLiteStorage) CountResponses(ctx context.Context, surveyID int) (int, error) {
	var count int
	err := s.db.QueryRowContext(ctx,
		"SELECT COUNT(*) FROM responses WHERE survey_id = ?", surveyID).Scan(&count)
	if err != nil {
		return 0, survey.NewStorageError("sqlite", "count_responses", err)
	}
	return count, nil
}

// SaveSurvey persists the survey definition, replacing any previous definition
// with the same id. Stored responses are left untouched. Questions and answer
// options with an empty Language are stored under the survey's base language.
func (s *SQLiteStorage) SaveSurvey(ctx context.Context, sv *survey.Survey) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return survey.NewStorageError("sqlite", "begin", err)
	}
	defer tx.Rollback()

	for _, stmt := range []string{
		"DELETE FROM surveys WHERE id = ?",
		"DELETE FROM survey_languages WHERE survey_id = ?",
		"DELETE FROM question_groups WHERE survey_id = ?",
		"DELETE FROM questions WHERE survey_id = ?",
		"DELETE FROM answer_options WHERE survey_id = ?",
		"DELETE FROM tokens WHERE survey_id = ?",
	} {
		if _, err := tx.ExecContext(ctx, stmt, sv.ID); err != nil {
			return survey.NewStorageError("sqlite", "clear_survey", err)
		}
	}

	if _, err := tx.ExecContext(ctx,
		"INSERT INTO surveys (id, base_language, created_at) VALUES (?, ?, datetime('now'))",
		sv.ID, sv.Language); err != nil {
		return survey.NewStorageError("sqlite", "insert_survey", err)
	}

	for _, ls := range sv.LanguageSettings {
		if _, err := tx.ExecContext(ctx,
			"INSERT INTO survey_languages (survey_id, language, title, description) VALUES (?, ?, ?, ?)",
			sv.ID, ls.Language, ls.Title, ls.Description); err != nil {
			return survey.NewStorageError("sqlite", "insert_language_setting", err)
		}
	}

	for _, g := range sv.Groups {
		if _, err := tx.ExecContext(ctx,
			"INSERT INTO question_groups (survey_id, gid, title, sort_order) VALUES (?, ?, ?, ?)",
			sv.ID, g.ID, g.Title, g.Order); err != nil {
			return survey.NewStorageError("sqlite", "insert_group", err)
		}
	}

	for _, q := range sv.Questions {
		language := q.Language
		if language == "" {
			language = sv.Language
		}
		if _, err := tx.ExecContext(ctx, `
			INSERT INTO questions (survey_id, qid, parent_qid, gid, language, code, question, type, other_enabled, sort_order)
			VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
			sv.ID, q.ID, q.ParentID, q.GroupID, language,
			q.Code, q.Text, string(q.Type), q.Other, q.Order); err != nil {
			return survey.NewStorageError("sqlite", "insert_question", err)
		}
	}

	for _, a := range sv.Answers {
		language := a.Language
		if language == "" {
			language = sv.Language
		}
		if _, err := tx.ExecContext(ctx, `
			INSERT INTO answer_options (survey_id, qid, scale_id, code, language, answer, sort_order)
			VALUES (?, ?, ?, ?, ?, ?, ?)`,
			sv.ID, a.QuestionID, a.ScaleID, a.Code, language, a.Text, a.Order); err != nil {
			return survey.NewStorageError("sqlite", "insert_answer", err)
		}
	}

	for _, t := range sv.Tokens {
		attributes := ""
		if len(t.Attributes) > 0 {
			raw, err := json.Marshal(t.Attributes)
			if err != nil {
				return survey.NewStorageError("sqlite", "marshal_token_attributes", err)
			}
			attributes = string(raw)
		}
		if _, err := tx.ExecContext(ctx, `
			INSERT INTO tokens (survey_id, token, firstname, lastname, email, attributes)
			VALUES (?, ?, ?, ?, ?, ?)`,
			sv.ID, t.Token, t.FirstName, t.LastName, t.Email, attributes); err != nil {
			return survey.NewStorageError("sqlite", "insert_token", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return survey.NewStorageError("sqlite", "commit", err)
	}

	s.logger.Debug("survey saved",
		"survey_id", sv.ID,
		"questions", len(sv.Questions),
		"tokens", len(sv.Tokens),
	)

	return nil
}

// SaveResponses appends response rows to the survey. Rows without an id column
// are assigned the next free id; an incomplete row stores a NULL submitdate.
func (s *SQLiteStorage) SaveResponses(ctx context.Context, surveyID int, responseRows []survey.ResponseRow) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return survey.NewStorageError("sqlite", "begin", err)
	}
	defer tx.Rollback()

	var nextID int
	if err := tx.QueryRowContext(ctx,
		"SELECT COALESCE(MAX(id), 0) FROM responses WHERE survey_id = ?", surveyID).Scan(&nextID); err != nil {
		return survey.NewStorageError("sqlite", "next_response_id", err)
	}

	for _, row := range responseRows {
		id := nextID + 1
		if v := row[survey.ColID]; v != "" {
			parsed, convErr := strconv.Atoi(v)
			if convErr != nil {
				return survey.NewStorageError("sqlite", "response_id",
					fmt.Errorf("response id %q is not numeric", v))
			}
			id = parsed
		}
		if id > nextID {
			nextID = id
		}

		answers, err := json.Marshal(answerCells(row))
		if err != nil {
			return survey.NewStorageError("sqlite", "marshal_answers", err)
		}

		// NULL submitdate marks an incomplete response
		var submitdate interface{}
		if v := row[survey.ColSubmitDate]; v != "" {
			submitdate = v
		}

		var lastpage interface{}
		if v := row[survey.ColLastPage]; v != "" {
			if n, convErr := strconv.Atoi(v); convErr == nil {
				lastpage = n
			}
		}

		if _, err := tx.ExecContext(ctx, `
			INSERT INTO responses (survey_id, id, token, submitdate, startdate, datestamp, ipaddr, refurl, lastpage, startlanguage, answers)
			VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
			surveyID, id, row[survey.ColToken], submitdate,
			row[survey.ColStartDate], row[survey.ColDateStamp],
			row[survey.ColIPAddr], row[survey.ColRefURL],
			lastpage, row[survey.ColStartLanguage], string(answers)); err != nil {
			return survey.NewStorageError("sqlite", "insert_response", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return survey.NewStorageError("sqlite", "commit", err)
	}

	s.logger.Debug("responses saved", "survey_id", surveyID, "rows", len(responseRows))

	return nil
}

// Close closes the database handle.
func (s *SQLiteStorage) Close() error {
	if err := s.db.Close(); err != nil {
		return survey.NewStorageError("sqlite", "close", err)
	}
	s.logger.Info("SQLite survey storage closed")
	return nil
}

// metaColumns are stored in dedicated response columns rather than the answers
// JSON object. Token-derived columns are never stored on the response at all;
// they are joined back in at read time.
var metaColumns = map[string]bool{
	survey.ColID:            true,
	survey.ColToken:         true,
	survey.ColSubmitDate:    true,
	survey.ColStartDate:     true,
	survey.ColDateStamp:     true,
	survey.ColIPAddr:        true,
	survey.ColRefURL:        true,
	survey.ColLastPage:      true,
	survey.ColStartLanguage: true,
	survey.ColFirstName:     true,
	survey.ColLastName:      true,
	survey.ColEmail:         true,
}

// answerCells filters a response row down to the answer cells that belong in
// the answers JSON object.
func answerCells(row survey.ResponseRow) map[string]string {
	out := make(map[string]string, len(row))
	for k, v := range row {
		if metaColumns[k] || strings.HasPrefix(k, survey.AttributePrefix) {
			continue
		}
		out[k] = v
	}
	return out
}
