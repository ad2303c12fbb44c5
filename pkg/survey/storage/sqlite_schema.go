package storage

// SchemaVersion identifies the table layout produced by Schema.
const SchemaVersion = 1

// Schema creates the survey tables plus the indexes the loaders lean on.
const Schema = `
-- Surveys
CREATE TABLE IF NOT EXISTS surveys (
    id INTEGER PRIMARY KEY,
    base_language TEXT NOT NULL,
    created_at TIMESTAMP NOT NULL
);

-- Per-language survey texts
CREATE TABLE IF NOT EXISTS survey_languages (
    survey_id INTEGER NOT NULL,
    language TEXT NOT NULL,
    title TEXT NOT NULL,
    description TEXT,
    PRIMARY KEY (survey_id, language)
);

-- Question groups
CREATE TABLE IF NOT EXISTS question_groups (
    survey_id INTEGER NOT NULL,
    gid INTEGER NOT NULL,
    title TEXT NOT NULL,
    sort_order INTEGER NOT NULL,
    PRIMARY KEY (survey_id, gid)
);

-- Questions and sub-questions, one row per language
CREATE TABLE IF NOT EXISTS questions (
    survey_id INTEGER NOT NULL,
    qid INTEGER NOT NULL,
    parent_qid INTEGER NOT NULL DEFAULT 0,
    gid INTEGER NOT NULL,
    language TEXT NOT NULL,
    code TEXT NOT NULL,
    question TEXT NOT NULL,
    type TEXT NOT NULL,
    other_enabled BOOLEAN NOT NULL DEFAULT 0,
    sort_order INTEGER NOT NULL,
    PRIMARY KEY (survey_id, qid, language)
);

-- Answer options, one row per language
CREATE TABLE IF NOT EXISTS answer_options (
    survey_id INTEGER NOT NULL,
    qid INTEGER NOT NULL,
    scale_id INTEGER NOT NULL DEFAULT 0,
    code TEXT NOT NULL,
    language TEXT NOT NULL,
    answer TEXT NOT NULL,
    sort_order INTEGER NOT NULL,
    PRIMARY KEY (survey_id, qid, scale_id, code, language)
);

-- Participant tokens
CREATE TABLE IF NOT EXISTS tokens (
    survey_id INTEGER NOT NULL,
    token TEXT NOT NULL,
    firstname TEXT,
    lastname TEXT,
    email TEXT,
    attributes TEXT,
    PRIMARY KEY (survey_id, token)
);

-- Responses; answer cells are stored as one JSON object keyed by column id
CREATE TABLE IF NOT EXISTS responses (
    survey_id INTEGER NOT NULL,
    id INTEGER NOT NULL,
    token TEXT,
    submitdate TEXT,
    startdate TEXT,
    datestamp TEXT,
    ipaddr TEXT,
    refurl TEXT,
    lastpage INTEGER,
    startlanguage TEXT,
    answers TEXT NOT NULL,
    PRIMARY KEY (survey_id, id)
);

-- Schema version table
CREATE TABLE IF NOT EXISTS schema_version (
    version INTEGER PRIMARY KEY,
    applied_at TIMESTAMP NOT NULL
);

-- Indexes for structure loads and windowed response reads
CREATE INDEX IF NOT EXISTS idx_questions_survey_parent ON questions(survey_id, parent_qid);
CREATE INDEX IF NOT EXISTS idx_answer_options_survey_question ON answer_options(survey_id, qid);
CREATE INDEX IF NOT EXISTS idx_responses_survey_id ON responses(survey_id, id);
CREATE INDEX IF NOT EXISTS idx_tokens_survey_token ON tokens(survey_id, token);
`

// InsertSchemaVersion records the schema version; reapplying it is a no-op.
const InsertSchemaVersion = `
INSERT INTO schema_version (version, applied_at)
VALUES (?, datetime('now'))
ON CONFLICT(version) DO NOTHING;
`

// GetSchemaVersion reads back the highest recorded schema version.
const GetSchemaVersion = `
SELECT version FROM schema_version ORDER BY version DESC LIMIT 1;
`
