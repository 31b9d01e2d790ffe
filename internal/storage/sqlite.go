package storage

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	_ "modernc.org/sqlite"

	"risk-interview-bot/internal/validator"
)

const createAnswersTableSQL = `
CREATE TABLE IF NOT EXISTS answers (
	position INTEGER PRIMARY KEY,
	question TEXT NOT NULL UNIQUE,
	answer TEXT NOT NULL,
	entire_answer TEXT NOT NULL,
	saved_at_utc TEXT NOT NULL
)`

const deleteAnswersSQL = `DELETE FROM answers`

const insertAnswerSQL = `
INSERT INTO answers (
	position,
	question,
	answer,
	entire_answer,
	saved_at_utc
) VALUES (?, ?, ?, ?, ?)`

const selectAnswersSQL = `SELECT question, answer, entire_answer FROM answers ORDER BY position`

// SQLiteSink дублирует отчет в таблицу answers.
// Каждый Write заменяет содержимое таблицы в одной транзакции.
type SQLiteSink struct {
	db   *sql.DB
	path string
}

func OpenSQLiteSink(dbPath string) (*SQLiteSink, error) {
	if strings.TrimSpace(dbPath) == "" {
		return nil, fmt.Errorf("db path is required")
	}
	if err := os.MkdirAll(filepath.Dir(dbPath), 0755); err != nil {
		return nil, fmt.Errorf("create sqlite dir: %w", err)
	}

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open sqlite db: %w", err)
	}
	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping sqlite db: %w", err)
	}
	if _, err := db.Exec(createAnswersTableSQL); err != nil {
		db.Close()
		return nil, fmt.Errorf("create answers table: %w", err)
	}

	return &SQLiteSink{db: db, path: dbPath}, nil
}

func (s *SQLiteSink) Location() string {
	return s.path
}

func (s *SQLiteSink) Close() error {
	if s == nil || s.db == nil {
		return nil
	}
	return s.db.Close()
}

func (s *SQLiteSink) Write(records []AnswerRecord) error {
	tx, err := s.db.Begin()
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.Exec(deleteAnswersSQL); err != nil {
		return fmt.Errorf("clear answers: %w", err)
	}

	stmt, err := tx.Prepare(insertAnswerSQL)
	if err != nil {
		return fmt.Errorf("prepare insert: %w", err)
	}
	defer stmt.Close()

	savedAt := time.Now().UTC().Format(time.RFC3339)
	for i, rec := range records {
		if _, err := stmt.Exec(i, rec.Question, string(rec.Answer), rec.EntireAnswer, savedAt); err != nil {
			return fmt.Errorf("insert answer %d: %w", i, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit answers: %w", err)
	}
	return nil
}

// Load читает сохраненный отчет в исходном порядке
func (s *SQLiteSink) Load() ([]AnswerRecord, error) {
	rows, err := s.db.Query(selectAnswersSQL)
	if err != nil {
		return nil, fmt.Errorf("select answers: %w", err)
	}
	defer rows.Close()

	records := []AnswerRecord{}
	for rows.Next() {
		var rec AnswerRecord
		var answer string
		if err := rows.Scan(&rec.Question, &answer, &rec.EntireAnswer); err != nil {
			return nil, fmt.Errorf("scan answer: %w", err)
		}
		token, err := validator.ParseToken(answer)
		if err != nil {
			return nil, fmt.Errorf("answer for %q: %w", rec.Question, err)
		}
		rec.Answer = token
		records = append(records, rec)
	}
	return records, rows.Err()
}
