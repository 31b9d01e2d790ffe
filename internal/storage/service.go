package storage

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"risk-interview-bot/internal/validator"
)

const DefaultReportPath = "risk_assessment_report.json"

// FileSink пишет отчет в JSON файл целиком
type FileSink struct {
	path string
}

func NewFileSink(path string) *FileSink {
	if path == "" {
		path = DefaultReportPath
	}
	return &FileSink{path: path}
}

func (s *FileSink) Location() string {
	return s.path
}

// Write сериализует записи и атомарно заменяет файл отчета:
// данные пишутся во временный файл рядом, затем переименовываются.
func (s *FileSink) Write(records []AnswerRecord) (err error) {
	if records == nil {
		records = []AnswerRecord{}
	}

	jsonData, err := json.MarshalIndent(records, "", "    ")
	if err != nil {
		return fmt.Errorf("ошибка сериализации отчета: %w", err)
	}

	dir := filepath.Dir(s.path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("ошибка создания директории %s: %w", dir, err)
	}

	tmp, err := os.CreateTemp(dir, filepath.Base(s.path)+".*.tmp")
	if err != nil {
		return fmt.Errorf("ошибка создания временного файла: %w", err)
	}
	defer func() {
		if err != nil {
			tmp.Close()
			os.Remove(tmp.Name())
		}
	}()

	if _, err = tmp.Write(jsonData); err != nil {
		return fmt.Errorf("ошибка записи файла %s: %w", tmp.Name(), err)
	}
	if err = tmp.Sync(); err != nil {
		return fmt.Errorf("ошибка сброса файла %s: %w", tmp.Name(), err)
	}
	if err = tmp.Close(); err != nil {
		return fmt.Errorf("ошибка закрытия файла %s: %w", tmp.Name(), err)
	}
	if err = os.Chmod(tmp.Name(), 0644); err != nil {
		return fmt.Errorf("ошибка установки прав %s: %w", tmp.Name(), err)
	}
	if err = os.Rename(tmp.Name(), s.path); err != nil {
		return fmt.Errorf("ошибка замены файла %s: %w", s.path, err)
	}

	return nil
}

// LoadReport загружает отчет из JSON файла
func LoadReport(path string) ([]AnswerRecord, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("ошибка чтения файла %s: %w", path, err)
	}

	var records []AnswerRecord
	if err := json.Unmarshal(data, &records); err != nil {
		return nil, fmt.Errorf("ошибка десериализации JSON: %w", err)
	}

	for i, rec := range records {
		token, err := validator.ParseToken(string(rec.Answer))
		if err != nil {
			return nil, fmt.Errorf("запись %d (%q): %w", i, rec.Question, err)
		}
		records[i].Answer = token
	}

	return records, nil
}
