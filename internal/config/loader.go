package config

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"
)

// ErrEmptyQuestionnaire возвращается для анкеты без вопросов
var ErrEmptyQuestionnaire = errors.New("questionnaire has no questions")

// Load загружает анкету из YAML файла
func Load(filename string) (*Questionnaire, error) {
	data, err := os.ReadFile(filename)
	if err != nil {
		return nil, fmt.Errorf("ошибка чтения файла %s: %w", filename, err)
	}
	return Parse(data)
}

// Parse разбирает анкету и проверяет ее
func Parse(data []byte) (*Questionnaire, error) {
	var q Questionnaire
	if err := yaml.Unmarshal(data, &q); err != nil {
		return nil, fmt.Errorf("ошибка парсинга YAML: %w", err)
	}

	if err := validateQuestionnaire(&q); err != nil {
		return nil, fmt.Errorf("ошибка валидации анкеты: %w", err)
	}

	return &q, nil
}

// UnmarshalYAML принимает две формы анкеты:
//
//	domains:
//	  - name: Access Control
//	    questions: [...]
//
// или отображение "домен: [вопросы]", порядок ключей которого сохраняется.
func (q *Questionnaire) UnmarshalYAML(node *yaml.Node) error {
	if node.Kind != yaml.MappingNode {
		return fmt.Errorf("строка %d: анкета должна быть отображением", node.Line)
	}

	if isDomainList(node) {
		var list struct {
			Domains []Domain `yaml:"domains"`
		}
		if err := node.Decode(&list); err != nil {
			return err
		}
		q.Domains = list.Domains
		return nil
	}

	q.Domains = make([]Domain, 0, len(node.Content)/2)
	for i := 0; i+1 < len(node.Content); i += 2 {
		key, value := node.Content[i], node.Content[i+1]

		var questions []string
		if err := value.Decode(&questions); err != nil {
			return fmt.Errorf("строка %d: домен %q: %w", value.Line, key.Value, err)
		}
		q.Domains = append(q.Domains, Domain{Name: key.Value, Questions: questions})
	}
	return nil
}

// isDomainList отличает форму "domains: [{name, questions}]" от домена с именем "domains"
func isDomainList(node *yaml.Node) bool {
	if len(node.Content) != 2 || node.Content[0].Value != "domains" {
		return false
	}
	value := node.Content[1]
	if value.Kind != yaml.SequenceNode {
		return false
	}
	return len(value.Content) == 0 || value.Content[0].Kind == yaml.MappingNode
}

// validateQuestionnaire проверяет корректность анкеты.
// Домены без вопросов убираются из анкеты и перечисляются в Skipped.
func validateQuestionnaire(q *Questionnaire) error {
	seen := make(map[string]bool, len(q.Domains))
	kept := q.Domains[:0]
	for i, d := range q.Domains {
		name := strings.TrimSpace(d.Name)
		if name == "" {
			return fmt.Errorf("домен %d должен иметь name", i+1)
		}
		if seen[name] {
			return fmt.Errorf("домен %q указан дважды", name)
		}
		seen[name] = true

		if len(d.Questions) == 0 {
			q.Skipped = append(q.Skipped, name)
			continue
		}
		for j, question := range d.Questions {
			if strings.TrimSpace(question) == "" {
				return fmt.Errorf("домен %q: вопрос %d пустой", name, j+1)
			}
		}
		kept = append(kept, d)
	}
	q.Domains = kept

	if q.TotalQuestions() == 0 {
		return ErrEmptyQuestionnaire
	}
	return nil
}
