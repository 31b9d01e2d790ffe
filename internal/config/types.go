package config

// Questionnaire анкета, сгруппированная по доменам.
// Порядок доменов и вопросов внутри домена сохраняется.
type Questionnaire struct {
	Domains []Domain `yaml:"domains"`
	// Skipped домены без вопросов, пропущенные при загрузке
	Skipped []string `yaml:"-"`
}

// Domain представляет один домен анкеты
type Domain struct {
	Name      string   `yaml:"name"`
	Questions []string `yaml:"questions"`
}

// Item пара (домен, вопрос)
type Item struct {
	Domain   string
	Question string
}

// Items разворачивает анкету в плоский список: домены по порядку, затем вопросы по порядку
func (q *Questionnaire) Items() []Item {
	items := make([]Item, 0, q.TotalQuestions())
	for _, d := range q.Domains {
		for _, question := range d.Questions {
			items = append(items, Item{Domain: d.Name, Question: question})
		}
	}
	return items
}

func (q *Questionnaire) TotalDomains() int {
	return len(q.Domains)
}

func (q *Questionnaire) TotalQuestions() int {
	total := 0
	for _, d := range q.Domains {
		total += len(d.Questions)
	}
	return total
}
