package interview

import (
	"encoding/json"
	"fmt"
)

// QuestionTarget is the fixed length of an interview. Every session asks
// exactly this many questions before it is evaluated.
const QuestionTarget = 7

type Role string

const (
	SoftwareEngineer    Role = "Software Engineer"
	DataScientist       Role = "Data Scientist"
	ProductManager      Role = "Product Manager"
	MarketingSpecialist Role = "Marketing Specialist"
	HRManager           Role = "HR Manager"
	WebDeveloper        Role = "Web Developer"
	QualityAnalyst      Role = "Quality Analyst"
	DataEngineer        Role = "Data Engineer"
)

func Roles() []Role {
	return []Role{
		SoftwareEngineer,
		DataScientist,
		ProductManager,
		MarketingSpecialist,
		HRManager,
		WebDeveloper,
		QualityAnalyst,
		DataEngineer,
	}
}

func ParseRole(s string) (Role, error) {
	for _, r := range Roles() {
		if string(r) == s {
			return r, nil
		}
	}
	return "", fmt.Errorf("unknown job profile: %q", s)
}

type Status int

const (
	Idle Status = iota
	Active
	Completed
)

func (s Status) String() string {
	switch s {
	case Idle:
		return "idle"
	case Active:
		return "active"
	case Completed:
		return "completed"
	default:
		return fmt.Sprintf("Status(%d)", int(s))
	}
}

// Exchange is one question/answer pair. The failure flags mark entries whose
// text is a substituted error message rather than real model output; they are
// in-memory only and do not survive archival.
type Exchange struct {
	Question string
	Answer   string

	QuestionFailed bool
	AnswerFailed   bool
}

// Archived history entries are two-element ["question", "answer"] arrays.
func (e Exchange) MarshalJSON() ([]byte, error) {
	return json.Marshal([2]string{e.Question, e.Answer})
}

func (e *Exchange) UnmarshalJSON(data []byte) error {
	var pair [2]string
	if err := json.Unmarshal(data, &pair); err != nil {
		return fmt.Errorf("history entry is not a question/answer pair: %w", err)
	}
	e.Question = pair[0]
	e.Answer = pair[1]
	return nil
}
