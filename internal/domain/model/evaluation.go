package model

// EvaluationType describes who rates whom.
type EvaluationType string

// Evaluation types.
const (
	TypeSelf     EvaluationType = "autoevaluacion"
	TypeDownward EvaluationType = "descendente"
	TypeUpward   EvaluationType = "ascendente"
	TypePeer     EvaluationType = "pares"
)

// EvaluationStatus is the completion status of a single evaluation.
type EvaluationStatus string

// Evaluation statuses.
const (
	StatusFinished   EvaluationStatus = "Finalizada"
	StatusPending    EvaluationStatus = "Pendiente"
	StatusInProgress EvaluationStatus = "En curso"
)

// Evaluation is one data row of one evaluation sheet.
type Evaluation struct {
	ID            string            `json:"id"`
	EmployeeID    string            `json:"employeeId"`
	EvaluatedID   string            `json:"evaluatedId"`
	EvaluatedName string            `json:"evaluatedName"`
	EvaluatedArea string            `json:"evaluatedArea"`
	EvaluatorID   string            `json:"evaluatorId,omitempty"`
	EvaluatorName string            `json:"evaluatorName,omitempty"`
	Type          EvaluationType    `json:"type"`
	Status        EvaluationStatus  `json:"status"`
	TotalScore    *float64          `json:"totalScore,omitempty"`
	Competencies  []CompetencyScore `json:"competencies"`
}

// Finished reports whether the evaluation counts as completed.
func (e Evaluation) Finished() bool { return e.Status == StatusFinished }

// Outstanding reports whether the evaluation counts as pending.
func (e Evaluation) Outstanding() bool {
	return e.Status == StatusPending || e.Status == StatusInProgress
}

// CompetencyScore holds the sub-scores of one competency within an evaluation.
type CompetencyScore struct {
	CompetencyName string          `json:"competencyName"`
	Questions      []QuestionScore `json:"questions"`
	AverageScore   float64         `json:"averageScore"`
}

// QuestionScore is a single scored question cell.
type QuestionScore struct {
	QuestionText string  `json:"questionText"`
	Score        float64 `json:"score"`
	Comment      string  `json:"comment,omitempty"`
}

// Competency is a named evaluation dimension discovered in sheet headers.
type Competency struct {
	ID          string     `json:"id"`
	Name        string     `json:"name"`
	Description string     `json:"description"`
	Questions   []Question `json:"questions"`
}

// Question is a question belonging to a competency.
type Question struct {
	ID   string `json:"id"`
	Text string `json:"text"`
}
