package model

// Metadata summarises a processed dataset.
type Metadata struct {
	TotalEmployees   int              `json:"totalEmployees"`
	TotalEvaluations int              `json:"totalEvaluations"`
	EvaluationTypes  []EvaluationType `json:"evaluationTypes"`
	Areas            []string         `json:"areas"`
	CompetencyNames  []string         `json:"competencyNames"`
}

// ProcessedData is the normalized dataset for one upload. It is not mutated
// after the builder returns it.
type ProcessedData struct {
	Employees       []Employee       `json:"employees"`
	Evaluations     []Evaluation     `json:"evaluations"`
	Competencies    []Competency     `json:"competencies"`
	SheetStructures []SheetStructure `json:"sheetStructures"`
	Metadata        Metadata         `json:"metadata"`
}
