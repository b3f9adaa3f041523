package model

// ColumnMapping locates the relevant columns of an evaluation sheet.
// Unmapped required columns hold -1; optional ones are nil.
type ColumnMapping struct {
	EvaluatedName int  `json:"evaluatedName"`
	EvaluatedArea int  `json:"evaluatedArea"`
	EvaluatorName *int `json:"evaluatorName,omitempty"`
	Status        int  `json:"status"`
	TotalScore    *int `json:"totalScore,omitempty"`
}

// CompetencyColumns lists the header columns that score one competency.
type CompetencyColumns struct {
	Name    string   `json:"name"`
	Columns []int    `json:"columns"`
	Headers []string `json:"headers"`
}

// SheetStructure is the detector output for one evaluation sheet.
type SheetStructure struct {
	Name         string         `json:"name"`
	Type         EvaluationType `json:"type"`
	Columns      ColumnMapping  `json:"columns"`
	HeaderRow    int            `json:"headerRow"`
	DataStartRow int            `json:"dataStartRow"`
	Competencies []string       `json:"competencies"`
	// CompetencyColumns is ordered like Competencies.
	CompetencyColumns []CompetencyColumns `json:"competencyColumns,omitempty"`
}

// Index returns a pointer to i, used for optional column indices.
func Index(i int) *int { return &i }
