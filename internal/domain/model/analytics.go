package model

// Completion counts completed and pending evaluations.
type Completion struct {
	Completed      int     `json:"completed"`
	Pending        int     `json:"pending"`
	Total          int     `json:"total"`
	CompletionRate float64 `json:"completionRate"`
}

// CompletionMetrics breaks completion down by type and area.
type CompletionMetrics struct {
	ByType  map[EvaluationType]Completion `json:"byType"`
	ByArea  map[string]Completion         `json:"byArea"`
	Overall Completion                    `json:"overall"`
}

// ScoreDistribution buckets final scores into fixed bands.
type ScoreDistribution struct {
	Excellent int `json:"excellent"`
	Good      int `json:"good"`
	Average   int `json:"average"`
	Poor      int `json:"poor"`
}

// Performer names an employee and their score.
type Performer struct {
	Name  string  `json:"name"`
	Score float64 `json:"score"`
}

// AreaComparison ranks one area.
type AreaComparison struct {
	Area                 string            `json:"area"`
	EmployeeCount        int               `json:"employeeCount"`
	AverageScore         float64           `json:"averageScore"`
	ScoreDistribution    ScoreDistribution `json:"scoreDistribution"`
	TopPerformer         Performer         `json:"topPerformer"`
	CompetencyStrengths  []string          `json:"competencyStrengths"`
	CompetencyWeaknesses []string          `json:"competencyWeaknesses"`
}

// PerformanceLevel bands an overall score.
type PerformanceLevel string

// Performance levels.
const (
	LevelTopPerformer     PerformanceLevel = "Top Performer"
	LevelHighPerformer    PerformanceLevel = "High Performer"
	LevelAverage          PerformanceLevel = "Average"
	LevelNeedsImprovement PerformanceLevel = "Needs Improvement"
	LevelCritical         PerformanceLevel = "Critical"
)

// RiskLevel bands retention risk.
type RiskLevel string

// Risk levels.
const (
	RiskLow    RiskLevel = "Low"
	RiskMedium RiskLevel = "Medium"
	RiskHigh   RiskLevel = "High"
)

// TalentHeatMapEntry is one row of the talent heat-map.
type TalentHeatMapEntry struct {
	Employee         string             `json:"employee"`
	Area             string             `json:"area"`
	OverallScore     float64            `json:"overallScore"`
	PerformanceLevel PerformanceLevel   `json:"performanceLevel"`
	CompetencyScores map[string]float64 `json:"competencyScores"`
	RiskLevel        RiskLevel          `json:"riskLevel"`
	Recommendations  []string           `json:"recommendations"`
}

// CompetencyFeedback aggregates one competency of upward feedback.
type CompetencyFeedback struct {
	Score         float64 `json:"score"`
	FeedbackCount int     `json:"feedbackCount"`
}

// UpwardFeedback summarises how reports rate one manager.
type UpwardFeedback struct {
	ManagerID           string                        `json:"managerId"`
	ManagerName         string                        `json:"managerName"`
	Area                string                        `json:"area"`
	FeedbackCount       int                           `json:"feedbackCount"`
	AverageScore        float64                       `json:"averageScore"`
	CompetencyBreakdown map[string]CompetencyFeedback `json:"competencyBreakdown"`
	Strengths           []string                      `json:"strengths"`
	ImprovementAreas    []string                      `json:"improvementAreas"`
	TeamSatisfaction    float64                       `json:"teamSatisfaction"`
}

// PeerEvaluation is one projected peer evaluation.
type PeerEvaluation struct {
	Evaluator string  `json:"evaluator"`
	Evaluated string  `json:"evaluated"`
	Area      string  `json:"area"`
	Score     float64 `json:"score"`
	Completed bool    `json:"completed"`
}

// Coverage counts requested and completed peer evaluations.
type Coverage struct {
	Requested      int     `json:"requested"`
	Completed      int     `json:"completed"`
	CompletionRate float64 `json:"completionRate"`
}

// Reciprocity counts mutual versus one-directional peer evaluations.
type Reciprocity struct {
	Mutual int `json:"mutual"`
	OneWay int `json:"oneWay"`
}

// PeerMatrix summarises peer evaluations.
type PeerMatrix struct {
	Evaluations []PeerEvaluation `json:"evaluations"`
	Coverage    Coverage         `json:"coverage"`
	Reciprocity Reciprocity      `json:"reciprocity"`
}

// AnalyticsResults is derived from a ProcessedData and never mutated.
type AnalyticsResults struct {
	CompletionMetrics CompletionMetrics    `json:"completionMetrics"`
	AreaComparisons   []AreaComparison     `json:"areaComparisons"`
	TalentHeatMap     []TalentHeatMapEntry `json:"talentHeatMap"`
	UpwardFeedback    []UpwardFeedback     `json:"upwardFeedback"`
	PeerMatrix        PeerMatrix           `json:"peerMatrix"`
	Insights          []string             `json:"insights"`
	Recommendations   []string             `json:"recommendations"`
}
