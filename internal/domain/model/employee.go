// Package model contains domain models passed between layers.
package model

// EmployeeStatus is the lifecycle status of an employee's evaluation cycle.
type EmployeeStatus string

// Employee statuses.
const (
	EmployeeInProgress EmployeeStatus = "En curso"
	EmployeeFinished   EmployeeStatus = "Finalizado"
)

// ShareStatus tracks whether results were shared with the employee.
type ShareStatus string

// Share statuses.
const (
	ShareConfirmed   ShareStatus = "Compartida y confirmada"
	ShareUnconfirmed ShareStatus = "Compartida sin confirmar"
	ShareNotShared   ShareStatus = "No compartida"
)

// UnknownArea labels employees whose area could not be resolved.
const UnknownArea = "Sin área"

// Employee is one organizational member as evidenced by evaluation data.
// It is unique per (Name, Area) within one processing run.
type Employee struct {
	ID          string         `json:"id"`
	Email       string         `json:"email"`
	Name        string         `json:"name"`
	Area        string         `json:"area"`
	SubArea     string         `json:"subArea,omitempty"`
	Location    string         `json:"location,omitempty"`
	Manager     string         `json:"manager,omitempty"`
	Status      EmployeeStatus `json:"status"`
	ShareStatus ShareStatus    `json:"shareStatus"`
	// FinalScore is the highest total score observed for this employee.
	FinalScore *float64 `json:"finalScore,omitempty"`
}

// HasScore reports whether a final score was observed.
func (e Employee) HasScore() bool { return e.FinalScore != nil }

// Score returns the final score or zero when absent.
func (e Employee) Score() float64 {
	if e.FinalScore == nil {
		return 0
	}
	return *e.FinalScore
}

// Float returns a pointer to v.
func Float(v float64) *float64 { return &v }
