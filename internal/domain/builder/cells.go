package builder

import (
	"math"
	"strconv"
	"strings"

	"github.com/okian/perfscope/internal/domain/model"
	"github.com/okian/perfscope/internal/domain/rules"
)

var (
	finishedStatuses = []string{"finalizada", "finalizado", "completada", "completado", "completed", "done"}
	pendingStatuses  = []string{"pendiente", "pending", "no iniciada", "not started"}
)

// NormalizeStatus maps a raw status cell onto the three evaluation
// statuses. Blank cells count as pending; unknown values as in progress.
func NormalizeStatus(raw string) model.EvaluationStatus {
	folded := rules.Fold(raw)
	if folded == "" {
		return model.StatusPending
	}
	for _, s := range finishedStatuses {
		if folded == s {
			return model.StatusFinished
		}
	}
	for _, s := range pendingStatuses {
		if folded == s {
			return model.StatusPending
		}
	}
	return model.StatusInProgress
}

// EmployeeStatus derives the employee lifecycle status from the status of
// the evaluation that created the employee.
func EmployeeStatus(s model.EvaluationStatus) model.EmployeeStatus {
	if s == model.StatusFinished {
		return model.EmployeeFinished
	}
	return model.EmployeeInProgress
}

// ParseScore reads a numeric cell. Both "." and "," are accepted as the
// decimal separator. Blank or non-numeric cells yield nil.
func ParseScore(raw string) *float64 {
	s := strings.TrimSpace(raw)
	if s == "" {
		return nil
	}
	if !strings.Contains(s, ".") {
		s = strings.Replace(s, ",", ".", 1)
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil || math.IsNaN(v) || math.IsInf(v, 0) {
		return nil
	}
	return &v
}
