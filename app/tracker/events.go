package tracker

import "employeetracker/domain/employee"

// 变更通知类型
const (
	EventEmployeeAdded   = "employee.added"
	EventEmployeeRemoved = "employee.removed"
	EventEmployeeUpdated = "employee.updated"
	EventEmployeesLoaded = "employee.loaded"
)

type employeePayload struct {
	ID         int64   `json:"id"`
	Name       string  `json:"name"`
	Position   string  `json:"position"`
	Salary     float64 `json:"salary"`
	HireDate   string  `json:"hire_date"`
	Department string  `json:"department"`
	Active     bool    `json:"active"`
}

func newEmployeePayload(e *employee.Employee) employeePayload {
	return employeePayload{
		ID:         e.GetID(),
		Name:       e.Name,
		Position:   e.Position,
		Salary:     e.Salary,
		HireDate:   employee.FormatDate(e.HireDate),
		Department: e.Department,
		Active:     e.Active,
	}
}

type fieldChangePayload struct {
	ID    int64  `json:"id"`
	Field string `json:"field"`
	Value any    `json:"value"`
}

type loadedPayload struct {
	Count int `json:"count"`
}
