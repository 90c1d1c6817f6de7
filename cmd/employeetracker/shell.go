package main

import (
	"context"
	"fmt"
	"io"
	"strings"

	"employeetracker/app/tracker"
	"employeetracker/config"
	"employeetracker/domain/employee"
	"employeetracker/errors"
	"employeetracker/logging"
	"employeetracker/validation"
)

const (
	menuAdd = iota + 1
	menuRemove
	menuUpdate
	menuFindByID
	menuFindByName
	menuList
	menuTenure
	menuSave
	menuLoad
	menuExit
)

const menuText = `
===== Employee Tracker =====
1. Add employee
2. Remove employee
3. Update employee
4. Find employee by ID
5. Find employees by name
6. List all employees
7. Tenure report
8. Save to file
9. Load from file
10. Exit
`

type shell struct {
	svc      *tracker.EmployeeService
	input    *validation.InputValidator
	out      io.Writer
	cfg      *config.Config
	logger   logging.Logger
	snapshot tracker.SnapshotStore // 可选，保存时同步写入
}

func (s *shell) loop(ctx context.Context) error {
	for {
		fmt.Fprint(s.out, menuText)
		choice, err := s.input.GetMenuChoice("Choose an option (1-10): ", menuAdd, menuExit)
		if err != nil {
			return err
		}
		if choice == menuExit {
			fmt.Fprintln(s.out, "Goodbye!")
			return nil
		}
		if err := s.dispatch(ctx, choice); err != nil {
			if errors.IsErrorCode(err, errors.ErrCodeEndOfInput) {
				return err
			}
			fmt.Fprintf(s.out, "Error: %s\n", describe(err))
		}
	}
}

func (s *shell) dispatch(ctx context.Context, choice int) error {
	switch choice {
	case menuAdd:
		return s.add(ctx)
	case menuRemove:
		return s.remove(ctx)
	case menuUpdate:
		return s.update(ctx)
	case menuFindByID:
		return s.findByID()
	case menuFindByName:
		return s.findByName()
	case menuList:
		s.list()
	case menuTenure:
		s.tenureReport()
	case menuSave:
		return s.save(ctx)
	case menuLoad:
		return s.load(ctx)
	}
	return nil
}

func (s *shell) add(ctx context.Context) error {
	var attrs employee.Attributes
	var err error
	if attrs.Name, err = s.input.GetNonEmptyString("Name: "); err != nil {
		return err
	}
	if attrs.Position, err = s.input.GetNonEmptyString("Position: "); err != nil {
		return err
	}
	if attrs.Salary, err = s.input.GetPositiveDouble("Salary: "); err != nil {
		return err
	}
	if attrs.HireDate, err = s.input.GetDate("Hire date (yyyy-MM-dd): "); err != nil {
		return err
	}
	if attrs.Department, err = s.input.GetNonEmptyString("Department: "); err != nil {
		return err
	}
	if attrs.Active, err = s.input.GetBoolean("Active (true/false): "); err != nil {
		return err
	}

	e := s.svc.AddEmployee(ctx, attrs)
	fmt.Fprintf(s.out, "Added employee with ID %d.\n", e.GetID())
	return nil
}

func (s *shell) remove(ctx context.Context) error {
	id, err := s.input.GetPositiveLong("Employee ID to remove: ")
	if err != nil {
		return err
	}
	if s.svc.RemoveEmployee(ctx, id) {
		fmt.Fprintf(s.out, "Employee %d removed.\n", id)
	} else {
		fmt.Fprintf(s.out, "Employee %d not found.\n", id)
	}
	return nil
}

func (s *shell) update(ctx context.Context) error {
	id, err := s.input.GetPositiveLong("Employee ID to update: ")
	if err != nil {
		return err
	}
	if _, ok := s.svc.FindByID(id); !ok {
		fmt.Fprintf(s.out, "Employee %d not found.\n", id)
		return nil
	}

	names := make([]string, 0, len(employee.Fields()))
	for _, f := range employee.Fields() {
		names = append(names, f.String())
	}
	var field employee.Field
	for {
		raw, err := s.input.GetNonEmptyString("Field to update (" + strings.Join(names, ", ") + "): ")
		if err != nil {
			return err
		}
		if field, err = employee.ParseField(raw); err == nil {
			break
		}
		fmt.Fprintf(s.out, "Unknown field %q. Please try again.\n", raw)
	}

	change, err := s.readChange(field)
	if err != nil {
		return err
	}
	ok, err := s.svc.UpdateEmployee(ctx, id, change)
	if err != nil {
		return err
	}
	if ok {
		fmt.Fprintf(s.out, "Employee %d updated.\n", id)
	} else {
		fmt.Fprintf(s.out, "Employee %d not found.\n", id)
	}
	return nil
}

// readChange 按字段类型读取新值
func (s *shell) readChange(field employee.Field) (employee.Change, error) {
	prompt := "New " + field.String() + ": "
	switch field {
	case employee.FieldSalary:
		v, err := s.input.GetPositiveDouble(prompt)
		return employee.ChangeSalary(v), err
	case employee.FieldHireDate:
		v, err := s.input.GetDate("New hireDate (yyyy-MM-dd): ")
		return employee.ChangeHireDate(v), err
	case employee.FieldActive:
		v, err := s.input.GetBoolean("New active (true/false): ")
		return employee.ChangeActive(v), err
	}

	v, err := s.input.GetNonEmptyString(prompt)
	if err != nil {
		return employee.Change{}, err
	}
	return employee.ParseChange(field, v)
}

func (s *shell) findByID() error {
	id, err := s.input.GetPositiveLong("Employee ID: ")
	if err != nil {
		return err
	}
	e, ok := s.svc.FindByID(id)
	if !ok {
		fmt.Fprintf(s.out, "Employee %d not found.\n", id)
		return nil
	}
	fmt.Fprintln(s.out, formatEmployee(e))
	return nil
}

func (s *shell) findByName() error {
	query, err := s.input.GetNonEmptyString("Name contains: ")
	if err != nil {
		return err
	}
	matches := s.svc.FindByName(query)
	if len(matches) == 0 {
		fmt.Fprintln(s.out, "No matching employees.")
		return nil
	}
	for _, e := range matches {
		fmt.Fprintln(s.out, formatEmployee(e))
	}
	return nil
}

func (s *shell) list() {
	all := s.svc.GetAllEmployees()
	if len(all) == 0 {
		fmt.Fprintln(s.out, "No employees.")
		return
	}
	for _, e := range all {
		fmt.Fprintln(s.out, formatEmployee(e))
	}
}

func (s *shell) tenureReport() {
	report := s.svc.GenerateTenureReport()
	if len(report) == 0 {
		fmt.Fprintln(s.out, "No employees.")
		return
	}
	for _, label := range employee.TenureLabels() {
		list, ok := report[label]
		if !ok {
			continue
		}
		fmt.Fprintf(s.out, "%s (%d):\n", label, len(list))
		for _, e := range list {
			fmt.Fprintln(s.out, "  "+formatEmployee(e))
		}
	}
}

func (s *shell) save(ctx context.Context) error {
	path, err := s.filePath()
	if err != nil {
		return err
	}
	if err := s.svc.SaveToFile(ctx, path); err != nil {
		return err
	}
	fmt.Fprintf(s.out, "Saved %d employees to %s.\n", s.svc.Len(), path)

	if s.snapshot != nil {
		if err := s.svc.SaveTo(ctx, s.snapshot); err != nil {
			s.logger.Warn(ctx, "sqlite snapshot failed", logging.Error(err))
		}
	}
	return nil
}

func (s *shell) load(ctx context.Context) error {
	path, err := s.filePath()
	if err != nil {
		return err
	}
	if err := s.svc.LoadFromFile(ctx, path); err != nil {
		return err
	}
	fmt.Fprintf(s.out, "Loaded %d employees from %s.\n", s.svc.Len(), path)
	return nil
}

// filePath 读取文件路径；空输入使用配置中的数据文件
func (s *shell) filePath() (string, error) {
	return s.input.GetFilePathOr(fmt.Sprintf("File path [%s]: ", s.cfg.DataFile), s.cfg.DataFile)
}

func formatEmployee(e *employee.Employee) string {
	return fmt.Sprintf("#%d %s | %s | %.2f | %s | %s | active=%t",
		e.GetID(), e.Name, e.Position, e.Salary, employee.FormatDate(e.HireDate), e.Department, e.Active)
}

func describe(err error) string {
	if appErr, ok := err.(errors.IError); ok {
		msg := appErr.Message()
		if cause := appErr.Cause(); cause != nil {
			msg += ": " + cause.Error()
		}
		return msg
	}
	return err.Error()
}
