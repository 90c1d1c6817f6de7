// Package flatfile 实现员工记录的竖线分隔文本格式。
//
// 每行一条记录，字段顺序固定：
//
//	id|name|position|salary|hireDate|department|active
//
// 格式不定义转义，文本字段中出现 '|' 或换行的记录无法写出。
package flatfile

import (
	"math"
	"strconv"
	"strings"

	"employeetracker/domain/employee"
	"employeetracker/errors"
)

// Delimiter 字段分隔符
const Delimiter = "|"

// FieldCount 每行字段数
const FieldCount = 7

// EncodeLine 将一条记录编码为一行（不含换行符）。
// 无法被 DecodeLine 读回的记录（姓名为空、薪资为负或非有限值）同样被拒绝。
func EncodeLine(e *employee.Employee) (string, error) {
	if err := checkValues(e.Name, e.Salary); err != nil {
		return "", err.WithContext("employee_id", e.GetID())
	}
	for _, text := range []string{e.Name, e.Position, e.Department} {
		if strings.ContainsAny(text, Delimiter+"\r\n") {
			return "", errors.Errorf(errors.ErrCodeMalformedRecord,
				"employee %d has a text field containing a delimiter or line break", e.GetID()).
				WithContext("employee_id", e.GetID())
		}
	}

	fields := []string{
		strconv.FormatInt(e.GetID(), 10),
		e.Name,
		e.Position,
		strconv.FormatFloat(e.Salary, 'f', -1, 64),
		employee.FormatDate(e.HireDate),
		e.Department,
		strconv.FormatBool(e.Active),
	}
	return strings.Join(fields, Delimiter), nil
}

// DecodeLine 解析一行，任何字段不合法都返回 MALFORMED_RECORD
func DecodeLine(line string) (*employee.Employee, error) {
	fields := strings.Split(strings.TrimRight(line, "\r"), Delimiter)
	if len(fields) != FieldCount {
		return nil, errors.Errorf(errors.ErrCodeMalformedRecord,
			"expected %d fields, got %d", FieldCount, len(fields))
	}

	id, err := strconv.ParseInt(strings.TrimSpace(fields[0]), 10, 64)
	if err != nil || id <= 0 {
		return nil, errors.Errorf(errors.ErrCodeMalformedRecord, "invalid id %q", fields[0])
	}

	salary, err := strconv.ParseFloat(strings.TrimSpace(fields[3]), 64)
	if err != nil {
		return nil, errors.Errorf(errors.ErrCodeMalformedRecord, "invalid salary %q", fields[3])
	}
	if err := checkValues(fields[1], salary); err != nil {
		return nil, err
	}

	hireDate, err := employee.ParseDate(strings.TrimSpace(fields[4]))
	if err != nil {
		return nil, errors.Errorf(errors.ErrCodeMalformedRecord, "invalid hire date %q", fields[4])
	}

	var active bool
	switch strings.ToLower(strings.TrimSpace(fields[6])) {
	case "true":
		active = true
	case "false":
		active = false
	default:
		return nil, errors.Errorf(errors.ErrCodeMalformedRecord, "invalid active flag %q", fields[6])
	}

	return employee.New(id, employee.Attributes{
		Name:       fields[1],
		Position:   fields[2],
		Salary:     salary,
		HireDate:   hireDate,
		Department: fields[5],
		Active:     active,
	}), nil
}

// checkValues 姓名非空，薪资为非负有限值
func checkValues(name string, salary float64) errors.IError {
	if strings.TrimSpace(name) == "" {
		return errors.NewError(errors.ErrCodeMalformedRecord, "empty name")
	}
	if math.IsNaN(salary) || math.IsInf(salary, 0) || salary < 0 {
		return errors.Errorf(errors.ErrCodeMalformedRecord, "invalid salary %v", salary)
	}
	return nil
}
