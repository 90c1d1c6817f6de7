package employee

import (
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"

	"employeetracker/errors"
)

// Field 可更新字段的封闭枚举
type Field int

const (
	fieldUnknown Field = iota
	FieldName
	FieldPosition
	FieldSalary
	FieldHireDate
	FieldDepartment
	FieldActive
)

var fieldNames = map[Field]string{
	FieldName:       "name",
	FieldPosition:   "position",
	FieldSalary:     "salary",
	FieldHireDate:   "hireDate",
	FieldDepartment: "department",
	FieldActive:     "active",
}

// Fields 按展示顺序返回全部可更新字段
func Fields() []Field {
	return []Field{FieldName, FieldPosition, FieldSalary, FieldHireDate, FieldDepartment, FieldActive}
}

// String 返回字段的外部名称
func (f Field) String() string {
	if name, ok := fieldNames[f]; ok {
		return name
	}
	return fmt.Sprintf("Field(%d)", int(f))
}

// ParseField 解析字段名（大小写不敏感）
func ParseField(name string) (Field, error) {
	trimmed := strings.TrimSpace(name)
	for f, n := range fieldNames {
		if strings.EqualFold(n, trimmed) {
			return f, nil
		}
	}
	return fieldUnknown, errors.Errorf(errors.ErrCodeInvalidField, "unknown field %q", name).
		WithContext("field", name)
}

// Change 对单个字段的类型化修改，只能通过 ChangeXxx 构造
type Change struct {
	field Field
	str   string
	num   float64
	date  time.Time
	flag  bool
}

func ChangeName(v string) Change        { return Change{field: FieldName, str: v} }
func ChangePosition(v string) Change    { return Change{field: FieldPosition, str: v} }
func ChangeSalary(v float64) Change     { return Change{field: FieldSalary, num: v} }
func ChangeHireDate(v time.Time) Change { return Change{field: FieldHireDate, date: DateOf(v)} }
func ChangeDepartment(v string) Change  { return Change{field: FieldDepartment, str: v} }
func ChangeActive(v bool) Change        { return Change{field: FieldActive, flag: v} }

// Field 返回修改的目标字段
func (c Change) Field() Field {
	return c.field
}

// Valid 零值 Change 无效
func (c Change) Valid() bool {
	_, ok := fieldNames[c.field]
	return ok
}

// Value 返回修改值（用于日志与消息载荷）
func (c Change) Value() any {
	switch c.field {
	case FieldName, FieldPosition, FieldDepartment:
		return c.str
	case FieldSalary:
		return c.num
	case FieldHireDate:
		return FormatDate(c.date)
	case FieldActive:
		return c.flag
	default:
		return nil
	}
}

// Apply 修改恰好一个字段
func (c Change) Apply(e *Employee) error {
	switch c.field {
	case FieldName:
		e.Name = c.str
	case FieldPosition:
		e.Position = c.str
	case FieldSalary:
		e.Salary = c.num
	case FieldHireDate:
		e.HireDate = c.date
	case FieldDepartment:
		e.Department = c.str
	case FieldActive:
		e.Active = c.flag
	default:
		return errors.NewError(errors.ErrCodeInvalidField, "empty change")
	}
	return nil
}

// ParseChange 将控制台文本转换为类型化修改
func ParseChange(f Field, raw string) (Change, error) {
	value := strings.TrimSpace(raw)
	switch f {
	case FieldName:
		return ChangeName(value), nil
	case FieldPosition:
		return ChangePosition(value), nil
	case FieldDepartment:
		return ChangeDepartment(value), nil
	case FieldSalary:
		n, err := strconv.ParseFloat(value, 64)
		if err != nil || math.IsNaN(n) || math.IsInf(n, 0) {
			return Change{}, errors.Errorf(errors.ErrCodeValidation, "invalid salary %q", raw)
		}
		return ChangeSalary(n), nil
	case FieldHireDate:
		d, err := ParseDate(value)
		if err != nil {
			return Change{}, errors.WrapError(err, errors.ErrCodeValidation, "invalid hire date")
		}
		return ChangeHireDate(d), nil
	case FieldActive:
		switch strings.ToLower(value) {
		case "true":
			return ChangeActive(true), nil
		case "false":
			return ChangeActive(false), nil
		}
		return Change{}, errors.Errorf(errors.ErrCodeValidation, "invalid active flag %q", raw)
	default:
		return Change{}, errors.Errorf(errors.ErrCodeInvalidField, "unknown field %s", f)
	}
}
