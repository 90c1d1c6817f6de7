// Package employee 定义员工记录、可更新字段集合与工龄分组。
//
// 本层只承载数据，不做输入校验；校验由 validation 包在输入阶段完成。
package employee

import "time"

// DateLayout 雇佣日期的文本格式（yyyy-MM-dd）
const DateLayout = "2006-01-02"

// Attributes 员工的可变属性
type Attributes struct {
	Name       string
	Position   string
	Salary     float64
	HireDate   time.Time
	Department string
	Active     bool
}

// Employee 员工记录，ID 创建后不可变
type Employee struct {
	id int64
	Attributes
}

// New 使用已分配的 ID 构造员工记录
func New(id int64, attrs Attributes) *Employee {
	attrs.HireDate = DateOf(attrs.HireDate)
	return &Employee{id: id, Attributes: attrs}
}

// GetID 返回员工 ID
func (e *Employee) GetID() int64 {
	return e.id
}

// Clone 返回一份独立副本
func (e *Employee) Clone() *Employee {
	c := *e
	return &c
}

// Equal 比较 ID 与全部属性
func (e *Employee) Equal(other *Employee) bool {
	if e == nil || other == nil {
		return e == other
	}
	return e.id == other.id &&
		e.Name == other.Name &&
		e.Position == other.Position &&
		e.Salary == other.Salary &&
		e.HireDate.Equal(other.HireDate) &&
		e.Department == other.Department &&
		e.Active == other.Active
}

// DateOf 截取日历日期，归一化为 UTC 零点
func DateOf(t time.Time) time.Time {
	if t.IsZero() {
		return t
	}
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// ParseDate 解析 yyyy-MM-dd 格式的日期
func ParseDate(s string) (time.Time, error) {
	return time.Parse(DateLayout, s)
}

// FormatDate 按 yyyy-MM-dd 输出日期
func FormatDate(t time.Time) string {
	return t.Format(DateLayout)
}
