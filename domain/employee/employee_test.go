package employee

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"employeetracker/errors"
)

func date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// TestNew_NormalizesHireDate 测试雇佣日期被截取为日历日期
func TestNew_NormalizesHireDate(t *testing.T) {
	loc := time.FixedZone("UTC+8", 8*3600)
	e := New(3, Attributes{Name: "John Doe", HireDate: time.Date(2020, 1, 15, 18, 30, 0, 0, loc)})

	assert.Equal(t, int64(3), e.GetID())
	assert.Equal(t, date(2020, 1, 15), e.HireDate)
}

// TestClone_IsDetached 测试副本修改不影响原记录
func TestClone_IsDetached(t *testing.T) {
	e := New(1, Attributes{Name: "Lisa Ray", Salary: 70000})
	c := e.Clone()
	c.Name = "Other"

	assert.Equal(t, "Lisa Ray", e.Name)
	assert.Equal(t, e.GetID(), c.GetID())
	assert.False(t, e.Equal(c))
}

// TestParseField 测试字段名解析
func TestParseField(t *testing.T) {
	tests := []struct {
		in      string
		want    Field
		wantErr bool
	}{
		{in: "name", want: FieldName},
		{in: "Position", want: FieldPosition},
		{in: "SALARY", want: FieldSalary},
		{in: "hireDate", want: FieldHireDate},
		{in: "hiredate", want: FieldHireDate},
		{in: " department ", want: FieldDepartment},
		{in: "active", want: FieldActive},
		{in: "id", wantErr: true},
		{in: "", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseField(tt.in)
			if tt.wantErr {
				require.Error(t, err)
				assert.Equal(t, errors.ErrCodeInvalidField, errors.GetErrorCode(err))
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
			assert.Len(t, Fields(), 6)
		})
	}
}

// TestChange_AppliesExactlyOneField 测试每种修改只改变目标字段
func TestChange_AppliesExactlyOneField(t *testing.T) {
	original := New(9, Attributes{
		Name:       "Alex Turner",
		Position:   "Analyst",
		Salary:     55000,
		HireDate:   date(2021, 6, 10),
		Department: "Finance",
		Active:     true,
	})

	tests := []struct {
		name   string
		change Change
		check  func(t *testing.T, e *Employee)
	}{
		{"name", ChangeName("Alex T."), func(t *testing.T, e *Employee) { assert.Equal(t, "Alex T.", e.Name) }},
		{"position", ChangePosition("Lead"), func(t *testing.T, e *Employee) { assert.Equal(t, "Lead", e.Position) }},
		{"salary", ChangeSalary(60000), func(t *testing.T, e *Employee) { assert.Equal(t, 60000.0, e.Salary) }},
		{"hireDate", ChangeHireDate(date(2020, 2, 2)), func(t *testing.T, e *Employee) { assert.Equal(t, date(2020, 2, 2), e.HireDate) }},
		{"department", ChangeDepartment("Ops"), func(t *testing.T, e *Employee) { assert.Equal(t, "Ops", e.Department) }},
		{"active", ChangeActive(false), func(t *testing.T, e *Employee) { assert.False(t, e.Active) }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			e := original.Clone()
			require.NoError(t, tt.change.Apply(e))
			tt.check(t, e)

			// 其余字段保持不变：撤销目标字段后应与原记录相等
			restore, err := ParseChange(tt.change.Field(), valueText(original, tt.change.Field()))
			require.NoError(t, err)
			require.NoError(t, restore.Apply(e))
			assert.True(t, original.Equal(e))
		})
	}
}

func valueText(e *Employee, f Field) string {
	switch f {
	case FieldName:
		return e.Name
	case FieldPosition:
		return e.Position
	case FieldSalary:
		return "55000"
	case FieldHireDate:
		return FormatDate(e.HireDate)
	case FieldDepartment:
		return e.Department
	case FieldActive:
		return "true"
	}
	return ""
}

// TestChange_Zero 测试零值修改被拒绝
func TestChange_Zero(t *testing.T) {
	var c Change
	assert.False(t, c.Valid())
	assert.Nil(t, c.Value())

	err := c.Apply(New(1, Attributes{}))
	assert.Equal(t, errors.ErrCodeInvalidField, errors.GetErrorCode(err))
}

// TestParseChange 测试文本到类型化修改的转换
func TestParseChange(t *testing.T) {
	c, err := ParseChange(FieldSalary, " 60000.5 ")
	require.NoError(t, err)
	assert.Equal(t, 60000.5, c.Value())

	c, err = ParseChange(FieldActive, "FALSE")
	require.NoError(t, err)
	assert.Equal(t, false, c.Value())

	c, err = ParseChange(FieldHireDate, "2023-01-01")
	require.NoError(t, err)
	assert.Equal(t, "2023-01-01", c.Value())

	_, err = ParseChange(FieldSalary, "lots")
	assert.True(t, errors.IsValidation(err))

	_, err = ParseChange(FieldHireDate, "2025-13-01")
	assert.True(t, errors.IsValidation(err))

	_, err = ParseChange(FieldActive, "yes")
	assert.True(t, errors.IsValidation(err))

	_, err = ParseChange(Field(99), "x")
	assert.Equal(t, errors.ErrCodeInvalidField, errors.GetErrorCode(err))
}

// TestTenureBucket 测试工龄分组及边界
func TestTenureBucket(t *testing.T) {
	now := date(2026, 10, 19)

	tests := []struct {
		name string
		hire time.Time
		want string
	}{
		{"当天入职", now, TenureUnderOne},
		{"未来日期", date(2027, 1, 1), TenureUnderOne},
		{"差一天满1年", date(2025, 10, 20), TenureUnderOne},
		{"恰好满1年", date(2025, 10, 19), TenureOneToFive},
		{"3年", date(2023, 10, 19), TenureOneToFive},
		{"差一天满5年", date(2021, 10, 20), TenureOneToFive},
		{"恰好满5年", date(2021, 10, 19), TenureFivePlus},
		{"7年", date(2019, 10, 19), TenureFivePlus},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, TenureBucket(tt.hire, now))
		})
	}
}

// TestYearsOfService_LeapDay 测试闰日入职的纪念日判断
func TestYearsOfService_LeapDay(t *testing.T) {
	hire := date(2020, 2, 29)

	assert.Equal(t, 0, YearsOfService(hire, date(2021, 2, 28)))
	assert.Equal(t, 1, YearsOfService(hire, date(2021, 3, 1)))
	assert.Equal(t, 4, YearsOfService(hire, date(2024, 2, 29)))
}
