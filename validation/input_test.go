package validation

import (
	"bytes"
	stderrors "errors"
	"io"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	sharederrors "employeetracker/errors"
)

// newValidator 使用预设输入模拟控制台
func newValidator(input string) (*InputValidator, *bytes.Buffer) {
	var out bytes.Buffer
	return NewInputValidator(strings.NewReader(input), &out), &out
}

func TestGetNonEmptyString_RejectsEmptyAndWhitespace(t *testing.T) {
	v, _ := newValidator("\n   \n  Valid Input  \n")

	got, err := v.GetNonEmptyString("Enter a non-empty string: ")
	require.NoError(t, err)
	assert.Equal(t, "Valid Input", got)
}

func TestGetPositiveDouble_AcceptsZero(t *testing.T) {
	v, _ := newValidator("notANumber\n-3.14\n0\n42.5\n")

	got, err := v.GetPositiveDouble("Enter positive double: ")
	require.NoError(t, err)
	assert.Equal(t, 0.0, got)

	// 第四行尚未被消费
	got, err = v.GetPositiveDouble("Enter positive double: ")
	require.NoError(t, err)
	assert.Equal(t, 42.5, got)
}

func TestGetPositiveDouble_RejectsNonFinite(t *testing.T) {
	v, _ := newValidator("NaN\nInf\n12\n")

	got, err := v.GetPositiveDouble("Salary: ")
	require.NoError(t, err)
	assert.Equal(t, 12.0, got)
}

func TestGetPositiveLong_RejectsInvalidAndZero(t *testing.T) {
	v, _ := newValidator("foo\n0\n-1\n1.5\n123\n")

	got, err := v.GetPositiveLong("Enter positive long: ")
	require.NoError(t, err)
	assert.Equal(t, int64(123), got)
}

func TestGetDate_RejectsInvalidFormats(t *testing.T) {
	v, _ := newValidator("06/23/2025\n2025-13-01\n2025-06-23\n")

	got, err := v.GetDate("Enter date: ")
	require.NoError(t, err)
	assert.Equal(t, time.Date(2025, 6, 23, 0, 0, 0, 0, time.UTC), got)
}

func TestGetBoolean_AcceptsOnlyTrueOrFalse(t *testing.T) {
	v, _ := newValidator("yes\nno\nTRUE\n")
	got, err := v.GetBoolean("Enter boolean: ")
	require.NoError(t, err)
	assert.True(t, got)

	v, _ = newValidator("False\n")
	got, err = v.GetBoolean("Enter boolean: ")
	require.NoError(t, err)
	assert.False(t, got)
}

func TestGetMenuChoice_RejectsInvalidAndOutOfRange(t *testing.T) {
	v, _ := newValidator("abc\n0\n6\n3\n")

	got, err := v.GetMenuChoice("Choose an option: ", 1, 5)
	require.NoError(t, err)
	assert.Equal(t, 3, got)
}

func TestGetFilePath_DefaultIfEmpty(t *testing.T) {
	v, _ := newValidator("\n")
	got, err := v.GetFilePath("Enter file path: ")
	require.NoError(t, err)
	assert.Equal(t, "employees.txt", got)

	v, _ = newValidator("myFile.csv\n")
	got, err = v.GetFilePath("Enter file path: ")
	require.NoError(t, err)
	assert.Equal(t, "myFile.csv", got)
}

func TestGetFilePathOr(t *testing.T) {
	v, _ := newValidator("\n  employees.txt \n")
	got, err := v.GetFilePathOr("> ", "staff.txt")
	require.NoError(t, err)
	assert.Equal(t, "staff.txt", got)

	got, err = v.GetFilePathOr("> ", "staff.txt")
	require.NoError(t, err)
	assert.Equal(t, "employees.txt", got, "显式输入的路径不应被替换")
}

func TestGetNonEmptyString_VeryLongLine(t *testing.T) {
	long := strings.Repeat("x", 200*1024)
	v, _ := newValidator("\n" + long + "\nnext\n")

	got, err := v.GetNonEmptyString("> ")
	require.NoError(t, err)
	assert.Equal(t, long, got)

	got, err = v.GetNonEmptyString("> ")
	require.NoError(t, err)
	assert.Equal(t, "next", got)
}

func TestInputValidator_LastLineWithoutNewline(t *testing.T) {
	v, _ := newValidator("abc\n42")

	_, err := v.GetPositiveLong("> ")
	require.NoError(t, err)
	_, err = v.GetPositiveLong("> ")
	assert.True(t, stderrors.Is(err, sharederrors.ErrEndOfInput))

	v, _ = newValidator("7")
	n, err := v.GetPositiveLong("> ")
	require.NoError(t, err)
	assert.Equal(t, int64(7), n)
}

func TestInputValidator_PromptsOncePerLine(t *testing.T) {
	v, out := newValidator("x\ny\n7\n")

	_, err := v.GetMenuChoice("> ", 1, 9)
	require.NoError(t, err)
	assert.Equal(t, 3, strings.Count(out.String(), "> "))
	assert.Equal(t, 2, strings.Count(out.String(), "Invalid input"))
}

func TestInputValidator_EndOfInput(t *testing.T) {
	tests := []struct {
		name string
		call func(v *InputValidator) error
	}{
		{"string", func(v *InputValidator) error { _, err := v.GetNonEmptyString("> "); return err }},
		{"double", func(v *InputValidator) error { _, err := v.GetPositiveDouble("> "); return err }},
		{"long", func(v *InputValidator) error { _, err := v.GetPositiveLong("> "); return err }},
		{"date", func(v *InputValidator) error { _, err := v.GetDate("> "); return err }},
		{"bool", func(v *InputValidator) error { _, err := v.GetBoolean("> "); return err }},
		{"menu", func(v *InputValidator) error { _, err := v.GetMenuChoice("> ", 1, 2); return err }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			v, _ := newValidator("   \n\t\n")
			err := tt.call(v)
			require.Error(t, err)
			assert.Equal(t, sharederrors.ErrCodeEndOfInput, sharederrors.GetErrorCode(err))
		})
	}

	v, _ := newValidator("")
	_, err := v.GetFilePath("> ")
	assert.Equal(t, sharederrors.ErrCodeEndOfInput, sharederrors.GetErrorCode(err))
}

type failingReader struct{}

func (failingReader) Read([]byte) (int, error) { return 0, io.ErrClosedPipe }

func TestInputValidator_ReadError(t *testing.T) {
	v := NewInputValidator(failingReader{}, nil)

	_, err := v.GetNonEmptyString("> ")
	require.Error(t, err)
	assert.Equal(t, sharederrors.ErrCodeIO, sharederrors.GetErrorCode(err))
	assert.ErrorIs(t, err, io.ErrClosedPipe)
}
