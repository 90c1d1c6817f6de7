// Package validation 提供输入校验规则与控制台输入读取器
package validation

import (
	"bufio"
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	"employeetracker/errors"
)

// DefaultFilePath GetFilePath 在输入为空时返回的默认路径
const DefaultFilePath = "employees.txt"

// InputValidator 从按行输入源读取并校验值。
//
// 每个 GetXxx 方法输出提示、读取一行、去除首尾空白后校验；
// 校验失败时输出一行提示并重新读取，不设重试上限。
// 输入源耗尽仍未得到合法值时返回 END_OF_INPUT 错误。
type InputValidator struct {
	reader *bufio.Reader
	out    io.Writer
}

// NewInputValidator 创建读取 in、向 out 输出提示的校验器
func NewInputValidator(in io.Reader, out io.Writer) *InputValidator {
	if out == nil {
		out = io.Discard
	}
	return &InputValidator{
		reader: bufio.NewReader(in),
		out:    out,
	}
}

// readLine 输出提示并读取一行（已去除首尾空白），行长度不设上限。
// 末尾没有换行符的最后一行照常返回。
func (v *InputValidator) readLine(prompt string) (string, error) {
	fmt.Fprint(v.out, prompt)
	line, err := v.reader.ReadString('\n')
	if err != nil && err != io.EOF {
		return "", errors.WrapError(err, errors.ErrCodeIO, "read input")
	}
	if err == io.EOF && line == "" {
		return "", errors.ErrEndOfInput
	}
	return strings.TrimSpace(line), nil
}

// retry 循环读取直到 parse 成功
func retry[T any](v *InputValidator, prompt string, parse func(line string) (T, error)) (T, error) {
	for {
		line, err := v.readLine(prompt)
		if err != nil {
			var zero T
			return zero, err
		}
		value, err := parse(line)
		if err == nil {
			return value, nil
		}
		fmt.Fprintln(v.out, hint(err))
	}
}

func hint(err error) string {
	if appErr, ok := err.(errors.IError); ok {
		return "Invalid input: " + appErr.Message() + ". Please try again."
	}
	return "Invalid input. Please try again."
}

// GetNonEmptyString 读取至少包含一个非空白字符的行
func (v *InputValidator) GetNonEmptyString(prompt string) (string, error) {
	return retry(v, prompt, func(line string) (string, error) {
		if err := ValidateRequired(line, "value"); err != nil {
			return "", err
		}
		return line, nil
	})
}

// GetPositiveDouble 读取非负小数（接受 0）
func (v *InputValidator) GetPositiveDouble(prompt string) (float64, error) {
	return retry(v, prompt, func(line string) (float64, error) {
		n, err := strconv.ParseFloat(line, 64)
		if err != nil {
			return 0, errors.WrapError(err, errors.ErrCodeValidation, "value must be a decimal number")
		}
		if err := ValidateNonNegative(n, "value"); err != nil {
			return 0, err
		}
		return n, nil
	})
}

// GetPositiveLong 读取严格为正的整数
func (v *InputValidator) GetPositiveLong(prompt string) (int64, error) {
	return retry(v, prompt, func(line string) (int64, error) {
		n, err := strconv.ParseInt(line, 10, 64)
		if err != nil {
			return 0, errors.WrapError(err, errors.ErrCodeValidation, "value must be a whole number")
		}
		if err := ValidatePositive(n, "value"); err != nil {
			return 0, err
		}
		return n, nil
	})
}

// GetDate 读取 yyyy-MM-dd 格式的合法日期（UTC 零点）
func (v *InputValidator) GetDate(prompt string) (time.Time, error) {
	return retry(v, prompt, func(line string) (time.Time, error) {
		return ValidateDateString(line, "date")
	})
}

// GetBoolean 只接受 true / false（大小写不敏感）
func (v *InputValidator) GetBoolean(prompt string) (bool, error) {
	return retry(v, prompt, func(line string) (bool, error) {
		token, err := ValidateEnumFold(line, "value", []string{"true", "false"})
		if err != nil {
			return false, err
		}
		return token == "true", nil
	})
}

// GetMenuChoice 读取闭区间 [min, max] 内的整数
func (v *InputValidator) GetMenuChoice(prompt string, min, max int) (int, error) {
	return retry(v, prompt, func(line string) (int, error) {
		n, err := strconv.Atoi(line)
		if err != nil {
			return 0, errors.WrapError(err, errors.ErrCodeValidation, "choice must be a whole number")
		}
		if err := ValidateIntRange(n, "choice", min, max); err != nil {
			return 0, err
		}
		return n, nil
	})
}

// GetFilePath 读取文件路径，空行返回 DefaultFilePath
func (v *InputValidator) GetFilePath(prompt string) (string, error) {
	return v.GetFilePathOr(prompt, DefaultFilePath)
}

// GetFilePathOr 读取文件路径，空行返回 fallback
func (v *InputValidator) GetFilePathOr(prompt, fallback string) (string, error) {
	line, err := v.readLine(prompt)
	if err != nil {
		return "", err
	}
	if line == "" {
		return fallback, nil
	}
	return line, nil
}
