package validation

import (
	"fmt"
	"math"
	"regexp"
	"strings"
	"time"

	"employeetracker/errors"
)

var dateRegex = regexp.MustCompile(`^\d{4}-\d{2}-\d{2}$`)

// ValidateRequired 验证必填字段（仅空白视为空）
func ValidateRequired(value, fieldName string) error {
	if strings.TrimSpace(value) == "" {
		return errors.NewError(errors.ErrCodeValidation,
			fmt.Sprintf("%s must not be empty", fieldName))
	}
	return nil
}

// ValidateIntRange 验证整数范围（闭区间）
func ValidateIntRange(value int, fieldName string, min, max int) error {
	if value < min {
		return errors.NewError(errors.ErrCodeValidation,
			fmt.Sprintf("%s must be at least %d (got %d)", fieldName, min, value))
	}
	if value > max {
		return errors.NewError(errors.ErrCodeValidation,
			fmt.Sprintf("%s must be at most %d (got %d)", fieldName, max, value))
	}
	return nil
}

// ValidatePositive 验证正整数
func ValidatePositive(value int64, fieldName string) error {
	if value <= 0 {
		return errors.NewError(errors.ErrCodeValidation,
			fmt.Sprintf("%s must be positive (got %d)", fieldName, value))
	}
	return nil
}

// ValidateNonNegative 验证非负有限小数
func ValidateNonNegative(value float64, fieldName string) error {
	if math.IsNaN(value) || math.IsInf(value, 0) {
		return errors.NewError(errors.ErrCodeValidation,
			fmt.Sprintf("%s must be a finite number", fieldName))
	}
	if value < 0 {
		return errors.NewError(errors.ErrCodeValidation,
			fmt.Sprintf("%s must not be negative (got %v)", fieldName, value))
	}
	return nil
}

// ValidateEnumFold 验证枚举值（大小写不敏感），返回匹配到的规范值
func ValidateEnumFold(value, fieldName string, validValues []string) (string, error) {
	for _, valid := range validValues {
		if strings.EqualFold(value, valid) {
			return valid, nil
		}
	}
	return "", errors.NewError(errors.ErrCodeValidation,
		fmt.Sprintf("%s must be one of %v", fieldName, validValues))
}

// ValidateDateString 验证 yyyy-MM-dd 格式且为合法日历日期
func ValidateDateString(value, fieldName string) (time.Time, error) {
	if !dateRegex.MatchString(value) {
		return time.Time{}, errors.NewError(errors.ErrCodeValidation,
			fmt.Sprintf("%s must use the yyyy-MM-dd format", fieldName))
	}
	d, err := time.Parse("2006-01-02", value)
	if err != nil {
		return time.Time{}, errors.WrapError(err, errors.ErrCodeValidation,
			fmt.Sprintf("%s is not a valid calendar date", fieldName))
	}
	return d, nil
}
