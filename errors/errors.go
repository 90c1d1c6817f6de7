// Package errors 提供带错误码的应用错误类型
package errors

import (
	stdErrors "errors"
	"fmt"
	"maps"
)

// ErrorCode 错误代码类型
type ErrorCode string

const (
	ErrCodeInternal     ErrorCode = "INTERNAL_ERROR"
	ErrCodeInvalidInput ErrorCode = "INVALID_INPUT"
	ErrCodeNotFound     ErrorCode = "NOT_FOUND"

	// 员工记录相关
	ErrCodeValidation      ErrorCode = "VALIDATION_ERROR"
	ErrCodeInvalidField    ErrorCode = "INVALID_FIELD"
	ErrCodeMalformedRecord ErrorCode = "MALFORMED_RECORD"
	ErrCodeEndOfInput      ErrorCode = "END_OF_INPUT"

	// 存储与消息通道
	ErrCodeIO       ErrorCode = "IO_ERROR"
	ErrCodeDatabase ErrorCode = "DATABASE_ERROR"
	ErrCodeQueue    ErrorCode = "QUEUE_ERROR"
)

// IError 错误接口
type IError interface {
	error

	Code() ErrorCode
	Message() string
	Cause() error

	// Details 附加的上下文（如出错的行号、文件路径）
	Details() map[string]any

	Is(target error) bool

	// Wrap 在消息前追加描述，保留错误码
	Wrap(msg string) IError

	// WithContext 返回附带 key=value 的新错误
	WithContext(key string, value any) IError
}

// AppError 应用错误实现
type AppError struct {
	code    ErrorCode
	message string
	cause   error
	details map[string]any
}

// NewError 创建新错误
func NewError(code ErrorCode, message string) IError {
	return &AppError{code: code, message: message}
}

// Errorf 按格式创建新错误
func Errorf(code ErrorCode, format string, args ...any) IError {
	return &AppError{code: code, message: fmt.Sprintf(format, args...)}
}

// WrapError 包装错误，err 为 nil 时返回 nil
func WrapError(err error, code ErrorCode, message string) IError {
	if err == nil {
		return nil
	}
	return &AppError{code: code, message: message, cause: err}
}

func (e *AppError) Error() string {
	if e.cause != nil {
		return fmt.Sprintf("[%s] %s: %v", e.code, e.message, e.cause)
	}
	return fmt.Sprintf("[%s] %s", e.code, e.message)
}

func (e *AppError) Code() ErrorCode { return e.code }
func (e *AppError) Message() string { return e.message }
func (e *AppError) Cause() error    { return e.cause }
func (e *AppError) Unwrap() error   { return e.cause }

// Details 返回详情副本
func (e *AppError) Details() map[string]any {
	out := make(map[string]any, len(e.details))
	maps.Copy(out, e.details)
	return out
}

// Is 同错误码的 AppError 视为相等；否则委托给 cause
func (e *AppError) Is(target error) bool {
	if target == nil {
		return false
	}
	if appErr, ok := target.(*AppError); ok {
		return e.code == appErr.code
	}
	if e.cause != nil {
		return stdErrors.Is(e.cause, target)
	}
	return false
}

func (e *AppError) Wrap(msg string) IError {
	return &AppError{
		code:    e.code,
		message: msg + ": " + e.message,
		cause:   e,
		details: e.Details(),
	}
}

func (e *AppError) WithContext(key string, value any) IError {
	details := e.Details()
	details[key] = value
	return &AppError{code: e.code, message: e.message, cause: e.cause, details: details}
}

// 哨兵错误，仅用于 errors.Is 比较错误码
var (
	ErrMalformedRecord = NewError(ErrCodeMalformedRecord, "malformed record")
	ErrEndOfInput      = NewError(ErrCodeEndOfInput, "end of input")
	ErrIO              = NewError(ErrCodeIO, "i/o failure")
)

// IsNotFound 检查是否为未找到错误
func IsNotFound(err error) bool {
	return IsErrorCode(err, ErrCodeNotFound)
}

// IsValidation 检查是否为验证错误
func IsValidation(err error) bool {
	return IsErrorCode(err, ErrCodeValidation)
}

// IsErrorCode 检查错误链中最外层 AppError 的错误代码
func IsErrorCode(err error, code ErrorCode) bool {
	var appErr *AppError
	return stdErrors.As(err, &appErr) && appErr.code == code
}

// GetErrorCode 获取错误代码，非 AppError 视为内部错误
func GetErrorCode(err error) ErrorCode {
	if err == nil {
		return ""
	}
	var appErr *AppError
	if stdErrors.As(err, &appErr) {
		return appErr.code
	}
	return ErrCodeInternal
}
