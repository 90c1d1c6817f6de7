package errors

import (
	"database/sql"
	stdErrors "errors"
	"io/fs"
)

// Normalize 将标准库/基础设施层的错误规范化为 AppError。
//
// 注意：
//   - 如果传入的 err 已经是 IError，则原样返回；
//   - 未识别的错误保持原样，不强行包装，交由调用方决定是否 Wrap。
func Normalize(err error) error {
	if err == nil {
		return nil
	}

	if _, ok := err.(IError); ok {
		return err
	}

	if stdErrors.Is(err, fs.ErrNotExist) {
		return WrapError(err, ErrCodeNotFound, "file not found")
	}

	if stdErrors.Is(err, fs.ErrPermission) {
		return WrapError(err, ErrCodeIO, "permission denied")
	}

	if stdErrors.Is(err, sql.ErrNoRows) {
		return WrapError(err, ErrCodeNotFound, "no rows")
	}

	return err
}
