package errors

import (
	"context"
	"fmt"
	"runtime"

	"employeetracker/logging"
)

// WrapWithLog 包装错误并记录警告日志
func WrapWithLog(ctx context.Context, err error, code ErrorCode, msg string, fields ...logging.Field) error {
	if err == nil {
		return nil
	}

	_, file, line, _ := runtime.Caller(1)

	wrapped := WrapError(err, code, msg)

	allFields := append([]logging.Field{
		logging.Error(err),
		logging.String("error_code", string(code)),
		logging.String("location", fmt.Sprintf("%s:%d", file, line)),
	}, fields...)

	logging.GetLogger().Warn(ctx, msg, allFields...)

	return wrapped
}

// WrapIOError 包装文件读写错误
// 文件不存在归为 NOT_FOUND，其余归为 IO_ERROR
func WrapIOError(ctx context.Context, err error, operation, path string) error {
	if err == nil {
		return nil
	}

	code := ErrCodeIO
	if IsNotFound(Normalize(err)) {
		code = ErrCodeNotFound
	}

	return WrapWithLog(ctx, err, code,
		fmt.Sprintf("%s failed", operation),
		logging.String("operation", operation),
		logging.String("path", path),
	)
}

// WrapDatabaseError 包装数据库错误
func WrapDatabaseError(ctx context.Context, err error, operation string) error {
	if err == nil {
		return nil
	}

	if IsNotFound(Normalize(err)) {
		return WrapError(err, ErrCodeNotFound, operation)
	}

	return WrapWithLog(ctx, err, ErrCodeDatabase,
		fmt.Sprintf("database operation failed: %s", operation),
		logging.String("operation", operation),
	)
}
