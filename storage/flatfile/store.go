package flatfile

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"golang.org/x/text/encoding/unicode"
	"golang.org/x/text/transform"

	"employeetracker/domain/employee"
	"employeetracker/errors"
	"employeetracker/logging"
)

// Store 以整文件为单位读写员工记录
type Store struct {
	path string
}

// NewStore 创建指向 path 的文件存储
func NewStore(path string) *Store {
	return &Store{path: path}
}

// Path 返回文件路径
func (s *Store) Path() string {
	return s.path
}

// Save 写入全部记录。
// 先写同目录临时文件再重命名，失败时原文件保持不变。
func (s *Store) Save(ctx context.Context, employees []*employee.Employee) error {
	lines := make([]string, 0, len(employees))
	for _, e := range employees {
		line, err := EncodeLine(e)
		if err != nil {
			return err
		}
		lines = append(lines, line)
	}

	dir := filepath.Dir(s.path)
	tmp, err := os.CreateTemp(dir, filepath.Base(s.path)+".tmp-*")
	if err != nil {
		return s.saveError(ctx, err)
	}
	tmpName := tmp.Name()
	defer os.Remove(tmpName)

	// CreateTemp 使用 0600，这里沿用目标文件原有权限，新文件为 0644
	if err := tmp.Chmod(fileMode(s.path)); err != nil {
		_ = tmp.Close()
		return s.saveError(ctx, err)
	}

	w := bufio.NewWriter(tmp)
	for _, line := range lines {
		if _, err := w.WriteString(line + "\n"); err != nil {
			_ = tmp.Close()
			return s.saveError(ctx, err)
		}
	}
	if err := w.Flush(); err != nil {
		_ = tmp.Close()
		return s.saveError(ctx, err)
	}
	if err := tmp.Close(); err != nil {
		return s.saveError(ctx, err)
	}
	if err := os.Rename(tmpName, s.path); err != nil {
		return s.saveError(ctx, err)
	}
	return nil
}

// Load 读取全部记录。
// 空行被忽略；任一行不合法或 ID 重复时整体失败，不返回部分结果。
func (s *Store) Load(ctx context.Context) ([]*employee.Employee, error) {
	f, err := os.Open(s.path)
	if err != nil {
		return nil, errors.WrapIOError(ctx, err, "load employees", s.path)
	}
	defer f.Close()

	employees, err := Read(f)
	if err != nil {
		if errors.IsErrorCode(err, errors.ErrCodeMalformedRecord) {
			return nil, err
		}
		return nil, errors.WrapIOError(ctx, err, "load employees", s.path)
	}
	return employees, nil
}

// Read 从 r 解析记录，开头的 BOM 会被去除。行长度不设上限。
func Read(r io.Reader) ([]*employee.Employee, error) {
	reader := bufio.NewReader(transform.NewReader(r, unicode.BOMOverride(transform.Nop)))

	var employees []*employee.Employee
	seen := make(map[int64]int)
	for lineNo := 1; ; lineNo++ {
		line, readErr := reader.ReadString('\n')
		if readErr != nil && readErr != io.EOF {
			return nil, readErr
		}
		if readErr == io.EOF && line == "" {
			break
		}

		line = strings.TrimSuffix(line, "\n")
		if strings.TrimSpace(line) != "" {
			e, err := DecodeLine(line)
			if err != nil {
				return nil, lineError(err, lineNo)
			}
			if first, dup := seen[e.GetID()]; dup {
				return nil, errors.Errorf(errors.ErrCodeMalformedRecord,
					"duplicate id %d (first seen on line %d)", e.GetID(), first).
					WithContext("line", lineNo)
			}
			seen[e.GetID()] = lineNo
			employees = append(employees, e)
		}

		if readErr == io.EOF {
			break
		}
	}
	return employees, nil
}

// DefaultFileMode 新建数据文件的权限
const DefaultFileMode os.FileMode = 0o644

func fileMode(path string) os.FileMode {
	if info, err := os.Stat(path); err == nil && info.Mode().IsRegular() {
		return info.Mode().Perm()
	}
	return DefaultFileMode
}

func (s *Store) saveError(ctx context.Context, err error) error {
	return errors.WrapWithLog(ctx, err, errors.ErrCodeIO, "save employees failed",
		logging.String("path", s.path))
}

func lineError(err error, lineNo int) error {
	if appErr, ok := err.(errors.IError); ok {
		return appErr.Wrap(fmt.Sprintf("line %d", lineNo)).WithContext("line", lineNo)
	}
	return err
}
