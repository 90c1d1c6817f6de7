// Package sqlstore 提供基于 SQLite 的员工快照存储
package sqlstore

import (
	"context"
	"fmt"
	"regexp"

	_ "modernc.org/sqlite"

	dbcore "employeetracker/data/db"
	"employeetracker/data/db/basic"
	"employeetracker/domain/employee"
	"employeetracker/errors"
)

const defaultTable = "employees"

var tableNameRegex = regexp.MustCompile(`^[A-Za-z_][A-Za-z0-9_]*$`)

// Store 以整表替换的方式保存员工集合
type Store struct {
	db        dbcore.IDatabase
	tableName string
}

// NewStore 使用已有数据库连接创建存储
func NewStore(db dbcore.IDatabase, table string) (*Store, error) {
	if table == "" {
		table = defaultTable
	}
	if !tableNameRegex.MatchString(table) {
		return nil, errors.Errorf(errors.ErrCodeInvalidInput, "invalid table name %q", table)
	}
	return &Store{db: db, tableName: table}, nil
}

// Open 打开（或创建）path 处的 SQLite 文件并确保表存在
func Open(ctx context.Context, path string) (*Store, error) {
	db, err := basic.New(dbcore.DBConfig{Driver: "sqlite", Database: path, MaxOpenConns: 1})
	if err != nil {
		return nil, errors.WrapDatabaseError(ctx, err, "open sqlite")
	}
	s, err := NewStore(db, defaultTable)
	if err != nil {
		_ = db.Close()
		return nil, err
	}
	if err := s.EnsureTable(ctx); err != nil {
		_ = db.Close()
		return nil, err
	}
	return s, nil
}

// Close 关闭底层连接
func (s *Store) Close() error {
	return s.db.Close()
}

// EnsureTable 创建表（已存在时不做修改）
func (s *Store) EnsureTable(ctx context.Context) error {
	ddl := fmt.Sprintf(`
CREATE TABLE IF NOT EXISTS %s (
	id INTEGER PRIMARY KEY,
	name TEXT NOT NULL,
	position TEXT NOT NULL DEFAULT '',
	salary REAL NOT NULL DEFAULT 0,
	hire_date TEXT NOT NULL,
	department TEXT NOT NULL DEFAULT '',
	active INTEGER NOT NULL DEFAULT 1,
	position_order INTEGER NOT NULL
)`, s.tableName)
	_, err := s.db.Exec(ctx, ddl)
	return errors.WrapDatabaseError(ctx, err, "create employees table")
}

// Save 在单个事务内替换表中全部记录，保留插入顺序
func (s *Store) Save(ctx context.Context, employees []*employee.Employee) (err error) {
	tx, err := s.db.Begin(ctx)
	if err != nil {
		return errors.WrapDatabaseError(ctx, err, "begin save")
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback()
		}
	}()

	if _, err = tx.Exec(ctx, fmt.Sprintf(`DELETE FROM %s`, s.tableName)); err != nil {
		return errors.WrapDatabaseError(ctx, err, "clear employees")
	}

	insert := fmt.Sprintf(`INSERT INTO %s (id, name, position, salary, hire_date, department, active, position_order)
VALUES (?, ?, ?, ?, ?, ?, ?, ?)`, s.tableName)
	for i, e := range employees {
		_, err = tx.Exec(ctx, insert,
			e.GetID(), e.Name, e.Position, e.Salary,
			employee.FormatDate(e.HireDate), e.Department, boolToInt(e.Active), i)
		if err != nil {
			return errors.WrapDatabaseError(ctx, err, fmt.Sprintf("insert employee %d", e.GetID()))
		}
	}

	if err = tx.Commit(); err != nil {
		return errors.WrapDatabaseError(ctx, err, "commit save")
	}
	return nil
}

// Load 按保存顺序读取全部记录
func (s *Store) Load(ctx context.Context) ([]*employee.Employee, error) {
	q := fmt.Sprintf(`SELECT id, name, position, salary, hire_date, department, active
FROM %s ORDER BY position_order, id`, s.tableName)
	rows, err := s.db.Query(ctx, q)
	if err != nil {
		return nil, errors.WrapDatabaseError(ctx, err, "select employees")
	}
	defer rows.Close()

	var employees []*employee.Employee
	for rows.Next() {
		var (
			id       int64
			attrs    employee.Attributes
			hireDate string
			active   int64
		)
		if err := rows.Scan(&id, &attrs.Name, &attrs.Position, &attrs.Salary, &hireDate, &attrs.Department, &active); err != nil {
			return nil, errors.WrapDatabaseError(ctx, err, "scan employee")
		}
		d, err := employee.ParseDate(hireDate)
		if err != nil {
			return nil, errors.Errorf(errors.ErrCodeMalformedRecord, "employee %d has invalid hire date %q", id, hireDate)
		}
		attrs.HireDate = d
		attrs.Active = active != 0
		employees = append(employees, employee.New(id, attrs))
	}
	if err := rows.Err(); err != nil {
		return nil, errors.WrapDatabaseError(ctx, err, "iterate employees")
	}
	return employees, nil
}

// Count 返回表中记录数
func (s *Store) Count(ctx context.Context) (int64, error) {
	var n int64
	row := s.db.QueryRow(ctx, fmt.Sprintf(`SELECT COUNT(*) FROM %s`, s.tableName))
	if err := row.Scan(&n); err != nil {
		return 0, errors.WrapDatabaseError(ctx, err, "count employees")
	}
	return n, nil
}

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}
