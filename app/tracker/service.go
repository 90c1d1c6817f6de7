// Package tracker 提供员工记录的应用服务。
//
// EmployeeService 独占内存中的员工集合与ID分配器，
// 负责增删改查、工龄报表以及整集合的保存与加载。
package tracker

import (
	"context"
	"time"

	"employeetracker/codegen/sequence"
	"employeetracker/domain/employee"
	"employeetracker/errors"
	"employeetracker/logging"
	"employeetracker/messaging"
	"employeetracker/storage/flatfile"
)

// SnapshotStore 以整集合为单位保存/加载员工记录
type SnapshotStore interface {
	Save(ctx context.Context, employees []*employee.Employee) error
	Load(ctx context.Context) ([]*employee.Employee, error)
}

// Option 服务选项
type Option func(*EmployeeService)

// WithLogger 设置日志器
func WithLogger(logger logging.Logger) Option {
	return func(s *EmployeeService) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// WithPublisher 设置变更通知发布器
func WithPublisher(publisher messaging.IPublisher) Option {
	return func(s *EmployeeService) {
		s.publisher = publisher
	}
}

// WithClock 设置工龄计算使用的时钟
func WithClock(now func() time.Time) Option {
	return func(s *EmployeeService) {
		if now != nil {
			s.now = now
		}
	}
}

// EmployeeService 员工记录服务（单线程使用）
type EmployeeService struct {
	employees []*employee.Employee
	ids       *sequence.Allocator
	logger    logging.Logger
	publisher messaging.IPublisher
	now       func() time.Time
}

// NewEmployeeService 创建空的员工服务
func NewEmployeeService(opts ...Option) *EmployeeService {
	s := &EmployeeService{
		ids:    sequence.NewAllocator(),
		logger: logging.GetLogger().WithFields(logging.String("component", "tracker")),
		now:    time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Len 返回员工数量
func (s *EmployeeService) Len() int {
	return len(s.employees)
}

// AddEmployee 分配新ID并追加记录，返回记录副本
func (s *EmployeeService) AddEmployee(ctx context.Context, attrs employee.Attributes) *employee.Employee {
	e := employee.New(s.ids.Next(), attrs)
	s.employees = append(s.employees, e)

	s.logger.Info(ctx, "employee added",
		logging.Int64("employee_id", e.GetID()), logging.String("name", e.Name))
	s.publish(ctx, EventEmployeeAdded, newEmployeePayload(e))
	return e.Clone()
}

// RemoveEmployee 按ID删除，不存在时返回 false
func (s *EmployeeService) RemoveEmployee(ctx context.Context, id int64) bool {
	idx := s.indexOf(id)
	if idx < 0 {
		return false
	}
	removed := s.employees[idx]
	s.employees = append(s.employees[:idx], s.employees[idx+1:]...)

	s.logger.Info(ctx, "employee removed", logging.Int64("employee_id", id))
	s.publish(ctx, EventEmployeeRemoved, newEmployeePayload(removed))
	return true
}

// UpdateEmployee 对指定记录应用单字段修改。
// 记录不存在时返回 false 且不做任何修改；零值 change 返回 INVALID_FIELD。
func (s *EmployeeService) UpdateEmployee(ctx context.Context, id int64, change employee.Change) (bool, error) {
	if !change.Valid() {
		return false, errors.NewError(errors.ErrCodeInvalidField, "no field selected for update")
	}
	idx := s.indexOf(id)
	if idx < 0 {
		return false, nil
	}
	if err := change.Apply(s.employees[idx]); err != nil {
		return false, err
	}

	s.logger.Info(ctx, "employee updated",
		logging.Int64("employee_id", id), logging.String("field", change.Field().String()))
	s.publish(ctx, EventEmployeeUpdated, fieldChangePayload{
		ID:    id,
		Field: change.Field().String(),
		Value: change.Value(),
	})
	return true, nil
}

// UpdateEmployeeField 按字段名与文本值更新（控制台入口）
func (s *EmployeeService) UpdateEmployeeField(ctx context.Context, id int64, fieldName, raw string) (bool, error) {
	field, err := employee.ParseField(fieldName)
	if err != nil {
		return false, err
	}
	change, err := employee.ParseChange(field, raw)
	if err != nil {
		return false, err
	}
	return s.UpdateEmployee(ctx, id, change)
}

// FindByID 查找记录，返回副本
func (s *EmployeeService) FindByID(id int64) (*employee.Employee, bool) {
	idx := s.indexOf(id)
	if idx < 0 {
		return nil, false
	}
	return s.employees[idx].Clone(), true
}

// GetAllEmployees 按插入顺序返回全部记录的副本
func (s *EmployeeService) GetAllEmployees() []*employee.Employee {
	out := make([]*employee.Employee, len(s.employees))
	for i, e := range s.employees {
		out[i] = e.Clone()
	}
	return out
}

// GenerateTenureReport 按工龄分组，空分组不出现在结果中
func (s *EmployeeService) GenerateTenureReport() map[string][]*employee.Employee {
	now := s.now()
	report := make(map[string][]*employee.Employee)
	for _, e := range s.employees {
		bucket := employee.TenureBucket(e.HireDate, now)
		report[bucket] = append(report[bucket], e.Clone())
	}
	return report
}

// SaveToFile 以竖线分隔格式写入 path
func (s *EmployeeService) SaveToFile(ctx context.Context, path string) error {
	return s.SaveTo(ctx, flatfile.NewStore(path))
}

// LoadFromFile 从 path 加载并替换当前集合
func (s *EmployeeService) LoadFromFile(ctx context.Context, path string) error {
	return s.LoadFrom(ctx, flatfile.NewStore(path))
}

// SaveTo 将当前集合写入 store
func (s *EmployeeService) SaveTo(ctx context.Context, store SnapshotStore) error {
	if err := store.Save(ctx, s.GetAllEmployees()); err != nil {
		return err
	}
	s.logger.Info(ctx, "employees saved", logging.Int("count", len(s.employees)))
	return nil
}

// LoadFrom 从 store 加载并整体替换当前集合。
// 加载失败或存在重复/非法ID时返回错误，当前集合保持不变。
// 成功后分配器保证新ID大于全部已加载ID。
func (s *EmployeeService) LoadFrom(ctx context.Context, store SnapshotStore) error {
	loaded, err := store.Load(ctx)
	if err != nil {
		return err
	}

	var maxID int64
	seen := make(map[int64]struct{}, len(loaded))
	for _, e := range loaded {
		id := e.GetID()
		if id <= 0 {
			return errors.Errorf(errors.ErrCodeMalformedRecord, "invalid employee id %d", id)
		}
		if _, dup := seen[id]; dup {
			return errors.Errorf(errors.ErrCodeMalformedRecord, "duplicate employee id %d", id)
		}
		seen[id] = struct{}{}
		if id > maxID {
			maxID = id
		}
	}

	s.employees = loaded
	s.ids.Reseed(maxID)

	s.logger.Info(ctx, "employees loaded",
		logging.Int("count", len(loaded)), logging.Int64("next_id", s.ids.Peek()))
	s.publish(ctx, EventEmployeesLoaded, loadedPayload{Count: len(loaded)})
	return nil
}

func (s *EmployeeService) indexOf(id int64) int {
	for i, e := range s.employees {
		if e.GetID() == id {
			return i
		}
	}
	return -1
}

// publish 发送变更通知；失败只记录警告，不影响已完成的修改
func (s *EmployeeService) publish(ctx context.Context, eventType string, payload any) {
	if s.publisher == nil {
		return
	}
	if err := s.publisher.Publish(ctx, messaging.NewMessage(eventType, payload)); err != nil {
		s.logger.Warn(ctx, "publish change notification failed",
			logging.String("event_type", eventType), logging.Error(err))
	}
}
