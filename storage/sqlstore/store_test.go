package sqlstore

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"employeetracker/domain/employee"
	"employeetracker/errors"
)

func openTestStore(t *testing.T) *Store {
	t.Helper()
	s, err := Open(context.Background(), filepath.Join(t.TempDir(), "employees.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = s.Close() })
	return s
}

func records() []*employee.Employee {
	return []*employee.Employee{
		employee.New(10, employee.Attributes{
			Name: "Charlie", Position: "Manager", Salary: 80000,
			HireDate: time.Date(2018, 3, 4, 0, 0, 0, 0, time.UTC), Department: "IT", Active: true,
		}),
		employee.New(2, employee.Attributes{
			Name: "Alice", Position: "Developer", Salary: 60000.75,
			HireDate: time.Date(2024, 11, 30, 0, 0, 0, 0, time.UTC), Department: "IT", Active: false,
		}),
	}
}

func TestStore_SaveLoadPreservesOrder(t *testing.T) {
	ctx := context.Background()
	s := openTestStore(t)

	want := records()
	require.NoError(t, s.Save(ctx, want))

	got, err := s.Load(ctx)
	require.NoError(t, err)
	require.Len(t, got, 2)
	for i := range want {
		assert.True(t, want[i].Equal(got[i]), "record %d differs: %+v", i, got[i])
	}
}

func TestStore_SaveReplacesContent(t *testing.T) {
	ctx := context.Background()
	s := openTestStore(t)

	require.NoError(t, s.Save(ctx, records()))
	require.NoError(t, s.Save(ctx, records()[:1]))

	n, err := s.Count(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(1), n)
}

func TestStore_SaveRollsBackOnDuplicateID(t *testing.T) {
	ctx := context.Background()
	s := openTestStore(t)
	require.NoError(t, s.Save(ctx, records()))

	dup := append(records(), employee.New(10, employee.Attributes{Name: "Dup"}))
	err := s.Save(ctx, dup)
	require.Error(t, err)
	assert.Equal(t, errors.ErrCodeDatabase, errors.GetErrorCode(err))

	got, err := s.Load(ctx)
	require.NoError(t, err)
	assert.Len(t, got, 2, "failed save must not change stored content")
}

func TestStore_LoadEmpty(t *testing.T) {
	got, err := openTestStore(t).Load(context.Background())
	require.NoError(t, err)
	assert.Empty(t, got)
}

func TestNewStore_RejectsBadTableName(t *testing.T) {
	_, err := NewStore(nil, "employees; DROP TABLE x")
	require.Error(t, err)
	assert.Equal(t, errors.ErrCodeInvalidInput, errors.GetErrorCode(err))
}
