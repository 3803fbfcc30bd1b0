package repository_test

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"go-procure-ledger/internal/repository"
)

// sqlRecorder captures every statement gorm generates so the locking clauses
// can be asserted on without a live database.
type sqlRecorder struct {
	sqls []string
}

func (r *sqlRecorder) LogMode(logger.LogLevel) logger.Interface      { return r }
func (r *sqlRecorder) Info(context.Context, string, ...interface{})  {}
func (r *sqlRecorder) Warn(context.Context, string, ...interface{})  {}
func (r *sqlRecorder) Error(context.Context, string, ...interface{}) {}
func (r *sqlRecorder) Trace(_ context.Context, _ time.Time, fc func() (string, int64), _ error) {
	sql, _ := fc()
	r.sqls = append(r.sqls, sql)
}

func (r *sqlRecorder) contains(fragment string) bool {
	for _, sql := range r.sqls {
		if strings.Contains(sql, fragment) {
			return true
		}
	}
	return false
}

func dryRunDB(t *testing.T, rec *sqlRecorder) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(postgres.Open(""), &gorm.Config{
		DryRun:               true,
		DisableAutomaticPing: true,
		Logger:               rec,
	})
	require.NoError(t, err)
	return db
}

func TestLockByIDGeneratesRowLock(t *testing.T) {
	rec := &sqlRecorder{}
	db := dryRunDB(t, rec)

	repo := repository.NewGRNRepo(db)
	_, _ = repo.LockByID(db, uuid.New())

	require.True(t, rec.contains("FOR UPDATE"), "generated SQL carries no row lock: %v", rec.sqls)
}

func TestLockLineGeneratesRowLock(t *testing.T) {
	rec := &sqlRecorder{}
	db := dryRunDB(t, rec)

	repo := repository.NewPurchaseOrderRepo(db)
	_, _ = repo.LockLine(db, uuid.New())

	require.True(t, rec.contains("FOR UPDATE"), "generated SQL carries no row lock: %v", rec.sqls)
}
