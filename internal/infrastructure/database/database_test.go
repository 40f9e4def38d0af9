package database

import (
	"context"
	"errors"
	"testing"

	"github.com/sangkips/pharmacy-pos/internal/config"
	"github.com/sangkips/pharmacy-pos/internal/domain/entity"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
	"gorm.io/gorm"
)

func TestOpenSQLiteAndMigrate(t *testing.T) {
	cfg := &config.DatabaseConfig{Driver: "sqlite", Path: "file:" + t.Name() + "?mode=memory&cache=shared"}
	db, err := Open(cfg, false, zap.NewNop())
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	if err := AutoMigrate(db, zap.NewNop()); err != nil {
		t.Fatalf("migrate: %v", err)
	}

	s := entity.NewPosSession("u1", "s1")
	if err := db.WithContext(context.Background()).Create(s).Error; err != nil {
		t.Fatalf("create session: %v", err)
	}
	if !db.Migrator().HasTable(&entity.IdempotencyKey{}) {
		t.Fatal("idempotency table missing")
	}
}

func TestOpenRejectsUnknownDriver(t *testing.T) {
	if _, err := Open(&config.DatabaseConfig{Driver: "mysql"}, false, zap.NewNop()); err == nil {
		t.Fatal("expected error for unsupported driver")
	}
}

func TestGormLogsGoThroughZap(t *testing.T) {
	core, logs := observer.New(zapcore.InfoLevel)
	cfg := &config.DatabaseConfig{Driver: "sqlite", Path: "file:" + t.Name() + "?mode=memory&cache=shared"}
	db, err := Open(cfg, false, zap.New(core))
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	if err := AutoMigrate(db, zap.NewNop()); err != nil {
		t.Fatalf("migrate: %v", err)
	}

	var s entity.PosSession
	if err := db.First(&s, "user_id = ?", "nobody").Error; !errors.Is(err, gorm.ErrRecordNotFound) {
		t.Fatalf("expected record not found, got %v", err)
	}
	if n := logs.FilterLoggerName("gorm").Len(); n != 0 {
		t.Fatalf("a missing row should not be logged, got %d entries", n)
	}

	var rows []map[string]any
	if err := db.Table("no_such_table").Find(&rows).Error; err == nil {
		t.Fatal("expected an error for a missing table")
	}
	if logs.FilterLoggerName("gorm").Len() == 0 {
		t.Fatal("query errors should be logged through zap")
	}
}
