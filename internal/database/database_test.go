package database

import (
	"path/filepath"
	"strings"
	"testing"

	"event-inventory/internal/config"
	"event-inventory/internal/models"
)

func TestSQLiteDSN(t *testing.T) {
	dsn := SQLiteDSN("/tmp/x.db", 2500)
	for _, want := range []string{"file:/tmp/x.db?", "_foreign_keys=on", "_txlock=immediate", "_busy_timeout=2500", "_journal_mode=WAL"} {
		if !strings.Contains(dsn, want) {
			t.Errorf("SQLiteDSN() = %q, missing %q", dsn, want)
		}
	}
	if strings.Contains(SQLiteDSN("/tmp/x.db", 0), "_busy_timeout") {
		t.Error("SQLiteDSN() with zero timeout should not set _busy_timeout")
	}
}

func TestInitAndMigrate(t *testing.T) {
	db, err := Init(config.DatabaseConfig{
		Driver:        "sqlite",
		Path:          filepath.Join(t.TempDir(), "sub", "inventory.db"),
		BusyTimeoutMS: 1000,
	})
	if err != nil {
		t.Fatalf("Init() error = %v", err)
	}
	defer Close(db)

	if err := AutoMigrate(db); err != nil {
		t.Fatalf("AutoMigrate() error = %v", err)
	}

	for _, table := range []string{"events", "articles", "transactions", "todos", "operators"} {
		if !db.Migrator().HasTable(table) {
			t.Errorf("table %s missing after migration", table)
		}
	}

	var fk int
	if err := db.Raw("PRAGMA foreign_keys").Scan(&fk).Error; err != nil {
		t.Fatalf("PRAGMA foreign_keys: %v", err)
	}
	if fk != 1 {
		t.Errorf("foreign_keys = %d, want 1", fk)
	}

	// referential check is enforced by the engine as well
	err = db.Create(&models.Transaction{ArticleID: 42, EventID: 42, Type: models.TransactionBuy, Quantity: 1}).Error
	if err == nil {
		t.Error("insert with dangling references succeeded, want foreign key error")
	}
}

func TestInit_UnknownDriver(t *testing.T) {
	if _, err := Init(config.DatabaseConfig{Driver: "oracle"}); err == nil {
		t.Error("Init() with unknown driver error = nil, want error")
	}
}
