package database

import (
	"path/filepath"
	"testing"

	"github.com/afeibuhuifei/project-flow/models"
)

func TestOpenCreatesParentDir(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "dir", "test.db")

	db, err := OpenAndMigrate(path)
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	defer Close(db)

	for _, table := range []string{"users", "projects", "tasks", "task_dependencies", "task_files"} {
		if !db.Migrator().HasTable(table) {
			t.Errorf("table %s not created", table)
		}
	}
}

func TestMigrateIsIdempotent(t *testing.T) {
	db, err := OpenAndMigrate(filepath.Join(t.TempDir(), "test.db"))
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	defer Close(db)

	if err := Migrate(db); err != nil {
		t.Fatalf("second migrate failed: %v", err)
	}
}

func TestForeignKeysEnforced(t *testing.T) {
	db, err := OpenAndMigrate(filepath.Join(t.TempDir(), "test.db"))
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	defer Close(db)

	var enabled int
	if err := db.Raw("PRAGMA foreign_keys").Scan(&enabled).Error; err != nil {
		t.Fatalf("query foreign_keys: %v", err)
	}
	if enabled != 1 {
		t.Fatalf("foreign_keys = %d, want 1", enabled)
	}

	orphan := models.Project{Name: "orphan", Status: models.ProjectActive, OwnerID: 999}
	if err := db.Create(&orphan).Error; err == nil {
		t.Fatal("expected foreign key violation for unknown owner")
	}
}
