package kv

import (
	"context"
	"os"
	"path/filepath"
	"testing"
)

func setupSQLite(t *testing.T) *SQLite {
	t.Helper()
	s, err := Open(":memory:")
	if err != nil {
		t.Fatalf("open store: %v", err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

func TestSQLiteGetAbsent(t *testing.T) {
	s := setupSQLite(t)

	_, ok, err := s.Get("nope")
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if ok {
		t.Fatal("expected absent key")
	}
}

func TestSQLiteSetGetRemove(t *testing.T) {
	s := setupSQLite(t)

	if err := s.Set("picklist-storage", []byte(`{"picklists":[]}`)); err != nil {
		t.Fatalf("set: %v", err)
	}

	got, ok, err := s.Get("picklist-storage")
	if err != nil || !ok {
		t.Fatalf("get: ok=%v err=%v", ok, err)
	}
	if string(got) != `{"picklists":[]}` {
		t.Errorf("value = %s", got)
	}

	// Overwrite
	if err := s.Set("picklist-storage", []byte(`{"picklists":[1]}`)); err != nil {
		t.Fatalf("overwrite: %v", err)
	}
	got, _, _ = s.Get("picklist-storage")
	if string(got) != `{"picklists":[1]}` {
		t.Errorf("overwritten value = %s", got)
	}

	if err := s.Remove("picklist-storage"); err != nil {
		t.Fatalf("remove: %v", err)
	}
	_, ok, _ = s.Get("picklist-storage")
	if ok {
		t.Fatal("key present after remove")
	}

	// Removing an absent key is fine.
	if err := s.Remove("picklist-storage"); err != nil {
		t.Fatalf("second remove: %v", err)
	}
}

func TestSQLitePersistsAcrossOpens(t *testing.T) {
	path := filepath.Join(t.TempDir(), "kaimono.db")

	s, err := Open(path)
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	if err := s.Set("k", []byte("v")); err != nil {
		t.Fatalf("set: %v", err)
	}
	s.Close()

	s2, err := Open(path)
	if err != nil {
		t.Fatalf("reopen: %v", err)
	}
	defer s2.Close()

	got, ok, err := s2.Get("k")
	if err != nil || !ok || string(got) != "v" {
		t.Fatalf("after reopen: got=%s ok=%v err=%v", got, ok, err)
	}
}

func TestSQLiteBackup(t *testing.T) {
	path := filepath.Join(t.TempDir(), "kaimono.db")
	s, err := Open(path)
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	defer s.Close()
	if err := s.Set("k", []byte("v")); err != nil {
		t.Fatalf("set: %v", err)
	}

	dst := filepath.Join(t.TempDir(), "snapshot.db")
	if err := s.Backup(context.Background(), dst); err != nil {
		t.Fatalf("backup: %v", err)
	}
	if _, err := os.Stat(dst); err != nil {
		t.Fatalf("snapshot missing: %v", err)
	}

	restored, err := Open(dst)
	if err != nil {
		t.Fatalf("open snapshot: %v", err)
	}
	defer restored.Close()
	got, ok, err := restored.Get("k")
	if err != nil || !ok || string(got) != "v" {
		t.Fatalf("snapshot data: got=%s ok=%v err=%v", got, ok, err)
	}
}
