package cache

import (
	"context"
	"os"
	"path/filepath"
	"testing"
)

func TestOpenSQLite_CreatesDatabase(t *testing.T) {
	path := filepath.Join(t.TempDir(), "memo.db")

	s, err := OpenSQLite(path)
	if err != nil {
		t.Fatalf("OpenSQLite() failed: %v", err)
	}
	defer s.Close()

	if _, err := os.Stat(path); os.IsNotExist(err) {
		t.Error("database file was not created")
	}

	var mode string
	if err := s.db.QueryRow("PRAGMA journal_mode").Scan(&mode); err != nil {
		t.Fatalf("query journal_mode: %v", err)
	}
	if mode != "wal" {
		t.Errorf("journal_mode = %q, want wal", mode)
	}

	var version int
	if err := s.db.QueryRow("PRAGMA user_version").Scan(&version); err != nil {
		t.Fatalf("query user_version: %v", err)
	}
	if version != currentSchemaVersion {
		t.Errorf("user_version = %d, want %d", version, currentSchemaVersion)
	}
}

func TestOpenSQLite_ReopenKeepsEntries(t *testing.T) {
	path := filepath.Join(t.TempDir(), "memo.db")
	ctx := context.Background()

	s1, err := OpenSQLite(path)
	if err != nil {
		t.Fatalf("first OpenSQLite() failed: %v", err)
	}
	gen1, err := s1.Generation(ctx)
	if err != nil {
		t.Fatal(err)
	}
	if err := s1.Save(ctx, "positions", "sun|2451545", []byte(`{"lon":280.37}`)); err != nil {
		t.Fatalf("Save() failed: %v", err)
	}
	s1.Close()

	s2, err := OpenSQLite(path)
	if err != nil {
		t.Fatalf("second OpenSQLite() failed: %v", err)
	}
	defer s2.Close()

	gen2, err := s2.Generation(ctx)
	if err != nil {
		t.Fatal(err)
	}
	if gen1 != gen2 {
		t.Errorf("generation changed on reopen: %s -> %s", gen1, gen2)
	}

	data, ok, err := s2.Load(ctx, "positions", "sun|2451545")
	if err != nil || !ok {
		t.Fatalf("Load() = %v, %v", ok, err)
	}
	if string(data) != `{"lon":280.37}` {
		t.Errorf("Load() = %s", data)
	}
}

func TestSQLiteTier_SaveOverwrites(t *testing.T) {
	s, err := OpenSQLite(":memory:")
	if err != nil {
		t.Fatal(err)
	}
	defer s.Close()
	ctx := context.Background()

	for _, v := range []string{"a", "b"} {
		if err := s.Save(ctx, "t", "k", []byte(v)); err != nil {
			t.Fatalf("Save(%s) failed: %v", v, err)
		}
	}
	data, ok, err := s.Load(ctx, "t", "k")
	if err != nil || !ok {
		t.Fatalf("Load() = %v, %v", ok, err)
	}
	if string(data) != "b" {
		t.Errorf("Load() = %q, want %q", data, "b")
	}

	if _, ok, _ := s.Load(ctx, "other", "k"); ok {
		t.Error("tables must not share keys")
	}
}

func TestSQLiteTier_ClearRotatesGeneration(t *testing.T) {
	s, err := OpenSQLite(":memory:")
	if err != nil {
		t.Fatal(err)
	}
	defer s.Close()
	ctx := context.Background()

	before, _ := s.Generation(ctx)
	if err := s.Save(ctx, "t", "k", []byte("v")); err != nil {
		t.Fatal(err)
	}
	if err := s.Clear(ctx); err != nil {
		t.Fatalf("Clear() failed: %v", err)
	}
	after, _ := s.Generation(ctx)
	if before == after {
		t.Error("Clear() did not rotate the generation")
	}

	if _, ok, _ := s.Load(ctx, "t", "k"); ok {
		t.Error("entry survived Clear()")
	}
	n, err := s.Count(ctx)
	if err != nil {
		t.Fatal(err)
	}
	if n != 0 {
		t.Errorf("Count() = %d after Clear()", n)
	}
}

func TestSQLiteTier_StampInvalidatesOnChange(t *testing.T) {
	path := filepath.Join(t.TempDir(), "memo.db")
	ctx := context.Background()

	s1, err := OpenSQLite(path)
	if err != nil {
		t.Fatal(err)
	}
	changed, err := s1.Stamp(ctx, "locale=en")
	if err != nil {
		t.Fatalf("Stamp() failed: %v", err)
	}
	if !changed {
		t.Error("first Stamp() on a new database must report a change")
	}
	if err := s1.Save(ctx, "positions", "moon", []byte(`{"name":"Moon"}`)); err != nil {
		t.Fatal(err)
	}
	s1.Close()

	s2, err := OpenSQLite(path)
	if err != nil {
		t.Fatal(err)
	}
	defer s2.Close()

	changed, err = s2.Stamp(ctx, "locale=en")
	if err != nil {
		t.Fatal(err)
	}
	if changed {
		t.Error("Stamp() with the stored fingerprint must not invalidate")
	}
	if _, ok, _ := s2.Load(ctx, "positions", "moon"); !ok {
		t.Fatal("entry lost under an unchanged fingerprint")
	}

	gen, _ := s2.Generation(ctx)
	changed, err = s2.Stamp(ctx, "locale=es")
	if err != nil {
		t.Fatal(err)
	}
	if !changed {
		t.Error("Stamp() with a new fingerprint must report a change")
	}
	if after, _ := s2.Generation(ctx); after == gen {
		t.Error("Stamp() did not rotate the generation")
	}
	if _, ok, _ := s2.Load(ctx, "positions", "moon"); ok {
		t.Error("entry survived a fingerprint change")
	}
	fp, err := s2.Fingerprint(ctx)
	if err != nil {
		t.Fatal(err)
	}
	if fp != "locale=es" {
		t.Errorf("Fingerprint() = %q, want %q", fp, "locale=es")
	}
}
