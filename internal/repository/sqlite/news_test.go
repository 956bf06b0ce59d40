package sqlite

import (
	"context"
	"database/sql"
	"testing"

	"github.com/omarshaarawi/leaguehub/internal/news"
)

func openTestDB(t *testing.T) *sql.DB {
	t.Helper()
	db, err := Open(":memory:")
	if err != nil {
		t.Fatalf("failed to open test db: %v", err)
	}
	t.Cleanup(func() { db.Close() })
	return db
}

func TestNewsStoreEmpty(t *testing.T) {
	s := NewNewsStore(openTestDB(t))
	items, err := s.Load(context.Background())
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if len(items) != 0 {
		t.Errorf("Load = %v, want empty", items)
	}
}

func TestNewsStoreSaveOverwrites(t *testing.T) {
	ctx := context.Background()
	s := NewNewsStore(openTestDB(t))

	first := []news.Item{{ID: 1, Content: "draft night", Date: 1}}
	if err := s.Save(ctx, first); err != nil {
		t.Fatalf("Save: %v", err)
	}
	second := []news.Item{
		{ID: 2, Content: "trade deadline moved", Date: 2},
		{ID: 1, Content: "draft night", Date: 1, Archived: true},
	}
	if err := s.Save(ctx, second); err != nil {
		t.Fatalf("Save: %v", err)
	}

	got, err := s.Load(ctx)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if len(got) != 2 || got[0] != second[0] || got[1] != second[1] {
		t.Errorf("Load = %+v, want %+v", got, second)
	}
}

func TestNewsStoreWireFormat(t *testing.T) {
	ctx := context.Background()
	db := openTestDB(t)
	s := NewNewsStore(db)

	if err := s.Save(ctx, []news.Item{{ID: 7, Content: "hi", Date: 7, Archived: true}}); err != nil {
		t.Fatalf("Save: %v", err)
	}

	var raw string
	if err := db.QueryRow(`SELECT value FROM kv WHERE key = ?`, news.StoreKey).Scan(&raw); err != nil {
		t.Fatalf("query: %v", err)
	}
	want := `[{"id":7,"content":"hi","date":7,"isArchived":true}]`
	if raw != want {
		t.Errorf("stored value = %s, want %s", raw, want)
	}
}

func TestNewsStoreCorruptValue(t *testing.T) {
	db := openTestDB(t)
	if _, err := db.Exec(`INSERT INTO kv (key, value) VALUES (?, ?)`, news.StoreKey, "{not json"); err != nil {
		t.Fatalf("insert: %v", err)
	}
	if _, err := NewNewsStore(db).Load(context.Background()); err == nil {
		t.Error("Load of corrupt value should fail")
	}
}

func TestMigrateIsIdempotent(t *testing.T) {
	db := openTestDB(t)
	if err := Migrate(context.Background(), db); err != nil {
		t.Errorf("second Migrate: %v", err)
	}
}
