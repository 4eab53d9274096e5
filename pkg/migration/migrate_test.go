package migration

import (
	"database/sql"
	"testing"
	"testing/fstest"

	_ "modernc.org/sqlite"
)

// openTestDB はテスト用のインメモリSQLiteデータベースを開く。
func openTestDB(t *testing.T) *sql.DB {
	t.Helper()

	db, err := sql.Open("sqlite", ":memory:")
	if err != nil {
		t.Fatalf("インメモリDBの作成に失敗: %v", err)
	}
	t.Cleanup(func() { db.Close() })
	return db
}

// TestRun はマイグレーション適用処理を検証する。
func TestRun(t *testing.T) {
	t.Parallel()

	t.Run("マイグレーションがバージョン順に適用されること", func(t *testing.T) {
		t.Parallel()

		db := openTestDB(t)
		fsys := fstest.MapFS{
			"migrations/000002_add_index.up.sql": &fstest.MapFile{
				Data: []byte("CREATE INDEX idx_items_name ON items(name);"),
			},
			"migrations/000001_create_items.up.sql": &fstest.MapFile{
				Data: []byte("CREATE TABLE items (id TEXT PRIMARY KEY, name TEXT NOT NULL);"),
			},
		}

		if err := Run(db, fsys, "migrations"); err != nil {
			t.Fatalf("マイグレーション適用に失敗: %v", err)
		}

		// 両方のバージョンが記録されていることを確認する
		var count int
		if err := db.QueryRow("SELECT COUNT(*) FROM schema_migrations").Scan(&count); err != nil {
			t.Fatalf("適用済みバージョンの取得に失敗: %v", err)
		}
		if count != 2 {
			t.Errorf("適用済みマイグレーションの数: got %d, want 2", count)
		}

		// テーブルとインデックスが使用可能なことを確認する
		if _, err := db.Exec("INSERT INTO items (id, name) VALUES ('1', 'test')"); err != nil {
			t.Errorf("マイグレーション後のテーブルが使用できません: %v", err)
		}
	})

	t.Run("適用済みのマイグレーションは再実行されないこと", func(t *testing.T) {
		t.Parallel()

		db := openTestDB(t)
		fsys := fstest.MapFS{
			"migrations/000001_create_items.up.sql": &fstest.MapFile{
				Data: []byte("CREATE TABLE items (id TEXT PRIMARY KEY);"),
			},
		}

		if err := Run(db, fsys, "migrations"); err != nil {
			t.Fatalf("1回目のマイグレーション適用に失敗: %v", err)
		}

		// CREATE TABLEを含むマイグレーションの再実行はエラーになるため、
		// スキップされていれば2回目も成功する
		if err := Run(db, fsys, "migrations"); err != nil {
			t.Fatalf("2回目のマイグレーション適用に失敗: %v", err)
		}

		var count int
		if err := db.QueryRow("SELECT COUNT(*) FROM schema_migrations").Scan(&count); err != nil {
			t.Fatalf("適用済みバージョンの取得に失敗: %v", err)
		}
		if count != 1 {
			t.Errorf("適用済みマイグレーションの数: got %d, want 1", count)
		}
	})

	t.Run("バージョン番号を持たないファイルは無視されること", func(t *testing.T) {
		t.Parallel()

		db := openTestDB(t)
		fsys := fstest.MapFS{
			"migrations/000001_create_items.up.sql": &fstest.MapFile{
				Data: []byte("CREATE TABLE items (id TEXT PRIMARY KEY);"),
			},
			"migrations/README.md": &fstest.MapFile{
				Data: []byte("# migrations"),
			},
			"migrations/notes.up.sql": &fstest.MapFile{
				Data: []byte("CREATE TABLE broken (;"),
			},
		}

		if err := Run(db, fsys, "migrations"); err != nil {
			t.Fatalf("マイグレーション適用に失敗: %v", err)
		}

		var count int
		if err := db.QueryRow("SELECT COUNT(*) FROM schema_migrations").Scan(&count); err != nil {
			t.Fatalf("適用済みバージョンの取得に失敗: %v", err)
		}
		if count != 1 {
			t.Errorf("適用済みマイグレーションの数: got %d, want 1", count)
		}
	})

	t.Run("不正なSQLを含むマイグレーションはエラーになること", func(t *testing.T) {
		t.Parallel()

		db := openTestDB(t)
		fsys := fstest.MapFS{
			"migrations/000001_broken.up.sql": &fstest.MapFile{
				Data: []byte("CREATE TABLE broken (;"),
			},
		}

		if err := Run(db, fsys, "migrations"); err == nil {
			t.Error("不正なSQLでエラーが返りませんでした")
		}

		// 失敗したバージョンは記録されないことを確認する
		var count int
		if err := db.QueryRow("SELECT COUNT(*) FROM schema_migrations").Scan(&count); err != nil {
			t.Fatalf("適用済みバージョンの取得に失敗: %v", err)
		}
		if count != 0 {
			t.Errorf("適用済みマイグレーションの数: got %d, want 0", count)
		}
	})
}
