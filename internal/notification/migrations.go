package notification

import "embed"

// migrationsFS はサービス起動時に適用するマイグレーションSQLを保持する。
// ファイルはdb/notification/query.sqlと合わせてsqlcの入力にもなる。
//
//go:embed migrations/*.up.sql
var migrationsFS embed.FS
