// Package notification は通知サービスの内部実装を提供する。
//
// 通知レコードの保存とHTMLメールの送信を行う。管理者向け通知と
// メール送信ログの2つの区分で通知を管理し、一覧取得・既読化・削除の
// 操作を提供する。
package notification
