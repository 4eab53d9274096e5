// Package mailer はHTMLメールの組み立てと送信を行うメールトランスポートを提供する。
//
// メッセージの組み立てにはgo-messageを使用し、配送はSMTP（暗黙的TLSまたは
// STARTTLS）で行う。通知サービスがメール送信付き通知を処理する際に使用する。
package mailer
