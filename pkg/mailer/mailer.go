package mailer

import (
	"bytes"
	"context"
	"crypto/tls"
	"fmt"
	"io"
	"net"
	"net/smtp"
	"time"

	"github.com/emersion/go-message/mail"
)

// Mailer はフォーマット済みメッセージを宛先へ送信する能力を表す。
// 通知サービスはこのインターフェース越しにメールを送信する。
type Mailer interface {
	// Send はtoで指定した宛先へHTML本文のメールを送信する。
	Send(ctx context.Context, to, subject, htmlBody string) error
}

// Config はSMTPメーラーの接続設定。
type Config struct {
	// Host はSMTPサーバーのホスト名。
	Host string
	// Port はSMTPサーバーのポート番号。
	Port string
	// Username はSMTP認証のユーザー名。空の場合は認証を行わない。
	Username string
	// Password はSMTP認証のパスワード。
	Password string
	// From は送信元メールアドレス。
	From string
	// UseTLS がtrueの場合は暗黙的TLSで接続し、falseの場合はSTARTTLSを使用する。
	UseTLS bool
}

// SMTPMailer はSMTP経由でメールを送信するMailer実装。
type SMTPMailer struct {
	// cfg はSMTP接続設定。
	cfg Config
}

// New は新しいSMTPメーラーを生成する。
func New(cfg Config) *SMTPMailer {
	return &SMTPMailer{cfg: cfg}
}

// dialTimeout はSMTPサーバーへの接続タイムアウト。
const dialTimeout = 30 * time.Second

// Send はHTMLメールを組み立ててSMTPで送信する。
// 接続方式はConfig.UseTLSに従い、暗黙的TLSまたはSTARTTLSを使用する。
func (m *SMTPMailer) Send(ctx context.Context, to, subject, htmlBody string) error {
	msg, err := m.buildMessage(to, subject, htmlBody)
	if err != nil {
		return fmt.Errorf("メールメッセージの組み立てに失敗: %w", err)
	}

	conn, err := m.dial(ctx)
	if err != nil {
		return err
	}

	client, err := smtp.NewClient(conn, m.cfg.Host)
	if err != nil {
		conn.Close()
		return fmt.Errorf("SMTPクライアントの生成に失敗: %w", err)
	}
	defer client.Close()

	if !m.cfg.UseTLS {
		if err := client.StartTLS(&tls.Config{ServerName: m.cfg.Host}); err != nil {
			return fmt.Errorf("STARTTLSに失敗: %w", err)
		}
	}

	if m.cfg.Username != "" {
		auth := smtp.PlainAuth("", m.cfg.Username, m.cfg.Password, m.cfg.Host)
		if err := client.Auth(auth); err != nil {
			return fmt.Errorf("SMTP認証に失敗: %w", err)
		}
	}

	if err := m.deliver(client, to, msg); err != nil {
		return err
	}
	return client.Quit()
}

// dial はSMTPサーバーへのTCP接続を確立する。
// UseTLSがtrueの場合はTLSハンドシェイクまで行う。
func (m *SMTPMailer) dial(ctx context.Context) (net.Conn, error) {
	addr := net.JoinHostPort(m.cfg.Host, m.cfg.Port)

	if m.cfg.UseTLS {
		dialer := &tls.Dialer{
			NetDialer: &net.Dialer{Timeout: dialTimeout},
			Config:    &tls.Config{ServerName: m.cfg.Host},
		}
		conn, err := dialer.DialContext(ctx, "tcp", addr)
		if err != nil {
			return nil, fmt.Errorf("SMTPサーバーへのTLS接続に失敗 (%s): %w", addr, err)
		}
		return conn, nil
	}

	dialer := &net.Dialer{Timeout: dialTimeout}
	conn, err := dialer.DialContext(ctx, "tcp", addr)
	if err != nil {
		return nil, fmt.Errorf("SMTPサーバーへの接続に失敗 (%s): %w", addr, err)
	}
	return conn, nil
}

// buildMessage はRFC 5322形式のHTMLメールメッセージを組み立てる。
func (m *SMTPMailer) buildMessage(to, subject, htmlBody string) ([]byte, error) {
	var h mail.Header
	h.SetDate(time.Now())
	h.SetAddressList("From", []*mail.Address{{Address: m.cfg.From}})
	h.SetAddressList("To", []*mail.Address{{Address: to}})
	h.SetSubject(subject)
	h.SetContentType("text/html", map[string]string{"charset": "utf-8"})

	var buf bytes.Buffer
	w, err := mail.CreateSingleInlineWriter(&buf, h)
	if err != nil {
		return nil, err
	}
	if _, err := io.WriteString(w, htmlBody); err != nil {
		w.Close()
		return nil, err
	}
	if err := w.Close(); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// deliver は認証済みのSMTPクライアントでメッセージを送信する。
func (m *SMTPMailer) deliver(client *smtp.Client, to string, msg []byte) error {
	if err := client.Mail(m.cfg.From); err != nil {
		return fmt.Errorf("SMTP MAIL FROMに失敗: %w", err)
	}
	if err := client.Rcpt(to); err != nil {
		return fmt.Errorf("SMTP RCPT TOに失敗: %w", err)
	}

	w, err := client.Data()
	if err != nil {
		return fmt.Errorf("SMTP DATAに失敗: %w", err)
	}
	if _, err := w.Write(msg); err != nil {
		return fmt.Errorf("メール本文の書き込みに失敗: %w", err)
	}
	if err := w.Close(); err != nil {
		return fmt.Errorf("メール本文の送信完了に失敗: %w", err)
	}
	return nil
}
