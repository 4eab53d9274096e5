package notification

import (
	"database/sql"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	_ "modernc.org/sqlite"

	notificationdb "github.com/nao1215/musicflow/internal/notification/db"
	"github.com/nao1215/musicflow/pkg/mailer"
	"github.com/nao1215/musicflow/pkg/middleware"
	"github.com/nao1215/musicflow/pkg/migration"
)

// defaultSiteURL はメール本文のリンク先に使用するデフォルトのサイトURL。
// SITE_URL環境変数で上書きできる。
const defaultSiteURL = "https://music-flow-b95e5db86662.herokuapp.com/"

// Server は通知サービスのHTTPサーバー。
type Server struct {
	// router はGinのHTTPルーター。
	router *gin.Engine
	// port はサーバーのリッスンポート。
	port string
	// queries はsqlcが生成したクエリ実行オブジェクト。
	queries *notificationdb.Queries
	// db はSQLiteデータベース接続。
	db *sql.DB
	// mailer はメール送信に使用するメールトランスポート。
	mailer mailer.Mailer
	// siteURL はメール本文に埋め込むサイトURL。
	siteURL string
}

// NewServer は新しい通知サーバーを生成する。
// SQLiteデータベースの初期化とマイグレーション適用、SMTPメーラーの構築を行う。
func NewServer(port string) (*Server, error) {
	sqlDB, err := sql.Open("sqlite", "/data/notification.db?_journal_mode=WAL&_busy_timeout=5000")
	if err != nil {
		return nil, fmt.Errorf("データベース接続に失敗: %w", err)
	}

	if err := migration.Run(sqlDB, migrationsFS, "migrations"); err != nil {
		return nil, fmt.Errorf("マイグレーション適用に失敗: %w", err)
	}

	siteURL := os.Getenv("SITE_URL")
	if siteURL == "" {
		siteURL = defaultSiteURL
	}

	router := gin.New()
	router.Use(middleware.Recovery())
	router.Use(gin.Logger())

	// フロントエンドのオリジンが設定されている場合のみCORSを許可する
	if frontendURL := os.Getenv("FRONTEND_URL"); frontendURL != "" {
		router.Use(middleware.CORS([]string{frontendURL}))
	}

	s := &Server{
		router:  router,
		port:    port,
		queries: notificationdb.New(sqlDB),
		db:      sqlDB,
		mailer:  mailer.New(smtpConfigFromEnv()),
		siteURL: siteURL,
	}
	s.setupRoutes()

	return s, nil
}

// smtpConfigFromEnv は環境変数からSMTP接続設定を構築する。
func smtpConfigFromEnv() mailer.Config {
	host := os.Getenv("SMTP_HOST")
	if host == "" {
		host = "localhost"
	}
	port := os.Getenv("SMTP_PORT")
	if port == "" {
		port = "587"
	}
	username := os.Getenv("SMTP_USERNAME")
	from := os.Getenv("SMTP_FROM")
	if from == "" {
		from = username
	}

	return mailer.Config{
		Host:     host,
		Port:     port,
		Username: username,
		Password: os.Getenv("SMTP_PASSWORD"),
		From:     from,
		UseTLS:   os.Getenv("SMTP_USE_TLS") == "true",
	}
}

// Run はHTTPサーバーを起動する。
func (s *Server) Run() error {
	return s.router.Run(fmt.Sprintf(":%s", s.port))
}

// setupRoutes はAPIルーティングを設定する。
func (s *Server) setupRoutes() {
	notifications := s.router.Group("/notifications")
	{
		// 通知の保存のみ
		notifications.POST("", s.handleCreate())
		// 通知の保存とメール送信
		notifications.POST("/email", s.handleCreateAndSendEmail())
		// 管理者向け通知の一覧取得
		notifications.GET("", s.handleListAdmin())
		// 管理者向け既読通知の一覧取得
		notifications.GET("/read", s.handleListRead())
		// 管理者向け未読通知の一覧取得
		notifications.GET("/unread", s.handleListUnread())
		// メール送信ログの一覧取得
		notifications.GET("/emails", s.handleListEmails())
		// 通知を既読にする
		notifications.PUT("/:id", s.handleMarkRead())
		// 通知の削除
		notifications.DELETE("/:id", s.handleDelete())
	}

	// ヘルスチェック
	s.router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok", "service": "notification"})
	})
}

// sendEmailRequest は通知作成・メール送信リクエストのJSON構造。
type sendEmailRequest struct {
	// SenderEmail は送信元ユーザーのメールアドレス。システム生成通知では空。
	SenderEmail string `json:"sender_email"`
	// Receiver は宛先（メールアドレスまたはユーザーハンドル）。
	Receiver string `json:"receiver" binding:"required"`
	// SenderUsername は送信元ユーザーの表示名。
	SenderUsername string `json:"sender_username"`
	// Subject は件名。
	Subject string `json:"subject" binding:"required"`
	// Description は本文。
	Description string `json:"description" binding:"required"`
	// ForAdmin は管理者向け通知(true)かメール送信ログ(false)かの区分。
	ForAdmin bool `json:"for_admin"`
	// UserID は通知に紐づくユーザーのID。
	UserID string `json:"user_id"`
	// MessageType はメッセージ種別（外部定義の列挙値）。
	MessageType string `json:"message_type"`
}

// toCreateParams はリクエストを通知レコードの作成パラメータに変換する。
// 作成日時と更新日時は呼び出し時点の時刻で揃える。
func toCreateParams(req sendEmailRequest, id string, read bool, now time.Time) notificationdb.CreateNotificationParams {
	return notificationdb.CreateNotificationParams{
		ID:               id,
		SenderEmail:      nullString(req.SenderEmail),
		SenderUsername:   nullString(req.SenderUsername),
		Receiver:         req.Receiver,
		Subject:          req.Subject,
		Description:      req.Description,
		ForAdmin:         boolToInt(req.ForAdmin),
		ReadNotification: boolToInt(read),
		UserID:           nullString(req.UserID),
		MessageType:      nullString(req.MessageType),
		CreatedAt:        now,
		UpdatedAt:        now,
	}
}

// nullString は空文字列をNULL、それ以外を有効値として扱うsql.NullStringを返す。
func nullString(s string) sql.NullString {
	return sql.NullString{String: s, Valid: s != ""}
}

// boolToInt はboolをSQLiteのINTEGER値(0/1)に変換する。
func boolToInt(b bool) int64 {
	if b {
		return 1
	}
	return 0
}

// notificationResponse は通知のJSONレスポンス構造。
type notificationResponse struct {
	// ID は通知の一意識別子。
	ID string `json:"id"`
	// SenderEmail は送信元ユーザーのメールアドレス。
	SenderEmail *string `json:"sender_email"`
	// SenderUsername は送信元ユーザーの表示名。
	SenderUsername *string `json:"sender_username"`
	// Receiver は宛先。
	Receiver string `json:"receiver"`
	// Subject は件名。
	Subject string `json:"subject"`
	// Description は本文。
	Description string `json:"description"`
	// ForAdmin は管理者向け通知かどうかの区分。
	ForAdmin bool `json:"for_admin"`
	// ReadNotification は既読状態。
	ReadNotification bool `json:"read_notification"`
	// UserID は通知に紐づくユーザーのID。
	UserID *string `json:"user_id"`
	// MessageType はメッセージ種別。
	MessageType *string `json:"message_type"`
	// CreatedAt は作成日時（RFC3339形式）。
	CreatedAt string `json:"created_at"`
	// UpdatedAt は更新日時（RFC3339形式）。
	UpdatedAt string `json:"updated_at"`
}

// toNotificationResponse はDB行をJSONレスポンスに変換する。
func toNotificationResponse(n notificationdb.Notification) notificationResponse {
	return notificationResponse{
		ID:               n.ID,
		SenderEmail:      nullableString(n.SenderEmail),
		SenderUsername:   nullableString(n.SenderUsername),
		Receiver:         n.Receiver,
		Subject:          n.Subject,
		Description:      n.Description,
		ForAdmin:         n.ForAdmin != 0,
		ReadNotification: n.ReadNotification != 0,
		UserID:           nullableString(n.UserID),
		MessageType:      nullableString(n.MessageType),
		CreatedAt:        n.CreatedAt.Format(time.RFC3339),
		UpdatedAt:        n.UpdatedAt.Format(time.RFC3339),
	}
}

// toNotificationResponses はDB行のスライスをJSONレスポンスのスライスに変換する。
func toNotificationResponses(notifications []notificationdb.Notification) []notificationResponse {
	responses := make([]notificationResponse, 0, len(notifications))
	for _, n := range notifications {
		responses = append(responses, toNotificationResponse(n))
	}
	return responses
}

// nullableString はsql.NullStringをJSONのnullを表現できるポインタに変換する。
func nullableString(ns sql.NullString) *string {
	if !ns.Valid {
		return nil
	}
	return &ns.String
}

// handleCreate は通知レコードを未読状態で保存するハンドラ。
// メール送信は行わない。
func (s *Server) handleCreate() gin.HandlerFunc {
	return func(c *gin.Context) {
		var req sendEmailRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": fmt.Sprintf("リクエストが不正です: %v", err)})
			return
		}

		params := toCreateParams(req, uuid.New().String(), false, time.Now().UTC())
		if err := s.queries.CreateNotification(c.Request.Context(), params); err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "通知の保存に失敗しました"})
			log.Printf("通知保存エラー: %v", err)
			return
		}

		c.Status(http.StatusOK)
	}
}

// handleCreateAndSendEmail は通知レコードを既読状態で保存し、HTMLメールを送信するハンドラ。
// レコードの保存が成功した後にメールを送信する。送信に失敗してもレコードは
// 削除せず、エラーのみを呼び出し元へ返す。
func (s *Server) handleCreateAndSendEmail() gin.HandlerFunc {
	return func(c *gin.Context) {
		var req sendEmailRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": fmt.Sprintf("リクエストが不正です: %v", err)})
			return
		}

		// メール送信付きの通知は送信済みとして扱うため、保存前に既読にする
		params := toCreateParams(req, uuid.New().String(), true, time.Now().UTC())
		if err := s.queries.CreateNotification(c.Request.Context(), params); err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "通知の保存に失敗しました"})
			log.Printf("通知保存エラー: %v", err)
			return
		}

		body := mailer.BuildBody(req.SenderUsername, req.Description, s.siteURL)
		if err := s.mailer.Send(c.Request.Context(), req.Receiver, req.Subject, body); err != nil {
			// レコードは保存済みのため、送信失敗時も通知レコードは残す
			c.JSON(http.StatusInternalServerError, gin.H{"error": "メールの送信に失敗しました"})
			log.Printf("メール送信エラー: to=%s, %v", req.Receiver, err)
			return
		}

		c.Status(http.StatusOK)
	}
}

// handleListAdmin は管理者向け通知の一覧を返すハンドラ。
func (s *Server) handleListAdmin() gin.HandlerFunc {
	return func(c *gin.Context) {
		notifications, err := s.queries.ListNotificationsByForAdmin(c.Request.Context(), 1)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "通知一覧の取得に失敗しました"})
			log.Printf("通知一覧取得エラー: %v", err)
			return
		}

		c.JSON(http.StatusOK, toNotificationResponses(notifications))
	}
}

// handleListRead は管理者向けの既読通知一覧を返すハンドラ。
func (s *Server) handleListRead() gin.HandlerFunc {
	return func(c *gin.Context) {
		notifications, err := s.queries.ListNotificationsByForAdminAndRead(c.Request.Context(), notificationdb.ListNotificationsByForAdminAndReadParams{
			ForAdmin:         1,
			ReadNotification: 1,
		})
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "既読通知一覧の取得に失敗しました"})
			log.Printf("既読通知一覧取得エラー: %v", err)
			return
		}

		c.JSON(http.StatusOK, toNotificationResponses(notifications))
	}
}

// handleListUnread は管理者向けの未読通知一覧を返すハンドラ。
func (s *Server) handleListUnread() gin.HandlerFunc {
	return func(c *gin.Context) {
		notifications, err := s.queries.ListNotificationsByForAdminAndRead(c.Request.Context(), notificationdb.ListNotificationsByForAdminAndReadParams{
			ForAdmin:         1,
			ReadNotification: 0,
		})
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "未読通知一覧の取得に失敗しました"})
			log.Printf("未読通知一覧取得エラー: %v", err)
			return
		}

		c.JSON(http.StatusOK, toNotificationResponses(notifications))
	}
}

// handleListEmails はメール送信ログの一覧を返すハンドラ。
func (s *Server) handleListEmails() gin.HandlerFunc {
	return func(c *gin.Context) {
		notifications, err := s.queries.ListNotificationsByForAdmin(c.Request.Context(), 0)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "メール送信ログの取得に失敗しました"})
			log.Printf("メール送信ログ取得エラー: %v", err)
			return
		}

		c.JSON(http.StatusOK, toNotificationResponses(notifications))
	}
}

// handleMarkRead は指定された通知を既読にするハンドラ。
// 既に既読の通知に対しても成功を返す。
func (s *Server) handleMarkRead() gin.HandlerFunc {
	return func(c *gin.Context) {
		id := c.Param("id")

		if _, err := s.queries.GetNotificationByID(c.Request.Context(), id); err != nil {
			if errors.Is(err, sql.ErrNoRows) {
				c.JSON(http.StatusNotFound, gin.H{"error": "通知が見つかりません"})
				return
			}
			c.JSON(http.StatusInternalServerError, gin.H{"error": "通知の取得に失敗しました"})
			log.Printf("通知取得エラー: id=%s, %v", id, err)
			return
		}

		err := s.queries.MarkNotificationAsRead(c.Request.Context(), notificationdb.MarkNotificationAsReadParams{
			UpdatedAt: time.Now().UTC(),
			ID:        id,
		})
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "通知の既読処理に失敗しました"})
			log.Printf("通知既読処理エラー: id=%s, %v", id, err)
			return
		}

		c.Status(http.StatusOK)
	}
}

// handleDelete は指定された通知を物理削除するハンドラ。
func (s *Server) handleDelete() gin.HandlerFunc {
	return func(c *gin.Context) {
		id := c.Param("id")

		if _, err := s.queries.GetNotificationByID(c.Request.Context(), id); err != nil {
			if errors.Is(err, sql.ErrNoRows) {
				c.JSON(http.StatusNotFound, gin.H{"error": "通知が見つかりません"})
				return
			}
			c.JSON(http.StatusInternalServerError, gin.H{"error": "通知の取得に失敗しました"})
			log.Printf("通知取得エラー: id=%s, %v", id, err)
			return
		}

		if err := s.queries.DeleteNotification(c.Request.Context(), id); err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "通知の削除に失敗しました"})
			log.Printf("通知削除エラー: id=%s, %v", id, err)
			return
		}

		c.Status(http.StatusOK)
	}
}
