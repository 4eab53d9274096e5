// 通知サービスのエントリポイント。
// 通知レコードの保存とHTMLメールの送信を行う。Music Flowの各サービスが
// ユーザーや管理者への通知を生成する際に呼び出す。
package main

import (
	"log"
	"os"

	"github.com/joho/godotenv"

	"github.com/nao1215/musicflow/internal/notification"
)

func main() {
	// ローカル開発用の.envがあれば読み込む。本番環境では存在しなくてよい
	if err := godotenv.Load(); err != nil {
		log.Printf(".envファイルは読み込まれませんでした: %v", err)
	}

	port := os.Getenv("PORT")
	if port == "" {
		port = "8086"
	}

	server, err := notification.NewServer(port)
	if err != nil {
		log.Fatalf("通知サーバーの初期化に失敗: %v", err)
	}

	log.Printf("通知サービスを起動します: :%s", port)
	if err := server.Run(); err != nil {
		log.Fatalf("通知サービスの起動に失敗: %v", err)
	}
}
