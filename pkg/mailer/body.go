package mailer

import "fmt"

// fallbackUsername は送信元ユーザー名が未指定の場合に挨拶文へ埋め込む代替ラベル。
const fallbackUsername = "friend"

// bodyTemplate はHTMLメール本文の固定テンプレート。
// 埋め込み順は ユーザー名、本文、サイトURL。装飾の変化は持たない。
const bodyTemplate = `<html>
<head>
    <style>
        body {
            font-family: Arial, sans-serif;
            background-color: #f4f4f4;
            padding: 20px;
        }
        .container {
            background: #fff;
            padding: 20px;
            border-radius: 8px;
            box-shadow: 0 0 10px rgba(0, 0, 0, 0.1);
            max-width: 600px;
            margin: auto;
        }
        .header {
            background: #106060;
            padding: 15px;
            color: #fff;
            text-align: center;
            font-size: 20px;
            font-weight: bold;
            border-radius: 8px 8px 0 0;
        }
        .content {
            padding: 20px;
            font-size: 16px;
            color: #333;
        }
        .footer {
            text-align: center;
            padding: 10px;
            font-size: 14px;
            color: #555;
        }
        .button {
            display: inline-block;
            padding: 10px 20px;
            margin-top: 10px;
            font-size: 16px;
            color: white;
            background-color: #106060;
            text-decoration: none;
            border-radius: 5px;
        }
        .button:hover {
            background-color: #0d4d4d;
        }
    </style>
</head>
<body>
    <div class="container">
        <div class="header">Hello, %s!</div>
        <div class="content">
            <p>%s</p>
            <p>Thank you for being with us!</p>
            <a href="%s" class="button">Visit Our Website</a>
        </div>
        <div class="footer">
            &copy; 2025 Music Flow. All rights reserved.
        </div>
    </div>
</body>
</html>
`

// BuildBody はユーザー名とメッセージ本文から固定レイアウトのHTMLメール本文を生成する。
// 同じ入力に対して常に同一のバイト列を返す純粋関数。usernameが空の場合は
// 代替ラベルで挨拶する。siteURLは本文末尾のリンク先として埋め込まれる。
func BuildBody(username, messageContent, siteURL string) string {
	if username == "" {
		username = fallbackUsername
	}
	return fmt.Sprintf(bodyTemplate, username, messageContent, siteURL)
}
