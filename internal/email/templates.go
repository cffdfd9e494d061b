package email

import "fmt"

func renderTwoFactorCode(code string) (subject, html, text string) {
	subject = "KeirekiPro ログイン認証コード"
	text = fmt.Sprintf(
		"ログイン認証コード: %s\n\nこのコードの有効期限は5分です。心当たりがない場合はこのメールを破棄してください。\n",
		code,
	)
	html = fmt.Sprintf(`<p>ログイン認証コード:</p>
<p style="font-size:24px;font-weight:bold;letter-spacing:4px;">%s</p>
<p>このコードの有効期限は5分です。心当たりがない場合はこのメールを破棄してください。</p>`,
		code,
	)
	return subject, html, text
}

func renderPasswordReset(baseURL, token string) (subject, html, text string) {
	link := fmt.Sprintf("%s/password/reset?token=%s", baseURL, token)
	subject = "KeirekiPro パスワード再設定"
	text = fmt.Sprintf(
		"以下のリンクからパスワードを再設定してください。\n\n%s\n\nリンクの有効期限は30分です。心当たりがない場合はこのメールを破棄してください。\n",
		link,
	)
	html = fmt.Sprintf(`<p>以下のリンクからパスワードを再設定してください。</p>
<p><a href="%s">パスワードを再設定する</a></p>
<p>リンクの有効期限は30分です。心当たりがない場合はこのメールを破棄してください。</p>`,
		link,
	)
	return subject, html, text
}
