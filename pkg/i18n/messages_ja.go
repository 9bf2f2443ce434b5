package i18n

import (
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

func init() {
	lang := language.Japanese

	message.SetString(lang, string(ShareTitle), "記事を共有！")
	message.SetString(lang, string(ShareLead), "共有先の Mastodon 情報を入力してください。")
	message.SetString(lang, string(ShareUserIDLabel), "ユーザID")
	message.SetString(lang, string(ShareUserIDHelp), "入力されたMastodon ユーザIDへ共有を行います。")
	message.SetString(lang, string(ShareSave), "ブラウザにユーザIDを保存")
	message.SetString(lang, string(ShareSaveHelp), "ユーザIDはローカルストレージに保存され、次回から自動で補完されるようになります。")
	message.SetString(lang, string(ShareAutoRedirect), "次回から自動で遷移する")
	message.SetString(lang, string(ShareAutoRedirectHelp), "次回から共有ボタンを押す必要がなくなります。%sからユーザIDをリセットできます。")
	message.SetString(lang, string(ShareSubmit), "共有")
	message.SetString(lang, string(SharePreview), "共有する記事")

	message.SetString(lang, string(MissingPostData), "共有する記事がありません。何か問題が起こっています。")
	message.SetString(lang, string(UserIDRequired), "ユーザIDは必須です。")
	message.SetString(lang, string(InvalidFormat), `ユーザIDの形式が不正です。"@username@example.com"の形式で入力してください。`)
	message.SetString(lang, string(LookupFailed), "ユーザIDでのアカウント検索に失敗しました。")
	message.SetString(lang, string(NotFilled), "入力が完了していません。")
	message.SetString(lang, string(StatusSubmitting), "処理受付中...")
	message.SetString(lang, string(StatusReady), "共有可能です。")
	message.SetString(lang, string(StatusInvalid), "入力が不正です！")
	message.SetString(lang, string(AutoRedirectExpired), "自動遷移設定の有効期限が切れました。共有を行うと再度有効になります。")

	message.SetString(lang, string(ResetTitle), "情報をリセット")
	message.SetString(lang, string(ResetLead), "ブラウザから保存されているデータを削除します。")
	message.SetString(lang, string(ResetSubmit), "リセット")
	message.SetString(lang, string(ResetNoData), "保存されているデータはありません。")
	message.SetString(lang, string(ResetRawData), "保存されているデータ")
	message.SetString(lang, string(ResetDone), "データを削除しました。")
	message.SetString(lang, string(LanguageLabel), "言語")
}
