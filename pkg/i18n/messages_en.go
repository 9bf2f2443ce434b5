package i18n

import (
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

func init() {
	lang := language.English

	message.SetString(lang, string(ShareTitle), "Share the Post!")
	message.SetString(lang, string(ShareLead), "Input your Mastodon server to share it.")
	message.SetString(lang, string(ShareUserIDLabel), "User ID:")
	message.SetString(lang, string(ShareUserIDHelp), "Your user ID of Mastodon to share the post.")
	message.SetString(lang, string(ShareSave), "Save your user ID on your browser.")
	message.SetString(lang, string(ShareSaveHelp), "Your user ID will save on the local storage, and autocomplete from next time.")
	message.SetString(lang, string(ShareAutoRedirect), "Redirect automatically from next time.")
	message.SetString(lang, string(ShareAutoRedirectHelp), "Any submissions will be no longer needed to share from next time. You can reset your user ID by %s.")
	message.SetString(lang, string(ShareSubmit), "Share")
	message.SetString(lang, string(SharePreview), "Post to share")

	message.SetString(lang, string(MissingPostData), "Missing any post contents. Some troubles happened.")
	message.SetString(lang, string(UserIDRequired), "User ID is required.")
	message.SetString(lang, string(InvalidFormat), `Given user ID is invalid. The format is "@username@example.com".`)
	message.SetString(lang, string(LookupFailed), "Failed to find your user by given user ID. Check it.")
	message.SetString(lang, string(NotFilled), "Some items are not filled.")
	message.SetString(lang, string(StatusSubmitting), "Submitting...")
	message.SetString(lang, string(StatusReady), "Ready to submit.")
	message.SetString(lang, string(StatusInvalid), "Invalid input!")
	message.SetString(lang, string(AutoRedirectExpired), "Expired auto redirecting. Re-enable if you re-submit.")

	message.SetString(lang, string(ResetTitle), "Reset Your Information")
	message.SetString(lang, string(ResetLead), "Remove your data saved on your browser.")
	message.SetString(lang, string(ResetSubmit), "Reset")
	message.SetString(lang, string(ResetNoData), "No storage data.")
	message.SetString(lang, string(ResetRawData), "Saved data")
	message.SetString(lang, string(ResetDone), "Your data has been removed.")
	message.SetString(lang, string(LanguageLabel), "Language")
}
