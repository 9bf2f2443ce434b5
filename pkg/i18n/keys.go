package i18n

// Share form.
const (
	ShareTitle            Key = "share.title"
	ShareLead             Key = "share.lead"
	ShareUserIDLabel      Key = "share.user_id_label"
	ShareUserIDHelp       Key = "share.user_id_help"
	ShareSave             Key = "share.save"
	ShareSaveHelp         Key = "share.save_help"
	ShareAutoRedirect     Key = "share.auto_redirect"
	ShareAutoRedirectHelp Key = "share.auto_redirect_help"
	ShareSubmit           Key = "share.submit"
	SharePreview          Key = "share.preview"
)

// Status and errors.
const (
	MissingPostData     Key = "error.missing_post_data"
	UserIDRequired      Key = "error.user_id_required"
	InvalidFormat       Key = "error.invalid_format"
	LookupFailed        Key = "error.lookup_failed"
	NotFilled           Key = "error.not_filled"
	StatusSubmitting    Key = "status.submitting"
	StatusReady         Key = "status.ready"
	StatusInvalid       Key = "status.invalid"
	AutoRedirectExpired Key = "status.auto_redirect_expired"
)

// Reset form.
const (
	ResetTitle    Key = "reset.title"
	ResetLead     Key = "reset.lead"
	ResetSubmit   Key = "reset.submit"
	ResetNoData   Key = "reset.no_data"
	ResetRawData  Key = "reset.raw_data"
	ResetDone     Key = "reset.done"
	LanguageLabel Key = "language.label"
)
