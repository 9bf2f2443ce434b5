package i18n

import (
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"golang.org/x/text/language"
)

var allKeys = []Key{
	ShareTitle, ShareLead, ShareUserIDLabel, ShareUserIDHelp, ShareSave, ShareSaveHelp,
	ShareAutoRedirect, ShareAutoRedirectHelp, ShareSubmit, SharePreview,
	MissingPostData, UserIDRequired, InvalidFormat, LookupFailed, NotFilled,
	StatusSubmitting, StatusReady, StatusInvalid, AutoRedirectExpired,
	ResetTitle, ResetLead, ResetSubmit, ResetNoData, ResetRawData, ResetDone, LanguageLabel,
}

func TestCatalogsComplete(t *testing.T) {
	for _, tag := range Supported() {
		for _, key := range allKeys {
			got := T(tag, key, "/reset")
			assert.NotEqual(t, string(key), got, "%s missing in %s", key, tag)
		}
	}
}

func TestT(t *testing.T) {
	assert.Equal(t, "User ID is required.", T(language.English, UserIDRequired))
	assert.Equal(t, "ユーザIDは必須です。", T(language.Japanese, UserIDRequired))
	assert.Equal(t, "Some items are not filled.", T(language.English, NotFilled))
	assert.Equal(t,
		"Any submissions will be no longer needed to share from next time. You can reset your user ID by /reset.",
		T(language.English, ShareAutoRedirectHelp, "/reset"))
}

func TestParseTag(t *testing.T) {
	tests := []struct {
		in   string
		want language.Tag
		ok   bool
	}{
		{"en", language.English, true},
		{"ja", language.Japanese, true},
		{"ja-JP", language.Japanese, true},
		{" en-GB ", language.English, true},
		{"fr", language.Tag{}, false},
		{"", language.Tag{}, false},
		{"!!", language.Tag{}, false},
	}
	for _, tt := range tests {
		got, ok := ParseTag(tt.in)
		assert.Equal(t, tt.ok, ok, tt.in)
		assert.Equal(t, tt.want, got, tt.in)
	}
}

func TestMatch(t *testing.T) {
	assert.Equal(t, language.Japanese, Match("ja-JP,ja;q=0.9,en;q=0.8"))
	assert.Equal(t, language.English, Match("en-US,en;q=0.9"))
	assert.Equal(t, language.English, Match("de-DE"))
	assert.Equal(t, language.English, Match(";;;"))
}

func TestResolveTag(t *testing.T) {
	r := httptest.NewRequest("GET", "/share?lang=ja", nil)
	assert.Equal(t, language.Japanese, ResolveTag(r, "en"))

	r = httptest.NewRequest("GET", "/share", nil)
	r.Header.Set("Accept-Language", "ja")
	assert.Equal(t, language.English, ResolveTag(r, "en"), "stored preference wins over the header")
	assert.Equal(t, language.Japanese, ResolveTag(r, ""))

	assert.Equal(t, language.Japanese, ResolveTag(nil, "ja"))
	assert.Equal(t, Default(), ResolveTag(nil, ""))
}

func TestCode(t *testing.T) {
	assert.Equal(t, "en", Code(language.English))
	assert.Equal(t, "ja", Code(language.Japanese))
}
