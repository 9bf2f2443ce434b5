package webui

import (
	"context"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"anime.bike/mastoshare/pkg/metrics"
	"anime.bike/mastoshare/pkg/mocks"
	"anime.bike/mastoshare/pkg/navigation"
	"anime.bike/mastoshare/pkg/prefs"
	"anime.bike/mastoshare/pkg/prefs/prefs_inmemory"
	"anime.bike/mastoshare/pkg/share"
)

var fixedNow = time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

type webHarness struct {
	resolver *mocks.MockProfileResolver
	store    *prefs.Store
	server   *Server
}

func setupServer(t *testing.T) *webHarness {
	ctrl := gomock.NewController(t)
	reg := prometheus.NewRegistry()
	m, err := metrics.New(reg)
	require.NoError(t, err)

	h := &webHarness{
		resolver: mocks.NewMockProfileResolver(ctrl),
		store:    prefs.NewStore(prefs_inmemory.NewInMemoryStorage()),
	}
	gw := share.NewBuilder().
		WithStore(h.store).
		WithResolver(h.resolver).
		WithNavigator(navigation.Redirect{}).
		WithClock(func() time.Time { return fixedNow }).
		WithHooks(m.Hooks()).
		MustBuild()

	h.server, err = New(Options{
		Gateway:  gw,
		Store:    h.store,
		Metrics:  m,
		Gatherer: reg,
	})
	require.NoError(t, err)
	return h
}

const testHost = "127.0.0.1:8717"

// newRequest builds a request the way a browser on the loopback page sends it.
func newRequest(method, target string, form url.Values) *http.Request {
	var req *http.Request
	if form != nil {
		req = httptest.NewRequest(method, target, strings.NewReader(form.Encode()))
		req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	} else {
		req = httptest.NewRequest(method, target, nil)
	}
	req.Host = testHost
	if method != http.MethodGet {
		req.Header.Set("Origin", "http://"+testHost)
	}
	return req
}

func (h *webHarness) serve(req *http.Request) *httptest.ResponseRecorder {
	rec := httptest.NewRecorder()
	h.server.ServeHTTP(rec, req)
	return rec
}

func (h *webHarness) do(t *testing.T, method, target string, form url.Values) *httptest.ResponseRecorder {
	t.Helper()
	return h.serve(newRequest(method, target, form))
}

func (h *webHarness) storeRedirect(t *testing.T, expiredAtMs *int64) {
	t.Helper()
	rec := prefs.NewRecord()
	rec.PrimaryMastodonUserID = "@alice@example.social"
	rec.PrimaryMastodonProfileURL = "https://example.social/@alice"
	rec.ShareConfig = &prefs.ShareConfig{RedirectAutomatically: true, ExpiredAtMs: expiredAtMs}
	require.NoError(t, h.store.Set(context.Background(), rec))
}

func TestNew_Requires(t *testing.T) {
	_, err := New(Options{})
	assert.Error(t, err)
}

func TestGetShare_MissingPostData(t *testing.T) {
	h := setupServer(t)

	rec := h.do(t, http.MethodGet, "/share", nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	body := rec.Body.String()
	assert.Contains(t, body, "Missing any post contents.")
	assert.Contains(t, body, `<button id="submit_share" type="submit" disabled>`)
}

func TestGetShare_Form(t *testing.T) {
	h := setupServer(t)

	rec := h.do(t, http.MethodGet, "/share?text=Hello&url=https%3A%2F%2Fblog.example%2Fpost", nil)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "no-cache, no-store, must-revalidate", rec.Header().Get("Cache-Control"))

	body := rec.Body.String()
	assert.Contains(t, body, "Share the Post!")
	assert.Contains(t, body, "Hello https://blog.example/post")
	assert.Contains(t, body, "Some items are not filled.")
	assert.Contains(t, body, "http://127.0.0.1:8717/reset")
	assert.Contains(t, body, `<html lang="en">`)
}

func TestGetShare_PreviewShowsLiteralText(t *testing.T) {
	h := setupServer(t)

	rec := h.do(t, http.MethodGet, "/share?text="+url.QueryEscape("use <br> tags & <script>x()</script>"), nil)
	body := rec.Body.String()
	assert.Contains(t, body, "use &lt;br&gt; tags &amp; &lt;script&gt;x()&lt;/script&gt;")
	assert.NotContains(t, body, "<script>")
}

func TestGetShare_Defaults(t *testing.T) {
	h := setupServer(t)
	rec := prefs.NewRecord()
	rec.PrimaryMastodonUserID = "@alice@example.social"
	require.NoError(t, h.store.Set(context.Background(), rec))

	resp := h.do(t, http.MethodGet, "/share?text=Hello", nil)
	body := resp.Body.String()
	assert.Contains(t, body, `value="@alice@example.social"`)
	assert.Contains(t, body, `name="saveUserId" type="checkbox" value="on" checked>`)
	assert.Contains(t, body, `<button id="submit_share" type="submit">`)
}

func TestGetShare_AutoRedirect(t *testing.T) {
	h := setupServer(t)
	h.storeRedirect(t, nil)

	rec := h.do(t, http.MethodGet, "/share?text=Hello", nil)
	assert.Equal(t, http.StatusSeeOther, rec.Code)
	assert.Equal(t, "https://example.social/share?text=Hello", rec.Header().Get("Location"))
}

func TestGetShare_AutoRedirectExpired(t *testing.T) {
	h := setupServer(t)
	expired := fixedNow.UnixMilli() - 1
	h.storeRedirect(t, &expired)

	rec := h.do(t, http.MethodGet, "/share?text=Hello", nil)
	assert.Equal(t, http.StatusOK, rec.Code)
	body := rec.Body.String()
	assert.Contains(t, body, "Expired auto redirecting.")
	assert.Contains(t, body, `name="enableAutoJump" type="checkbox" value="on" checked>`)
	assert.Contains(t, body, `name="saveUserId" type="checkbox" value="on" checked>`)
}

func TestPostShare_ExpiredRedirectCanBeTurnedOff(t *testing.T) {
	h := setupServer(t)
	expired := fixedNow.UnixMilli() - 1
	h.storeRedirect(t, &expired)
	profile, _ := url.Parse("https://example.social/@alice")
	h.resolver.EXPECT().Resolve(gomock.Any(), gomock.Any()).Return(profile, nil)

	// The form as submitted with only the auto-redirect box unticked.
	rec := h.do(t, http.MethodPost, "/share?text=Hello", url.Values{
		FieldUserID:     {"@alice@example.social"},
		FieldSaveUserID: {"on"},
	})
	assert.Equal(t, http.StatusSeeOther, rec.Code)

	stored, err := h.store.Get(context.Background())
	require.NoError(t, err)
	require.NotNil(t, stored)
	assert.Equal(t, "@alice@example.social", stored.PrimaryMastodonUserID)
	require.NotNil(t, stored.ShareConfig)
	assert.False(t, stored.ShareConfig.RedirectAutomatically)

	rec = h.do(t, http.MethodGet, "/share?text=Hello", nil)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.NotContains(t, rec.Body.String(), "Expired auto redirecting.")
}

func TestPostShare_Redirects(t *testing.T) {
	h := setupServer(t)

	rec := h.do(t, http.MethodPost, "/share?text=Hello", url.Values{
		FieldUserID:     {"https://example.social/@alice"},
		FieldSaveUserID: {"on"},
	})
	assert.Equal(t, http.StatusSeeOther, rec.Code)
	assert.Equal(t, "https://example.social/share?text=Hello", rec.Header().Get("Location"))

	stored, err := h.store.Get(context.Background())
	require.NoError(t, err)
	require.NotNil(t, stored)
	assert.Equal(t, "https://example.social/@alice", stored.PrimaryMastodonProfileURL)
	require.NotNil(t, stored.ShareConfig)
	assert.False(t, stored.ShareConfig.RedirectAutomatically)
}

func TestPostShare_Handle(t *testing.T) {
	h := setupServer(t)
	profile, _ := url.Parse("https://example.social/@alice")
	h.resolver.EXPECT().Resolve(gomock.Any(), gomock.Any()).Return(profile, nil)

	rec := h.do(t, http.MethodPost, "/share?url=https%3A%2F%2Fblog.example%2Fpost", url.Values{
		FieldUserID:       {"@alice@example.social"},
		FieldAutoRedirect: {"on"},
	})
	assert.Equal(t, http.StatusSeeOther, rec.Code)
	assert.Equal(t, "https://example.social/share?url=https%3A%2F%2Fblog.example%2Fpost", rec.Header().Get("Location"))

	stored, err := h.store.Get(context.Background())
	require.NoError(t, err)
	require.NotNil(t, stored)
	assert.Equal(t, "@alice@example.social", stored.PrimaryMastodonUserID)
	assert.True(t, stored.ShareConfig.RedirectAutomatically)
}

func TestPostShare_InputErrors(t *testing.T) {
	h := setupServer(t)

	rec := h.do(t, http.MethodPost, "/share?text=Hello", url.Values{FieldUserID: {"alice"}})
	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
	body := rec.Body.String()
	assert.Contains(t, body, "Given user ID is invalid.")
	assert.Contains(t, body, `value="alice"`)
	assert.Contains(t, body, `<button id="submit_share" type="submit">`)

	rec = h.do(t, http.MethodPost, "/share?text=Hello", url.Values{FieldUserID: {""}})
	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
	assert.Contains(t, rec.Body.String(), "User ID is required.")
}

func TestPostShare_MissingPostData(t *testing.T) {
	h := setupServer(t)

	rec := h.do(t, http.MethodPost, "/share", url.Values{FieldUserID: {"https://example.social/@alice"}})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), "Missing any post contents.")

	stored, err := h.store.Get(context.Background())
	require.NoError(t, err)
	assert.Nil(t, stored)
}

func TestReset(t *testing.T) {
	h := setupServer(t)

	rec := h.do(t, http.MethodGet, "/reset", nil)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "No storage data.")
	assert.Contains(t, rec.Body.String(), `<button id="submit_reset" type="submit" disabled>`)

	h.storeRedirect(t, nil)
	rec = h.do(t, http.MethodGet, "/reset", nil)
	body := rec.Body.String()
	assert.Contains(t, body, "Reset Your Information")
	assert.Contains(t, body, "https://example.social/@alice")
	assert.NotContains(t, body, "No storage data.")

	rec = h.do(t, http.MethodPost, "/reset", url.Values{})
	assert.Equal(t, http.StatusSeeOther, rec.Code)
	assert.Equal(t, "/reset", rec.Header().Get("Location"))

	raw, err := h.store.Raw(context.Background())
	require.NoError(t, err)
	assert.Nil(t, raw)
}

func TestLanguage(t *testing.T) {
	h := setupServer(t)

	rec := h.do(t, http.MethodPost, "/language", url.Values{
		"lang":   {"ja"},
		"return": {"/share?text=Hello"},
	})
	assert.Equal(t, http.StatusSeeOther, rec.Code)
	assert.Equal(t, "/share?text=Hello", rec.Header().Get("Location"))

	stored, err := h.store.Get(context.Background())
	require.NoError(t, err)
	require.NotNil(t, stored)
	assert.Equal(t, "ja", stored.Language)

	body := h.do(t, http.MethodGet, "/share?text=Hello", nil).Body.String()
	assert.Contains(t, body, `<html lang="ja">`)
	assert.Contains(t, body, "記事を共有！")

	body = h.do(t, http.MethodGet, "/share?text=Hello&lang=en", nil).Body.String()
	assert.Contains(t, body, "Share the Post!")
}

func TestLanguage_Rejects(t *testing.T) {
	h := setupServer(t)

	rec := h.do(t, http.MethodPost, "/language", url.Values{"lang": {"fr"}})
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = h.do(t, http.MethodPost, "/language", url.Values{"lang": {"en"}, "return": {"//evil.example/"}})
	assert.Equal(t, http.StatusSeeOther, rec.Code)
	assert.Equal(t, "/share", rec.Header().Get("Location"))
}

func TestAcceptLanguage(t *testing.T) {
	h := setupServer(t)

	req := newRequest(http.MethodGet, "/reset", nil)
	req.Header.Set("Accept-Language", "ja-JP,ja;q=0.9,en;q=0.5")
	rec := h.serve(req)
	assert.Contains(t, rec.Body.String(), `<html lang="ja">`)
}

func TestMetricsEndpoint(t *testing.T) {
	h := setupServer(t)
	h.do(t, http.MethodGet, "/share?text=Hello", nil)

	rec := h.do(t, http.MethodGet, "/metrics", nil)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "mastoshare_web_requests_in_duration")
	assert.Contains(t, rec.Body.String(), `mastoshare_auto_redirects_total{decision="none"} 1`)
}

func TestRootRedirects(t *testing.T) {
	h := setupServer(t)

	rec := h.do(t, http.MethodGet, "/?text=Hello", nil)
	assert.Equal(t, http.StatusSeeOther, rec.Code)
	assert.Equal(t, "/share?text=Hello", rec.Header().Get("Location"))
}

func TestGuard_RejectsForeignHost(t *testing.T) {
	h := setupServer(t)
	h.storeRedirect(t, nil)

	req := newRequest(http.MethodGet, "/reset", nil)
	req.Host = "attacker.example"
	rec := h.serve(req)
	assert.Equal(t, http.StatusForbidden, rec.Code)
	assert.NotContains(t, rec.Body.String(), "example.social")

	for _, host := range []string{"localhost:8717", "[::1]:8717", "127.0.0.1"} {
		req = newRequest(http.MethodGet, "/reset", nil)
		req.Host = host
		assert.Equal(t, http.StatusOK, h.serve(req).Code, host)
	}
}

func TestGuard_RejectsCrossSitePost(t *testing.T) {
	tests := []struct {
		name    string
		host    string
		headers map[string]string
	}{
		{"rebound host", "evil.example", map[string]string{"Origin": "https://evil.example", "Sec-Fetch-Site": "cross-site"}},
		{"cross-site fetch", testHost, map[string]string{"Sec-Fetch-Site": "cross-site"}},
		{"same-site fetch", testHost, map[string]string{"Sec-Fetch-Site": "same-site"}},
		{"foreign origin", testHost, map[string]string{"Origin": "https://evil.example"}},
		{"null origin", testHost, map[string]string{"Origin": "null"}},
		{"foreign referer", testHost, map[string]string{"Referer": "https://evil.example/page"}},
		{"no proof", testHost, nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := setupServer(t)
			h.storeRedirect(t, nil)

			req := newRequest(http.MethodPost, "/reset", url.Values{})
			req.Header.Del("Origin")
			req.Host = tt.host
			for k, v := range tt.headers {
				req.Header.Set(k, v)
			}
			rec := h.serve(req)
			assert.Equal(t, http.StatusForbidden, rec.Code)

			raw, err := h.store.Raw(context.Background())
			require.NoError(t, err)
			assert.NotNil(t, raw)
		})
	}
}

func TestGuard_AcceptsSameOriginPost(t *testing.T) {
	tests := []struct {
		name    string
		headers map[string]string
	}{
		{"same-origin fetch", map[string]string{"Sec-Fetch-Site": "same-origin"}},
		{"user initiated", map[string]string{"Sec-Fetch-Site": "none"}},
		{"matching origin", map[string]string{"Origin": "http://" + testHost}},
		{"matching referer", map[string]string{"Referer": "http://" + testHost + "/reset"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := setupServer(t)
			h.storeRedirect(t, nil)

			req := newRequest(http.MethodPost, "/reset", url.Values{})
			req.Header.Del("Origin")
			for k, v := range tt.headers {
				req.Header.Set(k, v)
			}
			rec := h.serve(req)
			assert.Equal(t, http.StatusSeeOther, rec.Code)

			raw, err := h.store.Raw(context.Background())
			require.NoError(t, err)
			assert.Nil(t, raw)
		})
	}
}
