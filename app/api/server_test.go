package api

import (
	"anbsupport/app/client/llm"
	"anbsupport/app/config"
	"anbsupport/app/service/admin"
	"anbsupport/app/service/catalog"
	"anbsupport/app/service/chat"
	"anbsupport/app/service/intent"
	"anbsupport/app/service/notify"
	"anbsupport/app/service/state"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/require"
)

type testEnv struct {
	server *Server
	model  *llm.Fake
	store  *state.Store
}

func newTestEnv(t *testing.T, adminToken string) *testEnv {
	t.Helper()

	cfg := &config.Config{
		Server:  config.Server{Port: 5000},
		Session: config.Session{Secret: "test-secret", Expiration: time.Hour},
		Admin:   config.Admin{TriggerPhrase: "admin report", Token: adminToken},
		Business: config.Business{
			Name:            "ANB Tech Supplies",
			WhatsApp:        "+27 68 830 8314",
			GalleryURL:      "https://abtechsupplies.github.io/Pictures/",
			DiscountPercent: 40,
		},
	}

	store := state.NewStore(5399)
	notifier := notify.NewService()
	model := &llm.Fake{Reply: "We are open **9 to 5**."}

	chatSvc := chat.NewService(store, intent.NewClassifier(cfg.Admin.TriggerPhrase),
		catalog.NewCatalog(cfg.Business), model, notifier)

	server, err := NewServer(cfg, chatSvc, admin.NewService(store, notifier))
	require.NoError(t, err)

	return &testEnv{server: server, model: model, store: store}
}

func (e *testEnv) do(t *testing.T, req *http.Request) (*http.Response, []byte) {
	t.Helper()

	resp, err := e.server.app.Test(req, -1)
	require.NoError(t, err)

	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	require.NoError(t, resp.Body.Close())

	return resp, body
}

func chatRequestWith(body string, cookies ...*http.Cookie) *http.Request {
	req := httptest.NewRequest(http.MethodPost, "/chat", strings.NewReader(body))
	req.Header.Set(fiber.HeaderContentType, fiber.MIMEApplicationJSON)
	for _, c := range cookies {
		req.AddCookie(c)
	}
	return req
}

func sessionCookieFrom(t *testing.T, resp *http.Response) *http.Cookie {
	t.Helper()

	for _, c := range resp.Cookies() {
		if c.Name == sessionCookie {
			return c
		}
	}

	t.Fatalf("response has no %s cookie", sessionCookie)
	return nil
}

func TestIndex_AssignsSession(t *testing.T) {
	env := newTestEnv(t, "")

	resp, body := env.do(t, httptest.NewRequest(http.MethodGet, "/", nil))
	require.Equal(t, http.StatusOK, resp.StatusCode)
	require.Contains(t, resp.Header.Get(fiber.HeaderContentType), "text/html")
	require.Contains(t, string(body), "ANB Tech Supplies")

	cookie := sessionCookieFrom(t, resp)
	require.NotEmpty(t, cookie.Value)
	require.True(t, cookie.HttpOnly)
}

func TestChat_SessionContinuity(t *testing.T) {
	env := newTestEnv(t, "")

	resp, _ := env.do(t, httptest.NewRequest(http.MethodGet, "/", nil))
	cookie := sessionCookieFrom(t, resp)

	resp, body := env.do(t, chatRequestWith(`{"message":"When are you open?"}`, cookie))
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var out chatResponse
	require.NoError(t, json.Unmarshal(body, &out))
	require.Contains(t, out.Response, "<strong>9 to 5</strong>")

	env.do(t, chatRequestWith(`{"message":"and on sunday?"}`, cookie))

	calls := env.model.Calls()
	require.Len(t, calls, 2)
	// system + previous exchange + new message
	require.Len(t, calls[1], 4)
	require.Equal(t, "when are you open?", calls[1][1].Content)
	require.Equal(t, 1, env.store.SessionCount())
}

func TestChat_NewSessionWithoutCookie(t *testing.T) {
	env := newTestEnv(t, "")

	resp, _ := env.do(t, chatRequestWith(`{"message":"hello"}`))
	require.Equal(t, http.StatusOK, resp.StatusCode)
	require.NotEmpty(t, sessionCookieFrom(t, resp).Value)

	env.do(t, chatRequestWith(`{"message":"hello"}`))
	require.Equal(t, 2, env.store.SessionCount())
}

func TestChat_BadRequests(t *testing.T) {
	env := newTestEnv(t, "")

	for _, body := range []string{
		`not json`,
		`{}`,
		`{"message":"   "}`,
	} {
		resp, raw := env.do(t, chatRequestWith(body))
		require.Equal(t, http.StatusBadRequest, resp.StatusCode, body)

		var out errorResponse
		require.NoError(t, json.Unmarshal(raw, &out))
		require.NotEmpty(t, out.Error)
	}

	require.Empty(t, env.model.Calls())
}

func TestChat_ModelFailureStillWellFormed(t *testing.T) {
	env := newTestEnv(t, "")
	env.model.Err = errors.New("connection reset by peer")

	resp, body := env.do(t, chatRequestWith(`{"message":"do you ship to durban?"}`))
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var out chatResponse
	require.NoError(t, json.Unmarshal(body, &out))
	require.Contains(t, out.Response, "Sorry, there was an error processing your request")
	require.NotContains(t, out.Response, "connection reset")
}

func TestPanicIsRecovered(t *testing.T) {
	env := newTestEnv(t, "")
	env.server.app.Get("/boom", func(*fiber.Ctx) error {
		panic("unexpected")
	})

	resp, body := env.do(t, httptest.NewRequest(http.MethodGet, "/boom", nil))
	require.Equal(t, http.StatusInternalServerError, resp.StatusCode)

	var out errorResponse
	require.NoError(t, json.Unmarshal(body, &out))
	require.Equal(t, chat.Apology, out.Error)
}

func TestHealth(t *testing.T) {
	env := newTestEnv(t, "")

	resp, body := env.do(t, httptest.NewRequest(http.MethodGet, "/healthz", nil))
	require.Equal(t, http.StatusOK, resp.StatusCode)
	require.JSONEq(t, `{"status":"ok"}`, string(body))
}

func TestAdminEndpoint(t *testing.T) {
	t.Run("disabled without token", func(t *testing.T) {
		env := newTestEnv(t, "")
		resp, _ := env.do(t, httptest.NewRequest(http.MethodPost, "/admin/mcp", nil))
		require.Equal(t, http.StatusNotFound, resp.StatusCode)
	})

	t.Run("rejects wrong token", func(t *testing.T) {
		env := newTestEnv(t, "owner-token")

		req := httptest.NewRequest(http.MethodPost, "/admin/mcp", strings.NewReader(`{}`))
		req.Header.Set(fiber.HeaderAuthorization, "Bearer nope")
		resp, _ := env.do(t, req)
		require.Equal(t, http.StatusUnauthorized, resp.StatusCode)

		req = httptest.NewRequest(http.MethodPost, "/admin/mcp", strings.NewReader(`{}`))
		resp, _ = env.do(t, req)
		require.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	})

	t.Run("initialize with token", func(t *testing.T) {
		env := newTestEnv(t, "owner-token")

		req := httptest.NewRequest(http.MethodPost, "/admin/mcp", strings.NewReader(`{
			"jsonrpc": "2.0",
			"id": 1,
			"method": "initialize",
			"params": {
				"protocolVersion": "2025-03-26",
				"capabilities": {},
				"clientInfo": {"name": "test", "version": "1.0.0"}
			}
		}`))
		req.Header.Set(fiber.HeaderAuthorization, "Bearer owner-token")
		req.Header.Set(fiber.HeaderContentType, fiber.MIMEApplicationJSON)
		req.Header.Set(fiber.HeaderAccept, "application/json, text/event-stream")

		resp, body := env.do(t, req)
		require.Equal(t, http.StatusOK, resp.StatusCode)
		require.Contains(t, string(body), "anb-support-admin")
	})
}

func TestCookieKey(t *testing.T) {
	require.Equal(t, cookieKey("secret"), cookieKey("secret"))
	require.NotEqual(t, cookieKey("secret"), cookieKey("other"))
	require.NotEqual(t, cookieKey(""), cookieKey(""))
}
