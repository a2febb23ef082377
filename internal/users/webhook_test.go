package users

import (
	"bytes"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testSecret = "whsec_test"

func sign(secret string, body []byte) string {
	mac := hmac.New(sha256.New, []byte(secret))
	mac.Write(body)
	return hex.EncodeToString(mac.Sum(nil))
}

func newWebhookRouter(repo Repository, secret string) *gin.Engine {
	gin.SetMode(gin.TestMode)
	engine := gin.New()
	ctrl := NewWebhookController(NewService(repo), secret)
	SetupWebhookRoutes(engine.Group("/api/v1"), ctrl)
	return engine
}

func deliver(t *testing.T, engine *gin.Engine, body []byte, signature string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodPost, "/api/v1/webhooks/identity", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	if signature != "" {
		req.Header.Set(SignatureHeader, signature)
	}
	rec := httptest.NewRecorder()
	engine.ServeHTTP(rec, req)
	return rec
}

func TestWebhookValidDelivery(t *testing.T) {
	repo := newFakeUserRepo()
	engine := newWebhookRouter(repo, testSecret)

	body := []byte(`{
		"type": "user.created",
		"data": {
			"id": "user_1",
			"first_name": "Ada",
			"last_name": "Lovelace",
			"email_addresses": [{"email_address": "ada@example.com"}],
			"image_url": "https://img.example.com/ada"
		}
	}`)

	rec := deliver(t, engine, body, sign(testSecret, body))

	assert.Equal(t, http.StatusOK, rec.Code)
	user, ok := repo.users["user_1"]
	require.True(t, ok, "user should be created")
	assert.Equal(t, "ada@example.com", user.Email)
}

func TestWebhookRejectsBadSignature(t *testing.T) {
	repo := newFakeUserRepo()
	engine := newWebhookRouter(repo, testSecret)

	body := []byte(`{"type":"user.created","data":{"id":"user_1"}}`)
	rec := deliver(t, engine, body, sign("wrong-secret", body))

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Empty(t, repo.users)
}

func TestWebhookRejectsMissingSignature(t *testing.T) {
	engine := newWebhookRouter(newFakeUserRepo(), testSecret)

	rec := deliver(t, engine, []byte(`{}`), "")

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestWebhookRejectsTamperedBody(t *testing.T) {
	repo := newFakeUserRepo()
	engine := newWebhookRouter(repo, testSecret)

	original := []byte(`{"type":"user.created","data":{"id":"user_1"}}`)
	tampered := []byte(`{"type":"user.created","data":{"id":"user_666"}}`)
	rec := deliver(t, engine, tampered, sign(testSecret, original))

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Empty(t, repo.users)
}

func TestWebhookRejectsAllWhenSecretUnset(t *testing.T) {
	engine := newWebhookRouter(newFakeUserRepo(), "")

	body := []byte(`{"type":"user.created","data":{"id":"user_1"}}`)
	rec := deliver(t, engine, body, sign("", body))

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestWebhookAcksUnknownEventType(t *testing.T) {
	engine := newWebhookRouter(newFakeUserRepo(), testSecret)

	body := []byte(`{"type":"organization.created","data":{"id":"org_1"}}`)
	rec := deliver(t, engine, body, sign(testSecret, body))

	// Unknown event types are acknowledged so the provider stops retrying.
	assert.Equal(t, http.StatusOK, rec.Code)
}
