package users

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"io"
	"net/http"

	"cineshow/internal/shared/utils/response"
	"cineshow/pkg/logger"

	"github.com/gin-gonic/gin"
)

// SignatureHeader carries the hex HMAC-SHA256 of the raw request body.
const SignatureHeader = "X-Identity-Signature"

type WebhookController interface {
	HandleIdentityEvent(c *gin.Context)
}

type webhookController struct {
	service Service
	secret  string
	logger  *logger.Logger
}

func NewWebhookController(service Service, secret string) WebhookController {
	return &webhookController{
		service: service,
		secret:  secret,
		logger:  logger.GetDefault(),
	}
}

// HandleIdentityEvent verifies the delivery signature and applies the event.
// A verified but malformed delivery gets a 400 so the provider retries with
// backoff rather than hammering us.
func (ctrl *webhookController) HandleIdentityEvent(c *gin.Context) {
	body, err := io.ReadAll(c.Request.Body)
	if err != nil {
		response.RespondJSON(c, "error", http.StatusBadRequest, "Failed to read request body", nil, nil)
		return
	}

	if !ctrl.verifySignature(body, c.GetHeader(SignatureHeader)) {
		ctrl.logger.LogWebhookRejected(c.Request.Context(), "invalid signature", c.ClientIP())
		response.RespondJSON(c, "error", http.StatusUnauthorized, "Invalid webhook signature", nil, nil)
		return
	}

	event, err := ParseIdentityEvent(body)
	if err != nil {
		response.RespondJSON(c, "error", http.StatusBadRequest, "Malformed event payload", nil, err.Error())
		return
	}

	if err := ctrl.service.SyncUser(c.Request.Context(), event); err != nil {
		if errors.Is(err, ErrUnknownEvent) {
			// Acknowledge event types we don't handle so the provider
			// doesn't retry them forever
			response.RespondJSON(c, "success", http.StatusOK, "Event ignored", nil, nil)
			return
		}
		response.RespondJSON(c, "error", http.StatusInternalServerError, "Failed to sync user", nil, err.Error())
		return
	}

	response.RespondJSON(c, "success", http.StatusOK, "User synchronized", nil, nil)
}

func (ctrl *webhookController) verifySignature(body []byte, signature string) bool {
	if ctrl.secret == "" || signature == "" {
		return false
	}

	mac := hmac.New(sha256.New, []byte(ctrl.secret))
	mac.Write(body)
	expected := hex.EncodeToString(mac.Sum(nil))

	return hmac.Equal([]byte(expected), []byte(signature))
}
