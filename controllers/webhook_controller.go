package controllers

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"io"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/jobquote/jobquote-api/config"
	"github.com/jobquote/jobquote-api/services"
)

// stripeSignatureTolerance bounds how old a signed webhook timestamp may be
const stripeSignatureTolerance = 5 * time.Minute

// stripeEvent is the subset of the Stripe event envelope we care about
type stripeEvent struct {
	Type string `json:"type"`
	Data struct {
		Object struct {
			ID       string            `json:"id"`
			Metadata map[string]string `json:"metadata"`
		} `json:"object"`
	} `json:"data"`
}

// StripeWebhook handles POST /api/v1/webhooks/stripe. The endpoint is
// unauthenticated; trust comes from the Stripe-Signature header, which is an
// HMAC-SHA256 over "<timestamp>.<payload>" keyed with the webhook secret.
func StripeWebhook(c *gin.Context) {
	payload, err := io.ReadAll(c.Request.Body)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "INVALID_PAYLOAD",
				"message": "Could not read request body",
			},
		})
		return
	}

	cfg := config.GetConfig()
	sigHeader := c.GetHeader("Stripe-Signature")
	if !verifyStripeSignature(payload, sigHeader, cfg.StripeWebhookSecret, time.Now()) {
		c.JSON(http.StatusBadRequest, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "INVALID_SIGNATURE",
				"message": "Webhook signature verification failed",
			},
		})
		return
	}

	var event stripeEvent
	if err := json.Unmarshal(payload, &event); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "INVALID_PAYLOAD",
				"message": "Could not parse event payload",
			},
		})
		return
	}

	switch event.Type {
	case "payment_intent.succeeded", "checkout.session.completed":
		estimateID, ok := estimateIDFromMetadata(event.Data.Object.Metadata)
		if !ok {
			// Not every payment carries an estimate reference. Acknowledge
			// so Stripe stops retrying.
			c.JSON(http.StatusOK, gin.H{"received": true})
			return
		}

		svc := services.NewEstimateService(config.GetDB())
		if _, err := svc.MarkPaid(estimateID, event.Data.Object.ID); err != nil {
			respondServiceError(c, err)
			return
		}
	}

	c.JSON(http.StatusOK, gin.H{"received": true})
}

// estimateIDFromMetadata pulls the estimate id the checkout flow stashed in
// the payment's metadata.
func estimateIDFromMetadata(metadata map[string]string) (uint, bool) {
	raw, ok := metadata["estimateId"]
	if !ok || raw == "" {
		return 0, false
	}
	id, err := strconv.ParseUint(raw, 10, 64)
	if err != nil || id == 0 {
		return 0, false
	}
	return uint(id), true
}

// verifyStripeSignature checks the Stripe-Signature header against the
// payload. The header looks like "t=1712345678,v1=abcdef...,v1=...". Any
// matching v1 signature within the timestamp tolerance passes.
func verifyStripeSignature(payload []byte, header, secret string, now time.Time) bool {
	if header == "" || secret == "" {
		return false
	}

	var timestamp string
	var signatures []string
	for _, part := range strings.Split(header, ",") {
		pair := strings.SplitN(part, "=", 2)
		if len(pair) != 2 {
			continue
		}
		switch pair[0] {
		case "t":
			timestamp = pair[1]
		case "v1":
			signatures = append(signatures, pair[1])
		}
	}
	if timestamp == "" || len(signatures) == 0 {
		return false
	}

	ts, err := strconv.ParseInt(timestamp, 10, 64)
	if err != nil {
		return false
	}
	age := now.Sub(time.Unix(ts, 0))
	if age > stripeSignatureTolerance || age < -stripeSignatureTolerance {
		return false
	}

	mac := hmac.New(sha256.New, []byte(secret))
	mac.Write([]byte(timestamp))
	mac.Write([]byte("."))
	mac.Write(payload)
	expected := hex.EncodeToString(mac.Sum(nil))

	for _, sig := range signatures {
		if hmac.Equal([]byte(expected), []byte(sig)) {
			return true
		}
	}
	return false
}
