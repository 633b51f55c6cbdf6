package http_test

import (
	"bytes"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"strconv"
	"testing"
	"time"

	"github.com/m-mizutani/gt"

	httpctrl "github.com/junglesafari/safaridesk/pkg/controller/http"
)

// computeSlackSignature computes the Slack signature for testing
func computeSlackSignature(signingSecret, timestamp, body string) string {
	baseString := fmt.Sprintf("v0:%s:%s", timestamp, body)
	h := hmac.New(sha256.New, []byte(signingSecret))
	h.Write([]byte(baseString))
	return "v0=" + hex.EncodeToString(h.Sum(nil))
}

func TestVerifySlackSignature(t *testing.T) {
	signingSecret := "test-signing-secret"
	body := []byte(`payload=%7B%7D`)
	now := time.Now()
	timestamp := strconv.FormatInt(now.Unix(), 10)

	t.Run("valid signature", func(t *testing.T) {
		signature := computeSlackSignature(signingSecret, timestamp, string(body))
		gt.NoError(t, httpctrl.VerifySlackSignature(signingSecret, timestamp, signature, body, now))
	})

	t.Run("invalid signature", func(t *testing.T) {
		gt.Value(t, httpctrl.VerifySlackSignature(signingSecret, timestamp, "v0=invalid", body, now)).NotNil()
	})

	t.Run("missing timestamp", func(t *testing.T) {
		signature := computeSlackSignature(signingSecret, timestamp, string(body))
		gt.Value(t, httpctrl.VerifySlackSignature(signingSecret, "", signature, body, now)).NotNil()
	})

	t.Run("missing signature", func(t *testing.T) {
		gt.Value(t, httpctrl.VerifySlackSignature(signingSecret, timestamp, "", body, now)).NotNil()
	})

	t.Run("timestamp too old", func(t *testing.T) {
		old := strconv.FormatInt(now.Add(-10*time.Minute).Unix(), 10)
		signature := computeSlackSignature(signingSecret, old, string(body))
		gt.Value(t, httpctrl.VerifySlackSignature(signingSecret, old, signature, body, now)).NotNil()
	})

	t.Run("timestamp in the future", func(t *testing.T) {
		future := strconv.FormatInt(now.Add(10*time.Minute).Unix(), 10)
		signature := computeSlackSignature(signingSecret, future, string(body))
		gt.Value(t, httpctrl.VerifySlackSignature(signingSecret, future, signature, body, now)).NotNil()
	})

	t.Run("invalid timestamp format", func(t *testing.T) {
		signature := computeSlackSignature(signingSecret, "abc", string(body))
		gt.Value(t, httpctrl.VerifySlackSignature(signingSecret, "abc", signature, body, now)).NotNil()
	})

	t.Run("different secret is rejected", func(t *testing.T) {
		signature := computeSlackSignature("other-secret", timestamp, string(body))
		gt.Value(t, httpctrl.VerifySlackSignature(signingSecret, timestamp, signature, body, now)).NotNil()
	})

	t.Run("different body is rejected", func(t *testing.T) {
		signature := computeSlackSignature(signingSecret, timestamp, string(body))
		gt.Value(t, httpctrl.VerifySlackSignature(signingSecret, timestamp, signature, []byte("payload=tampered"), now)).NotNil()
	})
}

func TestSlackSignatureMiddleware(t *testing.T) {
	signingSecret := "test-signing-secret"
	body := []byte(`payload=%7B%7D`)

	t.Run("calls next handler and restores the body", func(t *testing.T) {
		timestamp := strconv.FormatInt(time.Now().Unix(), 10)
		req := httptest.NewRequest(http.MethodPost, "/hooks/slack/interaction", bytes.NewReader(body))
		req.Header.Set("X-Slack-Request-Timestamp", timestamp)
		req.Header.Set("X-Slack-Signature", computeSlackSignature(signingSecret, timestamp, string(body)))
		rec := httptest.NewRecorder()

		var received []byte
		next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			received, _ = io.ReadAll(r.Body)
			w.WriteHeader(http.StatusOK)
		})
		httpctrl.SlackSignatureMiddleware(signingSecret)(next).ServeHTTP(rec, req)

		gt.Value(t, rec.Code).Equal(http.StatusOK)
		gt.Value(t, string(received)).Equal(string(body))
	})

	t.Run("does not call next handler when signature is invalid", func(t *testing.T) {
		timestamp := strconv.FormatInt(time.Now().Unix(), 10)
		req := httptest.NewRequest(http.MethodPost, "/hooks/slack/interaction", bytes.NewReader(body))
		req.Header.Set("X-Slack-Request-Timestamp", timestamp)
		req.Header.Set("X-Slack-Signature", "v0=invalid")
		rec := httptest.NewRecorder()

		nextCalled := false
		next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			nextCalled = true
		})
		httpctrl.SlackSignatureMiddleware(signingSecret)(next).ServeHTTP(rec, req)

		gt.Bool(t, nextCalled).False()
		gt.Value(t, rec.Code).Equal(http.StatusUnauthorized)
	})
}
