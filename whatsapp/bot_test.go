package whatsapp

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/t-ega/whatsapp-cloud-sdk/errx"
)

func testBot(t *testing.T, handler http.HandlerFunc) (*Bot, *httptest.Server) {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	bot, err := NewBot(Config{
		AccessToken:   "test-token",
		PhoneNumberID: "123456789",
		BaseURL:       server.URL,
	})
	require.NoError(t, err)
	return bot, server
}

func TestNewBotValidation(t *testing.T) {
	t.Run("missing token", func(t *testing.T) {
		_, err := NewBot(Config{PhoneNumberID: "123456789"})
		require.Error(t, err)
		assert.True(t, errx.IsCode(err, ErrConfigInvalid))
	})

	t.Run("non numeric phone number id", func(t *testing.T) {
		_, err := NewBot(Config{AccessToken: "tok", PhoneNumberID: "abc"})
		require.Error(t, err)
		assert.True(t, errx.IsCode(err, ErrConfigInvalid))
	})

	t.Run("defaults applied", func(t *testing.T) {
		bot, err := NewBot(Config{AccessToken: "tok", PhoneNumberID: "123456789"})
		require.NoError(t, err)
		assert.Equal(t, "https://graph.facebook.com/v17.0/123456789/messages", bot.messageURL)
	})
}

func TestBotSend(t *testing.T) {
	var gotAuth, gotContentType string
	var gotBody map[string]any

	bot, _ := testBot(t, func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		gotContentType = r.Header.Get("Content-Type")
		require.NoError(t, json.NewDecoder(r.Body).Decode(&gotBody))

		json.NewEncoder(w).Encode(map[string]any{
			"messaging_product": "whatsapp",
			"contacts":          []map[string]any{{"input": "15551234567", "wa_id": "15551234567"}},
			"messages":          []map[string]any{{"id": "wamid.sent1"}},
		})
	})

	result, err := bot.SendText(context.Background(), testRecipient, "hello")
	require.NoError(t, err)

	assert.Equal(t, "Bearer test-token", gotAuth)
	assert.Equal(t, "application/json", gotContentType)
	assert.Equal(t, "whatsapp", gotBody["messaging_product"])
	assert.Equal(t, "text", gotBody["type"])

	assert.Equal(t, "wamid.sent1", result.MessageID)
	assert.Equal(t, "15551234567", result.WaID)
}

func TestBotSendPlatformError(t *testing.T) {
	bot, _ := testBot(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		json.NewEncoder(w).Encode(map[string]any{
			"error": map[string]any{
				"message":       "Invalid OAuth access token",
				"type":          "OAuthException",
				"code":          190,
				"error_subcode": 463,
				"fbtrace_id":    "AbC123",
			},
		})
	})

	_, err := bot.SendText(context.Background(), testRecipient, "hello")
	require.Error(t, err)
	require.True(t, errx.IsCode(err, ErrPlatformError))

	var xerr *errx.Error
	require.ErrorAs(t, err, &xerr)
	assert.Equal(t, "Invalid OAuth access token", xerr.Message)
	assert.Equal(t, http.StatusUnauthorized, xerr.Details["http_status"])
	assert.Equal(t, "OAuthException", xerr.Details["error_type"])
	assert.Equal(t, 190, xerr.Details["error_code"])
	assert.Equal(t, "AbC123", xerr.Details["fbtrace_id"])
}

func TestBotSendUnparseableErrorBody(t *testing.T) {
	bot, _ := testBot(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
		w.Write([]byte("upstream hiccup"))
	})

	_, err := bot.SendText(context.Background(), testRecipient, "hello")
	require.Error(t, err)
	require.True(t, errx.IsCode(err, ErrPlatformError))

	var xerr *errx.Error
	require.ErrorAs(t, err, &xerr)
	assert.Equal(t, "upstream hiccup", xerr.Details["response_body"])
}

func TestBotSendNetworkFailure(t *testing.T) {
	bot, server := testBot(t, func(w http.ResponseWriter, r *http.Request) {})
	server.Close()

	_, err := bot.SendText(context.Background(), testRecipient, "hello")
	require.Error(t, err)
	assert.True(t, errx.IsCode(err, ErrNetworkFailure))
}

func TestBotSendContextCancelled(t *testing.T) {
	bot, _ := testBot(t, func(w http.ResponseWriter, r *http.Request) {})

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := bot.SendText(ctx, testRecipient, "hello")
	require.Error(t, err)
	assert.True(t, errx.IsCode(err, ErrNetworkFailure))
}

func TestBotSendNilMessage(t *testing.T) {
	bot, _ := testBot(t, func(w http.ResponseWriter, r *http.Request) {})

	_, err := bot.Send(context.Background(), nil)
	require.Error(t, err)
	assert.True(t, errx.IsCode(err, ErrValidationFailed))
}

func TestBotMarkMessageAsRead(t *testing.T) {
	var gotBody map[string]any
	bot, _ := testBot(t, func(w http.ResponseWriter, r *http.Request) {
		require.NoError(t, json.NewDecoder(r.Body).Decode(&gotBody))
		json.NewEncoder(w).Encode(map[string]any{"success": true})
	})

	result, err := bot.MarkMessageAsRead(context.Background(), "wamid.read1")
	require.NoError(t, err)

	assert.Equal(t, "read", gotBody["status"])
	assert.Equal(t, "wamid.read1", gotBody["message_id"])
	assert.True(t, result.Success)
	assert.Empty(t, result.MessageID)
}

func TestBotValidationSkipsNetwork(t *testing.T) {
	called := false
	bot, _ := testBot(t, func(w http.ResponseWriter, r *http.Request) {
		called = true
	})

	_, err := bot.SendText(context.Background(), "", "hello")
	require.Error(t, err)
	assert.True(t, errx.IsCode(err, ErrValidationFailed))
	assert.False(t, called)
}
