package whatsapp

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/t-ega/whatsapp-cloud-sdk/errx"
)

func webhookBody(message string) []byte {
	return []byte(`{
		"object": "whatsapp_business_account",
		"entry": [{
			"id": "100000000000000",
			"changes": [{
				"field": "messages",
				"value": {
					"messaging_product": "whatsapp",
					"metadata": {
						"display_phone_number": "15550001111",
						"phone_number_id": "123456789"
					},
					"contacts": [{
						"profile": {"name": "Ada"},
						"wa_id": "15551234567"
					}],
					"messages": [` + message + `]
				}
			}]
		}]
	}`)
}

func TestParseWebhookText(t *testing.T) {
	body := webhookBody(`{
		"from": "15551234567",
		"id": "wamid.text1",
		"timestamp": "1700000000",
		"type": "text",
		"text": {"body": "hello"}
	}`)

	msg, err := ParseWebhook(body, nil)
	require.NoError(t, err)
	require.NotNil(t, msg)

	assert.Equal(t, "wamid.text1", msg.ID)
	assert.Equal(t, "15551234567", msg.From)
	assert.Equal(t, time.Unix(1700000000, 0).UTC(), msg.Timestamp)
	assert.Equal(t, TypeText, msg.Type)
	require.NotNil(t, msg.Text)
	assert.Equal(t, "hello", msg.Text.Body)

	assert.Equal(t, "Ada", msg.ProfileName)
	assert.Equal(t, "15550001111", msg.DisplayPhoneNumber)
	assert.Equal(t, "123456789", msg.PhoneNumberID)

	require.NotNil(t, msg.Raw)
	assert.Equal(t, "wamid.text1", msg.Raw["id"])
}

func TestParseWebhookImage(t *testing.T) {
	body := webhookBody(`{
		"from": "15551234567",
		"id": "wamid.img1",
		"timestamp": "1700000000",
		"type": "image",
		"image": {
			"id": "media123",
			"mime_type": "image/jpeg",
			"sha256": "abc123",
			"caption": "look"
		}
	}`)

	msg, err := ParseWebhook(body, nil)
	require.NoError(t, err)
	require.NotNil(t, msg)

	assert.Equal(t, TypeImage, msg.Type)
	require.NotNil(t, msg.Image)
	assert.Equal(t, "media123", msg.Image.MediaID)
	assert.Equal(t, "image/jpeg", msg.Image.MimeType)
	assert.Equal(t, "look", msg.Image.Caption)
}

func TestParseWebhookLocation(t *testing.T) {
	body := webhookBody(`{
		"from": "15551234567",
		"id": "wamid.loc1",
		"timestamp": "1700000000",
		"type": "location",
		"location": {"latitude": -12.04, "longitude": -77.03, "name": "Office"}
	}`)

	msg, err := ParseWebhook(body, nil)
	require.NoError(t, err)
	require.NotNil(t, msg)

	assert.Equal(t, TypeLocation, msg.Type)
	require.NotNil(t, msg.Location)
	assert.Equal(t, -12.04, msg.Location.Latitude)
	assert.Equal(t, "Office", msg.Location.Name)
}

func TestParseWebhookReaction(t *testing.T) {
	body := webhookBody(`{
		"from": "15551234567",
		"id": "wamid.react1",
		"timestamp": "1700000000",
		"type": "reaction",
		"reaction": {"message_id": "wamid.earlier", "emoji": "👍"}
	}`)

	msg, err := ParseWebhook(body, nil)
	require.NoError(t, err)
	require.NotNil(t, msg)

	assert.Equal(t, TypeReaction, msg.Type)
	require.NotNil(t, msg.Reaction)
	assert.Equal(t, "wamid.earlier", msg.Reaction.MessageID)
}

func TestParseWebhookStatusOnly(t *testing.T) {
	body := []byte(`{
		"object": "whatsapp_business_account",
		"entry": [{
			"id": "100000000000000",
			"changes": [{
				"field": "messages",
				"value": {
					"messaging_product": "whatsapp",
					"metadata": {"display_phone_number": "15550001111", "phone_number_id": "123456789"},
					"statuses": [{"id": "wamid.sent1", "status": "delivered"}]
				}
			}]
		}]
	}`)

	msg, err := ParseWebhook(body, nil)
	require.NoError(t, err)
	assert.Nil(t, msg)
}

func TestParseWebhookEmptyEntry(t *testing.T) {
	msg, err := ParseWebhook([]byte(`{"object": "whatsapp_business_account", "entry": []}`), nil)
	require.NoError(t, err)
	assert.Nil(t, msg)
}

func TestParseWebhookUnknownType(t *testing.T) {
	body := webhookBody(`{
		"from": "15551234567",
		"id": "wamid.new1",
		"timestamp": "1700000000",
		"type": "some_future_type",
		"some_future_type": {"answer": 42}
	}`)

	msg, err := ParseWebhook(body, nil)
	require.NoError(t, err)
	require.NotNil(t, msg)

	assert.Equal(t, TypeUnknown, msg.Type)
	// Raw retains the undecoded object so callers can inspect it
	require.NotNil(t, msg.Raw)
	assert.Contains(t, msg.Raw, "some_future_type")
}

func TestParseWebhookMissingFields(t *testing.T) {
	tests := []struct {
		name    string
		message string
	}{
		{"missing id", `{"from": "15551234567", "timestamp": "1700000000", "type": "text", "text": {"body": "x"}}`},
		{"missing from", `{"id": "wamid.x", "timestamp": "1700000000", "type": "text", "text": {"body": "x"}}`},
		{"missing timestamp", `{"id": "wamid.x", "from": "15551234567", "type": "text", "text": {"body": "x"}}`},
		{"bad timestamp", `{"id": "wamid.x", "from": "15551234567", "timestamp": "soon", "type": "text", "text": {"body": "x"}}`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParseWebhook(webhookBody(tt.message), nil)
			require.Error(t, err)
			assert.True(t, errx.IsCode(err, ErrParseFailed))
		})
	}
}

func TestParseWebhookMalformedJSON(t *testing.T) {
	_, err := ParseWebhook([]byte(`{not json`), nil)
	require.Error(t, err)
	assert.True(t, errx.IsCode(err, ErrParseFailed))
}

func TestMessageReplyWithoutBot(t *testing.T) {
	msg, err := ParseWebhook(webhookBody(`{
		"from": "15551234567",
		"id": "wamid.text1",
		"timestamp": "1700000000",
		"type": "text",
		"text": {"body": "hello"}
	}`), nil)
	require.NoError(t, err)
	require.NotNil(t, msg)

	_, err = msg.ReplyText(context.Background(), "hi back")
	require.Error(t, err)
	assert.True(t, errx.IsCode(err, ErrConfigInvalid))
}
