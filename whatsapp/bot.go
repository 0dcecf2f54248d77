package whatsapp

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"

	"github.com/t-ega/whatsapp-cloud-sdk/logx"
)

// Bot sends messages through the WhatsApp Cloud API. It holds no per-call
// state: every Send is an independent POST, so a single Bot is safe to share
// across concurrent webhook dispatches.
type Bot struct {
	config     Config
	httpClient *http.Client
	messageURL string
}

// NewBot creates a Bot from an explicit Config. It fails when the access
// token or phone number id is missing or malformed.
func NewBot(config Config) (*Bot, error) {
	config = config.withDefaults()
	if err := config.validate(); err != nil {
		return nil, err
	}

	return &Bot{
		config:     config,
		httpClient: &http.Client{Timeout: config.HTTPTimeout},
		messageURL: fmt.Sprintf("%s/%s/%s/messages", config.BaseURL, config.APIVersion, config.PhoneNumberID),
	}, nil
}

// SendResult is the decoded success response from the Cloud API
type SendResult struct {
	// MessageID is the platform-assigned id of the sent message. Empty for
	// read receipts, which only acknowledge success.
	MessageID string

	// WaID is the recipient's canonical WhatsApp id
	WaID string

	// Success is set on status requests such as read receipts
	Success bool
}

// Send serializes the message and issues a single POST to the messages
// endpoint. No retries are performed; retry policy belongs to the caller.
func (b *Bot) Send(ctx context.Context, message *OutboundMessage) (*SendResult, error) {
	if message == nil {
		return nil, Errors.NewWithMessage(ErrValidationFailed, "No message to send")
	}

	body, err := json.Marshal(message)
	if err != nil {
		return nil, Errors.New(ErrValidationFailed).WithCause(err).
			WithDetail("operation", "marshal_message")
	}

	logx.Debug("Sending Cloud API request: %s", string(body))

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, b.messageURL, bytes.NewReader(body))
	if err != nil {
		return nil, Errors.New(ErrNetworkFailure).WithCause(err).
			WithDetail("operation", "create_request")
	}

	req.Header.Set("Authorization", "Bearer "+b.config.AccessToken)
	req.Header.Set("Content-Type", "application/json")

	resp, err := b.httpClient.Do(req)
	if err != nil {
		return nil, Errors.New(ErrNetworkFailure).WithCause(err).
			WithDetail("operation", "http_request")
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, b.platformError(resp)
	}

	var decoded sendResponse
	if err := json.NewDecoder(resp.Body).Decode(&decoded); err != nil {
		return nil, Errors.New(ErrPlatformError).WithCause(err).
			WithDetail("operation", "decode_response").
			WithDetail("http_status", resp.StatusCode)
	}

	result := &SendResult{Success: decoded.Success}
	if len(decoded.Messages) > 0 {
		result.MessageID = decoded.Messages[0].ID
	}
	if len(decoded.Contacts) > 0 {
		result.WaID = decoded.Contacts[0].WaID
	}
	return result, nil
}

// platformError decodes the Cloud API error envelope. The envelope shape is
// deterministic, so the decoded fields are surfaced rather than the raw body.
func (b *Bot) platformError(resp *http.Response) error {
	body, _ := io.ReadAll(resp.Body)

	var envelope errorResponse
	if err := json.Unmarshal(body, &envelope); err == nil && envelope.Error.Code != 0 {
		return Errors.NewWithMessage(ErrPlatformError, envelope.Error.Message).
			WithDetail("http_status", resp.StatusCode).
			WithDetail("error_type", envelope.Error.Type).
			WithDetail("error_code", envelope.Error.Code).
			WithDetail("error_subcode", envelope.Error.ErrorSubcode).
			WithDetail("fbtrace_id", envelope.Error.FbtraceID)
	}

	return Errors.New(ErrPlatformError).
		WithDetail("http_status", resp.StatusCode).
		WithDetail("response_body", string(body))
}

// ========== Convenience Send Methods ==========

// SendText sends a plain text message
func (b *Bot) SendText(ctx context.Context, to, text string) (*SendResult, error) {
	msg, err := NewTextMessage(to, text, false)
	if err != nil {
		return nil, err
	}
	return b.Send(ctx, msg)
}

// SendTextWithPreview sends a text message with link previews enabled
func (b *Bot) SendTextWithPreview(ctx context.Context, to, text string) (*SendResult, error) {
	msg, err := NewTextMessage(to, text, true)
	if err != nil {
		return nil, err
	}
	return b.Send(ctx, msg)
}

// SendTextWithButtons sends a text message with up to three reply buttons
func (b *Bot) SendTextWithButtons(ctx context.Context, to, text string, buttons []Button) (*SendResult, error) {
	msg, err := NewButtonMessage(to, text, buttons)
	if err != nil {
		return nil, err
	}
	return b.Send(ctx, msg)
}

// SendReaction reacts to an earlier message with an emoji
func (b *Bot) SendReaction(ctx context.Context, to, messageID, emoji string) (*SendResult, error) {
	msg, err := NewReactionMessage(to, messageID, emoji)
	if err != nil {
		return nil, err
	}
	return b.Send(ctx, msg)
}

// SendImageByURL sends an image from a public URL
func (b *Bot) SendImageByURL(ctx context.Context, to, link, caption string) (*SendResult, error) {
	msg, err := NewImageMessage(to, link, caption)
	if err != nil {
		return nil, err
	}
	return b.Send(ctx, msg)
}

// SendAudioByURL sends an audio file from a public URL
func (b *Bot) SendAudioByURL(ctx context.Context, to, link string) (*SendResult, error) {
	msg, err := NewAudioMessage(to, link)
	if err != nil {
		return nil, err
	}
	return b.Send(ctx, msg)
}

// SendVideoByURL sends a video from a public URL
func (b *Bot) SendVideoByURL(ctx context.Context, to, link, caption string) (*SendResult, error) {
	msg, err := NewVideoMessage(to, link, caption)
	if err != nil {
		return nil, err
	}
	return b.Send(ctx, msg)
}

// SendDocumentByURL sends a document from a public URL
func (b *Bot) SendDocumentByURL(ctx context.Context, to, link, caption string) (*SendResult, error) {
	msg, err := NewDocumentMessage(to, link, caption)
	if err != nil {
		return nil, err
	}
	return b.Send(ctx, msg)
}

// SendStickerByURL sends a sticker from a public URL
func (b *Bot) SendStickerByURL(ctx context.Context, to, link string) (*SendResult, error) {
	msg, err := NewStickerMessage(to, link)
	if err != nil {
		return nil, err
	}
	return b.Send(ctx, msg)
}

// SendLocation sends a shared location
func (b *Bot) SendLocation(ctx context.Context, to string, latitude, longitude float64, name, address string) (*SendResult, error) {
	msg, err := NewLocationMessage(to, latitude, longitude, name, address)
	if err != nil {
		return nil, err
	}
	return b.Send(ctx, msg)
}

// SendContacts sends one or more contact cards
func (b *Bot) SendContacts(ctx context.Context, to string, contacts []Contact) (*SendResult, error) {
	msg, err := NewContactsMessage(to, contacts)
	if err != nil {
		return nil, err
	}
	return b.Send(ctx, msg)
}

// MarkMessageAsRead issues a read receipt for a received message
func (b *Bot) MarkMessageAsRead(ctx context.Context, messageID string) (*SendResult, error) {
	msg, err := NewReadReceipt(messageID)
	if err != nil {
		return nil, err
	}
	return b.Send(ctx, msg)
}

// ========== Response Structures ==========

type sendResponse struct {
	MessagingProduct string            `json:"messaging_product"`
	Contacts         []responseContact `json:"contacts"`
	Messages         []responseMessage `json:"messages"`
	Success          bool              `json:"success"`
}

type responseContact struct {
	Input string `json:"input"`
	WaID  string `json:"wa_id"`
}

type responseMessage struct {
	ID string `json:"id"`
}

type errorResponse struct {
	Error platformError `json:"error"`
}

type platformError struct {
	Message      string `json:"message"`
	Type         string `json:"type"`
	Code         int    `json:"code"`
	ErrorSubcode int    `json:"error_subcode"`
	FbtraceID    string `json:"fbtrace_id"`
}
