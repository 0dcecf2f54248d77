package whatsapp

import (
	"context"
	"encoding/json"
	"time"
)

// MessageType discriminates the payload of an inbound message
type MessageType string

const (
	TypeText     MessageType = "text"
	TypeImage    MessageType = "image"
	TypeAudio    MessageType = "audio"
	TypeVideo    MessageType = "video"
	TypeDocument MessageType = "document"
	TypeSticker  MessageType = "sticker"
	TypeLocation MessageType = "location"
	TypeReaction MessageType = "reaction"
	TypeContacts MessageType = "contacts"
	TypeUnknown  MessageType = "unknown"
)

// Message is a parsed inbound webhook message. Type is always set; when the
// platform sends a type this library does not recognize it is TypeUnknown and
// Raw carries the undecoded message object.
//
// A Message holds a reference to the Bot that received it so replies and
// read receipts can be issued directly; it does not manage the Bot's
// lifecycle. None of its methods mutate the message.
type Message struct {
	ID        string
	From      string
	Timestamp time.Time
	Type      MessageType

	Text     *IncomingText
	Image    *IncomingMedia
	Audio    *IncomingMedia
	Video    *IncomingMedia
	Document *IncomingMedia
	Sticker  *IncomingMedia
	Location *IncomingLocation
	Reaction *IncomingReaction
	Contacts []Contact

	// ProfileName is the sender's display name from the webhook contacts block
	ProfileName string

	// DisplayPhoneNumber and PhoneNumberID identify the receiving business
	// number (webhook metadata)
	DisplayPhoneNumber string
	PhoneNumberID      string

	// Raw is the decoded message object as delivered, retained for
	// forward-compatibility and debugging
	Raw map[string]any

	bot         *Bot
	autoReadOff bool
}

// IncomingText is the body of an inbound text message
type IncomingText struct {
	Body string
}

// IncomingMedia describes inbound media. The platform delivers media ids,
// not links; downloading the content is a separate, authenticated call.
type IncomingMedia struct {
	MediaID  string
	MimeType string
	Sha256   string
	Caption  string
	Filename string
}

// IncomingLocation is an inbound shared location
type IncomingLocation struct {
	Latitude  float64
	Longitude float64
	Name      string
	Address   string
}

// IncomingReaction is an inbound emoji reaction
type IncomingReaction struct {
	MessageID string
	Emoji     string
}

func (m *Message) getBot() (*Bot, error) {
	if m.bot == nil {
		return nil, Errors.NewWithMessage(ErrConfigInvalid, "Bot is not available on this message")
	}
	return m.bot, nil
}

// ReplyText replies to this message with text
func (m *Message) ReplyText(ctx context.Context, text string) (*SendResult, error) {
	bot, err := m.getBot()
	if err != nil {
		return nil, err
	}
	msg, err := NewTextMessage(m.From, text, false)
	if err != nil {
		return nil, err
	}
	return bot.Send(ctx, msg.AsReplyTo(m.ID))
}

// ReplyImageByURL replies to this message with an image from a public URL
func (m *Message) ReplyImageByURL(ctx context.Context, link, caption string) (*SendResult, error) {
	return m.replyMedia(ctx, KindImage, link, caption)
}

// ReplyAudioByURL replies to this message with audio from a public URL
func (m *Message) ReplyAudioByURL(ctx context.Context, link string) (*SendResult, error) {
	return m.replyMedia(ctx, KindAudio, link, "")
}

// ReplyVideoByURL replies to this message with a video from a public URL
func (m *Message) ReplyVideoByURL(ctx context.Context, link, caption string) (*SendResult, error) {
	return m.replyMedia(ctx, KindVideo, link, caption)
}

// ReplyDocumentByURL replies to this message with a document from a public URL
func (m *Message) ReplyDocumentByURL(ctx context.Context, link, caption string) (*SendResult, error) {
	return m.replyMedia(ctx, KindDocument, link, caption)
}

// ReplyStickerByURL replies to this message with a sticker from a public URL
func (m *Message) ReplyStickerByURL(ctx context.Context, link string) (*SendResult, error) {
	return m.replyMedia(ctx, KindSticker, link, "")
}

func (m *Message) replyMedia(ctx context.Context, kind Kind, link, caption string) (*SendResult, error) {
	bot, err := m.getBot()
	if err != nil {
		return nil, err
	}
	msg, err := newMediaMessage(kind, m.From, link, caption)
	if err != nil {
		return nil, err
	}
	return bot.Send(ctx, msg.AsReplyTo(m.ID))
}

// React sends an emoji reaction to this message
func (m *Message) React(ctx context.Context, emoji string) (*SendResult, error) {
	bot, err := m.getBot()
	if err != nil {
		return nil, err
	}
	return bot.SendReaction(ctx, m.From, m.ID, emoji)
}

// MarkAsRead issues a read receipt for this message. The platform
// de-duplicates receipts, so calling it twice is harmless.
func (m *Message) MarkAsRead(ctx context.Context) (*SendResult, error) {
	bot, err := m.getBot()
	if err != nil {
		return nil, err
	}
	return bot.MarkMessageAsRead(ctx, m.ID)
}

// DisableAutoRead suppresses the dispatcher's default mark-as-read for this
// delivery. Call it from inside a handler.
func (m *Message) DisableAutoRead() {
	m.autoReadOff = true
}

// ========== Webhook Wire Structures ==========

type webhookPayload struct {
	Object string         `json:"object"`
	Entry  []webhookEntry `json:"entry"`
}

type webhookEntry struct {
	ID      string          `json:"id"`
	Changes []webhookChange `json:"changes"`
}

type webhookChange struct {
	Value webhookValue `json:"value"`
	Field string       `json:"field"`
}

type webhookValue struct {
	MessagingProduct string            `json:"messaging_product"`
	Metadata         webhookMetadata   `json:"metadata"`
	Contacts         []webhookContact  `json:"contacts,omitempty"`
	Messages         []inboundMessage  `json:"messages,omitempty"`
	Statuses         []json.RawMessage `json:"statuses,omitempty"`
}

type webhookMetadata struct {
	DisplayPhoneNumber string `json:"display_phone_number"`
	PhoneNumberID      string `json:"phone_number_id"`
}

type webhookContact struct {
	Profile webhookProfile `json:"profile"`
	WaID    string         `json:"wa_id"`
}

type webhookProfile struct {
	Name string `json:"name"`
}

type inboundMessage struct {
	From      string            `json:"from"`
	ID        string            `json:"id"`
	Timestamp string            `json:"timestamp"`
	Type      string            `json:"type"`
	Text      *inboundText      `json:"text,omitempty"`
	Image     *inboundMedia     `json:"image,omitempty"`
	Audio     *inboundMedia     `json:"audio,omitempty"`
	Video     *inboundMedia     `json:"video,omitempty"`
	Document  *inboundMedia     `json:"document,omitempty"`
	Sticker   *inboundMedia     `json:"sticker,omitempty"`
	Location  *IncomingLocation `json:"location,omitempty"`
	Reaction  *inboundReaction  `json:"reaction,omitempty"`
	Contacts  []Contact         `json:"contacts,omitempty"`
}

type inboundText struct {
	Body string `json:"body"`
}

type inboundMedia struct {
	ID       string `json:"id"`
	MimeType string `json:"mime_type"`
	Sha256   string `json:"sha256"`
	Caption  string `json:"caption,omitempty"`
	Filename string `json:"filename,omitempty"`
}

type inboundReaction struct {
	MessageID string `json:"message_id"`
	Emoji     string `json:"emoji"`
}
