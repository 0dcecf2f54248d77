package whatsapp

import (
	"encoding/json"
	"strconv"
	"time"
)

// ParseWebhook decodes a webhook notification body into a Message. It returns
// (nil, nil) when the notification carries no user message, which happens for
// delivery and read status updates; callers must check for a nil message
// before a nil error.
//
// The returned Message is bound to bot so its reply methods work. A nil bot
// is accepted; reply methods on the resulting message will fail.
func ParseWebhook(data []byte, bot *Bot) (*Message, error) {
	var payload webhookPayload
	if err := json.Unmarshal(data, &payload); err != nil {
		return nil, Errors.NewWithCause(ErrParseFailed, err)
	}

	if len(payload.Entry) == 0 || len(payload.Entry[0].Changes) == 0 {
		return nil, nil
	}
	value := payload.Entry[0].Changes[0].Value

	// Status-only notifications (sent, delivered, read) carry no messages.
	if len(value.Messages) == 0 {
		return nil, nil
	}
	wire := value.Messages[0]

	if wire.ID == "" {
		return nil, Errors.NewWithMessage(ErrParseFailed, "webhook message has no id").
			WithDetail("field", "id")
	}
	if wire.From == "" {
		return nil, Errors.NewWithMessage(ErrParseFailed, "webhook message has no sender").
			WithDetail("field", "from")
	}
	if wire.Timestamp == "" {
		return nil, Errors.NewWithMessage(ErrParseFailed, "webhook message has no timestamp").
			WithDetail("field", "timestamp")
	}
	unix, err := strconv.ParseInt(wire.Timestamp, 10, 64)
	if err != nil {
		return nil, Errors.NewWithCause(ErrParseFailed, err).
			WithDetail("field", "timestamp")
	}

	msg := &Message{
		ID:                 wire.ID,
		From:               wire.From,
		Timestamp:          time.Unix(unix, 0).UTC(),
		DisplayPhoneNumber: value.Metadata.DisplayPhoneNumber,
		PhoneNumberID:      value.Metadata.PhoneNumberID,
		Raw:                rawMessage(data),
		bot:                bot,
	}
	if len(value.Contacts) > 0 {
		msg.ProfileName = value.Contacts[0].Profile.Name
	}

	switch MessageType(wire.Type) {
	case TypeText:
		msg.Type = TypeText
		if wire.Text != nil {
			msg.Text = &IncomingText{Body: wire.Text.Body}
		}
	case TypeImage:
		msg.Type = TypeImage
		msg.Image = toIncomingMedia(wire.Image)
	case TypeAudio:
		msg.Type = TypeAudio
		msg.Audio = toIncomingMedia(wire.Audio)
	case TypeVideo:
		msg.Type = TypeVideo
		msg.Video = toIncomingMedia(wire.Video)
	case TypeDocument:
		msg.Type = TypeDocument
		msg.Document = toIncomingMedia(wire.Document)
	case TypeSticker:
		msg.Type = TypeSticker
		msg.Sticker = toIncomingMedia(wire.Sticker)
	case TypeLocation:
		msg.Type = TypeLocation
		msg.Location = wire.Location
	case TypeReaction:
		msg.Type = TypeReaction
		if wire.Reaction != nil {
			msg.Reaction = &IncomingReaction{
				MessageID: wire.Reaction.MessageID,
				Emoji:     wire.Reaction.Emoji,
			}
		}
	case TypeContacts:
		msg.Type = TypeContacts
		msg.Contacts = wire.Contacts
	default:
		msg.Type = TypeUnknown
	}

	return msg, nil
}

func toIncomingMedia(m *inboundMedia) *IncomingMedia {
	if m == nil {
		return nil
	}
	return &IncomingMedia{
		MediaID:  m.ID,
		MimeType: m.MimeType,
		Sha256:   m.Sha256,
		Caption:  m.Caption,
		Filename: m.Filename,
	}
}

// rawMessage re-decodes the first message object as a generic map so unknown
// fields survive parsing.
func rawMessage(data []byte) map[string]any {
	var generic struct {
		Entry []struct {
			Changes []struct {
				Value struct {
					Messages []map[string]any `json:"messages"`
				} `json:"value"`
			} `json:"changes"`
		} `json:"entry"`
	}
	if err := json.Unmarshal(data, &generic); err != nil {
		return nil
	}
	if len(generic.Entry) == 0 || len(generic.Entry[0].Changes) == 0 {
		return nil
	}
	msgs := generic.Entry[0].Changes[0].Value.Messages
	if len(msgs) == 0 {
		return nil
	}
	return msgs[0]
}
