package whatsapp

import (
	"github.com/google/uuid"

	"github.com/t-ega/whatsapp-cloud-sdk/validatex"
)

// Kind identifies the wire type of an outbound message
type Kind string

const (
	KindText        Kind = "text"
	KindInteractive Kind = "interactive"
	KindReaction    Kind = "reaction"
	KindImage       Kind = "image"
	KindAudio       Kind = "audio"
	KindVideo       Kind = "video"
	KindDocument    Kind = "document"
	KindSticker     Kind = "sticker"
	KindLocation    Kind = "location"
	KindContacts    Kind = "contacts"
)

// Platform limits on interactive reply buttons
const (
	maxButtons        = 3
	maxButtonTitleLen = 20
)

// ========== Wire Structures ==========

// OutboundMessage is the Cloud API request body for the /messages endpoint.
// Exactly one kind-specific payload is set per instance. Build one with the
// New*Message constructors; they validate parameters before anything touches
// the network.
type OutboundMessage struct {
	MessagingProduct string           `json:"messaging_product"`
	RecipientType    string           `json:"recipient_type,omitempty"`
	To               string           `json:"to,omitempty"`
	Type             Kind             `json:"type,omitempty"`
	Context          *ReplyContext    `json:"context,omitempty"`
	Text             *TextPayload     `json:"text,omitempty"`
	Interactive      *Interactive     `json:"interactive,omitempty"`
	Reaction         *ReactionPayload `json:"reaction,omitempty"`
	Image            *MediaPayload    `json:"image,omitempty"`
	Audio            *MediaPayload    `json:"audio,omitempty"`
	Video            *MediaPayload    `json:"video,omitempty"`
	Document         *MediaPayload    `json:"document,omitempty"`
	Sticker          *MediaPayload    `json:"sticker,omitempty"`
	Location         *LocationPayload `json:"location,omitempty"`
	Contacts         []Contact        `json:"contacts,omitempty"`

	// Read receipt fields, posted to the same endpoint
	Status    string `json:"status,omitempty"`
	MessageID string `json:"message_id,omitempty"`
}

// ReplyContext tags a message as a reply to an earlier message
type ReplyContext struct {
	MessageID string `json:"message_id"`
}

// TextPayload carries the body of a text message
type TextPayload struct {
	PreviewURL bool   `json:"preview_url"`
	Body       string `json:"body"`
}

// MediaPayload carries a media-by-link object
type MediaPayload struct {
	Link    string `json:"link"`
	Caption string `json:"caption,omitempty"`
}

// ReactionPayload carries an emoji reaction to an earlier message
type ReactionPayload struct {
	MessageID string `json:"message_id"`
	Emoji     string `json:"emoji"`
}

// LocationPayload carries a shared location
type LocationPayload struct {
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
	Name      string  `json:"name,omitempty"`
	Address   string  `json:"address,omitempty"`
}

// Interactive carries a reply-button message
type Interactive struct {
	Type   string            `json:"type"`
	Body   InteractiveBody   `json:"body"`
	Action InteractiveAction `json:"action"`
}

type InteractiveBody struct {
	Text string `json:"text"`
}

type InteractiveAction struct {
	Buttons []replyButton `json:"buttons"`
}

type replyButton struct {
	Type  string `json:"type"`
	Reply Button `json:"reply"`
}

// Button is a single reply button. An empty ID is defaulted to a random uuid.
type Button struct {
	ID    string `json:"id"`
	Title string `json:"title" validatex:"required,min=1,max=20"`
}

// Contact is the Cloud API contact card schema
type Contact struct {
	Name      ContactName      `json:"name"`
	Org       *ContactOrg      `json:"org,omitempty"`
	Birthday  string           `json:"birthday,omitempty"`
	Phones    []ContactPhone   `json:"phones,omitempty"`
	Emails    []ContactEmail   `json:"emails,omitempty"`
	Addresses []ContactAddress `json:"addresses,omitempty"`
	URLs      []ContactURL     `json:"urls,omitempty"`
}

type ContactName struct {
	FormattedName string `json:"formatted_name" validatex:"required"`
	FirstName     string `json:"first_name,omitempty"`
	LastName      string `json:"last_name,omitempty"`
	MiddleName    string `json:"middle_name,omitempty"`
	Suffix        string `json:"suffix,omitempty"`
	Prefix        string `json:"prefix,omitempty"`
}

type ContactOrg struct {
	Company    string `json:"company,omitempty"`
	Department string `json:"department,omitempty"`
	Title      string `json:"title,omitempty"`
}

type ContactPhone struct {
	Phone string `json:"phone,omitempty"`
	WaID  string `json:"wa_id,omitempty"`
	Type  string `json:"type,omitempty"`
}

type ContactEmail struct {
	Email string `json:"email,omitempty"`
	Type  string `json:"type,omitempty"`
}

type ContactAddress struct {
	Street      string `json:"street,omitempty"`
	City        string `json:"city,omitempty"`
	State       string `json:"state,omitempty"`
	Zip         string `json:"zip,omitempty"`
	Country     string `json:"country,omitempty"`
	CountryCode string `json:"country_code,omitempty"`
	Type        string `json:"type,omitempty"`
}

type ContactURL struct {
	URL  string `json:"url,omitempty" validatex:"url"`
	Type string `json:"type,omitempty"`
}

// ========== Builder Parameter Validation ==========

// The parameter structs below exist only to hang validation rules on; they
// never reach the wire.

type textParams struct {
	Text            string `validatex:"required,max=4096"`
	RecipientNumber string `validatex:"required,e164,min=8,max=20"`
}

type buttonParams struct {
	Text            string   `validatex:"required,max=1024"`
	RecipientNumber string   `validatex:"required,e164,min=8,max=20"`
	Buttons         []Button `validatex:"required,max=3"`
}

type linkParams struct {
	Link            string `validatex:"required,url"`
	RecipientNumber string `validatex:"required,e164,min=8,max=20"`
}

type reactionParams struct {
	MessageID       string `validatex:"required"`
	Emoji           string `validatex:"required"`
	RecipientNumber string `validatex:"required,e164,min=8,max=20"`
}

type locationParams struct {
	RecipientNumber string `validatex:"required,e164,min=8,max=20"`
}

type contactsParams struct {
	RecipientNumber string    `validatex:"required,e164,min=8,max=20"`
	Contacts        []Contact `validatex:"required"`
}

func validateParams(params any) error {
	if err := validatex.Validate(params); err != nil {
		return Errors.New(ErrValidationFailed).WithCause(err).
			WithDetail("reason", err.Error())
	}
	return nil
}

func base(kind Kind, to string) *OutboundMessage {
	return &OutboundMessage{
		MessagingProduct: "whatsapp",
		RecipientType:    "individual",
		To:               to,
		Type:             kind,
	}
}

// ========== Builders ==========

// NewTextMessage builds a text message. previewURL enables link previews in
// the rendered message.
func NewTextMessage(to, body string, previewURL bool) (*OutboundMessage, error) {
	if err := validateParams(textParams{Text: body, RecipientNumber: to}); err != nil {
		return nil, err
	}

	msg := base(KindText, to)
	msg.Text = &TextPayload{Body: body, PreviewURL: previewURL}
	return msg, nil
}

// NewButtonMessage builds a text message with up to three reply buttons.
// Buttons without an id get a generated uuid.
func NewButtonMessage(to, body string, buttons []Button) (*OutboundMessage, error) {
	if err := validateParams(buttonParams{Text: body, RecipientNumber: to, Buttons: buttons}); err != nil {
		return nil, err
	}

	wired := make([]replyButton, len(buttons))
	for i, b := range buttons {
		if b.ID == "" {
			b.ID = uuid.NewString()
		}
		wired[i] = replyButton{Type: "reply", Reply: b}
	}

	msg := base(KindInteractive, to)
	msg.Interactive = &Interactive{
		Type:   "button",
		Body:   InteractiveBody{Text: body},
		Action: InteractiveAction{Buttons: wired},
	}
	return msg, nil
}

// NewReactionMessage builds an emoji reaction to an earlier message
func NewReactionMessage(to, messageID, emoji string) (*OutboundMessage, error) {
	if err := validateParams(reactionParams{MessageID: messageID, Emoji: emoji, RecipientNumber: to}); err != nil {
		return nil, err
	}

	msg := base(KindReaction, to)
	msg.Reaction = &ReactionPayload{MessageID: messageID, Emoji: emoji}
	return msg, nil
}

// NewImageMessage builds an image message from a public URL
func NewImageMessage(to, link, caption string) (*OutboundMessage, error) {
	return newMediaMessage(KindImage, to, link, caption)
}

// NewAudioMessage builds an audio message from a public URL. The platform
// does not render audio captions.
func NewAudioMessage(to, link string) (*OutboundMessage, error) {
	return newMediaMessage(KindAudio, to, link, "")
}

// NewVideoMessage builds a video message from a public URL
func NewVideoMessage(to, link, caption string) (*OutboundMessage, error) {
	return newMediaMessage(KindVideo, to, link, caption)
}

// NewDocumentMessage builds a document message from a public URL
func NewDocumentMessage(to, link, caption string) (*OutboundMessage, error) {
	return newMediaMessage(KindDocument, to, link, caption)
}

// NewStickerMessage builds a sticker message from a public URL
func NewStickerMessage(to, link string) (*OutboundMessage, error) {
	return newMediaMessage(KindSticker, to, link, "")
}

func newMediaMessage(kind Kind, to, link, caption string) (*OutboundMessage, error) {
	if err := validateParams(linkParams{Link: link, RecipientNumber: to}); err != nil {
		return nil, err
	}

	payload := &MediaPayload{Link: link, Caption: caption}

	msg := base(kind, to)
	switch kind {
	case KindImage:
		msg.Image = payload
	case KindAudio:
		msg.Audio = payload
	case KindVideo:
		msg.Video = payload
	case KindDocument:
		msg.Document = payload
	case KindSticker:
		msg.Sticker = payload
	}
	return msg, nil
}

// NewLocationMessage builds a shared-location message
func NewLocationMessage(to string, latitude, longitude float64, name, address string) (*OutboundMessage, error) {
	if err := validateParams(locationParams{RecipientNumber: to}); err != nil {
		return nil, err
	}

	msg := base(KindLocation, to)
	msg.Location = &LocationPayload{
		Latitude:  latitude,
		Longitude: longitude,
		Name:      name,
		Address:   address,
	}
	return msg, nil
}

// NewContactsMessage builds a contact-card message
func NewContactsMessage(to string, contacts []Contact) (*OutboundMessage, error) {
	if err := validateParams(contactsParams{RecipientNumber: to, Contacts: contacts}); err != nil {
		return nil, err
	}

	msg := base(KindContacts, to)
	msg.RecipientType = ""
	msg.Contacts = contacts
	return msg, nil
}

// NewReadReceipt builds the read-receipt request for a received message.
// The platform de-duplicates receipts, so sending one twice is harmless.
func NewReadReceipt(messageID string) (*OutboundMessage, error) {
	if messageID == "" {
		return nil, Errors.NewWithMessage(ErrValidationFailed, "A message id is required").
			WithDetail("field", "message_id")
	}

	return &OutboundMessage{
		MessagingProduct: "whatsapp",
		Status:           "read",
		MessageID:        messageID,
	}, nil
}

// AsReplyTo tags the message as a reply to an earlier message and returns it
func (m *OutboundMessage) AsReplyTo(messageID string) *OutboundMessage {
	if messageID != "" {
		m.Context = &ReplyContext{MessageID: messageID}
	}
	return m
}
