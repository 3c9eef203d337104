// Package chat stores team messages and brokers file attachments.
package chat

import (
	"context"
	"errors"
	"fmt"
	"path"
	"strings"
	"time"

	"workflowpro/internal/domain/collection"
	"workflowpro/internal/platform/blob"
	"workflowpro/internal/platform/recordstore"
)

const (
	TypeText = "text"
	TypeFile = "file"

	// SelfSenderID marks messages written by the current session.
	SelfSenderID = "me"

	attachmentPrefix = "chat"
	clockLayout      = "03:04 PM"
)

var (
	ErrEmptyMessage      = errors.New("message is empty")
	ErrUnknownMessage    = errors.New("message not found")
	ErrNoAttachment      = errors.New("message has no attachment")
	// ErrForeignAttachment is a file key that PrepareAttachment did not issue.
	ErrForeignAttachment = errors.New("attachment key is not a chat upload")
)

type Message struct {
	ID         string `json:"id"`
	SenderID   string `json:"senderId"`
	SenderName string `json:"senderName"`
	Avatar     string `json:"avatar"`
	Content    string `json:"content"`
	Timestamp  string `json:"timestamp"`
	Type       string `json:"type"`
	FileName   string `json:"fileName,omitempty"`
	FileKey    string `json:"fileKey,omitempty"`
}

// Attachments presigns object storage URLs.
type Attachments interface {
	PresignUpload(ctx context.Context, prefix, fileName, contentType string) (blob.Upload, error)
	PresignDownload(ctx context.Context, key string) (string, error)
}

type Service struct {
	messages    *collection.Collection[Message]
	attachments Attachments
	now         func() time.Time
}

func NewService(store collection.Store, attachments Attachments) *Service {
	s := &Service{attachments: attachments, now: time.Now}
	s.messages = collection.New(store, recordstore.KeyMessages,
		func(m Message) string { return m.ID },
		func(m *Message, id string) { m.ID = id },
	).WithPrepare(func(m *Message) {
		m.Timestamp = s.now().Format(clockLayout)
	})
	return s
}

func (s *Service) List(ctx context.Context) ([]Message, error) {
	return s.messages.GetAll(ctx)
}

// Send appends a message stamped with the current clock time.
func (s *Service) Send(ctx context.Context, m Message) (Message, error) {
	if m.Type == "" {
		m.Type = TypeText
	}
	switch m.Type {
	case TypeText:
		if strings.TrimSpace(m.Content) == "" {
			return Message{}, ErrEmptyMessage
		}
		m.FileName, m.FileKey = "", ""
	case TypeFile:
		if m.FileName == "" {
			return Message{}, fmt.Errorf("%w: file name is required", ErrEmptyMessage)
		}
		if m.FileKey != "" && !chatUpload(m.FileKey) {
			return Message{}, ErrForeignAttachment
		}
	default:
		return Message{}, fmt.Errorf("%w: unknown type %q", ErrEmptyMessage, m.Type)
	}
	if m.SenderID == "" {
		m.SenderID = SelfSenderID
		m.SenderName = "Me"
	}
	return s.messages.Add(ctx, m)
}

// PrepareAttachment returns an upload URL. The client uploads the file and
// then sends a file message carrying the returned key.
func (s *Service) PrepareAttachment(ctx context.Context, fileName, contentType string) (blob.Upload, error) {
	if s.attachments == nil {
		return blob.Upload{}, blob.ErrDisabled
	}
	if strings.TrimSpace(fileName) == "" {
		return blob.Upload{}, fmt.Errorf("%w: file name is required", ErrEmptyMessage)
	}
	return s.attachments.PresignUpload(ctx, attachmentPrefix, fileName, contentType)
}

// AttachmentURL returns a download URL for a file message.
func (s *Service) AttachmentURL(ctx context.Context, messageID string) (string, error) {
	if s.attachments == nil {
		return "", blob.ErrDisabled
	}
	m, ok, err := s.messages.Get(ctx, messageID)
	if err != nil {
		return "", err
	}
	if !ok {
		return "", ErrUnknownMessage
	}
	if m.FileKey == "" {
		return "", ErrNoAttachment
	}
	if !chatUpload(m.FileKey) {
		return "", ErrForeignAttachment
	}
	return s.attachments.PresignDownload(ctx, m.FileKey)
}

// chatUpload reports whether key lies under the chat upload prefix.
func chatUpload(key string) bool {
	return strings.HasPrefix(key, attachmentPrefix+"/") && path.Clean(key) == key
}
