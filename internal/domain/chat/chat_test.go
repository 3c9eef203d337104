package chat

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"workflowpro/internal/platform/blob"
	"workflowpro/internal/platform/recordstore"
)

type fakeAttachments struct {
	prefix, name string
}

func (f *fakeAttachments) PresignUpload(_ context.Context, prefix, fileName, _ string) (blob.Upload, error) {
	f.prefix, f.name = prefix, fileName
	return blob.Upload{Key: prefix + "/k/" + fileName, URL: "http://upload", Method: "PUT"}, nil
}

func (f *fakeAttachments) PresignDownload(_ context.Context, key string) (string, error) {
	return "http://download/" + key, nil
}

func newService(t *testing.T, att Attachments) *Service {
	t.Helper()
	store, err := recordstore.New(recordstore.NewMemoryBackend())
	require.NoError(t, err)
	svc := NewService(store, att)
	svc.now = func() time.Time { return time.Date(2023, 10, 24, 14, 5, 0, 0, time.UTC) }
	return svc
}

func TestSendStampsClockTime(t *testing.T) {
	ctx := context.Background()
	svc := newService(t, nil)

	m, err := svc.Send(ctx, Message{Content: "Reviewing now", Timestamp: "ignored"})
	require.NoError(t, err)
	assert.Equal(t, "02:05 PM", m.Timestamp)
	assert.Equal(t, SelfSenderID, m.SenderID)
	assert.Equal(t, TypeText, m.Type)

	list, err := svc.List(ctx)
	require.NoError(t, err)
	require.Len(t, list, 4)
	assert.Equal(t, m.ID, list[3].ID)
}

func TestSendRejectsEmpty(t *testing.T) {
	svc := newService(t, nil)
	_, err := svc.Send(context.Background(), Message{Content: "   "})
	assert.ErrorIs(t, err, ErrEmptyMessage)
	_, err = svc.Send(context.Background(), Message{Type: TypeFile})
	assert.ErrorIs(t, err, ErrEmptyMessage)
}

func TestAttachmentFlow(t *testing.T) {
	ctx := context.Background()
	att := &fakeAttachments{}
	svc := newService(t, att)

	up, err := svc.PrepareAttachment(ctx, "notes.pdf", "application/pdf")
	require.NoError(t, err)
	assert.Equal(t, "chat", att.prefix)

	m, err := svc.Send(ctx, Message{Type: TypeFile, FileName: "notes.pdf", FileKey: up.Key})
	require.NoError(t, err)

	url, err := svc.AttachmentURL(ctx, m.ID)
	require.NoError(t, err)
	assert.Equal(t, "http://download/chat/k/notes.pdf", url)

	_, err = svc.AttachmentURL(ctx, "m1")
	assert.ErrorIs(t, err, ErrNoAttachment)
	_, err = svc.AttachmentURL(ctx, "missing")
	assert.ErrorIs(t, err, ErrUnknownMessage)
}

func TestAttachmentsDisabled(t *testing.T) {
	svc := newService(t, nil)
	_, err := svc.PrepareAttachment(context.Background(), "a.pdf", "")
	assert.ErrorIs(t, err, blob.ErrDisabled)
}

func TestSendRejectsForeignAttachmentKeys(t *testing.T) {
	ctx := context.Background()
	svc := newService(t, &fakeAttachments{})

	for _, key := range []string{"payroll/secret.pdf", "chat/../payroll/secret.pdf", "chatter/x.pdf", "/chat/k/x.pdf"} {
		_, err := svc.Send(ctx, Message{Type: TypeFile, FileName: "x.pdf", FileKey: key})
		assert.ErrorIs(t, err, ErrForeignAttachment, key)
	}

	// a text message cannot carry a key either
	m, err := svc.Send(ctx, Message{Content: "see file", FileKey: "payroll/secret.pdf"})
	require.NoError(t, err)
	assert.Empty(t, m.FileKey)
	_, err = svc.AttachmentURL(ctx, m.ID)
	assert.ErrorIs(t, err, ErrNoAttachment)
}
