package feed

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"workflowpro/internal/domain/directory"
	"workflowpro/internal/platform/recordstore"
)

func newService(t *testing.T) *Service {
	t.Helper()
	store, err := recordstore.New(recordstore.NewMemoryBackend())
	require.NoError(t, err)
	return NewService(store, directory.NewService(store))
}

func TestPublishResetsCounters(t *testing.T) {
	ctx := context.Background()
	svc := newService(t)

	p, err := svc.Publish(ctx, Post{AuthorID: "me", Content: "Ship it", Likes: 99})
	require.NoError(t, err)
	assert.Equal(t, 0, p.Likes)
	assert.Equal(t, "Just now", p.Timestamp)
	assert.Equal(t, TypeGeneral, p.Type)

	_, err = svc.Publish(ctx, Post{Content: ""})
	assert.ErrorIs(t, err, ErrEmptyPost)
}

func TestPublishRejectsUnknownType(t *testing.T) {
	svc := newService(t)

	_, err := svc.Publish(context.Background(), Post{Content: "hello", Type: "Rumour"})
	assert.ErrorIs(t, err, ErrInvalidPost)
	assert.NotErrorIs(t, err, ErrEmptyPost)
}

func TestLike(t *testing.T) {
	ctx := context.Background()
	svc := newService(t)

	p, err := svc.Like(ctx, "ps1")
	require.NoError(t, err)
	assert.Equal(t, 13, p.Likes)

	_, err = svc.Like(ctx, "missing")
	assert.ErrorIs(t, err, ErrPostNotFound)
}

func TestResolveMentions(t *testing.T) {
	svc := newService(t)
	mentions, err := svc.ResolveMentions(context.Background(), "Kudos @SarahJenkins and @nobody, cc @alexrivera")
	require.NoError(t, err)
	require.Len(t, mentions, 3)

	assert.Equal(t, "1", mentions[0].EmployeeID)
	assert.Equal(t, "Sarah Jenkins", mentions[0].Name)
	assert.Equal(t, "@nobody", mentions[1].Token)
	assert.Empty(t, mentions[1].EmployeeID)
	assert.Equal(t, "3", mentions[2].EmployeeID)
}

func TestMentions(t *testing.T) {
	assert.Equal(t, []string{"@a", "@b_c"}, Mentions("hi @a, @b_c!"))
	assert.Empty(t, Mentions("no mentions"))
}
