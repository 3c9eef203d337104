package tickets

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"workflowpro/internal/platform/recordstore"
)

func newService(t *testing.T) *Service {
	t.Helper()
	store, err := recordstore.New(recordstore.NewMemoryBackend())
	require.NoError(t, err)
	return NewService(store)
}

func TestSearchMatchesTitleAndNumber(t *testing.T) {
	ctx := context.Background()
	svc := newService(t)

	byTitle, err := svc.Search(ctx, "PASSWORD")
	require.NoError(t, err)
	require.Len(t, byTitle, 1)
	assert.Equal(t, "T-420", byTitle[0].TicketID)

	byNumber, err := svc.Search(ctx, "t-41")
	require.NoError(t, err)
	require.Len(t, byNumber, 1)
	assert.Equal(t, "tk2", byNumber[0].ID)

	all, err := svc.Search(ctx, "  ")
	require.NoError(t, err)
	assert.Len(t, all, 3)
}

func TestGroupByStatus(t *testing.T) {
	list, err := newService(t).List(context.Background())
	require.NoError(t, err)

	groups := GroupByStatus(list)
	assert.Len(t, groups[StatusNew], 2)
	assert.Len(t, groups[StatusInProgress], 1)
	assert.NotNil(t, groups[StatusResolved])
	assert.Empty(t, groups[StatusResolved])
	assert.Equal(t, 3, Unresolved(list))
}
