package repository

import (
	"context"
	"fmt"
	"testing"
	"time"

	"servimarket/internal/domain"
	"servimarket/internal/testutil"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeMessages(t *testing.T, repo *ChatRepository, chatID string, base time.Time, contents ...string) {
	t.Helper()
	for i, content := range contents {
		require.NoError(t, repo.CreateMessage(context.Background(), &domain.Message{
			ID:        fmt.Sprintf("%s-%d", chatID, i),
			ChatID:    chatID,
			SenderID:  1,
			Content:   content,
			CreatedAt: base.Add(time.Duration(i) * time.Second),
		}))
	}
}

func contentsOf(msgs []domain.Message) []string {
	out := make([]string, len(msgs))
	for i, m := range msgs {
		out[i] = m.Content
	}
	return out
}

func TestListMessages_AfterIgnoresZone(t *testing.T) {
	repo := NewChatRepository(testutil.NewDB(t))
	ctx := context.Background()
	bogota := time.FixedZone("COT", -5*60*60)
	base := time.Date(2025, 9, 1, 9, 0, 0, 0, bogota)
	writeMessages(t, repo, "c1", base, "uno", "dos", "tres")

	for _, after := range []time.Time{
		base,
		base.UTC(),
		base.In(time.FixedZone("JST", 9*60*60)),
	} {
		t.Run(after.Location().String(), func(t *testing.T) {
			got, err := repo.ListMessages(ctx, "c1", &after, 0)
			require.NoError(t, err)
			assert.Equal(t, []string{"dos", "tres"}, contentsOf(got))
		})
	}
}

func TestCreateMessage_StoresUTC(t *testing.T) {
	repo := NewChatRepository(testutil.NewDB(t))
	base := time.Date(2025, 9, 1, 9, 0, 0, 0, time.FixedZone("COT", -5*60*60))
	writeMessages(t, repo, "c1", base, "uno")

	got, err := repo.ListMessages(context.Background(), "c1", nil, 0)
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.True(t, got[0].CreatedAt.Equal(base))
}

func TestListMessages_NewestPage(t *testing.T) {
	repo := NewChatRepository(testutil.NewDB(t))
	ctx := context.Background()
	base := time.Date(2025, 9, 1, 14, 0, 0, 0, time.UTC)
	writeMessages(t, repo, "c1", base, "a", "b", "c", "d", "e")

	latest, err := repo.ListMessages(ctx, "c1", nil, 3)
	require.NoError(t, err)
	assert.Equal(t, []string{"c", "d", "e"}, contentsOf(latest))

	after := base
	next, err := repo.ListMessages(ctx, "c1", &after, 2)
	require.NoError(t, err)
	assert.Equal(t, []string{"b", "c"}, contentsOf(next))

	all, err := repo.ListMessages(ctx, "c1", nil, 0)
	require.NoError(t, err)
	assert.Equal(t, []string{"a", "b", "c", "d", "e"}, contentsOf(all))
}
