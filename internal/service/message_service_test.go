package service

import (
	"bytes"
	"context"
	"sort"
	"strings"
	"testing"
	"time"

	"ai-uigen-be/internal/dto"
	"ai-uigen-be/internal/entity"
	"ai-uigen-be/internal/pkg/pagination"
	"ai-uigen-be/pkg/cache"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDeriveTitle(t *testing.T) {
	long := strings.Repeat("a", maxDerivedTitleLen+20)

	tests := []struct {
		name string
		data string
		want *string
	}{
		{
			name: "plain content",
			data: `{"content":"Build me a pricing table"}`,
			want: strPtr("Build me a pricing table"),
		},
		{
			name: "content truncated",
			data: `{"content":"` + long + `"}`,
			want: strPtr(long[:maxDerivedTitleLen]),
		},
		{
			name: "no content field",
			data: `{"prompt":"something else"}`,
			want: nil,
		},
		{
			name: "empty content",
			data: `{"content":""}`,
			want: nil,
		},
		{
			name: "not json",
			data: `just text`,
			want: nil,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := deriveTitle([]byte(tt.data))
			if tt.want == nil {
				assert.Nil(t, got)
				return
			}
			require.NotNil(t, got)
			assert.Equal(t, *tt.want, *got)
		})
	}
}

func strPtr(s string) *string { return &s }

func TestInvalidatePagesBumpsGeneration(t *testing.T) {
	mem := cache.NewMemoryClient()
	svc := &messageService{cache: mem, logger: nopLogger{}}
	convId := uuid.New()

	gen, ok := svc.generation(context.Background(), convId)
	require.True(t, ok)

	svc.InvalidatePages(context.Background(), convId)

	bumped, ok := svc.generation(context.Background(), convId)
	require.True(t, ok)
	assert.Equal(t, gen+1, bumped)

	// Old pages become unreachable because their key embeds the generation.
	oldKey := cache.MessagePageKey(convId, gen, "", 50)
	newKey := cache.MessagePageKey(convId, bumped, "", 50)
	assert.NotEqual(t, oldKey, newKey)
}

// newMessageListFixture seeds a conversation with total messages, a few of
// them sharing a created_at so the id tie-break gets exercised.
func newMessageListFixture(total int) (*messageService, *stubMessageRepo, uuid.UUID, uuid.UUID) {
	userId := uuid.New()
	convId := uuid.New()
	base := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

	msgs := make([]*entity.Message, 0, total)
	for i := 0; i < total; i++ {
		created := base.Add(time.Duration(i) * time.Second)
		if i > 0 && i%3 == 0 {
			created = base.Add(time.Duration(i-1) * time.Second)
		}
		msgs = append(msgs, &entity.Message{
			Id:             uuid.New(),
			ConversationId: convId,
			Role:           entity.MessageRoleUser,
			Type:           entity.MessageTypeText,
			Data:           []byte(`{}`),
			Version:        i + 1,
			CreatedAt:      created,
		})
	}
	sort.Slice(msgs, func(i, j int) bool {
		if !msgs[i].CreatedAt.Equal(msgs[j].CreatedAt) {
			return msgs[i].CreatedAt.After(msgs[j].CreatedAt)
		}
		return bytes.Compare(msgs[i].Id[:], msgs[j].Id[:]) > 0
	})

	repo := &stubMessageRepo{messages: msgs}
	uow := &stubUow{
		messageRepo: repo,
		conversationRepo: &stubConversationRepo{
			conversation: &entity.Conversation{Id: convId, UserId: userId, IsActive: true},
		},
	}
	svc := &messageService{
		uowFactory: stubFactory{uow: uow},
		cache:      cache.NewMemoryClient(),
		logger:     nopLogger{},
	}
	return svc, repo, userId, convId
}

func TestListWalksAllPagesWithoutGapsOrDuplicates(t *testing.T) {
	svc, repo, userId, convId := newMessageListFixture(7)

	var got []uuid.UUID
	pages := 0
	query := &dto.ListQuery{Limit: 3}
	for {
		res, meta, err := svc.List(context.Background(), userId, convId, query)
		require.NoError(t, err)
		pages++
		require.Less(t, pages, 10, "pagination did not terminate")

		for _, m := range res {
			got = append(got, m.Id)
		}
		if meta.NextCursor == nil {
			break
		}
		query = &dto.ListQuery{Cursor: *meta.NextCursor, Limit: 3}
	}

	assert.Equal(t, 3, pages)
	require.Len(t, got, len(repo.messages))
	for i, m := range repo.messages {
		assert.Equal(t, m.Id, got[i], "row %d out of place", i)
	}
}

func TestListOmitsCursorWhenPageIsExact(t *testing.T) {
	svc, _, userId, convId := newMessageListFixture(3)

	res, meta, err := svc.List(context.Background(), userId, convId, &dto.ListQuery{Limit: 3})
	require.NoError(t, err)

	assert.Len(t, res, 3)
	assert.Nil(t, meta.NextCursor)
	require.NotNil(t, meta.Total)
	assert.Equal(t, int64(3), *meta.Total)
}

func TestListTruncatesAndPointsCursorAtLastRow(t *testing.T) {
	svc, _, userId, convId := newMessageListFixture(4)

	res, meta, err := svc.List(context.Background(), userId, convId, &dto.ListQuery{Limit: 3})
	require.NoError(t, err)

	require.Len(t, res, 3)
	require.NotNil(t, meta.NextCursor)

	cursor, err := pagination.Decode(*meta.NextCursor)
	require.NoError(t, err)
	last := res[len(res)-1]
	assert.Equal(t, last.Id, cursor.ID)
	assert.True(t, cursor.CreatedAt.Equal(last.CreatedAt))
}

func TestGenerationIsStableAcrossReads(t *testing.T) {
	mem := cache.NewMemoryClient()
	svc := &messageService{cache: mem, logger: nopLogger{}}
	convId := uuid.New()

	first, ok := svc.generation(context.Background(), convId)
	require.True(t, ok)
	second, ok := svc.generation(context.Background(), convId)
	require.True(t, ok)

	assert.Equal(t, first, second)
}
