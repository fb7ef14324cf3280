package service

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"ai-uigen-be/internal/dto"
	"ai-uigen-be/internal/entity"
	"ai-uigen-be/internal/pkg/serverutils"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func TestGenerateSlug(t *testing.T) {
	seen := make(map[string]bool)

	for i := 0; i < 64; i++ {
		slug, err := generateSlug()
		require.NoError(t, err)
		assert.Len(t, slug, slugLength)

		for _, r := range slug {
			assert.True(t, strings.ContainsRune(slugAlphabet, r), "unexpected character %q in slug", r)
		}

		assert.False(t, seen[slug], "slug %s generated twice", slug)
		seen[slug] = true
	}
}

func TestCreateLinkRetriesOnSlugCollision(t *testing.T) {
	repo := &stubShareLinkRepo{
		createErrs: []error{gorm.ErrDuplicatedKey, gorm.ErrDuplicatedKey, nil},
	}
	uow := &stubUow{shareLinkRepo: repo}
	svc := &shareService{uowFactory: stubFactory{uow: uow}, logger: nopLogger{}}

	expiry := time.Now().Add(time.Hour)
	link, err := svc.createLinkWithSlug(context.Background(), uow, uuid.New(), &expiry)
	require.NoError(t, err)
	require.NotNil(t, link)
	assert.Equal(t, 3, repo.creates)
	assert.Len(t, link.Slug, slugLength)
}

func TestCreateLinkGivesUpAfterRepeatedCollisions(t *testing.T) {
	errs := make([]error, slugMaxAttempts+1)
	for i := range errs {
		errs[i] = gorm.ErrDuplicatedKey
	}
	repo := &stubShareLinkRepo{createErrs: errs}
	uow := &stubUow{shareLinkRepo: repo}
	svc := &shareService{uowFactory: stubFactory{uow: uow}, logger: nopLogger{}}

	link, err := svc.createLinkWithSlug(context.Background(), uow, uuid.New(), nil)
	require.Error(t, err)
	assert.Nil(t, link)
	assert.Equal(t, slugMaxAttempts, repo.creates)

	var appErr *serverutils.AppError
	require.True(t, errors.As(err, &appErr))
	assert.Equal(t, serverutils.CodeConflict, appErr.Code)
}

func newPublishFixture(linkRepo *stubShareLinkRepo) (*shareService, *stubUow, *stubSnapshotRepo, uuid.UUID, *entity.Component) {
	userId := uuid.New()
	convId := uuid.New()
	component := &entity.Component{
		Id:             uuid.New(),
		ConversationId: convId,
		Type:           entity.ComponentTypeComponent,
		Data:           []byte(`{"jsx":"<Hero />"}`),
		IsCurrent:      true,
		CreatedAt:      time.Now(),
	}
	snapRepo := &stubSnapshotRepo{}
	uow := &stubUow{
		componentRepo: &stubComponentRepo{component: component},
		conversationRepo: &stubConversationRepo{
			conversation: &entity.Conversation{Id: convId, UserId: userId, IsActive: true},
		},
		snapshotRepo:  snapRepo,
		shareLinkRepo: linkRepo,
	}
	svc := &shareService{uowFactory: stubFactory{uow: uow}, logger: nopLogger{}}
	return svc, uow, snapRepo, userId, component
}

func TestPublishCommitsSnapshotWithLink(t *testing.T) {
	linkRepo := &stubShareLinkRepo{}
	svc, uow, snapRepo, userId, component := newPublishFixture(linkRepo)

	res, err := svc.Publish(context.Background(), userId, &dto.PublishShareRequest{ComponentId: component.Id})
	require.NoError(t, err)
	assert.Len(t, res.Slug, slugLength)

	assert.True(t, uow.begun)
	assert.True(t, uow.committed)
	require.Len(t, snapRepo.created, 1)
	assert.Equal(t, component.Id, snapRepo.created[0].ComponentId)
	require.Len(t, linkRepo.links, 1)
	assert.Equal(t, snapRepo.created[0].Id, linkRepo.links[0].SnapshotId)
}

func TestPublishRollsBackSnapshotWhenSlugsExhaust(t *testing.T) {
	errs := make([]error, slugMaxAttempts)
	for i := range errs {
		errs[i] = gorm.ErrDuplicatedKey
	}
	linkRepo := &stubShareLinkRepo{createErrs: errs}
	svc, uow, snapRepo, userId, component := newPublishFixture(linkRepo)

	_, err := svc.Publish(context.Background(), userId, &dto.PublishShareRequest{ComponentId: component.Id})
	require.Error(t, err)

	var appErr *serverutils.AppError
	require.True(t, errors.As(err, &appErr))
	assert.Equal(t, serverutils.CodeConflict, appErr.Code)

	// The snapshot insert ran inside the transaction, so giving up on the
	// slug must take it down too.
	assert.True(t, uow.begun)
	assert.False(t, uow.committed)
	assert.True(t, uow.rolledBack)
	require.Len(t, snapRepo.created, 1)
	assert.Empty(t, linkRepo.links)
}

func TestCreateLinkStopsOnUnexpectedError(t *testing.T) {
	repo := &stubShareLinkRepo{createErrs: []error{errors.New("connection reset")}}
	uow := &stubUow{shareLinkRepo: repo}
	svc := &shareService{uowFactory: stubFactory{uow: uow}, logger: nopLogger{}}

	_, err := svc.createLinkWithSlug(context.Background(), uow, uuid.New(), nil)
	require.Error(t, err)
	assert.Equal(t, 1, repo.creates)

	var appErr *serverutils.AppError
	require.True(t, errors.As(err, &appErr))
	assert.Equal(t, serverutils.CodeInternal, appErr.Code)
}
