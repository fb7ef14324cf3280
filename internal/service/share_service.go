package service

import (
	"context"
	"crypto/rand"
	"encoding/json"
	"errors"
	"math/big"
	"time"

	"ai-uigen-be/internal/dto"
	"ai-uigen-be/internal/entity"
	"ai-uigen-be/internal/pkg/logger"
	"ai-uigen-be/internal/pkg/serverutils"
	"ai-uigen-be/internal/repository/specification"
	"ai-uigen-be/internal/repository/unitofwork"
	"ai-uigen-be/pkg/events"
	pktNats "ai-uigen-be/pkg/nats"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

const (
	slugLength      = 22
	slugAlphabet    = "0123456789ABCDEFGHIJKLMNOPQRSTUVWXYZabcdefghijklmnopqrstuvwxyz"
	slugMaxAttempts = 5
)

type IShareService interface {
	Publish(ctx context.Context, userId uuid.UUID, req *dto.PublishShareRequest) (*dto.ShareLinkResponse, error)
	ListLinks(ctx context.Context, userId uuid.UUID) ([]*dto.ShareLinkResponse, error)
	Revoke(ctx context.Context, userId, linkId uuid.UUID) (*dto.ShareLinkResponse, error)
	// View serves a public share link without authentication.
	View(ctx context.Context, slug string) (*dto.SharedViewResponse, error)
}

// snapshotPayload is the frozen document stored at publish time. The
// component type rides along so the public view needs no other table.
type snapshotPayload struct {
	Type string          `json:"type"`
	Data json.RawMessage `json:"data"`
}

type shareService struct {
	uowFactory     unitofwork.RepositoryFactory
	eventPublisher *pktNats.Publisher
	logger         logger.ILogger
}

func NewShareService(uowFactory unitofwork.RepositoryFactory, eventPublisher *pktNats.Publisher, log logger.ILogger) IShareService {
	return &shareService{
		uowFactory:     uowFactory,
		eventPublisher: eventPublisher,
		logger:         log,
	}
}

func generateSlug() (string, error) {
	buf := make([]byte, slugLength)
	max := big.NewInt(int64(len(slugAlphabet)))
	for i := range buf {
		n, err := rand.Int(rand.Reader, max)
		if err != nil {
			return "", err
		}
		buf[i] = slugAlphabet[n.Int64()]
	}
	return string(buf), nil
}

func toShareLinkResponse(l *entity.ShareLink) *dto.ShareLinkResponse {
	return &dto.ShareLinkResponse{
		Id:        l.Id,
		Slug:      l.Slug,
		ExpiresAt: l.ExpiresAt,
		RevokedAt: l.RevokedAt,
		ViewCount: l.ViewCount,
		CreatedAt: l.CreatedAt,
	}
}

func (s *shareService) Publish(ctx context.Context, userId uuid.UUID, req *dto.PublishShareRequest) (*dto.ShareLinkResponse, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)

	component, err := uow.ComponentRepository().FindOne(ctx, specification.ByID(req.ComponentId))
	if err != nil {
		return nil, serverutils.NewInternalError(err)
	}
	if component == nil {
		return nil, serverutils.NewNotFoundError("Component not found")
	}
	conversation, err := uow.ConversationRepository().FindOne(ctx,
		specification.ByID(component.ConversationId),
		specification.UserOwnedBy(userId),
	)
	if err != nil {
		return nil, serverutils.NewInternalError(err)
	}
	if conversation == nil {
		return nil, serverutils.NewNotFoundError("Component not found")
	}

	if req.ExpiresAt != nil && req.ExpiresAt.Before(time.Now()) {
		return nil, serverutils.NewValidationError("expires_at must be in the future", nil)
	}

	frozen, err := json.Marshal(snapshotPayload{
		Type: string(component.Type),
		Data: json.RawMessage(component.Data),
	})
	if err != nil {
		return nil, serverutils.NewInternalError(err)
	}

	// Snapshot and link land together: exhausting the slug retries must
	// not leave a snapshot row nothing points at.
	if err := uow.Begin(ctx); err != nil {
		return nil, serverutils.NewInternalError(err)
	}
	defer uow.Rollback()

	snapshot := entity.Snapshot{
		Id:             uuid.New(),
		OwnerId:        userId,
		ConversationId: component.ConversationId,
		ComponentId:    component.Id,
		Data:           frozen,
		CreatedAt:      time.Now(),
	}
	if err := uow.SnapshotRepository().Create(ctx, &snapshot); err != nil {
		return nil, serverutils.NewInternalError(err)
	}

	link, err := s.createLinkWithSlug(ctx, uow, snapshot.Id, req.ExpiresAt)
	if err != nil {
		return nil, err
	}

	if err := uow.Commit(); err != nil {
		return nil, serverutils.NewInternalError(err)
	}

	if s.eventPublisher != nil {
		if err := s.eventPublisher.Publish(ctx, events.NewSharePublishedEvent(userId, link.Slug)); err != nil {
			s.logger.Warn("share", "Failed to publish share event", map[string]interface{}{"error": err.Error()})
		}
	}

	return toShareLinkResponse(link), nil
}

// createLinkWithSlug retries the insert on slug collisions. The keyspace
// makes collisions vanishingly rare, so hitting the ceiling means
// something is broken and the caller gets a conflict instead of a loop.
func (s *shareService) createLinkWithSlug(ctx context.Context, uow unitofwork.UnitOfWork, snapshotId uuid.UUID, expiresAt *time.Time) (*entity.ShareLink, error) {
	for attempt := 0; attempt < slugMaxAttempts; attempt++ {
		slug, err := generateSlug()
		if err != nil {
			return nil, serverutils.NewInternalError(err)
		}

		link := entity.ShareLink{
			Id:         uuid.New(),
			SnapshotId: snapshotId,
			Slug:       slug,
			ExpiresAt:  expiresAt,
			CreatedAt:  time.Now(),
		}
		err = uow.ShareLinkRepository().Create(ctx, &link)
		if err == nil {
			return &link, nil
		}
		if !errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, serverutils.NewInternalError(err)
		}
		s.logger.Warn("share", "Slug collision, retrying", map[string]interface{}{"attempt": attempt + 1})
	}
	return nil, serverutils.NewConflictError("Could not allocate a unique share slug")
}

func (s *shareService) ListLinks(ctx context.Context, userId uuid.UUID) ([]*dto.ShareLinkResponse, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)

	snapshots, err := uow.SnapshotRepository().FindAll(ctx, specification.FilterBy("owner_id", userId))
	if err != nil {
		return nil, serverutils.NewInternalError(err)
	}
	if len(snapshots) == 0 {
		return []*dto.ShareLinkResponse{}, nil
	}

	ids := make([]uuid.UUID, 0, len(snapshots))
	for _, snap := range snapshots {
		ids = append(ids, snap.Id)
	}

	links, err := uow.ShareLinkRepository().FindAll(ctx,
		specification.BySnapshotIDs(ids),
		specification.OrderBy("created_at", "DESC"),
	)
	if err != nil {
		return nil, serverutils.NewInternalError(err)
	}

	result := make([]*dto.ShareLinkResponse, 0, len(links))
	for _, link := range links {
		result = append(result, toShareLinkResponse(link))
	}
	return result, nil
}

func (s *shareService) Revoke(ctx context.Context, userId, linkId uuid.UUID) (*dto.ShareLinkResponse, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)

	link, err := uow.ShareLinkRepository().FindOne(ctx, specification.ByID(linkId))
	if err != nil {
		return nil, serverutils.NewInternalError(err)
	}
	if link == nil {
		return nil, serverutils.NewNotFoundError("Share link not found")
	}

	snapshot, err := uow.SnapshotRepository().FindOne(ctx, specification.ByID(link.SnapshotId))
	if err != nil {
		return nil, serverutils.NewInternalError(err)
	}
	if snapshot == nil {
		return nil, serverutils.NewInternalError(errors.New("share link has no snapshot"))
	}
	if snapshot.OwnerId != userId {
		return nil, serverutils.NewForbiddenError("Share link belongs to another user")
	}

	// Revoking twice is a no-op, the original timestamp stands.
	if link.RevokedAt == nil {
		now := time.Now()
		link.RevokedAt = &now
		if err := uow.ShareLinkRepository().Update(ctx, link); err != nil {
			return nil, serverutils.NewInternalError(err)
		}

		if s.eventPublisher != nil {
			if err := s.eventPublisher.Publish(ctx, events.NewShareRevokedEvent(userId, link.Slug)); err != nil {
				s.logger.Warn("share", "Failed to publish revoke event", map[string]interface{}{"error": err.Error()})
			}
		}
	}

	return toShareLinkResponse(link), nil
}

func (s *shareService) View(ctx context.Context, slug string) (*dto.SharedViewResponse, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)

	link, err := uow.ShareLinkRepository().FindOne(ctx, specification.BySlug(slug))
	if err != nil {
		return nil, serverutils.NewInternalError(err)
	}
	if link == nil {
		return nil, serverutils.NewNotFoundError("Share link not found")
	}
	if !link.Viewable(time.Now()) {
		return nil, serverutils.NewGoneError("Share link is no longer available")
	}

	snapshot, err := uow.SnapshotRepository().FindOne(ctx, specification.ByID(link.SnapshotId))
	if err != nil {
		return nil, serverutils.NewInternalError(err)
	}
	if snapshot == nil {
		return nil, serverutils.NewNotFoundError("Share link not found")
	}

	// View counting is best effort, a miss never blocks the read.
	if err := uow.ShareLinkRepository().IncrementViewCount(ctx, link.Id); err != nil {
		s.logger.Warn("share", "Failed to increment view count", map[string]interface{}{"error": err.Error()})
	}

	var payload snapshotPayload
	if err := json.Unmarshal(snapshot.Data, &payload); err != nil {
		return nil, serverutils.NewInternalError(err)
	}

	return &dto.SharedViewResponse{
		Slug:      link.Slug,
		Type:      payload.Type,
		Data:      payload.Data,
		CreatedAt: snapshot.CreatedAt,
	}, nil
}
