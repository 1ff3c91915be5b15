package videos

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/vidtube/backend/internal/logging"
	"github.com/vidtube/backend/internal/models"
	"github.com/vidtube/backend/internal/repositories"
	"github.com/vidtube/backend/internal/storage"
)

// OrphanQueue accepts remote assets for background deletion.
type OrphanQueue interface {
	Enqueue(orphan Orphan) error
}

// PublishInput carries a new video's metadata and its spooled upload files.
type PublishInput struct {
	Title         string
	Description   string
	VideoPath     string
	ThumbnailPath string
}

// UpdateInput replaces a video's metadata and thumbnail.
type UpdateInput struct {
	Title         string
	Description   string
	ThumbnailPath string
}

// Service coordinates video records with their remote assets.
type Service struct {
	videos  repositories.VideoRepository
	store   storage.MediaStore
	prober  Prober
	orphans OrphanQueue
	now     func() time.Time
}

// NewService wires the video workflow.
func NewService(videos repositories.VideoRepository, store storage.MediaStore, prober Prober, orphans OrphanQueue) *Service {
	return &Service{videos: videos, store: store, prober: prober, orphans: orphans, now: time.Now}
}

// Publish probes and uploads both files, then stores the record. Assets that
// were uploaded before a later step failed are handed to the orphan queue.
func (s *Service) Publish(ctx context.Context, ownerID string, in PublishInput) (models.Video, error) {
	ctx, span := logging.StartSpan(ctx, "video.publish")
	defer span.End()

	duration, err := s.prober.Duration(ctx, in.VideoPath)
	if err != nil {
		return models.Video{}, err
	}

	videoAsset, err := s.store.Upload(ctx, storage.KindVideo, in.VideoPath)
	if err != nil {
		span.Fail(err)
		return models.Video{}, fmt.Errorf("upload video file: %w", err)
	}

	thumbAsset, err := s.store.Upload(ctx, storage.KindImage, in.ThumbnailPath)
	if err != nil {
		span.Fail(err)
		s.discard(ctx, Orphan{PublicID: videoAsset.PublicID, Kind: storage.KindVideo})
		return models.Video{}, fmt.Errorf("upload thumbnail: %w", err)
	}

	now := s.now().UTC()
	video := models.Video{
		ID:          uuid.NewString(),
		OwnerID:     ownerID,
		VideoFile:   videoAsset.URL,
		Thumbnail:   thumbAsset.URL,
		Title:       in.Title,
		Description: in.Description,
		Duration:    duration,
		IsPublished: true,
		AssetStatus: models.AssetStatusReady,
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	if err := s.videos.Create(ctx, video); err != nil {
		span.Fail(err)
		s.discard(ctx, Orphan{PublicID: videoAsset.PublicID, Kind: storage.KindVideo})
		s.discard(ctx, Orphan{PublicID: thumbAsset.PublicID, Kind: storage.KindImage})
		return models.Video{}, fmt.Errorf("create video: %w", err)
	}

	logging.FromContext(ctx).Info("video published", "videoId", video.ID, "duration", duration)
	return video, nil
}

// Get returns a video. Unpublished videos are only visible to their owner.
func (s *Service) Get(ctx context.Context, viewerID, id string) (models.Video, error) {
	video, err := s.videos.FindByID(ctx, id)
	if err != nil {
		return models.Video{}, err
	}
	if !video.IsPublished && video.OwnerID != viewerID {
		return models.Video{}, repositories.ErrNotFound
	}
	return video, nil
}

// UpdateDetails uploads the new thumbnail, updates the record and only then
// removes the previous thumbnail.
func (s *Service) UpdateDetails(ctx context.Context, userID, id string, in UpdateInput) (models.Video, error) {
	ctx, span := logging.StartSpan(ctx, "video.update")
	defer span.End()

	current, err := s.owned(ctx, userID, id)
	if err != nil {
		return models.Video{}, err
	}

	thumbAsset, err := s.store.Upload(ctx, storage.KindImage, in.ThumbnailPath)
	if err != nil {
		span.Fail(err)
		return models.Video{}, fmt.Errorf("upload thumbnail: %w", err)
	}

	updated, err := s.videos.UpdateDetails(ctx, id, models.VideoDetailsUpdate{
		Title:       in.Title,
		Description: in.Description,
		Thumbnail:   thumbAsset.URL,
		UpdatedAt:   s.now().UTC(),
	})
	if err != nil {
		span.Fail(err)
		s.discard(ctx, Orphan{PublicID: thumbAsset.PublicID, Kind: storage.KindImage})
		return models.Video{}, fmt.Errorf("update video: %w", err)
	}

	old := OrphanFromURL(current.Thumbnail, storage.KindImage)
	if err := s.store.Delete(ctx, old.PublicID, old.Kind); err != nil {
		logging.FromContext(ctx).Warn("old thumbnail not deleted, queued for reaping", "videoId", id, "error", err)
		s.discard(ctx, old)
	}

	return updated, nil
}

// TogglePublish flips the publish flag.
func (s *Service) TogglePublish(ctx context.Context, userID, id string) (models.Video, error) {
	current, err := s.owned(ctx, userID, id)
	if err != nil {
		return models.Video{}, err
	}
	return s.videos.SetPublished(ctx, id, !current.IsPublished, s.now().UTC())
}

// Delete removes both remote assets and then the record. When a remote
// deletion fails the record is marked delete_failed and kept so the delete
// can be retried; remote deletes of already removed objects succeed.
func (s *Service) Delete(ctx context.Context, userID, id string) (models.Video, error) {
	ctx, span := logging.StartSpan(ctx, "video.delete")
	defer span.End()

	video, err := s.owned(ctx, userID, id)
	if err != nil {
		return models.Video{}, err
	}

	if err := s.videos.SetAssetStatus(ctx, id, models.AssetStatusDeleting); err != nil {
		span.Fail(err)
		return models.Video{}, fmt.Errorf("mark video deleting: %w", err)
	}

	for _, asset := range []Orphan{
		OrphanFromURL(video.VideoFile, storage.KindVideo),
		OrphanFromURL(video.Thumbnail, storage.KindImage),
	} {
		if err := s.store.Delete(ctx, asset.PublicID, asset.Kind); err != nil {
			span.Fail(err)
			if markErr := s.videos.SetAssetStatus(context.WithoutCancel(ctx), id, models.AssetStatusDeleteFailed); markErr != nil {
				logging.FromContext(ctx).Error("mark video delete_failed", "videoId", id, "error", markErr)
			}
			return models.Video{}, fmt.Errorf("%w: %s %s: %v", ErrAssetDelete, asset.Kind, asset.PublicID, err)
		}
	}

	if err := s.videos.Delete(ctx, id); err != nil {
		span.Fail(err)
		return models.Video{}, fmt.Errorf("delete video record: %w", err)
	}

	return video, nil
}

func (s *Service) owned(ctx context.Context, userID, id string) (models.Video, error) {
	video, err := s.videos.FindByID(ctx, id)
	if err != nil {
		return models.Video{}, err
	}
	if video.OwnerID != userID {
		return models.Video{}, ErrForbidden
	}
	return video, nil
}

func (s *Service) discard(ctx context.Context, orphan Orphan) {
	if s.orphans == nil {
		return
	}
	if err := s.orphans.Enqueue(orphan); err != nil && !errors.Is(err, ErrReaperBusy) {
		logging.FromContext(ctx).Error("orphaned asset not queued", "publicId", orphan.PublicID, "kind", orphan.Kind, "error", err)
	}
}
