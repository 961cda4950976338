package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/Faheem-Musthafa/campuslink-backend/internal/apperr"
	"github.com/Faheem-Musthafa/campuslink-backend/internal/models"
	"github.com/Faheem-Musthafa/campuslink-backend/internal/storage"
)

const maxUploadBytes = 10 << 20 // 10 MiB

var allowedContentTypes = map[string]models.MessageType{
	"image/jpeg":         models.TypeImage,
	"image/png":          models.TypeImage,
	"image/gif":          models.TypeImage,
	"image/webp":         models.TypeImage,
	"audio/mpeg":         models.TypeVoice,
	"audio/ogg":          models.TypeVoice,
	"video/mp4":          models.TypeVideo,
	"application/pdf":    models.TypeDocument,
	"text/plain":         models.TypeFile,
	"application/msword": models.TypeDocument,
	"application/vnd.openxmlformats-officedocument.wordprocessingml.document": models.TypeDocument,
}

type ObjectStore interface {
	Upload(ctx context.Context, key, contentType string, data []byte) (string, error)
	PresignURL(ctx context.Context, key string, ttl time.Duration) (string, error)
}

type LinkPreviewStore interface {
	Get(ctx context.Context, url string) (*models.LinkPreview, error)
	Put(ctx context.Context, url string, p *models.LinkPreview) error
}

// ConversationGetter is the slice of the conversation store media needs to
// check membership before accepting an upload.
type ConversationGetter interface {
	GetByID(ctx context.Context, id string) (*models.Conversation, error)
}

type MediaService struct {
	store    ObjectStore
	previews LinkPreviewStore
	convs    ConversationGetter
	log      *zap.SugaredLogger
	now      func() time.Time
}

func NewMediaService(store ObjectStore, previews LinkPreviewStore, convs ConversationGetter, log *zap.SugaredLogger) *MediaService {
	return &MediaService{store: store, previews: previews, convs: convs, log: log, now: func() time.Time { return time.Now().UTC() }}
}

// ValidateUpload runs the pre-network checks: size cap and content-type
// allowlist. Returns the message type the upload maps to.
func ValidateUpload(filename, contentType string, size int) (models.MessageType, error) {
	if size == 0 || size > maxUploadBytes {
		return "", apperr.ErrBadRequest
	}
	if strings.ContainsAny(filename, "/\\") {
		return "", apperr.ErrBadRequest
	}
	t, ok := allowedContentTypes[contentType]
	if !ok {
		return "", apperr.ErrBadRequest
	}
	return t, nil
}

// UploadChatMedia stores the payload under the chat key scheme and, for
// images, a compressed preview under thumbnails/.
func (s *MediaService) UploadChatMedia(ctx context.Context, convID, userID, filename, contentType string, data []byte) (*models.MediaAttachment, error) {
	msgType, err := ValidateUpload(filename, contentType, len(data))
	if err != nil {
		return nil, err
	}
	conv, err := s.convs.GetByID(ctx, convID)
	if err != nil {
		return nil, err
	}
	if !conv.HasParticipant(userID) {
		return nil, apperr.ErrNotParticipant
	}
	key := storage.ChatKey(convID, userID, filename, s.now())
	url, err := s.store.Upload(ctx, key, contentType, data)
	if err != nil {
		return nil, err
	}
	att := &models.MediaAttachment{
		URL:         url,
		FileName:    filename,
		Size:        int64(len(data)),
		ContentType: contentType,
	}
	if msgType == models.TypeImage {
		thumb, terr := storage.Thumbnail(data)
		if terr != nil {
			s.log.Warnw("thumbnail generation failed", "key", key, "err", terr)
		} else {
			turl, terr := s.store.Upload(ctx, storage.ThumbnailKey(key), "image/jpeg", thumb)
			if terr != nil {
				s.log.Warnw("thumbnail upload failed", "key", key, "err", terr)
			} else {
				att.ThumbnailURL = turl
			}
		}
	}
	return att, nil
}

// UploadVerificationDocument stores an ID-card image and returns its public URL.
func (s *MediaService) UploadVerificationDocument(ctx context.Context, userID, filename, contentType string, data []byte) (string, error) {
	if _, err := ValidateUpload(filename, contentType, len(data)); err != nil {
		return "", err
	}
	if !strings.HasPrefix(contentType, "image/") {
		return "", apperr.ErrBadRequest
	}
	key := storage.VerificationKey(userID, filename, s.now())
	url, err := s.store.Upload(ctx, key, contentType, data)
	if err != nil {
		return "", fmt.Errorf("verification upload: %w", err)
	}
	return url, nil
}

// CachedLinkPreview returns the stored preview for a URL, or caches the one
// supplied by the composer on a miss. The service never fetches remote pages
// itself.
func (s *MediaService) CachedLinkPreview(ctx context.Context, url string, provided *models.LinkPreview) (*models.LinkPreview, error) {
	if url == "" {
		return nil, apperr.ErrBadRequest
	}
	if p, err := s.previews.Get(ctx, url); err == nil {
		return p, nil
	} else if !IsNotFound(err) {
		return nil, err
	}
	if provided == nil {
		return nil, nil
	}
	provided.URL = url
	if err := s.previews.Put(ctx, url, provided); err != nil {
		s.log.Warnw("link preview cache write failed", "url", url, "err", err)
	}
	return provided, nil
}
