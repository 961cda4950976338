package service

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Faheem-Musthafa/campuslink-backend/internal/apperr"
	"github.com/Faheem-Musthafa/campuslink-backend/internal/models"
	"github.com/Faheem-Musthafa/campuslink-backend/internal/repository"
)

type fakeObjectStore struct {
	uploads map[string][]byte
}

func (f *fakeObjectStore) Upload(_ context.Context, key, _ string, data []byte) (string, error) {
	if f.uploads == nil {
		f.uploads = make(map[string][]byte)
	}
	f.uploads[key] = data
	return "https://cdn.example.com/" + key, nil
}

func (f *fakeObjectStore) PresignURL(_ context.Context, key string, _ time.Duration) (string, error) {
	return "https://cdn.example.com/" + key + "?signed", nil
}

type fakePreviewStore struct {
	data map[string]*models.LinkPreview
}

func (f *fakePreviewStore) Get(_ context.Context, url string) (*models.LinkPreview, error) {
	if p, ok := f.data[url]; ok {
		return p, nil
	}
	return nil, repository.ErrNotFound
}

func (f *fakePreviewStore) Put(_ context.Context, url string, p *models.LinkPreview) error {
	if f.data == nil {
		f.data = make(map[string]*models.LinkPreview)
	}
	f.data[url] = p
	return nil
}

func TestValidateUpload(t *testing.T) {
	typ, err := ValidateUpload("notes.pdf", "application/pdf", 1024)
	require.NoError(t, err)
	assert.Equal(t, models.TypeDocument, typ)

	typ, err = ValidateUpload("pic.png", "image/png", 1024)
	require.NoError(t, err)
	assert.Equal(t, models.TypeImage, typ)

	_, err = ValidateUpload("empty.png", "image/png", 0)
	assert.ErrorIs(t, err, apperr.ErrBadRequest)

	_, err = ValidateUpload("big.png", "image/png", maxUploadBytes+1)
	assert.ErrorIs(t, err, apperr.ErrBadRequest)

	_, err = ValidateUpload("app.exe", "application/x-msdownload", 1024)
	assert.ErrorIs(t, err, apperr.ErrBadRequest)

	// path separators in the filename never reach the key scheme
	_, err = ValidateUpload("../../etc/passwd", "text/plain", 10)
	assert.ErrorIs(t, err, apperr.ErrBadRequest)
}

func TestUploadChatMedia(t *testing.T) {
	store := &fakeObjectStore{}
	convs := newMemConvStore()
	svc := NewMediaService(store, &fakePreviewStore{}, convs, testLogger())
	ctx := context.Background()

	conv, err := convs.CreateOrGet(ctx, "alice", "bob")
	require.NoError(t, err)
	convID := conv.ID.Hex()

	att, err := svc.UploadChatMedia(ctx, convID, "alice", "notes.pdf", "application/pdf", []byte("%PDF-"))
	require.NoError(t, err)
	assert.Contains(t, att.URL, "chat/"+convID+"/alice/")
	assert.Equal(t, "notes.pdf", att.FileName)
	assert.EqualValues(t, 5, att.Size)
	// no thumbnail for documents
	assert.Empty(t, att.ThumbnailURL)
	assert.Len(t, store.uploads, 1)
}

func TestUploadChatMediaRequiresParticipant(t *testing.T) {
	store := &fakeObjectStore{}
	convs := newMemConvStore()
	svc := NewMediaService(store, &fakePreviewStore{}, convs, testLogger())
	ctx := context.Background()

	conv, err := convs.CreateOrGet(ctx, "alice", "bob")
	require.NoError(t, err)

	// an outsider cannot park files under someone else's conversation
	_, err = svc.UploadChatMedia(ctx, conv.ID.Hex(), "mallory", "pic.png", "image/png", []byte{0x89, 0x50})
	assert.ErrorIs(t, err, apperr.ErrNotParticipant)

	_, err = svc.UploadChatMedia(ctx, "missing", "alice", "pic.png", "image/png", []byte{0x89, 0x50})
	assert.Error(t, err)

	assert.Empty(t, store.uploads)
}

func TestUploadVerificationDocumentRequiresImage(t *testing.T) {
	svc := NewMediaService(&fakeObjectStore{}, &fakePreviewStore{}, newMemConvStore(), testLogger())
	ctx := context.Background()

	_, err := svc.UploadVerificationDocument(ctx, "u1", "id.pdf", "application/pdf", []byte("%PDF-"))
	assert.ErrorIs(t, err, apperr.ErrBadRequest)

	url, err := svc.UploadVerificationDocument(ctx, "u1", "id.png", "image/png", []byte{0x89, 0x50})
	require.NoError(t, err)
	assert.True(t, strings.Contains(url, "verification/u1/"))
}

func TestCachedLinkPreview(t *testing.T) {
	previews := &fakePreviewStore{}
	svc := NewMediaService(&fakeObjectStore{}, previews, newMemConvStore(), testLogger())
	ctx := context.Background()

	_, err := svc.CachedLinkPreview(ctx, "", nil)
	assert.ErrorIs(t, err, apperr.ErrBadRequest)

	// miss with nothing provided returns nothing
	p, err := svc.CachedLinkPreview(ctx, "https://campus.edu/events", nil)
	require.NoError(t, err)
	assert.Nil(t, p)

	// composer-provided preview fills the cache
	provided := &models.LinkPreview{Title: "Campus Events"}
	p, err = svc.CachedLinkPreview(ctx, "https://campus.edu/events", provided)
	require.NoError(t, err)
	assert.Equal(t, "https://campus.edu/events", p.URL)

	// later composers hit the cache even without supplying one
	p, err = svc.CachedLinkPreview(ctx, "https://campus.edu/events", nil)
	require.NoError(t, err)
	require.NotNil(t, p)
	assert.Equal(t, "Campus Events", p.Title)
}
