package services_test

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/medoraclinic/medora-site/backend/internal/application/services"
	"github.com/medoraclinic/medora-site/backend/internal/domain/entities"
	"github.com/medoraclinic/medora-site/backend/internal/domain/providers"
	apperrors "github.com/medoraclinic/medora-site/backend/pkg/errors"
)

func TestAssetService_Upload_KeyFromPathAndFilename(t *testing.T) {
	store := new(MockObjectStorage)
	service := services.NewAssetService(store, nil)

	data := []byte("jpeg")
	store.On("Put", mock.Anything, "procedures/facelift/hero.jpg", mock.Anything, int64(4),
		providers.PutOptions{ContentType: "image/jpeg"}).
		Return("https://img.example.com/procedures/facelift/hero.jpg", nil)

	result, err := service.Upload(context.Background(), services.UploadRequest{
		Path:         "procedures/facelift",
		Filename:     "hero.jpg",
		OriginalName: "IMG_0001.jpg",
		ContentType:  "image/jpeg",
		Data:         data,
	})

	require.NoError(t, err)
	assert.Equal(t, "procedures/facelift/hero.jpg", result.Key)
	assert.Equal(t, int64(4), result.Size)
	assert.Equal(t, "https://img.example.com/procedures/facelift/hero.jpg", result.URL)
}

func TestAssetService_Upload_DefaultsToOriginalName(t *testing.T) {
	store := new(MockObjectStorage)
	service := services.NewAssetService(store, nil)

	store.On("Put", mock.Anything, "IMG_0001.png", mock.Anything, int64(3),
		providers.PutOptions{ContentType: "application/octet-stream"}).
		Return("https://img.example.com/IMG_0001.png", nil)

	result, err := service.Upload(context.Background(), services.UploadRequest{
		OriginalName: "IMG_0001.png",
		Data:         []byte("png"),
	})

	require.NoError(t, err)
	assert.Equal(t, "IMG_0001.png", result.Key)
}

func TestAssetService_Upload_NoFile(t *testing.T) {
	store := new(MockObjectStorage)
	service := services.NewAssetService(store, nil)

	_, err := service.Upload(context.Background(), services.UploadRequest{})

	require.Error(t, err)
	requireAppError(t, err, apperrors.ErrorTypeValidation, "No file uploaded")
	store.AssertNotCalled(t, "Put", mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestAssetService_Upload_RecordsReferenceWithChecksum(t *testing.T) {
	store := new(MockObjectStorage)
	refs := new(MockAssetReferenceRepository)
	service := services.NewAssetService(store, refs)

	store.On("Put", mock.Anything, "surgeons/heather-lee/hero.jpg", mock.Anything, int64(3), mock.Anything).
		Return("https://img.example.com/surgeons/heather-lee/hero.jpg", nil)
	refs.On("Record", mock.Anything, mock.MatchedBy(func(r *entities.AssetReference) bool {
		// sha256("abc")
		return r.EntityType == "surgeon" &&
			r.EntityID == "heather-lee" &&
			r.Role == "hero" &&
			r.StorageKey == "surgeons/heather-lee/hero.jpg" &&
			r.Checksum == "ba7816bf8f01cfea414140de5dae2223b00361a396177a9cb410ff61f20015ad" &&
			r.Size == 3
	})).Return(errors.New("db unavailable"))

	_, err := service.Upload(context.Background(), services.UploadRequest{
		Path:       "surgeons/heather-lee",
		Filename:   "hero.jpg",
		Data:       []byte("abc"),
		EntityType: "surgeon",
		EntityID:   "heather-lee",
		Role:       "hero",
	})

	require.NoError(t, err)
	refs.AssertExpectations(t)
}

func TestAssetService_Upload_StorageFailure(t *testing.T) {
	store := new(MockObjectStorage)
	service := services.NewAssetService(store, nil)

	store.On("Put", mock.Anything, "a.jpg", mock.Anything, int64(1), mock.Anything).
		Return("", apperrors.NewExternalError("failed to upload a.jpg", errors.New("503")))

	_, err := service.Upload(context.Background(), services.UploadRequest{Filename: "a.jpg", Data: []byte("x")})

	assert.True(t, apperrors.IsType(err, apperrors.ErrorTypeExternal))
}

func TestAssetService_Delete(t *testing.T) {
	store := new(MockObjectStorage)
	refs := new(MockAssetReferenceRepository)
	service := services.NewAssetService(store, refs)

	err := service.Delete(context.Background(), "  ")
	require.Error(t, err)
	requireAppError(t, err, apperrors.ErrorTypeValidation, "Key is required")

	store.On("Delete", mock.Anything, "gallery/face/01.jpg").Return(nil)
	refs.On("DeleteByKey", mock.Anything, "gallery/face/01.jpg").Return(nil)

	err = service.Delete(context.Background(), "gallery/face/01.jpg")

	require.NoError(t, err)
	store.AssertExpectations(t)
	refs.AssertExpectations(t)
}

func TestAssetService_MalformedKeysAreRejectedNotRewritten(t *testing.T) {
	tests := []struct {
		name string
		req  services.UploadRequest
	}{
		{name: "trailing slash on path", req: services.UploadRequest{Path: "surgeons/a/", Filename: "hero.jpg", Data: []byte("x")}},
		{name: "leading slash on path", req: services.UploadRequest{Path: "/surgeons/a", Filename: "hero.jpg", Data: []byte("x")}},
		{name: "padded filename", req: services.UploadRequest{Path: "surgeons/a", Filename: " hero.jpg", Data: []byte("x")}},
		{name: "dot segment", req: services.UploadRequest{Path: "surgeons/../a", Filename: "hero.jpg", Data: []byte("x")}},
		{name: "blank filename", req: services.UploadRequest{Path: "surgeons/a", Filename: "  ", Data: []byte("x")}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			store := new(MockObjectStorage)
			service := services.NewAssetService(store, nil)

			_, err := service.Upload(context.Background(), tt.req)

			assert.True(t, apperrors.IsType(err, apperrors.ErrorTypeValidation))
			store.AssertNotCalled(t, "Put", mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything)
		})
	}

	store := new(MockObjectStorage)
	service := services.NewAssetService(store, nil)
	for _, key := range []string{"/gallery/face/01.jpg", "gallery//01.jpg", "gallery/01.jpg "} {
		err := service.Delete(context.Background(), key)
		assert.True(t, apperrors.IsType(err, apperrors.ErrorTypeValidation), key)
	}
	store.AssertNotCalled(t, "Delete", mock.Anything, mock.Anything)
}

func TestAssetService_Upload_KeyIsVerbatim(t *testing.T) {
	store := new(MockObjectStorage)
	service := services.NewAssetService(store, nil)

	store.On("Put", mock.Anything, "procedures/Breast Lift/Case 12_1.JPG", mock.Anything, int64(1), mock.Anything).
		Return("https://img.example.com/procedures/Breast%20Lift/Case%2012_1.JPG", nil)

	result, err := service.Upload(context.Background(), services.UploadRequest{
		Path:     "procedures/Breast Lift",
		Filename: "Case 12_1.JPG",
		Data:     []byte("x"),
	})

	require.NoError(t, err)
	assert.Equal(t, "procedures/Breast Lift/Case 12_1.JPG", result.Key)
}

func TestAssetService_List_EmptyIsNotNil(t *testing.T) {
	store := new(MockObjectStorage)
	service := services.NewAssetService(store, nil)

	store.On("List", mock.Anything, "homepage/").Return(nil, nil)

	objects, err := service.List(context.Background(), "homepage/")

	require.NoError(t, err)
	assert.NotNil(t, objects)
}
