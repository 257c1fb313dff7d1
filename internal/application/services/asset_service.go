package services

import (
	"bytes"
	"context"
	"crypto/sha256"
	"encoding/hex"
	"path"
	"strings"

	"github.com/google/uuid"

	"github.com/medoraclinic/medora-site/backend/internal/domain/entities"
	"github.com/medoraclinic/medora-site/backend/internal/domain/providers"
	"github.com/medoraclinic/medora-site/backend/internal/domain/repositories"
	"github.com/medoraclinic/medora-site/backend/internal/infrastructure/observability"
	apperrors "github.com/medoraclinic/medora-site/backend/pkg/errors"
)

const defaultContentType = "application/octet-stream"

// AssetService writes, deletes and lists objects in the image bucket
type AssetService struct {
	store providers.ObjectStorage
	refs  repositories.AssetReferenceRepository
}

// NewAssetService creates a new asset service. refs may be nil.
func NewAssetService(store providers.ObjectStorage, refs repositories.AssetReferenceRepository) *AssetService {
	return &AssetService{
		store: store,
		refs:  refs,
	}
}

// UploadRequest is one uploaded file. EntityType, EntityID and Role are
// optional; when all are set a reference row is recorded.
type UploadRequest struct {
	Path         string
	Filename     string
	OriginalName string
	ContentType  string
	Data         []byte
	EntityType   string
	EntityID     string
	Role         string
}

// Upload stores the file unmodified at path/filename. The key is used as
// given; a malformed key is rejected rather than rewritten.
func (s *AssetService) Upload(ctx context.Context, req UploadRequest) (*entities.UploadResult, error) {
	if len(req.Data) == 0 && req.OriginalName == "" && req.Filename == "" {
		return nil, apperrors.NewValidationError("No file uploaded")
	}

	key, err := uploadKey(req.Path, req.Filename, req.OriginalName)
	if err != nil {
		return nil, err
	}
	contentType := req.ContentType
	if contentType == "" {
		contentType = defaultContentType
	}

	size := int64(len(req.Data))
	url, err := s.store.Put(ctx, key, bytes.NewReader(req.Data), size, providers.PutOptions{ContentType: contentType})
	if err != nil {
		return nil, err
	}

	logger := observability.LoggerFromContext(ctx)
	logger.Info().Str("key", key).Int64("size", size).Msg("asset uploaded")

	if s.refs != nil && req.EntityType != "" && req.EntityID != "" && req.Role != "" {
		sum := sha256.Sum256(req.Data)
		ref := &entities.AssetReference{
			ID:         uuid.New().String(),
			EntityType: req.EntityType,
			EntityID:   req.EntityID,
			Role:       req.Role,
			StorageKey: key,
			Checksum:   hex.EncodeToString(sum[:]),
			Size:       size,
		}
		if err := s.refs.Record(ctx, ref); err != nil {
			logger.Warn().Err(err).Str("key", key).Msg("failed to record asset reference")
		}
	}

	return &entities.UploadResult{URL: url, Key: key, Size: size}, nil
}

// Delete removes an object. Missing objects are not an error.
func (s *AssetService) Delete(ctx context.Context, key string) error {
	if strings.TrimSpace(key) == "" {
		return apperrors.NewValidationError("Key is required")
	}
	if err := validateKey(key); err != nil {
		return err
	}

	if err := s.store.Delete(ctx, key); err != nil {
		return err
	}

	logger := observability.LoggerFromContext(ctx)
	logger.Info().Str("key", key).Msg("asset deleted")

	if s.refs != nil {
		if err := s.refs.DeleteByKey(ctx, key); err != nil {
			logger.Warn().Err(err).Str("key", key).Msg("failed to delete asset references")
		}
	}
	return nil
}

// List returns stored objects under prefix
func (s *AssetService) List(ctx context.Context, prefix string) ([]entities.StoredObject, error) {
	objects, err := s.store.List(ctx, strings.TrimLeft(prefix, "/"))
	if err != nil {
		return nil, err
	}
	if objects == nil {
		objects = []entities.StoredObject{}
	}
	return objects, nil
}

// References returns the recorded assets of one entity
func (s *AssetService) References(ctx context.Context, entityType, entityID string) ([]*entities.AssetReference, error) {
	if s.refs == nil {
		return []*entities.AssetReference{}, nil
	}
	return s.refs.ListByEntity(ctx, entityType, entityID)
}

func uploadKey(dir, filename, original string) (string, error) {
	name := filename
	if name == "" && original != "" {
		name = path.Base(original)
	}
	if strings.TrimSpace(name) == "" || name == "." || name == "/" {
		return "", apperrors.NewValidationError("Filename is required")
	}

	key := name
	if dir != "" {
		key = dir + "/" + name
	}
	if err := validateKey(key); err != nil {
		return "", err
	}
	return key, nil
}

// validateKey rejects keys that would not round-trip through the public URL:
// a leading or trailing slash, empty or dot segments, and segments padded
// with whitespace.
func validateKey(key string) error {
	for _, segment := range strings.Split(key, "/") {
		switch {
		case segment == "":
			return apperrors.NewValidationError("Invalid key: empty path segment")
		case segment == "." || segment == "..":
			return apperrors.NewValidationError("Invalid key: relative path segment")
		case segment != strings.TrimSpace(segment):
			return apperrors.NewValidationError("Invalid key: padded path segment")
		}
	}
	return nil
}
