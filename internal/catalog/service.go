package catalog

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/google/uuid"
	"github.com/nekogravitycat/home-services-backend/internal/pkg/storage"
	"github.com/sirupsen/logrus"
)

const (
	MaxIconBytes   = 2 << 20
	thumbnailEdge  = 200
	thumbnailMIME  = "image/jpeg"
	iconPathPrefix = "icons"
)

// Lookup resolves a service category for booking creation and matching.
// Missing and inactive categories both yield ErrNotFound.
type Lookup interface {
	Resolve(ctx context.Context, id string) (*Category, error)
}

type CreateRequest struct {
	Name          string
	Description   string
	PriceRange    string
	EstimatedTime string
	Icon          string
}

// UpdateRequest fields left nil are unchanged.
type UpdateRequest struct {
	Name          *string
	Description   *string
	PriceRange    *string
	EstimatedTime *string
	Icon          *string
	Active        *bool
}

type Service interface {
	Lookup
	Create(ctx context.Context, req CreateRequest) (*Category, error)
	Get(ctx context.Context, id string) (*Category, error)
	List(ctx context.Context, filter Filter) ([]*Category, int, error)
	Update(ctx context.Context, id string, req UpdateRequest) (*Category, error)
	SetIcon(ctx context.Context, id string, content []byte) (*Category, error)
	OpenIcon(ctx context.Context, id string, thumbnail bool) (io.ReadCloser, string, error)
	CountActive(ctx context.Context) (int, error)
}

type service struct {
	repo    Repository
	storage storage.Storage
	imgProc *storage.ImageProcessor
	logger  logrus.FieldLogger
}

func NewService(repo Repository, store storage.Storage, logger logrus.FieldLogger) Service {
	return &service{
		repo:    repo,
		storage: store,
		imgProc: storage.NewImageProcessor(),
		logger:  logger,
	}
}

func (s *service) Resolve(ctx context.Context, id string) (*Category, error) {
	c, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if !c.Active {
		return nil, ErrNotFound
	}
	return c, nil
}

func (s *service) Create(ctx context.Context, req CreateRequest) (*Category, error) {
	name := strings.TrimSpace(req.Name)
	if name == "" {
		return nil, ErrNameRequired
	}

	c := &Category{
		Name:          name,
		Description:   req.Description,
		PriceRange:    req.PriceRange,
		EstimatedTime: req.EstimatedTime,
		Icon:          req.Icon,
		Active:        true,
	}
	if err := s.repo.Create(ctx, c); err != nil {
		return nil, err
	}
	return c, nil
}

func (s *service) Get(ctx context.Context, id string) (*Category, error) {
	// Malformed ids cannot name a stored category.
	if _, err := uuid.Parse(id); err != nil {
		return nil, ErrNotFound
	}
	return s.repo.GetByID(ctx, id)
}

func (s *service) List(ctx context.Context, filter Filter) ([]*Category, int, error) {
	return s.repo.List(ctx, filter)
}

func (s *service) Update(ctx context.Context, id string, req UpdateRequest) (*Category, error) {
	c, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	if req.Name != nil {
		name := strings.TrimSpace(*req.Name)
		if name == "" {
			return nil, ErrNameRequired
		}
		c.Name = name
	}
	if req.Description != nil {
		c.Description = *req.Description
	}
	if req.PriceRange != nil {
		c.PriceRange = *req.PriceRange
	}
	if req.EstimatedTime != nil {
		c.EstimatedTime = *req.EstimatedTime
	}
	if req.Icon != nil {
		c.Icon = *req.Icon
	}
	if req.Active != nil {
		c.Active = *req.Active
	}

	if err := s.repo.Update(ctx, c); err != nil {
		return nil, err
	}
	return c, nil
}

// SetIcon stores a new icon image with a JPEG thumbnail and replaces the previous one.
func (s *service) SetIcon(ctx context.Context, id string, content []byte) (*Category, error) {
	if len(content) > MaxIconBytes {
		return nil, ErrIconTooLarge
	}
	c, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	_, ext, err := storage.DetectImage(content)
	if err != nil {
		return nil, ErrInvalidIcon
	}

	// A fresh name per upload keeps old URLs from serving new content.
	name := uuid.NewString()
	dir := fmt.Sprintf("%s/%s", iconPathPrefix, c.ID[:2])
	iconPath := fmt.Sprintf("%s/%s%s", dir, name, ext)
	thumbPath := fmt.Sprintf("%s/%s_thumb.jpg", dir, name)

	thumb, err := s.imgProc.GenerateThumbnail(bytes.NewReader(content), thumbnailEdge, thumbnailEdge)
	if err != nil {
		return nil, ErrInvalidIcon
	}

	if err := s.storage.Save(ctx, iconPath, bytes.NewReader(content)); err != nil {
		return nil, fmt.Errorf("failed to save icon: %w", err)
	}
	if err := s.storage.Save(ctx, thumbPath, thumb); err != nil {
		s.removeFiles(ctx, &iconPath)
		return nil, fmt.Errorf("failed to save icon thumbnail: %w", err)
	}

	if err := s.repo.SetIconPaths(ctx, c.ID, &iconPath, &thumbPath); err != nil {
		s.removeFiles(ctx, &iconPath, &thumbPath)
		return nil, err
	}

	s.removeFiles(ctx, c.IconPath, c.ThumbnailPath)
	c.IconPath = &iconPath
	c.ThumbnailPath = &thumbPath
	return c, nil
}

func (s *service) OpenIcon(ctx context.Context, id string, thumbnail bool) (io.ReadCloser, string, error) {
	c, err := s.Get(ctx, id)
	if err != nil {
		return nil, "", err
	}

	path := c.IconPath
	if thumbnail {
		path = c.ThumbnailPath
	}
	if path == nil {
		return nil, "", ErrIconNotSet
	}

	rc, err := s.storage.Get(ctx, *path)
	if err != nil {
		if errors.Is(err, storage.ErrNotExist) {
			return nil, "", ErrIconNotSet
		}
		return nil, "", err
	}

	contentType := thumbnailMIME
	if !thumbnail {
		contentType = contentTypeForPath(*path)
	}
	return rc, contentType, nil
}

func (s *service) CountActive(ctx context.Context) (int, error) {
	return s.repo.CountActive(ctx)
}

func (s *service) removeFiles(ctx context.Context, paths ...*string) {
	for _, p := range paths {
		if p == nil {
			continue
		}
		if err := s.storage.Delete(ctx, *p); err != nil {
			s.logger.WithError(err).WithField("path", *p).Warn("failed to remove icon file")
		}
	}
}

func contentTypeForPath(path string) string {
	switch {
	case strings.HasSuffix(path, ".png"):
		return "image/png"
	case strings.HasSuffix(path, ".gif"):
		return "image/gif"
	default:
		return "image/jpeg"
	}
}
