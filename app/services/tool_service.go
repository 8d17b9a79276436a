package services

import (
	"context"
	"fmt"
	"path"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/shashiranjanraj/camtools/app/models"
	"github.com/shashiranjanraj/camtools/config"
	"github.com/shashiranjanraj/camtools/pkg/cache"
	"github.com/shashiranjanraj/camtools/pkg/logger"
	"github.com/shashiranjanraj/camtools/pkg/metrics"
	"github.com/shashiranjanraj/camtools/pkg/storage"
)

// toolsCacheKey holds the cached catalog listing in Redis.
const toolsCacheKey = "tools:all"

// ToolStore is the full catalog surface.
type ToolStore interface {
	ToolStock
	All(ctx context.Context) ([]models.Tool, error)
	Create(ctx context.Context, tool models.Tool) (primitive.ObjectID, error)
	Delete(ctx context.Context, id primitive.ObjectID) (int64, error)
	SetImage(ctx context.Context, id primitive.ObjectID, url string) error
}

// ToolService serves the catalog, with a short-TTL Redis cache in front of
// the unpaginated listing. The cache is optional; a nil *cache.Cache
// degrades to hitting the store every time.
type ToolService struct {
	tools ToolStore
	cache *cache.Cache
	disk  storage.Disk
}

func NewToolService(tools ToolStore, c *cache.Cache, disk storage.Disk) *ToolService {
	return &ToolService{tools: tools, cache: c, disk: disk}
}

func cacheTTL() time.Duration {
	ttl, err := time.ParseDuration(config.Get("CACHE_TOOLS_TTL", "30s"))
	if err != nil || ttl <= 0 {
		return 30 * time.Second
	}
	return ttl
}

// List returns the whole catalog, from cache when fresh.
func (s *ToolService) List(ctx context.Context) ([]models.Tool, error) {
	var cached []models.Tool
	if s.cache.Get(ctx, toolsCacheKey, &cached) {
		metrics.CacheHits.Inc()
		return cached, nil
	}
	metrics.CacheMisses.Inc()

	tools, err := s.tools.All(ctx)
	if err != nil {
		return nil, err
	}

	if err := s.cache.Set(ctx, toolsCacheKey, tools, cacheTTL()); err != nil {
		logger.WithCtx(ctx).Warn("catalog cache write failed", "error", err)
	}
	return tools, nil
}

// Get returns one tool by id.
func (s *ToolService) Get(ctx context.Context, id primitive.ObjectID) (models.Tool, error) {
	return s.tools.FindByID(ctx, id)
}

// Create inserts a tool and invalidates the listing cache.
func (s *ToolService) Create(ctx context.Context, input models.ToolInput) (primitive.ObjectID, error) {
	tool := models.Tool{
		Name:        input.Name,
		Description: input.Description,
		Image:       input.Image,
		Price:       input.Price,
		Quantity:    input.Quantity,
		MinOrder:    input.MinOrder,
	}

	id, err := s.tools.Create(ctx, tool)
	if err != nil {
		return primitive.NilObjectID, err
	}

	s.invalidate(ctx)
	return id, nil
}

// Delete removes a tool and invalidates the listing cache. Absent ids
// report a zero count.
func (s *ToolService) Delete(ctx context.Context, id primitive.ObjectID) (int64, error) {
	count, err := s.tools.Delete(ctx, id)
	if err != nil {
		return 0, err
	}
	if count > 0 {
		s.invalidate(ctx)
	}
	return count, nil
}

// Invalidate drops the cached listing. The order workflow calls this after
// a stock decrement so the storefront shows fresh quantities.
func (s *ToolService) Invalidate(ctx context.Context) {
	s.invalidate(ctx)
}

func (s *ToolService) invalidate(ctx context.Context) {
	if err := s.cache.Del(ctx, toolsCacheKey); err != nil {
		logger.WithCtx(ctx).Warn("catalog cache invalidation failed", "error", err)
	}
}

// AttachImage stores an uploaded product image on the configured disk, sets
// the tool's image URL, and returns it.
func (s *ToolService) AttachImage(ctx context.Context, id primitive.ObjectID, filename string, content []byte) (string, error) {
	if s.disk == nil {
		return "", fmt.Errorf("storage disk not configured")
	}

	ext := path.Ext(filename)
	if ext == "" {
		ext = ".jpg"
	}
	key := "tools/" + id.Hex() + ext

	if err := s.disk.Put(key, content); err != nil {
		return "", err
	}

	url := s.disk.URL(key)
	if err := s.tools.SetImage(ctx, id, url); err != nil {
		return "", err
	}

	s.invalidate(ctx)
	return url, nil
}
