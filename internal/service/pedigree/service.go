// Package pedigree assembles a bird's ancestry from the registry and renders
// it as JSON, a printable PDF card or an SVG diagram.
package pedigree

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/mamadbah2/birdo/internal/cache"
	"github.com/mamadbah2/birdo/internal/document"
	"github.com/mamadbah2/birdo/internal/domain/models"
	"github.com/mamadbah2/birdo/internal/lineage"
	"github.com/mamadbah2/birdo/internal/repository/mongodb"
)

// Store is the persistence the service needs.
type Store interface {
	GetBird(ctx context.Context, userID, id string) (models.Bird, error)
	ListBirds(ctx context.Context, userID string, f mongodb.BirdFilter) ([]models.Bird, error)
	GetProfile(ctx context.Context, userID string) (models.Breeder, error)
}

// Document is a rendered file ready to be served.
type Document struct {
	Filename    string
	ContentType string
	Data        []byte
}

// Service builds and renders pedigrees.
type Service struct {
	store  Store
	cache  cache.Cache
	ttl    time.Duration
	logger *zap.Logger
	now    func() time.Time
}

// NewService constructs a pedigree service. A nil cache disables caching.
func NewService(store Store, c cache.Cache, ttl time.Duration, logger *zap.Logger) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	if c == nil {
		c = cache.NewNullCache()
	}
	return &Service{store: store, cache: c, ttl: ttl, logger: logger, now: time.Now}
}

// Tree resolves three generations of ancestors of birdID. The registry is
// loaded once and indexed for the whole walk.
func (s *Service) Tree(ctx context.Context, userID, birdID string) (lineage.Tree, error) {
	subject, err := s.store.GetBird(ctx, userID, birdID)
	if err != nil {
		return lineage.Tree{}, err
	}
	birds, err := s.store.ListBirds(ctx, userID, mongodb.BirdFilter{})
	if err != nil {
		return lineage.Tree{}, err
	}
	reg, err := lineage.NewRegistry(birds)
	if err != nil {
		return lineage.Tree{}, err
	}
	tree, err := lineage.Build(subject, reg)
	if err != nil {
		return lineage.Tree{}, err
	}

	s.logger.Debug("pedigree built",
		zap.String("user_id", userID),
		zap.String("bird_id", birdID),
		zap.Int("registry", reg.Len()),
		zap.Int("known_ancestors", tree.Known()),
	)
	return tree, nil
}

// PDF renders the printable pedigree card of birdID on a background colour
// given as #RRGGBB (empty for white).
func (s *Service) PDF(ctx context.Context, userID, birdID, background string) (Document, error) {
	if background != "" && !document.ValidColor(background) {
		return Document{}, models.Invalid("bg", "expected a #RRGGBB colour, got %q", background)
	}

	tree, err := s.Tree(ctx, userID, birdID)
	if err != nil {
		return Document{}, err
	}
	head, err := s.letterhead(ctx, userID)
	if err != nil {
		return Document{}, err
	}

	key := cache.Key("pedigree-pdf", userID, tree, subjectKey(tree.Subject), head, background)
	data, err := s.cached(ctx, key, func() ([]byte, error) {
		var buf bytes.Buffer
		err := document.RenderPedigreePDF(&buf, tree, head, document.PDFOptions{
			Background:  background,
			GeneratedAt: s.now(),
		})
		return buf.Bytes(), err
	})
	if err != nil {
		return Document{}, err
	}

	return Document{
		Filename:    document.Filename(tree.Subject),
		ContentType: "application/pdf",
		Data:        data,
	}, nil
}

// SVG renders the pedigree diagram of birdID.
func (s *Service) SVG(ctx context.Context, userID, birdID string) (Document, error) {
	tree, err := s.Tree(ctx, userID, birdID)
	if err != nil {
		return Document{}, err
	}

	key := cache.Key("pedigree-svg", userID, tree)
	data, err := s.cached(ctx, key, func() ([]byte, error) {
		return document.RenderTreeSVG(ctx, tree)
	})
	if err != nil {
		return Document{}, err
	}

	return Document{
		Filename:    strings.TrimSuffix(document.Filename(tree.Subject), ".pdf") + ".svg",
		ContentType: "image/svg+xml",
		Data:        data,
	}, nil
}

func (s *Service) letterhead(ctx context.Context, userID string) (document.Letterhead, error) {
	p, err := s.store.GetProfile(ctx, userID)
	if errors.Is(err, models.ErrNotFound) {
		return document.Letterhead{}, nil
	}
	if err != nil {
		return document.Letterhead{}, fmt.Errorf("load letterhead: %w", err)
	}
	return document.LetterheadFrom(p), nil
}

// cached returns the entry under key, rendering and storing it on a miss.
// Cache failures only cost a re-render.
func (s *Service) cached(ctx context.Context, key string, render func() ([]byte, error)) ([]byte, error) {
	if data, ok, err := s.cache.Get(ctx, key); err != nil {
		s.logger.Warn("document cache read failed", zap.String("key", key), zap.Error(err))
	} else if ok {
		return data, nil
	}

	data, err := render()
	if err != nil {
		return nil, fmt.Errorf("render pedigree: %w", err)
	}

	if err := s.cache.Set(ctx, key, data, s.ttl); err != nil {
		s.logger.Warn("document cache write failed", zap.String("key", key), zap.Error(err))
	}
	return data, nil
}

// subjectKey holds the subject fields printed on the card besides its slot.
func subjectKey(b models.Bird) []string {
	return []string{b.BirthDate, string(b.Gender), b.Species}
}
