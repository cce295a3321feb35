package country

import (
	"context"
	"countryfx/internal/adapters"
	"countryfx/internal/domain"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"time"
)

// Service is the read side of the store plus the generated summary image.
type Service struct {
	store     adapters.CountryStore
	images    adapters.ImageCache
	imagePath string
}

func (s *Service) List(ctx context.Context, filter domain.ListFilter) ([]domain.Country, error) {
	return s.store.List(ctx, filter)
}

func (s *Service) Get(ctx context.Context, name string) (domain.Country, error) {
	return s.store.FindByName(ctx, name)
}

func (s *Service) Delete(ctx context.Context, name string) (domain.Country, error) {
	return s.store.DeleteByName(ctx, name)
}

func (s *Service) LastRefreshedAt(ctx context.Context) (*time.Time, error) {
	return s.store.MaxRefreshedAt(ctx)
}

func (s *Service) Status(ctx context.Context) (domain.Status, error) {
	total, err := s.store.Count(ctx)
	if err != nil {
		return domain.Status{}, err
	}
	last, err := s.store.MaxRefreshedAt(ctx)
	if err != nil {
		return domain.Status{}, err
	}
	return domain.Status{TotalCountries: total, LastRefreshedAt: last}, nil
}

// SummaryImage returns the PNG bytes of the last rendered summary. Cached bytes are
// used only while the file on disk still has the version they were read from.
func (s *Service) SummaryImage(_ context.Context) ([]byte, error) {
	fi, err := os.Stat(s.imagePath)
	if err != nil {
		return nil, imageReadError(err)
	}

	if s.images != nil {
		if b, version, ok := s.images.Get(); ok && version.Equal(domain.ImageVersionOf(fi)) {
			return b, nil
		}
	}

	b, version, err := readImage(s.imagePath)
	if err != nil {
		return nil, imageReadError(err)
	}

	if s.images != nil {
		s.images.Set(b, version)
	}
	return b, nil
}

// readImage reads the file and stats the same open handle, so the version always
// describes the returned bytes even if the path is replaced concurrently.
func readImage(path string) ([]byte, domain.ImageVersion, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, domain.ImageVersion{}, err
	}
	defer func() { _ = f.Close() }()

	fi, err := f.Stat()
	if err != nil {
		return nil, domain.ImageVersion{}, err
	}
	b, err := io.ReadAll(f)
	if err != nil {
		return nil, domain.ImageVersion{}, err
	}
	return b, domain.ImageVersionOf(fi), nil
}

func imageReadError(err error) error {
	if errors.Is(err, fs.ErrNotExist) {
		return domain.ErrImageNotFound
	}
	return fmt.Errorf("failed to read summary image: %w", err)
}

func NewService(store adapters.CountryStore, images adapters.ImageCache, imagePath string) *Service {
	return &Service{store: store, images: images, imagePath: imagePath}
}
