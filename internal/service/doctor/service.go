package doctor

import (
	"context"
	"encoding/base64"
	"time"

	"github.com/patrickmn/go-cache"

	"github.com/jwalitptl/clinic-booking-api/internal/model"
	"github.com/jwalitptl/clinic-booking-api/internal/repository"
	apperrors "github.com/jwalitptl/clinic-booking-api/pkg/errors"
)

const (
	listingCacheKey = "doctor_listing"
	listingCacheTTL = 5 * time.Minute
)

// Service serves the public doctor directory. The listing is
// read-mostly, so it is cached for a short TTL.
type Service struct {
	repo  repository.DoctorRepository
	cache *cache.Cache
}

func NewService(repo repository.DoctorRepository) *Service {
	return &Service{
		repo:  repo,
		cache: cache.New(listingCacheTTL, 10*time.Minute),
	}
}

func (s *Service) List(ctx context.Context) ([]*model.DoctorListing, error) {
	if cached, ok := s.cache.Get(listingCacheKey); ok {
		return cached.([]*model.DoctorListing), nil
	}

	doctors, err := s.repo.List(ctx)
	if err != nil {
		return nil, apperrors.Internal(err)
	}

	listings := make([]*model.DoctorListing, 0, len(doctors))
	for _, d := range doctors {
		listings = append(listings, &model.DoctorListing{
			ID:        d.AccountID,
			FirstName: d.FirstName,
			LastName:  d.LastName,
			Category:  d.Category,
			Photo:     encodeBlob(d.Photo),
			CV:        encodeBlob(d.CV),
		})
	}

	s.cache.Set(listingCacheKey, listings, cache.DefaultExpiration)
	return listings, nil
}

// Invalidate drops the cached listing, called after doctor registration.
func (s *Service) Invalidate() {
	s.cache.Delete(listingCacheKey)
}

func encodeBlob(b []byte) string {
	if len(b) == 0 {
		return ""
	}
	return base64.StdEncoding.EncodeToString(b)
}
