package service

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"

	"github.com/taller-manrubia/workshop-service/internal/domain"
	"github.com/taller-manrubia/workshop-service/internal/persistence"
	"github.com/taller-manrubia/workshop-service/internal/phone"
	"github.com/taller-manrubia/workshop-service/internal/repository"
)

const directoryCachePrefix = "directory:phone:"

// DirectoryService resolves prior customers by phone so repeat tickets can
// prefill the name, and records new associations after ticket creation.
// The directory is an append-only best-effort cache: entries are never
// corrected if a customer's name changes later.
type DirectoryService struct {
	customers repository.CustomerRepository
	cache     *persistence.Redis
	cacheTTL  time.Duration
	logger    *zap.Logger
}

// NewDirectoryService constructs the service. cache may be nil, in which
// case every lookup goes to the store.
func NewDirectoryService(customers repository.CustomerRepository, cache *persistence.Redis, cacheTTL time.Duration, logger *zap.Logger) *DirectoryService {
	return &DirectoryService{
		customers: customers,
		cache:     cache,
		cacheTTL:  cacheTTL,
		logger:    logger,
	}
}

// Lookup finds the directory entry whose normalized phone equals the
// normalized input. Returns (nil, nil) when no customer matches.
func (s *DirectoryService) Lookup(ctx context.Context, rawPhone string) (*domain.CustomerRecord, error) {
	normalized := phone.Normalize(rawPhone)
	if normalized == "" {
		return nil, nil
	}

	if cached := s.cachedName(ctx, normalized); cached != "" {
		return &domain.CustomerRecord{Name: cached, Phone: rawPhone, PhoneNormalized: normalized}, nil
	}

	record, err := s.customers.GetByNormalizedPhone(ctx, normalized)
	if err == nil {
		s.prime(ctx, normalized, record.Name)
		return record, nil
	}
	if !errors.Is(err, pgx.ErrNoRows) {
		return nil, err
	}

	// Rows written before normalization was enforced at insert time carry
	// the raw phone in phone_normalized; a full normalized scan still
	// resolves them. First match wins.
	all, err := s.customers.List(ctx)
	if err != nil {
		return nil, err
	}
	for i := range all {
		if phone.Normalize(all[i].Phone) == normalized {
			s.prime(ctx, normalized, all[i].Name)
			return &all[i], nil
		}
	}
	return nil, nil
}

// EnsureRecorded inserts a directory entry for the given name and raw
// phone unless one already exists for the normalized phone.
func (s *DirectoryService) EnsureRecorded(ctx context.Context, name, rawPhone string) error {
	record := &domain.CustomerRecord{
		Name:            name,
		Phone:           rawPhone,
		PhoneNormalized: phone.Normalize(rawPhone),
	}
	inserted, err := s.customers.Insert(ctx, record)
	if err != nil {
		return err
	}
	if inserted {
		s.prime(ctx, record.PhoneNormalized, record.Name)
	}
	return nil
}

// ListCustomers returns the full directory.
func (s *DirectoryService) ListCustomers(ctx context.Context) ([]domain.CustomerRecord, error) {
	return s.customers.List(ctx)
}

func (s *DirectoryService) cachedName(ctx context.Context, normalized string) string {
	if s.cache == nil || s.cache.Client == nil {
		return ""
	}
	name, err := s.cache.Client.Get(ctx, directoryCachePrefix+normalized).Result()
	if err != nil {
		return ""
	}
	return name
}

func (s *DirectoryService) prime(ctx context.Context, normalized, name string) {
	if s.cache == nil || s.cache.Client == nil {
		return
	}
	if err := s.cache.Client.Set(ctx, directoryCachePrefix+normalized, name, s.cacheTTL).Err(); err != nil {
		s.logger.Debug("directory cache prime failed", zap.Error(err))
	}
}
