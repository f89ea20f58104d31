package service

import (
	"context"
	"errors"
	"fmt"
	"mime/multipart"
	"regexp"
	"strings"
	"time"

	"github.com/labstack/gommon/log"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"medstore/internal/cache"
	apperrors "medstore/internal/errors"
	"medstore/internal/model"
	"medstore/internal/repository"
)

const (
	catalogCacheKey = "medicines:all"
	catalogCacheTTL = time.Minute
)

// MatchMode selects how a medicine name lookup compares names.
type MatchMode string

const (
	MatchExact   MatchMode = "exact"
	MatchPartial MatchMode = "partial"
)

// ParseMatchMode parses a match mode; the empty string means MatchExact.
func ParseMatchMode(s string) (MatchMode, error) {
	switch MatchMode(strings.ToLower(strings.TrimSpace(s))) {
	case "", MatchExact:
		return MatchExact, nil
	case MatchPartial:
		return MatchPartial, nil
	default:
		return "", fmt.Errorf("%w: unknown match mode %q", apperrors.ErrInvalidInput, s)
	}
}

var nameDisallowed = regexp.MustCompile(`[^A-Za-z0-9\s]`)

// SanitizeName keeps only ASCII letters, digits and whitespace.
func SanitizeName(name string) string {
	return strings.TrimSpace(nameDisallowed.ReplaceAllString(name, ""))
}

// ImageStore persists uploaded medicine images.
type ImageStore interface {
	Save(medicineName string, fh *multipart.FileHeader) (string, error)
	Remove(publicPath string) error
}

// NewMedicine is the input for adding a catalog entry.
type NewMedicine struct {
	Name     string
	Price    decimal.Decimal
	Quantity int
	Image    *multipart.FileHeader
}

// CatalogService exposes the medicine catalog.
type CatalogService interface {
	ListAll(ctx context.Context) ([]model.Medicine, error)
	FindByName(ctx context.Context, name string, mode MatchMode) ([]model.Medicine, error)
	AddMedicine(ctx context.Context, in NewMedicine) (*model.Medicine, error)
}

type catalogService struct {
	medicineRepo repository.MedicineRepository
	images       ImageStore
	cache        *cache.Client
	publisher    Publisher
}

// NewCatalogService creates a new catalog service. cache and publisher may be nil.
func NewCatalogService(medicineRepo repository.MedicineRepository, images ImageStore, cache *cache.Client, publisher Publisher) CatalogService {
	return &catalogService{
		medicineRepo: medicineRepo,
		images:       images,
		cache:        cache,
		publisher:    publisher,
	}
}

// ListAll returns every medicine, restricted ones included.
func (s *catalogService) ListAll(ctx context.Context) ([]model.Medicine, error) {
	var medicines []model.Medicine
	if s.cache.GetJSON(ctx, catalogCacheKey, &medicines) {
		return medicines, nil
	}

	medicines, err := s.medicineRepo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("list medicines: %w", err)
	}
	if medicines == nil {
		medicines = []model.Medicine{}
	}

	if err := s.cache.SetJSON(ctx, catalogCacheKey, medicines, catalogCacheTTL); err != nil {
		log.Warnf("cache medicine list: %v", err)
	}
	return medicines, nil
}

// FindByName looks up unrestricted medicines by sanitized name and broadcasts
// the matches. No match is ErrMedicineNotFound and nothing is broadcast.
func (s *catalogService) FindByName(ctx context.Context, name string, mode MatchMode) ([]model.Medicine, error) {
	clean := SanitizeName(name)
	if clean == "" {
		return nil, fmt.Errorf("%w: medicine name is empty after sanitizing", apperrors.ErrInvalidInput)
	}

	matches, err := s.medicineRepo.Search(ctx, repository.MedicineQuery{
		Name:       clean,
		Partial:    mode == MatchPartial,
		PublicOnly: true,
	})
	if err != nil {
		return nil, fmt.Errorf("search medicines: %w", err)
	}
	if len(matches) == 0 {
		return nil, fmt.Errorf("%w: %s", apperrors.ErrMedicineNotFound, clean)
	}

	publish(ctx, s.publisher, EventMedicineLookup, matches)
	return matches, nil
}

// AddMedicine stores the optional image and inserts a restricted catalog entry.
func (s *catalogService) AddMedicine(ctx context.Context, in NewMedicine) (*model.Medicine, error) {
	name := strings.TrimSpace(in.Name)
	if name == "" {
		return nil, fmt.Errorf("%w: medicine name is required", apperrors.ErrInvalidInput)
	}
	if in.Price.IsNegative() {
		return nil, fmt.Errorf("%w: price must not be negative", apperrors.ErrInvalidInput)
	}
	if in.Quantity < 0 {
		return nil, fmt.Errorf("%w: quantity must not be negative", apperrors.ErrInvalidInput)
	}
	if _, err := s.medicineRepo.FindByName(ctx, name); err == nil {
		return nil, fmt.Errorf("%w: %s", apperrors.ErrMedicineAlreadyExists, name)
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("check medicine existence: %w", err)
	}

	medicine := &model.Medicine{
		Name:       name,
		Price:      in.Price,
		Quantity:   in.Quantity,
		Restricted: model.Restricted,
	}
	if in.Image != nil {
		imagePath, err := s.images.Save(name, in.Image)
		if err != nil {
			return nil, fmt.Errorf("save image: %w", err)
		}
		medicine.ImageRef = &imagePath
	}

	if err := s.medicineRepo.Create(ctx, medicine); err != nil {
		if medicine.ImageRef != nil {
			if rmErr := s.images.Remove(*medicine.ImageRef); rmErr != nil {
				log.Warnf("remove orphaned image %s: %v", *medicine.ImageRef, rmErr)
			}
		}
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, fmt.Errorf("%w: %s", apperrors.ErrMedicineAlreadyExists, name)
		}
		return nil, fmt.Errorf("create medicine: %w", err)
	}

	_ = s.cache.Delete(ctx, catalogCacheKey)
	return medicine, nil
}
