package repository

import (
	"context"
	"strings"

	"gorm.io/gorm"

	"medstore/internal/model"
)

// MedicineQuery selects medicines by name.
type MedicineQuery struct {
	// Name is matched case-insensitively.
	Name string
	// Partial switches from whole-name equality to substring matching.
	Partial bool
	// PublicOnly keeps only unrestricted medicines.
	PublicOnly bool
}

// MedicineRepository defines catalog persistence operations.
type MedicineRepository interface {
	Create(ctx context.Context, medicine *model.Medicine) error
	List(ctx context.Context) ([]model.Medicine, error)
	FindByName(ctx context.Context, name string) (*model.Medicine, error)
	Search(ctx context.Context, q MedicineQuery) ([]model.Medicine, error)
}

type medicineRepository struct {
	db *gorm.DB
}

// NewMedicineRepository creates a new medicine repository.
func NewMedicineRepository(db *gorm.DB) MedicineRepository {
	return &medicineRepository{db: db}
}

// Create inserts a medicine. A duplicate name surfaces as gorm.ErrDuplicatedKey.
func (r *medicineRepository) Create(ctx context.Context, medicine *model.Medicine) error {
	return r.db.WithContext(ctx).Create(medicine).Error
}

// List returns the whole catalog ordered by name.
func (r *medicineRepository) List(ctx context.Context) ([]model.Medicine, error) {
	var medicines []model.Medicine
	if err := r.db.WithContext(ctx).Order("name").Find(&medicines).Error; err != nil {
		return nil, err
	}
	return medicines, nil
}

// FindByName finds a medicine by exact name regardless of restriction.
func (r *medicineRepository) FindByName(ctx context.Context, name string) (*model.Medicine, error) {
	var medicine model.Medicine
	if err := r.db.WithContext(ctx).Where("LOWER(name) = ?", strings.ToLower(name)).First(&medicine).Error; err != nil {
		return nil, err
	}
	return &medicine, nil
}

// Search returns every medicine matching q. An empty result is not an error.
func (r *medicineRepository) Search(ctx context.Context, q MedicineQuery) ([]model.Medicine, error) {
	name := strings.ToLower(q.Name)

	tx := r.db.WithContext(ctx)
	if q.Partial {
		tx = tx.Where("LOWER(name) LIKE ?", "%"+escapeLike(name)+"%")
	} else {
		tx = tx.Where("LOWER(name) = ?", name)
	}
	if q.PublicOnly {
		tx = tx.Where("restricted = ?", model.Unrestricted)
	}

	var medicines []model.Medicine
	if err := tx.Order("name").Find(&medicines).Error; err != nil {
		return nil, err
	}
	return medicines, nil
}

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

func escapeLike(s string) string {
	return likeEscaper.Replace(s)
}
