package services

import (
	"errors"
	"fmt"

	"backend/config"
	"backend/models"

	"gorm.io/gorm"
)

type InstitutionService struct{}

func NewInstitutionService() *InstitutionService {
	return &InstitutionService{}
}

// ListActive returns the ACTIVE institutions used to resolve order
// ownership and bulk-upload rows.
func (s *InstitutionService) ListActive() ([]models.Institution, error) {
	var institutions []models.Institution
	err := config.DB.Where("status = ?", "ACTIVE").Order("name ASC").Find(&institutions).Error
	return institutions, err
}

type InstitutionCreateInput struct {
	Name          string
	Type          string
	ContactEmail  string
	ContactPerson string
	TotalUsers    int
}

func (s *InstitutionService) Create(in InstitutionCreateInput) (*models.Institution, error) {
	if in.Name == "" {
		return nil, fmt.Errorf("%w: name is required", ErrValidation)
	}

	var existing models.Institution
	err := config.DB.First(&existing, "name = ?", in.Name).Error
	if err == nil {
		return nil, fmt.Errorf("%w: institution %q already exists", ErrConflict, in.Name)
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	institution := models.Institution{
		Name:          in.Name,
		Type:          in.Type,
		ContactEmail:  in.ContactEmail,
		ContactPerson: in.ContactPerson,
		TotalUsers:    in.TotalUsers,
		Status:        "ACTIVE",
	}
	if err := config.DB.Create(&institution).Error; err != nil {
		return nil, err
	}
	return &institution, nil
}
