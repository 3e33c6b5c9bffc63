package services

import (
	"path/filepath"
	"testing"
	"time"

	"backend/config"
	"backend/models"

	"github.com/google/uuid"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// setupTestDB points the global DB at a throwaway sqlite database.
func setupTestDB(t *testing.T) {
	t.Helper()

	dbPath := filepath.Join(t.TempDir(), "test.db")
	db, err := gorm.Open(sqlite.Open(dbPath), &gorm.Config{
		Logger:         logger.Default.LogMode(logger.Silent),
		TranslateError: true,
	})
	if err != nil {
		t.Fatalf("open test db: %v", err)
	}

	err = db.AutoMigrate(
		&models.User{},
		&models.Institution{},
		&models.Order{},
		&models.EditRequest{},
		&models.FeedbackRating{},
	)
	if err != nil {
		t.Fatalf("migrate test db: %v", err)
	}

	config.DB = db
}

func createTestInstitution(t *testing.T, name string) *models.Institution {
	t.Helper()
	institution := &models.Institution{
		Name:         name,
		Type:         "UNIVERSITY",
		ContactEmail: "contact@example.com",
		Status:       "ACTIVE",
	}
	if err := config.DB.Create(institution).Error; err != nil {
		t.Fatalf("create institution: %v", err)
	}
	return institution
}

func createTestUser(t *testing.T, username, role string, institutionID *uuid.UUID) *models.User {
	t.Helper()
	user := &models.User{
		Username:       username,
		Email:          username + "@example.com",
		HashedPassword: "x",
		Role:           role,
		Status:         "ACTIVE",
		InstitutionID:  institutionID,
	}
	if err := config.DB.Create(user).Error; err != nil {
		t.Fatalf("create user: %v", err)
	}
	return user
}

func testAllocation(totals map[string]int) models.StaffAllocation {
	allocation := models.StaffAllocation{}
	for role, total := range totals {
		allocation[role] = models.StaffAllocationItem{
			Total:           total,
			ServingType:     "Box",
			DropOffLocation: "Pantry",
		}
	}
	return allocation
}

func createTestOrder(t *testing.T, institutionID, createdBy uuid.UUID, orderDate time.Time, totals map[string]int) *models.Order {
	t.Helper()
	allocation := testAllocation(totals)
	order := &models.Order{
		InstitutionID:   institutionID,
		OrderDate:       orderDate,
		OrderType:       "REGULAR",
		TotalPortion:    allocation.Sum(),
		StaffAllocation: allocation,
		Status:          models.StatusDraft,
		CreatedBy:       createdBy,
	}
	if err := config.DB.Create(order).Error; err != nil {
		t.Fatalf("create order: %v", err)
	}
	return order
}

func reloadOrder(t *testing.T, id uuid.UUID) *models.Order {
	t.Helper()
	var order models.Order
	if err := config.DB.First(&order, "order_id = ?", id).Error; err != nil {
		t.Fatalf("reload order: %v", err)
	}
	return &order
}
