package services

import (
	"errors"
	"fmt"
	"time"

	"backend/config"
	"backend/models"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type OrderService struct{}

func NewOrderService() *OrderService {
	return &OrderService{}
}

type OrderCreateInput struct {
	InstitutionID        uuid.UUID
	OrderDate            time.Time
	OrderType            string
	TotalPortion         int
	StaffAllocation      models.StaffAllocation
	MenuDetails          models.MenuDetails
	DroppingLocationFood string
	SpecialNotes         string
}

// OrderUpdateInput carries a partial update; nil pointers and nil maps mean
// "field not supplied".
type OrderUpdateInput struct {
	OrderDate            *time.Time
	OrderType            *string
	TotalPortion         *int
	StaffAllocation      models.StaffAllocation
	MenuDetails          models.MenuDetails
	DroppingLocationFood *string
	SpecialNotes         *string
}

type OrderFilter struct {
	InstitutionID *uuid.UUID
	Status        string
	Skip          int
	Limit         int
}

// Create stores a new order in DRAFT owned by the creator. When both
// total_portion and staff_allocation are supplied they must agree exactly.
func (s *OrderService) Create(in OrderCreateInput, createdBy uuid.UUID) (*models.Order, error) {
	if len(in.StaffAllocation) == 0 {
		return nil, fmt.Errorf("%w: staff_allocation is required", ErrValidation)
	}
	if calculated := in.StaffAllocation.Sum(); calculated != in.TotalPortion {
		return nil, fmt.Errorf(
			"%w: total_portion (%d) must equal sum of staff_allocation totals (%d)",
			ErrValidation, in.TotalPortion, calculated)
	}

	var institution models.Institution
	if err := config.DB.First(&institution, "institution_id = ?", in.InstitutionID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("%w: institution", ErrNotFound)
		}
		return nil, err
	}

	orderType := in.OrderType
	if orderType == "" {
		orderType = "REGULAR"
	}

	order := models.Order{
		InstitutionID:        in.InstitutionID,
		OrderDate:            in.OrderDate,
		OrderType:            orderType,
		TotalPortion:         in.TotalPortion,
		StaffAllocation:      in.StaffAllocation,
		MenuDetails:          in.MenuDetails,
		DroppingLocationFood: in.DroppingLocationFood,
		SpecialNotes:         in.SpecialNotes,
		Status:               models.StatusDraft,
		CreatedBy:            createdBy,
	}
	if err := config.DB.Create(&order).Error; err != nil {
		return nil, err
	}
	return &order, nil
}

func (s *OrderService) List(filter OrderFilter) ([]models.Order, error) {
	limit := filter.Limit
	if limit <= 0 || limit > 100 {
		limit = 50
	}

	q := config.DB.Model(&models.Order{})
	if filter.InstitutionID != nil {
		q = q.Where("institution_id = ?", *filter.InstitutionID)
	}
	if filter.Status != "" {
		q = q.Where("status = ?", filter.Status)
	}

	var orders []models.Order
	err := q.Order("order_date DESC").Offset(filter.Skip).Limit(limit).Find(&orders).Error
	return orders, err
}

func (s *OrderService) Get(id uuid.UUID) (*models.Order, error) {
	var order models.Order
	if err := config.DB.Preload("Institution").First(&order, "order_id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("%w: order", ErrNotFound)
		}
		return nil, err
	}
	return &order, nil
}

// Submit moves a DRAFT order to ORDERED and stamps the submission time.
func (s *OrderService) Submit(id uuid.UUID) (*models.Order, error) {
	order, err := s.Get(id)
	if err != nil {
		return nil, err
	}
	if order.Status != models.StatusDraft {
		return nil, fmt.Errorf(
			"%w: only DRAFT orders can be submitted, current status: %s",
			ErrConflict, order.Status)
	}

	now := time.Now().UTC()
	order.Status = models.StatusOrdered
	order.SubmittedAt = &now
	if err := config.DB.Save(order).Error; err != nil {
		return nil, err
	}
	return order, nil
}

// updateRefusal decides whether actor may run a full field update on the
// order. DRAFT is always editable. A CLIENT_ADMIN may additionally edit an
// ORDERED order of their own institution when the order date lies strictly
// before today. An institution mismatch is an authorization failure; every
// other refusal is a state conflict.
func updateRefusal(order *models.Order, actor *models.User) error {
	if order.Status == models.StatusDraft {
		return nil
	}
	stateRefusal := fmt.Errorf(
		"%w: only DRAFT orders can be updated, current status: %s",
		ErrConflict, order.Status)
	if order.Status != models.StatusOrdered || actor == nil || actor.Role != models.RoleClientAdmin {
		return stateRefusal
	}
	if actor.InstitutionID == nil || *actor.InstitutionID != order.InstitutionID {
		return fmt.Errorf("%w: order belongs to another institution", ErrForbidden)
	}
	today := time.Now().UTC().Truncate(24 * time.Hour)
	if !order.OrderDate.Before(today) {
		return stateRefusal
	}
	return nil
}

func (s *OrderService) Update(id uuid.UUID, in OrderUpdateInput, actor *models.User) (*models.Order, error) {
	order, err := s.Get(id)
	if err != nil {
		return nil, err
	}
	if err := updateRefusal(order, actor); err != nil {
		return nil, err
	}

	if in.TotalPortion != nil && in.StaffAllocation != nil {
		if calculated := in.StaffAllocation.Sum(); calculated != *in.TotalPortion {
			return nil, fmt.Errorf(
				"%w: total_portion (%d) must equal sum of staff_allocation totals (%d)",
				ErrValidation, *in.TotalPortion, calculated)
		}
	}

	if in.OrderDate != nil {
		order.OrderDate = *in.OrderDate
	}
	if in.OrderType != nil {
		order.OrderType = *in.OrderType
	}
	if in.DroppingLocationFood != nil {
		order.DroppingLocationFood = *in.DroppingLocationFood
	}
	if in.SpecialNotes != nil {
		order.SpecialNotes = *in.SpecialNotes
	}
	if in.MenuDetails != nil {
		order.MenuDetails = in.MenuDetails
	}
	if in.StaffAllocation != nil {
		order.StaffAllocation = in.StaffAllocation
		// replacing the allocation recomputes the total unless one was
		// supplied in the same update
		if in.TotalPortion == nil {
			order.TotalPortion = in.StaffAllocation.Sum()
		}
	}
	if in.TotalPortion != nil {
		order.TotalPortion = *in.TotalPortion
	}

	if err := config.DB.Save(order).Error; err != nil {
		return nil, err
	}
	return order, nil
}

// Delete removes a DRAFT order.
func (s *OrderService) Delete(id uuid.UUID) error {
	order, err := s.Get(id)
	if err != nil {
		return err
	}
	if order.Status != models.StatusDraft {
		return fmt.Errorf(
			"%w: only DRAFT orders can be deleted, current status: %s",
			ErrConflict, order.Status)
	}
	return config.DB.Delete(&models.Order{}, "order_id = ?", id).Error
}

// BulkDelete removes orders regardless of status. Admin-only at the route
// level.
func (s *OrderService) BulkDelete(ids []uuid.UUID) (int64, error) {
	if len(ids) == 0 {
		return 0, fmt.Errorf("%w: order_ids must not be empty", ErrValidation)
	}
	res := config.DB.Delete(&models.Order{}, "order_id IN ?", ids)
	return res.RowsAffected, res.Error
}

// SetStatus performs an explicit admin status change, validated against the
// transition table. Landing in an approval status stamps the approver.
func (s *OrderService) SetStatus(id uuid.UUID, target models.OrderStatus, approver uuid.UUID) (*models.Order, error) {
	if !target.IsValid() {
		return nil, fmt.Errorf("%w: invalid status %q", ErrValidation, target)
	}

	order, err := s.Get(id)
	if err != nil {
		return nil, err
	}
	if !order.Status.CanTransitionTo(target) {
		return nil, fmt.Errorf(
			"%w: cannot transition order from %s to %s",
			ErrConflict, order.Status, target)
	}

	order.Status = target
	if target.IsApprovalStatus() {
		now := time.Now().UTC()
		order.ApprovedBy = &approver
		order.ApprovedAt = &now
	}

	if err := config.DB.Save(order).Error; err != nil {
		return nil, err
	}
	return order, nil
}

type TrackerStep struct {
	Status    models.OrderStatus `json:"status"`
	Timestamp time.Time          `json:"timestamp"`
	Completed bool               `json:"completed"`
}

type OrderTracker struct {
	OrderID       uuid.UUID          `json:"order_id"`
	CurrentStatus models.OrderStatus `json:"current_status"`
	Timeline      []TrackerStep      `json:"timeline"`
}

// Tracker reconstructs a coarse status timeline from the stamps the order
// carries.
func (s *OrderService) Tracker(id uuid.UUID) (*OrderTracker, error) {
	order, err := s.Get(id)
	if err != nil {
		return nil, err
	}

	tracker := &OrderTracker{
		OrderID:       order.OrderID,
		CurrentStatus: order.Status,
		Timeline: []TrackerStep{
			{Status: models.StatusDraft, Timestamp: order.CreatedAt, Completed: true},
		},
	}
	if order.SubmittedAt != nil {
		tracker.Timeline = append(tracker.Timeline, TrackerStep{
			Status: models.StatusOrdered, Timestamp: *order.SubmittedAt, Completed: true,
		})
	}
	if order.ApprovedAt != nil {
		tracker.Timeline = append(tracker.Timeline, TrackerStep{
			Status: order.Status, Timestamp: *order.ApprovedAt, Completed: true,
		})
	}
	return tracker, nil
}
