package services

import (
	"errors"
	"fmt"
	"time"

	"backend/config"
	"backend/models"
	"backend/utils"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type EditRequestService struct{}

func NewEditRequestService() *EditRequestService {
	return &EditRequestService{}
}

type EditRequestFilter struct {
	InstitutionID  *uuid.UUID
	OrderID        *uuid.UUID
	ApprovalStatus string
	Skip           int
	Limit          int
}

// determineSLAStatus classifies how promptly the request was filed: REGULAR
// when the order was submitted and the request lands at or before 48 hours
// ahead of the service date, NOTED otherwise.
func determineSLAStatus(order *models.Order, now time.Time) string {
	if order.SubmittedAt == nil {
		return models.SLANoted
	}
	deadline := order.OrderDate.Truncate(24 * time.Hour).Add(-48 * time.Hour)
	if !now.After(deadline) {
		return models.SLARegular
	}
	return models.SLANoted
}

// mergeChanges applies a change set onto the order. Slot 0 replaces the
// staff allocation and recomputes total_portion from it; slot 1 replaces the
// menu details. Short change sets and missing keys skip their slot.
func mergeChanges(order *models.Order, changes models.ChangeSet) {
	if len(changes) > 0 {
		if allocation := changes[0].Allocation(); allocation != nil {
			order.StaffAllocation = allocation
			order.TotalPortion = allocation.Sum()
		}
	}
	if len(changes) > 1 {
		if menu := changes[1].Menu(); menu != nil {
			order.MenuDetails = menu
		}
	}
}

// Create opens an edit request against an order whose state still permits
// it, snapshots the current breakdown, and flips the order to
// REQUEST_TO_EDIT. A second PENDING request for the same order is refused
// inside the same transaction that would insert it.
func (s *EditRequestService) Create(orderID uuid.UUID, changes models.ChangeSet, reason string, submittedBy uuid.UUID) (*models.EditRequest, error) {
	if len(changes) == 0 {
		return nil, fmt.Errorf("%w: requested_changes must not be empty", ErrValidation)
	}

	var editRequest models.EditRequest
	err := config.DB.Transaction(func(tx *gorm.DB) error {
		var order models.Order
		if err := tx.First(&order, "order_id = ?", orderID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return fmt.Errorf("%w: order", ErrNotFound)
			}
			return err
		}

		if !order.Status.AllowsEditRequest() {
			return fmt.Errorf(
				"%w: cannot create edit request for order with status %s",
				ErrConflict, order.Status)
		}

		var pending int64
		if err := tx.Model(&models.EditRequest{}).
			Where("order_id = ? AND approval_status = ?", orderID, models.EditRequestPending).
			Count(&pending).Error; err != nil {
			return err
		}
		if pending > 0 {
			return fmt.Errorf("%w: order already has a pending edit request", ErrConflict)
		}

		editRequest = models.EditRequest{
			OrderID:       order.OrderID,
			InstitutionID: order.InstitutionID,
			OriginalBreakdown: models.Breakdown{
				{StaffAllocation: order.StaffAllocation},
				{MenuDetails: order.MenuDetails},
			},
			RequestedChanges: changes,
			ChangeReason:     reason,
			SLAStatus:        determineSLAStatus(&order, time.Now().UTC()),
			ApprovalStatus:   models.EditRequestPending,
			SubmittedBy:      submittedBy,
		}
		if err := tx.Create(&editRequest).Error; err != nil {
			// the partial unique index closes the race two concurrent
			// creates can win past the count check
			if errors.Is(err, gorm.ErrDuplicatedKey) {
				return fmt.Errorf("%w: order already has a pending edit request", ErrConflict)
			}
			return err
		}

		order.Status = models.StatusRequestToEdit
		return tx.Save(&order).Error
	})
	if err != nil {
		return nil, err
	}
	return &editRequest, nil
}

func (s *EditRequestService) List(filter EditRequestFilter) ([]models.EditRequest, error) {
	limit := filter.Limit
	if limit <= 0 || limit > 100 {
		limit = 50
	}

	q := config.DB.Model(&models.EditRequest{})
	if filter.InstitutionID != nil {
		q = q.Where("institution_id = ?", *filter.InstitutionID)
	}
	if filter.OrderID != nil {
		q = q.Where("order_id = ?", *filter.OrderID)
	}
	if filter.ApprovalStatus != "" {
		q = q.Where("approval_status = ?", filter.ApprovalStatus)
	}

	var requests []models.EditRequest
	err := q.Order("submitted_at DESC").Offset(filter.Skip).Limit(limit).Find(&requests).Error
	return requests, err
}

func (s *EditRequestService) Pending(skip, limit int) ([]models.EditRequest, error) {
	if limit <= 0 || limit > 100 {
		limit = 50
	}
	var requests []models.EditRequest
	err := config.DB.
		Where("approval_status = ?", models.EditRequestPending).
		Order("submitted_at ASC").
		Offset(skip).Limit(limit).
		Find(&requests).Error
	return requests, err
}

func (s *EditRequestService) Get(id uuid.UUID) (*models.EditRequest, error) {
	var editRequest models.EditRequest
	if err := config.DB.First(&editRequest, "edit_request_id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("%w: edit request", ErrNotFound)
		}
		return nil, err
	}
	return &editRequest, nil
}

// resolve runs the shared PENDING-gated resolution flow inside one
// transaction. apply mutates the order and edit request for the specific
// resolution.
func (s *EditRequestService) resolve(id, approvedBy uuid.UUID, apply func(order *models.Order, er *models.EditRequest)) (*models.EditRequest, error) {
	var editRequest models.EditRequest
	err := config.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.First(&editRequest, "edit_request_id = ?", id).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return fmt.Errorf("%w: edit request", ErrNotFound)
			}
			return err
		}

		if editRequest.ApprovalStatus != models.EditRequestPending {
			return fmt.Errorf(
				"%w: edit request is not pending, current status: %s",
				ErrConflict, editRequest.ApprovalStatus)
		}

		var order models.Order
		if err := tx.First(&order, "order_id = ?", editRequest.OrderID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return fmt.Errorf("%w: order", ErrNotFound)
			}
			return err
		}

		now := time.Now().UTC()
		apply(&order, &editRequest)
		editRequest.ApprovedBy = &approvedBy
		editRequest.ApprovedAt = &now

		if err := tx.Save(&order).Error; err != nil {
			return err
		}
		return tx.Save(&editRequest).Error
	})
	if err != nil {
		return nil, err
	}

	s.notifyResolution(&editRequest)
	return &editRequest, nil
}

// Approve merges the requested changes into the order and moves it to
// APPROVED_EDITED.
func (s *EditRequestService) Approve(id, approvedBy uuid.UUID) (*models.EditRequest, error) {
	return s.resolve(id, approvedBy, func(order *models.Order, er *models.EditRequest) {
		mergeChanges(order, er.RequestedChanges)
		now := time.Now().UTC()
		order.Status = models.StatusApprovedEdited
		order.ApprovedBy = &approvedBy
		order.ApprovedAt = &now
		er.ApprovalStatus = models.EditRequestApproved
	})
}

// Reject refuses the change without merging and marks the order REJECTED.
func (s *EditRequestService) Reject(id, approvedBy uuid.UUID) (*models.EditRequest, error) {
	return s.resolve(id, approvedBy, func(order *models.Order, er *models.EditRequest) {
		order.Status = models.StatusRejected
		er.ApprovalStatus = models.EditRequestRejected
	})
}

// AcceptWithNote merges like Approve but records a mandatory comment and
// lands the order in NOTED.
func (s *EditRequestService) AcceptWithNote(id, approvedBy uuid.UUID, comment string) (*models.EditRequest, error) {
	if comment == "" {
		return nil, fmt.Errorf("%w: approval_comment is required", ErrValidation)
	}
	return s.resolve(id, approvedBy, func(order *models.Order, er *models.EditRequest) {
		mergeChanges(order, er.RequestedChanges)
		now := time.Now().UTC()
		order.Status = models.StatusNoted
		order.ApprovedBy = &approvedBy
		order.ApprovedAt = &now
		er.ApprovalStatus = models.EditRequestAcceptedWithNote
		er.ApprovalComment = comment
	})
}

// notifyResolution emails the institution contact. Best effort: failures are
// logged, never surfaced.
func (s *EditRequestService) notifyResolution(editRequest *models.EditRequest) {
	var institution models.Institution
	if err := config.DB.First(&institution, "institution_id = ?", editRequest.InstitutionID).Error; err != nil {
		config.Logger.Warn("institution lookup for notification failed",
			zap.String("institution_id", editRequest.InstitutionID.String()), zap.Error(err))
		return
	}
	if err := utils.SendEditRequestResolvedEmail(
		institution.ContactEmail,
		institution.Name,
		editRequest.OrderID.String(),
		string(editRequest.ApprovalStatus),
		editRequest.ApprovalComment,
	); err != nil {
		config.Logger.Warn("edit request notification failed", zap.Error(err))
	}
}
