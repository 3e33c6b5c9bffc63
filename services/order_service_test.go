package services

import (
	"errors"
	"testing"
	"time"

	"backend/models"

	"github.com/google/uuid"
)

func TestCreateOrderPortionInvariant(t *testing.T) {
	setupTestDB(t)
	institution := createTestInstitution(t, "Univ A")
	user := createTestUser(t, "creator", models.RoleClientAdmin, &institution.InstitutionID)
	svc := NewOrderService()

	_, err := svc.Create(OrderCreateInput{
		InstitutionID:   institution.InstitutionID,
		OrderDate:       time.Now().AddDate(0, 0, 7),
		TotalPortion:    30,
		StaffAllocation: testAllocation(map[string]int{"dosen": 20}),
	}, user.ID)
	if !errors.Is(err, ErrValidation) {
		t.Fatalf("expected validation error for mismatched totals, got %v", err)
	}

	order, err := svc.Create(OrderCreateInput{
		InstitutionID:   institution.InstitutionID,
		OrderDate:       time.Now().AddDate(0, 0, 7),
		TotalPortion:    20,
		StaffAllocation: testAllocation(map[string]int{"dosen": 20}),
	}, user.ID)
	if err != nil {
		t.Fatalf("create order: %v", err)
	}
	if order.Status != models.StatusDraft {
		t.Errorf("new order status = %s, want DRAFT", order.Status)
	}
	if order.OrderType != "REGULAR" {
		t.Errorf("default order type = %s, want REGULAR", order.OrderType)
	}
}

func TestSubmitOrder(t *testing.T) {
	setupTestDB(t)
	institution := createTestInstitution(t, "Univ A")
	user := createTestUser(t, "creator", models.RoleClientAdmin, &institution.InstitutionID)
	order := createTestOrder(t, institution.InstitutionID, user.ID,
		time.Now().AddDate(0, 0, 7), map[string]int{"dosen": 20})
	svc := NewOrderService()

	submitted, err := svc.Submit(order.OrderID)
	if err != nil {
		t.Fatalf("submit: %v", err)
	}
	if submitted.Status != models.StatusOrdered {
		t.Errorf("status = %s, want ORDERED", submitted.Status)
	}
	if submitted.SubmittedAt == nil {
		t.Error("submitted_at should be stamped")
	}

	// second submission is no longer DRAFT
	if _, err := svc.Submit(order.OrderID); !errors.Is(err, ErrConflict) {
		t.Errorf("expected conflict on double submit, got %v", err)
	}
}

func TestUpdateOrderRecalculatesTotal(t *testing.T) {
	setupTestDB(t)
	institution := createTestInstitution(t, "Univ A")
	user := createTestUser(t, "creator", models.RoleClientAdmin, &institution.InstitutionID)
	order := createTestOrder(t, institution.InstitutionID, user.ID,
		time.Now().AddDate(0, 0, 7), map[string]int{"dosen": 20})
	svc := NewOrderService()

	updated, err := svc.Update(order.OrderID, OrderUpdateInput{
		StaffAllocation: testAllocation(map[string]int{"dosen": 10, "siswa": 25}),
	}, user)
	if err != nil {
		t.Fatalf("update: %v", err)
	}
	if updated.TotalPortion != 35 {
		t.Errorf("total_portion = %d, want recomputed 35", updated.TotalPortion)
	}
}

func TestUpdateOrderBothFieldsMustAgree(t *testing.T) {
	setupTestDB(t)
	institution := createTestInstitution(t, "Univ A")
	user := createTestUser(t, "creator", models.RoleClientAdmin, &institution.InstitutionID)
	order := createTestOrder(t, institution.InstitutionID, user.ID,
		time.Now().AddDate(0, 0, 7), map[string]int{"dosen": 20})
	svc := NewOrderService()

	total := 99
	_, err := svc.Update(order.OrderID, OrderUpdateInput{
		TotalPortion:    &total,
		StaffAllocation: testAllocation(map[string]int{"dosen": 10}),
	}, user)
	if !errors.Is(err, ErrValidation) {
		t.Fatalf("expected validation error, got %v", err)
	}
}

func TestUpdateOrderedOrderClientAdminLatitude(t *testing.T) {
	setupTestDB(t)
	institution := createTestInstitution(t, "Univ A")
	other := createTestInstitution(t, "Univ B")
	clientAdmin := createTestUser(t, "client", models.RoleClientAdmin, &institution.InstitutionID)
	outsider := createTestUser(t, "outsider", models.RoleClientAdmin, &other.InstitutionID)
	svc := NewOrderService()

	// past-dated order in ORDERED state
	pastOrder := createTestOrder(t, institution.InstitutionID, clientAdmin.ID,
		time.Now().AddDate(0, 0, -3), map[string]int{"dosen": 20})
	if _, err := svc.Submit(pastOrder.OrderID); err != nil {
		t.Fatalf("submit: %v", err)
	}

	notes := "late correction"
	if _, err := svc.Update(pastOrder.OrderID, OrderUpdateInput{SpecialNotes: &notes}, clientAdmin); err != nil {
		t.Fatalf("client admin should be able to edit a past ORDERED order of their institution: %v", err)
	}

	if _, err := svc.Update(pastOrder.OrderID, OrderUpdateInput{SpecialNotes: &notes}, outsider); !errors.Is(err, ErrForbidden) {
		t.Errorf("other institution's admin must get an authorization refusal, got %v", err)
	}

	// future-dated ORDERED order stays read-only even for the owning admin
	futureOrder := createTestOrder(t, institution.InstitutionID, clientAdmin.ID,
		time.Now().AddDate(0, 0, 7), map[string]int{"dosen": 20})
	if _, err := svc.Submit(futureOrder.OrderID); err != nil {
		t.Fatalf("submit: %v", err)
	}
	if _, err := svc.Update(futureOrder.OrderID, OrderUpdateInput{SpecialNotes: &notes}, clientAdmin); !errors.Is(err, ErrConflict) {
		t.Errorf("future ORDERED order must be refused, got %v", err)
	}
}

func TestDeleteOrderDraftOnly(t *testing.T) {
	setupTestDB(t)
	institution := createTestInstitution(t, "Univ A")
	user := createTestUser(t, "creator", models.RoleClientAdmin, &institution.InstitutionID)
	svc := NewOrderService()

	order := createTestOrder(t, institution.InstitutionID, user.ID,
		time.Now().AddDate(0, 0, 7), map[string]int{"dosen": 20})
	if err := svc.Delete(order.OrderID); err != nil {
		t.Fatalf("delete draft: %v", err)
	}

	order = createTestOrder(t, institution.InstitutionID, user.ID,
		time.Now().AddDate(0, 0, 7), map[string]int{"dosen": 20})
	if _, err := svc.Submit(order.OrderID); err != nil {
		t.Fatalf("submit: %v", err)
	}
	if err := svc.Delete(order.OrderID); !errors.Is(err, ErrConflict) {
		t.Errorf("expected conflict deleting ORDERED order, got %v", err)
	}

	// bulk delete bypasses the DRAFT-only restriction
	deleted, err := svc.BulkDelete([]uuid.UUID{order.OrderID})
	if err != nil {
		t.Fatalf("bulk delete: %v", err)
	}
	if deleted != 1 {
		t.Errorf("bulk delete removed %d rows, want 1", deleted)
	}
}

func TestSetStatusTransitionTable(t *testing.T) {
	setupTestDB(t)
	institution := createTestInstitution(t, "Univ A")
	user := createTestUser(t, "creator", models.RoleClientAdmin, &institution.InstitutionID)
	admin := createTestUser(t, "admin", models.RoleDKAdmin, nil)
	order := createTestOrder(t, institution.InstitutionID, user.ID,
		time.Now().AddDate(0, 0, 7), map[string]int{"dosen": 20})
	svc := NewOrderService()

	// out-of-order jump is rejected
	if _, err := svc.SetStatus(order.OrderID, models.StatusDelivered, admin.ID); !errors.Is(err, ErrConflict) {
		t.Fatalf("DRAFT -> DELIVERED must be rejected, got %v", err)
	}

	// unknown status name is a validation failure
	if _, err := svc.SetStatus(order.OrderID, models.OrderStatus("SHIPPED"), admin.ID); !errors.Is(err, ErrValidation) {
		t.Fatalf("unknown status must fail validation, got %v", err)
	}

	if _, err := svc.Submit(order.OrderID); err != nil {
		t.Fatalf("submit: %v", err)
	}

	updated, err := svc.SetStatus(order.OrderID, models.StatusApproved, admin.ID)
	if err != nil {
		t.Fatalf("ORDERED -> APPROVED: %v", err)
	}
	if updated.ApprovedBy == nil || *updated.ApprovedBy != admin.ID {
		t.Error("approval status must stamp the approver")
	}
	if updated.ApprovedAt == nil {
		t.Error("approval status must stamp approved_at")
	}

	// walk the fulfilment chain to the terminal state
	for _, target := range []models.OrderStatus{
		models.StatusProcessing, models.StatusCooking, models.StatusReady, models.StatusDelivered,
	} {
		if _, err := svc.SetStatus(order.OrderID, target, admin.ID); err != nil {
			t.Fatalf("transition to %s: %v", target, err)
		}
	}

	if _, err := svc.SetStatus(order.OrderID, models.StatusProcessing, admin.ID); !errors.Is(err, ErrConflict) {
		t.Errorf("DELIVERED must be terminal, got %v", err)
	}
}

func TestOrderTracker(t *testing.T) {
	setupTestDB(t)
	institution := createTestInstitution(t, "Univ A")
	user := createTestUser(t, "creator", models.RoleClientAdmin, &institution.InstitutionID)
	order := createTestOrder(t, institution.InstitutionID, user.ID,
		time.Now().AddDate(0, 0, 7), map[string]int{"dosen": 20})
	svc := NewOrderService()

	if _, err := svc.Submit(order.OrderID); err != nil {
		t.Fatalf("submit: %v", err)
	}

	tracker, err := svc.Tracker(order.OrderID)
	if err != nil {
		t.Fatalf("tracker: %v", err)
	}
	if tracker.CurrentStatus != models.StatusOrdered {
		t.Errorf("current status = %s, want ORDERED", tracker.CurrentStatus)
	}
	if len(tracker.Timeline) != 2 {
		t.Errorf("timeline length = %d, want 2", len(tracker.Timeline))
	}
}
