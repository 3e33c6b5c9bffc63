package models

// OrderStatus is the lifecycle status of an order.
type OrderStatus string

const (
	StatusDraft          OrderStatus = "DRAFT"
	StatusOrdered        OrderStatus = "ORDERED"
	StatusRequestToEdit  OrderStatus = "REQUEST_TO_EDIT"
	StatusApprovedEdited OrderStatus = "APPROVED_EDITED"
	StatusApproved       OrderStatus = "APPROVED"
	StatusRejected       OrderStatus = "REJECTED"
	StatusNoted          OrderStatus = "NOTED"
	StatusProcessing     OrderStatus = "PROCESSING"
	StatusCooking        OrderStatus = "COOKING"
	StatusReady          OrderStatus = "READY"
	StatusDelivered      OrderStatus = "DELIVERED"
)

// orderTransitions is the whitelist of legal status moves. Anything not
// listed here is rejected by the explicit status-set endpoint, so jumps
// like DRAFT -> DELIVERED cannot happen. DELIVERED has no outgoing edges.
var orderTransitions = map[OrderStatus][]OrderStatus{
	StatusDraft:          {StatusOrdered, StatusRequestToEdit},
	StatusOrdered:        {StatusRequestToEdit, StatusApproved, StatusRejected, StatusProcessing},
	StatusRequestToEdit:  {StatusApprovedEdited, StatusRejected, StatusNoted},
	StatusApproved:       {StatusProcessing, StatusRequestToEdit},
	StatusApprovedEdited: {StatusProcessing, StatusRequestToEdit},
	StatusNoted:          {StatusProcessing, StatusRequestToEdit},
	StatusRejected:       {StatusRequestToEdit},
	StatusProcessing:     {StatusCooking, StatusRequestToEdit},
	StatusCooking:        {StatusReady},
	StatusReady:          {StatusDelivered},
	StatusDelivered:      {},
}

// IsValid reports whether s is one of the known order statuses.
func (s OrderStatus) IsValid() bool {
	_, ok := orderTransitions[s]
	return ok
}

// CanTransitionTo reports whether moving from s to target is a legal step.
func (s OrderStatus) CanTransitionTo(target OrderStatus) bool {
	for _, t := range orderTransitions[s] {
		if t == target {
			return true
		}
	}
	return false
}

// approvalStatuses are the targets that stamp approver identity and
// timestamp on the order as a side effect.
var approvalStatuses = map[OrderStatus]bool{
	StatusApproved:       true,
	StatusApprovedEdited: true,
	StatusRejected:       true,
	StatusNoted:          true,
}

// IsApprovalStatus reports whether landing in s records the approver.
func (s OrderStatus) IsApprovalStatus() bool {
	return approvalStatuses[s]
}

// nonEditableStatuses are the order states in which an edit request can no
// longer be opened.
var nonEditableStatuses = map[OrderStatus]bool{
	StatusDelivered: true,
	StatusCooking:   true,
	StatusReady:     true,
}

// AllowsEditRequest reports whether an edit request may be created while
// the order sits in s.
func (s OrderStatus) AllowsEditRequest() bool {
	return !nonEditableStatuses[s]
}

// EditRequestStatus is the approval lifecycle of an edit request.
type EditRequestStatus string

const (
	EditRequestPending          EditRequestStatus = "PENDING"
	EditRequestApproved         EditRequestStatus = "APPROVED"
	EditRequestRejected         EditRequestStatus = "REJECTED"
	EditRequestAcceptedWithNote EditRequestStatus = "ACCEPTED_WITH_NOTE"
)

// SLA classification of how promptly an edit request was filed relative to
// the 48-hour cutoff before the order's service date.
const (
	SLARegular = "REGULAR"
	SLANoted   = "NOTED"
)
