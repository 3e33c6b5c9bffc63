package models

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
)

// StaffAllocationItem is the per-role breakdown stored inside an order's
// staff_allocation JSON column.
type StaffAllocationItem struct {
	Total           int    `json:"total"`
	ServingType     string `json:"serving_type"`
	DropOffLocation string `json:"drop_off_location"`
}

// StaffAllocation maps role name -> breakdown, e.g.
// {"dosen": {"total": 20, "serving_type": "Box", "drop_off_location": "Pantry"}}
type StaffAllocation map[string]StaffAllocationItem

// Sum returns the total portion count across all roles.
func (a StaffAllocation) Sum() int {
	total := 0
	for _, item := range a {
		total += item.Total
	}
	return total
}

func (a StaffAllocation) Value() (driver.Value, error) {
	if a == nil {
		return nil, nil
	}
	return json.Marshal(a)
}

func (a *StaffAllocation) Scan(value interface{}) error {
	return scanJSON(value, a)
}

// MenuItem is one entry of a menu category, e.g. {"menu": "Kue Sus", "total_qty": 110}.
type MenuItem struct {
	Menu     string `json:"menu"`
	TotalQty int    `json:"total_qty"`
}

// MenuDetails maps category (snack, beverages, heavy_meal) -> menu items.
type MenuDetails map[string][]MenuItem

func (m MenuDetails) Value() (driver.Value, error) {
	if m == nil {
		return nil, nil
	}
	return json.Marshal(m)
}

func (m *MenuDetails) Scan(value interface{}) error {
	return scanJSON(value, m)
}

// BreakdownSlot holds one slice of the order snapshot taken when an edit
// request is opened. Slot 0 carries the staff allocation, slot 1 the menu.
type BreakdownSlot struct {
	StaffAllocation StaffAllocation `json:"staff_allocation,omitempty"`
	MenuDetails     MenuDetails     `json:"menu_details,omitempty"`
}

// Breakdown is the two-slot audit snapshot stored on an edit request.
type Breakdown []BreakdownSlot

func (b Breakdown) Value() (driver.Value, error) {
	if b == nil {
		return nil, nil
	}
	return json.Marshal(b)
}

func (b *Breakdown) Scan(value interface{}) error {
	return scanJSON(value, b)
}

// ChangeSlot is one element of an edit request's requested_changes array.
// Older clients sent the same payload under "staff_allocation"/"menu_details"
// instead of the *_changes keys, so both spellings are accepted.
type ChangeSlot struct {
	StaffAllocationChanges StaffAllocation `json:"staff_allocation_changes,omitempty"`
	StaffAllocation        StaffAllocation `json:"staff_allocation,omitempty"`
	MenuDetailsChanges     MenuDetails     `json:"menu_details_changes,omitempty"`
	MenuDetails            MenuDetails     `json:"menu_details,omitempty"`
}

// Allocation returns the proposed staff allocation, preferring the
// staff_allocation_changes key over the legacy spelling. Nil when the slot
// carries no allocation change.
func (s ChangeSlot) Allocation() StaffAllocation {
	if s.StaffAllocationChanges != nil {
		return s.StaffAllocationChanges
	}
	return s.StaffAllocation
}

// Menu returns the proposed menu details, preferring menu_details_changes.
func (s ChangeSlot) Menu() MenuDetails {
	if s.MenuDetailsChanges != nil {
		return s.MenuDetailsChanges
	}
	return s.MenuDetails
}

// ChangeSet is the requested_changes array. Partial change sets (staff-only
// or menu-only) are valid; missing slots are simply skipped on merge.
type ChangeSet []ChangeSlot

func (c ChangeSet) Value() (driver.Value, error) {
	if c == nil {
		return nil, nil
	}
	return json.Marshal(c)
}

func (c *ChangeSet) Scan(value interface{}) error {
	return scanJSON(value, c)
}

// MenuItemRating is one rated menu entry inside a feedback submission.
type MenuItemRating struct {
	Menu   string `json:"menu"`
	Rating *int   `json:"rating,omitempty"`
}

// MenuRatings maps menu category -> rated items.
type MenuRatings map[string][]MenuItemRating

func (r MenuRatings) Value() (driver.Value, error) {
	if r == nil {
		return nil, nil
	}
	return json.Marshal(r)
}

func (r *MenuRatings) Scan(value interface{}) error {
	return scanJSON(value, r)
}

func scanJSON(value interface{}, dest interface{}) error {
	if value == nil {
		return nil
	}
	switch v := value.(type) {
	case []byte:
		return json.Unmarshal(v, dest)
	case string:
		return json.Unmarshal([]byte(v), dest)
	default:
		return fmt.Errorf("unsupported JSON column type %T", value)
	}
}
