package utils

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"backend/config"
	"backend/models"

	"go.uber.org/zap"
)

// requiredBaseColumns must all be present in a bulk-upload CSV header.
var requiredBaseColumns = []string{
	"no", "institution_name", "order_date", "total_portions", "dropping_location_main",
}

// ParsedOrderRow is the order-shaped record produced from one valid CSV row.
type ParsedOrderRow struct {
	RowNumber            int                    `json:"row_number"`
	InstitutionName      string                 `json:"institution_name"`
	OrderDate            string                 `json:"order_date"`
	OrderType            string                 `json:"order_type"`
	TotalPortion         int                    `json:"total_portion"`
	DroppingLocationFood string                 `json:"dropping_location_food"`
	StaffAllocation      models.StaffAllocation `json:"staff_allocation"`
	MenuDetails          models.MenuDetails     `json:"menu_details,omitempty"`
	SpecialNotes         string                 `json:"special_notes,omitempty"`
}

// ParseMenuItems parses a "name=qty; name=qty" cell into menu items.
// Malformed entries are dropped individually with a warning; a single bad
// entry never fails the row.
func ParseMenuItems(cell string) []models.MenuItem {
	items := []models.MenuItem{}

	if strings.TrimSpace(cell) == "" {
		return items
	}

	for _, entry := range strings.Split(cell, ";") {
		entry = strings.TrimSpace(entry)
		if entry == "" {
			continue
		}

		name, qtyStr, found := strings.Cut(entry, "=")
		if !found {
			config.Logger.Warn("could not parse menu item", zap.String("entry", entry))
			continue
		}

		qty, err := strconv.Atoi(strings.TrimSpace(qtyStr))
		if err != nil {
			config.Logger.Warn("could not parse menu item", zap.String("entry", entry))
			continue
		}

		items = append(items, models.MenuItem{
			Menu:     strings.TrimSpace(name),
			TotalQty: qty,
		})
	}

	return items
}

// ParseStaffAllocation discovers staff allocation columns dynamically from
// the column list: every sa_<role>_total with a positive integer value must
// be accompanied by non-empty sa_<role>_type and sa_<role>_drop_loc columns,
// otherwise the role is skipped with a warning. Roles with total <= 0,
// missing, or non-numeric are skipped.
func ParseStaffAllocation(row map[string]string, columns []string) models.StaffAllocation {
	allocation := models.StaffAllocation{}

	for _, col := range columns {
		if !strings.HasPrefix(col, "sa_") || !strings.HasSuffix(col, "_total") {
			continue
		}

		role := strings.TrimSuffix(strings.TrimPrefix(col, "sa_"), "_total")

		totalRaw := strings.TrimSpace(row[col])
		if totalRaw == "" {
			continue
		}

		total, err := strconv.Atoi(totalRaw)
		if err != nil {
			config.Logger.Warn("invalid staff allocation total",
				zap.String("role", role), zap.String("value", totalRaw))
			continue
		}
		if total <= 0 {
			continue
		}

		servingType := strings.TrimSpace(row["sa_"+role+"_type"])
		dropLoc := strings.TrimSpace(row["sa_"+role+"_drop_loc"])

		if servingType == "" || dropLoc == "" {
			config.Logger.Warn("skipping staff allocation role, missing type or location",
				zap.String("role", role),
				zap.String("type", servingType), zap.String("drop_loc", dropLoc))
			continue
		}

		allocation[role] = models.StaffAllocationItem{
			Total:           total,
			ServingType:     servingType,
			DropOffLocation: dropLoc,
		}
	}

	return allocation
}

// ValidateCSVHeaders checks for the required base columns and at least one
// staff allocation column. Returns ok plus the collected error messages.
func ValidateCSVHeaders(headers []string) (bool, []string) {
	present := make(map[string]bool, len(headers))
	for _, h := range headers {
		present[h] = true
	}

	var errs []string
	for _, col := range requiredBaseColumns {
		if !present[col] {
			errs = append(errs, "Missing required column: "+col)
		}
	}

	hasStaffAllocation := false
	for _, h := range headers {
		if strings.HasPrefix(h, "sa_") && strings.HasSuffix(h, "_total") {
			hasStaffAllocation = true
			break
		}
	}
	if !hasStaffAllocation {
		errs = append(errs, "No staff allocation columns found (e.g., sa_dosen_total)")
	}

	return len(errs) == 0, errs
}

// ParseCSVRow turns one raw row into an order-shaped record or a row-scoped
// error. It never panics past its boundary; all failure modes come back as
// an error carrying the row number.
func ParseCSVRow(row map[string]string, rowNumber int, columns []string) (*ParsedOrderRow, error) {
	institutionName := strings.TrimSpace(row["institution_name"])
	orderDateStr := strings.TrimSpace(row["order_date"])
	totalPortionsRaw := strings.TrimSpace(row["total_portions"])
	droppingLocation := strings.TrimSpace(row["dropping_location_main"])
	specialNotes := strings.TrimSpace(row["special_notes"])

	var missing []string
	if institutionName == "" {
		missing = append(missing, "institution_name is required")
	}
	if orderDateStr == "" {
		missing = append(missing, "order_date is required")
	}
	if totalPortionsRaw == "" {
		missing = append(missing, "total_portions is required")
	}
	if droppingLocation == "" {
		missing = append(missing, "dropping_location_main is required")
	}
	if len(missing) > 0 {
		return nil, fmt.Errorf("Row %d: %s", rowNumber, strings.Join(missing, "; "))
	}

	orderDate, err := time.Parse("2006-01-02", orderDateStr)
	if err != nil {
		return nil, fmt.Errorf("Row %d: Invalid date format '%s'. Use YYYY-MM-DD.", rowNumber, orderDateStr)
	}

	totalPortions, err := strconv.Atoi(totalPortionsRaw)
	if err != nil {
		return nil, fmt.Errorf("Row %d: Invalid total_portions value '%s'", rowNumber, totalPortionsRaw)
	}
	if totalPortions <= 0 {
		return nil, fmt.Errorf("Row %d: total_portions must be greater than 0", rowNumber)
	}

	staffAllocation := ParseStaffAllocation(row, columns)
	if len(staffAllocation) == 0 {
		return nil, fmt.Errorf("Row %d: No valid staff allocation found", rowNumber)
	}

	if calculated := staffAllocation.Sum(); calculated != totalPortions {
		return nil, fmt.Errorf(
			"Row %d: total_portions (%d) does not match sum of staff allocation (%d)",
			rowNumber, totalPortions, calculated)
	}

	menuDetails := models.MenuDetails{}
	if items := ParseMenuItems(row["menu_snack_items"]); len(items) > 0 {
		menuDetails["snack"] = items
	}
	if items := ParseMenuItems(row["menu_beverage_items"]); len(items) > 0 {
		menuDetails["beverages"] = items
	}
	if items := ParseMenuItems(row["menu_heavy_meal_items"]); len(items) > 0 {
		menuDetails["heavy_meal"] = items
	}
	if len(menuDetails) == 0 {
		menuDetails = nil
	}

	return &ParsedOrderRow{
		RowNumber:            rowNumber,
		InstitutionName:      institutionName,
		OrderDate:            orderDate.Format("2006-01-02"),
		OrderType:            "REGULAR",
		TotalPortion:         totalPortions,
		DroppingLocationFood: droppingLocation,
		StaffAllocation:      staffAllocation,
		MenuDetails:          menuDetails,
		SpecialNotes:         specialNotes,
	}, nil
}

// DetectCSVFormat classifies the header's staff allocation role set against
// the known sample layouts. Purely informational; an unrecognized set maps
// to "generic" and never gates validity.
func DetectCSVFormat(headers []string) string {
	roles := map[string]bool{}
	for _, h := range headers {
		if strings.HasPrefix(h, "sa_") && strings.HasSuffix(h, "_total") {
			roles[strings.TrimSuffix(strings.TrimPrefix(h, "sa_"), "_total")] = true
		}
	}

	if matchRoles(roles, "dosen", "siswa", "staff", "satpam") {
		return "sample_1"
	}
	if matchRoles(roles, "dosen", "siswa", "staff", "satpam", "tamu", "kasir") {
		return "sample_3"
	}
	if matchRoles(roles, "peserta", "panitia") {
		return "sample_4"
	}
	if matchRoles(roles, "umum") {
		// the simplified single-role layout additionally carries all three
		// menu columns
		hasMinimalMenu := true
		present := map[string]bool{}
		for _, h := range headers {
			present[h] = true
		}
		for _, col := range []string{"menu_snack_items", "menu_beverage_items", "menu_heavy_meal_items"} {
			if !present[col] {
				hasMinimalMenu = false
				break
			}
		}
		if hasMinimalMenu {
			return "sample_5"
		}
		return "sample_2"
	}

	return "generic"
}

func matchRoles(roles map[string]bool, expected ...string) bool {
	if len(roles) != len(expected) {
		return false
	}
	for _, r := range expected {
		if !roles[r] {
			return false
		}
	}
	return true
}
