package utils

import (
	"strings"
	"testing"
)

var sampleColumns = []string{
	"no", "institution_name", "order_date", "total_portions", "dropping_location_main",
	"sa_dosen_total", "sa_dosen_type", "sa_dosen_drop_loc",
	"menu_snack_items", "menu_beverage_items", "menu_heavy_meal_items",
	"special_notes",
}

func TestParseCSVRowSingleRole(t *testing.T) {
	row := map[string]string{
		"no":                     "1",
		"institution_name":       "X",
		"order_date":             "2024-01-15",
		"total_portions":         "20",
		"dropping_location_main": "Gate",
		"sa_dosen_total":         "20",
		"sa_dosen_type":          "Box",
		"sa_dosen_drop_loc":      "Pantry",
	}

	parsed, err := ParseCSVRow(row, 1, sampleColumns)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if parsed.InstitutionName != "X" {
		t.Errorf("institution_name = %q, want X", parsed.InstitutionName)
	}
	if parsed.OrderDate != "2024-01-15" {
		t.Errorf("order_date = %q, want 2024-01-15", parsed.OrderDate)
	}
	if parsed.OrderType != "REGULAR" {
		t.Errorf("order_type = %q, want REGULAR", parsed.OrderType)
	}
	if parsed.TotalPortion != 20 {
		t.Errorf("total_portion = %d, want 20", parsed.TotalPortion)
	}

	item, ok := parsed.StaffAllocation["dosen"]
	if !ok {
		t.Fatalf("staff_allocation missing dosen role: %v", parsed.StaffAllocation)
	}
	if item.Total != 20 || item.ServingType != "Box" || item.DropOffLocation != "Pantry" {
		t.Errorf("unexpected dosen allocation: %+v", item)
	}
	if parsed.MenuDetails != nil {
		t.Errorf("menu_details should be nil when no category has entries, got %v", parsed.MenuDetails)
	}
}

func TestParseCSVRowPortionMismatch(t *testing.T) {
	row := map[string]string{
		"institution_name":       "X",
		"order_date":             "2024-01-15",
		"total_portions":         "20",
		"dropping_location_main": "Gate",
		"sa_dosen_total":         "15",
		"sa_dosen_type":          "Box",
		"sa_dosen_drop_loc":      "Pantry",
	}

	parsed, err := ParseCSVRow(row, 3, sampleColumns)
	if parsed != nil {
		t.Fatalf("expected nil record, got %+v", parsed)
	}
	if err == nil {
		t.Fatal("expected error for portion mismatch")
	}
	if !strings.Contains(err.Error(), "20") || !strings.Contains(err.Error(), "15") {
		t.Errorf("error should mention both numbers, got: %v", err)
	}
}

func TestParseCSVRowMissingFieldsAggregated(t *testing.T) {
	row := map[string]string{
		"institution_name": "X",
	}

	_, err := ParseCSVRow(row, 2, sampleColumns)
	if err == nil {
		t.Fatal("expected error for missing fields")
	}
	for _, want := range []string{"order_date is required", "total_portions is required", "dropping_location_main is required"} {
		if !strings.Contains(err.Error(), want) {
			t.Errorf("error should contain %q, got: %v", want, err)
		}
	}
	if !strings.Contains(err.Error(), "Row 2") {
		t.Errorf("error should carry the row number, got: %v", err)
	}
}

func TestParseCSVRowBadDate(t *testing.T) {
	row := map[string]string{
		"institution_name":       "X",
		"order_date":             "15/01/2024",
		"total_portions":         "20",
		"dropping_location_main": "Gate",
		"sa_dosen_total":         "20",
		"sa_dosen_type":          "Box",
		"sa_dosen_drop_loc":      "Pantry",
	}
	if _, err := ParseCSVRow(row, 1, sampleColumns); err == nil {
		t.Fatal("expected error for bad date format")
	}
}

func TestParseCSVRowNoAllocation(t *testing.T) {
	row := map[string]string{
		"institution_name":       "X",
		"order_date":             "2024-01-15",
		"total_portions":         "20",
		"dropping_location_main": "Gate",
		"sa_dosen_total":         "0",
	}
	if _, err := ParseCSVRow(row, 1, sampleColumns); err == nil {
		t.Fatal("expected error when no valid staff allocation remains")
	}
}

func TestParseStaffAllocationSkipsIncompleteRoles(t *testing.T) {
	columns := []string{"sa_dosen_total", "sa_dosen_type", "sa_dosen_drop_loc", "sa_siswa_total", "sa_siswa_type"}
	row := map[string]string{
		"sa_dosen_total":    "10",
		"sa_dosen_type":     "Box",
		"sa_dosen_drop_loc": "Pantry",
		"sa_siswa_total":    "5",
		"sa_siswa_type":     "Tray",
		// sa_siswa_drop_loc missing: role skipped, not a row error
	}

	allocation := ParseStaffAllocation(row, columns)
	if len(allocation) != 1 {
		t.Fatalf("expected 1 role, got %d: %v", len(allocation), allocation)
	}
	if _, ok := allocation["siswa"]; ok {
		t.Error("siswa should be skipped without a drop location")
	}
}

func TestParseStaffAllocationNonNumericTotal(t *testing.T) {
	columns := []string{"sa_umum_total", "sa_umum_type", "sa_umum_drop_loc"}
	row := map[string]string{
		"sa_umum_total":    "abc",
		"sa_umum_type":     "Box",
		"sa_umum_drop_loc": "Lobby",
	}
	if allocation := ParseStaffAllocation(row, columns); len(allocation) != 0 {
		t.Errorf("non-numeric total should skip the role, got %v", allocation)
	}
}

func TestParseMenuItems(t *testing.T) {
	items := ParseMenuItems("Kue Sus=110; Risoles=50")
	if len(items) != 2 {
		t.Fatalf("expected 2 items, got %d", len(items))
	}
	if items[0].Menu != "Kue Sus" || items[0].TotalQty != 110 {
		t.Errorf("unexpected first item: %+v", items[0])
	}
	if items[1].Menu != "Risoles" || items[1].TotalQty != 50 {
		t.Errorf("unexpected second item: %+v", items[1])
	}
}

func TestParseMenuItemsDropsMalformedEntries(t *testing.T) {
	items := ParseMenuItems("Kue Sus=110; NoEquals; Teh=abc; Kopi=30")
	if len(items) != 2 {
		t.Fatalf("expected 2 surviving items, got %d: %v", len(items), items)
	}
	if items[0].Menu != "Kue Sus" || items[1].Menu != "Kopi" {
		t.Errorf("unexpected items: %v", items)
	}
}

func TestParseMenuItemsEmpty(t *testing.T) {
	if items := ParseMenuItems("   "); len(items) != 0 {
		t.Errorf("expected no items for blank cell, got %v", items)
	}
}

func TestValidateCSVHeaders(t *testing.T) {
	ok, errs := ValidateCSVHeaders(sampleColumns)
	if !ok || len(errs) != 0 {
		t.Fatalf("expected valid headers, got errors: %v", errs)
	}

	ok, errs = ValidateCSVHeaders([]string{"no", "institution_name"})
	if ok {
		t.Fatal("expected invalid headers")
	}
	if len(errs) != 4 {
		// three missing base columns plus the missing staff allocation column
		t.Errorf("expected 4 errors, got %d: %v", len(errs), errs)
	}
}

func TestDetectCSVFormat(t *testing.T) {
	cases := []struct {
		name    string
		headers []string
		want    string
	}{
		{
			name: "four role sample",
			headers: []string{
				"sa_dosen_total", "sa_siswa_total", "sa_staff_total", "sa_satpam_total",
			},
			want: "sample_1",
		},
		{
			name:    "single umum without menu columns",
			headers: []string{"sa_umum_total", "sa_umum_type", "sa_umum_drop_loc"},
			want:    "sample_2",
		},
		{
			name: "six role sample",
			headers: []string{
				"sa_dosen_total", "sa_siswa_total", "sa_staff_total",
				"sa_satpam_total", "sa_tamu_total", "sa_kasir_total",
			},
			want: "sample_3",
		},
		{
			name:    "event sample",
			headers: []string{"sa_peserta_total", "sa_panitia_total"},
			want:    "sample_4",
		},
		{
			name: "minimal single role with menu columns",
			headers: []string{
				"sa_umum_total", "sa_umum_type", "sa_umum_drop_loc",
				"menu_snack_items", "menu_beverage_items", "menu_heavy_meal_items",
			},
			want: "sample_5",
		},
		{
			name:    "unrecognized role set",
			headers: []string{"sa_guru_total", "sa_murid_total"},
			want:    "generic",
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := DetectCSVFormat(tc.headers); got != tc.want {
				t.Errorf("DetectCSVFormat = %q, want %q", got, tc.want)
			}
		})
	}
}
