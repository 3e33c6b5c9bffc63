package services

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strings"
	"time"

	"backend/config"
	"backend/models"
	"backend/utils"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// largeOrderThreshold is the portion count above which a preview row gets a
// non-fatal "large order" warning.
const largeOrderThreshold = 500

type BulkUploadService struct{}

func NewBulkUploadService() *BulkUploadService {
	return &BulkUploadService{}
}

type BulkPreviewItem struct {
	RowNumber            int                    `json:"row_number"`
	InstitutionName      string                 `json:"institution_name"`
	OrderDate            string                 `json:"order_date"`
	OrderType            string                 `json:"order_type,omitempty"`
	TotalPortion         int                    `json:"total_portion"`
	DroppingLocationFood string                 `json:"dropping_location_food"`
	StaffAllocation      models.StaffAllocation `json:"staff_allocation"`
	MenuDetails          models.MenuDetails     `json:"menu_details,omitempty"`
	SpecialNotes         string                 `json:"special_notes,omitempty"`
	Status               string                 `json:"status"`
	ErrorMessage         string                 `json:"error_message,omitempty"`
}

type BulkPreviewResult struct {
	Success            bool                   `json:"success"`
	CSVFormat          string                 `json:"csv_format"`
	ParsedRows         int                    `json:"parsed_rows"`
	PreviewData        []BulkPreviewItem      `json:"preview_data"`
	Orders             []utils.ParsedOrderRow `json:"orders"`
	ValidationErrors   []string               `json:"validation_errors"`
	ValidationWarnings []string               `json:"validation_warnings"`
	TotalPortion       int                    `json:"total_portion"`
}

// BulkSubmitOrder is one pre-validated order from a preview, sent back by
// the client for the committing pass.
type BulkSubmitOrder struct {
	InstitutionName      string                 `json:"institution_name" binding:"required"`
	OrderDate            string                 `json:"order_date" binding:"required"`
	OrderType            string                 `json:"order_type"`
	TotalPortion         int                    `json:"total_portion" binding:"required"`
	DroppingLocationFood string                 `json:"dropping_location_food"`
	StaffAllocation      models.StaffAllocation `json:"staff_allocation" binding:"required"`
	MenuDetails          models.MenuDetails     `json:"menu_details,omitempty"`
	SpecialNotes         string                 `json:"special_notes,omitempty"`
}

type BulkSubmitResult struct {
	Success       bool        `json:"success"`
	OrdersCreated int         `json:"orders_created"`
	OrderIDs      []uuid.UUID `json:"order_ids"`
	TotalPortion  int         `json:"total_portion"`
	Message       string      `json:"message"`
}

// readCSV loads the whole file into header + row maps.
func readCSV(r io.Reader) ([]string, []map[string]string, error) {
	reader := csv.NewReader(r)
	reader.TrimLeadingSpace = true
	// ragged rows stay row-scoped errors, they must not abort the file
	reader.FieldsPerRecord = -1

	records, err := reader.ReadAll()
	if err != nil {
		return nil, nil, fmt.Errorf("%w: invalid CSV format: %v", ErrValidation, err)
	}
	if len(records) < 2 {
		return nil, nil, fmt.Errorf("%w: CSV file is empty", ErrValidation)
	}

	headers := make([]string, len(records[0]))
	for i, h := range records[0] {
		headers[i] = strings.TrimSpace(h)
	}

	rows := make([]map[string]string, 0, len(records)-1)
	for _, record := range records[1:] {
		row := make(map[string]string, len(headers))
		for i, h := range headers {
			if i < len(record) {
				row[h] = record[i]
			}
		}
		rows = append(rows, row)
	}
	return headers, rows, nil
}

// Preview dry-runs a CSV upload. Header-shape failures abort the whole
// request; row failures are collected (fail-soft). Unknown institutions are
// advisory warnings since reference data can be created out-of-band, and
// unusually large orders are flagged but never blocked.
func (s *BulkUploadService) Preview(r io.Reader) (*BulkPreviewResult, error) {
	headers, rows, err := readCSV(r)
	if err != nil {
		return nil, err
	}

	if ok, headerErrors := utils.ValidateCSVHeaders(headers); !ok {
		return nil, fmt.Errorf("%w: invalid CSV headers: %s",
			ErrValidation, strings.Join(headerErrors, "; "))
	}

	result := &BulkPreviewResult{
		CSVFormat:          utils.DetectCSVFormat(headers),
		ParsedRows:         len(rows),
		PreviewData:        []BulkPreviewItem{},
		Orders:             []utils.ParsedOrderRow{},
		ValidationErrors:   []string{},
		ValidationWarnings: []string{},
	}

	for idx, row := range rows {
		rowNumber := idx + 1
		parsed, parseErr := utils.ParseCSVRow(row, rowNumber, headers)
		if parseErr != nil {
			result.ValidationErrors = append(result.ValidationErrors, parseErr.Error())
			result.PreviewData = append(result.PreviewData, BulkPreviewItem{
				RowNumber:            rowNumber,
				InstitutionName:      row["institution_name"],
				OrderDate:            row["order_date"],
				DroppingLocationFood: row["dropping_location_main"],
				StaffAllocation:      models.StaffAllocation{},
				Status:               "error",
				ErrorMessage:         parseErr.Error(),
			})
			continue
		}

		item := BulkPreviewItem{
			RowNumber:            parsed.RowNumber,
			InstitutionName:      parsed.InstitutionName,
			OrderDate:            parsed.OrderDate,
			OrderType:            parsed.OrderType,
			TotalPortion:         parsed.TotalPortion,
			DroppingLocationFood: parsed.DroppingLocationFood,
			StaffAllocation:      parsed.StaffAllocation,
			MenuDetails:          parsed.MenuDetails,
			SpecialNotes:         parsed.SpecialNotes,
			Status:               "ok",
		}
		result.TotalPortion += parsed.TotalPortion

		var institution models.Institution
		lookupErr := config.DB.First(&institution, "name = ?", parsed.InstitutionName).Error
		if errors.Is(lookupErr, gorm.ErrRecordNotFound) {
			warning := fmt.Sprintf("Row %d: Institution '%s' not found in database",
				rowNumber, parsed.InstitutionName)
			result.ValidationWarnings = append(result.ValidationWarnings, warning)
			item.Status = "warning"
			item.ErrorMessage = warning
			result.PreviewData = append(result.PreviewData, item)
			continue
		} else if lookupErr != nil {
			return nil, lookupErr
		}

		if parsed.TotalPortion > largeOrderThreshold {
			result.ValidationWarnings = append(result.ValidationWarnings,
				fmt.Sprintf("Row %d: Large order detected (%d portions)", rowNumber, parsed.TotalPortion))
			item.Status = "warning"
		}

		result.PreviewData = append(result.PreviewData, item)
		result.Orders = append(result.Orders, *parsed)
	}

	result.Success = len(result.ValidationErrors) == 0
	return result, nil
}

// Submit persists an already-previewed order list in one all-or-nothing
// transaction. The first unresolvable institution or inconsistent order
// aborts the whole batch.
func (s *BulkUploadService) Submit(orders []BulkSubmitOrder, confirmed bool, createdBy uuid.UUID) (*BulkSubmitResult, error) {
	if !confirmed {
		return nil, fmt.Errorf("%w: upload must be confirmed", ErrValidation)
	}
	if len(orders) == 0 {
		return nil, fmt.Errorf("%w: no orders to create", ErrValidation)
	}

	result := &BulkSubmitResult{OrderIDs: []uuid.UUID{}}

	err := config.DB.Transaction(func(tx *gorm.DB) error {
		for idx, in := range orders {
			rowNumber := idx + 1

			orderDate, err := time.Parse("2006-01-02", in.OrderDate)
			if err != nil {
				return fmt.Errorf("%w: row %d: invalid order_date '%s'",
					ErrValidation, rowNumber, in.OrderDate)
			}
			if len(in.StaffAllocation) == 0 {
				return fmt.Errorf("%w: row %d: staff_allocation must not be empty",
					ErrValidation, rowNumber)
			}
			if calculated := in.StaffAllocation.Sum(); calculated != in.TotalPortion {
				return fmt.Errorf(
					"%w: row %d: total_portion (%d) does not match sum of staff allocation (%d)",
					ErrValidation, rowNumber, in.TotalPortion, calculated)
			}

			var institution models.Institution
			if err := tx.First(&institution, "name = ?", in.InstitutionName).Error; err != nil {
				if errors.Is(err, gorm.ErrRecordNotFound) {
					return fmt.Errorf("%w: row %d: institution '%s'",
						ErrNotFound, rowNumber, in.InstitutionName)
				}
				return err
			}

			orderType := in.OrderType
			if orderType == "" {
				orderType = "REGULAR"
			}

			order := models.Order{
				InstitutionID:        institution.InstitutionID,
				OrderDate:            orderDate,
				OrderType:            orderType,
				TotalPortion:         in.TotalPortion,
				StaffAllocation:      in.StaffAllocation,
				MenuDetails:          in.MenuDetails,
				DroppingLocationFood: in.DroppingLocationFood,
				SpecialNotes:         in.SpecialNotes,
				Status:               models.StatusDraft,
				CreatedBy:            createdBy,
			}
			if err := tx.Create(&order).Error; err != nil {
				return err
			}

			result.OrderIDs = append(result.OrderIDs, order.OrderID)
			result.TotalPortion += in.TotalPortion
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	result.Success = true
	result.OrdersCreated = len(result.OrderIDs)
	result.Message = fmt.Sprintf("Successfully created %d orders", result.OrdersCreated)

	config.Logger.Info("bulk upload completed",
		zap.Int("orders_created", result.OrdersCreated),
		zap.Int("total_portion", result.TotalPortion))

	return result, nil
}
