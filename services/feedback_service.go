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

type FeedbackService struct{}

func NewFeedbackService() *FeedbackService {
	return &FeedbackService{}
}

// OrderForRating is today's order for an institution, shaped for the rating
// form.
type OrderForRating struct {
	OrderID         uuid.UUID          `json:"order_id"`
	InstitutionID   uuid.UUID          `json:"institution_id"`
	InstitutionName string             `json:"institution_name,omitempty"`
	OrderDate       string             `json:"order_date"`
	MenuDetails     models.MenuDetails `json:"menu_details"`
}

func (s *FeedbackService) OrderForToday(institutionID uuid.UUID, today time.Time) (*OrderForRating, error) {
	dayStart := today.Truncate(24 * time.Hour)
	dayEnd := dayStart.Add(24 * time.Hour)

	var order models.Order
	err := config.DB.Preload("Institution").
		Where("institution_id = ? AND order_date >= ? AND order_date < ?", institutionID, dayStart, dayEnd).
		Order("created_at DESC").
		First(&order).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("%w: no order found for today (%s) for this institution",
				ErrNotFound, dayStart.Format("2006-01-02"))
		}
		return nil, err
	}

	out := &OrderForRating{
		OrderID:       order.OrderID,
		InstitutionID: order.InstitutionID,
		OrderDate:     order.OrderDate.Format("2006-01-02"),
		MenuDetails:   order.MenuDetails,
	}
	if out.MenuDetails == nil {
		out.MenuDetails = models.MenuDetails{}
	}
	if order.Institution != nil {
		out.InstitutionName = order.Institution.Name
	}
	return out, nil
}

type FeedbackCreateInput struct {
	OrderID            uuid.UUID
	MealTime           string
	DateOfFeedback     time.Time
	UserType           string
	UserName           string
	IsAnonymous        bool
	SpiceLevel         string
	AdditionalComments string
	MenuRatings        models.MenuRatings
}

// Submit stores a feedback rating after checking the order belongs to the
// institution and every rating sits in 1..5.
func (s *FeedbackService) Submit(institutionID uuid.UUID, in FeedbackCreateInput) (*models.FeedbackRating, error) {
	var order models.Order
	err := config.DB.
		Where("order_id = ? AND institution_id = ?", in.OrderID, institutionID).
		First(&order).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("%w: order not found or does not belong to this institution", ErrNotFound)
		}
		return nil, err
	}

	for _, items := range in.MenuRatings {
		for _, item := range items {
			if item.Rating != nil && (*item.Rating < 1 || *item.Rating > 5) {
				return nil, fmt.Errorf("%w: rating must be between 1 and 5, got %d",
					ErrValidation, *item.Rating)
			}
		}
	}

	userName := in.UserName
	if in.IsAnonymous {
		userName = ""
	}

	feedback := models.FeedbackRating{
		InstitutionID:      institutionID,
		OrderID:            in.OrderID,
		MealTime:           in.MealTime,
		DateOfFeedback:     in.DateOfFeedback,
		UserType:           in.UserType,
		UserName:           userName,
		IsAnonymous:        in.IsAnonymous,
		SpiceLevel:         in.SpiceLevel,
		AdditionalComments: in.AdditionalComments,
		MenuRatings:        in.MenuRatings,
	}
	if err := config.DB.Create(&feedback).Error; err != nil {
		return nil, err
	}
	return &feedback, nil
}

type FeedbackFilter struct {
	InstitutionID  *uuid.UUID
	DateOfFeedback *time.Time
	Skip           int
	Limit          int
}

type FeedbackList struct {
	Feedbacks []models.FeedbackRating `json:"feedbacks"`
	Total     int64                   `json:"total"`
	Page      int                     `json:"page"`
	PageSize  int                     `json:"page_size"`
}

func (s *FeedbackService) List(filter FeedbackFilter) (*FeedbackList, error) {
	limit := filter.Limit
	if limit <= 0 || limit > 100 {
		limit = 50
	}

	applyFilter := func(q *gorm.DB) *gorm.DB {
		if filter.InstitutionID != nil {
			q = q.Where("institution_id = ?", *filter.InstitutionID)
		}
		if filter.DateOfFeedback != nil {
			dayStart := filter.DateOfFeedback.Truncate(24 * time.Hour)
			q = q.Where("date_of_feedback >= ? AND date_of_feedback < ?", dayStart, dayStart.Add(24*time.Hour))
		}
		return q
	}

	var total int64
	if err := applyFilter(config.DB.Model(&models.FeedbackRating{})).Count(&total).Error; err != nil {
		return nil, err
	}

	var feedbacks []models.FeedbackRating
	err := applyFilter(config.DB.Model(&models.FeedbackRating{})).
		Preload("Institution").
		Order("created_at DESC").
		Offset(filter.Skip).Limit(limit).
		Find(&feedbacks).Error
	if err != nil {
		return nil, err
	}

	return &FeedbackList{
		Feedbacks: feedbacks,
		Total:     total,
		Page:      filter.Skip/limit + 1,
		PageSize:  limit,
	}, nil
}
