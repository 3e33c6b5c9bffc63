package controllers

import (
	"net/http"
	"strconv"
	"time"

	"backend/models"
	"backend/services"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

var feedbackService = services.NewFeedbackService()

func GetOrderForRating(c *gin.Context) {
	institutionID, err := uuid.Parse(c.Param("institution_id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid institution id"})
		return
	}

	order, err := feedbackService.OrderForToday(institutionID, time.Now().UTC())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"order":      order,
		"today_date": order.OrderDate,
	})
}

type FeedbackCreateBody struct {
	OrderID            uuid.UUID          `json:"order_id" binding:"required"`
	MealTime           string             `json:"meal_time" binding:"required"`
	DateOfFeedback     string             `json:"date_of_feedback" binding:"required"`
	UserType           string             `json:"user_type" binding:"required"`
	UserName           string             `json:"user_name"`
	IsAnonymous        bool               `json:"is_anonymous"`
	SpiceLevel         string             `json:"spice_level"`
	AdditionalComments string             `json:"additional_comments"`
	MenuRatings        models.MenuRatings `json:"menu_ratings" binding:"required"`
}

func SubmitFeedbackRating(c *gin.Context) {
	institutionID, err := uuid.Parse(c.Param("institution_id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid institution id"})
		return
	}

	var body FeedbackCreateBody
	if err := c.ShouldBindJSON(&body); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	dateOfFeedback, err := time.Parse("2006-01-02", body.DateOfFeedback)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid date_of_feedback, use YYYY-MM-DD"})
		return
	}

	feedback, err := feedbackService.Submit(institutionID, services.FeedbackCreateInput{
		OrderID:            body.OrderID,
		MealTime:           body.MealTime,
		DateOfFeedback:     dateOfFeedback,
		UserType:           body.UserType,
		UserName:           body.UserName,
		IsAnonymous:        body.IsAnonymous,
		SpiceLevel:         body.SpiceLevel,
		AdditionalComments: body.AdditionalComments,
		MenuRatings:        body.MenuRatings,
	})
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, feedback)
}

func ListFeedbackRatings(c *gin.Context) {
	filter := services.FeedbackFilter{}

	if raw := c.Query("institution_id"); raw != "" {
		id, err := uuid.Parse(raw)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid institution_id"})
			return
		}
		filter.InstitutionID = &id
	}
	if raw := c.Query("date_of_feedback"); raw != "" {
		d, err := time.Parse("2006-01-02", raw)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid date_of_feedback, use YYYY-MM-DD"})
			return
		}
		filter.DateOfFeedback = &d
	}
	filter.Skip, _ = strconv.Atoi(c.DefaultQuery("skip", "0"))
	filter.Limit, _ = strconv.Atoi(c.DefaultQuery("limit", "50"))

	list, err := feedbackService.List(filter)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, list)
}
