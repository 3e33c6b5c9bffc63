package controllers

import (
	"net/http"
	"strconv"
	"time"

	"backend/middlewares"
	"backend/models"
	"backend/services"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

var orderService = services.NewOrderService()

type OrderCreateBody struct {
	InstitutionID        uuid.UUID              `json:"institution_id" binding:"required"`
	OrderDate            string                 `json:"order_date" binding:"required"`
	OrderType            string                 `json:"order_type"`
	TotalPortion         int                    `json:"total_portion" binding:"required"`
	StaffAllocation      models.StaffAllocation `json:"staff_allocation" binding:"required"`
	MenuDetails          models.MenuDetails     `json:"menu_details"`
	DroppingLocationFood string                 `json:"dropping_location_food"`
	SpecialNotes         string                 `json:"special_notes"`
}

func CreateOrder(c *gin.Context) {
	var body OrderCreateBody
	if err := c.ShouldBindJSON(&body); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	orderDate, err := time.Parse("2006-01-02", body.OrderDate)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid order_date, use YYYY-MM-DD"})
		return
	}

	user := middlewares.CurrentUser(c)
	order, err := orderService.Create(services.OrderCreateInput{
		InstitutionID:        body.InstitutionID,
		OrderDate:            orderDate,
		OrderType:            body.OrderType,
		TotalPortion:         body.TotalPortion,
		StaffAllocation:      body.StaffAllocation,
		MenuDetails:          body.MenuDetails,
		DroppingLocationFood: body.DroppingLocationFood,
		SpecialNotes:         body.SpecialNotes,
	}, user.ID)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, order)
}

func ListOrders(c *gin.Context) {
	filter := services.OrderFilter{Status: c.Query("status")}

	if raw := c.Query("institution_id"); raw != "" {
		id, err := uuid.Parse(raw)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid institution_id"})
			return
		}
		filter.InstitutionID = &id
	}
	filter.Skip, _ = strconv.Atoi(c.DefaultQuery("skip", "0"))
	filter.Limit, _ = strconv.Atoi(c.DefaultQuery("limit", "50"))

	orders, err := orderService.List(filter)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, orders)
}

func GetOrder(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid order id"})
		return
	}

	order, err := orderService.Get(id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, order)
}

type OrderUpdateBody struct {
	OrderDate            *string                `json:"order_date"`
	OrderType            *string                `json:"order_type"`
	TotalPortion         *int                   `json:"total_portion"`
	StaffAllocation      models.StaffAllocation `json:"staff_allocation"`
	MenuDetails          models.MenuDetails     `json:"menu_details"`
	DroppingLocationFood *string                `json:"dropping_location_food"`
	SpecialNotes         *string                `json:"special_notes"`
}

func UpdateOrder(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid order id"})
		return
	}

	var body OrderUpdateBody
	if err := c.ShouldBindJSON(&body); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	in := services.OrderUpdateInput{
		OrderType:            body.OrderType,
		TotalPortion:         body.TotalPortion,
		StaffAllocation:      body.StaffAllocation,
		MenuDetails:          body.MenuDetails,
		DroppingLocationFood: body.DroppingLocationFood,
		SpecialNotes:         body.SpecialNotes,
	}
	if body.OrderDate != nil {
		orderDate, err := time.Parse("2006-01-02", *body.OrderDate)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid order_date, use YYYY-MM-DD"})
			return
		}
		in.OrderDate = &orderDate
	}

	order, err := orderService.Update(id, in, middlewares.CurrentUser(c))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, order)
}

func SubmitOrder(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid order id"})
		return
	}

	order, err := orderService.Submit(id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, order)
}

func DeleteOrder(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid order id"})
		return
	}

	if err := orderService.Delete(id); err != nil {
		respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

type BulkDeleteBody struct {
	OrderIDs []uuid.UUID `json:"order_ids" binding:"required"`
}

func BulkDeleteOrders(c *gin.Context) {
	var body BulkDeleteBody
	if err := c.ShouldBindJSON(&body); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	deleted, err := orderService.BulkDelete(body.OrderIDs)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"deleted": deleted})
}

type StatusUpdateBody struct {
	Status models.OrderStatus `json:"status" binding:"required"`
}

func UpdateOrderStatus(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid order id"})
		return
	}

	var body StatusUpdateBody
	if err := c.ShouldBindJSON(&body); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	user := middlewares.CurrentUser(c)
	order, err := orderService.SetStatus(id, body.Status, user.ID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, order)
}

type StatusUpdateByIDBody struct {
	OrderID uuid.UUID          `json:"order_id" binding:"required"`
	Status  models.OrderStatus `json:"status" binding:"required"`
}

// UpdateOrderStatusByBody is the body-addressed variant of the status set.
func UpdateOrderStatusByBody(c *gin.Context) {
	var body StatusUpdateByIDBody
	if err := c.ShouldBindJSON(&body); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	user := middlewares.CurrentUser(c)
	order, err := orderService.SetStatus(body.OrderID, body.Status, user.ID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, order)
}

func GetOrderTracker(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid order id"})
		return
	}

	tracker, err := orderService.Tracker(id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, tracker)
}
