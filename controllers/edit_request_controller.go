package controllers

import (
	"net/http"
	"strconv"

	"backend/middlewares"
	"backend/models"
	"backend/services"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

var editRequestService = services.NewEditRequestService()

type EditRequestCreateBody struct {
	OrderID          uuid.UUID        `json:"order_id" binding:"required"`
	RequestedChanges models.ChangeSet `json:"requested_changes" binding:"required"`
	ChangeReason     string           `json:"change_reason"`
}

func CreateEditRequest(c *gin.Context) {
	var body EditRequestCreateBody
	if err := c.ShouldBindJSON(&body); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	user := middlewares.CurrentUser(c)
	editRequest, err := editRequestService.Create(body.OrderID, body.RequestedChanges, body.ChangeReason, user.ID)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, editRequest)
}

func ListEditRequests(c *gin.Context) {
	filter := services.EditRequestFilter{ApprovalStatus: c.Query("approval_status")}

	if raw := c.Query("institution_id"); raw != "" {
		id, err := uuid.Parse(raw)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid institution_id"})
			return
		}
		filter.InstitutionID = &id
	}
	if raw := c.Query("order_id"); raw != "" {
		id, err := uuid.Parse(raw)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid order_id"})
			return
		}
		filter.OrderID = &id
	}
	filter.Skip, _ = strconv.Atoi(c.DefaultQuery("skip", "0"))
	filter.Limit, _ = strconv.Atoi(c.DefaultQuery("limit", "50"))

	requests, err := editRequestService.List(filter)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, requests)
}

func ListPendingEditRequests(c *gin.Context) {
	skip, _ := strconv.Atoi(c.DefaultQuery("skip", "0"))
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "50"))

	requests, err := editRequestService.Pending(skip, limit)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, requests)
}

func ApproveEditRequest(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid edit request id"})
		return
	}

	user := middlewares.CurrentUser(c)
	editRequest, err := editRequestService.Approve(id, user.ID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, editRequest)
}

func RejectEditRequest(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid edit request id"})
		return
	}

	user := middlewares.CurrentUser(c)
	editRequest, err := editRequestService.Reject(id, user.ID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, editRequest)
}

type AcceptWithNoteBody struct {
	ApprovalComment string `json:"approval_comment" binding:"required"`
}

func AcceptEditRequestWithNote(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid edit request id"})
		return
	}

	var body AcceptWithNoteBody
	if err := c.ShouldBindJSON(&body); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	user := middlewares.CurrentUser(c)
	editRequest, err := editRequestService.AcceptWithNote(id, user.ID, body.ApprovalComment)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, editRequest)
}
