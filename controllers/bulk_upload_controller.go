package controllers

import (
	"net/http"
	"strings"

	"backend/middlewares"
	"backend/services"

	"github.com/gin-gonic/gin"
)

var bulkUploadService = services.NewBulkUploadService()

// PreviewBulkUpload dry-runs a multipart CSV upload without creating any
// orders.
func PreviewBulkUpload(c *gin.Context) {
	fileHeader, err := c.FormFile("file")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "CSV file is required"})
		return
	}
	if !strings.HasSuffix(strings.ToLower(fileHeader.Filename), ".csv") {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Only CSV files are supported"})
		return
	}

	file, err := fileHeader.Open()
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Failed to read CSV file"})
		return
	}
	defer file.Close()

	result, err := bulkUploadService.Preview(file)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, result)
}

type BulkSubmitBody struct {
	Orders    []services.BulkSubmitOrder `json:"orders" binding:"required"`
	Confirmed bool                       `json:"confirmed"`
}

// SubmitBulkUpload persists a previewed order list transactionally.
func SubmitBulkUpload(c *gin.Context) {
	var body BulkSubmitBody
	if err := c.ShouldBindJSON(&body); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	user := middlewares.CurrentUser(c)
	result, err := bulkUploadService.Submit(body.Orders, body.Confirmed, user.ID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, result)
}
