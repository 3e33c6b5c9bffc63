package controllers

import (
	"net/http"

	"backend/services"

	"github.com/gin-gonic/gin"
)

var institutionService = services.NewInstitutionService()

func ListInstitutions(c *gin.Context) {
	institutions, err := institutionService.ListActive()
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, institutions)
}

type InstitutionCreateBody struct {
	Name          string `json:"name" binding:"required"`
	Type          string `json:"type" binding:"required"`
	ContactEmail  string `json:"contact_email" binding:"required,email"`
	ContactPerson string `json:"contact_person"`
	TotalUsers    int    `json:"total_users"`
}

func CreateInstitution(c *gin.Context) {
	var body InstitutionCreateBody
	if err := c.ShouldBindJSON(&body); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	institution, err := institutionService.Create(services.InstitutionCreateInput{
		Name:          body.Name,
		Type:          body.Type,
		ContactEmail:  body.ContactEmail,
		ContactPerson: body.ContactPerson,
		TotalUsers:    body.TotalUsers,
	})
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, institution)
}
