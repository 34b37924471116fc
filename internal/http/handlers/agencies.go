package handlers

import (
	"net/http"

	"backend/internal/domain/models"
	"backend/internal/repositories"

	"github.com/gin-gonic/gin"
)

type agencyRequest struct {
	Name              string  `json:"name"`
	CommissionPercent float64 `json:"commissionPercent"`
	IsActive          *bool   `json:"isActive"`
}

func GetAgencies(c *gin.Context) {
	out, err := repositories.AgencyRepository{}.List()
	if err != nil {
		RespondDomainError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"agencies": out})
}

func GetAgencyByID(c *gin.Context) {
	id, ok := paramID(c)
	if !ok {
		return
	}
	ag, err := repositories.AgencyRepository{}.GetByID(id)
	if err != nil {
		RespondDomainError(c, err)
		return
	}
	c.JSON(http.StatusOK, ag)
}

func CreateAgency(c *gin.Context) {
	var req agencyRequest
	if !BindJSONOrError(c, &req) {
		return
	}
	ag := agencyFromRequest(req)
	id, err := repositories.AgencyRepository{}.Create(ag)
	if err != nil {
		RespondDomainError(c, err)
		return
	}
	ag.ID = id
	c.JSON(http.StatusCreated, ag)
}

func UpdateAgency(c *gin.Context) {
	id, ok := paramID(c)
	if !ok {
		return
	}
	var req agencyRequest
	if !BindJSONOrError(c, &req) {
		return
	}
	ag := agencyFromRequest(req)
	ag.ID = id
	if err := (repositories.AgencyRepository{}).Update(ag); err != nil {
		RespondDomainError(c, err)
		return
	}
	c.JSON(http.StatusOK, ag)
}

func agencyFromRequest(req agencyRequest) models.Agency {
	active := true
	if req.IsActive != nil {
		active = *req.IsActive
	}
	return models.Agency{
		Name:              req.Name,
		CommissionPercent: req.CommissionPercent,
		IsActive:          active,
	}
}
