package handlers

import (
	"net/http"
	"strconv"
	"strings"

	"backend/internal/domain"
	"backend/internal/domain/models"
	"backend/internal/repositories"
	"backend/internal/utils"

	"github.com/gin-gonic/gin"
)

type adventureRequest struct {
	Name        string                `json:"name"`
	Description string                `json:"description"`
	PriceAdult  float64               `json:"priceAdult"`
	PriceChild  float64               `json:"priceChild"`
	PriceBaby   float64               `json:"priceBaby"`
	MinCapacity *int                  `json:"minCapacity"`
	MaxCapacity *int                  `json:"maxCapacity"`
	IsActive    *bool                 `json:"isActive"`
	HighSeason  models.SeasonSchedule `json:"highSeason"`
	LowSeason   models.SeasonSchedule `json:"lowSeason"`
}

// GET /api/adventures?active=true
func GetAdventures(c *gin.Context) {
	activeOnly := strings.EqualFold(c.Query("active"), "true")
	out, err := repositories.AdventureRepository{}.List(activeOnly)
	if err != nil {
		RespondDomainError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"adventures": out})
}

// GET /api/adventures/:id
func GetAdventureByID(c *gin.Context) {
	id, ok := paramID(c)
	if !ok {
		return
	}
	adv, err := repositories.AdventureRepository{}.GetByID(id)
	if err != nil {
		RespondDomainError(c, err)
		return
	}
	c.JSON(http.StatusOK, adv)
}

// POST /api/adventures
func CreateAdventure(c *gin.Context) {
	var req adventureRequest
	if !BindJSONOrError(c, &req) {
		return
	}
	adv, err := adventureFromRequest(req)
	if err != nil {
		RespondDomainError(c, err)
		return
	}
	id, err := repositories.AdventureRepository{}.Create(adv)
	if err != nil {
		RespondDomainError(c, err)
		return
	}
	adv.ID = id
	c.JSON(http.StatusCreated, adv)
}

// PUT /api/adventures/:id
func UpdateAdventure(c *gin.Context) {
	id, ok := paramID(c)
	if !ok {
		return
	}
	var req adventureRequest
	if !BindJSONOrError(c, &req) {
		return
	}
	adv, err := adventureFromRequest(req)
	if err != nil {
		RespondDomainError(c, err)
		return
	}
	adv.ID = id
	if err := (repositories.AdventureRepository{}).Update(adv); err != nil {
		RespondDomainError(c, err)
		return
	}
	c.JSON(http.StatusOK, adv)
}

// DELETE /api/adventures/:id (soft delete: bookings antigas continuam válidas)
func DeactivateAdventure(c *gin.Context) {
	id, ok := paramID(c)
	if !ok {
		return
	}
	if err := (repositories.AdventureRepository{}).SetActive(id, false); err != nil {
		RespondDomainError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "adventure desativada", "id": id})
}

func adventureFromRequest(req adventureRequest) (models.Adventure, error) {
	if strings.TrimSpace(req.Name) == "" {
		return models.Adventure{}, domain.ValidationError{Field: "name", Msg: "nome obrigatório"}
	}
	if req.PriceAdult < 0 || req.PriceChild < 0 || req.PriceBaby < 0 {
		return models.Adventure{}, domain.ValidationError{Field: "prices", Msg: "preço negativo"}
	}
	if req.MinCapacity != nil && *req.MinCapacity < 0 {
		return models.Adventure{}, domain.ValidationError{Field: "min_capacity", Msg: "valor negativo"}
	}
	if req.MaxCapacity != nil && *req.MaxCapacity < 1 {
		return models.Adventure{}, domain.ValidationError{Field: "max_capacity", Msg: "deve ser pelo menos 1"}
	}
	if req.MinCapacity != nil && req.MaxCapacity != nil && *req.MinCapacity > *req.MaxCapacity {
		return models.Adventure{}, domain.ValidationError{Field: "min_capacity", Msg: "mínimo maior que o máximo"}
	}

	high, err := normalizeSeason(req.HighSeason, "high_season")
	if err != nil {
		return models.Adventure{}, err
	}
	low, err := normalizeSeason(req.LowSeason, "low_season")
	if err != nil {
		return models.Adventure{}, err
	}

	active := true
	if req.IsActive != nil {
		active = *req.IsActive
	}

	return models.Adventure{
		Name:        strings.TrimSpace(req.Name),
		Description: strings.TrimSpace(req.Description),
		PriceAdult:  utils.RoundMoney(req.PriceAdult),
		PriceChild:  utils.RoundMoney(req.PriceChild),
		PriceBaby:   utils.RoundMoney(req.PriceBaby),
		MinCapacity: req.MinCapacity,
		MaxCapacity: req.MaxCapacity,
		IsActive:    active,
		HighSeason:  high,
		LowSeason:   low,
	}, nil
}

// normalizeSeason validates the interval and canonicalizes times to HH:MM.
// An entirely empty schedule is allowed: the season is simply not bookable.
func normalizeSeason(s models.SeasonSchedule, field string) (models.SeasonSchedule, error) {
	s.Start = strings.TrimSpace(s.Start)
	s.End = strings.TrimSpace(s.End)
	if s.Start == "" && s.End == "" && len(s.Times) == 0 {
		return models.SeasonSchedule{}, nil
	}
	start, err := utils.ParseDate(s.Start)
	if err != nil {
		return s, domain.ValidationError{Field: field, Msg: "data inicial inválida (YYYY-MM-DD)"}
	}
	end, err := utils.ParseDate(s.End)
	if err != nil {
		return s, domain.ValidationError{Field: field, Msg: "data final inválida (YYYY-MM-DD)"}
	}
	if end.Before(start) {
		return s, domain.ValidationError{Field: field, Msg: "data final antes da inicial"}
	}

	seen := map[string]bool{}
	clean := make([]string, 0, len(s.Times))
	for _, t := range s.Times {
		hhmm, err := utils.NormalizeTime(t)
		if err != nil {
			return s, domain.ValidationError{Field: field, Msg: "horário inválido: " + t}
		}
		if seen[hhmm] {
			continue
		}
		seen[hhmm] = true
		clean = append(clean, hhmm)
	}
	s.Times = clean
	return s, nil
}

func paramID(c *gin.Context) (int64, bool) {
	id, err := parseID(c.Param("id"))
	if err != nil {
		RespondError(c, http.StatusBadRequest, "id inválido", nil)
		return 0, false
	}
	return id, true
}

func parseID(s string) (int64, error) {
	id, err := strconv.ParseInt(strings.TrimSpace(s), 10, 64)
	if err != nil {
		return 0, err
	}
	if id <= 0 {
		return 0, strconv.ErrRange
	}
	return id, nil
}
