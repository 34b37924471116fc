package handlers

import (
	"net/http"
	"strings"

	"backend/internal/domain/models"
	"backend/internal/http/middleware"
	"backend/internal/repositories"
	"backend/internal/services"

	"github.com/gin-gonic/gin"
)

func bookingService(c *gin.Context) services.BookingService {
	svc := services.BookingService{
		AdventureRepo: repositories.AdventureRepository{},
		AgencyRepo:    repositories.AgencyRepository{},
		BookingRepo:   repositories.BookingRepository{},
		RequestID:     middleware.GetRequestID(c),
	}
	if uid, ok := middleware.AuthUserID(c); ok {
		svc.ActorID = &uid
	}
	return svc
}

// GET /api/adventures/:id/times?date=YYYY-MM-DD
func GetAdventureTimes(c *gin.Context) {
	id, ok := paramID(c)
	if !ok {
		return
	}
	date := strings.TrimSpace(c.Query("date"))
	if date == "" {
		RespondError(c, http.StatusBadRequest, "parâmetro date obrigatório", nil)
		return
	}
	times, err := bookingService(c).ResolveAvailableTimes(id, date)
	if err != nil {
		RespondDomainError(c, err)
		return
	}
	if times == nil {
		times = []string{}
	}
	c.JSON(http.StatusOK, gin.H{"date": date, "times": times})
}

type availabilityRequest struct {
	AdventureID int64  `json:"adventureId"`
	Date        string `json:"date"`
	Time        string `json:"time"`
	Adults      int    `json:"adults"`
	Children    int    `json:"children"`
	Babies      int    `json:"babies"`
}

// POST /api/availability/check. Advisory only; nada é reservado aqui.
func CheckAvailability(c *gin.Context) {
	var req availabilityRequest
	if !BindJSONOrError(c, &req) {
		return
	}
	counts := models.ParticipantCounts{Adults: req.Adults, Children: req.Children, Babies: req.Babies}
	result, err := bookingService(c).CheckAvailability(req.AdventureID, req.Date, req.Time, counts)
	if err != nil {
		RespondDomainError(c, err)
		return
	}
	c.JSON(http.StatusOK, result)
}

type quoteRequest struct {
	AdventureID int64  `json:"adventureId"`
	Adults      int    `json:"adults"`
	Children    int    `json:"children"`
	Babies      int    `json:"babies"`
	AgencyID    *int64 `json:"agencyId"`
}

// POST /api/bookings/quote
func GetBookingQuote(c *gin.Context) {
	var req quoteRequest
	if !BindJSONOrError(c, &req) {
		return
	}
	counts := models.ParticipantCounts{Adults: req.Adults, Children: req.Children, Babies: req.Babies}
	quote, err := bookingService(c).Quote(req.AdventureID, counts, req.AgencyID)
	if err != nil {
		RespondDomainError(c, err)
		return
	}
	c.JSON(http.StatusOK, quote)
}

type submitBookingRequest struct {
	AdventureID   int64   `json:"adventureId"`
	Date          string  `json:"date"`
	Time          string  `json:"time"`
	Adults        int     `json:"adults"`
	Children      int     `json:"children"`
	Babies        int     `json:"babies"`
	CustomerName  string  `json:"customerName"`
	CustomerPhone string  `json:"customerPhone"`
	PaymentMethod string  `json:"paymentMethod"`
	AgencyID      *int64  `json:"agencyId"`
	DepositAmount float64 `json:"depositAmount"`
	Status        string  `json:"status"`
}

// POST /api/bookings. Roda as duas fases do guard e persiste na aceitação.
func SubmitBooking(c *gin.Context) {
	var req submitBookingRequest
	if !BindJSONOrError(c, &req) {
		return
	}

	// Requisições autenticadas são do staff e podem escolher o status inicial.
	staff := middleware.AuthRole(c) != ""

	booking, err := bookingService(c).Submit(services.SubmitRequest{
		AdventureID:   req.AdventureID,
		TripDate:      req.Date,
		TripTime:      req.Time,
		Counts:        models.ParticipantCounts{Adults: req.Adults, Children: req.Children, Babies: req.Babies},
		CustomerName:  req.CustomerName,
		CustomerPhone: req.CustomerPhone,
		PaymentMethod: req.PaymentMethod,
		AgencyID:      req.AgencyID,
		DepositAmount: req.DepositAmount,
		Staff:         staff,
		InitialStatus: req.Status,
	})
	if err != nil {
		RespondDomainError(c, err)
		return
	}
	c.JSON(http.StatusCreated, booking)
}

// GET /api/bookings/:id
func GetBookingByID(c *gin.Context) {
	id, ok := paramID(c)
	if !ok {
		return
	}
	b, err := repositories.BookingRepository{}.GetByID(id)
	if err != nil {
		RespondDomainError(c, err)
		return
	}
	c.JSON(http.StatusOK, b)
}

// GET /api/bookings?reference=REF busca pelo código compartilhado com o
// cliente; GET /api/bookings?adventureId=&date=&time= lista as reservas do
// slot, canceladas incluídas.
func GetBookingsBySlot(c *gin.Context) {
	if ref := strings.TrimSpace(c.Query("reference")); ref != "" {
		b, err := repositories.BookingRepository{}.GetByReference(ref)
		if err != nil {
			RespondDomainError(c, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"bookings": []models.Booking{b}})
		return
	}

	id, ok := queryID(c, "adventureId")
	if !ok {
		return
	}
	date := strings.TrimSpace(c.Query("date"))
	tm := strings.TrimSpace(c.Query("time"))
	if date == "" || tm == "" {
		RespondError(c, http.StatusBadRequest, "adventureId, date e time obrigatórios", nil)
		return
	}
	out, err := repositories.BookingRepository{}.ListBySlot(id, date, tm)
	if err != nil {
		RespondDomainError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"bookings": out})
}

type statusRequest struct {
	Status string `json:"status"`
}

// PUT /api/bookings/:id/status
func UpdateBookingStatus(c *gin.Context) {
	id, ok := paramID(c)
	if !ok {
		return
	}
	var req statusRequest
	if !BindJSONOrError(c, &req) {
		return
	}
	if err := bookingService(c).UpdateStatus(id, req.Status); err != nil {
		RespondDomainError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "status atualizado", "id": id, "status": req.Status})
}

type paymentStatusRequest struct {
	PaymentStatus string `json:"paymentStatus"`
}

// PUT /api/bookings/:id/payment-status
func UpdateBookingPaymentStatus(c *gin.Context) {
	id, ok := paramID(c)
	if !ok {
		return
	}
	var req paymentStatusRequest
	if !BindJSONOrError(c, &req) {
		return
	}
	if err := bookingService(c).UpdatePaymentStatus(id, req.PaymentStatus); err != nil {
		RespondDomainError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "pagamento atualizado", "id": id, "paymentStatus": req.PaymentStatus})
}

func voucherService(c *gin.Context) services.VoucherService {
	return services.VoucherService{
		BookingRepo:   repositories.BookingRepository{},
		AdventureRepo: repositories.AdventureRepository{},
		AgencyRepo:    repositories.AgencyRepository{},
		RequestID:     middleware.GetRequestID(c),
	}
}

// GET /api/bookings/:id/voucher
func GetBookingVoucherPDF(c *gin.Context) {
	id, ok := paramID(c)
	if !ok {
		return
	}
	pdf, filename, err := voucherService(c).GenerateVoucher(id)
	if err != nil {
		RespondDomainError(c, err)
		return
	}
	c.Header("Content-Disposition", `attachment; filename="`+filename+`"`)
	c.Data(http.StatusOK, "application/pdf", pdf)
}

// GET /api/bookings/:id/invoice
func GetBookingInvoicePDF(c *gin.Context) {
	id, ok := paramID(c)
	if !ok {
		return
	}
	pdf, filename, err := voucherService(c).GenerateInvoice(id)
	if err != nil {
		RespondDomainError(c, err)
		return
	}
	c.Header("Content-Disposition", `attachment; filename="`+filename+`"`)
	c.Data(http.StatusOK, "application/pdf", pdf)
}

func queryID(c *gin.Context, name string) (int64, bool) {
	id, err := parseID(c.Query(name))
	if err != nil {
		RespondError(c, http.StatusBadRequest, name+" inválido", nil)
		return 0, false
	}
	return id, true
}
