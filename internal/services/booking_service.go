package services

import (
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	bk "backend/internal/booking"
	intconfig "backend/internal/config"
	"backend/internal/domain"
	"backend/internal/domain/models"
	"backend/internal/pricing"
	"backend/internal/repositories"
	"backend/internal/season"
	"backend/internal/utils"

	"github.com/go-sql-driver/mysql"
	"github.com/google/uuid"
)

// BookingService runs the two-phase admission flow: an advisory check that
// feeds live UI feedback, and an authoritative commit that re-validates
// occupancy under a row lock in the same transaction as the insert.
type BookingService struct {
	AdventureRepo repositories.AdventureRepository
	AgencyRepo    repositories.AgencyRepository
	BookingRepo   repositories.BookingRepository
	DB            *sql.DB
	RequestID     string

	// ActorID is the authenticated staff user behind the call, when any;
	// it shows up in the audit log lines.
	ActorID *int64

	// NewReference is overridable in tests; defaults to a UUID.
	NewReference func() string
}

func (s BookingService) actor() string {
	if s.ActorID == nil {
		return ""
	}
	return fmt.Sprintf(" actor_id=%d", *s.ActorID)
}

func (s BookingService) db() *sql.DB {
	if s.DB != nil {
		return s.DB
	}
	return intconfig.DB
}

func (s BookingService) reference() string {
	if s.NewReference != nil {
		return s.NewReference()
	}
	return uuid.NewString()
}

// AvailabilityResult is the advisory answer shown while the user fills the
// form. Remaining is nil when the adventure has no capacity ceiling.
type AvailabilityResult struct {
	OK        bool           `json:"ok"`
	Remaining *int           `json:"remaining,omitempty"`
	Reason    *domain.Reason `json:"reason,omitempty"`
}

// SubmitRequest carries a reservation request end to end.
type SubmitRequest struct {
	AdventureID   int64
	TripDate      string
	TripTime      string
	Counts        models.ParticipantCounts
	CustomerName  string
	CustomerPhone string
	PaymentMethod string
	AgencyID      *int64
	DepositAmount float64

	// Staff bookings may start Confirmed; customer bookings always Pending.
	Staff         bool
	InitialStatus string
}

// ResolveAvailableTimes wraps the season resolver for the UI layer.
func (s BookingService) ResolveAvailableTimes(adventureID int64, date string) ([]string, error) {
	d, err := utils.ParseDate(date)
	if err != nil {
		return nil, domain.ValidationError{Field: "date", Msg: "data inválida (YYYY-MM-DD)", Err: err}
	}
	date = utils.FormatDate(d)
	adv, err := s.AdventureRepo.GetByID(adventureID)
	if err != nil {
		return nil, err
	}
	return season.ResolveTimes(adv.HighSeason, adv.LowSeason, date), nil
}

// CheckAvailability is phase 1: non-blocking, may read stale occupancy, and
// never admits anything by itself. Repeated calls with no intervening writes
// return the same result.
func (s BookingService) CheckAvailability(adventureID int64, date, tm string, counts models.ParticipantCounts) (AvailabilityResult, error) {
	if err := validateCounts(counts); err != nil {
		return AvailabilityResult{}, err
	}
	tm, err := utils.NormalizeTime(tm)
	if err != nil {
		return AvailabilityResult{}, domain.ValidationError{Field: "time", Msg: err.Error()}
	}
	d, err := utils.ParseDate(date)
	if err != nil {
		return AvailabilityResult{}, domain.ValidationError{Field: "date", Msg: "data inválida (YYYY-MM-DD)", Err: err}
	}
	date = utils.FormatDate(d)

	adv, err := s.AdventureRepo.GetByID(adventureID)
	if err != nil {
		return AvailabilityResult{}, err
	}
	if !adv.IsActive {
		return AvailabilityResult{}, domain.ValidationError{Field: "adventure_id", Msg: "adventure inativa"}
	}

	occ := 0
	if adv.MaxCapacity != nil {
		if occ, err = s.BookingRepo.Occupancy(adventureID, date, tm); err != nil {
			return AvailabilityResult{}, err
		}
	}

	if adm := evaluateSlot(adv, date, tm, counts, occ); adm != nil {
		reason := adm.Reason
		return AvailabilityResult{OK: false, Remaining: adm.Remaining, Reason: &reason}, nil
	}
	return AvailabilityResult{OK: true, Remaining: remainingFor(adv, occ)}, nil
}

// Quote prices a party without touching availability.
func (s BookingService) Quote(adventureID int64, counts models.ParticipantCounts, agencyID *int64) (pricing.Quote, error) {
	if err := validateCounts(counts); err != nil {
		return pricing.Quote{}, err
	}
	adv, err := s.AdventureRepo.GetByID(adventureID)
	if err != nil {
		return pricing.Quote{}, err
	}
	fee, err := s.agencyFee(agencyID)
	if err != nil {
		return pricing.Quote{}, err
	}
	return pricing.Compute(adv, counts, fee).Rounded(), nil
}

// Submit runs both phases and persists on acceptance. The authoritative
// check and the insert share one transaction: the occupancy re-read happens
// after a row lock on the adventure, so two racing submissions serialize and
// the loser is rejected with ConcurrentConflict instead of overbooking.
func (s BookingService) Submit(req SubmitRequest) (models.Booking, error) {
	if err := validateCounts(req.Counts); err != nil {
		return models.Booking{}, err
	}
	if strings.TrimSpace(req.CustomerName) == "" {
		return models.Booking{}, domain.ValidationError{Field: "customer_name", Msg: "nome do cliente obrigatório"}
	}
	tm, err := utils.NormalizeTime(req.TripTime)
	if err != nil {
		return models.Booking{}, domain.ValidationError{Field: "time", Msg: err.Error()}
	}
	d, err := utils.ParseDate(req.TripDate)
	if err != nil {
		return models.Booking{}, domain.ValidationError{Field: "date", Msg: "data inválida (YYYY-MM-DD)", Err: err}
	}
	// data e hora entram canônicas no banco, nunca como o cliente digitou
	req.TripDate = utils.FormatDate(d)

	adv, err := s.AdventureRepo.GetByID(req.AdventureID)
	if err != nil {
		return models.Booking{}, err
	}
	if !adv.IsActive {
		return models.Booking{}, domain.ValidationError{Field: "adventure_id", Msg: "adventure inativa"}
	}
	fee, err := s.agencyFee(req.AgencyID)
	if err != nil {
		return models.Booking{}, err
	}

	// Fase 1 (advisory): rejeita cedo o que já não cabe.
	occ := 0
	if adv.MaxCapacity != nil {
		if occ, err = s.BookingRepo.Occupancy(req.AdventureID, req.TripDate, tm); err != nil {
			return models.Booking{}, err
		}
	}
	if adm := evaluateSlot(adv, req.TripDate, tm, req.Counts, occ); adm != nil {
		return models.Booking{}, *adm
	}

	// Preços do momento da criação; não mudam depois.
	quote := pricing.Compute(adv, req.Counts, fee).Rounded()
	status, payStatus := bk.Initial(req.Staff, req.InitialStatus)

	draft := models.Booking{
		Reference:        s.reference(),
		AdventureID:      req.AdventureID,
		AgencyID:         req.AgencyID,
		TripDate:         req.TripDate,
		TripTime:         tm,
		Adults:           req.Counts.Adults,
		Children:         req.Counts.Children,
		Babies:           req.Counts.Babies,
		CustomerName:     strings.TrimSpace(req.CustomerName),
		CustomerPhone:    strings.TrimSpace(req.CustomerPhone),
		PaymentMethod:    normalizePaymentMethod(req.PaymentMethod),
		Status:           string(status),
		PaymentStatus:    string(payStatus),
		TotalAmount:      quote.Gross,
		CommissionAmount: quote.Commission,
		NetAmount:        quote.Net,
		DepositAmount:    utils.RoundMoney(req.DepositAmount),
	}

	// Fase 2 (authoritative): lock + re-check + insert, uma transação só.
	tx, err := s.db().Begin()
	if err != nil {
		return models.Booking{}, domain.PersistenceError{Msg: "falha ao abrir transação", Err: err}
	}
	defer tx.Rollback()

	if err := s.BookingRepo.LockAdventure(tx, req.AdventureID); err != nil {
		return models.Booking{}, err
	}
	if adv.MaxCapacity != nil {
		occNow, err := s.BookingRepo.OccupancyIn(tx, req.AdventureID, req.TripDate, tm)
		if err != nil {
			return models.Booking{}, err
		}
		if occNow+req.Counts.Total() > *adv.MaxCapacity {
			remaining := clampRemaining(*adv.MaxCapacity - occNow)
			utils.LogEvent(s.RequestID, "booking", "submit",
				fmt.Sprintf("conflito concorrente adventure_id=%d slot=%s %s", req.AdventureID, req.TripDate, tm))
			return models.Booking{}, domain.AdmissionError{
				Reason:    domain.ReasonConcurrentConflict,
				Msg:       "a vaga foi ocupada por outra reserva",
				Remaining: &remaining,
			}
		}
	}

	id, err := s.BookingRepo.CreateIn(tx, draft)
	if err != nil {
		var me *mysql.MySQLError
		if errors.As(err, &me) && me.Number == 1062 {
			return models.Booking{}, domain.ConflictError{Resource: "booking", Msg: "referência duplicada", Err: err}
		}
		return models.Booking{}, err
	}
	if err := tx.Commit(); err != nil {
		return models.Booking{}, domain.PersistenceError{Msg: "falha ao confirmar reserva", Err: err}
	}

	draft.ID = id
	draft.CreatedAt = time.Now()
	utils.LogEvent(s.RequestID, "booking", "submit",
		fmt.Sprintf("booking_id=%d reference=%s total=%s%s", id, draft.Reference, utils.FormatMoney(draft.TotalAmount), s.actor()))
	return draft, nil
}

// UpdateStatus applies a staff status transition after lifecycle validation.
// Cancelling frees the slot in the same write (occupancy excludes Cancelled).
func (s BookingService) UpdateStatus(id int64, to string) error {
	target, err := bk.ParseStatus(to)
	if err != nil {
		return err
	}
	b, err := s.BookingRepo.GetByID(id)
	if err != nil {
		return err
	}
	from := bk.Status(b.Status)
	if from == target {
		return nil
	}
	if !bk.CanTransition(from, target) {
		return domain.ValidationError{
			Field: "status",
			Msg:   fmt.Sprintf("transição %s -> %s não permitida", from, target),
		}
	}
	if err := s.BookingRepo.UpdateStatus(id, target); err != nil {
		return err
	}
	utils.LogEvent(s.RequestID, "booking", "status",
		fmt.Sprintf("booking_id=%d %s -> %s%s", id, from, target, s.actor()))
	return nil
}

// UpdatePaymentStatus has no ordering constraint beyond being a known value.
func (s BookingService) UpdatePaymentStatus(id int64, to string) error {
	target, err := bk.ParsePaymentStatus(to)
	if err != nil {
		return err
	}
	if _, err := s.BookingRepo.GetByID(id); err != nil {
		return err
	}
	if err := s.BookingRepo.UpdatePaymentStatus(id, target); err != nil {
		return err
	}
	utils.LogEvent(s.RequestID, "booking", "payment_status",
		fmt.Sprintf("booking_id=%d -> %s%s", id, target, s.actor()))
	return nil
}

func (s BookingService) Cancel(id int64) error {
	return s.UpdateStatus(id, string(bk.StatusCancelled))
}

func (s BookingService) agencyFee(agencyID *int64) (float64, error) {
	if agencyID == nil {
		return 0, nil
	}
	ag, err := s.AgencyRepo.GetByID(*agencyID)
	if err != nil {
		return 0, err
	}
	if !ag.IsActive {
		return 0, domain.ValidationError{Field: "agency_id", Msg: "agência inativa"}
	}
	return ag.CommissionPercent, nil
}

// evaluateSlot runs the admission comparisons shared by both phases.
// Returns nil when the request fits.
func evaluateSlot(adv models.Adventure, date, tm string, counts models.ParticipantCounts, occupancy int) *domain.AdmissionError {
	times := season.ResolveTimes(adv.HighSeason, adv.LowSeason, date)
	if len(times) == 0 {
		return &domain.AdmissionError{
			Reason: domain.ReasonSeasonNotConfigured,
			Msg:    "nenhuma temporada cobre esta data",
		}
	}
	if !season.HasTime(times, tm) {
		return &domain.AdmissionError{
			Reason: domain.ReasonInvalidSlot,
			Msg:    "horário fora da temporada vigente",
		}
	}
	if adv.MinCapacity != nil && counts.Total() < *adv.MinCapacity {
		return &domain.AdmissionError{
			Reason: domain.ReasonBelowMinimum,
			Msg:    fmt.Sprintf("mínimo de %d participantes", *adv.MinCapacity),
		}
	}
	if adv.MaxCapacity != nil && occupancy+counts.Total() > *adv.MaxCapacity {
		remaining := clampRemaining(*adv.MaxCapacity - occupancy)
		return &domain.AdmissionError{
			Reason:    domain.ReasonCapacityExceeded,
			Msg:       fmt.Sprintf("restam %d vagas neste horário", remaining),
			Remaining: &remaining,
		}
	}
	return nil
}

func validateCounts(c models.ParticipantCounts) error {
	if c.Adults < 0 || c.Children < 0 || c.Babies < 0 {
		return domain.ValidationError{Field: "participants", Msg: "contagem negativa"}
	}
	if c.Total() < 1 {
		return domain.ValidationError{Field: "participants", Msg: "pelo menos 1 participante"}
	}
	return nil
}

func remainingFor(adv models.Adventure, occupancy int) *int {
	if adv.MaxCapacity == nil {
		return nil
	}
	r := clampRemaining(*adv.MaxCapacity - occupancy)
	return &r
}

func clampRemaining(n int) int {
	if n < 0 {
		return 0
	}
	return n
}

func normalizePaymentMethod(s string) string {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "cash", "card", "transfer", "pix":
		return strings.ToLower(strings.TrimSpace(s))
	default:
		return ""
	}
}
