package services

import (
	"database/sql"
	"testing"
	"time"

	"backend/internal/domain"
	"backend/internal/domain/models"
	"backend/internal/repositories"

	"github.com/DATA-DOG/go-sqlmock"
)

var adventureCols = []string{
	"id", "name", "description",
	"price_adult", "price_child", "price_baby",
	"min_capacity", "max_capacity", "is_active",
	"high_season_start", "high_season_end", "high_season_times",
	"low_season_start", "low_season_end", "low_season_times",
}

func kayakRow() *sqlmock.Rows {
	return sqlmock.NewRows(adventureCols).AddRow(
		1, "Kayak no Rio", "Descida tranquila de 2h",
		45.0, 25.0, 10.0,
		2, 10, true,
		"2026-06-01", "2026-09-15", "09:00,11:30,15:00",
		"2026-09-16", "2026-12-31", "10:00",
	)
}

func newServiceDB(t *testing.T) (BookingService, sqlmock.Sqlmock, *sql.DB) {
	t.Helper()
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock init error: %v", err)
	}
	svc := BookingService{
		AdventureRepo: repositories.AdventureRepository{DB: db},
		AgencyRepo:    repositories.AgencyRepository{DB: db},
		BookingRepo:   repositories.BookingRepository{DB: db},
		DB:            db,
		NewReference:  func() string { return "TEST-REF-1" },
	}
	return svc, mock, db
}

func expectAdventure(mock sqlmock.Sqlmock, id int64, rows *sqlmock.Rows) {
	mock.ExpectQuery(`FROM adventures WHERE id=\? LIMIT 1`).
		WithArgs(id).
		WillReturnRows(rows)
}

func expectOccupancy(mock sqlmock.Sqlmock, id int64, date, tm string, total int) {
	mock.ExpectQuery(`SUM\(adults \+ children \+ babies\)`).
		WithArgs(id, date, tm, "Cancelled").
		WillReturnRows(sqlmock.NewRows([]string{"total"}).AddRow(total))
}

func TestCheckAvailabilityAccepts(t *testing.T) {
	svc, mock, db := newServiceDB(t)
	defer db.Close()

	expectAdventure(mock, 1, kayakRow())
	expectOccupancy(mock, 1, "2026-07-10", "09:00", 7)

	res, err := svc.CheckAvailability(1, "2026-07-10", "09:00", models.ParticipantCounts{Adults: 2})
	if err != nil {
		t.Fatalf("CheckAvailability error: %v", err)
	}
	if !res.OK {
		t.Fatalf("expected OK, got reason %v", res.Reason)
	}
	if res.Remaining == nil || *res.Remaining != 3 {
		t.Fatalf("remaining = %v, want 3", res.Remaining)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}

func TestCheckAvailabilityIdempotentWithoutWrites(t *testing.T) {
	svc, mock, db := newServiceDB(t)
	defer db.Close()

	// duas consultas iguais sobre o mesmo estado devolvem o mesmo resultado
	expectAdventure(mock, 1, kayakRow())
	expectOccupancy(mock, 1, "2026-07-10", "09:00", 7)
	expectAdventure(mock, 1, kayakRow())
	expectOccupancy(mock, 1, "2026-07-10", "09:00", 7)

	counts := models.ParticipantCounts{Adults: 2}
	first, err := svc.CheckAvailability(1, "2026-07-10", "09:00", counts)
	if err != nil {
		t.Fatalf("first CheckAvailability error: %v", err)
	}
	second, err := svc.CheckAvailability(1, "2026-07-10", "09:00", counts)
	if err != nil {
		t.Fatalf("second CheckAvailability error: %v", err)
	}

	if first.OK != second.OK {
		t.Fatalf("OK diverged: %v vs %v", first.OK, second.OK)
	}
	if first.Remaining == nil || second.Remaining == nil || *first.Remaining != *second.Remaining {
		t.Fatalf("remaining diverged: %v vs %v", first.Remaining, second.Remaining)
	}
	if (first.Reason == nil) != (second.Reason == nil) {
		t.Fatalf("reason diverged: %v vs %v", first.Reason, second.Reason)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}

func TestCheckAvailabilityCapacityExceeded(t *testing.T) {
	svc, mock, db := newServiceDB(t)
	defer db.Close()

	expectAdventure(mock, 1, kayakRow())
	expectOccupancy(mock, 1, "2026-07-10", "09:00", 9)

	res, err := svc.CheckAvailability(1, "2026-07-10", "09:00", models.ParticipantCounts{Adults: 2})
	if err != nil {
		t.Fatalf("CheckAvailability error: %v", err)
	}
	if res.OK {
		t.Fatal("expected rejection")
	}
	if res.Reason == nil || *res.Reason != domain.ReasonCapacityExceeded {
		t.Fatalf("reason = %v, want capacity_exceeded", res.Reason)
	}
	if res.Remaining == nil || *res.Remaining != 1 {
		t.Fatalf("remaining = %v, want 1", res.Remaining)
	}
}

func TestCheckAvailabilityOutsideSeason(t *testing.T) {
	svc, mock, db := newServiceDB(t)
	defer db.Close()

	// fora das duas temporadas: nenhuma query de ocupação deveria acontecer,
	// mas max_capacity existe, então a ocupação é lida antes da avaliação
	expectAdventure(mock, 1, kayakRow())
	expectOccupancy(mock, 1, "2026-02-01", "09:00", 0)

	res, err := svc.CheckAvailability(1, "2026-02-01", "09:00", models.ParticipantCounts{Adults: 2})
	if err != nil {
		t.Fatalf("CheckAvailability error: %v", err)
	}
	if res.OK || res.Reason == nil || *res.Reason != domain.ReasonSeasonNotConfigured {
		t.Fatalf("expected season_not_configured, got %+v", res)
	}
}

func TestCheckAvailabilityInvalidTimeForSeason(t *testing.T) {
	svc, mock, db := newServiceDB(t)
	defer db.Close()

	expectAdventure(mock, 1, kayakRow())
	expectOccupancy(mock, 1, "2026-10-01", "09:00", 0)

	// 09:00 só existe na alta temporada; em outubro vale a baixa (10:00)
	res, err := svc.CheckAvailability(1, "2026-10-01", "09:00", models.ParticipantCounts{Adults: 2})
	if err != nil {
		t.Fatalf("CheckAvailability error: %v", err)
	}
	if res.OK || res.Reason == nil || *res.Reason != domain.ReasonInvalidSlot {
		t.Fatalf("expected invalid_slot, got %+v", res)
	}
}

func TestCheckAvailabilityBelowMinimum(t *testing.T) {
	svc, mock, db := newServiceDB(t)
	defer db.Close()

	expectAdventure(mock, 1, kayakRow())
	expectOccupancy(mock, 1, "2026-07-10", "09:00", 0)

	res, err := svc.CheckAvailability(1, "2026-07-10", "09:00", models.ParticipantCounts{Adults: 1})
	if err != nil {
		t.Fatalf("CheckAvailability error: %v", err)
	}
	if res.OK || res.Reason == nil || *res.Reason != domain.ReasonBelowMinimum {
		t.Fatalf("expected below_minimum, got %+v", res)
	}
}

func TestCheckAvailabilityRejectsBadCounts(t *testing.T) {
	svc, _, db := newServiceDB(t)
	defer db.Close()

	if _, err := svc.CheckAvailability(1, "2026-07-10", "09:00", models.ParticipantCounts{Adults: -1}); !domain.IsValidation(err) {
		t.Fatalf("expected validation error, got %v", err)
	}
	if _, err := svc.CheckAvailability(1, "2026-07-10", "09:00", models.ParticipantCounts{}); !domain.IsValidation(err) {
		t.Fatalf("expected validation error for empty party, got %v", err)
	}
}

func TestSubmitPersistsInsideTransaction(t *testing.T) {
	svc, mock, db := newServiceDB(t)
	defer db.Close()

	expectAdventure(mock, 1, kayakRow())
	expectOccupancy(mock, 1, "2026-07-10", "09:00", 7)

	mock.ExpectBegin()
	mock.ExpectQuery(`SELECT id FROM adventures WHERE id=\? FOR UPDATE`).
		WithArgs(int64(1)).
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(1))
	expectOccupancy(mock, 1, "2026-07-10", "09:00", 7)
	mock.ExpectExec(`INSERT INTO bookings`).
		WillReturnResult(sqlmock.NewResult(42, 1))
	mock.ExpectCommit()

	b, err := svc.Submit(SubmitRequest{
		AdventureID:  1,
		TripDate:     "2026-07-10",
		TripTime:     "09:00",
		Counts:       models.ParticipantCounts{Adults: 2},
		CustomerName: "Ana Souza",
	})
	if err != nil {
		t.Fatalf("Submit error: %v", err)
	}
	if b.ID != 42 {
		t.Fatalf("booking id = %d, want 42", b.ID)
	}
	if b.Reference != "TEST-REF-1" {
		t.Fatalf("reference = %q", b.Reference)
	}
	if b.Status != "Pending" || b.PaymentStatus != "Pending" {
		t.Fatalf("initial status = %s/%s, want Pending/Pending", b.Status, b.PaymentStatus)
	}
	if b.TotalAmount != 90 || b.NetAmount != 90 || b.CommissionAmount != 0 {
		t.Fatalf("amounts = %v/%v/%v", b.TotalAmount, b.CommissionAmount, b.NetAmount)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}

func TestSubmitStoresCanonicalTripDate(t *testing.T) {
	svc, mock, db := newServiceDB(t)
	defer db.Close()

	expectAdventure(mock, 1, kayakRow())
	expectOccupancy(mock, 1, "2026-07-10", "09:00", 0)

	mock.ExpectBegin()
	mock.ExpectQuery(`FOR UPDATE`).
		WithArgs(int64(1)).
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(1))
	expectOccupancy(mock, 1, "2026-07-10", "09:00", 0)
	mock.ExpectExec(`INSERT INTO bookings`).
		WillReturnResult(sqlmock.NewResult(11, 1))
	mock.ExpectCommit()

	b, err := svc.Submit(SubmitRequest{
		AdventureID:  1,
		TripDate:     " 2026-07-10 ",
		TripTime:     " 09:00 ",
		Counts:       models.ParticipantCounts{Adults: 2},
		CustomerName: "Ana Souza",
	})
	if err != nil {
		t.Fatalf("Submit error: %v", err)
	}
	if b.TripDate != "2026-07-10" || b.TripTime != "09:00" {
		t.Fatalf("slot not canonicalized: %q %q", b.TripDate, b.TripTime)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}

func TestSubmitConcurrentConflict(t *testing.T) {
	svc, mock, db := newServiceDB(t)
	defer db.Close()

	// advisory vê 5 lugares ocupados (cabe), mas outra reserva entra antes
	// do lock: a releitura na transação vê 9 e o pedido de 2 não cabe mais
	expectAdventure(mock, 1, kayakRow())
	expectOccupancy(mock, 1, "2026-07-10", "09:00", 5)

	mock.ExpectBegin()
	mock.ExpectQuery(`SELECT id FROM adventures WHERE id=\? FOR UPDATE`).
		WithArgs(int64(1)).
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(1))
	expectOccupancy(mock, 1, "2026-07-10", "09:00", 9)
	mock.ExpectRollback()

	_, err := svc.Submit(SubmitRequest{
		AdventureID:  1,
		TripDate:     "2026-07-10",
		TripTime:     "09:00",
		Counts:       models.ParticipantCounts{Adults: 2},
		CustomerName: "Ana Souza",
	})
	reason, ok := domain.AdmissionReason(err)
	if !ok || reason != domain.ReasonConcurrentConflict {
		t.Fatalf("expected concurrent_conflict, got %v", err)
	}
	if remaining, ok := domain.AdmissionRemaining(err); !ok || remaining != 1 {
		t.Fatalf("remaining = %v, %v, want 1", remaining, ok)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}

func TestSubmitRejectsAdvisoryOverflowWithoutTransaction(t *testing.T) {
	svc, mock, db := newServiceDB(t)
	defer db.Close()

	expectAdventure(mock, 1, kayakRow())
	expectOccupancy(mock, 1, "2026-07-10", "09:00", 10)

	_, err := svc.Submit(SubmitRequest{
		AdventureID:  1,
		TripDate:     "2026-07-10",
		TripTime:     "09:00",
		Counts:       models.ParticipantCounts{Adults: 2},
		CustomerName: "Ana Souza",
	})
	reason, ok := domain.AdmissionReason(err)
	if !ok || reason != domain.ReasonCapacityExceeded {
		t.Fatalf("expected capacity_exceeded, got %v", err)
	}
	// nenhum Begin esperado: rejeição advisory não abre transação
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}

func TestSubmitStaffStartsConfirmed(t *testing.T) {
	svc, mock, db := newServiceDB(t)
	defer db.Close()

	expectAdventure(mock, 1, kayakRow())
	expectOccupancy(mock, 1, "2026-07-10", "09:00", 0)

	mock.ExpectBegin()
	mock.ExpectQuery(`FOR UPDATE`).
		WithArgs(int64(1)).
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(1))
	expectOccupancy(mock, 1, "2026-07-10", "09:00", 0)
	mock.ExpectExec(`INSERT INTO bookings`).
		WillReturnResult(sqlmock.NewResult(7, 1))
	mock.ExpectCommit()

	b, err := svc.Submit(SubmitRequest{
		AdventureID:   1,
		TripDate:      "2026-07-10",
		TripTime:      "09:00",
		Counts:        models.ParticipantCounts{Adults: 3},
		CustomerName:  "Balcão",
		Staff:         true,
		InitialStatus: "Confirmed",
	})
	if err != nil {
		t.Fatalf("Submit error: %v", err)
	}
	if b.Status != "Confirmed" {
		t.Fatalf("status = %s, want Confirmed", b.Status)
	}
}

func TestSubmitWithAgencyCommission(t *testing.T) {
	svc, mock, db := newServiceDB(t)
	defer db.Close()

	expectAdventure(mock, 1, kayakRow())
	mock.ExpectQuery(`FROM agencies WHERE id=\? LIMIT 1`).
		WithArgs(int64(4)).
		WillReturnRows(sqlmock.NewRows([]string{"id", "name", "commission_percent", "is_active"}).
			AddRow(4, "Litoral Tours", 15.0, true))
	expectOccupancy(mock, 1, "2026-07-10", "09:00", 0)

	mock.ExpectBegin()
	mock.ExpectQuery(`FOR UPDATE`).
		WithArgs(int64(1)).
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(1))
	expectOccupancy(mock, 1, "2026-07-10", "09:00", 0)
	mock.ExpectExec(`INSERT INTO bookings`).
		WillReturnResult(sqlmock.NewResult(8, 1))
	mock.ExpectCommit()

	agencyID := int64(4)
	b, err := svc.Submit(SubmitRequest{
		AdventureID:  1,
		TripDate:     "2026-07-10",
		TripTime:     "09:00",
		Counts:       models.ParticipantCounts{Adults: 2, Children: 1, Babies: 1},
		CustomerName: "Ana Souza",
		AgencyID:     &agencyID,
	})
	if err != nil {
		t.Fatalf("Submit error: %v", err)
	}
	if b.TotalAmount != 125 || b.CommissionAmount != 18.75 || b.NetAmount != 106.25 {
		t.Fatalf("amounts = %v/%v/%v", b.TotalAmount, b.CommissionAmount, b.NetAmount)
	}
}

var bookingCols = []string{
	"id", "reference", "adventure_id", "agency_id", "trip_date", "trip_time",
	"adults", "children", "babies", "customer_name", "customer_phone", "payment_method",
	"status", "payment_status", "total_amount", "commission_amount", "net_amount",
	"deposit_amount", "created_at",
}

func bookingRow(id int64, status string) *sqlmock.Rows {
	createdAt := time.Date(2026, 6, 20, 10, 0, 0, 0, time.UTC)
	return sqlmock.NewRows(bookingCols).AddRow(
		id, "REF-1", 1, nil, "2026-07-10", "09:00",
		2, 0, 0, "Ana Souza", "+55 11 99999-0000", "pix",
		status, "Pending", 90.0, 0.0, 90.0,
		0.0, createdAt,
	)
}

func TestUpdateStatusValidTransition(t *testing.T) {
	svc, mock, db := newServiceDB(t)
	defer db.Close()

	mock.ExpectQuery(`FROM bookings WHERE id=\? LIMIT 1`).
		WithArgs(int64(5)).
		WillReturnRows(bookingRow(5, "Pending"))
	mock.ExpectExec(`UPDATE bookings SET status=\? WHERE id=\?`).
		WithArgs("Confirmed", int64(5)).
		WillReturnResult(sqlmock.NewResult(0, 1))

	if err := svc.UpdateStatus(5, "Confirmed"); err != nil {
		t.Fatalf("UpdateStatus error: %v", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}

func TestUpdateStatusRejectsTerminalEscape(t *testing.T) {
	svc, mock, db := newServiceDB(t)
	defer db.Close()

	mock.ExpectQuery(`FROM bookings WHERE id=\? LIMIT 1`).
		WithArgs(int64(5)).
		WillReturnRows(bookingRow(5, "Completed"))

	err := svc.UpdateStatus(5, "Confirmed")
	if !domain.IsValidation(err) {
		t.Fatalf("expected validation error, got %v", err)
	}
	// sem UPDATE: a escrita nunca acontece quando a transição é ilegal
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}

func TestUpdateStatusSameStatusIsNoOp(t *testing.T) {
	svc, mock, db := newServiceDB(t)
	defer db.Close()

	mock.ExpectQuery(`FROM bookings WHERE id=\? LIMIT 1`).
		WithArgs(int64(5)).
		WillReturnRows(bookingRow(5, "Confirmed"))

	if err := svc.UpdateStatus(5, "Confirmed"); err != nil {
		t.Fatalf("UpdateStatus error: %v", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}

func TestCancelFreesSlot(t *testing.T) {
	svc, mock, db := newServiceDB(t)
	defer db.Close()

	mock.ExpectQuery(`FROM bookings WHERE id=\? LIMIT 1`).
		WithArgs(int64(5)).
		WillReturnRows(bookingRow(5, "Confirmed"))
	mock.ExpectExec(`UPDATE bookings SET status=\? WHERE id=\?`).
		WithArgs("Cancelled", int64(5)).
		WillReturnResult(sqlmock.NewResult(0, 1))

	if err := svc.Cancel(5); err != nil {
		t.Fatalf("Cancel error: %v", err)
	}
}

func TestQuoteWithInactiveAgency(t *testing.T) {
	svc, mock, db := newServiceDB(t)
	defer db.Close()

	expectAdventure(mock, 1, kayakRow())
	mock.ExpectQuery(`FROM agencies WHERE id=\? LIMIT 1`).
		WithArgs(int64(4)).
		WillReturnRows(sqlmock.NewRows([]string{"id", "name", "commission_percent", "is_active"}).
			AddRow(4, "Litoral Tours", 15.0, false))

	agencyID := int64(4)
	_, err := svc.Quote(1, models.ParticipantCounts{Adults: 2}, &agencyID)
	if !domain.IsValidation(err) {
		t.Fatalf("expected validation error for inactive agency, got %v", err)
	}
}

func TestResolveAvailableTimes(t *testing.T) {
	svc, mock, db := newServiceDB(t)
	defer db.Close()

	expectAdventure(mock, 1, kayakRow())

	times, err := svc.ResolveAvailableTimes(1, "2026-07-10")
	if err != nil {
		t.Fatalf("ResolveAvailableTimes error: %v", err)
	}
	if len(times) != 3 || times[0] != "09:00" {
		t.Fatalf("times = %v", times)
	}

	if _, err := svc.ResolveAvailableTimes(1, "10/07/2026"); !domain.IsValidation(err) {
		t.Fatalf("expected validation error for bad date, got %v", err)
	}
}
