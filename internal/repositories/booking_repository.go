package repositories

import (
	"database/sql"
	"errors"

	bk "backend/internal/booking"
	intconfig "backend/internal/config"
	"backend/internal/domain"
	"backend/internal/domain/models"
)

// RowQuerier lets occupancy run against either *sql.DB (advisory reads)
// or *sql.Tx (authoritative commit-time re-check).
type RowQuerier interface {
	QueryRow(query string, args ...any) *sql.Row
}

type BookingRepository struct {
	DB *sql.DB
}

func (r BookingRepository) db() *sql.DB {
	if r.DB != nil {
		return r.DB
	}
	return intconfig.DB
}

const bookingColumns = `id, reference, adventure_id, agency_id, trip_date, trip_time,
		adults, children, babies, customer_name, customer_phone, payment_method,
		status, payment_status, total_amount, commission_amount, net_amount,
		deposit_amount, created_at`

// Occupancy sums participants of all non-cancelled bookings on the slot.
// Outside a transaction the result is only a hint; re-read via OccupancyIn
// with the commit transaction before deciding anything binding.
func (r BookingRepository) Occupancy(adventureID int64, date, tm string) (int, error) {
	return r.OccupancyIn(r.db(), adventureID, date, tm)
}

func (r BookingRepository) OccupancyIn(q RowQuerier, adventureID int64, date, tm string) (int, error) {
	var total int
	err := q.QueryRow(`
		SELECT COALESCE(SUM(adults + children + babies), 0)
		FROM bookings
		WHERE adventure_id=? AND trip_date=? AND trip_time=? AND status <> ?`,
		adventureID, date, tm, string(bk.StatusCancelled)).Scan(&total)
	if err != nil {
		return 0, domain.PersistenceError{Msg: "falha ao somar ocupação", Err: err}
	}
	return total, nil
}

// LockAdventure takes a row lock on the adventure inside tx, serializing
// concurrent reservations per adventure. Slots of different adventures
// never contend.
func (r BookingRepository) LockAdventure(tx *sql.Tx, adventureID int64) error {
	var id int64
	err := tx.QueryRow(`SELECT id FROM adventures WHERE id=? FOR UPDATE`, adventureID).Scan(&id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return domain.NotFoundError{Resource: "adventure", Err: err}
		}
		return domain.PersistenceError{Msg: "falha ao travar adventure", Err: err}
	}
	return nil
}

// CreateIn inserts the booking inside the caller's transaction. The caller
// must have re-checked capacity under the same lock before calling.
func (r BookingRepository) CreateIn(tx *sql.Tx, b models.Booking) (int64, error) {
	res, err := tx.Exec(`
		INSERT INTO bookings
		(reference, adventure_id, agency_id, trip_date, trip_time,
		 adults, children, babies, customer_name, customer_phone, payment_method,
		 status, payment_status, total_amount, commission_amount, net_amount,
		 deposit_amount, created_at)
		VALUES (?,?,?,?,?,?,?,?,?,?,?,?,?,?,?,?,?, NOW())`,
		b.Reference, b.AdventureID, nullableID(b.AgencyID), b.TripDate, b.TripTime,
		b.Adults, b.Children, b.Babies, b.CustomerName, b.CustomerPhone, b.PaymentMethod,
		b.Status, b.PaymentStatus, b.TotalAmount, b.CommissionAmount, b.NetAmount,
		b.DepositAmount,
	)
	if err != nil {
		return 0, domain.PersistenceError{Msg: "falha ao gravar reserva", Err: err}
	}
	id, _ := res.LastInsertId()
	return id, nil
}

func (r BookingRepository) GetByID(id int64) (models.Booking, error) {
	if id <= 0 {
		return models.Booking{}, domain.ValidationError{Field: "booking_id", Msg: "id inválido"}
	}
	row := r.db().QueryRow(`SELECT `+bookingColumns+` FROM bookings WHERE id=? LIMIT 1`, id)
	return scanBooking(row)
}

func (r BookingRepository) GetByReference(ref string) (models.Booking, error) {
	if ref == "" {
		return models.Booking{}, domain.ValidationError{Field: "reference", Msg: "referência obrigatória"}
	}
	row := r.db().QueryRow(`SELECT `+bookingColumns+` FROM bookings WHERE reference=? LIMIT 1`, ref)
	return scanBooking(row)
}

// ListBySlot returns every booking on the slot, cancelled included; the
// caller decides what to show. History is never deleted.
func (r BookingRepository) ListBySlot(adventureID int64, date, tm string) ([]models.Booking, error) {
	rows, err := r.db().Query(`
		SELECT `+bookingColumns+`
		FROM bookings
		WHERE adventure_id=? AND trip_date=? AND trip_time=?
		ORDER BY created_at ASC`, adventureID, date, tm)
	if err != nil {
		return nil, domain.PersistenceError{Msg: "falha ao listar reservas", Err: err}
	}
	defer rows.Close()

	out := []models.Booking{}
	for rows.Next() {
		b, err := scanBookingRow(rows)
		if err != nil {
			return out, err
		}
		out = append(out, b)
	}
	return out, rows.Err()
}

// UpdateStatus flips the booking status in a single write. For Cancelled
// this is the same write that frees the slot: the occupancy query excludes
// cancelled rows, so no separate counter needs compensating.
func (r BookingRepository) UpdateStatus(id int64, status bk.Status) error {
	res, err := r.db().Exec(`UPDATE bookings SET status=? WHERE id=?`, string(status), id)
	if err != nil {
		return domain.PersistenceError{Msg: "falha ao atualizar status", Err: err}
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return domain.NotFoundError{Resource: "booking"}
	}
	return nil
}

func (r BookingRepository) UpdatePaymentStatus(id int64, status bk.PaymentStatus) error {
	res, err := r.db().Exec(`UPDATE bookings SET payment_status=? WHERE id=?`, string(status), id)
	if err != nil {
		return domain.PersistenceError{Msg: "falha ao atualizar pagamento", Err: err}
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return domain.NotFoundError{Resource: "booking"}
	}
	return nil
}

func scanBooking(row *sql.Row) (models.Booking, error) {
	b, err := scanBookingFrom(row.Scan)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return models.Booking{}, domain.NotFoundError{Resource: "booking", Err: err}
		}
		return models.Booking{}, domain.PersistenceError{Msg: "falha ao carregar reserva", Err: err}
	}
	return b, nil
}

func scanBookingRow(rows *sql.Rows) (models.Booking, error) {
	b, err := scanBookingFrom(rows.Scan)
	if err != nil {
		return models.Booking{}, domain.PersistenceError{Err: err}
	}
	return b, nil
}

func scanBookingFrom(scan func(dest ...any) error) (models.Booking, error) {
	var (
		b        models.Booking
		agencyID sql.NullInt64
	)
	err := scan(
		&b.ID, &b.Reference, &b.AdventureID, &agencyID, &b.TripDate, &b.TripTime,
		&b.Adults, &b.Children, &b.Babies, &b.CustomerName, &b.CustomerPhone, &b.PaymentMethod,
		&b.Status, &b.PaymentStatus, &b.TotalAmount, &b.CommissionAmount, &b.NetAmount,
		&b.DepositAmount, &b.CreatedAt,
	)
	if err != nil {
		return b, err
	}
	if agencyID.Valid {
		v := agencyID.Int64
		b.AgencyID = &v
	}
	return b, nil
}

func nullableID(v *int64) any {
	if v == nil {
		return nil
	}
	return *v
}
