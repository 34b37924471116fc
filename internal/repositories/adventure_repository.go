package repositories

import (
	"database/sql"
	"errors"
	"strings"

	intconfig "backend/internal/config"
	"backend/internal/domain"
	"backend/internal/domain/models"
)

type AdventureRepository struct {
	DB *sql.DB
}

func (r AdventureRepository) db() *sql.DB {
	if r.DB != nil {
		return r.DB
	}
	return intconfig.DB
}

const adventureColumns = `id, name, COALESCE(description, ''),
		price_adult, price_child, price_baby,
		min_capacity, max_capacity, is_active,
		high_season_start, high_season_end, high_season_times,
		low_season_start, low_season_end, low_season_times`

// GetByID fetches the adventure with price tiers, capacity bounds and both
// season schedules, as the booking core requires.
func (r AdventureRepository) GetByID(id int64) (models.Adventure, error) {
	if id <= 0 {
		return models.Adventure{}, domain.ValidationError{Field: "adventure_id", Msg: "id inválido"}
	}
	row := r.db().QueryRow(`SELECT `+adventureColumns+` FROM adventures WHERE id=? LIMIT 1`, id)
	adv, err := scanAdventure(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return models.Adventure{}, domain.NotFoundError{Resource: "adventure", Err: err}
		}
		return models.Adventure{}, domain.PersistenceError{Msg: "falha ao carregar adventure", Err: err}
	}
	return adv, nil
}

// List returns adventures, optionally only the active ones.
func (r AdventureRepository) List(activeOnly bool) ([]models.Adventure, error) {
	query := `SELECT ` + adventureColumns + ` FROM adventures`
	if activeOnly {
		query += ` WHERE is_active=1`
	}
	query += ` ORDER BY name ASC`

	rows, err := r.db().Query(query)
	if err != nil {
		return nil, domain.PersistenceError{Msg: "falha ao listar adventures", Err: err}
	}
	defer rows.Close()

	out := []models.Adventure{}
	for rows.Next() {
		adv, err := scanAdventure(rows)
		if err != nil {
			return out, domain.PersistenceError{Err: err}
		}
		out = append(out, adv)
	}
	return out, rows.Err()
}

func (r AdventureRepository) Create(adv models.Adventure) (int64, error) {
	res, err := r.db().Exec(`
		INSERT INTO adventures
		(name, description, price_adult, price_child, price_baby,
		 min_capacity, max_capacity, is_active,
		 high_season_start, high_season_end, high_season_times,
		 low_season_start, low_season_end, low_season_times, created_at)
		VALUES (?,?,?,?,?,?,?,?,?,?,?,?,?,?, NOW())`,
		strings.TrimSpace(adv.Name), adv.Description,
		adv.PriceAdult, adv.PriceChild, adv.PriceBaby,
		nullableInt(adv.MinCapacity), nullableInt(adv.MaxCapacity), adv.IsActive,
		adv.HighSeason.Start, adv.HighSeason.End, joinTimes(adv.HighSeason.Times),
		adv.LowSeason.Start, adv.LowSeason.End, joinTimes(adv.LowSeason.Times),
	)
	if err != nil {
		return 0, domain.PersistenceError{Msg: "falha ao criar adventure", Err: err}
	}
	id, _ := res.LastInsertId()
	return id, nil
}

// Update replaces the editable fields. Season edits never touch existing
// bookings; amounts were fixed at creation time.
func (r AdventureRepository) Update(adv models.Adventure) error {
	if adv.ID <= 0 {
		return domain.ValidationError{Field: "adventure_id", Msg: "id inválido"}
	}
	res, err := r.db().Exec(`
		UPDATE adventures SET
			name=?, description=?, price_adult=?, price_child=?, price_baby=?,
			min_capacity=?, max_capacity=?, is_active=?,
			high_season_start=?, high_season_end=?, high_season_times=?,
			low_season_start=?, low_season_end=?, low_season_times=?,
			updated_at=NOW()
		WHERE id=?`,
		strings.TrimSpace(adv.Name), adv.Description,
		adv.PriceAdult, adv.PriceChild, adv.PriceBaby,
		nullableInt(adv.MinCapacity), nullableInt(adv.MaxCapacity), adv.IsActive,
		adv.HighSeason.Start, adv.HighSeason.End, joinTimes(adv.HighSeason.Times),
		adv.LowSeason.Start, adv.LowSeason.End, joinTimes(adv.LowSeason.Times),
		adv.ID,
	)
	if err != nil {
		return domain.PersistenceError{Msg: "falha ao atualizar adventure", Err: err}
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return domain.NotFoundError{Resource: "adventure"}
	}
	return nil
}

func (r AdventureRepository) SetActive(id int64, active bool) error {
	if id <= 0 {
		return domain.ValidationError{Field: "adventure_id", Msg: "id inválido"}
	}
	res, err := r.db().Exec(`UPDATE adventures SET is_active=?, updated_at=NOW() WHERE id=?`, active, id)
	if err != nil {
		return domain.PersistenceError{Err: err}
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return domain.NotFoundError{Resource: "adventure"}
	}
	return nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanAdventure(row rowScanner) (models.Adventure, error) {
	var (
		adv                 models.Adventure
		minCap, maxCap      sql.NullInt64
		highTimes, lowTimes string
	)
	err := row.Scan(
		&adv.ID, &adv.Name, &adv.Description,
		&adv.PriceAdult, &adv.PriceChild, &adv.PriceBaby,
		&minCap, &maxCap, &adv.IsActive,
		&adv.HighSeason.Start, &adv.HighSeason.End, &highTimes,
		&adv.LowSeason.Start, &adv.LowSeason.End, &lowTimes,
	)
	if err != nil {
		return adv, err
	}
	if minCap.Valid {
		v := int(minCap.Int64)
		adv.MinCapacity = &v
	}
	if maxCap.Valid {
		v := int(maxCap.Int64)
		adv.MaxCapacity = &v
	}
	adv.HighSeason.Times = splitTimes(highTimes)
	adv.LowSeason.Times = splitTimes(lowTimes)
	return adv, nil
}

func nullableInt(v *int) any {
	if v == nil {
		return nil
	}
	return *v
}

// Times are stored as a comma-separated ordered list ("09:00,11:30,15:00").
func joinTimes(times []string) string {
	clean := make([]string, 0, len(times))
	for _, t := range times {
		if t = strings.TrimSpace(t); t != "" {
			clean = append(clean, t)
		}
	}
	return strings.Join(clean, ",")
}

func splitTimes(s string) []string {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil
	}
	parts := strings.Split(s, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}
