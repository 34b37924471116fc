package repositories

import (
	"database/sql"
	"errors"
	"strings"

	intconfig "backend/internal/config"
	"backend/internal/domain"
	"backend/internal/domain/models"
)

type AgencyRepository struct {
	DB *sql.DB
}

func (r AgencyRepository) db() *sql.DB {
	if r.DB != nil {
		return r.DB
	}
	return intconfig.DB
}

func (r AgencyRepository) GetByID(id int64) (models.Agency, error) {
	if id <= 0 {
		return models.Agency{}, domain.ValidationError{Field: "agency_id", Msg: "id inválido"}
	}
	var a models.Agency
	err := r.db().QueryRow(`
		SELECT id, name, commission_percent, is_active
		FROM agencies WHERE id=? LIMIT 1`, id).
		Scan(&a.ID, &a.Name, &a.CommissionPercent, &a.IsActive)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return models.Agency{}, domain.NotFoundError{Resource: "agency", Err: err}
		}
		return models.Agency{}, domain.PersistenceError{Msg: "falha ao carregar agência", Err: err}
	}
	return a, nil
}

func (r AgencyRepository) List() ([]models.Agency, error) {
	rows, err := r.db().Query(`
		SELECT id, name, commission_percent, is_active
		FROM agencies ORDER BY name ASC`)
	if err != nil {
		return nil, domain.PersistenceError{Msg: "falha ao listar agências", Err: err}
	}
	defer rows.Close()

	out := []models.Agency{}
	for rows.Next() {
		var a models.Agency
		if err := rows.Scan(&a.ID, &a.Name, &a.CommissionPercent, &a.IsActive); err != nil {
			return out, domain.PersistenceError{Err: err}
		}
		out = append(out, a)
	}
	return out, rows.Err()
}

func (r AgencyRepository) Create(a models.Agency) (int64, error) {
	if err := validateAgency(a); err != nil {
		return 0, err
	}
	res, err := r.db().Exec(`
		INSERT INTO agencies (name, commission_percent, is_active, created_at)
		VALUES (?,?,?, NOW())`,
		strings.TrimSpace(a.Name), a.CommissionPercent, a.IsActive)
	if err != nil {
		return 0, domain.PersistenceError{Msg: "falha ao criar agência", Err: err}
	}
	id, _ := res.LastInsertId()
	return id, nil
}

func (r AgencyRepository) Update(a models.Agency) error {
	if a.ID <= 0 {
		return domain.ValidationError{Field: "agency_id", Msg: "id inválido"}
	}
	if err := validateAgency(a); err != nil {
		return err
	}
	res, err := r.db().Exec(`
		UPDATE agencies SET name=?, commission_percent=?, is_active=?, updated_at=NOW()
		WHERE id=?`,
		strings.TrimSpace(a.Name), a.CommissionPercent, a.IsActive, a.ID)
	if err != nil {
		return domain.PersistenceError{Msg: "falha ao atualizar agência", Err: err}
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return domain.NotFoundError{Resource: "agency"}
	}
	return nil
}

func validateAgency(a models.Agency) error {
	if strings.TrimSpace(a.Name) == "" {
		return domain.ValidationError{Field: "name", Msg: "nome obrigatório"}
	}
	if a.CommissionPercent < 0 || a.CommissionPercent > 100 {
		return domain.ValidationError{Field: "commission_percent", Msg: "comissão deve ficar entre 0 e 100"}
	}
	return nil
}
