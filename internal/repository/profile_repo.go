package repository

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"profile-api/internal/domain"
)

// AttributePatch describe los campos editables de un perfil.
// Un puntero nil deja la columna sin tocar; un puntero a "" la limpia.
type AttributePatch struct {
	FullName *string
	Gender   *string
	NickName *string
	Address  *string
	City     *string
	Country  *string
}

// ProfileRepository define el contrato de persistencia para perfiles.
type ProfileRepository interface {
	Upsert(ctx context.Context, userID, email, displayName string) (domain.Profile, error)
	GetByUserID(ctx context.Context, userID string) (domain.Profile, error)
	UpdateAttributes(ctx context.Context, userID string, patch AttributePatch) (domain.Profile, error)
}

// PgProfileRepository implementa ProfileRepository usando pgxpool.
type PgProfileRepository struct {
	pool *pgxpool.Pool
}

func NewPgProfileRepository(pool *pgxpool.Pool) *PgProfileRepository {
	return &PgProfileRepository{pool: pool}
}

const profileColumns = `
	user_id, email, display_name, full_name, gender, nick_name,
	address, city, country, created_at, updated_at
`

// Upsert crea el registro o sobreescribe solo los campos de identidad.
// Los atributos editados previamente sobreviven a un nuevo registro.
func (r *PgProfileRepository) Upsert(ctx context.Context, userID, email, displayName string) (domain.Profile, error) {
	const query = `
		INSERT INTO profiles (user_id, email, display_name)
		VALUES ($1, $2, $3)
		ON CONFLICT (user_id) DO UPDATE SET
			email        = EXCLUDED.email,
			display_name = EXCLUDED.display_name,
			updated_at   = now()
		RETURNING ` + profileColumns

	return r.scanProfile(r.pool.QueryRow(ctx, query, userID, email, displayName))
}

func (r *PgProfileRepository) GetByUserID(ctx context.Context, userID string) (domain.Profile, error) {
	const query = `
		SELECT ` + profileColumns + `
		FROM profiles
		WHERE user_id = $1
	`
	return r.scanProfile(r.pool.QueryRow(ctx, query, userID))
}

// UpdateAttributes aplica solo los campos presentes del patch.
// user_id, email y display_name nunca se modifican por esta via.
func (r *PgProfileRepository) UpdateAttributes(ctx context.Context, userID string, patch AttributePatch) (domain.Profile, error) {
	const query = `
		UPDATE profiles SET
			full_name  = COALESCE($2, full_name),
			gender     = COALESCE($3, gender),
			nick_name  = COALESCE($4, nick_name),
			address    = COALESCE($5, address),
			city       = COALESCE($6, city),
			country    = COALESCE($7, country),
			updated_at = now()
		WHERE user_id = $1
		RETURNING ` + profileColumns

	return r.scanProfile(r.pool.QueryRow(ctx, query,
		userID,
		patch.FullName,
		patch.Gender,
		patch.NickName,
		patch.Address,
		patch.City,
		patch.Country,
	))
}

func (r *PgProfileRepository) scanProfile(row pgx.Row) (domain.Profile, error) {
	var p domain.Profile
	err := row.Scan(
		&p.UserID,
		&p.Email,
		&p.DisplayName,
		&p.FullName,
		&p.Gender,
		&p.NickName,
		&p.Address,
		&p.City,
		&p.Country,
		&p.CreatedAt,
		&p.UpdatedAt,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return domain.Profile{}, err
	}
	return p, err
}
