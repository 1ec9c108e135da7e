package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/mufashe/mufashe-api/internal/domain"
)

// Compile-time interface assertions.
var (
	_ UserRepository         = (*PostgresUserRepo)(nil)
	_ ConsultationRepository = (*PostgresConsultationRepo)(nil)
	_ ResourceRepository     = (*PostgresResourceRepo)(nil)
)

const pgUniqueViolation = "23505"

// NewPostgresStore builds every repository on a shared pool.
func NewPostgresStore(pool *pgxpool.Pool) Store {
	return Store{
		Users:         NewPostgresUserRepo(pool),
		Consultations: NewPostgresConsultationRepo(pool),
		Resources:     NewPostgresResourceRepo(pool),
	}
}

// PostgresUserRepo implements UserRepository.
type PostgresUserRepo struct {
	db *pgxpool.Pool
}

func NewPostgresUserRepo(pool *pgxpool.Pool) *PostgresUserRepo {
	return &PostgresUserRepo{db: pool}
}

const userColumns = `id, name, email, phone, password_hash, created_at, updated_at`

func (r *PostgresUserRepo) FindByField(ctx context.Context, field domain.Field, value string) (domain.User, error) {
	column, err := userColumn(field)
	if err != nil {
		return domain.User{}, err
	}
	query := fmt.Sprintf(`SELECT %s FROM users WHERE %s = $1 LIMIT 1`, userColumns, column)
	user, err := scanUser(r.db.QueryRow(ctx, query, value))
	if err != nil {
		return domain.User{}, fmt.Errorf("find user by %s: %w", field, err)
	}
	return user, nil
}

func (r *PostgresUserRepo) GetByID(ctx context.Context, userID int64) (domain.User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE id = $1`
	user, err := scanUser(r.db.QueryRow(ctx, query, userID))
	if err != nil {
		return domain.User{}, fmt.Errorf("get user by id: %w", err)
	}
	return user, nil
}

const insertUserSQL = `INSERT INTO users (id, name, email, phone, password_hash)
VALUES ($1, $2, $3, $4, $5)
RETURNING ` + userColumns

func (r *PostgresUserRepo) Create(ctx context.Context, user domain.User) (domain.User, error) {
	if !user.HasContact() {
		return domain.User{}, fmt.Errorf("insert user %d: %w", user.ID, ErrMissingContact)
	}
	row := r.db.QueryRow(ctx, insertUserSQL,
		user.ID,
		user.Name,
		nullString(user.Email),
		nullString(user.Phone),
		user.PasswordHash,
	)

	created, err := scanUser(row)
	if err != nil {
		if pgErr, ok := uniqueViolation(err); ok {
			return domain.User{}, &DuplicateKeyError{Field: fieldFromIndex(pgErr.ConstraintName), Err: err}
		}
		return domain.User{}, fmt.Errorf("create user: %w", err)
	}
	return created, nil
}

// PostgresConsultationRepo implements ConsultationRepository.
type PostgresConsultationRepo struct {
	db *pgxpool.Pool
}

func NewPostgresConsultationRepo(pool *pgxpool.Pool) *PostgresConsultationRepo {
	return &PostgresConsultationRepo{db: pool}
}

const consultationColumns = `id, user_id, question, answer, language, created_at, updated_at`

func (r *PostgresConsultationRepo) Create(ctx context.Context, c domain.Consultation) (domain.Consultation, error) {
	const query = `INSERT INTO consultations (id, user_id, question, answer, language)
VALUES ($1, $2, $3, $4, $5)
RETURNING ` + consultationColumns

	created, err := scanConsultation(r.db.QueryRow(ctx, query, c.ID, c.UserID, c.Question, c.Answer, c.Language))
	if err != nil {
		return domain.Consultation{}, fmt.Errorf("create consultation: %w", err)
	}
	return created, nil
}

func (r *PostgresConsultationRepo) ListByUser(ctx context.Context, userID int64) ([]domain.Consultation, error) {
	const query = `SELECT ` + consultationColumns + ` FROM consultations WHERE user_id = $1 ORDER BY created_at DESC, id DESC`

	rows, err := r.db.Query(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("list consultations: %w", err)
	}
	defer rows.Close()

	res := make([]domain.Consultation, 0)
	for rows.Next() {
		c, err := scanConsultation(rows)
		if err != nil {
			return nil, fmt.Errorf("scan consultation: %w", err)
		}
		res = append(res, c)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list consultations: %w", err)
	}
	return res, nil
}

// PostgresResourceRepo implements ResourceRepository.
type PostgresResourceRepo struct {
	db *pgxpool.Pool
}

func NewPostgresResourceRepo(pool *pgxpool.Pool) *PostgresResourceRepo {
	return &PostgresResourceRepo{db: pool}
}

func (r *PostgresResourceRepo) List(ctx context.Context, filter domain.ResourceFilter) ([]domain.Resource, error) {
	query, args := buildResourceQuery(filter)

	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list resources: %w", err)
	}
	defer rows.Close()

	res := make([]domain.Resource, 0)
	for rows.Next() {
		var item domain.Resource
		if err := rows.Scan(&item.ID, &item.Title, &item.Category, &item.Language, &item.Minutes, &item.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan resource: %w", err)
		}
		res = append(res, item)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list resources: %w", err)
	}
	return res, nil
}

func (r *PostgresResourceRepo) Count(ctx context.Context) (int64, error) {
	var n int64
	if err := r.db.QueryRow(ctx, `SELECT COUNT(*) FROM resources`).Scan(&n); err != nil {
		return 0, fmt.Errorf("count resources: %w", err)
	}
	return n, nil
}

func (r *PostgresResourceRepo) CreateMany(ctx context.Context, resources []domain.Resource) error {
	const query = `INSERT INTO resources (id, title, category, language, minutes, content)
VALUES ($1, $2, $3, $4, $5, $6)`

	batch := &pgx.Batch{}
	for _, item := range resources {
		batch.Queue(query, item.ID, item.Title, item.Category, item.Language, item.Minutes, item.Content)
	}

	tx, err := r.db.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin insert resources: %w", err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	if err := tx.SendBatch(ctx, batch).Close(); err != nil {
		return fmt.Errorf("insert resources: %w", err)
	}
	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit resources: %w", err)
	}
	return nil
}

func buildResourceQuery(filter domain.ResourceFilter) (string, []any) {
	var (
		where []string
		args  []any
	)
	if filter.Category != "" {
		args = append(args, filter.Category)
		where = append(where, fmt.Sprintf("category = $%d", len(args)))
	}
	if filter.Language != "" {
		args = append(args, filter.Language)
		where = append(where, fmt.Sprintf("language = $%d", len(args)))
	}

	var b strings.Builder
	b.WriteString(`SELECT id, title, category, language, minutes, created_at FROM resources`)
	if len(where) > 0 {
		b.WriteString(" WHERE ")
		b.WriteString(strings.Join(where, " AND "))
	}
	b.WriteString(" ORDER BY created_at DESC, id DESC")
	return b.String(), args
}

func scanUser(row pgx.Row) (domain.User, error) {
	var (
		user  domain.User
		email sql.NullString
		phone sql.NullString
	)
	if err := row.Scan(&user.ID, &user.Name, &email, &phone, &user.PasswordHash, &user.CreatedAt, &user.UpdatedAt); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return domain.User{}, ErrNotFound
		}
		return domain.User{}, err
	}
	user.Email = email.String
	user.Phone = phone.String
	return user, nil
}

func scanConsultation(row pgx.Row) (domain.Consultation, error) {
	var (
		c      domain.Consultation
		userID sql.NullInt64
	)
	if err := row.Scan(&c.ID, &userID, &c.Question, &c.Answer, &c.Language, &c.CreatedAt, &c.UpdatedAt); err != nil {
		return domain.Consultation{}, err
	}
	if userID.Valid {
		val := userID.Int64
		c.UserID = &val
	}
	return c, nil
}

func uniqueViolation(err error) (*pgconn.PgError, bool) {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == pgUniqueViolation {
		return pgErr, true
	}
	return nil, false
}

func nullString(s string) sql.NullString {
	return sql.NullString{String: s, Valid: s != ""}
}
