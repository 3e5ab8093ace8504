package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/lib/pq"

	"unionhub/internal/eligibility"
	"unionhub/internal/member/models"
	"unionhub/internal/platform/postgres"
	id "unionhub/pkg/domain"
	"unionhub/pkg/platform/sentinel"
	"unionhub/pkg/platform/tx"
)

// PostgresStore persists members and their positions in PostgreSQL.
type PostgresStore struct {
	db *sql.DB
}

func NewPostgres(db *sql.DB) *PostgresStore {
	return &PostgresStore{db: db}
}

const memberColumns = `id, name, email, date_of_birth, service_join_year, union_join_date, star_grade,
	designation, identity_verified, tehsil_id, district_id, status, created_at, updated_at`

func (s *PostgresStore) Create(ctx context.Context, m *models.Member) error {
	_, err := tx.Executor(ctx, s.db).ExecContext(ctx, `
		INSERT INTO members (`+memberColumns+`)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14)
	`,
		uuid.UUID(m.ID), m.Name, m.Email, postgres.NullTime(m.DateOfBirth), m.ServiceJoinYear,
		postgres.NullTime(m.UnionJoinDate), m.StarGrade, m.Designation, m.IdentityVerified,
		postgres.NullUUID(uuid.UUID(m.TehsilID)), postgres.NullUUID(uuid.UUID(m.DistrictID)),
		string(m.Status), m.CreatedAt, m.UpdatedAt,
	)
	if err != nil {
		if postgres.IsUniqueViolation(err) {
			return sentinel.ErrAlreadyUsed
		}
		return fmt.Errorf("insert member: %w", err)
	}
	return nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanMember(row rowScanner) (*models.Member, error) {
	var (
		m           models.Member
		memberID    uuid.UUID
		dob, joined sql.NullTime
		tehsil      uuid.NullUUID
		district    uuid.NullUUID
		status      string
	)
	if err := row.Scan(&memberID, &m.Name, &m.Email, &dob, &m.ServiceJoinYear, &joined, &m.StarGrade,
		&m.Designation, &m.IdentityVerified, &tehsil, &district, &status, &m.CreatedAt, &m.UpdatedAt); err != nil {
		return nil, err
	}
	m.ID = id.MemberID(memberID)
	m.DateOfBirth = postgres.TimeFrom(dob)
	m.UnionJoinDate = postgres.TimeFrom(joined)
	m.TehsilID = id.TehsilID(postgres.UUIDFrom(tehsil))
	m.DistrictID = id.DistrictID(postgres.UUIDFrom(district))
	m.Status = models.Status(status)
	return &m, nil
}

func (s *PostgresStore) FindByID(ctx context.Context, memberID id.MemberID) (*models.Member, error) {
	return s.findByID(ctx, memberID, false)
}

func (s *PostgresStore) findByID(ctx context.Context, memberID id.MemberID, forUpdate bool) (*models.Member, error) {
	query := `SELECT ` + memberColumns + ` FROM members WHERE id = $1`
	if forUpdate {
		query += ` FOR UPDATE`
	}
	m, err := scanMember(tx.Executor(ctx, s.db).QueryRowContext(ctx, query, uuid.UUID(memberID)))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, sentinel.ErrNotFound
		}
		return nil, fmt.Errorf("find member: %w", err)
	}
	positions, err := s.positions(ctx, []uuid.UUID{uuid.UUID(memberID)})
	if err != nil {
		return nil, err
	}
	m.Positions = positions[m.ID]
	return m, nil
}

func (s *PostgresStore) ListActive(ctx context.Context, filter eligibility.Filter) ([]*models.Member, error) {
	where := []string{"m.status = 'active'"}
	var args []any
	arg := func(v any) string {
		args = append(args, v)
		return fmt.Sprintf("$%d", len(args))
	}
	if !filter.TehsilID.IsNil() {
		where = append(where, "m.tehsil_id = "+arg(uuid.UUID(filter.TehsilID)))
	}
	if !filter.DistrictID.IsNil() {
		where = append(where, "m.district_id = "+arg(uuid.UUID(filter.DistrictID)))
	}
	if len(filter.PositionKinds) > 0 {
		kinds := make([]string, 0, len(filter.PositionKinds))
		for _, k := range filter.PositionKinds {
			kinds = append(kinds, string(k))
		}
		where = append(where, `EXISTS (SELECT 1 FROM member_positions p
			WHERE p.member_id = m.id AND p.ended_at IS NULL AND p.kind = ANY(`+arg(pq.Array(kinds))+`::text[]))`)
	}

	query := `SELECT ` + prefixed("m", memberColumns) + ` FROM members m WHERE ` +
		strings.Join(where, " AND ") + ` ORDER BY m.created_at`
	rows, err := tx.Executor(ctx, s.db).QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list members: %w", err)
	}
	defer rows.Close()

	var (
		out []*models.Member
		ids []uuid.UUID
	)
	for rows.Next() {
		m, err := scanMember(rows)
		if err != nil {
			return nil, fmt.Errorf("scan member: %w", err)
		}
		out = append(out, m)
		ids = append(ids, uuid.UUID(m.ID))
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate members: %w", err)
	}
	if len(out) == 0 {
		return nil, nil
	}

	positions, err := s.positions(ctx, ids)
	if err != nil {
		return nil, err
	}
	for _, m := range out {
		m.Positions = positions[m.ID]
	}
	return out, nil
}

func prefixed(alias, columns string) string {
	parts := strings.Split(columns, ",")
	for i, p := range parts {
		parts[i] = alias + "." + strings.TrimSpace(p)
	}
	return strings.Join(parts, ", ")
}

func (s *PostgresStore) positions(ctx context.Context, memberIDs []uuid.UUID) (map[id.MemberID][]models.Position, error) {
	ids := make([]string, 0, len(memberIDs))
	for _, u := range memberIDs {
		ids = append(ids, u.String())
	}
	rows, err := tx.Executor(ctx, s.db).QueryContext(ctx, `
		SELECT id, member_id, kind, title, level, entity_id, election_id, since
		FROM member_positions
		WHERE member_id = ANY($1::uuid[]) AND ended_at IS NULL
		ORDER BY since
	`, pq.Array(ids))
	if err != nil {
		return nil, fmt.Errorf("list positions: %w", err)
	}
	defer rows.Close()

	out := make(map[id.MemberID][]models.Position)
	for rows.Next() {
		var (
			p          models.Position
			memberID   uuid.UUID
			kind       string
			level      string
			entityID   uuid.NullUUID
			electionID uuid.NullUUID
		)
		if err := rows.Scan(&p.ID, &memberID, &kind, &p.Title, &level, &entityID, &electionID, &p.Since); err != nil {
			return nil, fmt.Errorf("scan position: %w", err)
		}
		p.Kind = eligibility.PositionKind(kind)
		p.Level = id.Level(level)
		p.EntityID = id.EntityID(postgres.UUIDFrom(entityID))
		p.ElectionID = id.ElectionID(postgres.UUIDFrom(electionID))
		out[id.MemberID(memberID)] = append(out[id.MemberID(memberID)], p)
	}
	return out, rows.Err()
}

// Execute locks the member row, validates, mutates and writes the status back.
func (s *PostgresStore) Execute(ctx context.Context, memberID id.MemberID, validate func(*models.Member) error, mutate func(*models.Member)) (*models.Member, error) {
	var result *models.Member
	err := tx.NewSQLRunner(s.db).RunInTx(ctx, func(txCtx context.Context) error {
		m, err := s.findByID(txCtx, memberID, true)
		if err != nil {
			return err
		}
		if err := validate(m); err != nil {
			return err
		}
		mutate(m)
		if _, err := tx.Executor(txCtx, s.db).ExecContext(txCtx,
			`UPDATE members SET status = $2, updated_at = $3 WHERE id = $1`,
			uuid.UUID(m.ID), string(m.Status), m.UpdatedAt,
		); err != nil {
			return fmt.Errorf("update member status: %w", err)
		}
		result = m
		return nil
	})
	if err != nil {
		return nil, err
	}
	return result, nil
}

// AddPosition inserts a position; an equivalent current position is a no-op.
func (s *PostgresStore) AddPosition(ctx context.Context, memberID id.MemberID, p models.Position) (bool, error) {
	res, err := tx.Executor(ctx, s.db).ExecContext(ctx, `
		INSERT INTO member_positions (id, member_id, kind, title, level, entity_id, election_id, since)
		SELECT $1, $2, $3, $4, $5, $6, $7, $8
		WHERE EXISTS (SELECT 1 FROM members WHERE id = $2)
		ON CONFLICT DO NOTHING
	`,
		p.ID, uuid.UUID(memberID), string(p.Kind), p.Title, string(p.Level),
		postgres.NullUUID(uuid.UUID(p.EntityID)), postgres.NullUUID(uuid.UUID(p.ElectionID)), p.Since,
	)
	if err != nil {
		return false, fmt.Errorf("insert position: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("insert position: %w", err)
	}
	if n == 0 {
		if _, err := s.FindByID(ctx, memberID); errors.Is(err, sentinel.ErrNotFound) {
			return false, err
		}
	}
	return n == 1, nil
}
