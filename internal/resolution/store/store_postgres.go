package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"unionhub/internal/platform/postgres"
	"unionhub/internal/resolution/models"
	id "unionhub/pkg/domain"
	"unionhub/pkg/platform/sentinel"
	"unionhub/pkg/platform/tx"
)

// PostgresStore persists the committee and resolution aggregates. Seat and
// tally changes lock the owning row so concurrent callers serialize.
type PostgresStore struct {
	db *sql.DB
}

func NewPostgres(db *sql.DB) *PostgresStore {
	return &PostgresStore{db: db}
}

type rowScanner interface {
	Scan(dest ...any) error
}

const committeeColumns = `id, name, level, entity_id, district_id, quorum_percentage, voting_threshold,
	min_members, max_members, created_by, created_at`

func scanCommittee(row rowScanner) (*models.Committee, error) {
	var (
		c                   models.Committee
		committeeID, entity uuid.UUID
		district, createdBy uuid.NullUUID
		level               string
	)
	if err := row.Scan(&committeeID, &c.Name, &level, &entity, &district, &c.QuorumPercentage,
		&c.VotingThreshold, &c.MinMembers, &c.MaxMembers, &createdBy, &c.CreatedAt); err != nil {
		return nil, err
	}
	c.ID = id.CommitteeID(committeeID)
	c.Level = id.Level(level)
	c.EntityID = id.EntityID(entity)
	c.DistrictID = id.DistrictID(postgres.UUIDFrom(district))
	c.CreatedBy = id.MemberID(postgres.UUIDFrom(createdBy))
	return &c, nil
}

func (s *PostgresStore) CreateCommittee(ctx context.Context, c *models.Committee) error {
	_, err := tx.Executor(ctx, s.db).ExecContext(ctx, `
		INSERT INTO committees (`+committeeColumns+`)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
	`,
		uuid.UUID(c.ID), c.Name, string(c.Level), uuid.UUID(c.EntityID), postgres.NullUUID(uuid.UUID(c.DistrictID)),
		c.QuorumPercentage, c.VotingThreshold, c.MinMembers, c.MaxMembers,
		postgres.NullUUID(uuid.UUID(c.CreatedBy)), c.CreatedAt,
	)
	if err != nil {
		if postgres.IsUniqueViolation(err) {
			return sentinel.ErrAlreadyUsed
		}
		return fmt.Errorf("insert committee: %w", err)
	}
	return nil
}

func (s *PostgresStore) FindCommittee(ctx context.Context, committeeID id.CommitteeID) (*models.Committee, error) {
	return s.findCommittee(ctx, committeeID, false)
}

func (s *PostgresStore) findCommittee(ctx context.Context, committeeID id.CommitteeID, forUpdate bool) (*models.Committee, error) {
	query := `SELECT ` + committeeColumns + ` FROM committees WHERE id = $1`
	if forUpdate {
		query += ` FOR UPDATE`
	}
	c, err := scanCommittee(tx.Executor(ctx, s.db).QueryRowContext(ctx, query, uuid.UUID(committeeID)))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, sentinel.ErrNotFound
		}
		return nil, fmt.Errorf("find committee: %w", err)
	}
	return c, nil
}

func (s *PostgresStore) ListCommittees(ctx context.Context, f CommitteeFilter) ([]*models.Committee, error) {
	query := `SELECT ` + committeeColumns + ` FROM committees WHERE TRUE`
	var args []any
	if f.Level != "" {
		args = append(args, string(f.Level))
		query += fmt.Sprintf(` AND level = $%d`, len(args))
	}
	if !f.EntityID.IsNil() {
		args = append(args, uuid.UUID(f.EntityID))
		query += fmt.Sprintf(` AND entity_id = $%d`, len(args))
	}
	query += ` ORDER BY created_at, id::text`
	rows, err := tx.Executor(ctx, s.db).QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list committees: %w", err)
	}
	defer rows.Close()
	var out []*models.Committee
	for rows.Next() {
		c, err := scanCommittee(rows)
		if err != nil {
			return nil, fmt.Errorf("scan committee: %w", err)
		}
		out = append(out, c)
	}
	return out, rows.Err()
}

func (s *PostgresStore) ActiveMembers(ctx context.Context, committeeID id.CommitteeID) ([]*models.CommitteeMember, error) {
	rows, err := tx.Executor(ctx, s.db).QueryContext(ctx, `
		SELECT committee_id, member_id, role, active, joined_at
		FROM committee_members WHERE committee_id = $1 AND active
		ORDER BY joined_at, member_id::text
	`, uuid.UUID(committeeID))
	if err != nil {
		return nil, fmt.Errorf("list committee members: %w", err)
	}
	defer rows.Close()
	var out []*models.CommitteeMember
	for rows.Next() {
		var (
			m                 models.CommitteeMember
			committee, member uuid.UUID
			role              string
		)
		if err := rows.Scan(&committee, &member, &role, &m.Active, &m.JoinedAt); err != nil {
			return nil, fmt.Errorf("scan committee member: %w", err)
		}
		m.CommitteeID = id.CommitteeID(committee)
		m.MemberID = id.MemberID(member)
		m.Role = models.Role(role)
		out = append(out, &m)
	}
	return out, rows.Err()
}

// lockedRoster locks the committee row and reads its active seats.
func (s *PostgresStore) lockedRoster(ctx context.Context, committeeID id.CommitteeID) (*models.Committee, []*models.CommitteeMember, error) {
	c, err := s.findCommittee(ctx, committeeID, true)
	if err != nil {
		return nil, nil, err
	}
	active, err := s.ActiveMembers(ctx, committeeID)
	if err != nil {
		return nil, nil, err
	}
	return c, active, nil
}

func (s *PostgresStore) SeatMember(ctx context.Context, m *models.CommitteeMember, check SeatCheck) error {
	return tx.NewSQLRunner(s.db).RunInTx(ctx, func(txCtx context.Context) error {
		c, active, err := s.lockedRoster(txCtx, m.CommitteeID)
		if err != nil {
			return err
		}
		if err := check(c, active); err != nil {
			return err
		}
		if _, err := tx.Executor(txCtx, s.db).ExecContext(txCtx, `
			INSERT INTO committee_members (committee_id, member_id, role, active, joined_at)
			VALUES ($1, $2, $3, TRUE, $4)
			ON CONFLICT (committee_id, member_id)
			DO UPDATE SET role = EXCLUDED.role, active = TRUE, joined_at = EXCLUDED.joined_at
		`, uuid.UUID(m.CommitteeID), uuid.UUID(m.MemberID), string(m.Role), m.JoinedAt); err != nil {
			return fmt.Errorf("seat committee member: %w", err)
		}
		return nil
	})
}

func (s *PostgresStore) UnseatMember(ctx context.Context, committeeID id.CommitteeID, memberID id.MemberID, check SeatCheck) error {
	return tx.NewSQLRunner(s.db).RunInTx(ctx, func(txCtx context.Context) error {
		c, active, err := s.lockedRoster(txCtx, committeeID)
		if err != nil {
			return err
		}
		if err := check(c, active); err != nil {
			return err
		}
		res, err := tx.Executor(txCtx, s.db).ExecContext(txCtx, `
			UPDATE committee_members SET active = FALSE WHERE committee_id = $1 AND member_id = $2 AND active
		`, uuid.UUID(committeeID), uuid.UUID(memberID))
		if err != nil {
			return fmt.Errorf("unseat committee member: %w", err)
		}
		if n, _ := res.RowsAffected(); n != 1 {
			return sentinel.ErrNotFound
		}
		return nil
	})
}

const resolutionColumns = `id, committee_id, title, description, resolution_type, category, subject_member_id,
	status, proposed_by, votes_for, votes_against, votes_abstain, quorum_required, voting_opened_at,
	voting_closed_at, executed_by, executed_at, execution_notes, created_at, updated_at`

func scanResolution(row rowScanner) (*models.Resolution, error) {
	var (
		r                                 models.Resolution
		resolutionID, committee, proposer uuid.UUID
		subject, executedBy               uuid.NullUUID
		kind, status                      string
		opened, closed, executed          sql.NullTime
	)
	if err := row.Scan(&resolutionID, &committee, &r.Title, &r.Description, &kind, &r.Category, &subject,
		&status, &proposer, &r.VotesFor, &r.VotesAgainst, &r.VotesAbstain, &r.QuorumRequired, &opened,
		&closed, &executedBy, &executed, &r.ExecutionNotes, &r.CreatedAt, &r.UpdatedAt); err != nil {
		return nil, err
	}
	r.ID = id.ResolutionID(resolutionID)
	r.CommitteeID = id.CommitteeID(committee)
	r.Type = models.Type(kind)
	r.SubjectMemberID = id.MemberID(postgres.UUIDFrom(subject))
	r.Status = models.Status(status)
	r.ProposedBy = id.MemberID(proposer)
	r.VotingOpenedAt = postgres.TimeFrom(opened)
	r.VotingClosedAt = postgres.TimeFrom(closed)
	r.ExecutedBy = id.MemberID(postgres.UUIDFrom(executedBy))
	r.ExecutedAt = postgres.TimeFrom(executed)
	return &r, nil
}

func (s *PostgresStore) CreateResolution(ctx context.Context, r *models.Resolution) error {
	_, err := tx.Executor(ctx, s.db).ExecContext(ctx, `
		INSERT INTO resolutions (`+resolutionColumns+`)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17, $18, $19, $20)
	`,
		uuid.UUID(r.ID), uuid.UUID(r.CommitteeID), r.Title, r.Description, string(r.Type), r.Category,
		postgres.NullUUID(uuid.UUID(r.SubjectMemberID)), string(r.Status), uuid.UUID(r.ProposedBy),
		r.VotesFor, r.VotesAgainst, r.VotesAbstain, r.QuorumRequired,
		postgres.NullTime(r.VotingOpenedAt), postgres.NullTime(r.VotingClosedAt),
		postgres.NullUUID(uuid.UUID(r.ExecutedBy)), postgres.NullTime(r.ExecutedAt), r.ExecutionNotes,
		r.CreatedAt, r.UpdatedAt,
	)
	if err != nil {
		if postgres.IsUniqueViolation(err) {
			return sentinel.ErrAlreadyUsed
		}
		if postgres.IsForeignKeyViolation(err) {
			return sentinel.ErrNotFound
		}
		return fmt.Errorf("insert resolution: %w", err)
	}
	return nil
}

func (s *PostgresStore) FindResolution(ctx context.Context, resolutionID id.ResolutionID) (*models.Resolution, error) {
	return s.findResolution(ctx, resolutionID, false)
}

func (s *PostgresStore) findResolution(ctx context.Context, resolutionID id.ResolutionID, forUpdate bool) (*models.Resolution, error) {
	query := `SELECT ` + resolutionColumns + ` FROM resolutions WHERE id = $1`
	if forUpdate {
		query += ` FOR UPDATE`
	}
	r, err := scanResolution(tx.Executor(ctx, s.db).QueryRowContext(ctx, query, uuid.UUID(resolutionID)))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, sentinel.ErrNotFound
		}
		return nil, fmt.Errorf("find resolution: %w", err)
	}
	return r, nil
}

func (s *PostgresStore) ListResolutions(ctx context.Context, committeeID id.CommitteeID) ([]*models.Resolution, error) {
	rows, err := tx.Executor(ctx, s.db).QueryContext(ctx,
		`SELECT `+resolutionColumns+` FROM resolutions WHERE committee_id = $1 ORDER BY created_at, id::text`,
		uuid.UUID(committeeID))
	if err != nil {
		return nil, fmt.Errorf("list resolutions: %w", err)
	}
	defer rows.Close()
	var out []*models.Resolution
	for rows.Next() {
		r, err := scanResolution(rows)
		if err != nil {
			return nil, fmt.Errorf("scan resolution: %w", err)
		}
		out = append(out, r)
	}
	return out, rows.Err()
}

func (s *PostgresStore) updateResolution(ctx context.Context, r *models.Resolution) error {
	_, err := tx.Executor(ctx, s.db).ExecContext(ctx, `
		UPDATE resolutions SET
			title = $2, description = $3, resolution_type = $4, category = $5, subject_member_id = $6,
			status = $7, votes_for = $8, votes_against = $9, votes_abstain = $10, quorum_required = $11,
			voting_opened_at = $12, voting_closed_at = $13, executed_by = $14, executed_at = $15,
			execution_notes = $16, updated_at = $17
		WHERE id = $1
	`,
		uuid.UUID(r.ID), r.Title, r.Description, string(r.Type), r.Category,
		postgres.NullUUID(uuid.UUID(r.SubjectMemberID)), string(r.Status),
		r.VotesFor, r.VotesAgainst, r.VotesAbstain, r.QuorumRequired,
		postgres.NullTime(r.VotingOpenedAt), postgres.NullTime(r.VotingClosedAt),
		postgres.NullUUID(uuid.UUID(r.ExecutedBy)), postgres.NullTime(r.ExecutedAt),
		r.ExecutionNotes, r.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("update resolution: %w", err)
	}
	return nil
}

func (s *PostgresStore) ExecuteResolution(ctx context.Context, resolutionID id.ResolutionID, validate func(*models.Resolution) error, mutate func(*models.Resolution) error) (*models.Resolution, error) {
	var result *models.Resolution
	err := tx.NewSQLRunner(s.db).RunInTx(ctx, func(txCtx context.Context) error {
		r, err := s.findResolution(txCtx, resolutionID, true)
		if err != nil {
			return err
		}
		if err := validate(r); err != nil {
			return err
		}
		if err := mutate(r); err != nil {
			return err
		}
		if err := s.updateResolution(txCtx, r); err != nil {
			return err
		}
		result = r
		return nil
	})
	if err != nil {
		return nil, err
	}
	return result, nil
}

func (s *PostgresStore) DeleteResolution(ctx context.Context, resolutionID id.ResolutionID) error {
	return tx.NewSQLRunner(s.db).RunInTx(ctx, func(txCtx context.Context) error {
		if _, err := s.findResolution(txCtx, resolutionID, true); err != nil {
			return err
		}
		exec := tx.Executor(txCtx, s.db)
		var votes int
		if err := exec.QueryRowContext(txCtx,
			`SELECT COUNT(*) FROM resolution_votes WHERE resolution_id = $1`, uuid.UUID(resolutionID),
		).Scan(&votes); err != nil {
			return fmt.Errorf("count resolution votes: %w", err)
		}
		if votes > 0 {
			return sentinel.ErrInvalidState
		}
		if _, err := exec.ExecContext(txCtx, `DELETE FROM resolution_appeals WHERE resolution_id = $1`, uuid.UUID(resolutionID)); err != nil {
			return fmt.Errorf("delete appeals: %w", err)
		}
		if _, err := exec.ExecContext(txCtx, `DELETE FROM resolutions WHERE id = $1`, uuid.UUID(resolutionID)); err != nil {
			return fmt.Errorf("delete resolution: %w", err)
		}
		return nil
	})
}

// CastVote inserts the ballot and updates the tally under the resolution's
// row lock. UNIQUE (resolution_id, member_id) rejects a second ballot.
func (s *PostgresStore) CastVote(ctx context.Context, v *models.Vote, validate func(*models.Resolution) error) (*models.Resolution, error) {
	var result *models.Resolution
	err := tx.NewSQLRunner(s.db).RunInTx(ctx, func(txCtx context.Context) error {
		r, err := s.findResolution(txCtx, v.ResolutionID, true)
		if err != nil {
			return err
		}
		if err := validate(r); err != nil {
			return err
		}
		if err := r.Record(v.Choice); err != nil {
			return err
		}
		if _, err := tx.Executor(txCtx, s.db).ExecContext(txCtx, `
			INSERT INTO resolution_votes (id, resolution_id, member_id, choice, cast_at)
			VALUES ($1, $2, $3, $4, $5)
		`, uuid.UUID(v.ID), uuid.UUID(v.ResolutionID), uuid.UUID(v.MemberID), string(v.Choice), v.CastAt); err != nil {
			if postgres.IsUniqueViolation(err) {
				return sentinel.ErrAlreadyUsed
			}
			return fmt.Errorf("insert resolution vote: %w", err)
		}
		r.UpdatedAt = v.CastAt
		if err := s.updateResolution(txCtx, r); err != nil {
			return err
		}
		result = r
		return nil
	})
	if err != nil {
		return nil, err
	}
	return result, nil
}

func (s *PostgresStore) ListVotes(ctx context.Context, resolutionID id.ResolutionID) ([]*models.Vote, error) {
	rows, err := tx.Executor(ctx, s.db).QueryContext(ctx, `
		SELECT id, resolution_id, member_id, choice, cast_at
		FROM resolution_votes WHERE resolution_id = $1
		ORDER BY cast_at, id::text
	`, uuid.UUID(resolutionID))
	if err != nil {
		return nil, fmt.Errorf("list resolution votes: %w", err)
	}
	defer rows.Close()
	var out []*models.Vote
	for rows.Next() {
		var (
			v                          models.Vote
			voteID, resolution, member uuid.UUID
			choice                     string
		)
		if err := rows.Scan(&voteID, &resolution, &member, &choice, &v.CastAt); err != nil {
			return nil, fmt.Errorf("scan resolution vote: %w", err)
		}
		v.ID = id.ResolutionVoteID(voteID)
		v.ResolutionID = id.ResolutionID(resolution)
		v.MemberID = id.MemberID(member)
		v.Choice = models.Choice(choice)
		out = append(out, &v)
	}
	return out, rows.Err()
}

func (s *PostgresStore) RecordAppeal(ctx context.Context, a *models.Appeal) error {
	_, err := tx.Executor(ctx, s.db).ExecContext(ctx, `
		INSERT INTO resolution_appeals (id, resolution_id, status, filed_at) VALUES ($1, $2, $3, $4)
	`, a.ID, uuid.UUID(a.ResolutionID), string(a.Status), a.FiledAt)
	if err != nil {
		if postgres.IsForeignKeyViolation(err) {
			return sentinel.ErrNotFound
		}
		return fmt.Errorf("insert appeal: %w", err)
	}
	return nil
}

func (s *PostgresStore) HasActiveAppeal(ctx context.Context, resolutionID id.ResolutionID) (bool, error) {
	var exists bool
	if err := tx.Executor(ctx, s.db).QueryRowContext(ctx, `
		SELECT EXISTS (SELECT 1 FROM resolution_appeals WHERE resolution_id = $1 AND status IN ($2, $3))
	`, uuid.UUID(resolutionID), string(models.AppealPending), string(models.AppealUnderReview)).Scan(&exists); err != nil {
		return false, fmt.Errorf("check appeals: %w", err)
	}
	return exists, nil
}
