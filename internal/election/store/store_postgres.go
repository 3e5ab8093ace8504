package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"

	"unionhub/internal/election/models"
	"unionhub/internal/eligibility"
	"unionhub/internal/platform/postgres"
	id "unionhub/pkg/domain"
	"unionhub/pkg/platform/sentinel"
	"unionhub/pkg/platform/tx"
)

// PostgresStore persists elections and their dependents in PostgreSQL.
// Unique indexes enforce one ballot per member and one live candidacy per
// position; the store maps their violations to sentinel.ErrAlreadyUsed.
type PostgresStore struct {
	db *sql.DB
}

func NewPostgres(db *sql.DB) *PostgresStore {
	return &PostgresStore{db: db}
}

type rowScanner interface {
	Scan(dest ...any) error
}

const electionColumns = `id, title, election_type, level, scope_id, district_id, status,
	nomination_start, nomination_end, voting_start, voting_end, voting_criteria, candidacy_criteria,
	eligible_voter_count, created_by, created_at, updated_at`

func criteriaJSON(c *eligibility.Criteria) (any, error) {
	if c.IsEmpty() {
		return nil, nil
	}
	b, err := json.Marshal(c)
	if err != nil {
		return nil, fmt.Errorf("marshal criteria: %w", err)
	}
	return b, nil
}

func parseCriteria(raw []byte) (*eligibility.Criteria, error) {
	if len(raw) == 0 {
		return nil, nil
	}
	var c eligibility.Criteria
	if err := json.Unmarshal(raw, &c); err != nil {
		return nil, fmt.Errorf("unmarshal criteria: %w", err)
	}
	return &c, nil
}

func scanElection(row rowScanner) (*models.Election, error) {
	var (
		e                   models.Election
		electionID, scopeID uuid.UUID
		district, createdBy uuid.NullUUID
		kind, level, status string
		voting, candidacy   []byte
	)
	if err := row.Scan(&electionID, &e.Title, &kind, &level, &scopeID, &district, &status,
		&e.Nomination.Start, &e.Nomination.End, &e.Voting.Start, &e.Voting.End, &voting, &candidacy,
		&e.EligibleVoterCount, &createdBy, &e.CreatedAt, &e.UpdatedAt); err != nil {
		return nil, err
	}
	var err error
	if e.VotingCriteria, err = parseCriteria(voting); err != nil {
		return nil, err
	}
	if e.CandidacyCriteria, err = parseCriteria(candidacy); err != nil {
		return nil, err
	}
	e.ID = id.ElectionID(electionID)
	e.Type = models.Type(kind)
	e.Level = id.Level(level)
	e.EntityID = id.EntityID(scopeID)
	e.DistrictID = id.DistrictID(postgres.UUIDFrom(district))
	e.CreatedBy = id.MemberID(postgres.UUIDFrom(createdBy))
	e.Status = models.Status(status)
	return &e, nil
}

func (s *PostgresStore) CreateElection(ctx context.Context, e *models.Election) error {
	voting, err := criteriaJSON(e.VotingCriteria)
	if err != nil {
		return err
	}
	candidacy, err := criteriaJSON(e.CandidacyCriteria)
	if err != nil {
		return err
	}
	_, err = tx.Executor(ctx, s.db).ExecContext(ctx, `
		INSERT INTO elections (`+electionColumns+`)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17)
	`,
		uuid.UUID(e.ID), e.Title, string(e.Type), string(e.Level), uuid.UUID(e.EntityID),
		postgres.NullUUID(uuid.UUID(e.DistrictID)), string(e.Status),
		e.Nomination.Start, e.Nomination.End, e.Voting.Start, e.Voting.End, voting, candidacy,
		e.EligibleVoterCount, postgres.NullUUID(uuid.UUID(e.CreatedBy)), e.CreatedAt, e.UpdatedAt,
	)
	if err != nil {
		if postgres.IsUniqueViolation(err) {
			return sentinel.ErrAlreadyUsed
		}
		return fmt.Errorf("insert election: %w", err)
	}
	return nil
}

func (s *PostgresStore) FindElection(ctx context.Context, electionID id.ElectionID) (*models.Election, error) {
	return s.findElection(ctx, electionID, false)
}

func (s *PostgresStore) findElection(ctx context.Context, electionID id.ElectionID, forUpdate bool) (*models.Election, error) {
	query := `SELECT ` + electionColumns + ` FROM elections WHERE id = $1`
	if forUpdate {
		query += ` FOR UPDATE`
	}
	e, err := scanElection(tx.Executor(ctx, s.db).QueryRowContext(ctx, query, uuid.UUID(electionID)))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, sentinel.ErrNotFound
		}
		return nil, fmt.Errorf("find election: %w", err)
	}
	return e, nil
}

func (s *PostgresStore) ListElections(ctx context.Context, f ElectionFilter) ([]*models.Election, error) {
	var (
		where []string
		args  []any
	)
	arg := func(v any) string {
		args = append(args, v)
		return fmt.Sprintf("$%d", len(args))
	}
	if f.Level != "" {
		where = append(where, "level = "+arg(string(f.Level)))
	}
	if !f.EntityID.IsNil() {
		where = append(where, "scope_id = "+arg(uuid.UUID(f.EntityID)))
	}
	if len(f.Statuses) > 0 {
		statuses := make([]string, 0, len(f.Statuses))
		for _, st := range f.Statuses {
			statuses = append(statuses, string(st))
		}
		where = append(where, "status = ANY("+arg(pq.Array(statuses))+"::text[])")
	}
	query := `SELECT ` + electionColumns + ` FROM elections`
	if len(where) > 0 {
		query += ` WHERE ` + strings.Join(where, " AND ")
	}
	query += ` ORDER BY created_at`

	rows, err := tx.Executor(ctx, s.db).QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list elections: %w", err)
	}
	defer rows.Close()
	var out []*models.Election
	for rows.Next() {
		e, err := scanElection(rows)
		if err != nil {
			return nil, fmt.Errorf("scan election: %w", err)
		}
		out = append(out, e)
	}
	return out, rows.Err()
}

// ExecuteElection locks the election row for the validate/mutate cycle.
func (s *PostgresStore) ExecuteElection(ctx context.Context, electionID id.ElectionID, validate func(*models.Election) error, mutate func(*models.Election)) (*models.Election, error) {
	var result *models.Election
	err := tx.NewSQLRunner(s.db).RunInTx(ctx, func(txCtx context.Context) error {
		e, err := s.findElection(txCtx, electionID, true)
		if err != nil {
			return err
		}
		if err := validate(e); err != nil {
			return err
		}
		mutate(e)
		voting, err := criteriaJSON(e.VotingCriteria)
		if err != nil {
			return err
		}
		candidacy, err := criteriaJSON(e.CandidacyCriteria)
		if err != nil {
			return err
		}
		if _, err := tx.Executor(txCtx, s.db).ExecContext(txCtx, `
			UPDATE elections SET title = $2, election_type = $3, level = $4, scope_id = $5, district_id = $6,
				status = $7, nomination_start = $8, nomination_end = $9, voting_start = $10, voting_end = $11,
				voting_criteria = $12, candidacy_criteria = $13, eligible_voter_count = $14, updated_at = $15
			WHERE id = $1
		`,
			uuid.UUID(e.ID), e.Title, string(e.Type), string(e.Level), uuid.UUID(e.EntityID),
			postgres.NullUUID(uuid.UUID(e.DistrictID)), string(e.Status),
			e.Nomination.Start, e.Nomination.End, e.Voting.Start, e.Voting.End, voting, candidacy,
			e.EligibleVoterCount, e.UpdatedAt,
		); err != nil {
			return fmt.Errorf("update election: %w", err)
		}
		result = e
		return nil
	})
	if err != nil {
		return nil, err
	}
	return result, nil
}

// DeleteElection removes an election that has no candidates or votes,
// together with its delegates, OTPs and results.
func (s *PostgresStore) DeleteElection(ctx context.Context, electionID id.ElectionID) error {
	return tx.NewSQLRunner(s.db).RunInTx(ctx, func(txCtx context.Context) error {
		if _, err := s.findElection(txCtx, electionID, true); err != nil {
			return err
		}
		a, err := s.Activity(txCtx, electionID)
		if err != nil {
			return err
		}
		if a.Candidates > 0 || a.Votes > 0 {
			return sentinel.ErrInvalidState
		}
		exec := tx.Executor(txCtx, s.db)
		for _, table := range []string{"election_results", "vote_otps", "delegates", "elections"} {
			column := "election_id"
			if table == "elections" {
				column = "id"
			}
			if _, err := exec.ExecContext(txCtx, `DELETE FROM `+table+` WHERE `+column+` = $1`, uuid.UUID(electionID)); err != nil {
				return fmt.Errorf("delete from %s: %w", table, err)
			}
		}
		return nil
	})
}

func (s *PostgresStore) Activity(ctx context.Context, electionID id.ElectionID) (Activity, error) {
	var a Activity
	err := tx.Executor(ctx, s.db).QueryRowContext(ctx, `
		SELECT (SELECT COUNT(*) FROM candidates WHERE election_id = $1),
		       (SELECT COUNT(*) FROM votes WHERE election_id = $1)
	`, uuid.UUID(electionID)).Scan(&a.Candidates, &a.Votes)
	if err != nil {
		return Activity{}, fmt.Errorf("count election activity: %w", err)
	}
	return a, nil
}

const candidateColumns = `id, election_id, member_id, position_title, statement, status, rejection_reason,
	vote_count, reviewed_by, reviewed_at, created_at, updated_at`

func scanCandidate(row rowScanner) (*models.Candidate, error) {
	var (
		c                                 models.Candidate
		candidateID, electionID, memberID uuid.UUID
		reviewedBy                        uuid.NullUUID
		reviewedAt                        sql.NullTime
		status                            string
	)
	if err := row.Scan(&candidateID, &electionID, &memberID, &c.PositionTitle, &c.Statement, &status,
		&c.RejectionReason, &c.VoteCount, &reviewedBy, &reviewedAt, &c.CreatedAt, &c.UpdatedAt); err != nil {
		return nil, err
	}
	c.ID = id.CandidateID(candidateID)
	c.ElectionID = id.ElectionID(electionID)
	c.MemberID = id.MemberID(memberID)
	c.Status = models.CandidateStatus(status)
	c.ReviewedBy = id.MemberID(postgres.UUIDFrom(reviewedBy))
	c.ReviewedAt = postgres.TimeFrom(reviewedAt)
	return &c, nil
}

func (s *PostgresStore) CreateCandidate(ctx context.Context, c *models.Candidate) error {
	_, err := tx.Executor(ctx, s.db).ExecContext(ctx, `
		INSERT INTO candidates (`+candidateColumns+`)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)
	`,
		uuid.UUID(c.ID), uuid.UUID(c.ElectionID), uuid.UUID(c.MemberID), c.PositionTitle, c.Statement,
		string(c.Status), c.RejectionReason, c.VoteCount, postgres.NullUUID(uuid.UUID(c.ReviewedBy)),
		postgres.NullTime(c.ReviewedAt), c.CreatedAt, c.UpdatedAt,
	)
	if err != nil {
		if postgres.IsUniqueViolation(err) {
			return sentinel.ErrAlreadyUsed
		}
		return fmt.Errorf("insert candidate: %w", err)
	}
	return nil
}

func (s *PostgresStore) FindCandidate(ctx context.Context, candidateID id.CandidateID) (*models.Candidate, error) {
	return s.findCandidate(ctx, candidateID, false)
}

func (s *PostgresStore) findCandidate(ctx context.Context, candidateID id.CandidateID, forUpdate bool) (*models.Candidate, error) {
	query := `SELECT ` + candidateColumns + ` FROM candidates WHERE id = $1`
	if forUpdate {
		query += ` FOR UPDATE`
	}
	c, err := scanCandidate(tx.Executor(ctx, s.db).QueryRowContext(ctx, query, uuid.UUID(candidateID)))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, sentinel.ErrNotFound
		}
		return nil, fmt.Errorf("find candidate: %w", err)
	}
	return c, nil
}

func (s *PostgresStore) ListCandidates(ctx context.Context, electionID id.ElectionID, status models.CandidateStatus) ([]*models.Candidate, error) {
	query := `SELECT ` + candidateColumns + ` FROM candidates WHERE election_id = $1`
	args := []any{uuid.UUID(electionID)}
	if status != "" {
		query += ` AND status = $2`
		args = append(args, string(status))
	}
	query += ` ORDER BY created_at, id::text`
	rows, err := tx.Executor(ctx, s.db).QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list candidates: %w", err)
	}
	defer rows.Close()
	var out []*models.Candidate
	for rows.Next() {
		c, err := scanCandidate(rows)
		if err != nil {
			return nil, fmt.Errorf("scan candidate: %w", err)
		}
		out = append(out, c)
	}
	return out, rows.Err()
}

func (s *PostgresStore) ExecuteCandidate(ctx context.Context, candidateID id.CandidateID, validate func(*models.Candidate) error, mutate func(*models.Candidate) error) (*models.Candidate, error) {
	var result *models.Candidate
	err := tx.NewSQLRunner(s.db).RunInTx(ctx, func(txCtx context.Context) error {
		c, err := s.findCandidate(txCtx, candidateID, true)
		if err != nil {
			return err
		}
		if err := validate(c); err != nil {
			return err
		}
		if err := mutate(c); err != nil {
			return err
		}
		if _, err := tx.Executor(txCtx, s.db).ExecContext(txCtx, `
			UPDATE candidates SET status = $2, rejection_reason = $3, reviewed_by = $4, reviewed_at = $5, updated_at = $6
			WHERE id = $1
		`,
			uuid.UUID(c.ID), string(c.Status), c.RejectionReason, postgres.NullUUID(uuid.UUID(c.ReviewedBy)),
			postgres.NullTime(c.ReviewedAt), c.UpdatedAt,
		); err != nil {
			return fmt.Errorf("update candidate: %w", err)
		}
		result = c
		return nil
	})
	if err != nil {
		return nil, err
	}
	return result, nil
}

// AddDelegates inserts the delegates in one statement, skipping members
// already on the roster.
func (s *PostgresStore) AddDelegates(ctx context.Context, delegates []*models.Delegate) (int, error) {
	if len(delegates) == 0 {
		return 0, nil
	}
	var (
		ids, elections, members, types, createdAt []string
	)
	for _, d := range delegates {
		ids = append(ids, uuid.UUID(d.ID).String())
		elections = append(elections, d.ElectionID.String())
		members = append(members, d.MemberID.String())
		types = append(types, string(d.Type))
		createdAt = append(createdAt, d.CreatedAt.UTC().Format(time.RFC3339Nano))
	}
	res, err := tx.Executor(ctx, s.db).ExecContext(ctx, `
		INSERT INTO delegates (id, election_id, member_id, delegate_type, created_at)
		SELECT * FROM unnest($1::uuid[], $2::uuid[], $3::uuid[], $4::text[], $5::timestamptz[])
		ON CONFLICT (election_id, member_id) DO NOTHING
	`, pq.Array(ids), pq.Array(elections), pq.Array(members), pq.Array(types), pq.Array(createdAt))
	if err != nil {
		return 0, fmt.Errorf("insert delegates: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("insert delegates: %w", err)
	}
	return int(n), nil
}

func (s *PostgresStore) ListDelegates(ctx context.Context, electionID id.ElectionID) ([]*models.Delegate, error) {
	rows, err := tx.Executor(ctx, s.db).QueryContext(ctx, `
		SELECT id, election_id, member_id, delegate_type, created_at
		FROM delegates WHERE election_id = $1
		ORDER BY created_at, member_id::text
	`, uuid.UUID(electionID))
	if err != nil {
		return nil, fmt.Errorf("list delegates: %w", err)
	}
	defer rows.Close()
	var out []*models.Delegate
	for rows.Next() {
		var (
			d                       models.Delegate
			delegateID, eID, member uuid.UUID
			kind                    string
		)
		if err := rows.Scan(&delegateID, &eID, &member, &kind, &d.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan delegate: %w", err)
		}
		d.ID = id.DelegateID(delegateID)
		d.ElectionID = id.ElectionID(eID)
		d.MemberID = id.MemberID(member)
		d.Type = eligibility.DelegateType(kind)
		out = append(out, &d)
	}
	return out, rows.Err()
}

func (s *PostgresStore) CountDelegates(ctx context.Context, electionID id.ElectionID) (int, error) {
	var n int
	if err := tx.Executor(ctx, s.db).QueryRowContext(ctx,
		`SELECT COUNT(*) FROM delegates WHERE election_id = $1`, uuid.UUID(electionID),
	).Scan(&n); err != nil {
		return 0, fmt.Errorf("count delegates: %w", err)
	}
	return n, nil
}

func (s *PostgresStore) IsDelegate(ctx context.Context, electionID id.ElectionID, memberID id.MemberID) (bool, error) {
	var exists bool
	if err := tx.Executor(ctx, s.db).QueryRowContext(ctx,
		`SELECT EXISTS (SELECT 1 FROM delegates WHERE election_id = $1 AND member_id = $2)`,
		uuid.UUID(electionID), uuid.UUID(memberID),
	).Scan(&exists); err != nil {
		return false, fmt.Errorf("check delegate: %w", err)
	}
	return exists, nil
}

const otpColumns = `id, election_id, member_id, code_hash, expires_at, attempts, is_verified, verified_at, created_at`

func scanOTP(row rowScanner) (*models.OTP, error) {
	var (
		o                         models.OTP
		otpID, electionID, member uuid.UUID
		hash                      string
		verifiedAt                sql.NullTime
	)
	if err := row.Scan(&otpID, &electionID, &member, &hash, &o.ExpiresAt, &o.Attempts, &o.Verified,
		&verifiedAt, &o.CreatedAt); err != nil {
		return nil, err
	}
	o.ID = id.OTPID(otpID)
	o.ElectionID = id.ElectionID(electionID)
	o.MemberID = id.MemberID(member)
	o.CodeHash = []byte(hash)
	o.VerifiedAt = postgres.TimeFrom(verifiedAt)
	return &o, nil
}

func (s *PostgresStore) CreateOTP(ctx context.Context, o *models.OTP) error {
	_, err := tx.Executor(ctx, s.db).ExecContext(ctx, `
		INSERT INTO vote_otps (`+otpColumns+`) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
	`,
		uuid.UUID(o.ID), uuid.UUID(o.ElectionID), uuid.UUID(o.MemberID), string(o.CodeHash), o.ExpiresAt,
		o.Attempts, o.Verified, postgres.NullTime(o.VerifiedAt), o.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("insert otp: %w", err)
	}
	return nil
}

// AttemptLatestOTP locks the newest unverified OTP so concurrent checks of
// the same code are applied one after the other, then writes back the
// attempt counter and verification flag whatever attempt decided.
func (s *PostgresStore) AttemptLatestOTP(ctx context.Context, electionID id.ElectionID, memberID id.MemberID, attempt func(*models.OTP)) (*models.OTP, error) {
	var result *models.OTP
	err := tx.NewSQLRunner(s.db).RunInTx(ctx, func(txCtx context.Context) error {
		o, err := scanOTP(tx.Executor(txCtx, s.db).QueryRowContext(txCtx, `
			SELECT `+otpColumns+` FROM vote_otps
			WHERE election_id = $1 AND member_id = $2 AND NOT is_verified
			ORDER BY created_at DESC
			LIMIT 1
			FOR UPDATE
		`, uuid.UUID(electionID), uuid.UUID(memberID)))
		if err != nil {
			if errors.Is(err, sql.ErrNoRows) {
				return sentinel.ErrNotFound
			}
			return fmt.Errorf("find otp: %w", err)
		}
		attempt(o)
		if _, err := tx.Executor(txCtx, s.db).ExecContext(txCtx,
			`UPDATE vote_otps SET attempts = $2, is_verified = $3, verified_at = $4 WHERE id = $1`,
			uuid.UUID(o.ID), o.Attempts, o.Verified, postgres.NullTime(o.VerifiedAt),
		); err != nil {
			return fmt.Errorf("update otp: %w", err)
		}
		result = o
		return nil
	})
	if err != nil {
		return nil, err
	}
	return result, nil
}

func (s *PostgresStore) LatestVerifiedOTP(ctx context.Context, electionID id.ElectionID, memberID id.MemberID) (*models.OTP, error) {
	o, err := scanOTP(tx.Executor(ctx, s.db).QueryRowContext(ctx, `
		SELECT `+otpColumns+` FROM vote_otps
		WHERE election_id = $1 AND member_id = $2 AND is_verified
		ORDER BY verified_at DESC
		LIMIT 1
	`, uuid.UUID(electionID), uuid.UUID(memberID)))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, sentinel.ErrNotFound
		}
		return nil, fmt.Errorf("find verified otp: %w", err)
	}
	return o, nil
}

const voteColumns = `id, election_id, member_id, candidate_id, verification_status, hash, photo_path,
	ip_address, device, verified_by, verified_at, rejection_reason, cast_at`

func scanVote(row rowScanner) (*models.Vote, error) {
	var (
		v                                     models.Vote
		voteID, electionID, member, candidate uuid.UUID
		verifiedBy                            uuid.NullUUID
		verifiedAt                            sql.NullTime
		status                                string
	)
	if err := row.Scan(&voteID, &electionID, &member, &candidate, &status, &v.Hash, &v.PhotoPath,
		&v.IPAddress, &v.Device, &verifiedBy, &verifiedAt, &v.RejectionReason, &v.CastAt); err != nil {
		return nil, err
	}
	v.ID = id.VoteID(voteID)
	v.ElectionID = id.ElectionID(electionID)
	v.MemberID = id.MemberID(member)
	v.CandidateID = id.CandidateID(candidate)
	v.Status = models.VerificationStatus(status)
	v.VerifiedBy = id.MemberID(postgres.UUIDFrom(verifiedBy))
	v.VerifiedAt = postgres.TimeFrom(verifiedAt)
	return &v, nil
}

// CreateVote relies on UNIQUE (election_id, member_id) so that concurrent
// casts by one member cannot both land.
func (s *PostgresStore) CreateVote(ctx context.Context, v *models.Vote) error {
	_, err := tx.Executor(ctx, s.db).ExecContext(ctx, `
		INSERT INTO votes (`+voteColumns+`)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)
	`,
		uuid.UUID(v.ID), uuid.UUID(v.ElectionID), uuid.UUID(v.MemberID), uuid.UUID(v.CandidateID),
		string(v.Status), v.Hash, v.PhotoPath, v.IPAddress, v.Device,
		postgres.NullUUID(uuid.UUID(v.VerifiedBy)), postgres.NullTime(v.VerifiedAt), v.RejectionReason, v.CastAt,
	)
	if err != nil {
		if postgres.IsUniqueViolation(err) {
			return sentinel.ErrAlreadyUsed
		}
		return fmt.Errorf("insert vote: %w", err)
	}
	return nil
}

func (s *PostgresStore) FindVote(ctx context.Context, voteID id.VoteID) (*models.Vote, error) {
	return s.findVote(ctx, `id = $1`, false, uuid.UUID(voteID))
}

func (s *PostgresStore) FindVoteByMember(ctx context.Context, electionID id.ElectionID, memberID id.MemberID) (*models.Vote, error) {
	return s.findVote(ctx, `election_id = $1 AND member_id = $2`, false, uuid.UUID(electionID), uuid.UUID(memberID))
}

func (s *PostgresStore) findVote(ctx context.Context, where string, forUpdate bool, args ...any) (*models.Vote, error) {
	query := `SELECT ` + voteColumns + ` FROM votes WHERE ` + where
	if forUpdate {
		query += ` FOR UPDATE`
	}
	v, err := scanVote(tx.Executor(ctx, s.db).QueryRowContext(ctx, query, args...))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, sentinel.ErrNotFound
		}
		return nil, fmt.Errorf("find vote: %w", err)
	}
	return v, nil
}

func (s *PostgresStore) ListPendingVotes(ctx context.Context, electionID id.ElectionID, page PendingPage) ([]*models.Vote, error) {
	query := `SELECT ` + voteColumns + ` FROM votes WHERE election_id = $1 AND verification_status = 'pending'`
	args := []any{uuid.UUID(electionID)}
	if !page.AfterCastAt.IsZero() {
		query += ` AND (cast_at, id::text) > ($2, $3)`
		args = append(args, page.AfterCastAt, page.AfterID.String())
	}
	query += ` ORDER BY cast_at, id::text`
	if page.Limit > 0 {
		query += fmt.Sprintf(` LIMIT %d`, page.Limit)
	}
	rows, err := tx.Executor(ctx, s.db).QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list pending votes: %w", err)
	}
	defer rows.Close()
	var out []*models.Vote
	for rows.Next() {
		v, err := scanVote(rows)
		if err != nil {
			return nil, fmt.Errorf("scan vote: %w", err)
		}
		out = append(out, v)
	}
	return out, rows.Err()
}

// ReviewVote locks the vote, applies the review and, when the vote becomes
// verified, increments the candidate tally in the same transaction.
func (s *PostgresStore) ReviewVote(ctx context.Context, voteID id.VoteID, validate func(*models.Vote) error, mutate func(*models.Vote) error) (*models.Vote, error) {
	var result *models.Vote
	err := tx.NewSQLRunner(s.db).RunInTx(ctx, func(txCtx context.Context) error {
		v, err := s.findVote(txCtx, `id = $1`, true, uuid.UUID(voteID))
		if err != nil {
			return err
		}
		before := v.Status
		if err := validate(v); err != nil {
			return err
		}
		if err := mutate(v); err != nil {
			return err
		}
		exec := tx.Executor(txCtx, s.db)
		if _, err := exec.ExecContext(txCtx, `
			UPDATE votes SET verification_status = $2, verified_by = $3, verified_at = $4, rejection_reason = $5
			WHERE id = $1
		`,
			uuid.UUID(v.ID), string(v.Status), postgres.NullUUID(uuid.UUID(v.VerifiedBy)),
			postgres.NullTime(v.VerifiedAt), v.RejectionReason,
		); err != nil {
			return fmt.Errorf("update vote: %w", err)
		}
		if before != models.VoteVerified && v.Status == models.VoteVerified {
			res, err := exec.ExecContext(txCtx,
				`UPDATE candidates SET vote_count = vote_count + 1 WHERE id = $1`, uuid.UUID(v.CandidateID))
			if err != nil {
				return fmt.Errorf("increment tally: %w", err)
			}
			if n, _ := res.RowsAffected(); n != 1 {
				return sentinel.ErrNotFound
			}
		}
		result = v
		return nil
	})
	if err != nil {
		return nil, err
	}
	return result, nil
}

func (s *PostgresStore) CountVerifiedVoters(ctx context.Context, electionID id.ElectionID) (int, error) {
	var n int
	if err := tx.Executor(ctx, s.db).QueryRowContext(ctx, `
		SELECT COUNT(DISTINCT member_id) FROM votes WHERE election_id = $1 AND verification_status = 'verified'
	`, uuid.UUID(electionID)).Scan(&n); err != nil {
		return 0, fmt.Errorf("count voters: %w", err)
	}
	return n, nil
}

func (s *PostgresStore) CountVerifiedVotes(ctx context.Context, electionID id.ElectionID) (map[id.CandidateID]int, error) {
	rows, err := tx.Executor(ctx, s.db).QueryContext(ctx, `
		SELECT candidate_id, COUNT(*) FROM votes
		WHERE election_id = $1 AND verification_status = 'verified'
		GROUP BY candidate_id
	`, uuid.UUID(electionID))
	if err != nil {
		return nil, fmt.Errorf("count verified votes: %w", err)
	}
	defer rows.Close()
	out := make(map[id.CandidateID]int)
	for rows.Next() {
		var (
			candidate uuid.UUID
			n         int
		)
		if err := rows.Scan(&candidate, &n); err != nil {
			return nil, fmt.Errorf("scan vote count: %w", err)
		}
		out[id.CandidateID(candidate)] = n
	}
	return out, rows.Err()
}

const resultColumns = `id, election_id, position_title, winner_candidate_id, winner_member_id, winner_votes,
	total_votes, total_voters, vote_percentage, is_certified, certified_by, certified_at, created_at`

func (s *PostgresStore) ReplaceResults(ctx context.Context, electionID id.ElectionID, results []*models.Result) error {
	return tx.NewSQLRunner(s.db).RunInTx(ctx, func(txCtx context.Context) error {
		exec := tx.Executor(txCtx, s.db)
		if _, err := exec.ExecContext(txCtx, `DELETE FROM election_results WHERE election_id = $1`, uuid.UUID(electionID)); err != nil {
			return fmt.Errorf("clear results: %w", err)
		}
		for _, r := range results {
			if _, err := exec.ExecContext(txCtx, `
				INSERT INTO election_results (`+resultColumns+`)
				VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)
			`,
				uuid.UUID(r.ID), uuid.UUID(r.ElectionID), r.PositionTitle,
				postgres.NullUUID(uuid.UUID(r.WinnerCandidateID)), postgres.NullUUID(uuid.UUID(r.WinnerMemberID)),
				r.WinnerVotes, r.TotalVotes, r.TotalVoters, r.VotePercentage, r.IsCertified,
				postgres.NullUUID(uuid.UUID(r.CertifiedBy)), postgres.NullTime(r.CertifiedAt), r.CalculatedAt,
			); err != nil {
				return fmt.Errorf("insert result: %w", err)
			}
		}
		return nil
	})
}

func (s *PostgresStore) ListResults(ctx context.Context, electionID id.ElectionID) ([]*models.Result, error) {
	rows, err := tx.Executor(ctx, s.db).QueryContext(ctx, `
		SELECT `+resultColumns+` FROM election_results WHERE election_id = $1 ORDER BY position_title
	`, uuid.UUID(electionID))
	if err != nil {
		return nil, fmt.Errorf("list results: %w", err)
	}
	defer rows.Close()
	var out []*models.Result
	for rows.Next() {
		var (
			r                             models.Result
			resultID, eID                 uuid.UUID
			winnerCandidate, winnerMember uuid.NullUUID
			certifiedBy                   uuid.NullUUID
			certifiedAt                   sql.NullTime
		)
		if err := rows.Scan(&resultID, &eID, &r.PositionTitle, &winnerCandidate, &winnerMember, &r.WinnerVotes,
			&r.TotalVotes, &r.TotalVoters, &r.VotePercentage, &r.IsCertified, &certifiedBy, &certifiedAt,
			&r.CalculatedAt); err != nil {
			return nil, fmt.Errorf("scan result: %w", err)
		}
		r.ID = id.ResultID(resultID)
		r.ElectionID = id.ElectionID(eID)
		r.WinnerCandidateID = id.CandidateID(postgres.UUIDFrom(winnerCandidate))
		r.WinnerMemberID = id.MemberID(postgres.UUIDFrom(winnerMember))
		r.CertifiedBy = id.MemberID(postgres.UUIDFrom(certifiedBy))
		r.CertifiedAt = postgres.TimeFrom(certifiedAt)
		out = append(out, &r)
	}
	return out, rows.Err()
}

func (s *PostgresStore) CertifyResults(ctx context.Context, electionID id.ElectionID, certifier id.MemberID, now time.Time) (int, error) {
	res, err := tx.Executor(ctx, s.db).ExecContext(ctx, `
		UPDATE election_results SET is_certified = TRUE, certified_by = $2, certified_at = $3
		WHERE election_id = $1
	`, uuid.UUID(electionID), postgres.NullUUID(uuid.UUID(certifier)), now)
	if err != nil {
		return 0, fmt.Errorf("certify results: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("certify results: %w", err)
	}
	return int(n), nil
}
