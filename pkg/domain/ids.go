// Package domain holds the typed identifiers shared across bounded contexts.
//
// Every identifier is a distinct UUID type so a MemberID can never be passed
// where an ElectionID is expected. Parse* functions are the trust boundary:
// they reject empty, malformed and nil UUIDs with CodeInvalidInput.
package domain

import (
	"strings"

	"github.com/google/uuid"

	dErrors "unionhub/pkg/domain-errors"
)

const maxIDLength = 64

func parseUUID(s, label string) (uuid.UUID, error) {
	if strings.TrimSpace(s) == "" {
		return uuid.Nil, dErrors.New(dErrors.CodeInvalidInput, label+" cannot be empty")
	}
	if len(s) > maxIDLength {
		return uuid.Nil, dErrors.New(dErrors.CodeInvalidInput, label+" is too long")
	}
	u, err := uuid.Parse(s)
	if err != nil {
		return uuid.Nil, dErrors.New(dErrors.CodeInvalidInput, "invalid "+label)
	}
	if u == uuid.Nil {
		return uuid.Nil, dErrors.New(dErrors.CodeInvalidInput, label+" cannot be nil")
	}
	return u, nil
}

// MemberID identifies a member.
type MemberID uuid.UUID

// NewMemberID returns a fresh random MemberID.
func NewMemberID() MemberID { return MemberID(uuid.New()) }

// ParseMemberID parses and validates a member ID from untrusted input.
func ParseMemberID(s string) (MemberID, error) {
	u, err := parseUUID(s, "member ID")
	if err != nil {
		return MemberID{}, err
	}
	return MemberID(u), nil
}

func (id MemberID) String() string { return uuid.UUID(id).String() }

// IsNil reports whether the ID is the zero UUID.
func (id MemberID) IsNil() bool { return uuid.UUID(id) == uuid.Nil }

func (id MemberID) MarshalText() ([]byte, error) { return uuid.UUID(id).MarshalText() }

func (id *MemberID) UnmarshalText(b []byte) error {
	return (*uuid.UUID)(id).UnmarshalText(b)
}

// ElectionID identifies a election.
type ElectionID uuid.UUID

// NewElectionID returns a fresh random ElectionID.
func NewElectionID() ElectionID { return ElectionID(uuid.New()) }

// ParseElectionID parses and validates a election ID from untrusted input.
func ParseElectionID(s string) (ElectionID, error) {
	u, err := parseUUID(s, "election ID")
	if err != nil {
		return ElectionID{}, err
	}
	return ElectionID(u), nil
}

func (id ElectionID) String() string { return uuid.UUID(id).String() }

// IsNil reports whether the ID is the zero UUID.
func (id ElectionID) IsNil() bool { return uuid.UUID(id) == uuid.Nil }

func (id ElectionID) MarshalText() ([]byte, error) { return uuid.UUID(id).MarshalText() }

func (id *ElectionID) UnmarshalText(b []byte) error {
	return (*uuid.UUID)(id).UnmarshalText(b)
}

// CandidateID identifies a candidate.
type CandidateID uuid.UUID

// NewCandidateID returns a fresh random CandidateID.
func NewCandidateID() CandidateID { return CandidateID(uuid.New()) }

// ParseCandidateID parses and validates a candidate ID from untrusted input.
func ParseCandidateID(s string) (CandidateID, error) {
	u, err := parseUUID(s, "candidate ID")
	if err != nil {
		return CandidateID{}, err
	}
	return CandidateID(u), nil
}

func (id CandidateID) String() string { return uuid.UUID(id).String() }

// IsNil reports whether the ID is the zero UUID.
func (id CandidateID) IsNil() bool { return uuid.UUID(id) == uuid.Nil }

func (id CandidateID) MarshalText() ([]byte, error) { return uuid.UUID(id).MarshalText() }

func (id *CandidateID) UnmarshalText(b []byte) error {
	return (*uuid.UUID)(id).UnmarshalText(b)
}

// DelegateID identifies a delegate.
type DelegateID uuid.UUID

// NewDelegateID returns a fresh random DelegateID.
func NewDelegateID() DelegateID { return DelegateID(uuid.New()) }

// ParseDelegateID parses and validates a delegate ID from untrusted input.
func ParseDelegateID(s string) (DelegateID, error) {
	u, err := parseUUID(s, "delegate ID")
	if err != nil {
		return DelegateID{}, err
	}
	return DelegateID(u), nil
}

func (id DelegateID) String() string { return uuid.UUID(id).String() }

// IsNil reports whether the ID is the zero UUID.
func (id DelegateID) IsNil() bool { return uuid.UUID(id) == uuid.Nil }

func (id DelegateID) MarshalText() ([]byte, error) { return uuid.UUID(id).MarshalText() }

func (id *DelegateID) UnmarshalText(b []byte) error {
	return (*uuid.UUID)(id).UnmarshalText(b)
}

// OTPID identifies a otp.
type OTPID uuid.UUID

// NewOTPID returns a fresh random OTPID.
func NewOTPID() OTPID { return OTPID(uuid.New()) }

// ParseOTPID parses and validates a otp ID from untrusted input.
func ParseOTPID(s string) (OTPID, error) {
	u, err := parseUUID(s, "otp ID")
	if err != nil {
		return OTPID{}, err
	}
	return OTPID(u), nil
}

func (id OTPID) String() string { return uuid.UUID(id).String() }

// IsNil reports whether the ID is the zero UUID.
func (id OTPID) IsNil() bool { return uuid.UUID(id) == uuid.Nil }

func (id OTPID) MarshalText() ([]byte, error) { return uuid.UUID(id).MarshalText() }

func (id *OTPID) UnmarshalText(b []byte) error {
	return (*uuid.UUID)(id).UnmarshalText(b)
}

// VoteID identifies a vote.
type VoteID uuid.UUID

// NewVoteID returns a fresh random VoteID.
func NewVoteID() VoteID { return VoteID(uuid.New()) }

// ParseVoteID parses and validates a vote ID from untrusted input.
func ParseVoteID(s string) (VoteID, error) {
	u, err := parseUUID(s, "vote ID")
	if err != nil {
		return VoteID{}, err
	}
	return VoteID(u), nil
}

func (id VoteID) String() string { return uuid.UUID(id).String() }

// IsNil reports whether the ID is the zero UUID.
func (id VoteID) IsNil() bool { return uuid.UUID(id) == uuid.Nil }

func (id VoteID) MarshalText() ([]byte, error) { return uuid.UUID(id).MarshalText() }

func (id *VoteID) UnmarshalText(b []byte) error {
	return (*uuid.UUID)(id).UnmarshalText(b)
}

// ResultID identifies a result.
type ResultID uuid.UUID

// NewResultID returns a fresh random ResultID.
func NewResultID() ResultID { return ResultID(uuid.New()) }

// ParseResultID parses and validates a result ID from untrusted input.
func ParseResultID(s string) (ResultID, error) {
	u, err := parseUUID(s, "result ID")
	if err != nil {
		return ResultID{}, err
	}
	return ResultID(u), nil
}

func (id ResultID) String() string { return uuid.UUID(id).String() }

// IsNil reports whether the ID is the zero UUID.
func (id ResultID) IsNil() bool { return uuid.UUID(id) == uuid.Nil }

func (id ResultID) MarshalText() ([]byte, error) { return uuid.UUID(id).MarshalText() }

func (id *ResultID) UnmarshalText(b []byte) error {
	return (*uuid.UUID)(id).UnmarshalText(b)
}

// CommitteeID identifies a committee.
type CommitteeID uuid.UUID

// NewCommitteeID returns a fresh random CommitteeID.
func NewCommitteeID() CommitteeID { return CommitteeID(uuid.New()) }

// ParseCommitteeID parses and validates a committee ID from untrusted input.
func ParseCommitteeID(s string) (CommitteeID, error) {
	u, err := parseUUID(s, "committee ID")
	if err != nil {
		return CommitteeID{}, err
	}
	return CommitteeID(u), nil
}

func (id CommitteeID) String() string { return uuid.UUID(id).String() }

// IsNil reports whether the ID is the zero UUID.
func (id CommitteeID) IsNil() bool { return uuid.UUID(id) == uuid.Nil }

func (id CommitteeID) MarshalText() ([]byte, error) { return uuid.UUID(id).MarshalText() }

func (id *CommitteeID) UnmarshalText(b []byte) error {
	return (*uuid.UUID)(id).UnmarshalText(b)
}

// ResolutionID identifies a resolution.
type ResolutionID uuid.UUID

// NewResolutionID returns a fresh random ResolutionID.
func NewResolutionID() ResolutionID { return ResolutionID(uuid.New()) }

// ParseResolutionID parses and validates a resolution ID from untrusted input.
func ParseResolutionID(s string) (ResolutionID, error) {
	u, err := parseUUID(s, "resolution ID")
	if err != nil {
		return ResolutionID{}, err
	}
	return ResolutionID(u), nil
}

func (id ResolutionID) String() string { return uuid.UUID(id).String() }

// IsNil reports whether the ID is the zero UUID.
func (id ResolutionID) IsNil() bool { return uuid.UUID(id) == uuid.Nil }

func (id ResolutionID) MarshalText() ([]byte, error) { return uuid.UUID(id).MarshalText() }

func (id *ResolutionID) UnmarshalText(b []byte) error {
	return (*uuid.UUID)(id).UnmarshalText(b)
}

// ResolutionVoteID identifies a resolution vote.
type ResolutionVoteID uuid.UUID

// NewResolutionVoteID returns a fresh random ResolutionVoteID.
func NewResolutionVoteID() ResolutionVoteID { return ResolutionVoteID(uuid.New()) }

// ParseResolutionVoteID parses and validates a resolution vote ID from untrusted input.
func ParseResolutionVoteID(s string) (ResolutionVoteID, error) {
	u, err := parseUUID(s, "resolution vote ID")
	if err != nil {
		return ResolutionVoteID{}, err
	}
	return ResolutionVoteID(u), nil
}

func (id ResolutionVoteID) String() string { return uuid.UUID(id).String() }

// IsNil reports whether the ID is the zero UUID.
func (id ResolutionVoteID) IsNil() bool { return uuid.UUID(id) == uuid.Nil }

func (id ResolutionVoteID) MarshalText() ([]byte, error) { return uuid.UUID(id).MarshalText() }

func (id *ResolutionVoteID) UnmarshalText(b []byte) error {
	return (*uuid.UUID)(id).UnmarshalText(b)
}

// TehsilID identifies a tehsil.
type TehsilID uuid.UUID

// NewTehsilID returns a fresh random TehsilID.
func NewTehsilID() TehsilID { return TehsilID(uuid.New()) }

// ParseTehsilID parses and validates a tehsil ID from untrusted input.
func ParseTehsilID(s string) (TehsilID, error) {
	u, err := parseUUID(s, "tehsil ID")
	if err != nil {
		return TehsilID{}, err
	}
	return TehsilID(u), nil
}

func (id TehsilID) String() string { return uuid.UUID(id).String() }

// IsNil reports whether the ID is the zero UUID.
func (id TehsilID) IsNil() bool { return uuid.UUID(id) == uuid.Nil }

func (id TehsilID) MarshalText() ([]byte, error) { return uuid.UUID(id).MarshalText() }

func (id *TehsilID) UnmarshalText(b []byte) error {
	return (*uuid.UUID)(id).UnmarshalText(b)
}

// DistrictID identifies a district.
type DistrictID uuid.UUID

// NewDistrictID returns a fresh random DistrictID.
func NewDistrictID() DistrictID { return DistrictID(uuid.New()) }

// ParseDistrictID parses and validates a district ID from untrusted input.
func ParseDistrictID(s string) (DistrictID, error) {
	u, err := parseUUID(s, "district ID")
	if err != nil {
		return DistrictID{}, err
	}
	return DistrictID(u), nil
}

func (id DistrictID) String() string { return uuid.UUID(id).String() }

// IsNil reports whether the ID is the zero UUID.
func (id DistrictID) IsNil() bool { return uuid.UUID(id) == uuid.Nil }

func (id DistrictID) MarshalText() ([]byte, error) { return uuid.UUID(id).MarshalText() }

func (id *DistrictID) UnmarshalText(b []byte) error {
	return (*uuid.UUID)(id).UnmarshalText(b)
}

// EntityID identifies a entity.
type EntityID uuid.UUID

// NewEntityID returns a fresh random EntityID.
func NewEntityID() EntityID { return EntityID(uuid.New()) }

// ParseEntityID parses and validates a entity ID from untrusted input.
func ParseEntityID(s string) (EntityID, error) {
	u, err := parseUUID(s, "entity ID")
	if err != nil {
		return EntityID{}, err
	}
	return EntityID(u), nil
}

func (id EntityID) String() string { return uuid.UUID(id).String() }

// IsNil reports whether the ID is the zero UUID.
func (id EntityID) IsNil() bool { return uuid.UUID(id) == uuid.Nil }

func (id EntityID) MarshalText() ([]byte, error) { return uuid.UUID(id).MarshalText() }

func (id *EntityID) UnmarshalText(b []byte) error {
	return (*uuid.UUID)(id).UnmarshalText(b)
}
