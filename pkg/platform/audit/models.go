package audit

import (
	"context"
	"time"

	id "unionhub/pkg/domain"
)

// EventCategory classifies audit events by their primary purpose.
type EventCategory string

const (
	// CategoryCompliance covers events that change governed outcomes: votes,
	// tallies, certifications, executed resolutions and member status.
	CategoryCompliance EventCategory = "compliance"

	// CategorySecurity covers OTP failures and authorization denials.
	CategorySecurity EventCategory = "security"

	// CategoryOperations covers routine lifecycle activity.
	CategoryOperations EventCategory = "operations"
)

// Event is emitted from domain logic to capture key actions. Keep it
// transport-agnostic so stores and sinks can fan out.
type Event struct {
	Category  EventCategory
	Timestamp time.Time
	// MemberID is the member the action concerns, when there is one.
	MemberID id.MemberID
	// Subject names the aggregate acted on, e.g. "election:<id>".
	Subject   string
	Action    string
	Decision  string
	Reason    string
	RequestID string
	// ActorID is who performed the action ("system" for scheduled ticks).
	ActorID string
}

type AuditEvent string

const (
	// Election events
	EventElectionCreated     AuditEvent = "election_created"
	EventElectionUpdated     AuditEvent = "election_updated"
	EventElectionDeleted     AuditEvent = "election_deleted"
	EventElectionTransition  AuditEvent = "election_transitioned"
	EventRosterBuilt         AuditEvent = "roster_built"
	EventCandidacySubmitted  AuditEvent = "candidacy_submitted"
	EventCandidacyApproved   AuditEvent = "candidacy_approved"
	EventCandidacyRejected   AuditEvent = "candidacy_rejected"
	EventCandidacyWithdrawn  AuditEvent = "candidacy_withdrawn"
	EventOTPRequested        AuditEvent = "otp_requested"
	EventOTPVerified         AuditEvent = "otp_verified"
	EventOTPFailed           AuditEvent = "otp_failed"
	EventVoteCast            AuditEvent = "vote_cast"
	EventVoteVerified        AuditEvent = "vote_verified"
	EventVoteRejected        AuditEvent = "vote_rejected"
	EventResultsCalculated   AuditEvent = "results_calculated"
	EventResultsCertified    AuditEvent = "results_certified"
	EventLeadershipInstalled AuditEvent = "leadership_installed"

	// Committee and resolution events
	EventCommitteeCreated       AuditEvent = "committee_created"
	EventCommitteeMemberAdded   AuditEvent = "committee_member_added"
	EventCommitteeMemberRemoved AuditEvent = "committee_member_removed"
	EventResolutionCreated      AuditEvent = "resolution_created"
	EventResolutionUpdated      AuditEvent = "resolution_updated"
	EventResolutionDeleted      AuditEvent = "resolution_deleted"
	EventResolutionVotingOpened AuditEvent = "resolution_voting_opened"
	EventResolutionClosed       AuditEvent = "resolution_closed"
	EventResolutionVoteCast     AuditEvent = "resolution_vote_cast"
	EventResolutionExecuted     AuditEvent = "resolution_executed"
	EventResolutionCancelled    AuditEvent = "resolution_cancelled"

	// Member events
	EventMemberStatusChanged AuditEvent = "member_status_changed"

	EventAccessDenied AuditEvent = "access_denied"
)

// eventCategories maps each audit event to its category.
var eventCategories = map[AuditEvent]EventCategory{
	EventVoteCast:            CategoryCompliance,
	EventVoteVerified:        CategoryCompliance,
	EventVoteRejected:        CategoryCompliance,
	EventResultsCalculated:   CategoryCompliance,
	EventResultsCertified:    CategoryCompliance,
	EventLeadershipInstalled: CategoryCompliance,
	EventResolutionClosed:    CategoryCompliance,
	EventResolutionVoteCast:  CategoryCompliance,
	EventResolutionExecuted:  CategoryCompliance,
	EventMemberStatusChanged: CategoryCompliance,
	EventCandidacyApproved:   CategoryCompliance,
	EventCandidacyRejected:   CategoryCompliance,

	EventOTPFailed:    CategorySecurity,
	EventAccessDenied: CategorySecurity,
}

// Category returns the EventCategory for this audit event.
// Unknown events default to CategoryOperations.
func (e AuditEvent) Category() EventCategory {
	if cat, ok := eventCategories[e]; ok {
		return cat
	}
	return CategoryOperations
}

// Store persists audit events. Postgres-backed stores write to the outbox
// inside the caller's transaction when ctx carries one.
type Store interface {
	Append(ctx context.Context, event Event) error
}
