package models

type ApplicationStatus string
type NotificationStatus string
type ReminderStatus string
type UserRole string
type Proficiency string
type MatchTier string

const (
	// Evaluation pipeline states. "reviewed" and later states are driven
	// by the human workflow outside this pipeline; they are inputs to the
	// reminder sweep only.
	ApplicationStatusPending   ApplicationStatus = "pending"
	ApplicationStatusAnalyzing ApplicationStatus = "analyzing"
	ApplicationStatusAnalyzed  ApplicationStatus = "analyzed"
	ApplicationStatusReviewed  ApplicationStatus = "reviewed"
	ApplicationStatusAccepted  ApplicationStatus = "accepted"
	ApplicationStatusRejected  ApplicationStatus = "rejected"

	NotificationStatusPending NotificationStatus = "pending"
	NotificationStatusSent    NotificationStatus = "sent"
	NotificationStatusFailed  NotificationStatus = "failed"

	ReminderStatusPending ReminderStatus = "pending"
	ReminderStatusSent    ReminderStatus = "sent"

	UserRoleRecruiter UserRole = "recruiter"
	UserRoleManager   UserRole = "manager"
	UserRoleAdmin     UserRole = "admin"

	ProficiencyBeginner     Proficiency = "beginner"
	ProficiencyIntermediate Proficiency = "intermediate"
	ProficiencyAdvanced     Proficiency = "advanced"
	ProficiencyExpert       Proficiency = "expert"

	MatchTierStrong  MatchTier = "strong_match"
	MatchTierGood    MatchTier = "good_match"
	MatchTierPartial MatchTier = "partial_match"
	MatchTierWeak    MatchTier = "weak_match"
)

// proficiencyRank orders the proficiency enumeration.
var proficiencyRank = map[Proficiency]int{
	ProficiencyBeginner:     1,
	ProficiencyIntermediate: 2,
	ProficiencyAdvanced:     3,
	ProficiencyExpert:       4,
}

// Rank returns the ordinal of the proficiency tier, 0 for unknown values.
func (p Proficiency) Rank() int {
	return proficiencyRank[p]
}

// Valid reports whether p is one of the four known tiers.
func (p Proficiency) Valid() bool {
	return proficiencyRank[p] != 0
}
