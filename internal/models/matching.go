package models

import (
	"gorm.io/datatypes"
)

// MatchResult is the compatibility score of one application against one
// job requirement. Recomputed on demand and upserted on the composite
// key, never incrementally updated.
type MatchResult struct {
	BaseModel
	ApplicationID    string         `gorm:"type:uuid;not null;uniqueIndex:idx_match_app_req"`
	JobRequirementID string         `gorm:"type:uuid;not null;uniqueIndex:idx_match_app_req"`
	MatchScore       int            `gorm:"not null"`
	SkillsMatch      int            `gorm:"not null"`
	ExperienceMatch  int            `gorm:"not null"`
	EducationMatch   int            `gorm:"not null"`
	Recommendation   MatchTier      `gorm:"not null"`
	Strengths        datatypes.JSON `gorm:"type:jsonb"`
	MissingSkills    datatypes.JSON `gorm:"type:jsonb"`
}
