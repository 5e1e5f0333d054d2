package models

import (
	"gorm.io/datatypes"
)

type Application struct {
	BaseModel
	CandidateID      string            `gorm:"type:uuid;not null;index"`
	JobRequirementID string            `gorm:"type:uuid;not null;index"`
	Status           ApplicationStatus `gorm:"not null;default:'pending';index"`
	ResumeText       string            `gorm:"type:text"`
	CoverLetter      string            `gorm:"type:text"`

	Candidate      *Candidate      `gorm:"foreignKey:CandidateID"`
	JobRequirement *JobRequirement `gorm:"foreignKey:JobRequirementID"`
}

// Candidate is read-only from the evaluation pipeline's perspective.
type Candidate struct {
	BaseModel
	Name  string `gorm:"not null"`
	Email string `gorm:"not null;uniqueIndex"`
	Phone string
}

type JobRequirement struct {
	BaseModel
	Title          string         `gorm:"not null"`
	Description    string         `gorm:"type:text"`
	RequiredSkills datatypes.JSON `gorm:"type:jsonb"` // ["go", "postgresql", ...]
	// Optional per-requirement matching weights; zero value means the
	// configured defaults apply.
	SkillsWeight     float64
	ExperienceWeight float64
	EducationWeight  float64
}

// User is a staff identity. The pipeline only reads it to resolve the
// role-gated recipient list for staff alerts; account management lives
// outside this service.
type User struct {
	BaseModel
	Name     string   `gorm:"not null"`
	Email    string   `gorm:"not null;uniqueIndex"`
	Role     UserRole `gorm:"not null"`
	IsActive bool     `gorm:"default:true"`
}
