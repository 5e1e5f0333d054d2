package models

// AnalysisResult holds the structured output of one resume evaluation.
// At most one live row exists per application: re-analysis replaces the
// row wholesale via upsert, never merges.
type AnalysisResult struct {
	BaseModel
	ApplicationID    string `gorm:"type:uuid;not null;uniqueIndex"`
	SkillsScore      int    `gorm:"not null"`
	ExperienceScore  int    `gorm:"not null"`
	EducationScore   int    `gorm:"not null"`
	OverallScore     int    `gorm:"not null"`
	Recommendations  string `gorm:"type:text"`
	Summary          string `gorm:"type:text"`
	ExperienceDetail string `gorm:"type:text"`
	EducationDetail  string `gorm:"type:text"`
}

// Skill is one extracted skill scoped to a single application. The whole
// set is replaced (delete + insert) on each re-analysis; stale skills
// must not survive.
type Skill struct {
	BaseModel
	ApplicationID string      `gorm:"type:uuid;not null;index"`
	Name          string      `gorm:"not null"`
	Proficiency   Proficiency `gorm:"not null"`
}
