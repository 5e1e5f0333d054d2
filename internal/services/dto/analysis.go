package dto

import "time"

// ---------------- Requests ----------------

// EvaluateApplicationRequest carries the resume text explicitly so the
// caller controls exactly what gets evaluated; the stored application
// text is updated to match.
type EvaluateApplicationRequest struct {
	ApplicationID string `json:"application_id" validate:"required,uuid"`
	ResumeText    string `json:"resume_text" validate:"required"`
	CoverLetter   string `json:"cover_letter" validate:"omitempty,max=20000"`
}

// ---------------- Responses ----------------

type SkillResponse struct {
	Name        string `json:"name"`
	Proficiency string `json:"proficiency"`
}

type AnalysisResponse struct {
	ApplicationID     string          `json:"application_id"`
	Status            string          `json:"status"`
	SkillsScore       int             `json:"skills_score"`
	ExperienceScore   int             `json:"experience_score"`
	EducationScore    int             `json:"education_score"`
	OverallScore      int             `json:"overall_score"`
	Skills            []SkillResponse `json:"skills"`
	Recommendations   string          `json:"recommendations"`
	Summary           string          `json:"summary"`
	ExperienceDetails string          `json:"experience_details"`
	EducationDetails  string          `json:"education_details"`
	UpdatedAt         time.Time       `json:"updated_at"`
}
