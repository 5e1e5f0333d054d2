package classify

import (
	"talentflow_backend/internal/models"
)

// EvaluationRequest carries everything the provider needs to score one
// application against its role.
type EvaluationRequest struct {
	ResumeText     string
	CoverLetter    string
	JobTitle       string
	JobDescription string
}

// EvaluatedSkill is one skill extracted from the resume.
type EvaluatedSkill struct {
	Name        string             `json:"name"`
	Proficiency models.Proficiency `json:"proficiency"`
}

// Evaluation is the validated, structured result of one classification
// call. All scores are integers in [0,100].
type Evaluation struct {
	SkillsScore       int              `json:"skills_score"`
	ExperienceScore   int              `json:"experience_score"`
	EducationScore    int              `json:"education_score"`
	OverallScore      int              `json:"overall_score"`
	Skills            []EvaluatedSkill `json:"skills"`
	Recommendations   string           `json:"recommendations"`
	Summary           string           `json:"summary"`
	ExperienceDetails string           `json:"experience_details"`
	EducationDetails  string           `json:"education_details"`
}
