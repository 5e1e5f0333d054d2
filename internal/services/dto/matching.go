package dto

// ---------------- Requests ----------------

// ScoreMatchRequest scores analyzed applications against one job
// requirement. An empty ApplicationIDs list means every analyzed
// application of the requirement.
type ScoreMatchRequest struct {
	JobRequirementID string   `json:"job_requirement_id" validate:"required,uuid"`
	ApplicationIDs   []string `json:"application_ids" validate:"omitempty,dive,uuid"`
}

// ---------------- Responses ----------------

type MatchResponse struct {
	ApplicationID    string   `json:"application_id"`
	JobRequirementID string   `json:"job_requirement_id"`
	MatchScore       int      `json:"match_score"`
	SkillsMatch      int      `json:"skills_match"`
	ExperienceMatch  int      `json:"experience_match"`
	EducationMatch   int      `json:"education_match"`
	Recommendation   string   `json:"recommendation"`
	Strengths        []string `json:"strengths"`
	MissingSkills    []string `json:"missing_skills"`
}

type MatchListResponse struct {
	Matches []*MatchResponse `json:"matches"`
	Total   int              `json:"total"`
}
