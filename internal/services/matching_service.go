package services

import (
	"context"
	"encoding/json"
	"errors"
	"math"
	"strings"

	"gorm.io/datatypes"

	"talentflow_backend/internal/config"
	"talentflow_backend/internal/logger"
	"talentflow_backend/internal/models"
	"talentflow_backend/internal/repositories"
	"talentflow_backend/internal/services/dto"
	"talentflow_backend/pkg/apperrors"
)

type MatchingService interface {
	// MatchApplications scores applications against one job requirement
	// and upserts the results. An empty id list means every analyzed
	// application of the requirement.
	MatchApplications(ctx context.Context, req *dto.ScoreMatchRequest) (*dto.MatchListResponse, error)

	GetMatchesForRequirement(requirementID string) (*dto.MatchListResponse, error)
}

type matchingService struct {
	applicationRepo repositories.ApplicationRepository
	analysisRepo    repositories.AnalysisRepository
	requirementRepo repositories.RequirementRepository
	matchRepo       repositories.MatchRepository
	cfg             *config.Config
}

func NewMatchingService(
	applicationRepo repositories.ApplicationRepository,
	analysisRepo repositories.AnalysisRepository,
	requirementRepo repositories.RequirementRepository,
	matchRepo repositories.MatchRepository,
	cfg *config.Config,
) MatchingService {
	return &matchingService{
		applicationRepo: applicationRepo,
		analysisRepo:    analysisRepo,
		requirementRepo: requirementRepo,
		matchRepo:       matchRepo,
		cfg:             cfg,
	}
}

func (s *matchingService) MatchApplications(ctx context.Context, req *dto.ScoreMatchRequest) (*dto.MatchListResponse, error) {
	requirement, err := s.requirementRepo.FindByID(req.JobRequirementID)
	if err != nil {
		if errors.Is(err, repositories.ErrRequirementNotFound) {
			return nil, apperrors.ErrNotFound(err)
		}
		return nil, apperrors.ErrPersistence(err, "matching")
	}

	apps, err := s.collectApplications(req, requirement.ID)
	if err != nil {
		return nil, err
	}

	requiredSkills := decodeSkillList(requirement.RequiredSkills)
	matches := make([]*dto.MatchResponse, 0, len(apps))

	for i := range apps {
		app := &apps[i]

		analysis, err := s.analysisRepo.FindByApplicationID(app.ID)
		if err != nil {
			if errors.Is(err, repositories.ErrAnalysisNotFound) {
				return nil, apperrors.ErrInvalidOperation("matching",
					"Application "+app.ID+" has no analysis result; evaluate it first")
			}
			return nil, apperrors.ErrPersistence(err, "matching")
		}

		skills, err := s.analysisRepo.FindSkills(app.ID)
		if err != nil {
			return nil, apperrors.ErrPersistence(err, "matching")
		}

		match := s.score(app.ID, requirement, analysis, skills, requiredSkills)
		if err := s.matchRepo.Upsert(match); err != nil {
			return nil, apperrors.ErrPersistence(err, "matching")
		}

		matches = append(matches, toMatchResponse(match))
	}

	logger.CtxInfo(ctx, "Applications scored",
		"job_requirement_id", requirement.ID,
		"count", len(matches),
	)

	return &dto.MatchListResponse{Matches: matches, Total: len(matches)}, nil
}

func (s *matchingService) collectApplications(req *dto.ScoreMatchRequest, requirementID string) ([]models.Application, error) {
	if len(req.ApplicationIDs) == 0 {
		apps, err := s.applicationRepo.FindByRequirement(requirementID, []models.ApplicationStatus{
			models.ApplicationStatusAnalyzed,
			models.ApplicationStatusReviewed,
			models.ApplicationStatusAccepted,
		})
		if err != nil {
			return nil, apperrors.ErrPersistence(err, "matching")
		}
		return apps, nil
	}

	apps := make([]models.Application, 0, len(req.ApplicationIDs))
	for _, id := range req.ApplicationIDs {
		app, err := s.applicationRepo.FindByID(id)
		if err != nil {
			if errors.Is(err, repositories.ErrApplicationNotFound) {
				return nil, apperrors.ErrNotFound(err)
			}
			return nil, apperrors.ErrPersistence(err, "matching")
		}
		apps = append(apps, *app)
	}
	return apps, nil
}

// score builds one MatchResult. Sub-scores carry through from the
// analysis; the overall is their weighted combination with the
// requirement's own weights taking precedence over the configured
// defaults.
func (s *matchingService) score(
	applicationID string,
	requirement *models.JobRequirement,
	analysis *models.AnalysisResult,
	skills []models.Skill,
	requiredSkills []string,
) *models.MatchResult {
	skillsWeight, experienceWeight, educationWeight := s.weights(requirement)

	weighted := float64(analysis.SkillsScore)*skillsWeight +
		float64(analysis.ExperienceScore)*experienceWeight +
		float64(analysis.EducationScore)*educationWeight
	matchScore := clampScore(int(math.Round(weighted)))

	strengths, missing := compareSkills(skills, requiredSkills, s.cfg.Matching.SkillDisplayCap)

	return &models.MatchResult{
		ApplicationID:    applicationID,
		JobRequirementID: requirement.ID,
		MatchScore:       matchScore,
		SkillsMatch:      analysis.SkillsScore,
		ExperienceMatch:  analysis.ExperienceScore,
		EducationMatch:   analysis.EducationScore,
		Recommendation:   scoreTier(matchScore, s.cfg),
		Strengths:        encodeSkillList(strengths),
		MissingSkills:    encodeSkillList(missing),
	}
}

// weights returns the normalized scoring weights, preferring the
// requirement's own over the configured defaults.
func (s *matchingService) weights(requirement *models.JobRequirement) (float64, float64, float64) {
	skillsW := requirement.SkillsWeight
	experienceW := requirement.ExperienceWeight
	educationW := requirement.EducationWeight

	if skillsW == 0 && experienceW == 0 && educationW == 0 {
		skillsW = s.cfg.Matching.SkillsWeight
		experienceW = s.cfg.Matching.ExperienceWeight
		educationW = s.cfg.Matching.EducationWeight
	}

	sum := skillsW + experienceW + educationW
	if sum <= 0 {
		return 1.0 / 3, 1.0 / 3, 1.0 / 3
	}
	return skillsW / sum, experienceW / sum, educationW / sum
}

// compareSkills computes strengths (candidate ∩ required) and missing
// skills (required minus candidate), case-insensitively, each capped to
// the display count. Order follows the requirement's skill list.
func compareSkills(candidateSkills []models.Skill, requiredSkills []string, displayCap int) (strengths, missing []string) {
	have := make(map[string]bool, len(candidateSkills))
	for _, skill := range candidateSkills {
		have[strings.ToLower(strings.TrimSpace(skill.Name))] = true
	}

	strengths = []string{}
	missing = []string{}
	for _, required := range requiredSkills {
		key := strings.ToLower(strings.TrimSpace(required))
		if key == "" {
			continue
		}
		if have[key] {
			if len(strengths) < displayCap {
				strengths = append(strengths, required)
			}
		} else {
			if len(missing) < displayCap {
				missing = append(missing, required)
			}
		}
	}
	return strengths, missing
}

func (s *matchingService) GetMatchesForRequirement(requirementID string) (*dto.MatchListResponse, error) {
	if _, err := s.requirementRepo.FindByID(requirementID); err != nil {
		if errors.Is(err, repositories.ErrRequirementNotFound) {
			return nil, apperrors.ErrNotFound(err)
		}
		return nil, apperrors.ErrPersistence(err, "matching")
	}

	results, err := s.matchRepo.FindByRequirement(requirementID)
	if err != nil {
		return nil, apperrors.ErrPersistence(err, "matching")
	}

	matches := make([]*dto.MatchResponse, 0, len(results))
	for i := range results {
		matches = append(matches, toMatchResponse(&results[i]))
	}
	return &dto.MatchListResponse{Matches: matches, Total: len(matches)}, nil
}

// ---------------- Shared scoring helpers ----------------

// scoreTier buckets a score by the configured thresholds.
func scoreTier(score int, cfg *config.Config) models.MatchTier {
	switch {
	case score >= cfg.Matching.StrongThreshold:
		return models.MatchTierStrong
	case score >= cfg.Matching.GoodThreshold:
		return models.MatchTierGood
	case score >= cfg.Matching.PartialThreshold:
		return models.MatchTierPartial
	default:
		return models.MatchTierWeak
	}
}

func tierMessage(tier models.MatchTier) string {
	switch tier {
	case models.MatchTierStrong:
		return "Your profile is a strong match for this role."
	case models.MatchTierGood:
		return "Your profile is a good match for this role."
	case models.MatchTierPartial:
		return "Your profile is a partial match for this role."
	default:
		return "Your profile currently shows limited overlap with this role."
	}
}

func clampScore(score int) int {
	if score < 0 {
		return 0
	}
	if score > 100 {
		return 100
	}
	return score
}

func decodeSkillList(raw datatypes.JSON) []string {
	if len(raw) == 0 {
		return nil
	}
	var skills []string
	if err := json.Unmarshal(raw, &skills); err != nil {
		return nil
	}
	return skills
}

func encodeSkillList(skills []string) datatypes.JSON {
	encoded, err := json.Marshal(skills)
	if err != nil {
		return datatypes.JSON("[]")
	}
	return datatypes.JSON(encoded)
}

func toMatchResponse(match *models.MatchResult) *dto.MatchResponse {
	return &dto.MatchResponse{
		ApplicationID:    match.ApplicationID,
		JobRequirementID: match.JobRequirementID,
		MatchScore:       match.MatchScore,
		SkillsMatch:      match.SkillsMatch,
		ExperienceMatch:  match.ExperienceMatch,
		EducationMatch:   match.EducationMatch,
		Recommendation:   string(match.Recommendation),
		Strengths:        decodeSkillListOrEmpty(match.Strengths),
		MissingSkills:    decodeSkillListOrEmpty(match.MissingSkills),
	}
}

func decodeSkillListOrEmpty(raw datatypes.JSON) []string {
	skills := decodeSkillList(raw)
	if skills == nil {
		return []string{}
	}
	return skills
}
