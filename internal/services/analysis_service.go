package services

import (
	"context"
	"errors"
	"strconv"
	"sync"

	"talentflow_backend/internal/classify"
	"talentflow_backend/internal/config"
	"talentflow_backend/internal/logger"
	"talentflow_backend/internal/models"
	"talentflow_backend/internal/repositories"
	"talentflow_backend/internal/services/dto"
	"talentflow_backend/pkg/apperrors"
)

type AnalysisService interface {
	// AnalyzeApplication drives one application through the evaluation
	// pipeline: claim, classify, persist, notify. Any failure between
	// the claim and the persisted result returns the application to
	// pending.
	AnalyzeApplication(ctx context.Context, req *dto.EvaluateApplicationRequest) (*dto.AnalysisResponse, error)

	GetAnalysis(applicationID string) (*dto.AnalysisResponse, error)
}

type analysisService struct {
	applicationRepo repositories.ApplicationRepository
	analysisRepo    repositories.AnalysisRepository
	classifier      classify.Provider
	notifier        NotificationService
	cfg             *config.Config

	// Serializes the classify/persist phase per application id so two
	// concurrent evaluations cannot interleave the skill replacement.
	locks sync.Map
}

func NewAnalysisService(
	applicationRepo repositories.ApplicationRepository,
	analysisRepo repositories.AnalysisRepository,
	classifier classify.Provider,
	notifier NotificationService,
	cfg *config.Config,
) AnalysisService {
	return &analysisService{
		applicationRepo: applicationRepo,
		analysisRepo:    analysisRepo,
		classifier:      classifier,
		notifier:        notifier,
		cfg:             cfg,
	}
}

func (s *analysisService) lockFor(applicationID string) *sync.Mutex {
	m, _ := s.locks.LoadOrStore(applicationID, &sync.Mutex{})
	return m.(*sync.Mutex)
}

func (s *analysisService) AnalyzeApplication(ctx context.Context, req *dto.EvaluateApplicationRequest) (*dto.AnalysisResponse, error) {
	app, err := s.applicationRepo.FindByID(req.ApplicationID)
	if err != nil {
		if errors.Is(err, repositories.ErrApplicationNotFound) {
			return nil, apperrors.ErrNotFound(err)
		}
		return nil, apperrors.ErrPersistence(err, "analysis")
	}

	next, err := models.TransitionApplication(app.Status, models.EventAnalysisStarted)
	if err != nil {
		return nil, apperrors.ErrInvalidStatus("analysis", err.Error())
	}
	if err := s.applicationRepo.SetStatus(app.ID, app.Status, next); err != nil {
		if errors.Is(err, repositories.ErrStatusConflict) {
			return nil, apperrors.ErrConflict(err, "analysis", "Application was claimed by a concurrent evaluation")
		}
		return nil, apperrors.ErrPersistence(err, "analysis")
	}

	mu := s.lockFor(app.ID)
	mu.Lock()
	defer mu.Unlock()

	if err := s.applicationRepo.UpdateContent(app.ID, req.ResumeText, req.CoverLetter); err != nil {
		s.revertToPending(ctx, app.ID)
		return nil, apperrors.ErrPersistence(err, "analysis")
	}

	evalReq := &classify.EvaluationRequest{
		ResumeText:  req.ResumeText,
		CoverLetter: req.CoverLetter,
	}
	if app.JobRequirement != nil {
		evalReq.JobTitle = app.JobRequirement.Title
		evalReq.JobDescription = app.JobRequirement.Description
	}

	evaluation, err := s.classifier.EvaluateResume(ctx, evalReq)
	if err != nil {
		s.revertToPending(ctx, app.ID)
		return nil, err
	}

	result := &models.AnalysisResult{
		ApplicationID:    app.ID,
		SkillsScore:      evaluation.SkillsScore,
		ExperienceScore:  evaluation.ExperienceScore,
		EducationScore:   evaluation.EducationScore,
		OverallScore:     evaluation.OverallScore,
		Recommendations:  evaluation.Recommendations,
		Summary:          evaluation.Summary,
		ExperienceDetail: evaluation.ExperienceDetails,
		EducationDetail:  evaluation.EducationDetails,
	}

	skills := make([]models.Skill, 0, len(evaluation.Skills))
	for _, skill := range evaluation.Skills {
		skills = append(skills, models.Skill{
			ApplicationID: app.ID,
			Name:          skill.Name,
			Proficiency:   skill.Proficiency,
		})
	}

	if err := s.analysisRepo.PersistEvaluation(result, skills); err != nil {
		s.revertToPending(ctx, app.ID)
		return nil, apperrors.ErrPersistence(err, "analysis")
	}

	logger.CtxInfo(ctx, "Application analyzed",
		"application_id", app.ID,
		"overall_score", evaluation.OverallScore,
		"skills", len(skills),
	)

	// Best-effort side effect: the analysis stands even when the
	// candidate notification cannot be delivered. The failed attempt is
	// recorded by the dispatcher.
	s.notifyCandidate(ctx, app, evaluation.OverallScore)

	return buildAnalysisResponse(app.ID, string(models.ApplicationStatusAnalyzed), result, skills), nil
}

// revertToPending returns a claimed application to the pool after a
// failed attempt. The application must never be left in analyzing.
func (s *analysisService) revertToPending(ctx context.Context, applicationID string) {
	next, err := models.TransitionApplication(models.ApplicationStatusAnalyzing, models.EventAnalysisFailed)
	if err != nil {
		logger.CtxError(ctx, "Invalid failure transition", "application_id", applicationID, "error", err.Error())
		return
	}
	if err := s.applicationRepo.SetStatus(applicationID, models.ApplicationStatusAnalyzing, next); err != nil {
		logger.CtxError(ctx, "Failed to revert application to pending",
			"application_id", applicationID, "error", err.Error())
	}
}

func (s *analysisService) notifyCandidate(ctx context.Context, app *models.Application, overallScore int) {
	if app.Candidate == nil || app.Candidate.Email == "" {
		logger.CtxWarn(ctx, "No candidate recipient for analysis notification", "application_id", app.ID)
		return
	}

	jobTitle := ""
	if app.JobRequirement != nil {
		jobTitle = app.JobRequirement.Title
	}

	tier := scoreTier(overallScore, s.cfg)
	vars := map[string]string{
		"candidate_name": app.Candidate.Name,
		"job_title":      jobTitle,
		"score":          strconv.Itoa(overallScore),
		"tier_message":   tierMessage(tier),
	}

	if _, err := s.notifier.Dispatch(ctx, repositories.NotificationTypeCandidateMatch, app.Candidate.Email, vars); err != nil {
		logger.CtxWarn(ctx, "Candidate notification failed after analysis",
			"application_id", app.ID, "error", err.Error())
	}
}

func (s *analysisService) GetAnalysis(applicationID string) (*dto.AnalysisResponse, error) {
	app, err := s.applicationRepo.FindByID(applicationID)
	if err != nil {
		if errors.Is(err, repositories.ErrApplicationNotFound) {
			return nil, apperrors.ErrNotFound(err)
		}
		return nil, apperrors.ErrPersistence(err, "analysis")
	}

	result, err := s.analysisRepo.FindByApplicationID(applicationID)
	if err != nil {
		if errors.Is(err, repositories.ErrAnalysisNotFound) {
			return nil, apperrors.ErrNotFound(err)
		}
		return nil, apperrors.ErrPersistence(err, "analysis")
	}

	skills, err := s.analysisRepo.FindSkills(applicationID)
	if err != nil {
		return nil, apperrors.ErrPersistence(err, "analysis")
	}

	return buildAnalysisResponse(app.ID, string(app.Status), result, skills), nil
}

func buildAnalysisResponse(applicationID, status string, result *models.AnalysisResult, skills []models.Skill) *dto.AnalysisResponse {
	skillResponses := make([]dto.SkillResponse, 0, len(skills))
	for _, skill := range skills {
		skillResponses = append(skillResponses, dto.SkillResponse{
			Name:        skill.Name,
			Proficiency: string(skill.Proficiency),
		})
	}

	return &dto.AnalysisResponse{
		ApplicationID:     applicationID,
		Status:            status,
		SkillsScore:       result.SkillsScore,
		ExperienceScore:   result.ExperienceScore,
		EducationScore:    result.EducationScore,
		OverallScore:      result.OverallScore,
		Skills:            skillResponses,
		Recommendations:   result.Recommendations,
		Summary:           result.Summary,
		ExperienceDetails: result.ExperienceDetail,
		EducationDetails:  result.EducationDetail,
		UpdatedAt:         result.UpdatedAt,
	}
}
