package services

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/datatypes"

	"talentflow_backend/internal/models"
	"talentflow_backend/internal/services/dto"
)

type matchingFixture struct {
	service      MatchingService
	apps         *fakeApplicationRepo
	analyses     *fakeAnalysisRepo
	requirements *fakeRequirementRepo
	matches      *fakeMatchRepo
}

func newMatchingFixture(t *testing.T) *matchingFixture {
	t.Helper()

	apps := newFakeApplicationRepo()
	analyses := newFakeAnalysisRepo(apps)
	requirements := newFakeRequirementRepo()
	matches := newFakeMatchRepo()

	service := NewMatchingService(apps, analyses, requirements, matches, testConfig())

	requirements.requirements["req-1"] = &models.JobRequirement{
		BaseModel:      models.BaseModel{ID: "req-1"},
		Title:          "Backend Engineer",
		RequiredSkills: datatypes.JSON(`["Go","PostgreSQL","Kafka"]`),
	}

	return &matchingFixture{
		service:      service,
		apps:         apps,
		analyses:     analyses,
		requirements: requirements,
		matches:      matches,
	}
}

// addAnalyzedApplication seeds one analyzed application with its analysis
// result and extracted skills.
func (f *matchingFixture) addAnalyzedApplication(id string, skillsScore, experienceScore, educationScore int, skillNames ...string) {
	f.apps.add(&models.Application{
		BaseModel:        models.BaseModel{ID: id},
		CandidateID:      "cand-" + id,
		JobRequirementID: "req-1",
		Status:           models.ApplicationStatusAnalyzed,
	})

	result := &models.AnalysisResult{
		ApplicationID:   id,
		SkillsScore:     skillsScore,
		ExperienceScore: experienceScore,
		EducationScore:  educationScore,
	}
	skills := make([]models.Skill, 0, len(skillNames))
	for _, name := range skillNames {
		skills = append(skills, models.Skill{
			ApplicationID: id,
			Name:          name,
			Proficiency:   models.ProficiencyAdvanced,
		})
	}
	f.analyses.results[id] = result
	f.analyses.skills[id] = skills
}

func scoreOne(t *testing.T, f *matchingFixture, applicationID string) *dto.MatchResponse {
	t.Helper()
	response, err := f.service.MatchApplications(context.Background(), &dto.ScoreMatchRequest{
		JobRequirementID: "req-1",
		ApplicationIDs:   []string{applicationID},
	})
	require.NoError(t, err)
	require.Len(t, response.Matches, 1)
	return response.Matches[0]
}

func TestMatchApplications_WeightedScore(t *testing.T) {
	f := newMatchingFixture(t)
	f.addAnalyzedApplication("app-1", 80, 70, 60, "Go")

	match := scoreOne(t, f, "app-1")

	// 80*0.5 + 70*0.3 + 60*0.2 = 73
	assert.Equal(t, 73, match.MatchScore)
	assert.Equal(t, 80, match.SkillsMatch)
	assert.Equal(t, 70, match.ExperienceMatch)
	assert.Equal(t, 60, match.EducationMatch)
	assert.Equal(t, string(models.MatchTierGood), match.Recommendation)
}

func TestMatchApplications_TierThresholds(t *testing.T) {
	f := newMatchingFixture(t)

	cases := []struct {
		name  string
		score int
		tier  models.MatchTier
	}{
		{"strong at boundary", 85, models.MatchTierStrong},
		{"good at boundary", 70, models.MatchTierGood},
		{"good below strong", 84, models.MatchTierGood},
		{"partial at boundary", 50, models.MatchTierPartial},
		{"weak below partial", 49, models.MatchTierWeak},
		{"weak at zero", 0, models.MatchTierWeak},
	}

	for i, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			id := "app-tier-" + string(rune('a'+i))
			// Equal sub-scores make the weighted overall equal to them.
			f.addAnalyzedApplication(id, tc.score, tc.score, tc.score, "Go")
			match := scoreOne(t, f, id)
			assert.Equal(t, tc.score, match.MatchScore)
			assert.Equal(t, string(tc.tier), match.Recommendation)
		})
	}
}

func TestMatchApplications_RequirementWeightsOverrideDefaults(t *testing.T) {
	f := newMatchingFixture(t)
	f.requirements.requirements["req-1"].SkillsWeight = 1
	f.requirements.requirements["req-1"].ExperienceWeight = 1
	f.requirements.requirements["req-1"].EducationWeight = 2
	f.addAnalyzedApplication("app-1", 80, 70, 60, "Go")

	match := scoreOne(t, f, "app-1")

	// Normalized to 0.25/0.25/0.5: 80*0.25 + 70*0.25 + 60*0.5 = 67.5 -> 68
	assert.Equal(t, 68, match.MatchScore)
}

func TestMatchApplications_StrengthsAndMissing(t *testing.T) {
	f := newMatchingFixture(t)
	// Case differs from the requirement's spelling on purpose.
	f.addAnalyzedApplication("app-1", 80, 70, 60, "go", "kafka", "Docker")

	match := scoreOne(t, f, "app-1")

	assert.Equal(t, []string{"Go", "Kafka"}, match.Strengths)
	assert.Equal(t, []string{"PostgreSQL"}, match.MissingSkills)
}

func TestMatchApplications_SkillListsAreCapped(t *testing.T) {
	f := newMatchingFixture(t)
	f.requirements.requirements["req-1"].RequiredSkills = datatypes.JSON(
		`["Go","PostgreSQL","Kafka","Redis","Docker","Kubernetes","Terraform"]`)
	f.addAnalyzedApplication("app-1", 80, 70, 60)

	match := scoreOne(t, f, "app-1")

	assert.Empty(t, match.Strengths)
	assert.Len(t, match.MissingSkills, 5, "display lists stop at the configured cap")
}

func TestMatchApplications_SkillsMatchMonotonic(t *testing.T) {
	f := newMatchingFixture(t)
	// Same analysis scores, one candidate with a superset of the other's
	// skills. The richer set may never score or tier lower.
	f.addAnalyzedApplication("app-small", 75, 75, 75, "Go")
	f.addAnalyzedApplication("app-large", 75, 75, 75, "Go", "PostgreSQL", "Kafka")

	small := scoreOne(t, f, "app-small")
	large := scoreOne(t, f, "app-large")

	assert.GreaterOrEqual(t, large.SkillsMatch, small.SkillsMatch)
	assert.GreaterOrEqual(t, large.MatchScore, small.MatchScore)
	assert.Subset(t, large.Strengths, small.Strengths)
}

func TestMatchApplications_UpsertReplacesExistingMatch(t *testing.T) {
	f := newMatchingFixture(t)
	f.addAnalyzedApplication("app-1", 80, 70, 60, "Go")

	first := scoreOne(t, f, "app-1")
	assert.Equal(t, 73, first.MatchScore)

	// Re-analysis changed the scores; rescoring must replace the row.
	f.analyses.results["app-1"].SkillsScore = 100
	f.analyses.results["app-1"].ExperienceScore = 100
	f.analyses.results["app-1"].EducationScore = 100

	second := scoreOne(t, f, "app-1")
	assert.Equal(t, 100, second.MatchScore)
	assert.Equal(t, 1, f.matches.count(), "one row per (application, requirement) pair")
}

func TestMatchApplications_BatchScoresAllAnalyzed(t *testing.T) {
	f := newMatchingFixture(t)
	f.addAnalyzedApplication("app-1", 80, 70, 60, "Go")
	f.addAnalyzedApplication("app-2", 60, 60, 60, "Kafka")
	// Pending applications have no analysis yet and are excluded from the
	// batch selection.
	f.apps.add(&models.Application{
		BaseModel:        models.BaseModel{ID: "app-3"},
		JobRequirementID: "req-1",
		Status:           models.ApplicationStatusPending,
	})

	response, err := f.service.MatchApplications(context.Background(), &dto.ScoreMatchRequest{
		JobRequirementID: "req-1",
	})
	require.NoError(t, err)
	assert.Equal(t, 2, response.Total)
	assert.Equal(t, 2, f.matches.count())
}

func TestMatchApplications_UnanalyzedExplicitIDFails(t *testing.T) {
	f := newMatchingFixture(t)
	f.apps.add(&models.Application{
		BaseModel:        models.BaseModel{ID: "app-raw"},
		JobRequirementID: "req-1",
		Status:           models.ApplicationStatusPending,
	})

	_, err := f.service.MatchApplications(context.Background(), &dto.ScoreMatchRequest{
		JobRequirementID: "req-1",
		ApplicationIDs:   []string{"app-raw"},
	})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "no analysis result")
}

func TestMatchApplications_UnknownRequirement(t *testing.T) {
	f := newMatchingFixture(t)

	_, err := f.service.MatchApplications(context.Background(), &dto.ScoreMatchRequest{
		JobRequirementID: "missing",
	})
	require.Error(t, err)
}

func TestGetMatchesForRequirement(t *testing.T) {
	f := newMatchingFixture(t)
	f.addAnalyzedApplication("app-1", 80, 70, 60, "Go")
	scoreOne(t, f, "app-1")

	response, err := f.service.GetMatchesForRequirement("req-1")
	require.NoError(t, err)
	assert.Equal(t, 1, response.Total)
	assert.Equal(t, "app-1", response.Matches[0].ApplicationID)

	_, err = f.service.GetMatchesForRequirement("missing")
	require.Error(t, err)
}
