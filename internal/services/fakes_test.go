package services

import (
	"context"
	"fmt"
	"sync"
	"time"

	"talentflow_backend/internal/classify"
	"talentflow_backend/internal/config"
	"talentflow_backend/internal/email"
	"talentflow_backend/internal/models"
	"talentflow_backend/internal/repositories"
)

// In-memory fakes of the repository interfaces, shared by the service
// tests.

func testConfig() *config.Config {
	cfg := &config.Config{}
	cfg.Email.FromEmail = "noreply@talentflow.test"
	cfg.Email.FromName = "TalentFlow"
	cfg.Matching.SkillsWeight = 0.5
	cfg.Matching.ExperienceWeight = 0.3
	cfg.Matching.EducationWeight = 0.2
	cfg.Matching.StrongThreshold = 85
	cfg.Matching.GoodThreshold = 70
	cfg.Matching.PartialThreshold = 50
	cfg.Matching.SkillDisplayCap = 5
	cfg.Notifications.MaxRetries = 3
	cfg.Reminders.StaleAfterHours = 72
	cfg.Reminders.SweepInterval = 60
	return cfg
}

// ---------------- applications ----------------

type fakeApplicationRepo struct {
	mu   sync.Mutex
	apps map[string]*models.Application
}

func newFakeApplicationRepo() *fakeApplicationRepo {
	return &fakeApplicationRepo{apps: make(map[string]*models.Application)}
}

func (r *fakeApplicationRepo) add(app *models.Application) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.apps[app.ID] = app
}

func (r *fakeApplicationRepo) FindByID(id string) (*models.Application, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	app, ok := r.apps[id]
	if !ok {
		return nil, repositories.ErrApplicationNotFound
	}
	copied := *app
	return &copied, nil
}

func (r *fakeApplicationRepo) FindByRequirement(requirementID string, statuses []models.ApplicationStatus) ([]models.Application, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	allowed := make(map[models.ApplicationStatus]bool, len(statuses))
	for _, s := range statuses {
		allowed[s] = true
	}
	var result []models.Application
	for _, app := range r.apps {
		if app.JobRequirementID != requirementID {
			continue
		}
		if len(statuses) > 0 && !allowed[app.Status] {
			continue
		}
		result = append(result, *app)
	}
	return result, nil
}

func (r *fakeApplicationRepo) SetStatus(id string, from, to models.ApplicationStatus) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	app, ok := r.apps[id]
	if !ok || app.Status != from {
		return repositories.ErrStatusConflict
	}
	app.Status = to
	return nil
}

func (r *fakeApplicationRepo) UpdateContent(id, resumeText, coverLetter string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	app, ok := r.apps[id]
	if !ok {
		return repositories.ErrApplicationNotFound
	}
	app.ResumeText = resumeText
	app.CoverLetter = coverLetter
	return nil
}

func (r *fakeApplicationRepo) FindStale(status models.ApplicationStatus, olderThan time.Time) ([]models.Application, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var result []models.Application
	for _, app := range r.apps {
		if app.Status == status && app.UpdatedAt.Before(olderThan) {
			result = append(result, *app)
		}
	}
	return result, nil
}

func (r *fakeApplicationRepo) status(id string) models.ApplicationStatus {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.apps[id].Status
}

// ---------------- analysis ----------------

type fakeAnalysisRepo struct {
	mu           sync.Mutex
	apps         *fakeApplicationRepo
	results      map[string]*models.AnalysisResult
	skills       map[string][]models.Skill
	persistCalls int
	failPersist  error
}

func newFakeAnalysisRepo(apps *fakeApplicationRepo) *fakeAnalysisRepo {
	return &fakeAnalysisRepo{
		apps:    apps,
		results: make(map[string]*models.AnalysisResult),
		skills:  make(map[string][]models.Skill),
	}
}

func (r *fakeAnalysisRepo) PersistEvaluation(result *models.AnalysisResult, skills []models.Skill) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.persistCalls++
	if r.failPersist != nil {
		return r.failPersist
	}
	if err := r.apps.SetStatus(result.ApplicationID, models.ApplicationStatusAnalyzing, models.ApplicationStatusAnalyzed); err != nil {
		return err
	}
	copied := *result
	r.results[result.ApplicationID] = &copied
	r.skills[result.ApplicationID] = append([]models.Skill(nil), skills...)
	return nil
}

func (r *fakeAnalysisRepo) FindByApplicationID(applicationID string) (*models.AnalysisResult, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	result, ok := r.results[applicationID]
	if !ok {
		return nil, repositories.ErrAnalysisNotFound
	}
	copied := *result
	return &copied, nil
}

func (r *fakeAnalysisRepo) FindSkills(applicationID string) ([]models.Skill, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]models.Skill(nil), r.skills[applicationID]...), nil
}

// ---------------- requirements ----------------

type fakeRequirementRepo struct {
	requirements map[string]*models.JobRequirement
}

func newFakeRequirementRepo() *fakeRequirementRepo {
	return &fakeRequirementRepo{requirements: make(map[string]*models.JobRequirement)}
}

func (r *fakeRequirementRepo) FindByID(id string) (*models.JobRequirement, error) {
	requirement, ok := r.requirements[id]
	if !ok {
		return nil, repositories.ErrRequirementNotFound
	}
	copied := *requirement
	return &copied, nil
}

// ---------------- matches ----------------

type fakeMatchRepo struct {
	mu      sync.Mutex
	matches map[string]*models.MatchResult
}

func newFakeMatchRepo() *fakeMatchRepo {
	return &fakeMatchRepo{matches: make(map[string]*models.MatchResult)}
}

func matchKey(applicationID, requirementID string) string {
	return applicationID + "|" + requirementID
}

func (r *fakeMatchRepo) Upsert(match *models.MatchResult) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	copied := *match
	r.matches[matchKey(match.ApplicationID, match.JobRequirementID)] = &copied
	return nil
}

func (r *fakeMatchRepo) FindByPair(applicationID, requirementID string) (*models.MatchResult, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	match, ok := r.matches[matchKey(applicationID, requirementID)]
	if !ok {
		return nil, repositories.ErrMatchNotFound
	}
	copied := *match
	return &copied, nil
}

func (r *fakeMatchRepo) FindByApplication(applicationID string) ([]models.MatchResult, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var result []models.MatchResult
	for _, match := range r.matches {
		if match.ApplicationID == applicationID {
			result = append(result, *match)
		}
	}
	return result, nil
}

func (r *fakeMatchRepo) FindByRequirement(requirementID string) ([]models.MatchResult, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var result []models.MatchResult
	for _, match := range r.matches {
		if match.JobRequirementID == requirementID {
			result = append(result, *match)
		}
	}
	return result, nil
}

func (r *fakeMatchRepo) count() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.matches)
}

// ---------------- notifications ----------------

type fakeNotificationRepo struct {
	mu           sync.Mutex
	records      map[string]*models.NotificationRecord
	templates    map[string]*repositories.NotificationTemplate
	nextID       int
	claimDenials int
}

func newFakeNotificationRepo() *fakeNotificationRepo {
	return &fakeNotificationRepo{
		records:   make(map[string]*models.NotificationRecord),
		templates: make(map[string]*repositories.NotificationTemplate),
	}
}

func (r *fakeNotificationRepo) CreateRecord(record *models.NotificationRecord) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.nextID++
	record.ID = fmt.Sprintf("notification-%d", r.nextID)
	record.CreatedAt = time.Now()
	record.UpdatedAt = record.CreatedAt
	copied := *record
	r.records[record.ID] = &copied
	return nil
}

func (r *fakeNotificationRepo) FindRecordByID(id string) (*models.NotificationRecord, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	record, ok := r.records[id]
	if !ok {
		return nil, repositories.ErrNotificationNotFound
	}
	copied := *record
	return &copied, nil
}

func (r *fakeNotificationRepo) FindRecords(criteria repositories.NotificationCriteria) ([]models.NotificationRecord, int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var result []models.NotificationRecord
	for _, record := range r.records {
		if criteria.Type != "" && record.Type != criteria.Type {
			continue
		}
		if criteria.Status != "" && record.Status != criteria.Status {
			continue
		}
		result = append(result, *record)
	}
	return result, int64(len(result)), nil
}

func (r *fakeNotificationRepo) ClaimRetry(id string, expectedRetryCount int) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.claimDenials > 0 {
		r.claimDenials--
		return false, nil
	}
	record, ok := r.records[id]
	if !ok {
		return false, nil
	}
	if record.RetryCount != expectedRetryCount || record.Status == models.NotificationStatusSent {
		return false, nil
	}
	now := time.Now()
	record.RetryCount++
	record.LastRetryAt = &now
	record.Status = models.NotificationStatusPending
	return true, nil
}

func (r *fakeNotificationRepo) MarkSent(id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	record, ok := r.records[id]
	if !ok {
		return repositories.ErrNotificationNotFound
	}
	record.Status = models.NotificationStatusSent
	record.ErrorMessage = ""
	return nil
}

func (r *fakeNotificationRepo) MarkFailed(id string, errorMessage string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	record, ok := r.records[id]
	if !ok {
		return repositories.ErrNotificationNotFound
	}
	record.Status = models.NotificationStatusFailed
	record.ErrorMessage = errorMessage
	return nil
}

func (r *fakeNotificationRepo) CreateTemplate(template *repositories.NotificationTemplate) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.nextID++
	template.ID = fmt.Sprintf("template-%d", r.nextID)
	copied := *template
	r.templates[template.ID] = &copied
	return nil
}

func (r *fakeNotificationRepo) FindTemplateByID(id string) (*repositories.NotificationTemplate, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	template, ok := r.templates[id]
	if !ok {
		return nil, repositories.ErrTemplateNotFound
	}
	copied := *template
	return &copied, nil
}

func (r *fakeNotificationRepo) FindActiveTemplateByType(notificationType string) (*repositories.NotificationTemplate, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, template := range r.templates {
		if template.Type == notificationType && template.IsActive {
			copied := *template
			return &copied, nil
		}
	}
	return nil, repositories.ErrTemplateNotFound
}

func (r *fakeNotificationRepo) ListTemplates() ([]repositories.NotificationTemplate, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var result []repositories.NotificationTemplate
	for _, template := range r.templates {
		result = append(result, *template)
	}
	return result, nil
}

func (r *fakeNotificationRepo) UpdateTemplate(template *repositories.NotificationTemplate) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.templates[template.ID]; !ok {
		return repositories.ErrTemplateNotFound
	}
	copied := *template
	r.templates[template.ID] = &copied
	return nil
}

func (r *fakeNotificationRepo) DeleteTemplate(id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.templates[id]; !ok {
		return repositories.ErrTemplateNotFound
	}
	delete(r.templates, id)
	return nil
}

func (r *fakeNotificationRepo) recordsByStatus(status models.NotificationStatus) []models.NotificationRecord {
	r.mu.Lock()
	defer r.mu.Unlock()
	var result []models.NotificationRecord
	for _, record := range r.records {
		if record.Status == status {
			result = append(result, *record)
		}
	}
	return result
}

// ---------------- reminders ----------------

type fakeReminderRepo struct {
	mu        sync.Mutex
	reminders []models.Reminder
}

func newFakeReminderRepo() *fakeReminderRepo {
	return &fakeReminderRepo{}
}

func (r *fakeReminderRepo) SentReminderExists(applicationID, reminderType string) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, reminder := range r.reminders {
		if reminder.ApplicationID == applicationID &&
			reminder.Type == reminderType &&
			reminder.Status == models.ReminderStatusSent {
			return true, nil
		}
	}
	return false, nil
}

func (r *fakeReminderRepo) Create(reminder *models.Reminder) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	reminder.ID = fmt.Sprintf("reminder-%d", len(r.reminders)+1)
	r.reminders = append(r.reminders, *reminder)
	return nil
}

func (r *fakeReminderRepo) FindByApplication(applicationID string) ([]models.Reminder, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var result []models.Reminder
	for _, reminder := range r.reminders {
		if reminder.ApplicationID == applicationID {
			result = append(result, reminder)
		}
	}
	return result, nil
}

// ---------------- users ----------------

type fakeUserRepo struct {
	staff []models.User
}

func (r *fakeUserRepo) FindActiveStaff(roles []models.UserRole) ([]models.User, error) {
	allowed := make(map[models.UserRole]bool, len(roles))
	for _, role := range roles {
		allowed[role] = true
	}
	var result []models.User
	for _, user := range r.staff {
		if user.IsActive && allowed[user.Role] {
			result = append(result, user)
		}
	}
	return result, nil
}

// ---------------- classifier ----------------

type fakeClassifier struct {
	evaluation *classify.Evaluation
	err        error
	calls      int
}

func (c *fakeClassifier) EvaluateResume(ctx context.Context, req *classify.EvaluationRequest) (*classify.Evaluation, error) {
	c.calls++
	if c.err != nil {
		return nil, c.err
	}
	copied := *c.evaluation
	return &copied, nil
}

// ---------------- email ----------------

type recordingEmailProvider struct {
	mu       sync.Mutex
	sent     []email.Email
	failFor  map[string]error
	failWith error
}

func newRecordingEmailProvider() *recordingEmailProvider {
	return &recordingEmailProvider{failFor: make(map[string]error)}
}

func (p *recordingEmailProvider) Send(msg *email.Email) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.failWith != nil {
		return p.failWith
	}
	for _, to := range msg.To {
		if err, ok := p.failFor[to]; ok {
			return err
		}
	}
	p.sent = append(p.sent, *msg)
	return nil
}

func (p *recordingEmailProvider) Validate() error { return nil }
func (p *recordingEmailProvider) Close() error    { return nil }

func (p *recordingEmailProvider) sentCount() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return len(p.sent)
}

func (p *recordingEmailProvider) lastSent() *email.Email {
	p.mu.Lock()
	defer p.mu.Unlock()
	if len(p.sent) == 0 {
		return nil
	}
	copied := p.sent[len(p.sent)-1]
	return &copied
}
