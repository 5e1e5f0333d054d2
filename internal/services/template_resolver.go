package services

import (
	"fmt"
	"strings"

	"talentflow_backend/internal/repositories"
)

// renderTokens replaces every {{token}} occurrence in text with its
// bound value in a single deterministic pass. Substituted values are
// never rescanned, so a value containing {{...}} stays literal. A token
// with no binding is an error; a stray "{{" with no closing "}}" is too,
// since neither may reach a delivered body.
func renderTokens(text string, vars map[string]string) (string, error) {
	var b strings.Builder

	for {
		open := strings.Index(text, "{{")
		if open < 0 {
			b.WriteString(text)
			return b.String(), nil
		}

		b.WriteString(text[:open])

		close := strings.Index(text[open:], "}}")
		if close < 0 {
			return "", fmt.Errorf("unterminated placeholder at %q", truncateToken(text[open:]))
		}
		close += open

		token := strings.TrimSpace(text[open+2 : close])
		value, ok := vars[token]
		if !ok {
			return "", fmt.Errorf("unresolved template token {{%s}}", token)
		}

		b.WriteString(value)
		text = text[close+2:]
	}
}

func truncateToken(s string) string {
	if len(s) > 20 {
		return s[:20]
	}
	return s
}

// defaultContent builds the built-in fallback message for a notification
// type with the variables interpolated directly; no substitution pass
// runs over defaults.
func defaultContent(notificationType string, vars map[string]string) (subject, body string, err error) {
	switch notificationType {
	case repositories.NotificationTypeCandidateMatch:
		subject = fmt.Sprintf("Application update: %s", vars["job_title"])
		body = fmt.Sprintf(
			"<p>Hello %s,</p>"+
				"<p>Your application for the %s role has been evaluated and received a score of %s/100. %s</p>"+
				"<p>TalentFlow Recruitment</p>",
			vars["candidate_name"], vars["job_title"], vars["score"], vars["tier_message"])
		return subject, body, nil

	case repositories.NotificationTypeStaffReminder:
		subject = fmt.Sprintf("Reminder: %s application%s awaiting review", vars["count"], vars["plural"])
		body = fmt.Sprintf(
			"<p>%s,</p>"+
				"<p>The application from %s for the %s role has been awaiting review for more than %s hours. Please take a look.</p>"+
				"<p>TalentFlow Recruitment</p>",
			vars["greeting"], vars["candidate_name"], vars["job_title"], vars["threshold_hours"])
		return subject, body, nil

	default:
		return "", "", fmt.Errorf("no default template for notification type %q", notificationType)
	}
}
