package classify

import (
	"fmt"
	"strings"
)

const systemPrompt = `You are a recruitment assistant that evaluates candidate resumes against job requirements.
You must respond with a single JSON object and nothing else. No prose, no markdown fences.
The object must contain exactly these fields:
  "skills_score": integer 0-100
  "experience_score": integer 0-100
  "education_score": integer 0-100
  "overall_score": integer 0-100
  "skills": array of 8 to 15 objects {"name": string, "proficiency": one of "beginner", "intermediate", "advanced", "expert"}
  "recommendations": string
  "summary": string
  "experience_details": string
  "education_details": string`

// buildUserPrompt assembles the evaluation payload sent as the user
// message. The structured-output requirements live in the system prompt.
func buildUserPrompt(req *EvaluationRequest) string {
	var b strings.Builder

	fmt.Fprintf(&b, "Job title: %s\n", req.JobTitle)
	if req.JobDescription != "" {
		fmt.Fprintf(&b, "Job description:\n%s\n", req.JobDescription)
	}

	b.WriteString("\nResume:\n")
	b.WriteString(req.ResumeText)

	if strings.TrimSpace(req.CoverLetter) != "" {
		b.WriteString("\n\nCover letter:\n")
		b.WriteString(req.CoverLetter)
	}

	b.WriteString("\n\nEvaluate the candidate and answer with the JSON object only.")
	return b.String()
}
