package models

import "fmt"

// AnalysisEvent is an input to the application evaluation state machine.
type AnalysisEvent string

const (
	EventAnalysisStarted   AnalysisEvent = "analysis_started"
	EventAnalysisPersisted AnalysisEvent = "analysis_persisted"
	EventAnalysisFailed    AnalysisEvent = "analysis_failed"
)

// TransitionApplication is the pure transition function of the evaluation
// state machine:
//
//	pending --analysis_started--> analyzing
//	analyzing --analysis_persisted--> analyzed
//	analyzing --analysis_failed--> pending
//
// Every status mutation performed by the orchestrator goes through this
// function; there are no ad hoc status writes. Statuses past "analyzed"
// belong to the human workflow and are not reachable from here.
func TransitionApplication(status ApplicationStatus, event AnalysisEvent) (ApplicationStatus, error) {
	switch event {
	case EventAnalysisStarted:
		if status == ApplicationStatusPending {
			return ApplicationStatusAnalyzing, nil
		}
	case EventAnalysisPersisted:
		if status == ApplicationStatusAnalyzing {
			return ApplicationStatusAnalyzed, nil
		}
	case EventAnalysisFailed:
		// A failure is never fatal to the application: it returns to the
		// pool and stays eligible for a future evaluation request.
		if status == ApplicationStatusAnalyzing {
			return ApplicationStatusPending, nil
		}
	default:
		return status, fmt.Errorf("unknown analysis event: %s", event)
	}

	return status, fmt.Errorf("event %s is not allowed in status %s", event, status)
}
