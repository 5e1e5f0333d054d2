package classify

import "context"

// Provider is the external classification capability. One call scores a
// resume and extracts its skills; the provider-imposed timeout surfaces
// as an ordinary error.
type Provider interface {
	EvaluateResume(ctx context.Context, req *EvaluationRequest) (*Evaluation, error)
}
