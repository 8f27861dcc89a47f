package authz

import (
	"context"
	"fmt"
	"time"
)

// InspectionResult captures the full outcome of an authorization evaluation.
type InspectionResult struct {
	Allowed   bool
	Mode      Mode
	MatchedBy string
	Trace     []string
	Latency   time.Duration
	Request   Request
}

// Inspect evaluates a request and returns the matching policy line, if any.
func (s *Service) Inspect(ctx context.Context, req Request) (InspectionResult, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	start := time.Now()
	result := InspectionResult{
		Mode: s.Mode(),
		Request: Request{
			Subject: req.Subject,
			Roles:   append([]string(nil), req.Roles...),
			Object:  req.Object,
			Action:  req.Action,
		},
	}
	for _, sub := range subjects(req) {
		allowed, trace, err := s.enforcer.EnforceEx(sub, req.Object, req.Action)
		if err != nil {
			return InspectionResult{}, fmt.Errorf("authz: inspect failed: %w", err)
		}
		if allowed {
			result.Allowed = true
			result.MatchedBy = sub
			result.Trace = append([]string{}, trace...)
			break
		}
	}
	result.Latency = time.Since(start)
	return result, nil
}
