package batch

import (
	"context"
)

// Step is one action of a saga. Compensate undoes a completed Do and may be nil.
type Step struct {
	Name       string
	Do         func(ctx context.Context) error
	Compensate func(ctx context.Context) error
}

// CompensationResult reports one undo attempt.
type CompensationResult struct {
	Step  string `json:"step"`
	OK    bool   `json:"ok"`
	Error string `json:"error,omitempty"`
}

// SagaReport is the outcome of Saga.Run.
type SagaReport struct {
	Completed     []string             `json:"completed"`
	Failed        *Failure             `json:"failed,omitempty"`
	Compensations []CompensationResult `json:"compensations,omitempty"`
}

func (r SagaReport) OK() bool { return r.Failed == nil }

// RolledBack reports whether every compensation that ran succeeded.
func (r SagaReport) RolledBack() bool {
	for _, c := range r.Compensations {
		if !c.OK {
			return false
		}
	}
	return true
}

// Saga runs steps in order. When a step fails, the compensations of the
// steps already completed run in reverse order. Compensations use a context
// detached from the caller's cancellation so a cancelled request still
// cleans up.
type Saga struct {
	steps []Step
}

func NewSaga(steps ...Step) *Saga {
	return &Saga{steps: steps}
}

func (s *Saga) Add(step Step) *Saga {
	s.steps = append(s.steps, step)
	return s
}

func (s *Saga) Run(ctx context.Context) SagaReport {
	report := SagaReport{Completed: []string{}}
	done := make([]Step, 0, len(s.steps))
	for _, step := range s.steps {
		err := ctx.Err()
		if err == nil {
			_, err = safeCall(ctx, step, func(ctx context.Context, st Step) (struct{}, error) {
				return struct{}{}, st.Do(ctx)
			})
		}
		if err != nil {
			report.Failed = &Failure{Key: step.Name, Error: err.Error(), err: err}
			report.Compensations = compensate(context.WithoutCancel(ctx), done)
			getMetrics().observe("saga", false)
			return report
		}
		done = append(done, step)
		report.Completed = append(report.Completed, step.Name)
	}
	getMetrics().observe("saga", true)
	return report
}

func compensate(ctx context.Context, done []Step) []CompensationResult {
	out := make([]CompensationResult, 0, len(done))
	for i := len(done) - 1; i >= 0; i-- {
		step := done[i]
		if step.Compensate == nil {
			continue
		}
		_, err := safeCall(ctx, step, func(ctx context.Context, st Step) (struct{}, error) {
			return struct{}{}, st.Compensate(ctx)
		})
		res := CompensationResult{Step: step.Name, OK: err == nil}
		if err != nil {
			res.Error = err.Error()
		}
		out = append(out, res)
	}
	return out
}
