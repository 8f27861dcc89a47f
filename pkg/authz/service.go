package authz

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/casbin/casbin/v2"
	fileadapter "github.com/casbin/casbin/v2/persist/file-adapter"
	"github.com/sirupsen/logrus"
)

// Service provides helpers for enforcing authorization decisions.
type Service struct {
	cfg          Config
	enforcer     *casbin.Enforcer
	logger       *logrus.Entry
	flagProvider FlagProvider
	mu           sync.RWMutex
}

// NewService constructs a Service with the provided config.
func NewService(cfg Config) (*Service, error) {
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	cfg = cfg.normalized()

	var logger *logrus.Entry
	if cfg.Logger != nil {
		logger = cfg.Logger.WithField("component", "authz")
	} else {
		logger = logrus.WithField("component", "authz")
	}

	enf, err := casbin.NewEnforcer(cfg.ModelPath, fileadapter.NewAdapter(cfg.PolicyPath))
	if err != nil {
		return nil, fmt.Errorf("authz: failed to initialize enforcer: %w", err)
	}
	if err := enf.LoadPolicy(); err != nil {
		return nil, fmt.Errorf("authz: failed to load policies: %w", err)
	}

	provider := cfg.FlagProvider
	if provider == nil {
		provider = NewFileFlagProvider(cfg.FlagPath, cfg.FlagMode)
	}

	return &Service{
		cfg:          cfg,
		enforcer:     enf,
		logger:       logger,
		flagProvider: provider,
	}, nil
}

// Mode returns the enforcement mode currently in effect.
func (s *Service) Mode() Mode {
	return s.flagProvider.Mode()
}

// Authorize returns an error if the request is denied and the service enforces.
// In shadow mode denials are only logged.
func (s *Service) Authorize(ctx context.Context, req Request) error {
	mode := s.Mode()
	if mode == ModeDisabled {
		return nil
	}
	start := time.Now()
	allowed, err := s.Check(ctx, req)
	if err != nil {
		return err
	}
	recordDecision(mode, allowed, time.Since(start))
	if allowed {
		return nil
	}
	entry := s.logger.WithContext(ctx).WithFields(logrus.Fields{
		"subject": req.Subject,
		"roles":   req.Roles,
		"object":  req.Object,
		"action":  req.Action,
		"mode":    mode,
	})
	if mode == ModeShadow {
		entry.Warn("authz shadow deny")
		return nil
	}
	entry.Warn("authz denied request")
	return forbiddenError(req)
}

// Allowed reports the decision the caller should act on, honouring the mode.
// Navigation filtering uses it so hidden menu entries match denied routes.
func (s *Service) Allowed(ctx context.Context, req Request) bool {
	return s.Authorize(ctx, req) == nil
}

// Check evaluates a request against the policy regardless of mode.
func (s *Service) Check(ctx context.Context, req Request) (bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	for _, sub := range subjects(req) {
		res, err := s.enforcer.Enforce(sub, req.Object, req.Action)
		if err != nil {
			return false, fmt.Errorf("authz: enforce failed: %w", err)
		}
		if res {
			return true, nil
		}
	}
	return false, nil
}

// ReloadPolicy reloads policy data from disk.
func (s *Service) ReloadPolicy(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.enforcer.LoadPolicy(); err != nil {
		return fmt.Errorf("authz: reload policy failed: %w", err)
	}
	s.logger.WithContext(ctx).Info("authz policy reloaded")
	return nil
}

// Roles lists every role known to the policy, without the role: prefix.
func (s *Service) Roles() ([]string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	section, ok := s.enforcer.GetModel()["p"]
	if !ok {
		return nil, configError("model has no policy section")
	}
	assertion, ok := section["p"]
	if !ok {
		return nil, configError("model has no p definition")
	}
	prefix := rolePrefix + subjectSeparator
	seen := map[string]struct{}{}
	out := []string{}
	for _, rule := range assertion.Policy {
		if len(rule) == 0 || !strings.HasPrefix(rule[0], prefix) {
			continue
		}
		role := strings.TrimPrefix(rule[0], prefix)
		if _, dup := seen[role]; dup {
			continue
		}
		seen[role] = struct{}{}
		out = append(out, role)
	}
	sort.Strings(out)
	return out, nil
}

func subjects(req Request) []string {
	out := make([]string, 0, len(req.Roles)+1)
	if req.Subject != "" {
		out = append(out, req.Subject)
	}
	for _, role := range req.Roles {
		out = append(out, SubjectForRole(role))
	}
	return out
}
