package authz

import (
	"context"

	"github.com/caffeinepub/smartcare-connect/internal/model"
	"github.com/caffeinepub/smartcare-connect/internal/repository"
	"github.com/caffeinepub/smartcare-connect/pkg/errors"
	"github.com/caffeinepub/smartcare-connect/pkg/metrics"
)

// Op is the operation class an access check covers.
type Op string

const (
	OpRead  Op = "read"
	OpWrite Op = "write"
)

// Engine decides, for every record operation, whether a caller may
// touch a target patient's data. Rules, first match wins:
//
//  1. self-access: caller == target, read and write
//  2. assigned doctor: target's primaryDoctor == caller, read and write
//  3. family delegation: caller holds a grant from target, read only
//
// There is no admin override here; the admin tier governs role
// assignment only.
type Engine struct {
	profiles    repository.ProfileRepository
	delegations repository.DelegationRepository
	metrics     *metrics.Metrics
}

func NewEngine(profiles repository.ProfileRepository, delegations repository.DelegationRepository, m *metrics.Metrics) *Engine {
	return &Engine{profiles: profiles, delegations: delegations, metrics: m}
}

// Authorize returns nil on allow and an Unauthorized error on deny.
// Denials never reveal whether the target identity exists.
func (e *Engine) Authorize(ctx context.Context, caller, target model.Identity, op Op) error {
	allowed, err := e.evaluate(ctx, caller, target, op)
	if err != nil {
		return err
	}
	if !allowed {
		e.count(op, "deny")
		return errors.NewUnauthorized(nil)
	}
	e.count(op, "allow")
	return nil
}

func (e *Engine) evaluate(ctx context.Context, caller, target model.Identity, op Op) (bool, error) {
	if caller == target {
		return true, nil
	}

	profile, err := e.profiles.GetPatientProfile(ctx, target)
	switch {
	case err == nil:
		if profile.PrimaryDoctor != nil && *profile.PrimaryDoctor == caller {
			return true, nil
		}
	case errors.IsNotFound(err):
		// No profile means rules 2 and 3 can still consult the grant set.
	default:
		return false, errors.NewInternal(err)
	}

	if op == OpRead {
		granted, err := e.delegations.HasGrant(ctx, target, caller)
		if err != nil {
			return false, errors.NewInternal(err)
		}
		if granted {
			return true, nil
		}
	}

	return false, nil
}

func (e *Engine) count(op Op, outcome string) {
	if e.metrics != nil {
		e.metrics.AuthzDecisions.WithLabelValues(string(op), outcome).Inc()
	}
}
