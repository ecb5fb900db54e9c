// Package repository defines error types that are reused across
// multiple repositories. These sentinel values let handlers and the
// validation engine distinguish between failure scenarios without
// string matching. ErrUsageExceeded in particular is part of the
// redemption contract: it is returned from inside the locked usage
// transaction so exactly one of two concurrent "once" validations can
// win.
package repository

import "errors"

// ErrConflict is returned when an update cannot be performed because
// of conflicting state, such as approving a business that is not
// pending. Handlers translate this into HTTP 409.
var ErrConflict = errors.New("conflict")

// ErrPassNotFound is returned when an identifier matches neither an
// activation code nor a PIN.
var ErrPassNotFound = errors.New("pass not found")

// ErrNoRuleForBusiness is returned when no active discount rule exists
// for a (pass type, business) pair. The engine maps this to a
// NotEligibleAtThisBusiness rejection rather than a 0% discount.
var ErrNoRuleForBusiness = errors.New("no discount rule for business")

// ErrUsageExceeded is returned from the redemption transaction when
// the locked usage counter is already at the rule's limit.
var ErrUsageExceeded = errors.New("usage limit exceeded")

// ErrEmailExists is returned when a user registration collides with an
// existing email address.
var ErrEmailExists = errors.New("email already exists")
