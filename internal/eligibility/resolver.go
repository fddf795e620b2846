// Package eligibility derives an insured person's age and checks it against policy bounds.
package eligibility

import (
	"math"
	"time"
)

// Policy bounds on insurable age
const (
	MinAgeDays  = 15
	MaxAge      = 70
	daysPerYear = 365.25
)

// Reasons an age is rejected
const (
	ReasonMissingBirthDate = "missing_birth_date"
	ReasonTooYoung         = "too_young"
	ReasonTooOld           = "too_old"
	ReasonFutureBirthDate  = "future_birth_date"
)

// Result is the outcome of an age check. Invalid results still carry the best age estimate.
type Result struct {
	Valid  bool
	Age    int
	Days   int
	Reason string
}

// Code returns the validation message code for an invalid result
func (r Result) Code() string {
	if r.Valid {
		return ""
	}
	return "age." + r.Reason
}

// Message returns a human-readable explanation of an invalid result
func (r Result) Message() string {
	switch r.Reason {
	case ReasonMissingBirthDate:
		return "birth date is required"
	case ReasonTooYoung:
		return "insured must be at least 15 days old"
	case ReasonTooOld:
		return "insured must be 70 or younger"
	case ReasonFutureBirthDate:
		return "birth date is in the future"
	}
	return ""
}

// Resolver checks ages as of the date returned by Now
type Resolver struct {
	Now func() time.Time
}

// NewResolver returns a resolver using the wall clock
func NewResolver() *Resolver {
	return &Resolver{Now: time.Now}
}

func (r *Resolver) now() time.Time {
	if r == nil || r.Now == nil {
		return time.Now()
	}
	return r.Now()
}

// Resolve derives the age from a birth date using 365.25-day years
func (r *Resolver) Resolve(birthDate *time.Time) Result {
	if birthDate == nil || birthDate.IsZero() {
		return Result{Reason: ReasonMissingBirthDate}
	}
	today := truncateDay(r.now())
	born := truncateDay(*birthDate)
	days := int(today.Sub(born).Hours() / 24)
	if days < 0 {
		return Result{Days: days, Reason: ReasonFutureBirthDate}
	}
	age := int(math.Floor(float64(days) / daysPerYear))
	res := Result{Age: age, Days: days}
	switch {
	case days < MinAgeDays:
		res.Reason = ReasonTooYoung
	case age > MaxAge:
		res.Reason = ReasonTooOld
	default:
		res.Valid = true
	}
	return res
}

// ResolveAge checks an entered or average age
func (r *Resolver) ResolveAge(age int) Result {
	switch {
	case age < 0:
		return Result{Age: age, Reason: ReasonTooYoung}
	case age > MaxAge:
		return Result{Age: age, Reason: ReasonTooOld}
	}
	return Result{Valid: true, Age: age, Days: int(float64(age) * daysPerYear)}
}

func truncateDay(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}
