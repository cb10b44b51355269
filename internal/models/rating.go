package models

// RatingType selects which currency rules apply to a rating.
type RatingType string

const (
	// RatingTypeClass is subject to fixed expiry and the rolling landings rule.
	RatingTypeClass RatingType = "CR"
	// RatingTypeOther is subject to fixed expiry only.
	RatingTypeOther RatingType = "OR"
	// RatingTypeInfo is an informational item subject to fixed expiry only.
	RatingTypeInfo RatingType = "O"
)

// Valid reports whether t is a known rating type.
func (t RatingType) Valid() bool {
	switch t {
	case RatingTypeClass, RatingTypeOther, RatingTypeInfo:
		return true
	}
	return false
}

// Rating is a license, rating or other expiring item.
type Rating struct {
	ID                int64      `db:"id"`
	Title             string     `db:"title"`
	Type              RatingType `db:"type"`
	ExpirationDate    Date       `db:"expiration_date"`
	WarningPeriod     string     `db:"warning_period"`
	RenewalConditions string     `db:"renewal_conditions"`
}

// Status is the outcome of a currency check.
type Status string

const (
	StatusValid   Status = "valid"
	StatusWarning Status = "warning"
	StatusExpired Status = "expired"
)

// CheckKind names the rule that produced a CheckResult.
type CheckKind string

const (
	CheckFixedExpiry     CheckKind = "expiry"
	CheckRollingLandings CheckKind = "rolling"
)

// CheckResult is one line of the currency report.
type CheckResult struct {
	Title      string
	RatingType RatingType
	Kind       CheckKind
	Status     Status
	// Until is the expiration date or, for the rolling rule, the last day on
	// which the rule held. Zero when the rule never held.
	Until Date
}
