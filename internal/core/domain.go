package core

import (
	"errors"
	"strings"
	"time"
)

// WildcardFilter is the literal audit filter value that matches everything.
// Matching against it is case-insensitive.
const WildcardFilter = "all"

type (
	// PaymentRecord is one persisted payment submission. Records are
	// append-only: created once, never mutated, never deleted by the core.
	PaymentRecord struct {
		ID          int64
		CreatorName string
		AppName     string
		Submitter   string
		// Amount is the exact decimal string as stored. Audit parses it;
		// a stored value that no longer parses is still listed, just not
		// summed.
		Amount      string
		PaymentInfo string
		Note        string
		Date        Date
	}

	// Submission is the input of a record-submission call, before
	// validation.
	Submission struct {
		CreatorName string
		AppName     string
		Submitter   string
		Amount      string
		PaymentInfo string
		Note        string
		Date        Date
	}

	// AuditQuery is a transient read request: submitter and app filters
	// (substring or wildcard) plus a calendar month.
	AuditQuery struct {
		User   string
		App    string
		Period Period
	}

	Date struct {
		time.Time
	}
)

var (
	ErrInvalidAmount = errors.New("invalid amount")
	ErrPeriodFormat  = errors.New("invalid period format")
	ErrEmptyCreator  = errors.New("empty creator name")
	ErrEmptyApp      = errors.New("empty app name")
	ErrEmptyName     = errors.New("empty name")
	ErrUnknownApp    = errors.New("unknown app")
	ErrNotFound      = errors.New("record not found")
)

// NewDate creates a Date at day granularity in UTC.
func NewDate(year, month, day int) Date {
	return Date{Time: time.Date(year, time.Month(month), day, 0, 0, 0, 0, time.UTC)}
}

// ParseDate parses a YYYY-MM-DD string.
func ParseDate(s string) (Date, error) {
	t, err := time.Parse("2006-01-02", s)
	if err != nil {
		return Date{}, err
	}
	return Date{Time: t}, nil
}

// String renders the date as YYYY-MM-DD.
func (d Date) String() string {
	return d.Format("2006-01-02")
}

// IsWildcard reports whether an audit filter value means "match everything".
func IsWildcard(filter string) bool {
	return strings.EqualFold(strings.TrimSpace(filter), WildcardFilter)
}

// Validate checks a submission before any write happens. A submission that
// fails validation is rejected whole; no partial record is ever persisted.
func (s Submission) Validate() error {
	if strings.TrimSpace(s.CreatorName) == "" {
		return ErrEmptyCreator
	}
	if strings.TrimSpace(s.AppName) == "" {
		return ErrEmptyApp
	}
	if _, err := ParseAmount(s.Amount); err != nil {
		return err
	}
	if s.Date.IsZero() {
		return errors.New("zero submission date")
	}
	return nil
}

// Record converts a validated submission into the record to persist, with
// the amount normalized to its canonical decimal string.
func (s Submission) Record() (PaymentRecord, error) {
	if err := s.Validate(); err != nil {
		return PaymentRecord{}, err
	}
	amount, err := ParseAmount(s.Amount)
	if err != nil {
		return PaymentRecord{}, err
	}
	return PaymentRecord{
		CreatorName: strings.TrimSpace(s.CreatorName),
		AppName:     strings.TrimSpace(s.AppName),
		Submitter:   strings.TrimSpace(s.Submitter),
		Amount:      amount.String(),
		PaymentInfo: strings.TrimSpace(s.PaymentInfo),
		Note:        strings.TrimSpace(s.Note),
		Date:        s.Date,
	}, nil
}
