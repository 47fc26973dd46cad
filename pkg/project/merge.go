package project

import (
	"time"
	"unicode/utf8"
)

// MergeMax keeps the larger of the current and the reported value.
func MergeMax(dst *int, v int) {
	if v > *dst {
		*dst = v
	}
}

// AddTo accumulates additive metrics such as monthly downloads.
func AddTo(dst *int, v int) {
	if v > 0 {
		*dst += v
	}
}

// MergeOldest keeps the earliest known time.
func MergeOldest(dst *time.Time, v time.Time) {
	if v.IsZero() {
		return
	}
	v = v.UTC()
	if dst.IsZero() || v.Before(*dst) {
		*dst = v
	}
}

// MergeNewest keeps the latest known time.
func MergeNewest(dst *time.Time, v time.Time) {
	if v.IsZero() {
		return
	}
	v = v.UTC()
	if dst.IsZero() || v.After(*dst) {
		*dst = v
	}
}

// MergeString fills dst only when it is empty.
func MergeString(dst *string, v string) {
	if *dst == "" && v != "" {
		*dst = v
	}
}

// MergeDescription replaces a missing or too short description.
func MergeDescription(dst *string, v string, min int) {
	if v == "" {
		return
	}
	if *dst == "" || utf8.RuneCountInString(*dst) < min {
		*dst = v
	}
}

// MergeRelease records a stable release if it is newer than the known one.
// The release number always follows the release date.
func MergeRelease(p *Project, at time.Time, number string) {
	if at.IsZero() {
		return
	}
	at = at.UTC()
	if p.LatestReleaseAt.IsZero() || p.LatestReleaseAt.Before(at) {
		p.LatestReleaseAt = at
		p.LatestReleaseNumber = number
	}
}

// DiffMonths returns the calendar month difference a - b, ignoring days.
func DiffMonths(a, b time.Time) int {
	return (a.Year()-b.Year())*12 + int(a.Month()) - int(b.Month())
}

// MonthsSince is DiffMonths(now, t), or -1 when t is unknown.
func MonthsSince(now, t time.Time) int {
	if t.IsZero() {
		return -1
	}
	return DiffMonths(now, t)
}
