// Package scoring implements the contribution analytics core: commit
// attribution, task and peer-review aggregation, the weighted composite
// score, workload pressure classification, and free-rider detection.
//
// Everything in this package is a pure function of its inputs. Weights,
// thresholds, and formula knobs arrive as explicit parameters so that
// recomputation stays deterministic and testable.
package scoring

import (
	"strings"

	"github.com/atarasenko/contribution-service/internal/domain"
)

// ResolveCommit maps the raw author identity of a commit record to a
// registered project member. Resolution order: exact case-insensitive email
// match, exact username match against the author name, then normalized
// full-name equality as a fuzzy fallback. Unmatched records are marked
// invalid but never discarded; they stay visible for audit.
//
// Resolution is idempotent: re-running on an already-resolved record yields
// the same result for the same roster.
func ResolveCommit(rec domain.CommitRecord, roster []domain.User) domain.CommitRecord {
	email := strings.ToLower(strings.TrimSpace(rec.AuthorEmail))
	for _, u := range roster {
		if email != "" && strings.ToLower(u.Email) == email {
			return resolved(rec, u.ID)
		}
	}

	name := strings.TrimSpace(rec.AuthorName)
	for _, u := range roster {
		if name != "" && u.Username == name {
			return resolved(rec, u.ID)
		}
	}

	normalized := normalizeName(name)
	for _, u := range roster {
		if normalized != "" && normalizeName(u.FullName) == normalized {
			return resolved(rec, u.ID)
		}
	}

	rec.ResolvedUserID = nil
	rec.IsValid = false

	return rec
}

func resolved(rec domain.CommitRecord, userID string) domain.CommitRecord {
	rec.ResolvedUserID = &userID
	rec.IsValid = true

	return rec
}

// normalizeName lowercases a name and strips all whitespace, so
// "Anna Schmidt" and "anna  schmidt" compare equal.
func normalizeName(s string) string {
	var b strings.Builder

	for _, r := range strings.ToLower(s) {
		if r == ' ' || r == '\t' || r == '\n' || r == '\r' {
			continue
		}
		b.WriteRune(r)
	}

	return b.String()
}
