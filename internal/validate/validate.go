// Package validate enforces the publishability contract: an article may
// only be persisted with a title, enough body text and an image.
package validate

import "strings"

// MinBodyLength is the smallest body, in characters after trimming,
// that may be published.
const MinBodyLength = 50

// Reason identifies which part of the contract failed.
type Reason string

const (
	ReasonMissingTitle Reason = "missing-title"
	ReasonShortContent Reason = "missing-or-short-content"
	ReasonMissingImage Reason = "missing-image"
)

// Result is the outcome of one validation call.
type Result struct {
	Valid  bool
	Reason Reason
}

// Check validates the title/body/image triple. All three are mandatory.
// The orchestrator calls it twice per item because rewriting mutates
// title and body.
func Check(title, body, imageURL string) Result {
	if strings.TrimSpace(title) == "" {
		return Result{Reason: ReasonMissingTitle}
	}
	if len([]rune(strings.TrimSpace(body))) < MinBodyLength {
		return Result{Reason: ReasonShortContent}
	}
	if strings.TrimSpace(imageURL) == "" {
		return Result{Reason: ReasonMissingImage}
	}
	return Result{Valid: true}
}
