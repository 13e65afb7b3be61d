package errors

import (
	"regexp"
	"strings"
	"unicode"
)

// seedHandleRegex matches usable seed handles: numeric account ids or
// usernames with word characters, dots, and dashes.
var seedHandleRegex = regexp.MustCompile(`^[A-Za-z0-9][A-Za-z0-9._-]*$`)

// ValidateSeedHandle validates a single seed entry (account id or
// username) before it reaches a build.
//
// The validation rules are intentionally conservative:
//   - No empty handles (after trimming and stripping one leading @)
//   - No control characters or embedded whitespace
//   - Word characters, dots, and dashes only
//   - Maximum length of 64 characters
//
// Matching against the graph happens later and is case-insensitive; this
// only rejects input that could never name an account.
func ValidateSeedHandle(handle string) error {
	handle = strings.TrimPrefix(strings.TrimSpace(handle), "@")
	if handle == "" {
		return New(ErrCodeInvalidSeeds, "seed handle cannot be empty")
	}

	if len(handle) > 64 {
		return New(ErrCodeInvalidSeeds, "seed handle too long (max 64 characters)")
	}

	for _, r := range handle {
		if unicode.IsControl(r) || unicode.IsSpace(r) {
			return New(ErrCodeInvalidSeeds, "seed handle contains invalid characters")
		}
	}

	if !seedHandleRegex.MatchString(handle) {
		return New(ErrCodeInvalidSeeds, "invalid seed handle: %q", handle)
	}

	return nil
}

// ValidateSeedHandles validates a full seed list. At least one handle must
// survive validation.
func ValidateSeedHandles(handles []string) error {
	if len(handles) == 0 {
		return New(ErrCodeInvalidSeeds, "at least one seed is required")
	}
	for _, h := range handles {
		if err := ValidateSeedHandle(h); err != nil {
			return err
		}
	}
	return nil
}

// MaxSubgraphSize caps how many nodes one build may request. Larger views
// stop being readable long before this, and connectivity repair cost grows
// with the admitted set.
const MaxSubgraphSize = 2000

// ValidateSubgraphSize validates a requested view size.
func ValidateSubgraphSize(size int) error {
	if size <= 0 {
		return New(ErrCodeInvalidParams, "subgraph size must be positive, got %d", size)
	}
	if size > MaxSubgraphSize {
		return New(ErrCodeInvalidParams, "subgraph size too large (max %d)", MaxSubgraphSize)
	}
	return nil
}

// ValidateSessionName validates a saved-session name for safety.
// It ensures the name is a simple basename without path components.
func ValidateSessionName(name string) error {
	if name == "" {
		return New(ErrCodeInvalidSession, "session name cannot be empty")
	}

	// Must be a simple filename, not a path
	if strings.ContainsAny(name, "/\\") {
		return New(ErrCodeInvalidSession, "session name cannot contain path separators")
	}

	// No hidden files (starting with .)
	if strings.HasPrefix(name, ".") {
		return New(ErrCodeInvalidSession, "session name cannot start with a dot")
	}

	if strings.Contains(name, "..") {
		return New(ErrCodeInvalidSession, "session name cannot contain path traversal sequences (..)")
	}

	for _, r := range name {
		if unicode.IsControl(r) {
			return New(ErrCodeInvalidSession, "session name contains invalid characters")
		}
	}

	return nil
}
