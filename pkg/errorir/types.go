// Package errorir maps domain errors onto a canonical, machine-readable record
// with a stable code and a retry classification.
package errorir

import (
	"errors"
	"net/http"
	"strings"
	"sync"

	"github.com/Mindburn-Labs/floot/pkg/allocation"
	"github.com/Mindburn-Labs/floot/pkg/distribution"
	"github.com/Mindburn-Labs/floot/pkg/generator"
	"github.com/Mindburn-Labs/floot/pkg/metadata"
	"github.com/Mindburn-Labs/floot/pkg/registry"
	"github.com/Mindburn-Labs/floot/pkg/seed"
)

// ErrorIR is the canonical error format.
type ErrorIR struct {
	Type     string       `json:"type"`
	Title    string       `json:"title"`
	Status   int          `json:"status"`
	Detail   string       `json:"detail"`
	Instance string       `json:"instance,omitempty"`
	Floot    FlootDetails `json:"floot"`
}

type FlootDetails struct {
	ErrorCode      string `json:"error_code"`
	Namespace      string `json:"namespace"`
	Classification string `json:"classification"`
}

// Classification constants.
// RETRYABLE failures clear on their own once time passes, blocks are sealed
// or a prior step completes. NON_RETRYABLE failures are permanent.
const (
	ClassificationRetryable    = "RETRYABLE"
	ClassificationNonRetryable = "NON_RETRYABLE"
)

// Standard error codes.
const (
	CodeDistributionClosed      = "FLOOT/DISTRIBUTION/CLOSED"
	CodeSupplyExhausted         = "FLOOT/DISTRIBUTION/SUPPLY_EXHAUSTED"
	CodeDistributionParams      = "FLOOT/DISTRIBUTION/INVALID_PARAMS"
	CodeRegistryDiverged        = "FLOOT/ALLOCATION/REGISTRY_DIVERGED"
	CodeDistributionNotOver     = "FLOOT/SEED/DISTRIBUTION_NOT_OVER"
	CodeSeedBlockAlreadySet     = "FLOOT/SEED/BLOCK_ALREADY_SET"
	CodeSeedBlockNotSet         = "FLOOT/SEED/BLOCK_NOT_SET"
	CodeBlockNotMined           = "FLOOT/SEED/BLOCK_NOT_MINED"
	CodeBlockHashUnavailable    = "FLOOT/SEED/BLOCK_HASH_UNAVAILABLE"
	CodeAutomaticSeedAlreadySet = "FLOOT/SEED/AUTOMATIC_ALREADY_SET"
	CodeAutomaticSeedNotSet     = "FLOOT/SEED/AUTOMATIC_NOT_SET"
	CodeSeedAlreadySet          = "FLOOT/SEED/ALREADY_REVEALED"
	CodeGuardianWindowElapsed   = "FLOOT/SEED/GUARDIAN_WINDOW_ELAPSED"
	CodeGuardianWindowNotEnded  = "FLOOT/SEED/GUARDIAN_WINDOW_OPEN"
	CodeGuardianSeedInvalid     = "FLOOT/SEED/GUARDIAN_SEED_INVALID"
	CodeSeedsNotSet             = "FLOOT/SEED/REVEAL_PENDING"
	CodeFinalSeedAlreadySet     = "FLOOT/SEED/FINAL_ALREADY_SET"
	CodeFinalSeedNotSet         = "FLOOT/SEED/FINAL_NOT_SET"
	CodeSeedParams              = "FLOOT/SEED/INVALID_PARAMS"
	CodeTokenNotFound           = "FLOOT/REGISTRY/NOT_FOUND"
	CodeIndexOutOfBounds        = "FLOOT/REGISTRY/INDEX_OUT_OF_BOUNDS"
	CodeNotOwner                = "FLOOT/REGISTRY/NOT_OWNER"
	CodeInvalidOwner            = "FLOOT/REGISTRY/INVALID_OWNER"
	CodeUnknownCategory         = "FLOOT/GENERATOR/UNKNOWN_CATEGORY"
	CodeMetadataInvalid         = "FLOOT/METADATA/INVALID"
	CodeInternal                = "FLOOT/CORE/INTERNAL"
)

type mapping struct {
	sentinel       error
	code           string
	status         int
	classification string
}

var (
	mu       sync.RWMutex
	mappings = []mapping{
		{distribution.ErrDistributionClosed, CodeDistributionClosed, http.StatusConflict, ClassificationNonRetryable},
		{distribution.ErrSupplyExhausted, CodeSupplyExhausted, http.StatusConflict, ClassificationNonRetryable},
		{distribution.ErrInvalidParams, CodeDistributionParams, http.StatusBadRequest, ClassificationNonRetryable},
		{allocation.ErrRegistryDiverged, CodeRegistryDiverged, http.StatusInternalServerError, ClassificationNonRetryable},
		{seed.ErrDistributionNotOver, CodeDistributionNotOver, http.StatusConflict, ClassificationRetryable},
		{seed.ErrSeedBlockAlreadySet, CodeSeedBlockAlreadySet, http.StatusConflict, ClassificationNonRetryable},
		{seed.ErrSeedBlockNotSet, CodeSeedBlockNotSet, http.StatusConflict, ClassificationRetryable},
		{seed.ErrBlockNotMined, CodeBlockNotMined, http.StatusConflict, ClassificationRetryable},
		// The window of readable hashes only moves forward.
		{seed.ErrBlockHashUnavailable, CodeBlockHashUnavailable, http.StatusGone, ClassificationNonRetryable},
		{seed.ErrAutomaticSeedAlreadySet, CodeAutomaticSeedAlreadySet, http.StatusConflict, ClassificationNonRetryable},
		{seed.ErrAutomaticSeedNotSet, CodeAutomaticSeedNotSet, http.StatusConflict, ClassificationRetryable},
		{seed.ErrSeedAlreadySet, CodeSeedAlreadySet, http.StatusConflict, ClassificationNonRetryable},
		{seed.ErrGuardianWindowElapsed, CodeGuardianWindowElapsed, http.StatusConflict, ClassificationNonRetryable},
		{seed.ErrGuardianWindowNotEnded, CodeGuardianWindowNotEnded, http.StatusConflict, ClassificationRetryable},
		{seed.ErrGuardianSeedInvalid, CodeGuardianSeedInvalid, http.StatusForbidden, ClassificationNonRetryable},
		{seed.ErrSeedsNotSet, CodeSeedsNotSet, http.StatusConflict, ClassificationRetryable},
		{seed.ErrFinalSeedAlreadySet, CodeFinalSeedAlreadySet, http.StatusConflict, ClassificationNonRetryable},
		{seed.ErrFinalSeedNotSet, CodeFinalSeedNotSet, http.StatusConflict, ClassificationRetryable},
		{seed.ErrInvalidParams, CodeSeedParams, http.StatusBadRequest, ClassificationNonRetryable},
		{registry.ErrNotFound, CodeTokenNotFound, http.StatusNotFound, ClassificationNonRetryable},
		{registry.ErrIndexOutOfBounds, CodeIndexOutOfBounds, http.StatusNotFound, ClassificationNonRetryable},
		{registry.ErrNotOwner, CodeNotOwner, http.StatusForbidden, ClassificationNonRetryable},
		{registry.ErrInvalidOwner, CodeInvalidOwner, http.StatusBadRequest, ClassificationNonRetryable},
		{generator.ErrUnknownCategory, CodeUnknownCategory, http.StatusBadRequest, ClassificationNonRetryable},
		{metadata.ErrInvalidDocument, CodeMetadataInvalid, http.StatusInternalServerError, ClassificationNonRetryable},
	}
)

// Register adds a mapping for a sentinel defined above this package.
// Later registrations take precedence.
func Register(sentinel error, code string, status int, classification string) {
	mu.Lock()
	defer mu.Unlock()
	mappings = append([]mapping{{sentinel, code, status, classification}}, mappings...)
}

// NewErrorIR creates an ErrorIR, deriving the namespace from the code.
func NewErrorIR(code, title, detail string, status int, classification string) ErrorIR {
	return ErrorIR{
		Type:   "https://floot.errors.local/" + code,
		Title:  title,
		Status: status,
		Detail: detail,
		Floot: FlootDetails{
			ErrorCode:      code,
			Namespace:      Namespace(code),
			Classification: classification,
		},
	}
}

// Namespace returns the second component of a FLOOT/<NS>/... code.
func Namespace(code string) string {
	parts := strings.Split(code, "/")
	if len(parts) < 3 || parts[0] != "FLOOT" {
		return "UNKNOWN"
	}
	return parts[1]
}

// Classify maps err onto its canonical record. Unknown errors are internal
// and non-retryable. Classify(nil) returns false.
func Classify(err error) (ErrorIR, bool) {
	if err == nil {
		return ErrorIR{}, false
	}
	mu.RLock()
	defer mu.RUnlock()
	for _, m := range mappings {
		if errors.Is(err, m.sentinel) {
			return NewErrorIR(m.code, m.sentinel.Error(), err.Error(), m.status, m.classification), true
		}
	}
	return NewErrorIR(CodeInternal, "internal error", err.Error(), http.StatusInternalServerError, ClassificationNonRetryable), true
}

// Retryable reports whether err may clear without operator action.
func Retryable(err error) bool {
	ir, ok := Classify(err)
	return ok && ir.Floot.Classification == ClassificationRetryable
}
