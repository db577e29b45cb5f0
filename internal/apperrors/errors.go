package apperrors

import (
	"errors"
	"fmt"
)

// ErrNotFound indicates that a requested resource could not be found.
var ErrNotFound = errors.New("resource not found")

// ErrValidation indicates that input data failed validation checks.
var ErrValidation = errors.New("validation error")

// ErrDuplicate indicates that an attempt was made to create a resource that already exists.
var ErrDuplicate = errors.New("resource already exists")

// ErrForbidden indicates that the authenticated user is not allowed to perform the action.
var ErrForbidden = errors.New("forbidden")

// ErrUnauthorized indicates missing or invalid credentials.
var ErrUnauthorized = errors.New("unauthorized")

// VolumeError reports a volume input that is negative or not a finite number.
// Raised at the normalizer boundary; volumes are never silently clamped.
type VolumeError struct {
	Magnitude float64
	Unit      string
}

func (e *VolumeError) Error() string {
	return fmt.Sprintf("invalid volume: %v %s", e.Magnitude, e.Unit)
}

func (e *VolumeError) Is(target error) bool {
	return target == ErrValidation
}

// NewVolumeError creates a VolumeError for the given magnitude and unit.
func NewVolumeError(magnitude float64, unit string) *VolumeError {
	return &VolumeError{Magnitude: magnitude, Unit: unit}
}

// ClassificationError reports a batch or package that cannot be assigned a tax class.
// Callers exclude the record from totals and surface it in an explicit unclassified
// bucket; it must never be silently defaulted into a class.
type ClassificationError struct {
	BatchID string
	Reason  string
}

func (e *ClassificationError) Error() string {
	if e.BatchID == "" {
		return fmt.Sprintf("cannot classify volume: %s", e.Reason)
	}
	return fmt.Sprintf("cannot classify batch %s: %s", e.BatchID, e.Reason)
}

func (e *ClassificationError) Is(target error) bool {
	return target == ErrValidation
}

// NewClassificationError creates a ClassificationError for the given batch.
func NewClassificationError(batchID, reason string) *ClassificationError {
	return &ClassificationError{BatchID: batchID, Reason: reason}
}

// LedgerImbalanceError reports a TTB ledger whose declared total line does not match
// the sum of its constituent lines. This aborts form generation: an imbalanced
// government filing is a compliance failure, not a cosmetic bug.
type LedgerImbalanceError struct {
	TaxClass string
	Ledger   string // "bulk" or "bottled"
	Line     int    // the total line that failed
	Declared float64
	Computed float64
}

func (e *LedgerImbalanceError) Error() string {
	return fmt.Sprintf("%s wines ledger imbalance for %s: line %d declares %.6f gal but inputs sum to %.6f gal",
		e.Ledger, e.TaxClass, e.Line, e.Declared, e.Computed)
}

// NewLedgerImbalanceError creates a LedgerImbalanceError with full context.
func NewLedgerImbalanceError(taxClass, ledger string, line int, declared, computed float64) *LedgerImbalanceError {
	return &LedgerImbalanceError{TaxClass: taxClass, Ledger: ledger, Line: line, Declared: declared, Computed: computed}
}
