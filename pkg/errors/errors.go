// Package errors provides the error and warning types used across electnet.
// Structured error objects carry enough context to be logged as fields, and
// every constructor attaches a stack trace via cockroachdb/errors.
package errors

import (
	"fmt"
	"log"
	"sync"

	"github.com/cockroachdb/errors"
	"github.com/rs/zerolog"
)

var (
	warningMutex   sync.Mutex
	warningHandler = func(w error) {
		log.Printf("electnet warning: %v\n", w)
	}
	// zerolog sink, set lazily to avoid an import cycle with pkg/log.
	zerologWarnFunc func(warning error)
)

// SetWarningHandler replaces the process-wide warning handler. Warnings are
// non-fatal conditions such as a grid cell that failed to converge or a
// metric that is ill-defined for the given inputs.
func SetWarningHandler(handler func(w error)) {
	warningMutex.Lock()
	defer warningMutex.Unlock()
	warningHandler = handler
}

// SetZerologWarnFunc installs a zerolog-backed warning sink.
func SetZerologWarnFunc(warnFunc func(warning error)) {
	warningMutex.Lock()
	defer warningMutex.Unlock()
	zerologWarnFunc = warnFunc
}

// Warn emits a warning through the zerolog sink when one is installed,
// falling back to the plain handler otherwise.
func Warn(w error) {
	warningMutex.Lock()
	defer warningMutex.Unlock()

	if zerologWarnFunc != nil {
		zerologWarnFunc(w)
		return
	}
	if warningHandler != nil {
		warningHandler(w)
	}
}

// ConvergenceWarning reports an optimizer that stopped at its iteration
// budget without meeting the tolerance. The fit result is still usable.
type ConvergenceWarning struct {
	Algorithm  string
	Iterations int
	Message    string
}

func (w *ConvergenceWarning) Error() string {
	if w.Message != "" {
		return fmt.Sprintf("%s did not converge after %d iterations: %s", w.Algorithm, w.Iterations, w.Message)
	}
	return fmt.Sprintf("%s did not converge after %d iterations. Consider raising max_iter or loosening tol.", w.Algorithm, w.Iterations)
}

// MarshalZerologObject adds the warning fields to a zerolog event.
func (w *ConvergenceWarning) MarshalZerologObject(e *zerolog.Event) {
	e.Str("algorithm", w.Algorithm).
		Int("iterations", w.Iterations).
		Str("message", w.Message).
		Str("type", "ConvergenceWarning")
}

// NewConvergenceWarning creates a ConvergenceWarning.
func NewConvergenceWarning(algorithm string, iterations int, message string) *ConvergenceWarning {
	return &ConvergenceWarning{Algorithm: algorithm, Iterations: iterations, Message: message}
}

// UndefinedMetricWarning reports a metric that cannot be computed from the
// given inputs, e.g. ROC AUC when only one class is present. The stated
// Result is returned in place of the undefined value.
type UndefinedMetricWarning struct {
	Metric    string
	Condition string
	Result    float64
}

func (w *UndefinedMetricWarning) Error() string {
	return fmt.Sprintf("'%s' is ill-defined and being set to %f due to %s.", w.Metric, w.Result, w.Condition)
}

// MarshalZerologObject adds the warning fields to a zerolog event.
func (w *UndefinedMetricWarning) MarshalZerologObject(e *zerolog.Event) {
	e.Str("metric", w.Metric).
		Str("condition", w.Condition).
		Float64("result", w.Result).
		Str("type", "UndefinedMetricWarning")
}

// NewUndefinedMetricWarning creates an UndefinedMetricWarning.
func NewUndefinedMetricWarning(metric, condition string, result float64) *UndefinedMetricWarning {
	return &UndefinedMetricWarning{Metric: metric, Condition: condition, Result: result}
}

// MethodologyWarning flags a deliberately reproduced methodological quirk,
// such as scoring ROC AUC from thresholded labels or evaluating a model on
// its own training rows.
type MethodologyWarning struct {
	Practice string
	Detail   string
}

func (w *MethodologyWarning) Error() string {
	return fmt.Sprintf("questionable methodology '%s' enabled: %s", w.Practice, w.Detail)
}

// MarshalZerologObject adds the warning fields to a zerolog event.
func (w *MethodologyWarning) MarshalZerologObject(e *zerolog.Event) {
	e.Str("practice", w.Practice).
		Str("detail", w.Detail).
		Str("type", "MethodologyWarning")
}

// NewMethodologyWarning creates a MethodologyWarning.
func NewMethodologyWarning(practice, detail string) *MethodologyWarning {
	return &MethodologyWarning{Practice: practice, Detail: detail}
}

// NotFittedError is returned when Predict or Transform is called on an
// estimator whose Fit has not completed.
type NotFittedError struct {
	ModelName string
	Method    string
}

func (e *NotFittedError) Error() string {
	return fmt.Sprintf("electnet: %s: this estimator is not fitted yet. Call Fit() before using %s()", e.ModelName, e.Method)
}

// MarshalZerologObject adds the error fields to a zerolog event.
func (e *NotFittedError) MarshalZerologObject(event *zerolog.Event) {
	event.Str("model_name", e.ModelName).
		Str("method", e.Method).
		Str("type", "NotFittedError")
}

// NewNotFittedError creates a NotFittedError with a stack trace.
func NewNotFittedError(modelName, method string) error {
	err := &NotFittedError{ModelName: modelName, Method: method}
	return errors.WithStack(err)
}

// DimensionError is returned when an input matrix does not match the shape
// an operation expects.
type DimensionError struct {
	Op       string
	Expected int
	Got      int
	Axis     int // 0 for rows, 1 for columns/features
}

func (e *DimensionError) Error() string {
	axisName := "features"
	if e.Axis == 0 {
		axisName = "rows"
	}
	return fmt.Sprintf("electnet: %s: dimension mismatch on axis %d (%s). Expected %d, got %d", e.Op, e.Axis, axisName, e.Expected, e.Got)
}

// MarshalZerologObject adds the error fields to a zerolog event.
func (e *DimensionError) MarshalZerologObject(event *zerolog.Event) {
	axisName := "features"
	if e.Axis == 0 {
		axisName = "rows"
	}
	event.Str("operation", e.Op).
		Int("expected", e.Expected).
		Int("got", e.Got).
		Int("axis", e.Axis).
		Str("axis_name", axisName).
		Str("type", "DimensionError")
}

// NewDimensionError creates a DimensionError with a stack trace.
func NewDimensionError(op string, expected, got, axis int) error {
	err := &DimensionError{Op: op, Expected: expected, Got: got, Axis: axis}
	return errors.WithStack(err)
}

// ValueError is returned for arguments whose value is invalid for the
// operation, e.g. a negative penalty or a mixture outside [0, 1].
type ValueError struct {
	Op      string
	Message string
}

func (e *ValueError) Error() string {
	return fmt.Sprintf("electnet: %s: %s", e.Op, e.Message)
}

// NewValueError creates a ValueError with a stack trace.
func NewValueError(op, message string) error {
	err := &ValueError{Op: op, Message: message}
	return errors.WithStack(err)
}

// DataLoadError is returned when the input dataset cannot be read or parsed.
type DataLoadError struct {
	Path   string
	Line   int // 0 when not attributable to a single line
	Reason string
	Err    error
}

func (e *DataLoadError) Error() string {
	if e.Line > 0 {
		return fmt.Sprintf("electnet: failed to load %s at line %d: %s", e.Path, e.Line, e.Reason)
	}
	return fmt.Sprintf("electnet: failed to load %s: %s", e.Path, e.Reason)
}

func (e *DataLoadError) Unwrap() error {
	return e.Err
}

// MarshalZerologObject adds the error fields to a zerolog event.
func (e *DataLoadError) MarshalZerologObject(event *zerolog.Event) {
	event.Str("path", e.Path).
		Int("line", e.Line).
		Str("reason", e.Reason).
		Str("type", "DataLoadError")
}

// NewDataLoadError creates a DataLoadError with a stack trace.
func NewDataLoadError(path string, line int, reason string, err error) error {
	dlErr := &DataLoadError{Path: path, Line: line, Reason: reason, Err: err}
	return errors.WithStack(dlErr)
}

// ConvergenceError is returned when a fit fails outright for the given
// hyperparameters. Grid search treats it as recoverable: the cell is
// recorded as failed and the search continues.
type ConvergenceError struct {
	Algorithm  string
	Iterations int
	Penalty    float64
	Mixture    float64
}

func (e *ConvergenceError) Error() string {
	return fmt.Sprintf("electnet: %s failed to converge after %d iterations (penalty=%g, mixture=%g)",
		e.Algorithm, e.Iterations, e.Penalty, e.Mixture)
}

// MarshalZerologObject adds the error fields to a zerolog event.
func (e *ConvergenceError) MarshalZerologObject(event *zerolog.Event) {
	event.Str("algorithm", e.Algorithm).
		Int("iterations", e.Iterations).
		Float64("penalty", e.Penalty).
		Float64("mixture", e.Mixture).
		Str("type", "ConvergenceError")
}

// NewConvergenceError creates a ConvergenceError with a stack trace.
func NewConvergenceError(algorithm string, iterations int, penalty, mixture float64) error {
	err := &ConvergenceError{Algorithm: algorithm, Iterations: iterations, Penalty: penalty, Mixture: mixture}
	return errors.WithStack(err)
}

// PredictionError is returned when inference fails on new data, e.g. a
// categorical level never seen during fitting and no placeholder column to
// absorb it, or a feature-width mismatch.
type PredictionError struct {
	ModelName string
	Reason    string
	Feature   string // optional offending feature name
}

func (e *PredictionError) Error() string {
	if e.Feature != "" {
		return fmt.Sprintf("electnet: %s: prediction failed on feature '%s': %s", e.ModelName, e.Feature, e.Reason)
	}
	return fmt.Sprintf("electnet: %s: prediction failed: %s", e.ModelName, e.Reason)
}

// MarshalZerologObject adds the error fields to a zerolog event.
func (e *PredictionError) MarshalZerologObject(event *zerolog.Event) {
	event.Str("model_name", e.ModelName).
		Str("reason", e.Reason).
		Str("feature", e.Feature).
		Str("type", "PredictionError")
}

// NewPredictionError creates a PredictionError with a stack trace.
func NewPredictionError(modelName, feature, reason string) error {
	err := &PredictionError{ModelName: modelName, Feature: feature, Reason: reason}
	return errors.WithStack(err)
}

// ModelError is a general error raised by an estimator.
type ModelError struct {
	Op   string
	Kind string
	Err  error
}

func (e *ModelError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("electnet: %s: %s: %v", e.Op, e.Kind, e.Err)
	}
	return fmt.Sprintf("electnet: %s: %s", e.Op, e.Kind)
}

func (e *ModelError) Unwrap() error {
	return e.Err
}

// NewModelError creates a ModelError with a stack trace.
func NewModelError(op, kind string, err error) error {
	modelErr := &ModelError{Op: op, Kind: kind, Err: err}
	return errors.WithStack(modelErr)
}

// Is reports whether err matches target.
func Is(err, target error) bool {
	return errors.Is(err, target)
}

// As finds the first error in err's chain that matches target.
func As(err error, target interface{}) bool {
	return errors.As(err, target)
}

// Wrap wraps an error with a message.
func Wrap(err error, message string) error {
	return errors.Wrap(err, message)
}

// Wrapf wraps an error with a format string.
func Wrapf(err error, format string, args ...interface{}) error {
	return errors.Wrapf(err, format, args...)
}

// New creates a new error with a stack trace.
func New(message string) error {
	return errors.New(message)
}

// Newf creates a new formatted error with a stack trace.
func Newf(format string, args ...interface{}) error {
	return errors.Newf(format, args...)
}

// WithStack annotates err with a stack trace.
func WithStack(err error) error {
	return errors.WithStack(err)
}

var (
	// ErrEmptyData is returned when an operation receives no rows or columns.
	ErrEmptyData = New("empty data")

	// ErrSingularMatrix is returned when a normal-equations solve hits a
	// rank-deficient design matrix.
	ErrSingularMatrix = New("singular matrix")
)
