// Package fvt holds the functional verification tests that drive a running platform through
// the lineage exchange client.
package fvt

import (
	"fmt"

	"go.uber.org/zap"
)

// UnexpectedCondition reports a test case activity that did not behave as expected.
type UnexpectedCondition struct {
	TestCase string
	Activity string
	Err      error
}

func (e *UnexpectedCondition) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", e.TestCase, e.Activity, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.TestCase, e.Activity)
}

func (e *UnexpectedCondition) Unwrap() error { return e.Err }

// Results counts the tests a test case ran and keeps the errors of the failed ones.
type Results struct {
	TestCaseName      string
	NumberOfTests     int
	NumberOfSuccesses int
	CapturedErrors    []error
}

// NewResults starts the results of a test case.
func NewResults(testCaseName string) *Results {
	return &Results{TestCaseName: testCaseName}
}

func (r *Results) IncrementNumberOfTests()     { r.NumberOfTests++ }
func (r *Results) IncrementNumberOfSuccesses() { r.NumberOfSuccesses++ }
func (r *Results) AddCapturedError(err error)  { r.CapturedErrors = append(r.CapturedErrors, err) }

// Successful reports whether every test passed.
func (r *Results) Successful() bool {
	return r.NumberOfTests == r.NumberOfSuccesses && len(r.CapturedErrors) == 0
}

// Log writes a summary line and one line per captured error.
func (r *Results) Log(logger *zap.Logger) {
	fields := []zap.Field{
		zap.String("testCase", r.TestCaseName),
		zap.Int("tests", r.NumberOfTests),
		zap.Int("successes", r.NumberOfSuccesses),
	}
	if r.Successful() {
		logger.Info("FVT test case passed", fields...)
		return
	}
	logger.Error("FVT test case failed", fields...)
	for _, err := range r.CapturedErrors {
		logger.Error("captured error", zap.String("testCase", r.TestCaseName), zap.Error(err))
	}
}
