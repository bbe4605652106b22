// Package errors defines the error taxonomy for the analytics pipeline.
//
// Three categories exist with distinct blast radii:
//   - DataError: malformed or missing input, fatal for the whole run
//   - AnalysisError: one module could not compute, other modules continue
//   - RenderError: one renderer could not write, other renderers continue
package errors

import (
	"errors"
	"fmt"
)

// DataErrorKind classifies loader failures.
type DataErrorKind string

const (
	KindInvalidDate    DataErrorKind = "INVALID_DATE"
	KindEmptyDataset   DataErrorKind = "EMPTY_DATASET"
	KindUnreadableFile DataErrorKind = "UNREADABLE_FILE"
	KindBadFormat      DataErrorKind = "BAD_FORMAT"
)

// DataError is a fatal input error. No analytics run after one of these.
type DataError struct {
	Kind DataErrorKind
	Path string
	Err  error
}

func (e *DataError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("data error [%s] loading %s: %v", e.Kind, e.Path, e.Err)
	}
	return fmt.Sprintf("data error [%s] loading %s", e.Kind, e.Path)
}

func (e *DataError) Unwrap() error { return e.Err }

// NewDataError creates a DataError wrapping an underlying cause.
func NewDataError(kind DataErrorKind, path string, err error) *DataError {
	return &DataError{Kind: kind, Path: path, Err: err}
}

// AnalysisErrorKind classifies per-module computation failures.
type AnalysisErrorKind string

const (
	KindInsufficientData AnalysisErrorKind = "INSUFFICIENT_DATA"
	KindDivisionByZero   AnalysisErrorKind = "DIVISION_BY_ZERO"
)

// AnalysisError reports that a single analytics module could not produce a
// metric. One module failing must not prevent the other seven from running.
type AnalysisError struct {
	Module string
	Kind   AnalysisErrorKind
	Detail string
}

func (e *AnalysisError) Error() string {
	if e.Detail != "" {
		return fmt.Sprintf("analysis error [%s] in module %s: %s", e.Kind, e.Module, e.Detail)
	}
	return fmt.Sprintf("analysis error [%s] in module %s", e.Kind, e.Module)
}

// NewAnalysisError creates an AnalysisError for the named module.
func NewAnalysisError(module string, kind AnalysisErrorKind, detail string) *AnalysisError {
	return &AnalysisError{Module: module, Kind: kind, Detail: detail}
}

// RenderError reports a renderer failure (unwritable destination, encoding
// failure). Fatal for that renderer only.
type RenderError struct {
	Renderer string
	Path     string
	Err      error
}

func (e *RenderError) Error() string {
	return fmt.Sprintf("render error in %s writing %s: %v", e.Renderer, e.Path, e.Err)
}

func (e *RenderError) Unwrap() error { return e.Err }

// NewRenderError creates a RenderError wrapping an underlying cause.
func NewRenderError(renderer, path string, err error) *RenderError {
	return &RenderError{Renderer: renderer, Path: path, Err: err}
}

// IsDataError reports whether err is or wraps a DataError.
func IsDataError(err error) bool {
	var de *DataError
	return errors.As(err, &de)
}

// IsAnalysisError reports whether err is or wraps an AnalysisError, and if so
// returns it.
func IsAnalysisError(err error) (*AnalysisError, bool) {
	var ae *AnalysisError
	if errors.As(err, &ae) {
		return ae, true
	}
	return nil, false
}
