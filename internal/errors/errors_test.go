package errors

import (
	"errors"
	"fmt"
	"strings"
	"testing"
)

func TestDataErrorMessage(t *testing.T) {
	cause := errors.New("no such file")
	err := NewDataError(KindUnreadableFile, "data/prices.xlsx", cause)

	want := "data error [UNREADABLE_FILE] loading data/prices.xlsx: no such file"
	if err.Error() != want {
		t.Errorf("Error() = %q, want %q", err.Error(), want)
	}
	if !errors.Is(err, cause) {
		t.Error("expected wrapped cause to survive errors.Is")
	}
}

func TestDataErrorWithoutCause(t *testing.T) {
	err := NewDataError(KindEmptyDataset, "empty.csv", nil)
	want := "data error [EMPTY_DATASET] loading empty.csv"
	if err.Error() != want {
		t.Errorf("Error() = %q, want %q", err.Error(), want)
	}
}

func TestIsDataErrorThroughWrapping(t *testing.T) {
	inner := NewDataError(KindInvalidDate, "bad.csv", nil)
	wrapped := fmt.Errorf("load stage: %w", inner)

	if !IsDataError(wrapped) {
		t.Error("IsDataError should see through fmt.Errorf wrapping")
	}
	if IsDataError(errors.New("plain")) {
		t.Error("IsDataError matched a plain error")
	}
}

func TestAnalysisErrorExtraction(t *testing.T) {
	inner := NewAnalysisError("performance", KindInsufficientData, "need at least 2 rows, got 1")
	wrapped := fmt.Errorf("run modules: %w", inner)

	ae, ok := IsAnalysisError(wrapped)
	if !ok {
		t.Fatal("IsAnalysisError should extract wrapped AnalysisError")
	}
	if ae.Module != "performance" || ae.Kind != KindInsufficientData {
		t.Errorf("unexpected fields: %+v", ae)
	}
}

func TestRenderErrorNamesRendererAndPath(t *testing.T) {
	err := NewRenderError("excel", "out/01_descriptive.xlsx", errors.New("permission denied"))
	got := err.Error()
	for _, part := range []string{"excel", "out/01_descriptive.xlsx", "permission denied"} {
		if !strings.Contains(got, part) {
			t.Errorf("message %q missing %q", got, part)
		}
	}
}
