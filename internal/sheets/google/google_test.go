package google

import (
	"context"
	"testing"
)

func TestNewRejectsEmptySpreadsheetID(t *testing.T) {
	if _, err := New(context.Background(), "", "Payments"); err == nil {
		t.Fatal("expected an error for an empty spreadsheet id")
	}
	if _, err := New(context.Background(), "   ", "Payments"); err == nil {
		t.Fatal("expected an error for a blank spreadsheet id")
	}
}
