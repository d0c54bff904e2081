package domain

import (
	"errors"
	"testing"

	"github.com/shopspring/decimal"
)

func TestValidateAmount(t *testing.T) {
	tests := []struct {
		name     string
		amount   string
		expected error
	}{
		{"valid", "100", nil},
		{"minimum", "0.0001", nil},
		{"zero", "0", ErrInvalidAmount},
		{"negative", "-1", ErrInvalidAmount},
		{"below minimum", "0.00001", ErrAmountTooSmall},
		{"above maximum", "100000000000", ErrAmountTooLarge},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateAmount(decimal.RequireFromString(tt.amount))
			if !errors.Is(err, tt.expected) {
				t.Errorf("expected %v, got %v", tt.expected, err)
			}
		})
	}
}

func TestValidatePercentage(t *testing.T) {
	if err := ValidatePercentage(decimal.RequireFromString("2.0")); err != nil {
		t.Errorf("expected 2.0 to be valid, got %v", err)
	}
	if err := ValidatePercentage(decimal.Zero); err != nil {
		t.Errorf("expected zero to be valid, got %v", err)
	}
	if !errors.Is(ValidatePercentage(decimal.NewFromInt(-1)), ErrInvalidRate) {
		t.Error("expected negative rate to be rejected")
	}
	if !errors.Is(ValidatePercentage(decimal.NewFromInt(101)), ErrInvalidRate) {
		t.Error("expected rate over 100 to be rejected")
	}
}

func TestValidatePagination(t *testing.T) {
	tests := []struct {
		name          string
		limit, offset int
		wantLimit     int
		wantOffset    int
	}{
		{"defaults", 0, 0, 50, 0},
		{"negative limit", -5, 0, 50, 0},
		{"capped limit", 5000, 0, 1000, 0},
		{"negative offset", 20, -3, 20, 0},
		{"passthrough", 20, 40, 20, 40},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			limit, offset, err := ValidatePagination(tt.limit, tt.offset)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if limit != tt.wantLimit || offset != tt.wantOffset {
				t.Errorf("expected (%d, %d), got (%d, %d)", tt.wantLimit, tt.wantOffset, limit, offset)
			}
		})
	}
}
