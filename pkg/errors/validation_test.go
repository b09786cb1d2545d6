package errors

import (
	"math"
	"testing"
)

func TestParseFinite(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		want    float64
		wantErr bool
	}{
		{"integer", "10", 10, false},
		{"decimal", "2.5", 2.5, false},
		{"negative", "-4", -4, false},
		{"surrounding space", "  7 ", 7, false},
		{"exponent", "1e2", 100, false},

		{"empty", "", 0, true},
		{"blank", "   ", 0, true},
		{"word", "ten", 0, true},
		{"trailing junk", "10px", 0, true},
		{"nan", "NaN", 0, true},
		{"inf", "Inf", 0, true},
		{"negative inf", "-Inf", 0, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseFinite("spacing", tt.input)
			if (err != nil) != tt.wantErr {
				t.Fatalf("ParseFinite(%q) error = %v, wantErr %v", tt.input, err, tt.wantErr)
			}
			if err != nil {
				if !Is(err, ErrCodeInvalidNumeric) {
					t.Errorf("ParseFinite(%q) code = %v, want %v", tt.input, GetCode(err), ErrCodeInvalidNumeric)
				}
				return
			}
			if got != tt.want {
				t.Errorf("ParseFinite(%q) = %v, want %v", tt.input, got, tt.want)
			}
		})
	}
}

func TestValidateFinite(t *testing.T) {
	if err := ValidateFinite("padding", 3); err != nil {
		t.Errorf("ValidateFinite(3) = %v, want nil", err)
	}
	for _, v := range []float64{math.NaN(), math.Inf(1), math.Inf(-1)} {
		if err := ValidateFinite("padding", v); !Is(err, ErrCodeInvalidNumeric) {
			t.Errorf("ValidateFinite(%v) = %v, want %v", v, err, ErrCodeInvalidNumeric)
		}
	}
}

func TestValidateNodeID(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		wantErr bool
	}{
		{"simple", "rect-1", false},
		{"shape prefix", "shape:abc123", false},
		{"uuid", "4f1c2b8e-0d7a-4d0e-9a7e-2b8f1c9d0e11", false},

		{"empty", "", true},
		{"too long", string(make([]byte, 300)), true},
		{"space", "a b", true},
		{"newline", "a\nb", true},
		{"control char", "a\x01b", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateNodeID(tt.input)
			if (err != nil) != tt.wantErr {
				t.Errorf("ValidateNodeID(%q) error = %v, wantErr %v", tt.input, err, tt.wantErr)
			}
		})
	}
}
