package errors

import (
	"strings"
	"testing"
)

func TestValidateTermID(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		wantErr bool
	}{
		{"valid numeric", "12345", false},
		{"valid hashed", "a1b2c3d4e5", false},
		{"valid unicode", "ἥλιος", false},

		{"empty", "", true},
		{"too long", strings.Repeat("a", 129), true},
		{"space", "foo bar", true},
		{"newline", "foo\nbar", true},
		{"slash", "foo/bar", true},
		{"backslash", "foo\\bar", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateTermID(tt.input)
			if (err != nil) != tt.wantErr {
				t.Errorf("ValidateTermID(%q) error = %v, wantErr %v", tt.input, err, tt.wantErr)
			}
			if err != nil && !Is(err, ErrCodeInvalidID) {
				t.Errorf("ValidateTermID(%q) returned wrong error code: %v", tt.input, err)
			}
		})
	}
}

func TestValidateQuery(t *testing.T) {
	tests := []struct {
		input   string
		wantErr bool
	}{
		{"helicopter", false},
		{"divine wind", false},
		{"  ", true},
		{"", true},
		{strings.Repeat("x", 300), true},
		{"a\x01b", true},
	}
	for _, tt := range tests {
		if err := ValidateQuery(tt.input); (err != nil) != tt.wantErr {
			t.Errorf("ValidateQuery(%q) error = %v, wantErr %v", tt.input, err, tt.wantErr)
		}
	}
}

func TestValidateFormat(t *testing.T) {
	if err := ValidateFormat("dot", "dot", "svg", "gephi"); err != nil {
		t.Errorf("ValidateFormat(dot) = %v", err)
	}
	err := ValidateFormat("png", "dot", "svg")
	if !Is(err, ErrCodeInvalidFormat) {
		t.Errorf("ValidateFormat(png) = %v, want INVALID_FORMAT", err)
	}
	if !strings.Contains(UserMessage(err), "dot, svg") {
		t.Errorf("UserMessage() = %q, want allowed formats listed", UserMessage(err))
	}
}

func TestValidatePath(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		wantErr bool
	}{
		{"valid simple", "terms.json", false},
		{"valid nested", "out/graph/nodes.csv", false},
		{"valid absolute", "/tmp/terms", false},
		{"valid with dots", "v1.2.3/terms.json", false},

		{"empty", "", true},
		{"too long", string(make([]byte, 600)), true},
		{"path traversal", "../../../etc/passwd", true},
		{"path traversal middle", "foo/../bar", true},
		{"null byte", "foo\x00bar", true},
		{"control char", "foo\x01bar", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidatePath(tt.input)
			if (err != nil) != tt.wantErr {
				t.Errorf("ValidatePath(%q) error = %v, wantErr %v", tt.input, err, tt.wantErr)
			}
			if err != nil && !Is(err, ErrCodeInvalidPath) {
				t.Errorf("ValidatePath(%q) returned wrong error code: %v", tt.input, err)
			}
		})
	}
}

func TestErrorCodesAreUnique(t *testing.T) {
	codes := []Code{
		ErrCodeInvalidInput,
		ErrCodeInvalidCSV,
		ErrCodeInvalidJSON,
		ErrCodeInvalidConfig,
		ErrCodeInvalidFormat,
		ErrCodeInvalidPath,
		ErrCodeInvalidID,
		ErrCodeNotFound,
		ErrCodeTermNotFound,
		ErrCodeFileNotFound,
		ErrCodeStore,
		ErrCodeCache,
		ErrCodeInternal,
		ErrCodeUnsupported,
		ErrCodeCanceled,
	}

	seen := make(map[Code]bool)
	for _, code := range codes {
		if seen[code] {
			t.Errorf("Duplicate error code: %s", code)
		}
		seen[code] = true
	}
}
