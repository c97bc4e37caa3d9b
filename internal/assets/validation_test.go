package assets

import (
	"errors"
	"testing"
)

func TestValidateAssetPath(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		input   string
		want    string
		wantErr error
	}{
		// Valid paths
		{name: "simple file", input: "index.html", want: "index.html"},
		{name: "nested file", input: "components/header.html", want: "components/header.html"},
		{name: "leading dot slash", input: "./data/events.json", want: "data/events.json"},
		{name: "inner dot segments cleaned", input: "components/./hero.html", want: "components/hero.html"},
		{name: "inner parent stays inside", input: "components/../index.html", want: "index.html"},

		// Invalid paths
		{name: "empty", input: "", wantErr: ErrInvalidAssetPath},
		{name: "dot only", input: ".", wantErr: ErrInvalidAssetPath},
		{name: "absolute", input: "/etc/passwd", wantErr: ErrInvalidAssetPath},
		{name: "parent traversal", input: "../secret.html", wantErr: ErrInvalidAssetPath},
		{name: "nested traversal", input: "components/../../secret", wantErr: ErrInvalidAssetPath},
		{name: "backslash", input: "components\\header.html", wantErr: ErrInvalidAssetPath},
		{name: "null byte", input: "header\x00.html", wantErr: ErrInvalidAssetPath},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			got, err := ValidateAssetPath(tt.input)

			if tt.wantErr != nil {
				if !errors.Is(err, tt.wantErr) {
					t.Errorf("ValidateAssetPath(%q) error = %v, want %v", tt.input, err, tt.wantErr)
				}
				return
			}
			if err != nil {
				t.Fatalf("ValidateAssetPath(%q) unexpected error: %v", tt.input, err)
			}
			if got != tt.want {
				t.Errorf("ValidateAssetPath(%q) = %q, want %q", tt.input, got, tt.want)
			}
		})
	}
}
