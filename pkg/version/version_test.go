package version

import (
	"errors"
	"testing"
)

func TestParse(t *testing.T) {
	tests := []struct {
		name    string
		in      string
		want    Version
		wantErr bool
	}{
		{name: "major minor", in: "3.5", want: Version{3, 5}},
		{name: "old major", in: "2.0", want: Version{2, 0}},
		{name: "patch discarded", in: "2.0.1", want: Version{2, 0}},
		{name: "empty", in: "", wantErr: true},
		{name: "major only", in: "3", wantErr: true},
		{name: "too many parts", in: "1.2.3.4", wantErr: true},
		{name: "non numeric", in: "three.five", wantErr: true},
		{name: "negative", in: "-1.0", wantErr: true},
		{name: "bad patch", in: "2.0.x", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Parse(tt.in)
			if tt.wantErr {
				if !errors.Is(err, ErrMalformedVersion) {
					t.Fatalf("Parse(%q) error = %v, want ErrMalformedVersion", tt.in, err)
				}
				return
			}
			if err != nil {
				t.Fatalf("Parse(%q): %v", tt.in, err)
			}
			if got != tt.want {
				t.Fatalf("Parse(%q) = %v, want %v", tt.in, got, tt.want)
			}
		})
	}
}

func TestString(t *testing.T) {
	if got := (Version{3, 5}).String(); got != "3.5" {
		t.Fatalf("String() = %q, want %q", got, "3.5")
	}
}

func TestNeedsMigration(t *testing.T) {
	current := Version{3, 5}

	tests := []struct {
		name     string
		declared Version
		want     bool
	}{
		{name: "same version", declared: Version{3, 5}, want: false},
		{name: "older minor same major", declared: Version{3, 0}, want: false},
		{name: "newer minor same major", declared: Version{3, 6}, want: false},
		{name: "older major", declared: Version{2, 0}, want: true},
		{name: "much older major", declared: Version{1, 2}, want: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := NeedsMigration(tt.declared, current); got != tt.want {
				t.Fatalf("NeedsMigration(%v, %v) = %v, want %v", tt.declared, current, got, tt.want)
			}
		})
	}
}
