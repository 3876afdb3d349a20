package kmlstream

import (
	"errors"
	"testing"
)

func TestParsePoint(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		wantX   float64
		wantY   float64
		wantZ   *float64
		wantErr bool
	}{
		{name: "two fields", input: "1.0,2.0", wantX: 1.0, wantY: 2.0},
		{name: "three fields", input: "1,2,3", wantX: 1, wantY: 2, wantZ: floatPtr(3)},
		{name: "whitespace tolerated", input: "  1.0, 2.0 ", wantX: 1.0, wantY: 2.0},
		{name: "negative values", input: "-122.4,37.8,-5", wantX: -122.4, wantY: 37.8, wantZ: floatPtr(-5)},
		{name: "one field fails", input: "1.0", wantErr: true},
		{name: "four fields fails", input: "1,2,3,4", wantErr: true},
		{name: "non numeric fails", input: "1,nope", wantErr: true},
		{name: "empty fails", input: "", wantErr: true},
		{name: "infinite longitude fails", input: "Inf,3", wantErr: true},
		{name: "negative infinite latitude fails", input: "1,-Inf", wantErr: true},
		{name: "NaN altitude fails", input: "1,2,NaN", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p, err := ParsePoint(tt.input)
			if tt.wantErr {
				if err == nil {
					t.Fatalf("ParsePoint(%q) expected error, got nil", tt.input)
				}
				if !errors.Is(err, ErrInvalidPoint) {
					t.Errorf("expected error to wrap ErrInvalidPoint, got %v", err)
				}
				return
			}
			if err != nil {
				t.Fatalf("ParsePoint(%q) unexpected error: %v", tt.input, err)
			}
			if p.X != tt.wantX || p.Y != tt.wantY {
				t.Errorf("ParsePoint(%q) = (%v, %v), want (%v, %v)", tt.input, p.X, p.Y, tt.wantX, tt.wantY)
			}
			if (p.Z == nil) != (tt.wantZ == nil) {
				t.Fatalf("ParsePoint(%q) Z presence = %v, want %v", tt.input, p.Z != nil, tt.wantZ != nil)
			}
			if p.Z != nil && *p.Z != *tt.wantZ {
				t.Errorf("ParsePoint(%q) Z = %v, want %v", tt.input, *p.Z, *tt.wantZ)
			}
		})
	}
}

func TestParseLine(t *testing.T) {
	l, err := ParseLine("1,2 3,4 5,6,7")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(l.Points) != 3 {
		t.Fatalf("len(Points) = %d, want 3", len(l.Points))
	}
	if l.Points[0].X != 1 || l.Points[0].Y != 2 {
		t.Errorf("Points[0] = %+v, want {1 2 <nil>}", l.Points[0])
	}
	if l.Points[2].Z == nil || *l.Points[2].Z != 7 {
		t.Errorf("Points[2].Z = %v, want 7", l.Points[2].Z)
	}
}

func TestParseLineSeparators(t *testing.T) {
	l, err := ParseLine("1,2\n3,4\n\n5,6")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(l.Points) != 3 {
		t.Fatalf("len(Points) = %d, want 3 (blank runs must collapse)", len(l.Points))
	}
}

func TestParseLineEmpty(t *testing.T) {
	l, err := ParseLine("   ")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(l.Points) != 0 {
		t.Errorf("len(Points) = %d, want 0", len(l.Points))
	}
}

func TestParseLinePropagatesFirstFailure(t *testing.T) {
	_, err := ParseLine("1,2 bad 3,4")
	if err == nil {
		t.Fatal("expected error")
	}
	if !errors.Is(err, ErrInvalidLine) {
		t.Errorf("expected error to wrap ErrInvalidLine, got %v", err)
	}
}

func floatPtr(f float64) *float64 { return &f }
