package yamlutil

import (
	"errors"
	"strings"
	"testing"
	"time"
)

type sample struct {
	Name    string        `yaml:"name"`
	Count   int           `yaml:"count"`
	Timeout time.Duration `yaml:"timeout"`
}

func TestUnmarshalStrict(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		input   string
		want    sample
		wantErr error
	}{
		{
			name:  "known fields",
			input: "name: solar\ncount: 3\ntimeout: 45s\n",
			want:  sample{Name: "solar", Count: 3, Timeout: 45 * time.Second},
		},
		{name: "empty input", input: "", wantErr: ErrNilData},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			var got sample
			err := UnmarshalStrict([]byte(tt.input), &got)
			if !errors.Is(err, tt.wantErr) {
				t.Fatalf("UnmarshalStrict() error = %v, want %v", err, tt.wantErr)
			}
			if err == nil && got != tt.want {
				t.Errorf("UnmarshalStrict() = %+v, want %+v", got, tt.want)
			}
		})
	}
}

func TestUnmarshalStrict_RejectsUnknownField(t *testing.T) {
	t.Parallel()

	var got sample
	if err := UnmarshalStrict([]byte("name: x\ncolour: red\n"), &got); err == nil {
		t.Error("UnmarshalStrict() accepted unknown field")
	}
}

func TestUnmarshalStrict_NilDestination(t *testing.T) {
	t.Parallel()

	if err := UnmarshalStrict([]byte("name: x"), nil); !errors.Is(err, ErrNilDestination) {
		t.Errorf("error = %v, want ErrNilDestination", err)
	}
}

func TestUnmarshalStrict_TooLarge(t *testing.T) {
	t.Parallel()

	big := []byte("name: " + strings.Repeat("x", MaxInputSize))
	var got sample
	if err := UnmarshalStrict(big, &got); !errors.Is(err, ErrInputTooLarge) {
		t.Errorf("error = %v, want ErrInputTooLarge", err)
	}
}

func TestMarshal_RoundTripsDuration(t *testing.T) {
	t.Parallel()

	out, err := Marshal(sample{Name: "wind", Count: 1, Timeout: 90 * time.Second})
	if err != nil {
		t.Fatalf("Marshal() error = %v", err)
	}
	var back sample
	if err := UnmarshalStrict(out, &back); err != nil {
		t.Fatalf("UnmarshalStrict(Marshal()) error = %v\n%s", err, out)
	}
	if back.Timeout != 90*time.Second || back.Name != "wind" {
		t.Errorf("round trip = %+v", back)
	}
}
