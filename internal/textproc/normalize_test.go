package textproc

import (
	"testing"
)

func TestNormalize(t *testing.T) {
	tk := &TiktokenToolkit{}

	tests := []struct {
		name string
		in   string
		want string
	}{
		{
			name: "strips zero width space",
			in:   "foo\u200bbar",
			want: "foobar",
		},
		{
			name: "strips bom and word joiner",
			in:   "\ufeffhello\u2060 world",
			want: "hello world",
		},
		{
			name: "collapses duplicate spaces",
			in:   "too   many    spaces",
			want: "too many spaces",
		},
		{
			name: "collapses tabs with spaces",
			in:   "a \t b",
			want: "a b",
		},
		{
			name: "preserves newlines",
			in:   "line one\nline two",
			want: "line one\nline two",
		},
		{
			name: "composes decomposed accents",
			in:   "cafe\u0301", // e + combining acute
			want: "caf\u00e9",
		},
		{
			name: "clean text unchanged",
			in:   "already clean text.",
			want: "already clean text.",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := tk.Normalize(tt.in)
			if err != nil {
				t.Fatalf("Normalize: %v", err)
			}
			if got != tt.want {
				t.Errorf("got %q, want %q", got, tt.want)
			}
		})
	}
}
