package quiz_test

import (
	"errors"
	"strings"
	"testing"

	"github.com/starquake/quizdesk/internal/quiz"
)

func TestNewID(t *testing.T) {
	t.Parallel()

	a, b := quiz.NewID(), quiz.NewID()
	if a == b {
		t.Errorf("NewID() returned the same id twice: %q", a)
	}
	if _, err := quiz.ParseID(a); err != nil {
		t.Errorf("ParseID(NewID()) error = %v", err)
	}
}

func TestParseID(t *testing.T) {
	t.Parallel()

	valid := quiz.NewID()

	tests := []struct {
		name    string
		input   string
		want    string
		wantErr error
	}{
		{name: "valid id", input: valid, want: valid},
		{name: "empty", input: "", wantErr: quiz.ErrInvalidID},
		{name: "too short", input: "abc", wantErr: quiz.ErrInvalidID},
		{name: "mongo object id", input: "507f1f77bcf86cd799439011", wantErr: quiz.ErrInvalidID},
		{name: "invalid characters", input: strings.Repeat("!", len(valid)), wantErr: quiz.ErrInvalidID},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			got, err := quiz.ParseID(tc.input)
			if !errors.Is(err, tc.wantErr) {
				t.Fatalf("ParseID(%q) error = %v, want %v", tc.input, err, tc.wantErr)
			}
			if got != tc.want {
				t.Errorf("ParseID(%q) = %q, want %q", tc.input, got, tc.want)
			}
		})
	}
}
