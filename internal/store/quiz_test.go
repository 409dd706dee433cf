package store_test

import (
	"errors"
	"log/slog"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"

	"github.com/starquake/quizdesk/internal/dbtest"
	"github.com/starquake/quizdesk/internal/quiz"
	. "github.com/starquake/quizdesk/internal/store"
)

func newTestQuizzes() []*quiz.Quiz {
	return []*quiz.Quiz{
		{
			Title:       "Quiz 1",
			Description: "Quiz 1 Description",
			Questions: []*quiz.Question{
				{
					Text:    "Question 1-1",
					Options: []string{"Option 1-1-1", "Option 1-1-2", "Option 1-1-3", "Option 1-1-4"},
					Correct: 2,
				},
				{
					Text:    "Question 1-2",
					Options: []string{"Option 1-2-1", "Option 1-2-2"},
					Correct: 0,
				},
			},
		},
		{
			Title:       "Quiz 2",
			Description: "Quiz 2 Description",
			Questions: []*quiz.Question{
				{
					Text:    "Question 2-1",
					Options: []string{"Option 2-1-1", "Option 2-1-2", "Option 2-1-3"},
					Correct: 1,
				},
			},
		},
		{
			Title:       "Quiz 3",
			Description: "Quiz without questions",
			Questions:   []*quiz.Question{},
		},
	}
}

func newQuizStore(t *testing.T) *QuizStore {
	t.Helper()

	return NewQuizStore(dbtest.Open(t), slog.New(slog.DiscardHandler))
}

var ignoreGenerated = cmpopts.IgnoreFields(quiz.Quiz{}, "ID", "CreatedAt")

func TestQuizStore_Ping(t *testing.T) {
	t.Parallel()

	s := newQuizStore(t)
	if err := s.Ping(t.Context()); err != nil {
		t.Errorf("Ping() error = %v", err)
	}
}

func TestQuizStore_CreateQuiz(t *testing.T) {
	t.Parallel()

	s := newQuizStore(t)
	qz := newTestQuizzes()[0]

	if err := s.CreateQuiz(t.Context(), qz); err != nil {
		t.Fatalf("CreateQuiz() error = %v", err)
	}
	if _, err := quiz.ParseID(qz.ID); err != nil {
		t.Errorf("CreateQuiz() assigned invalid id %q: %v", qz.ID, err)
	}
	if qz.CreatedAt.IsZero() {
		t.Error("CreateQuiz() did not set CreatedAt")
	}

	got, err := s.GetQuiz(t.Context(), qz.ID)
	if err != nil {
		t.Fatalf("GetQuiz() error = %v", err)
	}
	if diff := cmp.Diff(qz, got); diff != "" {
		t.Errorf("GetQuiz() mismatch (-want +got):\n%s", diff)
	}
}

func TestQuizStore_CreateQuiz_Unvalidated(t *testing.T) {
	t.Parallel()

	s := newQuizStore(t)

	// Empty fields, out of range answers and nil questions are stored as given.
	qz := &quiz.Quiz{
		Questions: []*quiz.Question{
			{Text: "No options", Correct: 7},
			nil,
			{Text: "Negative", Options: []string{"a"}, Correct: -1},
		},
	}
	if err := s.CreateQuiz(t.Context(), qz); err != nil {
		t.Fatalf("CreateQuiz() error = %v", err)
	}

	got, err := s.GetQuiz(t.Context(), qz.ID)
	if err != nil {
		t.Fatalf("GetQuiz() error = %v", err)
	}
	want := &quiz.Quiz{
		Questions: []*quiz.Question{
			{Text: "No options", Options: []string{}, Correct: 7},
			{Options: []string{}},
			{Text: "Negative", Options: []string{"a"}, Correct: -1},
		},
	}
	if diff := cmp.Diff(want, got, ignoreGenerated); diff != "" {
		t.Errorf("GetQuiz() mismatch (-want +got):\n%s", diff)
	}
}

func TestQuizStore_ListQuizzes(t *testing.T) {
	t.Parallel()

	t.Run("empty", func(t *testing.T) {
		t.Parallel()

		s := newQuizStore(t)
		got, err := s.ListQuizzes(t.Context())
		if err != nil {
			t.Fatalf("ListQuizzes() error = %v", err)
		}
		if got == nil || len(got) != 0 {
			t.Errorf("ListQuizzes() = %v, want empty non-nil slice", got)
		}
	})

	t.Run("insertion order", func(t *testing.T) {
		t.Parallel()

		s := newQuizStore(t)
		want := newTestQuizzes()
		for _, qz := range want {
			if err := s.CreateQuiz(t.Context(), qz); err != nil {
				t.Fatalf("CreateQuiz() error = %v", err)
			}
		}

		got, err := s.ListQuizzes(t.Context())
		if err != nil {
			t.Fatalf("ListQuizzes() error = %v", err)
		}
		if diff := cmp.Diff(want, got); diff != "" {
			t.Errorf("ListQuizzes() mismatch (-want +got):\n%s", diff)
		}
	})
}

func TestQuizStore_GetQuiz(t *testing.T) {
	t.Parallel()

	s := newQuizStore(t)

	tests := []struct {
		name    string
		id      string
		wantErr error
	}{
		{name: "malformed id", id: "not-an-id", wantErr: quiz.ErrInvalidID},
		{name: "empty id", id: "", wantErr: quiz.ErrInvalidID},
		{name: "unknown id", id: quiz.NewID(), wantErr: quiz.ErrQuizNotFound},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			_, err := s.GetQuiz(t.Context(), tc.id)
			if !errors.Is(err, tc.wantErr) {
				t.Errorf("GetQuiz(%q) error = %v, want %v", tc.id, err, tc.wantErr)
			}
		})
	}
}

func TestQuizStore_DeleteQuiz(t *testing.T) {
	t.Parallel()

	t.Run("existing quiz", func(t *testing.T) {
		t.Parallel()

		s := newQuizStore(t)
		quizzes := newTestQuizzes()
		for _, qz := range quizzes {
			if err := s.CreateQuiz(t.Context(), qz); err != nil {
				t.Fatalf("CreateQuiz() error = %v", err)
			}
		}

		if err := s.DeleteQuiz(t.Context(), quizzes[0].ID); err != nil {
			t.Fatalf("DeleteQuiz() error = %v", err)
		}

		if _, err := s.GetQuiz(t.Context(), quizzes[0].ID); !errors.Is(err, quiz.ErrQuizNotFound) {
			t.Errorf("GetQuiz() after delete error = %v, want %v", err, quiz.ErrQuizNotFound)
		}

		got, err := s.ListQuizzes(t.Context())
		if err != nil {
			t.Fatalf("ListQuizzes() error = %v", err)
		}
		if diff := cmp.Diff(quizzes[1:], got); diff != "" {
			t.Errorf("ListQuizzes() after delete mismatch (-want +got):\n%s", diff)
		}

		var orphans int
		err = s.DB().QueryRowContext(
			t.Context(),
			`SELECT (SELECT COUNT(*) FROM questions WHERE quiz_id = ?) +
			(SELECT COUNT(*) FROM options WHERE question_id NOT IN (SELECT id FROM questions))`,
			quizzes[0].ID,
		).Scan(&orphans)
		if err != nil {
			t.Fatalf("error counting orphans: %v", err)
		}
		if orphans != 0 {
			t.Errorf("found %d orphaned questions and options", orphans)
		}
	})

	t.Run("unknown quiz", func(t *testing.T) {
		t.Parallel()

		s := newQuizStore(t)
		if err := s.DeleteQuiz(t.Context(), quiz.NewID()); err != nil {
			t.Errorf("DeleteQuiz() error = %v, want nil", err)
		}
	})

	t.Run("malformed id", func(t *testing.T) {
		t.Parallel()

		s := newQuizStore(t)
		if err := s.DeleteQuiz(t.Context(), "42"); !errors.Is(err, quiz.ErrInvalidID) {
			t.Errorf("DeleteQuiz() error = %v, want %v", err, quiz.ErrInvalidID)
		}
	})
}

func TestQuizStore_ClosedDatabase(t *testing.T) {
	t.Parallel()

	conn := dbtest.Open(t)
	s := NewQuizStore(conn, slog.New(slog.DiscardHandler))
	if err := conn.Close(); err != nil {
		t.Fatalf("error closing database: %v", err)
	}

	if err := s.Ping(t.Context()); err == nil {
		t.Error("Ping() error = nil, want error")
	}
	if _, err := s.ListQuizzes(t.Context()); err == nil {
		t.Error("ListQuizzes() error = nil, want error")
	}
	_, err := s.GetQuiz(t.Context(), quiz.NewID())
	if err == nil || errors.Is(err, quiz.ErrQuizNotFound) {
		t.Errorf("GetQuiz() error = %v, want storage error", err)
	}
	if err := s.CreateQuiz(t.Context(), &quiz.Quiz{Title: "x"}); err == nil {
		t.Error("CreateQuiz() error = nil, want error")
	}
}
