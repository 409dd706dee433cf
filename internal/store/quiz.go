package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/starquake/quizdesk/internal/db"
	"github.com/starquake/quizdesk/internal/logging"
	"github.com/starquake/quizdesk/internal/quiz"
)

// QuizStore is a wrapper around database operations for managing quizzes and their questions and options.
type QuizStore struct {
	db     *sql.DB
	logger *slog.Logger
}

// NewQuizStore initializes a new QuizStore with the provided database connection and returns it.
func NewQuizStore(conn *sql.DB, logger *slog.Logger) *QuizStore {
	return &QuizStore{db: conn, logger: logger}
}

// Ping checks the connection to the database, ensuring it's reachable and responsive.
func (s *QuizStore) Ping(ctx context.Context) error {
	err := s.db.PingContext(ctx)
	if err != nil {
		return fmt.Errorf("failed to ping database: %w", err)
	}

	return nil
}

// ListQuizzes returns all quizzes including their questions, in insertion order.
func (s *QuizStore) ListQuizzes(ctx context.Context) ([]*quiz.Quiz, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT id, title, description, created_at FROM quizzes ORDER BY rowid`)
	if err != nil {
		return nil, fmt.Errorf("failed to list quizzes: %w", err)
	}
	defer s.closeRows(ctx, rows, "quizRows")

	quizzes := make([]*quiz.Quiz, 0)
	for rows.Next() {
		var createdAt db.Timestamp
		qz := &quiz.Quiz{}
		if err = rows.Scan(&qz.ID, &qz.Title, &qz.Description, &createdAt); err != nil {
			return nil, fmt.Errorf("failed to scan quiz: %w", err)
		}
		qz.CreatedAt = time.Time(createdAt)
		quizzes = append(quizzes, qz)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate quizzes: %w", err)
	}

	for _, qz := range quizzes {
		qz.Questions, err = s.listQuestions(ctx, qz.ID)
		if err != nil {
			return nil, fmt.Errorf("failed to list questions for quiz %q: %w", qz.ID, err)
		}
	}

	return quizzes, nil
}

// GetQuiz returns a quiz by its ID.
// Returns quiz.ErrInvalidID if id is malformed and quiz.ErrQuizNotFound if the quiz does not exist.
func (s *QuizStore) GetQuiz(ctx context.Context, id string) (*quiz.Quiz, error) {
	var err error
	if id, err = quiz.ParseID(id); err != nil {
		return nil, err
	}

	var createdAt db.Timestamp
	qz := &quiz.Quiz{}
	err = s.db.QueryRowContext(
		ctx,
		`SELECT id, title, description, created_at FROM quizzes WHERE id = ?`,
		id,
	).Scan(&qz.ID, &qz.Title, &qz.Description, &createdAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("%w: %q", quiz.ErrQuizNotFound, id)
		}

		return nil, fmt.Errorf("failed to get quiz: %w", err)
	}
	qz.CreatedAt = time.Time(createdAt)

	qz.Questions, err = s.listQuestions(ctx, qz.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to list questions for quiz %q: %w", qz.ID, err)
	}

	return qz, nil
}

// CreateQuiz creates a quiz with its questions and options in a single transaction.
// The ID and CreatedAt fields of qz are set on success.
func (s *QuizStore) CreateQuiz(ctx context.Context, qz *quiz.Quiz) error {
	id := quiz.NewID()
	createdAt := db.Now()

	err := db.ExecTx(ctx, s.db, func(tx *sql.Tx) error {
		_, err := tx.ExecContext(
			ctx,
			`INSERT INTO quizzes (id, title, description, created_at) VALUES (?, ?, ?, ?)`,
			id, qz.Title, qz.Description, db.Timestamp(createdAt),
		)
		if err != nil {
			return fmt.Errorf("failed to insert quiz: %w", err)
		}

		for i, qs := range qz.Questions {
			if qs == nil {
				qs = &quiz.Question{}
				qz.Questions[i] = qs
			}
			if err = s.execCreateQuestion(ctx, tx, id, i, qs); err != nil {
				return err
			}
		}

		return nil
	})
	if err != nil {
		return fmt.Errorf("failed to create quiz: %w", err)
	}

	qz.ID = id
	qz.CreatedAt = createdAt

	return nil
}

// DeleteQuiz deletes a quiz with its questions and options. Deleting a quiz that does not exist is not an error.
// Returns quiz.ErrInvalidID if id is malformed.
func (s *QuizStore) DeleteQuiz(ctx context.Context, id string) error {
	var err error
	if id, err = quiz.ParseID(id); err != nil {
		return err
	}

	err = db.ExecTx(ctx, s.db, func(tx *sql.Tx) error {
		// Explicit deletes keep this independent of the foreign_keys pragma of the connection.
		_, err := tx.ExecContext(
			ctx,
			`DELETE FROM options WHERE question_id IN (SELECT id FROM questions WHERE quiz_id = ?)`,
			id,
		)
		if err != nil {
			return fmt.Errorf("failed to delete options: %w", err)
		}
		if _, err = tx.ExecContext(ctx, `DELETE FROM questions WHERE quiz_id = ?`, id); err != nil {
			return fmt.Errorf("failed to delete questions: %w", err)
		}
		res, err := tx.ExecContext(ctx, `DELETE FROM quizzes WHERE id = ?`, id)
		if err != nil {
			return fmt.Errorf("failed to delete quiz: %w", err)
		}
		if n, err := res.RowsAffected(); err == nil && n == 0 {
			s.logger.DebugContext(ctx, "quiz to delete did not exist", slog.String("id", id))
		}

		return nil
	})
	if err != nil {
		return fmt.Errorf("failed to delete quiz %q: %w", id, err)
	}

	return nil
}

func (s *QuizStore) execCreateQuestion(ctx context.Context, tx *sql.Tx, quizID string, position int, qs *quiz.Question) error {
	res, err := tx.ExecContext(
		ctx,
		`INSERT INTO questions (quiz_id, position, text, correct) VALUES (?, ?, ?, ?)`,
		quizID, position, qs.Text, qs.Correct,
	)
	if err != nil {
		return fmt.Errorf("failed to insert question: %w", err)
	}
	questionID, err := res.LastInsertId()
	if err != nil {
		return fmt.Errorf("failed to get last insert ID: %w", err)
	}

	for i, option := range qs.Options {
		_, err = tx.ExecContext(
			ctx,
			`INSERT INTO options (question_id, position, text) VALUES (?, ?, ?)`,
			questionID, i, option,
		)
		if err != nil {
			return fmt.Errorf("failed to insert option: %w", err)
		}
	}

	return nil
}

// listQuestions returns the questions of a quiz with their options, both in position order.
func (s *QuizStore) listQuestions(ctx context.Context, quizID string) ([]*quiz.Question, error) {
	questionRows, err := s.db.QueryContext(
		ctx,
		`SELECT id, text, correct FROM questions WHERE quiz_id = ? ORDER BY position`,
		quizID,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to query questions: %w", err)
	}
	defer s.closeRows(ctx, questionRows, "questionRows")

	questions := make([]*quiz.Question, 0)
	byID := make(map[int64]*quiz.Question)
	for questionRows.Next() {
		var id int64
		qs := &quiz.Question{Options: make([]string, 0)}
		if err = questionRows.Scan(&id, &qs.Text, &qs.Correct); err != nil {
			return nil, fmt.Errorf("failed to scan question: %w", err)
		}
		questions = append(questions, qs)
		byID[id] = qs
	}
	if err = questionRows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate questions: %w", err)
	}
	if len(questions) == 0 {
		return questions, nil
	}

	optionRows, err := s.db.QueryContext(
		ctx,
		`SELECT o.question_id, o.text
		FROM options o
		JOIN questions q ON q.id = o.question_id
		WHERE q.quiz_id = ?
		ORDER BY o.question_id, o.position`,
		quizID,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to query options: %w", err)
	}
	defer s.closeRows(ctx, optionRows, "optionRows")

	for optionRows.Next() {
		var questionID int64
		var text string
		if err = optionRows.Scan(&questionID, &text); err != nil {
			return nil, fmt.Errorf("failed to scan option: %w", err)
		}
		if qs, ok := byID[questionID]; ok {
			qs.Options = append(qs.Options, text)
		}
	}
	if err = optionRows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate options: %w", err)
	}

	return questions, nil
}

func (s *QuizStore) closeRows(ctx context.Context, rows *sql.Rows, name string) {
	if err := rows.Close(); err != nil {
		s.logger.ErrorContext(ctx, "error closing "+name, logging.ErrAttr(err))
	}
}
