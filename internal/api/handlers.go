// Package api provides the JSON HTTP handlers for logging in and managing quizzes.
package api

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/starquake/quizdesk/internal/httputil"
	"github.com/starquake/quizdesk/internal/logging"
	"github.com/starquake/quizdesk/internal/quiz"
	"github.com/starquake/quizdesk/internal/user"
)

const (
	msgInvalidCredentials = "invalid username or password"
	msgQuizNotFound       = "quiz not found"
	msgInvalidBody        = "invalid request body"
	msgBodyTooLarge       = "request body too large"
	msgNotFound           = "not found"
	msgInternal           = "internal server error"
)

type questionResponse struct {
	Text    string   `json:"text"`
	Options []string `json:"options"`
	Correct int      `json:"correct"`
}

type quizResponse struct {
	ID          string             `json:"_id"`
	Title       string             `json:"title"`
	Description string             `json:"description"`
	Questions   []questionResponse `json:"questions"`
	CreatedAt   time.Time          `json:"createdAt"`
}

func quizResponseFromQuiz(qz *quiz.Quiz) quizResponse {
	questions := make([]questionResponse, 0, len(qz.Questions))
	for _, qs := range qz.Questions {
		options := qs.Options
		if options == nil {
			options = []string{}
		}
		questions = append(questions, questionResponse{
			Text:    qs.Text,
			Options: options,
			Correct: qs.Correct,
		})
	}

	return quizResponse{
		ID:          qz.ID,
		Title:       qz.Title,
		Description: qz.Description,
		Questions:   questions,
		CreatedAt:   qz.CreatedAt,
	}
}

// writeDecodeError answers a request whose body could not be decoded.
func writeDecodeError(w http.ResponseWriter, r *http.Request, logger *slog.Logger, err error) {
	var maxErr *http.MaxBytesError
	if errors.As(err, &maxErr) {
		writeMessage(w, r, logger, http.StatusRequestEntityTooLarge, msgBodyTooLarge)

		return
	}
	writeMessage(w, r, logger, http.StatusBadRequest, msgInvalidBody)
}

// writeMessage writes a {"message"} response and logs when encoding fails.
func writeMessage(w http.ResponseWriter, r *http.Request, logger *slog.Logger, status int, msg string) {
	if err := httputil.EncodeMessage(w, status, msg); err != nil {
		logger.ErrorContext(r.Context(), "error encoding message response", logging.ErrAttr(err))
	}
}

// HandleLogin checks a username and password against the stored users.
// Returns 200 with the role of the user on success.
// Returns 400 if the request body is not JSON and 413 if it is too large.
// Returns 401 if no user matches, including when the credentials are not strings.
func HandleLogin(logger *slog.Logger, userStore user.Store) http.Handler {
	type loginRequest struct {
		Username string `json:"username"`
		Password string `json:"password"`
	}

	type loginResponse struct {
		Success  bool   `json:"success"`
		Role     string `json:"role,omitempty"`
		Username string `json:"username,omitempty"`
		Message  string `json:"message,omitempty"`
	}

	writeUnauthorized := func(w http.ResponseWriter, r *http.Request) {
		err := httputil.EncodeJSON(w, http.StatusUnauthorized, loginResponse{
			Success: false,
			Message: msgInvalidCredentials,
		})
		if err != nil {
			logger.ErrorContext(r.Context(), "error encoding loginResponse", logging.ErrAttr(err))
		}
	}

	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()

		req, err := httputil.DecodeJSON[loginRequest](w, r)
		if err != nil {
			logger.DebugContext(ctx, "error decoding loginRequest", logging.ErrAttr(err))
			// Well-formed JSON of the wrong shape cannot match any user.
			var typeErr *json.UnmarshalTypeError
			if errors.As(err, &typeErr) {
				writeUnauthorized(w, r)

				return
			}
			writeDecodeError(w, r, logger, err)

			return
		}

		u, err := userStore.FindUserByCredentials(ctx, req.Username, req.Password)
		if err != nil {
			if errors.Is(err, user.ErrUserNotFound) {
				logger.InfoContext(ctx, "login failed", slog.String("username", req.Username))
				writeUnauthorized(w, r)

				return
			}
			logger.ErrorContext(ctx, "error finding user", logging.ErrAttr(err))
			writeMessage(w, r, logger, http.StatusInternalServerError, msgInternal)

			return
		}

		logger.InfoContext(ctx, "login succeeded", slog.String("username", u.Username), slog.String("role", string(u.Role)))
		err = httputil.EncodeJSON(w, http.StatusOK, loginResponse{
			Success:  true,
			Role:     string(u.Role),
			Username: u.Username,
		})
		if err != nil {
			logger.ErrorContext(ctx, "error encoding loginResponse", logging.ErrAttr(err))
		}
	})
}

// HandleQuizList returns all quizzes, including their questions and correct answers.
func HandleQuizList(logger *slog.Logger, quizStore quiz.Store) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()

		quizzes, err := quizStore.ListQuizzes(ctx)
		if err != nil {
			logger.ErrorContext(ctx, "error retrieving quizzes from store", logging.ErrAttr(err))
			writeMessage(w, r, logger, http.StatusInternalServerError, msgInternal)

			return
		}

		res := make([]quizResponse, 0, len(quizzes))
		for _, qz := range quizzes {
			res = append(res, quizResponseFromQuiz(qz))
		}

		if err = httputil.EncodeJSON(w, http.StatusOK, res); err != nil {
			logger.ErrorContext(ctx, "error encoding quizzes response", logging.ErrAttr(err))
		}
	})
}

// HandleQuizGet returns a single quiz.
// Returns 404 if the id is malformed or the quiz does not exist.
// Returns 500 if the store fails.
func HandleQuizGet(logger *slog.Logger, quizStore quiz.Store) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		id := r.PathValue("id")

		qz, err := quizStore.GetQuiz(ctx, id)
		if err != nil {
			if errors.Is(err, quiz.ErrInvalidID) || errors.Is(err, quiz.ErrQuizNotFound) {
				logger.DebugContext(ctx, "quiz not found", slog.String("id", id), logging.ErrAttr(err))
				writeMessage(w, r, logger, http.StatusNotFound, msgQuizNotFound)

				return
			}
			logger.ErrorContext(ctx, "error retrieving quiz from store", slog.String("id", id), logging.ErrAttr(err))
			writeMessage(w, r, logger, http.StatusInternalServerError, msgInternal)

			return
		}

		if err = httputil.EncodeJSON(w, http.StatusOK, quizResponseFromQuiz(qz)); err != nil {
			logger.ErrorContext(ctx, "error encoding quiz response", logging.ErrAttr(err))
		}
	})
}

// HandleQuizCreate stores the quiz in the request body and returns it with its new id.
// Scalars are coerced to the field types: numbers and booleans become strings, and correct accepts
// numeric strings and integral floats. Nothing else is validated.
// Returns 400 if the request body is not a JSON quiz or a value cannot be coerced, and 413 if it is too large.
func HandleQuizCreate(logger *slog.Logger, quizStore quiz.Store) http.Handler {
	type questionRequest struct {
		Text    looseString   `json:"text"`
		Options []looseString `json:"options"`
		Correct looseInt      `json:"correct"`
	}

	type createQuizRequest struct {
		Title       looseString       `json:"title"`
		Description looseString       `json:"description"`
		Questions   []questionRequest `json:"questions"`
	}

	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()

		req, err := httputil.DecodeJSON[createQuizRequest](w, r)
		if err != nil {
			logger.DebugContext(ctx, "error decoding createQuizRequest", logging.ErrAttr(err))
			writeDecodeError(w, r, logger, err)

			return
		}

		qz := &quiz.Quiz{
			Title:       string(req.Title),
			Description: string(req.Description),
			Questions:   make([]*quiz.Question, 0, len(req.Questions)),
		}
		for _, qs := range req.Questions {
			qz.Questions = append(qz.Questions, &quiz.Question{
				Text:    string(qs.Text),
				Options: looseStrings(qs.Options),
				Correct: int(qs.Correct),
			})
		}

		if err = quizStore.CreateQuiz(ctx, qz); err != nil {
			logger.ErrorContext(ctx, "error creating quiz", logging.ErrAttr(err))
			writeMessage(w, r, logger, http.StatusInternalServerError, msgInternal)

			return
		}

		logger.InfoContext(ctx, "quiz created", slog.String("id", qz.ID), slog.String("title", qz.Title))
		if err = httputil.EncodeJSON(w, http.StatusOK, quizResponseFromQuiz(qz)); err != nil {
			logger.ErrorContext(ctx, "error encoding quiz response", logging.ErrAttr(err))
		}
	})
}

// HandleQuizDelete deletes a quiz. It answers {"success": true} whether or not the quiz existed, including for
// ids that cannot belong to any quiz.
// Returns 500 if the store fails.
func HandleQuizDelete(logger *slog.Logger, quizStore quiz.Store) http.Handler {
	type deleteResponse struct {
		Success bool `json:"success"`
	}

	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		id := r.PathValue("id")

		err := quizStore.DeleteQuiz(ctx, id)
		if err != nil && !errors.Is(err, quiz.ErrInvalidID) {
			logger.ErrorContext(ctx, "error deleting quiz", slog.String("id", id), logging.ErrAttr(err))
			writeMessage(w, r, logger, http.StatusInternalServerError, msgInternal)

			return
		}

		logger.InfoContext(ctx, "quiz deleted", slog.String("id", id))
		if err = httputil.EncodeJSON(w, http.StatusOK, deleteResponse{Success: true}); err != nil {
			logger.ErrorContext(ctx, "error encoding deleteResponse", logging.ErrAttr(err))
		}
	})
}

// HandleNotFound answers requests for unknown API paths with a JSON 404.
func HandleNotFound(logger *slog.Logger) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		logger.DebugContext(r.Context(), "unknown api path",
			slog.String("method", r.Method),
			slog.String("path", r.URL.Path),
		)
		writeMessage(w, r, logger, http.StatusNotFound, msgNotFound)
	})
}
