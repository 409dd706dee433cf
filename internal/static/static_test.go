package static_test

import (
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/starquake/quizdesk/internal/static"
)

const indexHTML = `<!DOCTYPE html>
<html>
  <head>
    <title>Quiz</title>
  </head>
  <body>
    <h1>   Quizzes   </h1>
  </body>
</html>
`

func publicDir(t *testing.T) string {
	t.Helper()

	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, "index.html"), []byte(indexHTML), 0o600); err != nil {
		t.Fatalf("error writing index.html: %v", err)
	}

	return dir
}

func TestHandler(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		minified bool
	}{
		{name: "plain", minified: false},
		{name: "minified", minified: true},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			h := static.Handler(publicDir(t), tc.minified)

			req := httptest.NewRequest(http.MethodGet, "/", nil)
			rec := httptest.NewRecorder()
			h.ServeHTTP(rec, req)

			if got, want := rec.Code, http.StatusOK; got != want {
				t.Fatalf("status = %d, want %d", got, want)
			}
			body := rec.Body.String()
			if !strings.Contains(body, "Quizzes") {
				t.Errorf("body = %q, should contain %q", body, "Quizzes")
			}
			if got := len(body) < len(indexHTML); got != tc.minified {
				t.Errorf("body shorter than source = %v, want %v (body %q)", got, tc.minified, body)
			}
		})
	}
}

func TestHandler_NotFound(t *testing.T) {
	t.Parallel()

	h := static.Handler(publicDir(t), false)

	req := httptest.NewRequest(http.MethodGet, "/missing.js", nil)
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	if got, want := rec.Code, http.StatusNotFound; got != want {
		t.Errorf("status = %d, want %d", got, want)
	}
}
