// Package static provides a handler for serving the public directory of the web frontend.
package static

import (
	"net/http"
	"os"
	"regexp"

	"github.com/tdewolff/minify/v2"
	"github.com/tdewolff/minify/v2/css"
	"github.com/tdewolff/minify/v2/html"
	"github.com/tdewolff/minify/v2/js"
	"github.com/tdewolff/minify/v2/json"
	"github.com/tdewolff/minify/v2/svg"
)

// Handler returns an [http.Handler] that serves the files in dir.
// If minified is true, HTML, CSS, JS, JSON and SVG responses are minified on the fly.
func Handler(dir string, minified bool) http.Handler {
	fileServer := http.FileServer(http.FS(os.DirFS(dir)))

	if !minified {
		return fileServer
	}

	m := minify.New()
	m.AddFunc("text/html", html.Minify)
	m.AddFunc("text/css", css.Minify)
	m.AddFunc("image/svg+xml", svg.Minify)
	m.AddFuncRegexp(regexp.MustCompile("^(application|text)/(x-)?(java|ecma)script$"), js.Minify)
	m.AddFuncRegexp(regexp.MustCompile("[/+]json$"), json.Minify)

	return m.Middleware(fileServer)
}
