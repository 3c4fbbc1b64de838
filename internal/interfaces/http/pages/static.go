package pages

import (
	"net/http"
	"os"
	"path"
	"path/filepath"
	"strings"
)

// Static serves the built frontend from dir. Unknown paths fall back to
// index.html so client-side routes load; a missing dir answers 404.
func Static(dir string) http.Handler {
	if strings.TrimSpace(dir) == "" {
		return http.NotFoundHandler()
	}
	files := http.FileServer(http.Dir(dir))
	index := filepath.Join(dir, "index.html")
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		name := filepath.Join(dir, filepath.FromSlash(path.Clean("/"+r.URL.Path)))
		if info, err := os.Stat(name); err == nil && !info.IsDir() {
			files.ServeHTTP(w, r)
			return
		}
		if _, err := os.Stat(index); err != nil {
			http.NotFound(w, r)
			return
		}
		w.Header().Set("Cache-Control", "no-cache")
		http.ServeFile(w, r, index)
	})
}
