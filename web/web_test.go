package web

import (
	"io/fs"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPublic_ContainsAssets(t *testing.T) {
	for _, name := range []string{"index.html", "app.js", "styles.css"} {
		_, err := fs.Stat(Public(), name)
		require.NoError(t, err, name)
	}
}

func TestPublic_ServesIndex(t *testing.T) {
	w := httptest.NewRecorder()
	http.FileServerFS(Public()).ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/", nil))

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Header().Get("Content-Type"), "text/html")
	assert.Contains(t, w.Body.String(), "Book Management System")
}
