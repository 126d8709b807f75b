package uistatic

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"testing/fstest"
)

func TestHandlerServesEmbeddedIndex(t *testing.T) {
	rr := httptest.NewRecorder()
	Handler().ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/", nil))
	if rr.Code != http.StatusOK {
		t.Fatalf("status = %d", rr.Code)
	}
	if !strings.Contains(rr.Body.String(), "Project Samarth") {
		t.Fatalf("index body = %q", rr.Body.String())
	}
}

func TestHandlerFallsBackToIndexAndServesAssets(t *testing.T) {
	h := handlerFor(fstest.MapFS{
		"index.html": {Data: []byte("<html>index</html>")},
		"app.js":     {Data: []byte("console.log('ok')")},
	})

	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/app.js", nil))
	if rr.Code != http.StatusOK || !strings.Contains(rr.Body.String(), "console.log") {
		t.Fatalf("asset status = %d body = %q", rr.Code, rr.Body.String())
	}

	rr = httptest.NewRecorder()
	h.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/conversations/abc", nil))
	if rr.Code != http.StatusOK || rr.Body.String() != "<html>index</html>" {
		t.Fatalf("fallback status = %d body = %q", rr.Code, rr.Body.String())
	}

	rr = httptest.NewRecorder()
	h.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/v1/unknown", nil))
	if rr.Code != http.StatusNotFound {
		t.Fatalf("api fallback status = %d", rr.Code)
	}
}
