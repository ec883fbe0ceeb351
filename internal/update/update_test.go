package update

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
)

func releaseServer(t *testing.T, status int, body string) {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		w.Write([]byte(body))
	}))
	old := releasesURL
	releasesURL = srv.URL
	t.Cleanup(func() {
		releasesURL = old
		srv.Close()
	})
}

func TestCheckNewerVersion(t *testing.T) {
	releaseServer(t, http.StatusOK, `{"tag_name": "v1.2.0"}`)

	r := Check(context.Background(), "v1.1.0")
	if r == nil {
		t.Fatal("expected a result for a newer release")
	}
	if r.LatestVersion != "1.2.0" {
		t.Errorf("LatestVersion = %q, want 1.2.0", r.LatestVersion)
	}
}

func TestCheckSameVersion(t *testing.T) {
	releaseServer(t, http.StatusOK, `{"tag_name": "v1.1.0"}`)

	if r := Check(context.Background(), "1.1.0"); r != nil {
		t.Errorf("expected nil for an up-to-date version, got %+v", r)
	}
}

func TestCheckErrorsAreNonFatal(t *testing.T) {
	tests := []struct {
		name   string
		status int
		body   string
	}{
		{"not found", http.StatusNotFound, `{"message": "Not Found"}`},
		{"rate limited", http.StatusForbidden, `{"message": "rate limit"}`},
		{"bad json", http.StatusOK, "not json"},
		{"empty tag", http.StatusOK, `{"tag_name": ""}`},
	}
	for _, tt := range tests {
		releaseServer(t, tt.status, tt.body)
		if r := Check(context.Background(), "1.0.0"); r != nil {
			t.Errorf("%s: expected nil, got %+v", tt.name, r)
		}
	}
}
