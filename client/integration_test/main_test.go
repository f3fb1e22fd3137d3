//go:build integration
// +build integration

package integration_test

import (
	"net/http"
	"os"
	"testing"
	"time"
)

// TestMain waits for a live backend to answer /api/config before running.
// Point ANNOTATOR_E2E_URL at its API root, e.g. http://localhost:5000/api.
func TestMain(m *testing.M) {
	waitForBackend(backendURL(), 30*time.Second)
	os.Exit(m.Run())
}

func backendURL() string {
	if u := os.Getenv("ANNOTATOR_E2E_URL"); u != "" {
		return u
	}
	return "http://localhost:5000/api"
}

func waitForBackend(apiURL string, timeout time.Duration) {
	deadline := time.Now().Add(timeout)
	for time.Now().Before(deadline) {
		resp, err := http.Get(apiURL + "/config")
		if err == nil {
			_ = resp.Body.Close()
			if resp.StatusCode == http.StatusOK {
				return
			}
		}
		time.Sleep(200 * time.Millisecond)
	}
	panic("annotation backend not reachable at " + apiURL + "/config within timeout")
}
