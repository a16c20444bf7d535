package livefetch

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/kodhane/mevra/internal/model"
	"github.com/kodhane/mevra/internal/util"
	"github.com/kodhane/mevra/internal/worker"
)

func testHTTPConfig() model.HTTPConfig {
	return model.HTTPConfig{
		Timeout:      5 * time.Second,
		UserAgent:    "mevra-test/0.1",
		MaxBodyBytes: 2_000_000,
	}
}

func documentHTML() string {
	var sb strings.Builder
	sb.WriteString("<html><body><h1>İŞ KANUNU</h1>")
	for i := 1; i <= 5; i++ {
		fmt.Fprintf(&sb, "<p>MADDE %d - Bu Kanunun amacı işverenler ile işçilerin çalışma şartlarını ve çalışma ortamına ilişkin hak ve sorumluluklarını düzenlemektir.</p>", i)
	}
	sb.WriteString("</body></html>")
	return sb.String()
}

func TestDirectURLFetcher(t *testing.T) {
	var gotQuery, gotUA string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/arama" {
			http.NotFound(w, r)
			return
		}
		gotQuery = r.URL.Query().Get("AranacakMetin")
		gotUA = r.Header.Get("User-Agent")
		fmt.Fprint(w, documentHTML())
	}))
	defer server.Close()

	fetcher := NewDirectURLFetcher(server.URL, "", testHTTPConfig(), worker.NewLimiter(100, 10))
	result, err := fetcher.Fetch(context.Background(), "iş kanunu")
	if err != nil {
		t.Fatalf("fetch: %v", err)
	}

	if gotQuery != "iş kanunu" {
		t.Errorf("query param = %q", gotQuery)
	}
	if gotUA != "mevra-test/0.1" {
		t.Errorf("user agent = %q", gotUA)
	}
	if !strings.Contains(result.RawText, "MADDE 1") {
		t.Error("content missing from result")
	}
	if !looksLikeDocument(result.RawText) {
		t.Error("server document failed the sanity check")
	}
}

func TestDirectURLFetcherConfiguredSearchPath(t *testing.T) {
	var gotPath string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		fmt.Fprint(w, documentHTML())
	}))
	defer server.Close()

	fetcher := NewDirectURLFetcher(server.URL, "/mevzuat/ara", testHTTPConfig(), nil)
	if _, err := fetcher.Fetch(context.Background(), "iş kanunu"); err != nil {
		t.Fatalf("fetch: %v", err)
	}
	if gotPath != "/mevzuat/ara" {
		t.Errorf("search path = %q, want /mevzuat/ara", gotPath)
	}
}

func TestDirectURLFetcherInsecureTLS(t *testing.T) {
	server := httptest.NewTLSServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, documentHTML())
	}))
	defer server.Close()

	strict := NewDirectURLFetcher(server.URL, "", testHTTPConfig(), nil)
	if _, err := strict.Fetch(context.Background(), "iş kanunu"); err == nil {
		t.Error("expected certificate error against the self-signed server")
	}

	cfg := testHTTPConfig()
	cfg.InsecureTLS = true
	lax := NewDirectURLFetcher(server.URL, "", cfg, nil)
	if _, err := lax.Fetch(context.Background(), "iş kanunu"); err != nil {
		t.Errorf("expected insecure client to accept the self-signed server, got %v", err)
	}
}

func TestDirectURLFetcherErrorStatus(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "service unavailable", http.StatusServiceUnavailable)
	}))
	defer server.Close()

	fetcher := NewDirectURLFetcher(server.URL, "", testHTTPConfig(), nil)
	if _, err := fetcher.Fetch(context.Background(), "iş kanunu"); err == nil {
		t.Error("expected error for 503")
	}
}

func TestDirectURLFetcherBodyCap(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, "<p>", strings.Repeat("a", 10_000), "</p>")
	}))
	defer server.Close()

	cfg := testHTTPConfig()
	cfg.MaxBodyBytes = 1000
	fetcher := NewDirectURLFetcher(server.URL, "", cfg, nil)
	result, err := fetcher.Fetch(context.Background(), "x")
	if err != nil {
		t.Fatalf("fetch: %v", err)
	}
	if len(result.RawText) > 1100 {
		t.Errorf("body cap not applied, got %d chars", len(result.RawText))
	}
}

func TestSessionFetcherWarmsCookies(t *testing.T) {
	var warmed bool
	var cookieSeen bool
	mux := http.NewServeMux()
	mux.HandleFunc("/", func(w http.ResponseWriter, r *http.Request) {
		warmed = true
		http.SetCookie(w, &http.Cookie{Name: "session", Value: "abc123"})
	})
	mux.HandleFunc("/search", func(w http.ResponseWriter, r *http.Request) {
		if c, err := r.Cookie("session"); err == nil && c.Value == "abc123" {
			cookieSeen = true
		}
		fmt.Fprint(w, documentHTML())
	})
	server := httptest.NewServer(mux)
	defer server.Close()

	fetcher := NewSessionFetcher(server.URL, testHTTPConfig(), nil, nil)
	result, err := fetcher.Fetch(context.Background(), "iş kanunu")
	if err != nil {
		t.Fatalf("fetch: %v", err)
	}

	if !warmed {
		t.Error("session was not warmed before the search request")
	}
	if !cookieSeen {
		t.Error("warm-up cookie not sent with the search request")
	}
	if !strings.Contains(result.RawText, "MADDE 1") {
		t.Error("content missing from result")
	}
}

func TestSessionFetcherRespectsRobots(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/robots.txt", func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, "User-agent: *\nDisallow: /search\n")
	})
	mux.HandleFunc("/search", func(w http.ResponseWriter, r *http.Request) {
		t.Error("disallowed path was fetched")
	})
	server := httptest.NewServer(mux)
	defer server.Close()

	robots := util.NewRobotsChecker("mevra-test/0.1", 5*time.Second)
	fetcher := NewSessionFetcher(server.URL, testHTTPConfig(), nil, robots)
	if _, err := fetcher.Fetch(context.Background(), "iş kanunu"); err == nil {
		t.Error("expected robots.txt rejection")
	}
}
