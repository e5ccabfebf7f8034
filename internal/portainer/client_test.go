package portainer

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"
)

func newTestServer(t *testing.T, apiKey string) *httptest.Server {
	t.Helper()

	mux := http.NewServeMux()
	mux.HandleFunc("/api/system/status", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"Version":"2.19.4"}`))
	})
	mux.HandleFunc("/api/stacks", func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("X-API-Key") != apiKey {
			http.Error(w, "unauthorized", http.StatusUnauthorized)
			return
		}
		w.Write([]byte(`[
			{"Id":1,"Name":"plex","Type":2,"EndpointId":1,"Env":[{"name":"TZ","value":"Etc/UTC"}],"CreationDate":1700000000},
			{"Id":2,"Name":"gitea","Type":2,"EndpointId":1,"CreationDate":1700000100,"UpdateDate":1700000200}
		]`))
	})
	mux.HandleFunc("/api/stacks/1/file", func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("X-API-Key") != apiKey {
			http.Error(w, "unauthorized", http.StatusUnauthorized)
			return
		}
		w.Write([]byte(`{"StackFileContent":"services:\n  plex:\n    image: plexinc/pms-docker\n"}`))
	})

	return httptest.NewServer(mux)
}

func newTestClient(t *testing.T, baseURL string) *Client {
	t.Helper()
	c, err := NewClient(baseURL, "ptr_testkey", false)
	if err != nil {
		t.Fatal(err)
	}
	c.RetryDelay = time.Millisecond
	return c
}

func TestListStacks(t *testing.T) {
	srv := newTestServer(t, "ptr_testkey")
	defer srv.Close()

	c := newTestClient(t, srv.URL)

	stacks, err := c.ListStacks(context.Background())
	if err != nil {
		t.Fatalf("ListStacks failed: %v", err)
	}
	if len(stacks) != 2 {
		t.Fatalf("expected 2 stacks, got %d", len(stacks))
	}
	if stacks[0].Name != "plex" || stacks[0].Id != 1 {
		t.Errorf("unexpected first stack: %+v", stacks[0])
	}
	if len(stacks[0].Env) != 1 || stacks[0].Env[0].Name != "TZ" {
		t.Errorf("expected TZ env pair, got %+v", stacks[0].Env)
	}
}

func TestStackFile(t *testing.T) {
	srv := newTestServer(t, "ptr_testkey")
	defer srv.Close()

	c := newTestClient(t, srv.URL)

	content, err := c.StackFile(context.Background(), 1)
	if err != nil {
		t.Fatalf("StackFile failed: %v", err)
	}
	if content == "" {
		t.Fatal("expected compose content")
	}
}

func TestBadAPIKeyDoesNotRetry(t *testing.T) {
	srv := newTestServer(t, "ptr_otherkey")
	defer srv.Close()

	calls := 0
	countSrv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls++
		http.Error(w, "unauthorized", http.StatusUnauthorized)
	}))
	defer countSrv.Close()

	c := newTestClient(t, countSrv.URL)

	if _, err := c.ListStacks(context.Background()); err == nil {
		t.Fatal("expected error for bad key")
	}
	if calls != 1 {
		t.Errorf("expected a 401 not to be retried, got %d calls", calls)
	}
}

func TestServerErrorRetries(t *testing.T) {
	calls := 0
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls++
		if calls < 3 {
			http.Error(w, "boom", http.StatusInternalServerError)
			return
		}
		w.Write([]byte(`[]`))
	}))
	defer srv.Close()

	c := newTestClient(t, srv.URL)

	stacks, err := c.ListStacks(context.Background())
	if err != nil {
		t.Fatalf("expected retries to recover, got %v", err)
	}
	if len(stacks) != 0 {
		t.Errorf("expected empty stack list, got %d", len(stacks))
	}
	if calls != 3 {
		t.Errorf("expected 3 attempts, got %d", calls)
	}
}

func TestCheckVersion(t *testing.T) {
	srv := newTestServer(t, "ptr_testkey")
	defer srv.Close()

	c := newTestClient(t, srv.URL)

	if err := c.CheckVersion(context.Background()); err != nil {
		t.Errorf("CheckVersion failed: %v", err)
	}
}

func TestCheckVersionTooOld(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"Version":"1.24.1"}`))
	}))
	defer srv.Close()

	c := newTestClient(t, srv.URL)

	if err := c.CheckVersion(context.Background()); err == nil {
		t.Error("expected version check to fail for 1.24.1")
	}
}
