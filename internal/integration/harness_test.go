//go:build integration

package integration

import (
	"bytes"
	"context"
	"crypto/ed25519"
	"crypto/rand"
	"encoding/base64"
	"encoding/json"
	"io"
	"net"
	"net/http"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"sync"
	"testing"
	"time"

	server "github.com/laneworks/laneworks/internal/services/center/app"
	"github.com/laneworks/laneworks/internal/services/center/domain/grant"
)

var (
	layoutGrantIssuer     = "test-issuer"
	layoutGrantAudience   = "laneworks-center"
	layoutGrantKeyOnce    sync.Once
	layoutGrantPrivateKey ed25519.PrivateKey
	layoutGrantPublicKey  ed25519.PublicKey
)

// integrationTimeout returns the default timeout for integration calls.
func integrationTimeout() time.Duration {
	return 10 * time.Second
}

// startCenterServer boots the center HTTP server on a free port with a
// temp database and layout grant keys, returning its base URL and a
// shutdown function.
func startCenterServer(t *testing.T) (string, func()) {
	t.Helper()

	setTempDBPath(t)
	setLayoutGrantEnv(t)

	addr := pickUnusedAddress(t)
	ctx, cancel := context.WithCancel(context.Background())
	srv, err := server.NewWithAddr(addr)
	if err != nil {
		cancel()
		t.Fatalf("new center server: %v", err)
	}

	serveErr := make(chan error, 1)
	go func() {
		serveErr <- srv.ListenAndServe(ctx)
	}()

	baseURL := "http://" + addr
	waitForHTTPHealth(t, baseURL+"/healthz")
	stop := func() {
		cancel()
		select {
		case err := <-serveErr:
			if err != nil {
				t.Fatalf("center server error: %v", err)
			}
		case <-time.After(5 * time.Second):
			t.Fatalf("timed out waiting for center server to stop")
		}
		srv.Close()
	}

	return baseURL, stop
}

func setTempDBPath(t *testing.T) {
	t.Helper()
	t.Setenv("LANEWORKS_CENTER_DB_PATH", filepath.Join(t.TempDir(), "center.db"))
}

func setLayoutGrantEnv(t *testing.T) {
	t.Helper()

	layoutGrantKeyOnce.Do(func() {
		publicKey, privateKey, err := ed25519.GenerateKey(rand.Reader)
		if err != nil {
			t.Fatalf("generate layout grant key: %v", err)
		}
		layoutGrantPublicKey = publicKey
		layoutGrantPrivateKey = privateKey
	})

	t.Setenv(grant.EnvGrantIssuer, layoutGrantIssuer)
	t.Setenv(grant.EnvGrantAudience, layoutGrantAudience)
	t.Setenv(grant.EnvGrantPublicKey, base64.RawStdEncoding.EncodeToString(layoutGrantPublicKey))
	t.Setenv(grant.EnvGrantPrivateKey, base64.RawStdEncoding.EncodeToString(layoutGrantPrivateKey))
}

// issueLayoutGrant mints a replacement grant for the center using the
// suite's signing key.
func issueLayoutGrant(t *testing.T, centerID string) string {
	t.Helper()

	token, err := grant.Issue(grant.IssuerConfig{
		Issuer:   layoutGrantIssuer,
		Audience: layoutGrantAudience,
		Key:      layoutGrantPrivateKey,
		TTL:      time.Minute,
	}, centerID, nil)
	if err != nil {
		t.Fatalf("issue layout grant: %v", err)
	}
	return token
}

func pickUnusedAddress(t *testing.T) string {
	t.Helper()

	listener, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		t.Fatalf("reserve address: %v", err)
	}
	addr := listener.Addr().String()
	if err := listener.Close(); err != nil {
		t.Fatalf("release address: %v", err)
	}
	return addr
}

func waitForHTTPHealth(t *testing.T, url string) {
	t.Helper()

	client := &http.Client{Timeout: time.Second}
	deadline := time.Now().Add(integrationTimeout())
	for time.Now().Before(deadline) {
		resp, err := client.Get(url)
		if err == nil {
			_ = resp.Body.Close()
			if resp.StatusCode == http.StatusOK {
				return
			}
		}
		time.Sleep(50 * time.Millisecond)
	}
	t.Fatalf("health endpoint %s never became ready", url)
}

// apiRequest describes one HTTP call against the center API.
type apiRequest struct {
	Method string
	Path   string
	Body   any
	Grant  string
	Locale string
}

// callAPI executes the request and returns the status and raw body.
func callAPI(t *testing.T, baseURL string, req apiRequest) (int, []byte) {
	t.Helper()

	var body io.Reader
	if req.Body != nil {
		data, err := json.Marshal(req.Body)
		if err != nil {
			t.Fatalf("marshal request body: %v", err)
		}
		body = bytes.NewReader(data)
	}

	ctx, cancel := context.WithTimeout(context.Background(), integrationTimeout())
	defer cancel()
	httpReq, err := http.NewRequestWithContext(ctx, req.Method, baseURL+req.Path, body)
	if err != nil {
		t.Fatalf("build request: %v", err)
	}
	if req.Body != nil {
		httpReq.Header.Set("Content-Type", "application/json")
	}
	if req.Grant != "" {
		httpReq.Header.Set(server.GrantHeader, req.Grant)
	}
	if req.Locale != "" {
		httpReq.Header.Set("Accept-Language", req.Locale)
	}

	resp, err := http.DefaultClient.Do(httpReq)
	if err != nil {
		t.Fatalf("%s %s: %v", req.Method, req.Path, err)
	}
	defer resp.Body.Close()
	data, err := io.ReadAll(resp.Body)
	if err != nil {
		t.Fatalf("read response body: %v", err)
	}
	return resp.StatusCode, data
}

// decodeJSON decodes a response body into the target type.
func decodeJSON[T any](t *testing.T, data []byte) T {
	t.Helper()

	var out T
	if err := json.Unmarshal(data, &out); err != nil {
		t.Fatalf("unmarshal response %s: %v", string(data), err)
	}
	return out
}

// repoRoot locates the module root by walking up from this file.
func repoRoot(t *testing.T) string {
	t.Helper()

	_, file, _, ok := runtime.Caller(0)
	if !ok {
		t.Fatal("resolve caller path")
	}
	dir := filepath.Dir(file)
	for {
		if _, err := os.Stat(filepath.Join(dir, "go.mod")); err == nil {
			return dir
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			t.Fatal("go.mod not found above integration tests")
		}
		dir = parent
	}
}

// errorBody is the API error envelope used in assertions.
type errorBody struct {
	Code     string            `json:"code"`
	Message  string            `json:"message"`
	Metadata map[string]string `json:"metadata"`
}

func expectErrorCode(t *testing.T, status int, body []byte, wantStatus int, wantCode string) errorBody {
	t.Helper()

	if status != wantStatus {
		t.Fatalf("status = %d, want %d (body %s)", status, wantStatus, string(body))
	}
	payload := decodeJSON[errorBody](t, body)
	if payload.Code != wantCode {
		t.Fatalf("error code = %q, want %q (body %s)", payload.Code, wantCode, string(body))
	}
	if strings.TrimSpace(payload.Message) == "" {
		t.Fatalf("error message is empty (body %s)", string(body))
	}
	return payload
}
