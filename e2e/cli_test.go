package e2e_test

import (
	"context"
	"encoding/json"
	"io"
	"net"
	"net/http"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/PuerkitoBio/goquery"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mcoot/ofelia/internal/api"
	"github.com/mcoot/ofelia/internal/factory"
	"github.com/mcoot/ofelia/internal/testutil"
	"github.com/mcoot/ofelia/internal/web"
)

// cliRunner manages CLI binary execution
type cliRunner struct {
	binaryPath string
	serverURL  string
	tokenFile  string
}

func newCLIRunner(t *testing.T, serverURL string) *cliRunner {
	t.Helper()

	projectRoot := findProjectRoot(t)

	// Build the CLI binary
	binaryPath := filepath.Join(t.TempDir(), "ofelia-test")
	cmd := exec.Command("go", "build", "-o", binaryPath, "./cmd/ofelia")
	cmd.Dir = projectRoot
	output, err := cmd.CombinedOutput()
	require.NoError(t, err, "failed to build CLI: %s", string(output))

	return &cliRunner{
		binaryPath: binaryPath,
		serverURL:  serverURL,
		tokenFile:  filepath.Join(t.TempDir(), "token"),
	}
}

func (r *cliRunner) run(args ...string) (string, error) {
	fullArgs := append([]string{
		"--server", r.serverURL,
		"--token-file", r.tokenFile,
		"--output", "json",
	}, args...)

	cmd := exec.Command(r.binaryPath, fullArgs...)
	cmd.Env = append(os.Environ(), "OFELIA_TOKEN=")
	output, err := cmd.CombinedOutput()
	return string(output), err
}

func findProjectRoot(t *testing.T) string {
	t.Helper()

	dir, err := os.Getwd()
	require.NoError(t, err)

	for {
		if _, err := os.Stat(filepath.Join(dir, "go.mod")); err == nil {
			return dir
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			t.Fatal("could not find project root (go.mod)")
		}
		dir = parent
	}
}

// startTestServer serves web, API and metrics on a free port, wired like cmd/server
func startTestServer(t *testing.T) string {
	t.Helper()

	listener, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)

	logger := testutil.NopLogger()
	app, err := factory.New(factory.Config{
		Logger:      logger,
		StorageType: factory.StorageTypeBolt,
		BoltPath:    filepath.Join(t.TempDir(), "ofelia.db"),
	})
	require.NoError(t, err)

	mux := http.NewServeMux()
	mux.Handle("/api/", api.NewRouter(api.RouterConfig{
		Logger:      logger,
		Metrics:     app.Metrics,
		AuthService: app.AuthService,
		Resolver:    app.ResolverService,
		Wizard:      app.WizardService,
		Presenter:   app.PresenterService,
	}))
	mux.Handle("/metrics", promhttp.HandlerFor(app.Registry, promhttp.HandlerOpts{}))
	mux.Handle("/", web.NewRouter(web.RouterConfig{
		Logger:      logger,
		Metrics:     app.Metrics,
		AuthService: app.AuthService,
		Resolver:    app.ResolverService,
		Wizard:      app.WizardService,
		Presenter:   app.PresenterService,
	}))

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	server := api.NewServer(mux, api.DefaultServerConfig(), logger)
	go func() { done <- server.Serve(ctx, listener) }()

	t.Cleanup(func() {
		cancel()
		if err := <-done; err != nil {
			t.Logf("server error: %v", err)
		}
		_ = app.Close()
	})

	serverURL := "http://" + listener.Addr().String()
	waitForServer(t, serverURL+"/api/v1/health")
	return serverURL
}

func waitForServer(t *testing.T, url string) {
	t.Helper()

	client := &http.Client{Timeout: 100 * time.Millisecond}
	deadline := time.Now().Add(5 * time.Second)

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

	t.Fatal("server did not become ready in time")
}

// Response types for JSON parsing
type resolveResponse struct {
	ID       string `json:"id"`
	Outcome  string `json:"outcome"`
	Location string `json:"location"`
}

type authResponse struct {
	BraceletID   string `json:"bracelet_id"`
	SessionToken string `json:"session_token"`
}

type profileResponse struct {
	DisplayName string `json:"display_name"`
	Message     string `json:"message"`
	CanEdit     bool   `json:"can_edit"`
}

func writePhoto(t *testing.T) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "me.png")
	require.NoError(t, os.WriteFile(path, []byte("\x89PNG\r\n\x1a\n\x00\x00\x00\rIHDR"), 0600))
	return path
}

func TestCLIBraceletLifecycle(t *testing.T) {
	if testing.Short() {
		t.Skip("builds the CLI binary")
	}

	serverURL := startTestServer(t)
	cli := newCLIRunner(t, serverURL)

	// A fresh bracelet leads to registration
	out, err := cli.run("resolve", "DD2349X66")
	require.NoError(t, err, out)
	var res resolveResponse
	require.NoError(t, json.Unmarshal([]byte(out), &res))
	assert.Equal(t, "register", res.Outcome)

	out, err = cli.run("register", "--id", "DD2349X66", "--user", "ana", "--pass", "secret",
		"--first-name", "Ana", "--last-name", "Ruiz",
		"--contact", "Luis", "--phone", "+34 600 111 222",
		"--photo", writePhoto(t))
	require.NoError(t, err, out)

	// Now it leads to the profile
	out, err = cli.run("resolve", "DD2349X66")
	require.NoError(t, err, out)
	require.NoError(t, json.Unmarshal([]byte(out), &res))
	assert.Equal(t, "profile", res.Outcome)

	// The bob/wrong scenario: a failed login leaves no session
	out, err = cli.run("login", "--user", "ana", "--pass", "wrong")
	require.Error(t, err)
	assert.Contains(t, out, "INVALID_CREDENTIALS")
	assert.NoFileExists(t, cli.tokenFile)

	out, err = cli.run("login", "--user", "ana", "--pass", "secret")
	require.NoError(t, err, out)
	var auth authResponse
	require.NoError(t, json.Unmarshal([]byte(out), &auth))
	assert.Equal(t, "DD2349X66", auth.BraceletID)

	out, err = cli.run("edit", "DD2349X66",
		"--first-name", "Ana", "--last-name", "Ruiz",
		"--contact", "Luis", "--phone", "+34 600 111 222",
		"--message", "Type 1 diabetic")
	require.NoError(t, err, out)

	out, err = cli.run("profile", "DD2349X66")
	require.NoError(t, err, out)
	var profile profileResponse
	require.NoError(t, json.Unmarshal([]byte(out), &profile))
	assert.Equal(t, "Ana Ruiz", profile.DisplayName)
	assert.Equal(t, "Type 1 diabetic", profile.Message)
	assert.True(t, profile.CanEdit)

	// The web page shows the same record
	resp, err := http.Get(serverURL + "/profile?id=DD2349X66")
	require.NoError(t, err)
	defer func() { _ = resp.Body.Close() }()
	doc, err := goquery.NewDocumentFromReader(resp.Body)
	require.NoError(t, err)
	assert.Equal(t, "Type 1 diabetic", strings.TrimSpace(doc.Find("#profile-message").Text()))

	out, err = cli.run("logout")
	require.NoError(t, err, out)
	assert.NoFileExists(t, cli.tokenFile)
}

func TestCLIRejectedBracelet(t *testing.T) {
	if testing.Short() {
		t.Skip("builds the CLI binary")
	}

	serverURL := startTestServer(t)
	cli := newCLIRunner(t, serverURL)

	out, err := cli.run("resolve", "ZZ0000Z00")
	require.Error(t, err)
	assert.Contains(t, out, "REJECTED_ID")

	out, err = cli.run("register", "--id", "ZZ0000Z00", "--user", "x", "--pass", "y")
	require.Error(t, err)
	assert.Contains(t, out, "REJECTED_ID")
}

func TestMetricsEndpoint(t *testing.T) {
	serverURL := startTestServer(t)

	resp, err := http.Get(serverURL + "/api/v1/resolve/DD2349X66")
	require.NoError(t, err)
	_ = resp.Body.Close()

	resp, err = http.Get(serverURL + "/metrics")
	require.NoError(t, err)
	defer func() { _ = resp.Body.Close() }()

	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	assert.Contains(t, string(body), `ofelia_resolutions_total{outcome="register"} 1`)
}
