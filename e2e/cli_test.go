package e2e_test

import (
	"context"
	"encoding/json"
	"log/slog"
	"net"
	"net/http"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/mux"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/mcoot/wordrush/internal/api"
	"github.com/mcoot/wordrush/internal/factory"
	"github.com/mcoot/wordrush/internal/services/match"
	"github.com/mcoot/wordrush/internal/web"
)

// cliRunner manages CLI binary execution
type cliRunner struct {
	binaryPath string
	serverURL  string
	keyFile    string
}

func newCLIRunner(t *testing.T, serverURL string) *cliRunner {
	t.Helper()

	// Find project root (where go.mod is)
	projectRoot := findProjectRoot(t)

	// Build the CLI binary
	binaryPath := filepath.Join(t.TempDir(), "wordrush-test")
	cmd := exec.Command("go", "build", "-o", binaryPath, "./cmd/wordrush")
	cmd.Dir = projectRoot
	output, err := cmd.CombinedOutput()
	require.NoError(t, err, "failed to build CLI: %s", string(output))

	return &cliRunner{
		binaryPath: binaryPath,
		serverURL:  serverURL,
		keyFile:    filepath.Join(t.TempDir(), "keys.json"),
	}
}

func (r *cliRunner) run(args ...string) (string, error) {
	fullArgs := append([]string{
		"--server", r.serverURL,
		"--key-file", r.keyFile,
		"--output", "json",
	}, args...)

	cmd := exec.Command(r.binaryPath, fullArgs...)
	output, err := cmd.CombinedOutput()
	return string(output), err
}

func (r *cliRunner) runWithKey(key string, args ...string) (string, error) {
	return r.run(append([]string{"--key", key}, args...)...)
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

// startTestServer runs the full API and web stack on a free port
func startTestServer(t *testing.T) string {
	t.Helper()

	// Find a free port
	listener, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	addr := listener.Addr().String()
	require.NoError(t, listener.Close())

	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelError}))

	app, err := factory.New(factory.Config{
		Logger:      logger,
		MatchConfig: match.Config{HostKeyCost: bcrypt.MinCost},
	})
	require.NoError(t, err)

	projectRoot := findProjectRoot(t)
	require.NoError(t, app.WordService.LoadFromFile(context.Background(), filepath.Join(projectRoot, "data/words.txt")))

	router := mux.NewRouter()
	api.Register(router, api.RouterConfig{
		Logger:          logger,
		MatchController: app.MatchController,
		WordService:     app.WordService,
		HubManager:      app.HubManager,
	})
	web.Register(router, web.RouterConfig{
		Logger:          logger,
		MatchController: app.MatchController,
	})

	server := &http.Server{
		Addr:    addr,
		Handler: router,
	}

	go func() {
		if err := server.ListenAndServe(); err != http.ErrServerClosed {
			t.Logf("server error: %v", err)
		}
	}()

	t.Cleanup(func() {
		app.MatchController.Close(context.Background())
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = server.Shutdown(ctx)
	})

	serverURL := "http://" + addr
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
type stateResponse struct {
	Kind      string         `json:"kind"`
	Team      string         `json:"team"`
	Word      string         `json:"word"`
	Scores    map[string]int `json:"scores"`
	MatchOver *bool          `json:"match_over"`
}

type createResponse struct {
	Match struct {
		ID    string   `json:"id"`
		Teams []string `json:"teams"`
	} `json:"match"`
	HostKey string        `json:"host_key"`
	State   stateResponse `json:"state"`
}

type matchResponse struct {
	Match struct {
		ID       string `json:"id"`
		Live     bool   `json:"live"`
		Finished bool   `json:"finished"`
	} `json:"match"`
	State *stateResponse `json:"state"`
}

type historyResponse struct {
	Turns []struct {
		Number     int    `json:"number"`
		Team       string `json:"team"`
		DeltaScore int    `json:"delta_score"`
		MatchOver  bool   `json:"match_over"`
	} `json:"turns"`
}

type healthResponse struct {
	Status string `json:"status"`
	Words  int    `json:"words"`
}

func decode[T any](t *testing.T, output string) T {
	t.Helper()
	var v T
	require.NoError(t, json.Unmarshal([]byte(output), &v), "output: %s", output)
	return v
}

// Tests

func TestCLI_HealthCheck(t *testing.T) {
	cli := newCLIRunner(t, startTestServer(t))

	output, err := cli.run("health")
	require.NoError(t, err, "output: %s", output)

	resp := decode[healthResponse](t, output)
	assert.Equal(t, "ok", resp.Status)
	assert.Positive(t, resp.Words)
}

func TestCLI_FullMatchFlow(t *testing.T) {
	cli := newCLIRunner(t, startTestServer(t))

	// One word wins, so the first correct guess ends the match
	output, err := cli.run("match", "create", "--teams", "Red,Blue", "--goal", "target_words", "--target", "1")
	require.NoError(t, err, "output: %s", output)
	created := decode[createResponse](t, output)
	assert.Equal(t, []string{"Red", "Blue"}, created.Match.Teams)
	assert.Equal(t, "turn_pending", created.State.Kind)
	assert.NotEmpty(t, created.HostKey)
	id := created.Match.ID

	// The key file authorises later host commands
	output, err = cli.run("match", "peek", id)
	require.NoError(t, err, "output: %s", output)
	peek := decode[struct {
		Word      string `json:"word"`
		Available bool   `json:"available"`
	}](t, output)
	assert.True(t, peek.Available)

	output, err = cli.run("turn", "start", id)
	require.NoError(t, err, "output: %s", output)
	state := decode[stateResponse](t, output)
	assert.Equal(t, "turn_active", state.Kind)
	assert.Equal(t, "Red", state.Team)
	assert.Equal(t, peek.Word, state.Word)

	output, err = cli.run("turn", "correct", id)
	require.NoError(t, err, "output: %s", output)
	state = decode[stateResponse](t, output)
	assert.Equal(t, "turn_finished", state.Kind)
	require.NotNil(t, state.MatchOver)
	assert.True(t, *state.MatchOver)

	output, err = cli.run("turn", "next", id)
	require.NoError(t, err, "output: %s", output)
	state = decode[stateResponse](t, output)
	assert.Equal(t, "match_finished", state.Kind)
	assert.Equal(t, map[string]int{"Red": 1, "Blue": 0}, state.Scores)

	output, err = cli.run("match", "history", id)
	require.NoError(t, err, "output: %s", output)
	history := decode[historyResponse](t, output)
	require.Len(t, history.Turns, 1)
	assert.Equal(t, "Red", history.Turns[0].Team)
	assert.Equal(t, 1, history.Turns[0].DeltaScore)
	assert.True(t, history.Turns[0].MatchOver)

	output, err = cli.run("match", "get", id)
	require.NoError(t, err, "output: %s", output)
	got := decode[matchResponse](t, output)
	assert.True(t, got.Match.Finished)
	require.NotNil(t, got.State)
	assert.Equal(t, "match_finished", got.State.Kind)
}

func TestCLI_OverrideAndDelete(t *testing.T) {
	cli := newCLIRunner(t, startTestServer(t))

	output, err := cli.run("match", "create", "--teams", "Red,Blue", "--goal", "target_words", "--target", "1")
	require.NoError(t, err, "output: %s", output)
	created := decode[createResponse](t, output)
	id := created.Match.ID

	_, err = cli.run("turn", "start", id)
	require.NoError(t, err)
	_, err = cli.run("turn", "correct", id)
	require.NoError(t, err)

	// Flipping the only outcome takes the goal away again
	output, err = cli.run("turn", "override", id, "0", "skip")
	require.NoError(t, err, "output: %s", output)
	state := decode[stateResponse](t, output)
	assert.Equal(t, "turn_finished", state.Kind)
	require.NotNil(t, state.MatchOver)
	assert.False(t, *state.MatchOver)

	output, err = cli.run("turn", "next", id)
	require.NoError(t, err, "output: %s", output)
	state = decode[stateResponse](t, output)
	assert.Equal(t, "turn_pending", state.Kind)
	assert.Equal(t, "Blue", state.Team)

	output, err = cli.run("match", "delete", id)
	require.NoError(t, err, "output: %s", output)
	assert.Contains(t, output, "Match closed")

	// Closed matches stay readable but refuse commands
	output, err = cli.run("match", "get", id)
	require.NoError(t, err, "output: %s", output)
	assert.False(t, decode[matchResponse](t, output).Match.Live)

	// Deleting an already closed match is not an error
	output, err = cli.runWithKey(created.HostKey, "match", "delete", id)
	require.NoError(t, err, "output: %s", output)
	assert.Contains(t, output, "Match closed")
}

func TestCLI_ErrorHandling(t *testing.T) {
	cli := newCLIRunner(t, startTestServer(t))

	// No key saved for an unknown match
	output, err := cli.run("turn", "start", "NOSUCHMATCH")
	assert.Error(t, err)
	assert.Contains(t, strings.ToLower(output), "key")

	output, err = cli.run("match", "get", "NOSUCHMATCH")
	assert.Error(t, err)
	assert.Contains(t, strings.ToLower(output), "not found")

	output, err = cli.run("match", "create", "--teams", "Red,Blue")
	require.NoError(t, err, "output: %s", output)
	id := decode[createResponse](t, output).Match.ID

	// A wrong key is rejected by the server
	output, err = cli.runWithKey("not-the-key", "turn", "start", id)
	assert.Error(t, err)
	assert.Contains(t, strings.ToLower(output), "invalid host key")

	// Commands out of order are conflicts
	output, err = cli.run("turn", "correct", id)
	assert.Error(t, err)
	assert.NotEmpty(t, output)
}
