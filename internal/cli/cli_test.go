package cli

import (
	"bytes"
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mesh-intelligence/taskboard/pkg/types"
)

type testDirs struct {
	config string
	data   string
}

func newDirs(t *testing.T) testDirs {
	t.Helper()
	t.Setenv("TASKBOARD_AUTH_DELAY", "0")
	t.Setenv("TASKBOARD_AUTH_BCRYPT_COST", "4")
	t.Setenv("TASKBOARD_LOG_LEVEL", "error")
	return testDirs{config: t.TempDir(), data: t.TempDir()}
}

func run(t *testing.T, d testDirs, stdin string, args ...string) (string, string, error) {
	t.Helper()
	var stdout, stderr bytes.Buffer
	root := NewRootCmd()
	root.SetArgs(append([]string{"--config-dir", d.config, "--data-dir", d.data}, args...))
	root.SetOut(&stdout)
	root.SetErr(&stderr)
	root.SetIn(strings.NewReader(stdin))
	err := root.ExecuteContext(context.Background())
	return stdout.String(), stderr.String(), err
}

func mustRun(t *testing.T, d testDirs, args ...string) string {
	t.Helper()
	stdout, stderr, err := run(t, d, "", args...)
	require.NoError(t, err, "stderr: %s", stderr)
	return stdout
}

func login(t *testing.T, d testDirs) {
	t.Helper()
	mustRun(t, d, "login", "demo@example.com", "--password", "password123")
}

func TestVersion(t *testing.T) {
	stdout := mustRun(t, newDirs(t), "version")
	assert.Contains(t, stdout, "taskboard v")
	assert.Contains(t, stdout, modulePath)
}

func TestFirstRunWritesConfig(t *testing.T) {
	d := newDirs(t)
	mustRun(t, d, "whoami")

	data, err := os.ReadFile(filepath.Join(d.config, configFileExt))
	require.NoError(t, err)
	assert.Contains(t, string(data), "backend: sqlite")
}

func TestInitRecordsDataDir(t *testing.T) {
	d := newDirs(t)
	stdout := mustRun(t, d, "init")
	assert.Contains(t, stdout, "Taskboard initialized")

	data, err := os.ReadFile(filepath.Join(d.config, configFileExt))
	require.NoError(t, err)
	assert.Contains(t, string(data), "data_dir: "+d.data)

	_, err = os.Stat(filepath.Join(d.data, "entries.jsonl"))
	assert.NoError(t, err)
}

func TestLoginFlow(t *testing.T) {
	d := newDirs(t)

	stdout := mustRun(t, d, "whoami")
	assert.Contains(t, stdout, "Not signed in.")

	_, stderr, err := run(t, d, "", "login", "demo@example.com", "--password", "wrong")
	require.Error(t, err)
	assert.ErrorIs(t, err, types.ErrInvalidCredentials)
	assert.Equal(t, exitUserError, exitCode(err))
	assert.Contains(t, stderr, "Login failed: Invalid email or password")

	stdout, stderr, err = run(t, d, "password123\n", "login", "demo@example.com")
	require.NoError(t, err)
	assert.Contains(t, stdout, "Signed in as Demo User")
	assert.Contains(t, stderr, "Welcome back, Demo User!")

	stdout = mustRun(t, d, "--json", "whoami")
	var snap map[string]any
	require.NoError(t, json.Unmarshal([]byte(stdout), &snap))
	assert.Equal(t, "authenticated", snap["state"])

	mustRun(t, d, "logout")
	assert.Contains(t, mustRun(t, d, "whoami"), "Not signed in.")
}

func TestTaskCommands(t *testing.T) {
	d := newDirs(t)
	login(t, d)

	var seeded []types.Task
	require.NoError(t, json.Unmarshal([]byte(mustRun(t, d, "--json", "list")), &seeded))
	require.Len(t, seeded, 4)

	var added types.Task
	out := mustRun(t, d, "--json", "add", "Plan offsite", "--due", "2030-01-15", "--priority", "high", "-d", "Book venue")
	require.NoError(t, json.Unmarshal([]byte(out), &added))
	assert.Equal(t, types.PriorityHigh, added.Priority)
	assert.Equal(t, "1", added.UserID)

	var found []types.Task
	require.NoError(t, json.Unmarshal([]byte(mustRun(t, d, "--json", "list", "--search", "VENUE")), &found))
	require.Len(t, found, 1)
	assert.Equal(t, added.ID, found[0].ID)

	var updated types.Task
	out = mustRun(t, d, "--json", "update", added.ID, "--title", "Plan team offsite")
	require.NoError(t, json.Unmarshal([]byte(out), &updated))
	assert.Equal(t, "Plan team offsite", updated.Title)
	assert.Equal(t, added.CreatedAt.Unix(), updated.CreatedAt.Unix())

	var toggled types.Task
	require.NoError(t, json.Unmarshal([]byte(mustRun(t, d, "--json", "toggle", added.ID)), &toggled))
	assert.Equal(t, types.StatusCompleted, toggled.Status)

	mustRun(t, d, "delete", added.ID)
	_, _, err := run(t, d, "", "delete", added.ID)
	assert.ErrorIs(t, err, types.ErrNotFound)
	assert.Equal(t, exitUserError, exitCode(err))
}

func TestStatsAndUpcoming(t *testing.T) {
	d := newDirs(t)
	login(t, d)

	var stats statsOutput
	require.NoError(t, json.Unmarshal([]byte(mustRun(t, d, "--json", "stats")), &stats))
	assert.Equal(t, 4, stats.Stats.TotalTasks)
	assert.Equal(t, 1, stats.Stats.CompletedTasks)
	assert.Equal(t, 25, stats.Breakdown.CompletionPercent)

	var upcoming []types.UpcomingTask
	require.NoError(t, json.Unmarshal([]byte(mustRun(t, d, "--json", "upcoming", "-n", "2")), &upcoming))
	assert.Len(t, upcoming, 2)

	assert.Contains(t, mustRun(t, d, "stats"), "Due soon")
}

func TestCommandsRequireLogin(t *testing.T) {
	d := newDirs(t)
	for _, args := range [][]string{
		{"list"},
		{"stats"},
		{"upcoming"},
		{"add", "x"},
		{"toggle", "x"},
	} {
		_, _, err := run(t, d, "", args...)
		assert.ErrorIs(t, err, types.ErrNotAuthenticated, "%v", args)
		assert.Equal(t, exitUserError, exitCode(err))
	}
}

func TestInvalidInput(t *testing.T) {
	d := newDirs(t)
	login(t, d)

	_, _, err := run(t, d, "", "add", "x", "--priority", "urgent")
	assert.ErrorIs(t, err, types.ErrInvalidPriority)

	_, _, err = run(t, d, "", "add", "x", "--due", "next tuesday")
	assert.ErrorIs(t, err, errUsage)

	_, _, err = run(t, d, "", "list", "--status", "archived")
	assert.ErrorIs(t, err, types.ErrInvalidStatus)

	_, _, err = run(t, d, "", "update", "some-id")
	assert.ErrorIs(t, err, errUsage)
}

func TestRegister(t *testing.T) {
	d := newDirs(t)

	_, _, err := run(t, d, "", "register", "Someone", "admin@example.com", "-p", "x")
	assert.ErrorIs(t, err, types.ErrEmailAlreadyExists)

	stdout := mustRun(t, d, "register", "Jane Doe", "jane@example.com", "-p", "secret")
	assert.Contains(t, stdout, "Registered Jane Doe <jane@example.com>")

	mustRun(t, d, "logout")
	mustRun(t, d, "login", "jane@example.com", "-p", "secret")
}

func TestTheme(t *testing.T) {
	d := newDirs(t)
	assert.Equal(t, "light\n", mustRun(t, d, "theme"))
	mustRun(t, d, "theme", "toggle")
	assert.Equal(t, "dark\n", mustRun(t, d, "theme"))

	_, _, err := run(t, d, "", "theme", "sepia")
	assert.ErrorIs(t, err, types.ErrInvalidTheme)
}

func TestUnknownBackend(t *testing.T) {
	d := newDirs(t)
	_, _, err := run(t, d, "", "--backend", "cassandra", "whoami")
	assert.ErrorIs(t, err, types.ErrBackendUnknown)
	assert.Equal(t, exitUserError, exitCode(err))
}

func TestMemoryBackendForgetsBetweenRuns(t *testing.T) {
	d := newDirs(t)
	mustRun(t, d, "--backend", "memory", "login", "demo@example.com", "-p", "password123")
	assert.Contains(t, mustRun(t, d, "--backend", "memory", "whoami"), "Not signed in.")
}

func TestExitCode(t *testing.T) {
	assert.Equal(t, exitSysError, exitCode(classify(os.ErrPermission)))
	assert.Equal(t, exitUserError, exitCode(classify(types.ErrInvalidTitle)))
	assert.Equal(t, exitUserError, exitCode(assert.AnError))
	assert.Nil(t, classify(nil))
}

func TestParseDate(t *testing.T) {
	start, err := parseDate("2026-03-10", false)
	require.NoError(t, err)
	assert.Equal(t, 0, start.Hour())

	end, err := parseDate("2026-03-10", true)
	require.NoError(t, err)
	assert.Equal(t, 10, end.Day())
	assert.Equal(t, 23, end.Hour())

	ts, err := parseDate("2026-03-10T15:04:05Z", false)
	require.NoError(t, err)
	assert.Equal(t, 15, ts.Hour())

	_, err = parseDate("10/03/2026", false)
	assert.ErrorIs(t, err, errUsage)
}

func TestResolveSettings(t *testing.T) {
	t.Setenv("TASKBOARD_AUTH_DELAY", "0")
	t.Setenv("TASKBOARD_REDIS_PREFIX", "tb:")
	dir := t.TempDir()

	v, err := loadConfig(dir)
	require.NoError(t, err)
	s := resolveSettings(v, rootFlags{backend: "memory"}, "/data")

	assert.Equal(t, "memory", s.Store.Backend)
	assert.Equal(t, "/data", s.Store.DataDir)
	assert.Equal(t, "tb:", s.Store.RedisPrefix)
	assert.Negative(t, int64(s.AuthDelay))
	assert.Equal(t, 10, s.BcryptCost)
	assert.Equal(t, defaultHTTPAddr, s.HTTPAddr)
}

func TestRecordDataDirKeepsExisting(t *testing.T) {
	path := filepath.Join(t.TempDir(), configFileExt)
	require.NoError(t, writeConfigIfMissing(path, defaultFileConfig("/first")))
	require.NoError(t, recordDataDir(path, "/second"))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), "/first")
	assert.NotContains(t, string(data), "/second")
}
