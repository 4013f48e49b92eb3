package server

import (
	"context"
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"copyd/internal/client"
	"copyd/internal/config"
	"copyd/internal/executor"
	"copyd/internal/gatekeeper"
	"copyd/internal/protocol"
	"copyd/internal/queue"
	"copyd/internal/repository"
	"copyd/internal/testutil"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// TestDaemon_EndToEnd drives a real queue, copy executor and admission check
// through the socket with the client.
func TestDaemon_EndToEnd(t *testing.T) {
	dir := t.TempDir()
	src := testutil.WriteTestTree(t, dir, "tree")
	dst := filepath.Join(dir, "copy")

	cfg := testConfig()
	cfg.Copy.BufferSize = "1KiB"
	cfg.Jobs.MinFreeSpace = "0"

	repo := testutil.SetupTestDB(t)
	pm := executor.NewProgressMonitor(repo, func() time.Duration { return cfg.GetJobs().PersistInterval })
	q := queue.New(repo, cfg, gatekeeper.New(cfg), pm)
	q.SetJobExecutor(executor.NewCopyExecutor(cfg))
	require.NoError(t, q.Start(context.Background()))
	defer q.Stop()

	srv := New(cfg, q)
	require.NoError(t, srv.Listen())
	go srv.Serve()
	defer srv.Shutdown(context.Background())

	exec := client.NewExecutor("tcp", srv.Addr().String(), client.WithTimeout(2*time.Second))
	ctx := context.Background()

	results := exec.ExecuteBulk(ctx, []protocol.Operation{
		protocol.Create{Source: src, Destination: dst},
		protocol.Create{Source: filepath.Join(dir, "missing"), Destination: filepath.Join(dir, "x")},
		protocol.Progress{JobID: "unknown"},
	})
	require.Len(t, results, 3)

	require.NoError(t, results[0].Failure())
	jobID := results[0].Response.(protocol.CreateResponse).JobID
	assert.NotEmpty(t, jobID)

	var opErr *protocol.OperationError
	require.ErrorAs(t, results[1].Failure(), &opErr)
	assert.Equal(t, "Source path does not exist", opErr.Message)
	assert.Error(t, results[2].Failure())

	require.Eventually(t, func() bool {
		resp, err := exec.Progress(ctx, jobID)
		return err == nil && resp.Err() == nil && resp.Job.Status == "completed"
	}, 5*time.Second, 10*time.Millisecond)

	for _, rel := range []string{"a.txt", "nested/b.txt", "nested/deeper/c.txt"} {
		want, err := os.ReadFile(filepath.Join(src, rel))
		require.NoError(t, err)
		got, err := os.ReadFile(filepath.Join(dst, rel))
		require.NoError(t, err)
		assert.Equal(t, want, got, rel)
	}

	list, err := exec.List(ctx)
	require.NoError(t, err)
	require.Len(t, list.Jobs, 1)
	assert.Equal(t, jobID, list.Jobs[0].ID)
	assert.Equal(t, uint64(8), list.Jobs[0].Writes)
	require.NotNil(t, list.Jobs[0].Percentage)
	assert.Equal(t, 1.0, *list.Jobs[0].Percentage)

	cancelled, err := exec.Cancel(ctx, jobID)
	require.NoError(t, err)
	require.Error(t, cancelled.Err())
	assert.Contains(t, cancelled.Err().Error(), "cannot cancel")

	require.Eventually(t, func() bool {
		stored, err := repo.GetJob(jobID)
		return err == nil && stored.Status == "completed" && stored.Bytes == 6600
	}, 2*time.Second, 10*time.Millisecond)
}

// startDaemon runs a queue and protocol server over repo until the test ends
// or the returned stop func is called.
func startDaemon(t *testing.T, cfg *config.Config, repo *repository.Repository) (*client.Executor, func()) {
	t.Helper()

	pm := executor.NewProgressMonitor(repo, func() time.Duration { return cfg.GetJobs().PersistInterval })
	pm.Start(context.Background())
	q := queue.New(repo, cfg, gatekeeper.New(cfg), pm)
	q.SetJobExecutor(executor.NewCopyExecutor(cfg))
	require.NoError(t, q.Start(context.Background()))

	srv := New(cfg, q)
	require.NoError(t, srv.Listen())
	go srv.Serve()

	var once sync.Once
	stop := func() {
		once.Do(func() {
			srv.Shutdown(context.Background())
			q.Stop()
			pm.Stop()
		})
	}
	t.Cleanup(stop)

	return client.NewExecutor("tcp", srv.Addr().String(), client.WithTimeout(2*time.Second)), stop
}

func TestDaemon_RestartKeepsSuspendedJob(t *testing.T) {
	dir := t.TempDir()
	src := testutil.WriteTestTree(t, dir, "tree")
	dst := filepath.Join(dir, "copy")
	ctx := context.Background()

	repo, dbPath := testutil.SetupTestDBWithFile(t)

	slow := testConfig()
	slow.Copy.BufferSize = "1KiB"
	slow.Copy.BandwidthLimit = "1KiB"
	slow.Jobs.MinFreeSpace = "0"

	exec, stop := startDaemon(t, slow, repo)

	created, err := exec.Create(ctx, src, dst)
	require.NoError(t, err)
	require.NoError(t, created.Err())

	suspended, err := exec.Suspend(ctx, created.JobID)
	require.NoError(t, err)
	require.NoError(t, suspended.Err())
	stop()

	stored, err := repo.GetJob(created.JobID)
	require.NoError(t, err)
	assert.Equal(t, "suspended", string(stored.Status))

	// Second daemon over the same database file.
	reopened, err := repository.New(dbPath)
	require.NoError(t, err)
	t.Cleanup(func() { reopened.Close() })

	fast := testConfig()
	fast.Copy.BufferSize = "1KiB"
	fast.Jobs.MinFreeSpace = "0"
	exec, _ = startDaemon(t, fast, reopened)

	progress, err := exec.Progress(ctx, created.JobID)
	require.NoError(t, err)
	require.NoError(t, progress.Err())
	assert.Equal(t, "suspended", progress.Job.Status)

	resumed, err := exec.Resume(ctx, created.JobID)
	require.NoError(t, err)
	require.NoError(t, resumed.Err())
	assert.Equal(t, "Job "+created.JobID+" resumed", resumed.Message)

	require.Eventually(t, func() bool {
		resp, err := exec.Progress(ctx, created.JobID)
		return err == nil && resp.Err() == nil && resp.Job.Status == "completed"
	}, 5*time.Second, 10*time.Millisecond)

	for _, rel := range []string{"a.txt", "nested/b.txt", "nested/deeper/c.txt"} {
		want, err := os.ReadFile(filepath.Join(src, rel))
		require.NoError(t, err)
		got, err := os.ReadFile(filepath.Join(dst, rel))
		require.NoError(t, err)
		assert.Equal(t, want, got, rel)
	}
}
