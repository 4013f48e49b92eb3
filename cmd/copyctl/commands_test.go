package main

import (
	"bytes"
	"encoding/json"
	"net"
	"os"
	"sync"
	"testing"
	"time"

	"copyd/internal/client"
	"copyd/internal/config"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeDaemon answers each request with the next canned reply queued for its
// request_type. The last reply for a type is repeated.
type fakeDaemon struct {
	listener net.Listener

	mu       sync.Mutex
	replies  map[string][]string
	requests []map[string]string
}

func startFakeDaemon(t *testing.T, replies map[string][]string) *fakeDaemon {
	listener, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)

	d := &fakeDaemon{listener: listener, replies: replies}
	go d.serve()
	t.Cleanup(func() { listener.Close() })
	return d
}

func (d *fakeDaemon) serve() {
	for {
		conn, err := d.listener.Accept()
		if err != nil {
			return
		}
		go d.handle(conn)
	}
}

func (d *fakeDaemon) handle(conn net.Conn) {
	defer conn.Close()

	var req map[string]string
	if err := json.NewDecoder(conn).Decode(&req); err != nil {
		return
	}

	d.mu.Lock()
	d.requests = append(d.requests, req)
	queue := d.replies[req["request_type"]]
	reply := `{"message":"Error: unexpected request"}`
	if len(queue) > 0 {
		reply = queue[0]
		if len(queue) > 1 {
			d.replies[req["request_type"]] = queue[1:]
		}
	}
	d.mu.Unlock()

	conn.Write([]byte(reply))
}

func (d *fakeDaemon) received() []map[string]string {
	d.mu.Lock()
	defer d.mu.Unlock()
	return append([]map[string]string(nil), d.requests...)
}

func TestMain(m *testing.M) {
	os.Unsetenv(config.EnvConfigPath)
	os.Exit(m.Run())
}

func runCtl(t *testing.T, d *fakeDaemon, args ...string) (string, error) {
	var out bytes.Buffer
	cmd := newRootCmd(&out)
	cmd.SetArgs(append([]string{"--address", d.listener.Addr().String(), "--timeout", "5s"}, args...))
	err := cmd.Execute()
	return out.String(), err
}

func TestCreate_Pairs(t *testing.T) {
	d := startFakeDaemon(t, map[string][]string{
		"copy": {
			`{"job_id":"job-1"}`,
			`{"message":"Source path does not exist"}`,
		},
	})

	out, err := runCtl(t, d, "create", "/a", "/b", "/missing", "/c")

	require.ErrorIs(t, err, errOperationFailed)
	assert.Contains(t, err.Error(), "1 of 2 copies not started")
	assert.Contains(t, out, "job-1\t/a -> /b")
	assert.Contains(t, out, "failed\t/missing -> /c: Source path does not exist")

	reqs := d.received()
	require.Len(t, reqs, 2)
	assert.Equal(t, "/a", reqs[0]["source_path"])
	assert.Equal(t, "/c", reqs[1]["destination_path"])
}

func TestCreate_OddArguments(t *testing.T) {
	d := startFakeDaemon(t, nil)

	_, err := runCtl(t, d, "create", "/a", "/b", "/c")

	require.Error(t, err)
	assert.Contains(t, err.Error(), "expected SRC DST pairs")
	assert.Empty(t, d.received())
}

func TestJobCommands(t *testing.T) {
	tests := []struct {
		name    string
		kind    string
		reply   string
		args    []string
		wantOut string
		wantErr bool
	}{
		{
			name:    "suspend",
			kind:    "suspend",
			reply:   `{"message":"Job job-1 suspended"}`,
			args:    []string{"suspend", "job-1"},
			wantOut: "Job job-1 suspended\n",
		},
		{
			name:    "resume rejected",
			kind:    "resume",
			reply:   `{"message":"Error: cannot resume job job-1 while it is running"}`,
			args:    []string{"resume", "job-1"},
			wantOut: "Error: cannot resume job job-1 while it is running\n",
			wantErr: true,
		},
		{
			name:    "cancel",
			kind:    "cancel",
			reply:   `{"message":"Job job-1 cancelled"}`,
			args:    []string{"cancel", "job-1"},
			wantOut: "Job job-1 cancelled\n",
		},
		{
			name:    "progress",
			kind:    "progress",
			reply:   `{"id":"job-1","source":"/a","destination":"/b","status":"running","writes":"12","percentage":0.25}`,
			args:    []string{"progress", "job-1"},
			wantOut: "25.0%",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			d := startFakeDaemon(t, map[string][]string{tt.kind: {tt.reply}})

			out, err := runCtl(t, d, tt.args...)

			if tt.wantErr {
				assert.ErrorIs(t, err, errOperationFailed)
			} else {
				assert.NoError(t, err)
			}
			assert.Contains(t, out, tt.wantOut)

			reqs := d.received()
			require.Len(t, reqs, 1)
			assert.Equal(t, "job-1", reqs[0]["job_id"])
		})
	}
}

func TestList(t *testing.T) {
	d := startFakeDaemon(t, map[string][]string{
		"list": {`[{"id":"job-1","source":"/a","destination":"/b","status":"completed","writes":4,"percentage":1}]`},
	})

	out, err := runCtl(t, d, "list")

	require.NoError(t, err)
	assert.Contains(t, out, "ID")
	assert.Contains(t, out, "job-1")
	assert.Contains(t, out, "completed")
	assert.Contains(t, out, "100.0%")
}

func TestList_Empty(t *testing.T) {
	d := startFakeDaemon(t, map[string][]string{"list": {`[]`}})

	out, err := runCtl(t, d, "list")

	require.NoError(t, err)
	assert.Equal(t, "No jobs\n", out)
}

func TestWatch_StopsWhenIdle(t *testing.T) {
	d := startFakeDaemon(t, map[string][]string{
		"list": {
			`[{"id":"job-1","status":"running","writes":1}]`,
			`[{"id":"job-1","status":"running","writes":2}]`,
			`[{"id":"job-1","status":"completed","writes":3,"percentage":1}]`,
		},
	})

	done := make(chan struct{})
	var out string
	var err error
	go func() {
		defer close(done)
		out, err = runCtl(t, d, "watch", "--interval", "10ms")
	}()

	select {
	case <-done:
	case <-time.After(5 * time.Second):
		t.Fatal("watch did not stop once no job was running")
	}

	require.NoError(t, err)
	assert.Len(t, d.received(), 3)
	assert.Contains(t, out, "1 job(s), 0 running")
	assert.NotContains(t, out, "\033[2J")
}

func TestTransportError(t *testing.T) {
	listener, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	addr := listener.Addr().String()
	listener.Close()

	var out bytes.Buffer
	cmd := newRootCmd(&out)
	cmd.SetArgs([]string{"--address", addr, "list"})

	err = cmd.Execute()
	assert.ErrorIs(t, err, client.ErrTransport)
}
