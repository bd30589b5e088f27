package crontab

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStoreError(t *testing.T) {
	cause := errors.New("permission denied")

	readErr := readError("crontab", cause)
	assert.ErrorIs(t, readErr, ErrStoreRead)
	assert.ErrorIs(t, readErr, cause)
	assert.NotErrorIs(t, readErr, ErrStoreWrite)
	assert.Equal(t, "crontab read: permission denied", readErr.Error())

	writeErr := writeError("file", cause)
	assert.ErrorIs(t, writeErr, ErrStoreWrite)
	assert.ErrorIs(t, writeErr, cause)

	var storeErr *StoreError
	require.ErrorAs(t, writeErr, &storeErr)
	assert.Equal(t, "write", storeErr.Op)
	assert.Equal(t, "file", storeErr.Backend)
}

func TestFileStore_LoadMissing(t *testing.T) {
	store := NewFileStore(filepath.Join(t.TempDir(), "cron.d", "ott"), nil)

	table, err := store.Load(context.Background())
	require.NoError(t, err)
	assert.NotNil(t, table)
	assert.Empty(t, table)
}

func TestFileStore_SaveAndLoad(t *testing.T) {
	path := filepath.Join(t.TempDir(), "cron.d", "ott")
	store := NewFileStore(path, nil)
	ctx := context.Background()

	table := Table{"SHELL=/bin/sh", "0 2 * * * /usr/bin/python3 /srv/ott/auto_update.py"}
	require.NoError(t, store.Save(ctx, table))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "SHELL=/bin/sh\n0 2 * * * /usr/bin/python3 /srv/ott/auto_update.py\n", string(data))

	_, err = os.Stat(path + ".tmp")
	assert.True(t, os.IsNotExist(err), "temporary file must be renamed away")

	loaded, err := store.Load(ctx)
	require.NoError(t, err)
	assert.Equal(t, table, loaded)
	assert.Equal(t, "file", store.Name())
}

func TestFileStore_SaveEmptyTable(t *testing.T) {
	path := filepath.Join(t.TempDir(), "crontab")
	store := NewFileStore(path, nil)

	require.NoError(t, store.Save(context.Background(), Table{}))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Empty(t, data)
}

func TestFileStore_LoadError(t *testing.T) {
	dir := t.TempDir()
	store := NewFileStore(dir, nil) // a directory cannot be read as a file

	_, err := store.Load(context.Background())
	assert.ErrorIs(t, err, ErrStoreRead)
}

func TestFileStore_SaveError(t *testing.T) {
	dir := t.TempDir()
	blocker := filepath.Join(dir, "not-a-dir")
	require.NoError(t, os.WriteFile(blocker, []byte("x"), 0644))

	store := NewFileStore(filepath.Join(blocker, "crontab"), nil)
	err := store.Save(context.Background(), Table{"a"})
	assert.ErrorIs(t, err, ErrStoreWrite)
}

func TestFileStore_CanceledContext(t *testing.T) {
	store := NewFileStore(filepath.Join(t.TempDir(), "crontab"), nil)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := store.Load(ctx)
	assert.ErrorIs(t, err, context.Canceled)
	assert.ErrorIs(t, store.Save(ctx, Table{}), ErrStoreWrite)
}

func TestMemoryStore(t *testing.T) {
	ctx := context.Background()
	initial := Table{"a"}
	store := NewMemoryStore(initial)
	initial[0] = "changed"

	table, err := store.Load(ctx)
	require.NoError(t, err)
	assert.Equal(t, Table{"a"}, table)

	table[0] = "mutated copy"
	assert.Equal(t, Table{"a"}, store.Table())

	require.NoError(t, store.Save(ctx, Table{"b"}))
	assert.Equal(t, Table{"b"}, store.Table())
	assert.Equal(t, 1, store.Saves())

	store.LoadErr = errors.New("unavailable")
	_, err = store.Load(ctx)
	assert.ErrorIs(t, err, ErrStoreRead)

	store.SaveErr = errors.New("rejected")
	assert.ErrorIs(t, store.Save(ctx, Table{"c"}), ErrStoreWrite)
	assert.Equal(t, Table{"b"}, store.Table())
	assert.Equal(t, 1, store.Saves())
}

// fakeCrontab writes a crontab(1) stand-in keeping its table in state.
func fakeCrontab(t *testing.T, state string) string {
	t.Helper()
	if runtime.GOOS == "windows" {
		t.Skip("shell script stand-in requires a POSIX shell")
	}

	script := fmt.Sprintf(`#!/bin/sh
if [ "$1" = "-u" ]; then
	echo "$2" > %[1]q.user
	shift 2
fi
case "$1" in
-l)
	if [ ! -f %[1]q ]; then
		echo "no crontab for tester" >&2
		exit 1
	fi
	cat %[1]q
	;;
-)
	if [ -f %[1]q.readonly ]; then
		echo "crontab: permission denied" >&2
		exit 1
	fi
	cat > %[1]q
	;;
*)
	exit 2
	;;
esac
`, state)

	path := filepath.Join(t.TempDir(), "crontab")
	require.NoError(t, os.WriteFile(path, []byte(script), 0755))
	return path
}

func TestCommandStore_NoCrontab(t *testing.T) {
	state := filepath.Join(t.TempDir(), "state")
	store := NewCommandStore(fakeCrontab(t, state), "", nil)

	table, err := store.Load(context.Background())
	require.NoError(t, err)
	assert.Empty(t, table)
}

func TestCommandStore_SaveAndLoad(t *testing.T) {
	state := filepath.Join(t.TempDir(), "state")
	store := NewCommandStore(fakeCrontab(t, state), "", nil)
	ctx := context.Background()

	table := Table{"# managed", "0 2 * * * /usr/bin/python3 /srv/ott/auto_update.py >> /srv/ott/logs/cron.log 2>&1"}
	require.NoError(t, store.Save(ctx, table))

	data, err := os.ReadFile(state)
	require.NoError(t, err)
	assert.Equal(t, string(table.Bytes()), string(data))

	loaded, err := store.Load(ctx)
	require.NoError(t, err)
	assert.Equal(t, table, loaded)
}

func TestCommandStore_User(t *testing.T) {
	state := filepath.Join(t.TempDir(), "state")
	store := NewCommandStore(fakeCrontab(t, state), "ott", nil)

	require.NoError(t, store.Save(context.Background(), Table{"a"}))

	user, err := os.ReadFile(state + ".user")
	require.NoError(t, err)
	assert.Equal(t, "ott\n", string(user))
}

func TestCommandStore_WriteRejected(t *testing.T) {
	state := filepath.Join(t.TempDir(), "state")
	require.NoError(t, os.WriteFile(state+".readonly", nil, 0644))
	store := NewCommandStore(fakeCrontab(t, state), "", nil)

	err := store.Save(context.Background(), Table{"a"})
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrStoreWrite)
	assert.Contains(t, err.Error(), "permission denied")
}

func TestCommandStore_MissingBinary(t *testing.T) {
	store := NewCommandStore(filepath.Join(t.TempDir(), "no-such-crontab"), "", nil)

	_, err := store.Load(context.Background())
	assert.ErrorIs(t, err, ErrStoreRead)

	err = store.Save(context.Background(), Table{"a"})
	assert.ErrorIs(t, err, ErrStoreWrite)
}

func TestNewCommandStore_DefaultBinary(t *testing.T) {
	store := NewCommandStore("", "", nil)
	assert.Equal(t, DefaultCrontabBinary, store.binary)
	assert.Equal(t, "crontab", store.Name())
}
