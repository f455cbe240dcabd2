package duck_test

import (
	"context"
	"errors"
	"io"
	"sync"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kajiwara22/sf6chapter/internal/duck"
)

func testLogger() *logrus.Logger {
	log := logrus.New()
	log.SetOutput(io.Discard)
	return log
}

func newReadySession(t *testing.T) *duck.Session {
	t.Helper()
	s := duck.NewSession(testLogger())
	require.NoError(t, s.Initialize(context.Background()))
	t.Cleanup(func() { s.Teardown() })
	return s
}

func TestInitializeIsIdempotent(t *testing.T) {
	s := newReadySession(t)
	assert.Equal(t, duck.StateReady, s.State())

	// A second initialize on a ready session is a no-op.
	require.NoError(t, s.Initialize(context.Background()))
	assert.Equal(t, duck.StateReady, s.State())
}

func TestConcurrentInitialize(t *testing.T) {
	s := duck.NewSession(testLogger())
	t.Cleanup(func() { s.Teardown() })

	var wg sync.WaitGroup
	errs := make([]error, 8)
	for i := range errs {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			errs[i] = s.Initialize(context.Background())
		}(i)
	}
	wg.Wait()

	// First caller wins; everyone observes the ready instance.
	for i, err := range errs {
		assert.NoError(t, err, "initializer %d", i)
	}
	assert.Equal(t, duck.StateReady, s.State())
}

func TestQueryRequiresReady(t *testing.T) {
	s := duck.NewSession(testLogger())

	_, err := s.QueryContext(context.Background(), "SELECT 1")
	require.Error(t, err)
	assert.True(t, errors.Is(err, duck.ErrNotReady))

	var queryErr *duck.QueryError
	assert.True(t, errors.As(err, &queryErr))
}

func TestQueryOnReadySession(t *testing.T) {
	s := newReadySession(t)

	rows, err := s.QueryContext(context.Background(), "SELECT 40 + ?", 2)
	require.NoError(t, err)
	defer rows.Close()

	require.True(t, rows.Next())
	var got int
	require.NoError(t, rows.Scan(&got))
	assert.Equal(t, 42, got)
}

func TestLoadDatasetRequiresReady(t *testing.T) {
	s := duck.NewSession(testLogger())
	err := s.LoadDataset(context.Background(), []byte{1, 2, 3})
	require.Error(t, err)

	var loadErr *duck.LoadError
	assert.True(t, errors.As(err, &loadErr))
}

func TestLoadDatasetRejectsEmptyBuffer(t *testing.T) {
	s := newReadySession(t)
	err := s.LoadDataset(context.Background(), nil)

	var loadErr *duck.LoadError
	require.True(t, errors.As(err, &loadErr))
	assert.False(t, s.Loaded())
}

func TestLoadDatasetRejectsGarbageBytes(t *testing.T) {
	s := newReadySession(t)
	err := s.LoadDataset(context.Background(), []byte("definitely not parquet"))

	var loadErr *duck.LoadError
	require.True(t, errors.As(err, &loadErr))
	assert.False(t, s.Loaded())
}

func TestTeardownAllowsReinitialize(t *testing.T) {
	s := duck.NewSession(testLogger())
	require.NoError(t, s.Initialize(context.Background()))
	require.NoError(t, s.Teardown())
	assert.Equal(t, duck.StateUninitialized, s.State())

	// Teardown on an already-torn-down session is a no-op.
	require.NoError(t, s.Teardown())

	require.NoError(t, s.Initialize(context.Background()))
	assert.Equal(t, duck.StateReady, s.State())
	require.NoError(t, s.Teardown())
}
