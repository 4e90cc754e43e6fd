package maintenance

import (
	"context"
	"testing"
	"time"

	"github.com/cobalt-cloud/mavengraph/internal/depgraph"
	"github.com/cobalt-cloud/mavengraph/internal/models"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

func testStore(t *testing.T) depgraph.Store {
	t.Helper()
	gdb, err := gorm.Open(sqlite.Open("file:maintenance?mode=memory&cache=shared"), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, models.Migrate(gdb))
	return depgraph.New(context.Background(), gdb)
}

func TestNewRunner(t *testing.T) {
	store := testStore(t)

	runner, err := NewRunner(store, "0 3 * * *")
	require.NoError(t, err)
	require.True(t, runner.nextTick().After(time.Now()))

	_, err = NewRunner(store, "not a schedule")
	require.Error(t, err)
}

func TestListenStopsOnCancel(t *testing.T) {
	runner, err := NewRunner(testStore(t), "0 3 * * *")
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		runner.Listen(ctx)
		close(done)
	}()

	cancel()
	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("runner did not stop on context cancellation")
	}
}
