package sessionrepo

import (
	"context"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/flowgraph/flowbuilder/internal/app/dto"
	"github.com/flowgraph/flowbuilder/internal/app/editor"
	"github.com/flowgraph/flowbuilder/internal/app/usecases"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newSession(id string, at time.Time) *usecases.Session {
	return &usecases.Session{ID: id, CreatedAt: at, Editor: editor.New()}
}

func TestInMemorySessionRepository_Get_NotFound(t *testing.T) {
	repo := NewInMemorySessionRepository()

	s, err := repo.Get(context.Background(), "does-not-exist")
	assert.Nil(t, s)
	assert.ErrorIs(t, err, dto.ErrSessionNotFound)
}

func TestInMemorySessionRepository_SaveAndGet(t *testing.T) {
	repo := NewInMemorySessionRepository()
	s := newSession("s1", time.Now())

	require.NoError(t, repo.Save(context.Background(), s))

	loaded, err := repo.Get(context.Background(), "s1")
	require.NoError(t, err)
	assert.Same(t, s, loaded)

	n, err := repo.Count(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 1, n)
}

func TestInMemorySessionRepository_SaveInvalid(t *testing.T) {
	repo := NewInMemorySessionRepository()

	assert.ErrorIs(t, repo.Save(context.Background(), nil), dto.ErrMissingFlowID)
	assert.ErrorIs(t, repo.Save(context.Background(), &usecases.Session{}), dto.ErrMissingFlowID)
	assert.Error(t, repo.Save(context.Background(), &usecases.Session{ID: "s1"}))
}

func TestInMemorySessionRepository_Delete(t *testing.T) {
	repo := NewInMemorySessionRepository()
	require.NoError(t, repo.Save(context.Background(), newSession("s1", time.Now())))

	require.NoError(t, repo.Delete(context.Background(), "s1"))
	assert.ErrorIs(t, repo.Delete(context.Background(), "s1"), dto.ErrSessionNotFound)

	_, err := repo.Get(context.Background(), "s1")
	assert.ErrorIs(t, err, dto.ErrSessionNotFound)
}

func TestInMemorySessionRepository_ListOrdered(t *testing.T) {
	repo := NewInMemorySessionRepository()
	base := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	require.NoError(t, repo.Save(context.Background(), newSession("c", base.Add(2*time.Minute))))
	require.NoError(t, repo.Save(context.Background(), newSession("a", base)))
	require.NoError(t, repo.Save(context.Background(), newSession("b", base.Add(time.Minute))))

	list, err := repo.List(context.Background())
	require.NoError(t, err)
	require.Len(t, list, 3)
	assert.Equal(t, "a", list[0].ID)
	assert.Equal(t, "b", list[1].ID)
	assert.Equal(t, "c", list[2].ID)
}

func TestInMemorySessionRepository_SaveWithin(t *testing.T) {
	repo := NewInMemorySessionRepository()
	ctx := context.Background()
	now := time.Now()

	require.NoError(t, repo.SaveWithin(ctx, newSession("s1", now), 2))
	require.NoError(t, repo.SaveWithin(ctx, newSession("s2", now), 2))
	assert.ErrorIs(t, repo.SaveWithin(ctx, newSession("s3", now), 2), dto.ErrSessionLimit)
	assert.NoError(t, repo.SaveWithin(ctx, newSession("s2", now), 2), "replacing a stored session is not an addition")
	assert.NoError(t, repo.SaveWithin(ctx, newSession("s3", now), 0), "zero means no limit")

	n, err := repo.Count(ctx)
	require.NoError(t, err)
	assert.Equal(t, 3, n)
}

func TestInMemorySessionRepository_SaveWithinConcurrent(t *testing.T) {
	repo := NewInMemorySessionRepository()
	ctx := context.Background()
	const limit = 5

	var (
		wg       sync.WaitGroup
		mu       sync.Mutex
		accepted int
	)
	start := make(chan struct{})
	for i := 0; i < 200; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			<-start
			if err := repo.SaveWithin(ctx, newSession(fmt.Sprintf("s%d", i), time.Now()), limit); err == nil {
				mu.Lock()
				accepted++
				mu.Unlock()
			}
		}(i)
	}
	close(start)
	wg.Wait()

	assert.Equal(t, limit, accepted)
	n, err := repo.Count(ctx)
	require.NoError(t, err)
	assert.Equal(t, limit, n)
}
