package handlers_test

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/MihaiIliescu/egeria/internal/assetmanager/properties"
	"github.com/MihaiIliescu/egeria/internal/repository"
	"github.com/MihaiIliescu/egeria/pkg/errors"
)

// hookedStore runs afterFind once, after the first entity search returns.
type hookedStore struct {
	repository.Store
	once      sync.Once
	afterFind func()
}

func (s *hookedStore) FindEntities(ctx context.Context, q repository.EntityQuery) ([]*repository.EntityDetail, error) {
	found, err := s.Store.FindEntities(ctx, q)
	if s.afterFind != nil {
		s.once.Do(s.afterFind)
	}
	return found, err
}

func countNamed(t *testing.T, store repository.Store, qualifiedName string) int {
	t.Helper()
	found, err := store.FindEntities(context.Background(), repository.EntityQuery{
		TypeName: repository.ProcessType,
		Match: func(e *repository.EntityDetail) bool {
			return e.Properties.GetString(repository.QualifiedNameProperty) == qualifiedName
		},
	})
	require.NoError(t, err)
	return len(found)
}

func processNamed(qualifiedName string) *properties.ProcessProperties {
	return &properties.ProcessProperties{
		ReferenceableProperties: properties.ReferenceableProperties{QualifiedName: qualifiedName},
	}
}

func TestCreateProcessDuringUniquenessCheck(t *testing.T) {
	ctx := context.Background()
	store := &hookedStore{Store: repository.NewMemoryStore()}
	h, _ := newHandler(t, store)

	var second error
	var wg sync.WaitGroup
	store.afterFind = func() {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, second = h.CreateProcess(ctx, user, nil, false, processNamed("Process:dup"), "", "createProcess")
		}()
		time.Sleep(50 * time.Millisecond)
	}

	_, first := h.CreateProcess(ctx, user, nil, false, processNamed("Process:dup"), "", "createProcess")
	wg.Wait()

	require.NoError(t, first)
	requireOMAGError(t, second, errors.KindInvalidParameter, errors.DuplicateQualifiedName.ID)
	assert.Equal(t, 1, countNamed(t, store, "Process:dup"))
}

func TestConcurrentCreatesAcrossServersKeepNamesUnique(t *testing.T) {
	ctx := context.Background()
	store := repository.NewMemoryStore()
	h1, _ := newHandler(t, store)
	h2, _ := newHandler(t, store)

	var (
		wg        sync.WaitGroup
		mu        sync.Mutex
		successes int
	)
	for i := 0; i < 16; i++ {
		h := h1
		if i%2 == 1 {
			h = h2
		}
		wg.Add(1)
		go func() {
			defer wg.Done()
			if _, err := h.CreateProcess(ctx, user, nil, false, processNamed("Process:shared"), "", "createProcess"); err == nil {
				mu.Lock()
				successes++
				mu.Unlock()
			}
		}()
	}
	wg.Wait()

	assert.Equal(t, 1, successes)
	assert.Equal(t, 1, countNamed(t, store, "Process:shared"))
}
