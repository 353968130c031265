package commands

import (
	"context"
	"sync"
	"testing"
	"time"

	"atelier/contexts/observer-experience/observer-digest-service/adapters/memory"
	"atelier/contexts/observer-experience/observer-digest-service/domain/entities"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fixedArcs struct{}

func (fixedArcs) RecomputeDraftArc(_ context.Context, draftID string) (entities.ArcSnapshot, error) {
	return entities.ArcSnapshot{DraftID: draftID, State: "in_progress", Milestone: "PR pending review"}, nil
}

// gatedDigests parks each SaveRecentEntry call until release is closed, so
// concurrent fan-outs overlap at the write.
type gatedDigests struct {
	*memory.Store
	arrived chan struct{}
	release chan struct{}
}

func (g *gatedDigests) SaveRecentEntry(ctx context.Context, entry entities.DigestEntry, since time.Time) (bool, error) {
	g.arrived <- struct{}{}
	<-g.release
	return g.Store.SaveRecentEntry(ctx, entry, since)
}

type journal struct {
	mu    sync.Mutex
	steps []string
}

func (j *journal) add(step string) {
	j.mu.Lock()
	defer j.mu.Unlock()
	j.steps = append(j.steps, step)
}

type txKey struct{}

type journalTx struct{ log *journal }

func (t journalTx) WithTx(ctx context.Context, fn func(ctx context.Context) error) error {
	t.log.add("begin")
	err := fn(context.WithValue(ctx, txKey{}, true))
	t.log.add("end")
	return err
}

type journalDigests struct {
	*memory.Store
	log *journal
}

func (d journalDigests) LockDraftDigest(ctx context.Context, draftID string) error {
	if ctx.Value(txKey{}) == nil {
		d.log.add("lock outside tx")
	} else {
		d.log.add("lock " + draftID)
	}
	return d.Store.LockDraftDigest(ctx, draftID)
}

func (d journalDigests) SaveRecentEntry(ctx context.Context, entry entities.DigestEntry, since time.Time) (bool, error) {
	d.log.add("save " + entry.ObserverID)
	return d.Store.SaveRecentEntry(ctx, entry, since)
}

var fixedNow = time.Date(2026, 6, 1, 8, 0, 0, 0, time.UTC)

func newStore() *memory.Store {
	store := memory.NewStore()
	store.SetNow(fixedNow)
	store.SetDraft("draft-1", "studio-1")
	store.FollowDraft("obs-a", "draft-1")
	return store
}

func TestConcurrentDraftEventsKeepOneEntryPerObserver(t *testing.T) {
	store := newStore()
	digests := &gatedDigests{Store: store, arrived: make(chan struct{}), release: make(chan struct{})}
	uc := RecordDraftEventUseCase{
		Arcs:      fixedArcs{},
		Followers: store,
		Digests:   digests,
		Clock:     store,
		IDGen:     store,
	}

	var wg sync.WaitGroup
	errs := make([]error, 2)
	for i := range errs {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, errs[i] = uc.RecordDraftEvent(context.Background(), RecordDraftEventCommand{DraftID: "draft-1", EventType: "pull_request"})
		}(i)
	}
	<-digests.arrived
	<-digests.arrived
	close(digests.release)
	wg.Wait()

	for _, err := range errs {
		require.NoError(t, err)
	}
	entries := store.Entries()
	require.Len(t, entries, 1)
	assert.Equal(t, "obs-a", entries[0].ObserverID)
	assert.Equal(t, "draft-1", entries[0].DraftID)
}

func TestRecordDraftEventLocksDraftInsideTransaction(t *testing.T) {
	store := newStore()
	store.FollowDraft("obs-b", "draft-1")
	log := &journal{}
	uc := RecordDraftEventUseCase{
		Arcs:      fixedArcs{},
		Followers: store,
		Digests:   journalDigests{Store: store, log: log},
		Tx:        journalTx{log: log},
		Clock:     store,
		IDGen:     store,
	}

	result, err := uc.RecordDraftEvent(context.Background(), RecordDraftEventCommand{DraftID: "draft-1", EventType: "pull_request"})
	require.NoError(t, err)
	assert.Equal(t, 2, result.NotifiedObservers)
	assert.Equal(t, []string{"begin", "lock draft-1", "save obs-a", "save obs-b", "end"}, log.steps)
}
