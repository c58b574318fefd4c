package usecase

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	devicedomain "omnicall-backend/internal/device/domain"
	"omnicall-backend/internal/errs"
	notifyrepo "omnicall-backend/internal/notify/repository"
	"omnicall-backend/pkg/fcm"
)

type fakeTokenRepo struct {
	mu     sync.Mutex
	tokens []devicedomain.DeviceToken
	err    error
	calls  int
}

func (f *fakeTokenRepo) SaveToken(string, string, devicedomain.Platform, string) error {
	return nil
}
func (f *fakeTokenRepo) DeleteToken(string) error { return nil }
func (f *fakeTokenRepo) GetTokensByUserID(string) ([]devicedomain.DeviceToken, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls++
	return f.tokens, f.err
}

type fakeSender struct {
	mu         sync.Mutex
	result     fcm.BatchResult
	err        error
	deliveries []fcm.Delivery
	calls      int
}

func (f *fakeSender) SendBatch(_ context.Context, deliveries []fcm.Delivery) (fcm.BatchResult, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls++
	f.deliveries = append([]fcm.Delivery(nil), deliveries...)
	return f.result, f.err
}

// memDedup is a shared in-memory dedup store with the same check-and-set
// semantics as the row-locked repository.
type memDedup struct {
	mu    sync.Mutex
	last  map[string]time.Time
	calls int
}

func newMemDedup() *memDedup { return &memDedup{last: make(map[string]time.Time)} }

func (m *memDedup) ClassifyMatch(userID string, now time.Time, window time.Duration) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.calls++
	var lastAt *time.Time
	if t, ok := m.last[userID]; ok {
		lastAt = &t
	}
	if !notifyrepo.IsNewMatch(lastAt, now, window) {
		return false, nil
	}
	m.last[userID] = now
	return true, nil
}

type recordedCall struct {
	userID     string
	sentCount  int
	isNewMatch bool
}

type fakeCounters struct {
	mu    sync.Mutex
	calls []recordedCall
}

func (f *fakeCounters) Record(userID string, sentCount int, isNewMatch bool) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls = append(f.calls, recordedCall{userID, sentCount, isNewMatch})
	return nil
}

func newTestUsecase(tokens *fakeTokenRepo, sender *fakeSender, dedup *memDedup, counters *fakeCounters) *notifyUsecase {
	return &notifyUsecase{
		tokenRepo: tokens,
		dedupRepo: dedup,
		sender:    sender,
		counters:  counters,
		clickLink: "https://example.test/app/",
		logger:    zap.NewNop(),
		now:       time.Now,
	}
}

func TestDispatch_MissingUserID(t *testing.T) {
	t.Parallel()
	tokens := &fakeTokenRepo{}
	u := newTestUsecase(tokens, &fakeSender{}, newMemDedup(), &fakeCounters{})

	_, err := u.Dispatch(context.Background(), "  ", "hello")
	require.ErrorIs(t, err, errs.ErrInvalidArgument)
	require.Zero(t, tokens.calls, "no state should be touched on invalid input")
}

func TestDispatch_NoDevices(t *testing.T) {
	t.Parallel()
	sender := &fakeSender{}
	counters := &fakeCounters{}
	u := newTestUsecase(&fakeTokenRepo{}, sender, newMemDedup(), counters)

	result, err := u.Dispatch(context.Background(), "user-1", "")
	require.NoError(t, err)
	require.Equal(t, 0, result.Sent)
	require.Equal(t, 0, result.Total)
	require.Zero(t, sender.calls, "transport must not be invoked")
	require.Empty(t, counters.calls, "counters must not be touched")
}

func TestDispatch_UnknownUser(t *testing.T) {
	t.Parallel()
	sender := &fakeSender{}
	counters := &fakeCounters{}
	u := newTestUsecase(&fakeTokenRepo{}, sender, newMemDedup(), counters)

	// An identity that was never allocated has no registry entries. That is
	// the same no-op as a paired user with zero devices, not an error.
	result, err := u.Dispatch(context.Background(), "ghost-user", "")
	require.NoError(t, err)
	require.Equal(t, 0, result.Sent)
	require.Equal(t, 0, result.Total)
	require.Zero(t, sender.calls)
	require.Empty(t, counters.calls)
}

func TestDispatch_DefaultMessageAndDeliveryShape(t *testing.T) {
	t.Parallel()
	tokens := &fakeTokenRepo{tokens: []devicedomain.DeviceToken{
		{Token: "tok-a"}, {Token: "tok-b"},
	}}
	sender := &fakeSender{result: fcm.BatchResult{Sent: 2}}
	u := newTestUsecase(tokens, sender, newMemDedup(), &fakeCounters{})

	result, err := u.Dispatch(context.Background(), "user-1", "")
	require.NoError(t, err)
	require.Equal(t, 2, result.Sent)
	require.Equal(t, 2, result.Total)

	require.Len(t, sender.deliveries, 2)
	for i, token := range []string{"tok-a", "tok-b"} {
		require.Equal(t, token, sender.deliveries[i].Token)
		require.Equal(t, "OmniCall Alert", sender.deliveries[i].Title)
		require.Equal(t, DefaultMessage, sender.deliveries[i].Body)
		require.Equal(t, "https://example.test/app/", sender.deliveries[i].Link)
	}
}

func TestDispatch_DedupWindow(t *testing.T) {
	t.Parallel()
	tokens := &fakeTokenRepo{tokens: []devicedomain.DeviceToken{{Token: "tok-a"}}}
	sender := &fakeSender{result: fcm.BatchResult{Sent: 1}}
	counters := &fakeCounters{}
	u := newTestUsecase(tokens, sender, newMemDedup(), counters)

	base := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	now := base
	u.now = func() time.Time { return now }

	// First detector alert opens a window.
	_, err := u.Dispatch(context.Background(), "user-1", "")
	require.NoError(t, err)

	// 10 seconds later: same game, re-alert.
	now = base.Add(10 * time.Second)
	_, err = u.Dispatch(context.Background(), "user-1", "")
	require.NoError(t, err)

	// 71 seconds after the first: new game.
	now = base.Add(71 * time.Second)
	_, err = u.Dispatch(context.Background(), "user-1", "")
	require.NoError(t, err)

	require.Equal(t, []recordedCall{
		{"user-1", 1, true},
		{"user-1", 1, false},
		{"user-1", 1, true},
	}, counters.calls)
}

func TestDispatch_TestMessageNeverMatches(t *testing.T) {
	t.Parallel()
	tokens := &fakeTokenRepo{tokens: []devicedomain.DeviceToken{{Token: "tok-a"}}}
	sender := &fakeSender{result: fcm.BatchResult{Sent: 1}}
	counters := &fakeCounters{}
	dedup := newMemDedup()
	u := newTestUsecase(tokens, sender, dedup, counters)

	_, err := u.Dispatch(context.Background(), "user-1", "This is a test alert")
	require.NoError(t, err)

	require.Zero(t, dedup.calls, "non-match-class messages never touch dedup state")
	require.Equal(t, []recordedCall{{"user-1", 1, false}}, counters.calls)
}

func TestDispatch_PartialFailure(t *testing.T) {
	t.Parallel()
	tokens := &fakeTokenRepo{tokens: []devicedomain.DeviceToken{
		{Token: "tok-a"}, {Token: "tok-b"}, {Token: "tok-c"},
	}}
	sender := &fakeSender{result: fcm.BatchResult{Sent: 2, Failures: []string{"tok-b"}}}
	counters := &fakeCounters{}
	u := newTestUsecase(tokens, sender, newMemDedup(), counters)

	result, err := u.Dispatch(context.Background(), "user-1", "Match found in queue")
	require.NoError(t, err, "partial failure is not an error")
	require.Equal(t, 2, result.Sent)
	require.Equal(t, 3, result.Total)
	require.Equal(t, []string{"tok-b"}, result.Failures)
	require.Equal(t, []recordedCall{{"user-1", 2, true}}, counters.calls)
}

func TestDispatch_AllDeliveriesFailed(t *testing.T) {
	t.Parallel()
	tokens := &fakeTokenRepo{tokens: []devicedomain.DeviceToken{{Token: "tok-a"}}}
	sender := &fakeSender{result: fcm.BatchResult{Sent: 0, Failures: []string{"tok-a"}}}
	counters := &fakeCounters{}
	dedup := newMemDedup()
	u := newTestUsecase(tokens, sender, dedup, counters)

	result, err := u.Dispatch(context.Background(), "user-1", "")
	require.NoError(t, err)
	require.Equal(t, 0, result.Sent)
	require.Equal(t, 1, result.Total)
	require.Zero(t, dedup.calls, "zero successes must not classify")
	require.Empty(t, counters.calls, "zero successes must not record")
}

func TestDispatch_TransportError(t *testing.T) {
	t.Parallel()
	tokens := &fakeTokenRepo{tokens: []devicedomain.DeviceToken{{Token: "tok-a"}}}
	sender := &fakeSender{err: errors.New("fcm unavailable")}
	counters := &fakeCounters{}
	u := newTestUsecase(tokens, sender, newMemDedup(), counters)

	_, err := u.Dispatch(context.Background(), "user-1", "")
	require.Error(t, err)
	require.Empty(t, counters.calls)
}

func TestDispatch_ConcurrentSameUser_OneNewMatch(t *testing.T) {
	t.Parallel()
	tokens := &fakeTokenRepo{tokens: []devicedomain.DeviceToken{{Token: "tok-a"}}}
	sender := &fakeSender{result: fcm.BatchResult{Sent: 1}}
	counters := &fakeCounters{}
	u := newTestUsecase(tokens, sender, newMemDedup(), counters)

	now := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	u.now = func() time.Time { return now }

	const workers = 20
	errc := make(chan error, workers)
	var wg sync.WaitGroup
	wg.Add(workers)
	for i := 0; i < workers; i++ {
		go func() {
			defer wg.Done()
			_, err := u.Dispatch(context.Background(), "user-1", "")
			errc <- err
		}()
	}
	wg.Wait()
	close(errc)
	for err := range errc {
		require.NoError(t, err)
	}

	require.Len(t, counters.calls, workers)
	newMatches := 0
	for _, call := range counters.calls {
		if call.isNewMatch {
			newMatches++
		}
	}
	require.Equal(t, 1, newMatches, "exactly one concurrent dispatch may open the window")
}
