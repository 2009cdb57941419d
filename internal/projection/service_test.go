package projection_test

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"gisflow/internal/logging"
	"gisflow/internal/metrics"
	"gisflow/internal/projection"
	"gisflow/internal/records"
	"gisflow/internal/reportcache"
	"gisflow/internal/testsupport"
)

type fakeLoader struct {
	snap  records.Snapshot
	err   error
	loads atomic.Int32
	delay time.Duration
}

func (f *fakeLoader) LoadSnapshot(ctx context.Context) (records.Snapshot, error) {
	f.loads.Add(1)
	if f.delay > 0 {
		time.Sleep(f.delay)
	}
	return f.snap, f.err
}

func (f *fakeLoader) Describe() string { return "fake" }

// gatedLoader blocks each load until release is closed or ctx ends.
type gatedLoader struct {
	snap    records.Snapshot
	started chan struct{}
	release chan struct{}
	once    sync.Once
}

func (g *gatedLoader) LoadSnapshot(ctx context.Context) (records.Snapshot, error) {
	g.once.Do(func() { close(g.started) })
	select {
	case <-g.release:
		return g.snap, nil
	case <-ctx.Done():
		return records.Snapshot{}, ctx.Err()
	}
}

func (g *gatedLoader) Describe() string { return "gated" }

func sampleNow() time.Time { return testsupport.SampleNow }

func newService(t *testing.T, loader projection.Loader, opts ...projection.Option) *projection.Service {
	t.Helper()
	cfg := testsupport.NewConfig(t)
	opts = append([]projection.Option{projection.WithClock(sampleNow)}, opts...)
	return projection.New(cfg, loader, logging.NewNop(), opts...)
}

func TestWorkflowProjectsSampleSnapshot(t *testing.T) {
	svc := newService(t, &fakeLoader{snap: testsupport.SampleSnapshot()})

	resp, err := svc.Workflow(context.Background())
	require.NoError(t, err)

	var got []string
	for _, rec := range resp.Records {
		got = append(got, rec.DocNum+" "+rec.ProcessingStatus)
	}
	assert.Equal(t, []string{
		"2025-000101 Review",
		"2025-000102 Pending T/C",
		"2025-000103 Devnet",
		"2025-000104 Fabric",
	}, got)
	assert.Equal(t, map[string]int{"Review": 1, "Pending T/C": 1, "Devnet": 1, "Fabric": 1}, resp.Counts)

	fabric := resp.Records[3]
	require.NotNil(t, fabric.Processor)
	assert.Equal(t, "jsmith", *fabric.Processor)
	require.NotNil(t, fabric.Warnings)
	assert.Equal(t, "✔️ Fabric Processed|❌ Status Updated", *fabric.Warnings)
	assert.Equal(t, 1, fabric.ProcessStep)
	assert.Equal(t, "2025-06-15T15:00:00.000Z", resp.GeneratedAt)

	last := svc.LastEvaluation()
	require.NotNil(t, last)
	assert.Equal(t, 10, last.Documents)
	assert.Equal(t, 4, last.Records)
	assert.Empty(t, last.Error)
}

func TestReportsFromSampleSnapshot(t *testing.T) {
	svc := newService(t, &fakeLoader{snap: testsupport.SampleSnapshot()})
	ctx := context.Background()

	qc, err := svc.QC(ctx, " akim ")
	require.NoError(t, err)
	assert.Equal(t, "akim", qc.User)
	require.Len(t, qc.Items, 1)
	assert.Equal(t, "2025-000104", qc.Items[0].DocNum)

	fups, err := svc.FollowUps(ctx)
	require.NoError(t, err)
	require.Len(t, fups.Items, 2)
	assert.Equal(t, "Last followed up 10 days ago.", fups.Items[0].DurString)

	pins, err := svc.RetiredPINs(ctx)
	require.NoError(t, err)
	require.Len(t, pins.Items, 2)
	assert.Equal(t, "03-103", pins.Items[1].PIN)
}

func TestCachedReportsSkipReload(t *testing.T) {
	loader := &fakeLoader{snap: testsupport.SampleSnapshot()}
	cache, err := reportcache.NewMemory(8, time.Minute, nil)
	require.NoError(t, err)
	m := metrics.New()
	svc := newService(t, loader, projection.WithCache(cache), projection.WithMetrics(m))
	ctx := context.Background()

	first, err := svc.Workflow(ctx)
	require.NoError(t, err)
	second, err := svc.Workflow(ctx)
	require.NoError(t, err)

	assert.Equal(t, first, second)
	assert.Equal(t, int32(1), loader.loads.Load())
	assert.InDelta(t, 1, testutil.ToFloat64(m.CacheLookups.WithLabelValues("workflow", "hit")), 0)
	assert.InDelta(t, 1, testutil.ToFloat64(m.CacheLookups.WithLabelValues("workflow", "miss")), 0)

	_, err = svc.QC(ctx, "akim")
	require.NoError(t, err)
	_, err = svc.QC(ctx, "akim")
	require.NoError(t, err)
	assert.Equal(t, int32(2), loader.loads.Load(), "repeat qc request is served from cache")

	upper, err := svc.QC(ctx, "AKIM")
	require.NoError(t, err)
	assert.Equal(t, int32(3), loader.loads.Load(), "qc user key is exact")
	assert.Len(t, upper.Items, 2)
}

func TestConcurrentMissesShareOneLoad(t *testing.T) {
	loader := &fakeLoader{snap: testsupport.SampleSnapshot(), delay: 50 * time.Millisecond}
	svc := newService(t, loader)

	var wg sync.WaitGroup
	for range 8 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := svc.Workflow(context.Background())
			assert.NoError(t, err)
		}()
	}
	wg.Wait()
	assert.Less(t, loader.loads.Load(), int32(8))
}

func TestCancelledCallerDoesNotFailSharedLoad(t *testing.T) {
	loader := &gatedLoader{
		snap:    testsupport.SampleSnapshot(),
		started: make(chan struct{}),
		release: make(chan struct{}),
	}
	svc := newService(t, loader)

	firstCtx, cancelFirst := context.WithCancel(context.Background())
	firstErr := make(chan error, 1)
	go func() {
		_, err := svc.Workflow(firstCtx)
		firstErr <- err
	}()
	<-loader.started

	type result struct {
		count int
		err   error
	}
	second := make(chan result, 1)
	go func() {
		resp, err := svc.Workflow(context.Background())
		second <- result{count: len(resp.Records), err: err}
	}()
	time.Sleep(20 * time.Millisecond)

	cancelFirst()
	require.ErrorIs(t, <-firstErr, context.Canceled)

	close(loader.release)
	got := <-second
	require.NoError(t, got.err)
	assert.Equal(t, 4, got.count)
}

func TestLoadFailureIsWrapped(t *testing.T) {
	boom := errors.New("connection refused")
	m := metrics.New()
	svc := newService(t, &fakeLoader{err: boom}, projection.WithMetrics(m))

	_, err := svc.Workflow(context.Background())
	require.ErrorIs(t, err, projection.ErrSnapshotUnavailable)
	require.ErrorIs(t, err, boom)

	last := svc.LastEvaluation()
	require.NotNil(t, last)
	assert.Contains(t, last.Error, "connection refused")
	assert.InDelta(t, 1, testutil.ToFloat64(m.SnapshotLoadFailures), 0)
}

func TestEvaluateWithDerivedClearance(t *testing.T) {
	snap := testsupport.SampleSnapshot()
	snap.Clearance = nil
	cfg := testsupport.NewConfig(t, testsupport.WithDeriveClearance())
	svc := projection.New(cfg, &fakeLoader{snap: snap}, logging.NewNop(), projection.WithClock(sampleNow))

	pass, err := svc.Evaluate(context.Background())
	require.NoError(t, err)

	stages := map[string]string{}
	for _, rec := range pass.Records {
		stages[rec.DocNum] = rec.Stage.String()
	}
	assert.Equal(t, "Devnet", stages["2025-000103"], "approved T/C review events clear the PIN")
}
