package recovery

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"testing"
	"time"

	"antique-catalog/internal/catalogerrors"
	"antique-catalog/internal/models"
	"antique-catalog/internal/pkg/clock"

	"github.com/stretchr/testify/require"
)

var now = time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

// shrinkCodec tags payloads instead of decoding them
type shrinkCodec struct {
	mu    sync.Mutex
	calls int
}

func (c *shrinkCodec) Compress(payload string, maxWidth, maxHeight int) string {
	c.mu.Lock()
	c.calls++
	c.mu.Unlock()
	return fmt.Sprintf("small(%dx%d)", maxWidth, maxHeight)
}

// persister fails with a quota error while the collection exceeds limit
type persister struct {
	limit    int
	attempts []int
	stored   []models.AntiqueSubmission
}

func (p *persister) persist(_ context.Context, items []models.AntiqueSubmission) error {
	p.attempts = append(p.attempts, len(items))
	if len(items) > p.limit {
		return catalogerrors.ErrQuotaExceeded
	}
	p.stored = items
	return nil
}

func newPipeline(codec *shrinkCodec) *Pipeline {
	return New(DefaultConfig(), codec, clock.NewMockClock(now))
}

func submissions(n int, age time.Duration, status models.ReviewStatus) []models.AntiqueSubmission {
	out := make([]models.AntiqueSubmission, n)
	for i := range out {
		out[i] = models.AntiqueSubmission{
			ID:          fmt.Sprintf("%s-%d", status, i),
			Title:       fmt.Sprintf("Item %d", i),
			Description: "desc",
			Status:      status,
			SubmittedAt: now.Add(-age).Add(-time.Duration(i) * time.Minute),
		}
	}
	return out
}

func TestRecover_AllOlderThanRetentionAreEvicted(t *testing.T) {
	t.Parallel()

	items := submissions(150, 45*24*time.Hour, models.StatusPending)
	p := &persister{limit: 1000}

	res := newPipeline(&shrinkCodec{}).Recover(context.Background(), items, p.persist)

	require.True(t, res.Persisted)
	require.NoError(t, res.Err)
	require.Equal(t, StageAgeEviction, res.Stage)
	require.Empty(t, res.Submissions)
	require.Equal(t, []int{0}, p.attempts)
}

func TestRecover_DropsRejectedWhenStillTooLarge(t *testing.T) {
	t.Parallel()

	items := append(
		submissions(90, time.Hour, models.StatusPending),
		submissions(60, time.Hour, models.StatusRejected)...,
	)
	p := &persister{limit: 90}

	res := newPipeline(&shrinkCodec{}).Recover(context.Background(), items, p.persist)

	require.True(t, res.Persisted)
	require.Equal(t, StageStatusEviction, res.Stage)
	require.Len(t, res.Submissions, 90)
	for _, s := range res.Submissions {
		require.NotEqual(t, models.StatusRejected, s.Status)
	}
	require.Equal(t, []int{150, 90}, p.attempts)
}

func TestRecover_StatusStagesSkippedAtOrBelowMaxItems(t *testing.T) {
	t.Parallel()

	// 80 rejected items never trigger status eviction because 80 <= MaxItems
	items := submissions(80, time.Hour, models.StatusRejected)
	p := &persister{limit: 10}

	res := newPipeline(&shrinkCodec{}).Recover(context.Background(), items, p.persist)

	// age stage, then the recency cap is a no-op, then the empty fallback
	require.Equal(t, []int{80, 0}, p.attempts)
	require.Equal(t, StageExhausted, res.Stage)
	require.True(t, res.Persisted)
	require.Empty(t, res.Submissions)
}

func TestRecover_RecencyCapKeepsNewest(t *testing.T) {
	t.Parallel()

	items := submissions(150, time.Hour, models.StatusApproved)
	p := &persister{limit: 100}

	res := newPipeline(&shrinkCodec{}).Recover(context.Background(), items, p.persist)

	require.Equal(t, StageRecencyCap, res.Stage)
	require.Len(t, res.Submissions, 100)
	// submissions() makes later indexes older, so the first 100 are the newest
	for i, s := range res.Submissions {
		require.Equal(t, fmt.Sprintf("approved-%d", i), s.ID)
	}
	require.Equal(t, []int{150, 100}, p.attempts)
}

func TestRecover_ShrinksMonotonically(t *testing.T) {
	t.Parallel()

	items := append(submissions(70, time.Hour, models.StatusPending), submissions(40, time.Hour, models.StatusRejected)...)
	items = append(items, submissions(30, 40*24*time.Hour, models.StatusApproved)...)
	items = append(items, models.AntiqueSubmission{ID: "odd", Status: "archived", SubmittedAt: now})
	p := &persister{limit: 0}

	res := newPipeline(&shrinkCodec{}).Recover(context.Background(), items, p.persist)

	require.Equal(t, StageExhausted, res.Stage)
	require.Empty(t, res.Submissions)
	for i := 1; i < len(p.attempts); i++ {
		require.LessOrEqual(t, p.attempts[i], p.attempts[i-1])
	}
	// age 111, status eviction 71, narrowing gated off, cap a no-op, then empty
	require.Equal(t, []int{111, 71, 0}, p.attempts)
}

func TestRecover_CompactsImagesAndDescriptions(t *testing.T) {
	t.Parallel()

	long := strings.Repeat("é", 700)
	items := []models.AntiqueSubmission{{
		ID:          "s1",
		Description: long,
		Images:      []string{"data:image/png;base64,AAAA", "data:image/png;base64,BBBB"},
		Status:      models.StatusPending,
		SubmittedAt: now,
	}}
	codec := &shrinkCodec{}
	p := &persister{limit: 10}

	res := newPipeline(codec).Recover(context.Background(), items, p.persist)

	require.True(t, res.Persisted)
	require.Len(t, res.Submissions, 1)
	require.Equal(t, 500, len([]rune(res.Submissions[0].Description)))
	require.Equal(t, []string{"small(800x800)", "small(800x800)"}, res.Submissions[0].Images)
	require.Equal(t, 2, codec.calls)

	// the caller's slice is untouched
	require.Equal(t, long, items[0].Description)
	require.Equal(t, "data:image/png;base64,AAAA", items[0].Images[0])
}

func TestRecover_StopsOnNonQuotaError(t *testing.T) {
	t.Parallel()

	boom := errors.New("connection refused")
	attempts := 0
	persist := func(context.Context, []models.AntiqueSubmission) error {
		attempts++
		return boom
	}

	res := newPipeline(&shrinkCodec{}).Recover(context.Background(), submissions(120, time.Hour, models.StatusRejected), persist)

	require.ErrorIs(t, res.Err, boom)
	require.False(t, res.Persisted)
	require.Equal(t, 1, attempts)
	require.Len(t, res.Submissions, 120)
}

func TestRecover_EmptyFallbackFailure(t *testing.T) {
	t.Parallel()

	persist := func(context.Context, []models.AntiqueSubmission) error {
		return catalogerrors.ErrQuotaExceeded
	}

	res := newPipeline(&shrinkCodec{}).Recover(context.Background(), submissions(5, time.Hour, models.StatusPending), persist)

	require.Equal(t, StageExhausted, res.Stage)
	require.False(t, res.Persisted)
	require.Empty(t, res.Submissions)
	require.NoError(t, res.Err)
}

func TestNew_FillsDefaults(t *testing.T) {
	t.Parallel()

	p := New(Config{MaxItems: 5}, nil, nil)

	require.Equal(t, 5, p.cfg.MaxItems)
	require.Equal(t, 30*24*time.Hour, p.cfg.RetentionWindow)
	require.Equal(t, 500, p.cfg.MaxDescriptionLength)
	require.NotNil(t, p.codec)
	require.NotNil(t, p.clock)
}
