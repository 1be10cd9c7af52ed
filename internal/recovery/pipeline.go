package recovery

import (
	"context"
	"errors"
	"sort"
	"time"

	"antique-catalog/internal/catalogerrors"
	"antique-catalog/internal/imagecodec"
	"antique-catalog/internal/models"
	"antique-catalog/internal/pkg/clock"
	"antique-catalog/utils"
)

// Stage names a step of the recovery pipeline
type Stage string

const (
	StageAgeEviction     Stage = "age_eviction"
	StageStatusEviction  Stage = "status_eviction"
	StageStatusNarrowing Stage = "status_narrowing"
	StageRecencyCap      Stage = "recency_cap"
	StageExhausted       Stage = "exhausted"
)

// Config holds the pipeline's thresholds
type Config struct {
	// RetentionWindow is how long a submission survives age eviction.
	RetentionWindow time.Duration

	// MaxItems is both the trigger for status eviction and the recency cap.
	MaxItems int

	// MaxDescriptionLength bounds descriptions, in characters.
	MaxDescriptionLength int

	// ImageMaxWidth and ImageMaxHeight bound every surviving image.
	ImageMaxWidth  int
	ImageMaxHeight int
}

// DefaultConfig returns the standard thresholds.
func DefaultConfig() Config {
	return Config{
		RetentionWindow:      30 * 24 * time.Hour,
		MaxItems:             100,
		MaxDescriptionLength: 500,
		ImageMaxWidth:        800,
		ImageMaxHeight:       800,
	}
}

// PersistFunc attempts to durably write a submissions collection.
type PersistFunc func(ctx context.Context, items []models.AntiqueSubmission) error

// Result is the outcome of a recovery run.
type Result struct {
	// Submissions is what the durable store now holds (or, when Err is set,
	// the last candidate that was tried).
	Submissions []models.AntiqueSubmission

	// Stage is the stage whose output was persisted, or StageExhausted.
	Stage Stage

	// Attempts counts persist calls, including the final empty write.
	Attempts int

	// Persisted is false only when even the empty fallback failed or Err is set.
	Persisted bool

	// Err is a non-quota persistence failure that stopped the pipeline.
	Err error
}

// Pipeline shrinks a submissions collection until it fits the store.
type Pipeline struct {
	cfg   Config
	codec imagecodec.Compressor
	clock clock.Clock
}

// New creates a Pipeline. Zero config fields take their default values.
func New(cfg Config, codec imagecodec.Compressor, clk clock.Clock) *Pipeline {
	def := DefaultConfig()
	if cfg.RetentionWindow <= 0 {
		cfg.RetentionWindow = def.RetentionWindow
	}
	if cfg.MaxItems <= 0 {
		cfg.MaxItems = def.MaxItems
	}
	if cfg.MaxDescriptionLength <= 0 {
		cfg.MaxDescriptionLength = def.MaxDescriptionLength
	}
	if cfg.ImageMaxWidth <= 0 {
		cfg.ImageMaxWidth = def.ImageMaxWidth
	}
	if cfg.ImageMaxHeight <= 0 {
		cfg.ImageMaxHeight = def.ImageMaxHeight
	}
	if codec == nil {
		codec = imagecodec.New(imagecodec.DefaultQuality)
	}
	if clk == nil {
		clk = clock.NewRealClock()
	}
	return &Pipeline{cfg: cfg, codec: codec, clock: clk}
}

// Recover is called after items failed to persist for lack of space. Each
// stage runs only if the previous stage's output still failed to persist, and
// no stage ever grows the collection. When every stage fails the store is
// cleared and an empty collection is returned.
func (p *Pipeline) Recover(ctx context.Context, items []models.AntiqueSubmission, persist PersistFunc) Result {
	res := Result{}
	original := len(items)

	// Stage 1 always runs; compaction of the survivors happens once, here.
	current := p.compact(p.evictByAge(items))
	if ok, err := p.attempt(ctx, &res, StageAgeEviction, original, current, persist); ok || err != nil {
		return res
	}

	stages := []struct {
		stage Stage
		gated bool
		apply func([]models.AntiqueSubmission) []models.AntiqueSubmission
	}{
		{stage: StageStatusEviction, gated: true, apply: dropRejected},
		{stage: StageStatusNarrowing, gated: true, apply: keepApprovedAndPending},
		{stage: StageRecencyCap, gated: false, apply: p.capByRecency},
	}

	for _, s := range stages {
		if s.gated && len(current) <= p.cfg.MaxItems {
			utils.Debug("quota recovery: stage not triggered", map[string]any{"stage": s.stage, "items": len(current)})
			continue
		}
		next := s.apply(current)
		if len(next) == len(current) {
			utils.Debug("quota recovery: stage removed nothing", map[string]any{"stage": s.stage, "items": len(current)})
			continue
		}
		before := len(current)
		current = next
		if ok, err := p.attempt(ctx, &res, s.stage, before, current, persist); ok || err != nil {
			return res
		}
	}

	utils.Error("quota recovery exhausted, clearing durable submissions", map[string]any{
		"original_items": original,
		"attempts":       res.Attempts,
	})

	empty := []models.AntiqueSubmission{}
	res.Attempts++
	res.Stage = StageExhausted
	res.Submissions = empty
	if err := persist(ctx, empty); err != nil {
		utils.Error("quota recovery: clearing durable submissions failed", map[string]any{"error": err.Error()})
		return res
	}
	res.Persisted = true
	return res
}

// attempt persists candidate and records the outcome in res. It reports
// whether the write succeeded and returns any non-quota error.
func (p *Pipeline) attempt(ctx context.Context, res *Result, stage Stage, before int, candidate []models.AntiqueSubmission, persist PersistFunc) (bool, error) {
	res.Attempts++
	res.Stage = stage
	res.Submissions = candidate

	err := persist(ctx, candidate)
	fields := map[string]any{"stage": stage, "items_before": before, "items_after": len(candidate)}
	switch {
	case err == nil:
		res.Persisted = true
		utils.Info("quota recovery: stage persisted", fields)
		return true, nil
	case errors.Is(err, catalogerrors.ErrQuotaExceeded):
		utils.Warn("quota recovery: stage still over quota", fields)
		return false, nil
	default:
		fields["error"] = err.Error()
		utils.Error("quota recovery: persist failed", fields)
		res.Err = err
		return false, err
	}
}

// evictByAge drops submissions older than the retention window
func (p *Pipeline) evictByAge(items []models.AntiqueSubmission) []models.AntiqueSubmission {
	cutoff := p.clock.Now().Add(-p.cfg.RetentionWindow)
	kept := make([]models.AntiqueSubmission, 0, len(items))
	for _, s := range items {
		if !s.SubmittedAt.Before(cutoff) {
			kept = append(kept, s)
		}
	}
	return kept
}

// compact recompresses images and truncates descriptions of every item
func (p *Pipeline) compact(items []models.AntiqueSubmission) []models.AntiqueSubmission {
	out := make([]models.AntiqueSubmission, len(items))
	for i, s := range items {
		s = s.Clone()
		for j, img := range s.Images {
			s.Images[j] = p.codec.Compress(img, p.cfg.ImageMaxWidth, p.cfg.ImageMaxHeight)
		}
		s.Description = truncate(s.Description, p.cfg.MaxDescriptionLength)
		out[i] = s
	}
	return out
}

// capByRecency keeps the MaxItems newest submissions in their original order
func (p *Pipeline) capByRecency(items []models.AntiqueSubmission) []models.AntiqueSubmission {
	if len(items) <= p.cfg.MaxItems {
		return items
	}

	idx := make([]int, len(items))
	for i := range idx {
		idx[i] = i
	}
	sort.SliceStable(idx, func(a, b int) bool {
		return items[idx[a]].SubmittedAt.After(items[idx[b]].SubmittedAt)
	})

	keep := make(map[int]bool, p.cfg.MaxItems)
	for _, i := range idx[:p.cfg.MaxItems] {
		keep[i] = true
	}

	kept := make([]models.AntiqueSubmission, 0, p.cfg.MaxItems)
	for i, s := range items {
		if keep[i] {
			kept = append(kept, s)
		}
	}
	return kept
}

func dropRejected(items []models.AntiqueSubmission) []models.AntiqueSubmission {
	return filter(items, func(s models.AntiqueSubmission) bool { return s.Status != models.StatusRejected })
}

func keepApprovedAndPending(items []models.AntiqueSubmission) []models.AntiqueSubmission {
	return filter(items, func(s models.AntiqueSubmission) bool {
		return s.Status == models.StatusApproved || s.Status == models.StatusPending
	})
}

func filter(items []models.AntiqueSubmission, keep func(models.AntiqueSubmission) bool) []models.AntiqueSubmission {
	kept := make([]models.AntiqueSubmission, 0, len(items))
	for _, s := range items {
		if keep(s) {
			kept = append(kept, s)
		}
	}
	return kept
}

// truncate cuts s to at most n characters
func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	runes := []rune(s)
	if len(runes) <= n {
		return s
	}
	return string(runes[:n])
}
