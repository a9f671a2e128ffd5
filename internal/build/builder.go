// Package build runs the sprite-to-geometry pipeline and installs results
// onto targets.
package build

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/Faultbox/spritemesh/internal/logger"
	"github.com/Faultbox/spritemesh/internal/sprite"
)

// Result is the structured outcome of one rebuild.
type Result struct {
	Success bool
	Kind    ErrorKind
	Err     error

	VertexCount   int
	TriangleCount int
	BoxCount      int
	OutlineCount  int
	Duration      time.Duration
}

// Builder rebuilds targets.
type Builder struct {
	log *zap.Logger
}

// NewBuilder returns a Builder logging through the global logger.
func NewBuilder() *Builder {
	return &Builder{log: logger.Log.Named("build")}
}

// Rebuild builds geometry for src with cfg and installs it on t. On any
// failure t keeps what it had. Concurrent rebuilds of t run one at a time.
func (b *Builder) Rebuild(t *Target, src *sprite.Image, cfg Config) Result {
	t.mu.Lock()
	defer t.mu.Unlock()

	start := time.Now()
	out, err := Build(src, cfg)
	if err != nil {
		res := Result{Kind: KindOf(err), Err: err, Duration: time.Since(start)}
		b.log.Warn("rebuild failed",
			zap.Stringer("target", t.ID),
			zap.String("name", t.Name),
			zap.Stringer("kind", res.Kind),
			zap.Error(err))
		return res
	}

	t.install(out)

	res := Result{
		Success:       true,
		VertexCount:   len(out.Mesh.Vertices),
		TriangleCount: out.Mesh.TriangleCount(),
		OutlineCount:  len(out.Outlines),
		Duration:      time.Since(start),
	}
	if out.Collider != nil {
		res.BoxCount = len(out.Collider.Boxes)
	}
	b.log.Info("rebuild complete",
		zap.Stringer("target", t.ID),
		zap.String("name", t.Name),
		zap.Int("vertices", res.VertexCount),
		zap.Int("triangles", res.TriangleCount),
		zap.Int("boxes", res.BoxCount),
		zap.Duration("took", res.Duration))
	return res
}

// Job is one independent rebuild in a batch. Source is used when set,
// otherwise the image is loaded from Path.
type Job struct {
	Target *Target
	Source *sprite.Image
	Path   string
	Load   sprite.LoadOptions
	Config Config
}

// Batch rebuilds jobs on up to workers goroutines and returns one Result
// per job, in job order. The error is non-nil only when ctx was cancelled;
// jobs that had not started by then report it in their Result.
func (b *Builder) Batch(ctx context.Context, jobs []Job, workers int) ([]Result, error) {
	results := make([]Result, len(jobs))
	g, ctx := errgroup.WithContext(ctx)
	if workers > 0 {
		g.SetLimit(workers)
	}

	for i, job := range jobs {
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				results[i] = Result{Kind: KindInternal, Err: err}
				return err
			}
			results[i] = b.run(job)
			return nil
		})
	}

	err := g.Wait()
	b.log.Info("batch complete", zap.Int("jobs", len(jobs)), zap.Int("workers", workers))
	return results, err
}

func (b *Builder) run(job Job) Result {
	src := job.Source
	if src == nil {
		var err error
		src, err = sprite.Load(job.Path, job.Load)
		if err != nil {
			err = fmt.Errorf("%w: %w", ErrSourceUnreadable, err)
			b.log.Warn("loading source failed", zap.String("path", job.Path), zap.Error(err))
			return Result{Kind: KindSourceUnreadable, Err: err}
		}
	}
	return b.Rebuild(job.Target, src, job.Config)
}
