// Package loader decodes the scene's external assets off the render thread
// and hands finished CPU-side data back through a channel.
package loader

import (
	"context"
	"image"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/richinsley/goglass/mesh"
	"github.com/richinsley/goglass/options"
)

// Kind identifies which scene input a Result belongs to.
type Kind int

const (
	KindModel Kind = iota
	KindAlbedo
	KindGrain
)

func (k Kind) String() string {
	switch k {
	case KindModel:
		return "model"
	case KindAlbedo:
		return "albedo"
	case KindGrain:
		return "grain"
	}
	return "unknown"
}

// Result is one finished load. Exactly one of Image, Geometry or Err is set.
type Result struct {
	Kind     Kind
	Path     string
	Image    image.Image
	Geometry *mesh.Geometry
	Err      error
}

// Loader runs one batch of asset loads. Results are consumed with Poll from
// the render loop.
type Loader struct {
	logger  *zap.Logger
	results chan Result
	group   *errgroup.Group
	started bool

	loadImage func(path string) (image.Image, error)
	loadModel func(path string) (*mesh.Geometry, error)
}

// New returns an idle loader.
func New(logger *zap.Logger) *Loader {
	return &Loader{
		logger:    logger,
		results:   make(chan Result, 3),
		loadImage: LoadImage,
		loadModel: LoadGLB,
	}
}

// Start launches the loads for every non-empty path in assets. It must be
// called at most once.
func (l *Loader) Start(ctx context.Context, assets options.Assets) {
	if l.started {
		return
	}
	l.started = true

	g, ctx := errgroup.WithContext(ctx)
	l.group = g

	jobs := []struct {
		kind Kind
		path string
	}{
		{KindModel, assets.Model},
		{KindAlbedo, assets.Albedo},
		{KindGrain, assets.Grain},
	}
	for _, job := range jobs {
		if job.path == "" {
			continue
		}
		g.Go(func() error {
			start := time.Now()
			res := Result{Kind: job.kind, Path: job.path}
			if job.kind == KindModel {
				res.Geometry, res.Err = l.loadModel(job.path)
			} else {
				res.Image, res.Err = l.loadImage(job.path)
			}
			if res.Err == nil {
				l.logger.Debug("asset decoded",
					zap.Stringer("kind", job.kind),
					zap.String("path", job.path),
					zap.Duration("took", time.Since(start)))
			}
			select {
			case l.results <- res:
				return nil
			case <-ctx.Done():
				return ctx.Err()
			}
		})
	}

	go func() {
		g.Wait()
		close(l.results)
	}()
}

// Poll returns every result that has arrived since the previous call. It
// never blocks.
func (l *Loader) Poll() []Result {
	if !l.started {
		return nil
	}
	var out []Result
	for {
		select {
		case res, ok := <-l.results:
			if !ok {
				return out
			}
			out = append(out, res)
		default:
			return out
		}
	}
}

// Wait blocks until every load has finished or the context passed to Start
// is cancelled. Results stay queued for Poll.
func (l *Loader) Wait() error {
	if l.group == nil {
		return nil
	}
	return l.group.Wait()
}
