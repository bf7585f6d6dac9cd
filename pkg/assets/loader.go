// Package assets loads body surface textures in the background.
// Loads run on goroutines tracked by a resource.Manager and pass through a
// circuit breaker, so a missing texture directory stops costing disk lookups
// after a few failures. Finished loads are swapped into the body's material
// and reported on a channel drained by the frame thread.
package assets

import (
	"context"
	"errors"
	"fmt"
	"image"
	_ "image/jpeg" // register decoders
	_ "image/png"
	"os"
	"path/filepath"
	"time"

	"github.com/sony/gobreaker"
	xdraw "golang.org/x/image/draw"

	_ "golang.org/x/image/bmp"
	_ "golang.org/x/image/webp"

	"github.com/opd-ai/go-orrery/pkg/logging"
	"github.com/opd-ai/go-orrery/pkg/resource"
	"github.com/opd-ai/go-orrery/pkg/scene"
)

var (
	// ErrNotFound is returned when no file exists for an asset key
	ErrNotFound = errors.New("texture not found")
	// ErrDisposed is reported when a load finished after its material was released
	ErrDisposed = errors.New("material disposed before texture arrived")
)

// Extensions are tried in order when resolving an asset key to a file
var Extensions = []string{".png", ".jpg", ".jpeg", ".webp", ".bmp"}

// Options configures a Loader
type Options struct {
	Dir                string
	TextureSize        int // width in pixels; height is half of it
	LoadTimeout        time.Duration
	BreakerMaxFailures int
	BreakerTimeout     time.Duration
	QueueSize          int
	Workers            int // concurrent loads; the rest wait their turn
}

// DefaultOptions returns the stock loader settings
func DefaultOptions() Options {
	return Options{
		Dir:                "assets/textures",
		TextureSize:        256,
		LoadTimeout:        5 * time.Second,
		BreakerMaxFailures: 3,
		BreakerTimeout:     30 * time.Second,
		QueueSize:          16,
		Workers:            4,
	}
}

// Result is the outcome of one background load
type Result struct {
	Index    int
	Key      string
	Texture  *scene.Texture
	Err      error
	Duration time.Duration
}

// Loader resolves asset keys to decoded, resampled textures
type Loader struct {
	opts    Options
	breaker *gobreaker.CircuitBreaker
	manager *resource.Manager
	logger  *logging.Logger
	results chan Result
}

// NewLoader creates a loader whose background work is tracked by manager
func NewLoader(opts Options, manager *resource.Manager, logger *logging.Logger) *Loader {
	if logger == nil {
		logger = logging.NewLogger()
	}
	logger = logger.With("component", "assets")
	if opts.QueueSize <= 0 {
		opts.QueueSize = DefaultOptions().QueueSize
	}
	if opts.Workers < 1 {
		opts.Workers = 1
	}
	if opts.TextureSize < 2 {
		opts.TextureSize = 2
	}

	settings := gobreaker.Settings{
		Name:    "orrery-textures",
		Timeout: opts.BreakerTimeout,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			// Trip the circuit if we have too many consecutive failures
			return counts.ConsecutiveFailures >= uint32(opts.BreakerMaxFailures)
		},
		IsSuccessful: func(err error) bool {
			// A cancelled load says nothing about the asset directory
			return err == nil || errors.Is(err, context.Canceled)
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			logger.Info(context.Background(), "circuit breaker state changed",
				"name", name,
				"from", from,
				"to", to,
			)
		},
	}

	return &Loader{
		opts:    opts,
		breaker: gobreaker.NewCircuitBreaker(settings),
		manager: manager,
		logger:  logger,
		results: make(chan Result, opts.QueueSize),
	}
}

// State returns the circuit breaker state
func (l *Loader) State() gobreaker.State {
	return l.breaker.State()
}

// Load reads, decodes and resamples the texture for key, bounded by the
// load timeout. It blocks; LoadAll runs it in the background.
func (l *Loader) Load(ctx context.Context, key string) (*scene.Texture, error) {
	if l.opts.LoadTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, l.opts.LoadTimeout)
		defer cancel()
	}

	v, err := l.breaker.Execute(func() (interface{}, error) {
		return l.loadFile(ctx, key)
	})
	if err != nil {
		return nil, fmt.Errorf("load texture %q: %w", key, err)
	}
	return v.(*scene.Texture), nil
}

func (l *Loader) loadFile(ctx context.Context, key string) (*scene.Texture, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	path, err := l.resolve(key)
	if err != nil {
		return nil, err
	}

	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	src, format, err := image.Decode(f)
	if err != nil {
		return nil, fmt.Errorf("decode %s: %w", path, err)
	}
	// Decoding is not interruptible; drop the result if we ran out of time.
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	l.logger.Debug(ctx, "Texture decoded",
		"key", key,
		"format", format,
		"width", src.Bounds().Dx(),
		"height", src.Bounds().Dy(),
	)
	return &scene.Texture{Key: key, Image: Resample(src, l.opts.TextureSize)}, nil
}

// resolve finds the first existing file for key
func (l *Loader) resolve(key string) (string, error) {
	if key == "" || filepath.Base(key) != key {
		return "", fmt.Errorf("invalid asset key %q", key)
	}
	for _, ext := range Extensions {
		path := filepath.Join(l.opts.Dir, key+ext)
		if info, err := os.Stat(path); err == nil && !info.IsDir() {
			return path, nil
		}
	}
	return "", fmt.Errorf("%w: %s in %s", ErrNotFound, key, l.opts.Dir)
}

// Resample scales src to an equirectangular size x size/2 image
func Resample(src image.Image, size int) *image.NRGBA {
	h := size / 2
	if h < 1 {
		h = 1
	}
	dst := image.NewNRGBA(image.Rect(0, 0, size, h))
	xdraw.CatmullRom.Scale(dst, dst.Bounds(), src, src.Bounds(), xdraw.Src, nil)
	return dst
}

// job is one queued texture load
type job struct {
	index int
	key   string
	mat   *scene.Material
}

// LoadAll queues one background load per body of s and returns how many
// were queued. The queue is drained by up to Workers tracked goroutines, so
// a small worker count delays loads instead of dropping them. Each finished
// load is applied to the body's material and reported through Poll.
func (l *Loader) LoadAll(ctx context.Context, s *scene.State) (int, error) {
	if !s.Live() {
		return 0, scene.ErrTornDown
	}

	jobs := make(chan job, len(s.Bodies))
	for i := range s.Bodies {
		b := &s.Bodies[i]
		jobs <- job{index: b.Index, key: b.AssetKey, mat: b.Mesh.Material}
	}
	close(jobs)

	workers := min(l.opts.Workers, len(s.Bodies))
	started := 0
	var startErr error
	for w := 0; w < workers; w++ {
		err := l.manager.StartGoroutine(ctx, fmt.Sprintf("textures:%d", w), func(gctx context.Context) {
			l.work(gctx, jobs)
		})
		if err != nil {
			startErr = err
			break
		}
		started++
	}
	if started == 0 && len(s.Bodies) > 0 {
		return 0, fmt.Errorf("start texture workers: %w", startErr)
	}
	if startErr != nil {
		l.logger.Warn(ctx, "Fewer texture workers than configured",
			"started", started,
			"configured", workers,
			"error", startErr.Error(),
		)
	}
	return len(s.Bodies), nil
}

// work loads queued textures until the queue is empty or ctx is done
func (l *Loader) work(ctx context.Context, jobs <-chan job) {
	for j := range jobs {
		if ctx.Err() != nil {
			return
		}
		begin := time.Now()
		tex, err := l.Load(ctx, j.key)
		l.deliver(ctx, l.complete(j.mat, j.index, j.key, tex, err, time.Since(begin)))
	}
}

// complete swaps tex into mat and builds the result for the frame thread
func (l *Loader) complete(mat *scene.Material, index int, key string, tex *scene.Texture, err error, d time.Duration) Result {
	if err == nil && !mat.SetTexture(tex) {
		tex, err = nil, ErrDisposed
	}
	return Result{Index: index, Key: key, Texture: tex, Err: err, Duration: d}
}

func (l *Loader) deliver(ctx context.Context, r Result) {
	select {
	case l.results <- r:
	case <-ctx.Done():
	}
}

// Poll returns every result delivered since the last call without blocking.
// Call it from the frame thread.
func (l *Loader) Poll() []Result {
	var out []Result
	for {
		select {
		case r := <-l.results:
			out = append(out, r)
		default:
			return out
		}
	}
}
