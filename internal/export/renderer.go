package export

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"

	"github.com/kikiluvv/slopstudio/internal/ffmpeg"
	"github.com/kikiluvv/slopstudio/internal/layer"
	"github.com/kikiluvv/slopstudio/internal/logging"
	"github.com/kikiluvv/slopstudio/internal/timeline"
	"github.com/kikiluvv/slopstudio/pkg/util"
)

// Encoder runs the actual encode. Satisfied by *ffmpeg.Executor; tests
// substitute a fake.
type Encoder interface {
	Run(ctx context.Context, opts ffmpeg.RunOptions) error
}

// ProgressFunc receives render progress. fraction is 0..1; status is a
// short human-readable stage description. Exactly one terminal call is
// made per render: "Render complete!", "Render failed!" or "Render
// cancelled".
type ProgressFunc func(fraction float64, status string)

// Request is one export job: the timeline snapshot plus output options.
type Request struct {
	Snapshot timeline.Snapshot
	Options  Options
	Progress ProgressFunc
}

// Renderer drives exports. At most one render runs at a time; a second
// Render call while busy is rejected synchronously.
type Renderer struct {
	log zerolog.Logger
	enc Encoder

	mu        sync.Mutex
	rendering bool
	cancel    context.CancelFunc
	progress  float64
	status    string
}

// NewRenderer creates an export renderer on the given encoder.
func NewRenderer(log zerolog.Logger, enc Encoder) *Renderer {
	return &Renderer{
		log: logging.WithComponent(log, "export"),
		enc: enc,
	}
}

// Render starts an export on its own goroutine. Returns false when a
// render is already in flight. Done (if non-nil) receives the final
// error exactly once.
func (r *Renderer) Render(ctx context.Context, req Request, done chan<- error) bool {
	r.mu.Lock()
	if r.rendering {
		r.mu.Unlock()
		r.log.Warn().Msg("render already in progress")
		return false
	}
	r.rendering = true
	r.progress = 0
	r.status = ""
	ctx, r.cancel = context.WithCancel(ctx)
	r.mu.Unlock()

	go func() {
		err := r.renderJob(ctx, req)
		r.mu.Lock()
		r.rendering = false
		r.cancel = nil
		r.mu.Unlock()
		if done != nil {
			done <- err
		}
	}()
	return true
}

// Cancel aborts the in-flight render, if any. The running encode process
// is killed through its context.
func (r *Renderer) Cancel() {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.rendering && r.cancel != nil {
		r.cancel()
	}
}

// IsRendering reports whether an export is in flight.
func (r *Renderer) IsRendering() bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.rendering
}

// Status returns the last reported progress fraction and stage.
func (r *Renderer) Status() (float64, string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.progress, r.status
}

func (r *Renderer) renderJob(ctx context.Context, req Request) (err error) {
	report := func(fraction float64, status string) {
		r.mu.Lock()
		r.progress = fraction
		r.status = status
		r.mu.Unlock()
		if req.Progress != nil {
			req.Progress(fraction, status)
		}
	}
	if util.GetExtension(req.Options.OutputPath) == "" {
		req.Options.OutputPath += ".mp4"
	}

	// Exactly one terminal callback, decided by the job's final error.
	// An aborted encode leaves a partial output file behind; remove it.
	defer func() {
		switch {
		case err == nil:
			report(1.0, "Render complete!")
		case ctx.Err() != nil:
			util.CleanupFiles(req.Options.OutputPath)
			report(0.0, "Render cancelled")
			err = ctx.Err()
		default:
			r.log.Error().Err(err).Msg("render failed")
			util.CleanupFiles(req.Options.OutputPath)
			report(0.0, "Render failed!")
		}
	}()

	tempDir, err := os.MkdirTemp("", "slopstudio_render_")
	if err != nil {
		return fmt.Errorf("create temp dir: %w", err)
	}
	defer os.RemoveAll(tempDir)

	report(0.0, "Initializing render...")

	if err = util.EnsureDir(filepath.Dir(req.Options.OutputPath)); err != nil {
		return fmt.Errorf("create output dir: %w", err)
	}

	snap, opts := r.preflight(ctx, req.Snapshot, req.Options)
	if err = ctx.Err(); err != nil {
		return err
	}

	assPath := filepath.Join(tempDir, "subtitles.ass")
	script := BuildScript(snap, opts.Width, opts.Height)
	if err = os.WriteFile(assPath, []byte(script), 0644); err != nil {
		return fmt.Errorf("write subtitle script: %w", err)
	}

	report(0.2, "Creating FFmpeg command...")
	args := BuildArgs(snap, assPath, opts)
	if err = ctx.Err(); err != nil {
		return err
	}

	report(0.3, "Starting video render...")
	total := snap.TotalDuration
	err = r.enc.Run(ctx, ffmpeg.RunOptions{
		Args: args,
		ProgressHandler: func(p *ffmpeg.Progress) {
			if total <= 0 || p.Time == "" {
				return
			}
			elapsed, perr := util.ParseTimestamp(p.Time)
			if perr != nil {
				return
			}
			frac := 0.35 + 0.64*(elapsed.Seconds()/total)
			if frac > 0.99 {
				frac = 0.99
			}
			report(frac, "Encoding video...")
		},
	})
	if err != nil {
		return fmt.Errorf("encode: %w", err)
	}
	return nil
}

// preflight checks every referenced asset concurrently. Image layers
// whose files are unreachable are dropped from the snapshot with a
// warning so one bad asset never aborts the batch; missing audio or
// background files are cleared the same way.
func (r *Renderer) preflight(ctx context.Context, snap timeline.Snapshot, opts Options) (timeline.Snapshot, Options) {
	type check struct {
		path string
		ok   bool
	}
	var mu sync.Mutex
	results := map[string]bool{}

	paths := map[string]struct{}{}
	for _, ls := range snap.Layers {
		if ls.Type == string(layer.KindImage) && ls.ImagePath != "" {
			paths[ls.ImagePath] = struct{}{}
		}
	}
	for _, p := range []string{opts.BackgroundVideo, opts.BackgroundMusic, opts.VoiceOver} {
		if p != "" {
			paths[p] = struct{}{}
		}
	}

	g, _ := errgroup.WithContext(ctx)
	g.SetLimit(8)
	for p := range paths {
		g.Go(func() error {
			c := check{path: p, ok: util.FileExists(p)}
			mu.Lock()
			results[c.path] = c.ok
			mu.Unlock()
			return nil
		})
	}
	g.Wait()

	kept := snap.Layers[:0:0]
	for _, ls := range snap.Layers {
		if ls.Type == string(layer.KindImage) && ls.ImagePath != "" && !results[ls.ImagePath] {
			r.log.Warn().Str("layer", ls.LayerID).Str("path", ls.ImagePath).Msg("image asset missing, skipping layer")
			continue
		}
		kept = append(kept, ls)
	}
	snap.Layers = kept

	dropMissing := func(name string, p *string) {
		if *p != "" && !results[*p] {
			r.log.Warn().Str("path", *p).Msgf("%s missing, skipping", name)
			*p = ""
		}
	}
	dropMissing("background video", &opts.BackgroundVideo)
	dropMissing("background music", &opts.BackgroundMusic)
	dropMissing("voice track", &opts.VoiceOver)
	return snap, opts
}
