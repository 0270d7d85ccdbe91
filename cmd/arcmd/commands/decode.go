package commands

import (
	"bytes"
	"context"
	"encoding/hex"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"runtime"

	"golang.org/x/sync/errgroup"

	"github.com/Parrot-Developers/libARCommands-sub000/pkg/codec"
	"github.com/Parrot-Developers/libARCommands-sub000/pkg/log"
	"github.com/Parrot-Developers/libARCommands-sub000/pkg/metrics"
	"github.com/Parrot-Developers/libARCommands-sub000/pkg/model"
	"github.com/Parrot-Developers/libARCommands-sub000/pkg/transport"
)

// DecodeOptions controls the decode command.
type DecodeOptions struct {
	// NoFilter decodes every frame regardless of the configured filter.
	NoFilter bool

	// Quiet prints only the summary.
	Quiet bool

	// Metrics writes Prometheus metrics in text format to this file.
	Metrics string

	// Jobs bounds the number of captures decoded at once. Zero uses
	// GOMAXPROCS.
	Jobs int
}

// DecodeStats counts the outcome of every frame of a capture.
type DecodeStats struct {
	Frames    int
	Decoded   int
	Filtered  int
	Unknown   int
	Truncated int
	Errors    int
}

func (s *DecodeStats) add(o DecodeStats) {
	s.Frames += o.Frames
	s.Decoded += o.Decoded
	s.Filtered += o.Filtered
	s.Unknown += o.Unknown
	s.Truncated += o.Truncated
	s.Errors += o.Errors
}

type captureResult struct {
	out   bytes.Buffer
	stats DecodeStats
}

// RunDecode decodes every frame of the captures at paths, printing one line
// per frame and a summary. Captures are decoded concurrently, each in its
// own session, and their output is printed in argument order. Frame-level
// failures are counted, not returned; the error reports an unreadable or
// corrupt capture.
func RunDecode(ctx context.Context, env *Env, paths []string, opts DecodeOptions, w io.Writer) (*DecodeStats, error) {
	if len(paths) == 0 {
		return nil, errors.New("no capture given")
	}

	collector := metrics.New()
	loggers := []log.Logger{collector}
	if p := env.Config.Log.ProtocolLog; p != "" {
		fl, err := log.NewFileLogger(p)
		if err != nil {
			return nil, fmt.Errorf("open protocol log: %w", err)
		}
		defer fl.Close()
		loggers = append(loggers, fl)
	}
	if env.Logger.Enabled(ctx, slog.LevelDebug) {
		loggers = append(loggers, log.NewSlogAdapter(env.Logger))
	}
	logger := log.NewMultiLogger(loggers...)

	jobs := opts.Jobs
	if jobs <= 0 {
		jobs = runtime.GOMAXPROCS(0)
	}
	results := make([]captureResult, len(paths))
	grp, gctx := errgroup.WithContext(ctx)
	grp.SetLimit(jobs)
	for i, path := range paths {
		i, path := i, path
		grp.Go(func() error {
			r := &results[i]
			if err := decodeCapture(gctx, env, path, logger, opts, &r.out, &r.stats); err != nil {
				return fmt.Errorf("%s: %w", path, err)
			}
			return nil
		})
	}
	err := grp.Wait()

	var total DecodeStats
	for i := range results {
		r := &results[i]
		if len(paths) > 1 && r.out.Len() > 0 {
			fmt.Fprintf(w, "== %s\n", paths[i])
		}
		if _, werr := r.out.WriteTo(w); werr != nil && err == nil {
			err = werr
		}
		total.add(r.stats)
	}
	if err != nil {
		return &total, err
	}

	fmt.Fprintf(w, "frames=%d decoded=%d filtered=%d unknown=%d truncated=%d errors=%d\n",
		total.Frames, total.Decoded, total.Filtered, total.Unknown, total.Truncated, total.Errors)

	if opts.Metrics != "" {
		if err := collector.WriteTextfile(opts.Metrics); err != nil {
			return &total, fmt.Errorf("write metrics: %w", err)
		}
	}
	return &total, nil
}

// decodeCapture decodes one capture file into w, counting into stats.
func decodeCapture(ctx context.Context, env *Env, path string, logger log.Logger, opts DecodeOptions, w io.Writer, stats *DecodeStats) error {
	in, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("open capture: %w", err)
	}
	defer in.Close()

	session := transport.NewSessionID()
	decOpts := []codec.Option{codec.WithLogger(logger, session), codec.WithSource(path)}
	if !opts.NoFilter {
		f, err := env.Config.NewFilter(env.Registry)
		if err != nil {
			return fmt.Errorf("build filter: %w", err)
		}
		defer f.Close()
		f.SetLogger(logger, session)
		decOpts = append(decOpts, codec.WithFilter(f))
	}
	dec := codec.NewDecoder(env.Registry, decOpts...)
	defer dec.Close()

	var (
		current []byte
		out     = make([]byte, codec.MaxCommandSize)
	)
	report := func(format string, args ...any) {
		if !opts.Quiet {
			fmt.Fprintf(w, "[%d] "+format+"\n", append([]any{stats.Frames}, args...)...)
		}
	}
	onCommand := func(model.Identity, []any, any) {
		n, err := dec.Describe(current, out)
		if err != nil {
			report("%s (describe: %v)", hex.EncodeToString(current), err)
			return
		}
		report("%s", out[:n])
	}
	for _, info := range env.Registry.Commands() {
		if err := dec.SetCallback(info.ID, onCommand, nil); err != nil {
			return err
		}
	}

	fr := transport.NewFrameReader(in)
	fr.SetLogger(logger, session)
	fr.SetSource(path)

	env.Logger.Info("decoding capture", "path", path, "session", session, "filter", !opts.NoFilter)
	_, err = transport.ReadLoop(ctx, fr, func(frame []byte) error {
		stats.Frames++
		current = frame
		err := dec.Decode(frame)
		switch {
		case err == nil:
			stats.Decoded++
		case errors.Is(err, codec.ErrFiltered):
			stats.Filtered++
			id, _ := transport.PeekIdentity(frame)
			report("BLOCKED %s", commandName(env.Registry, id))
		case errors.Is(err, codec.ErrUnknownCommand):
			stats.Unknown++
			text, _ := codec.DescribeString(env.Registry, frame)
			report("%s", text)
		case errors.Is(err, codec.ErrNotEnoughData):
			stats.Truncated++
			report("truncated: %s", hex.EncodeToString(frame))
		default:
			stats.Errors++
			report("error: %v", err)
		}
		return nil
	})
	if err != nil {
		return fmt.Errorf("read capture: %w", err)
	}
	env.Logger.Debug("capture decoded", "path", path, "frames", stats.Frames)
	return nil
}

func commandName(reg *model.Registry, id model.Identity) string {
	if name := reg.Name(id); name != "" {
		return name
	}
	return id.String()
}
