package main

import (
	"context"
	"fmt"
	"net/http"
	_ "net/http/pprof"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/facebookincubator/go-belt"
	"github.com/facebookincubator/go-belt/tool/logger"
	"github.com/facebookincubator/go-belt/tool/logger/implementation/logrus"
	"github.com/spf13/pflag"
	"github.com/xaionaro-go/avsource/decoder/libav"
	"github.com/xaionaro-go/avsource/event"
	avslogger "github.com/xaionaro-go/avsource/logger"
	"github.com/xaionaro-go/avsource/param"
	"github.com/xaionaro-go/avsource/profiler"
	"github.com/xaionaro-go/avsource/source"
	"github.com/xaionaro-go/avsource/types"
	"github.com/xaionaro-go/observability"
)

func printParams() {
	fmt.Fprintf(os.Stderr, "\nsource parameters (--param key=value):\n")
	for _, desc := range source.SourceParamDescriptions() {
		fmt.Fprintf(os.Stderr, "  %s: %s\n", desc.Name, desc.Text)
	}
}

func main() {
	pflag.Usage = func() {
		fmt.Fprintf(os.Stderr, "syntax: %s [options] <file> [file...]\n", os.Args[0])
		pflag.PrintDefaults()
		printParams()
	}

	loggerLevel := logger.LevelWarning
	pflag.Var(&loggerLevel, "log-level", "Log level")
	configPath := pflag.String("config", "", "a YAML file with source parameters")
	rawParams := pflag.StringArray("param", nil, "a source parameter as key=value; overrides --config")
	loop := pflag.Bool("loop", false, "restart every file when it ends")
	frameRateString := pflag.String("framerate", "0", "limit the reading speed to the given frames per second, for example 25 or 30000/1001; zero means no limit")
	maxWidth := pflag.Uint32("max-width", 0, "the largest width the streams may switch to")
	maxHeight := pflag.Uint32("max-height", 0, "the largest height the streams may switch to")
	netPprofAddr := pflag.String("net-pprof-listen-addr", "", "an address to listen for incoming net/pprof connections")
	pflag.Parse()
	if len(pflag.Args()) == 0 {
		pflag.Usage()
		os.Exit(1)
	}

	l := logrus.Default().WithLevel(loggerLevel)
	ctx := logger.CtxWithLogger(context.Background(), l)
	ctx, cancelFn := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer cancelFn()
	avslogger.SetDefault(func() logger.Logger {
		return l
	})
	defer belt.Flush(ctx)

	if *netPprofAddr != "" {
		observability.Go(ctx, func(ctx context.Context) { l.Error(http.ListenAndServe(*netPprofAddr, nil)) })
	}

	avslogger.RouteAstiav(ctx)

	frameRate, err := types.RationalFromString(*frameRateString)
	if err != nil {
		l.Fatal(err)
	}

	raw := param.Raw{}
	if *configPath != "" {
		raw, err = param.LoadFile(*configPath)
		if err != nil {
			l.Fatal(err)
		}
	}
	for _, kv := range *rawParams {
		k, v, ok := strings.Cut(kv, "=")
		if !ok {
			l.Fatalf("invalid --param value '%s', expected key=value", kv)
		}
		raw[strings.TrimSpace(k)] = strings.TrimSpace(v)
	}

	prof := profiler.NewMemory(0)
	src, err := source.NewDataSource(ctx, "source", raw, source.DataSourceConfig{
		Profiler: prof,
	})
	if err != nil {
		printParams()
		l.Fatal(err)
	}

	maxRes := types.MaximumResolution{
		Enabled: *maxWidth > 0 && *maxHeight > 0,
		Resolution: types.Resolution{
			Width:  *maxWidth,
			Height: *maxHeight,
		},
	}
	for idx, fileName := range pflag.Args() {
		streamID := fmt.Sprintf("stream%d", idx)
		l.Debugf("opening '%s' as %s...", fileName, streamID)
		if err := src.AddSource(ctx, streamID, fileName, frameRate.Float64(), *loop, maxRes); err != nil {
			l.Fatal(err)
		}
	}

	var (
		activeStreams = len(pflag.Args())
		frames        uint64
		bytes         uint64
		failed        = make(chan string, activeStreams)
	)
	observability.Go(ctx, func(ctx context.Context) {
		for ev := range src.Events() {
			l.Errorf("%s", ev)
			if ev.Type != event.TypeStreamError {
				continue
			}
			if err := src.RemoveSource(ctx, ev.StreamID); err != nil {
				l.Errorf("unable to remove %s: %v", ev.StreamID, err)
			}
			failed <- ev.StreamID
		}
	})

	t := time.NewTicker(time.Second)
	defer t.Stop()
	defer func() {
		if err := src.Close(context.Background()); err != nil {
			l.Error(err)
		}
	}()
	for {
		select {
		case <-ctx.Done():
			return
		case streamID := <-failed:
			activeStreams--
			l.Warnf("%s failed", streamID)
			if activeStreams <= 0 {
				return
			}
		case fi := <-src.Frames():
			if fi.IsEOS() {
				activeStreams--
				l.Infof("%s ended", fi.StreamID)
				if activeStreams <= 0 {
					return
				}
				continue
			}
			frames++
			bytes += uint64(fi.Buffer.Size())
		case <-t.C:
			stats := prof.GetProcessStats(profiler.ProcessProfilerName)
			pool := libav.GetPoolStats()
			fmt.Printf(
				"frames:%s (%s); latency avg:%v max:%v; in-flight:%d; libav frames:%d/%d packets:%d/%d\n",
				humanize.Comma(int64(frames)), humanize.Bytes(bytes),
				stats.AverageLatency(), stats.MaxLatency,
				stats.Started-stats.Completed-stats.Dropped,
				pool.FramesReturned, pool.FramesAllocated,
				pool.PacketsReturned, pool.PacketsAllocated,
			)
		}
	}
}
