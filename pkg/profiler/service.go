// Package profiler exposes pprof endpoints and periodically logs runtime
// statistics of the daemon. On shutdown it dumps all gathered Prometheus
// metrics, the relay counters included, to a stats file for post-mortem
// inspection.
package profiler

import (
	"bufio"
	"context"
	"fmt"
	"net/http"
	_ "net/http/pprof"
	"os"
	"path/filepath"
	"runtime"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	log "github.com/sirupsen/logrus"
)

const (
	minPort = 1024
	maxPort = 49151

	megabyte = 1 << 20
)

// ServiceOpts holds configuration options for the profiler service.
type ServiceOpts struct {
	Port          int
	StatsInterval time.Duration
	Datadir       string
}

func (o ServiceOpts) validate() error {
	if len(o.Datadir) == 0 {
		return fmt.Errorf("missing profiler datadir")
	}
	if o.Port < minPort || o.Port > maxPort {
		return fmt.Errorf("port must be in range [%d, %d]", minPort, maxPort)
	}
	if o.StatsInterval <= 0 {
		return fmt.Errorf("missing stats interval")
	}
	return nil
}

func (o ServiceOpts) address() string {
	return fmt.Sprintf(":%d", o.Port)
}

// ProfilerService is the data structure representing a profiler webserver.
type ProfilerService struct {
	opts   ServiceOpts
	server *http.Server
	stopFn context.CancelFunc

	log  func(format string, a ...interface{})
	warn func(err error, format string, a ...interface{})
}

// NewService returns a new Profiler instance.
func NewService(opts ServiceOpts) (*ProfilerService, error) {
	if err := opts.validate(); err != nil {
		return nil, err
	}
	server := &http.Server{Addr: opts.address()}
	logFn := func(format string, a ...interface{}) {
		format = fmt.Sprintf("profiler: %s", format)
		log.Debugf(format, a...)
	}
	warnFn := func(err error, format string, a ...interface{}) {
		format = fmt.Sprintf("profiler: %s", format)
		log.WithError(err).Warnf(format, a...)
	}
	return &ProfilerService{opts, server, nil, logFn, warnFn}, nil
}

// Start starts the profiler webserver and the periodic stats logging.
func (s *ProfilerService) Start() error {
	runtime.SetBlockProfileRate(1)
	go s.server.ListenAndServe()

	ctx, cancel := context.WithCancel(context.Background())
	s.stopFn = cancel
	go s.gatherStats(ctx)

	s.log("start at url http://localhost:%d/debug/pprof/", s.opts.Port)
	return nil
}

// Stop stops the profiler and dumps the gathered metrics to disk.
func (s *ProfilerService) Stop() {
	s.stopFn()
	s.server.Shutdown(context.Background())
	s.log("stop")
}

func (s *ProfilerService) gatherStats(ctx context.Context) {
	ticker := time.NewTicker(s.opts.StatsInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			s.printRuntimeStats()
		case <-ctx.Done():
			if err := s.dumpMetrics(); err != nil {
				s.warn(err, "error while dumping metrics")
			}
			return
		}
	}
}

func (s *ProfilerService) printRuntimeStats() {
	var memStats runtime.MemStats
	runtime.ReadMemStats(&memStats)

	s.log(
		"heap allocated: %.1fMB, total allocated: %.1fMB, "+
			"gc cycles: %d, goroutines: %d",
		toMegabytes(memStats.HeapAlloc),
		toMegabytes(memStats.TotalAlloc),
		memStats.NumGC,
		runtime.NumGoroutine(),
	)
}

// dumpMetrics writes all registered Prometheus metrics to a timestamped
// file inside the profiler datadir.
func (s *ProfilerService) dumpMetrics() error {
	file, err := os.OpenFile(
		filepath.Join(s.opts.Datadir, time.Now().Format(time.RFC3339)),
		os.O_APPEND|os.O_CREATE|os.O_RDWR,
		0644,
	)
	if err != nil {
		return err
	}
	defer file.Close()

	writer := bufio.NewWriter(file)
	defer writer.Flush()

	metricFamilies, err := prometheus.DefaultGatherer.Gather()
	if err != nil {
		return err
	}
	for _, mf := range metricFamilies {
		if _, err := writer.WriteString(mf.String() + "\n"); err != nil {
			return err
		}
	}
	return nil
}

func toMegabytes(bytes uint64) float64 {
	return float64(bytes) / megabyte
}
