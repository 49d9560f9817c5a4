/*
watcher.go - Background coverage watcher

PURPOSE:
  Periodically scans every team's coverage for the coming week and
  caches the reports that contain gaps. The alerts endpoint serves the
  cache so the UI can show "Support has nobody for 18-19 on Thursday"
  without paying for a scan per page load.

DESIGN:
  - Runs a background goroutine with a configurable check interval
  - Scans weekday, non-holiday days from today over the next 7 days
  - Keeps only reports with gaps, replaced wholesale on each scan

USAGE:
  watcher := NewCoverageWatcher(store, logger)
  watcher.Start()
  // ... later
  watcher.Stop()
*/
package api

import (
	"log/slog"
	"sync"
	"time"

	"github.com/warp/attendance-engine/attendance"
	"github.com/warp/attendance-engine/planning"
)

// CoverageWatcher scans upcoming coverage on a ticker.
type CoverageWatcher struct {
	Store         *attendance.Store
	CheckInterval time.Duration

	analyzer *planning.Analyzer
	log      *slog.Logger

	mu     sync.Mutex
	alerts []planning.CoverageReport

	ticker *time.Ticker
	stop   chan struct{}
	wg     sync.WaitGroup
}

func NewCoverageWatcher(store *attendance.Store, log *slog.Logger) *CoverageWatcher {
	if log == nil {
		log = slog.Default()
	}
	return &CoverageWatcher{
		Store:         store,
		CheckInterval: 15 * time.Minute,
		analyzer:      planning.NewAnalyzer(store),
		log:           log.With("component", "coverage-watcher"),
		stop:          make(chan struct{}),
	}
}

// Start begins the watcher. Runs one scan immediately.
func (cw *CoverageWatcher) Start() {
	cw.ticker = time.NewTicker(cw.CheckInterval)
	cw.wg.Add(1)
	go cw.run()
	cw.log.Info("started", "interval", cw.CheckInterval.String())
}

// Stop stops the watcher and waits for the scan goroutine to exit.
func (cw *CoverageWatcher) Stop() {
	if cw.ticker == nil {
		return
	}
	cw.ticker.Stop()
	close(cw.stop)
	cw.wg.Wait()
	cw.log.Info("stopped")
}

// Alerts returns the gap reports from the most recent scan.
func (cw *CoverageWatcher) Alerts() []planning.CoverageReport {
	cw.mu.Lock()
	defer cw.mu.Unlock()
	out := make([]planning.CoverageReport, len(cw.alerts))
	copy(out, cw.alerts)
	return out
}

func (cw *CoverageWatcher) run() {
	defer cw.wg.Done()

	cw.Scan()
	for {
		select {
		case <-cw.ticker.C:
			cw.Scan()
		case <-cw.stop:
			return
		}
	}
}

// Scan analyzes the coming week for every team and replaces the alert cache.
// Exported so tests and the reset handler can force a scan synchronously.
func (cw *CoverageWatcher) Scan() {
	today := attendance.Today()
	window := attendance.NewDayRange(today, today.AddDays(6))

	var alerts []planning.CoverageReport
	for _, team := range cw.Store.Teams() {
		for _, r := range cw.analyzer.ScanCoverage(team, window, 0) {
			if r.HasGaps {
				alerts = append(alerts, r)
			}
		}
	}

	cw.mu.Lock()
	cw.alerts = alerts
	cw.mu.Unlock()

	cw.log.Info("scan complete", "window", window.String(), "alerts", len(alerts))
}
