package services

import (
	"context"
	"fmt"
	"net/http"
	"sort"
	"sync"
	"time"

	"country-gdp-service/backend/metrics"
	"country-gdp-service/backend/system"
)

// SourceAlerter receives upstream state changes
type SourceAlerter interface {
	IsEnabled() bool
	SendSystemAlert(title, message string, color int) error
}

// SourceHealthMonitor probes the upstream APIs between refreshes
type SourceHealthMonitor struct {
	endpoints map[string]string // source -> URL
	client    *http.Client
	alerter   SourceAlerter
	interval  time.Duration
	stopChan  chan struct{}
	stopOnce  sync.Once

	mu     sync.RWMutex
	status map[string]bool // source -> IsUp
}

func NewSourceHealthMonitor(countriesURL, exchangeURL string, timeout, interval time.Duration) *SourceHealthMonitor {
	return &SourceHealthMonitor{
		endpoints: map[string]string{
			SourceCountries: countriesURL,
			SourceExchange:  exchangeURL,
		},
		client:   &http.Client{Timeout: timeout},
		interval: interval,
		stopChan: make(chan struct{}),
		status:   make(map[string]bool),
	}
}

// SetAlerter connects an optional alert sink
func (h *SourceHealthMonitor) SetAlerter(a SourceAlerter) {
	h.alerter = a
}

func (h *SourceHealthMonitor) Start() {
	go func() {
		h.CheckSources(context.Background())

		ticker := time.NewTicker(h.interval)
		defer ticker.Stop()

		for {
			select {
			case <-ticker.C:
				h.CheckSources(context.Background())
			case <-h.stopChan:
				system.Info("Source health monitor stopped")
				return
			}
		}
	}()
	system.Info("Source health monitor started (every %s)", h.interval)
}

func (h *SourceHealthMonitor) Stop() {
	h.stopOnce.Do(func() { close(h.stopChan) })
}

// Snapshot returns the last known state of every probed source
func (h *SourceHealthMonitor) Snapshot() map[string]bool {
	h.mu.RLock()
	defer h.mu.RUnlock()

	out := make(map[string]bool, len(h.status))
	for source, up := range h.status {
		out[source] = up
	}
	return out
}

// CheckSources probes every source once and alerts on transitions
func (h *SourceHealthMonitor) CheckSources(ctx context.Context) {
	sources := make([]string, 0, len(h.endpoints))
	for source := range h.endpoints {
		sources = append(sources, source)
	}
	sort.Strings(sources)

	for _, source := range sources {
		url := h.endpoints[source]
		isUp := h.probe(ctx, url)
		if isUp {
			metrics.SourceUp.WithLabelValues(source).Set(1)
		} else {
			metrics.SourceUp.WithLabelValues(source).Set(0)
		}

		h.mu.Lock()
		wasUp, exists := h.status[source]
		h.status[source] = isUp
		h.mu.Unlock()

		if !exists {
			// First check, just record
			if !isUp {
				system.Warn("Source %s (%s) is unreachable", source, url)
			}
			continue
		}

		if wasUp && !isUp {
			system.Warn("Source %s (%s) went down", source, url)
			h.sendAlert(source, url, false)
		} else if !wasUp && isUp {
			system.Info("Source %s (%s) recovered", source, url)
			h.sendAlert(source, url, true)
		}
	}
}

// probe treats any response below 500 as reachable. Some APIs answer HEAD
// with 405, which still means the host is serving.
func (h *SourceHealthMonitor) probe(ctx context.Context, url string) bool {
	req, err := http.NewRequestWithContext(ctx, http.MethodHead, url, nil)
	if err != nil {
		return false
	}
	resp, err := h.client.Do(req)
	if err != nil {
		return false
	}
	resp.Body.Close()
	return resp.StatusCode < http.StatusInternalServerError
}

func (h *SourceHealthMonitor) sendAlert(source, url string, isUp bool) {
	if h.alerter == nil || !h.alerter.IsEnabled() {
		return
	}

	status := "DOWN"
	color := ColorRed
	title := "🚨 Data Source DOWN"
	if isUp {
		status = "UP"
		color = ColorGreen
		title = "✅ Data Source RECOVERED"
	}

	msg := fmt.Sprintf("Source **%s** (%s) is now **%s**.", source, url, status)
	if err := h.alerter.SendSystemAlert(title, msg, color); err != nil {
		system.Warn("Source alert failed: %v", err)
	}
}
