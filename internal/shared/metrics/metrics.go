package metrics

import (
	"bytes"
	"fmt"
	"net/http"
	"sort"
	"strconv"
	"sync"
	"sync/atomic"

	"github.com/gin-gonic/gin"
)

// Export failure reasons.
const (
	ReasonNotFound   = "not_found"
	ReasonGeneration = "generation"
	ReasonDownload   = "download"
	ReasonOther      = "other"
)

var (
	exportRequestedTotal        atomic.Uint64
	exportCompletedTotal        atomic.Uint64
	exportDownloadFallbackTotal atomic.Uint64
	exportRateLimitedTotal      atomic.Uint64

	exportFailedTotal = newLabeledCounter(ReasonOther, ReasonNotFound, ReasonGeneration, ReasonDownload)
	exportBytesTotal  = newLabeledCounter("", "docx", "pdf", "xlsx")

	exportDuration = newHistogram([]float64{10, 25, 50, 100, 250, 500, 1000, 2500, 5000})
)

func IncExportRequested() {
	exportRequestedTotal.Add(1)
}

func IncExportCompleted() {
	exportCompletedTotal.Add(1)
}

// IncExportFailed increments the failed counter for reason. Unknown reasons count as other.
func IncExportFailed(reason string) {
	exportFailedTotal.Add(reason, 1)
}

// IncDownloadFallback counts deliveries that needed the fallback path.
func IncDownloadFallback() {
	exportDownloadFallbackTotal.Add(1)
}

// IncExportRateLimited counts export requests refused with 429.
func IncExportRateLimited() {
	exportRateLimitedTotal.Add(1)
}

// AddExportBytes adds the size of a delivered file to its format's total.
func AddExportBytes(format string, n int) {
	if n > 0 {
		exportBytesTotal.Add(format, uint64(n))
	}
}

// ObserveExportDurationMs records an export duration in milliseconds.
func ObserveExportDurationMs(value float64) {
	if value < 0 {
		value = 0
	}
	exportDuration.Observe(value)
}

// Handler exposes metrics in Prometheus text format.
func Handler() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Header("Content-Type", "text/plain; version=0.0.4")
		c.String(http.StatusOK, Render())
	}
}

// Render renders metrics in Prometheus text format.
func Render() string {
	var buf bytes.Buffer
	writeCounter(&buf, "export_requests_total", "Total document exports requested", exportRequestedTotal.Load())
	writeCounter(&buf, "export_completed_total", "Total document exports delivered", exportCompletedTotal.Load())
	exportFailedTotal.write(&buf, "export_failed_total", "Total document exports failed", "reason")
	writeCounter(&buf, "export_download_fallback_total", "Total deliveries that used the fallback path", exportDownloadFallbackTotal.Load())
	writeCounter(&buf, "export_rate_limited_total", "Total export requests refused by the rate limiter", exportRateLimitedTotal.Load())
	exportBytesTotal.write(&buf, "export_bytes_total", "Total bytes of delivered exports", "format")
	writeHistogram(&buf, "export_duration_ms", "Export duration in milliseconds", exportDuration.Snapshot())
	return buf.String()
}

// labeledCounter is a counter with one label. Values outside the fixed label
// set go to fallback, or are dropped when fallback is empty, so label
// cardinality stays bounded.
type labeledCounter struct {
	fallback string
	values   map[string]*atomic.Uint64
}

func newLabeledCounter(fallback string, labels ...string) *labeledCounter {
	c := &labeledCounter{fallback: fallback, values: make(map[string]*atomic.Uint64, len(labels)+1)}
	if fallback != "" {
		labels = append(labels, fallback)
	}
	for _, l := range labels {
		c.values[l] = new(atomic.Uint64)
	}
	return c
}

func (c *labeledCounter) Add(label string, n uint64) {
	v, ok := c.values[label]
	if !ok {
		if v, ok = c.values[c.fallback]; !ok {
			return
		}
	}
	v.Add(n)
}

func (c *labeledCounter) write(buf *bytes.Buffer, name, help, label string) {
	fmt.Fprintf(buf, "# HELP %s %s\n", name, help)
	fmt.Fprintf(buf, "# TYPE %s counter\n", name)
	keys := make([]string, 0, len(c.values))
	for k := range c.values {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		fmt.Fprintf(buf, "%s{%s=%q} %d\n", name, label, k, c.values[k].Load())
	}
}

type histogram struct {
	mu      sync.Mutex
	buckets []float64
	counts  []uint64
	sum     float64
	count   uint64
}

type histogramSnapshot struct {
	buckets []float64
	counts  []uint64
	sum     float64
	count   uint64
}

func newHistogram(buckets []float64) *histogram {
	return &histogram{buckets: buckets, counts: make([]uint64, len(buckets))}
}

func (h *histogram) Observe(value float64) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.count++
	h.sum += value
	// counts are per bucket; writeHistogram accumulates them.
	if i := sort.SearchFloat64s(h.buckets, value); i < len(h.buckets) {
		h.counts[i]++
	}
}

func (h *histogram) Snapshot() histogramSnapshot {
	h.mu.Lock()
	defer h.mu.Unlock()
	return histogramSnapshot{
		buckets: append([]float64(nil), h.buckets...),
		counts:  append([]uint64(nil), h.counts...),
		sum:     h.sum,
		count:   h.count,
	}
}

func writeCounter(buf *bytes.Buffer, name, help string, value uint64) {
	fmt.Fprintf(buf, "# HELP %s %s\n# TYPE %s counter\n%s %d\n", name, help, name, name, value)
}

func writeHistogram(buf *bytes.Buffer, name, help string, snap histogramSnapshot) {
	fmt.Fprintf(buf, "# HELP %s %s\n# TYPE %s histogram\n", name, help, name)
	var cumulative uint64
	for i, bound := range snap.buckets {
		cumulative += snap.counts[i]
		fmt.Fprintf(buf, "%s_bucket{le=\"%s\"} %d\n", name, formatFloat(bound), cumulative)
	}
	fmt.Fprintf(buf, "%s_bucket{le=\"+Inf\"} %d\n", name, snap.count)
	fmt.Fprintf(buf, "%s_sum %s\n", name, formatFloat(snap.sum))
	fmt.Fprintf(buf, "%s_count %d\n", name, snap.count)
}

func formatFloat(value float64) string {
	if value == float64(int64(value)) {
		return strconv.FormatInt(int64(value), 10)
	}
	return strconv.FormatFloat(value, 'f', -1, 64)
}
