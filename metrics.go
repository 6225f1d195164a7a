package knnmeans

import (
	"sync/atomic"
	"time"
)

// MetricsCollector defines an interface for collecting operational metrics.
// Implement this interface to integrate with monitoring systems like Prometheus.
type MetricsCollector interface {
	// RecordLoad is called after each dataset load.
	RecordLoad(records int, duration time.Duration, err error)

	// RecordCondense is called after each condensing run.
	RecordCondense(passes, condensed int, duration time.Duration, err error)

	// RecordClassify is called after each classification report.
	// samples is the size of the test set, ks the number of k values evaluated.
	RecordClassify(samples, ks int, duration time.Duration, err error)

	// RecordCluster is called after each k-means run.
	RecordCluster(k, iterations int, duration time.Duration, err error)

	// RecordQuality is called after each quality index computation.
	RecordQuality(index string, duration time.Duration, err error)
}

// NoopMetricsCollector is a no-op implementation of MetricsCollector.
type NoopMetricsCollector struct{}

func (NoopMetricsCollector) RecordLoad(int, time.Duration, error)          {}
func (NoopMetricsCollector) RecordCondense(int, int, time.Duration, error) {}
func (NoopMetricsCollector) RecordClassify(int, int, time.Duration, error) {}
func (NoopMetricsCollector) RecordCluster(int, int, time.Duration, error)  {}
func (NoopMetricsCollector) RecordQuality(string, time.Duration, error)    {}

// BasicMetricsCollector provides simple in-memory metrics collection.
// Useful for debugging and for the CLI's timing summary.
type BasicMetricsCollector struct {
	LoadCount          atomic.Int64
	LoadRecords        atomic.Int64
	LoadErrors         atomic.Int64
	LoadTotalNanos     atomic.Int64
	CondenseCount      atomic.Int64
	CondensePasses     atomic.Int64
	CondenseErrors     atomic.Int64
	CondenseTotalNanos atomic.Int64
	ClassifyCount      atomic.Int64
	ClassifySamples    atomic.Int64
	ClassifyErrors     atomic.Int64
	ClassifyTotalNanos atomic.Int64
	ClusterCount       atomic.Int64
	ClusterErrors      atomic.Int64
	ClusterTotalNanos  atomic.Int64
	QualityCount       atomic.Int64
	QualityErrors      atomic.Int64
	QualityTotalNanos  atomic.Int64
}

// RecordLoad implements MetricsCollector.
func (b *BasicMetricsCollector) RecordLoad(records int, duration time.Duration, err error) {
	b.LoadCount.Add(1)
	b.LoadTotalNanos.Add(duration.Nanoseconds())
	if err != nil {
		b.LoadErrors.Add(1)
		return
	}
	b.LoadRecords.Add(int64(records))
}

// RecordCondense implements MetricsCollector.
func (b *BasicMetricsCollector) RecordCondense(passes, _ int, duration time.Duration, err error) {
	b.CondenseCount.Add(1)
	b.CondensePasses.Add(int64(passes))
	b.CondenseTotalNanos.Add(duration.Nanoseconds())
	if err != nil {
		b.CondenseErrors.Add(1)
	}
}

// RecordClassify implements MetricsCollector.
func (b *BasicMetricsCollector) RecordClassify(samples, _ int, duration time.Duration, err error) {
	b.ClassifyCount.Add(1)
	b.ClassifySamples.Add(int64(samples))
	b.ClassifyTotalNanos.Add(duration.Nanoseconds())
	if err != nil {
		b.ClassifyErrors.Add(1)
	}
}

// RecordCluster implements MetricsCollector.
func (b *BasicMetricsCollector) RecordCluster(_, _ int, duration time.Duration, err error) {
	b.ClusterCount.Add(1)
	b.ClusterTotalNanos.Add(duration.Nanoseconds())
	if err != nil {
		b.ClusterErrors.Add(1)
	}
}

// RecordQuality implements MetricsCollector.
func (b *BasicMetricsCollector) RecordQuality(_ string, duration time.Duration, err error) {
	b.QualityCount.Add(1)
	b.QualityTotalNanos.Add(duration.Nanoseconds())
	if err != nil {
		b.QualityErrors.Add(1)
	}
}

// GetStats returns a snapshot of current metrics.
func (b *BasicMetricsCollector) GetStats() BasicMetricsStats {
	return BasicMetricsStats{
		LoadCount:        b.LoadCount.Load(),
		LoadRecords:      b.LoadRecords.Load(),
		LoadErrors:       b.LoadErrors.Load(),
		LoadAvgNanos:     avg(b.LoadTotalNanos.Load(), b.LoadCount.Load()),
		CondenseCount:    b.CondenseCount.Load(),
		CondensePasses:   b.CondensePasses.Load(),
		CondenseErrors:   b.CondenseErrors.Load(),
		CondenseAvgNanos: avg(b.CondenseTotalNanos.Load(), b.CondenseCount.Load()),
		ClassifyCount:    b.ClassifyCount.Load(),
		ClassifySamples:  b.ClassifySamples.Load(),
		ClassifyErrors:   b.ClassifyErrors.Load(),
		ClassifyAvgNanos: avg(b.ClassifyTotalNanos.Load(), b.ClassifyCount.Load()),
		ClusterCount:     b.ClusterCount.Load(),
		ClusterErrors:    b.ClusterErrors.Load(),
		ClusterAvgNanos:  avg(b.ClusterTotalNanos.Load(), b.ClusterCount.Load()),
		QualityCount:     b.QualityCount.Load(),
		QualityErrors:    b.QualityErrors.Load(),
		QualityAvgNanos:  avg(b.QualityTotalNanos.Load(), b.QualityCount.Load()),
	}
}

func avg(total, count int64) int64 {
	if count == 0 {
		return 0
	}
	return total / count
}

// BasicMetricsStats is a snapshot of BasicMetricsCollector state.
type BasicMetricsStats struct {
	LoadCount        int64
	LoadRecords      int64
	LoadErrors       int64
	LoadAvgNanos     int64
	CondenseCount    int64
	CondensePasses   int64
	CondenseErrors   int64
	CondenseAvgNanos int64
	ClassifyCount    int64
	ClassifySamples  int64
	ClassifyErrors   int64
	ClassifyAvgNanos int64
	ClusterCount     int64
	ClusterErrors    int64
	ClusterAvgNanos  int64
	QualityCount     int64
	QualityErrors    int64
	QualityAvgNanos  int64
}
