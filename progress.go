package lidar

import (
	"sync/atomic"
	"time"
)

type (

	// Stats counts finished tiles. Safe for concurrent reads.
	Stats struct {
		total   int64
		written int64
		failed  int64
		bytes   uint64
	}

	// ProgressFunc to show progress state, called by RunProgress based on interval.
	ProgressFunc func(d *Download)
)

// Total returns the number of tiles in the grid.
func (s *Stats) Total() int64 {
	return atomic.LoadInt64(&s.total)
}

// Written returns the number of tiles saved to disk.
func (s *Stats) Written() int64 {
	return atomic.LoadInt64(&s.written)
}

// Failed returns the number of tiles whose fetch failed.
func (s *Stats) Failed() int64 {
	return atomic.LoadInt64(&s.failed)
}

// Done returns written plus failed tiles.
func (s *Stats) Done() int64 {
	return s.Written() + s.Failed()
}

// Bytes returns the number of body bytes written.
func (s *Stats) Bytes() uint64 {
	return atomic.LoadUint64(&s.bytes)
}

func (s *Stats) setTotal(n int) {
	atomic.StoreInt64(&s.total, int64(n))
}

func (s *Stats) addWritten(n int) {
	atomic.AddInt64(&s.written, 1)
	atomic.AddUint64(&s.bytes, uint64(n))
}

func (s *Stats) addFailed() {
	atomic.AddInt64(&s.failed, 1)
}

// RunProgress runs fn every Interval until the download stops, then once more
// with the final state. Call it after Init.
func (d *Download) RunProgress(fn ProgressFunc) {

	if d.Interval == 0 {
		d.Interval = 200
	}

	sleepd := time.Duration(d.Interval) * time.Millisecond

	for {

		if atomic.LoadInt32(&d.stopProgress) == 1 {
			fn(d)
			break
		}

		select {
		case <-d.ctx.Done():
			return
		default:
		}

		fn(d)

		time.Sleep(sleepd)
	}
}

// StopProgress ends RunProgress loops.
func (d *Download) StopProgress() {
	atomic.StoreInt32(&d.stopProgress, 1)
}

// TotalCost returns the time since Init.
func (d *Download) TotalCost() time.Duration {
	return time.Since(d.startedAt)
}
