package hpwmi

import (
	"time"

	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"
)

// UpdateInterval returns the background refresh interval in
// milliseconds; 0 means background refresh is disabled.
func (c *Chip) UpdateInterval() int64 {
	c.mu.Lock()
	defer c.mu.Unlock()

	return c.updateInterval
}

// SetUpdateInterval changes the background refresh interval. ms must be
// 0 (disable) or within [MinUpdateInterval, MaxUpdateInterval]. Any
// running refresh pass is waited out before the change takes effect, so
// a disable cannot race a refresh already in progress. Concurrent calls
// are serialized: at most one refresh loop ever exists.
func (c *Chip) SetUpdateInterval(ms int64) error {
	if ms != 0 && (ms < MinUpdateInterval || ms > MaxUpdateInterval) {
		return errors.Errorf("update interval %d ms out of range [%d, %d]",
			ms, MinUpdateInterval, MaxUpdateInterval)
	}

	c.admin.Lock()
	defer c.admin.Unlock()

	c.stopRefresh()

	c.mu.Lock()
	defer c.mu.Unlock()

	c.updateInterval = ms
	if ms != 0 {
		c.startRefreshLocked()
	}

	return nil
}

// stopRefresh cancels the background task and joins it. Must be called
// with c.admin held and without c.mu held; the task itself takes c.mu.
func (c *Chip) stopRefresh() {
	c.mu.Lock()
	stop, done := c.refreshStop, c.refreshDone
	c.refreshStop, c.refreshDone = nil, nil
	c.mu.Unlock()

	if stop == nil {
		return
	}

	close(stop)
	<-done
}

func (c *Chip) startRefreshLocked() {
	stop := make(chan struct{})
	done := make(chan struct{})
	c.refreshStop, c.refreshDone = stop, done

	interval := time.Duration(c.updateInterval) * time.Millisecond

	go c.refreshLoop(interval, stop, done)
}

// refreshLoop periodically refreshes every active sensor. Unlike a
// foreground read, the first failed poll disables the task entirely: a
// firmware channel that has gone bad should not be hammered on a timer.
// Re-enabling requires another SetUpdateInterval call.
func (c *Chip) refreshLoop(interval time.Duration, stop, done chan struct{}) {
	defer close(done)

	// The first pass runs immediately after an enable.
	timer := time.NewTimer(0)
	defer timer.Stop()

	for {
		select {
		case <-stop:
			return
		case <-timer.C:
		}

		if err := c.refreshAll(); err != nil {
			log.Errorf("%s, background updates disabled", err)

			c.mu.Lock()
			c.updateInterval = 0
			// Leave a newer task's channels alone if one was installed
			// while we were failing.
			if c.refreshDone == done {
				c.refreshStop, c.refreshDone = nil, nil
			}
			c.mu.Unlock()

			return
		}

		timer.Reset(interval)
	}
}

func (c *Chip) refreshAll() error {
	c.mu.Lock()
	defer c.mu.Unlock()

	for _, in := range c.info {
		if !in.active {
			continue
		}
		if err := c.refreshLocked(in); err != nil {
			return errors.Wrapf(err, "error while updating sensor %d (%s)", in.instance, in.sensor.Name)
		}
	}

	return nil
}
