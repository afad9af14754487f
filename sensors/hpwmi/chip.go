package hpwmi

import (
	"math"
	"sync"
	"time"

	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"

	"github.com/edlorenzo/hpsensors/sensors"
)

// ErrNoData is returned by Discover when the firmware reports no sensor
// instances at all.
var ErrNoData = errors.New("no sensor instances found")

// cacheTTL is how long a polled reading stays fresh before a read
// triggers a new firmware query.
const cacheTTL = time.Second

// info is the live state of one discovered sensor instance.
type info struct {
	sensor   NumericSensor
	instance uint8

	// active means the sensor classified cleanly and was connected at
	// discovery. Set once; inactive sensors never join the numeric
	// channels but stay visible through snapshots.
	active   bool
	category sensors.Category

	cached  int64 // scaled reading in the canonical unit
	lo, hi  int64 // historical extremes, non-fan only
	updated time.Time
}

// Chip owns every discovered sensor instance and serializes all firmware
// polling and state mutation through one mutex. The transport is not
// assumed safe for concurrent instance queries, so at most one query is
// in flight at any time. Polling volume is sub-Hz; a single coarse lock
// is a deliberate simplicity trade-off, not an oversight.
type Chip struct {
	transport sensors.Transport

	// admin serializes enable/disable of the background refresh task.
	// The stop-join-install sequence spans a window where c.mu is
	// released; without this lock two concurrent interval changes could
	// each miss the other's loop and install twice, orphaning one.
	admin sync.Mutex

	mu   sync.Mutex
	info []*info

	// channels holds dense per-category indices into info, assigned in
	// discovery order. Built once; external consumers address sensors
	// by (category, index), so this ordering must stay stable.
	channels map[sensors.Category][]*info

	updateInterval int64 // milliseconds; 0 disables background refresh
	refreshStop    chan struct{}
	refreshDone    chan struct{}

	now func() time.Time
	ttl time.Duration
}

// Discover queries the transport for sensor instances 0 upward, stopping
// at the first absent one, and builds a Chip around what it finds.
//
// A malformed record on instance 0 is fatal: the channel is presumed
// unusable. A malformed record later merely ends discovery there,
// keeping the instances already found. Sensors with unsupported
// (type, unit) pairs and sensors reporting "No Contact" are permanently
// excluded from the numeric channels but remain visible via snapshots.
func Discover(t sensors.Transport) (*Chip, error) {
	c := &Chip{
		transport: t,
		channels:  make(map[sensors.Category][]*info),
		now:       time.Now,
		ttl:       cacheTTL,
	}

	active := 0
	for i := 0; i < MaxInstances; i++ {
		obj, err := t.Query(uint8(i))
		if err != nil {
			log.Warnf("query instance %d: %s, stopping discovery", i, err)
			break
		}
		if obj == nil {
			break
		}

		ns, err := decodeNumericSensor(obj)
		if err != nil {
			if i == 0 {
				return nil, errors.Wrap(err, "instance 0")
			}
			log.Warnf("instance %d: %s, stopping discovery", i, err)
			break
		}

		in := &info{sensor: *ns, instance: uint8(i)}
		c.info = append(c.info, in)

		cat, ok := classify(ns)
		if !ok || !ns.connected() {
			continue
		}

		in.active = true
		in.category = cat
		in.lo = math.MaxInt64
		in.hi = math.MinInt64
		c.interpret(in)

		c.channels[cat] = append(c.channels[cat], in)
		active++
	}

	if len(c.info) == 0 {
		return nil, ErrNoData
	}

	log.Debugf("found %d sensors (%d active, %d categories)",
		len(c.info), active, len(c.channels))

	return c, nil
}

// Close stops the background refresh task. The chip remains readable.
func (c *Chip) Close() {
	c.admin.Lock()
	defer c.admin.Unlock()

	c.stopRefresh()
}

// interpret rescales the cached reading and stamps the refresh time.
// Called after the sensor record has been populated or updated, with the
// chip lock held (or before the chip is shared).
func (c *Chip) interpret(in *info) {
	in.cached = scaleReading(&in.sensor)

	if in.active && in.category != sensors.Fan {
		if in.cached < in.lo {
			in.lo = in.cached
		}
		if in.cached > in.hi {
			in.hi = in.cached
		}
	}

	in.updated = c.now()
}

// refreshLocked re-polls the instance if its cached reading has gone
// stale, re-decoding only the fungible fields. Caller must hold c.mu.
// On failure the previously cached state is retained.
func (c *Chip) refreshLocked(in *info) error {
	if c.now().Sub(in.updated) < c.ttl {
		return nil
	}

	obj, err := c.transport.Query(in.instance)
	if err != nil {
		return errors.Wrapf(err, "query instance %d", in.instance)
	}
	if obj == nil {
		return errors.Errorf("instance %d returned no data", in.instance)
	}

	if err := updateNumericSensor(&in.sensor, obj); err != nil {
		return errors.Wrapf(err, "instance %d", in.instance)
	}

	c.interpret(in)

	return nil
}

func (c *Chip) channelLocked(cat sensors.Category, channel int) (*info, error) {
	chans := c.channels[cat]
	if channel < 0 || channel >= len(chans) {
		return nil, errors.Errorf("no %s channel %d", cat, channel)
	}
	return chans[channel], nil
}

// Channels returns the number of channels in a category.
func (c *Chip) Channels(cat sensors.Category) int {
	c.mu.Lock()
	defer c.mu.Unlock()

	return len(c.channels[cat])
}

// IsVisible reports whether an attribute exists for a channel.
func (c *Chip) IsVisible(cat sensors.Category, attr sensors.Attribute, channel int) bool {
	c.mu.Lock()
	defer c.mu.Unlock()

	if channel < 0 || channel >= len(c.channels[cat]) {
		return false
	}

	switch attr {
	case sensors.AttrInput, sensors.AttrLabel:
		return true
	case sensors.AttrFault:
		return cat == sensors.Temperature || cat == sensors.Fan
	case sensors.AttrLowest, sensors.AttrHighest:
		return cat != sensors.Fan
	}

	return false
}

// Read returns a channel attribute, refreshing the sensor first if its
// cached reading has expired. A transport failure surfaces to this
// caller only; other sensors' cache entries are unaffected.
func (c *Chip) Read(cat sensors.Category, attr sensors.Attribute, channel int) (int64, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	in, err := c.channelLocked(cat, channel)
	if err != nil {
		return 0, err
	}

	if err := c.refreshLocked(in); err != nil {
		return 0, err
	}

	switch attr {
	case sensors.AttrFault:
		if in.sensor.hasFault() {
			return 1, nil
		}
		return 0, nil

	case sensors.AttrLowest:
		return in.lo, nil

	case sensors.AttrHighest:
		return in.hi, nil

	default:
		return in.cached, nil
	}
}

// ReadLabel returns the sensor name behind a channel.
func (c *Chip) ReadLabel(cat sensors.Category, channel int) (string, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	in, err := c.channelLocked(cat, channel)
	if err != nil {
		return "", err
	}

	return in.sensor.Name, nil
}

func resetHistoryLocked(in *info) {
	if in.category != sensors.Fan {
		in.lo = in.cached
		in.hi = in.cached
	}
}

// ResetHistory resets the historical extremes of every channel in a
// category to its current cached reading.
func (c *Chip) ResetHistory(cat sensors.Category) {
	c.mu.Lock()
	defer c.mu.Unlock()

	for _, in := range c.channels[cat] {
		resetHistoryLocked(in)
	}
}

// ResetChannelHistory resets the historical extremes of one channel.
func (c *Chip) ResetChannelHistory(cat sensors.Category, channel int) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	in, err := c.channelLocked(cat, channel)
	if err != nil {
		return err
	}

	resetHistoryLocked(in)

	return nil
}
