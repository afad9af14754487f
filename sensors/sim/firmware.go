// Package sim provides an in-memory firmware stand-in for development
// and testing. It speaks the same record format as the real management
// channel, so everything downstream of sensors.Transport is exercised
// unchanged.
package sim

import (
	"math/rand"
	"sync"

	"github.com/edlorenzo/hpsensors/sensors"
	"github.com/edlorenzo/hpsensors/sensors/hpwmi"
)

// Sensor describes one simulated firmware sensor instance.
type Sensor struct {
	Name           string
	Description    string
	TypeCode       uint32
	StatusCode     uint32
	CurrentState   string
	PossibleStates []string
	UnitsCode      uint32
	Modifier       int32
	Reading        uint32

	// Drift is the largest random-walk step applied to Reading on each
	// poll. Zero keeps the reading constant.
	Drift uint32
}

// Firmware implements sensors.Transport over a fixed set of simulated
// sensors. Readings take a small random walk on every poll.
type Firmware struct {
	mu      sync.Mutex
	rng     *rand.Rand
	sensors []*Sensor
}

// New builds a firmware with the given instances, in instance order.
func New(seed int64, instances ...*Sensor) *Firmware {
	return &Firmware{
		rng:     rand.New(rand.NewSource(seed)),
		sensors: instances,
	}
}

// DefaultProfile models a small business desktop: CPU package
// temperature, CPU core voltage, a chassis fan, and a second fan header
// with nothing attached.
func DefaultProfile(seed int64) *Firmware {
	states := []string{"Normal", "Caution", "Critical", "Not Present"}

	return New(seed,
		&Sensor{
			Name:           "CPU Thermal Index",
			Description:    "CPU package temperature",
			TypeCode:       hpwmi.TypeTemperature,
			StatusCode:     hpwmi.StatusOK,
			CurrentState:   "Normal",
			PossibleStates: states,
			UnitsCode:      hpwmi.UnitsDegreesC,
			Modifier:       -3,
			Reading:        42000,
			Drift:          500,
		},
		&Sensor{
			Name:           "VCORE",
			Description:    "CPU core voltage",
			TypeCode:       hpwmi.TypeVoltage,
			StatusCode:     hpwmi.StatusOK,
			CurrentState:   "Normal",
			PossibleStates: states,
			UnitsCode:      hpwmi.UnitsVolts,
			Modifier:       -3,
			Reading:        1215,
			Drift:          10,
		},
		&Sensor{
			Name:           "Chassis Fan",
			Description:    "Rear chassis fan tachometer",
			TypeCode:       hpwmi.TypeAirFlow,
			StatusCode:     hpwmi.StatusOK,
			CurrentState:   "Normal",
			PossibleStates: states,
			UnitsCode:      hpwmi.UnitsRPM,
			Modifier:       0,
			Reading:        980,
			Drift:          40,
		},
		&Sensor{
			Name:           "Aux Fan",
			Description:    "Auxiliary fan header",
			TypeCode:       hpwmi.TypeAirFlow,
			StatusCode:     hpwmi.StatusNoContact,
			CurrentState:   "Not Present",
			PossibleStates: states,
			UnitsCode:      hpwmi.UnitsRPM,
			Modifier:       0,
			Reading:        0,
		},
	)
}

// Query implements sensors.Transport.
func (f *Firmware) Query(instance uint8) (*sensors.Object, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	if int(instance) >= len(f.sensors) {
		return nil, nil
	}

	s := f.sensors[instance]
	s.walk(f.rng)

	return s.record(), nil
}

func (s *Sensor) walk(rng *rand.Rand) {
	if s.Drift == 0 {
		return
	}

	step := rng.Int63n(2*int64(s.Drift)+1) - int64(s.Drift)
	next := int64(s.Reading) + step
	if next < 0 {
		next = 0
	}
	s.Reading = uint32(next)
}

// record flattens the sensor into wire shape. The OtherSensorType slot
// is always present, and the PossibleStates strings are spliced directly
// into the field sequence without a count, as the firmware does.
func (s *Sensor) record() *sensors.Object {
	elems := []sensors.Object{
		{Type: sensors.TypeString, Text: s.Name},
		{Type: sensors.TypeString, Text: s.Description},
		{Type: sensors.TypeInteger, Value: uint64(s.TypeCode)},
		{Type: sensors.TypeString, Text: ""},
		{Type: sensors.TypeInteger, Value: uint64(s.StatusCode)},
		{Type: sensors.TypeString, Text: s.CurrentState},
	}

	for _, state := range s.PossibleStates {
		elems = append(elems, sensors.Object{Type: sensors.TypeString, Text: state})
	}

	elems = append(elems,
		sensors.Object{Type: sensors.TypeInteger, Value: uint64(s.UnitsCode)},
		sensors.Object{Type: sensors.TypeInteger, Value: uint64(uint32(s.Modifier))},
		sensors.Object{Type: sensors.TypeInteger, Value: uint64(s.Reading)},
	)

	return &sensors.Object{Type: sensors.TypePackage, Elements: elems}
}
