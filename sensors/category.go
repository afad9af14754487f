package sensors

// Category is one of the supported semantic sensor kinds. Fan readings
// are reported in RPM; all other categories report in thousandths of
// their canonical unit (milli-Celsius, milli-Volt, milli-Amp).
type Category int

const (
	Temperature Category = iota
	Voltage
	Current
	Fan
)

func (c Category) String() string {
	switch c {
	case Temperature:
		return "temperature"
	case Voltage:
		return "voltage"
	case Current:
		return "current"
	case Fan:
		return "fan"
	}
	return "unknown"
}

// Categories lists every supported category in a stable order.
func Categories() []Category {
	return []Category{Temperature, Voltage, Current, Fan}
}

// Attribute selects what a channel read returns.
type Attribute int

const (
	// AttrInput is the current reading in the category's canonical unit.
	AttrInput Attribute = iota

	// AttrLabel is the sensor name.
	AttrLabel

	// AttrFault reports whether the sensor is in any state other than a
	// fully-OK, non-zero-reading one. Temperature and fan channels only.
	AttrFault

	// AttrLowest and AttrHighest are the historical extremes since
	// discovery or the last history reset. Not available on fans.
	AttrLowest
	AttrHighest
)
