package hpwmi

import "github.com/edlorenzo/hpsensors/sensors"

// classify maps a sensor's (type, unit) pair onto a supported category.
// The schema allows many more combinations than the four below; anything
// else is reported unsupported rather than guessed at, so a
// "Temperature" sensor counted in RPM never reaches a consumer.
func classify(ns *NumericSensor) (sensors.Category, bool) {
	switch ns.SensorType {
	case TypeTemperature:
		switch ns.BaseUnits {
		case UnitsDegreesC, UnitsDegreesF, UnitsDegreesK:
			return sensors.Temperature, true
		}

	case TypeVoltage:
		if ns.BaseUnits == UnitsVolts {
			return sensors.Voltage, true
		}

	case TypeCurrent:
		if ns.BaseUnits == UnitsAmps {
			return sensors.Current, true
		}

	case TypeAirFlow:
		if ns.BaseUnits == UnitsRPM {
			return sensors.Fan, true
		}
	}

	return 0, false
}

// connected reports whether the sensor is physically present. A "No
// Contact" status means absent hardware, not a transient fault.
func (ns *NumericSensor) connected() bool {
	return ns.OperationalStatus != StatusNoContact
}

// hasFault reports whether the sensor is in any state other than a
// fully-OK, non-zero-reading one.
func (ns *NumericSensor) hasFault() bool {
	return ns.OperationalStatus != StatusOK || ns.CurrentReading == 0
}
