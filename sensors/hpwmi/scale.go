package hpwmi

import "math"

const (
	milli = 1000

	// 0 degrees Celsius in milli-Kelvin.
	milliKelvinOffset = 273150
)

// divRoundClosest divides rounding half away from zero, so repeated
// decade shrinks do not drift downward the way truncation would.
func divRoundClosest(v, d int64) int64 {
	if v >= 0 {
		return (v + d/2) / d
	}
	return (v - d/2) / d
}

// scaleReading converts the raw reading and decimal modifier into the
// category's canonical unit: RPM for air-flow sensors, thousandths of
// the base unit for everything else. Fahrenheit and Kelvin temperatures
// are converted to milli-Celsius afterwards.
//
// The arithmetic saturates at the maximum int64 instead of wrapping, so
// no (reading, modifier) pair can trap or fabricate a small value.
func scaleReading(ns *NumericSensor) int64 {
	target := int32(-3)
	if ns.SensorType == TypeAirFlow {
		target = 0
	}

	val := int64(ns.CurrentReading)

	for modifier := ns.UnitModifier; modifier < target; modifier++ {
		val = divRoundClosest(val, 10)
	}

	for modifier := ns.UnitModifier; modifier > target; modifier-- {
		if val > math.MaxInt64/10 {
			val = math.MaxInt64
			break
		}
		val *= 10
	}

	if ns.SensorType == TypeTemperature {
		switch ns.BaseUnits {
		case UnitsDegreesF:
			val -= 32 * milli
			// Split the computation so a large value cannot overflow
			// the intermediate multiply.
			if val <= math.MaxInt64/5 {
				val = val * 5 / 9
			} else {
				val = val / 9 * 5
			}

		case UnitsDegreesK:
			val -= milliKelvinOffset
		}
	}

	return val
}
