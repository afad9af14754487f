// Package hpwmi decodes HP_BIOSNumericSensor records reported by HP
// business-class firmware over its WMI management channel and exposes
// them as normalized, polled numeric sensor channels.
//
// Reference: Hewlett-Packard Development Company, L.P.,
// "HP Client Management Interface Technical White Paper", 2005.
package hpwmi

import "github.com/edlorenzo/hpsensors/sensors"

// These limits are arbitrary. The WMI implementation may vary by model.
const (
	maxStrLen     = 128
	maxProperties = 32

	// MaxInstances bounds discovery; instance numbers are 0..MaxInstances-1.
	MaxInstances = 32
)

// Bounds for the background refresh interval, in milliseconds.
const (
	MinUpdateInterval = 5000      // 5 seconds
	MaxUpdateInterval = 604800000 // 7 days
)

// SensorType property values.
const (
	TypeUnknown uint32 = iota
	TypeOther
	TypeTemperature
	TypeVoltage
	TypeCurrent
	TypeTachometer
	TypeCounter
	TypeSwitch
	TypeLock
	TypeHumidity
	TypeSmokeDetection
	TypePresence
	TypeAirFlow
)

var typeNames = []string{
	TypeUnknown:        "Unknown",
	TypeOther:          "Other",
	TypeTemperature:    "Temperature",
	TypeVoltage:        "Voltage",
	TypeCurrent:        "Current",
	TypeTachometer:     "Tachometer",
	TypeCounter:        "Counter",
	TypeSwitch:         "Switch",
	TypeLock:           "Lock",
	TypeHumidity:       "Humidity",
	TypeSmokeDetection: "Smoke Detection",
	TypePresence:       "Presence",
	TypeAirFlow:        "Air Flow",
}

// TypeName returns the display string for a SensorType value.
func TypeName(v uint32) string {
	if v > TypeAirFlow {
		v = TypeUnknown
	}
	return typeNames[v]
}

// OperationalStatus property values.
const (
	StatusUnknown uint32 = iota
	StatusOther
	StatusOK
	StatusDegraded
	StatusStressed
	StatusPredictiveFailure
	StatusError
	StatusNonRecoverableError
	StatusStarting
	StatusStopping
	StatusStopped
	StatusInService
	StatusNoContact
	StatusLostCommunication
	StatusAborted
	StatusDormant
	StatusSupportingEntityInError
	StatusCompleted
	StatusPowerMode

	// StatusDMTFReserved stands in for all other values, except as below.
	StatusDMTFReserved

	// StatusVendorReserved stands in for all values with the high-order
	// bit set.
	StatusVendorReserved
)

var statusNames = []string{
	StatusUnknown:                 "Unknown",
	StatusOther:                   "Other",
	StatusOK:                      "OK",
	StatusDegraded:                "Degraded",
	StatusStressed:                "Stressed",
	StatusPredictiveFailure:       "Predictive Failure",
	StatusError:                   "Error",
	StatusNonRecoverableError:     "Non-Recoverable Error",
	StatusStarting:                "Starting",
	StatusStopping:                "Stopping",
	StatusStopped:                 "Stopped",
	StatusInService:               "In Service",
	StatusNoContact:               "No Contact",
	StatusLostCommunication:       "Lost Communication",
	StatusAborted:                 "Aborted",
	StatusDormant:                 "Dormant",
	StatusSupportingEntityInError: "Supporting Entity in Error",
	StatusCompleted:               "Completed",
	StatusPowerMode:               "Power Mode",
	StatusDMTFReserved:            "DMTF Reserved",
	StatusVendorReserved:          "Vendor Reserved",
}

// StatusName returns the display string for an OperationalStatus value,
// folding reserved ranges onto their placeholder entries.
func StatusName(v uint32) string {
	if v&(1<<31) != 0 {
		v = StatusVendorReserved
	} else if v > StatusPowerMode {
		v = StatusDMTFReserved
	}
	return statusNames[v]
}

// BaseUnits property values.
const (
	UnitsUnknown uint32 = iota
	UnitsOther
	UnitsDegreesC
	UnitsDegreesF
	UnitsDegreesK
	UnitsVolts
	UnitsAmps
	UnitsWatts
	UnitsJoules
	UnitsCoulombs
	UnitsVA
	UnitsNits
	UnitsLumens
	UnitsLux
	UnitsCandelas
	UnitsKPa
	UnitsPSI
	UnitsNewtons
	UnitsCFM
	UnitsRPM
	UnitsHertz
	UnitsSeconds
	UnitsMinutes
	UnitsHours
	UnitsDays
	UnitsWeeks
	UnitsMils
	UnitsInches
	UnitsFeet
	UnitsCubicInches
	UnitsCubicFeet
	UnitsMeters
	UnitsCubicCentimeters
	UnitsCubicMeters
	UnitsLiters
	UnitsFluidOunces
	UnitsRadians
	UnitsSteradians
	UnitsRevolutions
	UnitsCycles
	UnitsGravities
	UnitsOunces
	UnitsPounds
	UnitsFootPounds
	UnitsOunceInches
	UnitsGauss
	UnitsGilberts
	UnitsHenries
	UnitsFarads
	UnitsOhms
	UnitsSiemens
	UnitsMoles
	UnitsBecquerels
	UnitsPPM
	UnitsDecibels
	UnitsDbA
	UnitsDbC
	UnitsGrays
	UnitsSieverts
	UnitsColorTemperatureDegreesK
	UnitsBits
	UnitsBytes
	UnitsWords
	UnitsDoubleWords
	UnitsQuadWords
	UnitsPercentage
)

var unitsNames = []string{
	UnitsUnknown:                  "Unknown",
	UnitsOther:                    "Other",
	UnitsDegreesC:                 "Degrees C",
	UnitsDegreesF:                 "Degrees F",
	UnitsDegreesK:                 "Degrees K",
	UnitsVolts:                    "Volts",
	UnitsAmps:                     "Amps",
	UnitsWatts:                    "Watts",
	UnitsJoules:                   "Joules",
	UnitsCoulombs:                 "Coulombs",
	UnitsVA:                       "VA",
	UnitsNits:                     "Nits",
	UnitsLumens:                   "Lumens",
	UnitsLux:                      "Lux",
	UnitsCandelas:                 "Candelas",
	UnitsKPa:                      "kPa",
	UnitsPSI:                      "PSI",
	UnitsNewtons:                  "Newtons",
	UnitsCFM:                      "CFM",
	UnitsRPM:                      "RPM",
	UnitsHertz:                    "Hertz",
	UnitsSeconds:                  "Seconds",
	UnitsMinutes:                  "Minutes",
	UnitsHours:                    "Hours",
	UnitsDays:                     "Days",
	UnitsWeeks:                    "Weeks",
	UnitsMils:                     "Mils",
	UnitsInches:                   "Inches",
	UnitsFeet:                     "Feet",
	UnitsCubicInches:              "Cubic Inches",
	UnitsCubicFeet:                "Cubic Feet",
	UnitsMeters:                   "Meters",
	UnitsCubicCentimeters:         "Cubic Centimeters",
	UnitsCubicMeters:              "Cubic Meters",
	UnitsLiters:                   "Liters",
	UnitsFluidOunces:              "Fluid Ounces",
	UnitsRadians:                  "Radians",
	UnitsSteradians:               "Steradians",
	UnitsRevolutions:              "Revolutions",
	UnitsCycles:                   "Cycles",
	UnitsGravities:                "Gravities",
	UnitsOunces:                   "Ounces",
	UnitsPounds:                   "Pounds",
	UnitsFootPounds:               "Foot-Pounds",
	UnitsOunceInches:              "Ounce-Inches",
	UnitsGauss:                    "Gauss",
	UnitsGilberts:                 "Gilberts",
	UnitsHenries:                  "Henries",
	UnitsFarads:                   "Farads",
	UnitsOhms:                     "Ohms",
	UnitsSiemens:                  "Siemens",
	UnitsMoles:                    "Moles",
	UnitsBecquerels:               "Becquerels",
	UnitsPPM:                      "PPM (parts/million)",
	UnitsDecibels:                 "Decibels",
	UnitsDbA:                      "DbA",
	UnitsDbC:                      "DbC",
	UnitsGrays:                    "Grays",
	UnitsSieverts:                 "Sieverts",
	UnitsColorTemperatureDegreesK: "Color Temperature Degrees K",
	UnitsBits:                     "Bits",
	UnitsBytes:                    "Bytes",
	UnitsWords:                    "Words (data)",
	UnitsDoubleWords:              "DoubleWords",
	UnitsQuadWords:                "QuadWords",
	UnitsPercentage:               "Percentage",
}

// UnitsName returns the display string for a BaseUnits value.
func UnitsName(v uint32) string {
	if v > UnitsPercentage {
		v = UnitsUnknown
	}
	return unitsNames[v]
}

// Record property schema, in wire order. PossibleStates[] is flattened
// into the field array; its element count is not transmitted.
const (
	propName = iota
	propDescription
	propSensorType
	propOtherSensorType
	propOperationalStatus
	propCurrentState
	propPossibleStates
	propBaseUnits
	propUnitModifier
	propCurrentReading
)

var propTypes = []sensors.ObjectType{
	propName:              sensors.TypeString,
	propDescription:       sensors.TypeString,
	propSensorType:        sensors.TypeInteger,
	propOtherSensorType:   sensors.TypeString,
	propOperationalStatus: sensors.TypeInteger,
	propCurrentState:      sensors.TypeString,
	propPossibleStates:    sensors.TypeString,
	propBaseUnits:         sensors.TypeInteger,
	propUnitModifier:      sensors.TypeInteger,
	propCurrentReading:    sensors.TypeInteger,
}
