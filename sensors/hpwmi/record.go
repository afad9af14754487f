package hpwmi

import (
	"strings"

	"github.com/pkg/errors"

	"github.com/edlorenzo/hpsensors/sensors"
)

// NumericSensor is the decoded snapshot of one HP_BIOSNumericSensor
// instance.
type NumericSensor struct {
	Name              string
	Description       string
	SensorType        uint32
	OtherSensorType   string // Explains an "Other" SensorType.
	OperationalStatus uint32
	CurrentState      string
	PossibleStates    []string // Count varies by sensor; firmware order.
	BaseUnits         uint32
	UnitModifier      int32
	CurrentReading    uint32
}

// cleanString trims surrounding whitespace and bounds the result to the
// longest string the schema allows. Truncation is silent.
func cleanString(s string) string {
	s = strings.TrimSpace(s)
	if len(s) > maxStrLen-1 {
		s = s[:maxStrLen-1]
	}
	return s
}

// checkObject validates the shape of a raw sensor record against the
// property schema and returns the count of PossibleStates[] entries.
//
// The record is a flat sequence of fields, one per property, except that
// the strings of PossibleStates[] are flattened directly into it and
// their count is only found in the schema blob we do not decode. The
// count is recovered by consuming consecutive strings after CurrentState
// until the next integer field.
func checkObject(obj *sensors.Object) (int, error) {
	if obj == nil || obj.Type != sensors.TypePackage {
		return 0, errors.New("record is not a package")
	}

	elems := obj.Elements
	if len(elems) > maxProperties {
		return 0, errors.Errorf("record has %d fields, limit is %d", len(elems), maxProperties)
	}

	count := 0
	prop := propName
	for i := 0; i < len(elems); i, prop = i+1, prop+1 {
		if prop > propCurrentReading {
			return 0, errors.New("record has fields beyond the schema")
		}

		if elems[i].Type != propTypes[prop] {
			return 0, errors.Errorf("field %d is %s, want %s", i, elems[i].Type, propTypes[prop])
		}

		if prop == propCurrentState {
			prop = propPossibleStates
			for ; i+1 < len(elems); i++ {
				if elems[i+1].Type != propTypes[propPossibleStates] {
					break
				}
				count++
			}
		}
	}

	if count == 0 || prop <= propCurrentReading {
		return 0, errors.New("record ends before the schema does")
	}

	return count, nil
}

// decodeNumericSensor consumes a raw record into a NumericSensor. The
// record is validated first, so the walk below can trust its shape; the
// per-field type switches remain as a defensive re-check.
func decodeNumericSensor(obj *sensors.Object) (*NumericSensor, error) {
	statesCount, err := checkObject(obj)
	if err != nil {
		return nil, err
	}

	ns := &NumericSensor{
		PossibleStates: make([]string, 0, statesCount),
	}

	elems := obj.Elements
	i := 0
	for prop := propName; prop <= propCurrentReading; prop++ {
		var value uint32
		var str string

		switch propTypes[prop] {
		case sensors.TypeInteger:
			if elems[i].Type != sensors.TypeInteger {
				return nil, errors.Errorf("field %d: expected integer", i)
			}
			value = uint32(elems[i].Value)

		case sensors.TypeString:
			if elems[i].Type != sensors.TypeString {
				return nil, errors.Errorf("field %d: expected string", i)
			}
			str = cleanString(elems[i].Text)
		}

		i++

		switch prop {
		case propName:
			ns.Name = str

		case propDescription:
			ns.Description = str

		case propSensorType:
			if value > TypeAirFlow {
				return nil, errors.Errorf("sensor type code %d out of range", value)
			}
			ns.SensorType = value

			// OtherSensorType carries no meaning unless the sensor
			// type is "Other"; its slot is still present in the record.
			if value != TypeOther {
				i++
				prop++
			}

		case propOtherSensorType:
			ns.OtherSensorType = str

		case propOperationalStatus:
			ns.OperationalStatus = value

		case propCurrentState:
			ns.CurrentState = str

		case propPossibleStates:
			ns.PossibleStates = append(ns.PossibleStates, str)
			if len(ns.PossibleStates) < statesCount {
				prop--
			}

		case propBaseUnits:
			ns.BaseUnits = value

		case propUnitModifier:
			// UnitModifier is signed.
			ns.UnitModifier = int32(value)

		case propCurrentReading:
			ns.CurrentReading = value
		}
	}

	return ns, nil
}

// updateNumericSensor refreshes only the fungible properties from a
// newly polled record: OperationalStatus, CurrentState, UnitModifier and
// CurrentReading. Everything else is fixed at discovery and not
// re-parsed. The record shape is known from discovery, so only the
// touched fields are re-checked; on any mismatch ns is left untouched.
func updateNumericSensor(ns *NumericSensor, obj *sensors.Object) error {
	if obj == nil || obj.Type != sensors.TypePackage {
		return errors.New("record is not a package")
	}

	// Fields after PossibleStates[0] shift by the state count.
	offset := len(ns.PossibleStates) - 1

	elems := obj.Elements
	if len(elems) <= propCurrentReading+offset {
		return errors.New("record shorter than at discovery")
	}

	status := elems[propOperationalStatus]
	state := elems[propCurrentState]
	modifier := elems[propUnitModifier+offset]
	reading := elems[propCurrentReading+offset]

	if status.Type != sensors.TypeInteger || state.Type != sensors.TypeString ||
		modifier.Type != sensors.TypeInteger || reading.Type != sensors.TypeInteger {
		return errors.New("fungible fields changed type since discovery")
	}

	ns.OperationalStatus = uint32(status.Value)
	if s := cleanString(state.Text); s != ns.CurrentState {
		ns.CurrentState = s
	}
	ns.UnitModifier = int32(modifier.Value)
	ns.CurrentReading = uint32(reading.Value)

	return nil
}
