package hpwmi

import (
	"strings"
	"testing"

	"github.com/edlorenzo/hpsensors/sensors"
)

func intField(v uint32) sensors.Object {
	return sensors.Object{Type: sensors.TypeInteger, Value: uint64(v)}
}

func strField(s string) sensors.Object {
	return sensors.Object{Type: sensors.TypeString, Text: s}
}

// testRecord builds a well-formed record in wire shape: the
// OtherSensorType slot always present, PossibleStates spliced in
// without a count.
func testRecord(typeCode, statusCode, unitsCode uint32, modifier int32, reading uint32, states ...string) *sensors.Object {
	elems := []sensors.Object{
		strField("CPU Thermal Index"),
		strField("CPU package temperature"),
		intField(typeCode),
		strField(""),
		intField(statusCode),
		strField("Normal"),
	}
	for _, s := range states {
		elems = append(elems, strField(s))
	}
	elems = append(elems,
		intField(unitsCode),
		intField(uint32(modifier)),
		intField(reading),
	)
	return &sensors.Object{Type: sensors.TypePackage, Elements: elems}
}

func tempRecord(reading uint32, states ...string) *sensors.Object {
	if len(states) == 0 {
		states = []string{"Normal", "Caution", "Critical"}
	}
	return testRecord(TypeTemperature, StatusOK, UnitsDegreesC, -3, reading, states...)
}

func TestCheckObjectStatesCount(t *testing.T) {
	for n := 1; n <= 5; n++ {
		states := make([]string, n)
		for i := range states {
			states[i] = "State"
		}
		count, err := checkObject(tempRecord(25000, states...))
		if err != nil {
			t.Fatalf("n=%d: unexpected error: %s", n, err)
		}
		if count != n {
			t.Errorf("n=%d: recovered %d states", n, count)
		}
	}
}

func TestCheckObjectRejects(t *testing.T) {
	noStates := tempRecord(25000)
	noStates.Elements = append(noStates.Elements[:6], noStates.Elements[9:]...)

	truncated := tempRecord(25000)
	truncated.Elements = truncated.Elements[:len(truncated.Elements)-2]

	trailing := tempRecord(25000)
	trailing.Elements = append(trailing.Elements, intField(7))

	mismatched := tempRecord(25000)
	mismatched.Elements[0] = intField(1) // Name must be a string.

	oversized := tempRecord(25000, make([]string, 30)...)

	tests := []struct {
		name string
		obj  *sensors.Object
	}{
		{"nil", nil},
		{"not a package", &sensors.Object{Type: sensors.TypeInteger, Value: 1}},
		{"zero possible states", noStates},
		{"missing trailing integers", truncated},
		{"fields beyond schema", trailing},
		{"type mismatch", mismatched},
		{"too many fields", oversized},
	}
	for _, tt := range tests {
		if _, err := checkObject(tt.obj); err == nil {
			t.Errorf("%s: expected rejection", tt.name)
		}
	}
}

func TestDecodeNumericSensor(t *testing.T) {
	obj := testRecord(TypeTemperature, StatusOK, UnitsDegreesC, -3, 25000,
		"Normal", "Caution", "Critical")

	ns, err := decodeNumericSensor(obj)
	if err != nil {
		t.Fatalf("decode: %s", err)
	}

	if ns.Name != "CPU Thermal Index" {
		t.Errorf("Name: got %q", ns.Name)
	}
	if ns.Description != "CPU package temperature" {
		t.Errorf("Description: got %q", ns.Description)
	}
	if ns.SensorType != TypeTemperature {
		t.Errorf("SensorType: got %d", ns.SensorType)
	}
	if ns.OtherSensorType != "" {
		t.Errorf("OtherSensorType: got %q, want empty for non-Other sensor", ns.OtherSensorType)
	}
	if ns.OperationalStatus != StatusOK {
		t.Errorf("OperationalStatus: got %d", ns.OperationalStatus)
	}
	if ns.CurrentState != "Normal" {
		t.Errorf("CurrentState: got %q", ns.CurrentState)
	}

	want := []string{"Normal", "Caution", "Critical"}
	if len(ns.PossibleStates) != len(want) {
		t.Fatalf("PossibleStates: got %v", ns.PossibleStates)
	}
	for i, s := range want {
		if ns.PossibleStates[i] != s {
			t.Errorf("PossibleStates[%d]: got %q, want %q", i, ns.PossibleStates[i], s)
		}
	}

	if ns.BaseUnits != UnitsDegreesC {
		t.Errorf("BaseUnits: got %d", ns.BaseUnits)
	}
	if ns.UnitModifier != -3 {
		t.Errorf("UnitModifier: got %d", ns.UnitModifier)
	}
	if ns.CurrentReading != 25000 {
		t.Errorf("CurrentReading: got %d", ns.CurrentReading)
	}
}

func TestDecodeOtherSensorType(t *testing.T) {
	obj := testRecord(TypeOther, StatusOK, UnitsRPM, 0, 100, "Normal")
	obj.Elements[3] = strField("Liquid Cooler Pump")

	ns, err := decodeNumericSensor(obj)
	if err != nil {
		t.Fatalf("decode: %s", err)
	}
	if ns.OtherSensorType != "Liquid Cooler Pump" {
		t.Errorf("OtherSensorType: got %q", ns.OtherSensorType)
	}
	if ns.CurrentReading != 100 {
		t.Errorf("CurrentReading: got %d", ns.CurrentReading)
	}
}

func TestDecodeCleansStrings(t *testing.T) {
	long := strings.Repeat("x", 300)
	obj := tempRecord(25000, "Normal")
	obj.Elements[0] = strField("  CPU Thermal Index  ")
	obj.Elements[1] = strField(long)

	ns, err := decodeNumericSensor(obj)
	if err != nil {
		t.Fatalf("decode: %s", err)
	}
	if ns.Name != "CPU Thermal Index" {
		t.Errorf("Name not trimmed: %q", ns.Name)
	}
	if len(ns.Description) != maxStrLen-1 {
		t.Errorf("Description not truncated: %d bytes", len(ns.Description))
	}
}

func TestDecodeRejectsUnknownTypeCode(t *testing.T) {
	obj := testRecord(TypeAirFlow+1, StatusOK, UnitsRPM, 0, 100, "Normal")
	if _, err := decodeNumericSensor(obj); err == nil {
		t.Error("expected rejection of out-of-range sensor type code")
	}
}

func TestUpdateNumericSensor(t *testing.T) {
	ns, err := decodeNumericSensor(tempRecord(25000, "Normal", "Caution"))
	if err != nil {
		t.Fatalf("decode: %s", err)
	}

	next := testRecord(TypeTemperature, StatusDegraded, UnitsDegreesC, -2, 2700,
		"Normal", "Caution")
	next.Elements[5] = strField("Caution")

	if err := updateNumericSensor(ns, next); err != nil {
		t.Fatalf("update: %s", err)
	}

	if ns.OperationalStatus != StatusDegraded {
		t.Errorf("OperationalStatus: got %d", ns.OperationalStatus)
	}
	if ns.CurrentState != "Caution" {
		t.Errorf("CurrentState: got %q", ns.CurrentState)
	}
	if ns.UnitModifier != -2 {
		t.Errorf("UnitModifier: got %d", ns.UnitModifier)
	}
	if ns.CurrentReading != 2700 {
		t.Errorf("CurrentReading: got %d", ns.CurrentReading)
	}

	// Immutable fields stay as discovered.
	if ns.Name != "CPU Thermal Index" || len(ns.PossibleStates) != 2 {
		t.Error("immutable fields changed by update")
	}
}

func TestUpdateNumericSensorRejectsShapeChange(t *testing.T) {
	ns, err := decodeNumericSensor(tempRecord(25000, "Normal", "Caution"))
	if err != nil {
		t.Fatalf("decode: %s", err)
	}

	short := tempRecord(31000, "Normal", "Caution")
	short.Elements = short.Elements[:5]

	if err := updateNumericSensor(ns, short); err == nil {
		t.Fatal("expected error for truncated update record")
	}
	if ns.CurrentReading != 25000 {
		t.Errorf("reading changed despite failed update: %d", ns.CurrentReading)
	}
}
