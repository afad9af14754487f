package hpwmi

import (
	"testing"

	"github.com/edlorenzo/hpsensors/sensors"
)

func TestClassify(t *testing.T) {
	tests := []struct {
		typeCode uint32
		units    uint32
		want     sensors.Category
		ok       bool
	}{
		{TypeTemperature, UnitsDegreesC, sensors.Temperature, true},
		{TypeTemperature, UnitsDegreesF, sensors.Temperature, true},
		{TypeTemperature, UnitsDegreesK, sensors.Temperature, true},
		{TypeVoltage, UnitsVolts, sensors.Voltage, true},
		{TypeCurrent, UnitsAmps, sensors.Current, true},
		{TypeAirFlow, UnitsRPM, sensors.Fan, true},

		// The schema allows these pairs; this driver does not.
		{TypeTemperature, UnitsVolts, 0, false},
		{TypeTemperature, UnitsRPM, 0, false},
		{TypeVoltage, UnitsAmps, 0, false},
		{TypeCurrent, UnitsVolts, 0, false},
		{TypeAirFlow, UnitsCFM, 0, false},
		{TypeTachometer, UnitsRPM, 0, false},
		{TypeHumidity, UnitsPercentage, 0, false},
		{TypeUnknown, UnitsUnknown, 0, false},
		{TypeOther, UnitsOther, 0, false},
	}

	for _, tt := range tests {
		ns := &NumericSensor{SensorType: tt.typeCode, BaseUnits: tt.units}
		got, ok := classify(ns)
		if ok != tt.ok {
			t.Errorf("classify(%s, %s): supported=%v, want %v",
				TypeName(tt.typeCode), UnitsName(tt.units), ok, tt.ok)
			continue
		}
		if ok && got != tt.want {
			t.Errorf("classify(%s, %s) = %s, want %s",
				TypeName(tt.typeCode), UnitsName(tt.units), got, tt.want)
		}
	}
}

func TestConnected(t *testing.T) {
	ns := &NumericSensor{OperationalStatus: StatusOK}
	if !ns.connected() {
		t.Error("OK sensor reported disconnected")
	}
	ns.OperationalStatus = StatusNoContact
	if ns.connected() {
		t.Error("No Contact sensor reported connected")
	}
	// Faulted is not the same as absent.
	ns.OperationalStatus = StatusError
	if !ns.connected() {
		t.Error("errored sensor reported disconnected")
	}
}

func TestHasFault(t *testing.T) {
	tests := []struct {
		status  uint32
		reading uint32
		want    bool
	}{
		{StatusOK, 25000, false},
		{StatusOK, 0, true},
		{StatusDegraded, 25000, true},
		{StatusError, 0, true},
	}
	for _, tt := range tests {
		ns := &NumericSensor{OperationalStatus: tt.status, CurrentReading: tt.reading}
		if got := ns.hasFault(); got != tt.want {
			t.Errorf("status=%d reading=%d: hasFault=%v, want %v",
				tt.status, tt.reading, got, tt.want)
		}
	}
}

func TestStatusNameFolding(t *testing.T) {
	tests := []struct {
		v    uint32
		want string
	}{
		{StatusOK, "OK"},
		{StatusNoContact, "No Contact"},
		{StatusPowerMode, "Power Mode"},
		{StatusPowerMode + 1, "DMTF Reserved"},
		{0x7FFFFFFF, "DMTF Reserved"},
		{1 << 31, "Vendor Reserved"},
		{0xFFFFFFFF, "Vendor Reserved"},
	}
	for _, tt := range tests {
		if got := StatusName(tt.v); got != tt.want {
			t.Errorf("StatusName(%#x) = %q, want %q", tt.v, got, tt.want)
		}
	}
}
