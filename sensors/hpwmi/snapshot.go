package hpwmi

import (
	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"
)

// Snapshot is a read-only view of one discovered instance, including
// sensors excluded from the numeric channels. ValueMap properties are
// reported both as display strings and as their raw codes, so no
// information is lost to the string folding.
type Snapshot struct {
	Instance uint8  `json:"instance"`
	Active   bool   `json:"active"`
	Category string `json:"category,omitempty"`

	Name                   string   `json:"name"`
	Description            string   `json:"description"`
	SensorType             string   `json:"sensor_type"`
	SensorTypeValue        uint32   `json:"sensor_type_value"`
	OtherSensorType        string   `json:"other_sensor_type,omitempty"`
	OperationalStatus      string   `json:"operational_status"`
	OperationalStatusValue uint32   `json:"operational_status_value"`
	CurrentState           string   `json:"current_state"`
	PossibleStates         []string `json:"possible_states"`
	BaseUnits              string   `json:"base_units"`
	BaseUnitsValue         uint32   `json:"base_units_value"`
	UnitModifier           int32    `json:"unit_modifier"`
	CurrentReading         uint32   `json:"current_reading"`
}

func snapshotLocked(in *info) Snapshot {
	ns := &in.sensor

	s := Snapshot{
		Instance:               in.instance,
		Active:                 in.active,
		Name:                   ns.Name,
		Description:            ns.Description,
		SensorType:             TypeName(ns.SensorType),
		SensorTypeValue:        ns.SensorType,
		OtherSensorType:        ns.OtherSensorType,
		OperationalStatus:      StatusName(ns.OperationalStatus),
		OperationalStatusValue: ns.OperationalStatus,
		CurrentState:           ns.CurrentState,
		PossibleStates:         append([]string(nil), ns.PossibleStates...),
		BaseUnits:              UnitsName(ns.BaseUnits),
		BaseUnitsValue:         ns.BaseUnits,
		UnitModifier:           ns.UnitModifier,
		CurrentReading:         ns.CurrentReading,
	}

	if in.active {
		s.Category = in.category.String()
	}

	return s
}

// Snapshots reports every discovered instance, refreshing each one's
// fungible fields through the usual freshness gate first. A sensor whose
// refresh fails is reported with its last known state.
func (c *Chip) Snapshots() []Snapshot {
	c.mu.Lock()
	defer c.mu.Unlock()

	out := make([]Snapshot, 0, len(c.info))
	for _, in := range c.info {
		if err := c.refreshLocked(in); err != nil {
			log.Warnf("snapshot: %s", err)
		}
		out = append(out, snapshotLocked(in))
	}

	return out
}

// Instance reports a single discovered instance by its instance number.
func (c *Chip) Instance(instance uint8) (Snapshot, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	for _, in := range c.info {
		if in.instance != instance {
			continue
		}
		if err := c.refreshLocked(in); err != nil {
			log.Warnf("snapshot: %s", err)
		}
		return snapshotLocked(in), nil
	}

	return Snapshot{}, errors.Errorf("no instance %d", instance)
}
