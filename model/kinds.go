package model

import "fmt"

// Wire tags identify enum variants on the wire. Display names are for
// presentation only and are looked up through String; the two tables are
// kept apart so renaming a label never changes the protocol.

type variant interface{ ~uint8 }

const unknownName = "Unknown"

func displayName[T variant](names []string, v T) string {
	if int(v) < len(names) {
		return names[v]
	}
	return unknownName
}

func parseTag[T variant](what string, tags []string, s string) (T, error) {
	for i, t := range tags {
		if t == s {
			return T(i), nil
		}
	}
	return 0, fmt.Errorf("unknown %s %q", what, s)
}

func marshalTag[T variant](what string, tags []string, v T) ([]byte, error) {
	if int(v) >= len(tags) {
		return nil, fmt.Errorf("invalid %s %d", what, uint8(v))
	}
	return []byte(tags[v]), nil
}

// ObjectKind is what a simulated object is.
type ObjectKind uint8

const (
	KindAsteroid ObjectKind = iota
	KindBuilder
	KindHarvester
	KindBattlecruiser
)

var (
	objectKindTags  = []string{"Asteroid", "Builder", "Harvester", "Battlecruiser"}
	objectKindNames = []string{"Asteroid", "Builder", "Harvester", "Battlecruiser"}
)

// ObjectKinds lists every variant in declaration order.
func ObjectKinds() []ObjectKind {
	return []ObjectKind{KindAsteroid, KindBuilder, KindHarvester, KindBattlecruiser}
}

func (k ObjectKind) String() string { return displayName(objectKindNames, k) }

func ParseObjectKind(s string) (ObjectKind, error) {
	return parseTag[ObjectKind]("object kind", objectKindTags, s)
}

func (k ObjectKind) MarshalText() ([]byte, error) {
	return marshalTag("object kind", objectKindTags, k)
}

func (k *ObjectKind) UnmarshalText(b []byte) error {
	v, err := ParseObjectKind(string(b))
	if err != nil {
		return err
	}
	*k = v
	return nil
}

// RadarKind is the sensor package fitted to an object.
type RadarKind uint8

const (
	RadarNone RadarKind = iota
	RadarSimple
	RadarMiddle
	RadarMilitary
)

var (
	radarKindTags  = []string{"None", "Simple", "Middle", "Military"}
	radarKindNames = []string{"None", "Simple", "Middle", "Military"}
)

func (k RadarKind) String() string { return displayName(radarKindNames, k) }

func ParseRadarKind(s string) (RadarKind, error) {
	return parseTag[RadarKind]("radar kind", radarKindTags, s)
}

func (k RadarKind) MarshalText() ([]byte, error) {
	return marshalTag("radar kind", radarKindTags, k)
}

func (k *RadarKind) UnmarshalText(b []byte) error {
	v, err := ParseRadarKind(string(b))
	if err != nil {
		return err
	}
	*k = v
	return nil
}

// WeaponKind is the weapon fitted to an object. WeaponNone means the
// weapon fields of a SimulatedObject carry no meaning.
type WeaponKind uint8

const (
	WeaponNone WeaponKind = iota
	WeaponMining
	WeaponLaser
)

var (
	weaponKindTags  = []string{"None", "Mining", "Laser"}
	weaponKindNames = []string{"None", "Mining", "Laser"}
)

func (k WeaponKind) String() string { return displayName(weaponKindNames, k) }

func ParseWeaponKind(s string) (WeaponKind, error) {
	return parseTag[WeaponKind]("weapon kind", weaponKindTags, s)
}

func (k WeaponKind) MarshalText() ([]byte, error) {
	return marshalTag("weapon kind", weaponKindTags, k)
}

func (k *WeaponKind) UnmarshalText(b []byte) error {
	v, err := ParseWeaponKind(string(b))
	if err != nil {
		return err
	}
	*k = v
	return nil
}

// CargoKind is what an object's hold carries.
type CargoKind uint8

const (
	CargoNone CargoKind = iota
	CargoMining
	CargoBattery
)

var (
	cargoKindTags  = []string{"None", "Mining", "Battery"}
	cargoKindNames = []string{"None", "Mining", "Battery"}
)

func (k CargoKind) String() string { return displayName(cargoKindNames, k) }

func ParseCargoKind(s string) (CargoKind, error) {
	return parseTag[CargoKind]("cargo kind", cargoKindTags, s)
}

func (k CargoKind) MarshalText() ([]byte, error) {
	return marshalTag("cargo kind", cargoKindTags, k)
}

func (k *CargoKind) UnmarshalText(b []byte) error {
	v, err := ParseCargoKind(string(b))
	if err != nil {
		return err
	}
	*k = v
	return nil
}

// ArmorKind is the hull class of an object's shell.
type ArmorKind uint8

const (
	ArmorAsteroid ArmorKind = iota
	ArmorLight
	ArmorMiddle
	ArmorHeavy
	ArmorBuilding
)

var (
	armorKindTags  = []string{"Asteroid", "Light", "Middle", "Heavy", "Building"}
	armorKindNames = []string{"Asteroid", "Light", "Middle", "Heavy", "Building"}
)

func (k ArmorKind) String() string { return displayName(armorKindNames, k) }

func ParseArmorKind(s string) (ArmorKind, error) {
	return parseTag[ArmorKind]("armor kind", armorKindTags, s)
}

func (k ArmorKind) MarshalText() ([]byte, error) {
	return marshalTag("armor kind", armorKindTags, k)
}

func (k *ArmorKind) UnmarshalText(b []byte) error {
	v, err := ParseArmorKind(string(b))
	if err != nil {
		return err
	}
	*k = v
	return nil
}
