package model

import (
	"errors"
	"fmt"
	"strconv"
)

// ObjectSummary is the projection returned by the bulk listing query.
// It is all the live registry holds; the full record needs a detail query.
type ObjectSummary struct {
	Name  string     `json:"name"`
	Owner string     `json:"owner"`
	X     float64    `json:"x"`
	Y     float64    `json:"y"`
	Kind  ObjectKind `json:"kind"`
}

// SimulatedObject is the full record returned by a detail query.
//
// Decoding does not enforce CargoCurrent <= CargoMax or that WeaponActive
// implies a weapon; callers that depend on either should call Validate.
type SimulatedObject struct {
	Owner string     `json:"owner"`
	Name  string     `json:"name"`
	Kind  ObjectKind `json:"kind"`
	X     float64    `json:"x"`
	Y     float64    `json:"y"`

	DriveSpeed float64 `json:"drive_speed"`
	DriveDestX float64 `json:"drive_dest_x"`
	DriveDestY float64 `json:"drive_dest_y"`

	RadarRadius float64   `json:"radar_radius"`
	RadarKind   RadarKind `json:"radar_type"`

	WeaponActive  bool       `json:"weapon_active"`
	WeaponKind    WeaponKind `json:"weapon_type"`
	WeaponRadius  float64    `json:"weapon_radius"`
	WeaponTargetX float64    `json:"weapon_target_x"`
	WeaponTargetY float64    `json:"weapon_target_y"`

	CargoKind    CargoKind `json:"cargo_type"`
	CargoMax     float64   `json:"cargo_max"`
	CargoCurrent float64   `json:"cargo_current"`

	ShellHealth float64   `json:"shell_health"`
	ShellKind   ArmorKind `json:"shell_type"`
}

// Summary projects the record down to what the listing query carries.
func (o SimulatedObject) Summary() ObjectSummary {
	return ObjectSummary{Name: o.Name, Owner: o.Owner, X: o.X, Y: o.Y, Kind: o.Kind}
}

// Validate reports the invariants decoding leaves to the caller.
func (o SimulatedObject) Validate() error {
	var errs []error
	if o.CargoMax < 0 {
		errs = append(errs, fmt.Errorf("cargo_max %v is negative", o.CargoMax))
	}
	if o.CargoCurrent < 0 || o.CargoCurrent > o.CargoMax {
		errs = append(errs, fmt.Errorf("cargo_current %v outside [0, %v]", o.CargoCurrent, o.CargoMax))
	}
	if o.WeaponActive && o.WeaponKind == WeaponNone {
		errs = append(errs, errors.New("weapon_active set without a weapon"))
	}
	return errors.Join(errs...)
}

// Field is one labelled line of an inspection panel.
type Field struct {
	Label string
	Value string
}

func (f Field) String() string { return f.Label + ": " + f.Value }

// Fields lists the record in inspection-panel order.
func (o SimulatedObject) Fields() []Field {
	return []Field{
		{"owner", o.Owner},
		{"name", o.Name},
		{"otype", o.Kind.String()},
		{"x", formatFloat(o.X)},
		{"y", formatFloat(o.Y)},

		{"drive_speed", formatFloat(o.DriveSpeed)},
		{"drive_dest_x", formatFloat(o.DriveDestX)},
		{"drive_dest_y", formatFloat(o.DriveDestY)},
		{"radar_radius", formatFloat(o.RadarRadius)},
		{"radar_type", o.RadarKind.String()},

		{"weapon_active", strconv.FormatBool(o.WeaponActive)},
		{"weapon_type", o.WeaponKind.String()},
		{"weapon_radius", formatFloat(o.WeaponRadius)},
		{"weapon_target_x", formatFloat(o.WeaponTargetX)},
		{"weapon_target_y", formatFloat(o.WeaponTargetY)},

		{"cargo_type", o.CargoKind.String()},
		{"cargo_max", formatFloat(o.CargoMax)},
		{"cargo_current", formatFloat(o.CargoCurrent)},
		{"shell_health", formatFloat(o.ShellHealth)},
		{"shell_type", o.ShellKind.String()},
	}
}

func formatFloat(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}

// DetailRequest asks the server for the full record of one object.
type DetailRequest struct {
	Name string `json:"name"`
}
