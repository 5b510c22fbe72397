package publish

import (
	"errors"

	"equalizer/internal/pipeline"
)

// PointGroupCamera is the point group type that carries the camera solve.
const PointGroupCamera = "CAMERA"

// PointGroup is a scene point group.
type PointGroup struct {
	Name string
	Type string
}

// CameraPointGroup returns the first camera point group.
func CameraPointGroup(groups []PointGroup) (PointGroup, bool) {
	for _, pg := range groups {
		if pg.Type == PointGroupCamera {
			return pg, true
		}
	}
	return PointGroup{}, false
}

// ValidateInstance runs the publish checks for inst against the scene's
// point groups. Every failing check is reported.
func ValidateInstance(inst pipeline.Instance, groups []PointGroup) error {
	var errs []error
	if inst.ID() == "" {
		errs = append(errs, invalid("instance", "missing instance_id"))
	}
	if inst.CreatorIdentifier() == "" {
		errs = append(errs, invalid("instance", "missing creator_identifier"))
	}
	productType, _ := inst["productType"].(string)
	if productType == "" {
		errs = append(errs, invalid("instance", "missing productType"))
	}

	if productType == "matchmove" {
		if _, ok := inst["cameras"]; !ok {
			errs = append(errs, invalid("camera data", "No camera data found"))
		}
		if _, ok := CameraPointGroup(groups); !ok {
			errs = append(errs, invalid("camera point group", "Missing Camera Point Group"))
		}
	}
	return errors.Join(errs...)
}
