package geometry

import (
	"github.com/dmoren/go-sphere-tracer/pkg/core"
	"github.com/dmoren/go-sphere-tracer/pkg/material"
)

// HittableList is an ordered collection of surfaces queried as a whole.
// There is no spatial index: every member is tested against every ray.
type HittableList struct {
	Objects []Hittable
}

// NewHittableList creates an empty list
func NewHittableList() *HittableList {
	return &HittableList{}
}

// Add appends objects to the list
func (l *HittableList) Add(objects ...Hittable) {
	l.Objects = append(l.Objects, objects...)
}

// Hit returns the nearest hit across all members. The search interval is
// tightened to the closest hit found so far, and ties go to the first
// object in iteration order.
func (l *HittableList) Hit(ray core.Ray, tMin, tMax float64) (*material.HitRecord, bool) {
	var closestHit *material.HitRecord
	closestSoFar := tMax

	for _, object := range l.Objects {
		if hit, isHit := object.Hit(ray, tMin, closestSoFar); isHit {
			closestSoFar = hit.T
			closestHit = hit
		}
	}

	return closestHit, closestHit != nil
}
