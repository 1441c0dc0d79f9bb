//go:build !opencl

package main

import (
	"errors"

	"gonum.org/v1/gonum/spatial/r3"
)

type openCLRayCaster struct{}

func newOpenCLRayCaster(grid *voxelGrid) (*openCLRayCaster, error) {
	return nil, errors.New("OpenCL support is not enabled; rebuild with -tags opencl")
}

func (c *openCLRayCaster) findRayIntersection(origin, direction r3.Vec) (rayHit, bool) {
	return rayHit{}, false
}

func (c *openCLRayCaster) findRayIntersections(origins, directions []r3.Vec, hits []rayHit, ok []bool) error {
	return errors.New("OpenCL ray tracer unavailable")
}

func (c *openCLRayCaster) Close() {}

func (c *openCLRayCaster) DeviceName() string { return "" }
