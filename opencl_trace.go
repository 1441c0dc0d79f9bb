//go:build opencl

package main

import (
	"errors"
	"fmt"
	"strings"
	"unsafe"

	"github.com/jgillich/go-opencl/cl"
	"gonum.org/v1/gonum/spatial/r3"
)

// openCLRayCaster resolves whole rounds of intersection queries on an OpenCL
// device. The occupancy grid is uploaded once (the scene is static); per call
// only the ray origins and directions travel to the device. Normal jitter is
// applied host side by the wrapped grid, so device results stay deterministic.
type openCLRayCaster struct {
	grid *voxelGrid

	context *cl.Context
	queue   *cl.CommandQueue
	program *cl.Program
	kernel  *cl.Kernel

	occupancyBuf *cl.MemObject
	originBuf    *cl.MemObject
	dirBuf       *cl.MemObject
	hitTBuf      *cl.MemObject
	hitFaceBuf   *cl.MemObject
	capacity     int

	originsHost []float32
	dirsHost    []float32
	hitTHost    []float32
	hitFaceHost []float32

	deviceName string
}

// Face codes written by the kernel match the Go boxFace order; -1 is a miss.
const traceKernelSource = `__kernel void trace_rays(
    const int nx,
    const int ny,
    const int nz,
    const float cell,
    __global const uchar* occupancy,
    const int ray_count,
    __global const float* origins,
    __global const float* directions,
    __global float* hit_t,
    __global float* hit_face)
{
    int gid = get_global_id(0);
    if (gid >= ray_count) {
        return;
    }
    hit_t[gid] = 0.0f;
    hit_face[gid] = -1.0f;

    float ox = origins[gid * 3];
    float oy = origins[gid * 3 + 1];
    float oz = origins[gid * 3 + 2];
    float dx = directions[gid * 3];
    float dy = directions[gid * 3 + 1];
    float dz = directions[gid * 3 + 2];
    float len = sqrt(dx * dx + dy * dy + dz * dz);
    if (len == 0.0f) {
        return;
    }
    dx /= len;
    dy /= len;
    dz /= len;

    int ix = (int)floor(ox / cell);
    int iy = (int)floor(oy / cell);
    int iz = (int)floor(oz / cell);
    if (ix < 0 || ix >= nx || iy < 0 || iy >= ny || iz < 0 || iz >= nz) {
        return;
    }
    if (occupancy[(iy * nz + iz) * nx + ix] != 0) {
        return;
    }

    int sx = 0, sy = 0, sz = 0;
    float tmx = INFINITY, tmy = INFINITY, tmz = INFINITY;
    float tdx = INFINITY, tdy = INFINITY, tdz = INFINITY;
    if (dx > 0.0f) { sx = 1;  tmx = ((ix + 1) * cell - ox) / dx; tdx = cell / dx; }
    if (dx < 0.0f) { sx = -1; tmx = (ix * cell - ox) / dx;       tdx = -cell / dx; }
    if (dy > 0.0f) { sy = 1;  tmy = ((iy + 1) * cell - oy) / dy; tdy = cell / dy; }
    if (dy < 0.0f) { sy = -1; tmy = (iy * cell - oy) / dy;       tdy = -cell / dy; }
    if (dz > 0.0f) { sz = 1;  tmz = ((iz + 1) * cell - oz) / dz; tdz = cell / dz; }
    if (dz < 0.0f) { sz = -1; tmz = (iz * cell - oz) / dz;       tdz = -cell / dz; }

    for (;;) {
        float t;
        int face;
        if (tmx <= tmy && tmx <= tmz) {
            ix += sx;
            t = tmx;
            tmx += tdx;
            face = sx > 0 ? 0 : 1;
        } else if (tmy <= tmz) {
            iy += sy;
            t = tmy;
            tmy += tdy;
            face = sy > 0 ? 2 : 3;
        } else {
            iz += sz;
            t = tmz;
            tmz += tdz;
            face = sz > 0 ? 4 : 5;
        }
        if (ix < 0 || ix >= nx || iy < 0 || iy >= ny || iz < 0 || iz >= nz) {
            return;
        }
        if (occupancy[(iy * nz + iz) * nx + ix] != 0) {
            hit_t[gid] = t;
            hit_face[gid] = (float)face;
            return;
        }
    }
}`

// selectTracerDevice picks the first available GPU, falling back to a CPU
// device when no GPU driver is present.
func selectTracerDevice() (*cl.Device, error) {
	platforms, err := cl.GetPlatforms()
	if err != nil {
		msg := "querying OpenCL platforms"
		if strings.Contains(err.Error(), "-1001") {
			msg += ": no ICD loader reported any platforms; verify drivers with `clinfo`"
		}
		return nil, fmt.Errorf("%s: %w", msg, err)
	}
	if len(platforms) == 0 {
		return nil, errors.New("no OpenCL platforms available")
	}
	for _, kind := range []cl.DeviceType{cl.DeviceTypeGPU, cl.DeviceTypeCPU} {
		for _, p := range platforms {
			devices, derr := p.GetDevices(kind)
			if derr != nil && derr != cl.ErrDeviceNotFound {
				continue
			}
			if len(devices) > 0 {
				return devices[0], nil
			}
		}
	}
	return nil, errors.New("no suitable OpenCL devices found")
}

// newOpenCLRayCaster compiles the tracer kernel and uploads the static
// occupancy grid.
func newOpenCLRayCaster(grid *voxelGrid) (*openCLRayCaster, error) {
	device, err := selectTracerDevice()
	if err != nil {
		return nil, err
	}
	context, err := cl.CreateContext([]*cl.Device{device})
	if err != nil {
		return nil, fmt.Errorf("creating OpenCL context: %w", err)
	}
	caster := &openCLRayCaster{
		grid:       grid,
		context:    context,
		deviceName: device.Name(),
	}
	if err := caster.setup(device); err != nil {
		caster.Close()
		return nil, err
	}
	return caster, nil
}

// setup builds the queue, program, kernel, and static buffers. Partial state
// is left on the caster for Close to release on failure.
func (c *openCLRayCaster) setup(device *cl.Device) error {
	var err error
	if c.queue, err = c.context.CreateCommandQueue(device, 0); err != nil {
		return fmt.Errorf("creating OpenCL command queue: %w", err)
	}
	if c.program, err = c.context.CreateProgramWithSource([]string{traceKernelSource}); err != nil {
		return fmt.Errorf("creating OpenCL program: %w", err)
	}
	if err = c.program.BuildProgram([]*cl.Device{device}, ""); err != nil {
		if buildErr, ok := err.(cl.BuildError); ok {
			return fmt.Errorf("building OpenCL program: %s", string(buildErr))
		}
		return fmt.Errorf("building OpenCL program: %w", err)
	}
	if c.kernel, err = c.program.CreateKernel("trace_rays"); err != nil {
		return fmt.Errorf("creating OpenCL kernel: %w", err)
	}
	return c.uploadOccupancy()
}

// uploadOccupancy copies the static grid occupancy to the device.
func (c *openCLRayCaster) uploadOccupancy() error {
	occupancy := make([]byte, len(c.grid.solid))
	for i, solid := range c.grid.solid {
		if solid {
			occupancy[i] = 1
		}
	}
	buf, err := c.context.CreateEmptyBuffer(cl.MemReadOnly, len(occupancy))
	if err != nil {
		return fmt.Errorf("allocating occupancy buffer: %w", err)
	}
	ptr := unsafe.Pointer(&occupancy[0])
	if _, err := c.queue.EnqueueWriteBuffer(buf, true, 0, len(occupancy), ptr, nil); err != nil {
		buf.Release()
		return fmt.Errorf("writing occupancy buffer: %w", err)
	}
	c.occupancyBuf = buf
	return nil
}

// findRayIntersection answers single queries on the CPU; the device path only
// pays off for whole rounds.
func (c *openCLRayCaster) findRayIntersection(origin, direction r3.Vec) (rayHit, bool) {
	return c.grid.findRayIntersection(origin, direction)
}

// findRayIntersections resolves one round of rays on the device.
func (c *openCLRayCaster) findRayIntersections(origins, directions []r3.Vec, hits []rayHit, ok []bool) error {
	n := len(origins)
	if n == 0 {
		return nil
	}
	if err := c.ensureCapacity(n); err != nil {
		return err
	}
	for i := 0; i < n; i++ {
		c.originsHost[i*3] = float32(origins[i].X)
		c.originsHost[i*3+1] = float32(origins[i].Y)
		c.originsHost[i*3+2] = float32(origins[i].Z)
		c.dirsHost[i*3] = float32(directions[i].X)
		c.dirsHost[i*3+1] = float32(directions[i].Y)
		c.dirsHost[i*3+2] = float32(directions[i].Z)
	}
	if _, err := c.queue.EnqueueWriteBufferFloat32(c.originBuf, false, 0, c.originsHost[:n*3], nil); err != nil {
		return fmt.Errorf("writing origin buffer: %w", err)
	}
	if _, err := c.queue.EnqueueWriteBufferFloat32(c.dirBuf, false, 0, c.dirsHost[:n*3], nil); err != nil {
		return fmt.Errorf("writing direction buffer: %w", err)
	}
	if err := c.kernel.SetArgs(
		int32(c.grid.nx),
		int32(c.grid.ny),
		int32(c.grid.nz),
		float32(c.grid.cell),
		c.occupancyBuf,
		int32(n),
		c.originBuf,
		c.dirBuf,
		c.hitTBuf,
		c.hitFaceBuf,
	); err != nil {
		return fmt.Errorf("setting kernel arguments: %w", err)
	}
	if _, err := c.queue.EnqueueNDRangeKernel(c.kernel, nil, []int{n}, nil, nil); err != nil {
		return fmt.Errorf("enqueueing kernel: %w", err)
	}
	if _, err := c.queue.EnqueueReadBufferFloat32(c.hitTBuf, true, 0, c.hitTHost[:n], nil); err != nil {
		return fmt.Errorf("reading hit distances: %w", err)
	}
	if _, err := c.queue.EnqueueReadBufferFloat32(c.hitFaceBuf, true, 0, c.hitFaceHost[:n], nil); err != nil {
		return fmt.Errorf("reading hit faces: %w", err)
	}
	for i := 0; i < n; i++ {
		face := int(c.hitFaceHost[i])
		if c.hitFaceHost[i] < 0 {
			hits[i] = rayHit{}
			ok[i] = false
			continue
		}
		hits[i] = c.grid.buildHit(origins[i], r3.Unit(directions[i]), float64(c.hitTHost[i]), boxFace(face))
		ok[i] = true
	}
	return nil
}

// ensureCapacity sizes the device and host ray buffers for a round of n rays.
func (c *openCLRayCaster) ensureCapacity(n int) error {
	if n <= c.capacity {
		return nil
	}
	c.releaseRayBuffers()
	floatSize := int(unsafe.Sizeof(float32(0)))
	var err error
	if c.originBuf, err = c.context.CreateEmptyBuffer(cl.MemReadOnly, n*3*floatSize); err != nil {
		return fmt.Errorf("allocating origin buffer: %w", err)
	}
	if c.dirBuf, err = c.context.CreateEmptyBuffer(cl.MemReadOnly, n*3*floatSize); err != nil {
		return fmt.Errorf("allocating direction buffer: %w", err)
	}
	if c.hitTBuf, err = c.context.CreateEmptyBuffer(cl.MemWriteOnly, n*floatSize); err != nil {
		return fmt.Errorf("allocating hit distance buffer: %w", err)
	}
	if c.hitFaceBuf, err = c.context.CreateEmptyBuffer(cl.MemWriteOnly, n*floatSize); err != nil {
		return fmt.Errorf("allocating hit face buffer: %w", err)
	}
	c.originsHost = make([]float32, n*3)
	c.dirsHost = make([]float32, n*3)
	c.hitTHost = make([]float32, n)
	c.hitFaceHost = make([]float32, n)
	c.capacity = n
	return nil
}

// releaseRayBuffers frees the per-round device buffers.
func (c *openCLRayCaster) releaseRayBuffers() {
	if c.originBuf != nil {
		c.originBuf.Release()
		c.originBuf = nil
	}
	if c.dirBuf != nil {
		c.dirBuf.Release()
		c.dirBuf = nil
	}
	if c.hitTBuf != nil {
		c.hitTBuf.Release()
		c.hitTBuf = nil
	}
	if c.hitFaceBuf != nil {
		c.hitFaceBuf.Release()
		c.hitFaceBuf = nil
	}
	c.capacity = 0
}

// Close releases all device resources.
func (c *openCLRayCaster) Close() {
	c.releaseRayBuffers()
	if c.occupancyBuf != nil {
		c.occupancyBuf.Release()
		c.occupancyBuf = nil
	}
	if c.kernel != nil {
		c.kernel.Release()
		c.kernel = nil
	}
	if c.program != nil {
		c.program.Release()
		c.program = nil
	}
	if c.queue != nil {
		c.queue.Release()
		c.queue = nil
	}
	if c.context != nil {
		c.context.Release()
		c.context = nil
	}
}

// DeviceName reports the selected OpenCL device.
func (c *openCLRayCaster) DeviceName() string {
	return c.deviceName
}
