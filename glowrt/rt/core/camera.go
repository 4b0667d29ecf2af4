package core

import (
	"math"

	"github.com/go-gl/mathgl/mgl32"
)

// minEyeDistance keeps LookAt well defined when the orbit distance is 0.
const minEyeDistance = 1e-4

// CameraState is an orbit camera around Target. Yaw and Pitch are radians,
// Fov is the vertical field of view in degrees. Y is up.
type CameraState struct {
	Target      mgl32.Vec3
	Distance    float32
	Yaw         float32
	Pitch       float32
	Fov         float32
	Near        float32
	Far         float32
	MinDistance float32
	MaxDistance float32
	Sensitivity float32
}

// NewCameraState returns the scene camera: eye at (0,0,0.5) looking at the
// origin, orbit distance limited to [0,3].
func NewCameraState() *CameraState {
	return &CameraState{
		Target:      mgl32.Vec3{0, 0, 0},
		Distance:    0.5,
		Fov:         100,
		Near:        0.1,
		Far:         10,
		MinDistance: 0,
		MaxDistance: 3,
		Sensitivity: 0.005,
	}
}

// Position is the eye in world space.
func (c *CameraState) Position() mgl32.Vec3 {
	d := c.Distance
	if d < minEyeDistance {
		d = minEyeDistance
	}
	cp := math.Cos(float64(c.Pitch))
	offset := mgl32.Vec3{
		float32(math.Sin(float64(c.Yaw)) * cp),
		float32(math.Sin(float64(c.Pitch))),
		float32(math.Cos(float64(c.Yaw)) * cp),
	}
	return c.Target.Add(offset.Mul(d))
}

func (c *CameraState) GetViewMatrix() mgl32.Mat4 {
	return mgl32.LookAtV(c.Position(), c.Target, mgl32.Vec3{0, 1, 0})
}

func (c *CameraState) GetProjectionMatrix(aspect float32) mgl32.Mat4 {
	if aspect <= 0 {
		aspect = 1.0
	}
	return mgl32.Perspective(mgl32.DegToRad(c.Fov), aspect, c.Near, c.Far)
}

// ViewProj is projection * view.
func (c *CameraState) ViewProj(aspect float32) mgl32.Mat4 {
	return c.GetProjectionMatrix(aspect).Mul4(c.GetViewMatrix())
}

// Zoom changes the orbit distance by delta, clamped to the allowed range.
func (c *CameraState) Zoom(delta float32) {
	c.Distance = clampf(c.Distance+delta, c.MinDistance, c.MaxDistance)
}

// Rotate turns the camera around the target by mouse deltas in pixels.
func (c *CameraState) Rotate(dx, dy float32) {
	c.Yaw -= dx * c.Sensitivity
	c.Pitch += dy * c.Sensitivity

	limit := float32(math.Pi/2 - 0.01)
	c.Pitch = clampf(c.Pitch, -limit, limit)
}

// Project maps a world position to pixel coordinates in a w*h target. depth
// is NDC z in [-1,1]. ok is false when the point is behind the near plane or
// outside the viewport.
func Project(vp mgl32.Mat4, pos mgl32.Vec3, w, h int) (x, y, depth float32, ok bool) {
	clip := vp.Mul4x1(pos.Vec4(1.0))
	if clip.W() <= 0 {
		return 0, 0, 0, false
	}
	ndc := clip.Vec3().Mul(1.0 / clip.W())
	if ndc.Z() < -1 || ndc.Z() > 1 {
		return 0, 0, 0, false
	}

	fw, fh := float32(w), float32(h)
	x = (ndc.X()*0.5 + 0.5) * fw
	y = (1.0 - (ndc.Y()*0.5 + 0.5)) * fh
	if x < 0 || x >= fw || y < 0 || y >= fh {
		return x, y, ndc.Z(), false
	}
	return x, y, ndc.Z(), true
}

func clampf(v, lo, hi float32) float32 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
