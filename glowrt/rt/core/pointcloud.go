package core

import (
	"math/rand"

	"github.com/go-gl/mathgl/mgl32"
)

// DefaultPointCount is the size of the scene's point cloud.
const DefaultPointCount = 30000

// PointCloud is a fixed set of positions. It is generated once and never
// modified.
type PointCloud struct {
	Points []mgl32.Vec3
}

// GeneratePointCloud samples n points uniformly in the cube [-1,1]^3.
func GeneratePointCloud(rng *rand.Rand, n int) *PointCloud {
	pts := make([]mgl32.Vec3, n)
	for i := range pts {
		pts[i] = mgl32.Vec3{
			(rng.Float32() - 0.5) * 2,
			(rng.Float32() - 0.5) * 2,
			(rng.Float32() - 0.5) * 2,
		}
	}
	return &PointCloud{Points: pts}
}

func (pc *PointCloud) Len() int {
	return len(pc.Points)
}
