package shaders

import (
	_ "embed"
)

//go:embed points.wgsl
var PointsWGSL string

//go:embed markers.wgsl
var MarkersWGSL string
