package gpu

import (
	"bytes"
	"encoding/binary"
	"fmt"
	"math"
	"reflect"

	"github.com/gekko3d/glowcloud/glowrt/rt/core"

	"github.com/cogentcore/webgpu/wgpu"
	"github.com/go-gl/mathgl/mgl32"
)

const (
	// SceneUniformSize is sizeof(SceneData) in points.wgsl and markers.wgsl.
	SceneUniformSize = 288
	// PointStride is one vec3<f32> vertex.
	PointStride = 12
)

// gpuLight matches struct Light in the shaders.
type gpuLight struct {
	PosDist        [4]float32
	ColorIntensity [4]float32
}

// sceneData matches struct SceneData in the shaders.
type sceneData struct {
	ViewProj [16]float32
	Params   [4]float32 // exposure, marker radius, proj[0][0], proj[1][1]
	Counts   [4]uint32
	Lights   [core.NumLights]gpuLight
}

// SceneUniforms is the per-frame state uploaded to the scene uniform buffer.
type SceneUniforms struct {
	ViewProj     mgl32.Mat4
	Proj         mgl32.Mat4
	Exposure     float32
	MarkerRadius float32
	Lights       []core.Light
}

// PackSceneUniforms lays out u exactly like SceneData. Lights beyond
// core.NumLights are dropped.
func PackSceneUniforms(u SceneUniforms) []byte {
	var d sceneData
	d.ViewProj = u.ViewProj
	d.Params = [4]float32{u.Exposure, u.MarkerRadius, u.Proj.At(0, 0), u.Proj.At(1, 1)}

	n := len(u.Lights)
	if n > core.NumLights {
		n = core.NumLights
	}
	d.Counts[0] = uint32(n)
	for i := 0; i < n; i++ {
		l := u.Lights[i]
		d.Lights[i] = gpuLight{
			PosDist:        [4]float32{l.Position.X(), l.Position.Y(), l.Position.Z(), l.Distance},
			ColorIntensity: [4]float32{l.Color[0], l.Color[1], l.Color[2], l.Intensity},
		}
	}

	buf := new(bytes.Buffer)
	buf.Grow(SceneUniformSize)
	writeUniform(reflect.ValueOf(d), buf)
	return buf.Bytes()
}

// writeUniform appends the little-endian bytes of a uniform value. Only
// 32-bit scalars, arrays and structs are accepted.
func writeUniform(field reflect.Value, buf *bytes.Buffer) {
	switch field.Kind() {
	case reflect.Array, reflect.Slice:
		for i := 0; i < field.Len(); i++ {
			writeUniform(field.Index(i), buf)
		}
	case reflect.Struct:
		for i := 0; i < field.NumField(); i++ {
			writeUniform(field.Field(i), buf)
		}
	case reflect.Uint32, reflect.Int32, reflect.Float32:
		if err := binary.Write(buf, binary.LittleEndian, field.Interface()); err != nil {
			panic(fmt.Errorf("failed to write uniform scalar: %w", err))
		}
	default:
		panic(fmt.Errorf("unsupported uniform type: %v", field.Type()))
	}
}

// PackPoints flattens positions into a tightly packed vec3<f32> vertex buffer.
func PackPoints(points []mgl32.Vec3) []byte {
	out := make([]byte, len(points)*PointStride)
	for i, p := range points {
		off := i * PointStride
		binary.LittleEndian.PutUint32(out[off:], math.Float32bits(p[0]))
		binary.LittleEndian.PutUint32(out[off+4:], math.Float32bits(p[1]))
		binary.LittleEndian.PutUint32(out[off+8:], math.Float32bits(p[2]))
	}
	return out
}

// BufferManager owns the scene uniform buffer and the point vertex buffer.
type BufferManager struct {
	Device *wgpu.Device

	SceneBuf  *wgpu.Buffer
	PointsBuf *wgpu.Buffer

	PointCount uint32
	LightCount uint32
}

func NewBufferManager(device *wgpu.Device) *BufferManager {
	return &BufferManager{Device: device}
}

// ensureBuffer grows buf to fit data plus headroom and uploads data. It
// reports whether the buffer was recreated, which invalidates bind groups.
func (m *BufferManager) ensureBuffer(name string, buf **wgpu.Buffer, data []byte, usage wgpu.BufferUsage, headroom int) (bool, error) {
	neededSize := uint64(len(data) + headroom)
	if neededSize%4 != 0 {
		neededSize += 4 - (neededSize % 4)
	}
	if neededSize == 0 {
		neededSize = 4
	}

	recreated := false
	current := *buf
	if current == nil || current.GetSize() < neededSize {
		if current != nil {
			current.Release()
		}
		newBuf, err := m.Device.CreateBuffer(&wgpu.BufferDescriptor{
			Label: name,
			Size:  neededSize,
			Usage: usage | wgpu.BufferUsageCopyDst,
		})
		if err != nil {
			return false, fmt.Errorf("create %s: %w", name, err)
		}
		*buf = newBuf
		recreated = true
	}

	if len(data) > 0 {
		if err := m.Device.GetQueue().WriteBuffer(*buf, 0, data); err != nil {
			return recreated, fmt.Errorf("write %s: %w", name, err)
		}
	}
	return recreated, nil
}

func (m *BufferManager) UpdateScene(u SceneUniforms) (bool, error) {
	n := len(u.Lights)
	if n > core.NumLights {
		n = core.NumLights
	}
	m.LightCount = uint32(n)
	return m.ensureBuffer("SceneUB", &m.SceneBuf, PackSceneUniforms(u), wgpu.BufferUsageUniform, 0)
}

// UpdatePoints uploads the cloud. The cloud is static, so this runs once
// per cloud rather than once per frame.
func (m *BufferManager) UpdatePoints(points []mgl32.Vec3) (bool, error) {
	m.PointCount = uint32(len(points))
	return m.ensureBuffer("PointsVB", &m.PointsBuf, PackPoints(points), wgpu.BufferUsageVertex, 0)
}

func (m *BufferManager) Release() {
	if m.SceneBuf != nil {
		m.SceneBuf.Release()
		m.SceneBuf = nil
	}
	if m.PointsBuf != nil {
		m.PointsBuf.Release()
		m.PointsBuf = nil
	}
}
