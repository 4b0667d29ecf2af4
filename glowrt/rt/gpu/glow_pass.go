package gpu

import (
	"fmt"

	"github.com/gekko3d/glowcloud/glowrt/rt/shaders"

	"github.com/cogentcore/webgpu/wgpu"
)

// MarkerVertices is the vertex count of one marker quad (two triangles).
const MarkerVertices = 6

// GlowRenderPass draws the shaded point cloud and one screen-aligned disc per
// light. Both pipelines share the scene uniform at group 0.
type GlowRenderPass struct {
	Device          *wgpu.Device
	Layout          *wgpu.BindGroupLayout
	PipelineLayout  *wgpu.PipelineLayout
	PointsShader    *wgpu.ShaderModule
	MarkersShader   *wgpu.ShaderModule
	PointsPipeline  *wgpu.RenderPipeline
	MarkersPipeline *wgpu.RenderPipeline
	BindGroup       *wgpu.BindGroup
	ShowMarkers     bool
}

func NewGlowRenderPass(device *wgpu.Device, format wgpu.TextureFormat) (*GlowRenderPass, error) {
	bgl, err := device.CreateBindGroupLayout(&wgpu.BindGroupLayoutDescriptor{
		Label: "GlowSceneBGL",
		Entries: []wgpu.BindGroupLayoutEntry{
			{
				Binding:    0,
				Visibility: wgpu.ShaderStageVertex | wgpu.ShaderStageFragment,
				Buffer: wgpu.BufferBindingLayout{
					Type:           wgpu.BufferBindingTypeUniform,
					MinBindingSize: SceneUniformSize,
				},
			},
		},
	})
	if err != nil {
		return nil, fmt.Errorf("scene bind group layout: %w", err)
	}

	layout, err := device.CreatePipelineLayout(&wgpu.PipelineLayoutDescriptor{
		Label:            "GlowPipelineLayout",
		BindGroupLayouts: []*wgpu.BindGroupLayout{bgl},
	})
	if err != nil {
		return nil, fmt.Errorf("pipeline layout: %w", err)
	}

	pointsModule, err := device.CreateShaderModule(&wgpu.ShaderModuleDescriptor{
		Label:          "PointsShader",
		WGSLDescriptor: &wgpu.ShaderModuleWGSLDescriptor{Code: shaders.PointsWGSL},
	})
	if err != nil {
		return nil, fmt.Errorf("points shader: %w", err)
	}
	markersModule, err := device.CreateShaderModule(&wgpu.ShaderModuleDescriptor{
		Label:          "MarkersShader",
		WGSLDescriptor: &wgpu.ShaderModuleWGSLDescriptor{Code: shaders.MarkersWGSL},
	})
	if err != nil {
		return nil, fmt.Errorf("markers shader: %w", err)
	}

	target := []wgpu.ColorTargetState{{
		Format:    format,
		WriteMask: wgpu.ColorWriteMaskAll,
	}}

	points, err := device.CreateRenderPipeline(&wgpu.RenderPipelineDescriptor{
		Label:  "PointsPipeline",
		Layout: layout,
		Vertex: wgpu.VertexState{
			Module:     pointsModule,
			EntryPoint: "vs_main",
			Buffers: []wgpu.VertexBufferLayout{{
				ArrayStride: PointStride,
				StepMode:    wgpu.VertexStepModeVertex,
				Attributes: []wgpu.VertexAttribute{{
					Format:         wgpu.VertexFormatFloat32x3,
					Offset:         0,
					ShaderLocation: 0,
				}},
			}},
		},
		Fragment: &wgpu.FragmentState{
			Module:     pointsModule,
			EntryPoint: "fs_main",
			Targets:    target,
		},
		Primitive: wgpu.PrimitiveState{
			Topology: wgpu.PrimitiveTopologyPointList,
			CullMode: wgpu.CullModeNone,
		},
		Multisample: wgpu.MultisampleState{
			Count: 1,
			Mask:  0xFFFFFFFF,
		},
	})
	if err != nil {
		return nil, fmt.Errorf("points pipeline: %w", err)
	}

	markers, err := device.CreateRenderPipeline(&wgpu.RenderPipelineDescriptor{
		Label:  "MarkersPipeline",
		Layout: layout,
		Vertex: wgpu.VertexState{
			Module:     markersModule,
			EntryPoint: "vs_main",
		},
		Fragment: &wgpu.FragmentState{
			Module:     markersModule,
			EntryPoint: "fs_main",
			Targets:    target,
		},
		Primitive: wgpu.PrimitiveState{
			Topology:  wgpu.PrimitiveTopologyTriangleList,
			FrontFace: wgpu.FrontFaceCCW,
			CullMode:  wgpu.CullModeNone,
		},
		Multisample: wgpu.MultisampleState{
			Count: 1,
			Mask:  0xFFFFFFFF,
		},
	})
	if err != nil {
		return nil, fmt.Errorf("markers pipeline: %w", err)
	}

	return &GlowRenderPass{
		Device:          device,
		Layout:          bgl,
		PipelineLayout:  layout,
		PointsShader:    pointsModule,
		MarkersShader:   markersModule,
		PointsPipeline:  points,
		MarkersPipeline: markers,
		ShowMarkers:     true,
	}, nil
}

// CreateBindGroup binds the scene uniform. Call again whenever the buffer
// manager recreates SceneBuf.
func (p *GlowRenderPass) CreateBindGroup(sceneBuffer *wgpu.Buffer) error {
	if p.BindGroup != nil {
		p.BindGroup.Release()
	}
	bg, err := p.Device.CreateBindGroup(&wgpu.BindGroupDescriptor{
		Label:  "GlowSceneBG",
		Layout: p.Layout,
		Entries: []wgpu.BindGroupEntry{{
			Binding: 0,
			Buffer:  sceneBuffer,
			Size:    SceneUniformSize,
		}},
	})
	if err != nil {
		return fmt.Errorf("scene bind group: %w", err)
	}
	p.BindGroup = bg
	return nil
}

func (p *GlowRenderPass) Draw(pass *wgpu.RenderPassEncoder, m *BufferManager) {
	if p.BindGroup == nil {
		return
	}
	pass.SetBindGroup(0, p.BindGroup, nil)

	if m.PointsBuf != nil && m.PointCount > 0 {
		pass.SetPipeline(p.PointsPipeline)
		pass.SetVertexBuffer(0, m.PointsBuf, 0, uint64(m.PointCount)*PointStride)
		pass.Draw(m.PointCount, 1, 0, 0)
	}

	if p.ShowMarkers && m.LightCount > 0 {
		pass.SetPipeline(p.MarkersPipeline)
		pass.Draw(MarkerVertices, m.LightCount, 0, 0)
	}
}

// Release frees everything the pass created. Fields are cleared so a second
// call is a no-op.
func (p *GlowRenderPass) Release() {
	if p.BindGroup != nil {
		p.BindGroup.Release()
		p.BindGroup = nil
	}
	if p.MarkersPipeline != nil {
		p.MarkersPipeline.Release()
		p.MarkersPipeline = nil
	}
	if p.PointsPipeline != nil {
		p.PointsPipeline.Release()
		p.PointsPipeline = nil
	}
	if p.MarkersShader != nil {
		p.MarkersShader.Release()
		p.MarkersShader = nil
	}
	if p.PointsShader != nil {
		p.PointsShader.Release()
		p.PointsShader = nil
	}
	if p.PipelineLayout != nil {
		p.PipelineLayout.Release()
		p.PipelineLayout = nil
	}
	if p.Layout != nil {
		p.Layout.Release()
		p.Layout = nil
	}
}
