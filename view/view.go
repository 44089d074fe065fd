package view

//Viewer is the optional live particle-cloud display: a single GLFW
//window and one point-sprite shader program, colored by velocity
//magnitude, fed by whatever the solver goroutine pushes down Frames.
//It never touches solver state directly - Frame is a plain value copied
//out of the particle slice once per write_frequency steps - so the
//render loop and the solve loop can run on separate goroutines the way
//the teacher's fluid thread and draw loop did, synchronized by a
//channel handshake instead of shared memory.

import (
	"fmt"
	"strings"

	"math"

	"github.com/go-gl/gl/v4.1-core/gl"
	"github.com/go-gl/glfw/v3.2/glfw"

	particle "diesel.com/mpm/particle"
	utils "diesel.com/mpm/utils"
	vector "diesel.com/mpm/vector"
)

type Frame struct {
	Positions         []vector.Vec3
	VelocityMagnitude []float32
}

type AppWindow struct {
	Width  int
	Height int
	Title  string
}

type Viewer struct {
	window *glfw.Window
	prog   uint32
	vao    uint32
	vbo    uint32

	proj   vector.Mat4
	modelL int32
	projL  int32

	capacity int

	domainCenter vector.Vec3
	domainScale  float64
}

//InitGLFW opens the render window and makes its GL context current.
//Must run on the locked OS thread, same requirement the teacher's
//InitGLFW carried.
func InitGLFW(w AppWindow) (*glfw.Window, error) {
	if err := glfw.Init(); err != nil {
		return nil, fmt.Errorf("view: glfw init: %w", err)
	}

	glfw.WindowHint(glfw.Resizable, glfw.False)
	glfw.WindowHint(glfw.ContextVersionMajor, 4)
	glfw.WindowHint(glfw.ContextVersionMinor, 1)
	glfw.WindowHint(glfw.OpenGLProfile, glfw.OpenGLCoreProfile)
	glfw.WindowHint(glfw.OpenGLForwardCompatible, glfw.True)

	window, err := glfw.CreateWindow(w.Width, w.Height, w.Title, nil, nil)
	if err != nil {
		return nil, fmt.Errorf("view: creating window: %w", err)
	}
	window.MakeContextCurrent()

	return window, nil
}

const vertexShaderSrc = `
#version 410
layout (location = 0) in vec3 position;
layout (location = 1) in float velocityMagnitude;
uniform mat4 model;
uniform mat4 proj;
out float vMag;
void main() {
	gl_Position = proj * model * vec4(position, 1.0);
	gl_PointSize = 4.0;
	vMag = velocityMagnitude;
}
` + "\x00"

const fragmentShaderSrc = `
#version 410
in float vMag;
out vec4 frag_color;
void main() {
	float t = clamp(vMag, 0.0, 1.0);
	frag_color = vec4(t, 0.2, 1.0 - t, 1.0);
}
` + "\x00"

//NewViewer compiles the point-sprite shader and window described by w,
//sized to hold up to capacity particles.
func NewViewer(w AppWindow, capacity int) (*Viewer, error) {
	window, err := InitGLFW(w)
	if err != nil {
		return nil, err
	}

	if err := gl.Init(); err != nil {
		return nil, fmt.Errorf("view: gl init: %w", err)
	}

	prog, err := linkProgram(vertexShaderSrc, fragmentShaderSrc)
	if err != nil {
		return nil, err
	}

	v := &Viewer{
		window:       window,
		prog:         prog,
		proj:         vector.Mat4Identity(),
		capacity:     capacity,
		domainCenter: vector.Vec3{0, 0, 0},
		domainScale:  1.0,
	}

	gl.GenVertexArrays(1, &v.vao)
	gl.GenBuffers(1, &v.vbo)
	gl.BindVertexArray(v.vao)
	gl.BindBuffer(gl.ARRAY_BUFFER, v.vbo)
	gl.BufferData(gl.ARRAY_BUFFER, capacity*4*4, nil, gl.DYNAMIC_DRAW)
	gl.EnableVertexAttribArray(0)
	gl.VertexAttribPointer(0, 3, gl.FLOAT, false, 4*4, gl.PtrOffset(0))
	gl.EnableVertexAttribArray(1)
	gl.VertexAttribPointer(1, 1, gl.FLOAT, false, 4*4, gl.PtrOffset(3*4))

	v.modelL = gl.GetUniformLocation(prog, gl.Str("model\x00"))
	v.projL = gl.GetUniformLocation(prog, gl.Str("proj\x00"))

	return v, nil
}

//NewFrame copies the positions and per-particle velocity magnitude out
//of a solver snapshot into a plain value the render loop can consume
//without touching solver state.
func NewFrame(particles []*particle.Particle) Frame {
	f := Frame{
		Positions:         make([]vector.Vec3, len(particles)),
		VelocityMagnitude: make([]float32, len(particles)),
	}
	for i, p := range particles {
		f.Positions[i] = p.Position
		v := p.Velocity
		f.VelocityMagnitude[i] = float32(math.Sqrt(v[0]*v[0] + v[1]*v[1] + v[2]*v[2]))
	}
	return f
}

func (v *Viewer) ShouldClose() bool {
	return v.window.ShouldClose()
}

//SetDomain fits a domain of the given extent, centered at center, into
//the viewer's normalized viewing volume. Particle positions are in
//simulation units (meters, typically order 1-10); RenderFrame scales
//them about center so the cloud stays inside the projection frustum
//regardless of the configured mesh size.
func (v *Viewer) SetDomain(center vector.Vec3, extent float64) {
	v.domainCenter = center
	if extent > 0 {
		v.domainScale = 2.0 / extent
	} else {
		v.domainScale = 1.0
	}
}

//RenderFrame uploads the frame's interleaved position/velocity buffer
//and draws one point per particle.
func (v *Viewer) RenderFrame(f Frame) {
	gl.ClearColor(0.08, 0.08, 0.1, 1.0)
	gl.Clear(gl.COLOR_BUFFER_BIT | gl.DEPTH_BUFFER_BIT)

	positions := append([]vector.Vec3{}, f.Positions...)
	utils.ScalePositions(positions, v.domainCenter, v.domainScale)

	buf := make([]float32, 0, len(positions)*4)
	for i, p := range positions {
		buf = append(buf, float32(p[0]), float32(p[1]), float32(p[2]), f.VelocityMagnitude[i])
	}

	gl.UseProgram(v.prog)
	//move the scaled cloud from the domain center to in front of the camera
	model := vector.Translation(vector.Vec3{-v.domainCenter[0], -v.domainCenter[1], -v.domainCenter[2] - 4})
	gl.UniformMatrix4fv(v.modelL, 1, false, &model[0])
	gl.UniformMatrix4fv(v.projL, 1, false, &v.proj[0])

	gl.BindVertexArray(v.vao)
	gl.BindBuffer(gl.ARRAY_BUFFER, v.vbo)
	if len(buf) > 0 {
		gl.BufferSubData(gl.ARRAY_BUFFER, 0, len(buf)*4, gl.Ptr(&buf[0]))
	}
	gl.DrawArrays(gl.POINTS, 0, int32(len(f.Positions)))

	glfw.PollEvents()
	v.window.SwapBuffers()
}

func (v *Viewer) SetProjection(aspect float32) {
	v.proj = vector.Perspective(0.8, aspect, 0.1, 1000)
}

func (v *Viewer) Close() {
	glfw.Terminate()
}

func linkProgram(vertexSrc, fragmentSrc string) (uint32, error) {
	vs, err := compileShader(vertexSrc, gl.VERTEX_SHADER)
	if err != nil {
		return 0, err
	}
	fs, err := compileShader(fragmentSrc, gl.FRAGMENT_SHADER)
	if err != nil {
		return 0, err
	}

	prog := gl.CreateProgram()
	gl.AttachShader(prog, vs)
	gl.AttachShader(prog, fs)
	gl.LinkProgram(prog)

	var status int32
	gl.GetProgramiv(prog, gl.LINK_STATUS, &status)
	if status == gl.FALSE {
		var logLength int32
		gl.GetProgramiv(prog, gl.INFO_LOG_LENGTH, &logLength)
		log := strings.Repeat("\x00", int(logLength+1))
		gl.GetProgramInfoLog(prog, logLength, nil, gl.Str(log))
		return 0, fmt.Errorf("view: program link failed: %s", log)
	}

	return prog, nil
}

func compileShader(source string, shaderType uint32) (uint32, error) {
	shader := gl.CreateShader(shaderType)
	csources, free := gl.Strs(source)
	gl.ShaderSource(shader, 1, csources, nil)
	gl.CompileShader(shader)
	free()

	var status int32
	gl.GetShaderiv(shader, gl.COMPILE_STATUS, &status)
	if status == gl.FALSE {
		var logLength int32
		gl.GetShaderiv(shader, gl.INFO_LOG_LENGTH, &logLength)
		log := strings.Repeat("\x00", int(logLength+1))
		gl.GetShaderInfoLog(shader, logLength, nil, gl.Str(log))
		return 0, fmt.Errorf("view: shader failed to compile: %s", log)
	}

	return shader, nil
}
