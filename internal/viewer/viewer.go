// Package viewer runs the interactive terrain viewer loop.
package viewer

import (
	"fmt"
	"image"
	"time"

	"github.com/veandco/go-sdl2/sdl"
	"go.uber.org/zap"

	"github.com/gpr300/terrainlab/internal/config"
	"github.com/gpr300/terrainlab/internal/engine/camera"
	"github.com/gpr300/terrainlab/internal/engine/debug"
	"github.com/gpr300/terrainlab/internal/engine/input"
	"github.com/gpr300/terrainlab/internal/engine/picking"
	"github.com/gpr300/terrainlab/internal/engine/renderer"
	"github.com/gpr300/terrainlab/internal/engine/scene"
	"github.com/gpr300/terrainlab/internal/engine/terrain"
	"github.com/gpr300/terrainlab/internal/engine/window"
	"github.com/gpr300/terrainlab/internal/logger"
	"github.com/gpr300/terrainlab/pkg/math"
)

// Keep the fly camera this far above the ground.
const groundClearance = 2

// Viewer is the main viewer instance.
type Viewer struct {
	config   *config.Config
	running  bool
	window   *window.Window
	renderer *renderer.Renderer
	input    *input.Input
	scene    *scene.Scene

	orbit  *camera.OrbitCamera
	fly    *camera.FlyCamera
	flying bool

	settings    *settings
	screenshots *debug.Screenshots
	capture     bool
	renderErrs  renderErrors
}

// New opens the window, builds the first terrain and sets up the cameras.
func New(cfg *config.Config) (*Viewer, error) {
	logger.Info("initializing viewer",
		zap.String("heightmap", cfg.Terrain.Heightmap),
		zap.Int("resolution", cfg.Terrain.Resolution),
	)

	v := &Viewer{config: cfg}

	var err error
	v.window, err = window.New(window.Config{
		Title:      cfg.Window.Title,
		Width:      cfg.Window.Width,
		Height:     cfg.Window.Height,
		Fullscreen: cfg.Window.Fullscreen,
		VSync:      cfg.Window.VSync,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create window: %w", err)
	}

	// GL state needs the context the window just created
	width, height := v.window.Size()
	v.renderer, err = renderer.New(renderer.Config{
		Width:      width,
		Height:     height,
		ClearColor: [3]float32{0.53, 0.7, 0.85},
	})
	if err != nil {
		v.Close()
		return nil, fmt.Errorf("failed to create renderer: %w", err)
	}

	var source terrain.HeightmapSource
	if cfg.Terrain.Heightmap != "" {
		source = terrain.FileSource(cfg.Terrain.Heightmap)
	}
	v.scene, err = scene.New(source)
	if err != nil {
		v.Close()
		return nil, err
	}
	v.scene.BlendThreshold = cfg.Terrain.BlendThreshold
	v.scene.NoiseInfluence = cfg.Terrain.NoiseInfluence
	if err := v.loadBands(); err != nil {
		v.Close()
		return nil, err
	}
	v.loadTextures()
	if err := v.scene.Regenerate(cfg.Terrain.Config); err != nil {
		v.Close()
		return nil, fmt.Errorf("initial terrain: %w", err)
	}

	v.setupCameras()
	v.input = input.New()
	v.settings, err = newSettings(cfg.Terrain.Config)
	if err != nil {
		v.Close()
		return nil, fmt.Errorf("settings window: %w", err)
	}
	v.screenshots = debug.NewScreenshots("screenshots", "terrain")

	logger.Info("viewer initialized")
	return v, nil
}

func (v *Viewer) setupCameras() {
	c := v.config.Camera

	v.orbit = camera.NewOrbitCamera(math.Vec3From(c.Target), c.OrbitRadius)
	v.orbit.Height = c.OrbitHeight
	v.orbit.Speed = c.OrbitSpeed
	v.orbit.MaxRadius = c.FarPlane
	applyLens(&v.orbit.Camera, c)
	v.orbit.Update(0)

	v.fly = camera.NewFlyCamera(math.Vec3From(c.Position))
	v.fly.MoveSpeed = c.MoveSpeed
	v.fly.Sensitivity = c.Sensitivity
	applyLens(&v.fly.Camera, c)

	v.flying = !c.Orbit
}

func applyLens(cam *camera.Camera, c config.CameraConfig) {
	cam.FOV = c.FOV
	cam.NearPlane = c.NearPlane
	cam.FarPlane = c.FarPlane
	cam.Orthographic = c.Orthographic
	cam.OrthographicSize = c.OrthographicSize
}

func (v *Viewer) loadBands() error {
	path := v.config.Terrain.ColorBands
	if path == "" {
		v.scene.Bands = terrain.DefaultColorBands()
		return nil
	}
	bands, err := terrain.LoadColorBands(path)
	if err != nil {
		return fmt.Errorf("colour bands: %w", err)
	}
	v.scene.Bands = bands
	return nil
}

// loadTextures uploads the configured surface and noise textures. A file that
// fails to load leaves its slot untextured.
func (v *Viewer) loadTextures() {
	load := func(kind, path string) *image.RGBA {
		if path == "" {
			return nil
		}
		img, err := terrain.LoadTexture(path)
		if err != nil {
			logger.Warn("texture not loaded", zap.String("kind", kind), zap.Error(err))
			return nil
		}
		return img
	}
	cfg := v.config.Terrain
	v.scene.SetTextures(load("surface", cfg.Texture), load("noise", cfg.NoiseTexture))
}

// renderErrors tracks the last failed frame so a persistent error is logged
// once rather than every frame.
type renderErrors struct {
	last string
}

// report records err and returns true when it should be logged.
func (r *renderErrors) report(err error) bool {
	if err == nil {
		r.last = ""
		return false
	}
	msg := err.Error()
	if msg == r.last {
		return false
	}
	r.last = msg
	return true
}

// Run starts the main loop.
func (v *Viewer) Run() error {
	v.running = true

	lastTime := time.Now()
	frameCount := 0
	fpsTimer := time.Now()

	logger.Info("starting viewer loop")

	for v.running {
		now := time.Now()
		dt := float32(now.Sub(lastTime).Seconds())
		lastTime = now

		if v.input.Update() {
			v.running = false
			break
		}
		v.handleEvents()
		v.update(dt)

		v.renderer.Begin()
		// A degenerate camera skips the scene for this frame only
		if err := v.scene.Render(v.activeCamera(), v.renderer.Aspect()); v.renderErrs.report(err) {
			logger.Warn("skipping scene render", zap.Error(err))
		}
		// Screenshots leave the settings window out
		if v.capture {
			v.capture = false
			v.saveScreenshot()
		}
		v.settingsFrame()
		v.window.SwapBuffers()

		frameCount++
		if time.Since(fpsTimer) >= time.Second {
			logger.Debug("fps", zap.Int("count", frameCount), zap.Float32("dt_ms", dt*1000))
			frameCount = 0
			fpsTimer = time.Now()
		}
	}

	return nil
}

func (v *Viewer) activeCamera() *camera.Camera {
	if v.flying {
		return &v.fly.Camera
	}
	return &v.orbit.Camera
}

func (v *Viewer) handleEvents() {
	for _, event := range v.input.Events() {
		switch event.Type {
		case input.EventWindowResize:
			v.renderer.Resize(v.window.Size())
		case input.EventKeyDown:
			v.handleKey(event.Key)
		case input.EventMouseDown:
			if v.settings.wantsMouse() {
				continue
			}
			if event.Button == sdl.BUTTON_RIGHT && !v.flying {
				v.recentre(event.MouseX, event.MouseY)
			}
		}
	}
}

func (v *Viewer) handleKey(key sdl.Scancode) {
	switch key {
	case sdl.SCANCODE_ESCAPE:
		v.running = false
	case sdl.SCANCODE_R:
		v.regenerate()
	case sdl.SCANCODE_O:
		v.setOrthographic(!v.orbit.Orthographic)
	case sdl.SCANCODE_F:
		v.renderer.SetWireframe(!v.renderer.Wireframe())
	case sdl.SCANCODE_C:
		v.flying = !v.flying
		v.window.SetMouseCaptured(v.flying)
	case sdl.SCANCODE_EQUALS:
		v.stepResolution(2)
	case sdl.SCANCODE_MINUS:
		v.stepResolution(0.5)
	case sdl.SCANCODE_B:
		if err := v.scene.Bands.Add(); err != nil {
			logger.Warn("cannot add colour band", zap.Error(err))
		}
	case sdl.SCANCODE_N:
		v.scene.Bands.Remove()
	case sdl.SCANCODE_P:
		v.capture = true
	case sdl.SCANCODE_TAB:
		v.settings.visible = !v.settings.visible
	}
}

func (v *Viewer) setOrthographic(on bool) {
	v.orbit.Orthographic = on
	v.fly.Orthographic = on
	logger.Info("projection toggled", zap.Bool("orthographic", on))
}

func (v *Viewer) warn(msg string, err error) {
	logger.Warn(msg, zap.Error(err))
}

// recentre moves the orbit centre to the terrain point under the cursor.
func (v *Viewer) recentre(x, y int) {
	model := v.scene.Transform.ModelMatrix()
	mvp, err := v.orbit.MVP(model, v.renderer.Aspect())
	if err != nil {
		return
	}
	inv, ok := mvp.Inverse()
	if !ok {
		return
	}

	w, h := v.window.LogicalSize()
	p, hit := picking.PickTerrain(v.scene.Generator(), inv, float32(x), float32(y), float32(w), float32(h))
	if !hit {
		return
	}
	v.orbit.Center = model.TransformPoint(p)
	v.orbit.Update(0)
	logger.Debug("orbit recentred",
		zap.Float32("x", v.orbit.Center.X),
		zap.Float32("y", v.orbit.Center.Y),
		zap.Float32("z", v.orbit.Center.Z),
	)
}

func (v *Viewer) saveScreenshot() {
	pixels, w, h := v.renderer.ReadPixels()
	path, err := v.screenshots.SavePixels(pixels, w, h)
	if err != nil {
		logger.Warn("screenshot failed", zap.Error(err))
		return
	}
	logger.Info("screenshot saved", zap.String("path", path))
}

// regenerate reloads the heightmap, palette and textures and rebuilds the
// mesh.
func (v *Viewer) regenerate() {
	if err := v.loadBands(); err != nil {
		logger.Warn("keeping current colour bands", zap.Error(err))
	}
	v.loadTextures()
	if err := v.scene.Regenerate(v.config.Terrain.Config); err != nil {
		logger.Warn("keeping current terrain", zap.Error(err))
	}
	v.settings.pending = v.config.Terrain.Config
}

func (v *Viewer) stepResolution(factor float32) {
	cfg := v.config.Terrain.Config
	next := int(float32(cfg.Resolution) * factor)
	if next < 1 {
		next = 1
	}
	if next > terrain.MaxResolution {
		next = terrain.MaxResolution
	}
	if next == cfg.Resolution {
		return
	}
	cfg.Resolution = next
	if err := v.scene.Regenerate(cfg); err != nil {
		logger.Warn("keeping current terrain", zap.Error(err))
		return
	}
	v.config.Terrain.Resolution = next
	v.settings.pending.Resolution = next
}

func (v *Viewer) update(dt float32) {
	wheel := v.input.Wheel()

	if !v.flying {
		v.orbit.Update(dt)
		if wheel != 0 {
			v.orbit.HandleZoom(wheel)
		}
		return
	}

	dx, dy := v.input.MouseDelta()
	v.fly.Look(float32(dx), -float32(dy))
	if wheel != 0 {
		v.fly.Zoom(wheel)
	}

	forward := v.input.Axis(sdl.SCANCODE_S, sdl.SCANCODE_W)
	right := v.input.Axis(sdl.SCANCODE_A, sdl.SCANCODE_D)
	up := v.input.Axis(sdl.SCANCODE_LSHIFT, sdl.SCANCODE_SPACE)
	v.fly.Move(forward, right, up, dt)

	ground := v.scene.Generator().GroundHeight(v.fly.Position.X, v.fly.Position.Z) + groundClearance
	if v.fly.Position.Y < ground {
		v.fly.Position.Y = ground
		v.fly.Move(0, 0, 0, 0)
	}
}

// Close cleans up viewer resources.
func (v *Viewer) Close() {
	logger.Info("closing viewer")

	if v.settings != nil {
		v.settings.renderer.Close()
	}
	if v.scene != nil {
		v.scene.Destroy()
	}
	if v.renderer != nil {
		v.renderer.Close()
	}
	if v.window != nil {
		v.window.Close()
	}
}
