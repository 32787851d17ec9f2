package scripts

import (
	"github.com/milk9111/engine3d/audio"
	"github.com/milk9111/engine3d/config"
	"github.com/milk9111/engine3d/ecs"
	"github.com/milk9111/engine3d/render"
)

// addViewpoint gives g a camera built from the settings and the audio
// listener, reusing either if it already exists.
func addViewpoint(ctx *ecs.Context, g *ecs.GameObject) (*render.Camera, error) {
	cam, ok := ecs.GetComponent(g, render.CameraType)
	if !ok {
		c, err := render.CameraFromSettings(ctx.Settings.Camera)
		if err != nil {
			return nil, err
		}
		if cam, err = ecs.AddComponent(g, render.CameraType, c); err != nil {
			return nil, err
		}
	}
	if !ecs.HasComponent(g, audio.ListenerType) {
		if _, err := ecs.AddComponent(g, audio.ListenerType, audio.NewListener()); err != nil {
			return nil, err
		}
	}
	return cam, nil
}

// syncCamera applies live settings so edits to the config show without a
// restart. Invalid settings are ignored.
func syncCamera(cam *render.Camera, s config.Camera) {
	if cam == nil || s.FOV <= 0 || s.FOV >= 180 || s.Near <= 0 || s.Far <= s.Near {
		return
	}
	cam.FOV, cam.Near, cam.Far = s.FOV, s.Near, s.Far
}
