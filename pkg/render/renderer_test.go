// pkg/render/renderer_test.go
package render

import (
	"bytes"
	"math/rand/v2"
	"strings"
	"testing"

	"github.com/go-gl/mathgl/mgl64"

	"github.com/opd-ai/go-orrery/pkg/camera"
	"github.com/opd-ai/go-orrery/pkg/catalog"
	"github.com/opd-ai/go-orrery/pkg/engine"
	"github.com/opd-ai/go-orrery/pkg/logging"
	"github.com/opd-ai/go-orrery/pkg/orbit"
	"github.com/opd-ai/go-orrery/pkg/scene"
)

func buildView(t *testing.T) engine.FrameView {
	t.Helper()
	opts := scene.DefaultOptions()
	opts.StarCount = 0
	s, err := scene.Build(catalog.Default().Bodies(), opts, rand.New(rand.NewPCG(5, 6)))
	if err != nil {
		t.Fatalf("Build() error = %v", err)
	}
	t.Cleanup(s.Teardown)
	cam := camera.New(camera.DefaultSettings(), mgl64.Vec3{0, 200, 500}, mgl64.Vec3{})
	return engine.FrameView{
		Scene:    s,
		Camera:   cam,
		Speeds:   orbit.DefaultSpeeds(),
		Selected: engine.NoSelection,
		Frame:    7,
	}
}

func TestNullRenderer_Draw(t *testing.T) {
	t.Setenv(logging.LevelEnvVar, "DEBUG")
	var buf bytes.Buffer
	renderer := NewNullRenderer(logging.NewLoggerTo(&buf))

	v := buildView(t)
	if err := renderer.Draw(v); err != nil {
		t.Fatalf("Draw() error = %v", err)
	}
	out := buf.String()
	for _, want := range []string{"Draw called", `"bodies":8`, `"frame":7`} {
		if !strings.Contains(out, want) {
			t.Errorf("log missing %s: %s", want, out)
		}
	}

	buf.Reset()
	v.Scene.Teardown()
	if err := renderer.Draw(v); err != nil {
		t.Errorf("Draw() on a torn down scene error = %v", err)
	}
	if !strings.Contains(buf.String(), "without a live scene") {
		t.Errorf("unexpected log: %s", buf.String())
	}
}
