package scene

import (
	"os"
	"path/filepath"
	"testing"
)

func writeScenes(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "scenes.lua")
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestLoad(t *testing.T) {
	path := writeScenes(t, `
scene("evening", 0, {
    { op = "on", group = 0 },
    { op = "set_brightness", group = 1, brightness = 40 },
    { op = "set_color", group = 1, color = "orange" },
})

scene("movie", 1, {
    { op = "set_color", group = 0, color = "#200040" },
})
`)
	lib, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}

	names := lib.Names()
	if len(names) != 2 || names[0] != "evening" || names[1] != "movie" {
		t.Errorf("Names() = %v", names)
	}

	s, ok := lib.Get("evening")
	if !ok {
		t.Fatal("evening not registered")
	}
	if s.Gateway != 0 || len(s.Steps) != 3 {
		t.Fatalf("evening = %+v", s)
	}
	if s.Steps[0].Name != "on" || s.Steps[0].Group != 0 {
		t.Errorf("step 1 = %+v", s.Steps[0])
	}
	if s.Steps[1].Name != "set_brightness" || s.Steps[1].Brightness == nil || *s.Steps[1].Brightness != 40 {
		t.Errorf("step 2 = %+v", s.Steps[1])
	}
	if s.Steps[2].Color != "orange" {
		t.Errorf("step 3 = %+v", s.Steps[2])
	}
	// Steps inherit the scene's gateway.
	for _, step := range s.Steps {
		if step.Gateway != 0 {
			t.Errorf("step gateway = %d", step.Gateway)
		}
	}

	movie, _ := lib.Get("movie")
	if movie.Gateway != 1 || movie.Steps[0].Color != "#200040" {
		t.Errorf("movie = %+v", movie)
	}
}

func TestLoad_Resolver(t *testing.T) {
	path := writeScenes(t, `scene("s", 2, { { op = "off" } })`)
	lib, err := Load(path)
	if err != nil {
		t.Fatal(err)
	}
	resolve := lib.Resolver()
	gateway, steps, ok := resolve("s")
	if !ok || gateway != 2 || len(steps) != 1 {
		t.Errorf("resolve(s) = %d, %v, %v", gateway, steps, ok)
	}
	if _, _, ok := resolve("nope"); ok {
		t.Error("unknown scene should not resolve")
	}
}

func TestLoad_Invalid(t *testing.T) {
	cases := map[string]string{
		"missing op field": `scene("s", 0, { { group = 1 } })`,
		"empty steps":      `scene("s", 0, {})`,
		"duplicate name":   `scene("s", 0, { { op = "on" } }) scene("s", 0, { { op = "off" } })`,
		"syntax error":     `scene("s", 0, {`,
	}
	for label, src := range cases {
		if _, err := Load(writeScenes(t, src)); err == nil {
			t.Errorf("%s: Load should fail", label)
		}
	}
}
