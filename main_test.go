package main

import (
	"bytes"
	"image/png"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func runApp(t *testing.T, args ...string) error {
	t.Helper()
	app := newApp()
	app.Writer = &bytes.Buffer{}
	return app.Run(append([]string{"raydiance"}, args...))
}

func TestRenderCommand(t *testing.T) {
	out := filepath.Join(t.TempDir(), "triangle.png")
	err := runApp(t, "render",
		"--scene", "triangle",
		"--width", "24",
		"--height", "16",
		"--spp", "2",
		"--bounces", "2",
		"--workers", "2",
		"--out", out,
	)
	if err != nil {
		t.Fatalf("render failed: %v", err)
	}

	f, err := os.Open(out)
	if err != nil {
		t.Fatalf("output not written: %v", err)
	}
	defer f.Close()
	img, err := png.Decode(f)
	if err != nil {
		t.Fatalf("output is not a png: %v", err)
	}
	if b := img.Bounds(); b.Dx() != 24 || b.Dy() != 16 {
		t.Errorf("Expected 24x16 image, got %v", b)
	}
}

func TestRenderCommand_PLY(t *testing.T) {
	dir := t.TempDir()
	ply := `ply
format ascii 1.0
element vertex 4
property float x
property float y
property float z
element face 1
property list uchar int vertex_indices
end_header
-0.5 0.5 -0.5
0.5 0.5 -0.5
0.5 0.5 0.5
-0.5 0.5 0.5
4 0 3 2 1
`
	plyFile := filepath.Join(dir, "quad.ply")
	if err := os.WriteFile(plyFile, []byte(ply), 0o644); err != nil {
		t.Fatal(err)
	}

	out := filepath.Join(dir, "quad.bmp")
	err := runApp(t, "render", "--scene", "triangle", "--ply", plyFile,
		"--width", "16", "--height", "16", "--spp", "1", "--out", out)
	if err != nil {
		t.Fatalf("render failed: %v", err)
	}
	if _, err := os.Stat(out); err != nil {
		t.Errorf("output not written: %v", err)
	}
}

func TestRenderCommand_Errors(t *testing.T) {
	dir := t.TempDir()
	tests := []struct {
		name string
		args []string
	}{
		{"unknown scene", []string{"--scene", "nonexistent"}},
		{"unknown sampler", []string{"--sampler", "stratified"}},
		{"unsupported format", []string{"--out", filepath.Join(dir, "frame.gif")}},
		{"missing ply", []string{"--ply", filepath.Join(dir, "missing.ply")}},
		{"texture without ply", []string{"--texture", filepath.Join(dir, "albedo.png")}},
		{"invalid size", []string{"--width", "0"}},
		{"invalid turbidity", []string{"--turbidity", "0.5"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			args := append([]string{"render", "--scene", "triangle", "--width", "8", "--height", "8", "--spp", "1",
				"--out", filepath.Join(dir, "frame.png")}, tt.args...)
			if err := runApp(t, args...); err == nil {
				t.Errorf("Expected an error for %v", tt.args)
			}
		})
	}
}

func TestScenesCommand(t *testing.T) {
	app := newApp()
	var buf bytes.Buffer
	app.Writer = &buf
	if err := app.Run([]string{"raydiance", "scenes"}); err != nil {
		t.Fatalf("scenes failed: %v", err)
	}
	for _, name := range []string{"default", "materials", "triangle"} {
		if !strings.Contains(buf.String(), name) {
			t.Errorf("Expected %q in scene list:\n%s", name, buf.String())
		}
	}
}
