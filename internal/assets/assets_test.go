package assets

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestLoadStyle(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name      string
		styleName string
		wantErr   error
	}{
		{"default style returns content", DefaultStyleName, nil},
		{"compact style returns content", "compact", nil},
		{"nonexistent style", "nonexistent", ErrStyleNotFound},
		{"empty name", "", ErrInvalidAssetName},
		{"path traversal with slash", "../secret", ErrInvalidAssetName},
		{"path traversal with backslash", "..\\secret", ErrInvalidAssetName},
		{"dot in name", "style.name", ErrInvalidAssetName},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			got, err := LoadStyle(tt.styleName)
			if tt.wantErr != nil {
				if !errors.Is(err, tt.wantErr) {
					t.Fatalf("LoadStyle(%q) error = %v, want %v", tt.styleName, err, tt.wantErr)
				}
				return
			}
			if err != nil {
				t.Fatalf("LoadStyle(%q) unexpected error: %v", tt.styleName, err)
			}
			if !strings.Contains(got, ".markvis-page") {
				t.Errorf("LoadStyle(%q) should style the page container", tt.styleName)
			}
		})
	}
}

func TestLoadPage(t *testing.T) {
	t.Parallel()

	got, err := LoadPage(DefaultPageName)
	if err != nil {
		t.Fatalf("LoadPage() unexpected error: %v", err)
	}
	for _, want := range []string{"<!DOCTYPE html>", "/api/sessions", "/api/render"} {
		if !strings.Contains(got, want) {
			t.Errorf("editor page missing %q", want)
		}
	}

	if _, err := LoadPage("missing"); !errors.Is(err, ErrPageNotFound) {
		t.Errorf("LoadPage(missing) error = %v, want ErrPageNotFound", err)
	}
}

func TestLoadPage_EditorKeepsTypedText(t *testing.T) {
	t.Parallel()

	got, err := LoadPage(DefaultPageName)
	if err != nil {
		t.Fatalf("LoadPage() unexpected error: %v", err)
	}

	// Only explicit replacements adopt the server copy of the source.
	if strings.Contains(got, `act({ type: "set_source", text: source.value }, true)`) {
		t.Error("set_source responses should not overwrite the textarea")
	}
	for _, want := range []string{
		"if (adoptSource && source.value !== state.source)",
		`act({ type: "clear" }, true)`,
		"var seq = ++renderSeq;",
		"if (seq === renderSeq) { preview.innerHTML = data.html; }",
	} {
		if !strings.Contains(got, want) {
			t.Errorf("editor page missing %q", want)
		}
	}
}

// writeAsset creates {dir}/{sub}/{file} with content.
func writeAsset(t *testing.T, dir, sub, file, content string) {
	t.Helper()
	if err := os.MkdirAll(filepath.Join(dir, sub), 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(dir, sub, file), []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
}

func TestNewFilesystemLoader_InvalidPath(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	file := filepath.Join(dir, "file.txt")
	if err := os.WriteFile(file, []byte("x"), 0o644); err != nil {
		t.Fatal(err)
	}

	tests := []struct {
		name string
		path string
	}{
		{"empty path", ""},
		{"missing directory", filepath.Join(dir, "missing")},
		{"regular file", file},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			if _, err := NewFilesystemLoader(tt.path); !errors.Is(err, ErrInvalidBasePath) {
				t.Errorf("NewFilesystemLoader(%q) error = %v, want ErrInvalidBasePath", tt.path, err)
			}
		})
	}
}

func TestFilesystemLoader_Load(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	writeAsset(t, dir, "styles", "custom.css", "body{color:red}")
	writeAsset(t, dir, "pages", "editor.html", "<p>custom editor</p>")

	loader, err := NewFilesystemLoader(dir)
	if err != nil {
		t.Fatalf("NewFilesystemLoader() error = %v", err)
	}

	css, err := loader.LoadStyle("custom")
	if err != nil || css != "body{color:red}" {
		t.Errorf("LoadStyle(custom) = %q, %v", css, err)
	}

	page, err := loader.LoadPage("editor")
	if err != nil || page != "<p>custom editor</p>" {
		t.Errorf("LoadPage(editor) = %q, %v", page, err)
	}

	if _, err := loader.LoadStyle("absent"); !errors.Is(err, ErrStyleNotFound) {
		t.Errorf("LoadStyle(absent) error = %v, want ErrStyleNotFound", err)
	}
	if _, err := loader.LoadStyle("../x"); !errors.Is(err, ErrInvalidAssetName) {
		t.Errorf("LoadStyle(../x) error = %v, want ErrInvalidAssetName", err)
	}
}

func TestAssetResolver_Fallback(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	writeAsset(t, dir, "styles", "preview.css", "/* override */")

	resolver, err := NewAssetResolver(dir)
	if err != nil {
		t.Fatalf("NewAssetResolver() error = %v", err)
	}
	if !resolver.HasCustomLoader() {
		t.Error("HasCustomLoader() = false, want true")
	}

	got, err := resolver.LoadStyle(DefaultStyleName)
	if err != nil || got != "/* override */" {
		t.Errorf("LoadStyle(preview) = %q, %v, want custom override", got, err)
	}

	compact, err := resolver.LoadStyle("compact")
	if err != nil || !strings.Contains(compact, ".markvis-page") {
		t.Errorf("LoadStyle(compact) should fall back to embedded, got %q, %v", compact, err)
	}

	page, err := resolver.LoadPage(DefaultPageName)
	if err != nil || !strings.Contains(page, "/api/sessions") {
		t.Errorf("LoadPage(editor) should fall back to embedded, got err %v", err)
	}
}

func TestAssetResolver_EmbeddedOnly(t *testing.T) {
	t.Parallel()

	resolver, err := NewAssetResolver("")
	if err != nil {
		t.Fatalf("NewAssetResolver(\"\") error = %v", err)
	}
	if resolver.HasCustomLoader() {
		t.Error("HasCustomLoader() = true, want false")
	}
	if _, err := resolver.LoadStyle(DefaultStyleName); err != nil {
		t.Errorf("LoadStyle() error = %v", err)
	}
}
