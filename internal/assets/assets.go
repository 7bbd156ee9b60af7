package assets

// DefaultStyleName is the name of the built-in surface stylesheet.
const DefaultStyleName = "preview"

// DefaultPageName is the name of the built-in browser editor page.
const DefaultPageName = "editor"

// defaultLoader is the package-level embedded loader.
var defaultLoader = NewEmbeddedLoader()

// LoadStyle loads a CSS file by name using the default embedded loader.
// The name should not include the .css extension or path components.
func LoadStyle(name string) (string, error) {
	return defaultLoader.LoadStyle(name)
}

// LoadPage loads an HTML page by name using the default embedded loader.
func LoadPage(name string) (string, error) {
	return defaultLoader.LoadPage(name)
}
