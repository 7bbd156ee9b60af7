package assets

// AssetLoader defines the contract for loading stylesheets and pages.
type AssetLoader interface {
	// LoadStyle loads a CSS style by name (without .css extension).
	// Returns ErrStyleNotFound if the style doesn't exist.
	// Returns ErrInvalidAssetName if the name contains invalid characters.
	LoadStyle(name string) (string, error)

	// LoadPage loads an HTML page by name (without .html extension).
	// Returns ErrPageNotFound if the page doesn't exist.
	LoadPage(name string) (string, error)
}
