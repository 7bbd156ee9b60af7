package pipeline

import (
	"net/url"
	"path/filepath"
	"strings"
)

// RewriteRelativePaths converts relative image sources and link targets in
// the tree to absolute file:// URLs resolved against sourceDir. The browser
// loads the surface from a temporary file, so paths relative to the
// markdown file would otherwise break. An empty sourceDir is a no-op.
//
// Anchors, URLs, data URIs and absolute paths are left alone, as is any
// path that escapes sourceDir.
func RewriteRelativePaths(root *Node, sourceDir string) error {
	if sourceDir == "" || root == nil {
		return nil
	}

	absSourceDir, err := filepath.Abs(sourceDir)
	if err != nil {
		return err
	}

	root.Walk(func(n *Node) {
		switch n.Kind {
		case KindImage:
			n.Src = rewritePath(n.Src, absSourceDir)
		case KindLink:
			n.Href = rewritePath(n.Href, absSourceDir)
		}
	})
	return nil
}

func rewritePath(p, sourceDir string) string {
	if !isRelativePath(p) {
		return p
	}
	absPath := filepath.Join(sourceDir, p)
	if !isPathUnderDir(absPath, sourceDir) {
		return p
	}
	return pathToFileURL(absPath)
}

// isRelativePath returns true if the path should be rewritten.
func isRelativePath(path string) bool {
	if path == "" {
		return false
	}

	lower := strings.ToLower(path)
	for _, prefix := range []string{"http://", "https://", "file://", "data:", "mailto:", "//", "#"} {
		if strings.HasPrefix(lower, prefix) {
			return false
		}
	}

	return !filepath.IsAbs(path)
}

// isPathUnderDir checks if absPath is under dir (prevents path traversal).
func isPathUnderDir(absPath, dir string) bool {
	cleanPath := filepath.Clean(absPath)
	cleanDir := filepath.Clean(dir)

	if !strings.HasSuffix(cleanDir, string(filepath.Separator)) {
		cleanDir += string(filepath.Separator)
	}

	return strings.HasPrefix(cleanPath+string(filepath.Separator), cleanDir)
}

// pathToFileURL converts an absolute path to a file:// URL.
func pathToFileURL(absPath string) string {
	u := url.URL{
		Scheme: "file",
		Path:   filepath.ToSlash(absPath),
	}
	return u.String()
}
