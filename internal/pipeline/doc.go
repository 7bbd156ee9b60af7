// Package pipeline implements the markdown rendering pipeline behind markvis.
//
// The pipeline runs in four stages:
//   - Preprocessing (UTF-8 repair, line ending normalization)
//   - Parsing via goldmark with the GFM extensions
//   - Tree building: the goldmark AST is folded into a closed Node tree whose
//     every node carries a style directive taken from a fixed style map
//   - Serialization of the tree to an HTML fragment with inline styles, and
//     wrapping of that fragment into a browser surface or an office document
//
// Rasterization and pagination live in the root markvis package. The
// pipeline itself never touches the network or the filesystem.
package pipeline
