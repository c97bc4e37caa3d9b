// Package pipeline implements the transforms a fragment passes through
// between retrieval and injection.
//
// Each stage is usable on its own and also exposed as a fragment.Transform:
//   - Markdown preprocessing (line normalization, ==highlight== syntax)
//   - Markdown to HTML fragment conversion via Goldmark, with Chroma
//     highlighting for fenced code
//   - Placeholder substitution, keyed by container
//   - Relative link rebasing against the origin a fragment came from
//   - HTML sanitizing via bluemonday
//
// Transforms never touch the document. The fragment loader applies them in
// the order they were configured and injects the result.
package pipeline
