// Package pkg provides the core libraries for asciimate reveal animations.
//
// # Overview
//
// Asciimate converts an image into a grid of ASCII symbols and renders a
// progressive reveal animation over it. The pkg directory is organized by
// pipeline stage:
//
//  1. [grid] - Image-to-symbol-grid derivation (resampling, luminance ramp,
//     K-means palette)
//  2. [sequence] - Reveal-order computation (sequential, matrix, ants, random)
//  3. [mask] - Per-frame visibility masks and their similarity cache
//  4. [glyph] - Glyph rasterization, caching, and atlas packing
//  5. [compose] - Frame composition strategies (naive, batched, atlas)
//  6. [anim] - The animation driver orchestrating the stages
//  7. [sink] - Frame output and video assembly
//
// Supporting packages: [cache] memoizes grid derivations between runs,
// [errors] defines structured error codes, [observability] exposes
// instrumentation hooks, [buildinfo] carries build metadata.
//
// # Architecture
//
// The typical data flow through asciimate:
//
//	Source Image
//	     ↓
//	grid.FromImage          symbols + colors
//	     ↓
//	sequence.Sequence       reveal order (once per run)
//	     ↓
//	anim.Driver             per frame: progress → mask → compose
//	     ↓
//	sink.DirSink            numbered PNG frames
//	     ↓
//	sink.AssembleVideo      MP4 via ffmpeg
package pkg
