// Package media defines the immutable file records the detection engine
// consumes and the perceptual hash codes it compares.
//
// Records arrive fully populated from an external scanner; this package never
// touches the filesystem or decodes media. It owns the 64-bit hash code type
// with its Hamming distance, the media-type enum, and the manifest loaders
// (JSON and YAML) the CLI uses to ingest scanner output.
//
// FileRecord values are read-only to the engine. A nil perceptual hash means
// extraction failed upstream; downstream scoring turns that into an explicit
// penalty rather than guessing.
package media
