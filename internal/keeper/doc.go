// Package keeper suggests which member of a duplicate group to retain.
//
// The comparator is a strict priority cascade: pixel area or bitrate when
// both sides have it, then configured format preference, then metadata
// richness (capture timestamp, GPS), then earliest capture time, with the
// lexicographically smallest file ID as the final tie-break. It is purely
// advisory and side-effect free; callers may override the suggestion.
package keeper
