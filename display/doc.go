// Package display shares one physical pixel display among multiple apps,
// each owning a disjoint rectangular partition.
//
// Two sharing strategies are provided. Shared keeps every partition in its
// own run-length-encoded buffer and reconstructs screen-wide chunks at flush
// time, never materializing the full screen. RawShared keeps one flat arena
// for the whole screen with per-partition dirty tracking, trading memory for
// a simpler flush path.
package display
