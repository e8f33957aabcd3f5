// Package models defines the data shapes shared by the discography playlist builder.
//
// The package contains two categories of types:
//
// 1. Catalog records: lightweight structs describing catalog data
//   - [ReleaseInfo] : One canonical release with its credited artists and alternate titles
//   - [ArtistCandidate] : A possible artist match from either catalog
//   - [TargetArtist] and [TargetRelease] : Artist and album entries on a target service
//   - [Playlist] : A playlist created on a target service
//
// 2. Run results: what a single command invocation produced
//   - [Diagnostic] : A skipped release or unresolved artist, never an error
//   - [RunReport] : Everything a formatter needs to describe the run
//
// Nothing here is persisted. Every value lives for one run.
package models
