// Package tasks reconciles canonical discographies with target service catalogs.
//
// # Reconciliation
//
// [Reconciler.Reconcile] works in three steps:
//
//  1. Partition releases by attribution key, the credited artist names joined in credit order.
//     Collaborations may be attributed to one contributor, all of them, or a merged pseudo-artist
//     on the target service, so each distinct credit string is searched on its own.
//  2. For each group, search the target service and scan the top candidates in ranked order.
//     The first candidate whose albums contain any requested title or alias wins. Groups are
//     searched concurrently with an [errgroup.Group]; each writes its own result slot.
//  3. Walk the releases in their original order. Each release's title and aliases are matched
//     exactly first, then as substrings of unclaimed albums. Resolved playable ids are emitted
//     once; repeats and misses become [models.Diagnostic] values rather than errors.
//
// # Artist Resolution
//
// [Disambiguate] returns a lone candidate directly and otherwise asks an injected [Chooser]
// until it returns a valid index or an error. The ui package provides interactive choosers.
//
// # Progress Reporting
//
// All operations use non-blocking channels for progress updates.
//
// The [ProgressUpdate] struct contains phase, step counters, messages, and optional data for advanced UI rendering.
// Updates use select with default to prevent blocking.
//
// # Implementation
//
// [PlaylistEngine] runs the discography and similar-artists flows with dependencies on:
//   - [Canonical] : the MusicBrainz client
//   - [services.Catalog] : the target streaming service
//   - [Chooser] : interactive or automatic disambiguation
package tasks
