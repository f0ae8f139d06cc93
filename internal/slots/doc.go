// Package slots provides free-slot tracking for Exodus entity catalogs.
//
// Exodus element blocks and side sets live in fixed-capacity catalogs. Each
// entity is identified on disk by a caller-chosen external id stored in a
// property array, and internally by a 1-based slot index into that array.
// This package manages the slot side of that mapping in memory so that
// allocation never has to re-read the on-disk status array; writing the
// status and property arrays back out is the caller's serialization step.
//
// # Tracker
//
// The [Tracker] type provides:
//
//   - First-free-slot allocation: slots are claimed in ascending order,
//     matching the claim order a status-array scan would produce.
//   - External-id bookkeeping: each claimed slot records its external id,
//     and duplicate ids are detected at claim time.
//   - Claim statistics for debugging and tests.
//
// # Usage
//
// Create a tracker with the catalog capacity:
//
//	tr := slots.New(numBlocks)
//	slot, err := tr.Claim(100) // 1-based slot index for external id 100
//	slot, ok := tr.Lookup(100) // resolve an id back to its slot
package slots
