// Package sensor declares the contact-sensor pad profiles of the Inspire hand.
//
// A profile is an ordered table of pad groups. Each group is a rectangular
// grid of identical pads sharing a prim path pattern, an update period and
// trigger thresholds. Profiles are authored in CUE (see profiles.cue) and
// unified with schema.cue before being decoded into Go values.
//
// # Invariants
//
//   - rows x cols of a group's grid equals its sensor_count
//   - group names are unique within a profile
//   - when a profile declares a total, it equals the sum of sensor_count
//
// Totals are always computed from the groups; nothing downstream trusts a
// hand-typed sum.
package sensor
