// Package assert reports broken invariants as errors instead of panics.
//
// A failed assertion logs its details, adds an event to the active span and
// increments assertion_failed_total when metrics are initialized.
package assert
