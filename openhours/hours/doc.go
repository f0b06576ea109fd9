// Package hours parses compact opening-hours text and answers two questions
// about it: is the place open at a given instant, and if not, when does it open next.
//
// The text is a semicolon-separated list of clauses, each a weekday spec
// followed by comma-separated intervals:
//
//	Mo-Fr 09:00-12:00,13:00-18:00; Sa 10:00-14:00; Su 18:00-
//
// Weekdays use the two-letter names Su Mo Tu We Th Fr Sa. Ranges wrap past the
// end of the week (Fr-Tu covers five days). Hours run up to 48 so an interval
// can continue past midnight ("Fr 20:00-26:00"), and an interval without a
// closing time ("18:00-") makes the answer unknown once it has begun.
package hours
