// Package model defines the declarative form definition: a tree of fields
// (strings, numbers, dates, object groups, fixed-size tuples and dynamic
// lists) and the rule set attached to each leaf. Rules cover required,
// length and numeric bounds, regular-expression patterns, named custom
// validators, coercion of raw text into numbers or dates, and disable
// conditions that may depend on other fields (`channel == ""`).
//
// Definitions are validated and normalised by a Builder into a Schema that
// resolves concrete field paths (`phNumbers.1.number`) to the field that
// declares them. The types live in internal/model and are re-exported here.
package model
