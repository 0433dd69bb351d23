// Package values stores form data as a tree of map[string]any and []any
// nodes addressed by dotted field paths (`social.twitter`, `phoneNumber.0`,
// `phNumbers.1.number`). Bracketed and JSON pointer spellings are accepted and
// normalised. Template paths replace list indices with "items" so a concrete
// leaf can be matched to the field definition that declares it.
package values
