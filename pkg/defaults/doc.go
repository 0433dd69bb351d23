// Package defaults builds the initial value tree of a form.
//
// Static derives defaults from the form model. A Source may supply a partial
// tree at construction time (HTTPSource reads one from a JSON endpoint); it
// is overlaid onto the static tree with Merge. A source that fails leaves the
// static tree in place.
package defaults
