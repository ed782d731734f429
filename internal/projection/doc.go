// Package projection derives the ordered, filtered movie views shown to the
// user from catalog state. It never mutates its input.
package projection
