// Package matching picks the search candidate that best fits an imported row.
//
// Scoring rewards an exact normalized title, an exact or adjacent year, and a
// director match, and penalizes titles that look like bonus material. When no
// candidate clears the floor the pick falls back to the first candidate from
// the row's year, then to the first candidate. All functions are pure.
package matching
