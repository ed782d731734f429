// Package csvimport reads ranked movie lists from CSV files.
//
// Three layouts are understood: a rank,title,year file, the same with an extra
// leading column, and a header-driven layout with Pos, Title, Director, Year
// and Mins columns in any order. Parsing is best effort: rows whose rank or
// year is not an integer are dropped and counted rather than failing the file.
package csvimport
