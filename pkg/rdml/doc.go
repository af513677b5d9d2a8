// Package rdml compiles RDML, a small HTML-like markup for writing game
// events, into the flat event command lists executed by the RPG Maker MV
// interpreter.
//
// The pipeline runs in one direction: Scan turns source text into tokens,
// Parse builds an element tree, and Compile resolves every element against
// a Registry of commands and emits instructions. Every stage stops at the
// first error.
package rdml
