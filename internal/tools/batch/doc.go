// Package batch runs a tool operation over several items and reports the
// outcome of each one.
//
// Items are processed one at a time in input order. A failing item does not
// stop the remaining ones; a cancelled context does.
package batch
