// Package table holds the cell model shared by every listing and renders
// rows as aligned, optionally numbered, text columns.
package table
