// Package gobelix provides a pure Go implementation of the ASTERIX (All
// Purpose STructured EUROCONTROL SurveIllance Information EXchange) data
// format, driven by description data rather than hardcoded per-category
// Go types.
//
// A descriptor.Library, built once from XML category descriptions via
// xmlloader (or the bundled set in the descriptions package), describes
// every category's User Application Profile, item formats, and bit
// layouts. asterix.New binds a Library to a Parser, whose Feed method
// turns a stream of de-multiplexed bytes (see the demux package for
// PCAP/HDLC/length-prefixed framing) into decoded records. The encode
// package renders a decoded record as a line, text, JSON, or XML.
//
// The idefix command is a thin CLI front end over this package.
package gobelix

// Version identifies this module's release.
const (
	Version = "1.0.0"
)
