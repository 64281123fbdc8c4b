package xmlloader

import "errors"

// ErrInvalidXML wraps any structural problem with a category description
// document: malformed XML, an unrecognized DataItemFormat variant or Bits
// encoding, or a DataItem id declared twice.
var ErrInvalidXML = errors.New("xmlloader: invalid category description")
