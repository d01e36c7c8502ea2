// Package parse is the client boundary to the external document parsing
// service. It normalizes the service's heterogeneous response shapes into
// core.ParsedDocument, decoding table payloads once into tagged variants
// (rows, CSV, text) so chunking never re-sniffs payload shape.
//
// The parsing service is an optional collaborator: when it is unconfigured
// or unreachable, parse calls return a deterministic stub document along
// with ErrUnavailable, and ingestion proceeds on the stub.
package parse
