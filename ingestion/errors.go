package ingestion

import "errors"

var (
	// ErrObjectStoreRequired is returned when an object store is not provided.
	ErrObjectStoreRequired = errors.New("object store required")

	// ErrVectorStoreRequired is returned when a vector store is not provided.
	ErrVectorStoreRequired = errors.New("vector store required")

	// ErrParserRequired is returned when a document parser is not provided.
	ErrParserRequired = errors.New("document parser required")

	// ErrDocumentNotFound is returned when no source object exists for a document.
	ErrDocumentNotFound = errors.New("source document not found")

	// ErrUnsupportedDocType is returned for source files with an unrecognized extension.
	ErrUnsupportedDocType = errors.New("unsupported document type")
)
