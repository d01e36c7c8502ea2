// Package ingestion turns source documents into embedding records.
//
// The Indexer runs the full path for a document: fetch the source bytes
// from the object store, parse them through the external parsing service,
// persist the normalized parsed form, split it into chunks, embed the
// chunk texts, and write the records to the vector store.
//
// The path is built to degrade instead of fail. An unreachable parser
// yields a stub document, and an unreachable embedder yields placeholder
// zero vectors, so a document submitted for indexing always ends up with
// records the retrieval layer can serve.
package ingestion
