// Package answer composes grounded answers from retrieval hits.
//
// The Composer hands retrieved document content to a generative model
// with instructions to answer only from that content, and degrades to
// returning the content itself when the model is unavailable. Every
// answer carries a markdown report and the source citations that
// supported it.
package answer
