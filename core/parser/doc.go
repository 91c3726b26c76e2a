// Package parser reads OpenITI mARkdown into the typed document model of
// package ir.
//
// Parsing happens in one forward pass. Each physical line goes through the
// Classifier, an ordered table of rules where the first match wins. Rules
// that carry running text hand the remainder of the line to the Tokenizer,
// which splits it into phrase parts (entities, dates, page numbers, open
// tags) while keeping the clean text intact.
//
// Parse is a pure function of its input and may be called concurrently.
package parser
