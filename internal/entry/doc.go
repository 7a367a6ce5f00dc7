// Package entry provides the competition entry type produced by the extractor.
//
// An Entry is one listing scraped from the OzBargain competition page. Entries are built
// transiently for a single request and never stored. The constructor validates the node ID,
// so every Entry that exists carries a non-empty, all-digit identifier.
package entry
