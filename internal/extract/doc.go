// Package extract pulls competition entries out of the OzBargain listing page.
//
// Extraction is a pattern scan over the raw HTML rather than a DOM walk: each <h2> that wraps
// a single link to /node/<digits> becomes one entry. The scan tolerates partial or malformed
// markup by simply matching less, stops as soon as the requested number of entries has been
// produced, and never returns an error.
//
// The source domain of an entry is a heuristic: the host of the first absolute URL found in a
// window of 900 characters before and 1500 characters after the heading. Adjacent listings can
// fall inside each other's window, so the value is best effort only.
package extract
