// Package scraper fetches the OzBargain competition listing page.
//
// The scraper performs a single HTTP GET against the public listing page with an HTML accept
// header and a descriptive user agent, and hands the body to the extract package. A non-success
// upstream status is reported as an *UpstreamError so callers can tell it apart from transport
// failures. There is no retry.
package scraper
