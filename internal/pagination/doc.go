// Package pagination drives sequential walks over the portal's paginated
// listings. The offset for page k+1 is only discoverable inside page k's
// navigation links, so pages are fetched strictly one at a time. The walker
// only ever advances to the smallest offset strictly greater than the current
// one, which makes the consumed offset sequence strictly increasing and
// guards against navigation links that wrap back to earlier pages. A hard
// page cap bounds every walk even against a pathological upstream response.
package pagination
