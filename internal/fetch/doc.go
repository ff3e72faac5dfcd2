// Package fetch provides the shared HTTP client for all portal requests.
//
// Every outbound call in the engine goes through one Client so that retry,
// backoff and timeout behavior is uniform: transport errors and non-2xx
// statuses are retried with exponential backoff (1s, 2s, ... for the default
// base delay) up to a configured attempt count, and all waits abort early
// when the caller's context is cancelled.
//
// The portal serves ISO-8859-1 pages; Document transcodes responses based on
// the Content-Type header before handing them to goquery.
package fetch
