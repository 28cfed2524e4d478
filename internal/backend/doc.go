// Package backend implements the client facade for the two upstream systems
// the gateway mediates: the per-project graph API and the RationalBloks
// provisioning API.
//
// The facade is split along operation semantics:
//
//   - GraphReader: idempotent graph reads, retried on transient failure
//   - GraphWriter: bulk creates, attempted at most once
//   - Provisioner: project lifecycle via the provisioning gateway
//   - Fetcher: credential-free URL fetching for the ingestion workflow
//
// Every call carries a bounded deadline and maps failures into the closed
// error taxonomy defined in errors.go. Raw backend response bodies are
// summarized before they appear in errors; they are never forwarded to
// callers verbatim.
package backend
