// Package ingestion turns catalog exercise records into vector points and
// writes them to a vector store in batches.
//
// The Pipeline walks an inclusive id range, fetching records concurrently,
// normalizing each into a single searchable text, embedding whole batches at
// a time, and upserting the resulting points. Missing ids are skipped, bad
// records are counted and left behind, and transient failures are retried
// with exponential backoff; a run only stops early when the store is
// misconfigured or the failure rate crosses the abort threshold.
package ingestion
