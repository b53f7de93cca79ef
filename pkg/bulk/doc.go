// Package bulk runs one job over many repositories or files.
//
// A [Driver] executes a [Job] for every [Item] on a bounded pool of
// goroutines. Items are independent: each task owns its result slot, and a
// failing or panicking item is recorded as failed without affecting the
// others. When the context is cancelled no new items start; items already
// running finish, and the rest are recorded as skipped with the message
// "cancelled".
//
// The returned [Report] maps item ids to results and carries summary
// counts. [Report.Write] persists it atomically.
//
// The jobs in jobs.go cover the toolkit's batch operations: generating
// documents from repository URLs, enhancing and validating existing files,
// and applying requirement and publication mappings.
package bulk
