// Package store persists CodeMeta documents.
//
// [WriteFileAtomic] is the single write path for files produced by the
// toolkit: data goes to a temporary file in the destination directory, is
// synced, and is renamed over the target, so readers see either the old or
// the new file and never a partial one.
//
// Two [Store] implementations are provided. [FileStore] keeps documents as
// JSON files under a directory and is what the CLI uses. [MongoStore] keeps
// them in a MongoDB collection for long-running deployments of the HTTP API.
package store
