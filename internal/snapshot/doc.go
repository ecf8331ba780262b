// Package snapshot stores serialized display trees.
//
// A Snapshot is the HTML of a document at one point in time. Stores persist
// snapshots under a name:
//
//	store, err := snapshot.Open(ctx, "s3://ui-snapshots/nightly", snapshot.Options{Region: "eu-west-1"})
//	loc, err := store.Put(ctx, snapshot.FromDocument("todo", rt.Document()))
//
// A destination is either a directory (FileStore) or s3://bucket/prefix
// (S3Store).
package snapshot
