package snapshot

import (
	"context"
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/vango-dev/vui/internal/errors"
	"github.com/vango-dev/vui/pkg/dom"
)

// Snapshot is a serialized display tree.
type Snapshot struct {
	Name  string
	HTML  []byte
	Taken time.Time
}

// FromDocument serializes doc.
func FromDocument(name string, doc *dom.Document) Snapshot {
	return Snapshot{
		Name:  name,
		HTML:  []byte(doc.String()),
		Taken: time.Now().UTC(),
	}
}

// Store persists snapshots. Put returns the location the snapshot was
// written to.
type Store interface {
	Put(ctx context.Context, s Snapshot) (string, error)
}

// Options configures stores created by Open.
type Options struct {
	// Region is the S3 region.
	Region string

	// Endpoint overrides the S3 endpoint.
	Endpoint string

	// Client replaces the S3 client built from Region and Endpoint.
	Client PutObjectAPI
}

// Open returns the store for dest: s3://bucket[/prefix] or a directory.
func Open(ctx context.Context, dest string, opts Options) (Store, error) {
	d, err := parseDest(dest)
	if err != nil {
		return nil, err
	}
	if d.bucket == "" {
		return NewFileStore(d.dir)
	}
	client := opts.Client
	if client == nil {
		client = NewS3Client(opts.Region, opts.Endpoint)
	}
	return NewS3Store(client, d.bucket, d.prefix), nil
}

type destination struct {
	dir    string
	bucket string
	prefix string
}

func parseDest(dest string) (destination, error) {
	if dest == "" {
		return destination{}, errors.New(errors.CodeSnapshotDest).
			WithDetail("empty snapshot destination")
	}
	if !strings.Contains(dest, "://") {
		return destination{dir: dest}, nil
	}
	u, err := url.Parse(dest)
	if err != nil {
		return destination{}, errors.New(errors.CodeSnapshotDest).Wrap(err)
	}
	if u.Scheme != "s3" {
		return destination{}, errors.New(errors.CodeSnapshotDest).
			WithDetail(fmt.Sprintf("unsupported scheme %q", u.Scheme))
	}
	if u.Host == "" {
		return destination{}, errors.New(errors.CodeSnapshotDest).
			WithDetail("missing bucket in " + dest)
	}
	return destination{bucket: u.Host, prefix: strings.Trim(u.Path, "/")}, nil
}

// validName reports whether name can be used as a file name and object key
// segment.
func validName(name string) bool {
	if name == "" || name == "." || name == ".." {
		return false
	}
	return !strings.ContainsAny(name, `/\`)
}

func checkName(name string) error {
	if validName(name) {
		return nil
	}
	return errors.New(errors.CodeSnapshotStore).
		WithDetail(fmt.Sprintf("invalid snapshot name %q", name))
}
