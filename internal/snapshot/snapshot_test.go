package snapshot

import (
	"context"
	stderrors "errors"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/aws/aws-sdk-go-v2/service/s3"

	"github.com/vango-dev/vui/internal/errors"
	"github.com/vango-dev/vui/pkg/dom"
)

type fakeS3 struct {
	inputs []*s3.PutObjectInput
	bodies []string
	err    error
}

func (f *fakeS3) PutObject(ctx context.Context, in *s3.PutObjectInput, _ ...func(*s3.Options)) (*s3.PutObjectOutput, error) {
	if f.err != nil {
		return nil, f.err
	}
	body, _ := io.ReadAll(in.Body)
	f.inputs = append(f.inputs, in)
	f.bodies = append(f.bodies, string(body))
	return &s3.PutObjectOutput{}, nil
}

func TestParseDest(t *testing.T) {
	tests := []struct {
		dest    string
		want    destination
		wantErr bool
	}{
		{"snapshots", destination{dir: "snapshots"}, false},
		{"/tmp/snaps", destination{dir: "/tmp/snaps"}, false},
		{"s3://bucket", destination{bucket: "bucket"}, false},
		{"s3://bucket/a/b/", destination{bucket: "bucket", prefix: "a/b"}, false},
		{"s3:///prefix", destination{}, true},
		{"gs://bucket/x", destination{}, true},
		{"", destination{}, true},
	}

	for _, tt := range tests {
		got, err := parseDest(tt.dest)
		if tt.wantErr {
			if !errors.HasCode(err, errors.CodeSnapshotDest) {
				t.Errorf("parseDest(%q) error = %v, want %s", tt.dest, err, errors.CodeSnapshotDest)
			}
			continue
		}
		if err != nil {
			t.Errorf("parseDest(%q) error = %v", tt.dest, err)
			continue
		}
		if got != tt.want {
			t.Errorf("parseDest(%q) = %+v, want %+v", tt.dest, got, tt.want)
		}
	}
}

func TestFileStore(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "nested", "snaps")
	store, err := NewFileStore(dir)
	if err != nil {
		t.Fatalf("NewFileStore: %v", err)
	}

	loc, err := store.Put(context.Background(), Snapshot{Name: "counter", HTML: []byte("<p>1</p>")})
	if err != nil {
		t.Fatalf("Put: %v", err)
	}
	if loc != filepath.Join(dir, "counter.html") {
		t.Errorf("location = %q", loc)
	}

	// Overwrite
	if _, err := store.Put(context.Background(), Snapshot{Name: "counter", HTML: []byte("<p>2</p>")}); err != nil {
		t.Fatalf("second Put: %v", err)
	}
	data, err := os.ReadFile(loc)
	if err != nil {
		t.Fatal(err)
	}
	if string(data) != "<p>2</p>" {
		t.Errorf("content = %q", data)
	}

	entries, _ := os.ReadDir(dir)
	if len(entries) != 1 {
		t.Errorf("directory has %d entries, want 1 (temp files left behind?)", len(entries))
	}
}

func TestFileStoreRejectsBadNames(t *testing.T) {
	store, err := NewFileStore(t.TempDir())
	if err != nil {
		t.Fatal(err)
	}
	for _, name := range []string{"", "..", "a/b", `a\b`} {
		_, err := store.Put(context.Background(), Snapshot{Name: name})
		if !errors.HasCode(err, errors.CodeSnapshotStore) {
			t.Errorf("Put(%q) error = %v, want %s", name, err, errors.CodeSnapshotStore)
		}
	}
}

func TestFileStoreCanceledContext(t *testing.T) {
	store, err := NewFileStore(t.TempDir())
	if err != nil {
		t.Fatal(err)
	}
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if _, err := store.Put(ctx, Snapshot{Name: "x"}); !stderrors.Is(err, context.Canceled) {
		t.Errorf("Put error = %v, want context.Canceled", err)
	}
}

func TestS3Store(t *testing.T) {
	client := &fakeS3{}
	store := NewS3Store(client, "ui", "nightly")
	taken := time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC)

	loc, err := store.Put(context.Background(), Snapshot{Name: "todo", HTML: []byte("<ul></ul>"), Taken: taken})
	if err != nil {
		t.Fatalf("Put: %v", err)
	}
	if loc != "s3://ui/nightly/todo.html" {
		t.Errorf("location = %q", loc)
	}
	if len(client.inputs) != 1 {
		t.Fatalf("PutObject calls = %d, want 1", len(client.inputs))
	}
	in := client.inputs[0]
	if *in.Bucket != "ui" || *in.Key != "nightly/todo.html" {
		t.Errorf("bucket/key = %s/%s", *in.Bucket, *in.Key)
	}
	if !strings.HasPrefix(*in.ContentType, "text/html") {
		t.Errorf("ContentType = %q", *in.ContentType)
	}
	if in.Metadata["taken"] != "2026-01-02T03:04:05Z" {
		t.Errorf("taken metadata = %q", in.Metadata["taken"])
	}
	if client.bodies[0] != "<ul></ul>" {
		t.Errorf("body = %q", client.bodies[0])
	}
}

func TestS3StoreError(t *testing.T) {
	cause := stderrors.New("access denied")
	store := NewS3Store(&fakeS3{err: cause}, "ui", "")

	_, err := store.Put(context.Background(), Snapshot{Name: "todo"})
	if !errors.HasCode(err, errors.CodeSnapshotStore) {
		t.Errorf("error = %v, want %s", err, errors.CodeSnapshotStore)
	}
	if !stderrors.Is(err, cause) {
		t.Error("cause not wrapped")
	}
}

func TestOpen(t *testing.T) {
	dir := t.TempDir()
	store, err := Open(context.Background(), dir, Options{})
	if err != nil {
		t.Fatalf("Open(dir): %v", err)
	}
	if fs, ok := store.(*FileStore); !ok || fs.Dir() != dir {
		t.Errorf("Open(dir) = %T", store)
	}

	client := &fakeS3{}
	store, err = Open(context.Background(), "s3://ui/p", Options{Client: client})
	if err != nil {
		t.Fatalf("Open(s3): %v", err)
	}
	s3store, ok := store.(*S3Store)
	if !ok {
		t.Fatalf("Open(s3) = %T", store)
	}
	if s3store.Key("a") != "p/a.html" {
		t.Errorf("Key = %q", s3store.Key("a"))
	}

	if _, err := Open(context.Background(), "ftp://x", Options{}); !errors.HasCode(err, errors.CodeSnapshotDest) {
		t.Errorf("Open(ftp) error = %v", err)
	}
}

func TestNewS3Client(t *testing.T) {
	client := NewS3Client("eu-west-1", "http://localhost:9000")
	opts := client.Options()
	if opts.Region != "eu-west-1" || !opts.UsePathStyle {
		t.Errorf("options = region %q, path style %v", opts.Region, opts.UsePathStyle)
	}
	if opts.BaseEndpoint == nil || *opts.BaseEndpoint != "http://localhost:9000" {
		t.Error("endpoint not set")
	}
}

func TestFromDocument(t *testing.T) {
	doc := dom.NewDocument()
	p := doc.CreateElement("p")
	p.AppendChild(doc.CreateTextNode("hello"))
	doc.Body().AppendChild(p)

	snap := FromDocument("page", doc)
	if !strings.Contains(string(snap.HTML), "<p>hello</p>") {
		t.Errorf("HTML = %q", snap.HTML)
	}
	if snap.Taken.IsZero() || snap.Name != "page" {
		t.Errorf("snapshot = %+v", snap)
	}
}
