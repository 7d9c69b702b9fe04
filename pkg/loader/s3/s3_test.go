package s3

import (
	"context"
	"errors"
	"io"
	"strings"
	"testing"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/s3/types"

	"github.com/OFFIS-RIT/coauthor/pkg/loader"
)

type fakeObjectAPI struct {
	keys    []string
	objects map[string]string
	listErr error
	closed  int
}

type trackingBody struct {
	io.Reader
	api *fakeObjectAPI
}

func (b *trackingBody) Close() error {
	b.api.closed++
	return nil
}

func (f *fakeObjectAPI) ListObjectsV2(ctx context.Context, params *s3.ListObjectsV2Input, optFns ...func(*s3.Options)) (*s3.ListObjectsV2Output, error) {
	if f.listErr != nil {
		return nil, f.listErr
	}
	out := &s3.ListObjectsV2Output{IsTruncated: aws.Bool(false)}
	for _, k := range f.keys {
		if strings.HasPrefix(k, aws.ToString(params.Prefix)) {
			out.Contents = append(out.Contents, types.Object{Key: aws.String(k)})
		}
	}
	return out, nil
}

func (f *fakeObjectAPI) GetObject(ctx context.Context, params *s3.GetObjectInput, optFns ...func(*s3.Options)) (*s3.GetObjectOutput, error) {
	body, ok := f.objects[aws.ToString(params.Key)]
	if !ok {
		return nil, errors.New("NoSuchKey")
	}
	return &s3.GetObjectOutput{Body: &trackingBody{Reader: strings.NewReader(body), api: f}}, nil
}

func TestS3Source_ListDocuments(t *testing.T) {
	api := &fakeObjectAPI{
		keys: []string{
			"papers/a.pdf",
			"papers/B.PDF",
			"papers/notes.txt",
			"papers/archive/c.pdf",
			"other/d.pdf",
		},
		objects: map[string]string{"papers/a.pdf": "%PDF-a"},
	}

	src := NewS3Source(NewS3SourceParams{Bucket: "corpus", Prefix: "papers", Extension: ".pdf", Client: api})
	docs, err := src.ListDocuments(context.Background())
	if err != nil {
		t.Fatalf("ListDocuments() error = %v", err)
	}
	if len(docs) != 2 || docs[0].Path != "papers/a.pdf" || docs[1].Path != "papers/B.PDF" {
		t.Fatalf("ListDocuments() got = %+v", docs)
	}
	if docs[0].ID != "a.pdf" {
		t.Fatalf("ID got = %q, want %q", docs[0].ID, "a.pdf")
	}

	content, err := docs[0].GetContent(context.Background())
	if err != nil {
		t.Fatalf("GetContent() error = %v", err)
	}
	if string(content) != "%PDF-a" {
		t.Fatalf("GetContent() got = %q", content)
	}
	if api.closed != 1 {
		t.Fatalf("expected body to be closed once, got %d", api.closed)
	}
}

func TestS3Source_ListFailure(t *testing.T) {
	api := &fakeObjectAPI{listErr: errors.New("AccessDenied")}
	src := NewS3Source(NewS3SourceParams{Bucket: "corpus", Extension: ".pdf", Client: api})

	_, err := src.ListDocuments(context.Background())
	var dirErr *loader.DirectoryAccessError
	if !errors.As(err, &dirErr) {
		t.Fatalf("ListDocuments() error = %v, want *loader.DirectoryAccessError", err)
	}
}

func TestS3FileLoader_MissingObject(t *testing.T) {
	l := NewS3FileLoader("corpus", &fakeObjectAPI{})
	if _, err := l.GetFileContent(context.Background(), loader.Document{Path: "missing.pdf"}); err == nil {
		t.Fatal("GetFileContent() expected error for missing object")
	}
}
