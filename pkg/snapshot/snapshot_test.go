package snapshot

import (
	"bytes"
	"context"
	"errors"
	"io"
	"strings"
	"testing"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/s3/types"
	mferrors "github.com/vango-dev/minifiber/internal/errors"
)

func TestFileStore(t *testing.T) {
	ctx := context.Background()
	s, err := NewFileStore(t.TempDir())
	if err != nil {
		t.Fatalf("NewFileStore() error = %v", err)
	}

	if err := s.Put(ctx, "home", []byte("<p>hi</p>")); err != nil {
		t.Fatalf("Put() error = %v", err)
	}
	got, err := s.Get(ctx, "home")
	if err != nil {
		t.Fatalf("Get() error = %v", err)
	}
	if string(got) != "<p>hi</p>" {
		t.Errorf("Get() = %q", got)
	}

	if _, err := s.Get(ctx, "missing"); !mferrors.HasCode(err, "E151") {
		t.Errorf("Get(missing) error = %v, want E151", err)
	}
}

func TestValidateKey(t *testing.T) {
	for _, key := range []string{"", "../etc", "a/b", `a\b`} {
		if err := ValidateKey(key); !mferrors.HasCode(err, "E150") {
			t.Errorf("ValidateKey(%q) error = %v, want E150", key, err)
		}
	}
	if err := ValidateKey("commit-3"); err != nil {
		t.Errorf("ValidateKey(commit-3) error = %v", err)
	}
}

// fakeS3 keeps objects in memory.
type fakeS3 struct {
	objects map[string][]byte
	putErr  error
}

func (f *fakeS3) PutObject(_ context.Context, in *s3.PutObjectInput, _ ...func(*s3.Options)) (*s3.PutObjectOutput, error) {
	if f.putErr != nil {
		return nil, f.putErr
	}
	data, err := io.ReadAll(in.Body)
	if err != nil {
		return nil, err
	}
	f.objects[aws.ToString(in.Bucket)+"/"+aws.ToString(in.Key)] = data
	return &s3.PutObjectOutput{}, nil
}

func (f *fakeS3) GetObject(_ context.Context, in *s3.GetObjectInput, _ ...func(*s3.Options)) (*s3.GetObjectOutput, error) {
	data, ok := f.objects[aws.ToString(in.Bucket)+"/"+aws.ToString(in.Key)]
	if !ok {
		return nil, &types.NoSuchKey{}
	}
	return &s3.GetObjectOutput{Body: io.NopCloser(bytes.NewReader(data))}, nil
}

func TestS3Store(t *testing.T) {
	ctx := context.Background()
	fake := &fakeS3{objects: map[string][]byte{}}
	s := NewS3Store(fake, "bucket", "snaps/")

	if err := s.Put(ctx, "v1", []byte("<b></b>")); err != nil {
		t.Fatalf("Put() error = %v", err)
	}
	if _, ok := fake.objects["bucket/snaps/v1.html"]; !ok {
		t.Errorf("objects = %v, want key snaps/v1.html", fake.objects)
	}
	got, err := s.Get(ctx, "v1")
	if err != nil || string(got) != "<b></b>" {
		t.Errorf("Get() = %q, %v", got, err)
	}
	if _, err := s.Get(ctx, "v2"); !mferrors.HasCode(err, "E151") {
		t.Errorf("Get(missing) error = %v, want E151", err)
	}

	fake.putErr = errors.New("denied")
	err = s.Put(ctx, "v3", nil)
	if !mferrors.HasCode(err, "E150") || !errors.Is(err, fake.putErr) {
		t.Errorf("Put() error = %v, want E150 wrapping denied", err)
	}
}

func TestDiff(t *testing.T) {
	before := "<ul>\n  <li>1</li>\n  <li>2</li>\n</ul>\n"
	after := "<ul>\n  <li>1</li>\n  <li>3</li>\n</ul>\n"

	d := Diff(before, after)
	for _, want := range []string{"  <ul>\n", "-   <li>2</li>\n", "+   <li>3</li>\n", "  </ul>\n"} {
		if !strings.Contains(d, want) {
			t.Errorf("Diff() missing %q in:\n%s", want, d)
		}
	}

	added, removed := Stat(before, after)
	if added != 1 || removed != 1 {
		t.Errorf("Stat() = +%d -%d, want +1 -1", added, removed)
	}
	if added, removed := Stat(before, before); added != 0 || removed != 0 {
		t.Errorf("Stat(same) = +%d -%d", added, removed)
	}
}
