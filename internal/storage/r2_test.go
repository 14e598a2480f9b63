package storage

import (
	"context"
	"errors"
	"io"
	"strings"
	"testing"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"
)

type fakePutter struct {
	key         string
	contentType string
	body        []byte
	err         error
}

func (f *fakePutter) PutObject(_ context.Context, in *s3.PutObjectInput, _ ...func(*s3.Options)) (*s3.PutObjectOutput, error) {
	if f.err != nil {
		return nil, f.err
	}
	f.key = aws.ToString(in.Key)
	f.contentType = aws.ToString(in.ContentType)
	f.body, _ = io.ReadAll(in.Body)
	return &s3.PutObjectOutput{}, nil
}

func TestImageKey(t *testing.T) {
	tests := []struct {
		owner, contentType, prefix, ext string
	}{
		{"user-1", "image/jpeg", "scans/user-1/", ".jpg"},
		{"", "image/png", "scans/anonymous/", ".png"},
		{"user-2", "not a type", "scans/user-2/", ""},
	}
	for _, tt := range tests {
		key := ImageKey(tt.owner, tt.contentType)
		if !strings.HasPrefix(key, tt.prefix) {
			t.Fatalf("expected prefix %q, got %q", tt.prefix, key)
		}
		if !strings.HasSuffix(key, tt.ext) {
			t.Fatalf("expected extension %q, got %q", tt.ext, key)
		}
		// 36 character uuid between prefix and extension
		if n := len(key) - len(tt.prefix) - len(tt.ext); n != 36 {
			t.Fatalf("expected uuid segment in %q", key)
		}
	}
}

func TestPutImage(t *testing.T) {
	fake := &fakePutter{}
	r := &R2Client{client: fake, bucket: "menus", baseURL: "https://cdn.example"}

	if err := r.PutImage(context.Background(), "scans/a/b.png", []byte("png"), "image/png"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if fake.key != "scans/a/b.png" || fake.contentType != "image/png" || string(fake.body) != "png" {
		t.Fatalf("unexpected upload %+v", fake)
	}
	if got := r.PublicURL("scans/a/b.png"); got != "https://cdn.example/scans/a/b.png" {
		t.Fatalf("unexpected public url %q", got)
	}
}

func TestPutImage_Error(t *testing.T) {
	r := &R2Client{client: &fakePutter{err: errors.New("denied")}, bucket: "menus"}

	if err := r.PutImage(context.Background(), "k", []byte("x"), ""); err == nil {
		t.Fatal("expected error")
	}
	if r.PublicURL("k") != "" {
		t.Fatal("expected empty public url without base")
	}
}
