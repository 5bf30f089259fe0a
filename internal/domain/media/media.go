// Package media holds the storage-side vocabulary for uploaded files:
// buckets, the media type classification policy and the stored path format.
package media

import (
	"errors"
	"fmt"
	"io"
	"path"
	"path/filepath"
	"regexp"
	"strings"
	"time"
)

type Bucket string

const (
	BucketImages Bucket = "images"
	BucketPDFs   Bucket = "pdfs"
	BucketVideos Bucket = "videos"
	BucketOthers Bucket = "others"
)

// PublicPrefix is the URL prefix every stored path starts with.
const PublicPrefix = "/uploads"

// Buckets lists every bucket a store must provision at startup.
var Buckets = []Bucket{BucketImages, BucketPDFs, BucketVideos, BucketOthers}

var ErrInvalidPath = errors.New("invalid stored media path")

// Upload is one file part received from a client.
type Upload struct {
	Filename    string
	ContentType string
	Size        int64
	Body        io.Reader
}

type classificationRule struct {
	match  string
	prefix bool
	bucket Bucket
}

// First match wins; anything unmatched lands in BucketOthers.
var classificationPolicy = []classificationRule{
	{match: "image/", prefix: true, bucket: BucketImages},
	{match: "application/pdf", bucket: BucketPDFs},
	{match: "video/", prefix: true, bucket: BucketVideos},
}

// Classify maps a declared media type to its bucket. Parameters such as
// "; charset=utf-8" are ignored.
func Classify(mediaType string) Bucket {
	mt := strings.ToLower(strings.TrimSpace(mediaType))
	if i := strings.IndexByte(mt, ';'); i >= 0 {
		mt = strings.TrimSpace(mt[:i])
	}

	for _, rule := range classificationPolicy {
		if rule.prefix && strings.HasPrefix(mt, rule.match) {
			return rule.bucket
		}
		if !rule.prefix && mt == rule.match {
			return rule.bucket
		}
	}
	return BucketOthers
}

var whitespaceRun = regexp.MustCompile(`\s+`)

// FileName builds the stored name: unix milliseconds, a dash, then the
// original base name with whitespace runs collapsed to underscores.
func FileName(original string, now time.Time) string {
	base := filepath.Base(strings.ReplaceAll(original, "\\", "/"))
	if base == "." || base == "/" {
		base = "file"
	}
	return fmt.Sprintf("%d-%s", now.UnixMilli(), whitespaceRun.ReplaceAllString(base, "_"))
}

func PublicPath(bucket Bucket, name string) string {
	return path.Join(PublicPrefix, string(bucket), name)
}

// ParsePublicPath splits a stored path back into its bucket and file name.
// Paths that escape the bucket layout are rejected.
func ParsePublicPath(p string) (Bucket, string, error) {
	cleaned := path.Clean("/" + strings.TrimSpace(p))
	rest, ok := strings.CutPrefix(cleaned, PublicPrefix+"/")
	if !ok {
		return "", "", fmt.Errorf("%w: %q", ErrInvalidPath, p)
	}

	bucket, name, ok := strings.Cut(rest, "/")
	if !ok || name == "" || strings.Contains(name, "/") {
		return "", "", fmt.Errorf("%w: %q", ErrInvalidPath, p)
	}
	if !IsKnownBucket(Bucket(bucket)) {
		return "", "", fmt.Errorf("%w: unknown bucket %q", ErrInvalidPath, bucket)
	}
	return Bucket(bucket), name, nil
}

func IsKnownBucket(b Bucket) bool {
	for _, known := range Buckets {
		if known == b {
			return true
		}
	}
	return false
}
