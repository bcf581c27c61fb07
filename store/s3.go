/* Copyright © 2025 Mike Brown. All Rights Reserved.
 *
 * See LICENSE file at the root of this repository for license terms
 */
package store

import (
	"bytes"
	"compress/gzip"
	"context"
	"errors"
	"fmt"
	"io"
	"log"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/smithy-go"

	"github.com/mikeb26/swisspairing-tdbot/tourney"
)

// S3Store keeps each tournament as a gzipped JSON object at
// <prefix>/<name>.json.gz. A NoSuchKey response is a plain not-found,
// not an error.
type S3Store struct {
	client *s3.Client
	bucket string
	prefix string
	ctx    context.Context
}

// NewS3Store loads the default AWS configuration (environment variables,
// shared credentials files) and verifies the bucket is reachable.
func NewS3Store(ctx context.Context, bucket, prefix string) (*S3Store, error) {
	cfg, err := config.LoadDefaultConfig(ctx)
	if err != nil {
		return nil, fmt.Errorf("store.s3: failed to load AWS config: %w", err)
	}
	st := &S3Store{
		client: s3.NewFromConfig(cfg),
		bucket: bucket,
		prefix: strings.Trim(prefix, "/"),
		ctx:    ctx,
	}
	if _, err := st.client.HeadBucket(ctx, &s3.HeadBucketInput{
		Bucket: aws.String(bucket),
	}); err != nil {
		return nil, fmt.Errorf("store.s3: head bucket failed for %s: %w", bucket, err)
	}
	return st, nil
}

func (st *S3Store) objectKey(name string) string {
	key := name + ".json.gz"
	if st.prefix != "" {
		key = st.prefix + "/" + key
	}
	return key
}

func isNoSuchKey(err error) bool {
	var apiErr smithy.APIError
	if !errors.As(err, &apiErr) {
		return false
	}
	code := apiErr.ErrorCode()
	return code == "NoSuchKey" || code == "NotFound"
}

func (st *S3Store) Load(ctx context.Context, name string) (*tourney.Tournament, error) {
	if err := validName(name); err != nil {
		return nil, err
	}
	resp, err := st.client.GetObject(ctx, &s3.GetObjectInput{
		Bucket: aws.String(st.bucket),
		Key:    aws.String(st.objectKey(name)),
	})
	if err != nil {
		if isNoSuchKey(err) {
			return nil, fmt.Errorf("store.s3: %s: %w", name, ErrNotFound)
		}
		return nil, fmt.Errorf("store.s3: failed to get %s: %w", name, err)
	}
	defer resp.Body.Close()

	gr, err := gzip.NewReader(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("store.s3: failed to open compressed object %s: %w",
			name, err)
	}
	defer gr.Close()
	data, err := io.ReadAll(gr)
	if err != nil {
		return nil, fmt.Errorf("store.s3: failed to read %s: %w", name, err)
	}

	t, err := tourney.Decode(data)
	if err != nil {
		return nil, fmt.Errorf("store.s3: %s: %w", name, err)
	}
	return t, nil
}

func (st *S3Store) Save(ctx context.Context, name string, t *tourney.Tournament) error {
	if err := validName(name); err != nil {
		return err
	}
	data, err := t.Encode()
	if err != nil {
		return fmt.Errorf("store.s3: cannot encode %s: %w", name, err)
	}

	var buf bytes.Buffer
	gw := gzip.NewWriter(&buf)
	if _, err := gw.Write(data); err != nil {
		return fmt.Errorf("store.s3: failed to gzip %s: %w", name, err)
	}
	if err := gw.Close(); err != nil {
		return fmt.Errorf("store.s3: failed to close gzip writer for %s: %w", name, err)
	}

	_, err = st.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:          aws.String(st.bucket),
		Key:             aws.String(st.objectKey(name)),
		Body:            &buf,
		ContentEncoding: aws.String("gzip"),
	})
	if err != nil {
		return fmt.Errorf("store.s3: put failed for %s: %w", name, err)
	}
	return nil
}

func (st *S3Store) List(ctx context.Context) ([]string, error) {
	prefix := ""
	if st.prefix != "" {
		prefix = st.prefix + "/"
	}
	var names []string
	paginator := s3.NewListObjectsV2Paginator(st.client, &s3.ListObjectsV2Input{
		Bucket: aws.String(st.bucket),
		Prefix: aws.String(prefix),
	})
	for paginator.HasMorePages() {
		page, err := paginator.NextPage(ctx)
		if err != nil {
			return nil, fmt.Errorf("store.s3: list failed for %s: %w", st.bucket, err)
		}
		for _, obj := range page.Contents {
			key := strings.TrimPrefix(*obj.Key, prefix)
			if !strings.HasSuffix(key, ".json.gz") || strings.Contains(key, "/") {
				continue
			}
			names = append(names, strings.TrimSuffix(key, ".json.gz"))
		}
	}
	return names, nil
}

func (st *S3Store) Delete(ctx context.Context, name string) error {
	if err := validName(name); err != nil {
		return err
	}
	_, err := st.client.DeleteObject(ctx, &s3.DeleteObjectInput{
		Bucket: aws.String(st.bucket),
		Key:    aws.String(st.objectKey(name)),
	})
	if err != nil {
		log.Printf("store.s3: delete failed for %s: %v", name, err)
		return fmt.Errorf("store.s3: delete failed for %s: %w", name, err)
	}
	return nil
}
