package main

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/aws/aws-sdk-go/aws"
	"github.com/aws/aws-sdk-go/aws/credentials"
	"github.com/aws/aws-sdk-go/aws/session"
	"github.com/aws/aws-sdk-go/service/s3"
	"github.com/rs/zerolog/log"
	"github.com/schollz/progressbar/v3"
)

const latestListPointer = "latest_hashes.txt"

type progressReader struct {
	reader io.Reader
	bar    *progressbar.ProgressBar
}

func (pr *progressReader) Read(p []byte) (int, error) {
	n, err := pr.reader.Read(p)
	_ = pr.bar.Add(n)
	return n, err
}

type s3Source struct {
	Bucket    string
	Key       string
	Region    string
	AccessKey string
	SecretKey string
}

func newS3Client(src s3Source) (*s3.S3, error) {
	cfg := &aws.Config{Region: aws.String(src.Region)}
	if src.AccessKey != "" {
		cfg.Credentials = credentials.NewStaticCredentials(src.AccessKey, src.SecretKey, "")
	}
	sess, err := session.NewSession(cfg)
	if err != nil {
		return nil, fmt.Errorf("failed to create AWS session: %w", err)
	}
	return s3.New(sess), nil
}

// loadJobsFromS3 downloads a hash list from S3. The key "latest" resolves
// through the pointer object latest_hashes.txt.
func loadJobsFromS3(ctx context.Context, src s3Source) ([]job, error) {
	log.Info().Str("bucket", src.Bucket).Str("key", src.Key).Msg("Downloading hash list from S3...")
	client, err := newS3Client(src)
	if err != nil {
		return nil, err
	}

	key := src.Key
	if key == "latest" {
		key, err = getLatestListKey(ctx, client, src.Bucket)
		if err != nil {
			return nil, fmt.Errorf("failed to get latest list key: %w", err)
		}
	}

	resp, err := client.GetObjectWithContext(ctx, &s3.GetObjectInput{
		Bucket: aws.String(src.Bucket),
		Key:    aws.String(key),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to download %s from S3: %w", key, err)
	}
	defer resp.Body.Close()

	bar := progressbar.DefaultBytes(aws.Int64Value(resp.ContentLength), "Downloading")
	var buf bytes.Buffer
	if _, err := io.Copy(&buf, &progressReader{reader: resp.Body, bar: bar}); err != nil {
		return nil, fmt.Errorf("failed to read from S3 response body: %w", err)
	}

	return parseJobList(&buf)
}

func getLatestListKey(ctx context.Context, client *s3.S3, bucket string) (string, error) {
	resp, err := client.GetObjectWithContext(ctx, &s3.GetObjectInput{
		Bucket: aws.String(bucket),
		Key:    aws.String(latestListPointer),
	})
	if err != nil {
		return "", fmt.Errorf("failed to get %s: %w", latestListPointer, err)
	}
	defer resp.Body.Close()

	content, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("failed to read %s content: %w", latestListPointer, err)
	}

	latestKey := strings.TrimSpace(string(content))
	if latestKey == "" {
		return "", fmt.Errorf("%s is empty", latestListPointer)
	}
	return latestKey, nil
}
