package services

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/aws/aws-sdk-go-v2/aws"
	v4 "github.com/aws/aws-sdk-go-v2/aws/signer/v4"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/s3"
)

func newUploadServiceForTest() *UploadService {
	cfg := testConfig()
	cfg.S3Region = "us-east-1"
	cfg.S3Bucket = "evidence"
	cfg.S3BaseEndpoint = "http://127.0.0.1:9000"
	return NewUploadService(cfg)
}

func stubPresignSeams(t *testing.T) {
	t.Helper()
	origLoad := loadDefaultAWSConfig
	origNewS3 := newS3ClientFromConfig
	origNewPre := newS3PresignClient
	origPut := presignPutObject
	t.Cleanup(func() {
		loadDefaultAWSConfig = origLoad
		newS3ClientFromConfig = origNewS3
		newS3PresignClient = origNewPre
		presignPutObject = origPut
	})

	loadDefaultAWSConfig = func(ctx context.Context, optFns ...func(*awsconfig.LoadOptions) error) (aws.Config, error) {
		return aws.Config{}, nil
	}
	newS3ClientFromConfig = func(cfg aws.Config, optFns ...func(*s3.Options)) *s3.Client {
		return &s3.Client{}
	}
	newS3PresignClient = func(c *s3.Client) *s3.PresignClient {
		return &s3.PresignClient{}
	}
}

func TestGetPresignedPutUrl_Success(t *testing.T) {
	svc := newUploadServiceForTest()
	stubPresignSeams(t)

	var capturedBucket, capturedKey string
	presignPutObject = func(pc *s3.PresignClient, ctx context.Context, in *s3.PutObjectInput, optFns ...func(*s3.PresignOptions)) (*v4.PresignedHTTPRequest, error) {
		capturedBucket = *in.Bucket
		capturedKey = *in.Key
		return &v4.PresignedHTTPRequest{URL: "http://signed.example/" + *in.Key}, nil
	}

	key, url, err := svc.GetPresignedPutUrl(context.Background())
	if err != nil {
		t.Fatalf("GetPresignedPutUrl error: %v", err)
	}
	if capturedBucket != "evidence" {
		t.Errorf("bucket = %q, want evidence", capturedBucket)
	}
	if key != capturedKey {
		t.Errorf("returned key %q differs from presigned key %q", key, capturedKey)
	}
	if !strings.HasPrefix(key, "evidence/") {
		t.Errorf("key = %q, want evidence/ prefix", key)
	}
	if url == "" {
		t.Error("expected a presigned url")
	}
}

func TestGetPresignedPutUrl_PresignError(t *testing.T) {
	svc := newUploadServiceForTest()
	stubPresignSeams(t)

	presignPutObject = func(pc *s3.PresignClient, ctx context.Context, in *s3.PutObjectInput, optFns ...func(*s3.PresignOptions)) (*v4.PresignedHTTPRequest, error) {
		return nil, errors.New("boom")
	}

	if _, _, err := svc.GetPresignedPutUrl(context.Background()); err == nil {
		t.Fatal("expected an error")
	}
}

func TestGetPresignedPutUrl_ConfigError(t *testing.T) {
	svc := newUploadServiceForTest()
	stubPresignSeams(t)

	loadDefaultAWSConfig = func(ctx context.Context, optFns ...func(*awsconfig.LoadOptions) error) (aws.Config, error) {
		return aws.Config{}, errors.New("no credentials")
	}

	if _, _, err := svc.GetPresignedPutUrl(context.Background()); err == nil {
		t.Fatal("expected an error")
	}
}

func TestRandomStorageKey_DatedAndUnique(t *testing.T) {
	a := randomStorageKey()
	b := randomStorageKey()
	if a == b {
		t.Error("keys are not unique")
	}
	if parts := strings.Split(a, "/"); len(parts) != 5 {
		t.Errorf("key = %q, want evidence/yyyy/m/d/uuid shape", a)
	}
}
