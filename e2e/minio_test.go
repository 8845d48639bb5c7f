package e2e_test

import (
	"context"
	"crypto/rand"
	"fmt"
	"math"
	"math/big"
	"sync"
	"testing"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	tcminio "github.com/testcontainers/testcontainers-go/modules/minio"
)

const (
	minioUser   = "testuser"
	minioPass   = "testpassword"
	minioRegion = "us-east-1"
)

var (
	minioEndpoint string
	minioOnce     sync.Once
	minioCleanup  func()
)

// getSharedMinio returns the endpoint URL of a shared MinIO container.
// The container is reused across all tests for performance.
func getSharedMinio(t *testing.T) string {
	t.Helper()

	minioOnce.Do(func() {
		ctx := context.Background()

		minioContainer, err := tcminio.Run(ctx,
			"minio/minio:RELEASE.2024-01-16T16-07-38Z",
			tcminio.WithUsername(minioUser),
			tcminio.WithPassword(minioPass),
		)
		if err != nil {
			t.Fatalf("failed to start minio container: %v", err)
		}

		minioCleanup = func() {
			if err := testcontainers.TerminateContainer(minioContainer); err != nil {
				t.Logf("failed to terminate container: %s", err)
			}
		}

		hostPort, err := minioContainer.ConnectionString(ctx)
		if err != nil {
			minioCleanup()
			t.Fatalf("failed to get connection string: %v", err)
		}

		minioEndpoint = "http://" + hostPort
	})

	return minioEndpoint
}

// createTestBucket provisions a uniquely named bucket on the shared MinIO
// so tests cannot see each other's keys.
func createTestBucket(t *testing.T, endpoint string) string {
	t.Helper()
	ctx := context.Background()

	bucket := fmt.Sprintf("gradlemirror-%s", getRandomString(t))

	awsCfg, err := awsconfig.LoadDefaultConfig(ctx,
		awsconfig.WithRegion(minioRegion),
		awsconfig.WithCredentialsProvider(
			credentials.NewStaticCredentialsProvider(minioUser, minioPass, ""),
		),
	)
	require.NoError(t, err, "load aws config")

	client := s3.NewFromConfig(awsCfg, func(o *s3.Options) {
		o.BaseEndpoint = aws.String(endpoint)
		o.UsePathStyle = true
	})

	_, err = client.CreateBucket(ctx, &s3.CreateBucketInput{
		Bucket: aws.String(bucket),
	})
	require.NoError(t, err, "create bucket")

	return bucket
}

// getRandomString generates a random string for unique test identifiers.
func getRandomString(t *testing.T) string {
	t.Helper()
	n, err := rand.Int(rand.Reader, big.NewInt(math.MaxInt64))
	require.NoError(t, err, "random string")
	return fmt.Sprintf("%x", n.Int64())
}
