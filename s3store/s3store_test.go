package s3store_test

import (
	"context"
	"errors"
	"io"
	"strings"
	"testing"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/s3/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/gradlemirror/gradlemirror"
	"github.com/gradlemirror/gradlemirror/s3store"
)

// SpyS3 is a mock implementation of s3store.API
type SpyS3 struct {
	mock.Mock
}

func (s *SpyS3) GetObject(ctx context.Context, params *s3.GetObjectInput, _ ...func(*s3.Options)) (*s3.GetObjectOutput, error) {
	args := s.Called(ctx, params)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*s3.GetObjectOutput), args.Error(1)
}

func (s *SpyS3) HeadObject(ctx context.Context, params *s3.HeadObjectInput, _ ...func(*s3.Options)) (*s3.HeadObjectOutput, error) {
	args := s.Called(ctx, params)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*s3.HeadObjectOutput), args.Error(1)
}

func (s *SpyS3) ListObjectsV2(ctx context.Context, params *s3.ListObjectsV2Input, _ ...func(*s3.Options)) (*s3.ListObjectsV2Output, error) {
	args := s.Called(ctx, params)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*s3.ListObjectsV2Output), args.Error(1)
}

func (s *SpyS3) PutObject(ctx context.Context, params *s3.PutObjectInput, _ ...func(*s3.Options)) (*s3.PutObjectOutput, error) {
	args := s.Called(ctx, params)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*s3.PutObjectOutput), args.Error(1)
}

func (s *SpyS3) DeleteObject(ctx context.Context, params *s3.DeleteObjectInput, _ ...func(*s3.Options)) (*s3.DeleteObjectOutput, error) {
	args := s.Called(ctx, params)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*s3.DeleteObjectOutput), args.Error(1)
}

func TestS3Store_Get_Success(t *testing.T) {
	spy := new(SpyS3)
	store := s3store.NewWithClient(spy, "mirror")

	modTime := time.Date(2025, 6, 15, 10, 30, 0, 0, time.UTC)
	spy.On("GetObject", mock.Anything, mock.MatchedBy(func(in *s3.GetObjectInput) bool {
		return aws.ToString(in.Bucket) == "mirror" && aws.ToString(in.Key) == "gradle/8.5/gradle-8.5-bin.zip"
	})).Return(&s3.GetObjectOutput{
		Body:          io.NopCloser(strings.NewReader("zip bytes")),
		ContentLength: aws.Int64(9),
		ContentType:   aws.String("application/zip"),
		ETag:          aws.String(`"abc123"`),
		LastModified:  aws.Time(modTime),
	}, nil)

	obj, err := store.Get(context.Background(), "gradle/8.5/gradle-8.5-bin.zip")
	require.NoError(t, err)
	defer func() { _ = obj.Body.Close() }()

	assert.Equal(t, "gradle/8.5/gradle-8.5-bin.zip", obj.Key)
	assert.Equal(t, int64(9), obj.Size)
	// Quotes come off on the way in; the HTTP layer adds its own pair
	assert.Equal(t, "abc123", obj.ETag)
	assert.Equal(t, "application/zip", obj.ContentType)
	assert.Equal(t, modTime, obj.LastModified)

	body, err := io.ReadAll(obj.Body)
	require.NoError(t, err)
	assert.Equal(t, "zip bytes", string(body))

	spy.AssertExpectations(t)
}

func TestS3Store_Get_NotFound(t *testing.T) {
	spy := new(SpyS3)
	store := s3store.NewWithClient(spy, "mirror")

	spy.On("GetObject", mock.Anything, mock.Anything).Return(nil, &types.NoSuchKey{})

	_, err := store.Get(context.Background(), "missing.txt")

	assert.ErrorIs(t, err, gradlemirror.ErrNotFound)
	spy.AssertExpectations(t)
}

func TestS3Store_Get_BackendError(t *testing.T) {
	spy := new(SpyS3)
	store := s3store.NewWithClient(spy, "mirror")

	spy.On("GetObject", mock.Anything, mock.Anything).Return(nil, errors.New("connection refused"))

	_, err := store.Get(context.Background(), "gradle/8.5/gradle-8.5-bin.zip")

	require.Error(t, err)
	assert.NotErrorIs(t, err, gradlemirror.ErrNotFound)
	spy.AssertExpectations(t)
}

func TestS3Store_Head_Success(t *testing.T) {
	spy := new(SpyS3)
	store := s3store.NewWithClient(spy, "mirror")

	modTime := time.Date(2025, 6, 15, 10, 30, 0, 0, time.UTC)
	spy.On("HeadObject", mock.Anything, mock.MatchedBy(func(in *s3.HeadObjectInput) bool {
		return aws.ToString(in.Key) == "index.html"
	})).Return(&s3.HeadObjectOutput{
		ContentLength: aws.Int64(53),
		ContentType:   aws.String("text/html"),
		ETag:          aws.String(`"abc123"`),
		LastModified:  aws.Time(modTime),
	}, nil)

	info, err := store.Head(context.Background(), "index.html")
	require.NoError(t, err)

	assert.Equal(t, "index.html", info.Key)
	assert.Equal(t, int64(53), info.Size)
	assert.Equal(t, "abc123", info.ETag)
	assert.Equal(t, modTime, info.LastModified)

	spy.AssertExpectations(t)
}

func TestS3Store_Head_NotFound(t *testing.T) {
	spy := new(SpyS3)
	store := s3store.NewWithClient(spy, "mirror")

	spy.On("HeadObject", mock.Anything, mock.Anything).Return(nil, &types.NotFound{})

	_, err := store.Head(context.Background(), "missing.txt")

	assert.ErrorIs(t, err, gradlemirror.ErrNotFound)
	spy.AssertExpectations(t)
}

func TestS3Store_List_GroupsByDelimiter(t *testing.T) {
	spy := new(SpyS3)
	store := s3store.NewWithClient(spy, "mirror")

	modTime := time.Date(2025, 6, 15, 10, 30, 0, 0, time.UTC)
	spy.On("ListObjectsV2", mock.Anything, mock.MatchedBy(func(in *s3.ListObjectsV2Input) bool {
		return aws.ToString(in.Prefix) == "gradle/" && aws.ToString(in.Delimiter) == "/"
	})).Return(&s3.ListObjectsV2Output{
		CommonPrefixes: []types.CommonPrefix{
			{Prefix: aws.String("gradle/7.6/")},
			{Prefix: aws.String("gradle/8.5/")},
		},
		Contents: []types.Object{
			{
				Key:          aws.String("gradle/README.txt"),
				Size:         aws.Int64(120),
				ETag:         aws.String(`"def456"`),
				LastModified: aws.Time(modTime),
			},
		},
		IsTruncated: aws.Bool(false),
	}, nil)

	res, err := store.List(context.Background(), gradlemirror.ListQuery{Prefix: "gradle/", Delimiter: "/"})
	require.NoError(t, err)

	assert.Equal(t, []string{"gradle/7.6/", "gradle/8.5/"}, res.CommonPrefixes)
	require.Len(t, res.Objects, 1)
	assert.Equal(t, "gradle/README.txt", res.Objects[0].Key)
	assert.Equal(t, int64(120), res.Objects[0].Size)
	assert.Equal(t, "def456", res.Objects[0].ETag)

	spy.AssertExpectations(t)
}

func TestS3Store_List_Paginates(t *testing.T) {
	spy := new(SpyS3)
	store := s3store.NewWithClient(spy, "mirror")

	spy.On("ListObjectsV2", mock.Anything, mock.MatchedBy(func(in *s3.ListObjectsV2Input) bool {
		return in.ContinuationToken == nil
	})).Return(&s3.ListObjectsV2Output{
		Contents: []types.Object{
			{Key: aws.String("gradle/7.6/gradle-7.6-bin.zip"), Size: aws.Int64(1)},
		},
		IsTruncated:           aws.Bool(true),
		NextContinuationToken: aws.String("page-2"),
	}, nil).Once()

	spy.On("ListObjectsV2", mock.Anything, mock.MatchedBy(func(in *s3.ListObjectsV2Input) bool {
		return aws.ToString(in.ContinuationToken) == "page-2"
	})).Return(&s3.ListObjectsV2Output{
		Contents: []types.Object{
			{Key: aws.String("gradle/8.5/gradle-8.5-bin.zip"), Size: aws.Int64(2)},
		},
		IsTruncated: aws.Bool(false),
	}, nil).Once()

	res, err := store.List(context.Background(), gradlemirror.ListQuery{Prefix: "gradle/"})
	require.NoError(t, err)

	require.Len(t, res.Objects, 2)
	assert.Equal(t, "gradle/7.6/gradle-7.6-bin.zip", res.Objects[0].Key)
	assert.Equal(t, "gradle/8.5/gradle-8.5-bin.zip", res.Objects[1].Key)

	spy.AssertExpectations(t)
}

func TestS3Store_Put_SetsUploadMetadata(t *testing.T) {
	spy := new(SpyS3)
	store := s3store.NewWithClient(spy, "mirror")

	spy.On("PutObject", mock.Anything, mock.MatchedBy(func(in *s3.PutObjectInput) bool {
		return aws.ToString(in.Key) == "gradle/8.5/gradle-8.5-bin.zip" &&
			aws.ToString(in.ContentType) == "application/zip" &&
			aws.ToInt64(in.ContentLength) == 9 &&
			aws.ToString(in.CacheControl) == "public, max-age=86400"
	})).Return(&s3.PutObjectOutput{ETag: aws.String(`"fed789"`)}, nil)

	info, err := store.Put(context.Background(), "gradle/8.5/gradle-8.5-bin.zip",
		strings.NewReader("zip bytes"),
		gradlemirror.PutOptions{
			ContentType:   "application/zip",
			ContentLength: 9,
			CacheControl:  "public, max-age=86400",
		})
	require.NoError(t, err)

	assert.Equal(t, "fed789", info.ETag)
	assert.Equal(t, int64(9), info.Size)

	spy.AssertExpectations(t)
}

func TestS3Store_Delete_Success(t *testing.T) {
	spy := new(SpyS3)
	store := s3store.NewWithClient(spy, "mirror")

	spy.On("HeadObject", mock.Anything, mock.Anything).Return(&s3.HeadObjectOutput{
		ContentLength: aws.Int64(1),
	}, nil)
	spy.On("DeleteObject", mock.Anything, mock.MatchedBy(func(in *s3.DeleteObjectInput) bool {
		return aws.ToString(in.Key) == "stale.txt"
	})).Return(&s3.DeleteObjectOutput{}, nil)

	err := store.Delete(context.Background(), "stale.txt")

	assert.NoError(t, err)
	spy.AssertExpectations(t)
}

func TestS3Store_Delete_MissingKey(t *testing.T) {
	spy := new(SpyS3)
	store := s3store.NewWithClient(spy, "mirror")

	spy.On("HeadObject", mock.Anything, mock.Anything).Return(nil, &types.NotFound{})

	err := store.Delete(context.Background(), "already-gone.txt")

	assert.ErrorIs(t, err, gradlemirror.ErrNotFound)
	spy.AssertNotCalled(t, "DeleteObject")
	spy.AssertExpectations(t)
}

func TestS3Store_ListAll_NoDelimiter(t *testing.T) {
	spy := new(SpyS3)
	store := s3store.NewWithClient(spy, "mirror")

	spy.On("ListObjectsV2", mock.Anything, mock.MatchedBy(func(in *s3.ListObjectsV2Input) bool {
		return in.Delimiter == nil && aws.ToString(in.Prefix) == "gradle/"
	})).Return(&s3.ListObjectsV2Output{
		Contents: []types.Object{
			{Key: aws.String("gradle/8.5/gradle-8.5-bin.zip"), Size: aws.Int64(1)},
			{Key: aws.String("gradle/8.5/gradle-8.5-bin.zip.sha256"), Size: aws.Int64(2)},
		},
		IsTruncated: aws.Bool(false),
	}, nil)

	objects, err := store.ListAll(context.Background(), "gradle/")
	require.NoError(t, err)

	require.Len(t, objects, 2)
	assert.Equal(t, "gradle/8.5/gradle-8.5-bin.zip", objects[0].Key)

	spy.AssertExpectations(t)
}
