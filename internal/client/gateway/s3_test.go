package gateway

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
	"testing"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/s3/types"
	"github.com/dmitrijs2005/genio/internal/client/config"
	"github.com/dmitrijs2005/genio/internal/logging"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeS3 struct {
	putKey      string
	putBody     string
	putType     string
	deletedKey  string
	listPages   [][]string
	listCalls   int
	batches     [][]string
	batchErrors []types.Error
	err         error
}

func (f *fakeS3) PutObject(ctx context.Context, in *s3.PutObjectInput, _ ...func(*s3.Options)) (*s3.PutObjectOutput, error) {
	if f.err != nil {
		return nil, f.err
	}
	b, _ := io.ReadAll(in.Body)
	f.putKey, f.putBody, f.putType = aws.ToString(in.Key), string(b), aws.ToString(in.ContentType)
	return &s3.PutObjectOutput{}, nil
}

func (f *fakeS3) DeleteObject(ctx context.Context, in *s3.DeleteObjectInput, _ ...func(*s3.Options)) (*s3.DeleteObjectOutput, error) {
	if f.err != nil {
		return nil, f.err
	}
	f.deletedKey = aws.ToString(in.Key)
	return &s3.DeleteObjectOutput{}, nil
}

func (f *fakeS3) DeleteObjects(ctx context.Context, in *s3.DeleteObjectsInput, _ ...func(*s3.Options)) (*s3.DeleteObjectsOutput, error) {
	var keys []string
	for _, o := range in.Delete.Objects {
		keys = append(keys, aws.ToString(o.Key))
	}
	f.batches = append(f.batches, keys)
	return &s3.DeleteObjectsOutput{Errors: f.batchErrors}, nil
}

func (f *fakeS3) ListObjectsV2(ctx context.Context, in *s3.ListObjectsV2Input, _ ...func(*s3.Options)) (*s3.ListObjectsV2Output, error) {
	if f.err != nil {
		return nil, f.err
	}
	page := f.listPages[f.listCalls]
	f.listCalls++

	out := &s3.ListObjectsV2Output{}
	for _, k := range page {
		out.Contents = append(out.Contents, types.Object{Key: aws.String(k)})
	}
	if f.listCalls < len(f.listPages) {
		out.IsTruncated = aws.Bool(true)
		out.NextContinuationToken = aws.String(fmt.Sprint(f.listCalls))
	}
	return out, nil
}

func TestS3Store_PutAndDelete(t *testing.T) {
	api := &fakeS3{}
	s := &s3Store{api: api, bucket: "genio"}

	require.NoError(t, s.Put(context.Background(), "k/a.txt", strings.NewReader("hello"), 5, "text/plain"))
	assert.Equal(t, "k/a.txt", api.putKey)
	assert.Equal(t, "hello", api.putBody)
	assert.Equal(t, "text/plain", api.putType)

	require.NoError(t, s.Delete(context.Background(), "k/a.txt"))
	assert.Equal(t, "k/a.txt", api.deletedKey)
}

func TestS3Store_DeletePrefix_Paginates(t *testing.T) {
	api := &fakeS3{listPages: [][]string{{"p/a", "p/b"}, {"p/c"}}}
	s := &s3Store{api: api, bucket: "genio"}

	require.NoError(t, s.DeletePrefix(context.Background(), "p/"))
	assert.Equal(t, 2, api.listCalls)
	assert.Equal(t, [][]string{{"p/a", "p/b", "p/c"}}, api.batches)
}

func TestS3Store_DeletePrefix_Empty(t *testing.T) {
	api := &fakeS3{listPages: [][]string{{}}}
	s := &s3Store{api: api, bucket: "genio"}

	require.NoError(t, s.DeletePrefix(context.Background(), "p/"))
	assert.Empty(t, api.batches)
}

func TestS3Store_DeletePrefix_ReportsObjectErrors(t *testing.T) {
	api := &fakeS3{
		listPages:   [][]string{{"p/a"}},
		batchErrors: []types.Error{{Key: aws.String("p/a"), Message: aws.String("AccessDenied")}},
	}
	s := &s3Store{api: api, bucket: "genio"}

	err := s.DeletePrefix(context.Background(), "p/")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "AccessDenied")
}

func TestNewS3_UsesSeams(t *testing.T) {
	oldLoad, oldNew := loadDefaultAWSConfig, newS3ClientFromConfig
	t.Cleanup(func() { loadDefaultAWSConfig, newS3ClientFromConfig = oldLoad, oldNew })

	var gotOpts s3.Options
	api := &fakeS3{}
	loadDefaultAWSConfig = func(ctx context.Context, optFns ...func(*awsconfig.LoadOptions) error) (aws.Config, error) {
		var lo awsconfig.LoadOptions
		for _, fn := range optFns {
			require.NoError(t, fn(&lo))
		}
		assert.Equal(t, "eu-west-1", lo.Region)
		assert.NotNil(t, lo.Credentials)
		return aws.Config{Region: lo.Region}, nil
	}
	newS3ClientFromConfig = func(cfg aws.Config, optFns ...func(*s3.Options)) s3API {
		for _, fn := range optFns {
			fn(&gotOpts)
		}
		return api
	}

	g, err := NewS3(context.Background(), &config.Config{
		S3Region:       "eu-west-1",
		S3Bucket:       "genio",
		S3BaseEndpoint: "http://127.0.0.1:9000/",
		S3AccessKey:    "minio",
		S3SecretKey:    "minio123",
		ObjectPrefix:   "ventures",
	}, logging.Discard())
	require.NoError(t, err)
	assert.Equal(t, "http://127.0.0.1:9000/", aws.ToString(gotOpts.BaseEndpoint))
	assert.True(t, gotOpts.UsePathStyle)

	_, err = g.CreateFolder(context.Background(), "Tower A", "")
	require.NoError(t, err)
	assert.True(t, strings.HasSuffix(api.putKey, "/"+folderMarker))
}

func TestNewS3_ConfigError(t *testing.T) {
	oldLoad := loadDefaultAWSConfig
	t.Cleanup(func() { loadDefaultAWSConfig = oldLoad })

	boom := errors.New("boom")
	loadDefaultAWSConfig = func(ctx context.Context, optFns ...func(*awsconfig.LoadOptions) error) (aws.Config, error) {
		return aws.Config{}, boom
	}

	_, err := NewS3(context.Background(), &config.Config{}, logging.Discard())
	require.ErrorIs(t, err, boom)
}
