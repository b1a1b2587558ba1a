package media

import (
	"context"
	"errors"
	"io"
	"strings"
	"testing"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	v4 "github.com/aws/aws-sdk-go-v2/aws/signer/v4"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/s3/types"
	"github.com/dmitrijs2005/campusmarket/internal/common"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var testSettings = S3Settings{
	User:         "minioadmin",
	Password:     "minioadmin",
	Bucket:       "campusmarket",
	Region:       "us-east-1",
	BaseEndpoint: "http://127.0.0.1:9000",
	URLValidity:  time.Hour,
}

// stubSeams replaces every S3 seam and restores them when the test ends.
func stubSeams(t *testing.T) {
	t.Helper()
	origLoad, origNew, origPre := loadDefaultAWSConfig, newS3ClientFromConfig, newS3PresignClient
	origPut, origGet, origPresignGet := putObject, getObject, presignGetObject
	t.Cleanup(func() {
		loadDefaultAWSConfig, newS3ClientFromConfig, newS3PresignClient = origLoad, origNew, origPre
		putObject, getObject, presignGetObject = origPut, origGet, origPresignGet
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

func TestNewS3Store_AppliesSettings(t *testing.T) {
	stubSeams(t)

	loadDefaultAWSConfig = func(ctx context.Context, optFns ...func(*awsconfig.LoadOptions) error) (aws.Config, error) {
		var lo awsconfig.LoadOptions
		for _, fn := range optFns {
			require.NoError(t, fn(&lo))
		}
		assert.Equal(t, "us-east-1", lo.Region)
		require.NotNil(t, lo.Credentials)
		creds, err := lo.Credentials.Retrieve(ctx)
		require.NoError(t, err)
		assert.Equal(t, "minioadmin", creds.AccessKeyID)
		return aws.Config{}, nil
	}
	var opts s3.Options
	newS3ClientFromConfig = func(cfg aws.Config, optFns ...func(*s3.Options)) *s3.Client {
		for _, fn := range optFns {
			fn(&opts)
		}
		return &s3.Client{}
	}

	st, err := NewS3Store(context.Background(), testSettings)
	require.NoError(t, err)
	assert.Equal(t, "campusmarket", st.bucket)
	assert.Equal(t, time.Hour, st.validity)
	require.NotNil(t, opts.BaseEndpoint)
	assert.Equal(t, "http://127.0.0.1:9000", *opts.BaseEndpoint)
	assert.True(t, opts.UsePathStyle)
}

func TestNewS3Store_ConfigError(t *testing.T) {
	stubSeams(t)
	loadDefaultAWSConfig = func(ctx context.Context, optFns ...func(*awsconfig.LoadOptions) error) (aws.Config, error) {
		return aws.Config{}, errors.New("no config")
	}

	_, err := NewS3Store(context.Background(), testSettings)
	assert.ErrorContains(t, err, "no config")
}

func TestNewS3Store_DefaultValidity(t *testing.T) {
	stubSeams(t)
	st, err := NewS3Store(context.Background(), S3Settings{Bucket: "b"})
	require.NoError(t, err)
	assert.Equal(t, 24*time.Hour, st.validity)
}

func TestS3Store_SaveReturnsPresignedGet(t *testing.T) {
	stubSeams(t)

	var putIn *s3.PutObjectInput
	putObject = func(c *s3.Client, ctx context.Context, in *s3.PutObjectInput, optFns ...func(*s3.Options)) (*s3.PutObjectOutput, error) {
		putIn = in
		return &s3.PutObjectOutput{}, nil
	}
	presignGetObject = func(pc *s3.PresignClient, ctx context.Context, in *s3.GetObjectInput, optFns ...func(*s3.PresignOptions)) (*v4.PresignedHTTPRequest, error) {
		var po s3.PresignOptions
		for _, fn := range optFns {
			fn(&po)
		}
		assert.Equal(t, time.Hour, po.Expires)
		return &v4.PresignedHTTPRequest{URL: "http://127.0.0.1:9000/campusmarket/" + *in.Key + "?X-Amz-Signature=abc"}, nil
	}

	st, err := NewS3Store(context.Background(), testSettings)
	require.NoError(t, err)

	url, err := st.Save(context.Background(), "listings/l1/k", "image/jpeg", []byte("jpeg"))
	require.NoError(t, err)
	assert.Equal(t, "http://127.0.0.1:9000/campusmarket/listings/l1/k?X-Amz-Signature=abc", url)

	require.NotNil(t, putIn)
	assert.Equal(t, "campusmarket", *putIn.Bucket)
	assert.Equal(t, "listings/l1/k", *putIn.Key)
	assert.Equal(t, "image/jpeg", *putIn.ContentType)
	body, _ := io.ReadAll(putIn.Body)
	assert.Equal(t, "jpeg", string(body))
}

func TestS3Store_SaveErrors(t *testing.T) {
	stubSeams(t)
	st, err := NewS3Store(context.Background(), testSettings)
	require.NoError(t, err)

	putObject = func(c *s3.Client, ctx context.Context, in *s3.PutObjectInput, optFns ...func(*s3.Options)) (*s3.PutObjectOutput, error) {
		return nil, errors.New("access denied")
	}
	_, err = st.Save(context.Background(), "k", "", nil)
	assert.ErrorContains(t, err, "s3 put k: access denied")

	putObject = func(c *s3.Client, ctx context.Context, in *s3.PutObjectInput, optFns ...func(*s3.Options)) (*s3.PutObjectOutput, error) {
		assert.Nil(t, in.ContentType)
		return &s3.PutObjectOutput{}, nil
	}
	presignGetObject = func(pc *s3.PresignClient, ctx context.Context, in *s3.GetObjectInput, optFns ...func(*s3.PresignOptions)) (*v4.PresignedHTTPRequest, error) {
		return nil, errors.New("sign failed")
	}
	_, err = st.Save(context.Background(), "k", "", nil)
	assert.ErrorContains(t, err, "s3 presign k: sign failed")
}

func TestS3Store_Open(t *testing.T) {
	stubSeams(t)
	st, err := NewS3Store(context.Background(), testSettings)
	require.NoError(t, err)

	getObject = func(c *s3.Client, ctx context.Context, in *s3.GetObjectInput, optFns ...func(*s3.Options)) (*s3.GetObjectOutput, error) {
		switch *in.Key {
		case "found":
			return &s3.GetObjectOutput{
				Body:        io.NopCloser(strings.NewReader("payload")),
				ContentType: aws.String("text/plain"),
			}, nil
		case "missing":
			return nil, &types.NoSuchKey{}
		default:
			return nil, errors.New("timeout")
		}
	}

	o, err := st.Open(context.Background(), "found")
	require.NoError(t, err)
	assert.Equal(t, "payload", string(o.Data))
	assert.Equal(t, "text/plain", o.ContentType)

	_, err = st.Open(context.Background(), "missing")
	assert.ErrorIs(t, err, common.ErrMediaNotFound)

	_, err = st.Open(context.Background(), "other")
	assert.ErrorContains(t, err, "s3 get other: timeout")
}

func TestStoresSatisfyInterface(t *testing.T) {
	var _ Store = NewMemoryStore("")
	var _ Store = &S3Store{}
}
