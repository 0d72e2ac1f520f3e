package mediahost

import (
	"context"
	"errors"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeS3 struct {
	putKey    string
	putBody   string
	putType   string
	deleted   []string
	putErr    error
	deleteErr error
}

func (f *fakeS3) PutObject(_ context.Context, in *s3.PutObjectInput, _ ...func(*s3.Options)) (*s3.PutObjectOutput, error) {
	if f.putErr != nil {
		return nil, f.putErr
	}
	body, _ := io.ReadAll(in.Body)
	f.putKey = aws.ToString(in.Key)
	f.putBody = string(body)
	f.putType = aws.ToString(in.ContentType)
	return &s3.PutObjectOutput{}, nil
}

func (f *fakeS3) DeleteObject(_ context.Context, in *s3.DeleteObjectInput, _ ...func(*s3.Options)) (*s3.DeleteObjectOutput, error) {
	if f.deleteErr != nil {
		return nil, f.deleteErr
	}
	f.deleted = append(f.deleted, aws.ToString(in.Key))
	return &s3.DeleteObjectOutput{}, nil
}

func writeTemp(t *testing.T, name, content string) string {
	t.Helper()
	p := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(p, []byte(content), 0o600))
	return p
}

func TestUpload_StoresAndRemovesLocalFile(t *testing.T) {
	origNow := now
	now = func() time.Time { return time.Date(2024, 3, 9, 0, 0, 0, 0, time.UTC) }
	t.Cleanup(func() { now = origNow })

	api := &fakeS3{}
	client := newClient(api, Config{Bucket: "media", PublicURL: "https://cdn.example.com/"})
	local := writeTemp(t, "thumb.PNG", "bytes")

	asset, err := client.Upload(context.Background(), local, "videos")
	require.NoError(t, err)

	assert.True(t, strings.HasPrefix(api.putKey, "videos/2024/03/"), api.putKey)
	assert.True(t, strings.HasSuffix(api.putKey, ".png"), api.putKey)
	assert.Equal(t, "bytes", api.putBody)
	assert.Equal(t, "image/png", api.putType)
	assert.Equal(t, "https://cdn.example.com/"+api.putKey, asset.URL)
	assert.EqualValues(t, 5, asset.Size)

	_, statErr := os.Stat(local)
	assert.True(t, os.IsNotExist(statErr))
}

func TestUpload_FailureStillRemovesLocalFile(t *testing.T) {
	api := &fakeS3{putErr: errors.New("boom")}
	client := newClient(api, Config{Bucket: "media", Region: "eu-west-1"})
	local := writeTemp(t, "avatar.png", "png")

	_, err := client.Upload(context.Background(), local, "avatars")
	require.Error(t, err)

	_, statErr := os.Stat(local)
	assert.True(t, os.IsNotExist(statErr))
}

func TestDelete(t *testing.T) {
	api := &fakeS3{}
	client := newClient(api, Config{Bucket: "media", Endpoint: "http://minio:9000"})

	require.NoError(t, client.Delete(context.Background(), "http://minio:9000/media/videos/2024/01/a.mp4"))
	assert.Equal(t, []string{"videos/2024/01/a.mp4"}, api.deleted)

	err := client.Delete(context.Background(), "https://elsewhere.example.com/x.png")
	assert.ErrorIs(t, err, ErrNotOwned)
}

func TestPublicBaseURL(t *testing.T) {
	assert.Equal(t, "https://b.s3.us-east-1.amazonaws.com", publicBaseURL(Config{Bucket: "b", Region: "us-east-1"}))
	assert.Equal(t, "http://minio:9000/b", publicBaseURL(Config{Bucket: "b", Endpoint: "http://minio:9000/"}))
}
