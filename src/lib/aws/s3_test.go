package aws

import (
	"context"
	"io"
	"os"
	"path"
	"strings"
	"testing"

	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/s3/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeGetter struct {
	objects map[string]string
	calls   []string
}

func (f *fakeGetter) GetObject(_ context.Context, in *s3.GetObjectInput, _ ...func(*s3.Options)) (*s3.GetObjectOutput, error) {
	key := *in.Bucket + "/" + *in.Key
	f.calls = append(f.calls, key)
	body, ok := f.objects[key]
	if !ok {
		return nil, &types.NoSuchKey{}
	}
	return &s3.GetObjectOutput{Body: io.NopCloser(strings.NewReader(body))}, nil
}

func TestDownloadObject(t *testing.T) {
	dest := path.Join(t.TempDir(), "secrets", "admin-sdk-credentials.json")
	getter := &fakeGetter{objects: map[string]string{"bucket/admin-sdk-credentials.json": `{"type":"service_account"}`}}

	err := DownloadObject(context.Background(), getter, "bucket", "admin-sdk-credentials.json", dest)
	require.NoError(t, err)

	b, err := os.ReadFile(dest)
	require.NoError(t, err)
	assert.Equal(t, `{"type":"service_account"}`, string(b))
	assert.Equal(t, []string{"bucket/admin-sdk-credentials.json"}, getter.calls)
}

func TestDownloadObjectMissingKey(t *testing.T) {
	dest := path.Join(t.TempDir(), "creds.json")
	err := DownloadObject(context.Background(), &fakeGetter{}, "bucket", "nope.json", dest)
	assert.ErrorIs(t, err, ErrNoSuchObject)
	_, statErr := os.Stat(dest)
	assert.True(t, os.IsNotExist(statErr))
}
