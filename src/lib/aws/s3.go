package aws

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log"
	"os"
	"path"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/s3/types"
)

// ObjectGetter is the slice of *s3.Client used here.
type ObjectGetter interface {
	GetObject(ctx context.Context, params *s3.GetObjectInput, optFns ...func(*s3.Options)) (*s3.GetObjectOutput, error)
}

var ErrNoSuchObject = errors.New("object does not exist")

func GetS3Client(ctx context.Context) (*s3.Client, error) {
	cfg, err := config.LoadDefaultConfig(ctx)
	if err != nil {
		log.Printf("[S3] Could not load default config: %s\n", err.Error())
		return nil, err
	}
	return s3.NewFromConfig(cfg), nil
}

// DownloadObject writes bucket/key to dest, creating parent directories.
func DownloadObject(ctx context.Context, client ObjectGetter, bucket, key, dest string) error {
	object, err := client.GetObject(ctx, &s3.GetObjectInput{
		Bucket: aws.String(bucket),
		Key:    aws.String(key),
	})
	if err != nil {
		var noKey *types.NoSuchKey
		if errors.As(err, &noKey) {
			return fmt.Errorf("%s/%s: %w", bucket, key, ErrNoSuchObject)
		}
		return err
	}
	defer object.Body.Close()
	if err := os.MkdirAll(path.Dir(dest), 0o700); err != nil {
		return err
	}
	file, err := os.OpenFile(dest, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0o600)
	if err != nil {
		log.Printf("[S3] Could not create file %s: %s\n", dest, err.Error())
		return err
	}
	defer file.Close()
	if _, err := io.Copy(file, object.Body); err != nil {
		log.Printf("[S3] Error writing to file %s: %s\n", dest, err.Error())
		return err
	}
	log.Printf("[S3] Downloaded %s/%s to %s\n", bucket, key, dest)
	return nil
}
