// Package storage provides the optional S3 archive for uploaded source
// documents. The graph only keeps derived data; the archive keeps the
// originals so a group can be re-ingested later.
package storage

import (
	"bytes"
	"context"
	"fmt"
	"mime"
	"path/filepath"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/s3/types"
	gonanoid "github.com/matoous/go-nanoid/v2"

	"github.com/kgraphrag/backend/internal/config"
	"github.com/kgraphrag/backend/internal/util"
	"github.com/kgraphrag/backend/pkg/logger"
)

// NewS3Client builds the archive client from the active settings. Returns
// nil when no bucket is configured; archival is optional and a nil client
// disables it.
func NewS3Client(ctx context.Context) *s3.Client {
	settings := config.Current()
	if settings.S3Bucket == "" {
		return nil
	}

	accessKey := util.GetEnv("AWS_ACCESS_KEY")
	secretKey := util.GetEnv("AWS_SECRET_KEY")

	cfg, err := awsconfig.LoadDefaultConfig(
		ctx,
		awsconfig.WithRegion(settings.S3Region),
		awsconfig.WithBaseEndpoint(settings.S3Endpoint),
		awsconfig.WithCredentialsProvider(credentials.NewStaticCredentialsProvider(
			accessKey,
			secretKey,
			"",
		)),
	)
	if err != nil {
		logger.Error("Failed to configure S3 archive, uploads will not be archived", "err", err)
		return nil
	}

	return s3.NewFromConfig(cfg, func(o *s3.Options) {
		o.UsePathStyle = true
	})
}

// ArchiveUpload stores the raw uploaded file under uploads/<group>/<id>.<ext>
// and returns the object key.
func ArchiveUpload(ctx context.Context, client *s3.Client, groupID string, filename string, content []byte) (string, error) {
	bucket := config.Current().S3Bucket

	id, err := gonanoid.New()
	if err != nil {
		return "", fmt.Errorf("failed to generate archive key: %w", err)
	}

	ext := strings.TrimPrefix(filepath.Ext(filename), ".")
	key := fmt.Sprintf("uploads/%s/%s.%s", groupID, id, ext)
	mimeType := mime.TypeByExtension("." + ext)

	_, err = client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(bucket),
		Key:         aws.String(key),
		Body:        bytes.NewReader(content),
		ContentType: aws.String(mimeType),
	})
	if err != nil {
		return "", fmt.Errorf("failed to upload file to S3: %v", err)
	}

	return key, nil
}

// DeleteGroupFiles removes every archived upload of a group.
func DeleteGroupFiles(ctx context.Context, client *s3.Client, groupID string) error {
	bucket := config.Current().S3Bucket
	prefix := fmt.Sprintf("uploads/%s/", groupID)

	listInput := &s3.ListObjectsV2Input{
		Bucket: aws.String(bucket),
		Prefix: aws.String(prefix),
	}

	for {
		listOutput, err := client.ListObjectsV2(ctx, listInput)
		if err != nil {
			return fmt.Errorf("failed to list objects in folder %s: %w", prefix, err)
		}

		if len(listOutput.Contents) == 0 {
			break
		}

		var objectsToDelete []types.ObjectIdentifier
		for _, obj := range listOutput.Contents {
			objectsToDelete = append(objectsToDelete, types.ObjectIdentifier{
				Key: obj.Key,
			})
		}

		_, err = client.DeleteObjects(ctx, &s3.DeleteObjectsInput{
			Bucket: aws.String(bucket),
			Delete: &types.Delete{
				Objects: objectsToDelete,
				Quiet:   aws.Bool(true),
			},
		})
		if err != nil {
			return fmt.Errorf("failed to delete objects in folder %s: %w", prefix, err)
		}

		if listOutput.IsTruncated != nil && *listOutput.IsTruncated {
			listInput.ContinuationToken = listOutput.NextContinuationToken
		} else {
			break
		}
	}

	return nil
}
