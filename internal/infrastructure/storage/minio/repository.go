package minio

import (
	"bytes"
	"context"
	"fmt"
	"strings"

	"github.com/minio/minio-go/v7"

	"github.com/turtacn/ConsultTrack-Intelligence/internal/infrastructure/monitoring/logging"
	"github.com/turtacn/ConsultTrack-Intelligence/pkg/errors"
)

const transcriptContentType = "application/json"

// TranscriptArchive writes exported chat transcripts to the archive bucket.
type TranscriptArchive struct {
	client *MinIOClient
	logger logging.Logger
}

func NewTranscriptArchive(client *MinIOClient, log logging.Logger) *TranscriptArchive {
	return &TranscriptArchive{client: client, logger: log}
}

// PutTranscript uploads data under key.  The returned location is a
// presigned GET URL when presigning is configured, else an s3:// URI.
func (a *TranscriptArchive) PutTranscript(ctx context.Context, key string, data []byte) (string, error) {
	if a.client.isClosed() {
		return "", ErrMinIOClientClosed
	}
	key = strings.TrimPrefix(key, "/")
	if key == "" {
		return "", errors.New(errors.ErrCodeValidation, "object key is required")
	}
	if len(data) == 0 {
		return "", errors.New(errors.ErrCodeValidation, "transcript is empty")
	}

	bucket := a.client.Bucket()
	opts := minio.PutObjectOptions{
		ContentType:  transcriptContentType,
		UserMetadata: map[string]string{"kind": "chat-transcript"},
	}
	info, err := a.client.client.PutObject(ctx, bucket, key, bytes.NewReader(data), int64(len(data)), opts)
	if err != nil {
		return "", errors.Wrap(err, errors.ErrCodeObjectStoreFailed, "upload failed").WithDetail(key)
	}
	a.logger.Debug("transcript archived",
		logging.String("bucket", bucket),
		logging.String("key", key),
		logging.Int64("size", info.Size),
	)

	uri := fmt.Sprintf("s3://%s/%s", bucket, key)
	expiry := a.client.config.PresignExpiry
	if expiry <= 0 {
		return uri, nil
	}
	u, err := a.client.client.PresignedGetObject(ctx, bucket, key, expiry, nil)
	if err != nil {
		a.logger.Warn("presign failed, returning object uri", logging.String("key", key), logging.Err(err))
		return uri, nil
	}
	return u.String(), nil
}

// Exists reports whether key is present in the bucket.
func (a *TranscriptArchive) Exists(ctx context.Context, key string) (bool, error) {
	_, err := a.client.client.StatObject(ctx, a.client.Bucket(), key, minio.StatObjectOptions{})
	if err == nil {
		return true, nil
	}
	if minio.ToErrorResponse(err).Code == "NoSuchKey" {
		return false, nil
	}
	return false, errors.Wrap(err, errors.ErrCodeObjectStoreFailed, "stat failed").WithDetail(key)
}

//Personal.AI order the ending
