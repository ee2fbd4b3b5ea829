package minio

import (
	"bytes"
	"context"
	"io"

	"github.com/DRSN-tech/cocktail-search/internal/cfg"
	"github.com/DRSN-tech/cocktail-search/pkg/e"
	"github.com/jimlawless/whereami"
	"github.com/minio/minio-go/v7"
)

const snapshotContentType = "application/json"

// ObjectRepo читает и публикует объект снапшота в MinIO.
type ObjectRepo struct {
	mc  *minio.Client
	cfg *cfg.MinIOCfg
}

func NewObjectRepo(mc *minio.Client, cfg *cfg.MinIOCfg) *ObjectRepo {
	return &ObjectRepo{
		mc:  mc,
		cfg: cfg,
	}
}

// Stat возвращает ETag объекта снапшота.
func (o *ObjectRepo) Stat(ctx context.Context) (string, error) {
	info, err := o.mc.StatObject(ctx, o.cfg.BucketName, o.cfg.SnapshotKey, minio.StatObjectOptions{})
	if err != nil {
		return "", e.Wrap(whereami.WhereAmI(), err)
	}

	return info.ETag, nil
}

// Fetch скачивает объект снапшота целиком вместе с его ETag.
func (o *ObjectRepo) Fetch(ctx context.Context) ([]byte, string, error) {
	obj, err := o.mc.GetObject(ctx, o.cfg.BucketName, o.cfg.SnapshotKey, minio.GetObjectOptions{})
	if err != nil {
		return nil, "", e.Wrap(whereami.WhereAmI(), err)
	}
	defer obj.Close()

	info, err := obj.Stat()
	if err != nil {
		return nil, "", e.Wrap(whereami.WhereAmI(), err)
	}

	data, err := io.ReadAll(obj)
	if err != nil {
		return nil, "", e.Wrap(whereami.WhereAmI(), err)
	}

	return data, info.ETag, nil
}

// Upload публикует новый снапшот и возвращает ключ объекта.
func (o *ObjectRepo) Upload(ctx context.Context, data []byte) (string, error) {
	info, err := o.mc.PutObject(ctx, o.cfg.BucketName, o.cfg.SnapshotKey, bytes.NewReader(data), int64(len(data)), minio.PutObjectOptions{
		ContentType: snapshotContentType,
	})
	if err != nil {
		return "", e.Wrap(whereami.WhereAmI(), err)
	}

	return info.Key, nil
}
