package oss

import (
	"bytes"
	"fmt"
	"time"

	"github.com/aliyun/aliyun-oss-go-sdk/oss"

	"github.com/qs3c/water_go_server/config"
)

type Client struct {
	client     *oss.Client
	bucket     *oss.Bucket
	bucketName string
	cdnDomain  string
	signExpire int64
	urlCache   *SignedURLCache
}

func NewClient(cfg *config.OSSConfig) (*Client, error) {
	client, err := oss.New(cfg.Endpoint, cfg.AccessKeyID, cfg.AccessKeySecret)
	if err != nil {
		return nil, fmt.Errorf("failed to create OSS client: %w", err)
	}

	bucket, err := client.Bucket(cfg.BucketName)
	if err != nil {
		return nil, fmt.Errorf("failed to get bucket: %w", err)
	}

	signExpire := cfg.SignExpireSecs
	if signExpire <= 0 {
		signExpire = 3600
	}

	return &Client{
		client:     client,
		bucket:     bucket,
		bucketName: cfg.BucketName,
		cdnDomain:  cfg.CDNDomain,
		signExpire: signExpire,
		urlCache:   NewSignedURLCache(),
	}, nil
}

// UploadProof 上传配送凭证照片，返回 object key
func (c *Client) UploadProof(subscriptionID int64, data []byte, ext string) (string, error) {
	objectKey := fmt.Sprintf("proofs/%d/%d%s", subscriptionID, time.Now().Unix(), ext)

	contentType := getContentType(ext)
	err := c.bucket.PutObject(objectKey, bytes.NewReader(data), oss.ContentType(contentType))
	if err != nil {
		return "", fmt.Errorf("failed to upload proof: %w", err)
	}

	return objectKey, nil
}

// Delete 删除文件
func (c *Client) Delete(objectKey string) error {
	err := c.bucket.DeleteObject(objectKey)
	if err != nil {
		return fmt.Errorf("failed to delete object: %w", err)
	}
	return nil
}

// GetURL 获取文件公开访问 URL
func (c *Client) GetURL(objectKey string) string {
	if c.cdnDomain != "" {
		return fmt.Sprintf("https://%s/%s", c.cdnDomain, objectKey)
	}
	return fmt.Sprintf("https://%s.%s/%s", c.bucketName, c.client.Config.Endpoint, objectKey)
}

// GetSignedURL 获取带签名的临时访问 URL，命中缓存则直接返回。
// 缓存有效期比签名有效期短一分钟，避免返回临期链接。
func (c *Client) GetSignedURL(objectKey string) (string, error) {
	if url, ok := c.urlCache.Get(objectKey); ok {
		return url, nil
	}

	signedURL, err := c.bucket.SignURL(objectKey, oss.HTTPGet, c.signExpire)
	if err != nil {
		return "", fmt.Errorf("failed to generate signed URL: %w", err)
	}

	ttl := time.Duration(c.signExpire)*time.Second - time.Minute
	if ttl > 0 {
		c.urlCache.Set(objectKey, signedURL, ttl)
	}

	return signedURL, nil
}

// SweepURLCache 清理过期缓存条目（定时任务调用）
func (c *Client) SweepURLCache() int {
	return c.urlCache.Sweep(time.Now())
}

// getContentType 根据扩展名获取 Content-Type
func getContentType(ext string) string {
	switch ext {
	case ".jpg", ".jpeg":
		return "image/jpeg"
	case ".png":
		return "image/png"
	case ".webp":
		return "image/webp"
	default:
		return "application/octet-stream"
	}
}
