package config

import "os"

// ObjectStoreConfig describes the S3-compatible bucket where uploaded
// media (video files, thumbnails, avatars, cover images) is stored.
// Endpoint may point at a non-AWS service such as MinIO; when set, the
// client uses path-style addressing against it. PublicBaseURL is the
// prefix under which stored objects are reachable by clients.
type ObjectStoreConfig struct {
	Region        string
	Bucket        string
	Endpoint      string
	PublicBaseURL string
}

// LoadObjectStoreConfig reads the object store settings. The bucket is
// required; the media store constructor rejects an empty one.
func LoadObjectStoreConfig() ObjectStoreConfig {
	return ObjectStoreConfig{
		Region:        getenv("MEDIA_S3_REGION", "us-east-1"),
		Bucket:        os.Getenv("MEDIA_S3_BUCKET"),
		Endpoint:      os.Getenv("MEDIA_S3_ENDPOINT"),
		PublicBaseURL: os.Getenv("MEDIA_PUBLIC_BASE_URL"),
	}
}
