package uploads

import "time"

// PresignRequest describes the file a client wants to upload.
type PresignRequest struct {
	FileName    string `json:"fileName" binding:"required,min=1,max=200"`
	ContentType string `json:"contentType" binding:"required"`
	SizeBytes   int64  `json:"sizeBytes" binding:"required,gt=0"`
}

// PresignResponse carries the upload URL and the key the client should store.
type PresignResponse struct {
	URL       string    `json:"url"`
	FileKey   string    `json:"fileKey"`
	ExpiresAt time.Time `json:"expiresAt"`
}
