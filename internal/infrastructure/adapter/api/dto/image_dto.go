package dto

import "time"

// SubmitResponse acknowledges an admitted upload-and-process request. The job
// is QUEUED at this point; clients poll the image detail for progress.
type SubmitResponse struct {
	ImageID  string `json:"imageId"`
	JobID    string `json:"jobId"`
	JobType  string `json:"jobType"`
	Priority string `json:"priority"`
	Status   string `json:"status"`
}

// ImageResponse is one image in a listing
type ImageResponse struct {
	ID        string    `json:"id"`
	Label     string    `json:"label"`
	ImageType string    `json:"imageType,omitempty"`
	Note      string    `json:"note,omitempty"`
	CreatedAt time.Time `json:"createdAt"`
}

// ImageListResponse is a page of the user's images, newest first
type ImageListResponse struct {
	Images []ImageResponse `json:"images"`
}

// JobResponse is one processing job in an image detail view
type JobResponse struct {
	ID          string    `json:"id"`
	JobType     string    `json:"jobType"`
	Priority    string    `json:"priority"`
	Status      string    `json:"status"`
	StoragePath string    `json:"storagePath,omitempty"`
	Attempts    int       `json:"attempts"`
	CreatedAt   time.Time `json:"createdAt"`
}

// ImageDetailResponse is one image with its jobs and a fresh signed URL
type ImageDetailResponse struct {
	Image     ImageResponse `json:"image"`
	Jobs      []JobResponse `json:"jobs"`
	SignedURL string        `json:"signedUrl,omitempty"`
}
