package metadata

// VideoMetadata is the resolved description of a video.
type VideoMetadata struct {
	VideoID         string `json:"videoId"`
	Title           string `json:"title"`
	ThumbnailURL    string `json:"thumbnailUrl"`
	Duration        string `json:"videoDuration,omitempty"`
	DurationSeconds int    `json:"durationSeconds,omitempty"`
}

// FetchMetadataRequest represents a metadata resolution request.
type FetchMetadataRequest struct {
	URL string `json:"url"`
}

// FetchMetadataResponse represents a metadata resolution response.
type FetchMetadataResponse struct {
	Metadata VideoMetadata `json:"metadata"`
}
