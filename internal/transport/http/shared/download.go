package shared

import "encoding/base64"

// FilePayload is how binary exports travel to the client: base64 content
// plus the metadata needed to reconstruct a download.
type FilePayload struct {
	FileName    string `json:"fileName"`
	ContentType string `json:"contentType"`
	Content     string `json:"content"`
	Size        int    `json:"size"`
}

func NewFilePayload(fileName, contentType string, data []byte) FilePayload {
	return FilePayload{
		FileName:    fileName,
		ContentType: contentType,
		Content:     base64.StdEncoding.EncodeToString(data),
		Size:        len(data),
	}
}
