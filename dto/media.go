package dto

type AvatarUploadResponse struct {
	AvatarURL   string `json:"avatar_url"`
	ObjectName  string `json:"object_name"`
	ContentType string `json:"content_type"`
	Size        int64  `json:"size"`
}
