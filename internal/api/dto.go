package api

import "github.com/starford/raido/internal/models"

// PostListResponse wraps the public listing of post summaries.
type PostListResponse struct {
	Posts []models.PostSummary `json:"posts"`
}

// AdminPostListResponse wraps the admin listing of full records.
type AdminPostListResponse struct {
	Posts []models.Post `json:"posts"`
}

// EditorResponse is the editor load result. Creating is true for the
// reserved "new" address, in which case Post is null.
type EditorResponse struct {
	Post     *models.Post `json:"post"`
	Creating bool         `json:"creating"`
}

// FieldErrorResponse carries per-field validation messages for a rejected
// create/update submission.
type FieldErrorResponse struct {
	Errors map[string]string `json:"errors"`
}
