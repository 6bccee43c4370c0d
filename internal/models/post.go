package models

import "time"

// Post is an authored entry. AuthorID is immutable after creation and
// LikeGiverIDs holds each liker at most once.
type Post struct {
	ID           int64     `json:"id"`
	AuthorID     int64     `json:"authorId"`
	Title        string    `json:"title"`
	Body         string    `json:"body"`
	LikeGiverIDs []int64   `json:"likeGiverIds"`
	CreatedAt    time.Time `json:"createdAt"`
}

// AddPostRequest is the JSON body for POST /api/posts.
type AddPostRequest struct {
	Title string `json:"title" validate:"required"`
	Body  string `json:"body"`
}
