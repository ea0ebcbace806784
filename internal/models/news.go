package models

import "time"

// NewsItem представляет новость для участников программы.
// Контент доступен только для чтения, наружу отдаются только
// опубликованные записи.
type NewsItem struct {
	ID          int       `json:"id"`
	Title       string    `json:"title"`
	Content     string    `json:"content"`
	ImageURL    string    `json:"image_url,omitempty"`
	IsPublished bool      `json:"is_published"`
	PublishedAt time.Time `json:"published_at"`
}
