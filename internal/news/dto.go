// AngelaMos | 2026
// dto.go

package news

import "time"

const maxListLimit = 100

type CreateNewsRequest struct {
	Title string  `json:"title" validate:"required,min=1,max=200"`
	Body  string  `json:"body"  validate:"required,min=1,max=10000"`
	Image *string `json:"image" validate:"omitempty,max=5000000"`
}

type UpdateNewsRequest struct {
	Title *string `json:"title,omitempty" validate:"omitempty,min=1,max=200"`
	Body  *string `json:"body,omitempty"  validate:"omitempty,min=1,max=10000"`
	Image *string `json:"image,omitempty" validate:"omitempty,max=5000000"`
}

type NewsResponse struct {
	ID          string    `json:"id"`
	Title       string    `json:"title"`
	Body        string    `json:"body"`
	Image       *string   `json:"image"`
	PublishDate time.Time `json:"publish_date"`
	CreatedBy   string    `json:"created_by"`
	CreatedAt   time.Time `json:"created_at"`
}

type MessageResponse struct {
	Message string `json:"message"`
}

func ToNewsResponse(n *News) NewsResponse {
	return NewsResponse{
		ID:          n.ID,
		Title:       n.Title,
		Body:        n.Body,
		Image:       n.Image,
		PublishDate: n.PublishDate.UTC(),
		CreatedBy:   n.CreatedBy,
		CreatedAt:   n.CreatedAt.UTC(),
	}
}

func ToNewsResponseList(items []News) []NewsResponse {
	responses := make([]NewsResponse, 0, len(items))
	for i := range items {
		responses = append(responses, ToNewsResponse(&items[i]))
	}
	return responses
}
