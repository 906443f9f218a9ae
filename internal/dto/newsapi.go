package dto

type NewsAPIResponse struct {
	Status   string           `json:"status"`
	Articles []NewsAPIArticle `json:"articles"`
}

type NewsAPIArticle struct {
	Source      NewsAPISource `json:"source"`
	Author      *string       `json:"author"`
	Title       string        `json:"title"`
	Description string        `json:"description"`
	Content     string        `json:"content"`
	URL         string        `json:"url"`
	PublishedAt string        `json:"publishedAt"`
}

type NewsAPISource struct {
	Name string `json:"name"`
}
