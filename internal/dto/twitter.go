package dto

type TwitterSearchResponse struct {
	Data     []TwitterTweet  `json:"data"`
	Includes TwitterIncludes `json:"includes"`
}

type TwitterTweet struct {
	ID        string `json:"id"`
	Text      string `json:"text"`
	AuthorID  string `json:"author_id"`
	CreatedAt string `json:"created_at"`
}

type TwitterIncludes struct {
	Users []TwitterUser `json:"users"`
}

type TwitterUser struct {
	ID       string `json:"id"`
	Name     string `json:"name"`
	Username string `json:"username"`
}
