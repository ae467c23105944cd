package news

// SearchResult is one news search hit
type SearchResult struct {
	Title string `json:"title"`
	Link  string `json:"link"`
	Date  string `json:"date"`
}

// searchResponse is the search provider response, reduced to what we read
type searchResponse struct {
	NewsResults []SearchResult `json:"news_results"`
}
