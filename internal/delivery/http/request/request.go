package request

// CloneRequest is the body of POST /clone.
type CloneRequest struct {
	URL   string `json:"url"`
	Force bool   `json:"force"` // skip the result cache
}
