package api

// ServerConfig holds the HTTP server configuration.
type ServerConfig struct {
	Bind string
	Port int
}

// APIResponse is the envelope of every JSON response.
type APIResponse struct {
	Success bool   `json:"success"`
	Data    any    `json:"data,omitempty"`
	Error   string `json:"error,omitempty"`
}

// RecordsResponse carries lookup results.
type RecordsResponse struct {
	Key     string  `json:"key"`
	Count   int     `json:"count"`
	Records [][]any `json:"records"`
}

// StatsResponse summarizes the served index file.
type StatsResponse struct {
	Path    string `json:"path"`
	Records int    `json:"records"`
	Size    int64  `json:"size_bytes"`
	Stride  int    `json:"stride_bytes"`
	Widths  []int  `json:"field_widths"`
}
