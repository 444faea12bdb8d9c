package api

// Envelope is the body of every JSON response.
type Envelope struct {
	IsSuccess     bool   `json:"is_success"`
	OfficialEmail string `json:"official_email"`
	Data          any    `json:"data,omitempty"`
	Error         string `json:"error,omitempty"`

	// Detail carries the cause of an internal failure outside production.
	Detail string `json:"detail,omitempty"`
}

// HealthResponse is the payload for GET /health.
type HealthResponse struct {
	IsSuccess     bool    `json:"is_success"`
	OfficialEmail string  `json:"official_email"`
	Status        string  `json:"status"`
	Timestamp     string  `json:"timestamp"` // RFC3339, millisecond precision
	Uptime        float64 `json:"uptime"`    // seconds since the handler was built
}

// DocsResponse is the payload for GET /.
type DocsResponse struct {
	Name      string            `json:"name"`
	Version   string            `json:"version"`
	Endpoints map[string]string `json:"endpoints"`
}

// Service identity reported by GET /.
const (
	ServiceName    = "Chitkara Qualifier API"
	ServiceVersion = "1.0.0"
)
