package remote

// Envelope types understood by the WebSocket feed. A reply carries the same
// type as its request, or TypeError.
const (
	TypeListObjects    = "list_objects"
	TypeDescribeObject = "describe_object"
	TypeServerInfo     = "server_info"
	TypeWorldBounds    = "world_bounds"
	TypeError          = "error"
)

// HTTP paths, relative to the configured endpoint.
const (
	PathObjects = "objects"
	PathObject  = "object"
	PathInfo    = "info"
	PathWorld   = "world"
)

type ErrorMessage struct {
	Message string `json:"message"`
}
