package telemetry

// Config holds OTEL exporter configuration.
type Config struct {
	Enabled     bool
	Endpoint    string
	Insecure    bool
	ServiceName string
}
