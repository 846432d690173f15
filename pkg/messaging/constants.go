package messaging

const (
	ExchangeName = "hvac.weather"

	RequestRoutingKey  = "observation.request"
	RecordedRoutingKey = "observation.recorded"
	FailedRoutingKey   = "observation.failed"

	RequestQueueName = "observation_requests"
)
