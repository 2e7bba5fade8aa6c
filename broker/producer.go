package broker

import (
	"encoding/json"
	"log"

	"github.com/nats-io/nats.go"
)

var producer *nats.Conn

// InitProducer connects to the NATS server used for change-event fan-out.
// The service runs without event publishing when this fails; callers log
// the error and continue.
func InitProducer(url string) error {
	conn, err := nats.Connect(url)
	if err != nil {
		return err
	}
	producer = conn
	log.Println("NATS producer initialized")
	return nil
}

// PublishEvent publishes the event to the given topic. Publishing is
// best-effort: when the producer is not initialized the event is dropped,
// and failures are logged, never surfaced to the request.
func PublishEvent(topic string, event interface{}) {
	if producer == nil {
		return
	}

	payload, err := json.Marshal(event)
	if err != nil {
		log.Printf("Failed to encode event: %v", err)
		return
	}

	if err := producer.Publish(topic, payload); err != nil {
		log.Printf("Failed to publish message to topic %s: %v", topic, err)
	}
}

func CloseProducer() {
	if producer != nil {
		if err := producer.Drain(); err != nil {
			log.Printf("Failed to drain NATS connection: %v", err)
		}
		producer = nil
	}
}
