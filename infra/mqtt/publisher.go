package mqtt

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/solhub/solarsched/core/events"
	"github.com/solhub/solarsched/core/model"
	"github.com/solhub/solarsched/infra/logger"
)

// PlanPublisher pushes optimization results to a home-automation broker.
// Payloads are JSON and retained by default so late subscribers see the
// latest plan.
type PlanPublisher struct {
	cli    pahoClient
	cfg    Config
	logger logger.Logger
}

// NewPlanPublisher connects to the MQTT broker.
func NewPlanPublisher(cfg Config) (*PlanPublisher, error) {
	log := logger.New("mqtt-publisher")
	c := newMQTTClient(NewClientOptions(cfg))
	if token := c.Connect(); token.Wait() && token.Error() != nil {
		return nil, fmt.Errorf("mqtt connect: %w", token.Error())
	}
	return &PlanPublisher{cli: c, cfg: cfg, logger: log}, nil
}

type planPayload struct {
	RunID           string               `json:"run_id"`
	Summary         model.Summary        `json:"summary"`
	Schedule        []model.ScheduleItem `json:"schedule"`
	Recommendations []string             `json:"recommendations,omitempty"`
	Time            time.Time            `json:"time"`
}

// PublishPlan publishes a completed optimization run.
func (p *PlanPublisher) PublishPlan(ev events.PlanEvent) error {
	payload, err := json.Marshal(planPayload{
		RunID:           ev.RunID,
		Summary:         ev.Summary,
		Schedule:        ev.Schedule,
		Recommendations: ev.Recommendations,
		Time:            ev.Time,
	})
	if err != nil {
		return fmt.Errorf("marshal plan: %w", err)
	}
	return p.publish(p.cfg.TopicPrefix+"/plan", payload)
}

// PublishProduction publishes the categorized production forecast.
func (p *PlanPublisher) PublishProduction(runID string, categories []model.CategorizedPoint) error {
	type point struct {
		Timestamp time.Time `json:"timestamp"`
		Category  string    `json:"category"`
	}
	points := make([]point, len(categories))
	for i, c := range categories {
		points[i] = point{Timestamp: c.Timestamp, Category: c.Category.String()}
	}
	payload, err := json.Marshal(struct {
		RunID  string  `json:"run_id"`
		Points []point `json:"points"`
	}{RunID: runID, Points: points})
	if err != nil {
		return fmt.Errorf("marshal production: %w", err)
	}
	return p.publish(p.cfg.TopicPrefix+"/production", payload)
}

func (p *PlanPublisher) publish(topic string, payload []byte) error {
	token := p.cli.Publish(topic, p.cfg.QoS, p.cfg.Retain, payload)
	if !token.WaitTimeout(p.cfg.timeout()) {
		return fmt.Errorf("publish %s: timeout", topic)
	}
	if err := token.Error(); err != nil {
		return fmt.Errorf("publish %s: %w", topic, err)
	}
	p.logger.Debugf("published %s (%d bytes)", topic, len(payload))
	return nil
}

// Close disconnects from the broker.
func (p *PlanPublisher) Close() {
	p.cli.Disconnect(250)
}
