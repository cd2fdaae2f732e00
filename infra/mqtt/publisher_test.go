package mqtt

import (
	"encoding/json"
	"errors"
	"testing"
	"time"

	paho "github.com/eclipse/paho.mqtt.golang"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/solhub/solarsched/core/events"
	"github.com/solhub/solarsched/core/model"
)

type fakeToken struct {
	err error
}

func (t *fakeToken) Wait() bool                     { return true }
func (t *fakeToken) WaitTimeout(time.Duration) bool { return true }
func (t *fakeToken) Done() <-chan struct{} {
	ch := make(chan struct{})
	close(ch)
	return ch
}
func (t *fakeToken) Error() error { return t.err }

type fakeClient struct {
	published map[string][]byte
	retained  map[string]bool
	pubErr    error
	connected bool
}

func newFakeClient() *fakeClient {
	return &fakeClient{published: map[string][]byte{}, retained: map[string]bool{}}
}

func (c *fakeClient) IsConnected() bool { return c.connected }
func (c *fakeClient) Connect() paho.Token {
	c.connected = true
	return &fakeToken{}
}
func (c *fakeClient) Disconnect(uint) { c.connected = false }
func (c *fakeClient) Publish(topic string, _ byte, retained bool, payload interface{}) paho.Token {
	if c.pubErr != nil {
		return &fakeToken{err: c.pubErr}
	}
	c.published[topic] = payload.([]byte)
	c.retained[topic] = retained
	return &fakeToken{}
}

func newTestPublisher(t *testing.T, cli *fakeClient) *PlanPublisher {
	t.Helper()
	orig := newMQTTClient
	newMQTTClient = func(*paho.ClientOptions) pahoClient { return cli }
	t.Cleanup(func() { newMQTTClient = orig })

	cfg := Config{Enabled: true, Broker: "tcp://localhost:1883", Retain: true}
	cfg.SetDefaults()
	pub, err := NewPlanPublisher(cfg)
	require.NoError(t, err)
	return pub
}

func TestPublishPlan(t *testing.T) {
	cli := newFakeClient()
	pub := newTestPublisher(t, cli)

	ev := events.PlanEvent{
		RunID:   "run-1",
		Summary: model.Summary{TotalEnergy: 4, SolarPercentage: 50, ScheduledAppliances: 1},
		Schedule: []model.ScheduleItem{{
			Appliance: model.Appliance{Name: "Washer", PowerRating: 1, Duration: 2},
		}},
		Time: time.Now(),
	}
	require.NoError(t, pub.PublishPlan(ev))

	payload, ok := cli.published["solarsched/plan"]
	require.True(t, ok, "plan topic not published")
	assert.True(t, cli.retained["solarsched/plan"])

	var got planPayload
	require.NoError(t, json.Unmarshal(payload, &got))
	assert.Equal(t, "run-1", got.RunID)
	assert.Len(t, got.Schedule, 1)
}

func TestPublishProduction(t *testing.T) {
	cli := newFakeClient()
	pub := newTestPublisher(t, cli)

	now := time.Now()
	cats := []model.CategorizedPoint{
		{Timestamp: now, Category: model.CategoryGreen},
		{Timestamp: now.Add(time.Hour), Category: model.CategoryRed},
	}
	require.NoError(t, pub.PublishProduction("run-2", cats))

	payload, ok := cli.published["solarsched/production"]
	require.True(t, ok, "production topic not published")
	assert.Contains(t, string(payload), `"green"`)
	assert.Contains(t, string(payload), `"red"`)
}

func TestPublishError(t *testing.T) {
	cli := newFakeClient()
	cli.pubErr = errors.New("broker gone")
	pub := newTestPublisher(t, cli)

	err := pub.PublishPlan(events.PlanEvent{RunID: "run-3"})
	require.Error(t, err)
}

func TestConfigValidate(t *testing.T) {
	cfg := Config{Enabled: true}
	require.Error(t, cfg.Validate())
	cfg.Broker = "tcp://localhost:1883"
	require.NoError(t, cfg.Validate())
	require.NoError(t, Config{}.Validate())
}

func TestClose(t *testing.T) {
	cli := newFakeClient()
	pub := newTestPublisher(t, cli)
	require.True(t, cli.connected)
	pub.Close()
	require.False(t, cli.connected)
}
