package main

import (
	"context"
	"encoding/json"
	"sync"
	"time"

	MQTT "github.com/eclipse/paho.mqtt.golang"

	"github.com/elijahnyp/dancing_birds/birds"
	"github.com/elijahnyp/dancing_birds/state"
	. "github.com/elijahnyp/dancing_birds/util"
)

// StatusPublisher keeps a retained copy of the exhibit status on the broker.
// Documents are sent by Run, so a slow broker never holds up the exhibit.
type StatusPublisher struct {
	client  MQTT.Client
	topic   string
	exhibit *birds.Exhibit

	mu      sync.Mutex
	last    []byte
	pending bool
	wake    chan struct{}
}

func NewStatusPublisher(client MQTT.Client, topic string, exhibit *birds.Exhibit) *StatusPublisher {
	return &StatusPublisher{
		client:  client,
		topic:   topic,
		exhibit: exhibit,
		wake:    make(chan struct{}, 1),
	}
}

func (p *StatusPublisher) document(s state.Status) ([]byte, error) {
	return json.Marshal(NewStatusDocument(s, p.exhibit.DancePhase()))
}

// Publish queues s as the retained status document. Only the newest queued
// document is sent. Registered as an exhibit watcher.
func (p *StatusPublisher) Publish(s state.Status) {
	data, err := p.document(s)
	if err != nil {
		Logger.Error().Msgf("Error marshalling status: %v", err)
		return
	}
	p.mu.Lock()
	p.last = data
	p.pending = true
	p.mu.Unlock()

	select {
	case p.wake <- struct{}{}:
	default:
	}
}

// Run sends queued documents until ctx is done.
func (p *StatusPublisher) Run(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			return
		case <-p.wake:
			p.flush()
		}
	}
}

func (p *StatusPublisher) flush() {
	p.mu.Lock()
	if !p.pending {
		p.mu.Unlock()
		return
	}
	data := p.last
	p.pending = false
	p.mu.Unlock()

	if !p.client.IsConnected() {
		Logger.Debug().Msg("broker not connected, status held for reconnect")
		return
	}
	if err := WaitToken(p.client.Publish(p.topic, 0, true, data)); err != nil {
		Logger.Warn().Msgf("Error publishing status: %v", err)
	}
}

// OnConnect advertises the Home Assistant sensors and republishes the last
// status. Registered as an MQTT connect hook.
func (p *StatusPublisher) OnConnect(client MQTT.Client) {
	if Config.GetBool("ha_discovery") {
		AdvertiseHA(client, p.topic)
	}
	p.mu.Lock()
	data := p.last
	p.mu.Unlock()
	if data == nil {
		var err error
		if data, err = p.document(p.exhibit.Snapshot()); err != nil {
			Logger.Error().Msgf("Error marshalling status: %v", err)
			return
		}
	}
	if err := WaitToken(client.Publish(p.topic, 0, true, data)); err != nil {
		Logger.Warn().Msgf("Error publishing status: %v", err)
	}
}

// OnlinePinger republishes availability and status every interval until ctx
// is done.
func (p *StatusPublisher) OnlinePinger(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if !p.client.IsConnected() {
				continue
			}
			if err := WaitToken(p.client.Publish(OnlineTopic(), 0, true, OnlinePayload)); err != nil {
				Logger.Warn().Msgf("Error publishing availability: %v", err)
			}
			p.Publish(p.exhibit.Snapshot())
		}
	}
}
