// -----------------------------------------------------------------------
// Web Push Service - VAPID credentials, browser subscription storage
// and push delivery. One explicitly constructed instance is shared by
// the watcher pipeline and the subscription API.
// -----------------------------------------------------------------------

package webpush

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	webpush "github.com/SherClockHolmes/webpush-go"
	"github.com/ternarybob/arbor"

	"github.com/ternarybob/callwatch/internal/common"
	"github.com/ternarybob/callwatch/internal/models"
)

const pushTTL = 60

// keyFile is the persisted VAPID keypair
type keyFile struct {
	Vapid struct {
		PublicKey  string `json:"publicKey"`
		PrivateKey string `json:"privateKey"`
	} `json:"vapid"`
}

// Service owns the VAPID keypair and the subscription list. The key
// file is loaded once at construction; a missing file generates a new
// keypair and persists it. Subscription reads and writes run under a
// single mutex because the watcher and the API mutate the same file.
type Service struct {
	keyPath    string
	subsPath   string
	contact    string
	publicKey  string
	privateKey string
	mu         sync.Mutex
	logger     arbor.ILogger
}

// NewService loads or generates the VAPID keypair and returns a ready
// service.
func NewService(config *common.WebPushConfig, logger arbor.ILogger) (*Service, error) {
	s := &Service{
		keyPath:  config.KeyPath,
		subsPath: config.SubscriptionsPath,
		contact:  config.Contact,
		logger:   logger,
	}

	if err := s.loadOrGenerateKeys(); err != nil {
		return nil, err
	}

	return s, nil
}

func (s *Service) loadOrGenerateKeys() error {
	if _, err := os.Stat(s.keyPath); os.IsNotExist(err) {
		privateKey, publicKey, err := webpush.GenerateVAPIDKeys()
		if err != nil {
			return fmt.Errorf("failed to generate VAPID keys: %w", err)
		}

		var kf keyFile
		kf.Vapid.PublicKey = publicKey
		kf.Vapid.PrivateKey = privateKey

		data, err := json.MarshalIndent(kf, "", "  ")
		if err != nil {
			return fmt.Errorf("failed to encode VAPID keys: %w", err)
		}
		if dir := filepath.Dir(s.keyPath); dir != "." {
			if err := os.MkdirAll(dir, 0755); err != nil {
				return fmt.Errorf("failed to create key directory: %w", err)
			}
		}
		if err := os.WriteFile(s.keyPath, data, 0600); err != nil {
			return fmt.Errorf("failed to write VAPID keys: %w", err)
		}

		s.logger.Info().Str("path", s.keyPath).Msg("Generated new VAPID keypair")
	}

	data, err := os.ReadFile(s.keyPath)
	if err != nil {
		return fmt.Errorf("failed to read VAPID keys: %w", err)
	}

	var kf keyFile
	if err := json.Unmarshal(data, &kf); err != nil {
		return fmt.Errorf("failed to parse VAPID keys: %w", err)
	}

	s.publicKey = kf.Vapid.PublicKey
	s.privateKey = kf.Vapid.PrivateKey
	return nil
}

// PublicKey returns the base64 VAPID public key handed to browsers
func (s *Service) PublicKey() string {
	return s.publicKey
}

// Upsert stores a subscription, replacing any record with the same
// (destination name, endpoint) pair so repeat subscribes refresh the
// key material instead of duplicating the record.
func (s *Service) Upsert(sub models.Subscription) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	subs, err := s.loadSubscriptions()
	if err != nil {
		return err
	}

	kept := subs[:0]
	for _, existing := range subs {
		if existing.DestinationName == sub.DestinationName && existing.Endpoint == sub.Endpoint {
			continue
		}
		kept = append(kept, existing)
	}
	kept = append(kept, sub)

	return s.saveSubscriptions(kept)
}

// Remove deletes the subscription with the given endpoint. Endpoints
// are browser-unique, so destination name is not part of the key here.
func (s *Service) Remove(endpoint string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	subs, err := s.loadSubscriptions()
	if err != nil {
		return false, err
	}

	found := false
	kept := subs[:0]
	for _, existing := range subs {
		if !found && existing.Endpoint == endpoint {
			found = true
			continue
		}
		kept = append(kept, existing)
	}
	if !found {
		return false, nil
	}

	return true, s.saveSubscriptions(kept)
}

// Subscriptions returns the subscriptions registered for a destination
func (s *Service) Subscriptions(destinationName string) ([]models.Subscription, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	subs, err := s.loadSubscriptions()
	if err != nil {
		return nil, err
	}

	var matched []models.Subscription
	for _, sub := range subs {
		if sub.DestinationName == destinationName {
			matched = append(matched, sub)
		}
	}
	return matched, nil
}

// Send delivers a payload to one subscription and returns the push
// service's status code. 201 Created is the expected success.
func (s *Service) Send(sub models.Subscription, payload []byte) (int, error) {
	resp, err := webpush.SendNotification(payload, &webpush.Subscription{
		Endpoint: sub.Endpoint,
		Keys: webpush.Keys{
			P256dh: sub.Keys.P256dh,
			Auth:   sub.Keys.Auth,
		},
	}, &webpush.Options{
		Subscriber:      "mailto:" + s.contact,
		VAPIDPublicKey:  s.publicKey,
		VAPIDPrivateKey: s.privateKey,
		TTL:             pushTTL,
	})
	if err != nil {
		return 0, fmt.Errorf("failed to send push: %w", err)
	}
	defer resp.Body.Close()

	return resp.StatusCode, nil
}

// Broadcast delivers a title/body notification to every subscription
// for the destination, concurrently. Delivery order is not meaningful
// across independent browsers. Failed or non-201 deliveries are logged
// and do not fail the broadcast; stale subscriptions are not pruned
// here.
func (s *Service) Broadcast(destinationName, title, body string) error {
	subs, err := s.Subscriptions(destinationName)
	if err != nil {
		return err
	}
	if len(subs) == 0 {
		return nil
	}

	payload, err := json.Marshal(map[string]string{
		"title": title,
		"body":  body,
	})
	if err != nil {
		return fmt.Errorf("failed to encode push payload: %w", err)
	}

	var wg sync.WaitGroup
	for _, sub := range subs {
		wg.Add(1)
		go func(sub models.Subscription) {
			defer wg.Done()
			status, err := s.Send(sub, payload)
			if err != nil {
				s.logger.Warn().
					Err(err).
					Str("destination", destinationName).
					Str("endpoint", sub.Endpoint).
					Msg("Push delivery failed")
				return
			}
			if status != 201 {
				s.logger.Warn().
					Int("status", status).
					Str("destination", destinationName).
					Str("endpoint", sub.Endpoint).
					Msg("Push delivery returned unexpected status")
			}
		}(sub)
	}
	wg.Wait()

	return nil
}

func (s *Service) loadSubscriptions() ([]models.Subscription, error) {
	data, err := os.ReadFile(s.subsPath)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to read subscriptions: %w", err)
	}

	var subs []models.Subscription
	if err := json.Unmarshal(data, &subs); err != nil {
		return nil, fmt.Errorf("failed to parse subscriptions: %w", err)
	}
	return subs, nil
}

func (s *Service) saveSubscriptions(subs []models.Subscription) error {
	if subs == nil {
		subs = []models.Subscription{}
	}
	data, err := json.MarshalIndent(subs, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode subscriptions: %w", err)
	}
	if dir := filepath.Dir(s.subsPath); dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("failed to create subscriptions directory: %w", err)
		}
	}
	if err := os.WriteFile(s.subsPath, data, 0644); err != nil {
		return fmt.Errorf("failed to write subscriptions: %w", err)
	}
	return nil
}
