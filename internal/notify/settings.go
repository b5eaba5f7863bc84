package notify

import (
	"context"
	"maps"
	"slices"
	"sort"
	"sync"

	"github.com/dwikikusuma/digimall/pkg/apperr"
)

type Channel string

const (
	ChannelInApp Channel = "in_app"
	ChannelSMS   Channel = "sms"
	ChannelEmail Channel = "email"
	ChannelPush  Channel = "push"
)

var channels = []Channel{ChannelInApp, ChannelSMS, ChannelEmail, ChannelPush}

func (c Channel) Valid() bool { return slices.Contains(channels, c) }

// defaultChannels lists where each event type goes when the user has not
// opted out.
func defaultChannels(typ EventType) []Channel {
	switch typ {
	case CouponReceived:
		return []Channel{ChannelInApp}
	case RefundRequested, RefundSuccess:
		return []Channel{ChannelInApp, ChannelSMS, ChannelEmail}
	}
	return []Channel{ChannelInApp, ChannelSMS}
}

// Settings maps every channel to whether the user accepts it.
type Settings map[Channel]bool

func (s Settings) Enabled(c Channel) bool {
	on, ok := s[c]
	return !ok || on
}

func defaultSettings() Settings {
	out := make(Settings, len(channels))
	for _, c := range channels {
		out[c] = true
	}
	return out
}

// SettingsStore keeps per-user channel preferences in memory. Users with no
// stored preferences get every channel.
type SettingsStore struct {
	mu     sync.RWMutex
	byUser map[string]Settings
}

func NewSettingsStore() *SettingsStore {
	return &SettingsStore{byUser: make(map[string]Settings)}
}

func (s *SettingsStore) Get(_ context.Context, userID string) Settings {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if cur, ok := s.byUser[userID]; ok {
		return maps.Clone(cur)
	}
	return defaultSettings()
}

// Update merges patch into the user's settings. Unknown channels are
// rejected and nothing is stored.
func (s *SettingsStore) Update(_ context.Context, userID string, patch map[string]bool) (Settings, error) {
	var v apperr.Validator
	v.Required(userID, "user_id")
	v.Check(len(patch) > 0, "channels", "at least one channel is required")
	keys := slices.Collect(maps.Keys(patch))
	sort.Strings(keys)
	for _, k := range keys {
		v.Check(Channel(k).Valid(), "channels."+k, "is not a known channel")
	}
	if err := v.Err(); err != nil {
		return nil, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	cur, ok := s.byUser[userID]
	if !ok {
		cur = defaultSettings()
	}
	for k, on := range patch {
		cur[Channel(k)] = on
	}
	s.byUser[userID] = cur
	return maps.Clone(cur), nil
}

// filter keeps the channels the user accepts, preserving order.
func (s Settings) filter(in []Channel) []Channel {
	out := make([]Channel, 0, len(in))
	for _, c := range in {
		if s.Enabled(c) {
			out = append(out, c)
		}
	}
	return out
}
