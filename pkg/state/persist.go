package state

import (
	"encoding/json"

	"github.com/contractflow/dashboard/internal/errors"
	"github.com/contractflow/dashboard/pkg/model"
)

// decoders restore persisted slices to their typed form.
var decoders = map[string]func(json.RawMessage) (any, error){
	KeyCurrentUser: func(raw json.RawMessage) (any, error) {
		var u *model.User
		if err := json.Unmarshal(raw, &u); err != nil || u == nil {
			return nil, err
		}
		return u, nil
	},
	KeyDarkMode: func(raw json.RawMessage) (any, error) {
		var b bool
		err := json.Unmarshal(raw, &b)
		return b, err
	},
	KeyUserPreferences: func(raw json.RawMessage) (any, error) {
		prefs := model.DefaultPreferences()
		err := json.Unmarshal(raw, &prefs)
		return prefs, err
	},
}

// load merges the persisted record into the store. Failures are logged and
// leave the defaults in place.
func (s *Store) load() {
	if s.storage == nil {
		return
	}
	ctx, cancel := s.storageContext()
	defer cancel()

	raw, ok, err := s.storage.GetItem(ctx, StorageKey)
	if err != nil {
		s.logger.Error("load persisted state", "error", errors.New("E200").Wrap(err))
		return
	}
	if !ok || raw == "" {
		return
	}

	var record map[string]json.RawMessage
	if err := json.Unmarshal([]byte(raw), &record); err != nil {
		s.logger.Error("load persisted state", "error", errors.New("E150").Wrap(err))
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	for _, key := range PersistedKeys {
		field, ok := record[key]
		if !ok {
			continue
		}
		v, err := decoders[key](field)
		if err != nil {
			s.logger.Warn("discarding persisted slice", "key", key, "error", errors.New("E150").Wrap(err))
			continue
		}
		if v != nil {
			s.slices[key] = v
		}
	}
}

// persistLocked writes every persisted slice as one record.
func (s *Store) persistLocked() {
	if s.storage == nil {
		return
	}

	record := make(map[string]any, len(PersistedKeys))
	for _, key := range PersistedKeys {
		if v := s.slices[key]; v != nil {
			record[key] = v
		}
	}
	data, err := json.Marshal(record)
	if err != nil {
		s.logger.Error("encode persisted state", "error", errors.New("E201").Wrap(err))
		return
	}

	ctx, cancel := s.storageContext()
	defer cancel()
	if err := s.storage.SetItem(ctx, StorageKey, string(data)); err != nil {
		s.logger.Error("persist state", "error", errors.New("E201").Wrap(err))
	}
}
