package command

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/pixil98/go-errors"
	"github.com/pixil98/go-lobby/internal/prefs"
	"github.com/pixil98/go-lobby/internal/storage"
	"github.com/pixil98/go-lobby/internal/ux"
)

type StorageConfig struct {
	PreferencesPath string `json:"preferences_path"`
	FlushDebounce   string `json:"flush_debounce"`
}

func (c *StorageConfig) validate() error {
	el := errors.NewErrorList()

	if c.PreferencesPath == "" {
		el.Add(fmt.Errorf("storage.preferences_path is required"))
	} else if _, err := os.Stat(filepath.Dir(c.PreferencesPath)); err != nil {
		el.Add(fmt.Errorf("storage: invalid path %q: %w", c.PreferencesPath, err))
	}
	if c.FlushDebounce != "" {
		_, err := time.ParseDuration(c.FlushDebounce)
		if err != nil {
			el.Add(fmt.Errorf("parsing flush_debounce: %w", err))
		}
	}

	return el.Err()
}

func (c *StorageConfig) buildPreferenceStore() (*prefs.Store, error) {
	var opts []prefs.StoreOpt
	if c.FlushDebounce != "" {
		d, err := time.ParseDuration(c.FlushDebounce)
		if err != nil {
			return nil, fmt.Errorf("parsing flush_debounce: %w", err)
		}
		opts = append(opts, prefs.WithDebounce(d))
	}

	return prefs.NewStore(storage.NewYAMLFile(c.PreferencesPath), ux.EffectNames(), opts...), nil
}
