package api

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"reflect"
	"sort"
	"strings"
	"time"

	"github.com/hashicorp/golang-lru/v2/expirable"
	"github.com/rpupo63/portfolio-showcase-backend/database"
	"github.com/rpupo63/portfolio-showcase-backend/errs"
	"github.com/rpupo63/portfolio-showcase-backend/models"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"gorm.io/datatypes"
)

const settingsCacheKey = "site"

// settingsCache keeps the singleton settings row for a few seconds so the maintenance
// gate does not query on every request. Writes go through it and refresh it.
type settingsCache struct {
	repo  *database.SiteSettingsRepo
	cache *expirable.LRU[string, *models.SiteSettings]
}

func newSettingsCache(repo *database.SiteSettingsRepo, ttl time.Duration) *settingsCache {
	return &settingsCache{
		repo:  repo,
		cache: expirable.NewLRU[string, *models.SiteSettings](1, nil, ttl),
	}
}

func (c *settingsCache) get(ctx context.Context) (*models.SiteSettings, error) {
	if settings, ok := c.cache.Get(settingsCacheKey); ok {
		return settings, nil
	}
	settings, err := c.repo.Get(ctx)
	if err != nil {
		return nil, err
	}
	c.cache.Add(settingsCacheKey, settings)
	return settings, nil
}

func (c *settingsCache) update(ctx context.Context, fields map[string]any) (*models.SiteSettings, error) {
	settings, err := c.repo.Update(ctx, fields)
	if err != nil {
		c.cache.Remove(settingsCacheKey)
		return nil, err
	}
	c.cache.Add(settingsCacheKey, settings)
	return settings, nil
}

type settingKind int

const (
	textSetting settingKind = iota
	listSetting
	flagSetting
)

// editableSettings maps every JSON name of SiteSettings except the id and timestamps to
// how its value is decoded.
var editableSettings = func() map[string]settingKind {
	kinds := map[string]settingKind{}
	t := reflect.TypeOf(models.SiteSettings{})
	for i := 0; i < t.NumField(); i++ {
		f := t.Field(i)
		name, _, _ := strings.Cut(f.Tag.Get("json"), ",")
		switch name {
		case "", "-", "id", "created_at", "updated_at":
			continue
		}
		switch f.Type.Kind() {
		case reflect.Bool:
			kinds[name] = flagSetting
		case reflect.Slice:
			kinds[name] = listSetting
		default:
			kinds[name] = textSetting
		}
	}
	return kinds
}()

// settingsFields turns a JSON patch into column updates, rejecting unknown keys and
// values of the wrong type. Text settings accept null or "" to clear them.
func settingsFields(patch map[string]json.RawMessage) (map[string]any, error) {
	keys := make([]string, 0, len(patch))
	for key := range patch {
		keys = append(keys, key)
	}
	sort.Strings(keys)

	fields := make(map[string]any, len(patch))
	for _, key := range keys {
		raw := patch[key]
		kind, ok := editableSettings[key]
		if !ok {
			return nil, errs.NewInvalidFieldError(key, "not an editable setting")
		}

		switch kind {
		case flagSetting:
			var b bool
			if err := json.Unmarshal(raw, &b); err != nil {
				return nil, errs.NewInvalidFieldError(key, "must be a boolean")
			}
			fields[key] = b
		case listSetting:
			var items []string
			if err := json.Unmarshal(raw, &items); err != nil {
				return nil, errs.NewInvalidFieldError(key, "must be a list of strings")
			}
			fields[key] = datatypes.JSONSlice[string](models.NormalizeTechStack(items))
		default:
			var s *string
			if err := json.Unmarshal(raw, &s); err != nil {
				return nil, errs.NewInvalidFieldError(key, "must be a string or null")
			}
			if s != nil && len(*s) > 5000 {
				return nil, errs.NewInvalidFieldError(key, fmt.Sprintf("must be at most %d characters", 5000))
			}
			if s == nil {
				fields[key] = (*string)(nil)
			} else {
				fields[key] = nullable(*s)
			}
		}
	}
	return fields, nil
}

type settingsHandler struct {
	responder Responder
	logger    zerolog.Logger
	settings  *settingsCache
}

func newSettingsHandler(settings *settingsCache) settingsHandler {
	logger := log.With().Str("handlerName", "settingsHandler").Logger()
	return settingsHandler{
		responder: NewResponder(logger),
		logger:    logger,
		settings:  settings,
	}
}

// getPublicSettings returns the site copy and branding shown on every page
// @Summary Site settings
// @Tags Site
// @Produce json
// @Success 200 {object} models.SiteSettings
// @Router /site [get]
func (h settingsHandler) getPublicSettings() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		settings, err := h.settings.get(r.Context())
		if err != nil {
			h.responder.WriteError(w, wrapDatabaseError("find", "site settings", err))
			return
		}
		h.responder.WriteJSON(w, settings)
	}
}

func (h settingsHandler) getSettings() http.HandlerFunc {
	return h.getPublicSettings()
}

// updateSettings applies a partial settings update
// @Summary Update site settings
// @Tags Admin
// @Accept json
// @Produce json
// @Success 200 {object} models.SiteSettings
// @Failure 400 {object} ErrorResponse "Unknown key or wrong type"
// @Router /admin/settings [patch]
func (h settingsHandler) updateSettings() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var patch map[string]json.RawMessage
		if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes)).Decode(&patch); err != nil {
			h.responder.WriteError(w, errs.NewMalformedPayloadError("settings", err))
			return
		}

		fields, err := settingsFields(patch)
		if err != nil {
			h.responder.WriteError(w, err)
			return
		}

		settings, err := h.settings.update(r.Context(), fields)
		if err != nil {
			h.responder.WriteError(w, wrapDatabaseError("update", "site settings", err))
			return
		}
		if _, ok := fields["maintenance_mode"]; ok {
			h.logger.Info().Bool("maintenanceMode", settings.MaintenanceMode).Msg("maintenance mode changed")
		}
		h.responder.WriteJSON(w, settings)
	}
}
