package scheduling

import (
	"context"
	"fmt"

	"github.com/teemow/assistant/internal/logging"
	"github.com/teemow/assistant/internal/preferences"
	"github.com/teemow/assistant/internal/profile"
)

// MatchPreferences resolves the preferences for a title and description.
func (s *Service) MatchPreferences(title, description string) (preferences.Resolved, error) {
	doc, err := s.prefs.Load()
	if err != nil {
		return preferences.Resolved{}, fmt.Errorf("failed to load preferences: %w", err)
	}
	return doc.Match(title, description), nil
}

// UpdatePreference upserts the rule owning keyword and saves the whole
// document. created is true when a new rule was appended.
func (s *Service) UpdatePreference(ctx context.Context, keyword string, u preferences.Update) (preferences.Rule, bool, error) {
	doc, err := s.prefs.Load()
	if err != nil {
		return preferences.Rule{}, false, fmt.Errorf("failed to load preferences: %w", err)
	}
	rule, created, err := doc.Upsert(keyword, u)
	if err != nil {
		s.record(ctx, "update_prefs", err)
		return preferences.Rule{}, false, err
	}
	if err := s.prefs.Save(doc); err != nil {
		s.record(ctx, "update_prefs", err)
		return preferences.Rule{}, false, fmt.Errorf("failed to save preferences: %w", err)
	}
	s.record(ctx, "update_prefs", nil)
	s.logger.Info("preference saved", logging.Operation("preferences.update"), "keyword", keyword, "created", created)
	return rule, created, nil
}

// Preferences returns the saved preference document.
func (s *Service) Preferences() (preferences.Document, error) {
	if s.prefs == nil {
		return preferences.NewDocument(), nil
	}
	doc, err := s.prefs.Load()
	if err != nil {
		return preferences.Document{}, fmt.Errorf("failed to load preferences: %w", err)
	}
	return doc, nil
}

// Profile returns the work profile used for boundary checks and free slots.
func (s *Service) Profile() (profile.WorkProfile, error) {
	if s.profiles == nil {
		return profile.Default(), nil
	}
	p, err := s.profiles.Load()
	if err != nil {
		return profile.WorkProfile{}, fmt.Errorf("failed to load profile: %w", err)
	}
	return p, nil
}
