package config

import (
	"fmt"

	"github.com/teemow/assistant/internal/profile"
)

// WorkProfile converts the profile section. Empty bounds take the 09:00-18:00
// defaults; missing work days mean Monday to Friday.
func (c *Config) WorkProfile() (profile.WorkProfile, error) {
	p := profile.Default()
	p.Name = c.Profile.Name
	p.PreferredName = c.Profile.PreferredName
	p.WorkingStyle = c.Profile.WorkingStyle

	var err error
	if c.Profile.WorkHours.Start != "" {
		if p.WorkHours.Start, err = profile.ParseClock(c.Profile.WorkHours.Start); err != nil {
			return profile.WorkProfile{}, fmt.Errorf("profile.work_hours.start: %w", err)
		}
	}
	if c.Profile.WorkHours.End != "" {
		if p.WorkHours.End, err = profile.ParseClock(c.Profile.WorkHours.End); err != nil {
			return profile.WorkProfile{}, fmt.Errorf("profile.work_hours.end: %w", err)
		}
	}
	if len(c.Profile.WorkDays) > 0 {
		p.WorkDays = append([]int(nil), c.Profile.WorkDays...)
	}
	if p.NoScheduleBefore, err = optionalClock(c.Profile.NoScheduleBefore); err != nil {
		return profile.WorkProfile{}, fmt.Errorf("profile.no_schedule_before: %w", err)
	}
	if p.NoScheduleAfter, err = optionalClock(c.Profile.NoScheduleAfter); err != nil {
		return profile.WorkProfile{}, fmt.Errorf("profile.no_schedule_after: %w", err)
	}

	if err := p.Validate(); err != nil {
		return profile.WorkProfile{}, fmt.Errorf("invalid profile: %w", err)
	}
	return p, nil
}

// SetWorkProfile stores p in the profile section.
func (c *Config) SetWorkProfile(p profile.WorkProfile) {
	c.Profile = ProfileConfig{
		Name:          p.Name,
		PreferredName: p.PreferredName,
		WorkingStyle:  p.WorkingStyle,
		WorkHours: WorkHoursConfig{
			Start: p.WorkHours.Start.String(),
			End:   p.WorkHours.End.String(),
		},
		WorkDays: append([]int(nil), p.WorkDays...),
	}
	if p.NoScheduleBefore != nil {
		c.Profile.NoScheduleBefore = p.NoScheduleBefore.String()
	}
	if p.NoScheduleAfter != nil {
		c.Profile.NoScheduleAfter = p.NoScheduleAfter.String()
	}
}

func optionalClock(s string) (*profile.Clock, error) {
	if s == "" {
		return nil, nil
	}
	c, err := profile.ParseClock(s)
	if err != nil {
		return nil, err
	}
	return &c, nil
}

// ProfileStore serves the work profile from a Config.
type ProfileStore struct {
	cfg *Config
}

// NewProfileStore creates a ProfileStore over cfg.
func NewProfileStore(cfg *Config) *ProfileStore {
	return &ProfileStore{cfg: cfg}
}

// Load returns the configured work profile.
func (s *ProfileStore) Load() (profile.WorkProfile, error) {
	return s.cfg.WorkProfile()
}
