package domain

import (
	"strings"
	"time"
)

// UserProfile is the identity-scoped profile document.
type UserProfile struct {
	UID         string              `json:"uid"`
	DisplayName string              `json:"display_name"`
	AvatarURL   string              `json:"avatar_url"`
	Handles     map[Platform]string `json:"handles"`
	CreatedAt   time.Time           `json:"created_at"`
	UpdatedAt   time.Time           `json:"updated_at"`
}

// LinkedHandles returns the present handles in canonical platform order.
// Blank handles count as "not linked".
func (p *UserProfile) LinkedHandles() []PlatformHandle {
	if p == nil {
		return []PlatformHandle{}
	}
	handles := make([]PlatformHandle, 0, len(CanonicalPlatforms))
	for _, platform := range CanonicalPlatforms {
		username := strings.TrimSpace(p.Handles[platform])
		if username == "" {
			continue
		}
		handles = append(handles, PlatformHandle{Platform: platform, Username: username})
	}
	return handles
}

// ProfileUpdate carries the user-editable fields. Nil means "leave as is";
// a handle set to "" unlinks that platform.
type ProfileUpdate struct {
	DisplayName *string
	AvatarURL   *string
	Handles     map[Platform]*string
}

// Apply merges the update into the profile and normalizes handles.
func (u ProfileUpdate) Apply(p *UserProfile) {
	if u.DisplayName != nil {
		p.DisplayName = strings.TrimSpace(*u.DisplayName)
	}
	if u.AvatarURL != nil {
		p.AvatarURL = strings.TrimSpace(*u.AvatarURL)
	}
	if p.Handles == nil {
		p.Handles = make(map[Platform]string)
	}
	for platform, handle := range u.Handles {
		if handle == nil {
			continue
		}
		trimmed := strings.TrimSpace(*handle)
		if trimmed == "" {
			delete(p.Handles, platform)
			continue
		}
		p.Handles[platform] = trimmed
	}
}

// CleanHandles drops blank entries so absence is the only "unlinked" state.
func CleanHandles(handles map[Platform]string) map[Platform]string {
	cleaned := make(map[Platform]string, len(handles))
	for platform, handle := range handles {
		if trimmed := strings.TrimSpace(handle); trimmed != "" {
			cleaned[platform] = trimmed
		}
	}
	return cleaned
}
