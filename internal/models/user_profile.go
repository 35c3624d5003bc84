// ABOUTME: UserProfile represents the singleton user context and preferences
// ABOUTME: Projects to an Item so the profile is searchable like a note
package models

import (
	"time"
)

// ProfileItemID is the fixed item ID of the singleton profile
const ProfileItemID = "profile"

// UserProfile represents user context and preferences
type UserProfile struct {
	Name             string    `json:"name"`
	Bio              string    `json:"bio,omitempty"`
	Location         string    `json:"location,omitempty"`
	Occupation       string    `json:"occupation,omitempty"`
	Preferences      []string  `json:"preferences,omitempty"`
	TopicsOfInterest []string  `json:"topics_of_interest,omitempty"`
	Embedding        []float64 `json:"-"`
	CreatedAt        time.Time `json:"created_at"`
	LastUpdated      time.Time `json:"last_updated"`
}

// DescriptionText is the profile body used as item content.
// Field order: bio, occupation, location, preferences, topics of interest.
func (up *UserProfile) DescriptionText() string {
	return assembleText([]textField{
		{
			present: func() bool { return up.Bio != "" },
			format:  func() string { return up.Bio },
		},
		{
			present: func() bool { return up.Occupation != "" },
			format:  func() string { return "Occupation: " + up.Occupation },
		},
		{
			present: func() bool { return up.Location != "" },
			format:  func() string { return "Location: " + up.Location },
		},
		{
			present: func() bool { return len(up.Preferences) > 0 },
			format:  func() string { return "Preferences: " + joinList(up.Preferences) },
		},
		{
			present: func() bool { return len(up.TopicsOfInterest) > 0 },
			format:  func() string { return "Topics of interest: " + joinList(up.TopicsOfInterest) },
		},
	})
}

// Item projects the profile into the retrieval shape
func (up *UserProfile) Item() Item {
	tags := NormalizeTags(up.TopicsOfInterest)
	return Item{
		ID:        ProfileItemID,
		Kind:      KindProfile,
		Title:     up.Name,
		Content:   up.DescriptionText(),
		Tags:      tags,
		Embedding: up.Embedding,
		CreatedAt: up.CreatedAt,
		UpdatedAt: up.LastUpdated,
	}
}

// EmbeddingText is the text the profile is embedded from
func (up *UserProfile) EmbeddingText() string {
	item := up.Item()
	return item.EmbeddingText()
}

// Merge merges new user info into the profile.
// Scalar fields are replaced when non-empty; list fields are appended without duplicates.
func (up *UserProfile) Merge(newInfo map[string]interface{}) {
	setString := func(key string, dst *string) {
		if v, ok := newInfo[key].(string); ok && v != "" {
			*dst = v
		}
	}
	setString("name", &up.Name)
	setString("bio", &up.Bio)
	setString("location", &up.Location)
	setString("occupation", &up.Occupation)

	up.Preferences = mergeUnique(up.Preferences, newInfo["preferences"])
	up.TopicsOfInterest = mergeUnique(up.TopicsOfInterest, newInfo["topics_of_interest"])

	// Content changed, so the stored vector no longer describes it
	up.Embedding = nil
	up.LastUpdated = time.Now().UTC()
}

func mergeUnique(existing []string, raw interface{}) []string {
	var incoming []string
	switch v := raw.(type) {
	case []string:
		incoming = v
	case []interface{}:
		for _, item := range v {
			if s, ok := item.(string); ok {
				incoming = append(incoming, s)
			}
		}
	}

	for _, s := range incoming {
		if s != "" && !contains(existing, s) {
			existing = append(existing, s)
		}
	}
	return existing
}

// contains checks if a string slice contains a specific string
func contains(slice []string, item string) bool {
	for _, s := range slice {
		if s == item {
			return true
		}
	}
	return false
}
