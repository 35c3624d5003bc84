// ABOUTME: CLI command to view and update user profile
// ABOUTME: Shows name, bio, preferences, and topics of interest
package commands

import (
	"fmt"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"
)

var (
	profileName        string
	profileBio         string
	profileLocation    string
	profileOccupation  string
	profilePreferences []string
	profileTopics      []string
)

// NewProfileCmd creates profile command
func NewProfileCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "profile",
		Short: "View and manage user profile",
		Long: `View and manage your user profile.

The profile stores your name, a short bio, preferences, and topics of
interest. It is searchable with "recall search --kind profile".

Examples:
  recall profile
  recall profile --format json
  recall profile set --name "Doctor Biz"
  recall profile set --preference "prefers TDD"
  recall profile set --topic "Go programming"`,
		RunE: runProfileShow,
	}

	setCmd := &cobra.Command{
		Use:   "set",
		Short: "Update profile fields",
		Long: `Update profile fields. Scalar fields are replaced; preferences and
topics are appended.

Examples:
  recall profile set --name "Doctor Biz"
  recall profile set --bio "Builds CLI tools" --location "Chicago"
  recall profile set --preference "prefers simple solutions"
  recall profile set --topic "MCP servers" --topic "Go programming"`,
		RunE: runProfileSet,
	}

	setCmd.Flags().StringVar(&profileName, "name", "", "Set user name")
	setCmd.Flags().StringVar(&profileBio, "bio", "", "Set a short bio")
	setCmd.Flags().StringVar(&profileLocation, "location", "", "Set location")
	setCmd.Flags().StringVar(&profileOccupation, "occupation", "", "Set occupation")
	setCmd.Flags().StringArrayVar(&profilePreferences, "preference", nil, "Add a preference (can be repeated)")
	setCmd.Flags().StringArrayVar(&profileTopics, "topic", nil, "Add a topic of interest (can be repeated)")

	cmd.AddCommand(setCmd)

	return cmd
}

func runProfileShow(cmd *cobra.Command, args []string) error {
	a, err := openApp()
	if err != nil {
		return err
	}
	defer func() { _ = a.Close() }()

	profile, err := a.Storage.GetUserProfile(cmd.Context())
	if err != nil {
		return fmt.Errorf("getting profile: %w", err)
	}

	out := cmd.OutOrStdout()
	if profile == nil {
		if !quiet {
			_, _ = fmt.Fprintf(out, "No profile found. Create one with: recall profile set --name \"Your Name\"\n")
		}
		return nil
	}

	if wantJSON(out) {
		return writeJSON(out, profile)
	}

	w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	_, _ = fmt.Fprintf(w, "FIELD\tVALUE\n")
	_, _ = fmt.Fprintf(w, "-----\t-----\n")

	fields := []struct {
		label string
		value string
	}{
		{"Name", profile.Name},
		{"Bio", profile.Bio},
		{"Occupation", profile.Occupation},
		{"Location", profile.Location},
	}
	for _, f := range fields {
		value := f.value
		if value == "" {
			value = "(not set)"
		}
		_, _ = fmt.Fprintf(w, "%s\t%s\n", f.label, truncate(value, 60))
	}

	prefs := "(none)"
	if len(profile.Preferences) > 0 {
		prefs = strings.Join(profile.Preferences, ", ")
	}
	_, _ = fmt.Fprintf(w, "Preferences\t%s\n", truncate(prefs, 60))

	topics := "(none)"
	if len(profile.TopicsOfInterest) > 0 {
		topics = strings.Join(profile.TopicsOfInterest, ", ")
	}
	_, _ = fmt.Fprintf(w, "Topics\t%s\n", truncate(topics, 60))

	embedded := "no"
	if len(profile.Embedding) > 0 {
		embedded = "yes"
	}
	_, _ = fmt.Fprintf(w, "Embedded\t%s\n", embedded)
	_, _ = fmt.Fprintf(w, "Last Updated\t%s\n", formatTime(profile.LastUpdated))

	if err := w.Flush(); err != nil {
		return err
	}

	// Show full lists if truncated
	if len([]rune(prefs)) > 60 {
		_, _ = fmt.Fprintf(out, "\nPreferences:\n")
		for _, p := range profile.Preferences {
			_, _ = fmt.Fprintf(out, "  • %s\n", p)
		}
	}
	if len([]rune(topics)) > 60 {
		_, _ = fmt.Fprintf(out, "\nTopics of Interest:\n")
		for _, t := range profile.TopicsOfInterest {
			_, _ = fmt.Fprintf(out, "  • %s\n", t)
		}
	}

	return nil
}

func runProfileSet(cmd *cobra.Command, args []string) error {
	updateInfo := make(map[string]interface{})
	scalars := []struct {
		key   string
		value string
	}{
		{"name", profileName},
		{"bio", profileBio},
		{"location", profileLocation},
		{"occupation", profileOccupation},
	}
	for _, s := range scalars {
		if s.value != "" {
			updateInfo[s.key] = s.value
		}
	}
	if len(profilePreferences) > 0 {
		updateInfo["preferences"] = profilePreferences
	}
	if len(profileTopics) > 0 {
		updateInfo["topics_of_interest"] = profileTopics
	}

	if len(updateInfo) == 0 {
		return fmt.Errorf("no updates specified. Use --name, --bio, --location, --occupation, --preference, or --topic")
	}

	a, err := openApp()
	if err != nil {
		return err
	}
	defer func() { _ = a.Close() }()

	if _, err := a.UpdateProfile(cmd.Context(), updateInfo); err != nil {
		return fmt.Errorf("saving profile: %w", err)
	}

	if !quiet {
		_, _ = fmt.Fprintf(cmd.OutOrStdout(), "Profile updated successfully\n")
	}
	return nil
}
