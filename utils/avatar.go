package utils

import "net/url"

// PlaceholderAvatarURL builds the deterministic generated-avatar URL used
// when a profile has no uploaded image.
func PlaceholderAvatarURL(username string) string {
	return "https://ui-avatars.com/api/?background=random&name=" +
		url.QueryEscape(username) + "&rounded=true&format=svg"
}
