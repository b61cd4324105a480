package handler

import (
	"net/url"
)

// maxURLLength matches the original_url column width.
const maxURLLength = 2048

// validateURL checks the submitted URL before the service is invoked. It
// returns the messages for the 422 response body, one per failed rule.
func validateURL(rawURL string) []string {
	if rawURL == "" {
		return []string{"The url field is required."}
	}

	if len(rawURL) > maxURLLength {
		return []string{"The url field must not be greater than 2048 characters."}
	}

	parsed, err := url.Parse(rawURL)
	if err != nil || parsed.Host == "" ||
		(parsed.Scheme != "http" && parsed.Scheme != "https") {
		return []string{"The url field must be a valid URL."}
	}

	return nil
}
