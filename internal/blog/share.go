// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package blog

import "net/url"

// ShareLink is a social sharing target for a post.
type ShareLink struct {
	Network string
	Label   string
	URL     string
}

// ShareLinks returns sharing URLs for postURL. Networks are listed in the
// order they are rendered.
func ShareLinks(postURL, title string) []ShareLink {
	u := url.QueryEscape(postURL)
	t := url.QueryEscape(title)

	return []ShareLink{
		{Network: "x", Label: "X", URL: "https://twitter.com/intent/tweet?url=" + u + "&text=" + t},
		{Network: "linkedin", Label: "LinkedIn", URL: "https://www.linkedin.com/sharing/share-offsite/?url=" + u},
		{Network: "facebook", Label: "Facebook", URL: "https://www.facebook.com/sharer/sharer.php?u=" + u},
		{Network: "whatsapp", Label: "WhatsApp", URL: "https://wa.me/?text=" + url.QueryEscape(title+" "+postURL)},
		{Network: "email", Label: "Email", URL: "mailto:?subject=" + url.PathEscape(title) + "&body=" + url.PathEscape(postURL)},
	}
}
