// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package cache

import "strings"

// Key namespaces. Tenant-scoped keys start with "<namespace>:<tenant>:" so
// a tenant's entries can be dropped with DeleteByPrefix.
const (
	NamespacePosts       = "posts"
	NamespacePost        = "post"
	NamespaceSubmissions = "submission"
)

// PostsKey is the key of a tenant's post list for a status.
// Format: posts:{tenant}:{status}
func PostsKey(tenantKey, status string) string {
	return NamespacePosts + ":" + tenantKey + ":" + strings.ToLower(status)
}

// PostKey is the key of a single post fetched by slug.
// Format: post:{tenant}:{slug}
func PostKey(tenantKey, slug string) string {
	return NamespacePost + ":" + tenantKey + ":" + slug
}

// SubmissionKey is the de-duplication key of a comment form submission.
// Format: submission:{token}
func SubmissionKey(token string) string {
	return NamespaceSubmissions + ":" + token
}

// TenantPrefix returns the prefix shared by all keys of namespace for tenant.
func TenantPrefix(namespace, tenantKey string) string {
	return namespace + ":" + tenantKey + ":"
}
