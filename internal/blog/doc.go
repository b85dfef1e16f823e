// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

// Package blog holds the pure presentation logic of the blog: read-time and
// date derivation, hero promotion and pagination of the post index, related
// post selection and share links. Nothing here performs I/O.
package blog
