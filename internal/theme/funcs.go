// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package theme

import (
	"html/template"

	"github.com/olegiv/tenantblog/internal/blog"
	"github.com/olegiv/tenantblog/internal/model"
	"github.com/olegiv/tenantblog/internal/uikit"
	"github.com/olegiv/tenantblog/internal/util"
)

// Funcs returns the template functions used by the blog templates.
func Funcs() template.FuncMap {
	funcs := uikit.TemplateFuncs()
	funcs["tagLabel"] = util.TagLabel
	funcs["readTime"] = blog.ReadTimeMinutes
	funcs["shortDate"] = func(p model.Post) string {
		return blog.DisplayDate(p, blog.DateLayoutShort)
	}
	funcs["longDate"] = func(p model.Post) string {
		return blog.DisplayDate(p, blog.DateLayoutLong)
	}
	return funcs
}
