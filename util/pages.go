package util

import (
	"fmt"
	"html/template"
	"sort"
)

// Pages returns non-consecutive page numbers from 1 to numPages.
// The distance to currentPage doubles with every step.
func Pages(currentPage int, numPages int) []int {

	pages := map[int]struct{}{}

	pages[1] = struct{}{}
	pages[currentPage] = struct{}{}
	pages[numPages] = struct{}{}

	for delta := 1; currentPage-delta > 1 || currentPage+delta < numPages; delta *= 2 {
		if currentPage-delta > 0 {
			pages[currentPage-delta] = struct{}{}
		}
		if currentPage+delta < numPages {
			pages[currentPage+delta] = struct{}{}
		}
	}

	pageslice := make([]int, 0, len(pages))
	for page := range pages {
		pageslice = append(pageslice, page)
	}
	sort.Ints(pageslice)
	return pageslice
}

// PageLinks calls Pages and returns bootstrap pagination items. href must return an URL which needs no escaping.
func PageLinks(currentPage int, numPages int, href func(page int) string) []template.HTML {

	pagelinks := []template.HTML{}

	if currentPage < 1 || numPages < 1 {
		return pagelinks
	}

	var item = func(page int, name string) template.HTML {
		if page == currentPage {
			return template.HTML(fmt.Sprintf(`<li class="page-item active"><span class="page-link">%s</span></li>`, name))
		}
		return template.HTML(fmt.Sprintf(`<li class="page-item"><a class="page-link" href="%s">%s</a></li>`, href(page), name))
	}

	if currentPage > 1 {
		pagelinks = append(pagelinks, item(currentPage-1, `&laquo;`))
	}

	for _, page := range Pages(currentPage, numPages) {
		pagelinks = append(pagelinks, item(page, fmt.Sprint(page)))
	}

	if currentPage < numPages {
		pagelinks = append(pagelinks, item(currentPage+1, `&raquo;`))
	}

	return pagelinks
}
