package models

// Image is an asset hosted on the CDN.
type Image struct {
	URL      string `bson:"url" json:"url"`
	PublicID string `bson:"publicId" json:"publicId"`
}

// PageRef points at an adjacent page.
type PageRef struct {
	Page  int64 `json:"page"`
	Limit int64 `json:"limit"`
}

// Pagination describes one page of a filtered list.
type Pagination struct {
	Total       int64    `json:"total"`
	Pages       int64    `json:"pages"`
	CurrentPage int64    `json:"currentPage"`
	Limit       int64    `json:"limit"`
	Next        *PageRef `json:"next,omitempty"`
	Prev        *PageRef `json:"prev,omitempty"`
}

// NewPagination computes page counts and neighbours for total items.
func NewPagination(total, page, limit int64) Pagination {
	if limit < 1 {
		limit = 1
	}
	if page < 1 {
		page = 1
	}
	pages := (total + limit - 1) / limit
	p := Pagination{Total: total, Pages: pages, CurrentPage: page, Limit: limit}
	if page < pages {
		p.Next = &PageRef{Page: page + 1, Limit: limit}
	}
	switch {
	case page > pages:
		// Past the end: point back at the last page, if any.
		if pages > 0 {
			p.Prev = &PageRef{Page: pages, Limit: limit}
		}
	case page > 1:
		p.Prev = &PageRef{Page: page - 1, Limit: limit}
	}
	return p
}
