package models

// UserFilters narrows a user listing. Zero values mean "no filter".
type UserFilters struct {
	SearchTerm string
	Fullname   string
	Email      string
	Phone      string
	Role       Role
}

// PaginationOptions as received from the query string, already defaulted.
type PaginationOptions struct {
	Page      int
	Limit     int
	SortBy    string
	SortOrder string
}

// Offset is the number of rows skipped for the current page.
func (p PaginationOptions) Offset() int {
	if p.Page < 1 {
		return 0
	}
	return (p.Page - 1) * p.Limit
}

// PageMeta accompanies every paginated response.
type PageMeta struct {
	Total int `json:"total"`
	Page  int `json:"page"`
	Limit int `json:"limit"`
}

// UserPage is one page of users.
type UserPage struct {
	Meta PageMeta `json:"meta"`
	Data []*User  `json:"data"`
}
