package dtos

// ListUsersQuery is the query string accepted by the user listing. Zero
// values are replaced by defaults before the query reaches the service.
type ListUsersQuery struct {
	SearchTerm string `json:"searchTerm" validate:"omitempty,max=100"`
	Fullname   string `json:"fullname" validate:"omitempty,max=100"`
	Email      string `json:"email" validate:"omitempty,max=254"`
	Phone      string `json:"phone" validate:"omitempty,max=32"`
	Role       string `json:"role" validate:"omitempty,oneof=SUPER_ADMIN ADMIN SELLER USER"`
	Page       int    `json:"page" validate:"gte=0,lte=1000000"`
	Limit      int    `json:"limit" validate:"gte=0,lte=100"`
	SortBy     string `json:"sortBy" validate:"omitempty,oneof=createdAt updatedAt fullname email role"`
	SortOrder  string `json:"sortOrder" validate:"omitempty,oneof=asc desc"`
}
