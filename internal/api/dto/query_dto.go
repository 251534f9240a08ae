package dto

const (
	DefaultPage  = 1
	DefaultLimit = 10
)

// PageQuery is the ?page=&limit= range shared by list endpoints.
type PageQuery struct {
	Page  int `query:"page" json:"page" validate:"min=1"`
	Limit int `query:"limit" json:"limit" validate:"min=1,max=50"`
}

// NewPageQuery returns the defaults applied when a parameter is absent.
func NewPageQuery() PageQuery {
	return PageQuery{Page: DefaultPage, Limit: DefaultLimit}
}
