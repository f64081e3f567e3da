package models

// SiteFilter represents filter parameters for site and task listings
type SiteFilter struct {
	PackageName string `form:"package_name"`
	District    string `form:"district"`
	SiteName    string `form:"site_name"`
	Status      string `form:"status"` // Active, Inactive, Completed
}

// SiteKeyQuery represents the site key query parameters. All three must be
// present; an empty value addresses a site whose key field is blank.
type SiteKeyQuery struct {
	PackageName string `form:"package_name"`
	District    string `form:"district"`
	SiteName    string `form:"site_name"`
}

// SiteKeyParams lists the query parameters of SiteKeyQuery
var SiteKeyParams = []string{"package_name", "district", "site_name"}

// Key converts the query into a SiteKey
func (q SiteKeyQuery) Key() SiteKey {
	return SiteKey{PackageName: q.PackageName, District: q.District, SiteName: q.SiteName}
}

// RankingFilter represents filter parameters for ranked site lists
type RankingFilter struct {
	PackageName string `form:"package_name"`
	District    string `form:"district"`
	Limit       int    `form:"limit"`
}
