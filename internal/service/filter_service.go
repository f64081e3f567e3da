package service

import "github.com/jengzang/hcip-dashboard-go/internal/models"

// FilterService provides dropdown values, always sorted
type FilterService struct {
	source DataSource
}

// NewFilterService creates a new filter service
func NewFilterService(source DataSource) *FilterService {
	return &FilterService{source: source}
}

// Packages returns the distinct package names
func (s *FilterService) Packages() []string {
	set := make(map[string]struct{})
	for _, site := range s.source.Current().Sites {
		set[site.PackageName] = struct{}{}
	}
	return sortedKeys(set)
}

// Districts returns the distinct districts, optionally within one package
func (s *FilterService) Districts(packageName string) []string {
	set := make(map[string]struct{})
	for _, site := range filterSites(s.source.Current().Sites, models.SiteFilter{PackageName: packageName}) {
		set[site.District] = struct{}{}
	}
	return sortedKeys(set)
}

// Sites returns the distinct site names under the given package and district
func (s *FilterService) Sites(packageName, district string) []string {
	set := make(map[string]struct{})
	f := models.SiteFilter{PackageName: packageName, District: district}
	for _, site := range filterSites(s.source.Current().Sites, f) {
		set[site.SiteName] = struct{}{}
	}
	return sortedKeys(set)
}

// Statuses returns the distinct site statuses present
func (s *FilterService) Statuses() []string {
	set := make(map[string]struct{})
	for _, site := range s.source.Current().Sites {
		set[string(site.SiteStatus)] = struct{}{}
	}
	return sortedKeys(set)
}
