package service

import (
	"sort"
	"strings"

	"github.com/jengzang/hcip-dashboard-go/internal/errors"
	"github.com/jengzang/hcip-dashboard-go/internal/models"
	"github.com/jengzang/hcip-dashboard-go/internal/pipeline"
	"github.com/jengzang/hcip-dashboard-go/internal/stats"
)

// SiteService handles single-site queries
type SiteService struct {
	source DataSource
}

// NewSiteService creates a new site service
func NewSiteService(source DataSource) *SiteService {
	return &SiteService{source: source}
}

// Detail returns the summary row of one site
func (s *SiteService) Detail(key models.SiteKey) (*models.SiteSummary, error) {
	for _, site := range s.source.Current().Sites {
		if site.Key() == key {
			return &site, nil
		}
	}
	return nil, errors.Wrapf(errors.ErrNotFound, "site %s/%s/%s", key.PackageName, key.District, key.SiteName)
}

// Tasks returns every task row of one site. Key fields compare exactly, so a
// blank district names its own site.
func (s *SiteService) Tasks(key models.SiteKey) []models.TaskRecord {
	tasks := s.source.Current().Tasks
	out := make([]models.TaskRecord, 0)
	for i := range tasks {
		if tasks[i].Key() == key {
			out = append(out, tasks[i])
		}
	}
	return out
}

// IPC returns the inspection stages recorded for the site's package
func (s *SiteService) IPC(key models.SiteKey) (*models.SiteIPC, error) {
	if _, err := s.Detail(key); err != nil {
		return nil, err
	}

	var stages [models.IPCStageCount]*string
	if meta := metadataFor(s.source.Current(), key.PackageName); meta != nil {
		stages = meta.IPCStages()
	}
	values := make([]string, models.IPCStageCount)
	for i, v := range stages {
		values[i] = pipeline.IPCNotSubmitted
		if v != nil {
			values[i] = *v
		}
	}

	return &models.SiteIPC{
		SiteKey:      key,
		IPC1:         values[0],
		IPC2:         values[1],
		IPC3:         values[2],
		IPC4:         values[3],
		IPC5:         values[4],
		IPC6:         values[5],
		IPCBestStage: pipeline.BestIPCStage(stages),
	}, nil
}

// Photos returns the tasks of a site that carry at least one photo link
func (s *SiteService) Photos(key models.SiteKey) []models.SitePhoto {
	photos := make([]models.SitePhoto, 0)
	for _, t := range s.Tasks(key) {
		if !t.HasPhoto() {
			continue
		}
		photos = append(photos, models.SitePhoto{
			TaskName:             t.TaskName,
			Discipline:           t.Discipline,
			BeforePhotoShareURL:  link(t.BeforePhotoShareURL),
			BeforePhotoDirectURL: link(t.BeforePhotoDirectURL),
			AfterPhotoShareURL:   link(t.AfterPhotoShareURL),
			AfterPhotoDirectURL:  link(t.AfterPhotoDirectURL),
		})
	}
	return photos
}

// Disciplines returns mean task progress per discipline, lowest first
func (s *SiteService) Disciplines(key models.SiteKey) []models.DisciplineProgress {
	groups := make(map[string][]float64)
	for _, t := range s.Tasks(key) {
		groups[t.Discipline] = append(groups[t.Discipline], t.ProgressPct)
	}

	out := make([]models.DisciplineProgress, 0, len(groups))
	for discipline, values := range groups {
		out = append(out, models.DisciplineProgress{
			Discipline:  discipline,
			AvgProgress: stats.Round1(stats.MeanOrZero(values)),
			TaskCount:   len(values),
		})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].AvgProgress != out[j].AvgProgress {
			return out[i].AvgProgress < out[j].AvgProgress
		}
		return out[i].Discipline < out[j].Discipline
	})
	return out
}

func link(v string) *string {
	v = strings.TrimSpace(v)
	if v == "" {
		return nil
	}
	return &v
}
