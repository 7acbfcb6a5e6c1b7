package out

import (
	"context"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"studytrace/internal/modules/segmentation/domain"
	segmentationout "studytrace/internal/modules/segmentation/port/out"
)

type taxonomyFile struct {
	SiteAreas           []string `yaml:"site_areas"`
	LearningComponents  []string `yaml:"learning_components"`
	LoginComponent      string   `yaml:"login_component"`
	LogoutComponent     string   `yaml:"logout_component"`
	CourseHomeComponent string   `yaml:"course_home_component"`
	AttendanceComponent string   `yaml:"attendance_component"`
	AttendanceMaxEvents *int     `yaml:"attendance_max_events"`
}

// YAMLTaxonomySource reads a taxonomy file. Keys left out keep the built-in
// defaults; an empty path yields the defaults unchanged.
type YAMLTaxonomySource struct {
	path string
}

func NewYAMLTaxonomySource(path string) segmentationout.TaxonomySource {
	return &YAMLTaxonomySource{path: path}
}

func (s *YAMLTaxonomySource) LoadTaxonomy(_ context.Context) (domain.Taxonomy, error) {
	tax := domain.DefaultTaxonomy()
	if s.path == "" {
		return tax, nil
	}
	raw, err := os.ReadFile(s.path)
	if err != nil {
		return domain.Taxonomy{}, fmt.Errorf("read taxonomy: %w", err)
	}
	var file taxonomyFile
	if err := yaml.Unmarshal(raw, &file); err != nil {
		return domain.Taxonomy{}, fmt.Errorf("unmarshal taxonomy: %w", err)
	}
	if file.SiteAreas != nil {
		tax.SiteAreas = file.SiteAreas
	}
	if file.LearningComponents != nil {
		tax.LearningComponents = file.LearningComponents
	}
	setIfPresent(&tax.LoginComponent, file.LoginComponent)
	setIfPresent(&tax.LogoutComponent, file.LogoutComponent)
	setIfPresent(&tax.CourseHomeComponent, file.CourseHomeComponent)
	setIfPresent(&tax.AttendanceComponent, file.AttendanceComponent)
	if file.AttendanceMaxEvents != nil {
		tax.AttendanceMaxEvents = *file.AttendanceMaxEvents
	}
	if err := tax.Validate(); err != nil {
		return domain.Taxonomy{}, err
	}
	return tax, nil
}

func setIfPresent(dst *string, v string) {
	if v != "" {
		*dst = v
	}
}
