package professional

import (
	"slices"
	"time"

	"github.com/nekogravitycat/home-services-backend/internal/pkg/apperror"
)

var (
	ErrNotFound        = apperror.NotFound("professional profile not found")
	ErrUnknownCategory = apperror.InvalidArgument("unknown service category")
)

// Profile is the professional-side record attached to a user with role professional.
type Profile struct {
	UserID            string
	Name              string
	Email             string
	Phone             *string
	ServiceCategories []string
	Availability      map[string]any
	Verified          bool
	Rating            float64
	TotalReviews      int
	CreatedAt         time.Time
}

// Serves reports whether categoryID is among the declared categories.
func (p *Profile) Serves(categoryID string) bool {
	return slices.Contains(p.ServiceCategories, categoryID)
}

// Filter defines parameters for listing profiles.
type Filter struct {
	Verified *bool
	Page     int
	PageSize int
}

// Earnings summarizes a professional's track record.
type Earnings struct {
	CompletedJobs int
	Rating        float64
	TotalReviews  int
}
