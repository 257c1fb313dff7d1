// Package assets derives public image URLs from entity names. Nothing here
// checks that an object exists; callers hide images that fail to load.
package assets

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/medoraclinic/medora-site/backend/internal/domain/entities"
	"github.com/medoraclinic/medora-site/backend/pkg/slug"
)

// CacheBucket is the width of the cache-busting window. A re-uploaded image
// becomes visible through the CDN within one bucket.
const CacheBucket = time.Hour

// ProcedureRole is a fixed image slot of a procedure page.
type ProcedureRole string

const (
	RoleHero      ProcedureRole = "hero"
	RoleBenefits  ProcedureRole = "benefits"
	RoleCandidate ProcedureRole = "candidate"
)

// Resolver builds object keys and public URLs under a fixed base.
type Resolver struct {
	baseURL string
	now     func() time.Time
}

// NewResolver creates a resolver rooted at the bucket's public base URL.
func NewResolver(baseURL string) *Resolver {
	return &Resolver{
		baseURL: strings.TrimRight(baseURL, "/"),
		now:     time.Now,
	}
}

// WithClock returns a copy of r that reads the time from now.
func (r *Resolver) WithClock(now func() time.Time) *Resolver {
	cp := *r
	cp.now = now
	return &cp
}

// Bucket returns the current cache-busting value, floor(unix / 1h).
func (r *Resolver) Bucket() int64 {
	return r.now().Unix() / int64(CacheBucket/time.Second)
}

// URL returns the public, cache-busted URL of key.
func (r *Resolver) URL(key string) string {
	return r.baseURL + "/" + strings.TrimLeft(key, "/") + "?v=" + strconv.FormatInt(r.Bucket(), 10)
}

// HomepageKey is the key of a homepage section image.
func HomepageKey(section string) string {
	return "homepage/" + section + ".jpg"
}

// ProcedureDir is the folder holding every image of a procedure.
func ProcedureDir(procedureName string) string {
	return "procedures/" + slug.Make(procedureName)
}

// ProcedureKey is the key of a procedure role image.
func ProcedureKey(procedureName string, role ProcedureRole) string {
	return ProcedureDir(procedureName) + "/" + string(role) + ".jpg"
}

// ProcedureCaseKey is the key of the index-th (1-based) image of a case.
func ProcedureCaseKey(procedureName, caseNumber string, index int) string {
	return fmt.Sprintf("%s/case-%s-%d.jpg", ProcedureDir(procedureName), caseNumber, index)
}

// GalleryKey is the key of the index-th image of a gallery category.
func GalleryKey(category string, index int) string {
	return fmt.Sprintf("gallery/%s/%02d.jpg", category, index)
}

// GallerySubcategoryKey is the key of a gallery subcategory thumbnail.
func GallerySubcategoryKey(subcategory string) string {
	return "gallery/" + subcategory + ".jpg"
}

// ReviewsStepKey is the key of a reviews-page step illustration.
func ReviewsStepKey(step int) string {
	return fmt.Sprintf("reviews/step-%d.jpg", step)
}

// SurgeonKey is the key of a surgeon image slot.
func SurgeonKey(surgeonID string, slot entities.ImageSlot) string {
	return "surgeons/" + slug.Make(surgeonID) + "/" + string(slot) + ".jpg"
}

func (r *Resolver) HomepageImage(section string) string {
	return r.URL(HomepageKey(section))
}

func (r *Resolver) ProcedureImage(procedureName string, role ProcedureRole) string {
	return r.URL(ProcedureKey(procedureName, role))
}

func (r *Resolver) ProcedureCaseImage(procedureName, caseNumber string, index int) string {
	return r.URL(ProcedureCaseKey(procedureName, caseNumber, index))
}

func (r *Resolver) GalleryImage(category string, index int) string {
	return r.URL(GalleryKey(category, index))
}

func (r *Resolver) GallerySubcategoryImage(subcategory string) string {
	return r.URL(GallerySubcategoryKey(subcategory))
}

func (r *Resolver) ReviewsStepImage(step int) string {
	return r.URL(ReviewsStepKey(step))
}

// ProcedureImages returns the three role images of a procedure page.
func (r *Resolver) ProcedureImages(procedureName string) entities.ProcedureImages {
	return entities.ProcedureImages{
		Hero:      r.ProcedureImage(procedureName, RoleHero),
		Benefits:  r.ProcedureImage(procedureName, RoleBenefits),
		Candidate: r.ProcedureImage(procedureName, RoleCandidate),
	}
}

// PresentCase attaches the layout and image URLs of c.
func (r *Resolver) PresentCase(procedureName string, c *entities.ProcedureCase) entities.PresentedCase {
	layout := LayoutFor(c.ImageCount)
	for i := range layout.Slots {
		layout.Slots[i].URL = r.ProcedureCaseImage(procedureName, c.CaseNumber, layout.Slots[i].Index)
	}
	return entities.PresentedCase{ProcedureCase: *c, Layout: layout}
}
